package value

import (
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// Value is a single typed datum, the unit exchanged between expressions,
// parameters, and row storage.
type Value struct {
	typ   Type
	b     bool
	i     int64
	u     uint64
	f     float64
	s     string
	bytes []byte
	big   *big.Int
	dec   Decimal
	tm    time.Time
	dur   time.Duration
	id    uuid.UUID
}

// Decimal is a fixed-precision/scale arbitrary-magnitude number: the magnitude
// is an arbitrary-precision signed integer, scale is the number of digits
// right of the decimal point.
type Decimal struct {
	Precision uint8
	Scale     uint8
	Magnitude *big.Int
}

func (d Decimal) String() string {
	if d.Magnitude == nil {
		return "0"
	}
	s := d.Magnitude.String()
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	for len(s) <= int(d.Scale) {
		s = "0" + s
	}
	if d.Scale > 0 {
		cut := len(s) - int(d.Scale)
		s = s[:cut] + "." + s[cut:]
	}
	if neg {
		s = "-" + s
	}
	return s
}

func Undef() Value                        { return Value{typ: Undefined} }
func IsUndefined(v Value) bool            { return v.typ == Undefined }
func (v Value) Type() Type                { return v.typ }

func BoolValue(b bool) Value   { return Value{typ: Bool, b: b} }
func (v Value) Bool() bool     { return v.b }

func Int1Value(i int8) Value   { return Value{typ: Int1, i: int64(i)} }
func Int2Value(i int16) Value  { return Value{typ: Int2, i: int64(i)} }
func Int4Value(i int32) Value  { return Value{typ: Int4, i: int64(i)} }
func Int8Value(i int64) Value  { return Value{typ: Int8, i: i} }
func (v Value) Int64() int64   { return v.i }

func Uint1Value(u uint8) Value  { return Value{typ: Uint1, u: uint64(u)} }
func Uint2Value(u uint16) Value { return Value{typ: Uint2, u: uint64(u)} }
func Uint4Value(u uint32) Value { return Value{typ: Uint4, u: uint64(u)} }
func Uint8Value(u uint64) Value { return Value{typ: Uint8, u: u} }
func (v Value) Uint64() uint64  { return v.u }

func Float4Value(f float32) Value { return Value{typ: Float4, f: float64(f)} }
func Float8Value(f float64) Value { return Value{typ: Float8, f: f} }
func (v Value) Float64() float64  { return v.f }

func Utf8Value(s string) Value { return Value{typ: Utf8, s: s} }
func (v Value) Str() string    { return v.s }

func BlobValue(b []byte) Value { return Value{typ: Blob, bytes: b} }
func (v Value) Bytes() []byte  { return v.bytes }

func IntValue(i *big.Int) Value  { return Value{typ: Int, big: i} }
func UintValue(u *big.Int) Value { return Value{typ: Uint, big: u} }
func (v Value) Big() *big.Int    { return v.big }

func DecimalValue(d Decimal) Value { return Value{typ: Decimal, dec: d} }
func (v Value) Decimal() Decimal   { return v.dec }

func DateTimeValue(t time.Time) Value { return Value{typ: DateTime, tm: t} }
func (v Value) Time() time.Time       { return v.tm }

func IntervalValue(d time.Duration) Value { return Value{typ: Interval, dur: d} }
func (v Value) Duration() time.Duration   { return v.dur }

func Uuid4Value(id uuid.UUID) Value { return Value{typ: Uuid4, id: id} }
func Uuid7Value(id uuid.UUID) Value { return Value{typ: Uuid7, id: id} }
func IdentityIDValue(id uuid.UUID) Value { return Value{typ: IdentityID, id: id} }
func (v Value) UUID() uuid.UUID     { return v.id }

// RowNumberValue wraps a monotonically assigned row identifier.
func RowNumberValue(n uint64) Value { return Value{typ: RowNumber, u: n} }

func (v Value) String() string {
	switch v.typ {
	case Undefined:
		return "undefined"
	case Bool:
		return fmt.Sprintf("%v", v.b)
	case Int1, Int2, Int4, Int8:
		return fmt.Sprintf("%d", v.i)
	case Uint1, Uint2, Uint4, Uint8, RowNumber:
		return fmt.Sprintf("%d", v.u)
	case Float4, Float8:
		return fmt.Sprintf("%v", v.f)
	case Utf8:
		return v.s
	case Blob:
		return fmt.Sprintf("%x", v.bytes)
	case Int, Uint:
		if v.big == nil {
			return "0"
		}
		return v.big.String()
	case Decimal:
		return v.dec.String()
	case DateTime, Date, Time:
		return v.tm.String()
	case Interval:
		return v.dur.String()
	case Uuid4, Uuid7, IdentityID:
		return v.id.String()
	default:
		return "<?>"
	}
}
