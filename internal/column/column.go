// Package column implements typed column containers and Frames, the unit
// exchanged between volcano operators.
package column

import (
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/reifydb/reifydb/internal/value"
)

// Data is a typed vector with a null bitmap plus payload, one variant per
// primitive Type. Length equals the number of rows; Defined[i] is true iff
// row i carries a value.
type Data struct {
	Typ     value.Type
	Defined []bool

	Bools    []bool
	Ints     []int64   // Int1/Int2/Int4/Int8 share a backing slice, widened
	Uints    []uint64  // Uint1/Uint2/Uint4/Uint8/RowNumber share a backing slice
	Floats   []float64 // Float4/Float8
	Strings  []string
	Blobs    [][]byte
	Times    []int64 // Date/DateTime/Time as unix-nanos, Interval as nanos
	UUIDs    []uuid.UUID
	Bigs     []*big.Int // Int/Uint arbitrary precision
	Decimals []value.Decimal

	// SourceQualifier is the optional table/source this column was
	// projected from, preserved across operators that don't rename it
	// preserved across operators that don't rename it.
	SourceQualifier string
}

// NewData allocates an empty column of the given type and capacity.
func NewData(t value.Type, capacity int) *Data {
	d := &Data{Typ: t, Defined: make([]bool, 0, capacity)}
	switch {
	case t == value.Bool:
		d.Bools = make([]bool, 0, capacity)
	case t == value.Int1 || t == value.Int2 || t == value.Int4 || t == value.Int8:
		d.Ints = make([]int64, 0, capacity)
	case t == value.Uint1 || t == value.Uint2 || t == value.Uint4 || t == value.Uint8 || t == value.RowNumber:
		d.Uints = make([]uint64, 0, capacity)
	case t == value.Float4 || t == value.Float8:
		d.Floats = make([]float64, 0, capacity)
	case t == value.Utf8:
		d.Strings = make([]string, 0, capacity)
	case t == value.Blob:
		d.Blobs = make([][]byte, 0, capacity)
	case t == value.Date || t == value.DateTime || t == value.Time || t == value.Interval:
		d.Times = make([]int64, 0, capacity)
	case t == value.Uuid4 || t == value.Uuid7 || t == value.IdentityID:
		d.UUIDs = make([]uuid.UUID, 0, capacity)
	case t == value.Int || t == value.Uint:
		d.Bigs = make([]*big.Int, 0, capacity)
	case t == value.Decimal:
		d.Decimals = make([]value.Decimal, 0, capacity)
	}
	return d
}

// Len reports the number of rows.
func (d *Data) Len() int { return len(d.Defined) }

// Push appends v (which must match d.Typ, or be Undef()) as the next row.
func (d *Data) Push(v value.Value) {
	if value.IsUndefined(v) {
		d.Defined = append(d.Defined, false)
		d.pushZero()
		return
	}
	d.Defined = append(d.Defined, true)
	switch d.Typ {
	case value.Bool:
		d.Bools = append(d.Bools, v.Bool())
	case value.Int1, value.Int2, value.Int4, value.Int8:
		d.Ints = append(d.Ints, v.Int64())
	case value.Uint1, value.Uint2, value.Uint4, value.Uint8, value.RowNumber:
		d.Uints = append(d.Uints, v.Uint64())
	case value.Float4, value.Float8:
		d.Floats = append(d.Floats, v.Float64())
	case value.Utf8:
		d.Strings = append(d.Strings, v.Str())
	case value.Blob:
		d.Blobs = append(d.Blobs, v.Bytes())
	case value.Date, value.DateTime, value.Time:
		d.Times = append(d.Times, v.Time().UnixNano())
	case value.Interval:
		d.Times = append(d.Times, int64(v.Duration()))
	case value.Uuid4, value.Uuid7, value.IdentityID:
		d.UUIDs = append(d.UUIDs, v.UUID())
	case value.Int, value.Uint:
		d.Bigs = append(d.Bigs, v.Big())
	case value.Decimal:
		d.Decimals = append(d.Decimals, v.Decimal())
	}
}

func (d *Data) pushZero() {
	switch d.Typ {
	case value.Bool:
		d.Bools = append(d.Bools, false)
	case value.Int1, value.Int2, value.Int4, value.Int8:
		d.Ints = append(d.Ints, 0)
	case value.Uint1, value.Uint2, value.Uint4, value.Uint8, value.RowNumber:
		d.Uints = append(d.Uints, 0)
	case value.Float4, value.Float8:
		d.Floats = append(d.Floats, 0)
	case value.Utf8:
		d.Strings = append(d.Strings, "")
	case value.Blob:
		d.Blobs = append(d.Blobs, nil)
	case value.Date, value.DateTime, value.Time, value.Interval:
		d.Times = append(d.Times, 0)
	case value.Uuid4, value.Uuid7, value.IdentityID:
		d.UUIDs = append(d.UUIDs, uuid.UUID{})
	case value.Int, value.Uint:
		d.Bigs = append(d.Bigs, nil)
	case value.Decimal:
		d.Decimals = append(d.Decimals, value.Decimal{})
	}
}

// Get reconstructs row i as a Value, or Undef() if null.
func (d *Data) Get(i int) value.Value {
	if i >= len(d.Defined) || !d.Defined[i] {
		return value.Undef()
	}
	switch d.Typ {
	case value.Bool:
		return value.BoolValue(d.Bools[i])
	case value.Int1:
		return value.Int1Value(int8(d.Ints[i]))
	case value.Int2:
		return value.Int2Value(int16(d.Ints[i]))
	case value.Int4:
		return value.Int4Value(int32(d.Ints[i]))
	case value.Int8:
		return value.Int8Value(d.Ints[i])
	case value.Uint1:
		return value.Uint1Value(uint8(d.Uints[i]))
	case value.Uint2:
		return value.Uint2Value(uint16(d.Uints[i]))
	case value.Uint4:
		return value.Uint4Value(uint32(d.Uints[i]))
	case value.Uint8:
		return value.Uint8Value(d.Uints[i])
	case value.RowNumber:
		return value.RowNumberValue(d.Uints[i])
	case value.Float4:
		return value.Float4Value(float32(d.Floats[i]))
	case value.Float8:
		return value.Float8Value(d.Floats[i])
	case value.Utf8:
		return value.Utf8Value(d.Strings[i])
	case value.Blob:
		return value.BlobValue(d.Blobs[i])
	case value.Date, value.DateTime, value.Time:
		return value.DateTimeValue(time.Unix(0, d.Times[i]).UTC())
	case value.Interval:
		return value.IntervalValue(time.Duration(d.Times[i]))
	case value.Uuid4:
		return value.Uuid4Value(d.UUIDs[i])
	case value.Uuid7:
		return value.Uuid7Value(d.UUIDs[i])
	case value.IdentityID:
		return value.IdentityIDValue(d.UUIDs[i])
	case value.Int:
		return value.IntValue(d.Bigs[i])
	case value.Uint:
		return value.UintValue(d.Bigs[i])
	case value.Decimal:
		return value.DecimalValue(d.Decimals[i])
	default:
		return value.Undef()
	}
}

// Slice returns a new Data containing rows at the given indices, in order —
// used by Filter/Take/Distinct/Sort to materialize a reordered or reduced
// column without mutating the source.
func (d *Data) Slice(indices []int) *Data {
	out := NewData(d.Typ, len(indices))
	out.SourceQualifier = d.SourceQualifier
	for _, i := range indices {
		out.Push(d.Get(i))
	}
	return out
}
