// Package wire implements the frame wire format: a bit-exact serialization
// of column.Frame for transports, independent of the in-memory layout used
// by column.Data or the row encoding used by value.Encoded.
package wire

import (
	"encoding/binary"
	"io"
	"math"
	"math/big"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/value"
)

// WriteFrame serializes f onto w as (column_count, [(name, source
// qualifier, type tag, presence bitmap, payload)]). Varint-prefixed fields
// (column count, string/blob lengths, big-integer magnitudes) use
// protowire's varint encoding; fixed-width primitives are little-endian in
// place.
func WriteFrame(w io.Writer, f *column.Frame) error {
	buf := make([]byte, 0, 256)
	buf = protowire.AppendVarint(buf, uint64(f.ColumnCount()))
	names := f.Names()
	for i := 0; i < f.ColumnCount(); i++ {
		d := f.ColumnAt(i)
		buf = appendString(buf, names[i])
		buf = appendString(buf, d.SourceQualifier)
		buf = append(buf, byte(d.Typ))
		buf = appendBitmap(buf, d.Defined)
		buf = appendPayload(buf, d)
	}
	_, err := w.Write(buf)
	return err
}

// ReadFrame decodes a frame previously written by WriteFrame.
func ReadFrame(r io.Reader) (*column.Frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, diagnostic.WireTruncated(err)
	}
	dec := &decoder{buf: data}
	colCount, err := dec.varint()
	if err != nil {
		return nil, err
	}
	names := make([]string, colCount)
	cols := make([]*column.Data, colCount)
	for i := range names {
		name, err := dec.string()
		if err != nil {
			return nil, err
		}
		qualifier, err := dec.string()
		if err != nil {
			return nil, err
		}
		tagByte, err := dec.byte1()
		if err != nil {
			return nil, err
		}
		typ := value.Type(tagByte)
		if !validType(typ) {
			return nil, diagnostic.WireUnknownType(tagByte)
		}
		rows, err := dec.varint()
		if err != nil {
			return nil, err
		}
		defined, err := dec.bitmap(int(rows))
		if err != nil {
			return nil, err
		}
		d, err := dec.payload(typ, defined)
		if err != nil {
			return nil, err
		}
		d.SourceQualifier = qualifier
		names[i] = name
		cols[i] = d
	}
	return column.NewFrame(names, cols)
}

func appendString(buf []byte, s string) []byte {
	buf = protowire.AppendVarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func appendBitmap(buf []byte, defined []bool) []byte {
	buf = protowire.AppendVarint(buf, uint64(len(defined)))
	bitmap := make([]byte, (len(defined)+7)/8)
	for i, ok := range defined {
		if ok {
			bitmap[i/8] |= 1 << uint(i%8)
		}
	}
	return append(buf, bitmap...)
}

// appendPayload writes one column's payload per the wire format table:
// fixed-width little-endian for scalar numerics/temporals, length-prefixed
// bytes for text/blob, 16 raw bytes for UUID-family types, and
// sign-plus-length-prefixed magnitude for arbitrary-precision/decimal.
func appendPayload(buf []byte, d *column.Data) []byte {
	switch d.Typ {
	case value.Undefined:
		return buf
	case value.Bool:
		for i, ok := range d.Defined {
			if !ok {
				continue
			}
			if d.Bools[i] {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		}
	case value.Int1, value.Int2, value.Int4, value.Int8:
		width := d.Typ.FixedWidth()
		for i, ok := range d.Defined {
			if !ok {
				continue
			}
			buf = appendIntWidth(buf, d.Ints[i], width)
		}
	case value.Uint1, value.Uint2, value.Uint4, value.Uint8, value.RowNumber:
		width := d.Typ.FixedWidth()
		for i, ok := range d.Defined {
			if !ok {
				continue
			}
			buf = appendUintWidth(buf, d.Uints[i], width)
		}
	case value.Float4:
		for i, ok := range d.Defined {
			if !ok {
				continue
			}
			var tmp [4]byte
			binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(float32(d.Floats[i])))
			buf = append(buf, tmp[:]...)
		}
	case value.Float8:
		for i, ok := range d.Defined {
			if !ok {
				continue
			}
			var tmp [8]byte
			binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(d.Floats[i]))
			buf = append(buf, tmp[:]...)
		}
	case value.Date, value.DateTime, value.Time:
		// Stored uniformly as unix-nanoseconds regardless of type (see
		// column.Data), so the wire payload is always 8 bytes here even
		// though Date's declared FixedWidth is narrower.
		for i, ok := range d.Defined {
			if !ok {
				continue
			}
			buf = appendIntWidth(buf, d.Times[i], 8)
		}
	case value.Interval:
		for i, ok := range d.Defined {
			if !ok {
				continue
			}
			buf = appendIntWidth(buf, d.Times[i], 16)
		}
	case value.Utf8:
		for i, ok := range d.Defined {
			if !ok {
				continue
			}
			buf = appendString(buf, d.Strings[i])
		}
	case value.Blob:
		for i, ok := range d.Defined {
			if !ok {
				continue
			}
			buf = protowire.AppendVarint(buf, uint64(len(d.Blobs[i])))
			buf = append(buf, d.Blobs[i]...)
		}
	case value.Uuid4, value.Uuid7, value.IdentityID:
		for i, ok := range d.Defined {
			if !ok {
				continue
			}
			buf = append(buf, d.UUIDs[i][:]...)
		}
	case value.Int, value.Uint:
		for i, ok := range d.Defined {
			if !ok {
				continue
			}
			buf = appendBigMagnitude(buf, d.Bigs[i])
		}
	case value.Decimal:
		for i, ok := range d.Defined {
			if !ok {
				continue
			}
			dec := d.Decimals[i]
			buf = append(buf, dec.Precision, dec.Scale)
			buf = appendBigMagnitude(buf, dec.Magnitude)
		}
	}
	return buf
}

// appendIntWidth writes v as a width-byte little-endian two's complement
// integer, truncating high bytes when width is narrower than 64 bits and
// sign-extending when it's wider (the 16-byte Interval payload).
func appendIntWidth(buf []byte, v int64, width int) []byte {
	tmp := make([]byte, width)
	u := uint64(v)
	for i := 0; i < width && i < 8; i++ {
		tmp[i] = byte(u >> (8 * i))
	}
	if width > 8 && v < 0 {
		for i := 8; i < width; i++ {
			tmp[i] = 0xFF
		}
	}
	return append(buf, tmp...)
}

func appendUintWidth(buf []byte, v uint64, width int) []byte {
	tmp := make([]byte, width)
	for i := 0; i < width && i < 8; i++ {
		tmp[i] = byte(v >> (8 * i))
	}
	return append(buf, tmp...)
}

// appendBigMagnitude writes a sign byte (0 non-negative, 1 negative)
// followed by a varint-length-prefixed big-endian magnitude.
func appendBigMagnitude(buf []byte, m *big.Int) []byte {
	if m == nil {
		m = new(big.Int)
	}
	sign := byte(0)
	if m.Sign() < 0 {
		sign = 1
	}
	buf = append(buf, sign)
	mag := new(big.Int).Abs(m).Bytes()
	buf = protowire.AppendVarint(buf, uint64(len(mag)))
	return append(buf, mag...)
}

type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) varint() (uint64, error) {
	v, n := protowire.ConsumeVarint(d.buf[d.pos:])
	if n < 0 {
		return 0, diagnostic.WireTruncated(io.ErrUnexpectedEOF)
	}
	d.pos += n
	return v, nil
}

func (d *decoder) byte1() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, diagnostic.WireTruncated(io.ErrUnexpectedEOF)
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) take(n int) ([]byte, error) {
	if d.pos+n > len(d.buf) {
		return nil, diagnostic.WireTruncated(io.ErrUnexpectedEOF)
	}
	out := d.buf[d.pos : d.pos+n]
	d.pos += n
	return out, nil
}

func (d *decoder) string() (string, error) {
	n, err := d.varint()
	if err != nil {
		return "", err
	}
	raw, err := d.take(int(n))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (d *decoder) bitmap(rows int) ([]bool, error) {
	raw, err := d.take((rows + 7) / 8)
	if err != nil {
		return nil, err
	}
	out := make([]bool, rows)
	for i := range out {
		out[i] = raw[i/8]&(1<<uint(i%8)) != 0
	}
	return out, nil
}

func (d *decoder) bigMagnitude() (*big.Int, error) {
	sign, err := d.byte1()
	if err != nil {
		return nil, err
	}
	n, err := d.varint()
	if err != nil {
		return nil, err
	}
	raw, err := d.take(int(n))
	if err != nil {
		return nil, err
	}
	m := new(big.Int).SetBytes(raw)
	if sign == 1 {
		m.Neg(m)
	}
	return m, nil
}

func (d *decoder) payload(typ value.Type, defined []bool) (*column.Data, error) {
	out := column.NewData(typ, len(defined))
	switch typ {
	case value.Undefined:
		for range defined {
			out.Push(value.Undef())
		}
	case value.Bool:
		for _, ok := range defined {
			if !ok {
				out.Push(value.Undef())
				continue
			}
			b, err := d.byte1()
			if err != nil {
				return nil, err
			}
			out.Push(value.BoolValue(b != 0))
		}
	case value.Int1, value.Int2, value.Int4, value.Int8:
		width := typ.FixedWidth()
		for _, ok := range defined {
			if !ok {
				out.Push(value.Undef())
				continue
			}
			raw, err := d.take(width)
			if err != nil {
				return nil, err
			}
			out.Push(intValueOf(typ, readIntWidth(raw)))
		}
	case value.Uint1, value.Uint2, value.Uint4, value.Uint8, value.RowNumber:
		width := typ.FixedWidth()
		for _, ok := range defined {
			if !ok {
				out.Push(value.Undef())
				continue
			}
			raw, err := d.take(width)
			if err != nil {
				return nil, err
			}
			out.Push(uintValueOf(typ, readUintWidth(raw)))
		}
	case value.Float4:
		for _, ok := range defined {
			if !ok {
				out.Push(value.Undef())
				continue
			}
			raw, err := d.take(4)
			if err != nil {
				return nil, err
			}
			out.Push(value.Float4Value(math.Float32frombits(binary.LittleEndian.Uint32(raw))))
		}
	case value.Float8:
		for _, ok := range defined {
			if !ok {
				out.Push(value.Undef())
				continue
			}
			raw, err := d.take(8)
			if err != nil {
				return nil, err
			}
			out.Push(value.Float8Value(math.Float64frombits(binary.LittleEndian.Uint64(raw))))
		}
	case value.Date, value.DateTime, value.Time:
		for _, ok := range defined {
			if !ok {
				out.Push(value.Undef())
				continue
			}
			raw, err := d.take(8)
			if err != nil {
				return nil, err
			}
			out.Push(value.DateTimeValue(time.Unix(0, readIntWidth(raw)).UTC()))
		}
	case value.Interval:
		for _, ok := range defined {
			if !ok {
				out.Push(value.Undef())
				continue
			}
			raw, err := d.take(16)
			if err != nil {
				return nil, err
			}
			out.Push(value.IntervalValue(time.Duration(readIntWidth(raw))))
		}
	case value.Utf8:
		for _, ok := range defined {
			if !ok {
				out.Push(value.Undef())
				continue
			}
			s, err := d.string()
			if err != nil {
				return nil, err
			}
			out.Push(value.Utf8Value(s))
		}
	case value.Blob:
		for _, ok := range defined {
			if !ok {
				out.Push(value.Undef())
				continue
			}
			n, err := d.varint()
			if err != nil {
				return nil, err
			}
			raw, err := d.take(int(n))
			if err != nil {
				return nil, err
			}
			cp := make([]byte, len(raw))
			copy(cp, raw)
			out.Push(value.BlobValue(cp))
		}
	case value.Uuid4, value.Uuid7, value.IdentityID:
		for _, ok := range defined {
			if !ok {
				out.Push(value.Undef())
				continue
			}
			raw, err := d.take(16)
			if err != nil {
				return nil, err
			}
			id, err := uuid.FromBytes(raw)
			if err != nil {
				return nil, diagnostic.WireTruncated(err)
			}
			out.Push(uuidValueOf(typ, id))
		}
	case value.Int, value.Uint:
		for _, ok := range defined {
			if !ok {
				out.Push(value.Undef())
				continue
			}
			m, err := d.bigMagnitude()
			if err != nil {
				return nil, err
			}
			if typ == value.Int {
				out.Push(value.IntValue(m))
			} else {
				out.Push(value.UintValue(m))
			}
		}
	case value.Decimal:
		for _, ok := range defined {
			if !ok {
				out.Push(value.Undef())
				continue
			}
			prec, err := d.byte1()
			if err != nil {
				return nil, err
			}
			scale, err := d.byte1()
			if err != nil {
				return nil, err
			}
			m, err := d.bigMagnitude()
			if err != nil {
				return nil, err
			}
			out.Push(value.DecimalValue(value.Decimal{Precision: prec, Scale: scale, Magnitude: m}))
		}
	default:
		// Int16/Uint16 (128-bit) carry no payload on the wire yet — the
		// column/value layers don't have a backing representation for
		// them either (see column.Data.Get) — so every row decodes as
		// undefined, matching what a round-trip through those layers
		// would already produce.
		for range defined {
			out.Push(value.Undef())
		}
	}
	return out, nil
}

func readIntWidth(raw []byte) int64 {
	var u uint64
	for i := 0; i < len(raw) && i < 8; i++ {
		u |= uint64(raw[i]) << (8 * i)
	}
	return int64(u)
}

func readUintWidth(raw []byte) uint64 {
	var u uint64
	for i := 0; i < len(raw) && i < 8; i++ {
		u |= uint64(raw[i]) << (8 * i)
	}
	return u
}

func intValueOf(typ value.Type, i int64) value.Value {
	switch typ {
	case value.Int1:
		return value.Int1Value(int8(i))
	case value.Int2:
		return value.Int2Value(int16(i))
	case value.Int4:
		return value.Int4Value(int32(i))
	default:
		return value.Int8Value(i)
	}
}

func uintValueOf(typ value.Type, u uint64) value.Value {
	switch typ {
	case value.Uint1:
		return value.Uint1Value(uint8(u))
	case value.Uint2:
		return value.Uint2Value(uint16(u))
	case value.Uint4:
		return value.Uint4Value(uint32(u))
	case value.RowNumber:
		return value.RowNumberValue(u)
	default:
		return value.Uint8Value(u)
	}
}

func uuidValueOf(typ value.Type, id uuid.UUID) value.Value {
	switch typ {
	case value.Uuid4:
		return value.Uuid4Value(id)
	case value.Uuid7:
		return value.Uuid7Value(id)
	default:
		return value.IdentityIDValue(id)
	}
}

func validType(t value.Type) bool {
	return t <= value.Uint
}
