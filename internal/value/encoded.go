package value

import (
	"encoding/binary"
	"math"
	"math/big"

	"github.com/google/uuid"
)

// Encoded is an immutable byte sequence representing one physical row under
// a Schema. Layout: [null bitmap][fixed section][dynamic offset
// table][dynamic payload]. Fixed-width fields are little-endian in place;
// dynamic fields are addressed by an (offset, length) pair in the offset
// table, offsets relative to the start of the dynamic payload.
type Encoded struct {
	data []byte
}

func NewEncoded(data []byte) Encoded { return Encoded{data: data} }
func (e Encoded) Bytes() []byte      { return e.data }

// Defined reports whether field i carries a value (vs. being null).
func (e Encoded) Defined(schema *Schema, i int) bool {
	byteIdx := i / 8
	bitIdx := uint(i % 8)
	if byteIdx >= len(e.data) {
		return false
	}
	return e.data[byteIdx]&(1<<bitIdx) != 0
}

// Get decodes field i according to schema. Returns Undef() if the field is
// null.
func (e Encoded) Get(schema *Schema, i int) Value {
	if !e.Defined(schema, i) {
		return Undef()
	}
	f := schema.Fields[i]
	if f.Type.IsFixedWidth() {
		off := schema.bitmapBytes + schema.fixedOffset[i]
		return decodeFixed(f.Type, e.data[off:off+f.Type.FixedWidth()])
	}
	dynIdx := schema.dynIndex[i]
	tableOff := schema.dynTableOffset() + dynIdx*8
	off := int(binary.LittleEndian.Uint32(e.data[tableOff : tableOff+4]))
	length := int(binary.LittleEndian.Uint32(e.data[tableOff+4 : tableOff+8]))
	payloadBase := schema.dynPayloadOffset()
	raw := e.data[payloadBase+off : payloadBase+off+length]
	return decodeDynamic(f.Type, raw)
}

func decodeFixed(t Type, raw []byte) Value {
	switch t {
	case Bool:
		return BoolValue(raw[0] != 0)
	case Int1:
		return Int1Value(int8(raw[0]))
	case Uint1:
		return Uint1Value(raw[0])
	case Int2:
		return Int2Value(int16(binary.LittleEndian.Uint16(raw)))
	case Uint2:
		return Uint2Value(binary.LittleEndian.Uint16(raw))
	case Int4:
		return Int4Value(int32(binary.LittleEndian.Uint32(raw)))
	case Uint4:
		return Uint4Value(binary.LittleEndian.Uint32(raw))
	case Int8, RowNumber:
		if t == RowNumber {
			return RowNumberValue(binary.LittleEndian.Uint64(raw))
		}
		return Int8Value(int64(binary.LittleEndian.Uint64(raw)))
	case Uint8:
		return Uint8Value(binary.LittleEndian.Uint64(raw))
	case Float4:
		return Float4Value(math.Float32frombits(binary.LittleEndian.Uint32(raw)))
	case Float8:
		return Float8Value(math.Float64frombits(binary.LittleEndian.Uint64(raw)))
	case Uuid4:
		id, _ := uuid.FromBytes(raw)
		return Uuid4Value(id)
	case Uuid7:
		id, _ := uuid.FromBytes(raw)
		return Uuid7Value(id)
	case IdentityID:
		id, _ := uuid.FromBytes(raw)
		return IdentityIDValue(id)
	default:
		return Undef()
	}
}

func decodeDynamic(t Type, raw []byte) Value {
	switch t {
	case Utf8:
		return Utf8Value(string(raw))
	case Blob:
		cp := make([]byte, len(raw))
		copy(cp, raw)
		return BlobValue(cp)
	case Int:
		return IntValue(new(big.Int).SetBytes(raw))
	case Uint:
		return UintValue(new(big.Int).SetBytes(raw))
	case Decimal:
		if len(raw) < 2 {
			return DecimalValue(Decimal{})
		}
		prec, scale := raw[0], raw[1]
		mag := new(big.Int).SetBytes(raw[2:])
		return DecimalValue(Decimal{Precision: prec, Scale: scale, Magnitude: mag})
	default:
		return Undef()
	}
}

// Builder constructs an Encoded row for a fixed Schema.
type Builder struct {
	schema *Schema
	fixed  []byte
	dyn    [][]byte
	bitmap []byte
}

func NewRowBuilder(schema *Schema) *Builder {
	return &Builder{
		schema: schema,
		fixed:  make([]byte, schema.fixedWidth),
		dyn:    make([][]byte, schema.numDynamic),
		bitmap: make([]byte, schema.bitmapBytes),
	}
}

// Set writes v into field i. Passing Undef() leaves the field null.
func (b *Builder) Set(i int, v Value) {
	if IsUndefined(v) {
		return
	}
	f := b.schema.Fields[i]
	b.bitmap[i/8] |= 1 << uint(i%8)
	if f.Type.IsFixedWidth() {
		off := b.schema.fixedOffset[i]
		encodeFixed(f.Type, v, b.fixed[off:off+f.Type.FixedWidth()])
		return
	}
	b.dyn[b.schema.dynIndex[i]] = encodeDynamic(f.Type, v)
}

func (b *Builder) Build() Encoded {
	out := make([]byte, 0, len(b.bitmap)+len(b.fixed)+b.schema.numDynamic*8+64)
	out = append(out, b.bitmap...)
	out = append(out, b.fixed...)

	payload := make([]byte, 0, 64)
	table := make([]byte, b.schema.numDynamic*8)
	for i, d := range b.dyn {
		off := len(payload)
		binary.LittleEndian.PutUint32(table[i*8:i*8+4], uint32(off))
		binary.LittleEndian.PutUint32(table[i*8+4:i*8+8], uint32(len(d)))
		payload = append(payload, d...)
	}
	out = append(out, table...)
	out = append(out, payload...)
	return NewEncoded(out)
}

func encodeFixed(t Type, v Value, dst []byte) {
	switch t {
	case Bool:
		if v.Bool() {
			dst[0] = 1
		}
	case Int1:
		dst[0] = byte(v.Int64())
	case Uint1:
		dst[0] = byte(v.Uint64())
	case Int2:
		binary.LittleEndian.PutUint16(dst, uint16(v.Int64()))
	case Uint2:
		binary.LittleEndian.PutUint16(dst, uint16(v.Uint64()))
	case Int4:
		binary.LittleEndian.PutUint32(dst, uint32(v.Int64()))
	case Uint4:
		binary.LittleEndian.PutUint32(dst, uint32(v.Uint64()))
	case Int8:
		binary.LittleEndian.PutUint64(dst, uint64(v.Int64()))
	case RowNumber:
		binary.LittleEndian.PutUint64(dst, v.Uint64())
	case Uint8:
		binary.LittleEndian.PutUint64(dst, v.Uint64())
	case Float4:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(v.Float64())))
	case Float8:
		binary.LittleEndian.PutUint64(dst, math.Float64bits(v.Float64()))
	case Uuid4, Uuid7, IdentityID:
		id := v.UUID()
		copy(dst, id[:])
	}
}

func encodeDynamic(t Type, v Value) []byte {
	switch t {
	case Utf8:
		return []byte(v.Str())
	case Blob:
		return v.Bytes()
	case Int, Uint:
		return v.Big().Bytes()
	case Decimal:
		d := v.Decimal()
		out := make([]byte, 2)
		out[0] = d.Precision
		out[1] = d.Scale
		if d.Magnitude != nil {
			out = append(out, d.Magnitude.Bytes()...)
		}
		return out
	default:
		return nil
	}
}
