// Package encoding implements order-preserving binary encoding of typed
// values and composite keys.
package encoding

import "bytes"

// Key is an immutable, order-preserving byte sequence. Byte-wise ordering of
// two Keys matches the semantic ordering of whatever values they encode.
// Keys are created once by a Serializer and shared freely afterwards;
// nothing in this package ever mutates a Key's backing array in place.
type Key struct {
	data []byte
}

// NewKey wraps raw bytes as a Key, taking ownership of the slice.
func NewKey(raw []byte) Key {
	return Key{data: raw}
}

// Bytes returns the underlying byte slice. Callers must not mutate it.
func (k Key) Bytes() []byte {
	return k.data
}

// Len reports the number of bytes in the key.
func (k Key) Len() int {
	return len(k.data)
}

// Compare orders two keys byte-wise, matching bytes.Compare semantics.
func (k Key) Compare(other Key) int {
	return bytes.Compare(k.data, other.data)
}

// Equal reports whether two keys hold identical bytes.
func (k Key) Equal(other Key) bool {
	return bytes.Equal(k.data, other.data)
}

// Clone returns a Key backed by a fresh copy of the bytes, so the result is
// safe to retain beyond the lifetime of any buffer k currently aliases.
func (k Key) Clone() Key {
	cp := make([]byte, len(k.data))
	copy(cp, k.data)
	return Key{data: cp}
}

// HasPrefix reports whether k starts with prefix's bytes.
func (k Key) HasPrefix(prefix Key) bool {
	return bytes.HasPrefix(k.data, prefix.data)
}

// String renders the key as a best-effort debug string (not for storage).
func (k Key) String() string {
	return string(k.data)
}

// Builder constructs a Key from typed fields via a fluent API, matching the
// order-preserving encodings. Each method appends a
// chosen encoding for one primitive and returns the builder for chaining,
// grounded on original_source's EncodedKeyBuilder.
type Builder struct {
	ser *Serializer
}

// NewBuilder returns a Builder with no pre-allocated capacity.
func NewBuilder() *Builder {
	return &Builder{ser: NewSerializer()}
}

// NewBuilderWithCapacity pre-allocates cap bytes in the backing buffer.
func NewBuilderWithCapacity(cap int) *Builder {
	return &Builder{ser: NewSerializerWithCapacity(cap)}
}

func (b *Builder) Bool(v bool) *Builder       { b.ser.ExtendBool(v); return b }
func (b *Builder) U8(v uint8) *Builder        { b.ser.ExtendU8(v); return b }
func (b *Builder) U16(v uint16) *Builder      { b.ser.ExtendU16(v); return b }
func (b *Builder) U32(v uint32) *Builder      { b.ser.ExtendU32(v); return b }
func (b *Builder) U64(v uint64) *Builder      { b.ser.ExtendU64(v); return b }
func (b *Builder) I8(v int8) *Builder         { b.ser.ExtendI8(v); return b }
func (b *Builder) I16(v int16) *Builder       { b.ser.ExtendI16(v); return b }
func (b *Builder) I32(v int32) *Builder       { b.ser.ExtendI32(v); return b }
func (b *Builder) I64(v int64) *Builder       { b.ser.ExtendI64(v); return b }
func (b *Builder) F32(v float32) *Builder     { b.ser.ExtendF32(v); return b }
func (b *Builder) F64(v float64) *Builder     { b.ser.ExtendF64(v); return b }
func (b *Builder) Str(v string) *Builder      { b.ser.ExtendStr(v); return b }
func (b *Builder) Bytes(v []byte) *Builder    { b.ser.ExtendBytes(v); return b }
func (b *Builder) Raw(v []byte) *Builder      { b.ser.ExtendRaw(v); return b }

// Build finalizes the builder into an immutable Key.
func (b *Builder) Build() Key {
	return b.ser.ToKey()
}

// Len reports the number of bytes written so far.
func (b *Builder) Len() int { return b.ser.Len() }
