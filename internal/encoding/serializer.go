package encoding

import "math"

// Serializer accumulates order-preserving encoded fields into one buffer,
// one chosen encoding per primitive:
//
//   - unsigned integers: big-endian, as-is (unsigned big-endian already
//     orders correctly byte-wise).
//   - signed integers: big-endian with the sign bit flipped, so two's
//     complement negative numbers sort before positive numbers.
//   - floats: IEEE-754 bits with a sign-dependent XOR mask so that negative
//     floats sort before positive floats and ordering matches magnitude.
//   - byte strings: escaped and terminated rather than length-prefixed, so
//     two byte strings compare byte-wise in the same order as their
//     contents, and a key ending partway through a longer one's bytes
//     still sorts before it.
//
// A Serializer is single-use: build it, extend it, call ToKey once.
type Serializer struct {
	buf []byte
}

// NewSerializer returns an empty Serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// NewSerializerWithCapacity pre-allocates cap bytes.
func NewSerializerWithCapacity(cap int) *Serializer {
	return &Serializer{buf: make([]byte, 0, cap)}
}

// Len reports the number of bytes written so far.
func (s *Serializer) Len() int { return len(s.buf) }

// IsEmpty reports whether nothing has been written yet.
func (s *Serializer) IsEmpty() bool { return len(s.buf) == 0 }

func (s *Serializer) ExtendBool(v bool) {
	if v {
		s.buf = append(s.buf, 1)
	} else {
		s.buf = append(s.buf, 0)
	}
}

func (s *Serializer) ExtendU8(v uint8)   { s.buf = append(s.buf, v) }
func (s *Serializer) ExtendU16(v uint16) { s.buf = appendBE(s.buf, uint64(v), 2) }
func (s *Serializer) ExtendU32(v uint32) { s.buf = appendBE(s.buf, uint64(v), 4) }
func (s *Serializer) ExtendU64(v uint64) { s.buf = appendBE(s.buf, v, 8) }
func (s *Serializer) ExtendU128(hi, lo uint64) {
	s.buf = appendBE(s.buf, hi, 8)
	s.buf = appendBE(s.buf, lo, 8)
}

// ExtendI8 flips the sign bit so two's-complement ordering becomes
// unsigned-byte ordering: 0x80 (most negative) sorts first, 0x7F (most
// positive) sorts last.
func (s *Serializer) ExtendI8(v int8)   { s.buf = append(s.buf, uint8(v)^0x80) }
func (s *Serializer) ExtendI16(v int16) { s.buf = appendBE(s.buf, uint64(uint16(v)^0x8000), 2) }
func (s *Serializer) ExtendI32(v int32) { s.buf = appendBE(s.buf, uint64(uint32(v)^0x80000000), 4) }
func (s *Serializer) ExtendI64(v int64) {
	s.buf = appendBE(s.buf, uint64(v)^0x8000000000000000, 8)
}
func (s *Serializer) ExtendI128(hi int64, lo uint64) {
	s.buf = appendBE(s.buf, uint64(hi)^0x8000000000000000, 8)
	s.buf = appendBE(s.buf, lo, 8)
}

// ExtendF32 orders floats correctly: for non-negative numbers, flip only the
// sign bit (same trick as signed integers); for negative numbers, flip every
// bit, which reverses the magnitude ordering among negatives (more negative
// sorts first).
func (s *Serializer) ExtendF32(v float32) {
	bits := math.Float32bits(v)
	if bits&0x80000000 != 0 {
		bits = ^bits
	} else {
		bits |= 0x80000000
	}
	s.buf = appendBE(s.buf, uint64(bits), 4)
}

func (s *Serializer) ExtendF64(v float64) {
	bits := math.Float64bits(v)
	if bits&0x8000000000000000 != 0 {
		bits = ^bits
	} else {
		bits |= 0x8000000000000000
	}
	s.buf = appendBE(s.buf, bits, 8)
}

// ExtendBytes appends v with every 0x00 byte escaped to 0x00 0xFF, then a
// 0x00 0x00 terminator. A length prefix would make a short string's prefix
// compare greater than a long string sharing its leading bytes (length
// sorts before content); escaping keeps the comparison byte-wise content
// order instead, and the terminator can never collide with an escaped 0x00
// inside v, so the encoding stays prefix-free and a truncated key still
// sorts before the longer key it's a prefix of.
func (s *Serializer) ExtendBytes(v []byte) {
	for _, b := range v {
		if b == 0x00 {
			s.buf = append(s.buf, 0x00, 0xFF)
		} else {
			s.buf = append(s.buf, b)
		}
	}
	s.buf = append(s.buf, 0x00, 0x00)
}

func (s *Serializer) ExtendStr(v string) {
	s.ExtendBytes([]byte(v))
}

// ExtendRaw appends bytes with no length prefix or transform; only safe as
// the last field of a key, or when the caller guarantees fixed width.
func (s *Serializer) ExtendRaw(v []byte) {
	s.buf = append(s.buf, v...)
}

// ToKey finalizes the buffer into an immutable Key.
func (s *Serializer) ToKey() Key {
	return NewKey(s.buf)
}

func appendBE(buf []byte, v uint64, width int) []byte {
	for i := width - 1; i >= 0; i-- {
		buf = append(buf, byte(v>>(8*uint(i))))
	}
	return buf
}
