package value

// Field is one named, typed column of a Schema.
type Field struct {
	Name string
	Type Type
}

// Schema fixes an ordered list of named, typed fields and precomputes the
// byte layout of Encoded rows built against it: a fixed-size section
// for numerics/booleans/temporal primitives/fixed-length IDs, and a dynamic
// section (text, blobs, big integers, decimals) addressed through an offset
// table. Field access only ever needs the Schema plus the row bytes;
// dynamic-section fields are copied out of the row on read, so reading
// them allocates.
type Schema struct {
	Fields []Field

	bitmapBytes int
	fixedOffset []int // per-field byte offset into the fixed section, -1 if dynamic
	fixedWidth  int   // total fixed-section size
	dynIndex    []int // per-field index into the dynamic offset table, -1 if fixed
	numDynamic  int
}

// NewSchema precomputes the layout for fields.
func NewSchema(fields []Field) *Schema {
	s := &Schema{Fields: fields}
	s.bitmapBytes = (len(fields) + 7) / 8
	s.fixedOffset = make([]int, len(fields))
	s.dynIndex = make([]int, len(fields))

	offset := 0
	dynIdx := 0
	for i, f := range fields {
		if f.Type.IsFixedWidth() {
			s.fixedOffset[i] = offset
			s.dynIndex[i] = -1
			offset += f.Type.FixedWidth()
		} else {
			s.fixedOffset[i] = -1
			s.dynIndex[i] = dynIdx
			dynIdx++
		}
	}
	s.fixedWidth = offset
	s.numDynamic = dynIdx
	return s
}

// IndexOf returns the field index for name, or -1 if absent.
func (s *Schema) IndexOf(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (s *Schema) dynTableOffset() int {
	return s.bitmapBytes + s.fixedWidth
}

func (s *Schema) dynPayloadOffset() int {
	return s.dynTableOffset() + s.numDynamic*8
}
