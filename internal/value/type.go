// Package value implements ReifyDB's typed row layout: Schema, Encoded
// and the Type tag shared by columns and expressions.
package value

// Type tags one of the engine's primitive value kinds. Every ColumnData
// variant and every Schema field carries exactly one Type.
type Type uint8

const (
	Undefined Type = iota
	Bool
	Int1
	Int2
	Int4
	Int8
	Int16
	Uint1
	Uint2
	Uint4
	Uint8
	Uint16
	Float4
	Float8
	Utf8
	Date
	DateTime
	Time
	Interval
	Uuid4
	Uuid7
	IdentityID
	Blob
	RowNumber
	Decimal
	Int
	Uint
)

// String renders a human-readable type name, used in diagnostics and
// frame display.
func (t Type) String() string {
	switch t {
	case Undefined:
		return "undefined"
	case Bool:
		return "bool"
	case Int1:
		return "int1"
	case Int2:
		return "int2"
	case Int4:
		return "int4"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Uint1:
		return "uint1"
	case Uint2:
		return "uint2"
	case Uint4:
		return "uint4"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Float4:
		return "float4"
	case Float8:
		return "float8"
	case Utf8:
		return "utf8"
	case Date:
		return "date"
	case DateTime:
		return "datetime"
	case Time:
		return "time"
	case Interval:
		return "interval"
	case Uuid4:
		return "uuid4"
	case Uuid7:
		return "uuid7"
	case IdentityID:
		return "identity_id"
	case Blob:
		return "blob"
	case RowNumber:
		return "row_number"
	case Decimal:
		return "decimal"
	case Int:
		return "int"
	case Uint:
		return "uint"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether t participates in arithmetic and numeric casts.
func (t Type) IsNumeric() bool {
	switch t {
	case Int1, Int2, Int4, Int8, Int16,
		Uint1, Uint2, Uint4, Uint8, Uint16,
		Float4, Float8, Decimal, Int, Uint:
		return true
	default:
		return false
	}
}

// IsSigned reports whether t is a signed integer, signed arbitrary-precision,
// or floating point kind.
func (t Type) IsSigned() bool {
	switch t {
	case Int1, Int2, Int4, Int8, Int16, Float4, Float8, Decimal, Int:
		return true
	default:
		return false
	}
}

// IsInteger reports whether t is a fixed-width or arbitrary-precision
// integer kind (used to select wrapping-cast semantics).
func (t Type) IsInteger() bool {
	switch t {
	case Int1, Int2, Int4, Int8, Int16,
		Uint1, Uint2, Uint4, Uint8, Uint16, Int, Uint:
		return true
	default:
		return false
	}
}

// IsFixedWidth reports whether the Schema stores this type's payload inline
// (fixed-size section) rather than in the dynamic section.
func (t Type) IsFixedWidth() bool {
	switch t {
	case Bool, Int1, Int2, Int4, Int8, Int16,
		Uint1, Uint2, Uint4, Uint8, Uint16,
		Float4, Float8, Date, DateTime, Time, Interval,
		Uuid4, Uuid7, IdentityID, RowNumber:
		return true
	default:
		return false
	}
}

// FixedWidth returns the inline byte width for fixed-width types, or 0 for
// dynamic-section types.
func (t Type) FixedWidth() int {
	switch t {
	case Bool, Int1, Uint1:
		return 1
	case Int2, Uint2:
		return 2
	case Int4, Uint4, Float4, Date:
		return 4
	case Int8, Uint8, Float8, DateTime, Time, RowNumber:
		return 8
	case Int16, Uint16, Interval:
		return 16
	case Uuid4, Uuid7, IdentityID:
		return 16
	default:
		return 0
	}
}
