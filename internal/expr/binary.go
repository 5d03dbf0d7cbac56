package expr

import (
	"math/big"

	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/value"
)

// BinaryOp is one of the arithmetic, comparison, equality, or logical
// binary operators.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

func (o BinaryOp) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpRem:
		return "%"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	default:
		return "?"
	}
}

func (o BinaryOp) isArithmetic() bool {
	return o == OpAdd || o == OpSub || o == OpMul || o == OpDiv || o == OpRem
}

func (o BinaryOp) isComparison() bool {
	return o == OpLt || o == OpLe || o == OpGt || o == OpGe
}

func (o BinaryOp) isLogical() bool { return o == OpAnd || o == OpOr }

// Binary applies a binary operator to Left and Right's evaluated columns,
// row by row.
type Binary struct {
	Op       BinaryOp
	Left     Expr
	Right    Expr
	Fragment diagnostic.Fragment
}

func (b Binary) Eval(frame *column.Frame) (*column.Data, error) {
	left, err := b.Left.Eval(frame)
	if err != nil {
		return nil, err
	}
	right, err := b.Right.Eval(frame)
	if err != nil {
		return nil, err
	}

	switch {
	case b.Op.isLogical():
		return b.evalLogical(left, right)
	case b.Op == OpEq || b.Op == OpNe:
		return b.evalEquality(left, right)
	case b.Op.isComparison():
		return b.evalComparison(left, right)
	default:
		return b.evalArithmetic(left, right)
	}
}

func (b Binary) evalLogical(left, right *column.Data) (*column.Data, error) {
	if left.Typ != value.Bool {
		return nil, diagnostic.LogicalOperandNotBoolean(b.Fragment, b.Op.String(), left.Typ.String())
	}
	if right.Typ != value.Bool {
		return nil, diagnostic.LogicalOperandNotBoolean(b.Fragment, b.Op.String(), right.Typ.String())
	}
	out := column.NewData(value.Bool, left.Len())
	for i := 0; i < left.Len(); i++ {
		lv, rv := left.Get(i), right.Get(i)
		if value.IsUndefined(lv) || value.IsUndefined(rv) {
			out.Push(value.Undef())
			continue
		}
		var r bool
		if b.Op == OpAnd {
			r = lv.Bool() && rv.Bool()
		} else {
			r = lv.Bool() || rv.Bool()
		}
		out.Push(value.BoolValue(r))
	}
	return out, nil
}

func (b Binary) evalEquality(left, right *column.Data) (*column.Data, error) {
	if left.Typ != right.Typ {
		return nil, diagnostic.BinaryOperandTypeMismatch(b.Fragment, b.Op.String(), left.Typ.String(), right.Typ.String())
	}
	out := column.NewData(value.Bool, left.Len())
	for i := 0; i < left.Len(); i++ {
		lv, rv := left.Get(i), right.Get(i)
		if value.IsUndefined(lv) || value.IsUndefined(rv) {
			out.Push(value.Undef())
			continue
		}
		eq := valuesEqual(lv, rv)
		if b.Op == OpNe {
			eq = !eq
		}
		out.Push(value.BoolValue(eq))
	}
	return out, nil
}

func valuesEqual(a, b value.Value) bool {
	switch a.Type() {
	case value.Bool:
		return a.Bool() == b.Bool()
	case value.Int1, value.Int2, value.Int4, value.Int8:
		return a.Int64() == b.Int64()
	case value.Uint1, value.Uint2, value.Uint4, value.Uint8, value.RowNumber:
		return a.Uint64() == b.Uint64()
	case value.Float4, value.Float8:
		return a.Float64() == b.Float64()
	case value.Utf8:
		return a.Str() == b.Str()
	case value.Blob:
		return string(a.Bytes()) == string(b.Bytes())
	case value.Int, value.Uint:
		return a.Big().Cmp(b.Big()) == 0
	case value.Decimal:
		return a.Decimal().String() == b.Decimal().String()
	case value.DateTime, value.Date, value.Time:
		return a.Time().Equal(b.Time())
	case value.Interval:
		return a.Duration() == b.Duration()
	case value.Uuid4, value.Uuid7, value.IdentityID:
		return a.UUID() == b.UUID()
	default:
		return false
	}
}

func (b Binary) evalComparison(left, right *column.Data) (*column.Data, error) {
	if !left.Typ.IsNumeric() || !right.Typ.IsNumeric() {
		return nil, diagnostic.BinaryOperandTypeMismatch(b.Fragment, b.Op.String(), left.Typ.String(), right.Typ.String())
	}
	out := column.NewData(value.Bool, left.Len())
	for i := 0; i < left.Len(); i++ {
		lv, rv := left.Get(i), right.Get(i)
		if value.IsUndefined(lv) || value.IsUndefined(rv) {
			out.Push(value.Undef())
			continue
		}
		c := compareNumeric(lv, rv)
		var r bool
		switch b.Op {
		case OpLt:
			r = c < 0
		case OpLe:
			r = c <= 0
		case OpGt:
			r = c > 0
		case OpGe:
			r = c >= 0
		}
		out.Push(value.BoolValue(r))
	}
	return out, nil
}

// compareNumeric promotes both operands to float64 for ordering. Decimal and
// arbitrary-precision Int/Uint go through big.Rat/big.Int compares instead,
// to avoid losing precision on values float64 cannot represent exactly.
func compareNumeric(a, b value.Value) int {
	if a.Type() == value.Decimal || b.Type() == value.Decimal {
		asRat := func(v value.Value) *big.Rat {
			if isFloatType(v.Type()) {
				return new(big.Rat).SetFloat64(v.Float64())
			}
			d := asDecimal(v)
			den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Scale)), nil)
			return new(big.Rat).SetFrac(scaleMagnitude(d, d.Scale), den)
		}
		if ra, rb := asRat(a), asRat(b); ra != nil && rb != nil {
			return ra.Cmp(rb)
		}
	}
	if a.Type() == value.Int || a.Type() == value.Uint || b.Type() == value.Int || b.Type() == value.Uint {
		return valueAsBigInt(a).Cmp(valueAsBigInt(b))
	}
	af, bf := numericAsFloat(a), numericAsFloat(b)
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	default:
		return 0
	}
}

func numericAsFloat(v value.Value) float64 {
	switch v.Type() {
	case value.Float4, value.Float8:
		return v.Float64()
	case value.Int1, value.Int2, value.Int4, value.Int8:
		return float64(v.Int64())
	case value.Uint1, value.Uint2, value.Uint4, value.Uint8:
		return float64(v.Uint64())
	case value.Decimal:
		f, _ := new(big.Float).SetInt(valueAsBigInt(v)).Float64()
		return f
	default:
		return 0
	}
}

func (b Binary) evalArithmetic(left, right *column.Data) (*column.Data, error) {
	if !left.Typ.IsNumeric() || !right.Typ.IsNumeric() {
		return nil, diagnostic.BinaryOperandTypeMismatch(b.Fragment, b.Op.String(), left.Typ.String(), right.Typ.String())
	}
	resultType := promoteNumeric(left.Typ, right.Typ)
	out := column.NewData(resultType, left.Len())
	for i := 0; i < left.Len(); i++ {
		lv, rv := left.Get(i), right.Get(i)
		if value.IsUndefined(lv) || value.IsUndefined(rv) {
			out.Push(value.Undef())
			continue
		}
		r, err := arithmeticOp(b.Op, lv, rv, resultType, b.Fragment)
		if err != nil {
			return nil, err
		}
		out.Push(r)
	}
	return out, nil
}

// promoteNumeric picks the common type two numeric operands are widened to
// before an arithmetic op: Decimal beats everything, float beats int,
// arbitrary-precision Int/Uint beats fixed-width, and otherwise the wider of
// the two fixed-width operands wins (unsigned wins ties, to avoid narrowing
// a value that could be out of the signed type's range).
func promoteNumeric(a, b value.Type) value.Type {
	if a == value.Decimal || b == value.Decimal {
		return value.Decimal
	}
	if isFloatType(a) || isFloatType(b) {
		if a == value.Float8 || b == value.Float8 {
			return value.Float8
		}
		return value.Float4
	}
	if a == value.Int || a == value.Uint {
		return a
	}
	if b == value.Int || b == value.Uint {
		return b
	}
	wa, wb := bitWidthOf(a), bitWidthOf(b)
	if wa > wb || (wa == wb && (a == value.Uint1 || a == value.Uint2 || a == value.Uint4 || a == value.Uint8)) {
		return a
	}
	return b
}

func isFloatType(t value.Type) bool { return t == value.Float4 || t == value.Float8 }

func arithmeticOp(op BinaryOp, left, right value.Value, resultType value.Type, frag diagnostic.Fragment) (value.Value, error) {
	if resultType == value.Decimal {
		return decimalArithmetic(op, left, right)
	}
	if isFloatType(resultType) {
		lf, rf := numericAsFloat(left), numericAsFloat(right)
		var r float64
		switch op {
		case OpAdd:
			r = lf + rf
		case OpSub:
			r = lf - rf
		case OpMul:
			r = lf * rf
		case OpDiv:
			r = lf / rf
		case OpRem:
			r = mathMod(lf, rf)
		}
		if resultType == value.Float4 {
			return value.Float4Value(float32(r)), nil
		}
		return value.Float8Value(r), nil
	}

	ln, rn := valueAsBigInt(left), valueAsBigInt(right)
	var r big.Int
	switch op {
	case OpAdd:
		r.Add(ln, rn)
	case OpSub:
		r.Sub(ln, rn)
	case OpMul:
		r.Mul(ln, rn)
	case OpDiv:
		if rn.Sign() == 0 {
			return value.Undef(), nil
		}
		r.Quo(ln, rn)
	case OpRem:
		if rn.Sign() == 0 {
			return value.Undef(), nil
		}
		r.Rem(ln, rn)
	}
	result, ok := convertIntToInt(&r, resultType, CastWrapping)
	if !ok {
		return value.Undef(), nil
	}
	return result, nil
}

func mathMod(a, b float64) float64 {
	if b == 0 {
		return a
	}
	m := a - b*float64(int64(a/b))
	return m
}

func decimalArithmetic(op BinaryOp, left, right value.Value) (value.Value, error) {
	ld, rd := asDecimal(left), asDecimal(right)
	scale := ld.Scale
	if rd.Scale > scale {
		scale = rd.Scale
	}
	lm := scaleMagnitude(ld, scale)
	rm := scaleMagnitude(rd, scale)

	var mag big.Int
	resultScale := scale
	switch op {
	case OpAdd:
		mag.Add(lm, rm)
	case OpSub:
		mag.Sub(lm, rm)
	case OpMul:
		mag.Mul(lm, rm)
		resultScale = scale * 2
	case OpDiv:
		if rm.Sign() == 0 {
			return value.Undef(), nil
		}
		scaled := new(big.Int).Mul(lm, big.NewInt(10))
		mag.Quo(scaled, rm)
		resultScale = 1
	case OpRem:
		if rm.Sign() == 0 {
			return value.Undef(), nil
		}
		mag.Rem(lm, rm)
	}
	return value.DecimalValue(value.Decimal{Precision: 38, Scale: resultScale, Magnitude: &mag}), nil
}

func asDecimal(v value.Value) value.Decimal {
	if v.Type() == value.Decimal {
		return v.Decimal()
	}
	return value.Decimal{Scale: 0, Magnitude: valueAsBigInt(v)}
}

func scaleMagnitude(d value.Decimal, toScale uint8) *big.Int {
	mag := d.Magnitude
	if mag == nil {
		mag = big.NewInt(0)
	}
	if toScale <= d.Scale {
		return mag
	}
	factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(toScale-d.Scale)), nil)
	return new(big.Int).Mul(mag, factor)
}
