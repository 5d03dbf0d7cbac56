package expr

import (
	"math/big"

	"github.com/reifydb/reifydb/internal/column"
	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/value"
)

// UnaryOp is one of the three unary prefix operators.
type UnaryOp uint8

const (
	OpNot UnaryOp = iota
	OpNeg
	OpPos
)

func (o UnaryOp) String() string {
	switch o {
	case OpNot:
		return "!"
	case OpNeg:
		return "-"
	case OpPos:
		return "+"
	default:
		return "?"
	}
}

// Unary applies a prefix operator to Operand's evaluated column.
type Unary struct {
	Op       UnaryOp
	Operand  Expr
	Fragment diagnostic.Fragment
}

func (u Unary) Eval(frame *column.Frame) (*column.Data, error) {
	in, err := u.Operand.Eval(frame)
	if err != nil {
		return nil, err
	}

	if u.Op == OpNot {
		if in.Typ != value.Bool {
			return nil, diagnostic.NotOnNonBoolean(u.Fragment, in.Typ.String())
		}
		out := column.NewData(value.Bool, in.Len())
		for i := 0; i < in.Len(); i++ {
			v := in.Get(i)
			if value.IsUndefined(v) {
				out.Push(value.Undef())
				continue
			}
			out.Push(value.BoolValue(!v.Bool()))
		}
		return out, nil
	}

	if !in.Typ.IsNumeric() {
		return nil, diagnostic.ArithPrefixOnNonNumeric(u.Fragment, in.Typ.String())
	}

	out := column.NewData(in.Typ, in.Len())
	for i := 0; i < in.Len(); i++ {
		v := in.Get(i)
		if value.IsUndefined(v) {
			out.Push(value.Undef())
			continue
		}
		out.Push(negateOrKeep(v, u.Op == OpNeg))
	}
	return out, nil
}

func negateOrKeep(v value.Value, negate bool) value.Value {
	if !negate {
		return v
	}
	switch v.Type() {
	case value.Int1:
		return value.Int1Value(int8(-v.Int64()))
	case value.Int2:
		return value.Int2Value(int16(-v.Int64()))
	case value.Int4:
		return value.Int4Value(int32(-v.Int64()))
	case value.Int8:
		return value.Int8Value(-v.Int64())
	case value.Uint1, value.Uint2, value.Uint4, value.Uint8:
		n := wrapToWidth(new(big.Int).Neg(new(big.Int).SetUint64(v.Uint64())), v.Type())
		return bigIntToValue(n, v.Type())
	case value.Float4:
		return value.Float4Value(-float32(v.Float64()))
	case value.Float8:
		return value.Float8Value(-v.Float64())
	case value.Int, value.Uint:
		n := new(big.Int).Neg(v.Big())
		if v.Type() == value.Uint && n.Sign() < 0 {
			n = big.NewInt(0)
		}
		return bigIntToValue(n, v.Type())
	case value.Decimal:
		d := v.Decimal()
		mag := d.Magnitude
		if mag == nil {
			mag = big.NewInt(0)
		}
		d.Magnitude = new(big.Int).Neg(mag)
		return value.DecimalValue(d)
	default:
		return v
	}
}
