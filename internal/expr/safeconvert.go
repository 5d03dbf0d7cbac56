package expr

import (
	"math"
	"math/big"

	"github.com/reifydb/reifydb/internal/value"
)

// CastMode selects how an out-of-range or non-finite conversion behaves.
type CastMode uint8

const (
	// CastChecked rejects an out-of-range or non-finite conversion,
	// producing Undefined instead.
	CastChecked CastMode = iota
	// CastSaturating clamps to the target's min/max; NaN becomes 0,
	// +Inf the target's max, -Inf the target's min.
	CastSaturating
	// CastWrapping reduces modulo the target's bit width for integers;
	// for a float source, NaN/negative-to-unsigned becomes 0 and the
	// result is otherwise truncated toward zero.
	CastWrapping
)

// intBoundsBig returns t's representable range as big.Int bounds. arbitrary
// is true for Int/Uint, whose only bound is Uint's implicit lower bound of
// zero; max is nil for Int (unbounded in both directions).
func intBoundsBig(t value.Type) (min, max *big.Int, arbitrary bool) {
	switch t {
	case value.Int1:
		return big.NewInt(math.MinInt8), big.NewInt(math.MaxInt8), false
	case value.Int2:
		return big.NewInt(math.MinInt16), big.NewInt(math.MaxInt16), false
	case value.Int4:
		return big.NewInt(math.MinInt32), big.NewInt(math.MaxInt32), false
	case value.Int8:
		return big.NewInt(math.MinInt64), big.NewInt(math.MaxInt64), false
	case value.Uint1:
		return big.NewInt(0), big.NewInt(math.MaxUint8), false
	case value.Uint2:
		return big.NewInt(0), big.NewInt(math.MaxUint16), false
	case value.Uint4:
		return big.NewInt(0), big.NewInt(math.MaxUint32), false
	case value.Uint8:
		max := new(big.Int).SetUint64(math.MaxUint64)
		return big.NewInt(0), max, false
	case value.Int:
		return nil, nil, true
	case value.Uint:
		return big.NewInt(0), nil, true
	default:
		return nil, nil, false
	}
}

func bitWidthOf(t value.Type) int {
	switch t {
	case value.Int1, value.Uint1:
		return 8
	case value.Int2, value.Uint2:
		return 16
	case value.Int4, value.Uint4:
		return 32
	case value.Int8, value.Uint8:
		return 64
	default:
		return 0
	}
}

// valueAsBigInt converts an int-like or Decimal Value to its exact big.Int
// representation; Decimal is truncated toward zero at the decimal point.
func valueAsBigInt(v value.Value) *big.Int {
	switch v.Type() {
	case value.Int1, value.Int2, value.Int4, value.Int8:
		return big.NewInt(v.Int64())
	case value.Uint1, value.Uint2, value.Uint4, value.Uint8:
		return new(big.Int).SetUint64(v.Uint64())
	case value.Int, value.Uint:
		return v.Big()
	case value.Decimal:
		d := v.Decimal()
		if d.Magnitude == nil {
			return big.NewInt(0)
		}
		if d.Scale == 0 {
			return new(big.Int).Set(d.Magnitude)
		}
		div := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Scale)), nil)
		q := new(big.Int)
		q.Quo(d.Magnitude, div)
		return q
	default:
		return big.NewInt(0)
	}
}

// bigIntToValue builds a Value of the fixed-width target type from n, which
// must already be within target's representable range.
func bigIntToValue(n *big.Int, target value.Type) value.Value {
	switch target {
	case value.Int1:
		return value.Int1Value(int8(n.Int64()))
	case value.Int2:
		return value.Int2Value(int16(n.Int64()))
	case value.Int4:
		return value.Int4Value(int32(n.Int64()))
	case value.Int8:
		return value.Int8Value(n.Int64())
	case value.Uint1:
		return value.Uint1Value(uint8(n.Uint64()))
	case value.Uint2:
		return value.Uint2Value(uint16(n.Uint64()))
	case value.Uint4:
		return value.Uint4Value(uint32(n.Uint64()))
	case value.Uint8:
		return value.Uint8Value(n.Uint64())
	case value.Int:
		return value.IntValue(n)
	case value.Uint:
		return value.UintValue(n)
	default:
		return value.Undef()
	}
}

// wrapToWidth reduces n modulo target's bit width, two's-complement style.
func wrapToWidth(n *big.Int, target value.Type) *big.Int {
	width := bitWidthOf(target)
	if width == 0 {
		return n
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
	r := new(big.Int).Mod(n, mod) // big.Int.Mod is Euclidean: always >= 0
	if target == value.Int1 || target == value.Int2 || target == value.Int4 || target == value.Int8 {
		half := new(big.Int).Rsh(mod, 1)
		if r.Cmp(half) >= 0 {
			r.Sub(r, mod)
		}
	}
	return r
}

// convertIntToInt is SafeDemote/SafePromote generalized over every signed/
// unsigned, fixed/arbitrary-precision integer pair the engine has, instead
// of one trait impl per concrete pair: the only inputs that vary are the
// target's bounds and bit width.
func convertIntToInt(n *big.Int, target value.Type, mode CastMode) (value.Value, bool) {
	min, max, arbitrary := intBoundsBig(target)
	if arbitrary {
		if target == value.Int {
			return value.IntValue(n), true
		}
		// target is Uint: unbounded above, floored at zero.
		if n.Sign() >= 0 {
			return value.UintValue(n), true
		}
		switch mode {
		case CastChecked:
			return value.Value{}, false
		default:
			return value.UintValue(big.NewInt(0)), true
		}
	}
	if n.Cmp(min) >= 0 && n.Cmp(max) <= 0 {
		return bigIntToValue(n, target), true
	}
	switch mode {
	case CastChecked:
		return value.Value{}, false
	case CastSaturating:
		if n.Cmp(min) < 0 {
			return bigIntToValue(min, target), true
		}
		return bigIntToValue(max, target), true
	default: // CastWrapping
		return bigIntToValue(wrapToWidth(n, target), target), true
	}
}

// convertFloatToInt implements the float -> integer rules from spec: checked
// rejects NaN/Inf/out-of-range; saturating maps NaN to 0 and +-Inf to the
// target's bounds; wrapping maps NaN and negative-to-unsigned to 0 and
// otherwise truncates toward zero, clamped at the target's bounds (matching
// Rust's `as` float-to-int semantics, which saturate rather than wrap).
func convertFloatToInt(f float64, target value.Type, mode CastMode) (value.Value, bool) {
	min, max, arbitrary := intBoundsBig(target)
	var minF, maxF float64
	if !arbitrary {
		minF, _ = new(big.Float).SetInt(min).Float64()
		maxF, _ = new(big.Float).SetInt(max).Float64()
	}
	unsigned := target == value.Uint1 || target == value.Uint2 || target == value.Uint4 ||
		target == value.Uint8 || target == value.Uint

	switch mode {
	case CastChecked:
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return value.Value{}, false
		}
		if unsigned && f < 0 {
			return value.Value{}, false
		}
		if !arbitrary && (f < minF || f > maxF) {
			return value.Value{}, false
		}
		return convertIntToInt(bigFromFloat(f), target, CastChecked)
	case CastSaturating:
		if math.IsNaN(f) {
			return bigIntToValue0(target), true
		}
		if math.IsInf(f, 1) {
			return boundValue(max, target, arbitrary, false), true
		}
		if math.IsInf(f, -1) {
			return boundValue(min, target, arbitrary, true), true
		}
		if unsigned && f < 0 {
			return bigIntToValue0(target), true
		}
		if !arbitrary && f > maxF {
			return boundValue(max, target, arbitrary, false), true
		}
		if !arbitrary && f < minF {
			return boundValue(min, target, arbitrary, true), true
		}
		return convertIntToInt(bigFromFloat(f), target, CastSaturating)
	default: // CastWrapping
		if math.IsNaN(f) {
			return bigIntToValue0(target), true
		}
		if unsigned && f < 0 {
			return bigIntToValue0(target), true
		}
		if math.IsInf(f, 1) {
			return boundValue(max, target, arbitrary, false), true
		}
		if math.IsInf(f, -1) {
			return boundValue(min, target, arbitrary, true), true
		}
		return convertIntToInt(bigFromFloat(f), target, CastSaturating)
	}
}

func bigIntToValue0(target value.Type) value.Value {
	return bigIntToValue(big.NewInt(0), target)
}

func boundValue(b *big.Int, target value.Type, arbitrary, isMin bool) value.Value {
	if arbitrary {
		if isMin {
			return bigIntToValue(big.NewInt(0), target)
		}
		// Int/Uint have no finite upper representable bound to clamp
		// to; fall back to a large sentinel magnitude rather than
		// leaving the cast unresolved.
		return bigIntToValue(big.NewInt(math.MaxInt64), target)
	}
	return bigIntToValue(b, target)
}

func bigFromFloat(f float64) *big.Int {
	bf := new(big.Float).SetFloat64(math.Trunc(f))
	n, _ := bf.Int(nil)
	return n
}

// convertIntToFloat is the promote direction: per spec, checked always
// succeeds unless the source is an arbitrary-precision Int/Uint that
// overflows float64's finite range.
func convertIntToFloat(n *big.Int, target value.Type, mode CastMode, arbitrarySource bool) (value.Value, bool) {
	f, _ := new(big.Float).SetInt(n).Float64()
	if target == value.Float4 {
		f32 := float32(f)
		if arbitrarySource && mode == CastChecked && math.IsInf(float64(f32), 0) {
			return value.Value{}, false
		}
		return value.Float4Value(f32), true
	}
	if arbitrarySource && mode == CastChecked && math.IsInf(f, 0) {
		return value.Value{}, false
	}
	return value.Float8Value(f), true
}

func convertFloatToFloat(f float64, target value.Type, mode CastMode) (value.Value, bool) {
	if target == value.Float8 {
		return value.Float8Value(f), true
	}
	// Float8 -> Float4 demote.
	f32 := float32(f)
	overflowed := !math.IsInf(f, 0) && math.IsInf(float64(f32), 0)
	switch mode {
	case CastChecked:
		if overflowed {
			return value.Value{}, false
		}
		return value.Float4Value(f32), true
	default:
		return value.Float4Value(f32), true
	}
}
