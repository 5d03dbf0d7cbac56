package exec

import (
	"math/big"
	"strings"

	"github.com/reifydb/reifydb/internal/value"
)

// compareValues orders two defined values of the same or compatible types.
// Sort needs a total order over arbitrary
// column values; numeric types compare by magnitude (widened through
// big.Float so fixed-width, arbitrary-precision and decimal values compare
// consistently), everything else compares on its natural representation.
func compareValues(a, b value.Value) int {
	switch a.Type() {
	case value.Bool:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case !a.Bool():
			return -1
		default:
			return 1
		}
	case value.Utf8:
		return strings.Compare(a.Str(), b.Str())
	case value.Blob:
		return strings.Compare(string(a.Bytes()), string(b.Bytes()))
	case value.Date, value.DateTime, value.Time:
		switch {
		case a.Time().Before(b.Time()):
			return -1
		case a.Time().After(b.Time()):
			return 1
		default:
			return 0
		}
	case value.Interval:
		switch {
		case a.Duration() < b.Duration():
			return -1
		case a.Duration() > b.Duration():
			return 1
		default:
			return 0
		}
	case value.Uuid4, value.Uuid7, value.IdentityID:
		return strings.Compare(a.UUID().String(), b.UUID().String())
	default:
		return compareNumericValues(a, b)
	}
}

func numericBigFloat(v value.Value) *big.Float {
	switch v.Type() {
	case value.Float4, value.Float8:
		return big.NewFloat(v.Float64())
	case value.Int1, value.Int2, value.Int4, value.Int8, value.Int16:
		return new(big.Float).SetInt64(v.Int64())
	case value.Uint1, value.Uint2, value.Uint4, value.Uint8, value.Uint16, value.RowNumber:
		return new(big.Float).SetUint64(v.Uint64())
	case value.Int, value.Uint:
		if v.Big() == nil {
			return big.NewFloat(0)
		}
		return new(big.Float).SetInt(v.Big())
	case value.Decimal:
		d := v.Decimal()
		if d.Magnitude == nil {
			return big.NewFloat(0)
		}
		f := new(big.Float).SetInt(d.Magnitude)
		scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Scale)), nil))
		return new(big.Float).Quo(f, scale)
	default:
		return big.NewFloat(0)
	}
}

func compareNumericValues(a, b value.Value) int {
	return numericBigFloat(a).Cmp(numericBigFloat(b))
}
