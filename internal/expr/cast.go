package expr

import (
	"strconv"
	"strings"

	"github.com/reifydb/reifydb/internal/diagnostic"
	"github.com/reifydb/reifydb/internal/value"
)

// CastValue converts v to target under mode, per the rules in
// convertIntToInt/convertFloatToInt/convertIntToFloat/convertFloatToFloat.
// frag anchors any diagnostic this cast raises.
func CastValue(v value.Value, target value.Type, mode CastMode, frag diagnostic.Fragment) (value.Value, error) {
	if value.IsUndefined(v) {
		return value.Undef(), nil
	}
	source := v.Type()
	if source == target {
		return v, nil
	}

	if target == value.Utf8 {
		return value.Utf8Value(v.String()), nil
	}

	if source == value.Utf8 {
		return castFromText(v.Str(), target, frag)
	}

	if target == value.Bool {
		return value.Value{}, diagnostic.UnsupportedCast(frag, source.String(), target.String())
	}

	if !source.IsNumeric() || !target.IsNumeric() {
		return value.Value{}, diagnostic.UnsupportedCast(frag, source.String(), target.String())
	}

	result, ok := castNumeric(v, source, target, mode)
	if !ok {
		return value.Undef(), nil
	}
	return result, nil
}

func castNumeric(v value.Value, source, target value.Type, mode CastMode) (value.Value, bool) {
	sourceIsFloat := source == value.Float4 || source == value.Float8
	targetIsFloat := target == value.Float4 || target == value.Float8

	switch {
	case sourceIsFloat && targetIsFloat:
		return convertFloatToFloat(v.Float64(), target, mode)
	case sourceIsFloat && !targetIsFloat:
		return convertFloatToInt(v.Float64(), target, mode)
	case !sourceIsFloat && targetIsFloat:
		n := valueAsBigInt(v)
		return convertIntToFloat(n, target, mode, source == value.Int || source == value.Uint)
	default:
		n := valueAsBigInt(v)
		return convertIntToInt(n, target, mode)
	}
}

func castFromText(s string, target value.Type, frag diagnostic.Fragment) (value.Value, error) {
	switch target {
	case value.Bool:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true":
			return value.BoolValue(true), nil
		case "false":
			return value.BoolValue(false), nil
		default:
			return value.Value{}, diagnostic.InvalidCastParse(frag, s, target.String())
		}
	case value.Float4, value.Float8:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return value.Value{}, diagnostic.InvalidCastParse(frag, s, target.String())
		}
		if target == value.Float4 {
			return value.Float4Value(float32(f)), nil
		}
		return value.Float8Value(f), nil
	case value.Int1, value.Int2, value.Int4, value.Int8:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return value.Value{}, diagnostic.InvalidCastParse(frag, s, target.String())
		}
		result, ok := convertIntToInt(bigFromFloat(float64(n)), target, CastChecked)
		if !ok {
			return value.Value{}, diagnostic.InvalidCastParse(frag, s, target.String())
		}
		return result, nil
	case value.Uint1, value.Uint2, value.Uint4, value.Uint8:
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return value.Value{}, diagnostic.InvalidCastParse(frag, s, target.String())
		}
		result, ok := convertIntToInt(bigFromFloat(float64(n)), target, CastChecked)
		if !ok {
			return value.Value{}, diagnostic.InvalidCastParse(frag, s, target.String())
		}
		return result, nil
	default:
		return value.Value{}, diagnostic.UnsupportedCast(frag, value.Utf8.String(), target.String())
	}
}
