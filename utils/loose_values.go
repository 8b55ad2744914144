package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Helpers for hand-edited or loosely typed JSON values, where the stored or
// submitted type is not guaranteed to match the field.

// LooseString renders a decoded JSON value as text. Strings pass through,
// numbers and booleans are formatted, null and containers become "".
func LooseString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	default:
		return ""
	}
}

// Truthy reports whether a decoded JSON value counts as "set": true, a
// non-zero number, a non-empty string, array or object.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}

// LooseInt converts a decoded JSON value to an int. Fractional numbers are
// truncated toward zero, strings must hold a base-10 integer, booleans map to
// 1 and 0. Anything else reports false.
func LooseInt(v any) (int, bool) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case float64:
		return floatToInt(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n), true
		}
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int, bool) {
	t := math.Trunc(f)
	if math.IsNaN(t) || t >= math.MaxInt64 || t < math.MinInt64 {
		return 0, false
	}
	return int(t), true
}
