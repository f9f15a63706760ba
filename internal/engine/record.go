package engine

import (
	"fmt"
	"math"
	"strconv"
)

// Record is a single feature's property record: field name to scalar value
// (number, string, boolean, or nil). Records are owned by the data layer;
// the engine only reads them.
type Record = map[string]any

// numericValue converts a record value to float64 when it is a finite number.
// Strings, booleans, nil, NaN and infinities are rejected, not coerced.
func numericValue(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// formatScalar renders a record value for display in labels and rule names.
// Floats use the shortest representation that round-trips.
func formatScalar(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'g', -1, 32)
	case bool:
		return strconv.FormatBool(n)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}
