package engine

import (
	"fmt"
	"strconv"
)

// GeneratedRule is one unique-value rule derived from a field's distinct
// values. Filter is valid predicate-mode input for the Compiler. Label and
// Count are informational, for UI display alongside the rule.
type GeneratedRule struct {
	Value  any
	Label  string
	Count  int
	Filter string
	Fill   string
}

// GenerateUniqueValueRules derives a discrete rule set from the distinct
// non-nil values of a field, in first-seen order, with colors sampled
// evenly across the scale at i/max(1,n-1).
func GenerateUniqueValueRules(records []Record, field string, scale ScaleFunc) []GeneratedRule {
	var order []any
	counts := make(map[any]int)
	for _, r := range records {
		v, ok := r[field]
		if !ok || v == nil {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	if len(order) == 0 {
		return nil
	}

	rules := make([]GeneratedRule, len(order))
	d := float64(max(1, len(order)-1))
	for i, v := range order {
		rules[i] = GeneratedRule{
			Value:  v,
			Label:  formatScalar(v),
			Count:  counts[v],
			Filter: equalityFilter(field, v),
			Fill:   scale(float64(i) / d).Hex(),
		}
	}
	return rules
}

// equalityFilter builds a predicate-mode expression matching field == value.
// The field name is always index-quoted so names with spaces stay valid;
// string values are quote-escaped, numerics and booleans inline unquoted.
func equalityFilter(field string, v any) string {
	lhs := fmt.Sprintf("r[%s]", strconv.Quote(field))
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%s == %s", lhs, strconv.Quote(val))
	case bool:
		return fmt.Sprintf("%s == %t", lhs, val)
	case float64:
		return fmt.Sprintf("%s == %s", lhs, strconv.FormatFloat(val, 'g', -1, 64))
	case float32:
		return fmt.Sprintf("%s == %s", lhs, strconv.FormatFloat(float64(val), 'g', -1, 32))
	case int, int32, int64, uint, uint32, uint64:
		return fmt.Sprintf("%s == %v", lhs, val)
	default:
		return fmt.Sprintf("%s == %s", lhs, strconv.Quote(fmt.Sprintf("%v", val)))
	}
}
