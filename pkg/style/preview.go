package style

import (
	"github.com/spinifex/styling/internal/engine"
)

// FieldStats summarizes the finite-numeric observations of one field across
// a feature collection. Count is the number of valid samples, not the total
// feature count.
type FieldStats struct {
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	Count  int
}

// ComputeFieldStats computes min/max/mean/median/count for a named field.
//
// Non-numeric and nil values are excluded from the sample, not coerced.
// Returns nil when the field has zero valid samples; treat nil as "no
// graduated styling possible for this field", not as zero. Median is the
// sorted sample at index count/2 (floor division, not interpolated).
//
// Pure and synchronous; usable directly by UI code for previews.
func ComputeFieldStats(records []FeatureRecord, field string) *FieldStats {
	stats := engine.ComputeFieldStats(records, field)
	if stats == nil {
		return nil
	}
	return &FieldStats{
		Min:    stats.Min,
		Max:    stats.Max,
		Mean:   stats.Mean,
		Median: stats.Median,
		Count:  stats.Count,
	}
}

// GeneratedRule is one unique-value rule derived from a field's distinct
// values. Filter is a valid rule filter expression; Label and Count are for
// UI display.
type GeneratedRule struct {
	Value  any
	Label  string
	Count  int
	Filter string
	Fill   string
}

// GenerateUniqueValueRules derives a discrete rule set from the distinct
// non-nil values of a field, preserving first-seen order, with colors
// sampled evenly across the scale.
//
// The generated filters are safe equality expressions (string values are
// quote-escaped, numerics inlined unquoted) and each rule carries the
// stringified value as its display label plus the observed value count.
func (e *Engine) GenerateUniqueValueRules(records []FeatureRecord, field string, scale ScaleRef) ([]GeneratedRule, []Warning) {
	var warnings []Warning
	fn, err := e.scales.Resolve(scale.engineRef())
	if err != nil {
		e.warn(&warnings, WarningResolution, "unique value scale", err)
	}

	generated := engine.GenerateUniqueValueRules(records, field, fn)
	rules := make([]GeneratedRule, len(generated))
	for i, gr := range generated {
		rules[i] = GeneratedRule(gr)
	}
	return rules, warnings
}

// SampleScale samples a scale at n evenly spaced positions and returns hex
// colors, for preview swatches. The first and last samples hit the scale
// endpoints exactly.
func (e *Engine) SampleScale(ref ScaleRef, n int) ([]string, []Warning) {
	var warnings []Warning
	fn, err := e.scales.Resolve(ref.engineRef())
	if err != nil {
		e.warn(&warnings, WarningResolution, "scale preview", err)
	}

	samples := engine.SampleScale(fn, n)
	hex := make([]string, len(samples))
	for i, c := range samples {
		hex[i] = c.Hex()
	}
	return hex, warnings
}
