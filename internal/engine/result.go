package engine

// Outcome classifies how a style was resolved for a single feature.
//
// Resolvers never fail: a feature that cannot be styled cleanly still gets a
// complete style, and the outcome records which fallback path produced it so
// callers (and tests) can tell the paths apart without relying on exceptions
// as control flow.
type Outcome int

const (
	// OutcomeMatched means a rule filter matched or a graduated value mapped
	// cleanly through the scale.
	OutcomeMatched Outcome = iota

	// OutcomeDefault means no rule matched and the layer defaults were used.
	OutcomeDefault

	// OutcomeFallback means evaluation degraded (non-numeric driver value,
	// evaluation error) and a documented fallback was substituted.
	OutcomeFallback
)

// String returns the outcome name for diagnostics.
func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeDefault:
		return "default"
	case OutcomeFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Resolution describes the path taken to resolve one feature's style.
type Resolution struct {
	Outcome Outcome

	// RuleIndex is the index of the matched rule, or -1 when no rule applies
	// (graduated styling, defaults, fallbacks).
	RuleIndex int

	// Reason is set for OutcomeFallback and names the degradation.
	Reason string
}
