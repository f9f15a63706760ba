package engine

// Fallback domain when neither configuration nor statistics supply one.
const (
	fallbackDomainMin = 0
	fallbackDomainMax = 100
)

// Graduated maps a feature's numeric driver value to a fill color through
// normalization and a continuous color scale.
//
// The driver is Expr when set (expression wins over field), otherwise the
// raw value of Field. The effective domain prefers configured Min/Max over
// the field statistics, with 0..100 as the last resort.
type Graduated struct {
	Field       string
	Expr        *CompiledExpr
	Transform   Transform
	Scale       ScaleFunc
	Min         *float64
	Max         *float64
	DefaultFill string
}

// Resolve computes the fill color for one record.
//
// A non-numeric driver value (missing field, string, nil, evaluation error)
// takes the DefaultFill path with OutcomeFallback; normalization is skipped
// entirely. Resolution never errors: every record gets a fill.
func (g *Graduated) Resolve(r Record, stats *FieldStats) (string, Resolution) {
	var raw any
	if g.Expr != nil {
		raw = g.Expr.Value(r)
	} else {
		raw = r[g.Field]
	}

	v, ok := numericValue(raw)
	if !ok {
		return g.DefaultFill, Resolution{
			Outcome:   OutcomeFallback,
			RuleIndex: -1,
			Reason:    "non-numeric driver value",
		}
	}

	min, max := g.domain(stats)
	transform := g.Transform
	if transform == nil {
		transform = Linear
	}
	t := Clamp01(transform(v, min, max))

	if g.Scale == nil {
		return g.DefaultFill, Resolution{
			Outcome:   OutcomeFallback,
			RuleIndex: -1,
			Reason:    "no color scale",
		}
	}
	return g.Scale(t).Hex(), Resolution{Outcome: OutcomeMatched, RuleIndex: -1}
}

// domain returns the effective min/max for normalization.
func (g *Graduated) domain(stats *FieldStats) (float64, float64) {
	min, max := float64(fallbackDomainMin), float64(fallbackDomainMax)
	if stats != nil {
		min, max = stats.Min, stats.Max
	}
	if g.Min != nil {
		min = *g.Min
	}
	if g.Max != nil {
		max = *g.Max
	}
	return min, max
}
