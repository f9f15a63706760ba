package engine

// LabelEvaluator computes per-feature label text from a label spec: either
// a plain field name or a template with ${...} interpolation segments.
//
// A zero LabelEvaluator produces no labels.
type LabelEvaluator struct {
	expr *CompiledExpr
}

// NewLabelEvaluator compiles a label spec in template mode.
//
// An empty spec yields an evaluator that labels nothing. A spec that fails
// to compile also labels nothing; the error is returned so the caller can
// surface a warning, never a failure.
func NewLabelEvaluator(c *Compiler, spec string) (*LabelEvaluator, error) {
	if spec == "" {
		return &LabelEvaluator{}, nil
	}
	expr, err := c.Compile(spec, ModeTemplate)
	return &LabelEvaluator{expr: expr}, err
}

// Evaluate returns the label text for a record, or ok=false when the
// feature gets no label: empty spec, nil or missing field value, or an
// interpolation that errors at runtime. Labels are silently omitted, never
// an error.
func (l *LabelEvaluator) Evaluate(r Record) (string, bool) {
	if l == nil || l.expr == nil {
		return "", false
	}
	return l.expr.Text(r)
}
