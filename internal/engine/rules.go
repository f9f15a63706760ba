package engine

// Rule pairs an optional compiled filter with the style attributes to apply
// when it matches. A nil Filter matches every record (catch-all); by
// convention the catch-all sits last in the list.
type Rule struct {
	Filter *CompiledExpr
	Attrs  StyleAttrs
}

// StyleAttrs holds one rule's attributes. Nil fields are absent on that
// rule and fall back independently to the layer defaults, so partial rules
// are legal and expected.
type StyleAttrs struct {
	Fill    *string
	Stroke  *string
	Width   *float64
	Radius  *float64
	Opacity *float64
	Label   *string
}

// ResolvedStyle is a complete, renderer-ready style description. Every
// field is always populated; resolvers never return partial styles.
type ResolvedStyle struct {
	Fill    string
	Stroke  string
	Width   float64
	Radius  float64
	Opacity float64
	Label   string
}

// ResolveRules evaluates rules strictly in list order and returns the style
// of the first rule whose filter matches the record.
//
// A rule whose filter predicate errors at runtime is treated as not
// matching that record; later rules still get their turn. When nothing
// matches, the defaults are returned whole with OutcomeDefault.
func ResolveRules(rules []Rule, r Record, defaults ResolvedStyle) (ResolvedStyle, Resolution) {
	for i := range rules {
		if rules[i].Filter != nil && !rules[i].Filter.Predicate(r) {
			continue
		}
		return mergeAttrs(rules[i].Attrs, defaults), Resolution{Outcome: OutcomeMatched, RuleIndex: i}
	}
	return defaults, Resolution{Outcome: OutcomeDefault, RuleIndex: -1}
}

// mergeAttrs overlays the rule's present attributes on the defaults.
func mergeAttrs(attrs StyleAttrs, defaults ResolvedStyle) ResolvedStyle {
	style := defaults
	if attrs.Fill != nil {
		style.Fill = *attrs.Fill
	}
	if attrs.Stroke != nil {
		style.Stroke = *attrs.Stroke
	}
	if attrs.Width != nil {
		style.Width = *attrs.Width
	}
	if attrs.Radius != nil {
		style.Radius = *attrs.Radius
	}
	if attrs.Opacity != nil {
		style.Opacity = *attrs.Opacity
	}
	if attrs.Label != nil {
		style.Label = *attrs.Label
	}
	return style
}
