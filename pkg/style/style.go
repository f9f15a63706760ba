package style

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spinifex/styling/internal/engine"
)

// FeatureRecord is a single feature's property record: field name to scalar
// value (number, string, boolean, or nil). Records are owned by the data
// layer; the engine only reads them.
type FeatureRecord = map[string]any

// ResolvedStyle is a complete, renderer-ready style description. Every
// resolver returns either a clean result or a fully-specified fallback;
// features are never left partially styled.
type ResolvedStyle struct {
	Fill    string
	Stroke  string
	Width   float64
	Radius  float64
	Opacity float64

	// Label is the per-feature label text, empty when the feature gets no
	// label. LabelStyle carries the shared presentation attributes.
	Label      string
	LabelStyle LabelStyle
}

// LabelStyle holds label presentation attributes shared by every feature of
// a layer.
type LabelStyle struct {
	Color        string
	Outline      string
	OutlineWidth float64
	Align        string
	Baseline     string
	OffsetX      float64
	OffsetY      float64
	Placement    string
}

// StyleFunc computes the style for one feature. It is pure and reentrant:
// safe to call from multiple rendering contexts at once, typically tens of
// thousands of times per render pass.
type StyleFunc func(FeatureRecord) ResolvedStyle

// Layer is the engine's view of a renderable feature layer. The renderer
// calls the installed StyleFunc once per feature while painting.
type Layer interface {
	// ID identifies the layer for statistics caching.
	ID() string

	// Records returns the layer's feature records.
	Records() []FeatureRecord

	// SetStyleFunc installs the per-feature style computation.
	SetStyleFunc(fn StyleFunc)
}

// WarningKind classifies non-fatal styling problems.
type WarningKind int

const (
	// WarningCompile marks a malformed expression. The expression is
	// replaced by a safe no-op (predicates match nothing, values and labels
	// yield nil).
	WarningCompile WarningKind = iota

	// WarningResolution marks an unresolvable reference (unknown scale,
	// transform, or style type) recovered via a documented fallback.
	WarningResolution
)

// String returns the kind name for diagnostics.
func (k WarningKind) String() string {
	switch k {
	case WarningCompile:
		return "compile"
	case WarningResolution:
		return "resolution"
	default:
		return "unknown"
	}
}

// Warning reports one non-fatal degradation encountered while building a
// style function. A warned configuration still styles every feature; the
// quality degrades (wrong colors, missing labels), never the render pass.
type Warning struct {
	Kind   WarningKind
	Detail string
	Err    error
}

// Engine defaults applied when configuration leaves attributes unset.
const (
	DefaultFill    = "#cccccc"
	DefaultStroke  = "#333333"
	DefaultWidth   = 1.0
	DefaultRadius  = 5.0
	DefaultOpacity = 1.0
)

// Engine builds per-feature style functions from configuration.
//
// The engine is synchronous and stateless across invocations apart from the
// field-statistics cache; the style functions it produces share no mutable
// state and may be invoked concurrently.
type Engine struct {
	log      *zap.Logger
	compiler *engine.Compiler
	scales   *engine.Registry
	stats    *engine.StatsCache
}

// NewEngine creates an engine with default options.
func NewEngine() (*Engine, error) {
	return NewEngineWithOptions(DefaultEngineOptions())
}

// NewEngineWithOptions creates an engine with custom options.
func NewEngineWithOptions(opts EngineOptions) (*Engine, error) {
	compiler, err := engine.NewCompiler()
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	scales := engine.NewRegistry()
	for name, stops := range opts.Palettes {
		if err := scales.Register(name, stops); err != nil {
			return nil, fmt.Errorf("palette %q: %w", name, err)
		}
	}

	return &Engine{
		log:      logger,
		compiler: compiler,
		scales:   scales,
		stats:    engine.NewStatsCache(),
	}, nil
}

// Apply installs a style computation function on the layer.
//
// Apply never fails: malformed configuration degrades per the documented
// fallbacks and is reported through the engine's logger. Field statistics
// are cached per (layer, field); call InvalidateLayer when the layer's
// feature set changes.
func (e *Engine) Apply(layer Layer, cfg Config) {
	records := layer.Records()
	fn, warnings := e.build(records, cfg, func(field string) *engine.FieldStats {
		return e.stats.Get(layer.ID(), field, func() *engine.FieldStats {
			return engine.ComputeFieldStats(records, field)
		})
	})
	for _, w := range warnings {
		e.log.Warn("style configuration degraded",
			zap.String("kind", w.Kind.String()),
			zap.String("detail", w.Detail),
			zap.Error(w.Err))
	}
	layer.SetStyleFunc(fn)
}

// Build is the pure form of Apply: it returns the style function and the
// warnings instead of installing anything, so UI code can preview styling
// without touching a renderer. Statistics are computed directly, uncached.
func (e *Engine) Build(records []FeatureRecord, cfg Config) (StyleFunc, []Warning) {
	return e.build(records, cfg, func(field string) *engine.FieldStats {
		return engine.ComputeFieldStats(records, field)
	})
}

// InvalidateLayer drops cached field statistics for a layer. Call it when
// the layer's feature set changes.
func (e *Engine) InvalidateLayer(id string) {
	e.stats.Invalidate(id)
}

// build assembles the style function. statsFor supplies field statistics;
// Apply routes it through the cache, Build computes directly.
func (e *Engine) build(records []FeatureRecord, cfg Config, statsFor func(string) *engine.FieldStats) (StyleFunc, []Warning) {
	var warnings []Warning

	cfg = e.normalize(records, cfg, &warnings)
	defaults := e.defaults(cfg)
	labels := e.labelEvaluator(cfg, &warnings)
	labelStyle := cfg.labelStyle()

	if cfg.Type == TypeGraduated {
		grad := e.buildGraduated(cfg, &warnings)

		// Statistics are only needed when a configured bound is missing.
		var stats *engine.FieldStats
		if cfg.Field != "" && (cfg.Min == nil || cfg.Max == nil) {
			stats = statsFor(cfg.Field)
		}

		return func(r FeatureRecord) ResolvedStyle {
			fill, _ := grad.Resolve(r, stats)
			resolved := defaults
			resolved.Fill = fill
			return finishStyle(resolved, labelStyle, labels, r)
		}, warnings
	}

	rules := e.buildRules(cfg, &warnings)
	return func(r FeatureRecord) ResolvedStyle {
		resolved, _ := engine.ResolveRules(rules, r, defaults)
		return finishStyle(resolved, labelStyle, labels, r)
	}, warnings
}

// normalize expands legacy sugar configurations into canonical form before
// the resolvers run.
func (e *Engine) normalize(records []FeatureRecord, cfg Config, warnings *[]Warning) Config {
	styleType := cfg.Type
	if styleType == "" {
		if len(cfg.Rules) > 0 {
			styleType = TypeRules
		} else {
			styleType = TypeSingle
		}
	}

	switch styleType {
	case TypeRules, TypeGraduated:
		cfg.Type = styleType
		return cfg

	case TypeSingle:
		// One catch-all rule carrying the configured fill.
		var rule RuleConfig
		if cfg.Fill != "" {
			rule.Fill = cfg.Fill
		} else if cfg.Default != "" {
			rule.Fill = cfg.Default
		}
		cfg.Type = TypeRules
		cfg.Rules = []RuleConfig{rule}
		return cfg

	case TypeCategorical:
		scale, err := e.scales.Resolve(cfg.Scale.engineRef())
		if err != nil {
			e.warn(warnings, WarningResolution, "categorical scale", err)
		}
		generated := engine.GenerateUniqueValueRules(records, cfg.Field, scale)
		rules := make([]RuleConfig, len(generated))
		for i, gr := range generated {
			rules[i] = RuleConfig{Filter: gr.Filter, Fill: gr.Fill}
		}
		cfg.Type = TypeRules
		cfg.Rules = rules
		return cfg

	default:
		e.warn(warnings, WarningResolution, "style type",
			fmt.Errorf("unknown style type %q, styling with defaults", cfg.Type))
		cfg.Type = TypeRules
		cfg.Rules = nil
		return cfg
	}
}

// defaults builds the fully-specified fallback style from the shared
// configuration attributes.
func (e *Engine) defaults(cfg Config) engine.ResolvedStyle {
	d := engine.ResolvedStyle{
		Fill:    DefaultFill,
		Stroke:  DefaultStroke,
		Width:   DefaultWidth,
		Radius:  DefaultRadius,
		Opacity: DefaultOpacity,
	}
	if cfg.Default != "" {
		d.Fill = cfg.Default
	} else if cfg.Fill != "" {
		d.Fill = cfg.Fill
	}
	if cfg.Stroke != "" {
		d.Stroke = cfg.Stroke
	}
	if cfg.Width != nil {
		d.Width = *cfg.Width
	}
	if cfg.Radius != nil {
		d.Radius = *cfg.Radius
	}
	if cfg.Opacity != nil {
		d.Opacity = *cfg.Opacity
	}
	return d
}

// buildRules compiles the rule filters. A filter that fails to compile is
// kept in place as a never-matching rule so list order stays stable.
func (e *Engine) buildRules(cfg Config, warnings *[]Warning) []engine.Rule {
	rules := make([]engine.Rule, 0, len(cfg.Rules))
	for i, rc := range cfg.Rules {
		rule := engine.Rule{Attrs: rc.attrs()}
		if rc.Filter != "" {
			expr, err := e.compiler.Compile(rc.Filter, engine.ModePredicate)
			if err != nil {
				e.warn(warnings, WarningCompile, fmt.Sprintf("rule %d filter", i), err)
			}
			rule.Filter = expr
		}
		rules = append(rules, rule)
	}
	return rules
}

// buildGraduated assembles the graduated resolver from configuration.
func (e *Engine) buildGraduated(cfg Config, warnings *[]Warning) *engine.Graduated {
	grad := &engine.Graduated{
		Field:       cfg.Field,
		Min:         cfg.Min,
		Max:         cfg.Max,
		DefaultFill: DefaultFill,
	}
	if cfg.Default != "" {
		grad.DefaultFill = cfg.Default
	}

	if cfg.Expression != "" {
		expr, err := e.compiler.Compile(cfg.Expression, engine.ModeValue)
		if err != nil {
			e.warn(warnings, WarningCompile, "graduated expression", err)
		}
		grad.Expr = expr
	}

	transform, err := engine.LookupTransform(cfg.Transform)
	if err != nil {
		e.warn(warnings, WarningResolution, "transform", err)
	}
	grad.Transform = transform

	scale, err := e.scales.Resolve(cfg.Scale.engineRef())
	if err != nil {
		e.warn(warnings, WarningResolution, "color scale", err)
	}
	grad.Scale = scale

	return grad
}

// labelEvaluator compiles the effective label spec, if any.
func (e *Engine) labelEvaluator(cfg Config, warnings *[]Warning) *engine.LabelEvaluator {
	labels, err := engine.NewLabelEvaluator(e.compiler, cfg.labelSpec())
	if err != nil {
		e.warn(warnings, WarningCompile, "label", err)
	}
	return labels
}

// finishStyle converts the resolved attributes to the public type and fills
// in the per-feature label. A label set directly on the matched rule wins
// over the shared label spec.
func finishStyle(resolved engine.ResolvedStyle, labelStyle LabelStyle, labels *engine.LabelEvaluator, r FeatureRecord) ResolvedStyle {
	out := ResolvedStyle{
		Fill:       resolved.Fill,
		Stroke:     resolved.Stroke,
		Width:      resolved.Width,
		Radius:     resolved.Radius,
		Opacity:    resolved.Opacity,
		Label:      resolved.Label,
		LabelStyle: labelStyle,
	}
	if out.Label == "" {
		if text, ok := labels.Evaluate(r); ok {
			out.Label = text
		}
	}
	return out
}

func (e *Engine) warn(list *[]Warning, kind WarningKind, detail string, err error) {
	*list = append(*list, Warning{Kind: kind, Detail: detail, Err: err})
}
