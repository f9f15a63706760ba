package style

import (
	"fmt"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/spinifex/styling/internal/engine"
)

// Style type names recognized in configuration.
//
// TypeSingle and TypeCategorical are legacy sugar: they are expanded into
// canonical rule lists before the resolvers ever see them. TypeSingle
// becomes one catch-all rule with the configured fill; TypeCategorical
// becomes one rule per distinct value of the configured field, colored
// across the configured scale.
const (
	TypeRules       = "rules"
	TypeGraduated   = "graduated"
	TypeSingle      = "single"
	TypeCategorical = "categorical"
)

// Config is the full style configuration surface as supplied by the UI
// layer. Zero values mean "not set"; unset attributes fall back to engine
// defaults. Persistence is owned elsewhere; ParseConfig is only the decode
// boundary.
type Config struct {
	// Type selects the styling mode: rules, graduated, single, categorical.
	// Empty defaults to rules when a rule list is present, single otherwise.
	Type string `yaml:"type"`

	// Shared presentation attributes, merged into every resolved style.
	Fill    string   `yaml:"fill"`
	Stroke  string   `yaml:"stroke"`
	Width   *float64 `yaml:"width"`
	Opacity *float64 `yaml:"opacity"`
	Radius  *float64 `yaml:"radius"`

	// Label configuration. LabelExpression wins over LabelField when both
	// are set; either may contain ${...} interpolation segments.
	LabelField        string   `yaml:"labelField"`
	LabelExpression   string   `yaml:"labelExpression"`
	LabelColor        string   `yaml:"labelColor"`
	LabelOutline      string   `yaml:"labelOutline"`
	LabelOutlineWidth *float64 `yaml:"labelOutlineWidth"`
	LabelAlign        string   `yaml:"labelAlign"`
	LabelBaseline     string   `yaml:"labelBaseline"`
	LabelOffsetX      *float64 `yaml:"labelOffsetX"`
	LabelOffsetY      *float64 `yaml:"labelOffsetY"`
	LabelPlacement    string   `yaml:"labelPlacement"`

	// Rule-based styling.
	Rules []RuleConfig `yaml:"rules"`

	// Default is the fallback fill used when no rule matches, or the
	// graduated default color for non-numeric values.
	Default string `yaml:"default"`

	// Graduated (and categorical) styling. Expression wins over Field when
	// both are set. Min/Max override field statistics when present.
	Field      string   `yaml:"field"`
	Expression string   `yaml:"expression"`
	Transform  string   `yaml:"transform"`
	Scale      ScaleRef `yaml:"scale"`
	Min        *float64 `yaml:"min"`
	Max        *float64 `yaml:"max"`
}

// RuleConfig is one discrete styling rule. An empty Filter marks a
// catch-all rule that matches every feature; by convention it goes last.
// Absent attributes fall back independently to the shared defaults, so
// partial rules are legal.
type RuleConfig struct {
	Filter  string   `yaml:"filter"`
	Fill    string   `yaml:"fill"`
	Stroke  string   `yaml:"stroke"`
	Width   *float64 `yaml:"width"`
	Radius  *float64 `yaml:"radius"`
	Opacity *float64 `yaml:"opacity"`
	Label   string   `yaml:"label"`
}

// attrs converts the rule's set attributes for the resolver.
func (rc RuleConfig) attrs() engine.StyleAttrs {
	var a engine.StyleAttrs
	if rc.Fill != "" {
		a.Fill = &rc.Fill
	}
	if rc.Stroke != "" {
		a.Stroke = &rc.Stroke
	}
	if rc.Label != "" {
		a.Label = &rc.Label
	}
	a.Width = rc.Width
	a.Radius = rc.Radius
	a.Opacity = rc.Opacity
	return a
}

// ScaleRef identifies a color scale: a preset or library scale name, or an
// explicit ordered list of hex color stops. In YAML either form is
// accepted:
//
//	scale: viridis
//	scale: ["#ffffcc", "#fd8d3c", "#800026"]
type ScaleRef struct {
	Name   string
	Colors []string
}

// IsZero reports whether the reference names nothing.
func (s ScaleRef) IsZero() bool {
	return s.Name == "" && len(s.Colors) == 0
}

// UnmarshalYAML accepts a scalar scale name or a sequence of color stops.
func (s *ScaleRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&s.Name)
	case yaml.SequenceNode:
		return node.Decode(&s.Colors)
	default:
		return fmt.Errorf("scale must be a name or a list of colors")
	}
}

// MarshalYAML emits the same form UnmarshalYAML accepts.
func (s ScaleRef) MarshalYAML() (any, error) {
	if len(s.Colors) > 0 {
		return s.Colors, nil
	}
	return s.Name, nil
}

// engineRef converts to the resolver's reference type.
func (s ScaleRef) engineRef() engine.ScaleRef {
	return engine.ScaleRef{Name: s.Name, Colors: s.Colors}
}

// ParseConfig decodes a style configuration from YAML (or JSON, which
// yaml.v3 accepts as a subset).
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse style config: %w", err)
	}
	return cfg, nil
}

// ValidateConfig checks a configuration and reports every detectable
// problem at once, for display in the style editor.
//
// Validation is purely diagnostic: Apply and Build accept invalid
// configurations and degrade per the documented fallbacks, so a nil error
// is never a precondition.
func (e *Engine) ValidateConfig(cfg Config) error {
	var errs error

	switch cfg.Type {
	case "", TypeRules, TypeGraduated, TypeSingle, TypeCategorical:
	default:
		errs = multierr.Append(errs, fmt.Errorf("unknown style type %q", cfg.Type))
	}

	for _, c := range []string{cfg.Fill, cfg.Stroke, cfg.Default, cfg.LabelColor, cfg.LabelOutline} {
		if c == "" {
			continue
		}
		if _, err := engine.ParseColor(c); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	for i, rc := range cfg.Rules {
		if rc.Filter != "" {
			if _, err := e.compiler.Compile(rc.Filter, engine.ModePredicate); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("rule %d: %w", i, err))
			}
		}
		for _, c := range []string{rc.Fill, rc.Stroke} {
			if c == "" {
				continue
			}
			if _, err := engine.ParseColor(c); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("rule %d: %w", i, err))
			}
		}
	}

	if cfg.Expression != "" {
		if _, err := e.compiler.Compile(cfg.Expression, engine.ModeValue); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if spec := cfg.labelSpec(); spec != "" {
		if _, err := e.compiler.Compile(spec, engine.ModeTemplate); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if _, err := engine.LookupTransform(cfg.Transform); err != nil {
		errs = multierr.Append(errs, err)
	}
	if !cfg.Scale.IsZero() {
		if _, err := e.scales.Resolve(cfg.Scale.engineRef()); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if cfg.Type == TypeGraduated && cfg.Field == "" && cfg.Expression == "" {
		errs = multierr.Append(errs, fmt.Errorf("graduated style needs a field or an expression"))
	}
	if cfg.Type == TypeCategorical && cfg.Field == "" {
		errs = multierr.Append(errs, fmt.Errorf("categorical style needs a field"))
	}

	return errs
}

// labelSpec returns the effective label source.
func (c Config) labelSpec() string {
	if c.LabelExpression != "" {
		return c.LabelExpression
	}
	return c.LabelField
}

// labelStyle builds the shared label presentation attributes.
func (c Config) labelStyle() LabelStyle {
	ls := LabelStyle{
		Color:     "#000000",
		Align:     "center",
		Baseline:  "middle",
		Placement: "point",
	}
	if c.LabelColor != "" {
		ls.Color = c.LabelColor
	}
	if c.LabelOutline != "" {
		ls.Outline = c.LabelOutline
	}
	if c.LabelOutlineWidth != nil {
		ls.OutlineWidth = *c.LabelOutlineWidth
	}
	if c.LabelAlign != "" {
		ls.Align = c.LabelAlign
	}
	if c.LabelBaseline != "" {
		ls.Baseline = c.LabelBaseline
	}
	if c.LabelOffsetX != nil {
		ls.OffsetX = *c.LabelOffsetX
	}
	if c.LabelOffsetY != nil {
		ls.OffsetY = *c.LabelOffsetY
	}
	if c.LabelPlacement != "" {
		ls.Placement = c.LabelPlacement
	}
	return ls
}
