package engine

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultScaleName is the built-in sequential scale used whenever a scale
// reference cannot be resolved.
const DefaultScaleName = "viridis"

// ScaleFunc maps a position t in [0,1] to a color. Implementations clamp t
// before lookup, so any finite input is safe.
type ScaleFunc func(t float64) colorful.Color

// ScaleRef identifies a color scale: either a named preset (including
// library scale identifiers, matched case-insensitively) or an explicit
// ordered list of color stops. An explicit stop list wins when both are set.
type ScaleRef struct {
	Name   string
	Colors []string
}

// IsZero reports whether the reference names nothing at all.
func (s ScaleRef) IsZero() bool {
	return s.Name == "" && len(s.Colors) == 0
}

// Registry resolves scale references against a set of named presets.
//
// The registry is built at engine construction and passed in explicitly, so
// tests can inject their own palettes and no package-global state is
// mutated. Built-in presets cover categorical palettes (hand-picked hues),
// sequential ramps, and diverging ramps around a neutral midpoint.
type Registry struct {
	presets map[string][]colorful.Color
}

// NewRegistry creates a registry with the built-in presets.
func NewRegistry() *Registry {
	reg := &Registry{presets: make(map[string][]colorful.Color)}
	for name, stops := range builtinPresets {
		// Built-in stops are known-good hex; parse errors cannot occur.
		_ = reg.Register(name, stops)
	}
	return reg
}

// Register adds or replaces a named preset. Stop colors must be hex
// (#rgb or #rrggbb); the first unparseable stop aborts the registration.
func (g *Registry) Register(name string, stops []string) error {
	parsed := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c, err := ParseColor(s)
		if err != nil {
			return err
		}
		parsed[i] = c
	}
	g.presets[strings.ToLower(name)] = parsed
	return nil
}

// Resolve turns a scale reference into a sampling function.
//
// Unresolvable references (unknown name, unparseable stop color) fall back
// to the default sequential scale; the error describes the problem so the
// caller can log a warning, but the returned function is always usable.
// An entirely empty reference resolves to the default scale without error.
func (g *Registry) Resolve(ref ScaleRef) (ScaleFunc, error) {
	if len(ref.Colors) > 0 {
		stops := make([]colorful.Color, len(ref.Colors))
		for i, s := range ref.Colors {
			c, err := ParseColor(s)
			if err != nil {
				return g.defaultScale(), err
			}
			stops[i] = c
		}
		return scaleFromStops(stops), nil
	}

	if ref.Name == "" {
		return g.defaultScale(), nil
	}
	stops, ok := g.presets[strings.ToLower(ref.Name)]
	if !ok {
		return g.defaultScale(), &ErrUnknownScale{Name: ref.Name}
	}
	return scaleFromStops(stops), nil
}

func (g *Registry) defaultScale() ScaleFunc {
	return scaleFromStops(g.presets[DefaultScaleName])
}

// scaleFromStops interpolates between consecutive stops in CIE Lab space.
// Lab blending keeps equal t steps perceptually equal, avoiding the muddy
// midpoints of naive RGB interpolation.
func scaleFromStops(stops []colorful.Color) ScaleFunc {
	if len(stops) == 0 {
		return func(float64) colorful.Color { return colorful.Color{} }
	}
	if len(stops) == 1 {
		c := stops[0]
		return func(float64) colorful.Color { return c }
	}
	return func(t float64) colorful.Color {
		pos := Clamp01(t) * float64(len(stops)-1)
		i := int(math.Floor(pos))
		if i >= len(stops)-1 {
			return stops[len(stops)-1]
		}
		frac := pos - float64(i)
		if frac == 0 {
			return stops[i]
		}
		return stops[i].BlendLab(stops[i+1], frac).Clamped()
	}
}

// SampleScale samples fn at n evenly spaced positions, i/max(1,n-1), so the
// first and last samples hit the scale endpoints exactly. Used for unique-
// value color assignment and UI preview swatches.
func SampleScale(fn ScaleFunc, n int) []colorful.Color {
	if n <= 0 {
		return nil
	}
	out := make([]colorful.Color, n)
	d := float64(max(1, n-1))
	for i := range out {
		out[i] = fn(float64(i) / d)
	}
	return out
}

// ParseColor parses a hex color string (#rgb or #rrggbb).
func ParseColor(s string) (colorful.Color, error) {
	c, err := colorful.Hex(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return colorful.Color{}, &ErrBadColor{Value: s}
	}
	return c, nil
}

// builtinPresets holds the shipped palettes. Categorical palettes carry
// distinct hues for unique-value rules; sequential ramps run light to dark
// (viridis runs dark to light per its standard definition); diverging ramps
// pass through a neutral midpoint.
var builtinPresets = map[string][]string{
	// Categorical
	"category10": {
		"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
		"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
	},

	// Sequential
	"viridis": {
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
	},
	"blues": {
		"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6",
		"#4292c6", "#2171b5", "#08519c", "#08306b",
	},
	"greens": {
		"#f7fcf5", "#e5f5e0", "#c7e9c0", "#a1d99b", "#74c476",
		"#41ab5d", "#238b45", "#006d2c", "#00441b",
	},
	"oranges": {
		"#fff5eb", "#fee6ce", "#fdd0a2", "#fdae6b", "#fd8d3c",
		"#f16913", "#d94801", "#a63603", "#7f2704",
	},
	"reds": {
		"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a",
		"#ef3b2c", "#cb181d", "#a50f15", "#67000d",
	},
	"greys": {
		"#ffffff", "#f0f0f0", "#d9d9d9", "#bdbdbd", "#969696",
		"#737373", "#525252", "#252525", "#000000",
	},

	// Diverging
	"rdbu": {
		"#67001f", "#b2182b", "#d6604d", "#f4a582", "#fddbc7",
		"#f7f7f7", "#d1e5f0", "#92c5de", "#4393c3", "#2166ac", "#053061",
	},
	"rdylbu": {
		"#a50026", "#d73027", "#f46d43", "#fdae61", "#fee090",
		"#ffffbf", "#e0f3f8", "#abd9e9", "#74add1", "#4575b4", "#313695",
	},
	"spectral": {
		"#9e0142", "#d53e4f", "#f46d43", "#fdae61", "#fee08b",
		"#ffffbf", "#e6f598", "#abdda4", "#66c2a5", "#3288bd", "#5e4fa2",
	},
}
