package engine

import (
	"math"
	"strings"
)

// Transform normalizes a raw field value into [0,1] given the field's
// domain. Callers still clamp the result; transforms only promise to land
// in [0,1] for values inside [min,max].
//
// Whenever max == min the denominator is treated as 1. This collapses the
// whole domain to a single normalized point, which is the documented
// degenerate-domain behavior: no NaN, no Inf, one fixed output.
type Transform func(v, min, max float64) float64

// Linear maps v proportionally across [min,max].
func Linear(v, min, max float64) float64 {
	d := max - min
	if d == 0 {
		d = 1
	}
	return (v - min) / d
}

// Log maps v logarithmically across [min,max]. The +1 shift keeps the
// logarithm defined at v == min.
func Log(v, min, max float64) float64 {
	d := math.Log(max - min + 1)
	if d == 0 {
		d = 1
	}
	return math.Log(v-min+1) / d
}

// Sqrt compresses the upper end of the domain.
func Sqrt(v, min, max float64) float64 {
	return math.Sqrt(Linear(v, min, max))
}

// Square compresses the lower end of the domain.
func Square(v, min, max float64) float64 {
	t := Linear(v, min, max)
	return t * t
}

// transforms is the fixed catalog; there is no registration surface.
var transforms = map[string]Transform{
	"linear": Linear,
	"log":    Log,
	"sqrt":   Sqrt,
	"square": Square,
}

// LookupTransform resolves a transform by name, case-insensitively.
//
// An empty name means linear. Unknown names also fall back to linear, with
// an ErrUnknownTransform for the caller to surface as a warning.
func LookupTransform(name string) (Transform, error) {
	if name == "" {
		return Linear, nil
	}
	if t, ok := transforms[strings.ToLower(name)]; ok {
		return t, nil
	}
	return Linear, &ErrUnknownTransform{Name: name}
}

// Clamp01 pins t to [0,1]. NaN clamps to 0 so a degenerate normalization
// still produces a usable scale position.
func Clamp01(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
