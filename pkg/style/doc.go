// Package style computes per-feature render attributes from user-authored
// styling configuration.
//
// This package is the styling engine behind the layer style editor. It turns
// a configuration (discrete rules or a graduated value-to-color mapping) into
// a pure per-feature function that the renderer invokes while painting, and
// it exposes the pure pieces (field statistics, unique-value rule generation,
// scale sampling) directly for UI previews.
//
// # Basic Usage
//
//	eng, err := style.NewEngine()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg, err := style.ParseConfig(configYAML)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	eng.Apply(layer, cfg) // installs the per-feature StyleFunc on the layer
//
// # Rule-Based Styling
//
// Rules are evaluated in list order; the first rule whose filter matches the
// feature wins. Filters are expressions over the feature's property record,
// bound as r:
//
//	cfg := style.Config{
//	    Type: style.TypeRules,
//	    Rules: []style.RuleConfig{
//	        {Filter: `r.rock_type == "Granite"`, Fill: "#d62728"},
//	        {Filter: `r.depth > 100.0`, Fill: "#1f77b4"},
//	        {Fill: "#cccccc"}, // catch-all, matches everything
//	    },
//	}
//
// # Graduated Styling
//
// Graduated styling maps a numeric field (or expression) through a
// normalization transform into a continuous color scale:
//
//	cfg := style.Config{
//	    Type:      style.TypeGraduated,
//	    Field:     "fe_pct",
//	    Transform: "linear",
//	    Scale:     style.ScaleRef{Name: "viridis"},
//	}
//
// # Degradation
//
// Nothing in this package throws past the engine boundary. Malformed
// expressions compile to safe no-ops, unresolvable scales fall back to the
// built-in default, and per-feature evaluation errors degrade to "no match"
// or the default color for that one feature. Problems surface as Warning
// values and WARN-level log entries, never as render-pass failures.
package style
