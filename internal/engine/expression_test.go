package engine

import (
	"testing"
)

func newTestCompiler(t *testing.T) *Compiler {
	t.Helper()
	c, err := NewCompiler()
	if err != nil {
		t.Fatalf("NewCompiler failed: %v", err)
	}
	return c
}

// TestPredicateRoundTrip verifies the documented round-trip: a string
// equality filter matches the right records and only those.
func TestPredicateRoundTrip(t *testing.T) {
	c := newTestCompiler(t)

	expr, err := c.Compile(`r.category == 'Granite'`, ModePredicate)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if !expr.Predicate(Record{"category": "Granite"}) {
		t.Error("Expected match for category=Granite")
	}
	if expr.Predicate(Record{"category": "Basalt"}) {
		t.Error("Expected no match for category=Basalt")
	}
}

func TestPredicateQuotedFieldName(t *testing.T) {
	c := newTestCompiler(t)

	expr, err := c.Compile(`r["rock type"] == 'BIF'`, ModePredicate)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !expr.Predicate(Record{"rock type": "BIF"}) {
		t.Error("Expected quoted field access to match")
	}
}

func TestPredicateComparisonAndLogic(t *testing.T) {
	c := newTestCompiler(t)

	tests := []struct {
		source string
		record Record
		want   bool
	}{
		{`r.depth > 50.0`, Record{"depth": 120.0}, true},
		{`r.depth > 50.0`, Record{"depth": 12.0}, false},
		{`r.depth > 50.0 && r.grade >= 60.0`, Record{"depth": 120.0, "grade": 62.5}, true},
		{`r.depth > 50.0 || r.grade >= 60.0`, Record{"depth": 12.0, "grade": 62.5}, true},
		{`r.active == true`, Record{"active": true}, true},
		{`r.depth != 0.0`, Record{"depth": 0.0}, false},
	}

	for _, tt := range tests {
		expr, err := c.Compile(tt.source, ModePredicate)
		if err != nil {
			t.Errorf("Compile(%q) failed: %v", tt.source, err)
			continue
		}
		if got := expr.Predicate(tt.record); got != tt.want {
			t.Errorf("Predicate(%q, %v) = %v, want %v", tt.source, tt.record, got, tt.want)
		}
	}
}

// TestMalformedExpression verifies that syntax errors never escape Compile
// as panics and that the returned callable is the mode's safe default.
func TestMalformedExpression(t *testing.T) {
	c := newTestCompiler(t)

	sources := []string{"((", "r.depth >", "r.a == ", "&&"}
	for _, source := range sources {
		expr, err := c.Compile(source, ModePredicate)
		if err == nil {
			t.Errorf("Compile(%q) expected an error", source)
		}
		if expr == nil {
			t.Fatalf("Compile(%q) returned nil expression", source)
		}
		if expr.Predicate(Record{"depth": 1.0}) {
			t.Errorf("Failed predicate %q must return false", source)
		}

		expr, err = c.Compile(source, ModeValue)
		if err == nil {
			t.Errorf("Compile(%q) in value mode expected an error", source)
		}
		if got := expr.Value(Record{"depth": 1.0}); got != nil {
			t.Errorf("Failed value expression %q must return nil, got %v", source, got)
		}
	}
}

// TestPredicateRuntimeFailure verifies that a per-record evaluation error
// (missing field, chained access on a scalar) is scoped to "no match" and
// does not panic.
func TestPredicateRuntimeFailure(t *testing.T) {
	c := newTestCompiler(t)

	expr, err := c.Compile(`r.missing.nested == 'x'`, ModePredicate)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if expr.Predicate(Record{"other": 1.0}) {
		t.Error("Missing field must evaluate to no match")
	}
}

func TestValueExpression(t *testing.T) {
	c := newTestCompiler(t)

	expr, err := c.Compile(`r.fe_pct * 2.0`, ModeValue)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	got := expr.Value(Record{"fe_pct": 31.5})
	if f, ok := got.(float64); !ok || f != 63.0 {
		t.Errorf("Value = %v (%T), want 63.0", got, got)
	}

	// Evaluation error yields nil, not a panic.
	if got := expr.Value(Record{}); got != nil {
		t.Errorf("Value on missing field = %v, want nil", got)
	}
}

func TestValueTernary(t *testing.T) {
	c := newTestCompiler(t)

	expr, err := c.Compile(`r.depth > 100.0 ? 'deep' : 'shallow'`, ModeValue)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if got := expr.Value(Record{"depth": 250.0}); got != "deep" {
		t.Errorf("Value = %v, want deep", got)
	}
	if got := expr.Value(Record{"depth": 10.0}); got != "shallow" {
		t.Errorf("Value = %v, want shallow", got)
	}
}

func TestValueNullField(t *testing.T) {
	c := newTestCompiler(t)

	expr, err := c.Compile(`r.grade`, ModeValue)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if got := expr.Value(Record{"grade": nil}); got != nil {
		t.Errorf("Value of nil field = %v, want nil", got)
	}
}

func TestTemplateInterpolation(t *testing.T) {
	c := newTestCompiler(t)

	expr, err := c.Compile("${r.name} (${r.depth}m)", ModeTemplate)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	text, ok := expr.Text(Record{"name": "Hole 7", "depth": 42.0})
	if !ok {
		t.Fatal("Expected template to produce text")
	}
	if text != "Hole 7 (42m)" {
		t.Errorf("Text = %q, want %q", text, "Hole 7 (42m)")
	}
}

func TestTemplatePlainFieldLookup(t *testing.T) {
	c := newTestCompiler(t)

	expr, err := c.Compile("site_name", ModeTemplate)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	text, ok := expr.Text(Record{"site_name": "Mount Tom Price"})
	if !ok || text != "Mount Tom Price" {
		t.Errorf("Text = %q, %v; want Mount Tom Price, true", text, ok)
	}

	// Missing and nil field values produce no label.
	if _, ok := expr.Text(Record{}); ok {
		t.Error("Missing field must produce no text")
	}
	if _, ok := expr.Text(Record{"site_name": nil}); ok {
		t.Error("Nil field must produce no text")
	}
}

func TestTemplateRuntimeFailure(t *testing.T) {
	c := newTestCompiler(t)

	expr, err := c.Compile("${r.missing.nested}", ModeTemplate)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if _, ok := expr.Text(Record{}); ok {
		t.Error("Failing interpolation must produce no text")
	}
}

func TestTemplateUnterminatedMarker(t *testing.T) {
	c := newTestCompiler(t)

	expr, err := c.Compile("${r.name", ModeTemplate)
	if err == nil {
		t.Error("Expected compile error for unterminated marker")
	}
	if _, ok := expr.Text(Record{"name": "x"}); ok {
		t.Error("Failed template must produce no text")
	}
}

// TestCompiledExpressionReuse verifies one compilation serves many records,
// the pattern used across a render pass.
func TestCompiledExpressionReuse(t *testing.T) {
	c := newTestCompiler(t)

	expr, err := c.Compile(`r.grade >= 55.0`, ModePredicate)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	matches := 0
	for i := 0; i < 1000; i++ {
		if expr.Predicate(Record{"grade": float64(i % 100)}) {
			matches++
		}
	}
	if matches != 450 {
		t.Errorf("Expected 450 matches over cycle of 100 grades, got %d", matches)
	}
}
