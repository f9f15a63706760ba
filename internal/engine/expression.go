package engine

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

// Mode selects how a compiled expression is used.
type Mode int

const (
	// ModePredicate expressions evaluate to a boolean rule filter.
	ModePredicate Mode = iota

	// ModeValue expressions evaluate to a scalar driving graduated styling.
	ModeValue

	// ModeTemplate sources are strings with ${...} interpolation segments,
	// or a plain field name when no markers are present.
	ModeTemplate
)

// String returns the mode name for diagnostics.
func (m Mode) String() string {
	switch m {
	case ModePredicate:
		return "predicate"
	case ModeValue:
		return "value"
	case ModeTemplate:
		return "template"
	default:
		return "unknown"
	}
}

// Compiler turns user-authored expression strings into reusable callables.
//
// Expressions are CEL programs evaluated against a single variable `r`
// holding the feature's property record, so the familiar surface syntax
// (`r.field == 'value'`, `r["field with spaces"]`, arithmetic, comparison,
// ternary) works without arbitrary host-language execution. The environment
// is built once and shared by every compilation.
type Compiler struct {
	env *cel.Env
}

// NewCompiler creates a compiler with the record bound as `r`.
func NewCompiler() (*Compiler, error) {
	env, err := cel.NewEnv(
		cel.Variable("r", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("create expression environment: %w", err)
	}
	return &Compiler{env: env}, nil
}

// CompiledExpr is an expression compiled once and invoked once per feature,
// potentially tens of thousands of times per render pass. Evaluation never
// panics and never returns an error: runtime failures (missing fields, type
// mismatches) degrade to "no match" or a nil value for that feature only.
type CompiledExpr struct {
	source string
	mode   Mode

	program  cel.Program       // predicate and value modes
	segments []templateSegment // template mode with ${...} markers
	field    string            // template mode without markers: direct lookup

	// failed marks an expression whose compilation was rejected; the
	// callable stays safe to invoke and returns the mode's zero result.
	failed bool
}

// templateSegment is either a literal run or a compiled interpolation.
type templateSegment struct {
	literal string
	program cel.Program
}

// Compile builds a callable from source for the given mode.
//
// Compilation is attempted once. On syntax failure the returned expression is
// still non-nil and safe to invoke (predicates report no match, values and
// templates report nil); the error is returned so the caller can surface a
// warning instead of throwing.
func (c *Compiler) Compile(source string, mode Mode) (*CompiledExpr, error) {
	x := &CompiledExpr{source: source, mode: mode}

	switch mode {
	case ModePredicate, ModeValue:
		prg, err := c.compileProgram(source)
		if err != nil {
			x.failed = true
			return x, &ErrBadExpression{Source: source, Mode: mode, Reason: err.Error()}
		}
		x.program = prg

	case ModeTemplate:
		if !strings.Contains(source, "${") {
			// Plain field name, evaluated as a direct record lookup.
			x.field = source
			return x, nil
		}
		segments, err := c.compileTemplate(source)
		if err != nil {
			x.failed = true
			return x, &ErrBadExpression{Source: source, Mode: mode, Reason: err.Error()}
		}
		x.segments = segments

	default:
		x.failed = true
		return x, &ErrBadExpression{Source: source, Mode: mode, Reason: "unsupported mode"}
	}

	return x, nil
}

// compileProgram parses, checks, and plans a single CEL expression.
func (c *Compiler) compileProgram(source string) (cel.Program, error) {
	ast, iss := c.env.Compile(source)
	if iss.Err() != nil {
		return nil, iss.Err()
	}
	prg, err := c.env.Program(ast)
	if err != nil {
		return nil, err
	}
	return prg, nil
}

// compileTemplate splits source at ${...} markers and compiles each marker
// body as a value expression. Literal runs pass through unchanged.
func (c *Compiler) compileTemplate(source string) ([]templateSegment, error) {
	var segments []templateSegment
	rest := source
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			if rest != "" {
				segments = append(segments, templateSegment{literal: rest})
			}
			return segments, nil
		}
		if start > 0 {
			segments = append(segments, templateSegment{literal: rest[:start]})
		}
		end := strings.Index(rest[start:], "}")
		if end < 0 {
			return nil, fmt.Errorf("unterminated ${ at offset %d", len(source)-len(rest)+start)
		}
		body := rest[start+2 : start+end]
		prg, err := c.compileProgram(body)
		if err != nil {
			return nil, fmt.Errorf("segment %q: %w", body, err)
		}
		segments = append(segments, templateSegment{program: prg})
		rest = rest[start+end+1:]
	}
}

// Source returns the original expression text.
func (x *CompiledExpr) Source() string {
	return x.source
}

// Predicate evaluates the expression as a rule filter.
//
// Returns false for compile-failed expressions, evaluation errors, and
// non-boolean results.
func (x *CompiledExpr) Predicate(r Record) bool {
	if x == nil || x.failed || x.program == nil {
		return false
	}
	out, _, err := x.program.Eval(map[string]any{"r": r})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

// Value evaluates the expression as a scalar.
//
// Returns nil for compile-failed expressions and evaluation errors.
func (x *CompiledExpr) Value(r Record) any {
	if x == nil || x.failed || x.program == nil {
		return nil
	}
	out, _, err := x.program.Eval(map[string]any{"r": r})
	if err != nil {
		return nil
	}
	if _, isNull := out.(types.Null); isNull {
		return nil
	}
	return out.Value()
}

// Text evaluates a template-mode expression against a record.
//
// The second return is false when no text could be produced: compile
// failure, an interpolation segment that errors, or a plain field lookup
// hitting a missing or nil value.
func (x *CompiledExpr) Text(r Record) (string, bool) {
	if x == nil || x.failed {
		return "", false
	}

	if x.segments == nil {
		v, ok := r[x.field]
		if !ok || v == nil {
			return "", false
		}
		return formatScalar(v), true
	}

	var b strings.Builder
	for _, seg := range x.segments {
		if seg.program == nil {
			b.WriteString(seg.literal)
			continue
		}
		out, _, err := seg.program.Eval(map[string]any{"r": r})
		if err != nil {
			return "", false
		}
		if _, isNull := out.(types.Null); isNull {
			continue
		}
		b.WriteString(formatScalar(out.Value()))
	}
	return b.String(), true
}
