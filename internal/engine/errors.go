package engine

import (
	"fmt"
)

// ErrBadExpression indicates a user-authored expression failed to compile.
// The compiler still returns a safe no-op callable alongside this error.
type ErrBadExpression struct {
	Source string
	Mode   Mode
	Reason string
}

func (e *ErrBadExpression) Error() string {
	return fmt.Sprintf("bad %s expression %q: %s", e.Mode, e.Source, e.Reason)
}

// ErrUnknownScale indicates a scale reference that no registry entry matches.
// Resolution falls back to the default sequential scale.
type ErrUnknownScale struct {
	Name string
}

func (e *ErrUnknownScale) Error() string {
	return fmt.Sprintf("unknown color scale: %q", e.Name)
}

// ErrUnknownTransform indicates a transform name outside the fixed catalog.
// Lookup falls back to the linear transform.
type ErrUnknownTransform struct {
	Name string
}

func (e *ErrUnknownTransform) Error() string {
	return fmt.Sprintf("unknown transform: %q (want linear, log, sqrt, or square)", e.Name)
}

// ErrBadColor indicates a color string that could not be parsed as hex.
type ErrBadColor struct {
	Value string
}

func (e *ErrBadColor) Error() string {
	return fmt.Sprintf("bad color %q (want #rgb or #rrggbb)", e.Value)
}
