package engine

import (
	"errors"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

// TestExplicitStopsEndpoints verifies sampling at t=0 and t=1 returns the
// configured endpoint stops exactly.
func TestExplicitStopsEndpoints(t *testing.T) {
	reg := NewRegistry()
	fn, err := reg.Resolve(ScaleRef{Colors: []string{"#000000", "#ffffff"}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if got := fn(0).Hex(); got != "#000000" {
		t.Errorf("fn(0) = %s, want #000000", got)
	}
	if got := fn(1).Hex(); got != "#ffffff" {
		t.Errorf("fn(1) = %s, want #ffffff", got)
	}

	// Out-of-range positions clamp to the endpoints.
	if got := fn(-2).Hex(); got != "#000000" {
		t.Errorf("fn(-2) = %s, want clamp to #000000", got)
	}
	if got := fn(7).Hex(); got != "#ffffff" {
		t.Errorf("fn(7) = %s, want clamp to #ffffff", got)
	}
}

// TestLabMidpoint verifies interpolation runs in Lab space: the midpoint of
// a two-stop scale is the perceptual midpoint, not the raw RGB average.
func TestLabMidpoint(t *testing.T) {
	reg := NewRegistry()
	fn, err := reg.Resolve(ScaleRef{Colors: []string{"#ff0000", "#0000ff"}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	red, _ := colorful.Hex("#ff0000")
	blue, _ := colorful.Hex("#0000ff")

	want := red.BlendLab(blue, 0.5).Clamped().Hex()
	got := fn(0.5).Hex()
	if got != want {
		t.Errorf("fn(0.5) = %s, want Lab midpoint %s", got, want)
	}

	rgbAverage := red.BlendRgb(blue, 0.5).Hex()
	if got == rgbAverage {
		t.Errorf("fn(0.5) = %s equals the RGB average; interpolation must be perceptual", got)
	}
}

func TestMultiStopInteriorStops(t *testing.T) {
	reg := NewRegistry()
	fn, err := reg.Resolve(ScaleRef{Colors: []string{"#000000", "#808080", "#ffffff"}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	// t=0.5 lands exactly on the middle stop of a three-stop scale.
	if got := fn(0.5).Hex(); got != "#808080" {
		t.Errorf("fn(0.5) = %s, want the interior stop #808080", got)
	}
}

func TestResolveNamedPreset(t *testing.T) {
	reg := NewRegistry()

	fn, err := reg.Resolve(ScaleRef{Name: "viridis"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := fn(0).Hex(); got != "#440154" {
		t.Errorf("viridis(0) = %s, want #440154", got)
	}
	if got := fn(1).Hex(); got != "#fde725" {
		t.Errorf("viridis(1) = %s, want #fde725", got)
	}

	// Names are case-insensitive.
	if _, err := reg.Resolve(ScaleRef{Name: "Viridis"}); err != nil {
		t.Errorf("Case-insensitive lookup failed: %v", err)
	}
}

// TestResolveUnknownScale verifies the documented fallback: unresolvable
// references yield the default sequential scale plus an error to log, never
// an unusable function.
func TestResolveUnknownScale(t *testing.T) {
	reg := NewRegistry()

	fn, err := reg.Resolve(ScaleRef{Name: "no-such-scale"})
	var unknownErr *ErrUnknownScale
	if !errors.As(err, &unknownErr) {
		t.Fatalf("Expected ErrUnknownScale, got %v", err)
	}
	if unknownErr.Name != "no-such-scale" {
		t.Errorf("Error names %q, want no-such-scale", unknownErr.Name)
	}

	// The fallback is the default scale, fully usable.
	if got := fn(0).Hex(); got != "#440154" {
		t.Errorf("Fallback fn(0) = %s, want viridis start", got)
	}
}

func TestResolveBadExplicitStop(t *testing.T) {
	reg := NewRegistry()

	fn, err := reg.Resolve(ScaleRef{Colors: []string{"#ff0000", "not-a-color"}})
	var badColor *ErrBadColor
	if !errors.As(err, &badColor) {
		t.Fatalf("Expected ErrBadColor, got %v", err)
	}
	if fn == nil {
		t.Fatal("Expected usable fallback function")
	}
}

func TestResolveEmptyRef(t *testing.T) {
	reg := NewRegistry()

	fn, err := reg.Resolve(ScaleRef{})
	if err != nil {
		t.Errorf("Empty reference must resolve silently, got %v", err)
	}
	if got := fn(1).Hex(); got != "#fde725" {
		t.Errorf("Empty ref fn(1) = %s, want viridis end", got)
	}
}

func TestRegisterCustomPreset(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register("hematite", []string{"#4a1c1c", "#b03a2e", "#f5b7b1"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	fn, err := reg.Resolve(ScaleRef{Name: "HEMATITE"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := fn(0).Hex(); got != "#4a1c1c" {
		t.Errorf("hematite(0) = %s, want #4a1c1c", got)
	}

	if err := reg.Register("bad", []string{"zzz"}); err == nil {
		t.Error("Expected error registering unparseable stop")
	}
}

func TestSampleScale(t *testing.T) {
	reg := NewRegistry()
	fn, _ := reg.Resolve(ScaleRef{Colors: []string{"#000000", "#ffffff"}})

	samples := SampleScale(fn, 5)
	if len(samples) != 5 {
		t.Fatalf("Expected 5 samples, got %d", len(samples))
	}
	if samples[0].Hex() != "#000000" || samples[4].Hex() != "#ffffff" {
		t.Errorf("Sample endpoints = %s, %s; want configured stops",
			samples[0].Hex(), samples[4].Hex())
	}

	// A single sample reads the scale start, guarded by max(1, n-1).
	one := SampleScale(fn, 1)
	if len(one) != 1 || one[0].Hex() != "#000000" {
		t.Errorf("SampleScale(fn, 1) = %v, want the scale start", one)
	}

	if got := SampleScale(fn, 0); got != nil {
		t.Errorf("SampleScale(fn, 0) = %v, want nil", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"#ff0000", "#ff0000", false},
		{"#F00", "#ff0000", false},
		{"  #00ff00  ", "#00ff00", false},
		{"red", "", true},
		{"", "", true},
		{"#12345", "", true},
	}
	for _, tt := range tests {
		c, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && c.Hex() != tt.want {
			t.Errorf("ParseColor(%q) = %s, want %s", tt.in, c.Hex(), tt.want)
		}
	}
}
