package sdfx

import (
	"math"
	"testing"

	"github.com/chazu/pixelcard/pkg/kernel"
)

func TestRoundedRect(t *testing.T) {
	k := New()
	s, err := k.RoundedRect(85.6, 53.98, 3.18)
	if err != nil {
		t.Fatalf("RoundedRect failed: %v", err)
	}

	min, max := s.BoundingBox()
	if math.Abs(min[0]) > 1e-6 || math.Abs(min[1]) > 1e-6 {
		t.Errorf("min corner = %v, want origin", min)
	}
	if math.Abs(max[0]-85.6) > 1e-6 || math.Abs(max[1]-53.98) > 1e-6 {
		t.Errorf("max corner = %v, want (85.6, 53.98)", max)
	}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 42.8, 26.99, true},
		{"near edge", 1, 26, true},
		{"outside", -1, 10, false},
		{"rounded corner cut", 0.2, 0.2, false},
		{"far corner", 85, 53.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%g, %g) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRoundedRectInvalid(t *testing.T) {
	k := New()
	if _, err := k.RoundedRect(0, 10, 0); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := k.RoundedRect(10, 10, 6); err == nil {
		t.Error("expected error for oversized radius")
	}
}

func TestPolygonContains(t *testing.T) {
	k := New()
	square := kernel.Polygon{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	s, err := k.Polygon(square)
	if err != nil {
		t.Fatalf("Polygon failed: %v", err)
	}
	if !s.Contains(1, 1) {
		t.Error("center of square should be inside")
	}
	if s.Contains(3, 1) {
		t.Error("point right of square should be outside")
	}
	if d := s.Distance(1, 1); d >= 0 {
		t.Errorf("distance inside = %g, want negative", d)
	}

	// Winding order does not change containment.
	rev := kernel.Polygon{square[3], square[2], square[1], square[0]}
	r, err := k.Polygon(rev)
	if err != nil {
		t.Fatalf("Polygon(reversed) failed: %v", err)
	}
	if !r.Contains(1, 1) {
		t.Error("reversed square should still contain its center")
	}
}

func TestPolygonTooSmall(t *testing.T) {
	k := New()
	if _, err := k.Polygon(kernel.Polygon{{X: 0, Y: 0}, {X: 1, Y: 1}}); err == nil {
		t.Error("expected error for two-point polygon")
	}
}

func TestTranslateAndUnion(t *testing.T) {
	k := New()
	a, err := k.RoundedRect(2, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	b := k.Translate(a, 10, 0)
	if !b.Contains(11, 1) || b.Contains(1, 1) {
		t.Error("translated shape should move to x in [10, 12]")
	}
	u := k.Union(a, b)
	if !u.Contains(1, 1) || !u.Contains(11, 1) {
		t.Error("union should contain both squares")
	}
	if u.Contains(6, 1) {
		t.Error("union should not contain the gap")
	}
}
