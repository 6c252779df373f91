package graph

import (
	"fmt"
	"math"
)

// Layer selects the board side a placement applies to.
type Layer int

const (
	LayerNone   Layer = iota // inherit from the parent frame
	LayerTop                 // front copper side
	LayerBottom              // back copper side
)

func (l Layer) String() string {
	switch l {
	case LayerNone:
		return "none"
	case LayerTop:
		return "top"
	case LayerBottom:
		return "bottom"
	default:
		return fmt.Sprintf("Layer(%d)", int(l))
	}
}

// ParseLayer converts "top", "bottom" or "none" to a Layer.
func ParseLayer(s string) (Layer, error) {
	switch s {
	case "none", "":
		return LayerNone, nil
	case "top":
		return LayerTop, nil
	case "bottom":
		return LayerBottom, nil
	}
	return LayerNone, fmt.Errorf("invalid layer %q, expected top, bottom or none", s)
}

// MarshalText lets layers serialise by name.
func (l Layer) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// Vec2 is a 2-D vector in millimetres.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns the vector sum.
func (a Vec2) Add(b Vec2) Vec2 { return Vec2{X: a.X + b.X, Y: a.Y + b.Y} }

// Scale returns the vector multiplied by s.
func (a Vec2) Scale(s float64) Vec2 { return Vec2{X: a.X * s, Y: a.Y * s} }

// Point is a placement: position in mm, rotation in degrees, and layer.
type Point struct {
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Rot   float64 `json:"rot" yaml:"rot"`
	Layer Layer   `json:"layer" yaml:"layer"`
}

// Pos returns the positional part of the point.
func (p Point) Pos() Vec2 { return Vec2{X: p.X, Y: p.Y} }

// Compose places child in the frame of p. The child offset is rotated by
// p.Rot in the board's y-down convention, rotations add, and LayerNone
// inherits p's layer.
func (p Point) Compose(child Point) Point {
	v := p.Apply(child.Pos())
	layer := child.Layer
	if layer == LayerNone {
		layer = p.Layer
	}
	return Point{X: v.X, Y: v.Y, Rot: normalizeDeg(p.Rot + child.Rot), Layer: layer}
}

// Apply maps a local vector into p's frame.
func (p Point) Apply(v Vec2) Vec2 {
	if p.Rot == 0 {
		return Vec2{X: p.X + v.X, Y: p.Y + v.Y}
	}
	rad := p.Rot * math.Pi / 180
	s, c := math.Sincos(rad)
	return Vec2{
		X: p.X + roundMicro(v.X*c+v.Y*s),
		Y: p.Y + roundMicro(-v.X*s+v.Y*c),
	}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g, %g°, %s)", p.X, p.Y, p.Rot, p.Layer)
}

// normalizeDeg maps an angle into (-180, 180].
func normalizeDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a <= -180 {
		a += 360
	} else if a > 180 {
		a -= 360
	}
	return a
}

// roundMicro snaps to 1 nm so quarter-turn rotations stay exact.
func roundMicro(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
