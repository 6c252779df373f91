package kernel

import "math"

// Vec is a point in the board plane, in millimetres with y pointing down.
type Vec struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Polygon is a closed ring of points. The closing edge from the last point
// back to the first is implicit.
type Polygon []Vec

// Len returns the number of points.
func (p Polygon) Len() int {
	return len(p)
}

// IsEmpty returns true if the polygon has too few points to enclose area.
func (p Polygon) IsEmpty() bool {
	return len(p) < 3
}

// Bounds returns the axis-aligned bounding box. An empty polygon yields
// zero vectors.
func (p Polygon) Bounds() (min, max Vec) {
	if len(p) == 0 {
		return Vec{}, Vec{}
	}
	min, max = p[0], p[0]
	for _, v := range p[1:] {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
	}
	return min, max
}

// Area returns the signed shoelace area.
func (p Polygon) Area() float64 {
	var a float64
	for i := range p {
		j := (i + 1) % len(p)
		a += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return a / 2
}

// Translate returns a copy moved by (dx, dy).
func (p Polygon) Translate(dx, dy float64) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = Vec{X: v.X + dx, Y: v.Y + dy}
	}
	return out
}

// Scale returns a copy scaled about the origin.
func (p Polygon) Scale(s float64) Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[i] = Vec{X: v.X * s, Y: v.Y * s}
	}
	return out
}

// BoundsAll returns the bounding box of a set of polygons. ok is false when
// no polygon has points.
func BoundsAll(polys []Polygon) (min, max Vec, ok bool) {
	for _, p := range polys {
		if len(p) == 0 {
			continue
		}
		lo, hi := p.Bounds()
		if !ok {
			min, max, ok = lo, hi, true
			continue
		}
		min.X = math.Min(min.X, lo.X)
		min.Y = math.Min(min.Y, lo.Y)
		max.X = math.Max(max.X, hi.X)
		max.Y = math.Max(max.Y, hi.Y)
	}
	return min, max, ok
}
