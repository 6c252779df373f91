// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/pixelcard/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// sdfxShape wraps an sdf.SDF2 to implement kernel.Shape.
type sdfxShape struct {
	s sdf.SDF2
}

// Contains reports whether the point is inside or on the boundary.
func (s *sdfxShape) Contains(x, y float64) bool {
	return s.s.Evaluate(v2.Vec{X: x, Y: y}) <= 0
}

// Distance returns the signed distance; negative inside.
func (s *sdfxShape) Distance(x, y float64) float64 {
	return s.s.Evaluate(v2.Vec{X: x, Y: y})
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxShape) BoundingBox() (min, max [2]float64) {
	bb := s.s.BoundingBox()
	return [2]float64{bb.Min.X, bb.Min.Y}, [2]float64{bb.Max.X, bb.Max.Y}
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

func unwrap(s kernel.Shape) sdf.SDF2 {
	return s.(*sdfxShape).s
}

func wrap(s sdf.SDF2) kernel.Shape {
	return &sdfxShape{s: s}
}

// RoundedRect creates a w x h rectangle with rounded corners. The resulting
// shape has its minimum corner at the origin so board coordinates map
// directly. sdf.Box2D centers the box, so we translate by half-dimensions.
func (k *SdfxKernel) RoundedRect(w, h, radius float64) (kernel.Shape, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("rounded rect: size must be positive, got %gx%g", w, h)
	}
	if radius < 0 || 2*radius > w || 2*radius > h {
		return nil, fmt.Errorf("rounded rect: radius %g does not fit %gx%g", radius, w, h)
	}
	s := sdf.Box2D(v2.Vec{X: w, Y: h}, radius)
	m := sdf.Translate2d(v2.Vec{X: w / 2, Y: h / 2})
	return wrap(sdf.Transform2D(s, m)), nil
}

// Polygon creates a shape from a closed ring of points.
func (k *SdfxKernel) Polygon(p kernel.Polygon) (kernel.Shape, error) {
	if p.IsEmpty() {
		return nil, fmt.Errorf("polygon: need at least 3 points, got %d", p.Len())
	}
	verts := make([]v2.Vec, len(p))
	for i, v := range p {
		verts[i] = v2.Vec{X: v.X, Y: v.Y}
	}
	s, err := sdf.Polygon2D(verts)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D: %w", err)
	}
	return wrap(s), nil
}

// Union returns the union of two shapes.
func (k *SdfxKernel) Union(a, b kernel.Shape) kernel.Shape {
	return wrap(sdf.Union2D(unwrap(a), unwrap(b)))
}

// Translate moves a shape by (x, y).
func (k *SdfxKernel) Translate(s kernel.Shape, x, y float64) kernel.Shape {
	m := sdf.Translate2d(v2.Vec{X: x, Y: y})
	return wrap(sdf.Transform2D(unwrap(s), m))
}
