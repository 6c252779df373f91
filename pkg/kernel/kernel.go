// Package kernel defines the abstract 2-D geometry kernel interface.
// Implementations (sdfx) provide board outlines, glyph contours and
// containment tests behind this interface, so the layout and PCB code never
// depend on a particular geometry library.
package kernel

// Shape is an opaque handle to a kernel region in the board plane.
// Implementations wrap their internal representation.
type Shape interface {
	// Contains reports whether (x, y) lies inside or on the boundary.
	Contains(x, y float64) bool

	// Distance returns the signed distance to the boundary; negative inside.
	Distance(x, y float64) float64

	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [2]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	RoundedRect(w, h, radius float64) (Shape, error)
	Polygon(p Polygon) (Shape, error)

	// Boolean operations
	Union(a, b Shape) Shape

	// Transforms
	Translate(s Shape, x, y float64) Shape
}
