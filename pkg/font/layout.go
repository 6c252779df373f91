package font

import (
	"fmt"
	"math"

	"github.com/chazu/pixelcard/pkg/graph"
	"github.com/chazu/pixelcard/pkg/kernel"
	"github.com/chazu/pixelcard/pkg/kernel/sdfx"
)

// DefaultDensity is the LED density in elements per mm².
const DefaultDensity = 0.13

// Grid selects the LED sampling grid: either a density or an explicit
// per-axis resolution over the text's bounding box.
type Grid struct {
	Density float64
	ResX    int
	ResY    int
}

func (g Grid) pitch(min, max kernel.Vec) (px, py float64, err error) {
	if g.ResX > 0 || g.ResY > 0 {
		if g.ResX <= 0 || g.ResY <= 0 {
			return 0, 0, fmt.Errorf("grid resolution needs both axes, got %dx%d", g.ResX, g.ResY)
		}
		return (max.X - min.X) / float64(g.ResX), (max.Y - min.Y) / float64(g.ResY), nil
	}
	d := g.Density
	if d == 0 {
		d = DefaultDensity
	}
	if d < 0 {
		return 0, 0, fmt.Errorf("grid density must be positive, got %g", d)
	}
	p := 1 / math.Sqrt(d)
	return p, p, nil
}

// Layout is the LED grid covering a rendered text.
type Layout struct {
	polys     []kernel.Polygon
	positions []kernel.Vec
}

// NewLayout renders text and samples the grid cell centres covered by the
// glyphs, in row-major order. Coverage is even-odd over the glyph contours.
func NewLayout(f *Font, text string, size Size, grid Grid) (*Layout, error) {
	polys, err := Render(f, text, size)
	if err != nil {
		return nil, err
	}
	l := &Layout{polys: polys}

	min, max, ok := kernel.BoundsAll(polys)
	if !ok {
		return l, nil
	}
	px, py, err := grid.pitch(min, max)
	if err != nil {
		return nil, err
	}
	if px <= 0 || py <= 0 {
		return l, nil
	}

	k := sdfx.New()
	shapes := make([]kernel.Shape, 0, len(polys))
	for _, p := range polys {
		if p.IsEmpty() {
			continue
		}
		s, err := k.Polygon(p)
		if err != nil {
			return nil, fmt.Errorf("glyph contour: %w", err)
		}
		shapes = append(shapes, s)
	}

	nx := int(math.Ceil((max.X - min.X) / px))
	ny := int(math.Ceil((max.Y - min.Y) / py))
	for j := 0; j < ny; j++ {
		y := min.Y + (float64(j)+0.5)*py
		for i := 0; i < nx; i++ {
			x := min.X + (float64(i)+0.5)*px
			if covered(shapes, x, y) {
				l.positions = append(l.positions, kernel.Vec{X: x, Y: y})
			}
		}
	}
	return l, nil
}

func covered(shapes []kernel.Shape, x, y float64) bool {
	inside := false
	for _, s := range shapes {
		if s.Contains(x, y) {
			inside = !inside
		}
	}
	return inside
}

// Count returns the number of LED positions.
func (l *Layout) Count() int {
	return len(l.positions)
}

// Positions returns the LED positions relative to the text origin.
func (l *Layout) Positions() []kernel.Vec {
	return append([]kernel.Vec(nil), l.positions...)
}

// Polygons returns the rendered glyph contours.
func (l *Layout) Polygons() []kernel.Polygon {
	return l.polys
}

// Apply attaches a relative Position trait to each node, in order. The
// number of nodes must equal Count.
func (l *Layout) Apply(g *graph.Graph, nodes ...graph.NodeID) error {
	if len(nodes) != len(l.positions) {
		return fmt.Errorf("font layout has %d positions, got %d nodes", len(l.positions), len(nodes))
	}
	for i, id := range nodes {
		p := l.positions[i]
		if err := g.Attach(id, graph.Position{Point: graph.Point{X: p.X, Y: p.Y}}); err != nil {
			return err
		}
	}
	return nil
}
