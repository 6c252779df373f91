package font

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"

	"github.com/chazu/pixelcard/pkg/kernel"
)

// curveSteps is the number of segments per quadratic curve.
const curveSteps = 8

// Size selects how large text renders. Either FontSize (with an optional
// BBox) or CellWidth and CellHeight are set.
type Size struct {
	FontSize   float64
	BBox       kernel.Vec
	ScaleToFit bool

	CellWidth  float64
	CellHeight float64
}

// resolve converts the cell form into a font size and box.
func (s Size) resolve(text string) (Size, error) {
	if s.CellHeight > 0 || s.CellWidth > 0 {
		if s.CellHeight <= 0 || s.CellWidth <= 0 {
			return s, fmt.Errorf("cell size needs width and height, got %gx%g", s.CellWidth, s.CellHeight)
		}
		s.FontSize = s.CellHeight
		s.BBox = kernel.Vec{X: float64(utf8.RuneCountInString(longestLine(text))) * s.CellWidth, Y: s.CellHeight}
	}
	if s.FontSize <= 0 {
		return s, fmt.Errorf("font size must be positive, got %g", s.FontSize)
	}
	if s.ScaleToFit && (s.BBox.X <= 0 || s.BBox.Y <= 0) {
		return s, fmt.Errorf("scale to fit needs a bounding box, got %gx%g", s.BBox.X, s.BBox.Y)
	}
	return s, nil
}

func longestLine(text string) string {
	var best string
	for _, l := range strings.Split(text, "\n") {
		if utf8.RuneCountInString(l) > utf8.RuneCountInString(best) {
			best = l
		}
	}
	return best
}

// Render converts text into closed contour polygons. Each glyph contour is
// its own polygon; holes are separate contours and are resolved even-odd.
func Render(f *Font, text string, size Size) ([]kernel.Polygon, error) {
	size, err := size.resolve(text)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	scale := unitScale(f.tt)
	mm := size.FontSize / f.unitsPerEm

	var (
		polys []kernel.Polygon
		buf   truetype.GlyphBuf
	)
	for line, s := range strings.Split(text, "\n") {
		var (
			pen  float64
			prev truetype.Index
			has  bool
		)
		top := float64(line) * f.lineHeight()
		for _, r := range s {
			idx := f.tt.Index(r)
			if has {
				pen += float64(f.tt.Kern(scale, prev, idx)) / 64
			}
			if err := buf.Load(f.tt, scale, idx, xfont.HintingNone); err != nil {
				return nil, fmt.Errorf("load glyph %q: %w", r, err)
			}
			start := 0
			for _, end := range buf.Ends {
				pts := dedupe(flatten(buf.Points[start:end]))
				start = end
				if len(pts) < 3 {
					continue
				}
				poly := make(kernel.Polygon, len(pts))
				for i, p := range pts {
					poly[i] = kernel.Vec{
						X: (pen + p.X) * mm,
						Y: (top + f.ascent - p.Y) * mm,
					}
				}
				polys = append(polys, poly)
			}
			pen += float64(f.tt.HMetric(scale, idx).AdvanceWidth) / 64
			prev, has = idx, true
		}
	}

	if size.ScaleToFit {
		polys = fit(polys, size.BBox)
	}
	return polys, nil
}

// fit scales polys uniformly about their bounding box origin so the box
// fills target in one dimension, with the minimum corner at the origin.
func fit(polys []kernel.Polygon, target kernel.Vec) []kernel.Polygon {
	min, max, ok := kernel.BoundsAll(polys)
	if !ok {
		return polys
	}
	w, h := max.X-min.X, max.Y-min.Y
	if w <= 0 || h <= 0 {
		return polys
	}
	s := math.Min(target.X/w, target.Y/h)
	out := make([]kernel.Polygon, len(polys))
	for i, p := range polys {
		out[i] = p.Translate(-min.X, -min.Y).Scale(s)
	}
	return out
}

type ctrl struct {
	v  kernel.Vec
	on bool
}

// flatten converts one TrueType contour, in 26.6 font units, into a
// polyline in font units. Consecutive off-curve points imply an on-curve
// midpoint; each quadratic segment is subdivided into curveSteps lines.
func flatten(pts []truetype.Point) []kernel.Vec {
	n := len(pts)
	if n == 0 {
		return nil
	}
	ex := make([]ctrl, 0, 2*n)
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		va := kernel.Vec{X: float64(a.X) / 64, Y: float64(a.Y) / 64}
		ex = append(ex, ctrl{va, a.Flags&1 != 0})
		if a.Flags&1 == 0 && b.Flags&1 == 0 && n > 1 {
			vb := kernel.Vec{X: float64(b.X) / 64, Y: float64(b.Y) / 64}
			ex = append(ex, ctrl{kernel.Vec{X: (va.X + vb.X) / 2, Y: (va.Y + vb.Y) / 2}, true})
		}
	}

	s := 0
	for s < len(ex) && !ex[s].on {
		s++
	}
	if s == len(ex) {
		return nil
	}
	ring := make([]ctrl, 0, len(ex))
	ring = append(ring, ex[s:]...)
	ring = append(ring, ex[:s]...)

	m := len(ring)
	out := []kernel.Vec{ring[0].v}
	cur := ring[0].v
	for i := 1; i <= m; i++ {
		p := ring[i%m]
		if p.on {
			if i < m {
				out = append(out, p.v)
			}
			cur = p.v
			continue
		}
		i++
		end := ring[i%m].v
		for k := 1; k <= curveSteps; k++ {
			if i >= m && k == curveSteps {
				break
			}
			t := float64(k) / curveSteps
			u := 1 - t
			out = append(out, kernel.Vec{
				X: u*u*cur.X + 2*u*t*p.v.X + t*t*end.X,
				Y: u*u*cur.Y + 2*u*t*p.v.Y + t*t*end.Y,
			})
		}
		cur = end
	}
	return out
}

// dedupe drops repeated consecutive points, including a closing point equal
// to the first.
func dedupe(pts []kernel.Vec) []kernel.Vec {
	out := pts[:0:0]
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}
