// Package layout projects the module tree onto board coordinates.
//
// A Hierarchy is an ordered list of levels keyed by module type tag. Each
// level carries a placement rule and may nest a hierarchy for the matched
// module's own children. Hierarchies attach to modules through the
// graph.Layout trait and are also passed to Resolve directly.
package layout

import (
	"fmt"
	"strings"

	"github.com/chazu/pixelcard/pkg/graph"
)

// Rule computes the relative placement of the i'th module matched by a
// level under one parent.
type Rule interface {
	Place(i int) graph.Point
	String() string
}

// Absolute places every matched module at the same point.
type Absolute struct {
	Point graph.Point
}

// Place returns the literal point.
func (a Absolute) Place(int) graph.Point { return a.Point }

func (a Absolute) String() string { return "absolute" + a.Point.String() }

// Extrude spreads matched modules along a vector: the i'th lands at
// Base + i*Spacing. With DynamicRotation the i'th also turns by i*RotStep.
type Extrude struct {
	Base            graph.Point
	Spacing         graph.Vec2
	RotStep         float64
	DynamicRotation bool
}

// Place returns Base offset by i spacings.
func (e Extrude) Place(i int) graph.Point {
	p := e.Base
	p.X += float64(i) * e.Spacing.X
	p.Y += float64(i) * e.Spacing.Y
	if e.DynamicRotation {
		p.Rot += float64(i) * e.RotStep
	}
	return p
}

func (e Extrude) String() string {
	return fmt.Sprintf("extrude%s+i*(%g, %g)", e.Base, e.Spacing.X, e.Spacing.Y)
}

// Level binds a rule to a module type tag.
type Level struct {
	Type     string
	Rule     Rule
	Children Hierarchy
}

// Hierarchy is an ordered list of levels. Earlier levels win ties.
type Hierarchy []Level

func (h Hierarchy) String() string {
	parts := make([]string, len(h))
	for i, l := range h {
		parts[i] = l.Type + "=" + l.Rule.String()
		if len(l.Children) > 0 {
			parts[i] += " " + l.Children.String()
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Trait wraps h as a layout trait for graph.Attach.
func (h Hierarchy) Trait() graph.Layout {
	return graph.Layout{Rule: h}
}

// match returns the first level whose type is carried by n.
func (h Hierarchy) match(n *graph.Node) *Level {
	for i := range h {
		if n.Is(h[i].Type) {
			return &h[i]
		}
	}
	return nil
}
