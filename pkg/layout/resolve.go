package layout

import (
	"fmt"
	"sort"
	"strings"

	perr "github.com/chazu/pixelcard/pkg/errors"
	"github.com/chazu/pixelcard/pkg/graph"
)

// Source records which rule produced a placement.
type Source int

const (
	SourceRoot      Source = iota // root frame
	SourceLevel                   // matched hierarchy level
	SourcePosition                // explicit position trait
	SourceInherited               // placed ancestor's frame
)

func (s Source) String() string {
	switch s {
	case SourceRoot:
		return "root"
	case SourceLevel:
		return "level"
	case SourcePosition:
		return "position"
	case SourceInherited:
		return "inherited"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// MarshalText lets sources serialise by name.
func (s Source) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Placement is the resolved position of one module. Relative is in the
// parent's frame; Absolute is in board coordinates.
type Placement struct {
	Relative graph.Point
	Absolute graph.Point
	Source   Source
	Level    string // matched level type, if any
}

// Placements maps modules to their resolved placement.
type Placements map[graph.NodeID]Placement

// Sorted returns the placed module IDs ordered by path.
func (p Placements) Sorted(g *graph.Graph) []graph.NodeID {
	ids := make([]graph.NodeID, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return g.Path(ids[i]) < g.Path(ids[j]) })
	return ids
}

// frame is one entry of the resolution stack: a placed module with the
// scopes its children are matched against, outermost first.
type frame struct {
	id       graph.NodeID
	abs      graph.Point
	scopes   []Hierarchy
	isRoot   bool
	inherits bool // children without a rule may take this frame
}

type counterKey struct {
	parent graph.NodeID
	level  *Level
}

// Resolve places root and every module below it. Child modules are matched
// against the hierarchy h, the Layout traits of their ancestors, and the
// nested children of levels matched on the way down, innermost scope first.
//
// Modules that no rule places are returned together in one placement
// error; their subtrees are not resolved.
func Resolve(g *graph.Graph, root graph.NodeID, h Hierarchy) (Placements, error) {
	rn := g.Node(root)
	if rn == nil || rn.Kind != graph.KindModule {
		return nil, perr.New(perr.ErrCodePlacement, "layout root is not a module").At(g.Path(root))
	}

	out := make(Placements)
	rootAbs := graph.Point{Layer: graph.LayerTop}
	if pos := rn.Traits.Position; pos != nil {
		rootAbs = pos.Point
		if rootAbs.Layer == graph.LayerNone {
			rootAbs.Layer = graph.LayerTop
		}
	}
	out[root] = Placement{Relative: rootAbs, Absolute: rootAbs, Source: SourceRoot}

	scopes, err := withTrait([]Hierarchy{h}, rn)
	if err != nil {
		return nil, err
	}

	var unplaced []string
	counters := make(map[counterKey]int)
	stack := []frame{{id: root, abs: rootAbs, scopes: scopes, isRoot: true}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var next []frame
		for _, c := range g.ChildrenOfKind(f.id, graph.KindModule) {
			n := g.Node(c)
			pl, lvl, ok := place(n, f, counters)
			if !ok {
				unplaced = append(unplaced, g.Path(c))
				continue
			}
			pl.Absolute = f.abs.Compose(pl.Relative)
			out[c] = pl

			cs := f.scopes
			if lvl != nil && len(lvl.Children) > 0 {
				cs = append(cs[:len(cs):len(cs)], lvl.Children)
			}
			if cs, err = withTrait(cs, n); err != nil {
				return nil, err
			}
			next = append(next, frame{id: c, abs: pl.Absolute, scopes: cs, inherits: true})
		}
		for i := len(next) - 1; i >= 0; i-- {
			stack = append(stack, next[i])
		}
	}

	if len(unplaced) > 0 {
		sort.Strings(unplaced)
		return out, perr.New(perr.ErrCodePlacement,
			"%d unplaced module(s): %s", len(unplaced), strings.Join(unplaced, ", ")).At(unplaced[0])
	}
	return out, nil
}

// place picks the relative point of n under parent frame f.
func place(n *graph.Node, f frame, counters map[counterKey]int) (Placement, *Level, bool) {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		lvl := f.scopes[i].match(n)
		if lvl == nil {
			continue
		}
		key := counterKey{f.id, lvl}
		idx := counters[key]
		counters[key] = idx + 1
		return Placement{Relative: lvl.Rule.Place(idx), Source: SourceLevel, Level: lvl.Type}, lvl, true
	}
	if pos := n.Traits.Position; pos != nil {
		return Placement{Relative: pos.Point, Source: SourcePosition}, nil, true
	}
	if f.inherits && !f.isRoot {
		return Placement{Source: SourceInherited}, nil, true
	}
	return Placement{}, nil, false
}

// withTrait appends n's own layout hierarchy, if any, as the innermost scope.
func withTrait(scopes []Hierarchy, n *graph.Node) ([]Hierarchy, error) {
	lt := n.Traits.Layout
	if lt == nil {
		return scopes, nil
	}
	h, ok := lt.Rule.(Hierarchy)
	if !ok {
		return nil, perr.New(perr.ErrCodePlacement, "unsupported layout rule %T", lt.Rule)
	}
	return append(scopes[:len(scopes):len(scopes)], h), nil
}
