package graph

import (
	"errors"
	"sort"

	"github.com/katalvlaran/lvlath/bfs"
	"github.com/katalvlaran/lvlath/core"

	perr "github.com/chazu/pixelcard/pkg/errors"
)

// Terminal names of a two-terminal component, as used by ConnectVia.
const (
	TerminalA = "unnamed[0]"
	TerminalB = "unnamed[1]"
)

// Connect joins two interfaces of the same type with an undirected edge.
// Compound interfaces also connect their same-named members pairwise.
// Connecting an interface to itself is rejected and leaves no edge;
// reconnecting an already connected pair is a no-op.
func (g *Graph) Connect(a, b NodeID) error {
	if err := g.checkConnectable(a, b); err != nil {
		return err
	}

	type pair struct{ a, b NodeID }
	var pairs []pair
	work := []pair{{a, b}}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		pairs = append(pairs, p)

		na := g.nodes[p.a]
		for i := len(na.children) - 1; i >= 0; i-- {
			ca := na.children[i]
			if g.nodes[ca].Kind != KindInterface {
				continue
			}
			cb, ok := g.Child(p.b, g.nodes[ca].Name)
			if !ok {
				return perr.New(perr.ErrCodeComposition,
					"interface %s has no member %q", g.Path(p.b), g.nodes[ca].Name).At(g.Path(p.a))
			}
			if err := g.checkConnectable(ca, cb); err != nil {
				return err
			}
			work = append(work, pair{ca, cb})
		}
	}

	// Every member pair is compatible; only now touch the graph.
	for _, p := range pairs {
		if g.conn.HasEdge(p.a.key(), p.b.key()) {
			continue
		}
		if _, err := g.conn.AddEdge(p.a.key(), p.b.key(), 0); err != nil {
			if errors.Is(err, core.ErrLoopNotAllowed) {
				return perr.New(perr.ErrCodeComposition, "cannot connect interface to itself").At(g.Path(p.a))
			}
			return perr.Wrap(perr.ErrCodeInternal, err, "connect %s", g.Path(p.b)).At(g.Path(p.a))
		}
	}
	return nil
}

func (g *Graph) checkConnectable(a, b NodeID) error {
	na, nb := g.Node(a), g.Node(b)
	if na == nil || nb == nil {
		return perr.New(perr.ErrCodeComposition, "connect: node does not exist (%d, %d)", a, b)
	}
	if na.Kind != KindInterface || nb.Kind != KindInterface {
		return perr.New(perr.ErrCodeComposition,
			"connect: %s is a %s, %s is a %s; only interfaces connect",
			g.Path(a), na.Kind, g.Path(b), nb.Kind).At(g.Path(a))
	}
	if a == b {
		return perr.New(perr.ErrCodeComposition, "cannot connect interface to itself").At(g.Path(a))
	}
	if na.Type != nb.Type {
		return perr.New(perr.ErrCodeComposition,
			"incompatible interfaces: %s is %s, %s is %s", g.Path(a), na.Type, g.Path(b), nb.Type).At(g.Path(a))
	}
	return nil
}

// ConnectVia threads a two-terminal component between a and b: a is joined
// to the component's first terminal and its second terminal to b.
func (g *Graph) ConnectVia(a, via, b NodeID) error {
	v := g.Node(via)
	if v == nil || v.Kind != KindModule {
		return perr.New(perr.ErrCodeComposition, "connect via: %s is not a module", g.Path(via))
	}
	ta, okA := g.Child(via, TerminalA)
	tb, okB := g.Child(via, TerminalB)
	if !okA || !okB || len(g.ChildrenOfKind(via, KindInterface)) != 2 {
		return perr.New(perr.ErrCodeComposition, "connect via: not a two-terminal component").At(g.Path(via))
	}
	if err := g.Connect(a, ta); err != nil {
		return err
	}
	return g.Connect(tb, b)
}

// Connected reports whether a and b are in the same electrical component.
func (g *Graph) Connected(a, b NodeID) bool {
	if a == b {
		return true
	}
	for _, id := range g.Component(a) {
		if id == b {
			return true
		}
	}
	return false
}

// HasEdge reports whether a direct connection exists between a and b.
func (g *Graph) HasEdge(a, b NodeID) bool {
	return g.conn.HasEdge(a.key(), b.key())
}

// EdgeCount returns the number of direct interface connections.
func (g *Graph) EdgeCount() int {
	return g.conn.EdgeCount()
}

// Neighbors returns the interfaces directly connected to id, sorted by ID.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	keys, err := g.conn.NeighborIDs(id.key())
	if err != nil {
		return nil
	}
	return keysToIDs(keys)
}

// Component returns every interface electrically reachable from id,
// including id, sorted by ID.
func (g *Graph) Component(id NodeID) []NodeID {
	if !g.conn.HasVertex(id.key()) {
		if g.Node(id) != nil {
			return []NodeID{id}
		}
		return nil
	}
	res, err := bfs.BFS(g.conn, id.key())
	if err != nil {
		return []NodeID{id}
	}
	return keysToIDs(res.Order)
}

func keysToIDs(keys []string) []NodeID {
	out := make([]NodeID, 0, len(keys))
	for _, k := range keys {
		if id, ok := parseKey(k); ok {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
