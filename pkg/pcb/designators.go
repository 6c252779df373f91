package pcb

import (
	"strconv"

	"github.com/chazu/pixelcard/pkg/graph"
)

// DefaultPrefix is used for parts that declare no designator prefix.
const DefaultPrefix = "U"

// Designators maps part modules to their reference designators.
type Designators map[graph.NodeID]string

// AssignDesignators numbers every module below root that carries a
// footprint. Numbering is per prefix, from 1, in tree preorder.
func AssignDesignators(g *graph.Graph, root graph.NodeID) Designators {
	out := make(Designators)
	next := make(map[string]int)
	_ = g.Walk(root, func(id graph.NodeID) error {
		n := g.Node(id)
		if n.Kind != graph.KindModule {
			return graph.SkipChildren
		}
		if n.Traits.Footprint == nil {
			return nil
		}
		prefix := DefaultPrefix
		if p := n.Traits.DesignatorPrefix; p != nil && p.Prefix != "" {
			prefix = p.Prefix
		}
		next[prefix]++
		out[id] = prefix + strconv.Itoa(next[prefix])
		return nil
	})
	return out
}
