package graph

import (
	"fmt"
	"io"
	"strings"
)

// WriteDOT writes the module tree below root in Graphviz DOT syntax.
// Modules are boxes labelled with their name and type; nets are ellipses
// linked to the modules owning their members.
func (g *Graph) WriteDOT(w io.Writer, root NodeID) error {
	var sb strings.Builder
	sb.WriteString("digraph design {\n")
	sb.WriteString("  rankdir=LR;\n  node [fontname=\"Helvetica\", fontsize=10];\n")

	_ = g.Walk(root, func(id NodeID) error {
		n := g.nodes[id]
		switch n.Kind {
		case KindModule:
			fmt.Fprintf(&sb, "  %s [shape=box, label=%q];\n", id.key(), n.Name+"\n"+n.Type)
			if p := n.Parent; p != NoNode {
				fmt.Fprintf(&sb, "  %s -> %s;\n", p.key(), id.key())
			}
		case KindNet:
			fmt.Fprintf(&sb, "  %s [shape=ellipse, style=dashed, label=%q];\n", id.key(), g.NetName(id))
			seen := make(map[NodeID]bool)
			for _, m := range g.NetMembers(id) {
				owner := g.owningModule(m)
				if owner == NoNode || seen[owner] {
					continue
				}
				seen[owner] = true
				fmt.Fprintf(&sb, "  %s -> %s [style=dashed, arrowhead=none];\n", id.key(), owner.key())
			}
			return SkipChildren
		default:
			return SkipChildren
		}
		return nil
	})

	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func (g *Graph) owningModule(id NodeID) NodeID {
	for p := g.Parent(id); p != NoNode; p = g.Parent(p) {
		if g.nodes[p].Kind == KindModule {
			return p
		}
	}
	return NoNode
}
