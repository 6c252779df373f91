package pcb

import (
	"fmt"
	"sort"

	"github.com/chazu/pixelcard/pkg/graph"
)

// padRef ties a board pad back to the interface it carries.
type padRef struct {
	fp    int
	pad   int
	iface graph.NodeID
}

// netTable names the electrical component of every pad. Components with a
// declared net take its name; the rest are named after their first pad,
// KiCad style. Nets are numbered from 1 in name order.
type netTable struct {
	g      *graph.Graph
	byComp map[graph.NodeID]Net
}

func newNetTable(g *graph.Graph, fps []Footprint, refs []padRef) *netTable {
	names := make(map[graph.NodeID]string)
	for _, r := range refs {
		key := componentKey(g, r.iface)
		if _, ok := names[key]; ok {
			continue
		}
		if net, ok := g.NetOf(r.iface); ok {
			names[key] = g.NetName(net)
			continue
		}
		fp := fps[r.fp]
		names[key] = fmt.Sprintf("Net-(%s-Pad%s)", fp.Reference, fp.Pads[r.pad].Number)
	}

	sorted := make([]string, 0, len(names))
	seen := make(map[string]bool)
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			sorted = append(sorted, n)
		}
	}
	sort.Strings(sorted)
	number := make(map[string]int, len(sorted))
	for i, n := range sorted {
		number[n] = i + 1
	}

	t := &netTable{g: g, byComp: make(map[graph.NodeID]Net, len(names))}
	for key, n := range names {
		t.byComp[key] = Net{Number: number[n], Name: n}
	}
	return t
}

// componentKey identifies the electrical component of iface by its lowest
// node ID.
func componentKey(g *graph.Graph, iface graph.NodeID) graph.NodeID {
	return g.Component(iface)[0]
}

// of returns the net of iface, or net 0 when no pad shares it.
func (t *netTable) of(iface graph.NodeID) Net {
	if n, ok := t.byComp[componentKey(t.g, iface)]; ok {
		return n
	}
	return Net{}
}

// nets returns the table in number order, led by the unconnected net.
func (t *netTable) nets() []Net {
	seen := make(map[int]bool)
	out := []Net{{Number: 0, Name: ""}}
	for _, n := range t.byComp {
		if !seen[n.Number] {
			seen[n.Number] = true
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
