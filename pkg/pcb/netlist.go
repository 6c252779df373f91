package pcb

import (
	"fmt"
	"io"
	"sort"
)

// WriteNetlist writes the components and nets of b as a KiCad netlist.
// It must run after Build, which assigns the pad nets.
func WriteNetlist(w io.Writer, b *Board) error {
	comps := list("components")
	for i, fp := range b.Footprints {
		comps.add(list("comp",
			list("ref", quote(fp.Reference)),
			list("value", quote(fp.Value)),
			list("footprint", quote(fp.Name)),
			list("sheetpath", list("names", quote("/")), list("tstamps", quote("/"))),
			list("tstamps", quote(itemUUID("footprint", i, fp.Path))),
		))
	}

	type node struct{ ref, pin string }
	members := make(map[int][]node)
	for _, fp := range b.Footprints {
		for _, p := range fp.Pads {
			if p.Net.Number == 0 {
				continue
			}
			members[p.Net.Number] = append(members[p.Net.Number], node{fp.Reference, p.Number})
		}
	}

	nets := list("nets")
	for _, n := range b.Nets {
		if n.Number == 0 {
			continue
		}
		nodes := members[n.Number]
		sort.SliceStable(nodes, func(i, j int) bool {
			if nodes[i].ref != nodes[j].ref {
				return nodes[i].ref < nodes[j].ref
			}
			return nodes[i].pin < nodes[j].pin
		})
		e := list("net", list("code", quote(fmt.Sprint(n.Number))), list("name", quote(n.Name)))
		for _, nd := range nodes {
			e.add(list("node", list("ref", quote(nd.ref)), list("pin", quote(nd.pin))))
		}
		nets.add(e)
	}

	s := list("export",
		list("version", quote("E")),
		list("design", list("source", quote("pixelcard")), list("tool", quote("pixelcard"))),
		comps,
		nets,
	).String()
	if err := verify("netlist", s); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}
