// Package bom writes the JLCPCB assembly bill of materials.
package bom

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/chazu/pixelcard/pkg/graph"
	"github.com/chazu/pixelcard/pkg/pcb"
)

// Header is the JLCPCB BOM column order.
var Header = []string{"Comment", "Designator", "Footprint", "LCSC"}

// Row is one line of the BOM: every placement of the same part.
type Row struct {
	Comment     string   `json:"comment" yaml:"comment"`
	Designators []string `json:"designators" yaml:"designators"`
	Footprint   string   `json:"footprint" yaml:"footprint"`
	LCSC        string   `json:"lcsc" yaml:"lcsc"`
}

// Rows collects the picked parts below root. Parts with the same part
// number and footprint share a row. Modules without a designator or a part
// (the logo) are not assembled and are left out.
func Rows(g *graph.Graph, root graph.NodeID, des pcb.Designators) []Row {
	type key struct{ partno, footprint string }
	index := make(map[key]int)
	var rows []Row

	_ = g.Walk(root, func(id graph.NodeID) error {
		n := g.Node(id)
		if n.Kind != graph.KindModule {
			return graph.SkipChildren
		}
		part := n.Traits.Part
		ref, ok := des[id]
		if part == nil || !ok {
			return nil
		}
		k := key{part.Partno, part.Footprint}
		i, seen := index[k]
		if !seen {
			i = len(rows)
			index[k] = i
			rows = append(rows, Row{Comment: part.Description, Footprint: part.Footprint, LCSC: part.Partno})
		}
		rows[i].Designators = append(rows[i].Designators, ref)
		return graph.SkipChildren
	})

	for i := range rows {
		sort.Slice(rows[i].Designators, func(a, b int) bool {
			return Less(rows[i].Designators[a], rows[i].Designators[b])
		})
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return Less(rows[a].Designators[0], rows[b].Designators[0])
	})
	return rows
}

// Write emits rows as CSV with a header line.
func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{r.Comment, strings.Join(r.Designators, ","), r.Footprint, r.LCSC}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Less orders designators by prefix, then numerically: R2 before R10.
func Less(a, b string) bool {
	pa, na := split(a)
	pb, nb := split(b)
	if pa != pb {
		return pa < pb
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

func split(ref string) (string, int) {
	i := len(ref)
	for i > 0 && ref[i-1] >= '0' && ref[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(ref[i:])
	if err != nil {
		return ref, -1
	}
	return ref[:i], n
}
