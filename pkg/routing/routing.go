// Package routing orders the routing intents declared on a design and
// resolves which one governs each group of interfaces.
//
// Intents are ranked by priority, highest first, then by declaration
// order. An intent whose scope overlaps a better-ranked one stays in the
// plan as an advisory fallback. Overlap at equal priority is also reported
// as a conflict.
package routing

import (
	"fmt"
	"sort"

	perr "github.com/chazu/pixelcard/pkg/errors"
	"github.com/chazu/pixelcard/pkg/graph"
)

// Entry is one intent with its resolved physical scope.
type Entry struct {
	Target   graph.NodeID        `json:"-" yaml:"-"`
	Path     string              `json:"target" yaml:"target"`
	Intent   graph.RoutingIntent `json:"intent" yaml:"intent"`
	Scope    []graph.NodeID      `json:"-" yaml:"-"`
	Net      string              `json:"net,omitempty" yaml:"net,omitempty"`
	Advisory bool                `json:"advisory" yaml:"advisory"`
}

// Conflict records two overlapping intents of equal priority. Winner was
// declared first.
type Conflict struct {
	Winner string  `json:"winner" yaml:"winner"`
	Loser  string  `json:"loser" yaml:"loser"`
	Prio   float64 `json:"priority" yaml:"priority"`
	Shared int     `json:"shared" yaml:"shared"`
}

// Err returns the conflict as a ROUTING_CONFLICT error value.
func (c Conflict) Err() error {
	return perr.New(perr.ErrCodeRoutingConflict,
		"overlaps %s at priority %g on %d interface(s); %s wins by declaration order",
		c.Winner, c.Prio, c.Shared, c.Winner).At(c.Loser)
}

// RoutePlan is the ordered set of intents of a design.
type RoutePlan struct {
	Entries   []Entry    `json:"entries" yaml:"entries"`
	Conflicts []Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
}

// Effective returns the entries that are not advisory, in plan order.
func (p *RoutePlan) Effective() []Entry {
	var out []Entry
	for _, e := range p.Entries {
		if !e.Advisory {
			out = append(out, e)
		}
	}
	return out
}

// Warnings returns every conflict as an error value.
func (p *RoutePlan) Warnings() []error {
	out := make([]error, len(p.Conflicts))
	for i, c := range p.Conflicts {
		out[i] = c.Err()
	}
	return out
}

// Plan collects every routing intent in g and ranks them.
func Plan(g *graph.Graph) *RoutePlan {
	var entries []Entry
	for _, root := range g.Roots() {
		_ = g.Walk(root, func(id graph.NodeID) error {
			n := g.Node(id)
			if n.Traits.Routing == nil {
				return nil
			}
			scope := Scope(g, id)
			net := ""
			if n.Kind == graph.KindNet {
				net = g.NetName(id)
			} else if n.Kind == graph.KindInterface {
				if nid, ok := g.NetOf(id); ok {
					net = g.NetName(nid)
				}
			}
			for _, it := range n.Traits.Routing.Intents {
				entries = append(entries, Entry{Target: id, Path: g.Path(id), Intent: it, Scope: scope, Net: net})
			}
			return nil
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Intent, entries[j].Intent
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.Seq < b.Seq
	})

	plan := &RoutePlan{Entries: entries}
	sets := make([]map[graph.NodeID]bool, len(entries))
	for i := range entries {
		sets[i] = make(map[graph.NodeID]bool, len(entries[i].Scope))
		for _, id := range entries[i].Scope {
			sets[i][id] = true
		}
	}
	for i := range entries {
		for j := 0; j < i; j++ {
			shared := overlap(sets[j], entries[i].Scope)
			if shared == 0 {
				continue
			}
			plan.Entries[i].Advisory = true
			if entries[i].Intent.Priority == entries[j].Intent.Priority {
				plan.Conflicts = append(plan.Conflicts, Conflict{
					Winner: label(entries[j]),
					Loser:  label(entries[i]),
					Prio:   entries[i].Intent.Priority,
					Shared: shared,
				})
			}
		}
	}
	return plan
}

func label(e Entry) string {
	return fmt.Sprintf("%s#%d", e.Path, e.Intent.Seq)
}

func overlap(set map[graph.NodeID]bool, ids []graph.NodeID) int {
	n := 0
	for _, id := range ids {
		if set[id] {
			n++
		}
	}
	return n
}

// Scope returns the interfaces an intent on id covers: a net's members,
// the members of an interface's net (or its electrical component when it
// has none), or every interface below a module. Net terminals are excluded.
func Scope(g *graph.Graph, id graph.NodeID) []graph.NodeID {
	n := g.Node(id)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case graph.KindNet:
		return g.NetMembers(id)
	case graph.KindInterface:
		if net, ok := g.NetOf(id); ok {
			return g.NetMembers(net)
		}
		var out []graph.NodeID
		for _, c := range g.Component(id) {
			if p := g.Node(g.Parent(c)); p != nil && p.Kind == graph.KindNet {
				continue
			}
			out = append(out, c)
		}
		return out
	case graph.KindModule:
		var out []graph.NodeID
		_ = g.Walk(id, func(c graph.NodeID) error {
			switch g.Node(c).Kind {
			case graph.KindNet:
				return graph.SkipChildren
			case graph.KindInterface:
				out = append(out, c)
			}
			return nil
		})
		return out
	}
	return nil
}
