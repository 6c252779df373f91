package graph

import (
	"sort"
	"strings"

	perr "github.com/chazu/pixelcard/pkg/errors"
)

// NetType is the type tag of net nodes.
const NetType = "Net"

// NetSpec declares a named net on an interface. Slices of NetSpec are
// ordered; the slice order is the declaration order.
type NetSpec struct {
	Name      string
	Interface NodeID
}

// NetOptions adjusts AssignNets.
type NetOptions struct {
	// AllowOverlap accepts declarations whose interfaces are already
	// electrically joined to another net. The later declaration becomes the
	// effective name of the shared members and a warning is recorded.
	AllowOverlap bool
}

// Electrical is the plain single-conductor interface type.
var Electrical = InterfaceType{Tag: "Electrical"}

// AssignNets creates one net per spec under owner, named net_<name>, and
// connects the net's part_of interface to the spec's interface. Every spec
// is checked before the graph is touched, so a failure leaves no net behind.
func (g *Graph) AssignNets(owner NodeID, specs []NetSpec, opts ...NetOptions) ([]NodeID, error) {
	var opt NetOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	if o := g.Node(owner); o == nil || o.Kind != KindModule {
		return nil, perr.New(perr.ErrCodeComposition, "nets must be owned by a module").At(g.Path(owner))
	}

	comps := make([]map[NodeID]bool, len(specs))
	seen := make(map[string]int, len(specs))
	for i, s := range specs {
		if s.Name == "" {
			return nil, perr.New(perr.ErrCodeComposition, "net %d has an empty name", i).At(g.Path(owner))
		}
		if _, dup := g.names[s.Name]; dup {
			return nil, perr.New(perr.ErrCodeComposition, "net name %q already declared", s.Name).At(g.Path(owner))
		}
		if _, dup := seen[s.Name]; dup {
			return nil, perr.New(perr.ErrCodeComposition, "net name %q declared twice", s.Name).At(g.Path(owner))
		}
		if strings.ContainsAny(s.Name, ". ") {
			return nil, perr.New(perr.ErrCodeComposition, "invalid net name %q", s.Name).At(g.Path(owner))
		}
		if _, taken := g.Child(owner, "net_"+s.Name); taken {
			return nil, perr.New(perr.ErrCodeComposition,
				"net %q clashes with child %q", s.Name, "net_"+s.Name).At(g.Path(owner))
		}
		seen[s.Name] = i

		n := g.Node(s.Interface)
		if n == nil || n.Kind != KindInterface {
			return nil, perr.New(perr.ErrCodeComposition,
				"net %q must reference an interface", s.Name).At(g.Path(s.Interface))
		}
		if n.Type != Electrical.Tag {
			return nil, perr.New(perr.ErrCodeComposition,
				"net %q must reference an %s interface, not %s", s.Name, Electrical.Tag, n.Type).At(g.Path(s.Interface))
		}
		comps[i] = make(map[NodeID]bool)
		for _, id := range g.Component(s.Interface) {
			comps[i][id] = true
		}
	}

	type overlap struct {
		a, b string
		at   int // index of the spec declaring b
	}
	var overlaps []overlap
	for i, s := range specs {
		for _, net := range g.nets {
			if comps[i][g.partOf(net)] {
				overlaps = append(overlaps, overlap{g.NetName(net), s.Name, i})
			}
		}
		for j := 0; j < i; j++ {
			if comps[j][specs[i].Interface] {
				overlaps = append(overlaps, overlap{specs[j].Name, s.Name, i})
			}
		}
	}
	if len(overlaps) > 0 && !opt.AllowOverlap {
		o := overlaps[0]
		return nil, perr.New(perr.ErrCodeComposition,
			"nets %q and %q share interfaces", o.a, o.b).At(g.Path(owner))
	}

	out := make([]NodeID, 0, len(specs))
	for _, s := range specs {
		net, err := g.add(owner, "net_"+s.Name, KindNet, NetType, nil)
		if err != nil {
			return out, err
		}
		if _, err := g.AddInterface(net, "part_of", Electrical); err != nil {
			return out, err
		}
		if err := g.Attach(net, OverriddenName{Name: s.Name}); err != nil {
			return out, err
		}
		if err := g.Connect(g.partOf(net), s.Interface); err != nil {
			return out, err
		}
		g.nets = append(g.nets, net)
		g.names[s.Name] = net
		out = append(out, net)
	}
	for _, o := range overlaps {
		g.warn(out[o.at], "net %q overlaps %q; %q is effective", o.a, o.b, o.b)
	}
	return out, nil
}

func (g *Graph) partOf(net NodeID) NodeID {
	id, _ := g.Child(net, "part_of")
	return id
}

// Nets returns every net in declaration order.
func (g *Graph) Nets() []NodeID {
	return append([]NodeID(nil), g.nets...)
}

// NetName returns the declared name of a net.
func (g *Graph) NetName(net NodeID) string {
	n := g.Node(net)
	if n == nil || n.Traits.OverriddenName == nil {
		return ""
	}
	return n.Traits.OverriddenName.Name
}

// NetByName returns the net declared as name.
func (g *Graph) NetByName(name string) (NodeID, bool) {
	id, ok := g.names[name]
	return id, ok
}

// NetOf returns the effective net of an interface: the latest declared net
// electrically joined to it.
func (g *Graph) NetOf(iface NodeID) (NodeID, bool) {
	comp := g.Component(iface)
	in := make(map[NodeID]bool, len(comp))
	for _, id := range comp {
		in[id] = true
	}
	for i := len(g.nets) - 1; i >= 0; i-- {
		if in[g.partOf(g.nets[i])] {
			return g.nets[i], true
		}
	}
	return NoNode, false
}

// NetMembers returns the interfaces joined to net, excluding the net's own
// part_of terminal and the terminals of other nets, sorted by path.
func (g *Graph) NetMembers(net NodeID) []NodeID {
	var out []NodeID
	for _, id := range g.Component(g.partOf(net)) {
		if p := g.Node(g.Parent(id)); p != nil && p.Kind == KindNet {
			continue
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return g.Path(out[i]) < g.Path(out[j]) })
	return out
}
