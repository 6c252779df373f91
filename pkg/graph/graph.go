package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/lvlath/core"

	perr "github.com/chazu/pixelcard/pkg/errors"
)

// Graph is the arena holding every node of a design, plus the electrical
// connectivity between interfaces. It has a single owner; none of its
// methods are safe for concurrent mutation.
type Graph struct {
	nodes []*Node
	roots []NodeID

	conn  *core.Graph
	nets  []NodeID
	names map[string]NodeID // declared net name -> net node

	diags    []Diagnostic
	routeSeq int
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		conn:  core.NewGraph(),
		names: make(map[string]NodeID),
	}
}

// Node returns the node addressed by id, or nil.
func (g *Graph) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// NodeCount returns the total number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// Roots returns the root nodes in creation order.
func (g *Graph) Roots() []NodeID {
	return append([]NodeID(nil), g.roots...)
}

// Children returns the children of id in declaration order.
func (g *Graph) Children(id NodeID) []NodeID {
	n := g.Node(id)
	if n == nil {
		return nil
	}
	return append([]NodeID(nil), n.children...)
}

// ChildrenOfKind returns the children of id with the given kind, in
// declaration order.
func (g *Graph) ChildrenOfKind(id NodeID, kind NodeKind) []NodeID {
	var out []NodeID
	for _, c := range g.Children(id) {
		if g.nodes[c].Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the child of id called name.
func (g *Graph) Child(id NodeID, name string) (NodeID, bool) {
	n := g.Node(id)
	if n == nil {
		return NoNode, false
	}
	c, ok := n.index[name]
	return c, ok
}

// Parent returns the parent of id, or NoNode for roots.
func (g *Graph) Parent(id NodeID) NodeID {
	if n := g.Node(id); n != nil {
		return n.Parent
	}
	return NoNode
}

// Path returns the dotted full name of id from its root.
func (g *Graph) Path(id NodeID) string {
	var parts []string
	for n := g.Node(id); n != nil; n = g.Node(n.Parent) {
		parts = append(parts, n.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// Find resolves a dotted path starting at a root name.
func (g *Graph) Find(path string) (NodeID, bool) {
	parts := strings.Split(path, ".")
	var cur NodeID = NoNode
	for _, r := range g.roots {
		if g.nodes[r].Name == parts[0] {
			cur = r
			break
		}
	}
	if cur == NoNode {
		return NoNode, false
	}
	for _, p := range parts[1:] {
		next, ok := g.Child(cur, p)
		if !ok {
			return NoNode, false
		}
		cur = next
	}
	return cur, true
}

// FindFrom resolves a dotted path relative to base.
func (g *Graph) FindFrom(base NodeID, rel string) (NodeID, bool) {
	if rel == "" {
		return base, g.Node(base) != nil
	}
	cur := base
	for _, p := range strings.Split(rel, ".") {
		next, ok := g.Child(cur, p)
		if !ok {
			return NoNode, false
		}
		cur = next
	}
	return cur, true
}

// Ancestors returns the chain of ancestors of id, nearest first.
func (g *Graph) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for p := g.Parent(id); p != NoNode; p = g.Parent(p) {
		out = append(out, p)
	}
	return out
}

// Walk visits root and its descendants depth-first in declaration order.
// It uses an explicit stack so deep designs do not grow the call stack.
// Returning SkipChildren from fn prunes the subtree below that node.
func (g *Graph) Walk(root NodeID, fn func(id NodeID) error) error {
	if g.Node(root) == nil {
		return nil
	}
	stack := []NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := fn(id); err != nil {
			if err == SkipChildren {
				continue
			}
			return err
		}
		ch := g.nodes[id].children
		for i := len(ch) - 1; i >= 0; i-- {
			stack = append(stack, ch[i])
		}
	}
	return nil
}

// SkipChildren is returned by a Walk callback to prune a subtree.
var SkipChildren = errors.New("skip children")

// Descendants returns every node of the given kind below root (inclusive),
// in walk order.
func (g *Graph) Descendants(root NodeID, kind NodeKind) []NodeID {
	var out []NodeID
	_ = g.Walk(root, func(id NodeID) error {
		if g.nodes[id].Kind == kind {
			out = append(out, id)
		}
		return nil
	})
	return out
}

// FirstOfType returns the first descendant module of root (exclusive) whose
// type or lineage carries tag.
func (g *Graph) FirstOfType(root NodeID, tag string) (NodeID, bool) {
	found := NoNode
	_ = g.Walk(root, func(id NodeID) error {
		if found != NoNode {
			return SkipChildren
		}
		n := g.nodes[id]
		if id != root && n.Kind == KindModule && n.Is(tag) {
			found = id
			return SkipChildren
		}
		return nil
	})
	return found, found != NoNode
}

// ---------------------------------------------------------------------------
// Node creation
// ---------------------------------------------------------------------------

func (g *Graph) add(parent NodeID, name string, kind NodeKind, typ string, lineage []string) (NodeID, error) {
	if name == "" || strings.ContainsAny(name, ". ") {
		return NoNode, perr.New(perr.ErrCodeComposition, "invalid child name %q", name).At(g.Path(parent))
	}
	if parent != NoNode {
		p := g.Node(parent)
		if p == nil {
			return NoNode, perr.New(perr.ErrCodeComposition, "parent %d does not exist", parent)
		}
		if _, dup := p.index[name]; dup {
			return NoNode, perr.New(perr.ErrCodeComposition,
				"duplicate child name %q", name).At(g.Path(parent))
		}
	} else {
		for _, r := range g.roots {
			if g.nodes[r].Name == name {
				return NoNode, perr.New(perr.ErrCodeComposition, "duplicate root name %q", name)
			}
		}
	}

	id := NodeID(len(g.nodes))
	n := &Node{
		ID:      id,
		Kind:    kind,
		Name:    name,
		Type:    typ,
		Lineage: append([]string(nil), lineage...),
		Parent:  parent,
	}
	g.nodes = append(g.nodes, n)

	if parent == NoNode {
		g.roots = append(g.roots, id)
	} else {
		p := g.nodes[parent]
		if p.index == nil {
			p.index = make(map[string]NodeID)
		}
		p.children = append(p.children, id)
		p.index[name] = id
	}
	return id, nil
}

// AddModule creates a module node under parent (NoNode for a root).
func (g *Graph) AddModule(parent NodeID, name, typ string, lineage ...string) (NodeID, error) {
	if parent != NoNode {
		if p := g.Node(parent); p != nil && p.Kind != KindModule {
			return NoNode, perr.New(perr.ErrCodeComposition,
				"cannot attach module %q to %s", name, p.Kind).At(g.Path(parent))
		}
	}
	return g.add(parent, name, KindModule, typ, lineage)
}

// InterfaceType describes a (possibly compound) interface shape.
type InterfaceType struct {
	Tag     string
	Members []Member
}

// Member is a named sub-interface of a compound interface type.
type Member struct {
	Name string
	Type InterfaceType
}

// AddInterface creates an interface of type t under parent, including all
// nested members.
func (g *Graph) AddInterface(parent NodeID, name string, t InterfaceType) (NodeID, error) {
	type pending struct {
		parent NodeID
		name   string
		t      InterfaceType
	}
	var root NodeID = NoNode
	stack := []pending{{parent, name, t}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		id, err := g.add(p.parent, p.name, KindInterface, p.t.Tag, nil)
		if err != nil {
			return NoNode, err
		}
		if err := g.conn.AddVertex(id.key()); err != nil {
			return NoNode, perr.Wrap(perr.ErrCodeInternal, err, "register interface").At(g.Path(id))
		}
		if root == NoNode {
			root = id
		}
		for i := len(p.t.Members) - 1; i >= 0; i-- {
			m := p.t.Members[i]
			stack = append(stack, pending{id, m.Name, m.Type})
		}
	}
	return root, nil
}

// AddParameter creates a parameter node under parent with an initial
// constraint.
func (g *Graph) AddParameter(parent NodeID, name string, initial Constraint) (NodeID, error) {
	id, err := g.add(parent, name, KindParameter, "Parameter", nil)
	if err != nil {
		return NoNode, err
	}
	g.nodes[id].param = initial
	return id, nil
}

// ---------------------------------------------------------------------------
// Parameters
// ---------------------------------------------------------------------------

// Merge narrows the parameter to the intersection with c. An empty
// intersection is a composition error; the parameter keeps its value.
func (g *Graph) Merge(param NodeID, c Constraint) error {
	n := g.Node(param)
	if n == nil || n.Kind != KindParameter {
		return perr.New(perr.ErrCodeComposition, "merge target is not a parameter").At(g.Path(param))
	}
	next, ok := n.param.Intersect(c)
	if !ok {
		return perr.New(perr.ErrCodeComposition,
			"empty parameter intersection: have %s, merging %s", n.param, c).At(g.Path(param))
	}
	n.param = next
	return nil
}

// MostNarrow returns the current constraint of a parameter.
func (g *Graph) MostNarrow(param NodeID) (Constraint, error) {
	n := g.Node(param)
	if n == nil || n.Kind != KindParameter {
		return Constraint{}, perr.New(perr.ErrCodeComposition, "not a parameter").At(g.Path(param))
	}
	return n.param, nil
}

// Param returns the constraint of the parameter child called name under
// module, or TBD when absent.
func (g *Graph) Param(module NodeID, name string) Constraint {
	id, ok := g.Child(module, name)
	if !ok || g.nodes[id].Kind != KindParameter {
		return TBD()
	}
	return g.nodes[id].param
}

// ---------------------------------------------------------------------------
// Traits
// ---------------------------------------------------------------------------

// Attach fills the trait slot of id. Replacing a filled slot follows
// last-write-wins, but records a diagnostic for ERC-relevant kinds. A net's
// name cannot be replaced.
func (g *Graph) Attach(id NodeID, tr Trait) error {
	n := g.Node(id)
	if n == nil {
		return perr.New(perr.ErrCodeComposition, "attach %s: node %d does not exist", tr.Kind(), id)
	}
	kind := tr.Kind()
	if kind == TraitOverriddenName && n.Kind == KindNet && n.Traits.OverriddenName != nil {
		return perr.New(perr.ErrCodeComposition,
			"net name %q is immutable", n.Traits.OverriddenName.Name).At(g.Path(id))
	}
	if n.Traits.set(tr) {
		sev := SeverityInfo
		if kind.ercRelevant() {
			sev = SeverityWarning
		}
		g.diags = append(g.diags, Diagnostic{
			NodeID:   id,
			Path:     g.Path(id),
			Message:  fmt.Sprintf("%s trait replaced", kind),
			Severity: sev,
		})
	}
	return nil
}

// AttachRouting appends a routing intent to id's routing slot, stamping
// its declaration sequence. Connectivity is never touched.
func (g *Graph) AttachRouting(id NodeID, intent RoutingIntent) error {
	n := g.Node(id)
	if n == nil {
		return perr.New(perr.ErrCodeComposition, "attach routing: node %d does not exist", id)
	}
	if n.Kind == KindParameter {
		return perr.New(perr.ErrCodeComposition, "routing intents cannot target parameters").At(g.Path(id))
	}
	g.routeSeq++
	intent.Seq = g.routeSeq
	if n.Traits.Routing == nil {
		n.Traits.Routing = &Routing{}
	}
	n.Traits.Routing.Intents = append(n.Traits.Routing.Intents, intent)
	return nil
}

// Diagnostics returns the findings recorded while mutating the graph.
func (g *Graph) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), g.diags...)
}

func (g *Graph) warn(id NodeID, format string, args ...any) {
	g.diags = append(g.diags, Diagnostic{
		NodeID:   id,
		Path:     g.Path(id),
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityWarning,
	})
}
