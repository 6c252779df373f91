package graph

import (
	"fmt"

	perr "github.com/chazu/pixelcard/pkg/errors"
)

// DefaultMaxDepth bounds module nesting.
const DefaultMaxDepth = 64

// ModuleType is a module constructor. Shape declares the module's children
// (modules, interfaces, parameters); Wire makes internal connections,
// merges and traits once every child module has been shaped and wired.
//
// Implementations are usually small structs that keep the IDs of their
// children between the two phases.
type ModuleType interface {
	TypeTag() string
	Lineage() []string
	Shape(b *Builder, self NodeID) error
	Wire(b *Builder, self NodeID) error
}

type entry struct {
	id NodeID
	t  ModuleType
}

// Builder composes modules into a Graph with a worklist instead of
// recursion. Its methods are no-ops once an error has been recorded; the
// first error is returned from Build and Err.
type Builder struct {
	g *Graph

	// MaxDepth bounds module nesting. Zero means DefaultMaxDepth.
	MaxDepth int

	err     error
	pending []entry
	wiring  bool
}

// NewBuilder returns a builder adding to g, or to a new graph when g is nil.
func NewBuilder(g *Graph) *Builder {
	if g == nil {
		g = New()
	}
	return &Builder{g: g, MaxDepth: DefaultMaxDepth}
}

// Graph returns the graph under construction.
func (b *Builder) Graph() *Graph { return b.g }

// Err returns the first recorded error.
func (b *Builder) Err() error { return b.err }

// Fail records err unless an error is already recorded.
func (b *Builder) Fail(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

// Failf records a composition error at the path of id.
func (b *Builder) Failf(id NodeID, format string, args ...any) {
	b.Fail(perr.New(perr.ErrCodeComposition, format, args...).At(b.g.Path(id)))
}

// Build instantiates t as a root module called name and runs every
// constructor it reaches to completion.
func (b *Builder) Build(name string, t ModuleType) (NodeID, error) {
	id, ok := b.create(NoNode, name, t)
	if !ok {
		return NoNode, b.err
	}
	b.drain(entry{id, t})
	if b.err != nil {
		return NoNode, b.err
	}
	return id, nil
}

// Module instantiates t as a child of parent. During Shape the child is
// queued and shaped after its parent; during Wire it is built immediately.
func (b *Builder) Module(parent NodeID, name string, t ModuleType) NodeID {
	id, ok := b.create(parent, name, t)
	if !ok {
		return NoNode
	}
	if b.wiring {
		b.drain(entry{id, t})
	} else {
		b.pending = append(b.pending, entry{id, t})
	}
	return id
}

func (b *Builder) create(parent NodeID, name string, t ModuleType) (NodeID, bool) {
	if b.err != nil {
		return NoNode, false
	}
	max := b.MaxDepth
	if max <= 0 {
		max = DefaultMaxDepth
	}
	tag := t.TypeTag()
	depth := 1
	for p := parent; p != NoNode; p = b.g.Parent(p) {
		depth++
		if b.g.nodes[p].Type == tag {
			b.Failf(parent, "module type %s nests itself in %q", tag, name)
			return NoNode, false
		}
	}
	if depth > max {
		b.Failf(parent, "module %q exceeds maximum nesting depth %d", name, max)
		return NoNode, false
	}
	id, err := b.g.AddModule(parent, name, tag, t.Lineage()...)
	if err != nil {
		b.Fail(err)
		return NoNode, false
	}
	return id, true
}

// drain shapes root and its queued descendants in preorder, then wires them
// in reverse, so every child is complete before its parent wires.
func (b *Builder) drain(root entry) {
	savedPending, savedWiring := b.pending, b.wiring
	defer func() { b.pending, b.wiring = savedPending, savedWiring }()

	var order []entry
	stack := []entry{root}
	b.wiring = false
	for len(stack) > 0 && b.err == nil {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, e)

		b.pending = nil
		if err := e.t.Shape(b, e.id); err != nil {
			b.Fail(err)
			return
		}
		for i := len(b.pending) - 1; i >= 0; i-- {
			stack = append(stack, b.pending[i])
		}
	}

	b.pending = nil
	b.wiring = true
	for i := len(order) - 1; i >= 0 && b.err == nil; i-- {
		if err := order[i].t.Wire(b, order[i].id); err != nil {
			b.Fail(err)
		}
	}
}

// Interface adds an interface of type t to parent.
func (b *Builder) Interface(parent NodeID, name string, t InterfaceType) NodeID {
	if b.err != nil {
		return NoNode
	}
	id, err := b.g.AddInterface(parent, name, t)
	if err != nil {
		b.Fail(err)
		return NoNode
	}
	return id
}

// Interfaces adds n interfaces named base[0] .. base[n-1].
func (b *Builder) Interfaces(parent NodeID, base string, n int, t InterfaceType) []NodeID {
	out := make([]NodeID, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, b.Interface(parent, fmt.Sprintf("%s[%d]", base, i), t))
	}
	return out
}

// Param adds a parameter with an initial constraint.
func (b *Builder) Param(parent NodeID, name string, c Constraint) NodeID {
	if b.err != nil {
		return NoNode
	}
	id, err := b.g.AddParameter(parent, name, c)
	if err != nil {
		b.Fail(err)
		return NoNode
	}
	return id
}

// Merge narrows a parameter.
func (b *Builder) Merge(param NodeID, c Constraint) {
	if b.err != nil {
		return
	}
	b.Fail(b.g.Merge(param, c))
}

// MergeParam narrows the parameter child called name of module.
func (b *Builder) MergeParam(module NodeID, name string, c Constraint) {
	b.Merge(b.Child(module, name), c)
}

// Connect joins two interfaces.
func (b *Builder) Connect(a, c NodeID) {
	if b.err != nil {
		return
	}
	b.Fail(b.g.Connect(a, c))
}

// ConnectVia threads a two-terminal module between a and c.
func (b *Builder) ConnectVia(a, via, c NodeID) {
	if b.err != nil {
		return
	}
	b.Fail(b.g.ConnectVia(a, via, c))
}

// Attach fills a trait slot.
func (b *Builder) Attach(id NodeID, tr Trait) {
	if b.err != nil {
		return
	}
	b.Fail(b.g.Attach(id, tr))
}

// AttachRouting appends a routing intent.
func (b *Builder) AttachRouting(id NodeID, intent RoutingIntent) {
	if b.err != nil {
		return
	}
	b.Fail(b.g.AttachRouting(id, intent))
}

// AssignNets declares named nets owned by owner.
func (b *Builder) AssignNets(owner NodeID, specs []NetSpec, opts ...NetOptions) []NodeID {
	if b.err != nil {
		return nil
	}
	ids, err := b.g.AssignNets(owner, specs, opts...)
	b.Fail(err)
	return ids
}

// Child resolves a dotted path below id, recording an error when missing.
func (b *Builder) Child(id NodeID, rel string) NodeID {
	if b.err != nil {
		return NoNode
	}
	c, ok := b.g.FindFrom(id, rel)
	if !ok {
		b.Failf(id, "no child %q", rel)
		return NoNode
	}
	return c
}
