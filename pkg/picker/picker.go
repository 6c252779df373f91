// Package picker binds supplier parts to the leaf modules of a design.
//
// A Picker is consulted for every module in preorder. A module it picks is
// not descended into; a module it does not recognise is searched through
// its child modules. Options are matched against the merged parameters of
// the module: the first option whose every parameter intersects the
// module's current constraint wins, and its parameters are merged in.
package picker

import (
	"sort"

	perr "github.com/chazu/pixelcard/pkg/errors"
	"github.com/chazu/pixelcard/pkg/graph"
)

// Supplier names the part catalogue the tables are drawn from.
const Supplier = "LCSC"

// Picker binds a part to a module.
type Picker interface {
	// Pick reports whether the module's type is handled. A handled module
	// with no matching option is an error.
	Pick(g *graph.Graph, module graph.NodeID) (bool, error)
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(g *graph.Graph, module graph.NodeID) (bool, error)

func (f PickerFunc) Pick(g *graph.Graph, module graph.NodeID) (bool, error) { return f(g, module) }

// Part is a catalogue entry.
type Part struct {
	Partno      string
	Description string
	Footprint   string
}

// Option is one candidate part. Params are matched against the module's
// parameters of the same name. Pinmap maps footprint pin numbers to
// interface paths relative to the module.
type Option struct {
	Part   Part
	Params map[string]graph.Constraint
	Pinmap map[string]string
}

// FillUnresolved replaces every TBD parameter below root with ANY and
// returns how many were replaced.
func FillUnresolved(g *graph.Graph, root graph.NodeID) (int, error) {
	n := 0
	for _, id := range g.Descendants(root, graph.KindParameter) {
		c, err := g.MostNarrow(id)
		if err != nil {
			return n, err
		}
		if c.IsResolved() {
			continue
		}
		if err := g.Merge(id, graph.Any()); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// PickRecursively offers root and its descendant modules to p, returning
// the number of modules picked. Modules that already carry a Part are
// kept. A module that is neither picked nor has child modules must carry
// a Footprint; anything else has nothing to place and is an error.
func PickRecursively(g *graph.Graph, root graph.NodeID, p Picker) (int, error) {
	picked := 0
	stack := []graph.NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := g.Node(id)
		if n.Traits.Part != nil {
			continue
		}

		ok, err := p.Pick(g, id)
		if err != nil {
			return picked, err
		}
		if ok {
			picked++
			continue
		}

		children := g.ChildrenOfKind(id, graph.KindModule)
		if len(children) == 0 {
			if n.Traits.Footprint == nil {
				return picked, perr.New(perr.ErrCodeExternalService,
					"no picker for module type %s", n.Type).At(g.Path(id))
			}
			continue
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return picked, nil
}

// PickByParams binds the first compatible option to module. Options are
// tried in order.
func PickByParams(g *graph.Graph, module graph.NodeID, options []Option) error {
	for _, opt := range options {
		if !compatible(g, module, opt.Params) {
			continue
		}
		return bind(g, module, opt)
	}
	return perr.New(perr.ErrCodeExternalService,
		"no %s part matches %s", g.Node(module).Type, describe(g, module)).At(g.Path(module))
}

func compatible(g *graph.Graph, module graph.NodeID, params map[string]graph.Constraint) bool {
	for name, want := range params {
		id, ok := g.Child(module, name)
		if !ok || g.Node(id).Kind != graph.KindParameter {
			return false
		}
		have, err := g.MostNarrow(id)
		if err != nil {
			return false
		}
		if _, ok := have.Intersect(want); !ok {
			return false
		}
	}
	return true
}

func bind(g *graph.Graph, module graph.NodeID, opt Option) error {
	for _, name := range sortedKeys(opt.Params) {
		id, _ := g.Child(module, name)
		if err := g.Merge(id, opt.Params[name]); err != nil {
			return err
		}
	}

	pins := make(map[string]graph.NodeID, len(opt.Pinmap))
	for pin, rel := range opt.Pinmap {
		id, ok := g.FindFrom(module, rel)
		if !ok {
			return perr.New(perr.ErrCodeExternalService,
				"part %s maps pin %s to missing interface %q", opt.Part.Partno, pin, rel).At(g.Path(module))
		}
		pins[pin] = id
	}

	if err := g.Attach(module, graph.Part{
		Supplier:    Supplier,
		Partno:      opt.Part.Partno,
		Description: opt.Part.Description,
		Footprint:   opt.Part.Footprint,
		Pinmap:      pins,
	}); err != nil {
		return err
	}
	return g.Attach(module, graph.Footprint{Name: opt.Part.Footprint})
}

// describe lists the module's parameters for miss messages.
func describe(g *graph.Graph, module graph.NodeID) string {
	s := "{"
	for i, id := range g.ChildrenOfKind(module, graph.KindParameter) {
		if i > 0 {
			s += ", "
		}
		c, _ := g.MostNarrow(id)
		s += g.Node(id).Name + "=" + c.String()
	}
	return s + "}"
}

func sortedKeys(m map[string]graph.Constraint) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
