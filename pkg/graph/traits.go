package graph

import "fmt"

// TraitKind enumerates the closed set of capability slots a node can carry.
type TraitKind int

const (
	TraitFootprint        TraitKind = iota // defined footprint
	TraitPosition                          // defined PCB position
	TraitLayout                            // defined PCB layout for children
	TraitRouting                           // routing strategy
	TraitOverriddenName                    // user-assigned name
	TraitDecoupled                         // decoupling capacitor attached
	TraitDesignatorPrefix                  // reference designator prefix
	TraitPart                              // bound supplier part
)

func (k TraitKind) String() string {
	switch k {
	case TraitFootprint:
		return "footprint"
	case TraitPosition:
		return "pcb-position"
	case TraitLayout:
		return "pcb-layout"
	case TraitRouting:
		return "routing-strategy"
	case TraitOverriddenName:
		return "overridden-name"
	case TraitDecoupled:
		return "decoupled"
	case TraitDesignatorPrefix:
		return "designator-prefix"
	case TraitPart:
		return "part"
	default:
		return fmt.Sprintf("TraitKind(%d)", int(k))
	}
}

// ercRelevant marks slots whose silent replacement would change what the
// electrical checks and the picker see.
func (k TraitKind) ercRelevant() bool {
	return k == TraitFootprint || k == TraitDecoupled || k == TraitPart
}

// Trait is a capability payload. Implementations are restricted to this
// package.
type Trait interface {
	Kind() TraitKind
	trait()
}

// Footprint names the land pattern used for a module.
type Footprint struct {
	Name string `json:"name" yaml:"name"`
}

func (Footprint) Kind() TraitKind { return TraitFootprint }
func (Footprint) trait()          {}

// Position places a node relative to its parent's frame.
type Position struct {
	Point Point `json:"point" yaml:"point"`
}

func (Position) Kind() TraitKind { return TraitPosition }
func (Position) trait()          {}

// LayoutRule is a layout description attached to a module. The layout
// package provides the implementation.
type LayoutRule interface {
	String() string
}

// Layout attaches a layout rule that places the node's children.
type Layout struct {
	Rule LayoutRule
}

func (Layout) Kind() TraitKind { return TraitLayout }
func (Layout) trait()          {}

// OverriddenName carries a user-assigned name. On nets it is immutable.
type OverriddenName struct {
	Name string `json:"name" yaml:"name"`
}

func (OverriddenName) Kind() TraitKind { return TraitOverriddenName }
func (OverriddenName) trait()          {}

// Decoupled records the capacitor decoupling a power interface.
type Decoupled struct {
	Capacitor NodeID
}

func (Decoupled) Kind() TraitKind { return TraitDecoupled }
func (Decoupled) trait()          {}

// DesignatorPrefix sets the reference designator prefix (R, C, D, ...).
type DesignatorPrefix struct {
	Prefix string `json:"prefix" yaml:"prefix"`
}

func (DesignatorPrefix) Kind() TraitKind { return TraitDesignatorPrefix }
func (DesignatorPrefix) trait()          {}

// Part is the supplier part bound by the picker. Pinmap maps footprint pin
// numbers to interface nodes.
type Part struct {
	Supplier    string            `json:"supplier" yaml:"supplier"`
	Partno      string            `json:"partno" yaml:"partno"`
	Description string            `json:"description" yaml:"description"`
	Footprint   string            `json:"footprint" yaml:"footprint"`
	Pinmap      map[string]NodeID `json:"-" yaml:"-"`
}

func (Part) Kind() TraitKind { return TraitPart }
func (Part) trait()          {}

// Routing holds the routing intents declared on a node, in declaration
// order. It is a single slot; AttachRouting appends to it.
type Routing struct {
	Intents []RoutingIntent
}

func (Routing) Kind() TraitKind { return TraitRouting }
func (Routing) trait()          {}

// Traits is the per-node set of capability slots. A nil field means the
// capability is absent.
type Traits struct {
	Footprint        *Footprint
	Position         *Position
	Layout           *Layout
	Routing          *Routing
	OverriddenName   *OverriddenName
	Decoupled        *Decoupled
	DesignatorPrefix *DesignatorPrefix
	Part             *Part
}

// Has reports whether the slot for kind is filled.
func (t *Traits) Has(kind TraitKind) bool {
	switch kind {
	case TraitFootprint:
		return t.Footprint != nil
	case TraitPosition:
		return t.Position != nil
	case TraitLayout:
		return t.Layout != nil
	case TraitRouting:
		return t.Routing != nil
	case TraitOverriddenName:
		return t.OverriddenName != nil
	case TraitDecoupled:
		return t.Decoupled != nil
	case TraitDesignatorPrefix:
		return t.DesignatorPrefix != nil
	case TraitPart:
		return t.Part != nil
	}
	return false
}

// set fills the slot for tr and reports whether a value was replaced.
func (t *Traits) set(tr Trait) bool {
	replaced := t.Has(tr.Kind())
	switch v := tr.(type) {
	case Footprint:
		t.Footprint = &v
	case Position:
		t.Position = &v
	case Layout:
		t.Layout = &v
	case Routing:
		t.Routing = &v
	case OverriddenName:
		t.OverriddenName = &v
	case Decoupled:
		t.Decoupled = &v
	case DesignatorPrefix:
		t.DesignatorPrefix = &v
	case Part:
		t.Part = &v
	}
	return replaced
}
