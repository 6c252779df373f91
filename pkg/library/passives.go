package library

import "github.com/chazu/pixelcard/pkg/graph"

// Module type tags.
const (
	TagModule    = "Module"
	TagResistor  = "Resistor"
	TagCapacitor = "Capacitor"
	TagFuse      = "Fuse"
)

// Parameter names.
const (
	ParamResistance   = "resistance"
	ParamRatedPower   = "rated_power"
	ParamRatedVoltage = "rated_voltage"

	ParamCapacitance = "capacitance"
	ParamTempCoeff   = "temperature_coefficient"

	ParamFuseType     = "fuse_type"
	ParamResponseType = "response_type"
	ParamTripCurrent  = "trip_current"
)

// Fuse parameter values.
const (
	FuseResettable    = "RESETTABLE"
	FuseNonResettable = "NON_RESETTABLE"
	ResponseSlow      = "SLOW"
	ResponseFast      = "FAST"
)

// Capacitor dielectric classes.
const (
	TempCoeffX7R = "X7R"
	TempCoeffX5R = "X5R"
	TempCoeffC0G = "C0G"
)

// leaf provides the no-op wiring of modules with no internal connections.
type leaf struct{}

func (leaf) Lineage() []string { return []string{TagModule} }
func (leaf) Wire(*graph.Builder, graph.NodeID) error { return nil }

// twoTerminal declares unnamed[0] and unnamed[1], the terminals used by
// graph.ConnectVia.
func twoTerminal(b *graph.Builder, self graph.NodeID) {
	b.Interfaces(self, "unnamed", 2, Electrical)
}

// Resistor is a two-terminal resistor.
type Resistor struct{ leaf }

func (*Resistor) TypeTag() string { return TagResistor }

func (*Resistor) Shape(b *graph.Builder, self graph.NodeID) error {
	twoTerminal(b, self)
	b.Param(self, ParamResistance, graph.TBD())
	b.Param(self, ParamRatedPower, graph.TBD())
	b.Param(self, ParamRatedVoltage, graph.TBD())
	b.Attach(self, graph.DesignatorPrefix{Prefix: "R"})
	return b.Err()
}

// FixedResistor is a Resistor whose resistance is merged on construction.
type FixedResistor struct {
	Resistor
	Ohms float64
}

func (r *FixedResistor) Shape(b *graph.Builder, self graph.NodeID) error {
	if err := r.Resistor.Shape(b, self); err != nil {
		return err
	}
	b.MergeParam(self, ParamResistance, graph.Constant(r.Ohms))
	return b.Err()
}

// Capacitor is a two-terminal capacitor.
type Capacitor struct{ leaf }

func (*Capacitor) TypeTag() string { return TagCapacitor }

func (*Capacitor) Shape(b *graph.Builder, self graph.NodeID) error {
	twoTerminal(b, self)
	b.Param(self, ParamCapacitance, graph.TBD())
	b.Param(self, ParamRatedVoltage, graph.TBD())
	b.Param(self, ParamTempCoeff, graph.TBD())
	b.Attach(self, graph.DesignatorPrefix{Prefix: "C"})
	return b.Err()
}

// Fuse is a two-terminal fuse.
type Fuse struct{ leaf }

func (*Fuse) TypeTag() string { return TagFuse }

func (*Fuse) Shape(b *graph.Builder, self graph.NodeID) error {
	twoTerminal(b, self)
	b.Param(self, ParamFuseType, graph.TBD())
	b.Param(self, ParamResponseType, graph.TBD())
	b.Param(self, ParamTripCurrent, graph.TBD())
	b.Attach(self, graph.DesignatorPrefix{Prefix: "F"})
	return b.Err()
}

// Decouple places a capacitor across a power interface and marks the
// interface as decoupled. The capacitor is a sibling of the interface,
// named <power>_capacitor, with unnamed[0] on hv. It must be called while
// wiring, when the capacitor can be built immediately.
func Decouple(b *graph.Builder, owner, power graph.NodeID) graph.NodeID {
	g := b.Graph()
	c := b.Module(owner, g.Node(power).Name+"_capacitor", &Capacitor{})
	b.ConnectVia(b.Child(power, "hv"), c, b.Child(power, "lv"))
	b.Attach(power, graph.Decoupled{Capacitor: c})
	return c
}
