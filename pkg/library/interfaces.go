package library

import "github.com/chazu/pixelcard/pkg/graph"

// Interface type tags.
const (
	TagElectrical       = "Electrical"
	TagElectricPower    = "ElectricPower"
	TagDifferentialPair = "DifferentialPair"
)

// Electrical is a single conductor.
var Electrical = graph.Electrical

// ElectricPowerType is a supply rail pair: hv (high) and lv (low).
var ElectricPowerType = graph.InterfaceType{
	Tag: TagElectricPower,
	Members: []graph.Member{
		{Name: "hv", Type: Electrical},
		{Name: "lv", Type: Electrical},
	},
}

// DifferentialPairType is a p/n signal pair.
var DifferentialPairType = graph.InterfaceType{
	Tag: TagDifferentialPair,
	Members: []graph.Member{
		{Name: "p", Type: Electrical},
		{Name: "n", Type: Electrical},
	},
}

// ParamVoltage is the voltage parameter of an ElectricPower interface.
const ParamVoltage = "voltage"

// ElectricPower adds a power interface with its voltage parameter.
func ElectricPower(b *graph.Builder, parent graph.NodeID, name string) graph.NodeID {
	id := b.Interface(parent, name, ElectricPowerType)
	if id.Valid() {
		b.Param(id, ParamVoltage, graph.TBD())
	}
	return id
}

// DifferentialPair adds a differential pair interface.
func DifferentialPair(b *graph.Builder, parent graph.NodeID, name string) graph.NodeID {
	return b.Interface(parent, name, DifferentialPairType)
}
