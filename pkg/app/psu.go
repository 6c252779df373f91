package app

import (
	"github.com/chazu/pixelcard/pkg/graph"
	"github.com/chazu/pixelcard/pkg/layout"
	"github.com/chazu/pixelcard/pkg/library"
)

const TagUSBC5VPSU = "USB_C_5V_PSU_16p_Receptical"

// ConfigResistance pulls cc1 and cc2 down, advertising a 5 V sink.
const ConfigResistance = 5.1e3

// USBC5VPSU takes 5 V from a USB-C receptacle through a resettable fuse.
type USBC5VPSU struct {
	power, usb, fuse graph.NodeID
	config           [2]graph.NodeID
}

func (*USBC5VPSU) TypeTag() string   { return TagUSBC5VPSU }
func (*USBC5VPSU) Lineage() []string { return []string{library.TagModule} }

func (p *USBC5VPSU) Shape(b *graph.Builder, self graph.NodeID) error {
	p.power = library.ElectricPower(b, self, "power_out")
	p.usb = b.Module(self, "usb", &library.USBTypeCReceptacle16Pin{})
	p.fuse = b.Module(self, "fuse", &library.Fuse{})
	p.config[0] = b.Module(self, "configuration_resistors[0]", &library.FixedResistor{Ohms: ConfigResistance})
	p.config[1] = b.Module(self, "configuration_resistors[1]", &library.FixedResistor{Ohms: ConfigResistance})
	return b.Err()
}

var psuLayout = layout.Hierarchy{
	{Type: library.TagUSBC16, Rule: layout.Absolute{Point: graph.Point{Layer: graph.LayerTop}}},
	{Type: library.TagFuse, Rule: layout.Absolute{Point: graph.Point{X: 4.75, Y: 2.4, Rot: 90, Layer: graph.LayerTop}}},
	{Type: library.TagCapacitor, Rule: layout.Absolute{Point: graph.Point{X: 6, Layer: graph.LayerTop}}},
	{Type: library.TagResistor, Rule: layout.Extrude{
		Base:    graph.Point{X: 4.75, Y: -1.25, Rot: 90, Layer: graph.LayerTop},
		Spacing: graph.Vec2{Y: 2.5},
	}},
}

func (p *USBC5VPSU) Wire(b *graph.Builder, self graph.NodeID) error {
	hv, lv := b.Child(p.power, "hv"), b.Child(p.power, "lv")
	library.Decouple(b, self, p.power)

	b.ConnectVia(b.Child(p.usb, "cc1"), p.config[0], lv)
	b.ConnectVia(b.Child(p.usb, "cc2"), p.config[1], lv)

	b.MergeParam(p.fuse, library.ParamTripCurrent, graph.Constant(1))
	b.MergeParam(p.fuse, library.ParamFuseType, graph.Enum(library.FuseResettable))
	b.MergeParam(p.fuse, library.ParamResponseType, graph.Enum(library.ResponseSlow))
	b.MergeParam(p.power, library.ParamVoltage, graph.Range(4.75, 5.5))

	for i := 0; i < library.USBRailCount; i++ {
		b.ConnectVia(b.Child(p.usb, library.Rail("vbus", i)), p.fuse, hv)
		b.Connect(b.Child(p.usb, library.Rail("gnd", i)), lv)
	}

	b.Attach(self, psuLayout.Trait())
	return b.Err()
}

// PowerOut returns the fused 5 V output.
func (p *USBC5VPSU) PowerOut() graph.NodeID { return p.power }

// USB returns the receptacle module.
func (p *USBC5VPSU) USB() graph.NodeID { return p.usb }
