package library

import "github.com/chazu/pixelcard/pkg/graph"

const (
	TagDiode      = "Diode"
	TagLED        = "LED"
	TagPoweredLED = "PoweredLED"
)

// LED parameter names.
const (
	ParamColor          = "color"
	ParamBrightness     = "brightness"
	ParamMaxBrightness  = "max_brightness"
	ParamForwardVoltage = "forward_voltage"
	ParamMaxCurrent     = "max_current"
)

// LED colours.
const (
	ColorRed   = "RED"
	ColorGreen = "GREEN"
	ColorBlue  = "BLUE"
)

// LED is a light-emitting diode with anode and cathode terminals.
type LED struct{}

func (*LED) TypeTag() string   { return TagLED }
func (*LED) Lineage() []string { return []string{TagDiode, TagModule} }

func (*LED) Shape(b *graph.Builder, self graph.NodeID) error {
	b.Interface(self, "anode", Electrical)
	b.Interface(self, "cathode", Electrical)
	for _, p := range []string{ParamColor, ParamBrightness, ParamMaxBrightness, ParamForwardVoltage, ParamMaxCurrent} {
		b.Param(self, p, graph.TBD())
	}
	b.Attach(self, graph.DesignatorPrefix{Prefix: "D"})
	return b.Err()
}

func (*LED) Wire(*graph.Builder, graph.NodeID) error { return nil }

// PoweredLED is an LED in series with its current-limiting resistor,
// driven from a power interface: hv to the anode, the cathode through the
// resistor to lv.
type PoweredLED struct {
	power, led, resistor graph.NodeID
}

func (*PoweredLED) TypeTag() string   { return TagPoweredLED }
func (*PoweredLED) Lineage() []string { return []string{TagModule} }

func (p *PoweredLED) Shape(b *graph.Builder, self graph.NodeID) error {
	p.power = ElectricPower(b, self, "power")
	p.led = b.Module(self, "led", &LED{})
	p.resistor = b.Module(self, "current_limiting_resistor", &Resistor{})
	return b.Err()
}

func (p *PoweredLED) Wire(b *graph.Builder, self graph.NodeID) error {
	b.Connect(b.Child(p.power, "hv"), b.Child(p.led, "anode"))
	b.ConnectVia(b.Child(p.led, "cathode"), p.resistor, b.Child(p.power, "lv"))
	return b.Err()
}
