package picker

import (
	"fmt"

	"github.com/chazu/pixelcard/pkg/graph"
	"github.com/chazu/pixelcard/pkg/library"
)

// Footprints of the catalogue parts.
const (
	FootprintR0402    = "Resistor_SMD:R_0402_1005Metric"
	FootprintC0402    = "Capacitor_SMD:C_0402_1005Metric"
	FootprintC0603    = "Capacitor_SMD:C_0603_1608Metric"
	FootprintLED0603  = "LED_SMD:LED_0603_1608Metric"
	FootprintLED0805  = "LED_SMD:LED_0805_2012Metric"
	FootprintFuse0805 = "Fuse:Fuse_0805_2012Metric"
	FootprintUSBC16   = "Connector_USB:USB_C_Receptacle_HRO_TYPE-C-31-M-12"
)

var twoTerminalPins = map[string]string{
	"1": graph.TerminalA,
	"2": graph.TerminalB,
}

func resistor(partno string, ohms float64, label string) Option {
	return Option{
		Part: Part{
			Partno:      partno,
			Description: fmt.Sprintf("%s 1%% 0402 resistor", label),
			Footprint:   FootprintR0402,
		},
		Params: map[string]graph.Constraint{library.ParamResistance: graph.Constant(ohms)},
		Pinmap: twoTerminalPins,
	}
}

// Resistors are 1% 0402 parts.
var Resistors = []Option{
	resistor("C25076", 100, "100Ω"),
	resistor("C25087", 200, "200Ω"),
	resistor("C11702", 1e3, "1kΩ"),
	resistor("C25879", 2.2e3, "2.2kΩ"),
	resistor("C25900", 4.7e3, "4.7kΩ"),
	resistor("C25905", 5.1e3, "5.1kΩ"),
	resistor("C25917", 6.8e3, "6.8kΩ"),
	resistor("C25744", 10e3, "10kΩ"),
	resistor("C25752", 12e3, "12kΩ"),
	resistor("C25771", 27e3, "27kΩ"),
	resistor("C25741", 100e3, "100kΩ"),
	resistor("C25782", 390e3, "390kΩ"),
	resistor("C25790", 470e3, "470kΩ"),
}

var ledPins = map[string]string{"1": "cathode", "2": "anode"}

func led(partno, color, footprint string, maxBrightness, vf, maxCurrent float64) Option {
	return Option{
		Part: Part{
			Partno:      partno,
			Description: fmt.Sprintf("%s LED %gV", color, vf),
			Footprint:   footprint,
		},
		Params: map[string]graph.Constraint{
			library.ParamColor:          graph.Enum(color),
			library.ParamMaxBrightness:  graph.Constant(maxBrightness),
			library.ParamForwardVoltage: graph.Constant(vf),
			library.ParamMaxCurrent:     graph.Constant(maxCurrent),
		},
		Pinmap: ledPins,
	}
}

// LEDs by colour.
var LEDs = []Option{
	led("C965790", library.ColorRed, FootprintLED0603, 300e-3, 2.1, 20e-3),
	led("C2286", library.ColorGreen, FootprintLED0805, 285e-3, 3.7, 100e-3),
	led("C72041", library.ColorBlue, FootprintLED0603, 28.5e-3, 3.1, 100e-3),
}

// Capacitors prefer 0402 where the value allows it.
var Capacitors = []Option{
	{
		Part: Part{Partno: "C1525", Description: "100nF 16V X7R 0402 capacitor", Footprint: FootprintC0402},
		Params: map[string]graph.Constraint{
			library.ParamTempCoeff:    graph.Enum(library.TempCoeffX7R),
			library.ParamCapacitance:  graph.Constant(100e-9),
			library.ParamRatedVoltage: graph.Constant(16),
		},
		Pinmap: twoTerminalPins,
	},
	{
		Part: Part{Partno: "C19702", Description: "10uF 10V X5R 0603 capacitor", Footprint: FootprintC0603},
		Params: map[string]graph.Constraint{
			library.ParamTempCoeff:    graph.Enum(library.TempCoeffX5R),
			library.ParamCapacitance:  graph.Constant(10e-6),
			library.ParamRatedVoltage: graph.Constant(10),
		},
		Pinmap: twoTerminalPins,
	},
}

func fuse(partno string, trip float64) Option {
	return Option{
		Part: Part{
			Partno:      partno,
			Description: fmt.Sprintf("%gA resettable slow fuse", trip),
			Footprint:   FootprintFuse0805,
		},
		Params: map[string]graph.Constraint{
			library.ParamFuseType:     graph.Enum(library.FuseResettable),
			library.ParamResponseType: graph.Enum(library.ResponseSlow),
			library.ParamTripCurrent:  graph.Constant(trip),
		},
		Pinmap: twoTerminalPins,
	}
}

// Fuses are resettable slow-blow parts.
var Fuses = []Option{
	fuse("C914087", 1),
	fuse("C914085", 0.5),
}

// USBReceptacles maps the 16-pin receptacle. Pins 13 and 14 are the two
// shield tabs.
var USBReceptacles = []Option{
	{
		Part: Part{Partno: "C2765186", Description: "USB Type-C 16-pin receptacle", Footprint: FootprintUSBC16},
		Pinmap: map[string]string{
			"1":  library.Rail("gnd", 0),
			"2":  library.Rail("vbus", 0),
			"3":  "sbu2",
			"4":  "cc1",
			"5":  "d2.n",
			"6":  "d1.p",
			"7":  "d1.n",
			"8":  "d2.p",
			"9":  "cc2",
			"10": "sbu1",
			"11": library.Rail("vbus", 3),
			"12": library.Rail("gnd", 3),
			"13": "shield",
			"14": "shield",
		},
	},
}

// LCSC picks from the built-in LCSC tables by module type.
type LCSC struct{}

// Options returns the option table for a module type, or nil when the
// type has none.
func (LCSC) Options(tag string) []Option {
	switch tag {
	case library.TagResistor:
		return Resistors
	case library.TagLED:
		return LEDs
	case library.TagCapacitor:
		return Capacitors
	case library.TagFuse:
		return Fuses
	case library.TagUSBC16:
		return USBReceptacles
	}
	return nil
}

func (l LCSC) Pick(g *graph.Graph, module graph.NodeID) (bool, error) {
	opts := l.Options(g.Node(module).Type)
	if opts == nil {
		return false, nil
	}
	return true, PickByParams(g, module, opts)
}
