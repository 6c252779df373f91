package library

import (
	"fmt"

	"github.com/chazu/pixelcard/pkg/graph"
)

// TagUSBC16 is the 16-pin USB Type-C receptacle.
const TagUSBC16 = "USB_Type_C_Receptacle_16_pin"

// USBRailCount is the number of gnd and vbus pins of the receptacle.
const USBRailCount = 4

// USBTypeCReceptacle16Pin is a USB 2.0 Type-C receptacle: both data pairs,
// the configuration and sideband pins, the shield and four pins each of
// ground and bus power.
type USBTypeCReceptacle16Pin struct{ leaf }

func (*USBTypeCReceptacle16Pin) TypeTag() string { return TagUSBC16 }

func (*USBTypeCReceptacle16Pin) Shape(b *graph.Builder, self graph.NodeID) error {
	for _, n := range []string{"cc1", "cc2", "sbu1", "sbu2", "shield"} {
		b.Interface(self, n, Electrical)
	}
	b.Interfaces(self, "gnd", USBRailCount, Electrical)
	b.Interfaces(self, "vbus", USBRailCount, Electrical)
	DifferentialPair(b, self, "d1")
	DifferentialPair(b, self, "d2")
	b.Attach(self, graph.DesignatorPrefix{Prefix: "P"})
	return b.Err()
}

// Rail returns the i-th pin of a gnd or vbus rail.
func Rail(name string, i int) string { return fmt.Sprintf("%s[%d]", name, i) }
