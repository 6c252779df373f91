package app

import (
	"fmt"

	perr "github.com/chazu/pixelcard/pkg/errors"
	"github.com/chazu/pixelcard/pkg/font"
	"github.com/chazu/pixelcard/pkg/graph"
	"github.com/chazu/pixelcard/pkg/layout"
	"github.com/chazu/pixelcard/pkg/library"
)

const TagLEDText = "LEDText"

// Indoor indicator LED luminous intensity, in candela.
const (
	IndicatorMinBrightness = 10e-3
	IndicatorMaxBrightness = 100e-3
)

// LEDText spells a text with one PoweredLED per covered grid cell. The LED
// count is fixed by the font layout when the module is shaped.
type LEDText struct {
	Text string
	Font *font.Font
	Size font.Size
	Grid font.Grid

	Layout *font.Layout

	power graph.NodeID
	leds  []graph.NodeID
}

func (*LEDText) TypeTag() string   { return TagLEDText }
func (*LEDText) Lineage() []string { return []string{library.TagModule} }

func (t *LEDText) Shape(b *graph.Builder, self graph.NodeID) error {
	l, err := font.NewLayout(t.Font, t.Text, t.Size, t.Grid)
	if err != nil {
		return perr.Wrap(perr.ErrCodeComposition, err, "lay out text %q", t.Text).At(b.Graph().Path(self))
	}
	t.Layout = l

	t.power = library.ElectricPower(b, self, "power")
	t.leds = make([]graph.NodeID, l.Count())
	for i := range t.leds {
		t.leds[i] = b.Module(self, fmt.Sprintf("leds[%d]", i), &library.PoweredLED{})
	}
	return b.Err()
}

// ledLayout places each LED's own parts: the LED on the grid point and its
// resistor alongside.
var ledLayout = layout.Hierarchy{
	{Type: library.TagLED, Rule: layout.Absolute{Point: graph.Point{Rot: 90}}},
	{Type: library.TagResistor, Rule: layout.Absolute{Point: graph.Point{X: 1.1, Y: -0.25, Rot: -90}}},
}

func (t *LEDText) Wire(b *graph.Builder, self graph.NodeID) error {
	for _, led := range t.leds {
		b.Connect(b.Child(led, "power"), t.power)
		d := b.Child(led, "led")
		b.MergeParam(d, library.ParamColor, graph.Enum(library.ColorRed))
		b.MergeParam(d, library.ParamBrightness, graph.Range(IndicatorMinBrightness, IndicatorMaxBrightness))
		b.Attach(led, ledLayout.Trait())
		b.AttachRouting(led, graph.GreedyDirectLine())
	}
	if b.Err() != nil {
		return b.Err()
	}
	if err := t.Layout.Apply(b.Graph(), t.leds...); err != nil {
		return perr.Wrap(perr.ErrCodeComposition, err, "place LEDs").At(b.Graph().Path(self))
	}
	return nil
}

// LEDs returns the PoweredLED modules in layout order.
func (t *LEDText) LEDs() []graph.NodeID { return t.leds }
