package app

import (
	"github.com/chazu/pixelcard/pkg/font"
	"github.com/chazu/pixelcard/pkg/graph"
	"github.com/chazu/pixelcard/pkg/kernel"
	"github.com/chazu/pixelcard/pkg/library"
)

const TagPixelCard = "PixelCard"

// Net names declared by the card.
const (
	NetVBUS = "vbus"
	NetGND  = "gnd"
)

// PixelCard is the top-level module: the LED text, its USB-C supply and
// the logo.
type PixelCard struct {
	Options Options

	Text *LEDText
	PSU  *USBC5VPSU

	self, text, psu, logo graph.NodeID
	nets                  []graph.NodeID
}

// NewPixelCard returns the card module for opts.
func NewPixelCard(opts Options) *PixelCard {
	w, h := opts.TextBox()
	return &PixelCard{
		Options: opts,
		Text: &LEDText{
			Text: opts.Text,
			Font: opts.Font,
			Size: font.Size{
				FontSize:   opts.FontSize,
				BBox:       kernel.Vec{X: w, Y: h},
				ScaleToFit: opts.ScaleToFit,
			},
			Grid: font.Grid{Density: opts.Density},
		},
		PSU: &USBC5VPSU{},
	}
}

// Compose builds the card as a root module called name.
func Compose(name string, opts Options) (*graph.Graph, *PixelCard, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	card := NewPixelCard(opts)
	b := graph.NewBuilder(nil)
	if _, err := b.Build(name, card); err != nil {
		return nil, nil, err
	}
	return b.Graph(), card, nil
}

func (*PixelCard) TypeTag() string   { return TagPixelCard }
func (*PixelCard) Lineage() []string { return []string{library.TagModule} }

func (c *PixelCard) Shape(b *graph.Builder, self graph.NodeID) error {
	c.self = self
	c.text = b.Module(self, "text", c.Text)
	c.psu = b.Module(self, "usb_psu", c.PSU)
	c.logo = b.Module(self, "faebryk_logo", &library.FaebrykLogo{})
	return b.Err()
}

func (c *PixelCard) Wire(b *graph.Builder, self graph.NodeID) error {
	power := c.PSU.PowerOut()
	c.nets = b.AssignNets(self, []graph.NetSpec{
		{Name: NetVBUS, Interface: b.Child(power, "hv")},
		{Name: NetGND, Interface: b.Child(power, "lv")},
	})
	b.Connect(b.Child(c.text, "power"), power)
	return b.Err()
}

// Root returns the card's module node.
func (c *PixelCard) Root() graph.NodeID { return c.self }

// Offset is where the text origin lands on the board.
func (c *PixelCard) Offset() graph.Vec2 {
	return graph.Vec2{X: c.Options.Margin, Y: c.Options.Margin}
}
