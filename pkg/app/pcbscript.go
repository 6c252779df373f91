package app

import (
	"strings"

	perr "github.com/chazu/pixelcard/pkg/errors"
	"github.com/chazu/pixelcard/pkg/graph"
	"github.com/chazu/pixelcard/pkg/kernel"
	"github.com/chazu/pixelcard/pkg/layout"
	"github.com/chazu/pixelcard/pkg/library"
	"github.com/chazu/pixelcard/pkg/pcb"
)

// Silkscreen text settings.
const (
	ContactSize      = 2.0
	ContactThickness = 0.1
	ContactPitch     = 5.0
	TextZoneNetName  = "Text"
	TextZoneName     = "Text_polygon"
)

// Routing intents of the card.
var (
	VBUSVia     = graph.ViaToLayer(pcb.LayerBackCopper, graph.Vec2{X: 0.8, Y: 0.3})
	GNDVia      = graph.ViaToLayer(pcb.LayerFrontCopper, graph.Vec2{X: 0.5, Y: 0.5}).WithPriority(1.0)
	DecoupleVia = graph.ViaToLayer(pcb.LayerBackCopper, graph.Vec2{Y: -1})

	USBVBUSTrack = graph.Track{
		Width: 0.1,
		Layer: pcb.LayerFrontCopper,
		Points: []graph.Vec2{
			{X: -2.5, Y: -2.5}, // vbus[0]
			{X: -1.5, Y: -1},
			{X: 0, Y: -1},
			{X: 1.5, Y: -1},
			{X: 2.5, Y: -2.5}, // vbus[1]
		},
	}
)

// TransformPCB is the card's board script. It draws the outline, the text
// artwork and the contact lines onto board, declares the routing intents
// and attaches the board-level layout to the card.
func TransformPCB(g *graph.Graph, card *PixelCard, board *pcb.Board) error {
	opts := card.Options
	root := card.Root()
	board.Outline = pcb.Outline{Width: opts.Width, Height: opts.Height, CornerRadius: opts.CornerRadius}

	off := card.Offset()
	polys := card.Text.Layout.Polygons()
	for _, p := range polys {
		z := pcb.Zone{Net: 0, NetName: TextZoneNetName, Layer: pcb.LayerFrontSilk, Name: TextZoneName}
		for _, v := range p.Translate(off.X, off.Y) {
			z.Outline = append(z.Outline, pcb.Position{X: v.X, Y: v.Y})
		}
		board.Zones = append(board.Zones, z)
	}
	textHeight := TextHeight(polys, off)

	board.Reference = pcb.ReferenceStyle{
		At:   pcb.Position{X: 2.25},
		Font: pcb.Font{Size: pcb.Size{Width: 0.5, Height: 0.5}, Thickness: 0.1},
	}
	board.Texts = append(board.Texts, ContactTexts(opts)...)

	vbus, ok := g.NetByName(NetVBUS)
	gnd, ok2 := g.NetByName(NetGND)
	if !ok || !ok2 {
		return perr.New(perr.ErrCodeComposition, "card declares no %s/%s nets", NetVBUS, NetGND).At(g.Path(root))
	}
	if err := g.AttachRouting(vbus, VBUSVia); err != nil {
		return err
	}
	if err := g.AttachRouting(gnd, GNDVia); err != nil {
		return err
	}

	usb := card.PSU.USB()
	vbus0, ok := g.FindFrom(usb, library.Rail("vbus", 0))
	if !ok {
		return perr.New(perr.ErrCodeComposition, "receptacle has no vbus pins").At(g.Path(usb))
	}
	if err := g.AttachRouting(usb, graph.ManualRoute(graph.ManualPath{
		Interface: vbus0,
		Tracks:    []graph.Track{USBVBUSTrack},
	})); err != nil {
		return err
	}

	if c, ok := g.FirstOfType(card.psu, library.TagCapacitor); ok {
		if t, ok := g.Child(c, graph.TerminalA); ok {
			if err := g.AttachRouting(t, DecoupleVia); err != nil {
				return err
			}
		}
	}

	if err := g.Attach(root, BoardLayout(opts, textHeight).Trait()); err != nil {
		return err
	}
	return g.Attach(root, graph.Position{Point: graph.Point{Layer: graph.LayerTop}})
}

// TextHeight is the board y of the lowest text point. A card without text
// starts below the margin.
func TextHeight(polys []kernel.Polygon, off graph.Vec2) float64 {
	_, max, ok := kernel.BoundsAll(polys)
	if !ok {
		return off.Y
	}
	return max.Y + off.Y
}

// BoardLayout places the text at the margin and centres the supply and the
// logo in the band below the text.
func BoardLayout(opts Options, textHeight float64) layout.Hierarchy {
	y := textHeight + (opts.Height-textHeight)/2
	return layout.Hierarchy{
		{Type: TagLEDText, Rule: layout.Absolute{Point: graph.Point{X: opts.Margin, Y: opts.Margin}}},
		{Type: TagUSBC5VPSU, Rule: layout.Absolute{Point: graph.Point{X: opts.Width - 4.5, Y: y, Rot: 90}}},
		{Type: library.TagLogo, Rule: layout.Absolute{Point: graph.Point{X: opts.Width / 2, Y: y}}},
	}
}

// ContactTexts lays the contact lines on the back silkscreen, one per
// literal "\n" or newline.
func ContactTexts(opts Options) []pcb.Text {
	if opts.Contact == "" {
		return nil
	}
	face, bold := "", false
	if opts.Font != nil {
		face = opts.Font.Name
		if opts.Font.IsBold() {
			face, _, _ = strings.Cut(face, "-Bold")
			bold = true
		}
	}
	lines := strings.Split(strings.ReplaceAll(opts.Contact, "\n", `\n`), `\n`)
	out := make([]pcb.Text, 0, len(lines))
	for i, line := range lines {
		out = append(out, pcb.Text{
			Text:  line,
			At:    pcb.PositionAngle{Position: pcb.Position{X: opts.Width / 3, Y: opts.Height/3 + float64(i)*ContactPitch}},
			Layer: pcb.LayerBackSilk,
			Font: pcb.Font{
				Face:      face,
				Size:      pcb.Size{Width: ContactSize, Height: ContactSize},
				Thickness: ContactThickness,
				Bold:      bold,
			},
			Mirror: true,
		})
	}
	return out
}
