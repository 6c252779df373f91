// Package pcb projects a placed and routed design onto a KiCad board.
//
// A Board is built in two steps. The board script fills in the outline,
// silkscreen zones and texts; Build then adds a footprint per placed part
// together with the tracks and vias the routing plan fully determines.
// A Transformer writes the result.
package pcb

import "context"

// Layer names.
const (
	LayerFrontCopper = "F.Cu"
	LayerBackCopper  = "B.Cu"
	LayerFrontSilk   = "F.SilkS"
	LayerBackSilk    = "B.SilkS"
	LayerFrontFab    = "F.Fab"
	LayerEdgeCuts    = "Edge.Cuts"
)

// Position is a board coordinate in mm, y pointing down.
type Position struct {
	X float64
	Y float64
}

// PositionAngle is a position with a rotation in degrees.
type PositionAngle struct {
	Position
	Angle float64
}

// Size represents dimensions.
type Size struct {
	Width  float64
	Height float64
}

// Font is a text style.
type Font struct {
	Face      string // empty selects the KiCad default font
	Size      Size
	Thickness float64
	Bold      bool
}

// Net is an electrical net. Net 0 is the unconnected net.
type Net struct {
	Number int
	Name   string
}

// Outline is a rectangular board edge with rounded corners. The top left
// corner is the origin.
type Outline struct {
	Width        float64
	Height       float64
	CornerRadius float64
}

// Footprint is a placed part.
type Footprint struct {
	Name      string // library:footprint
	Path      string // design path of the module
	Layer     string
	Position  PositionAngle
	Reference string
	Value     string
	Pads      []Pad
}

// Pad is a footprint pad. Position is relative to the footprint origin.
type Pad struct {
	Number   string
	Position Position
	Size     Size
	Net      Net
}

// Text is a free board text.
type Text struct {
	Text   string
	At     PositionAngle
	Layer  string
	Font   Font
	Mirror bool
}

// Zone is a filled polygon.
type Zone struct {
	Net     int
	NetName string
	Layer   string
	Name    string
	Outline []Position
}

// Track is a copper segment.
type Track struct {
	Start Position
	End   Position
	Width float64
	Layer string
	Net   Net
}

// Via is a plated hole joining two copper layers.
type Via struct {
	Position Position
	Size     float64
	Drill    float64
	Layers   [2]string
	Net      Net
}

// ReferenceStyle sets where reference designators sit on their footprints.
type ReferenceStyle struct {
	At   Position
	Font Font
}

// Board is a complete KiCad board.
type Board struct {
	Outline    Outline
	Reference  ReferenceStyle
	Nets       []Net
	Footprints []Footprint
	Zones      []Zone
	Texts      []Text
	Tracks     []Track
	Vias       []Via

	// Warnings are non-fatal findings from Build.
	Warnings []string
}

// NewBoard returns an empty board with the default reference style.
func NewBoard() *Board {
	return &Board{
		Reference: ReferenceStyle{Font: Font{Size: Size{1, 1}, Thickness: 0.15}},
	}
}

// GetNet returns a net by name, or nil if not found.
func (b *Board) GetNet(name string) *Net {
	for i := range b.Nets {
		if b.Nets[i].Name == name {
			return &b.Nets[i]
		}
	}
	return nil
}

// GetNetTracks returns all tracks connected to a specific net.
func (b *Board) GetNetTracks(name string) []Track {
	var out []Track
	for _, t := range b.Tracks {
		if t.Net.Name == name {
			out = append(out, t)
		}
	}
	return out
}

// GetNetVias returns all vias connected to a specific net.
func (b *Board) GetNetVias(name string) []Via {
	var out []Via
	for _, v := range b.Vias {
		if v.Net.Name == name {
			out = append(out, v)
		}
	}
	return out
}

// Footprint returns the footprint of the module at path.
func (b *Board) Footprint(path string) (*Footprint, bool) {
	for i := range b.Footprints {
		if b.Footprints[i].Path == path {
			return &b.Footprints[i], true
		}
	}
	return nil, false
}

// Transformer writes a board somewhere.
type Transformer interface {
	Transform(ctx context.Context, b *Board) error
}
