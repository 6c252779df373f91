package pcb

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	perr "github.com/chazu/pixelcard/pkg/errors"
	"github.com/chazu/pixelcard/pkg/graph"
	"github.com/chazu/pixelcard/pkg/kernel"
	"github.com/chazu/pixelcard/pkg/kernel/sdfx"
	"github.com/chazu/pixelcard/pkg/layout"
	"github.com/chazu/pixelcard/pkg/routing"
)

// Nominal geometry. Pads of a footprint sit on its x axis at PadPitch.
const (
	PadPitch   = 1.0
	PadSize    = 0.6
	TrackWidth = 0.2
	ViaSize    = 0.6
	ViaDrill   = 0.3
)

// Input is the design a board is built from.
type Input struct {
	Graph       *graph.Graph
	Root        graph.NodeID
	Placements  layout.Placements
	Plan        *routing.RoutePlan
	Designators Designators // assigned from Root when nil
	Kernel      kernel.Kernel
}

// Build adds the placed parts of in to a copy of base, with their pads and
// nets, and the tracks and vias the routing plan determines. Entries are
// applied in plan order; each acts only on the pads no earlier entry has
// routed, so advisory entries fill in what the effective ones leave.
func Build(base *Board, in Input) (*Board, error) {
	b := *base
	b.Footprints = append([]Footprint(nil), base.Footprints...)
	b.Tracks = append([]Track(nil), base.Tracks...)
	b.Vias = append([]Via(nil), base.Vias...)
	b.Warnings = append([]string(nil), base.Warnings...)

	g := in.Graph
	if in.Designators == nil {
		in.Designators = AssignDesignators(g, in.Root)
	}

	bld := &builder{g: g, in: in, board: &b, routed: make(map[padRef]bool)}
	if err := bld.footprints(); err != nil {
		return nil, err
	}
	bld.nets = newNetTable(g, b.Footprints, bld.refs)
	for _, r := range bld.refs {
		b.Footprints[r.fp].Pads[r.pad].Net = bld.nets.of(r.iface)
	}
	b.Nets = bld.nets.nets()

	if in.Plan != nil {
		for _, e := range in.Plan.Entries {
			bld.route(e)
		}
	}

	if err := bld.checkOutline(); err != nil {
		return nil, err
	}
	return &b, nil
}

type builder struct {
	g     *graph.Graph
	in    Input
	board *Board
	refs  []padRef
	nets  *netTable

	routed map[padRef]bool
}

func (bl *builder) footprints() error {
	g := bl.g
	return g.Walk(bl.in.Root, func(id graph.NodeID) error {
		n := g.Node(id)
		if n.Kind != graph.KindModule {
			return graph.SkipChildren
		}
		if n.Traits.Footprint == nil {
			return nil
		}
		pl, ok := bl.in.Placements[id]
		if !ok {
			return perr.New(perr.ErrCodePlacement, "part has no placement").At(g.Path(id))
		}
		fp := Footprint{
			Name:      n.Traits.Footprint.Name,
			Path:      g.Path(id),
			Layer:     copperLayer(pl.Absolute.Layer),
			Position:  PositionAngle{Position: Position{pl.Absolute.X, pl.Absolute.Y}, Angle: pl.Absolute.Rot},
			Reference: bl.in.Designators[id],
			Value:     n.Traits.Footprint.Name,
		}
		idx := len(bl.board.Footprints)
		if part := n.Traits.Part; part != nil {
			fp.Value = part.Partno
			pins := sortedPins(part.Pinmap)
			for i, pin := range pins {
				x := (float64(i) - float64(len(pins)-1)/2) * PadPitch
				fp.Pads = append(fp.Pads, Pad{
					Number:   pin,
					Position: Position{X: x},
					Size:     Size{PadSize, PadSize},
				})
				bl.refs = append(bl.refs, padRef{fp: idx, pad: i, iface: part.Pinmap[pin]})
			}
		}
		bl.board.Footprints = append(bl.board.Footprints, fp)
		return nil
	})
}

func copperLayer(l graph.Layer) string {
	if l == graph.LayerBottom {
		return LayerBackCopper
	}
	return LayerFrontCopper
}

// sortedPins orders pin numbers numerically where they are numbers.
func sortedPins(m map[string]graph.NodeID) []string {
	pins := make([]string, 0, len(m))
	for p := range m {
		pins = append(pins, p)
	}
	sort.Slice(pins, func(i, j int) bool {
		a, errA := strconv.Atoi(pins[i])
		b, errB := strconv.Atoi(pins[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return pins[i] < pins[j]
	})
	return pins
}

// padAt returns the board position of a pad.
func (bl *builder) padAt(r padRef) Position {
	fp := bl.board.Footprints[r.fp]
	frame := graph.Point{X: fp.Position.X, Y: fp.Position.Y, Rot: fp.Position.Angle}
	v := frame.Apply(graph.Vec2{X: fp.Pads[r.pad].Position.X, Y: fp.Pads[r.pad].Position.Y})
	return Position{v.X, v.Y}
}

// padsIn returns the unrouted pads whose interface is in scope, in board
// order.
func (bl *builder) padsIn(scope []graph.NodeID) []padRef {
	in := make(map[graph.NodeID]bool, len(scope))
	for _, id := range scope {
		in[id] = true
	}
	var out []padRef
	for _, r := range bl.refs {
		if in[r.iface] && !bl.routed[r] {
			out = append(out, r)
		}
	}
	return out
}

func (bl *builder) route(e routing.Entry) {
	switch e.Intent.Kind {
	case graph.RouteViaToLayer:
		bl.viaToLayer(e)
	case graph.RouteManual:
		bl.manual(e)
	case graph.RouteGreedyDirectLine:
		bl.directLine(e)
	}
}

// viaToLayer drops a via at a fixed offset from each pad in scope and
// joins it to the pad.
func (bl *builder) viaToLayer(e routing.Entry) {
	for _, r := range bl.padsIn(e.Scope) {
		pad := bl.padAt(r)
		at := Position{pad.X + e.Intent.Offset.X, pad.Y + e.Intent.Offset.Y}
		net := bl.board.Footprints[r.fp].Pads[r.pad].Net
		bl.routed[r] = true
		bl.board.Vias = append(bl.board.Vias, Via{
			Position: at,
			Size:     ViaSize,
			Drill:    ViaDrill,
			Layers:   [2]string{LayerFrontCopper, LayerBackCopper},
			Net:      net,
		})
		if e.Intent.Offset != (graph.Vec2{}) {
			bl.board.Tracks = append(bl.board.Tracks, Track{
				Start: pad, End: at, Width: TrackWidth,
				Layer: bl.board.Footprints[r.fp].Layer, Net: net,
			})
		}
	}
}

// manual lays the literal tracks of a manual path, in the frame of the
// module carrying the intent. A path whose pads are all routed already is
// skipped.
func (bl *builder) manual(e routing.Entry) {
	frame, ok := bl.frameOf(e.Target)
	if !ok {
		bl.warn("%s: manual path target is not placed", e.Path)
		return
	}
	for _, p := range e.Intent.Paths {
		pads := bl.padsOf(p.Interface)
		open := len(pads) == 0
		for _, r := range pads {
			if !bl.routed[r] {
				open = true
			}
			bl.routed[r] = true
		}
		if !open {
			continue
		}
		net := bl.nets.of(p.Interface)
		for _, tr := range p.Tracks {
			for i := 1; i < len(tr.Points); i++ {
				a, b := frame.Apply(tr.Points[i-1]), frame.Apply(tr.Points[i])
				bl.board.Tracks = append(bl.board.Tracks, Track{
					Start: Position{a.X, a.Y},
					End:   Position{b.X, b.Y},
					Width: tr.Width,
					Layer: tr.Layer,
					Net:   net,
				})
			}
		}
	}
}

// directLine joins the pads in scope that share a net with straight
// segments, in board order.
func (bl *builder) directLine(e routing.Entry) {
	groups := make(map[graph.NodeID][]padRef)
	var keys []graph.NodeID
	for _, r := range bl.padsIn(e.Scope) {
		k := componentKey(bl.g, r.iface)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r)
	}
	for _, k := range keys {
		pads := groups[k]
		if len(pads) < 2 {
			continue
		}
		for _, r := range pads {
			bl.routed[r] = true
		}
		for i := 1; i < len(pads); i++ {
			bl.board.Tracks = append(bl.board.Tracks, Track{
				Start: bl.padAt(pads[i-1]),
				End:   bl.padAt(pads[i]),
				Width: TrackWidth,
				Layer: bl.board.Footprints[pads[i].fp].Layer,
				Net:   bl.board.Footprints[pads[i].fp].Pads[pads[i].pad].Net,
			})
		}
	}
}

// padsOf returns every pad carrying iface or one of its members.
func (bl *builder) padsOf(iface graph.NodeID) []padRef {
	var out []padRef
	for _, r := range bl.refs {
		if r.iface == iface || bl.isBelow(r.iface, iface) {
			out = append(out, r)
		}
	}
	return out
}

func (bl *builder) isBelow(id, ancestor graph.NodeID) bool {
	for p := bl.g.Parent(id); p != graph.NoNode; p = bl.g.Parent(p) {
		if p == ancestor {
			return true
		}
	}
	return false
}

// frameOf returns the absolute frame of id, or of its nearest placed
// ancestor.
func (bl *builder) frameOf(id graph.NodeID) (graph.Point, bool) {
	for p := id; p != graph.NoNode; p = bl.g.Parent(p) {
		if pl, ok := bl.in.Placements[p]; ok {
			return pl.Absolute, true
		}
	}
	return graph.Point{}, false
}

func (bl *builder) warn(format string, args ...any) {
	bl.board.Warnings = append(bl.board.Warnings, fmt.Sprintf(format, args...))
}

// checkOutline warns about footprints whose origin lies outside the board.
func (bl *builder) checkOutline() error {
	o := bl.board.Outline
	if o.Width <= 0 || o.Height <= 0 {
		return nil
	}
	k := bl.in.Kernel
	if k == nil {
		k = sdfx.New()
	}
	shape, err := k.RoundedRect(o.Width, o.Height, o.CornerRadius)
	if err != nil {
		return perr.Wrap(perr.ErrCodeExternalService, err, "board outline")
	}
	for _, fp := range bl.board.Footprints {
		if !shape.Contains(fp.Position.X, fp.Position.Y) {
			bl.warn("%s (%s) at (%s, %s) lies outside the board outline",
				fp.Reference, fp.Path, num(fp.Position.X), num(fp.Position.Y))
		}
	}
	return nil
}

// num formats a coordinate the way KiCad writes them.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
