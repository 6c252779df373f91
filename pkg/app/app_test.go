package app

import (
	"math"
	"testing"

	"github.com/chazu/pixelcard/pkg/font"
	"github.com/chazu/pixelcard/pkg/graph"
	"github.com/chazu/pixelcard/pkg/layout"
	"github.com/chazu/pixelcard/pkg/library"
	"github.com/chazu/pixelcard/pkg/pcb"
	"github.com/chazu/pixelcard/pkg/picker"
	"github.com/chazu/pixelcard/pkg/routing"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Text = "HI"
	return opts
}

func compose(t *testing.T, opts Options) (*graph.Graph, *PixelCard) {
	t.Helper()
	g, card, err := Compose("app", opts)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	return g, card
}

func mustFind(t *testing.T, g *graph.Graph, path string) graph.NodeID {
	t.Helper()
	id, ok := g.Find(path)
	if !ok {
		t.Fatalf("missing %s", path)
	}
	return id
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestComposeCard(t *testing.T) {
	g, card := compose(t, testOptions())

	n := card.Text.Layout.Count()
	if n <= 0 {
		t.Fatalf("layout count = %d", n)
	}
	if got := len(card.Text.LEDs()); got != n {
		t.Errorf("LEDs = %d, want %d", got, n)
	}

	vbus, ok := g.NetByName(NetVBUS)
	if !ok {
		t.Fatal("no vbus net")
	}
	gnd, ok := g.NetByName(NetGND)
	if !ok {
		t.Fatal("no gnd net")
	}

	anode := mustFind(t, g, "app.text.leds[0].led.anode")
	if net, ok := g.NetOf(anode); !ok || net != vbus {
		t.Errorf("anode net = %s", g.NetName(net))
	}
	r := mustFind(t, g, "app.text.leds[0].current_limiting_resistor.unnamed[1]")
	if net, _ := g.NetOf(r); net != gnd {
		t.Errorf("resistor net = %s", g.NetName(net))
	}

	led := mustFind(t, g, "app.text.leds[0].led")
	if got := g.Param(led, library.ParamColor); got != graph.Enum(library.ColorRed) {
		t.Errorf("color = %v", got)
	}
	if got := g.Param(led, library.ParamBrightness); got != graph.Range(0.01, 0.1) {
		t.Errorf("brightness = %v", got)
	}

	pled := g.Node(mustFind(t, g, "app.text.leds[0]"))
	if pled.Traits.Position == nil {
		t.Error("LED has no position")
	}
	if pled.Traits.Routing == nil || pled.Traits.Routing.Intents[0].Kind != graph.RouteGreedyDirectLine {
		t.Errorf("LED routing = %+v, want greedy direct line", pled.Traits.Routing)
	}

	if diags := graph.Validate(g); graph.HasErrors(diags) {
		t.Errorf("validate: %v", diags)
	}
}

func TestComposePSU(t *testing.T) {
	g, card := compose(t, testOptions())

	dec := g.Node(card.PSU.PowerOut()).Traits.Decoupled
	if dec == nil {
		t.Fatal("power_out is not decoupled")
	}
	if p := g.Path(dec.Capacitor); p != "app.usb_psu.power_out_capacitor" {
		t.Errorf("capacitor = %s", p)
	}

	got, err := g.MostNarrow(mustFind(t, g, "app.usb_psu.power_out.voltage"))
	if err != nil {
		t.Fatal(err)
	}
	if got != graph.Range(4.75, 5.5) {
		t.Errorf("voltage = %v", got)
	}

	fuse := mustFind(t, g, "app.usb_psu.fuse")
	if got := g.Param(fuse, library.ParamTripCurrent); got != graph.Constant(1) {
		t.Errorf("trip current = %v", got)
	}

	f0 := mustFind(t, g, "app.usb_psu.fuse.unnamed[0]")
	for i := 0; i < library.USBRailCount; i++ {
		vb := mustFind(t, g, "app.usb_psu.usb."+library.Rail("vbus", i))
		if !g.Connected(vb, f0) {
			t.Errorf("vbus rail %d not fused", i)
		}
		gn := mustFind(t, g, "app.usb_psu.usb."+library.Rail("gnd", i))
		if net, ok := g.NetOf(gn); !ok || g.NetName(net) != NetGND {
			t.Errorf("gnd rail %d on net %q", i, g.NetName(net))
		}
	}

	cc1 := mustFind(t, g, "app.usb_psu.usb.cc1")
	r0 := mustFind(t, g, "app.usb_psu.configuration_resistors[0].unnamed[0]")
	if !g.Connected(cc1, r0) {
		t.Error("cc1 not connected to its configuration resistor")
	}
}

func TestEmptyTextHasNoLEDs(t *testing.T) {
	opts := testOptions()
	opts.Text = ""
	g, card := compose(t, opts)
	if n := card.Text.Layout.Count(); n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
	if _, ok := g.Find("app.text.leds[0]"); ok {
		t.Error("empty text composed an LED")
	}
}

func TestOptionsValidate(t *testing.T) {
	opts := testOptions()
	opts.Margin = 50
	if _, _, err := Compose("app", opts); err == nil {
		t.Error("margin wider than the card accepted")
	}

	opts = testOptions()
	opts.CornerRadius = 40
	if err := opts.Validate(); err == nil {
		t.Error("corner radius larger than the card accepted")
	}
}

func buildBoard(t *testing.T, opts Options) (*graph.Graph, *PixelCard, *pcb.Board, layout.Placements, *routing.RoutePlan) {
	t.Helper()
	g, card := compose(t, opts)
	root := card.Root()

	if _, err := picker.FillUnresolved(g, root); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if _, err := picker.PickRecursively(g, root, picker.LCSC{}); err != nil {
		t.Fatalf("pick: %v", err)
	}

	board := pcb.NewBoard()
	if err := TransformPCB(g, card, board); err != nil {
		t.Fatalf("TransformPCB: %v", err)
	}

	placements, err := layout.Resolve(g, root, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	plan := routing.Plan(g)

	out, err := pcb.Build(board, pcb.Input{Graph: g, Root: root, Placements: placements, Plan: plan})
	if err != nil {
		t.Fatalf("pcb.Build: %v", err)
	}
	return g, card, out, placements, plan
}

func TestTransformPCBPlacements(t *testing.T) {
	opts := testOptions()
	g, card, _, placements, _ := buildBoard(t, opts)

	th := TextHeight(card.Text.Layout.Polygons(), card.Offset())
	y := th + (opts.Height-th)/2

	psu := mustFind(t, g, "app.usb_psu")
	if got, want := placements[psu].Absolute, (graph.Point{X: opts.Width - 4.5, Y: y, Rot: 90, Layer: graph.LayerTop}); got != want {
		t.Errorf("psu at %+v, want %+v", got, want)
	}

	logo := mustFind(t, g, "app.faebryk_logo")
	if got, want := placements[logo].Absolute, (graph.Point{X: opts.Width / 2, Y: y, Layer: graph.LayerTop}); got != want {
		t.Errorf("logo at %+v, want %+v", got, want)
	}

	r1 := mustFind(t, g, "app.usb_psu.configuration_resistors[1]")
	abs := placements[r1].Absolute
	if !near(abs.X, opts.Width-4.5-1.25+2.5) || !near(abs.Y, y-4.75) || abs.Rot != 180 {
		t.Errorf("configuration resistor 1 at %+v", abs)
	}

	text := mustFind(t, g, "app.text")
	if got, want := placements[text].Absolute, (graph.Point{X: 4, Y: 4, Layer: graph.LayerTop}); got != want {
		t.Errorf("text at %+v, want %+v", got, want)
	}

	led := mustFind(t, g, "app.text.leds[0].led")
	pled := mustFind(t, g, "app.text.leds[0]")
	if placements[led].Absolute.Rot != 90 {
		t.Errorf("led rotation = %v, want 90", placements[led].Absolute.Rot)
	}
	if placements[led].Absolute.X != placements[pled].Absolute.X {
		t.Errorf("led x %v differs from its powered LED %v", placements[led].Absolute.X, placements[pled].Absolute.X)
	}
}

func TestTransformPCBBoard(t *testing.T) {
	opts := testOptions()
	opts.Contact = `jane@example.com\nexample.com`
	opts.Font = font.Bold()
	_, card, board, _, plan := buildBoard(t, opts)

	if want := (pcb.Outline{Width: CardWidth, Height: CardHeight, CornerRadius: CardCornerRadius}); board.Outline != want {
		t.Errorf("outline = %+v", board.Outline)
	}
	if got, want := len(board.Zones), len(card.Text.Layout.Polygons()); got != want {
		t.Errorf("zones = %d, want %d", got, want)
	}
	for _, z := range board.Zones {
		if z.Layer != pcb.LayerFrontSilk || z.Name != TextZoneName {
			t.Errorf("zone %s on %s", z.Name, z.Layer)
		}
	}

	if len(board.Texts) != 2 {
		t.Fatalf("texts = %d, want 2", len(board.Texts))
	}
	second := board.Texts[1]
	if second.Text != "example.com" || second.Font.Face != "Go" || !second.Font.Bold {
		t.Errorf("second contact line = %+v", second)
	}
	if !near(second.At.Y, CardHeight/3+ContactPitch) || second.Layer != pcb.LayerBackSilk {
		t.Errorf("second contact line at %+v on %s", second.At, second.Layer)
	}

	leds := card.Text.Layout.Count()
	// LEDs and their resistors, usb, fuse, two config resistors, capacitor, logo.
	if got := len(board.Footprints); got != 2*leds+6 {
		t.Errorf("footprints = %d, want %d", got, 2*leds+6)
	}
	if board.Reference.At.X != 2.25 {
		t.Errorf("reference x = %v", board.Reference.At.X)
	}

	if len(plan.Entries) == 0 {
		t.Fatal("empty routing plan")
	}
	if first := plan.Entries[0]; first.Path != "app.net_gnd" || first.Advisory {
		t.Errorf("first plan entry = %+v", first)
	}

	if len(board.GetNetVias(NetGND)) == 0 || len(board.GetNetVias(NetVBUS)) == 0 {
		t.Error("supply nets have no vias")
	}

	usb, ok := board.Footprint("app.usb_psu.usb")
	if !ok {
		t.Fatal("no usb footprint")
	}
	if usb.Reference != "P1" {
		t.Errorf("usb reference = %s", usb.Reference)
	}
	if len(board.Warnings) != 0 {
		t.Errorf("warnings = %v", board.Warnings)
	}
}

func TestContactTexts(t *testing.T) {
	opts := testOptions()
	if got := ContactTexts(opts); got != nil {
		t.Errorf("no contact gave %v", got)
	}

	opts.Contact = "a\nb\\nc"
	lines := ContactTexts(opts)
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if lines[0].Font.Face != "Go-Regular" || lines[0].Font.Bold {
		t.Errorf("font = %+v", lines[0].Font)
	}
	if !lines[2].Mirror {
		t.Error("back side text is not mirrored")
	}
}
