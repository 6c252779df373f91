package engine

import (
	"testing"

	"github.com/chazu/pixelcard/pkg/app"
	perr "github.com/chazu/pixelcard/pkg/errors"
	"github.com/chazu/pixelcard/pkg/graph"
	"github.com/chazu/pixelcard/pkg/layout"
)

// card builds app -> usb (vbus) with a "vbus" net and an existing root
// layout.
func card(t *testing.T) (*graph.Graph, graph.NodeID) {
	t.Helper()
	g := graph.New()
	root, err := g.AddModule(graph.NoNode, "app", "App")
	if err != nil {
		t.Fatal(err)
	}
	usb, err := g.AddModule(root, "usb", "USB")
	if err != nil {
		t.Fatal(err)
	}
	vbus, err := g.AddInterface(usb, "vbus", graph.Electrical)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.AssignNets(root, []graph.NetSpec{{Name: "vbus", Interface: vbus}}); err != nil {
		t.Fatal(err)
	}
	base := layout.Hierarchy{{Type: "USB", Rule: layout.Absolute{}}}
	if err := g.Attach(root, base.Trait()); err != nil {
		t.Fatal(err)
	}
	return g, root
}

func TestConfigure(t *testing.T) {
	s := mustEvaluate(t, `(card :text "YO" :margin 2) (board :height 50)`)
	opts := app.DefaultOptions()
	s.Configure(&opts)
	if opts.Text != "YO" || opts.Margin != 2 || opts.Height != 50 {
		t.Errorf("options = %+v", opts)
	}
	if opts.FontSize != 20 || opts.Width != app.CardWidth {
		t.Errorf("unset fields changed: font size %g, width %g", opts.FontSize, opts.Width)
	}

	var none *Script
	none.Configure(&opts)
	if opts.Text != "YO" {
		t.Errorf("nil script changed text to %q", opts.Text)
	}
}

func TestApplyLevelsTakePrecedence(t *testing.T) {
	g, root := card(t)
	s := mustEvaluate(t, `(level "USB" :at (point 10 20))`)
	if err := s.Apply(g, root); err != nil {
		t.Fatalf("apply: %v", err)
	}
	h, ok := g.Node(root).Traits.Layout.Rule.(layout.Hierarchy)
	if !ok {
		t.Fatalf("root layout = %T", g.Node(root).Traits.Layout.Rule)
	}
	if len(h) != 2 {
		t.Fatalf("hierarchy = %s, want script level then built-in level", h)
	}
	if p := h[0].Rule.(layout.Absolute).Point; p.X != 10 || p.Y != 20 {
		t.Errorf("first level at %v, want the script's", p)
	}
}

func TestApplyRoutes(t *testing.T) {
	g, root := card(t)
	s := mustEvaluate(t, `
(route-via "vbus" :layer "F.Cu" :priority 3)
(route-path "usb" :interface "vbus" :layer "F.Cu" :points (list (vec2 0 0) (vec2 1 0)))
(route-direct "")
`)
	if err := s.Apply(g, root); err != nil {
		t.Fatalf("apply: %v", err)
	}

	net, _ := g.NetByName("vbus")
	if r := g.Node(net).Traits.Routing; r == nil || len(r.Intents) != 1 || r.Intents[0].Priority != 3 {
		t.Errorf("net routing = %+v", r)
	}

	usb, _ := g.Find("app.usb")
	vbus, _ := g.Find("app.usb.vbus")
	r := g.Node(usb).Traits.Routing
	if r == nil || len(r.Intents) != 1 {
		t.Fatalf("usb routing = %+v", r)
	}
	if r.Intents[0].Paths[0].Interface != vbus {
		t.Errorf("manual path bound to %d, want %d", r.Intents[0].Paths[0].Interface, vbus)
	}
	if s.Routes[1].Intent.Paths[0].Interface != graph.NoNode {
		t.Error("apply modified the script")
	}

	if rr := g.Node(root).Traits.Routing; rr == nil || rr.Intents[0].Kind != graph.RouteGreedyDirectLine {
		t.Errorf("root routing = %+v", rr)
	}
}

func TestApplyUnknownTargets(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"net", `(route-via "gnd" :layer "F.Cu")`},
		{"module", `(route-direct "psu")`},
		{"interface", `(route-path "usb" :interface "cc1" :layer "F.Cu" :points (list (vec2 0 0) (vec2 1 0)))`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, root := card(t)
			err := mustEvaluate(t, tt.src).Apply(g, root)
			if !perr.Is(err, perr.ErrCodeInvalidScript) {
				t.Fatalf("err = %v, want INVALID_SCRIPT", err)
			}
		})
	}
}
