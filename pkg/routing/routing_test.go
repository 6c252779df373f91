package routing

import (
	"slices"
	"testing"

	perr "github.com/chazu/pixelcard/pkg/errors"
	"github.com/chazu/pixelcard/pkg/graph"
)

type fixture struct {
	g        *graph.Graph
	app      graph.NodeID
	hv, lv   graph.NodeID
	vbus     graph.NodeID
	gnd      graph.NodeID
	cap      graph.NodeID
	capPlus  graph.NodeID
	ledPower graph.NodeID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	g := graph.New()
	f := &fixture{g: g}
	check := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("fixture: %v", err)
		}
	}
	var err error
	f.app, err = g.AddModule(graph.NoNode, "app", "PixelCard")
	check(err)
	f.hv, err = g.AddInterface(f.app, "hv", graph.Electrical)
	check(err)
	f.lv, err = g.AddInterface(f.app, "lv", graph.Electrical)
	check(err)

	f.cap, err = g.AddModule(f.app, "cap", "Capacitor")
	check(err)
	f.capPlus, err = g.AddInterface(f.cap, graph.TerminalA, graph.Electrical)
	check(err)
	capMinus, err := g.AddInterface(f.cap, graph.TerminalB, graph.Electrical)
	check(err)
	check(g.Connect(f.hv, f.capPlus))
	check(g.Connect(capMinus, f.lv))

	led, err := g.AddModule(f.app, "led", "LED")
	check(err)
	f.ledPower, err = g.AddInterface(led, "anode", graph.Electrical)
	check(err)

	nets, err := g.AssignNets(f.app, []graph.NetSpec{{Name: "vbus", Interface: f.hv}, {Name: "gnd", Interface: f.lv}})
	check(err)
	f.vbus, f.gnd = nets[0], nets[1]
	return f
}

func (f *fixture) attach(t *testing.T, id graph.NodeID, intent graph.RoutingIntent) {
	t.Helper()
	if err := f.g.AttachRouting(id, intent); err != nil {
		t.Fatalf("AttachRouting(%s): %v", f.g.Path(id), err)
	}
}

func effectiveOn(p *RoutePlan, target graph.NodeID) []Entry {
	var out []Entry
	for _, e := range p.Effective() {
		if e.Target == target {
			out = append(out, e)
		}
	}
	return out
}

func sameSet(a, b []graph.NodeID) bool {
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

func TestHigherPriorityWinsInEitherOrder(t *testing.T) {
	low := graph.ViaToLayer("B.Cu", graph.Vec2{X: 0.8, Y: 0.3}).WithPriority(0.5)
	high := graph.ViaToLayer("F.Cu", graph.Vec2{X: 0.5, Y: 0.5}).WithPriority(1.0)

	for _, tc := range []struct {
		name        string
		first, last graph.RoutingIntent
	}{
		{"high declared first", high, low},
		{"high declared last", low, high},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.attach(t, f.vbus, tc.first)
			f.attach(t, f.capPlus, tc.last)

			plan := Plan(f.g)
			if len(plan.Entries) != 2 {
				t.Fatalf("entries = %d, want 2", len(plan.Entries))
			}
			top := plan.Entries[0]
			if top.Intent.Priority != 1.0 || top.Advisory || top.Intent.Layer != "F.Cu" {
				t.Errorf("first entry = %+v", top)
			}
			if !plan.Entries[1].Advisory {
				t.Error("lower priority should stay as an advisory fallback")
			}
			if len(plan.Conflicts) != 0 {
				t.Errorf("conflicts = %v", plan.Conflicts)
			}
		})
	}
}

func TestEqualPriorityFirstDeclaredWins(t *testing.T) {
	f := newFixture(t)
	f.attach(t, f.vbus, graph.ViaToLayer("B.Cu", graph.Vec2{X: 0.8, Y: 0.3}))
	f.attach(t, f.capPlus, graph.ViaToLayer("B.Cu", graph.Vec2{Y: -1}))

	plan := Plan(f.g)
	if len(plan.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(plan.Entries))
	}
	if plan.Entries[0].Target != f.vbus || plan.Entries[0].Advisory {
		t.Errorf("first entry = %+v, want effective vbus", plan.Entries[0])
	}
	if !plan.Entries[1].Advisory {
		t.Error("second entry should be advisory")
	}

	if len(plan.Conflicts) != 1 {
		t.Fatalf("conflicts = %v, want 1", plan.Conflicts)
	}
	c := plan.Conflicts[0]
	if c.Winner != "app.net_vbus#1" || c.Loser != "app.cap.unnamed[0]#2" {
		t.Errorf("conflict = %s over %s", c.Winner, c.Loser)
	}

	warns := plan.Warnings()
	if len(warns) != 1 {
		t.Fatalf("warnings = %v, want 1", warns)
	}
	if !perr.Is(warns[0], perr.ErrCodeRoutingConflict) {
		t.Errorf("warning code = %s", perr.GetCode(warns[0]))
	}
	if p := perr.GetPath(warns[0]); p != "app.cap.unnamed[0]#2" {
		t.Errorf("warning path = %q", p)
	}
}

func TestDisjointScopesDoNotInteract(t *testing.T) {
	f := newFixture(t)
	f.attach(t, f.vbus, graph.ViaToLayer("B.Cu", graph.Vec2{}))
	f.attach(t, f.gnd, graph.ViaToLayer("F.Cu", graph.Vec2{}))

	plan := Plan(f.g)
	if n := len(plan.Effective()); n != 2 {
		t.Errorf("effective = %d, want 2", n)
	}
	if len(plan.Conflicts) != 0 {
		t.Errorf("conflicts = %v", plan.Conflicts)
	}
	onGnd := effectiveOn(plan, f.gnd)
	if len(onGnd) != 1 || onGnd[0].Net != "gnd" {
		t.Errorf("gnd entries = %+v", onGnd)
	}
}

func TestScopes(t *testing.T) {
	f := newFixture(t)
	vbus := []graph.NodeID{f.hv, f.capPlus}

	if got := Scope(f.g, f.vbus); !sameSet(got, vbus) {
		t.Errorf("net scope = %v, want %v", got, vbus)
	}
	if got := Scope(f.g, f.capPlus); !sameSet(got, vbus) {
		t.Errorf("interface scope = %v, want its net %v", got, vbus)
	}
	if got := Scope(f.g, f.ledPower); !slices.Equal(got, []graph.NodeID{f.ledPower}) {
		t.Errorf("unnetted interface scope = %v, want its component", got)
	}

	modScope := Scope(f.g, f.cap)
	if len(modScope) != 2 || !slices.Contains(modScope, f.capPlus) {
		t.Errorf("module scope = %v", modScope)
	}
}

func TestModuleIntentWithoutOverlap(t *testing.T) {
	f := newFixture(t)
	led, ok := f.g.Find("app.led")
	if !ok {
		t.Fatal("app.led not found")
	}
	f.attach(t, led, graph.GreedyDirectLine())
	f.attach(t, f.vbus, graph.ViaToLayer("B.Cu", graph.Vec2{}))

	plan := Plan(f.g)
	if n := len(plan.Effective()); n != 2 {
		t.Errorf("effective = %d, want 2", n)
	}
	if len(plan.Conflicts) != 0 {
		t.Errorf("conflicts = %v", plan.Conflicts)
	}
}

func TestPlanEmpty(t *testing.T) {
	f := newFixture(t)
	plan := Plan(f.g)
	if len(plan.Entries) != 0 || len(plan.Effective()) != 0 {
		t.Errorf("plan = %+v, want empty", plan)
	}
}
