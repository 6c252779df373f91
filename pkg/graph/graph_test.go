package graph

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	perr "github.com/chazu/pixelcard/pkg/errors"
)

var power = InterfaceType{Tag: "ElectricPower", Members: []Member{
	{Name: "hv", Type: Electrical},
	{Name: "lv", Type: Electrical},
}}

func newRoot(t *testing.T, g *Graph) NodeID {
	t.Helper()
	id, err := g.AddModule(NoNode, "app", "App")
	if err != nil {
		t.Fatalf("AddModule: %v", err)
	}
	return id
}

func addIface(t *testing.T, g *Graph, parent NodeID, name string, it InterfaceType) NodeID {
	t.Helper()
	id, err := g.AddInterface(parent, name, it)
	if err != nil {
		t.Fatalf("AddInterface(%s): %v", name, err)
	}
	return id
}

func addModule(t *testing.T, g *Graph, parent NodeID, name, typ string) NodeID {
	t.Helper()
	id, err := g.AddModule(parent, name, typ)
	if err != nil {
		t.Fatalf("AddModule(%s): %v", name, err)
	}
	return id
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func wantCode(t *testing.T, err error, code perr.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !perr.Is(err, code) {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

func TestPathsAndLookup(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	psu := addModule(t, g, app, "usb_psu", "USB_C_PSU_Vertical")
	out := addIface(t, g, psu, "power_out", power)

	hv, ok := g.FindFrom(out, "hv")
	if !ok {
		t.Fatal("hv not found below power_out")
	}
	if got := g.Path(hv); got != "app.usb_psu.power_out.hv" {
		t.Errorf("path = %q", got)
	}

	found, ok := g.Find("app.usb_psu.power_out.lv")
	if !ok {
		t.Fatal("lv not found")
	}
	if g.Node(found).Kind != KindInterface {
		t.Errorf("kind = %s, want interface", g.Node(found).Kind)
	}
	if got := g.Ancestors(out); !slices.Equal(got, []NodeID{psu, app}) {
		t.Errorf("ancestors = %v", got)
	}
	if _, ok := g.Find("app.missing"); ok {
		t.Error("found a missing path")
	}
}

func TestDuplicateChildName(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	addIface(t, g, app, "x", Electrical)

	_, err := g.AddParameter(app, "x", TBD())
	wantCode(t, err, perr.ErrCodeComposition)
	if p := perr.GetPath(err); p != "app" {
		t.Errorf("error path = %q", p)
	}
	if n := len(g.Children(app)); n != 1 {
		t.Errorf("children = %d, want 1", n)
	}
}

func TestInvalidChildName(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	for _, name := range []string{"", "a.b", "a b"} {
		if _, err := g.AddModule(app, name, "M"); err == nil {
			t.Errorf("name %q accepted", name)
		}
	}
}

func TestModuleUnderInterfaceRejected(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	x := addIface(t, g, app, "x", Electrical)
	_, err := g.AddModule(x, "m", "M")
	wantCode(t, err, perr.ErrCodeComposition)
}

func TestConnectSelfRejected(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	x := addIface(t, g, app, "x", Electrical)

	wantCode(t, g.Connect(x, x), perr.ErrCodeComposition)
	if g.HasEdge(x, x) || g.EdgeCount() != 0 {
		t.Errorf("self connect left %d edges", g.EdgeCount())
	}
}

func TestConnectTypeMismatch(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	x := addIface(t, g, app, "x", Electrical)
	p := addIface(t, g, app, "p", power)
	param, err := g.AddParameter(app, "v", TBD())
	mustOK(t, err)

	if err := g.Connect(x, p); err == nil {
		t.Error("connected Electrical to ElectricPower")
	}
	if err := g.Connect(x, param); err == nil {
		t.Error("connected an interface to a parameter")
	}
	if n := g.EdgeCount(); n != 0 {
		t.Errorf("edges = %d, want 0", n)
	}
}

func TestConnectCompound(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	a := addIface(t, g, app, "a", power)
	b := addIface(t, g, app, "b", power)

	mustOK(t, g.Connect(a, b))
	if err := g.Connect(b, a); err != nil {
		t.Fatalf("reconnecting should be a no-op: %v", err)
	}

	ahv, _ := g.Child(a, "hv")
	bhv, _ := g.Child(b, "hv")
	alv, _ := g.Child(a, "lv")
	blv, _ := g.Child(b, "lv")
	if !g.Connected(ahv, bhv) || !g.Connected(alv, blv) {
		t.Error("members not connected pairwise")
	}
	if g.Connected(ahv, blv) {
		t.Error("hv connected to lv")
	}
	if n := g.EdgeCount(); n != 3 {
		t.Errorf("edges = %d, want 3", n)
	}
	if got := g.Neighbors(ahv); !slices.Equal(got, []NodeID{bhv}) {
		t.Errorf("neighbors = %v", got)
	}
}

func TestConnectCompoundMismatchAddsNothing(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	odd := InterfaceType{Tag: "ElectricPower", Members: []Member{
		{Name: "hv", Type: Electrical},
		{Name: "lv", Type: InterfaceType{Tag: "Signal"}},
	}}
	a := addIface(t, g, app, "a", power)
	b := addIface(t, g, app, "b", odd)

	err := g.Connect(a, b)
	wantCode(t, err, perr.ErrCodeComposition)
	if n := g.EdgeCount(); n != 0 {
		t.Errorf("failed connect left %d edges", n)
	}
	ahv, _ := g.Child(a, "hv")
	bhv, _ := g.Child(b, "hv")
	if g.Connected(ahv, bhv) {
		t.Error("compatible member pair connected before the mismatch was found")
	}
}

func TestConnectVia(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	in := addIface(t, g, app, "in", Electrical)
	out := addIface(t, g, app, "out", Electrical)
	r := addModule(t, g, app, "r", "Resistor")
	t0 := addIface(t, g, r, TerminalA, Electrical)
	t1 := addIface(t, g, r, TerminalB, Electrical)

	mustOK(t, g.ConnectVia(in, r, out))
	if !g.HasEdge(in, t0) || !g.HasEdge(t1, out) {
		t.Error("terminals not connected")
	}
	if g.Connected(in, out) {
		t.Error("in and out shorted through the module")
	}

	single := addModule(t, g, app, "single", "Thing")
	addIface(t, g, single, TerminalA, Electrical)
	err := g.ConnectVia(in, single, out)
	if err == nil || !strings.Contains(err.Error(), "two-terminal") {
		t.Errorf("err = %v, want two-terminal error", err)
	}
}

func TestMergeNarrows(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	v, err := g.AddParameter(app, "voltage", TBD())
	mustOK(t, err)

	mustOK(t, g.Merge(v, Range(4.75, 5.5)))
	mustOK(t, g.Merge(v, Range(5, 12)))
	c, err := g.MostNarrow(v)
	mustOK(t, err)
	if c != Range(5, 5.5) {
		t.Errorf("narrowed = %v", c)
	}

	err = g.Merge(v, Constant(3.3))
	wantCode(t, err, perr.ErrCodeComposition)
	if p := perr.GetPath(err); p != "app.voltage" {
		t.Errorf("error path = %q", p)
	}
	for _, want := range []string{"[5, 5.5]", "3.3"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q lacks %s", err, want)
		}
	}

	if c, _ = g.MostNarrow(v); c != Range(5, 5.5) {
		t.Errorf("failed merge changed the value to %v", c)
	}
}

func TestConstraintIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Constraint
		want Constraint
		ok   bool
	}{
		{"tbd left", TBD(), Constant(1), Constant(1), true},
		{"any right", Enum("RED"), Any(), Enum("RED"), true},
		{"enum equal", Enum("RED"), Enum("RED"), Enum("RED"), true},
		{"enum differ", Enum("RED"), Enum("GREEN"), Constraint{}, false},
		{"enum vs number", Enum("RED"), Constant(1), Constraint{}, false},
		{"constant in range", Constant(5100), Range(5000, 6000), Constant(5100), true},
		{"constant outside", Range(0, 1), Constant(2), Constraint{}, false},
		{"ranges overlap", Range(10, 100), Range(50, 500), Range(50, 100), true},
		{"ranges disjoint", Range(0, 1), Range(2, 3), Constraint{}, false},
		{"reversed bounds", Range(3, 1), Constant(2), Constant(2), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Intersect(tt.b)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if tt.ok && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAttachReplacementDiagnostics(t *testing.T) {
	g := New()
	app := newRoot(t, g)

	mustOK(t, g.Attach(app, Footprint{Name: "a"}))
	mustOK(t, g.Attach(app, Footprint{Name: "b"}))
	mustOK(t, g.Attach(app, DesignatorPrefix{Prefix: "R"}))
	mustOK(t, g.Attach(app, DesignatorPrefix{Prefix: "C"}))

	if name := g.Node(app).Traits.Footprint.Name; name != "b" {
		t.Errorf("footprint = %q, want b", name)
	}
	diags := g.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("diagnostics = %v, want 2", diags)
	}
	if diags[0].Severity != SeverityWarning || diags[1].Severity != SeverityInfo {
		t.Errorf("severities = %s, %s", diags[0].Severity, diags[1].Severity)
	}
	if diags[0].Path != "app" {
		t.Errorf("path = %q", diags[0].Path)
	}
}

func TestAttachRoutingStampsSequence(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	x := addIface(t, g, app, "x", Electrical)
	p, err := g.AddParameter(app, "p", TBD())
	mustOK(t, err)

	mustOK(t, g.AttachRouting(x, GreedyDirectLine()))
	mustOK(t, g.AttachRouting(app, ViaToLayer("B.Cu", Vec2{}).WithPriority(1)))
	mustOK(t, g.AttachRouting(x, GreedyDirectLine()))
	if err := g.AttachRouting(p, GreedyDirectLine()); err == nil {
		t.Error("routing attached to a parameter")
	}

	intents := g.Node(x).Traits.Routing.Intents
	if len(intents) != 2 {
		t.Fatalf("intents = %d, want 2", len(intents))
	}
	if intents[0].Seq != 1 || intents[1].Seq != 3 {
		t.Errorf("seq = %d, %d; want 1, 3", intents[0].Seq, intents[1].Seq)
	}
	if n := g.EdgeCount(); n != 0 {
		t.Errorf("routing added %d edges", n)
	}
}

func TestAssignNetsDisjointNames(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	out := addIface(t, g, app, "power_out", power)
	hv, _ := g.Child(out, "hv")
	lv, _ := g.Child(out, "lv")

	nets, err := g.AssignNets(app, []NetSpec{{"vbus", hv}, {"gnd", lv}})
	mustOK(t, err)
	if len(nets) != 2 {
		t.Fatalf("nets = %d, want 2", len(nets))
	}
	for i, want := range []string{"vbus", "gnd"} {
		n := g.Node(nets[i])
		if n.Kind != KindNet || n.Name != "net_"+want || g.NetName(nets[i]) != want {
			t.Errorf("net %d = %s %q named %q", i, n.Kind, n.Name, g.NetName(nets[i]))
		}
	}
	if got := g.NetMembers(nets[0]); !slices.Equal(got, []NodeID{hv}) {
		t.Errorf("vbus members = %v", got)
	}
	if net, ok := g.NetOf(lv); !ok || net != nets[1] {
		t.Errorf("NetOf(lv) = %v, %v", net, ok)
	}

	if _, err := g.AssignNets(app, []NetSpec{{"vbus", hv}}); err == nil {
		t.Error("net name declared twice in the design")
	}

	wantCode(t, g.Attach(nets[0], OverriddenName{Name: "other"}), perr.ErrCodeComposition)
	if name := g.NetName(nets[0]); name != "vbus" {
		t.Errorf("net renamed to %q", name)
	}
}

func TestAssignNetsOverlap(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	a := addIface(t, g, app, "a", Electrical)
	b := addIface(t, g, app, "b", Electrical)
	mustOK(t, g.Connect(a, b))

	_, err := g.AssignNets(app, []NetSpec{{"one", a}, {"two", b}})
	if err == nil {
		t.Fatal("overlapping nets accepted")
	}
	if !strings.Contains(err.Error(), `"one"`) || !strings.Contains(err.Error(), `"two"`) {
		t.Errorf("error %q does not name both nets", err)
	}
	if n := len(g.Nets()); n != 0 {
		t.Errorf("failed assignment created %d nets", n)
	}

	nets, err := g.AssignNets(app, []NetSpec{{"one", a}, {"two", b}}, NetOptions{AllowOverlap: true})
	mustOK(t, err)
	if net, ok := g.NetOf(a); !ok || net != nets[1] {
		t.Errorf("effective net = %v, want the later declaration", net)
	}
	if len(g.Diagnostics()) == 0 {
		t.Error("overlap recorded no warning")
	}
}

func TestAssignNetsOverlapWarnsOnDeclaringNet(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	a := addIface(t, g, app, "a", Electrical)
	b := addIface(t, g, app, "b", Electrical)
	c := addIface(t, g, app, "c", Electrical)
	mustOK(t, g.Connect(a, b))

	nets, err := g.AssignNets(app, []NetSpec{{"one", a}, {"two", b}, {"three", c}}, NetOptions{AllowOverlap: true})
	mustOK(t, err)

	diags := g.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("diagnostics = %v, want 1", diags)
	}
	if diags[0].NodeID != nets[1] {
		t.Errorf("warning on %s, want %s", diags[0].Path, g.Path(nets[1]))
	}
}

func TestAssignNetsLeavesNothingOnNameClash(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	a := addIface(t, g, app, "a", Electrical)
	b := addIface(t, g, app, "b", Electrical)
	addModule(t, g, app, "net_b", "Other")

	_, err := g.AssignNets(app, []NetSpec{{"a", a}, {"b", b}})
	wantCode(t, err, perr.ErrCodeComposition)
	if n := len(g.Nets()); n != 0 {
		t.Errorf("failed assignment created %d nets", n)
	}
	if _, ok := g.Child(app, "net_a"); ok {
		t.Error("net_a created by a failed assignment")
	}
	if _, ok := g.NetByName("a"); ok {
		t.Error("name a reserved by a failed assignment")
	}

	nets, err := g.AssignNets(app, []NetSpec{{"a", a}})
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if g.NetName(nets[0]) != "a" {
		t.Errorf("retried net named %q", g.NetName(nets[0]))
	}
}

func TestAssignNetsRejectsBadNames(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	x := addIface(t, g, app, "x", Electrical)
	for _, name := range []string{"", "a.b", "a b"} {
		_, err := g.AssignNets(app, []NetSpec{{name, x}})
		wantCode(t, err, perr.ErrCodeComposition)
	}
	if n := len(g.Nets()); n != 0 {
		t.Errorf("nets = %d, want 0", n)
	}
}

func TestAssignNetsRequiresInterface(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	_, err := g.AssignNets(app, []NetSpec{{"x", app}})
	wantCode(t, err, perr.ErrCodeComposition)

	p := addIface(t, g, app, "p", power)
	_, err = g.AssignNets(app, []NetSpec{{"p", p}})
	wantCode(t, err, perr.ErrCodeComposition)
}

func TestValidate(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	x := addIface(t, g, app, "x", Electrical)
	_, err := g.AssignNets(app, []NetSpec{{"sig", x}})
	mustOK(t, err)
	mustOK(t, g.Attach(x, Decoupled{Capacitor: 999}))

	diags := Validate(g)
	if !HasErrors(diags) {
		t.Fatalf("diagnostics = %v, want an error", diags)
	}
	if !strings.Contains(diags[0].Error(), "decoupling capacitor") {
		t.Errorf("first diagnostic = %q", diags[0].Error())
	}
}

func TestWalkOrderAndSkip(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	a := addModule(t, g, app, "a", "A")
	addModule(t, g, a, "a1", "A1")
	addModule(t, g, app, "b", "B")

	var names []string
	mustOK(t, g.Walk(app, func(id NodeID) error {
		names = append(names, g.Node(id).Name)
		if g.Node(id).Name == "a" {
			return SkipChildren
		}
		return nil
	}))
	if want := []string{"app", "a", "b"}; !slices.Equal(names, want) {
		t.Errorf("walk = %v, want %v", names, want)
	}
}

func TestPointCompose(t *testing.T) {
	parent := Point{X: 10, Y: 5, Rot: 90, Layer: LayerTop}
	if got, want := parent.Compose(Point{X: 1, Y: 0, Rot: 90}), (Point{X: 10, Y: 4, Rot: 180, Layer: LayerTop}); got != want {
		t.Errorf("compose = %+v, want %+v", got, want)
	}
	if got, want := parent.Compose(Point{X: 0, Y: 2, Layer: LayerBottom}), (Point{X: 12, Y: 5, Rot: 90, Layer: LayerBottom}); got != want {
		t.Errorf("compose = %+v, want %+v", got, want)
	}
}

func TestWriteDOT(t *testing.T) {
	g := New()
	app := newRoot(t, g)
	led := addModule(t, g, app, "led", "LED")
	x := addIface(t, g, led, "anode", Electrical)
	_, err := g.AssignNets(app, []NetSpec{{"sig", x}})
	mustOK(t, err)

	var buf bytes.Buffer
	mustOK(t, g.WriteDOT(&buf, app))
	out := buf.String()
	if !strings.HasPrefix(out, "digraph design {") {
		t.Errorf("output starts %q", out[:min(len(out), 20)])
	}
	for _, want := range []string{`label="led\nLED"`, `label="sig"`} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT lacks %s", want)
		}
	}
}
