package report

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/chazu/pixelcard/pkg/graph"
	"github.com/chazu/pixelcard/pkg/layout"
	"github.com/chazu/pixelcard/pkg/pcb"
	"github.com/chazu/pixelcard/pkg/routing"
)

func fixture(t *testing.T) *Report {
	t.Helper()
	g := graph.New()
	root, err := g.AddModule(graph.NoNode, "app", "App")
	if err != nil {
		t.Fatal(err)
	}
	var ids []graph.NodeID
	for _, name := range []string{"z", "a"} {
		id, err := g.AddModule(root, name, "Resistor", "Module")
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}
	h := layout.Hierarchy{{Type: "Resistor", Rule: layout.Extrude{Base: graph.Point{X: 1, Layer: graph.LayerTop}, Spacing: graph.Vec2{X: 2}}}}
	pl, err := layout.Resolve(g, root, h)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.AttachRouting(ids[0], graph.GreedyDirectLine()); err != nil {
		t.Fatal(err)
	}
	des := pcb.Designators{ids[0]: "R2", ids[1]: "R1"}
	return New(g, root, pl, routing.Plan(g), des)
}

func TestNewSortsPlacements(t *testing.T) {
	r := fixture(t)
	var paths []string
	for _, p := range r.Placements {
		paths = append(paths, p.Path)
	}
	if strings.Join(paths, " ") != "app app.a app.z" {
		t.Errorf("placement order = %v", paths)
	}
	if r.Placements[1].Designator != "R1" || r.Placements[1].Level != "Resistor" {
		t.Errorf("app.a = %+v", r.Placements[1])
	}
	if len(r.Routes) != 1 || r.Routes[0].Path != "app.z" {
		t.Errorf("routes = %+v", r.Routes)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := fixture(t).Write(&buf, FormatJSON); err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if doc["root"] != "app" {
		t.Errorf("root = %v", doc["root"])
	}
	pls := doc["placements"].([]any)
	abs := pls[2].(map[string]any)["absolute"].(map[string]any)
	if abs["x"] != 1.0 || abs["layer"] != "top" {
		t.Errorf("app.z absolute = %v", abs)
	}
	if !strings.Contains(buf.String(), `"kind": "greedy-direct-line"`) {
		t.Errorf("route kind not serialised by name:\n%s", buf.String())
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := fixture(t).Write(&buf, FormatYAML); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Placements []struct {
			Path   string `yaml:"path"`
			Source string `yaml:"source"`
		} `yaml:"placements"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if len(doc.Placements) != 3 || doc.Placements[1].Path != "app.a" {
		t.Errorf("placements = %+v", doc.Placements)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := fixture(t).Write(&bytes.Buffer{}, "xml"); err == nil {
		t.Error("expected format error")
	}
}
