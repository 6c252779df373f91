package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/chazu/pixelcard/pkg/buildinfo"
	perr "github.com/chazu/pixelcard/pkg/errors"
)

// testCLI returns a CLI writing logs to logs and output to out, reading its
// config from an empty file so the working directory does not leak in.
func testCLI(t *testing.T) (c *CLI, out, logs *bytes.Buffer, dir string) {
	t.Helper()
	out, logs = &bytes.Buffer{}, &bytes.Buffer{}
	c = New(logs, log.InfoLevel)
	c.Out = out
	dir = t.TempDir()
	cfg := "[build]\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "build")) + "\"\n"
	writeFile(t, filepath.Join(dir, "pixelcard.toml"), cfg)
	return c, out, logs, dir
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func run(t *testing.T, c *CLI, dir string, args ...string) error {
	t.Helper()
	args = append(args, "--config", filepath.Join(dir, "pixelcard.toml"))
	return c.Execute(context.Background(), args)
}

func mustRun(t *testing.T, c *CLI, dir string, args ...string) {
	t.Helper()
	if err := run(t, c, dir, args...); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, log.InfoLevel).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"build", "layout", "leds", "visualize"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing subcommand %s in %v", want, names)
		}
	}
	if root.Version != buildinfo.Version {
		t.Errorf("version = %q", root.Version)
	}
	for _, flag := range []string{"verbose", "script", "config"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestLedsCommand(t *testing.T) {
	c, out, _, dir := testCLI(t)
	mustRun(t, c, dir, "leds", "--text", "I")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("output = %q", out.String())
	}
	if !strings.HasPrefix(lines[0], "leds: ") || lines[0] == "leds: 0" {
		t.Errorf("leds line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "polygons: ") || lines[1] == "polygons: 0" {
		t.Errorf("polygons line = %q", lines[1])
	}
}

func TestLayoutCommand(t *testing.T) {
	c, out, _, dir := testCLI(t)
	mustRun(t, c, dir, "layout", "--text", "I", "--format", "yaml")

	for _, want := range []string{"root: app", "placements:", "routes:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("layout output lacks %q", want)
		}
	}
}

func TestLayoutRejectsUnknownFormat(t *testing.T) {
	c, _, _, dir := testCLI(t)
	err := run(t, c, dir, "layout", "--format", "xml")
	if err == nil || !strings.Contains(err.Error(), "invalid format") {
		t.Errorf("err = %v, want invalid format", err)
	}
}

func TestBuildCommand(t *testing.T) {
	c, _, logs, dir := testCLI(t)
	out := filepath.Join(dir, "out")
	mustRun(t, c, dir, "build", "--text", "I", "-o", out, "--no-bom")

	for _, name := range []string{"pixelcard.kicad_pcb", "pixelcard.net"} {
		if !exists(filepath.Join(out, name)) {
			t.Errorf("%s not written", name)
		}
	}
	if exists(filepath.Join(out, "pixelcard_bom.csv")) {
		t.Error("BOM written despite --no-bom")
	}
	if !strings.Contains(logs.String(), "Built card") {
		t.Errorf("log = %q", logs.String())
	}
}

func TestBuildWithScript(t *testing.T) {
	c, _, _, dir := testCLI(t)
	script := filepath.Join(dir, "card.lisp")
	writeFile(t, script, `(card :text "HI" :contact "someone")`)
	out := filepath.Join(dir, "out")

	mustRun(t, c, dir, "build", "--script", script, "-o", out, "--no-pcb", "--no-netlist")
	data, err := os.ReadFile(filepath.Join(out, "pixelcard_bom.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "Comment,Designator,Footprint,LCSC") {
		t.Errorf("bom starts %q", string(data))
	}
}

func TestBuildScriptErrors(t *testing.T) {
	c, _, _, dir := testCLI(t)
	script := filepath.Join(dir, "bad.lisp")
	writeFile(t, script, `(card :colour "red")`)

	for _, path := range []string{script, filepath.Join(dir, "missing.lisp")} {
		err := run(t, c, dir, "build", "--script", path)
		if !perr.Is(err, perr.ErrCodeInvalidScript) {
			t.Errorf("%s: err = %v, want INVALID_SCRIPT", filepath.Base(path), err)
		}
	}
}

func TestVisualizeDOT(t *testing.T) {
	c, out, _, dir := testCLI(t)
	mustRun(t, c, dir, "visualize", "--text", "I", "--dot")
	if !strings.HasPrefix(out.String(), "digraph design {") {
		t.Errorf("output starts %q", out.String()[:min(out.Len(), 20)])
	}
	if !strings.Contains(out.String(), "shape=box") {
		t.Error("no module boxes in DOT output")
	}
}

func TestVisualizeSVGFile(t *testing.T) {
	c, _, _, dir := testCLI(t)
	path := filepath.Join(dir, "tree.svg")
	mustRun(t, c, dir, "visualize", "--text", "I", "-o", path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("output is not SVG")
	}
}

func TestVerboseEnablesDebug(t *testing.T) {
	c, _, logs, dir := testCLI(t)
	script := filepath.Join(dir, "card.lisp")
	writeFile(t, script, `(card :text "I")`)

	mustRun(t, c, dir, "-v", "leds", "--script", script)
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
	if !strings.Contains(logs.String(), "loaded board script") {
		t.Errorf("log = %q", logs.String())
	}
}
