package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chazu/pixelcard/pkg/app"
	"github.com/chazu/pixelcard/pkg/bom"
	"github.com/chazu/pixelcard/pkg/buildinfo"
	perr "github.com/chazu/pixelcard/pkg/errors"
	"github.com/chazu/pixelcard/pkg/graph"
	"github.com/chazu/pixelcard/pkg/layout"
	"github.com/chazu/pixelcard/pkg/pcb"
	"github.com/chazu/pixelcard/pkg/picker"
	"github.com/chazu/pixelcard/pkg/render"
	"github.com/chazu/pixelcard/pkg/routing"
)

func (r *Runner) composeStages() []Stage {
	return []Stage{{Name: "compose", Message: "composed card", Run: r.compose}}
}

func (r *Runner) designStages() []Stage {
	return append(r.composeStages(),
		Stage{Name: "pick", Message: "picked parts", Run: r.pick},
		Stage{Name: "validate", Message: "validated design", Run: validate},
		Stage{Name: "transform", Message: "applied board script", Run: r.transform},
		Stage{Name: "layout", Message: "resolved layout", Run: resolve},
		Stage{Name: "route", Message: "planned routing", Run: plan},
		Stage{Name: "board", Message: "assembled board", Run: assemble},
	)
}

func (r *Runner) artifactStages() []Stage {
	b := r.Config.Build
	var out []Stage
	if p := b.Path(b.Netlist); p != "" {
		out = append(out, Stage{Name: "netlist", Message: "wrote netlist", Run: writeNetlist(p)})
	}
	if p := b.Path(b.PCB); p != "" {
		out = append(out, Stage{Name: "pcb", Message: "wrote board", Run: writeBoard(p)})
	}
	if p := b.Path(b.BOM); p != "" {
		out = append(out, Stage{Name: "bom", Message: "wrote BOM", Run: writeBOM(p)})
	}
	if p := b.Path(b.Visualize); p != "" {
		out = append(out, Stage{Name: "visualize", Message: "rendered module tree", Run: writeSVG(p)})
	}
	return out
}

func (r *Runner) compose(ctx context.Context, s *State) ([]any, error) {
	opts, err := r.Config.Options()
	if err != nil {
		return nil, err
	}
	r.Script.Configure(&opts)
	if err := opts.Validate(); err != nil {
		return nil, perr.Wrap(perr.ErrCodeInvalidConfig, err, "card")
	}
	s.Options = opts

	g, card, err := app.Compose(RootName, opts)
	if err != nil {
		return nil, err
	}
	s.Graph, s.Card, s.Root = g, card, card.Root()
	return []any{"text", opts.Text, "leds", s.LEDCount(), "nodes", g.NodeCount()}, nil
}

func (r *Runner) pick(ctx context.Context, s *State) ([]any, error) {
	filled, err := picker.FillUnresolved(s.Graph, s.Root)
	if err != nil {
		return nil, err
	}
	p := r.Picker
	if p == nil {
		p = picker.LCSC{}
	}
	n, err := picker.PickRecursively(s.Graph, s.Root, p)
	if err != nil {
		return nil, err
	}
	s.Picked = n
	return []any{"parts", n, "filled", filled}, nil
}

// validate fails on structural errors and keeps warnings.
func validate(ctx context.Context, s *State) ([]any, error) {
	var warns int
	for _, d := range graph.Validate(s.Graph) {
		switch d.Severity {
		case graph.SeverityError:
			return nil, perr.New(perr.ErrCodeExternalService, "validation: %s", d.Message).At(d.Path)
		case graph.SeverityWarning:
			warns++
			s.warn(d.Error())
		}
	}
	return []any{"warnings", warns}, nil
}

func (r *Runner) transform(ctx context.Context, s *State) ([]any, error) {
	board := pcb.NewBoard()
	if err := app.TransformPCB(s.Graph, s.Card, board); err != nil {
		return nil, err
	}
	if err := r.Script.Apply(s.Graph, s.Root); err != nil {
		return nil, err
	}
	s.Board = board
	var levels, routes int
	if r.Script != nil {
		levels, routes = len(r.Script.Levels), len(r.Script.Routes)
	}
	return []any{"zones", len(board.Zones), "levels", levels, "routes", routes}, nil
}

func resolve(ctx context.Context, s *State) ([]any, error) {
	pl, err := layout.Resolve(s.Graph, s.Root, nil)
	if err != nil {
		return nil, err
	}
	s.Placements = pl
	return []any{"placed", len(pl)}, nil
}

func plan(ctx context.Context, s *State) ([]any, error) {
	s.Plan = routing.Plan(s.Graph)
	for _, w := range s.Plan.Warnings() {
		s.warn(perr.UserMessage(w))
	}
	return []any{"entries", len(s.Plan.Entries), "conflicts", len(s.Plan.Conflicts)}, nil
}

func assemble(ctx context.Context, s *State) ([]any, error) {
	s.Designators = pcb.AssignDesignators(s.Graph, s.Root)
	b, err := pcb.Build(s.Board, pcb.Input{
		Graph:       s.Graph,
		Root:        s.Root,
		Placements:  s.Placements,
		Plan:        s.Plan,
		Designators: s.Designators,
	})
	if err != nil {
		return nil, err
	}
	s.Board = b
	s.warn(b.Warnings...)
	return []any{"footprints", len(b.Footprints), "nets", len(b.Nets) - 1,
		"tracks", len(b.Tracks), "vias", len(b.Vias)}, nil
}

func writeNetlist(path string) func(context.Context, *State) ([]any, error) {
	return func(ctx context.Context, s *State) ([]any, error) {
		err := writeFile(path, func(w io.Writer) error { return pcb.WriteNetlist(w, s.Board) })
		if err != nil {
			return nil, err
		}
		s.Artifacts = append(s.Artifacts, path)
		return []any{"path", path}, nil
	}
}

func writeBoard(path string) func(context.Context, *State) ([]any, error) {
	return func(ctx context.Context, s *State) ([]any, error) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, perr.Wrap(perr.ErrCodeExternalService, err, "write %s", path)
		}
		w := &pcb.KiCadWriter{Path: path, Generator: buildinfo.Generator()}
		if err := pcb.Transformer(w).Transform(ctx, s.Board); err != nil {
			return nil, err
		}
		s.Artifacts = append(s.Artifacts, path)
		return []any{"path", path}, nil
	}
}

func writeBOM(path string) func(context.Context, *State) ([]any, error) {
	return func(ctx context.Context, s *State) ([]any, error) {
		rows := bom.Rows(s.Graph, s.Root, s.Designators)
		if err := writeFile(path, func(w io.Writer) error { return bom.Write(w, rows) }); err != nil {
			return nil, err
		}
		s.Artifacts = append(s.Artifacts, path)
		return []any{"path", path, "rows", len(rows)}, nil
	}
}

func writeSVG(path string) func(context.Context, *State) ([]any, error) {
	return func(ctx context.Context, s *State) ([]any, error) {
		svg, err := render.SVG(ctx, s.Graph, s.Root)
		if err != nil {
			return nil, perr.Wrap(perr.ErrCodeExternalService, err, "visualize")
		}
		if err := writeFile(path, func(w io.Writer) error {
			_, err := w.Write(svg)
			return err
		}); err != nil {
			return nil, err
		}
		s.Artifacts = append(s.Artifacts, path)
		return []any{"path", path, "bytes", len(svg)}, nil
	}
}

// writeFile creates path and its directory and fills it with fn.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	fail := func(err error) error {
		return perr.Wrap(perr.ErrCodeExternalService, err, "write %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fail(err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fail(err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fail(cerr)
		}
	}()
	if err := fn(f); err != nil {
		return fail(fmt.Errorf("encode: %w", err))
	}
	return nil
}
