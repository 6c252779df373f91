package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chazu/pixelcard/pkg/config"
	"github.com/chazu/pixelcard/pkg/engine"
	perr "github.com/chazu/pixelcard/pkg/errors"
	"github.com/chazu/pixelcard/pkg/picker"
)

// RootName is the name of the card's root module.
const RootName = "app"

// Stage is one step of a run. Run returns key/value pairs describing what
// it did; they are logged with the stage message.
type Stage struct {
	Name    string
	Message string
	Run     func(ctx context.Context, s *State) ([]any, error)
}

// Runner executes stages against a configuration.
//
// The Runner holds no results; the same Runner may be run again and each
// run composes a fresh graph.
type Runner struct {
	Config config.Config
	Script *engine.Script // optional board script
	Picker picker.Picker
	Logger *log.Logger
}

// NewRunner returns a runner for cfg. A nil logger uses log.Default and a
// nil script declares nothing.
func NewRunner(cfg config.Config, script *engine.Script, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Config: cfg, Script: script, Picker: picker.LCSC{}, Logger: logger}
}

// Compose runs the composition stage only.
func (r *Runner) Compose(ctx context.Context) (*Result, error) {
	return r.Run(ctx, r.composeStages())
}

// Design runs every stage up to the assembled board without writing files.
func (r *Runner) Design(ctx context.Context) (*Result, error) {
	return r.Run(ctx, r.designStages())
}

// Build runs the full pipeline and writes the configured artifacts.
func (r *Runner) Build(ctx context.Context) (*Result, error) {
	return r.Run(ctx, append(r.designStages(), r.artifactStages()...))
}

// Run executes stages in order, stopping at the first error or when ctx
// is cancelled.
func (r *Runner) Run(ctx context.Context, stages []Stage) (*Result, error) {
	res := &Result{State: &State{}}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		start := time.Now()
		kv, err := st.Run(ctx, res.State)
		d := time.Since(start)
		res.Stats = append(res.Stats, StageStats{Name: st.Name, Duration: d})
		if err != nil {
			r.Logger.Debug("stage failed", "stage", st.Name, "duration", d)
			return res, wrapStage(st.Name, err)
		}
		r.Logger.Info(st.Message, append(kv, "duration", d)...)
	}
	for _, w := range res.Warnings {
		r.Logger.Warn(w)
	}
	return res, nil
}

// wrapStage keeps coded errors and cancellation as they are and codes
// anything else as internal.
func wrapStage(stage string, err error) error {
	if perr.GetCode(err) != "" || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return perr.Wrap(perr.ErrCodeInternal, err, "%s", stage)
}
