// Package pipeline runs the card build: compose, pick, validate, lay out,
// route, and write the artifacts.
//
// Each stage reads and extends a State. The Runner owns the graph for the
// duration of a run; nothing is shared between runs.
package pipeline

import (
	"time"

	"github.com/chazu/pixelcard/pkg/app"
	"github.com/chazu/pixelcard/pkg/graph"
	"github.com/chazu/pixelcard/pkg/kernel"
	"github.com/chazu/pixelcard/pkg/layout"
	"github.com/chazu/pixelcard/pkg/pcb"
	"github.com/chazu/pixelcard/pkg/routing"
)

// State is the work in progress of one run.
type State struct {
	Options     app.Options
	Graph       *graph.Graph
	Card        *app.PixelCard
	Root        graph.NodeID
	Placements  layout.Placements
	Plan        *routing.RoutePlan
	Designators pcb.Designators
	Board       *pcb.Board

	Picked    int
	Artifacts []string
	Warnings  []string
}

func (s *State) warn(msgs ...string) {
	s.Warnings = append(s.Warnings, msgs...)
}

// Polygons returns the outlines of the LED text, in text-box coordinates.
func (s *State) Polygons() []kernel.Polygon {
	if s.Card == nil || s.Card.Text == nil || s.Card.Text.Layout == nil {
		return nil
	}
	return s.Card.Text.Layout.Polygons()
}

// LEDCount returns the number of LEDs spelling the text.
func (s *State) LEDCount() int {
	if s.Card == nil || s.Card.Text == nil || s.Card.Text.Layout == nil {
		return 0
	}
	return s.Card.Text.Layout.Count()
}

// StageStats records one stage's run.
type StageStats struct {
	Name     string
	Duration time.Duration
}

// Result is a finished run.
type Result struct {
	*State
	Stats []StageStats
}

// Duration is the total time spent in stages.
func (r *Result) Duration() time.Duration {
	var d time.Duration
	for _, s := range r.Stats {
		d += s.Duration
	}
	return d
}
