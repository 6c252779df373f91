// Package report serialises the resolved layout and routing plan of a card.
package report

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/chazu/pixelcard/pkg/graph"
	"github.com/chazu/pixelcard/pkg/layout"
	"github.com/chazu/pixelcard/pkg/pcb"
	"github.com/chazu/pixelcard/pkg/routing"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidateFormat checks that format is one Write supports.
func ValidateFormat(format string) error {
	switch format {
	case FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("invalid format: %q (must be one of: json, yaml)", format)
}

// Placement is one placed module.
type Placement struct {
	Path       string        `json:"path" yaml:"path"`
	Type       string        `json:"type" yaml:"type"`
	Designator string        `json:"designator,omitempty" yaml:"designator,omitempty"`
	Level      string        `json:"level,omitempty" yaml:"level,omitempty"`
	Source     layout.Source `json:"source" yaml:"source"`
	Relative   graph.Point   `json:"relative" yaml:"relative"`
	Absolute   graph.Point   `json:"absolute" yaml:"absolute"`
}

// Report is the serialisable view of a resolved card.
type Report struct {
	Root       string             `json:"root" yaml:"root"`
	Placements []Placement        `json:"placements" yaml:"placements"`
	Routes     []routing.Entry    `json:"routes" yaml:"routes"`
	Conflicts  []routing.Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	Warnings   []string           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// New builds a report. Placements are sorted by path; routes keep plan
// order, which is the order they are applied in.
func New(g *graph.Graph, root graph.NodeID, pl layout.Placements, plan *routing.RoutePlan, des pcb.Designators) *Report {
	r := &Report{Root: g.Path(root)}
	for _, id := range pl.Sorted(g) {
		p := pl[id]
		n := g.Node(id)
		r.Placements = append(r.Placements, Placement{
			Path:       g.Path(id),
			Type:       n.Type,
			Designator: des[id],
			Level:      p.Level,
			Source:     p.Source,
			Relative:   p.Relative,
			Absolute:   p.Absolute,
		})
	}
	if plan != nil {
		r.Routes = plan.Entries
		r.Conflicts = plan.Conflicts
		for _, w := range plan.Warnings() {
			r.Warnings = append(r.Warnings, w.Error())
		}
	}
	return r
}

// Write encodes r in format.
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return ValidateFormat(format)
}
