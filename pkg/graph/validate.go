package graph

import (
	"fmt"
	"sort"
)

// Severity indicates whether a finding blocks the build or is advisory.
type Severity int

const (
	SeverityError   Severity = iota // blocks the build
	SeverityWarning                 // advisory
	SeverityInfo                    // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalText lets severities serialise by name.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Diagnostic describes a single finding about the design.
type Diagnostic struct {
	NodeID   NodeID   `json:"-" yaml:"-"`
	Path     string   `json:"path,omitempty" yaml:"path,omitempty"`
	Message  string   `json:"message" yaml:"message"`
	Severity Severity `json:"severity" yaml:"severity"`
}

func (d Diagnostic) Error() string {
	if d.Path == "" {
		return fmt.Sprintf("[%s] %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Path, d.Message)
}

// Validate runs the structural checks on g and returns every finding,
// including those recorded while the graph was built. It never mutates g.
func Validate(g *Graph) []Diagnostic {
	var out []Diagnostic
	out = append(out, validateNets(g)...)
	out = append(out, validatePaths(g)...)
	out = append(out, validateDecoupling(g)...)
	out = append(out, g.diags...)
	return out
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func validateNets(g *Graph) []Diagnostic {
	var out []Diagnostic
	for _, net := range g.nets {
		if len(g.NetMembers(net)) == 0 {
			out = append(out, Diagnostic{
				NodeID:   net,
				Path:     g.Path(net),
				Message:  fmt.Sprintf("net %q has no members", g.NetName(net)),
				Severity: SeverityError,
			})
		}
	}
	return out
}

// validatePaths guards against duplicate full names. Node creation already
// rejects duplicate siblings, so a finding here means the arena was corrupted.
func validatePaths(g *Graph) []Diagnostic {
	seen := make(map[string]NodeID, len(g.nodes))
	var out []Diagnostic
	for _, n := range g.nodes {
		p := g.Path(n.ID)
		if prev, dup := seen[p]; dup {
			out = append(out, Diagnostic{
				NodeID:   n.ID,
				Path:     p,
				Message:  fmt.Sprintf("duplicate path (also node %d)", prev),
				Severity: SeverityError,
			})
			continue
		}
		seen[p] = n.ID
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func validateDecoupling(g *Graph) []Diagnostic {
	var out []Diagnostic
	for _, n := range g.nodes {
		d := n.Traits.Decoupled
		if d == nil {
			continue
		}
		c := g.Node(d.Capacitor)
		if c == nil || c.Kind != KindModule {
			out = append(out, Diagnostic{
				NodeID:   n.ID,
				Path:     g.Path(n.ID),
				Message:  "decoupling capacitor does not exist",
				Severity: SeverityError,
			})
		}
	}
	return out
}
