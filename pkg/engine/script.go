package engine

import (
	"github.com/chazu/pixelcard/pkg/app"
	perr "github.com/chazu/pixelcard/pkg/errors"
	"github.com/chazu/pixelcard/pkg/graph"
	"github.com/chazu/pixelcard/pkg/layout"
)

// CardSettings overrides card options. Nil fields keep the current value.
type CardSettings struct {
	Text       *string
	Contact    *string
	FontSize   *float64
	Margin     *float64
	Density    *float64
	ScaleToFit *bool
}

// BoardSettings overrides the board outline.
type BoardSettings struct {
	Width        *float64
	Height       *float64
	CornerRadius *float64
}

// Route is a routing intent declared by a script. A non-empty Net targets
// that net; otherwise Path is a module path below the card root, empty for
// the root itself. Interface selects a manual path's interface below Path.
type Route struct {
	Net       string
	Path      string
	Interface string
	Intent    graph.RoutingIntent
}

// Target describes the route target for messages.
func (r Route) Target() string {
	switch {
	case r.Net != "":
		return "net " + r.Net
	case r.Path == "":
		return "root"
	}
	return r.Path
}

// Script is the result of evaluating a board script. It is not modified
// after evaluation.
type Script struct {
	Card   CardSettings
	Board  BoardSettings
	Levels layout.Hierarchy
	Routes []Route
}

// Empty reports whether the script declares nothing.
func (s *Script) Empty() bool {
	return s == nil || (s.Card == CardSettings{} && s.Board == BoardSettings{} &&
		len(s.Levels) == 0 && len(s.Routes) == 0)
}

// Configure applies the card and board overrides to o.
func (s *Script) Configure(o *app.Options) {
	if s == nil {
		return
	}
	setString(&o.Text, s.Card.Text)
	setString(&o.Contact, s.Card.Contact)
	setFloat(&o.FontSize, s.Card.FontSize)
	setFloat(&o.Margin, s.Card.Margin)
	setFloat(&o.Density, s.Card.Density)
	if s.Card.ScaleToFit != nil {
		o.ScaleToFit = *s.Card.ScaleToFit
	}
	setFloat(&o.Width, s.Board.Width)
	setFloat(&o.Height, s.Board.Height)
	setFloat(&o.CornerRadius, s.Board.CornerRadius)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// Apply attaches the script's layout levels and routes to the card below
// root. Script levels are placed ahead of the hierarchy already attached to
// root, so they win when both match a module. Routes are attached in
// declaration order after every built-in intent.
func (s *Script) Apply(g *graph.Graph, root graph.NodeID) error {
	if s == nil {
		return nil
	}
	if len(s.Levels) > 0 {
		h := append(layout.Hierarchy(nil), s.Levels...)
		if n := g.Node(root); n != nil && n.Traits.Layout != nil {
			if existing, ok := n.Traits.Layout.Rule.(layout.Hierarchy); ok {
				h = append(h, existing...)
			}
		}
		if err := g.Attach(root, h.Trait()); err != nil {
			return err
		}
	}

	for _, r := range s.Routes {
		target, intent, err := resolve(g, root, r)
		if err != nil {
			return err
		}
		if err := g.AttachRouting(target, intent); err != nil {
			return err
		}
	}
	return nil
}

// resolve finds the node a route targets. Manual paths are bound to their
// interface on a copy, leaving the script untouched.
func resolve(g *graph.Graph, root graph.NodeID, r Route) (graph.NodeID, graph.RoutingIntent, error) {
	intent := r.Intent
	if r.Net != "" {
		id, ok := g.NetByName(r.Net)
		if !ok {
			return graph.NoNode, intent, perr.New(perr.ErrCodeInvalidScript, "route targets unknown net %q", r.Net)
		}
		return id, intent, nil
	}

	target := root
	if r.Path != "" {
		id, ok := g.FindFrom(root, r.Path)
		if !ok {
			return graph.NoNode, intent, perr.New(perr.ErrCodeInvalidScript,
				"route targets unknown module %q", r.Path).At(g.Path(root))
		}
		target = id
	}
	if intent.Kind != graph.RouteManual {
		return target, intent, nil
	}

	iface, ok := g.FindFrom(target, r.Interface)
	if !ok || g.Node(iface).Kind != graph.KindInterface {
		return graph.NoNode, intent, perr.New(perr.ErrCodeInvalidScript,
			"route path has no interface %q", r.Interface).At(g.Path(target))
	}
	intent.Paths = append([]graph.ManualPath(nil), intent.Paths...)
	for i := range intent.Paths {
		intent.Paths[i].Interface = iface
	}
	return target, intent, nil
}
