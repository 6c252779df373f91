package graph

import "fmt"

// RouteKind enumerates routing intent shapes.
type RouteKind int

const (
	RouteManual           RouteKind = iota // literal track geometry
	RouteViaToLayer                        // drop a via to another copper layer
	RouteGreedyDirectLine                  // straight connection, no fixed geometry
)

func (k RouteKind) String() string {
	switch k {
	case RouteManual:
		return "manual"
	case RouteViaToLayer:
		return "via-to-layer"
	case RouteGreedyDirectLine:
		return "greedy-direct-line"
	default:
		return fmt.Sprintf("RouteKind(%d)", int(k))
	}
}

// MarshalText lets route kinds serialise by name.
func (k RouteKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Track is one polyline of a manual path. Points are relative to the frame
// of the node carrying the intent.
type Track struct {
	Width  float64 `json:"width" yaml:"width"`
	Layer  string  `json:"layer" yaml:"layer"`
	Points []Vec2  `json:"points" yaml:"points"`
}

// ManualPath binds a set of tracks to one interface.
type ManualPath struct {
	Interface NodeID  `json:"-" yaml:"-"`
	Tracks    []Track `json:"tracks" yaml:"tracks"`
}

// RoutingIntent describes requested physical routing behaviour for a net,
// interface or module. Seq is stamped by AttachRouting and orders equal
// priorities.
type RoutingIntent struct {
	Kind     RouteKind    `json:"kind" yaml:"kind"`
	Priority float64      `json:"priority" yaml:"priority"`
	Seq      int          `json:"seq" yaml:"seq"`
	Paths    []ManualPath `json:"paths,omitempty" yaml:"paths,omitempty"`
	Layer    string       `json:"layer,omitempty" yaml:"layer,omitempty"`
	Offset   Vec2         `json:"offset" yaml:"offset"`
}

// ManualRoute returns a manual-path intent.
func ManualRoute(paths ...ManualPath) RoutingIntent {
	return RoutingIntent{Kind: RouteManual, Paths: paths}
}

// ViaToLayer returns an intent placing a via to layer at offset from each
// pad of the target.
func ViaToLayer(layer string, offset Vec2) RoutingIntent {
	return RoutingIntent{Kind: RouteViaToLayer, Layer: layer, Offset: offset}
}

// GreedyDirectLine returns an intent deferring to a direct-connect
// heuristic.
func GreedyDirectLine() RoutingIntent {
	return RoutingIntent{Kind: RouteGreedyDirectLine}
}

// WithPriority returns a copy of ri with the given priority.
func (ri RoutingIntent) WithPriority(p float64) RoutingIntent {
	ri.Priority = p
	return ri
}

func (ri RoutingIntent) String() string {
	switch ri.Kind {
	case RouteViaToLayer:
		return fmt.Sprintf("%s(%s, %g,%g) p=%g", ri.Kind, ri.Layer, ri.Offset.X, ri.Offset.Y, ri.Priority)
	case RouteManual:
		return fmt.Sprintf("%s(%d paths) p=%g", ri.Kind, len(ri.Paths), ri.Priority)
	}
	return fmt.Sprintf("%s p=%g", ri.Kind, ri.Priority)
}
