package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/pixelcard/pkg/graph"
	"github.com/chazu/pixelcard/pkg/layout"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites board script source before passing it to
// zygomys. It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: route-via -> route_via
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
//  3. Line comments: ; and ;; become //.
//
// All transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// zygomys uses // for line comments.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec2 wraps a graph.Vec2.
type sexpVec2 struct {
	vec graph.Vec2
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %g %g)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

// sexpPoint wraps a graph.Point.
type sexpPoint struct {
	pt graph.Point
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(point %g %g :rot %g :layer :%s)", p.pt.X, p.pt.Y, p.pt.Rot, p.pt.Layer)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpLevel wraps a layout level. Levels register at the top of the
// script's hierarchy when created and leave it when another level takes
// them as :children.
type sexpLevel struct {
	level    layout.Level
	consumed bool
}

func (l *sexpLevel) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(level %q %s)", l.level.Type, l.level.Rule)
}
func (l *sexpLevel) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// known rejects keywords a builtin does not take, so typos fail loudly.
func (a kwArgs) known(fn string, names ...string) error {
	for k := range a.kw {
		found := false
		for _, n := range names {
			if k == n {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s: unknown keyword :%s", fn, k)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_top) and plain strings ("top").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toLayer converts :top, :bottom or :none to a graph.Layer.
func toLayer(s zygo.Sexp) (graph.Layer, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return graph.LayerNone, fmt.Errorf("expected layer keyword (:top, :bottom, :none): %w", err)
	}
	return graph.ParseLayer(name)
}

// toVec2 extracts a Vec2 from a sexpVec2.
func toVec2(s zygo.Sexp) (graph.Vec2, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	return graph.Vec2{}, fmt.Errorf("expected vec2, got %T (%s)", s, s.SexpString(nil))
}

// toPoint extracts a Point from a sexpPoint. A vec2 is accepted as a point
// with no rotation on the inherited layer.
func toPoint(s zygo.Sexp) (graph.Point, error) {
	switch v := s.(type) {
	case *sexpPoint:
		return v.pt, nil
	case *sexpVec2:
		return graph.Point{X: v.vec.X, Y: v.vec.Y}, nil
	}
	return graph.Point{}, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

func floatKW(pa kwArgs, fn, key string, dst **float64) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	*dst = &f
	return nil
}

func stringKW(pa kwArgs, fn, key string, dst **string) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	s, err := toString(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	*dst = &s
	return nil
}

// ---------------------------------------------------------------------------
// Script accumulation
// ---------------------------------------------------------------------------

// scriptBuilder collects declarations while a script runs.
type scriptBuilder struct {
	card   CardSettings
	board  BoardSettings
	levels []*sexpLevel
	routes []Route
}

// script freezes the declarations. Levels taken as children of another
// level are not part of the top hierarchy.
func (sb *scriptBuilder) script() *Script {
	s := &Script{Card: sb.card, Board: sb.board}
	for _, l := range sb.levels {
		if !l.consumed {
			s.Levels = append(s.Levels, l.level)
		}
	}
	s.Routes = append(s.Routes, sb.routes...)
	return s
}

// levelArgs reads the type name and :children shared by level and extrude.
func (sb *scriptBuilder) levelArgs(fn string, pa kwArgs) (string, layout.Hierarchy, error) {
	if len(pa.positional) != 1 {
		return "", nil, fmt.Errorf("%s requires a module type name", fn)
	}
	typ, err := toString(pa.positional[0])
	if err != nil {
		return "", nil, fmt.Errorf("%s: type: %w", fn, err)
	}
	if typ == "" {
		return "", nil, fmt.Errorf("%s: empty module type", fn)
	}

	var children layout.Hierarchy
	if v, ok := pa.kw["children"]; ok {
		items, err := sexpListToSlice(v)
		if err != nil {
			return "", nil, fmt.Errorf("%s: children: %w", fn, err)
		}
		for _, item := range items {
			l, ok := item.(*sexpLevel)
			if !ok {
				return "", nil, fmt.Errorf("%s: children: expected level, got %T", fn, item)
			}
			if l.consumed {
				return "", nil, fmt.Errorf("%s: children: level %q already nested", fn, l.level.Type)
			}
			l.consumed = true
			children = append(children, l.level)
		}
	}
	return typ, children, nil
}

func (sb *scriptBuilder) addLevel(l layout.Level) zygo.Sexp {
	sl := &sexpLevel{level: l}
	sb.levels = append(sb.levels, sl)
	return sl
}

func priorityKW(pa kwArgs, fn string, intent *graph.RoutingIntent) error {
	v, ok := pa.kw["priority"]
	if !ok {
		return nil
	}
	p, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: priority: %w", fn, err)
	}
	*intent = intent.WithPriority(p)
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the board script builtins into a zygomys
// environment. Declarations accumulate in sb.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sb *scriptBuilder) {

	// -----------------------------------------------------------------------
	// (card :text "HI" :contact "a\nb" :font-size 18 :margin 4
	//       :scale-to-fit false :density 0.13)
	// -----------------------------------------------------------------------
	env.AddFunction("card", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.known("card", "text", "contact", "font-size", "margin", "scale-to-fit", "density"); err != nil {
			return zygo.SexpNull, err
		}
		c := sb.card
		for _, err := range []error{
			stringKW(pa, "card", "text", &c.Text),
			stringKW(pa, "card", "contact", &c.Contact),
			floatKW(pa, "card", "font-size", &c.FontSize),
			floatKW(pa, "card", "margin", &c.Margin),
			floatKW(pa, "card", "density", &c.Density),
		} {
			if err != nil {
				return zygo.SexpNull, err
			}
		}
		if v, ok := pa.kw["scale-to-fit"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("card: scale-to-fit: %w", err)
			}
			c.ScaleToFit = &b
		}
		sb.card = c
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (board :width 85.6 :height 53.98 :corner-radius 3.18)
	// -----------------------------------------------------------------------
	env.AddFunction("board", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.known("board", "width", "height", "corner-radius"); err != nil {
			return zygo.SexpNull, err
		}
		b := sb.board
		for _, err := range []error{
			floatKW(pa, "board", "width", &b.Width),
			floatKW(pa, "board", "height", &b.Height),
			floatKW(pa, "board", "corner-radius", &b.CornerRadius),
		} {
			if err != nil {
				return zygo.SexpNull, err
			}
		}
		sb.board = b
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (vec2 1 2)
	// -----------------------------------------------------------------------
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
		}
		return &sexpVec2{vec: graph.Vec2{X: x, Y: y}}, nil
	})

	// -----------------------------------------------------------------------
	// (point 4.75 2.4 :rot 90 :layer :top)
	// -----------------------------------------------------------------------
	env.AddFunction("point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.known("point", "rot", "layer"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("point requires x and y, got %d positional arguments", len(pa.positional))
		}
		var pt graph.Point
		var err error
		if pt.X, err = toFloat64(pa.positional[0]); err != nil {
			return zygo.SexpNull, fmt.Errorf("point: x: %w", err)
		}
		if pt.Y, err = toFloat64(pa.positional[1]); err != nil {
			return zygo.SexpNull, fmt.Errorf("point: y: %w", err)
		}
		if v, ok := pa.kw["rot"]; ok {
			if pt.Rot, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("point: rot: %w", err)
			}
		}
		if v, ok := pa.kw["layer"]; ok {
			if pt.Layer, err = toLayer(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("point: layer: %w", err)
			}
		}
		return &sexpPoint{pt: pt}, nil
	})

	// -----------------------------------------------------------------------
	// (level "USB_C_5V_PSU_16p_Receptical" :at (point 80 30 :rot 90)
	//        :children (list (level ...)))
	// -----------------------------------------------------------------------
	env.AddFunction("level", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.known("level", "at", "children"); err != nil {
			return zygo.SexpNull, err
		}
		typ, children, err := sb.levelArgs("level", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		var at graph.Point
		if v, ok := pa.kw["at"]; ok {
			if at, err = toPoint(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("level: at: %w", err)
			}
		}
		return sb.addLevel(layout.Level{Type: typ, Rule: layout.Absolute{Point: at}, Children: children}), nil
	})

	// -----------------------------------------------------------------------
	// (extrude "Resistor" :base (point 4.75 -1.25 :rot 90) :spacing (vec2 0 2.5)
	//          :rot-step 15)
	// -----------------------------------------------------------------------
	env.AddFunction("extrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.known("extrude", "base", "spacing", "rot-step", "children"); err != nil {
			return zygo.SexpNull, err
		}
		typ, children, err := sb.levelArgs("extrude", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		var rule layout.Extrude
		if v, ok := pa.kw["base"]; ok {
			if rule.Base, err = toPoint(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("extrude: base: %w", err)
			}
		}
		v, ok := pa.kw["spacing"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("extrude: :spacing is required")
		}
		if rule.Spacing, err = toVec2(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("extrude: spacing: %w", err)
		}
		if v, ok := pa.kw["rot-step"]; ok {
			if rule.RotStep, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("extrude: rot-step: %w", err)
			}
			rule.DynamicRotation = true
		}
		return sb.addLevel(layout.Level{Type: typ, Rule: rule, Children: children}), nil
	})

	// -----------------------------------------------------------------------
	// (route-via "vbus" :layer "B.Cu" :offset (vec2 0.8 0.3) :priority 1)
	// -----------------------------------------------------------------------
	env.AddFunction("route_via", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.known("route-via", "layer", "offset", "priority"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("route-via requires a net name")
		}
		net, err := toString(pa.positional[0])
		if err != nil || net == "" {
			return zygo.SexpNull, fmt.Errorf("route-via: net: expected a net name")
		}
		v, ok := pa.kw["layer"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("route-via: :layer is required")
		}
		layer, err := toString(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("route-via: layer: %w", err)
		}
		var offset graph.Vec2
		if v, ok := pa.kw["offset"]; ok {
			if offset, err = toVec2(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("route-via: offset: %w", err)
			}
		}
		intent := graph.ViaToLayer(layer, offset)
		if err := priorityKW(pa, "route-via", &intent); err != nil {
			return zygo.SexpNull, err
		}
		sb.routes = append(sb.routes, Route{Net: net, Intent: intent})
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (route-path "usb_psu.usb" :interface "vbus[0]" :width 0.1 :layer "F.Cu"
	//             :points (list (vec2 -2.5 -2.5) (vec2 0 -1)) :priority 2)
	// -----------------------------------------------------------------------
	env.AddFunction("route_path", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.known("route-path", "interface", "width", "layer", "points", "priority"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("route-path requires a module path")
		}
		path, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("route-path: path: %w", err)
		}
		var iface string
		if err := stringArg(pa, "route-path", "interface", &iface); err != nil {
			return zygo.SexpNull, err
		}
		track := graph.Track{Width: 0.2}
		if err := stringArg(pa, "route-path", "layer", &track.Layer); err != nil {
			return zygo.SexpNull, err
		}
		if v, ok := pa.kw["width"]; ok {
			if track.Width, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("route-path: width: %w", err)
			}
			if track.Width <= 0 {
				return zygo.SexpNull, fmt.Errorf("route-path: width must be positive, got %g", track.Width)
			}
		}
		v, ok := pa.kw["points"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("route-path: :points is required")
		}
		items, err := sexpListToSlice(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("route-path: points: %w", err)
		}
		for _, item := range items {
			p, err := toVec2(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("route-path: point: %w", err)
			}
			track.Points = append(track.Points, p)
		}
		if len(track.Points) < 2 {
			return zygo.SexpNull, fmt.Errorf("route-path: a track needs at least 2 points, got %d", len(track.Points))
		}
		intent := graph.ManualRoute(graph.ManualPath{Interface: graph.NoNode, Tracks: []graph.Track{track}})
		if err := priorityKW(pa, "route-path", &intent); err != nil {
			return zygo.SexpNull, err
		}
		sb.routes = append(sb.routes, Route{Path: path, Interface: iface, Intent: intent})
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (route-direct "text.leds[0]" :priority 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("route_direct", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.known("route-direct", "priority"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("route-direct requires a module path")
		}
		path, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("route-direct: path: %w", err)
		}
		intent := graph.GreedyDirectLine()
		if err := priorityKW(pa, "route-direct", &intent); err != nil {
			return zygo.SexpNull, err
		}
		sb.routes = append(sb.routes, Route{Path: path, Intent: intent})
		return zygo.SexpNull, nil
	})
}

// stringArg reads a required string keyword.
func stringArg(pa kwArgs, fn, key string, dst *string) error {
	v, ok := pa.kw[key]
	if !ok {
		return fmt.Errorf("%s: :%s is required", fn, key)
	}
	s, err := toString(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	*dst = s
	return nil
}
