package graph

import (
	"fmt"
	"math"
)

// ConstraintKind distinguishes parameter constraint shapes.
type ConstraintKind int

const (
	ConstraintTBD      ConstraintKind = iota // not yet determined
	ConstraintAny                            // explicitly unconstrained
	ConstraintConstant                       // single numeric value
	ConstraintEnum                           // single enumerated value
	ConstraintRange                          // closed numeric interval
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintTBD:
		return "tbd"
	case ConstraintAny:
		return "any"
	case ConstraintConstant:
		return "constant"
	case ConstraintEnum:
		return "enum"
	case ConstraintRange:
		return "range"
	default:
		return fmt.Sprintf("ConstraintKind(%d)", int(k))
	}
}

// Constraint is the allowed value set of a parameter.
type Constraint struct {
	Kind  ConstraintKind
	Value float64 // Constant
	Enum  string  // Enum
	Min   float64 // Range
	Max   float64 // Range
}

// TBD returns the undetermined constraint.
func TBD() Constraint { return Constraint{Kind: ConstraintTBD} }

// Any returns the unconstrained constraint.
func Any() Constraint { return Constraint{Kind: ConstraintAny} }

// Constant returns a single-value numeric constraint.
func Constant(v float64) Constraint { return Constraint{Kind: ConstraintConstant, Value: v} }

// Enum returns a single enumerated value constraint.
func Enum(s string) Constraint { return Constraint{Kind: ConstraintEnum, Enum: s} }

// Range returns the closed interval [lo, hi]. Bounds are swapped if given
// in reverse.
func Range(lo, hi float64) Constraint {
	if lo > hi {
		lo, hi = hi, lo
	}
	return Constraint{Kind: ConstraintRange, Min: lo, Max: hi}
}

func (c Constraint) String() string {
	switch c.Kind {
	case ConstraintTBD:
		return "TBD"
	case ConstraintAny:
		return "ANY"
	case ConstraintConstant:
		return fmt.Sprintf("%g", c.Value)
	case ConstraintEnum:
		return c.Enum
	case ConstraintRange:
		return fmt.Sprintf("[%g, %g]", c.Min, c.Max)
	}
	return c.Kind.String()
}

// IsResolved reports whether the constraint has been narrowed from TBD.
func (c Constraint) IsResolved() bool { return c.Kind != ConstraintTBD }

// Intersect returns the narrowest constraint satisfying both c and o.
// ok is false when the intersection is empty.
func (c Constraint) Intersect(o Constraint) (Constraint, bool) {
	switch {
	case c.Kind == ConstraintTBD:
		return o, true
	case o.Kind == ConstraintTBD:
		return c, true
	case c.Kind == ConstraintAny:
		return o, true
	case o.Kind == ConstraintAny:
		return c, true
	}

	if c.Kind == ConstraintEnum || o.Kind == ConstraintEnum {
		if c.Kind == o.Kind && c.Enum == o.Enum {
			return c, true
		}
		return Constraint{}, false
	}

	switch {
	case c.Kind == ConstraintConstant && o.Kind == ConstraintConstant:
		if approxEqual(c.Value, o.Value) {
			return c, true
		}
	case c.Kind == ConstraintConstant && o.Kind == ConstraintRange:
		if o.containsValue(c.Value) {
			return c, true
		}
	case c.Kind == ConstraintRange && o.Kind == ConstraintConstant:
		if c.containsValue(o.Value) {
			return o, true
		}
	case c.Kind == ConstraintRange && o.Kind == ConstraintRange:
		lo, hi := math.Max(c.Min, o.Min), math.Min(c.Max, o.Max)
		if lo <= hi {
			return Range(lo, hi), true
		}
	}
	return Constraint{}, false
}

func (c Constraint) containsValue(v float64) bool {
	return (v >= c.Min || approxEqual(v, c.Min)) && (v <= c.Max || approxEqual(v, c.Max))
}

func approxEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}
