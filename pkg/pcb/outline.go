package pcb

import "math"

// Line is a straight edge segment.
type Line struct {
	Start, End Position
}

// Arc is a circular edge segment through Mid.
type Arc struct {
	Start, Mid, End Position
}

// Edges returns the outline as lines and corner arcs, clockwise from the
// top edge.
func (o Outline) Edges() ([]Line, []Arc) {
	w, h, r := o.Width, o.Height, o.CornerRadius
	lines := []Line{
		{Position{r, 0}, Position{w - r, 0}},
		{Position{w, r}, Position{w, h - r}},
		{Position{w - r, h}, Position{r, h}},
		{Position{0, h - r}, Position{0, r}},
	}
	if r <= 0 {
		return lines, nil
	}
	d := r - r/math.Sqrt2
	arcs := []Arc{
		{Position{w - r, 0}, Position{w - d, d}, Position{w, r}},
		{Position{w, h - r}, Position{w - d, h - d}, Position{w - r, h}},
		{Position{r, h}, Position{d, h - d}, Position{0, h - r}},
		{Position{0, r}, Position{d, d}, Position{r, 0}},
	}
	return lines, arcs
}
