// Package app composes the pixelcard: an LED matrix spelling a text,
// powered from a USB-C receptacle, on a credit-card sized board.
package app

import (
	"fmt"

	"github.com/chazu/pixelcard/pkg/font"
)

// Credit card dimensions in mm.
const (
	CardWidth        = 85.6
	CardHeight       = 53.98
	CardCornerRadius = 3.18
)

// Options configures the card.
type Options struct {
	Text    string
	Contact string // silkscreen lines on the back, separated by \n
	Font    *font.Font

	FontSize   float64
	Margin     float64
	ScaleToFit bool
	Density    float64

	Width        float64
	Height       float64
	CornerRadius float64
}

// DefaultOptions returns the standard card.
func DefaultOptions() Options {
	return Options{
		Text:         "HELLO",
		Font:         font.Default(),
		FontSize:     20,
		Margin:       4,
		Density:      font.DefaultDensity,
		Width:        CardWidth,
		Height:       CardHeight,
		CornerRadius: CardCornerRadius,
	}
}

// TextBox is the area available to the LED text.
func (o Options) TextBox() (w, h float64) {
	return o.Width - 2*o.Margin, o.Height - 2*o.Margin
}

// Validate rejects options no card can be built from.
func (o Options) Validate() error {
	switch {
	case o.Font == nil:
		return fmt.Errorf("no font")
	case o.FontSize <= 0:
		return fmt.Errorf("font size must be positive, got %g", o.FontSize)
	case o.Width <= 0 || o.Height <= 0:
		return fmt.Errorf("board size must be positive, got %gx%g", o.Width, o.Height)
	case o.Margin < 0:
		return fmt.Errorf("margin must not be negative, got %g", o.Margin)
	case o.CornerRadius < 0 || 2*o.CornerRadius > min(o.Width, o.Height):
		return fmt.Errorf("corner radius %g does not fit a %gx%g board", o.CornerRadius, o.Width, o.Height)
	}
	if w, h := o.TextBox(); w <= 0 || h <= 0 {
		return fmt.Errorf("margin %g leaves no room for text", o.Margin)
	}
	return nil
}
