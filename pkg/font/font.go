// Package font converts text into silkscreen polygons and LED grids.
//
// Glyph outlines come from TrueType fonts parsed with
// github.com/golang/freetype/truetype. Coordinates are millimetres with y
// pointing down and the top of the first line box at y = 0.
package font

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Names of the embedded faces.
const (
	RegularName = "Go-Regular"
	BoldName    = "Go-Bold"
)

// Font is a parsed TrueType face.
type Font struct {
	Name string

	tt         *truetype.Font
	unitsPerEm float64
	ascent     float64 // font units above the baseline
	descent    float64 // font units below the baseline, positive
}

// Parse parses TrueType data.
func Parse(name string, data []byte) (*Font, error) {
	tt, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	upe := tt.FUnitsPerEm()
	if upe <= 0 {
		return nil, fmt.Errorf("parse font %s: invalid units per em %d", name, upe)
	}
	b := tt.Bounds(unitScale(tt))
	return &Font{
		Name:       name,
		tt:         tt,
		unitsPerEm: float64(upe),
		ascent:     float64(b.Max.Y) / 64,
		descent:    -float64(b.Min.Y) / 64,
	}, nil
}

// Load reads a TrueType file. The font is named after the file.
func Load(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return Parse(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), data)
}

// Default returns the embedded Go Regular face.
func Default() *Font {
	return mustParse(RegularName, goregular.TTF)
}

// Bold returns the embedded Go Bold face.
func Bold() *Font {
	return mustParse(BoldName, gobold.TTF)
}

// Open returns an embedded face by name or loads a font file.
func Open(nameOrPath string) (*Font, error) {
	switch nameOrPath {
	case "", RegularName:
		return Default(), nil
	case BoldName:
		return Bold(), nil
	}
	return Load(nameOrPath)
}

func mustParse(name string, data []byte) *Font {
	f, err := Parse(name, data)
	if err != nil {
		panic(err)
	}
	return f
}

// IsBold reports whether the face name marks a bold weight.
func (f *Font) IsBold() bool {
	return strings.Contains(f.Name, "-Bold")
}

// unitScale loads glyphs at one pixel per font unit, so 26.6 values
// divided by 64 are font units.
func unitScale(tt *truetype.Font) fixed.Int26_6 {
	return fixed.Int26_6(tt.FUnitsPerEm() << 6)
}

// lineHeight is the distance between baselines, in font units.
func (f *Font) lineHeight() float64 {
	return f.ascent + f.descent
}
