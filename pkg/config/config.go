// Package config loads pixelcard.toml.
//
// A missing file is not an error: every field has a default matching the
// standard credit card build. Values from the file replace defaults field
// by field; command line flags are applied on top by the caller.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/chazu/pixelcard/pkg/app"
	perr "github.com/chazu/pixelcard/pkg/errors"
	"github.com/chazu/pixelcard/pkg/font"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "pixelcard.toml"

// Config is the full build configuration.
type Config struct {
	Card  Card  `toml:"card"`
	Board Board `toml:"board"`
	Build Build `toml:"build"`
}

// Card configures the LED text and the back side contact lines.
type Card struct {
	Text       string  `toml:"text"`
	Contact    string  `toml:"contact"`
	Font       string  `toml:"font"` // embedded face name or a .ttf path
	FontSize   float64 `toml:"font_size"`
	Margin     float64 `toml:"margin"`
	ScaleToFit bool    `toml:"scale_to_fit"`
	Density    float64 `toml:"density"`
}

// Board is the outline in mm.
type Board struct {
	Width        float64 `toml:"width"`
	Height       float64 `toml:"height"`
	CornerRadius float64 `toml:"corner_radius"`
}

// Build selects the artifacts. File names are relative to Dir; an empty
// name skips the artifact.
type Build struct {
	Dir       string `toml:"dir"`
	PCB       string `toml:"pcb"`
	Netlist   string `toml:"netlist"`
	BOM       string `toml:"bom"`
	Visualize string `toml:"visualize"`
	Script    string `toml:"script"`
}

// Default returns the standard build.
func Default() Config {
	opts := app.DefaultOptions()
	return Config{
		Card: Card{
			Text:     opts.Text,
			Font:     font.RegularName,
			FontSize: opts.FontSize,
			Margin:   opts.Margin,
			Density:  opts.Density,
		},
		Board: Board{
			Width:        app.CardWidth,
			Height:       app.CardHeight,
			CornerRadius: app.CardCornerRadius,
		},
		Build: Build{
			Dir:     "build",
			PCB:     "pixelcard.kicad_pcb",
			Netlist: "pixelcard.net",
			BOM:     "pixelcard_bom.csv",
		},
	}
}

// Load reads path over the defaults. When path is empty DefaultFile is
// tried and silently skipped if absent.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, perr.Wrap(perr.ErrCodeInvalidConfig, err, "read config")
	}
	if err := Decode(string(data), &cfg); err != nil {
		return cfg, perr.Wrap(perr.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, cfg.Validate()
}

// Decode parses TOML into cfg. Keys the config does not know are errors.
func Decode(data string, cfg *Config) error {
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return perr.New(perr.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate rejects sizes no card can be built from.
func (c Config) Validate() error {
	switch {
	case c.Card.FontSize <= 0:
		return invalid("card.font_size must be positive, got %g", c.Card.FontSize)
	case c.Card.Margin < 0:
		return invalid("card.margin must not be negative, got %g", c.Card.Margin)
	case c.Card.Density <= 0 || c.Card.Density > 1:
		return invalid("card.density must be in (0, 1], got %g", c.Card.Density)
	case c.Board.Width <= 0 || c.Board.Height <= 0:
		return invalid("board size must be positive, got %gx%g", c.Board.Width, c.Board.Height)
	case c.Board.CornerRadius < 0:
		return invalid("board.corner_radius must not be negative, got %g", c.Board.CornerRadius)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return perr.New(perr.ErrCodeInvalidConfig, format, args...)
}

// Options converts the card and board sections into app options.
func (c Config) Options() (app.Options, error) {
	f, err := font.Open(c.Card.Font)
	if err != nil {
		return app.Options{}, perr.Wrap(perr.ErrCodeInvalidConfig, err, "card.font")
	}
	opts := app.Options{
		Text:         c.Card.Text,
		Contact:      c.Card.Contact,
		Font:         f,
		FontSize:     c.Card.FontSize,
		Margin:       c.Card.Margin,
		ScaleToFit:   c.Card.ScaleToFit,
		Density:      c.Card.Density,
		Width:        c.Board.Width,
		Height:       c.Board.Height,
		CornerRadius: c.Board.CornerRadius,
	}
	if err := opts.Validate(); err != nil {
		return opts, perr.Wrap(perr.ErrCodeInvalidConfig, err, "card")
	}
	return opts, nil
}

// Path returns the location of an artifact, or "" when it is disabled.
func (b Build) Path(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) || b.Dir == "" {
		return name
	}
	return filepath.Join(b.Dir, name)
}
