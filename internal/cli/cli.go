// Package cli implements the pixelcard command-line interface.
//
// # Commands
//
//   - build: compose the card and write the board, netlist, BOM and
//     optionally an SVG of the module tree
//   - layout: print the resolved placements and routing plan
//   - leds: report how many LEDs a text needs
//   - visualize: render the module tree
//
// Every command reads pixelcard.toml (or --config) and an optional board
// script (--script). All commands support --verbose (-v) for debug-level
// logging; the logger travels in the command's context.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chazu/pixelcard/pkg/buildinfo"
	"github.com/chazu/pixelcard/pkg/config"
	"github.com/chazu/pixelcard/pkg/engine"
	perr "github.com/chazu/pixelcard/pkg/errors"
	"github.com/chazu/pixelcard/pkg/pipeline"
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer // command output; logs go to the logger

	configPath string
	scriptPath string
	verbose    bool
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), Out: os.Stdout}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "pixelcard",
		Short:        "Pixelcard builds LED business card PCBs",
		Long:         `Pixelcard composes a credit-card sized board that spells a text in LEDs, powered from USB-C, and writes the KiCad board, netlist and assembly BOM.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.Logger.SetLevel(log.DebugLevel)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")
	pf.StringVar(&c.scriptPath, "script", "", "board script overriding card settings, layout and routing")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.ledsCommand())
	root.AddCommand(c.visualizeCommand())
	return root
}

// Execute runs the root command with ctx.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// cardFlags are the card settings every command accepts.
type cardFlags struct {
	text    string
	contact string
}

func (f *cardFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.text, "text", "", "text spelled in LEDs")
	cmd.Flags().StringVar(&f.contact, "contact", "", `contact lines on the back, separated by \n`)
}

func (f *cardFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("text") {
		cfg.Card.Text = f.text
	}
	if cmd.Flags().Changed("contact") {
		cfg.Card.Contact = f.contact
	}
}

// loadConfig reads the config file named by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// newRunner evaluates the board script, if any, and returns a runner for
// cfg. Flags take precedence over the config; the script overrides both.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config) (*pipeline.Runner, error) {
	logger := loggerFromContext(ctx)
	path := c.scriptPath
	if path == "" {
		path = cfg.Build.Script
	}
	var script *engine.Script
	if path != "" {
		var err error
		if script, err = loadScript(path); err != nil {
			return nil, err
		}
		logger.Debug("loaded board script", "path", path,
			"levels", len(script.Levels), "routes", len(script.Routes))
	}
	return pipeline.NewRunner(cfg, script, logger), nil
}

func loadScript(path string) (*engine.Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrap(perr.ErrCodeInvalidScript, err, "read script")
	}
	script, evalErrs, err := engine.NewEngine().Evaluate(string(src))
	if err != nil {
		return nil, perr.Wrap(perr.ErrCodeInvalidScript, err, "evaluate script")
	}
	if len(evalErrs) > 0 {
		return nil, perr.New(perr.ErrCodeInvalidScript, "%s", evalErrs[0].Error()).At(path)
	}
	return script, nil
}
