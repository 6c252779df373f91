package cli

import (
	"github.com/spf13/cobra"

	"github.com/chazu/pixelcard/pkg/config"
)

type buildOpts struct {
	card      cardFlags
	outDir    string
	noPCB     bool
	noNetlist bool
	noBOM     bool
	visualize string
}

func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compose the card and write the board files",
		Long: `Build composes the card, picks parts, lays out and routes the board, then
writes the KiCad PCB, the netlist and the assembly BOM to the build directory.`,
		Example: `  pixelcard build --text "HELLO" --contact 'Jane Doe\njane@example.com'
  pixelcard build --script card.lisp -o out --visualize tree.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd, &cfg)
			return c.runBuild(cmd, cfg)
		},
	}

	opts.card.register(cmd)
	cmd.Flags().StringVarP(&opts.outDir, "output", "o", "", "build directory (default from config)")
	cmd.Flags().BoolVar(&opts.noPCB, "no-pcb", false, "skip the KiCad board file")
	cmd.Flags().BoolVar(&opts.noNetlist, "no-netlist", false, "skip the netlist")
	cmd.Flags().BoolVar(&opts.noBOM, "no-bom", false, "skip the assembly BOM")
	cmd.Flags().StringVar(&opts.visualize, "visualize", "", "also write an SVG of the module tree")
	cmd.Flags().Lookup("visualize").NoOptDefVal = "tree.svg"
	return cmd
}

func (o *buildOpts) apply(cmd *cobra.Command, cfg *config.Config) {
	o.card.apply(cmd, cfg)
	if o.outDir != "" {
		cfg.Build.Dir = o.outDir
	}
	if o.noPCB {
		cfg.Build.PCB = ""
	}
	if o.noNetlist {
		cfg.Build.Netlist = ""
	}
	if o.noBOM {
		cfg.Build.BOM = ""
	}
	if o.visualize != "" {
		cfg.Build.Visualize = o.visualize
	}
}

func (c *CLI) runBuild(cmd *cobra.Command, cfg config.Config) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	res, err := runner.Build(ctx)
	if err != nil {
		return err
	}

	for _, path := range res.Artifacts {
		logger.Info("Wrote", "file", path)
	}
	prog.done("Built card")
	return nil
}
