package cli

import (
	"github.com/spf13/cobra"

	"github.com/chazu/pixelcard/pkg/report"
)

func (c *CLI) layoutCommand() *cobra.Command {
	var (
		card   cardFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the resolved placements and routing plan",
		Long: `Layout runs the build without writing files and prints every module's
position, the routing plan and any routing conflicts.`,
		Example: `  pixelcard layout --text "HI"
  pixelcard layout --format yaml --script card.lisp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := report.ValidateFormat(format); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			card.apply(cmd, &cfg)

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, cfg)
			if err != nil {
				return err
			}
			res, err := runner.Design(ctx)
			if err != nil {
				return err
			}
			rep := report.New(res.Graph, res.Root, res.Placements, res.Plan, res.Designators)
			return rep.Write(c.Out, format)
		},
	}

	card.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", report.FormatJSON, "output format: json or yaml")
	return cmd
}
