package cli

import (
	"os"

	"github.com/spf13/cobra"

	perr "github.com/chazu/pixelcard/pkg/errors"
	"github.com/chazu/pixelcard/pkg/render"
)

func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		card   cardFlags
		output string
		dot    bool
	)

	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Render the composed module tree",
		Long: `Visualize composes the card and renders its module tree with Graphviz.
Nets are drawn as dashed ellipses linked to the modules they join.`,
		Example: `  pixelcard visualize -o tree.svg
  pixelcard visualize --dot -o tree.dot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			card.apply(cmd, &cfg)

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			runner, err := c.newRunner(ctx, cfg)
			if err != nil {
				return err
			}
			res, err := runner.Compose(ctx)
			if err != nil {
				return err
			}

			var data []byte
			if dot {
				s, err := render.DOT(res.Graph, res.Root)
				if err != nil {
					return err
				}
				data = []byte(s)
			} else if data, err = render.SVG(ctx, res.Graph, res.Root); err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = c.Out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return perr.Wrap(perr.ErrCodeExternalService, err, "write %s", output)
			}
			logger.Info("Wrote", "file", output)
			return nil
		},
	}

	card.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&dot, "dot", false, "write Graphviz DOT instead of SVG")
	return cmd
}
