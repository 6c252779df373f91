package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) ledsCommand() *cobra.Command {
	var card cardFlags

	cmd := &cobra.Command{
		Use:   "leds",
		Short: "Report how many LEDs a text needs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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
			res, err := runner.Compose(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.Out, "leds: %d\npolygons: %d\n", res.LEDCount(), len(res.Polygons()))
			return err
		},
	}

	card.register(cmd)
	return cmd
}
