package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

func (c *CLI) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dev server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := c.app.Serve(cmd.Context())
			if errors.Is(err, context.Canceled) {
				// Normal shutdown via signal.
				return nil
			}
			return err
		},
	}
}
