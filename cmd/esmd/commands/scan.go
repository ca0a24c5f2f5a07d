package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func (c *CLI) newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan entries for dependencies and print the classification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := c.app.Scan(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			optimizable := state.Optimizable()
			fmt.Fprintf(out, "Optimizable dependencies (%d):\n", len(optimizable))
			for _, specifier := range sortedKeys(optimizable) {
				fmt.Fprintf(out, "  %s -> %s\n", specifier, optimizable[specifier])
			}

			missing := state.Missing()
			if len(missing) > 0 {
				fmt.Fprintf(out, "Missing imports (%d):\n", len(missing))
				for _, specifier := range sortedKeys(missing) {
					fmt.Fprintf(out, "  %s (imported by %s)\n", specifier, missing[specifier])
				}
			}

			fmt.Fprintf(out, "Scanned %d files.\n", state.FileCount())
			return nil
		},
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
