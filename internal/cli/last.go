package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var lastClear bool

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Show or clear the last used endpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		ctx := context.Background()

		if lastClear {
			if err := eng.ClearLastUsed(ctx); err != nil {
				return err
			}
			if jsonOutput {
				return outputJSON(map[string]bool{"cleared": true})
			}
			PrintSuccess("Cleared last used endpoint")
			return nil
		}

		result, err := eng.LastUsed(ctx)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if !result.Set {
			PrintEmptyState("No endpoint used yet")
			return nil
		}
		PrintInfo(result.Endpoint)
		return nil
	},
}

func init() {
	lastCmd.Flags().BoolVar(&lastClear, "clear", false, "Forget the last used endpoint")
}
