package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/gqlpick/internal/engine"
)

var useCmd = &cobra.Command{
	Use:   "use <endpoint>",
	Short: "Validate an endpoint and remember it as last used",
	Long: `Probe an endpoint and, if it answers, store it as the last used endpoint.

Nothing is stored when the endpoint is malformed or unreachable.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		result, err := eng.UseEndpoint(context.Background(), &engine.UseEndpointRequest{Endpoint: args[0]})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSuccess(fmt.Sprintf("Last used endpoint set to: %s", result.Endpoint))
		if result.Previous != "" && result.Previous != result.Endpoint {
			PrintLabelValue("Previous", result.Previous)
		}
		return nil
	},
}
