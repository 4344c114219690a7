package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/gqlpick/internal/engine"
)

var (
	resolveEndpoint     string
	resolveSubscription string
	resolvePageURL      string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Show the active endpoint and where it came from",
	Long: `Resolve the active GraphQL endpoint.

Precedence, highest first:
  1. --endpoint
  2. the "endpoint" query parameter of --url
  3. the last used endpoint

The subscription endpoint comes from --subscription or the "subscription"
query parameter of --url.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		result, err := eng.Resolve(context.Background(), &engine.ResolveRequest{
			Endpoint:     resolveEndpoint,
			Subscription: resolveSubscription,
			PageURL:      resolvePageURL,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if result.Endpoint == "" {
			PrintEmptyState("No endpoint resolved. Run 'gqlpick select' to pick one.")
			return nil
		}

		PrintSection("Endpoint")
		PrintLabelValue("Endpoint", result.Endpoint)
		if result.SubscriptionEndpoint != "" {
			PrintLabelValue("Subscription", result.SubscriptionEndpoint)
		}
		PrintLabelValue("Source", result.Source)
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveEndpoint, "endpoint", "", "Explicit endpoint URL")
	resolveCmd.Flags().StringVar(&resolveSubscription, "subscription", "", "Explicit subscription endpoint URL")
	resolveCmd.Flags().StringVar(&resolvePageURL, "url", "", "Page URL whose query string is consulted")
}
