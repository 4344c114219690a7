package cli

import (
	"context"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/gqlpick/internal/engine"
)

var (
	openEndpoint  string
	openPageURL   string
	openNoBrowser bool

	// openBrowser is replaced in tests
	openBrowser = browser.OpenURL
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the playground for the active endpoint",
	Long: `Resolve the active endpoint and open the playground URL in the browser.

When nothing resolves, an interactive selection starts first. The playground
URL is built from playground_url in config.yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		resolved, err := eng.Resolve(ctx, &engine.ResolveRequest{
			Endpoint: openEndpoint,
			PageURL:  openPageURL,
		})
		if err != nil {
			return err
		}

		endpoint := resolved.Endpoint
		if endpoint == "" {
			endpoint, err = runSelect(ctx, eng, "", cmd.InOrStdin())
			if err != nil {
				return err
			}
		}

		target, err := eng.PlaygroundURL(endpoint, resolved.SubscriptionEndpoint)
		if err != nil {
			return err
		}

		if jsonOutput {
			if err := outputJSON(map[string]string{"endpoint": endpoint, "url": target}); err != nil {
				return err
			}
		} else {
			PrintLabelValue("Endpoint", endpoint)
			PrintLabelValue("Playground", target)
		}

		if openNoBrowser {
			return nil
		}
		return openBrowser(target)
	},
}

func init() {
	openCmd.Flags().StringVar(&openEndpoint, "endpoint", "", "Explicit endpoint URL")
	openCmd.Flags().StringVar(&openPageURL, "url", "", "Page URL whose query string is consulted")
	openCmd.Flags().BoolVar(&openNoBrowser, "no-browser", false, "Print the playground URL without opening it")
}
