package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/gqlpick/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the endpoint resolution, check and workspace operations as a JSON
API under /api/v1 for browser-hosted playgrounds.

The address defaults to listen_addr from config.yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = rt.engine.Settings().ListenAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if !jsonOutput {
			PrintInfo("Serving API on http://" + addr + "/api/v1")
		}
		return server.New(addr, rt.engine, rt.logger.Named("api")).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (host:port)")
}
