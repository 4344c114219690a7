// Package server exposes the engine as a JSON HTTP API for browser-hosted
// tools that cannot reach the local workspace store directly.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/danieljhkim/gqlpick/internal/logging"
)

// shutdownTimeout bounds graceful shutdown after ctx is cancelled.
const shutdownTimeout = 5 * time.Second

// Server is the API server.
type Server struct {
	httpServer *http.Server
	logger     hclog.Logger
}

// New creates a Server listening on addr.
func New(addr string, eng Engine, logger hclog.Logger) *Server {
	logger = logging.OrNull(logger)
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(eng, logger),
			ReadHeaderTimeout: 15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
