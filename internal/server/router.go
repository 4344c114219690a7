package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"

	"github.com/danieljhkim/gqlpick/internal/logging"
)

// NewRouter creates the HTTP router with all API endpoints.
func NewRouter(eng Engine, logger hclog.Logger) http.Handler {
	logger = logging.OrNull(logger)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Recovery(logger))
	r.Use(Logger(logger))
	r.Use(CORS)
	r.Use(JSONContentType)

	h := NewHandler(eng, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Get("/resolve", h.Resolve)
		r.Post("/check", h.Check)

		r.Get("/workspaces", h.ListWorkspaces)
		r.Post("/workspaces", h.AddWorkspace)
		r.Put("/workspaces", h.ImportWorkspaces)
		r.Delete("/workspaces", h.RemoveWorkspace)

		r.Get("/last", h.GetLast)
		r.Put("/last", h.PutLast)
		r.Delete("/last", h.ClearLast)
	})

	return r
}
