package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"github.com/danieljhkim/gqlpick/internal/engine"
)

// maxBodyBytes bounds request bodies, including imported snapshots.
const maxBodyBytes = 8 << 20

// Engine is the subset of *engine.Engine the API serves.
type Engine interface {
	Resolve(ctx context.Context, req *engine.ResolveRequest) (*engine.ResolveResult, error)
	Check(ctx context.Context, req *engine.CheckRequest) (*engine.CheckResult, error)
	ListSaved(ctx context.Context) (*engine.ListSavedResult, error)
	UseEndpoint(ctx context.Context, req *engine.UseEndpointRequest) (*engine.UseEndpointResult, error)
	LastUsed(ctx context.Context) (*engine.LastUsedResult, error)
	ClearLastUsed(ctx context.Context) error
	AddWorkspace(ctx context.Context, req *engine.AddWorkspaceRequest) (*engine.AddWorkspaceResult, error)
	RemoveWorkspace(ctx context.Context, req *engine.RemoveWorkspaceRequest) error
	ImportWorkspaces(ctx context.Context, req *engine.ImportWorkspacesRequest) (*engine.ImportWorkspacesResult, error)
}

// Handler serves the API endpoints.
type Handler struct {
	engine Engine
	logger hclog.Logger
}

// NewHandler creates a Handler.
func NewHandler(eng Engine, logger hclog.Logger) *Handler {
	return &Handler{engine: eng, logger: logger}
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Healthy bool `json:"healthy"`
}

type endpointBody struct {
	Endpoint string `json:"endpoint"`
}

// Health reports liveness.
// GET /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSONData(w, HealthResponse{Healthy: true})
}

// Resolve returns the active endpoint.
// GET /api/v1/resolve?url=&endpoint=&subscription=
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.engine.Resolve(r.Context(), &engine.ResolveRequest{
		Endpoint:     q.Get("endpoint"),
		Subscription: q.Get("subscription"),
		PageURL:      q.Get("url"),
	})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSONData(w, result)
}

// Check probes one endpoint.
// POST /api/v1/check
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var body endpointBody
	if !decodeBody(w, r, &body) {
		return
	}

	result, err := h.engine.Check(r.Context(), &engine.CheckRequest{Endpoint: body.Endpoint})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSONData(w, result)
}

// ListWorkspaces returns the saved endpoints.
// GET /api/v1/workspaces
func (h *Handler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.ListSaved(r.Context())
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSONData(w, result)
}

// ImportWorkspaces injects a registry snapshot.
// PUT /api/v1/workspaces?merge=true
func (h *Handler) ImportWorkspaces(w http.ResponseWriter, r *http.Request) {
	merge := false
	if raw := r.URL.Query().Get("merge"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			WriteInvalidRequest(w, "merge must be a boolean")
			return
		}
		merge = parsed
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		WriteInvalidRequest(w, "Failed to read request body: "+err.Error())
		return
	}

	result, err := h.engine.ImportWorkspaces(r.Context(), &engine.ImportWorkspacesRequest{Data: data, Merge: merge})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSONData(w, result)
}

// AddWorkspace saves a reachable endpoint as an empty workspace.
// POST /api/v1/workspaces
func (h *Handler) AddWorkspace(w http.ResponseWriter, r *http.Request) {
	var body endpointBody
	if !decodeBody(w, r, &body) {
		return
	}

	result, err := h.engine.AddWorkspace(r.Context(), &engine.AddWorkspaceRequest{Endpoint: body.Endpoint})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

// RemoveWorkspace deletes one saved workspace.
// DELETE /api/v1/workspaces?endpoint=
func (h *Handler) RemoveWorkspace(w http.ResponseWriter, r *http.Request) {
	err := h.engine.RemoveWorkspace(r.Context(), &engine.RemoveWorkspaceRequest{
		Endpoint: r.URL.Query().Get("endpoint"),
	})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetLast returns the last used endpoint.
// GET /api/v1/last
func (h *Handler) GetLast(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.LastUsed(r.Context())
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSONData(w, result)
}

// PutLast validates an endpoint and remembers it.
// PUT /api/v1/last
func (h *Handler) PutLast(w http.ResponseWriter, r *http.Request) {
	var body endpointBody
	if !decodeBody(w, r, &body) {
		return
	}

	result, err := h.engine.UseEndpoint(r.Context(), &engine.UseEndpointRequest{Endpoint: body.Endpoint})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSONData(w, result)
}

// ClearLast forgets the last used endpoint.
// DELETE /api/v1/last
func (h *Handler) ClearLast(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.ClearLastUsed(r.Context()); err != nil {
		h.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		WriteInvalidRequest(w, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrValidation), errors.Is(err, engine.ErrNoEndpoint):
		WriteInvalidRequest(w, err.Error())
	case errors.Is(err, engine.ErrNotFound):
		WriteNotFound(w, err.Error())
	case errors.Is(err, engine.ErrNotReachable):
		WriteNotReachable(w, err.Error())
	default:
		h.logger.Error("request failed", "error", err)
		WriteInternalError(w, err.Error())
	}
}
