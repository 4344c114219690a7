package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/danieljhkim/gqlpick/internal/state"
)

// ListSaved returns the saved endpoints. A missing or unreadable registry
// yields an empty list.
func (e *Engine) ListSaved(ctx context.Context) (*ListSavedResult, error) {
	return &ListSavedResult{Workspaces: e.lister.List()}, nil
}

// AddWorkspace saves an empty workspace for a reachable endpoint. An
// existing workspace is left untouched.
func (e *Engine) AddWorkspace(ctx context.Context, req *AddWorkspaceRequest) (*AddWorkspaceResult, error) {
	check, err := e.requireReachable(ctx, req.Endpoint)
	if err != nil {
		return nil, err
	}

	registry, err := e.registry.Load()
	if err != nil {
		return nil, err
	}
	if _, ok := registry[check.Endpoint]; ok {
		return &AddWorkspaceResult{Endpoint: check.Endpoint}, nil
	}

	record := state.WorkspaceRecord{Docs: state.NewDocuments()}
	if err := e.registry.Put(check.Endpoint, record); err != nil {
		return nil, err
	}

	e.logger.Info("added workspace", "endpoint", check.Endpoint)
	return &AddWorkspaceResult{Endpoint: check.Endpoint, Created: true}, nil
}

// RemoveWorkspace deletes the saved workspace for an endpoint.
func (e *Engine) RemoveWorkspace(ctx context.Context, req *RemoveWorkspaceRequest) error {
	endpoint := strings.TrimSpace(req.Endpoint)
	if endpoint == "" {
		return fmt.Errorf("%w: endpoint is required", ErrValidation)
	}

	if err := e.registry.Remove(endpoint); err != nil {
		if errors.Is(err, state.ErrWorkspaceNotFound) {
			return fmt.Errorf("%w: workspace %s", ErrNotFound, endpoint)
		}
		return err
	}

	e.logger.Info("removed workspace", "endpoint", endpoint)
	return nil
}

type workspacesSnapshot struct {
	Workspaces *state.Registry `json:"workspaces"`
}

// ImportWorkspaces injects a registry snapshot, replacing the stored one
// unless Merge is set.
func (e *Engine) ImportWorkspaces(ctx context.Context, req *ImportWorkspacesRequest) (*ImportWorkspacesResult, error) {
	var snapshot workspacesSnapshot
	if err := json.Unmarshal(req.Data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: invalid snapshot: %v", ErrValidation, err)
	}
	if snapshot.Workspaces == nil {
		return nil, fmt.Errorf("%w: snapshot has no workspaces field", ErrValidation)
	}
	incoming := *snapshot.Workspaces

	registry := state.Registry{}
	if req.Merge {
		existing, err := e.registry.Load()
		if err != nil && !errors.Is(err, state.ErrCorruptRegistry) {
			return nil, err
		}
		if err != nil {
			e.logger.Warn("replacing unreadable workspace registry", "error", err)
		}
		for endpoint, record := range existing {
			registry[endpoint] = record
		}
	}
	for endpoint, record := range incoming {
		registry[endpoint] = record
	}

	if err := e.registry.Inject(registry); err != nil {
		return nil, err
	}

	e.logger.Info("imported workspaces", "imported", len(incoming), "total", len(registry), "merge", req.Merge)

	return &ImportWorkspacesResult{
		Imported: len(incoming),
		Total:    len(registry),
	}, nil
}
