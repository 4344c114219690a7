package engine

import "github.com/danieljhkim/gqlpick/internal/selection"

// ResolveRequest represents a request to resolve the active endpoint.
type ResolveRequest struct {
	// Endpoint is an explicitly supplied endpoint; it wins over everything
	Endpoint string

	// Subscription is an explicitly supplied subscription endpoint
	Subscription string

	// PageURL is the hosting page address whose query string is consulted
	PageURL string
}

// CheckRequest represents a one-shot reachability check.
type CheckRequest struct {
	// Endpoint is the candidate URL
	Endpoint string
}

// UseEndpointRequest represents a request to validate and remember an endpoint.
type UseEndpointRequest struct {
	// Endpoint is the candidate URL
	Endpoint string
}

// AddWorkspaceRequest represents a request to save an endpoint as a workspace.
type AddWorkspaceRequest struct {
	// Endpoint is the candidate URL; it must be reachable
	Endpoint string
}

// RemoveWorkspaceRequest represents a request to delete a saved workspace.
type RemoveWorkspaceRequest struct {
	// Endpoint identifies the workspace
	Endpoint string
}

// ImportWorkspacesRequest represents a request to inject a registry snapshot.
type ImportWorkspacesRequest struct {
	// Data is a JSON snapshot of the form {"workspaces": {...}}
	Data []byte

	// Merge keeps existing workspaces not named in Data
	Merge bool
}

// SelectionRequest represents a request to start an interactive selection.
type SelectionRequest struct {
	// Initial is the starting draft, usually a resolved endpoint
	Initial string

	// OnResolved receives the confirmed endpoint
	OnResolved func(endpoint string)

	// OnChange receives every state change
	OnChange func(selection.Snapshot)
}
