package engine

import "github.com/danieljhkim/gqlpick/internal/state"

// ResolveResult represents the resolved endpoint pair.
type ResolveResult struct {
	Endpoint             string `json:"endpoint"`
	SubscriptionEndpoint string `json:"subscriptionEndpoint"`

	// Source names the precedence tier that produced Endpoint
	Source string `json:"source"`
}

// CheckResult represents the outcome of a one-shot check.
type CheckResult struct {
	Endpoint string `json:"endpoint"`

	// Validation is "unknown", "valid" or "invalid"
	Validation string `json:"validation"`

	// Probed is false when the endpoint is not URL-shaped and no request was sent
	Probed bool `json:"probed"`

	// StatusCode is set when the endpoint answered with status >= 400
	StatusCode int `json:"statusCode,omitempty"`

	// Message explains an invalid or unknown result
	Message string `json:"message,omitempty"`
}

// ListSavedResult represents the saved endpoints.
type ListSavedResult struct {
	Workspaces []state.SavedEndpoint `json:"workspaces"`
}

// UseEndpointResult represents a remembered endpoint.
type UseEndpointResult struct {
	Endpoint string `json:"endpoint"`

	// Previous is the last used endpoint before this one
	Previous string `json:"previous,omitempty"`
}

// LastUsedResult represents the last used slot.
type LastUsedResult struct {
	Endpoint string `json:"endpoint"`

	// Set is false when nothing was remembered yet
	Set bool `json:"set"`
}

// AddWorkspaceResult represents a saved workspace.
type AddWorkspaceResult struct {
	Endpoint string `json:"endpoint"`

	// Created is false when the workspace already existed
	Created bool `json:"created"`
}

// ImportWorkspacesResult represents an injected snapshot.
type ImportWorkspacesResult struct {
	// Imported is the number of workspaces read from the snapshot
	Imported int `json:"imported"`

	// Total is the number of workspaces stored afterwards
	Total int `json:"total"`
}
