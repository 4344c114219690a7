package state

import (
	"github.com/hashicorp/go-hclog"

	"github.com/danieljhkim/gqlpick/internal/logging"
)

// SavedEndpoint is one entry of the saved-endpoints list. Entries were
// usable workspaces before, so Valid is always true.
type SavedEndpoint struct {
	Endpoint      string `json:"endpoint"`
	Valid         bool   `json:"valid"`
	DocumentCount int    `json:"documentCount"`
}

// RegistryLoader is the read side of RegistryStore.
type RegistryLoader interface {
	Load() (Registry, error)
}

// Lister projects the persisted registry into saved endpoints.
type Lister struct {
	registry RegistryLoader
	logger   hclog.Logger
}

// NewLister creates a Lister reading from registry.
func NewLister(registry RegistryLoader, logger hclog.Logger) *Lister {
	return &Lister{
		registry: registry,
		logger:   logging.OrNull(logger),
	}
}

// List returns the saved endpoints sorted by URL. The "" key is never
// listed. An absent or unreadable registry yields an empty list.
func (l *Lister) List() []SavedEndpoint {
	registry, err := l.registry.Load()
	if err != nil {
		l.logger.Warn("ignoring unreadable workspace registry", "error", err)
		return []SavedEndpoint{}
	}
	if len(registry) == 0 {
		l.logger.Debug("no saved workspaces state")
		return []SavedEndpoint{}
	}

	l.logger.Debug("saved state", "workspaces", len(registry))

	endpoints := registry.Endpoints()
	list := make([]SavedEndpoint, 0, len(endpoints))
	for _, endpoint := range endpoints {
		list = append(list, SavedEndpoint{
			Endpoint:      endpoint,
			Valid:         true,
			DocumentCount: registry[endpoint].DocumentCount(),
		})
	}
	return list
}
