// Package engine provides the core logic behind gqlpick commands.
//
// The engine package is the orchestration layer between the CLI or HTTP
// API and the lower-level packages. It resolves the active endpoint, runs
// reachability checks, starts selection sessions, and manages the saved
// workspaces and the last used slot.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Resolve/Check/UseEndpoint: endpoint resolution and validation
//   - Workspaces: listing, removal and import of saved workspaces
package engine

import (
	"github.com/hashicorp/go-hclog"

	"github.com/danieljhkim/gqlpick/internal/clock"
	"github.com/danieljhkim/gqlpick/internal/config"
	"github.com/danieljhkim/gqlpick/internal/logging"
	"github.com/danieljhkim/gqlpick/internal/probe"
	"github.com/danieljhkim/gqlpick/internal/state"
)

// Engine orchestrates all gqlpick operations.
// It is the main API surface called by the CLI and the HTTP server.
type Engine struct {
	kv       state.KV
	registry *state.RegistryStore
	lister   *state.Lister
	prober   probe.Prober
	clock    clock.Clock
	settings *config.Settings
	logger   hclog.Logger
}

// New creates a new Engine with the given dependencies. A nil settings
// uses config.DefaultSettings.
func New(
	kv state.KV,
	prober probe.Prober,
	clk clock.Clock,
	settings *config.Settings,
	logger hclog.Logger,
) *Engine {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	logger = logging.OrNull(logger)
	registry := state.NewRegistryStore(kv)

	return &Engine{
		kv:       kv,
		registry: registry,
		lister:   state.NewLister(registry, logger.Named("lister")),
		prober:   prober,
		clock:    clk,
		settings: settings,
		logger:   logger,
	}
}

// Settings returns the settings the engine was built with.
func (e *Engine) Settings() *config.Settings {
	return e.settings
}

// lastUsed reads the last used slot. Read failures count as unset.
func (e *Engine) lastUsed() string {
	value, ok, err := e.kv.Get(state.LastEndpointKey)
	if err != nil {
		e.logger.Warn("failed to read last used endpoint", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return value
}
