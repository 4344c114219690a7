package cli

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/danieljhkim/gqlpick/internal/clock"
	"github.com/danieljhkim/gqlpick/internal/config"
	"github.com/danieljhkim/gqlpick/internal/engine"
	"github.com/danieljhkim/gqlpick/internal/fsops"
	"github.com/danieljhkim/gqlpick/internal/logging"
	"github.com/danieljhkim/gqlpick/internal/probe"
	"github.com/danieljhkim/gqlpick/internal/state"
)

// runtime bundles the engine with the logger it was built from.
type runtime struct {
	engine *engine.Engine
	logger hclog.Logger
}

// newRuntime creates the engine with real implementations of all dependencies.
func newRuntime() (*runtime, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	fs := fsops.NewOsFS()
	settings, err := config.LoadSettings(fs, paths.Config)
	if err != nil {
		return nil, err
	}

	logger := logging.New("gqlpick", settings.LogLevel, stderr)

	kv := state.NewFileKV(fs, paths.Storage, logger.Named("storage"))
	prober := probe.NewHTTPProber(&http.Client{},
		probe.WithHeaders(settings.Headers),
		probe.WithTimeout(settings.ProbeTimeout.Std()),
		probe.WithLogger(logger.Named("probe")),
	)

	eng := engine.New(kv, prober, &clock.RealClock{}, settings, logger)
	return &runtime{engine: eng, logger: logger}, nil
}

// newEngine creates the engine used by most commands.
func newEngine() (*engine.Engine, error) {
	rt, err := newRuntime()
	if err != nil {
		return nil, err
	}
	return rt.engine, nil
}

// formatJSON formats a value as JSON.
func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// formatError formats an error for display.
func formatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	out, err := formatJSON(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(stdout, out)
	return err
}
