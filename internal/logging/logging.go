// Package logging builds the hclog loggers shared by gqlpick components.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// LevelEnvVar overrides the configured log level.
const LevelEnvVar = "GQLPICK_LOG_LEVEL"

// New returns a named logger writing to w at the given level. The
// GQLPICK_LOG_LEVEL environment variable takes precedence over level.
// Unknown levels fall back to warn.
func New(name, level string, w io.Writer) hclog.Logger {
	if env := os.Getenv(LevelEnvVar); env != "" {
		level = env
	}
	if w == nil {
		w = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  ParseLevel(level),
		Output: w,
	})
}

// ParseLevel maps a level name to an hclog level.
func ParseLevel(level string) hclog.Level {
	parsed := hclog.LevelFromString(strings.TrimSpace(level))
	if parsed == hclog.NoLevel {
		return hclog.Warn
	}
	return parsed
}

// OrNull returns logger, or a logger that discards everything when nil.
func OrNull(logger hclog.Logger) hclog.Logger {
	if logger == nil {
		return hclog.NewNullLogger()
	}
	return logger
}
