// Package config manages gqlpick configuration and filesystem paths.
//
// The default root is ~/.gqlpick/ containing storage.json (the key-value
// slot store holding the last-used endpoint and the workspace registry)
// and config.yaml (user settings). The root can be overridden with the
// GQLPICK_ROOT environment variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootEnvVar overrides the data root directory.
const RootEnvVar = "GQLPICK_ROOT"

// Paths contains all the filesystem paths used by gqlpick.
type Paths struct {
	// Root is the base directory for all gqlpick data (default: ~/.gqlpick)
	Root string

	// Storage is the key-value store file
	Storage string

	// Config is the path to the settings file
	Config string
}

// DefaultPaths returns the default paths for gqlpick.
// Paths can be overridden with environment variables:
// - GQLPICK_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv(RootEnvVar)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".gqlpick")
	}

	return PathsAt(root), nil
}

// PathsAt returns the layout rooted at root.
func PathsAt(root string) *Paths {
	return &Paths{
		Root:    root,
		Storage: filepath.Join(root, "storage.json"),
		Config:  filepath.Join(root, "config.yaml"),
	}
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.Root, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.Root, err)
	}
	return nil
}
