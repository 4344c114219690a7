package state

import "errors"

var (
	// ErrCorruptRegistry indicates the registry snapshot could not be parsed.
	ErrCorruptRegistry = errors.New("workspace registry is corrupt")

	// ErrCorruptStorage indicates the key-value file could not be parsed.
	ErrCorruptStorage = errors.New("storage file is corrupt")

	// ErrWorkspaceNotFound indicates no workspace exists for an endpoint.
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrEmptyEndpoint indicates an attempt to key a workspace by "".
	ErrEmptyEndpoint = errors.New("endpoint must not be empty")
)
