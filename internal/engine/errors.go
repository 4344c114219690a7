package engine

import "errors"

var (
	// ErrValidation indicates a validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrNotReachable indicates an endpoint failed its reachability probe.
	ErrNotReachable = errors.New("endpoint not reachable")

	// ErrNoEndpoint indicates no endpoint could be resolved.
	ErrNoEndpoint = errors.New("no endpoint resolved")
)
