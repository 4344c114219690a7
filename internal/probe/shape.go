// Package probe decides whether a GraphQL endpoint is reachable.
//
// A candidate first has to look like an HTTP(S) URL; only then is a minimal
// introspection query POSTed to it. Checker adds the debounce used while
// the user is still typing.
package probe

import "regexp"

var shapePattern = regexp.MustCompile(`^https?://\w+(\.\w+)*(:[0-9]+)?/?.*$`)

// ShapeValid reports whether candidate looks like an http or https URL:
// scheme, dotted host, optional port, optional path. Candidates that fail
// are never probed.
func ShapeValid(candidate string) bool {
	return shapePattern.MatchString(candidate)
}
