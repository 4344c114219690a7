// Package resolve picks the active endpoint from the candidate sources.
//
// Precedence, highest first:
//  1. an endpoint supplied explicitly by the embedding context
//  2. the "endpoint" query parameter of the hosting page URL
//  3. the last-used endpoint
//
// The subscription endpoint follows the same rule without the last-used
// tier. An empty result means no endpoint is known yet and the user has to
// be prompted.
package resolve

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// EndpointParam is the query key carrying the primary endpoint.
	EndpointParam = "endpoint"

	// SubscriptionParam is the query key carrying the subscription endpoint.
	SubscriptionParam = "subscription"
)

// Source names the tier an endpoint was resolved from.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceQuery    Source = "query"
	SourceLastUsed Source = "last-used"
	SourceNone     Source = "none"
)

// Sources are the candidate inputs for resolution. Empty fields are absent.
type Sources struct {
	Explicit             string
	ExplicitSubscription string
	PageURL              string
	LastUsed             string
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	Endpoint             string `json:"endpoint"`
	SubscriptionEndpoint string `json:"subscriptionEndpoint"`
	Source               Source `json:"source"`
}

// Empty reports whether no endpoint was resolved.
func (r Resolution) Empty() bool {
	return r.Endpoint == ""
}

// Resolve applies the precedence rules to src.
func Resolve(src Sources) Resolution {
	res := Resolution{Source: SourceNone}

	switch {
	case present(src.Explicit):
		res.Endpoint, res.Source = strings.TrimSpace(src.Explicit), SourceExplicit
	case present(QueryParam(src.PageURL, EndpointParam)):
		res.Endpoint, res.Source = strings.TrimSpace(QueryParam(src.PageURL, EndpointParam)), SourceQuery
	case present(src.LastUsed):
		res.Endpoint, res.Source = strings.TrimSpace(src.LastUsed), SourceLastUsed
	}

	if present(src.ExplicitSubscription) {
		res.SubscriptionEndpoint = strings.TrimSpace(src.ExplicitSubscription)
	} else {
		res.SubscriptionEndpoint = strings.TrimSpace(QueryParam(src.PageURL, SubscriptionParam))
	}

	return res
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

// QueryParam returns the decoded value of the first name parameter in
// rawURL, or "" when it is missing, empty, or not decodable. The whole URL
// is scanned, so a parameter after a '#' fragment still matches.
func QueryParam(rawURL, name string) string {
	if rawURL == "" || name == "" {
		return ""
	}

	pattern := regexp.MustCompile(`[?&]` + regexp.QuoteMeta(name) + `(=([^&#]*)|&|#|$)`)
	match := pattern.FindStringSubmatch(rawURL)
	if match == nil || match[2] == "" {
		return ""
	}

	decoded, err := url.PathUnescape(strings.ReplaceAll(match[2], "+", " "))
	if err != nil || !utf8.ValidString(decoded) {
		return ""
	}
	return decoded
}
