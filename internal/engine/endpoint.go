package engine

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/danieljhkim/gqlpick/internal/probe"
	"github.com/danieljhkim/gqlpick/internal/resolve"
	"github.com/danieljhkim/gqlpick/internal/selection"
	"github.com/danieljhkim/gqlpick/internal/state"
)

// Resolve determines the active endpoint from the request, the page URL
// query string and the last used slot, in that order.
func (e *Engine) Resolve(ctx context.Context, req *ResolveRequest) (*ResolveResult, error) {
	res := resolve.Resolve(resolve.Sources{
		Explicit:             req.Endpoint,
		ExplicitSubscription: req.Subscription,
		PageURL:              req.PageURL,
		LastUsed:             e.lastUsed(),
	})

	if res.Empty() {
		e.logger.Debug("no endpoint resolved")
	} else {
		e.logger.Debug("resolved endpoint", "endpoint", res.Endpoint, "source", res.Source)
	}

	return &ResolveResult{
		Endpoint:             res.Endpoint,
		SubscriptionEndpoint: res.SubscriptionEndpoint,
		Source:               string(res.Source),
	}, nil
}

// Check probes an endpoint once, without debouncing.
func (e *Engine) Check(ctx context.Context, req *CheckRequest) (*CheckResult, error) {
	endpoint := strings.TrimSpace(req.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint is required", ErrValidation)
	}

	result := probe.CheckNow(ctx, e.prober, endpoint)
	e.logger.Debug("checked endpoint", "endpoint", endpoint, "probed", result.Probed, "reachable", result.Reachable)

	return checkResult(result), nil
}

func checkResult(result probe.Result) *CheckResult {
	out := &CheckResult{
		Endpoint: result.Candidate,
		Probed:   result.Probed,
	}

	switch {
	case !result.Probed:
		out.Validation = selection.ValidationUnknown.String()
		out.Message = "not an http(s) URL"
	case result.Reachable:
		out.Validation = selection.ValidationValid.String()
	default:
		out.Validation = selection.ValidationInvalid.String()
		var statusErr *probe.StatusError
		if errors.As(result.Err, &statusErr) {
			out.StatusCode = statusErr.StatusCode
		}
		if result.Err != nil {
			out.Message = result.Err.Error()
		}
	}

	return out
}

// UseEndpoint validates an endpoint and stores it as last used. Nothing
// is stored unless the probe succeeds.
func (e *Engine) UseEndpoint(ctx context.Context, req *UseEndpointRequest) (*UseEndpointResult, error) {
	check, err := e.requireReachable(ctx, req.Endpoint)
	if err != nil {
		return nil, err
	}

	previous := e.lastUsed()
	if err := e.kv.Set(state.LastEndpointKey, check.Endpoint); err != nil {
		return nil, fmt.Errorf("failed to save last used endpoint: %w", err)
	}

	e.logger.Info("endpoint resolved", "endpoint", check.Endpoint)

	return &UseEndpointResult{
		Endpoint: check.Endpoint,
		Previous: previous,
	}, nil
}

// requireReachable checks endpoint once and fails unless it is valid.
func (e *Engine) requireReachable(ctx context.Context, endpoint string) (*CheckResult, error) {
	check, err := e.Check(ctx, &CheckRequest{Endpoint: endpoint})
	if err != nil {
		return nil, err
	}

	switch check.Validation {
	case selection.ValidationValid.String():
		return check, nil
	case selection.ValidationUnknown.String():
		return nil, fmt.Errorf("%w: %s is %s", ErrValidation, check.Endpoint, check.Message)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotReachable, check.Message)
	}
}

// LastUsed returns the last used slot.
func (e *Engine) LastUsed(ctx context.Context) (*LastUsedResult, error) {
	value, ok, err := e.kv.Get(state.LastEndpointKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read last used endpoint: %w", err)
	}
	return &LastUsedResult{Endpoint: value, Set: ok}, nil
}

// ClearLastUsed empties the last used slot.
func (e *Engine) ClearLastUsed(ctx context.Context) error {
	if err := e.kv.Delete(state.LastEndpointKey); err != nil {
		return fmt.Errorf("failed to clear last used endpoint: %w", err)
	}
	return nil
}

// NewSelection starts an interactive selection session backed by the
// engine's prober, saved workspaces and last used slot.
func (e *Engine) NewSelection(ctx context.Context, req *SelectionRequest) *selection.Controller {
	return selection.New(selection.Options{
		Initial:    req.Initial,
		Prober:     e.prober,
		Clock:      e.clock,
		Window:     e.settings.Debounce.Std(),
		LastUsed:   e.kv,
		Lister:     e.lister,
		OnResolved: req.OnResolved,
		OnChange:   req.OnChange,
		Logger:     e.logger.Named("selection"),
		Context:    ctx,
	})
}

// PlaygroundURL renders the configured playground URL for an endpoint
// pair. Values are query-escaped.
func (e *Engine) PlaygroundURL(endpoint, subscription string) (string, error) {
	if endpoint == "" {
		return "", ErrNoEndpoint
	}

	tmpl, err := fasttemplate.NewTemplate(e.settings.PlaygroundURL, "{{", "}}")
	if err != nil {
		return "", fmt.Errorf("%w: playground_url: %v", ErrValidation, err)
	}

	return tmpl.ExecuteString(map[string]interface{}{
		"endpoint":     url.QueryEscape(endpoint),
		"subscription": url.QueryEscape(subscription),
	}), nil
}
