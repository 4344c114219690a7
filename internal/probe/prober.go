package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/danieljhkim/gqlpick/internal/logging"
)

// IntrospectionQuery is the smallest query every GraphQL server answers.
const IntrospectionQuery = "{ __schema { queryType { kind } } }"

// ErrUnreachable wraps transport failures: DNS, refused connections,
// timeouts, TLS errors.
var ErrUnreachable = errors.New("endpoint unreachable")

// StatusError is returned when the endpoint answers with status >= 400.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("endpoint answered %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Prober tests a single endpoint. A nil error means reachable.
type Prober interface {
	Probe(ctx context.Context, endpoint string) error
}

// Doer is the injected HTTP capability. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPProber POSTs IntrospectionQuery to the endpoint.
type HTTPProber struct {
	client  Doer
	headers map[string]string
	timeout time.Duration
	logger  hclog.Logger
}

// ProberOption configures an HTTPProber.
type ProberOption func(*HTTPProber)

// WithHeaders adds headers to every probe request, e.g. Authorization.
func WithHeaders(headers map[string]string) ProberOption {
	return func(p *HTTPProber) {
		p.headers = headers
	}
}

// WithTimeout bounds each probe. Zero leaves it to the transport.
func WithTimeout(timeout time.Duration) ProberOption {
	return func(p *HTTPProber) {
		p.timeout = timeout
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger hclog.Logger) ProberOption {
	return func(p *HTTPProber) {
		p.logger = logger
	}
}

// NewHTTPProber creates a prober using client, or http.DefaultClient when nil.
func NewHTTPProber(client Doer, opts ...ProberOption) *HTTPProber {
	if client == nil {
		client = http.DefaultClient
	}
	p := &HTTPProber{client: client}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.OrNull(p.logger)
	return p
}

// Probe issues the introspection request. Any status below 400 counts as
// reachable; the body is not inspected.
func (p *HTTPProber) Probe(ctx context.Context, endpoint string) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	body, err := json.Marshal(map[string]string{"query": IntrospectionQuery})
	if err != nil {
		return fmt.Errorf("failed to encode probe: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	for name, value := range p.headers {
		req.Header.Set(name, value)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("probe failed", "endpoint", endpoint, "error", err)
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	p.logger.Debug("probe answered", "endpoint", endpoint, "status", resp.StatusCode)
	if resp.StatusCode >= http.StatusBadRequest {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}
