// Package selection implements the endpoint selection session: the user
// edits a draft endpoint, each edit is checked for reachability after a
// quiet window, and only a draft that passed its probe can be confirmed.
//
// Results that arrive for a draft the user has since changed are dropped.
// Go timers fire on their own goroutines, so a Controller serializes its
// state under a mutex and invokes callbacks outside of it.
package selection

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/danieljhkim/gqlpick/internal/clock"
	"github.com/danieljhkim/gqlpick/internal/logging"
	"github.com/danieljhkim/gqlpick/internal/probe"
	"github.com/danieljhkim/gqlpick/internal/state"
)

// Lister supplies the saved endpoints offered for direct selection.
type Lister interface {
	List() []state.SavedEndpoint
}

// Options configures a Controller.
type Options struct {
	// Initial is the draft the session starts with, usually the resolved
	// endpoint. It is checked when the session opens.
	Initial string

	// Prober checks reachability. Defaults to an HTTPProber on
	// http.DefaultClient.
	Prober probe.Prober

	// Clock drives the debounce timer. Defaults to the real clock.
	Clock clock.Clock

	// Window is the debounce quiet window. Zero means probe.DefaultWindow.
	Window time.Duration

	// LastUsed receives the confirmed endpoint under state.LastEndpointKey.
	LastUsed state.KV

	// Lister provides the saved list, read once by Open.
	Lister Lister

	// OnResolved is called exactly once with the confirmed endpoint.
	OnResolved func(endpoint string)

	// OnChange is called after every visible state change.
	OnChange func(Snapshot)

	Logger hclog.Logger

	// Context bounds in-flight probes. Close cancels a child of it.
	Context context.Context
}

// Controller runs one selection session.
type Controller struct {
	opts    Options
	logger  hclog.Logger
	checker *probe.Checker
	ctx     context.Context
	cancel  context.CancelFunc

	mu       sync.Mutex
	draft    string
	state    State
	opened   bool
	saved    []state.SavedEndpoint
	closed   bool
	resolved string
}

// New creates a Controller. The session starts with opts.Initial as the
// draft; nothing is checked until Open or Edit.
func New(opts Options) *Controller {
	if opts.Prober == nil {
		opts.Prober = probe.NewHTTPProber(nil)
	}
	if opts.Clock == nil {
		opts.Clock = &clock.RealClock{}
	}
	if opts.Window <= 0 {
		opts.Window = probe.DefaultWindow
	}
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}

	c := &Controller{
		opts:   opts,
		logger: logging.OrNull(opts.Logger),
		draft:  opts.Initial,
		state:  draftState(opts.Initial),
	}
	c.ctx, c.cancel = context.WithCancel(parent)
	c.checker = probe.NewChecker(c.ctx, opts.Prober, opts.Clock, opts.Window, c)
	return c
}

func draftState(draft string) State {
	if draft == "" {
		return StateEmpty
	}
	return StateEditing
}

// Open presents the session: the saved list is read on the first call
// only, and a non-empty initial draft is scheduled for a check.
func (c *Controller) Open() []state.SavedEndpoint {
	c.mu.Lock()
	if c.opened || c.closed {
		saved := c.savedLocked()
		c.mu.Unlock()
		return saved
	}

	c.opened = true
	c.saved = []state.SavedEndpoint{}
	if c.opts.Lister != nil {
		c.saved = c.opts.Lister.List()
	}
	saved := c.savedLocked()
	draft := c.draft
	c.mu.Unlock()

	if draft != "" {
		c.checker.Check(draft)
	}
	return saved
}

// Saved returns the list captured by Open.
func (c *Controller) Saved() []state.SavedEndpoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.savedLocked()
}

func (c *Controller) savedLocked() []state.SavedEndpoint {
	return append([]state.SavedEndpoint{}, c.saved...)
}

// Edit replaces the draft. The indicator goes back to unknown right away
// and a check of the new draft is scheduled.
func (c *Controller) Edit(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.draft = text
	c.state = draftState(text)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if text == "" {
		c.checker.Cancel()
	} else {
		c.checker.Check(text)
	}
	c.changed(snap)
}

// ProbeStarted implements probe.Listener.
func (c *Controller) ProbeStarted(candidate string) {
	c.mu.Lock()
	if c.closed || candidate != c.draft {
		c.mu.Unlock()
		c.logger.Debug("ignoring probe start for stale candidate", "candidate", candidate)
		return
	}
	c.state = StateChecking
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.changed(snap)
}

// ProbeDone implements probe.Listener.
func (c *Controller) ProbeDone(result probe.Result) {
	c.mu.Lock()
	if c.closed || result.Candidate != c.draft {
		c.mu.Unlock()
		c.logger.Debug("discarding stale probe result", "candidate", result.Candidate)
		return
	}

	switch {
	case !result.Probed:
		c.state = draftState(c.draft)
	case result.Reachable:
		c.state = StateValid
	default:
		c.state = StateInvalid
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if result.Probed {
		c.logger.Debug("probe finished", "endpoint", result.Candidate, "reachable", result.Reachable, "error", result.Err)
	}
	c.changed(snap)
}

// Confirm accepts the draft. It does nothing and returns false unless the
// draft passed its probe and the session is still open.
func (c *Controller) Confirm() bool {
	c.mu.Lock()
	if c.closed || c.state != StateValid {
		c.mu.Unlock()
		return false
	}
	endpoint := c.draft
	snap := c.finishLocked(endpoint)
	c.mu.Unlock()

	c.resolve(endpoint, snap)
	return true
}

// Select confirms a saved endpoint without probing it. It returns false
// when endpoint is not in the list returned by Open.
func (c *Controller) Select(endpoint string) bool {
	c.mu.Lock()
	if c.closed || !c.opened || !c.isSavedLocked(endpoint) {
		c.mu.Unlock()
		return false
	}
	c.draft = endpoint
	c.state = StateValid
	snap := c.finishLocked(endpoint)
	c.mu.Unlock()

	c.resolve(endpoint, snap)
	return true
}

func (c *Controller) isSavedLocked(endpoint string) bool {
	if endpoint == "" {
		return false
	}
	for _, saved := range c.saved {
		if saved.Endpoint == endpoint {
			return true
		}
	}
	return false
}

// Close dismisses the session without resolving an endpoint.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.changed(snap)
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Done is closed when the session is confirmed or dismissed.
func (c *Controller) Done() <-chan struct{} {
	return c.ctx.Done()
}

func (c *Controller) finishLocked(endpoint string) Snapshot {
	c.closed = true
	c.resolved = endpoint
	c.stopLocked()
	return c.snapshotLocked()
}

func (c *Controller) stopLocked() {
	c.checker.Cancel()
	c.cancel()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Draft:      c.draft,
		State:      c.state,
		Validation: c.state.Validation(),
		Closed:     c.closed,
		Resolved:   c.resolved,
	}
}

func (c *Controller) resolve(endpoint string, snap Snapshot) {
	if c.opts.LastUsed != nil {
		if err := c.opts.LastUsed.Set(state.LastEndpointKey, endpoint); err != nil {
			c.logger.Warn("failed to remember last used endpoint", "endpoint", endpoint, "error", err)
		}
	}

	c.logger.Info("endpoint resolved", "endpoint", endpoint)
	if c.opts.OnResolved != nil {
		c.opts.OnResolved(endpoint)
	}
	c.changed(snap)
}

func (c *Controller) changed(snap Snapshot) {
	if c.opts.OnChange != nil {
		c.opts.OnChange(snap)
	}
}
