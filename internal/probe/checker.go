package probe

import (
	"context"
	"time"

	"github.com/danieljhkim/gqlpick/internal/clock"
)

// DefaultWindow is the debounce quiet window.
const DefaultWindow = 500 * time.Millisecond

// Result is the outcome of checking one candidate.
type Result struct {
	// Candidate is the string the check was issued for
	Candidate string

	// Probed is false when the candidate failed the shape check and no
	// request was sent
	Probed bool

	// Reachable is true when the probe answered below 400
	Reachable bool

	// Err is the probe failure, if any
	Err error
}

// Listener receives checker progress. Calls arrive on timer goroutines.
type Listener interface {
	// ProbeStarted is called right before the request for candidate is sent.
	ProbeStarted(candidate string)

	// ProbeDone is called with the outcome for a candidate.
	ProbeDone(result Result)
}

// Checker debounces reachability checks for a stream of edits.
type Checker struct {
	ctx       context.Context
	prober    Prober
	debouncer *Debouncer
	listener  Listener
}

// NewChecker creates a Checker. Probes run under ctx; cancelling it aborts
// an in-flight request.
func NewChecker(ctx context.Context, prober Prober, clk clock.Clock, window time.Duration, listener Listener) *Checker {
	return &Checker{
		ctx:       ctx,
		prober:    prober,
		debouncer: NewDebouncer(clk, window),
		listener:  listener,
	}
}

// Check schedules a check of candidate after the quiet window, replacing
// any check scheduled earlier that has not fired yet.
func (c *Checker) Check(candidate string) {
	c.debouncer.Trigger(func() {
		c.run(candidate)
	})
}

// Cancel drops a scheduled check that has not fired yet.
func (c *Checker) Cancel() {
	c.debouncer.Cancel()
}

func (c *Checker) run(candidate string) {
	if !ShapeValid(candidate) {
		c.listener.ProbeDone(Result{Candidate: candidate})
		return
	}

	c.listener.ProbeStarted(candidate)
	c.listener.ProbeDone(CheckNow(c.ctx, c.prober, candidate))
}

// CheckNow checks candidate immediately, without debouncing.
func CheckNow(ctx context.Context, prober Prober, candidate string) Result {
	if !ShapeValid(candidate) {
		return Result{Candidate: candidate}
	}

	err := prober.Probe(ctx, candidate)
	return Result{
		Candidate: candidate,
		Probed:    true,
		Reachable: err == nil,
		Err:       err,
	}
}
