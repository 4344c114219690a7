package probe

import (
	"sync"
	"time"

	"github.com/danieljhkim/gqlpick/internal/clock"
)

// Debouncer runs only the last of a burst of calls, once the window has
// passed without another call. Earlier calls are dropped, not queued.
type Debouncer struct {
	mu     sync.Mutex
	clock  clock.Clock
	window time.Duration
	timer  clock.Timer
	gen    uint64
}

// NewDebouncer creates a Debouncer with the given quiet window.
func NewDebouncer(clk clock.Clock, window time.Duration) *Debouncer {
	return &Debouncer{clock: clk, window: window}
}

// Trigger cancels any pending call and schedules fn after the window.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen

	d.timer = d.clock.AfterFunc(d.window, func() {
		d.mu.Lock()
		// A timer that fired while Trigger or Cancel held the lock is stale.
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		fn()
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
