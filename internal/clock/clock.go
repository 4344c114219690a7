// Package clock abstracts time so debounce windows can be driven
// deterministically in tests.
package clock

import (
	"sort"
	"sync"
	"time"
)

// Clock provides an abstraction for time operations to enable deterministic testing.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc waits for the duration to elapse and then calls f.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending call scheduled with AfterFunc.
type Timer interface {
	// Stop prevents the call from firing. It returns false if the call
	// has already fired or been stopped.
	Stop() bool
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current system time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules f on its own goroutine via time.AfterFunc.
func (c *RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// FakeClock implements Clock with a manually advanced time for testing.
// Scheduled calls fire synchronously from Advance or Set, in deadline order.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	timers  []*fakeTimer
}

// NewFakeClock creates a new FakeClock with the given time.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

// Now returns the fixed time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// AfterFunc schedules f to run once the fake time reaches now+d.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{clock: c, deadline: c.current.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Set updates the fixed time and fires any calls that became due.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	due := c.takeDueLocked()
	c.mu.Unlock()

	// Fired outside the lock so callbacks may schedule new timers.
	for _, timer := range due {
		timer.fn()
	}
}

// Advance moves the fixed time forward by the given duration.
func (c *FakeClock) Advance(d time.Duration) {
	c.Set(c.Now().Add(d))
}

// Pending reports how many scheduled calls have not fired or been stopped.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *FakeClock) takeDueLocked() []*fakeTimer {
	var due, remaining []*fakeTimer
	for _, t := range c.timers {
		if !t.deadline.After(c.current) {
			due = append(due, t)
		} else {
			remaining = append(remaining, t)
		}
	}
	c.timers = remaining
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})
	return due
}

func (c *FakeClock) remove(t *fakeTimer) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, candidate := range c.timers {
		if candidate == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return true
		}
	}
	return false
}

type fakeTimer struct {
	clock    *FakeClock
	deadline time.Time
	fn       func()
}

func (t *fakeTimer) Stop() bool {
	return t.clock.remove(t)
}
