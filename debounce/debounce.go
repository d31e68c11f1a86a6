// Package debounce coalesces bursts of calls into a single delayed call.
package debounce

import (
	"sync"
	"time"
)

// Timer runs at most one pending function. Each Trigger cancels the
// previously scheduled function and restarts the delay.
type Timer struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// Trigger schedules fn to run after d, cancelling any function scheduled by
// an earlier Trigger that has not fired yet.
func (t *Timer) Trigger(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		current := gen == t.gen
		if current {
			t.timer = nil
		}
		t.mu.Unlock()
		// a Trigger that raced with the firing timer wins
		if current {
			fn()
		}
	})
}

// Stop cancels the pending function, if any. It reports whether a function
// was pending.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer == nil {
		return false
	}
	t.timer.Stop()
	t.timer = nil
	t.gen++
	return true
}

// Pending reports whether a function is scheduled.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}
