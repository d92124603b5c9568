// Package autosave provides a cancellable debounced task.
//
// A Debouncer runs fn once, delay after the most recent Trigger. Every
// Trigger cancels the pending run and starts a fresh timer, so a burst of
// keystrokes turns into a single write. The owner calls Stop when the edit
// session ends; nothing runs after that.
package autosave

import (
	"sync"
	"time"
)

// DefaultDelay is the pause after the last change before a save runs.
const DefaultDelay = time.Second

type Debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64 // bumped by every Trigger/Stop; a fired timer with an old gen is stale
	stopped bool
}

// New returns a Debouncer that calls fn. A non-positive delay means DefaultDelay.
func New(delay time.Duration, fn func()) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger schedules fn, replacing any pending run. It is a no-op after Stop.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// fire runs fn unless a later Trigger, Flush or Stop superseded this timer.
// Stop on a timer whose func already started returns false, hence the gen check.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}

// Pending reports whether a run is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Flush runs a pending fn immediately on the caller's goroutine. It reports
// whether anything was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.stopped || d.timer == nil {
		d.mu.Unlock()
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	d.mu.Unlock()
	d.fn()
	return true
}

// Cancel drops a pending run without executing it. Unlike Stop, later
// Triggers still schedule.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// Stop cancels any pending run without executing it. Later Triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.stopped = true
}
