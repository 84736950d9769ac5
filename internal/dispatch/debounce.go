package dispatch

import (
	"sync"
	"time"
)

// Debouncer runs at most one scheduled function after a quiet period.
// Scheduling again before the period elapses replaces the pending function
// and restarts the timer.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending func()
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule arranges for fn to run once the quiet period has elapsed. It
// reports whether an earlier pending function was superseded.
func (d *Debouncer) Schedule(fn func()) (superseded bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	superseded = d.pending != nil
	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
	return superseded
}

// fire runs the pending function if no later Schedule, Cancel or Flush has
// happened since gen was issued. A stopped timer may still have fired, so the
// generation check is what keeps stale callbacks out.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// take removes the pending function, stopping its timer.
func (d *Debouncer) take() func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	fn := d.pending
	d.pending = nil
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return fn
}

// Cancel drops the pending function without running it. It reports whether
// anything was pending.
func (d *Debouncer) Cancel() bool {
	return d.take() != nil
}

// Flush runs the pending function now, on the caller's goroutine. It reports
// whether anything was pending.
func (d *Debouncer) Flush() bool {
	fn := d.take()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Pending reports whether a function is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
