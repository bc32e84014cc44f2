package layout

import (
	"sync"
	"time"
)

// ============================================================================
// RESIZE DEBOUNCING
// ============================================================================
// Continuous container resizes arrive as event bursts. The debouncer
// coalesces a burst into a single recomputation after a quiet period.
// There is no in-flight work to cancel — stages are synchronous — so
// Trigger simply resets the timer.
// ============================================================================

// DefaultResizeDelay is the quiet period before a resize recomputation.
const DefaultResizeDelay = 250 * time.Millisecond

// Debouncer coalesces bursts of calls into one, fired after the delay.
// Safe for concurrent use.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

// NewDebouncer creates a debouncer; a non-positive delay uses
// DefaultResizeDelay.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultResizeDelay
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the quiet period, discarding any previously
// scheduled call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop discards any pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Resizer feeds debounced container dimensions to a callback. The host
// rendering surface calls Resize on every observed change; onResize runs
// once per quiet period with the latest dimensions.
type Resizer struct {
	mu       sync.Mutex
	deb      *Debouncer
	latest   Container
	onResize func(Container)
}

// NewResizer creates a resizer with the given quiet period.
func NewResizer(delay time.Duration, onResize func(Container)) *Resizer {
	return &Resizer{deb: NewDebouncer(delay), onResize: onResize}
}

// Resize records the newest dimensions and schedules the callback.
func (r *Resizer) Resize(c Container) {
	r.mu.Lock()
	r.latest = c
	r.mu.Unlock()

	r.deb.Trigger(func() {
		r.mu.Lock()
		c := r.latest
		r.mu.Unlock()
		r.onResize(c)
	})
}

// Stop discards any pending callback.
func (r *Resizer) Stop() { r.deb.Stop() }
