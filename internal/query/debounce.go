package query

import (
	"sync"
	"time"
)

const DefaultDebounce = 300 * time.Millisecond

type Timer interface {
	Stop() bool
}

// Clock schedules delayed callbacks. The callback runs on its own goroutine.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

var RealClock Clock = realClock{}

// Debouncer keeps at most one pending task. Scheduling a task cancels the
// previous one; a cancelled task never runs, even if its timer already fired.
//
// Debouncer has no lock of its own. Schedule, Cancel and Pending must be
// called with mu held, and tasks run with mu held.
type Debouncer struct {
	mu    sync.Locker
	delay time.Duration
	clock Clock

	gen   uint64
	timer Timer
}

func NewDebouncer(delay time.Duration, clock Clock, mu sync.Locker) *Debouncer {
	if clock == nil {
		clock = RealClock
	}
	return &Debouncer{mu: mu, delay: delay, clock: clock}
}

// Schedule arms fn after the quiet period and reports whether a pending
// task was superseded.
func (d *Debouncer) Schedule(fn func()) bool {
	superseded := d.Cancel()

	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		if gen != d.gen || d.timer == nil {
			return
		}
		d.timer = nil
		fn()
	})
	return superseded
}

// Cancel drops the pending task, if any.
func (d *Debouncer) Cancel() bool {
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}

func (d *Debouncer) Pending() bool { return d.timer != nil }
