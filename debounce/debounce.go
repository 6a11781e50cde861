// Package debounce implements a trailing debouncer over the sched clock
package debounce

import (
	"time"

	"github.com/lixenwraith/globe-explorer/sched"
)

// DefaultDelay is the quiet period before a fed value settles
const DefaultDelay = 300 * time.Millisecond

// Debouncer holds the latest fed value and settles it after Delay without a newer Feed
// Not safe for concurrent use; Feed and the settle callback run on the scheduler goroutine
type Debouncer[T any] struct {
	clock    sched.Clock
	delay    time.Duration
	onSettle func(T)

	latest  T
	hasRaw  bool
	settled T
	hasSet  bool
	pending sched.Timer
	seq     uint64
}

// New creates a debouncer calling onSettle once per settle
func New[T any](clock sched.Clock, delay time.Duration, onSettle func(T)) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[T]{
		clock:    clock,
		delay:    delay,
		onSettle: onSettle,
	}
}

// Feed records v as the raw value and restarts the quiet period
// The previous pending timer is stopped before the new one starts
func (d *Debouncer[T]) Feed(v T) {
	d.latest = v
	d.hasRaw = true

	if d.pending != nil {
		d.pending.Stop()
	}
	d.seq++
	seq := d.seq
	d.pending = d.clock.AfterFunc(d.delay, func() {
		// A timer stopped after it was queued must not settle
		if seq != d.seq {
			return
		}
		d.pending = nil
		d.settled = d.latest
		d.hasSet = true
		if d.onSettle != nil {
			d.onSettle(d.settled)
		}
	})
}

// Raw returns the most recently fed value
func (d *Debouncer[T]) Raw() (T, bool) {
	return d.latest, d.hasRaw
}

// Settled returns the last settled value
func (d *Debouncer[T]) Settled() (T, bool) {
	return d.settled, d.hasSet
}

// Pending reports whether a settle is scheduled
func (d *Debouncer[T]) Pending() bool {
	return d.pending != nil
}

// Stop cancels a pending settle without changing the settled value
func (d *Debouncer[T]) Stop() {
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.seq++
}

// Reset cancels a pending settle and forgets both raw and settled values
func (d *Debouncer[T]) Reset() {
	d.Stop()
	var zero T
	d.latest, d.settled = zero, zero
	d.hasRaw, d.hasSet = false, false
}
