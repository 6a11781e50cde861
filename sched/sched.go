// Package sched provides the cooperative single-goroutine scheduling model the
// interaction components run on: a monotonic clock, one-shot timers, per-frame
// callbacks and posting work back onto the loop from other goroutines
package sched

import "time"

// FrameFunc runs once on the next frame, receiving the frame timestamp
type FrameFunc func(now time.Time)

// Handle identifies a requested frame callback; zero is never issued
type Handle uint64

// Timer is a pending AfterFunc callback
type Timer interface {
	// Stop prevents the callback from running, returns false if it already ran or was stopped
	Stop() bool
}

// Clock provides monotonic time and one-shot timers
// Timer callbacks run on the scheduler goroutine
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Frames schedules per-frame callbacks, equivalent to a display refresh callback
// A callback requested during a frame runs on the following frame
type Frames interface {
	RequestFrame(fn FrameFunc) Handle
	CancelFrame(h Handle)
}

// Poster hands work to the scheduler goroutine, safe from any goroutine
type Poster interface {
	Post(fn func())
}

// Scheduler is the full host surface used by the interaction components
type Scheduler interface {
	Clock
	Frames
	Poster
}
