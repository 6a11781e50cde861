// Package scroll animates the page scroll position between anchors
package scroll

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/globe-explorer/sched"
	"github.com/lixenwraith/globe-explorer/tween"
)

// Viewport is the scrollable page
type Viewport interface {
	ScrollY() float64
	ScrollTo(y float64)
}

// Lock is the advisory scroll lock held while an animation owns the scroll position
type Lock interface {
	SetScrolling(bool)
	SetScrollBlocked(bool)
}

// CancelFunc stops an animation without firing completion, idempotent
type CancelFunc func()

// Animation is the transient state of one scroll
type Animation struct {
	StartY    float64
	TargetY   float64
	StartTime time.Time
	Duration  time.Duration
	Cancelled bool

	done       bool
	handle     sched.Handle
	onComplete func()
}

// Animator drives the viewport with a quintic ease-out, one animation at a time
type Animator struct {
	clock  sched.Clock
	frames sched.Frames
	view   Viewport
	lock   Lock
	log    zerolog.Logger

	current *Animation
}

// NewAnimator creates an animator, lock may be nil
func NewAnimator(clock sched.Clock, frames sched.Frames, view Viewport, lock Lock, log zerolog.Logger) *Animator {
	return &Animator{
		clock:  clock,
		frames: frames,
		view:   view,
		lock:   lock,
		log:    log.With().Str("component", "scroll").Logger(),
	}
}

// AnimateTo scrolls from the current position to target over d
// A running animation is cancelled first. onComplete fires exactly once when the target is reached
// and never after cancellation. d <= 0 jumps to target on the next frame
func (a *Animator) AnimateTo(target float64, d time.Duration, onComplete func()) CancelFunc {
	if a.current != nil {
		a.cancel(a.current)
	}

	anim := &Animation{
		StartY:     a.view.ScrollY(),
		TargetY:    target,
		StartTime:  a.clock.Now(),
		Duration:   d,
		onComplete: onComplete,
	}
	a.current = anim
	a.setLock(true)

	a.log.Debug().
		Float64("from", anim.StartY).
		Float64("to", target).
		Dur("duration", d).
		Msg("Scroll animation started")

	anim.handle = a.frames.RequestFrame(func(now time.Time) { a.tick(anim, now) })
	return func() { a.cancel(anim) }
}

// Active reports whether an animation is in flight
func (a *Animator) Active() bool {
	return a.current != nil
}

// Current returns the in-flight animation, nil when idle
func (a *Animator) Current() *Animation {
	return a.current
}

// Cancel stops the in-flight animation, if any
func (a *Animator) Cancel() {
	if a.current != nil {
		a.cancel(a.current)
	}
}

func (a *Animator) tick(anim *Animation, now time.Time) {
	if anim.Cancelled || anim.done {
		return
	}

	tw := tween.New(anim.StartY, anim.TargetY, anim.StartTime, anim.Duration, tween.QuinticOut)
	y, finished := tw.Value(now)
	a.view.ScrollTo(y)

	if !finished {
		anim.handle = a.frames.RequestFrame(func(now time.Time) { a.tick(anim, now) })
		return
	}

	anim.done = true
	if a.current == anim {
		a.current = nil
	}
	a.setLock(false)
	a.log.Debug().Float64("y", y).Msg("Scroll animation complete")
	if anim.onComplete != nil {
		anim.onComplete()
	}
}

func (a *Animator) cancel(anim *Animation) {
	if anim.Cancelled || anim.done {
		return
	}
	anim.Cancelled = true
	a.frames.CancelFrame(anim.handle)
	if a.current == anim {
		a.current = nil
		a.setLock(false)
	}
	a.log.Debug().Float64("y", a.view.ScrollY()).Msg("Scroll animation cancelled")
}

func (a *Animator) setLock(held bool) {
	if a.lock == nil {
		return
	}
	a.lock.SetScrolling(held)
	a.lock.SetScrollBlocked(held)
}
