// Package tween interpolates scalar values over time with easing curves
package tween

import (
	"math"
	"time"
)

// Easing maps normalized time t in [0,1] to progress
type Easing func(t float64) float64

// Linear progress
func Linear(t float64) float64 { return t }

// QuinticOut decelerates to rest: 1 - (1-t)^5
func QuinticOut(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u*u*u
}

// CubicInOut accelerates then decelerates
func CubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// Tween interpolates From to To over Duration starting at Start
type Tween struct {
	From, To float64
	Start    time.Time
	Duration time.Duration
	Ease     Easing
}

// New creates a tween starting at start, nil ease selects Linear
func New(from, to float64, start time.Time, d time.Duration, ease Easing) Tween {
	if ease == nil {
		ease = Linear
	}
	return Tween{From: from, To: to, Start: start, Duration: d, Ease: ease}
}

// Progress returns normalized elapsed time clamped to [0,1]
// Non-positive durations are complete immediately
func (tw Tween) Progress(now time.Time) float64 {
	if tw.Duration <= 0 {
		return 1
	}
	t := float64(now.Sub(tw.Start)) / float64(tw.Duration)
	return math.Max(0, math.Min(1, t))
}

// Value returns the eased value at now and whether the tween has finished
func (tw Tween) Value(now time.Time) (float64, bool) {
	t := tw.Progress(now)
	if t >= 1 {
		return tw.To, true
	}
	return tw.From + (tw.To-tw.From)*tw.Ease(t), false
}

// Lerp linearly interpolates a to b by t
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpAngle interpolates degrees along the shortest arc, result in [-180,180)
func LerpAngle(a, b, t float64) float64 {
	d := math.Mod(b-a+540, 360) - 180
	return WrapDegrees(a + d*t)
}

// WrapDegrees normalizes an angle into [-180,180)
func WrapDegrees(a float64) float64 {
	a = math.Mod(a+180, 360)
	if a < 0 {
		a += 360
	}
	return a - 180
}
