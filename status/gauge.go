package status

import (
	"math"
	"sync/atomic"
	"time"
)

// gaugeSmoothing weights the newest sample in the running average
const gaugeSmoothing = 0.2

// Gauge tracks a millisecond timing: the latest sample and a smoothed average
// Zero value is ready to use
type Gauge struct {
	last    atomic.Uint64
	avg     atomic.Uint64
	samples atomic.Int64
}

// Observe records d as a sample in milliseconds
func (g *Gauge) Observe(d time.Duration) {
	g.ObserveMs(float64(d.Microseconds()) / 1000)
}

// ObserveMs records one sample given in milliseconds
func (g *Gauge) ObserveMs(ms float64) {
	g.last.Store(math.Float64bits(ms))
	if g.samples.Add(1) == 1 {
		g.avg.Store(math.Float64bits(ms))
		return
	}
	for {
		old := g.avg.Load()
		cur := math.Float64frombits(old)
		next := cur + gaugeSmoothing*(ms-cur)
		if g.avg.CompareAndSwap(old, math.Float64bits(next)) {
			return
		}
	}
}

// Last returns the most recent sample
func (g *Gauge) Last() float64 {
	return math.Float64frombits(g.last.Load())
}

// Mean returns the smoothed average, the first sample until more arrive
func (g *Gauge) Mean() float64 {
	return math.Float64frombits(g.avg.Load())
}

// Samples returns the number of observations
func (g *Gauge) Samples() int64 {
	return g.samples.Load()
}
