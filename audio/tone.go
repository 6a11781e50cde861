// Package audio plays short synthesized cues for globe mode changes
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave selects the oscillator shape
type Wave uint8

const (
	WaveSine Wave = iota
	WaveTriangle
	WaveSquare
)

// oscillator produces a fixed-length tone, optionally gliding to a second frequency
type oscillator struct {
	from, to float64
	phase    float64
	total    int
	pos      int
	wave     Wave
	rate     beep.SampleRate
}

// NewTone creates a tone of d gliding linearly from one frequency to another
// Pass the same frequency twice for a steady pitch
func NewTone(from, to float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		from:  from,
		to:    to,
		total: rate.N(d),
		wave:  wave,
		rate:  rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.pos >= o.total {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveTriangle:
			val = 4*math.Abs(o.phase-0.5) - 1
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1
			} else {
				val = -1
			}
		}
		samples[i][0] = val
		samples[i][1] = val

		freq := o.from + (o.to-o.from)*float64(o.pos)/float64(o.total)
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope shapes a stream with a linear attack and release
type envelope struct {
	s       beep.Streamer
	pos     int
	attack  int
	release int
	total   int
}

// NewEnvelope wraps s; attack and release are clipped to the duration
func NewEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(d)
	att := min(rate.N(attack), total)
	rel := min(rate.N(release), total-att)
	return &envelope{s: s, attack: att, release: rel, total: total}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.s.Stream(samples)
	for i := 0; i < n; i++ {
		if e.pos >= e.total {
			return i, i > 0
		}
		samples[i][0] *= e.gain()
		samples[i][1] *= e.gain()
		e.pos++
	}
	return n, ok
}

func (e *envelope) gain() float64 {
	if e.attack > 0 && e.pos < e.attack {
		return float64(e.pos) / float64(e.attack)
	}
	if e.release > 0 && e.pos >= e.total-e.release {
		return float64(e.total-e.pos) / float64(e.release)
	}
	return 1
}

func (e *envelope) Err() error { return e.s.Err() }

// withVolume scales s linearly; log2 of zero is -Inf so zero maps to Silent
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
