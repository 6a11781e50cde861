package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// Cue names a sound played on a state change
type Cue uint8

const (
	// CueActivate is a rising sweep when the globe takes input
	CueActivate Cue = iota
	// CueDeactivate is the falling mirror of CueActivate
	CueDeactivate
	// CueArrival is a bell on the arrival framing
	CueArrival
	// CueFailure is a short buzz when a detail lookup fails
	CueFailure
	cueCount
)

var cueNames = [cueCount]string{"activate", "deactivate", "arrival", "failure"}

func (c Cue) String() string {
	if c < cueCount {
		return cueNames[c]
	}
	return "unknown"
}

const (
	sweepDuration   = 180 * time.Millisecond
	bellDuration    = 400 * time.Millisecond
	failureDuration = 120 * time.Millisecond
	attack          = 8 * time.Millisecond
)

// Duration returns the cue length
func (c Cue) Duration() time.Duration {
	switch c {
	case CueActivate, CueDeactivate:
		return sweepDuration
	case CueArrival:
		return bellDuration
	case CueFailure:
		return failureDuration
	}
	return 0
}

// Streamer synthesizes c at volume vol in [0,1], nil for an unknown cue
func (c Cue) Streamer(vol float64, rate beep.SampleRate) beep.Streamer {
	var s beep.Streamer
	switch c {
	case CueActivate:
		tone := NewTone(440, 660, sweepDuration, WaveTriangle, rate)
		s = NewEnvelope(tone, sweepDuration, attack, 60*time.Millisecond, rate)
	case CueDeactivate:
		tone := NewTone(660, 440, sweepDuration, WaveTriangle, rate)
		s = NewEnvelope(tone, sweepDuration, attack, 60*time.Millisecond, rate)
	case CueArrival:
		fund := NewEnvelope(NewTone(880, 880, bellDuration, WaveSine, rate), bellDuration, attack, 350*time.Millisecond, rate)
		over := NewEnvelope(NewTone(1760, 1760, bellDuration, WaveSine, rate), bellDuration, attack, 200*time.Millisecond, rate)
		s = beep.Take(rate.N(bellDuration), beep.Mix(withVolume(fund, 0.7), withVolume(over, 0.3)))
	case CueFailure:
		tone := NewTone(140, 110, failureDuration, WaveSquare, rate)
		s = NewEnvelope(tone, failureDuration, attack, 40*time.Millisecond, rate)
	default:
		return nil
	}
	return withVolume(s, vol)
}
