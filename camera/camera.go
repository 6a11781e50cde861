// Package camera drives the globe view: activation, city framing and readiness
package camera

import (
	"time"

	"github.com/lixenwraith/globe-explorer/location"
)

// Framing is a named camera preset used when zooming to a location
type Framing uint8

const (
	// FramingTrack is the near-field framing issued as soon as a hover settles
	FramingTrack Framing = iota
	// FramingArrival is the closer framing issued once the settled hover stays put
	FramingArrival
)

func (f Framing) String() string {
	switch f {
	case FramingTrack:
		return "track"
	case FramingArrival:
		return "arrival"
	}
	return "unknown"
}

// Preset holds the geometry of a Framing
type Preset struct {
	// Distance from the globe centre in globe radii
	Distance float64
	// LonOffset shifts the view centre east of the location so it sits off-centre beside the detail panel
	LonOffset float64
	LatOffset float64
	Duration  time.Duration
}

// Distances and timings of the fixed views
const (
	HeroDistance   = 3.2
	ActiveDistance = 2.1

	ActivateDuration   = 1200 * time.Millisecond
	DeactivateDuration = 900 * time.Millisecond
	ZoomOutDuration    = 800 * time.Millisecond

	// Degrees per second of idle spin
	IdleSpin = 4.0
)

// Presets maps each Framing to its geometry
var Presets = map[Framing]Preset{
	FramingTrack:   {Distance: 1.7, LonOffset: 18, LatOffset: -4, Duration: 700 * time.Millisecond},
	FramingArrival: {Distance: 1.3, LonOffset: 12, LatOffset: -2, Duration: 1100 * time.Millisecond},
}

// Camera is the scene interface driven by the gesture controller and focus orchestrator
type Camera interface {
	Activate()
	Deactivate(immediate bool)
	ZoomIn(loc location.Location, framing Framing)
	ZoomOut()
	Ready() bool
}

// View is the camera pose
type View struct {
	CenterLat float64
	CenterLon float64
	Distance  float64
}
