package render

import (
	"time"

	"github.com/lixenwraith/globe-explorer/camera"
	"github.com/lixenwraith/globe-explorer/location"
	"github.com/lixenwraith/globe-explorer/state"
)

// Context provides frame state for layers, passed by value
type Context struct {
	Now   time.Time
	State state.Snapshot
	View  camera.View

	// Markers are the globe's locations ordered by longitude
	Markers []location.Location
	// Top is the followers leaderboard shown in the list
	Top    []location.Location
	Totals location.Totals

	// ScrollY is the page offset in rows; the hero occupies [0, Height) and the details section follows
	ScrollY float64
	Compact bool

	Muted  bool
	Status string
	// Source names where the snapshot came from, empty before the first load
	Source string
}

// heroTop returns the screen row of page row 0
func (c Context) heroTop() int {
	return -int(c.ScrollY + 0.5)
}
