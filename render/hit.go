package render

import "github.com/lixenwraith/globe-explorer/gesture"

// Rect is a cell rectangle
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether x,y lies inside r
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// HitKind classifies what lies under the pointer
type HitKind uint8

const (
	HitNone HitKind = iota
	HitMarker
	HitListItem
	HitButton
	HitPane
)

// Action is a clickable control
type Action uint8

const (
	ActionNone Action = iota
	ActionHome
	ActionAbout
	ActionExplore
	ActionCommit
	ActionDismiss
	ActionMute
)

var actionNames = [...]string{"none", "home", "about", "explore", "commit", "dismiss", "mute"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Hit describes the element at a screen position
type Hit struct {
	Kind HitKind
	// ID is the location id for HitMarker and HitListItem
	ID     int64
	Action Action
	// Target is the element as seen by the gesture controller, nil for the page background
	Target gesture.Target
}

// Region is a hit area registered while drawing
type Region struct {
	Rect
	Hit Hit
}

// AddRegion registers a hit area; later regions sit on top
func (b *Buffer) AddRegion(r Rect, h Hit) {
	b.regions = append(b.regions, Region{Rect: r, Hit: h})
}

// HitTest returns the topmost region containing x,y
func (b *Buffer) HitTest(x, y int) Hit {
	for i := len(b.regions) - 1; i >= 0; i-- {
		if b.regions[i].Contains(x, y) {
			return b.regions[i].Hit
		}
	}
	return Hit{}
}

// plain is a non-scrollable element, its input belongs to the globe while active
type plain struct{}

func (plain) Scrollable() bool      { return false }
func (plain) Overflowing() bool     { return false }
func (plain) PendingSuppress() bool { return false }
func (plain) ClearPendingSuppress() {}

// Element is the gesture target of ordinary drawn elements
var Element gesture.Target = plain{}
