package render

// Layer is one stage of the frame, drawn in priority order
type Layer interface {
	Render(ctx Context, buf *Buffer)
}

// VisibilityToggle is optionally implemented for per-frame enable/disable
type VisibilityToggle interface {
	Visible(ctx Context) bool
}

// Priority determines draw order, lower values draw first and hit-test last
type Priority int

const (
	PriorityBackground Priority = iota
	PriorityGlobe
	PriorityMarkers
	PriorityHero
	PriorityDetails
	PriorityList
	PriorityPanel
	PriorityHeader
	PriorityOverlay
	PriorityStatus
)
