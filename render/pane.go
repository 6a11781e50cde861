package render

// Pane is a nested scrollable region such as the country list or the detail panel
// It persists across frames; layers update its geometry while drawing
type Pane struct {
	content int
	height  int
	offset  int
	marked  bool
	pending bool
}

// NewPane creates a pane; marked panes keep their wheel input even without overflow
func NewPane(marked bool) *Pane {
	return &Pane{marked: marked}
}

// Layout sets content and viewport heights in rows, clamping the offset
func (p *Pane) Layout(content, height int) {
	p.content = max(content, 0)
	p.height = max(height, 0)
	p.offset = min(p.offset, p.maxOffset())
}

// Offset returns the first visible content row
func (p *Pane) Offset() int { return p.offset }

// Reset scrolls back to the top
func (p *Pane) Reset() {
	p.offset = 0
	p.pending = false
}

// ScrollBy moves the content by d rows and reports whether it moved
// A pane that moved is marked pending until the gesture controller sees it at capacity
func (p *Pane) ScrollBy(d int) bool {
	next := min(max(p.offset+d, 0), p.maxOffset())
	if next == p.offset {
		return false
	}
	p.offset = next
	p.pending = true
	return true
}

func (p *Pane) maxOffset() int {
	return max(p.content-p.height, 0)
}

// Scrollable reports the explicit nested-scroll marker
func (p *Pane) Scrollable() bool { return p.marked }

// Overflowing reports content below the viewport not yet scrolled into view
func (p *Pane) Overflowing() bool {
	return p.content > p.height && p.offset < p.maxOffset()
}

// PendingSuppress reports the marker left by a previous scroll
func (p *Pane) PendingSuppress() bool { return p.pending }

// ClearPendingSuppress drops the marker
func (p *Pane) ClearPendingSuppress() { p.pending = false }
