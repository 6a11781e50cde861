package scroll

import (
	"math"
	"sync"
)

// Page is a virtual document taller than the screen, measured in rows
type Page struct {
	mu         sync.RWMutex
	y          float64
	height     float64
	viewHeight float64
	anchors    map[string]float64
}

// NewPage creates a page of the given total and visible height
func NewPage(height, viewHeight float64) *Page {
	return &Page{height: height, viewHeight: viewHeight, anchors: make(map[string]float64)}
}

// ScrollY returns the top row currently visible
func (p *Page) ScrollY() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.y
}

// ScrollTo moves the viewport, clamped to the document
func (p *Page) ScrollTo(y float64) {
	p.mu.Lock()
	p.y = p.clamp(y)
	p.mu.Unlock()
}

// ScrollBy applies a relative scroll, the default effect of an unsuppressed wheel event
func (p *Page) ScrollBy(dy float64) {
	p.mu.Lock()
	p.y = p.clamp(p.y + dy)
	p.mu.Unlock()
}

// Resize updates both heights and re-clamps the position
func (p *Page) Resize(height, viewHeight float64) {
	p.mu.Lock()
	p.height = height
	p.viewHeight = viewHeight
	p.y = p.clamp(p.y)
	p.mu.Unlock()
}

// SetAnchor registers a named document offset
func (p *Page) SetAnchor(name string, y float64) {
	p.mu.Lock()
	p.anchors[name] = y
	p.mu.Unlock()
}

// Anchor returns a named document offset
func (p *Page) Anchor(name string) (float64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	y, ok := p.anchors[name]
	return y, ok
}

// MaxScroll is the largest reachable offset
func (p *Page) MaxScroll() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return math.Max(0, p.height-p.viewHeight)
}

func (p *Page) clamp(y float64) float64 {
	return math.Max(0, math.Min(y, math.Max(0, p.height-p.viewHeight)))
}
