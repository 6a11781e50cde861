package render

type layerEntry struct {
	layer    Layer
	priority Priority
	index    int // registration order for stable sort
}

// Orchestrator coordinates the frame: clear, draw every layer, flush
type Orchestrator struct {
	screen   Screen
	buffer   *Buffer
	layers   []layerEntry
	regCount int
}

// NewOrchestrator creates an orchestrator drawing to screen at the given size
func NewOrchestrator(screen Screen, width, height int) *Orchestrator {
	return &Orchestrator{
		screen: screen,
		buffer: NewBuffer(width, height),
		layers: make([]layerEntry, 0, 12),
	}
}

// Register adds a layer at the specified priority, keeping sorted order via insertion sort
func (o *Orchestrator) Register(l Layer, priority Priority) {
	entry := layerEntry{layer: l, priority: priority, index: o.regCount}
	o.regCount++

	pos := len(o.layers)
	for i, e := range o.layers {
		if priority < e.priority {
			pos = i
			break
		}
	}

	o.layers = append(o.layers, layerEntry{})
	copy(o.layers[pos+1:], o.layers[pos:])
	o.layers[pos] = entry
}

// Resize updates buffer dimensions
func (o *Orchestrator) Resize(width, height int) {
	o.buffer.Resize(width, height)
}

// Size returns the frame dimensions
func (o *Orchestrator) Size() (width, height int) {
	return o.buffer.Size()
}

// RenderFrame draws all visible layers and flushes to the screen
func (o *Orchestrator) RenderFrame(ctx Context) {
	o.buffer.Clear()
	for _, e := range o.layers {
		if vt, ok := e.layer.(VisibilityToggle); ok && !vt.Visible(ctx) {
			continue
		}
		e.layer.Render(ctx, o.buffer)
	}
	if o.screen != nil {
		o.buffer.Flush(o.screen)
	}
}

// HitTest resolves x,y against the regions of the last frame
func (o *Orchestrator) HitTest(x, y int) Hit {
	return o.buffer.HitTest(x, y)
}

// Buffer exposes the last frame
func (o *Orchestrator) Buffer() *Buffer {
	return o.buffer
}
