package gesture

import "sync"

// Kind is the class of scroll-affecting input
type Kind uint8

const (
	// Wheel is a mouse wheel step, positive DeltaY scrolls forward
	Wheel Kind = iota
	// TouchMove is a drag with the primary button held
	TouchMove
)

// Target is the element under the input
type Target interface {
	// Scrollable reports an explicit nested-scrollable marker
	Scrollable() bool
	// Overflowing reports internal overflow that has not reached its own scroll capacity
	Overflowing() bool
	// PendingSuppress reports the transient marker set while the element was scrollable
	PendingSuppress() bool
	ClearPendingSuppress()
}

// Event is one input delivered to listeners
type Event struct {
	Kind   Kind
	DeltaY float64
	DeltaX float64
	// Target is nil for input over the page background
	Target Target

	prevented bool
}

// PreventDefault stops the page from applying the event's scroll effect
func (e *Event) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether any listener suppressed the default effect
func (e *Event) DefaultPrevented() bool {
	return e.prevented
}

// Source delivers wheel and touch-move input
type Source interface {
	OnWheel(fn func(*Event)) CallbackHandle
	OnTouchMove(fn func(*Event)) CallbackHandle
}

type listener struct {
	id uint32
	fn func(*Event)
}

// Dispatcher is the scroll container's listener registry
type Dispatcher struct {
	mu     sync.Mutex
	nextID uint32
	wheel  []listener
	touch  []listener
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// CallbackHandle removes a registered listener
type CallbackHandle struct {
	id   uint32
	kind Kind
	d    *Dispatcher
}

// Remove unregisters the listener, no-op on a zero handle or a second call
func (h CallbackHandle) Remove() {
	if h.d == nil {
		return
	}
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	switch h.kind {
	case Wheel:
		h.d.wheel = removeListener(h.d.wheel, h.id)
	case TouchMove:
		h.d.touch = removeListener(h.d.touch, h.id)
	}
}

func removeListener(ls []listener, id uint32) []listener {
	for i, l := range ls {
		if l.id == id {
			return append(ls[:i], ls[i+1:]...)
		}
	}
	return ls
}

// OnWheel registers a wheel listener
func (d *Dispatcher) OnWheel(fn func(*Event)) CallbackHandle {
	return d.add(Wheel, fn)
}

// OnTouchMove registers a touch-move listener
func (d *Dispatcher) OnTouchMove(fn func(*Event)) CallbackHandle {
	return d.add(TouchMove, fn)
}

func (d *Dispatcher) add(kind Kind, fn func(*Event)) CallbackHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	l := listener{id: d.nextID, fn: fn}
	if kind == Wheel {
		d.wheel = append(d.wheel, l)
	} else {
		d.touch = append(d.touch, l)
	}
	return CallbackHandle{id: l.id, kind: kind, d: d}
}

// Dispatch delivers ev to the listeners of its kind in registration order
// Returns true when the default effect was prevented
func (d *Dispatcher) Dispatch(ev *Event) bool {
	d.mu.Lock()
	src := d.wheel
	if ev.Kind == TouchMove {
		src = d.touch
	}
	ls := make([]listener, len(src))
	copy(ls, src)
	d.mu.Unlock()

	for _, l := range ls {
		l.fn(ev)
	}
	return ev.DefaultPrevented()
}

// Listeners returns the number of registered listeners
func (d *Dispatcher) Listeners() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.wheel) + len(d.touch)
}
