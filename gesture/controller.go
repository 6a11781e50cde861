// Package gesture decides when the globe activates and which active-mode input keeps its default scroll effect
package gesture

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/globe-explorer/camera"
	"github.com/lixenwraith/globe-explorer/scroll"
	"github.com/lixenwraith/globe-explorer/state"
	"github.com/lixenwraith/globe-explorer/status"
)

// DetailsAnchor is the page anchor of the section below the hero
const DetailsAnchor = "details"

// Anchors resolves named page offsets
type Anchors interface {
	Anchor(name string) (float64, bool)
}

// Config tunes the scroll-past commit
type Config struct {
	// CommitOffset is added to the details anchor, in rows
	CommitOffset float64
	// CommitDuration is the smooth scroll duration
	CommitDuration time.Duration
}

// DefaultConfig matches the landing page's commit scroll
func DefaultConfig() Config {
	return Config{CommitOffset: 2, CommitDuration: time.Second}
}

// Hooks observe mode flips, all optional
type Hooks struct {
	OnActivate   func()
	OnDeactivate func(immediate bool)
	// OnCaptured receives active-mode input whose default was suppressed, the globe's own gesture
	OnCaptured func(*Event)
}

// Controller is the gesture activation state machine
// It is the single writer of the activation flag and the pointer affordance
type Controller struct {
	store    *state.Store
	cam      camera.Camera
	animator *scroll.Animator
	anchors  Anchors
	cfg      Config
	hooks    Hooks
	log      zerolog.Logger

	activations   *atomic.Int64
	deactivations *atomic.Int64
	suppressed    *atomic.Int64
	commits       *atomic.Int64
}

// New creates a controller; animator and anchors may be nil when CommitScrollPast is unused
func New(store *state.Store, cam camera.Camera, animator *scroll.Animator, anchors Anchors, cfg Config, hooks Hooks, reg *status.Registry, log zerolog.Logger) *Controller {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Controller{
		store:         store,
		cam:           cam,
		animator:      animator,
		anchors:       anchors,
		cfg:           cfg,
		hooks:         hooks,
		log:           log.With().Str("component", "gesture").Logger(),
		activations:   reg.Ints.Get(status.KeyActivations),
		deactivations: reg.Ints.Get(status.KeyDeactivations),
		suppressed:    reg.Ints.Get(status.KeySuppressed),
		commits:       reg.Ints.Get(status.KeyCommits),
	}
}

// Subscription owns the listeners registered by Attach
type Subscription struct {
	once    sync.Once
	handles []CallbackHandle
	onClose func()
}

// Close removes both listeners and restores the default cursor, safe to call more than once
func (s *Subscription) Close() {
	s.once.Do(func() {
		for _, h := range s.handles {
			h.Remove()
		}
		if s.onClose != nil {
			s.onClose()
		}
	})
}

// Attach subscribes the controller to src's wheel and touch-move input
func (c *Controller) Attach(src Source) *Subscription {
	return &Subscription{
		handles: []CallbackHandle{
			src.OnWheel(c.Handle),
			src.OnTouchMove(c.Handle),
		},
		onClose: func() { c.store.SetPointerCursor(false) },
	}
}

// Handle applies the activation and suppression rules to one input event
func (c *Controller) Handle(ev *Event) {
	// Nothing to activate until the scene is constructed
	if !c.cam.Ready() || !c.store.Ready() {
		c.suppress(ev)
		return
	}

	// A smooth scroll owns the position until it completes
	if c.store.Scrolling() {
		c.suppress(ev)
		return
	}

	// The hero never scrolls while inactive, only forward motion activates
	if c.store.Mode() == state.Inactive {
		c.suppress(ev)
		if (ev.Kind == Wheel && ev.DeltaY > 0) || ev.Kind == TouchMove {
			c.activate()
		}
		return
	}

	t := ev.Target
	if t == nil {
		c.suppress(ev)
		c.capture(ev)
		return
	}
	if !t.Scrollable() && !t.Overflowing() {
		c.suppress(ev)
		c.capture(ev)
	}
	if t.PendingSuppress() && !t.Overflowing() {
		t.ClearPendingSuppress()
	}
}

// Explore is the explicit activation commit
func (c *Controller) Explore() {
	if !c.ready() || c.store.Mode() != state.Inactive {
		return
	}
	c.activate()
}

// Home returns the landing view to the hero and closes the about overlay
func (c *Controller) Home() {
	if !c.ready() {
		return
	}
	c.store.SetAbout(false)
	if c.store.Mode() != state.Inactive {
		c.deactivate(false)
	}
}

// About deactivates the globe at once and shows the about overlay
func (c *Controller) About() {
	if !c.ready() {
		return
	}
	if c.store.Mode() != state.Inactive {
		c.deactivate(true)
	}
	c.store.SetAbout(true)
}

// CommitScrollPast leaves the hero: unblock scrolling, animate to the details section, deactivate
// Ignored while a scroll animation is already running
func (c *Controller) CommitScrollPast() {
	if !c.ready() || c.store.Scrolling() {
		return
	}
	target := c.cfg.CommitOffset
	if c.anchors != nil {
		if y, ok := c.anchors.Anchor(DetailsAnchor); ok {
			target += y
		}
	}

	c.commits.Add(1)
	c.store.SetScrollBlocked(false)
	if c.animator != nil {
		c.animator.AnimateTo(target, c.cfg.CommitDuration, nil)
	}
	if c.store.Mode() != state.Inactive {
		c.deactivate(false)
	}
	c.log.Debug().Float64("target", target).Msg("Scroll past hero committed")
}

// SetCommitOffset changes the scroll-past offset, used when the terminal changes device class
func (c *Controller) SetCommitOffset(rows float64) {
	c.cfg.CommitOffset = rows
}

func (c *Controller) ready() bool {
	return c.cam.Ready() && c.store.Ready()
}

func (c *Controller) activate() {
	c.cam.Activate()
	c.store.Activate()
	c.store.SetPointerCursor(true)
	c.activations.Add(1)
	c.log.Info().Msg("Globe activated")
	if c.hooks.OnActivate != nil {
		c.hooks.OnActivate()
	}
}

func (c *Controller) deactivate(immediate bool) {
	c.cam.Deactivate(immediate)
	c.store.Deactivate()
	c.store.SetPointerCursor(false)
	c.deactivations.Add(1)
	c.log.Info().Bool("immediate", immediate).Msg("Globe deactivated")
	if c.hooks.OnDeactivate != nil {
		c.hooks.OnDeactivate(immediate)
	}
}

func (c *Controller) suppress(ev *Event) {
	ev.PreventDefault()
	c.suppressed.Add(1)
}

func (c *Controller) capture(ev *Event) {
	if c.hooks.OnCaptured != nil {
		c.hooks.OnCaptured(ev)
	}
}
