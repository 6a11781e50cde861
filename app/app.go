// Package app wires the interaction components to a tcell screen and the data source
package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/globe-explorer/audio"
	"github.com/lixenwraith/globe-explorer/camera"
	"github.com/lixenwraith/globe-explorer/config"
	"github.com/lixenwraith/globe-explorer/focus"
	"github.com/lixenwraith/globe-explorer/gesture"
	"github.com/lixenwraith/globe-explorer/label"
	"github.com/lixenwraith/globe-explorer/location"
	"github.com/lixenwraith/globe-explorer/render"
	"github.com/lixenwraith/globe-explorer/sched"
	"github.com/lixenwraith/globe-explorer/scroll"
	"github.com/lixenwraith/globe-explorer/state"
	"github.com/lixenwraith/globe-explorer/status"
)

// Source provides the location snapshot and per-location details
type Source interface {
	Locations(ctx context.Context) ([]location.Record, error)
	Detail(ctx context.Context, id int64) (location.Detail, error)
}

// Screen is the drawing surface, satisfied by tcell.Screen
type Screen interface {
	render.Screen
	Size() (width, height int)
}

// Options configures an App
type Options struct {
	Config config.Config
	Source Source
	// Origin reports where the last snapshot came from, optional
	Origin func() string
	// Player may be nil for no cues
	Player *audio.Player
	// Registry may be nil
	Registry *status.Registry
	// Spawn starts background work, defaults to the go statement
	Spawn func(func())
	// OnQuit runs once when the user quits
	OnQuit func()
}

// detailsTail is the page height below the details anchor beyond one screen
const detailsTail = 8

// App is the globe explorer: one store, one globe, one page, all mutated on the scheduler goroutine
type App struct {
	sched  sched.Scheduler
	screen Screen
	opts   Options
	cfg    config.Config
	log    zerolog.Logger

	store    *state.Store
	globe    *camera.Globe
	page     *scroll.Page
	animator *scroll.Animator
	gesture  *gesture.Controller
	input    *gesture.Dispatcher
	sub      *gesture.Subscription
	focus    *focus.Orchestrator
	renderer *render.Orchestrator
	labels   *label.Cache

	listPane   *render.Pane
	detailPane *render.Pane

	reg     *status.Registry
	frameMs *status.Gauge
	ready   *atomic.Bool
	origin  *status.Label

	locations []location.Location
	top       []location.Location
	totals    location.Totals
	compact   bool
	width     int
	height    int

	frame    sched.Handle
	framing  bool
	press    *press
	ctx      context.Context
	cancel   context.CancelFunc
	quitOnce sync.Once
}

// New builds the component graph; nothing runs until Start
func New(s sched.Scheduler, screen Screen, opts Options, log zerolog.Logger) *App {
	if opts.Registry == nil {
		opts.Registry = status.NewRegistry()
	}
	if opts.Spawn == nil {
		opts.Spawn = func(fn func()) { go fn() }
	}
	cfg := opts.Config
	reg := opts.Registry

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		sched:      s,
		screen:     screen,
		opts:       opts,
		cfg:        cfg,
		log:        log.With().Str("component", "app").Logger(),
		store:      state.NewStore(),
		page:       scroll.NewPage(2, 1),
		labels:     label.NewCache(),
		listPane:   render.NewPane(true),
		detailPane: render.NewPane(true),
		reg:        reg,
		frameMs:    reg.Gauges.Get(status.KeyFrameMs),
		ready:      reg.Bools.Get(status.KeyReady),
		origin:     reg.Labels.Get(status.KeySource),
		ctx:        ctx,
		cancel:     cancel,
	}

	a.globe = camera.NewGlobe(s, s, log)
	a.globe.OnReady(func() {
		a.store.SetReady(true)
		a.ready.Store(true)
	})
	a.animator = scroll.NewAnimator(s, s, a.page, a.store, log)

	a.gesture = gesture.New(a.store, a.globe, a.animator, a.page, gesture.Config{
		CommitOffset:   cfg.Scroll.CommitOffset,
		CommitDuration: cfg.Scroll.CommitDuration,
	}, gesture.Hooks{
		OnActivate:   func() { a.opts.Player.Play(audio.CueActivate) },
		OnDeactivate: a.onDeactivate,
		OnCaptured:   a.onCaptured,
	}, reg, log)
	a.input = gesture.NewDispatcher()
	a.sub = a.gesture.Attach(a.input)

	a.focus = focus.New(s, a.store, a.globe, opts.Source, focus.Config{
		SettleDelay:  cfg.Focus.SettleDelay,
		ArrivalDelay: cfg.Focus.ArrivalDelay,
		FetchTimeout: cfg.Focus.FetchTimeout,
		Spawn:        opts.Spawn,
		OnArrival:    func(location.Location) { a.opts.Player.Play(audio.CueArrival) },
		OnFailure:    func(int64, error) { a.opts.Player.Play(audio.CueFailure) },
	}, reg, log)

	a.store.Subscribe(a.onState)

	a.renderer = render.NewOrchestrator(screen, 0, 0)
	a.renderer.Register(render.GlobeLayer{}, render.PriorityGlobe)
	a.renderer.Register(render.MarkerLayer{Cache: a.labels}, render.PriorityMarkers)
	a.renderer.Register(render.HeroLayer{}, render.PriorityHero)
	a.renderer.Register(render.CommitLayer{}, render.PriorityHero)
	a.renderer.Register(render.DetailsLayer{Cache: a.labels}, render.PriorityDetails)
	a.renderer.Register(render.ListLayer{Pane: a.listPane}, render.PriorityList)
	a.renderer.Register(render.DetailLayer{Pane: a.detailPane}, render.PriorityPanel)
	a.renderer.Register(render.HeaderLayer{}, render.PriorityHeader)
	a.renderer.Register(render.AboutLayer{}, render.PriorityOverlay)
	a.renderer.Register(render.StatusLayer{}, render.PriorityStatus)
	return a
}

// Start sizes the page, starts the globe and the frame loop, and begins loading the snapshot
// Must run on the scheduler goroutine
func (a *App) Start() {
	a.Resize()
	a.globe.Start()
	a.framing = true
	a.frame = a.sched.RequestFrame(a.onFrame)
	a.load()
}

// Close stops frames and cancels outstanding work
func (a *App) Close() {
	a.framing = false
	a.sched.CancelFrame(a.frame)
	a.globe.Stop()
	a.animator.Cancel()
	a.sub.Close()
	a.cancel()
	a.focus.Close()
}

// Store exposes the UI state
func (a *App) Store() *state.Store { return a.store }

// Globe exposes the camera
func (a *App) Globe() *camera.Globe { return a.globe }

// Page exposes the page viewport
func (a *App) Page() *scroll.Page { return a.page }

// Locations returns the normalized snapshot
func (a *App) Locations() []location.Location { return a.locations }

// Resize fits the page and buffer to the screen and re-resolves the device class
func (a *App) Resize() {
	w, h := a.screen.Size()
	a.width, a.height = w, h
	a.renderer.Resize(w, h)
	a.page.Resize(float64(2*h+detailsTail), float64(h))
	a.page.SetAnchor(gesture.DetailsAnchor, float64(h))

	compact := a.cfg.CompactFor(w)
	if compact != a.compact {
		a.labels.Reset()
	}
	a.compact = compact
	a.gesture.SetCommitOffset(a.cfg.CommitOffsetFor(compact))
}

func (a *App) load() {
	a.opts.Spawn(func() {
		recs, err := a.opts.Source.Locations(a.ctx)
		a.sched.Post(func() { a.ingest(recs, err) })
	})
}

// ingest normalizes the snapshot and builds the scene, an error leaves an empty globe
func (a *App) ingest(recs []location.Record, err error) {
	if err != nil {
		a.log.Error().Err(err).Msg("Failed to load locations")
	}
	locs, rejected := location.Normalize(recs, a.cfg.UI.AnchorName)
	for _, r := range rejected {
		a.log.Warn().Err(r).Msg("Location rejected")
	}

	a.locations = locs
	a.top = location.TopByFollowers(locs, a.cfg.UI.ListSize)
	a.totals = location.Summarize(locs)
	a.listPane.Reset()
	if a.opts.Origin != nil {
		a.origin.Set(a.opts.Origin())
	}
	a.globe.Build(locs)
	a.log.Info().Int("locations", len(locs)).Int("rejected", len(rejected)).Msg("Snapshot loaded")
}

func (a *App) onFrame(now time.Time) {
	if !a.framing {
		return
	}
	a.Draw(now)
	a.frame = a.sched.RequestFrame(a.onFrame)
}

// Draw renders one frame
func (a *App) Draw(now time.Time) {
	start := time.Now()
	ctx := render.Context{
		Now:     now,
		State:   a.store.Snapshot(),
		View:    a.globe.View(),
		Markers: a.globe.Markers(),
		Top:     a.top,
		Totals:  a.totals,
		ScrollY: a.page.ScrollY(),
		Compact: a.compact,
		Muted:   a.opts.Player.Muted(),
		Source:  a.origin.Value(),
	}
	if a.cfg.UI.StatusLine {
		ctx.Status = a.reg.Line()
	}
	a.renderer.RenderFrame(ctx)
	a.frameMs.Observe(time.Since(start))
}

// onState keeps pane scroll positions consistent with mode changes
func (a *App) onState(s state.Snapshot) {
	if s.Mode != state.Detail {
		a.detailPane.Reset()
	}
}

func (a *App) onDeactivate(immediate bool) {
	a.focus.Dismiss()
	a.opts.Player.Play(audio.CueDeactivate)
}

// onCaptured turns suppressed active-mode input into globe zoom and rotation
func (a *App) onCaptured(ev *gesture.Event) {
	switch ev.Kind {
	case gesture.Wheel:
		a.globe.Zoom(-wheelZoom * ev.DeltaY)
	case gesture.TouchMove:
		a.globe.Rotate(dragLon*ev.DeltaX, -dragLat*ev.DeltaY)
	}
}

// quit runs OnQuit once
func (a *App) quit() {
	a.quitOnce.Do(func() {
		a.log.Info().Msg("Quit requested")
		if a.opts.OnQuit != nil {
			a.opts.OnQuit()
		}
	})
}
