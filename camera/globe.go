package camera

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/globe-explorer/location"
	"github.com/lixenwraith/globe-explorer/sched"
	"github.com/lixenwraith/globe-explorer/tween"
)

// flight is an in-progress pose transition
type flight struct {
	from, to View
	start    time.Time
	duration time.Duration
}

// Globe is the terminal globe scene's camera
// Pose changes run as per-frame flights; with no flight and no target the globe idles with a slow spin
type Globe struct {
	clock  sched.Clock
	frames sched.Frames
	log    zerolog.Logger

	mu        sync.RWMutex
	view      View
	active    bool
	target    *location.Location
	framing   Framing
	flight    *flight
	ready     bool
	markers   []location.Location
	lastFrame time.Time

	running bool
	handle  sched.Handle
	onReady func()
}

// NewGlobe creates an unbuilt globe in the hero pose
func NewGlobe(clock sched.Clock, frames sched.Frames, log zerolog.Logger) *Globe {
	return &Globe{
		clock:  clock,
		frames: frames,
		log:    log.With().Str("component", "camera").Logger(),
		view:   View{CenterLat: 15, CenterLon: -30, Distance: HeroDistance},
	}
}

// OnReady registers the callback run once Build completes
func (g *Globe) OnReady(fn func()) {
	g.onReady = fn
}

// Build attaches the marker set and marks the scene ready
// Markers are attached west to east
func (g *Globe) Build(locs []location.Location) {
	g.mu.Lock()
	g.markers = location.ByLongitude(locs)
	wasReady := g.ready
	g.ready = true
	g.mu.Unlock()

	g.log.Info().Int("markers", len(locs)).Msg("Globe built")
	if !wasReady && g.onReady != nil {
		g.onReady()
	}
}

// Markers returns the attached locations
func (g *Globe) Markers() []location.Location {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.markers
}

// Ready reports whether Build has run
func (g *Globe) Ready() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ready
}

// View returns the current pose
func (g *Globe) View() View {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.view
}

// Active reports whether the globe is in its interactive pose
func (g *Globe) Active() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active
}

// Target returns the location the camera is framed on, nil when none
func (g *Globe) Target() (*location.Location, Framing) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.target, g.framing
}

// Flying reports whether a pose transition is running
func (g *Globe) Flying() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.flight != nil
}

// Start begins the per-frame update schedule
func (g *Globe) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return
	}
	g.running = true
	g.lastFrame = g.clock.Now()
	g.handle = g.frames.RequestFrame(g.tick)
}

// Stop releases the frame schedule
func (g *Globe) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.running {
		return
	}
	g.running = false
	g.frames.CancelFrame(g.handle)
}

// Activate flies from the hero pose to the interactive distance
func (g *Globe) Activate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = true
	g.target = nil
	to := g.view
	to.Distance = ActiveDistance
	g.flyLocked(to, ActivateDuration)
	g.log.Debug().Msg("Camera activated")
}

// Deactivate returns to the hero pose, immediately or with a flight
func (g *Globe) Deactivate(immediate bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = false
	g.target = nil
	to := g.view
	to.Distance = HeroDistance
	if immediate {
		g.flight = nil
		g.view = to
	} else {
		g.flyLocked(to, DeactivateDuration)
	}
	g.log.Debug().Bool("immediate", immediate).Msg("Camera deactivated")
}

// ZoomIn frames loc with the given preset
func (g *Globe) ZoomIn(loc location.Location, framing Framing) {
	p, ok := Presets[framing]
	if !ok {
		p = Presets[FramingTrack]
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	l := loc
	g.target = &l
	g.framing = framing
	g.flyLocked(View{
		CenterLat: clampLat(loc.Latitude + p.LatOffset),
		CenterLon: tween.WrapDegrees(loc.Longitude + p.LonOffset),
		Distance:  p.Distance,
	}, p.Duration)
	g.log.Debug().Int64("id", loc.ID).Str("framing", framing.String()).Msg("Camera zoom in")
}

// ZoomOut releases the target and returns to the interactive distance
func (g *Globe) ZoomOut() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.target = nil
	to := g.view
	to.Distance = ActiveDistance
	if !g.active {
		to.Distance = HeroDistance
	}
	g.flyLocked(to, ZoomOutDuration)
}

// Zoom adjusts distance directly, the globe's own response to a captured wheel gesture
func (g *Globe) Zoom(delta float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.flight != nil {
		return
	}
	g.view.Distance = max(1.15, min(HeroDistance, g.view.Distance+delta))
}

// Rotate pans the view, the globe's response to a captured drag
func (g *Globe) Rotate(dLon, dLat float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.flight != nil {
		return
	}
	g.view.CenterLon = tween.WrapDegrees(g.view.CenterLon + dLon)
	g.view.CenterLat = clampLat(g.view.CenterLat + dLat)
}

func (g *Globe) flyLocked(to View, d time.Duration) {
	g.flight = &flight{from: g.view, to: to, start: g.clock.Now(), duration: d}
}

func (g *Globe) tick(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.running {
		return
	}
	g.step(now)
	g.handle = g.frames.RequestFrame(g.tick)
}

// step advances the pose to now, caller holds the lock
func (g *Globe) step(now time.Time) {
	dt := now.Sub(g.lastFrame).Seconds()
	g.lastFrame = now

	if f := g.flight; f != nil {
		tw := tween.New(0, 1, f.start, f.duration, tween.CubicInOut)
		t, done := tw.Value(now)
		g.view = View{
			CenterLat: tween.Lerp(f.from.CenterLat, f.to.CenterLat, t),
			CenterLon: tween.LerpAngle(f.from.CenterLon, f.to.CenterLon, t),
			Distance:  tween.Lerp(f.from.Distance, f.to.Distance, t),
		}
		if done {
			g.flight = nil
		}
		return
	}

	if g.target == nil && dt > 0 {
		g.view.CenterLon = tween.WrapDegrees(g.view.CenterLon + IdleSpin*dt)
	}
}

func clampLat(lat float64) float64 {
	return max(-80, min(80, lat))
}
