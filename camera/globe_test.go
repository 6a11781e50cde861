package camera

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/globe-explorer/location"
	"github.com/lixenwraith/globe-explorer/sched"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newGlobe() (*sched.Manual, *Globe) {
	m := sched.NewManual(epoch, 16*time.Millisecond)
	g := NewGlobe(m, m, zerolog.Nop())
	g.Start()
	return m, g
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// TestBuildSetsReadyOnce tests readiness and the ready callback
func TestBuildSetsReadyOnce(t *testing.T) {
	_, g := newGlobe()
	calls := 0
	g.OnReady(func() { calls++ })

	if g.Ready() {
		t.Fatal("Globe ready before Build")
	}
	g.Build([]location.Location{{ID: 2, Longitude: 50}, {ID: 1, Longitude: -20}})
	g.Build(nil)

	if !g.Ready() {
		t.Error("Globe not ready after Build")
	}
	if calls != 1 {
		t.Errorf("Ready callback fired %d times, want 1", calls)
	}
}

// TestZoomInFraming tests the pose reached for each framing preset
func TestZoomInFraming(t *testing.T) {
	for _, framing := range []Framing{FramingTrack, FramingArrival} {
		m, g := newGlobe()
		g.Activate()
		loc := location.Location{ID: 7, Latitude: 40, Longitude: 170}

		g.ZoomIn(loc, framing)
		if !g.Flying() {
			t.Fatalf("%v: expected flight after ZoomIn", framing)
		}

		m.Advance(2 * time.Second)
		p := Presets[framing]
		v := g.View()
		if g.Flying() {
			t.Errorf("%v: flight still running", framing)
		}
		if !near(v.Distance, p.Distance) {
			t.Errorf("%v: distance = %v, want %v", framing, v.Distance, p.Distance)
		}
		if !near(v.CenterLat, 40+p.LatOffset) {
			t.Errorf("%v: lat = %v, want %v", framing, v.CenterLat, 40+p.LatOffset)
		}
		// 170 + offset wraps past the antimeridian
		wantLon := 170 + p.LonOffset - 360
		if !near(v.CenterLon, wantLon) {
			t.Errorf("%v: lon = %v, want %v", framing, v.CenterLon, wantLon)
		}
		if target, f := g.Target(); target == nil || target.ID != 7 || f != framing {
			t.Errorf("%v: target = %v/%v", framing, target, f)
		}
	}
}

// TestIdleSpinStopsWhileTargeted tests the globe spins only without a target
func TestIdleSpinStopsWhileTargeted(t *testing.T) {
	m, g := newGlobe()
	start := g.View().CenterLon
	m.Advance(time.Second)
	if spun := g.View().CenterLon - start; spun <= 0 {
		t.Fatalf("Expected idle spin, moved %v", spun)
	}

	g.ZoomIn(location.Location{ID: 1, Latitude: 10, Longitude: 10}, FramingTrack)
	m.Advance(2 * time.Second)
	held := g.View().CenterLon
	m.Advance(time.Second)
	if g.View().CenterLon != held {
		t.Errorf("Globe spun while targeted: %v -> %v", held, g.View().CenterLon)
	}
}

// TestDeactivateImmediate tests the immediate deactivation jumps to the hero pose
func TestDeactivateImmediate(t *testing.T) {
	m, g := newGlobe()
	g.Activate()
	m.Advance(2 * time.Second)
	if !near(g.View().Distance, ActiveDistance) {
		t.Fatalf("distance = %v after activate", g.View().Distance)
	}

	g.Deactivate(true)
	if g.Flying() || !near(g.View().Distance, HeroDistance) || g.Active() {
		t.Errorf("Immediate deactivate left flying=%v distance=%v", g.Flying(), g.View().Distance)
	}

	g.Activate()
	m.Advance(100 * time.Millisecond)
	g.Deactivate(false)
	if !g.Flying() {
		t.Error("Animated deactivate should fly")
	}
	m.Advance(2 * time.Second)
	if !near(g.View().Distance, HeroDistance) {
		t.Errorf("distance = %v, want hero", g.View().Distance)
	}
}

// TestZoomOutReturnsToActiveDistance tests ZoomOut clears the target
func TestZoomOutReturnsToActiveDistance(t *testing.T) {
	m, g := newGlobe()
	g.Activate()
	g.ZoomIn(location.Location{ID: 3}, FramingArrival)
	m.Advance(2 * time.Second)

	g.ZoomOut()
	m.Advance(2 * time.Second)
	if target, _ := g.Target(); target != nil {
		t.Error("Target kept after ZoomOut")
	}
	if !near(g.View().Distance, ActiveDistance) {
		t.Errorf("distance = %v, want %v", g.View().Distance, ActiveDistance)
	}
}

// TestStopReleasesFrame tests the frame schedule is released
func TestStopReleasesFrame(t *testing.T) {
	m, g := newGlobe()
	m.Advance(50 * time.Millisecond)
	g.Stop()
	g.Stop()
	if m.PendingFrames() != 0 {
		t.Errorf("Expected no pending frames, got %d", m.PendingFrames())
	}
}
