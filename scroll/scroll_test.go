package scroll

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/globe-explorer/sched"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type recordingLock struct {
	scrolling, blocked bool
	changes            int
}

func (l *recordingLock) SetScrolling(v bool)     { l.scrolling = v; l.changes++ }
func (l *recordingLock) SetScrollBlocked(v bool) { l.blocked = v }

func newAnimator() (*sched.Manual, *Page, *recordingLock, *Animator) {
	m := sched.NewManual(epoch, 16*time.Millisecond)
	page := NewPage(5000, 40)
	lock := &recordingLock{}
	return m, page, lock, NewAnimator(m, m, page, lock, zerolog.Nop())
}

// TestAnimateReachesTargetAndCompletesOnce tests animateScrollTo(1000, 1s) lands on 1000 at or after 1s with one completion
func TestAnimateReachesTargetAndCompletesOnce(t *testing.T) {
	m, page, lock, a := newAnimator()
	completions := 0

	a.AnimateTo(1000, time.Second, func() { completions++ })
	if !lock.scrolling || !lock.blocked {
		t.Fatal("Lock not held during animation")
	}

	m.Advance(990 * time.Millisecond)
	if page.ScrollY() >= 1000 || completions != 0 {
		t.Fatalf("Finished early: y=%v completions=%d", page.ScrollY(), completions)
	}

	m.Advance(100 * time.Millisecond)
	if page.ScrollY() != 1000 {
		t.Errorf("Expected y=1000, got %v", page.ScrollY())
	}
	if completions != 1 {
		t.Errorf("Expected 1 completion, got %d", completions)
	}
	if lock.scrolling || lock.blocked {
		t.Error("Lock still held after completion")
	}

	m.Advance(time.Second)
	if completions != 1 {
		t.Errorf("Completion fired again: %d", completions)
	}
	if m.PendingFrames() != 0 {
		t.Errorf("Frame schedule not released, %d pending", m.PendingFrames())
	}
}

// TestCancelMidFlight tests cancel at 500ms stops between start and target and never completes
func TestCancelMidFlight(t *testing.T) {
	m, page, lock, a := newAnimator()
	completions := 0

	cancel := a.AnimateTo(1000, time.Second, func() { completions++ })
	m.Advance(500 * time.Millisecond)
	cancel()
	cancel()

	y := page.ScrollY()
	if y <= 0 || y >= 1000 {
		t.Fatalf("Expected 0 < y < 1000 after cancel, got %v", y)
	}

	m.Advance(2 * time.Second)
	if page.ScrollY() != y {
		t.Errorf("Position moved after cancel: %v -> %v", y, page.ScrollY())
	}
	if completions != 0 {
		t.Errorf("Completion fired after cancel")
	}
	if lock.scrolling {
		t.Error("Lock held after cancel")
	}
	if a.Active() {
		t.Error("Animator still active after cancel")
	}
	if m.PendingFrames() != 0 {
		t.Errorf("Frame schedule not released, %d pending", m.PendingFrames())
	}
}

// TestQuinticProgress tests the eased position after half the duration
func TestQuinticProgress(t *testing.T) {
	m, page, _, a := newAnimator()
	a.AnimateTo(1000, 1600*time.Millisecond, nil)

	// Frames land on multiples of 16ms, 800ms is exactly half
	m.Advance(800 * time.Millisecond)
	want := 1000 * (1 - 1.0/32)
	if got := page.ScrollY(); got < want-0.001 || got > want+0.001 {
		t.Errorf("y at t=0.5 = %v, want %v", got, want)
	}
}

// TestZeroDurationCompletesNextFrame tests non-positive durations jump to target on the next frame
func TestZeroDurationCompletesNextFrame(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		m, page, _, a := newAnimator()
		completions := 0

		a.AnimateTo(300, d, func() { completions++ })
		if page.ScrollY() != 0 || completions != 0 {
			t.Fatalf("d=%v: completed synchronously inside AnimateTo", d)
		}

		m.Advance(16 * time.Millisecond)
		if page.ScrollY() != 300 || completions != 1 {
			t.Errorf("d=%v: y=%v completions=%d, want 300 and 1", d, page.ScrollY(), completions)
		}
		m.Advance(time.Second)
		if completions != 1 {
			t.Errorf("d=%v: completion fired %d times", d, completions)
		}
	}
}

// TestSupersedingAnimationCancelsPrevious tests a new animation replaces the running one without completing it
func TestSupersedingAnimationCancelsPrevious(t *testing.T) {
	m, page, lock, a := newAnimator()
	var fired []string

	a.AnimateTo(1000, time.Second, func() { fired = append(fired, "first") })
	m.Advance(200 * time.Millisecond)
	mid := page.ScrollY()

	a.AnimateTo(0, 400*time.Millisecond, func() { fired = append(fired, "second") })
	if !lock.scrolling {
		t.Fatal("Lock released while second animation runs")
	}
	if a.Current().StartY != mid {
		t.Errorf("Second animation should start at %v, got %v", mid, a.Current().StartY)
	}

	m.Advance(2 * time.Second)
	if len(fired) != 1 || fired[0] != "second" {
		t.Errorf("Expected only second completion, got %v", fired)
	}
	if page.ScrollY() != 0 {
		t.Errorf("Expected y=0, got %v", page.ScrollY())
	}
}

func TestPageClamping(t *testing.T) {
	p := NewPage(100, 40)
	p.ScrollTo(-5)
	if p.ScrollY() != 0 {
		t.Errorf("Expected clamp to 0, got %v", p.ScrollY())
	}
	p.ScrollBy(500)
	if p.ScrollY() != 60 {
		t.Errorf("Expected clamp to 60, got %v", p.ScrollY())
	}
	p.Resize(50, 40)
	if p.ScrollY() != 10 {
		t.Errorf("Expected re-clamp to 10, got %v", p.ScrollY())
	}
	p.SetAnchor("details", 40)
	if y, ok := p.Anchor("details"); !ok || y != 40 {
		t.Errorf("Anchor = %v,%v", y, ok)
	}
}
