package sched

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// TestManualTimersFireInOrder tests timers fire at their due time in due order
func TestManualTimersFireInOrder(t *testing.T) {
	m := NewManual(epoch, 0)
	var order []string
	var firedAt []time.Duration

	m.AfterFunc(200*time.Millisecond, func() {
		order = append(order, "b")
		firedAt = append(firedAt, m.Now().Sub(epoch))
	})
	m.AfterFunc(100*time.Millisecond, func() {
		order = append(order, "a")
		firedAt = append(firedAt, m.Now().Sub(epoch))
	})

	m.Advance(150 * time.Millisecond)
	if len(order) != 1 || order[0] != "a" {
		t.Fatalf("Expected only 'a' after 150ms, got %v", order)
	}

	m.Advance(100 * time.Millisecond)
	if len(order) != 2 || order[1] != "b" {
		t.Fatalf("Expected 'a','b', got %v", order)
	}
	if firedAt[0] != 100*time.Millisecond || firedAt[1] != 200*time.Millisecond {
		t.Errorf("Unexpected fire times %v", firedAt)
	}
	if m.Now().Sub(epoch) != 250*time.Millisecond {
		t.Errorf("Expected clock at 250ms, got %v", m.Now().Sub(epoch))
	}
}

// TestManualTimerStop tests stopped timers never fire and report correctly
func TestManualTimerStop(t *testing.T) {
	m := NewManual(epoch, 0)
	fired := false
	timer := m.AfterFunc(50*time.Millisecond, func() { fired = true })

	if !timer.Stop() {
		t.Error("Expected first Stop to return true")
	}
	if timer.Stop() {
		t.Error("Expected second Stop to return false")
	}
	m.Advance(time.Second)
	if fired {
		t.Error("Stopped timer fired")
	}
	if m.PendingTimers() != 0 {
		t.Errorf("Expected no pending timers, got %d", m.PendingTimers())
	}
}

// TestManualFramesRunOncePerRequest tests frame callbacks are one-shot and requests made inside a frame run on the next one
func TestManualFramesRunOncePerRequest(t *testing.T) {
	m := NewManual(epoch, 16*time.Millisecond)
	count := 0
	var tick FrameFunc
	tick = func(now time.Time) {
		count++
		if count < 3 {
			m.RequestFrame(tick)
		}
	}
	m.RequestFrame(tick)

	m.Advance(16 * time.Millisecond)
	if count != 1 {
		t.Fatalf("Expected 1 frame after 16ms, got %d", count)
	}
	m.Advance(100 * time.Millisecond)
	if count != 3 {
		t.Errorf("Expected chain to stop at 3 frames, got %d", count)
	}
}

// TestManualCancelFrameWithinFrame tests a callback cancelled earlier in the same frame is skipped
func TestManualCancelFrameWithinFrame(t *testing.T) {
	m := NewManual(epoch, 0)
	var second Handle
	ran := false
	m.RequestFrame(func(time.Time) { m.CancelFrame(second) })
	second = m.RequestFrame(func(time.Time) { ran = true })

	m.Advance(DefaultFrameInterval)
	if ran {
		t.Error("Cancelled frame callback ran")
	}
}

// TestManualPostFromGoroutine tests posted work is queued until flushed
func TestManualPostFromGoroutine(t *testing.T) {
	m := NewManual(epoch, 0)
	var ran atomic.Bool
	done := make(chan struct{})
	go func() {
		m.Post(func() { ran.Store(true) })
		close(done)
	}()
	<-done

	if ran.Load() {
		t.Fatal("Posted work ran before Flush")
	}
	if m.Pending() != 1 {
		t.Fatalf("Expected 1 pending, got %d", m.Pending())
	}
	m.Flush()
	if !ran.Load() {
		t.Error("Posted work did not run on Flush")
	}
}

// TestLoopRunsPostsTimersAndFrames tests the real loop executes every callback kind on its goroutine
func TestLoopRunsPostsTimersAndFrames(t *testing.T) {
	l := NewLoop(5 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	posted := make(chan struct{})
	timerFired := make(chan struct{})
	frameRan := make(chan struct{})

	l.Post(func() { close(posted) })
	l.AfterFunc(10*time.Millisecond, func() { close(timerFired) })
	l.RequestFrame(func(time.Time) { close(frameRan) })

	for name, ch := range map[string]chan struct{}{"post": posted, "timer": timerFired, "frame": frameRan} {
		select {
		case <-ch:
		case <-ctx.Done():
			t.Fatalf("%s callback never ran", name)
		}
	}

	l.Stop()
	if err := <-errCh; err != nil {
		t.Errorf("Expected nil error after Stop, got %v", err)
	}
}

// TestLoopStoppedTimerDoesNotFire tests Stop on a loop timer suppresses the callback
func TestLoopStoppedTimerDoesNotFire(t *testing.T) {
	l := NewLoop(5 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	var fired atomic.Bool
	timer := l.AfterFunc(20*time.Millisecond, func() { fired.Store(true) })
	if !timer.Stop() {
		t.Fatal("Expected Stop to succeed on pending timer")
	}
	time.Sleep(60 * time.Millisecond)
	if fired.Load() {
		t.Error("Stopped timer fired")
	}
}

// TestLoopCrashHandler tests panics inside callbacks reach the injected handler
func TestLoopCrashHandler(t *testing.T) {
	l := NewLoop(5 * time.Millisecond)
	recovered := make(chan any, 1)
	l.SetCrashHandler(func(r any) { recovered <- r })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go l.Run(ctx)

	l.Post(func() { panic("boom") })
	select {
	case r := <-recovered:
		if r != "boom" {
			t.Errorf("Expected 'boom', got %v", r)
		}
	case <-ctx.Done():
		t.Fatal("Crash handler not invoked")
	}
}
