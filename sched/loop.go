package sched

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFrameInterval is ~60 FPS
const DefaultFrameInterval = 16 * time.Millisecond

// ErrLoopRunning is returned by Run when another goroutine already drives the loop
var ErrLoopRunning = errors.New("scheduler loop already running")

// Loop is the real-time Scheduler
// Posted functions, timer callbacks and frame callbacks all run on the goroutine calling Run
type Loop struct {
	frameInterval time.Duration
	inbox         chan func()

	mu         sync.Mutex
	frames     map[Handle]FrameFunc
	current    map[Handle]FrameFunc // Frame being run, cancellable mid-frame
	nextHandle Handle

	// Control
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	// Crash handling injected by the host so the loop stays terminal-agnostic
	crashHandler func(any)
}

// NewLoop creates a loop ticking frames at the given interval, zero selects DefaultFrameInterval
func NewLoop(frameInterval time.Duration) *Loop {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &Loop{
		frameInterval: frameInterval,
		inbox:         make(chan func(), 256),
		frames:        make(map[Handle]FrameFunc),
		stopChan:      make(chan struct{}),
	}
}

// SetCrashHandler installs the panic handler wrapping every callback
func (l *Loop) SetCrashHandler(fn func(any)) {
	l.crashHandler = fn
}

// Now returns the current time with monotonic clock reading
func (l *Loop) Now() time.Time {
	return time.Now()
}

// Post queues fn for the loop goroutine, dropped once the loop is stopped
func (l *Loop) Post(fn func()) {
	select {
	case l.inbox <- fn:
	case <-l.stopChan:
	}
}

// AfterFunc runs fn on the loop goroutine after d
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			// Stop may have raced the underlying timer; the flag is authoritative
			if t.state.CompareAndSwap(timerPending, timerFired) {
				fn()
			}
		})
	})
	return t
}

// RequestFrame schedules fn for the next frame tick
func (l *Loop) RequestFrame(fn FrameFunc) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextHandle++
	l.frames[l.nextHandle] = fn
	return l.nextHandle
}

// CancelFrame removes a pending frame callback, no-op for unknown handles
func (l *Loop) CancelFrame(h Handle) {
	l.mu.Lock()
	delete(l.frames, h)
	delete(l.current, h)
	l.mu.Unlock()
}

// Run drives the loop until ctx is cancelled or Stop is called
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.stopChan:
			return nil
		case fn := <-l.inbox:
			l.safeCall(fn)
		case now := <-ticker.C:
			l.runFrame(now)
		}
	}
}

// Stop halts the loop, pending posts are discarded
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
}

// runFrame swaps out the pending set so callbacks requested during this frame run on the next one
func (l *Loop) runFrame(now time.Time) {
	l.mu.Lock()
	if len(l.frames) == 0 {
		l.mu.Unlock()
		return
	}
	l.current = l.frames
	l.frames = make(map[Handle]FrameFunc, len(l.current))
	handles := make([]Handle, 0, len(l.current))
	for h := range l.current {
		handles = append(handles, h)
	}
	l.mu.Unlock()

	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	for _, h := range handles {
		l.mu.Lock()
		fn, ok := l.current[h]
		delete(l.current, h)
		l.mu.Unlock()
		if ok {
			l.safeCall(func() { fn(now) })
		}
	}

	l.mu.Lock()
	l.current = nil
	l.mu.Unlock()
}

func (l *Loop) safeCall(fn func()) {
	if l.crashHandler != nil {
		defer func() {
			if r := recover(); r != nil {
				l.crashHandler(r)
			}
		}()
	}
	fn()
}

const (
	timerPending int32 = iota
	timerFired
	timerStopped
)

type loopTimer struct {
	timer *time.Timer
	state atomic.Int32
}

func (t *loopTimer) Stop() bool {
	if !t.state.CompareAndSwap(timerPending, timerStopped) {
		return false
	}
	t.timer.Stop()
	return true
}
