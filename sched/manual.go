package sched

import (
	"sort"
	"sync"
	"time"
)

// Manual is a deterministic Scheduler for tests
// Time only moves through Advance; frames tick every FrameInterval of virtual time
// Post is safe from other goroutines, queued work runs on Flush or Advance
type Manual struct {
	mu            sync.Mutex
	now           time.Time
	frameInterval time.Duration
	nextFrame     time.Time

	timers  []*manualTimer
	timerID uint64

	frames     map[Handle]FrameFunc
	inFrame    map[Handle]FrameFunc
	nextHandle Handle

	posted []func()
}

// NewManual creates a manual scheduler starting at start
func NewManual(start time.Time, frameInterval time.Duration) *Manual {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &Manual{
		now:           start,
		frameInterval: frameInterval,
		nextFrame:     start.Add(frameInterval),
		frames:        make(map[Handle]FrameFunc),
	}
}

// Now returns the current virtual time
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc registers fn to run once virtual time reaches now+d
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timerID++
	t := &manualTimer{m: m, id: m.timerID, due: m.now.Add(d), fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// RequestFrame schedules fn for the next virtual frame
func (m *Manual) RequestFrame(fn FrameFunc) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextHandle++
	m.frames[m.nextHandle] = fn
	return m.nextHandle
}

// CancelFrame removes a pending frame callback
func (m *Manual) CancelFrame(h Handle) {
	m.mu.Lock()
	delete(m.frames, h)
	delete(m.inFrame, h)
	m.mu.Unlock()
}

// Post queues fn until the next Flush or Advance
func (m *Manual) Post(fn func()) {
	m.mu.Lock()
	m.posted = append(m.posted, fn)
	m.mu.Unlock()
}

// Pending returns the number of posted functions not yet run
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posted)
}

// PendingTimers returns the number of timers that have neither fired nor been stopped
func (m *Manual) PendingTimers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// PendingFrames returns the number of frame callbacks waiting for the next frame
func (m *Manual) PendingFrames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}

// Flush runs posted functions, including ones posted while flushing
func (m *Manual) Flush() {
	for {
		m.mu.Lock()
		if len(m.posted) == 0 {
			m.mu.Unlock()
			return
		}
		fn := m.posted[0]
		m.posted = m.posted[1:]
		m.mu.Unlock()
		fn()
	}
}

// Advance moves virtual time forward by d, firing timers and frames in time order
// At equal timestamps timers fire before the frame
func (m *Manual) Advance(d time.Duration) {
	m.Flush()

	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		timer := m.earliestTimer()
		frameDue := m.nextFrame

		switch {
		case timer != nil && !timer.due.After(target) && !timer.due.After(frameDue):
			m.removeTimer(timer.id)
			if timer.due.After(m.now) {
				m.now = timer.due
			}
			m.mu.Unlock()
			timer.fn()

		case !frameDue.After(target):
			m.now = frameDue
			m.nextFrame = frameDue.Add(m.frameInterval)
			pending := m.frames
			m.frames = make(map[Handle]FrameFunc)
			m.mu.Unlock()
			m.runFrames(pending, frameDue)

		default:
			m.now = target
			m.mu.Unlock()
			m.Flush()
			return
		}

		m.Flush()
	}
}

// runFrames invokes a swapped-out frame set in request order
// A callback cancelled by an earlier one in the same frame is skipped
func (m *Manual) runFrames(pending map[Handle]FrameFunc, now time.Time) {
	handles := make([]Handle, 0, len(pending))
	for h := range pending {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	m.mu.Lock()
	m.inFrame = pending
	m.mu.Unlock()

	for _, h := range handles {
		m.mu.Lock()
		fn, ok := m.inFrame[h]
		delete(m.inFrame, h)
		m.mu.Unlock()
		if ok {
			fn(now)
		}
	}

	m.mu.Lock()
	m.inFrame = nil
	m.mu.Unlock()
}

func (m *Manual) earliestTimer() *manualTimer {
	var best *manualTimer
	for _, t := range m.timers {
		if best == nil || t.due.Before(best.due) || (t.due.Equal(best.due) && t.id < best.id) {
			best = t
		}
	}
	return best
}

func (m *Manual) removeTimer(id uint64) bool {
	for i, t := range m.timers {
		if t.id == id {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return true
		}
	}
	return false
}

type manualTimer struct {
	m   *Manual
	id  uint64
	due time.Time
	fn  func()
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	return t.m.removeTimer(t.id)
}
