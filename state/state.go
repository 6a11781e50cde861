// Package state holds the process-wide UI state read by rendering and mutated by
// the interaction components through named transitions
package state

import (
	"sync"

	"github.com/lixenwraith/globe-explorer/location"
)

// ActivationMode is the globe interaction mode
type ActivationMode uint8

const (
	// Inactive is the hero view with the globe dormant
	Inactive ActivationMode = iota
	// Active is the explorable globe with default scrolling suppressed
	Active
	// Detail is Active with a focused location, the list is hidden
	Detail
)

func (m ActivationMode) String() string {
	switch m {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Detail:
		return "detail"
	}
	return "unknown"
}

// Selection is the hover and detail state
type Selection struct {
	Raw      *location.Location
	Settled  *location.Location
	Fetching bool
	Detail   *location.Detail
}

// Snapshot is an immutable copy of the store for renderers
type Snapshot struct {
	Mode          ActivationMode
	Selection     Selection
	Focused       *location.Location
	Ready         bool
	Scrolling     bool
	ScrollBlocked bool
	MenuVisible   bool
	About         bool
	PointerCursor bool
}

// FetchToken ties a detail response to the focus that requested it
type FetchToken struct {
	seq uint64
	id  int64
}

// ID returns the location identifier the fetch was issued for
func (t FetchToken) ID() int64 { return t.id }

// Store is the explicit state container
// Each field has a single writing component; all writes go through the methods below
type Store struct {
	mu sync.RWMutex

	active        bool
	focused       *location.Location
	sel           Selection
	ready         bool
	scrolling     bool
	scrollBlocked bool
	menuVisible   bool
	about         bool
	pointer       bool

	fetchSeq uint64
	inFlight FetchToken

	listeners map[uint64]func(Snapshot)
	nextID    uint64
}

// NewStore creates a store in Inactive mode
func NewStore() *Store {
	return &Store{listeners: make(map[uint64]func(Snapshot))}
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Mode:          s.modeLocked(),
		Selection:     s.sel,
		Focused:       s.focused,
		Ready:         s.ready,
		Scrolling:     s.scrolling,
		ScrollBlocked: s.scrollBlocked,
		MenuVisible:   s.menuVisible,
		About:         s.about,
		PointerCursor: s.pointer,
	}
}

// Mode derives the activation mode, Detail is implied by a focused location
func (s *Store) Mode() ActivationMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modeLocked()
}

func (s *Store) modeLocked() ActivationMode {
	switch {
	case !s.active:
		return Inactive
	case s.focused != nil:
		return Detail
	default:
		return Active
	}
}

// Ready reports whether the globe scene finished construction
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Scrolling reports whether a smooth scroll animation holds the scroll lock
func (s *Store) Scrolling() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scrolling
}

// ScrollBlocked reports whether page scrolling is blocked
func (s *Store) ScrollBlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scrollBlocked
}

// Focused returns the focused location, nil when none
func (s *Store) Focused() *location.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focused
}

// Selection returns the hover and detail state
func (s *Store) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sel
}

// --- Transitions ---

// SetReady records scene readiness
func (s *Store) SetReady(ready bool) {
	s.update(func() { s.ready = ready })
}

// Activate enters Active mode and shows the side menu
func (s *Store) Activate() {
	s.update(func() {
		s.active = true
		s.menuVisible = true
		s.about = false
	})
}

// Deactivate returns to the hero view, dropping any focus and hover
func (s *Store) Deactivate() {
	s.update(func() {
		s.active = false
		s.sel.Raw = nil
		s.clearFocusLocked()
	})
}

// SetAbout toggles the about overlay
func (s *Store) SetAbout(about bool) {
	s.update(func() { s.about = about })
}

// SetPointerCursor records the pointer affordance
func (s *Store) SetPointerCursor(pointer bool) {
	s.update(func() { s.pointer = pointer })
}

// SetScrolling sets the advisory scroll lock
func (s *Store) SetScrolling(scrolling bool) {
	s.update(func() { s.scrolling = scrolling })
}

// SetScrollBlocked blocks or allows page scrolling
func (s *Store) SetScrollBlocked(blocked bool) {
	s.update(func() { s.scrollBlocked = blocked })
}

// SetRaw records the raw hover value
func (s *Store) SetRaw(loc *location.Location) {
	s.update(func() { s.sel.Raw = loc })
}

// Focus sets the settled and focused location, clears stale detail and starts a fetch
// The returned token must accompany the response
func (s *Store) Focus(loc location.Location) FetchToken {
	var tok FetchToken
	s.update(func() {
		l := loc
		s.focused = &l
		s.sel.Settled = &l
		s.sel.Detail = nil
		s.sel.Fetching = true
		s.fetchSeq++
		tok = FetchToken{seq: s.fetchSeq, id: loc.ID}
		s.inFlight = tok
	})
	return tok
}

// CompleteFetch stores detail only if tok belongs to the current focus
// Returns false for a superseded response, which leaves state untouched
func (s *Store) CompleteFetch(tok FetchToken, detail location.Detail) bool {
	accepted := false
	s.update(func() {
		if !s.currentLocked(tok) {
			return
		}
		d := detail
		s.sel.Detail = &d
		s.sel.Fetching = false
		accepted = true
	})
	return accepted
}

// FailFetch ends the current fetch without detail, stale tokens are ignored
func (s *Store) FailFetch(tok FetchToken) bool {
	accepted := false
	s.update(func() {
		if !s.currentLocked(tok) {
			return
		}
		s.sel.Fetching = false
		accepted = true
	})
	return accepted
}

// IsCurrent reports whether tok is the outstanding fetch for the focused location
func (s *Store) IsCurrent(tok FetchToken) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentLocked(tok)
}

func (s *Store) currentLocked(tok FetchToken) bool {
	return s.focused != nil && tok == s.inFlight && s.focused.ID == tok.id
}

// ClearFocus drops the focused location and any pending detail
func (s *Store) ClearFocus() {
	s.update(s.clearFocusLocked)
}

func (s *Store) clearFocusLocked() {
	s.focused = nil
	s.sel.Settled = nil
	s.sel.Detail = nil
	s.sel.Fetching = false
	s.inFlight = FetchToken{}
}

// update applies fn under lock and notifies listeners outside it
func (s *Store) update(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	listeners := make([]func(Snapshot), 0, len(s.listeners))
	for id := uint64(1); id <= s.nextID; id++ {
		if l, ok := s.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

// Subscription removes a listener
type Subscription struct {
	id    uint64
	store *Store
}

// Close unregisters the listener, safe to call more than once
func (sub Subscription) Close() {
	if sub.store == nil {
		return
	}
	sub.store.mu.Lock()
	delete(sub.store.listeners, sub.id)
	sub.store.mu.Unlock()
}

// Subscribe registers fn to receive a snapshot after every transition
func (s *Store) Subscribe(fn func(Snapshot)) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.listeners[s.nextID] = fn
	return Subscription{id: s.nextID, store: s}
}
