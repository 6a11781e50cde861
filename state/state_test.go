package state

import (
	"testing"

	"github.com/lixenwraith/globe-explorer/location"
)

func TestModeDerivation(t *testing.T) {
	s := NewStore()
	if s.Mode() != Inactive {
		t.Fatalf("Expected Inactive, got %v", s.Mode())
	}

	s.Activate()
	if s.Mode() != Active {
		t.Fatalf("Expected Active, got %v", s.Mode())
	}
	if !s.Snapshot().MenuVisible {
		t.Error("Activate should show the menu")
	}

	s.Focus(location.Location{ID: 1})
	if s.Mode() != Detail {
		t.Fatalf("Expected Detail, got %v", s.Mode())
	}

	s.ClearFocus()
	if s.Mode() != Active {
		t.Fatalf("Expected Active after ClearFocus, got %v", s.Mode())
	}

	s.Focus(location.Location{ID: 2})
	s.SetRaw(&location.Location{ID: 2})
	s.Deactivate()
	if s.Mode() != Inactive || s.Focused() != nil {
		t.Errorf("Deactivate should drop focus, got mode=%v focused=%v", s.Mode(), s.Focused())
	}
	if raw := s.Selection().Raw; raw != nil {
		t.Errorf("Deactivate kept raw hover %v", raw)
	}
}

// TestStaleFetchIgnored tests a response for a superseded focus never lands
func TestStaleFetchIgnored(t *testing.T) {
	s := NewStore()
	s.Activate()

	tokA := s.Focus(location.Location{ID: 1})
	s.ClearFocus()
	tokB := s.Focus(location.Location{ID: 2})

	if s.CompleteFetch(tokA, location.Detail{ID: 1}) {
		t.Fatal("Stale response for A accepted")
	}
	sel := s.Selection()
	if sel.Detail != nil || !sel.Fetching {
		t.Fatalf("Stale response altered state: %+v", sel)
	}

	if !s.CompleteFetch(tokB, location.Detail{ID: 2}) {
		t.Fatal("Current response for B rejected")
	}
	sel = s.Selection()
	if sel.Detail == nil || sel.Detail.ID != 2 || sel.Fetching {
		t.Errorf("Expected detail for B, got %+v", sel)
	}
}

// TestRefocusSameLocationInvalidatesOldToken tests tokens are per settle, not per identifier
func TestRefocusSameLocationInvalidatesOldToken(t *testing.T) {
	s := NewStore()
	s.Activate()

	first := s.Focus(location.Location{ID: 7})
	second := s.Focus(location.Location{ID: 7})

	if s.IsCurrent(first) {
		t.Error("First token still current after refocus")
	}
	if !s.IsCurrent(second) {
		t.Error("Second token not current")
	}
	if first.ID() != 7 {
		t.Errorf("Token ID = %d, want 7", first.ID())
	}
}

func TestFailFetch(t *testing.T) {
	s := NewStore()
	s.Activate()
	tok := s.Focus(location.Location{ID: 3})

	if !s.FailFetch(tok) {
		t.Fatal("FailFetch rejected current token")
	}
	sel := s.Selection()
	if sel.Fetching || sel.Detail != nil {
		t.Errorf("Expected fetching=false and no detail, got %+v", sel)
	}
	if s.FailFetch(tok) && s.Selection().Fetching {
		t.Error("Second FailFetch changed state")
	}
}

func TestSubscribeAndClose(t *testing.T) {
	s := NewStore()
	var seen []ActivationMode
	sub := s.Subscribe(func(snap Snapshot) { seen = append(seen, snap.Mode) })

	s.Activate()
	s.Focus(location.Location{ID: 1})
	sub.Close()
	sub.Close()
	s.Deactivate()

	if len(seen) != 2 || seen[0] != Active || seen[1] != Detail {
		t.Errorf("Unexpected notifications %v", seen)
	}
}

func TestFlags(t *testing.T) {
	s := NewStore()
	s.SetReady(true)
	s.SetScrolling(true)
	s.SetScrollBlocked(true)
	s.SetPointerCursor(true)
	s.SetAbout(true)

	snap := s.Snapshot()
	if !snap.Ready || !snap.Scrolling || !snap.ScrollBlocked || !snap.PointerCursor || !snap.About {
		t.Errorf("Flags not recorded: %+v", snap)
	}

	s.Activate()
	if s.Snapshot().About {
		t.Error("Activate should close the about overlay")
	}
}
