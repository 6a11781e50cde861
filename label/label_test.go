package label

import (
	"math"
	"reflect"
	"testing"

	"github.com/lixenwraith/globe-explorer/location"
)

const epsilon = 1e-9

// TestScenarioCompactSizes tests the two-location compact scenario: low posts near the base, high posts clamped at max
func TestScenarioCompactSizes(t *testing.T) {
	locs := []location.Location{
		{ID: 1, Name: "a", Posts: 4, Followers: 10},
		{ID: 2, Name: "b", Posts: 400, Followers: 5},
	}

	first := Generate(locs[0], true).FontSize
	want := 8 + 3.0/499.0*22
	if math.Abs(first-want) > epsilon {
		t.Errorf("posts=4 compact: got %v, want %v", first, want)
	}
	if first < BaseSizeCompact || first > 9 {
		t.Errorf("posts=4 compact should sit just above the base size, got %v", first)
	}

	second := Generate(locs[1], true).FontSize
	if second < 25 || second > MaxSize {
		t.Errorf("posts=400 compact: got %v, want close to %v", second, MaxSize)
	}
}

// TestFontSizeMonotonicAndClamped tests non-decreasing scaling inside [1,500] and clamping outside
func TestFontSizeMonotonicAndClamped(t *testing.T) {
	for _, compact := range []bool{true, false} {
		base := BaseSizeStandard
		if compact {
			base = BaseSizeCompact
		}

		prev := 0.0
		for posts := MinPosts; posts <= MaxPosts; posts++ {
			size := Generate(location.Location{Posts: posts}, compact).FontSize
			if size < prev {
				t.Fatalf("compact=%v: size decreased at posts=%d (%v < %v)", compact, posts, size, prev)
			}
			prev = size
		}

		tests := []struct {
			posts int
			want  float64
		}{
			{-10, base},
			{0, base},
			{MinPosts, base},
			{MaxPosts, MaxSize},
			{100000, MaxSize},
		}
		for _, tt := range tests {
			if got := Generate(location.Location{Posts: tt.posts}, compact).FontSize; math.Abs(got-tt.want) > epsilon {
				t.Errorf("compact=%v posts=%d: got %v, want %v", compact, tt.posts, got, tt.want)
			}
		}
	}
}

// TestAnchorOverride tests the anchor location is fixed at 50 regardless of posts or color
func TestAnchorOverride(t *testing.T) {
	for _, posts := range []int{0, 1, 250, 500, 9999} {
		loc := location.Location{Name: "Base", Posts: posts, IsAnchor: true}
		if got := Generate(loc, false).FontSize; got != AnchorSize {
			t.Errorf("anchor posts=%d: got %v, want %v", posts, got, AnchorSize)
		}
		loc.Color = location.Color{Stops: []string{"#0052FF"}}
		if got := Generate(loc, true).FontSize; got != AnchorSize {
			t.Errorf("colored anchor posts=%d: got %v, want %v", posts, got, AnchorSize)
		}
	}
}

// TestColoredMarker tests colored markers bypass scaling, sit flush and invert text color
func TestColoredMarker(t *testing.T) {
	loc := location.Location{ID: 3, Name: "onchain", Posts: 2, Color: location.Color{Stops: []string{"#0052FF", "#3773F5", "#FFFFFF"}}}
	m := Generate(loc, false)

	if m.FontSize != ColoredSize {
		t.Errorf("FontSize = %v, want %v", m.FontSize, ColoredSize)
	}
	if m.OffsetY != 0 || m.StemLength != 0 {
		t.Errorf("Colored marker should be flush, got offset=%v stem=%v", m.OffsetY, m.StemLength)
	}
	if m.TextColor != White {
		t.Errorf("Expected white text, got %v", m.TextColor.Hex())
	}
	if len(m.Background) != 3 || m.Background[0].Hex() != "#0052ff" {
		t.Errorf("Unexpected background %v", m.Background)
	}
	if m.Text != "ONCHAIN" {
		t.Errorf("Text = %q, want ONCHAIN", m.Text)
	}
}

// TestUncoloredMarker tests the default white marker and its stem offset
func TestUncoloredMarker(t *testing.T) {
	tests := []struct {
		posts  int
		stem   float64
		offset float64
	}{
		{0, 0, 0},
		{4, 2, -1},
		{100, 10, -5},
		{400, 15, -7.5},
	}
	for _, tt := range tests {
		m := Generate(location.Location{Name: "x", Posts: tt.posts}, false)
		if m.StemLength != tt.stem || m.OffsetY != tt.offset {
			t.Errorf("posts=%d: stem=%v offset=%v, want %v %v", tt.posts, m.StemLength, m.OffsetY, tt.stem, tt.offset)
		}
		if m.TextColor != Black || len(m.Background) != 1 || m.Background[0] != White {
			t.Errorf("posts=%d: expected black on white", tt.posts)
		}
	}
}

// TestUnparseableColorFallsBack tests broken override stops still yield a colored marker
func TestUnparseableColorFallsBack(t *testing.T) {
	m := Generate(location.Location{Color: location.Color{Stops: []string{"not-a-color"}}}, false)
	if !m.Colored || len(m.Background) != 1 || m.Background[0] != Fallback {
		t.Errorf("Expected fallback fill, got colored=%v bg=%v", m.Colored, m.Background)
	}
}

// TestGenerateIdempotent tests identical inputs produce identical descriptors
func TestGenerateIdempotent(t *testing.T) {
	loc := location.Location{ID: 5, Name: "Kenya", Posts: 42, Color: location.Color{Stops: []string{"fa0", "#00f"}}}
	a := Generate(loc, true)
	b := Generate(loc, true)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Generate not idempotent:\n%+v\n%+v", a, b)
	}
}

// TestSampleGradient tests gradient sampling hits the stops at the ends
func TestSampleGradient(t *testing.T) {
	m := Generate(location.Location{Color: location.Color{Stops: []string{"#000000", "#ffffff"}}}, false)
	if got := m.Sample(0).Hex(); got != "#000000" {
		t.Errorf("Sample(0) = %s", got)
	}
	if got := m.Sample(1).Hex(); got != "#ffffff" {
		t.Errorf("Sample(1) = %s", got)
	}
	mid := m.Sample(0.5)
	if mid.R <= 0 || mid.R >= 1 {
		t.Errorf("Sample(0.5) should be between stops, got %v", mid.Hex())
	}
}

// TestCacheMemoizes tests repeated lookups hit the cache and input changes miss it
func TestCacheMemoizes(t *testing.T) {
	c := NewCache()
	loc := location.Location{ID: 1, Name: "Peru", Posts: 10}

	first := c.Get(loc, false)
	second := c.Get(loc, false)
	if !reflect.DeepEqual(first, second) {
		t.Error("Cached marker differs from generated one")
	}

	loc.Posts = 11
	c.Get(loc, false)
	c.Get(loc, true)

	hits, misses := c.Stats()
	if hits != 1 || misses != 3 {
		t.Errorf("Expected hits=1 misses=3, got %d %d", hits, misses)
	}

	c.Reset()
	c.Get(loc, true)
	if _, misses := c.Stats(); misses != 4 {
		t.Errorf("Expected miss after Reset, got misses=%d", misses)
	}
}
