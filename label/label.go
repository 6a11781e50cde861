// Package label turns a Location into the declarative descriptor of its globe marker
//
// Generate is pure: attaching the marker to the scene and wiring click handling
// belong to the caller
package label

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/globe-explorer/location"
)

// Scaling constants
const (
	MinPosts = 1
	MaxPosts = 500

	BaseSizeCompact  = 8.0
	BaseSizeStandard = 10.0
	MaxSize          = 30.0

	AnchorSize  = 50.0
	ColoredSize = 30.0

	MaxStemLength = 15.0
)

// Marker palette
var (
	White = colorful.Color{R: 1, G: 1, B: 1}
	Black = colorful.Color{R: 0, G: 0, B: 0}
	// Fallback fill for an override whose stops cannot be parsed
	Fallback = colorful.Color{R: 0, G: 0x52 / 255.0, B: 1}
)

// Box holds padding or similar per-axis spacing in pixels
type Box struct {
	Vertical, Horizontal float64
}

// Marker is the visual descriptor of one location label
type Marker struct {
	ID   int64
	Text string

	FontSize   float64
	FontWeight int
	LineHeight float64

	// Background stops, one entry for a solid fill
	Background []colorful.Color
	TextColor  colorful.Color

	// OffsetY is the vertical translation in pixels, negative lifts the label above its anchor point
	OffsetY float64
	// StemLength is the sqrt-scaled engagement stem, zero for colored markers
	StemLength float64

	Padding      Box
	CornerRadius float64
	ShadowBlur   float64
	TextShadow   float64

	Colored bool
	Anchor  bool
}

// Generate computes the marker for loc on a compact or standard device
// Identical inputs always produce identical descriptors
func Generate(loc location.Location, compact bool) Marker {
	base := BaseSizeStandard
	if compact {
		base = BaseSizeCompact
	}

	colored := !loc.Color.IsZero()
	bg := background(loc.Color)

	m := Marker{
		ID:         loc.ID,
		Text:       strings.ToUpper(loc.Name),
		FontSize:   FontSize(loc, base, MaxSize),
		FontWeight: 500,
		LineHeight: 1,
		Background: bg,
		TextColor:  Black,
		ShadowBlur: 10,
		Colored:    colored,
		Anchor:     loc.IsAnchor,
	}

	if colored {
		// Colored markers sit flush on their anchor point
		m.TextColor = White
		m.Padding = Box{Vertical: 4, Horizontal: 8}
		m.CornerRadius = 8
		m.TextShadow = 1
	} else {
		m.StemLength = StemLength(loc.Posts)
		m.OffsetY = -0.5 * m.StemLength
		m.Padding = Box{Vertical: 2.5, Horizontal: 5}
		m.CornerRadius = 5
	}
	return m
}

// FontSize scales posts linearly from [MinPosts,MaxPosts] into [minSize,maxSize]
// The anchor location is fixed at AnchorSize and colored locations at ColoredSize
func FontSize(loc location.Location, minSize, maxSize float64) float64 {
	if loc.IsAnchor {
		return AnchorSize
	}
	if !loc.Color.IsZero() {
		return ColoredSize
	}
	scaled := float64(loc.Posts-MinPosts)/float64(MaxPosts-MinPosts)*(maxSize-minSize) + minSize
	return math.Min(math.Max(scaled, minSize), maxSize)
}

// StemLength is sqrt(posts) capped at MaxStemLength
func StemLength(posts int) float64 {
	if posts <= 0 {
		return 0
	}
	return math.Min(math.Sqrt(float64(posts)), MaxStemLength)
}

// background parses override stops, unparseable stops are skipped
func background(c location.Color) []colorful.Color {
	if c.IsZero() {
		return []colorful.Color{White}
	}
	var stops []colorful.Color
	for _, hex := range c.Stops {
		col, err := colorful.Hex(normalizeHex(hex))
		if err != nil {
			continue
		}
		stops = append(stops, col)
	}
	if len(stops) == 0 {
		return []colorful.Color{Fallback}
	}
	return stops
}

// normalizeHex adds the leading '#' colorful.Hex requires
func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if s != "" && s[0] != '#' {
		s = "#" + s
	}
	return s
}

// Sample returns the background color at t in [0,1] across the marker width
// Gradients blend in Lab space between evenly spaced stops
func (m Marker) Sample(t float64) colorful.Color {
	switch len(m.Background) {
	case 0:
		return White
	case 1:
		return m.Background[0]
	}
	t = math.Max(0, math.Min(1, t))
	segs := float64(len(m.Background) - 1)
	pos := t * segs
	i := int(pos)
	if i >= len(m.Background)-1 {
		return m.Background[len(m.Background)-1]
	}
	return m.Background[i].BlendLab(m.Background[i+1], pos-float64(i)).Clamped()
}
