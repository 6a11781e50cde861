package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/globe-explorer/label"
	"github.com/lixenwraith/globe-explorer/location"
	"github.com/lixenwraith/globe-explorer/state"
)

// gridStep is the graticule spacing in degrees
const gridStep = 30.0

var (
	oceanLit  = colorful.Color{R: 0.09, G: 0.24, B: 0.58}
	oceanDark = colorful.Color{R: 0.02, G: 0.05, B: 0.16}
)

// GlobeLayer draws the shaded sphere and graticule within the hero screen
type GlobeLayer struct{}

// Render draws the sphere for ctx.View
func (GlobeLayer) Render(ctx Context, buf *Buffer) {
	w, h := buf.Size()
	top := ctx.heroTop()
	if top+h <= 0 {
		return
	}
	proj := NewProjection(ctx.View, w, h)
	dim := 0.0
	if ctx.State.Mode == state.Inactive {
		dim = 0.25
	}

	for y := max(top, 0); y < min(top+h, h); y++ {
		for x := 0; x < w; x++ {
			lat, lon, depth, ok := proj.Unproject(x, y-top)
			if !ok {
				continue
			}
			bg := TCell(shade(oceanDark.BlendLab(oceanLit, depth).Clamped(), dim))
			r, fg := ' ', ColorGrid
			if depth < 0.12 {
				fg = ColorLimb
				r = '░'
			} else if onGrid(lat, lon, 90/(proj.R*depth+1)) {
				r = '·'
			}
			buf.Set(x, y, r, tcell.StyleDefault.Background(bg).Foreground(fg))
		}
	}
}

// onGrid reports whether a coordinate lies within tol degrees of a graticule line
func onGrid(lat, lon, tol float64) bool {
	near := func(v float64) bool {
		m := math.Mod(math.Abs(v), gridStep)
		return m < tol || gridStep-m < tol
	}
	return near(lat) || near(lon)
}

// MarkerLayer draws one label per location on the visible hemisphere
type MarkerLayer struct {
	Cache *label.Cache
}

// Render draws the markers and registers their hit regions
func (l MarkerLayer) Render(ctx Context, buf *Buffer) {
	w, h := buf.Size()
	top := ctx.heroTop()
	if top+h <= 0 {
		return
	}
	proj := NewProjection(ctx.View, w, h)
	highlight := highlighted(ctx.State)

	for _, loc := range ctx.Markers {
		x, y, ok := proj.Project(loc.Latitude, loc.Longitude)
		if !ok {
			continue
		}
		m := l.Cache.Get(loc, ctx.Compact)
		l.draw(buf, m, x, y+top, highlight[loc.ID], ctx.State.Mode != state.Inactive)
	}
}

func (l MarkerLayer) draw(buf *Buffer, m label.Marker, x, y int, lit, interactive bool) {
	text := m.Text
	if m.Anchor {
		text = "◆ " + text
	}
	pad := 1
	if m.Colored {
		pad = 2
	}
	width := runewidth.StringWidth(text) + 2*pad

	// Uncolored markers stand on a stem, one row per five units of stem length
	stem := int(math.Round(m.StemLength / 5))
	labelY := y - stem
	if stem > 0 {
		for sy := y; sy > labelY; sy-- {
			buf.Set(x, sy, '│', StyleBase.Foreground(ColorText).Background(bgAt(buf, x, sy)))
		}
	}
	left := x - width/2

	for i := 0; i < width; i++ {
		bg := m.Sample(float64(i) / float64(max(width-1, 1)))
		if lit {
			bg = shade(bg, 0.35)
		}
		buf.Set(left+i, labelY, ' ', tcell.StyleDefault.Background(TCell(bg)))
	}

	style := tcell.StyleDefault.Foreground(TCell(m.TextColor))
	if m.FontSize >= label.ColoredSize || lit {
		style = style.Bold(true)
	}
	if m.Anchor {
		style = style.Underline(true)
	}
	col := left + pad
	for _, r := range text {
		bg := m.Sample(float64(col-left) / float64(max(width-1, 1)))
		if lit {
			bg = shade(bg, 0.35)
		}
		buf.Set(col, labelY, r, style.Background(TCell(bg)))
		col += max(runewidth.RuneWidth(r), 1)
	}

	if interactive {
		buf.AddRegion(Rect{X: left, Y: labelY, W: width, H: 1 + stem}, Hit{Kind: HitMarker, ID: m.ID, Target: Element})
	}
}

// bgAt returns the background already drawn at x,y
func bgAt(buf *Buffer, x, y int) tcell.Color {
	_, bg, _ := buf.Get(x, y).Style.Decompose()
	return bg
}

// highlighted returns the ids drawn emphasized: the raw hover and the focused location
func highlighted(s state.Snapshot) map[int64]bool {
	out := make(map[int64]bool, 2)
	for _, l := range []*location.Location{s.Selection.Raw, s.Focused} {
		if l != nil {
			out[l.ID] = true
		}
	}
	return out
}
