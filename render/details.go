package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/wroge/wgs84"

	"github.com/lixenwraith/globe-explorer/label"
)

// mercatorExtent is the EPSG:3857 half-width in metres
const mercatorExtent = 20037508.342789244

// mercatorLat bounds the strip map, beyond it Web Mercator diverges
const mercatorLat = 85.0

var toMercator = wgs84.EPSG().Transform(4326, 3857)

// MercatorCell places a coordinate in r using Web Mercator; ok is false outside r
func MercatorCell(lat, lon float64, r Rect) (x, y int, ok bool) {
	if r.W <= 0 || r.H <= 0 {
		return 0, 0, false
	}
	lat = math.Max(-mercatorLat, math.Min(mercatorLat, lat))
	mx, my, _ := toMercator(lon, lat, 0)

	// Rows cover the clipped latitude band, columns the full longitude range
	_, maxY, _ := toMercator(0, mercatorLat, 0)
	fx := (mx + mercatorExtent) / (2 * mercatorExtent)
	fy := (maxY - my) / (2 * maxY)
	x = r.X + int(math.Min(fx*float64(r.W), float64(r.W-1)))
	y = r.Y + int(math.Min(fy*float64(r.H), float64(r.H-1)))
	return x, y, r.Contains(x, y)
}

// DetailsLayer draws the section below the hero: a strip map of every location and the totals
type DetailsLayer struct {
	Cache *label.Cache
}

// Render draws the section when it is scrolled into view
func (l DetailsLayer) Render(ctx Context, buf *Buffer) {
	w, h := buf.Size()
	top := ctx.heroTop() + h
	if top >= h {
		return
	}

	buf.Fill(Rect{X: 0, Y: max(top, 0), W: w, H: h - max(top, 0)}, StyleBase)
	buf.TextCenter(top+1, "Where the builders are", StyleTitle)
	if ctx.Totals.Countries > 0 {
		buf.TextCenter(top+2, TotalsLine(ctx.Totals.Countries, ctx.Totals.Followers), StyleMuted)
	}

	mapRect := Rect{X: 2, Y: top + 4, W: w - 4, H: min(h/2, (w-4)/4)}
	for y := mapRect.Y; y < mapRect.Y+mapRect.H; y++ {
		for x := mapRect.X; x < mapRect.X+mapRect.W; x++ {
			buf.Set(x, y, ' ', tcell.StyleDefault.Background(ColorOcean))
		}
	}
	for _, loc := range ctx.Markers {
		x, y, ok := MercatorCell(loc.Latitude, loc.Longitude, mapRect)
		if !ok {
			continue
		}
		m := l.Cache.Get(loc, ctx.Compact)
		r := '•'
		if m.Anchor {
			r = '◆'
		}
		buf.Set(x, y, r, tcell.StyleDefault.Background(ColorOcean).Foreground(TCell(m.Sample(0))))
	}

	foot := mapRect.Y + mapRect.H + 1
	buf.TextCenter(foot, "Scroll up to return to the globe", StyleMuted)
}
