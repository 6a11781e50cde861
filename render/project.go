package render

import (
	"math"

	"github.com/lixenwraith/globe-explorer/camera"
)

// CellAspect is the height of a terminal cell over its width
const CellAspect = 2.0

// heroFill is the globe radius over the screen height at the hero distance
const heroFill = 0.42

// Projection is the orthographic projection of the globe for one frame
type Projection struct {
	lat0, lon0 float64 // Radians
	sinLat0    float64
	cosLat0    float64
	CX, CY     float64
	// R is the globe radius in rows
	R float64
}

// NewProjection places the globe centred in a width x height screen area
func NewProjection(v camera.View, width, height int) Projection {
	dist := v.Distance
	if dist <= 0 {
		dist = camera.HeroDistance
	}
	lat0 := v.CenterLat * math.Pi / 180
	return Projection{
		lat0:    lat0,
		lon0:    v.CenterLon * math.Pi / 180,
		sinLat0: math.Sin(lat0),
		cosLat0: math.Cos(lat0),
		CX:      float64(width) / 2,
		CY:      float64(height) / 2,
		R:       float64(height) * heroFill * camera.HeroDistance / dist,
	}
}

// Project maps a coordinate to a screen cell; ok is false on the far hemisphere
func (p Projection) Project(lat, lon float64) (x, y int, ok bool) {
	fx, fy, ok := p.unit(lat, lon)
	if !ok {
		return 0, 0, false
	}
	x = int(math.Floor(p.CX + fx*p.R*CellAspect))
	y = int(math.Floor(p.CY - fy*p.R))
	return x, y, true
}

// unit projects onto the unit disk
func (p Projection) unit(lat, lon float64) (x, y float64, ok bool) {
	phi := lat * math.Pi / 180
	dl := lon*math.Pi/180 - p.lon0
	sinPhi, cosPhi := math.Sincos(phi)
	cosDl := math.Cos(dl)

	if p.sinLat0*sinPhi+p.cosLat0*cosPhi*cosDl < 0 {
		return 0, 0, false
	}
	x = cosPhi * math.Sin(dl)
	y = p.cosLat0*sinPhi - p.sinLat0*cosPhi*cosDl
	return x, y, true
}

// Unproject maps the centre of a screen cell back to a coordinate
// Returns the cosine of the angular distance from the view centre, 1 at the centre and 0 at the limb
func (p Projection) Unproject(x, y int) (lat, lon, depth float64, ok bool) {
	if p.R <= 0 {
		return 0, 0, 0, false
	}
	ux := (float64(x) + 0.5 - p.CX) / (p.R * CellAspect)
	uy := (p.CY - float64(y) - 0.5) / p.R
	rho := math.Hypot(ux, uy)
	if rho > 1 {
		return 0, 0, 0, false
	}
	if rho == 0 {
		return p.lat0 * 180 / math.Pi, normLon(p.lon0 * 180 / math.Pi), 1, true
	}

	c := math.Asin(rho)
	sinC, cosC := math.Sincos(c)
	phi := math.Asin(cosC*p.sinLat0 + uy*sinC*p.cosLat0/rho)
	lam := p.lon0 + math.Atan2(ux*sinC, rho*cosC*p.cosLat0-uy*sinC*p.sinLat0)
	return phi * 180 / math.Pi, normLon(lam * 180 / math.Pi), cosC, true
}

// normLon wraps a longitude into [-180, 180)
func normLon(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
