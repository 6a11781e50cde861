// Package location defines the marker entities shown on the globe and the
// ingestion rules applied to a countries snapshot
package location

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// DefaultAnchorName is the display name of the distinguished "home" entity
const DefaultAnchorName = "Base"

var (
	// ErrInvalidCoordinates is returned for non-finite or out-of-range coordinates
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrDuplicateID is returned when an identifier repeats within a snapshot
	ErrDuplicateID = errors.New("duplicate identifier")
)

// Color is an optional override: one solid color or up to three gradient stops
type Color struct {
	Stops []string // Hex colors, first stop is the primary
}

// IsZero reports whether no override is set
func (c Color) IsZero() bool {
	return len(c.Stops) == 0
}

// Primary returns the first stop or an empty string
func (c Color) Primary() string {
	if len(c.Stops) == 0 {
		return ""
	}
	return c.Stops[0]
}

// Location is one marker on the globe
type Location struct {
	ID          int64
	Name        string
	CountryCode string
	Latitude    float64
	Longitude   float64
	CreatedAt   time.Time
	Posts       int
	Followers   int
	ChannelID   string
	Color       Color
	IsAnchor    bool
}

// Detail is the richer payload returned by the detail source for one Location
type Detail struct {
	ID          int64        `json:"id"`
	CountryName string       `json:"countryName"`
	ChannelID   string       `json:"channelId"`
	Posts       int          `json:"casts"`
	Followers   int          `json:"followers"`
	TopCasters  []Caster     `json:"topCasters"`
	RecentCasts []RecentCast `json:"recentCasts"`
}

// Caster is a ranked contributor within a Location
type Caster struct {
	Username string `json:"username"`
	Casts    int    `json:"casts"`
}

// RecentCast is a recent post attributed to a Location
type RecentCast struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Record is the wire shape of one entry of the countries endpoint
type Record struct {
	ID          int64     `json:"id"`
	CountryName string    `json:"countryName"`
	CountryCode string    `json:"countryCode"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	CreatedAt   time.Time `json:"createdAt"`
	Casts       int       `json:"casts"`
	Followers   int       `json:"followers"`
	ChannelID   string    `json:"channelId"`
	Color       string    `json:"color,omitempty"`
	Color2      string    `json:"color2,omitempty"`
	Color3      string    `json:"color3,omitempty"`
}

// Location converts the wire record without validation
func (r Record) Location() Location {
	var stops []string
	for _, c := range []string{r.Color, r.Color2, r.Color3} {
		if c = strings.TrimSpace(c); c != "" {
			stops = append(stops, c)
		}
	}
	return Location{
		ID:          r.ID,
		Name:        r.CountryName,
		CountryCode: r.CountryCode,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		CreatedAt:   r.CreatedAt,
		Posts:       r.Casts,
		Followers:   r.Followers,
		ChannelID:   r.ChannelID,
		Color:       Color{Stops: stops},
	}
}

// RecordOf converts a Location back to its wire shape
func RecordOf(l Location) Record {
	r := Record{
		ID:          l.ID,
		CountryName: l.Name,
		CountryCode: l.CountryCode,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		CreatedAt:   l.CreatedAt,
		Casts:       l.Posts,
		Followers:   l.Followers,
		ChannelID:   l.ChannelID,
	}
	stops := l.Color.Stops
	if len(stops) > 0 {
		r.Color = stops[0]
	}
	if len(stops) > 1 {
		r.Color2 = stops[1]
	}
	if len(stops) > 2 {
		r.Color3 = stops[2]
	}
	return r
}

// ValidCoordinates reports whether lat/lon are finite and within WGS84 bounds
func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Rejection records why a record was dropped at ingestion
type Rejection struct {
	ID  int64
	Err error
}

func (r Rejection) Error() string {
	return fmt.Sprintf("location %d: %v", r.ID, r.Err)
}

// Normalize applies ingestion rules to a snapshot
// Records with invalid coordinates or repeated identifiers are rejected, negative
// metrics clamp to zero and the record named anchorName is flagged as anchor
// Input order is preserved
func Normalize(records []Record, anchorName string) ([]Location, []Rejection) {
	locs := make([]Location, 0, len(records))
	var rejected []Rejection
	seen := make(map[int64]struct{}, len(records))

	for _, rec := range records {
		if !ValidCoordinates(rec.Latitude, rec.Longitude) {
			rejected = append(rejected, Rejection{ID: rec.ID, Err: ErrInvalidCoordinates})
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			rejected = append(rejected, Rejection{ID: rec.ID, Err: ErrDuplicateID})
			continue
		}
		seen[rec.ID] = struct{}{}

		loc := rec.Location()
		loc.Posts = max(loc.Posts, 0)
		loc.Followers = max(loc.Followers, 0)
		loc.IsAnchor = anchorName != "" && strings.EqualFold(loc.Name, anchorName)
		locs = append(locs, loc)
	}
	return locs, rejected
}

// ByLongitude returns a copy ordered west to east, the order markers are attached to the globe
func ByLongitude(locs []Location) []Location {
	out := append([]Location(nil), locs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Longitude < out[j].Longitude })
	return out
}

// TopByFollowers returns up to n locations with the most followers, ties keep input order
func TopByFollowers(locs []Location, n int) []Location {
	out := append([]Location(nil), locs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Followers > out[j].Followers })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Totals summarizes a snapshot for the hero copy
type Totals struct {
	Countries int
	Followers int
	Posts     int
}

// Summarize totals a snapshot, an empty snapshot yields zero totals
func Summarize(locs []Location) Totals {
	t := Totals{Countries: len(locs)}
	for _, l := range locs {
		t.Followers += l.Followers
		t.Posts += l.Posts
	}
	return t
}

// Find returns the location with id
func Find(locs []Location, id int64) (Location, bool) {
	for _, l := range locs {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}
