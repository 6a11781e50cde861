package label

import (
	"strings"
	"sync"

	"github.com/lixenwraith/globe-explorer/location"
)

// cacheKey covers every input Generate reads
type cacheKey struct {
	id      int64
	name    string
	posts   int
	anchor  bool
	compact bool
	stops   string
}

// Cache memoizes Generate, safe for concurrent use
type Cache struct {
	mu      sync.RWMutex
	markers map[cacheKey]Marker
	hits    uint64
	misses  uint64
}

// NewCache creates an empty marker cache
func NewCache() *Cache {
	return &Cache{markers: make(map[cacheKey]Marker)}
}

// Get returns the memoized marker for loc, generating it on first use
func (c *Cache) Get(loc location.Location, compact bool) Marker {
	key := cacheKey{
		id:      loc.ID,
		name:    loc.Name,
		posts:   loc.Posts,
		anchor:  loc.IsAnchor,
		compact: compact,
		stops:   strings.Join(loc.Color.Stops, ","),
	}

	c.mu.RLock()
	m, ok := c.markers[key]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return m
	}

	m = Generate(loc, compact)
	c.mu.Lock()
	c.markers[key] = m
	c.misses++
	c.mu.Unlock()
	return m
}

// All generates markers for a snapshot in input order
func (c *Cache) All(locs []location.Location, compact bool) []Marker {
	out := make([]Marker, len(locs))
	for i, l := range locs {
		out[i] = c.Get(l, compact)
	}
	return out
}

// Stats returns cache hits and misses
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Reset drops all memoized markers, used when a new snapshot replaces the old one
func (c *Cache) Reset() {
	c.mu.Lock()
	c.markers = make(map[cacheKey]Marker)
	c.mu.Unlock()
}
