// Package status holds lock-free interaction counters shown in the debug status line
package status

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

// Metric keys written by the interaction components
const (
	KeyActivations   = "gesture.activations"
	KeyDeactivations = "gesture.deactivations"
	KeySuppressed    = "gesture.suppressed"
	KeyCommits       = "gesture.commits"

	KeySettles      = "focus.settles"
	KeyArrivals     = "focus.arrivals"
	KeyFetches      = "focus.fetches"
	KeyFetchFailed  = "focus.fetch_failed"
	KeyFetchStale   = "focus.fetch_stale"
	KeyFetchLatency = "focus.fetch_ms"
	KeyLastRequest  = "focus.request"

	KeyFrameMs = "loop.frame_ms"
	KeyReady   = "scene.ready"
	KeySource  = "data.source"
)

// Table maps metric keys to values of one kind
// Components look a value up once and keep the pointer, so only registration locks
type Table[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

func newTable[T any]() *Table[T] {
	return &Table[T]{items: make(map[string]*T)}
}

// Get returns the value for key, registering it on first use
func (t *Table[T]) Get(key string) *T {
	t.mu.RLock()
	v, ok := t.items[key]
	t.mu.RUnlock()
	if ok {
		return v
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := t.items[key]; ok {
		return v
	}
	v = new(T)
	t.items[key] = v
	return v
}

// Len returns the number of registered keys
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}

// each calls fn in key order
func (t *Table[T]) each(fn func(key string, v *T)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	keys := make([]string, 0, len(t.items))
	for k := range t.items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fn(k, t.items[k])
	}
}

// Registry groups the status line's counters, timings, flags and labels
type Registry struct {
	Ints   *Table[atomic.Int64]
	Gauges *Table[Gauge]
	Bools  *Table[atomic.Bool]
	Labels *Table[Label]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:   newTable[atomic.Int64](),
		Gauges: newTable[Gauge](),
		Bools:  newTable[atomic.Bool](),
		Labels: newTable[Label](),
	}
}

// TotalCount returns the number of registered metrics across all tables
func (r *Registry) TotalCount() int {
	return r.Ints.Len() + r.Gauges.Len() + r.Bools.Len() + r.Labels.Len()
}

// Line formats every metric as key=value pairs in key order, counters first
// Gauges show last/mean and are omitted until sampled, labels until set
func (r *Registry) Line() string {
	var parts []string
	r.Ints.each(func(key string, v *atomic.Int64) {
		parts = append(parts, fmt.Sprintf("%s=%d", short(key), v.Load()))
	})
	r.Gauges.each(func(key string, g *Gauge) {
		if g.Samples() > 0 {
			parts = append(parts, fmt.Sprintf("%s=%.1f/%.1f", short(key), g.Last(), g.Mean()))
		}
	})
	r.Bools.each(func(key string, v *atomic.Bool) {
		parts = append(parts, fmt.Sprintf("%s=%t", short(key), v.Load()))
	})
	r.Labels.each(func(key string, l *Label) {
		if s := l.Value(); s != "" {
			parts = append(parts, fmt.Sprintf("%s=%s", short(key), s))
		}
	})
	return strings.Join(parts, " ")
}

// short drops the component prefix
func short(key string) string {
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		return key[i+1:]
	}
	return key
}
