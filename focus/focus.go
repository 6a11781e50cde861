// Package focus turns settled hovers and list commits into camera framing and detail lookups
package focus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/globe-explorer/camera"
	"github.com/lixenwraith/globe-explorer/debounce"
	"github.com/lixenwraith/globe-explorer/location"
	"github.com/lixenwraith/globe-explorer/sched"
	"github.com/lixenwraith/globe-explorer/state"
	"github.com/lixenwraith/globe-explorer/status"
)

// DefaultFetchTimeout bounds one detail lookup
const DefaultFetchTimeout = 10 * time.Second

// DetailSource is the keyed detail read, idempotent per id
type DetailSource interface {
	Detail(ctx context.Context, id int64) (location.Detail, error)
}

// Config tunes the orchestrator, zero values select defaults
type Config struct {
	SettleDelay  time.Duration
	ArrivalDelay time.Duration
	FetchTimeout time.Duration
	// Spawn starts a lookup goroutine, defaults to the go statement
	Spawn func(func())
	// OnArrival runs after the arrival framing is issued
	OnArrival func(location.Location)
	// OnFailure runs when the current focus's lookup fails
	OnFailure func(id int64, err error)
}

// Orchestrator owns the settle and arrival debouncers and the detail lookup lifecycle
// All methods and callbacks run on the scheduler goroutine
type Orchestrator struct {
	sched sched.Scheduler
	store *state.Store
	cam   camera.Camera
	src   DetailSource
	cfg   Config
	log   zerolog.Logger

	settle  *debounce.Debouncer[*location.Location]
	arrival *debounce.Debouncer[*location.Location]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	settles     *atomic.Int64
	arrivals    *atomic.Int64
	fetches     *atomic.Int64
	failed      *atomic.Int64
	stale       *atomic.Int64
	latency     *status.Gauge
	lastRequest *status.Label
}

// New creates an orchestrator; reg may be nil
func New(s sched.Scheduler, store *state.Store, cam camera.Camera, src DetailSource, cfg Config, reg *status.Registry, log zerolog.Logger) *Orchestrator {
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = debounce.DefaultDelay
	}
	if cfg.ArrivalDelay <= 0 {
		cfg.ArrivalDelay = debounce.DefaultDelay
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.Spawn == nil {
		cfg.Spawn = func(fn func()) { go fn() }
	}
	if reg == nil {
		reg = status.NewRegistry()
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		sched:       s,
		store:       store,
		cam:         cam,
		src:         src,
		cfg:         cfg,
		log:         log.With().Str("component", "focus").Logger(),
		ctx:         ctx,
		cancel:      cancel,
		settles:     reg.Ints.Get(status.KeySettles),
		arrivals:    reg.Ints.Get(status.KeyArrivals),
		fetches:     reg.Ints.Get(status.KeyFetches),
		failed:      reg.Ints.Get(status.KeyFetchFailed),
		stale:       reg.Ints.Get(status.KeyFetchStale),
		latency:     reg.Gauges.Get(status.KeyFetchLatency),
		lastRequest: reg.Labels.Get(status.KeyLastRequest),
	}
	o.settle = debounce.New(s, cfg.SettleDelay, o.onSettle)
	o.arrival = debounce.New(s, cfg.ArrivalDelay, o.onArrival)
	return o
}

// Hover records the raw hover value, nil when the pointer leaves every marker
// Ignored unless the globe is Active without a focused location
func (o *Orchestrator) Hover(loc *location.Location) {
	if o.store.Mode() != state.Active {
		return
	}
	if same(o.store.Selection().Raw, loc) {
		return
	}
	o.store.SetRaw(loc)
	o.settle.Feed(loc)
}

// Commit focuses loc at once, the list click path
func (o *Orchestrator) Commit(loc location.Location) {
	if o.store.Mode() == state.Inactive {
		return
	}
	o.settle.Stop()
	o.arrival.Stop()
	l := loc
	o.store.SetRaw(&l)
	o.focus(loc)
}

// Dismiss clears the focused location and pulls the camera back
func (o *Orchestrator) Dismiss() {
	o.settle.Stop()
	o.arrival.Stop()
	if o.store.Selection().Raw != nil {
		o.store.SetRaw(nil)
	}
	if o.store.Focused() == nil {
		return
	}
	o.store.ClearFocus()
	o.cam.ZoomOut()
	o.log.Debug().Msg("Focus dismissed")
}

// Close cancels outstanding lookups and waits for their goroutines
func (o *Orchestrator) Close() {
	o.settle.Stop()
	o.arrival.Stop()
	o.cancel()
	o.wg.Wait()
}

func (o *Orchestrator) onSettle(loc *location.Location) {
	if loc == nil || o.store.Mode() != state.Active {
		return
	}
	o.settles.Add(1)
	o.focus(*loc)
	o.arrival.Feed(loc)
}

func (o *Orchestrator) onArrival(loc *location.Location) {
	if loc == nil {
		return
	}
	f := o.store.Focused()
	if f == nil || f.ID != loc.ID {
		return
	}
	o.arrivals.Add(1)
	o.cam.ZoomIn(*f, camera.FramingArrival)
	if o.cfg.OnArrival != nil {
		o.cfg.OnArrival(*f)
	}
}

// focus sets the focused location, frames it and starts its lookup
func (o *Orchestrator) focus(loc location.Location) {
	tok := o.store.Focus(loc)
	o.cam.ZoomIn(loc, camera.FramingTrack)
	o.fetch(tok)
}

func (o *Orchestrator) fetch(tok state.FetchToken) {
	reqID := uuid.New().String()
	started := o.sched.Now()
	o.fetches.Add(1)
	o.lastRequest.Set(reqID)
	log := o.log.With().Str("request_id", reqID).Int64("id", tok.ID()).Logger()
	log.Debug().Msg("Detail lookup started")

	o.wg.Add(1)
	o.cfg.Spawn(func() {
		defer o.wg.Done()
		ctx, cancel := context.WithTimeout(o.ctx, o.cfg.FetchTimeout)
		defer cancel()

		detail, err := o.src.Detail(ctx, tok.ID())
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && err == nil {
			err = ctx.Err()
		}
		o.sched.Post(func() { o.complete(tok, detail, err, started, log) })
	})
}

func (o *Orchestrator) complete(tok state.FetchToken, detail location.Detail, err error, started time.Time, log zerolog.Logger) {
	o.latency.Observe(o.sched.Now().Sub(started))

	if err != nil {
		if o.store.FailFetch(tok) {
			o.failed.Add(1)
			log.Warn().Err(err).Msg("Detail lookup failed")
			if o.cfg.OnFailure != nil {
				o.cfg.OnFailure(tok.ID(), err)
			}
		} else {
			o.stale.Add(1)
			log.Debug().Err(err).Msg("Stale detail failure dropped")
		}
		return
	}

	if !o.store.CompleteFetch(tok, detail) {
		o.stale.Add(1)
		log.Debug().Msg("Stale detail response dropped")
		return
	}
	log.Debug().Int("top_casters", len(detail.TopCasters)).Msg("Detail stored")
}

func same(a, b *location.Location) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}
