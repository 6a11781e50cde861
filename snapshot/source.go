package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/globe-explorer/api"
	"github.com/lixenwraith/globe-explorer/location"
)

// Origin names where the last countries snapshot came from
type Origin string

const (
	OriginNone     Origin = ""
	OriginRemote   Origin = "api"
	OriginSnapshot Origin = "snapshot"
)

// Remote is the live data and detail source
type Remote interface {
	Locations(ctx context.Context) ([]location.Record, error)
	Detail(ctx context.Context, id int64) (location.Detail, error)
}

// Source reads through to Remote, saving good responses and serving the snapshot when Remote fails
type Source struct {
	remote Remote
	store  *Store
	now    func() time.Time
	log    zerolog.Logger

	origin atomic.Value
}

// NewSource wraps remote with store; a nil store disables the fallback
func NewSource(remote Remote, store *Store, log zerolog.Logger) *Source {
	s := &Source{
		remote: remote,
		store:  store,
		now:    time.Now,
		log:    log.With().Str("component", "snapshot").Logger(),
	}
	s.origin.Store(OriginNone)
	return s
}

// Origin reports where the last Locations result came from
func (s *Source) Origin() Origin {
	return s.origin.Load().(Origin)
}

// Locations returns the live snapshot, or the stored one when the live read fails
func (s *Source) Locations(ctx context.Context) ([]location.Record, error) {
	records, err := s.remote.Locations(ctx)
	if err == nil {
		s.origin.Store(OriginRemote)
		if s.store != nil {
			if serr := s.store.SaveLocations(ctx, records, s.now()); serr != nil {
				s.log.Warn().Err(serr).Msg("Failed to save countries snapshot")
			}
		}
		return records, nil
	}

	if s.store == nil || ctx.Err() != nil {
		return nil, err
	}
	stored, savedAt, serr := s.store.Locations(ctx)
	if serr != nil {
		return nil, fmt.Errorf("%w (snapshot: %v)", err, serr)
	}
	s.origin.Store(OriginSnapshot)
	s.log.Warn().Err(err).Time("saved_at", savedAt).Int("countries", len(stored)).Msg("Serving stored countries snapshot")
	return stored, nil
}

// Detail returns live detail, or a stored payload when the live read fails
// Not-found answers and expired contexts are returned as is
func (s *Source) Detail(ctx context.Context, id int64) (location.Detail, error) {
	d, err := s.remote.Detail(ctx, id)
	if err == nil {
		if s.store != nil {
			if serr := s.store.SaveDetail(ctx, d, s.now()); serr != nil {
				s.log.Warn().Err(serr).Int64("id", id).Msg("Failed to save detail")
			}
		}
		return d, nil
	}

	if s.store == nil || ctx.Err() != nil || errors.Is(err, api.ErrNotFound) {
		return location.Detail{}, err
	}
	stored, savedAt, serr := s.store.Detail(ctx, id)
	if serr != nil {
		return location.Detail{}, err
	}
	s.log.Debug().Err(err).Int64("id", id).Time("saved_at", savedAt).Msg("Serving stored detail")
	return stored, nil
}
