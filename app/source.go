package app

import (
	"context"
	"fmt"

	"github.com/lixenwraith/globe-explorer/api"
	"github.com/lixenwraith/globe-explorer/location"
	"github.com/lixenwraith/globe-explorer/stub"
)

// FixtureSource serves a stub fixture in process, the offline data source
type FixtureSource struct {
	Fixture stub.Fixture
}

// Locations returns a copy of the fixture countries
func (s FixtureSource) Locations(ctx context.Context) ([]location.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]location.Record, len(s.Fixture.Countries))
	copy(out, s.Fixture.Countries)
	return out, nil
}

// Detail returns the fixture detail for id, wrapping api.ErrNotFound when absent
func (s FixtureSource) Detail(ctx context.Context, id int64) (location.Detail, error) {
	if err := ctx.Err(); err != nil {
		return location.Detail{}, err
	}
	d, ok := s.Fixture.Detail(id)
	if !ok {
		return location.Detail{}, fmt.Errorf("country %d: %w", id, api.ErrNotFound)
	}
	return d, nil
}
