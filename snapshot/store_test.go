package snapshot

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/globe-explorer/api"
	"github.com/lixenwraith/globe-explorer/location"
)

var savedAt = time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "snapshot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecords() []location.Record {
	return []location.Record{
		{ID: 5, CountryName: "Base", Latitude: 37.7, Longitude: -122.4, Casts: 900, Followers: 4000, Color: "#0052FF", Color2: "#FFFFFF"},
		{ID: 2, CountryName: "Japan", Latitude: 36.2, Longitude: 138.2, Casts: 40, Followers: 800},
		{ID: 9, CountryName: "Chile", Latitude: -35.6, Longitude: -71.5, Casts: 3, Followers: 10},
	}
}

func TestLocationsRoundTripKeepsOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, _, err := s.Locations(ctx)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, s.SaveLocations(ctx, sampleRecords(), savedAt))
	got, at, err := s.Locations(ctx)
	require.NoError(t, err)
	assert.True(t, at.Equal(savedAt))
	require.Len(t, got, 3)
	assert.Equal(t, []int64{5, 2, 9}, []int64{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "#FFFFFF", got[0].Color2)
	assert.True(t, got[1].CreatedAt.IsZero())
}

func TestSaveLocationsReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveLocations(ctx, sampleRecords(), savedAt))
	require.NoError(t, s.SaveLocations(ctx, []location.Record{
		{ID: 7, CountryName: "Kenya"},
		{ID: 7, CountryName: "Kenya again"},
	}, savedAt.Add(time.Hour)))

	got, _, err := s.Locations(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Kenya", got[0].CountryName)

	require.NoError(t, s.SaveLocations(ctx, nil, savedAt))
	_, _, err = s.Locations(ctx)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestDetailUpsertAndPrune(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, _, err := s.Detail(ctx, 1)
	assert.ErrorIs(t, err, ErrMiss)

	d := location.Detail{ID: 1, CountryName: "Base", TopCasters: []location.Caster{{Username: "jesse", Casts: 3}}}
	require.NoError(t, s.SaveDetail(ctx, d, savedAt))
	d.Posts = 44
	require.NoError(t, s.SaveDetail(ctx, d, savedAt.Add(time.Minute)))
	require.NoError(t, s.SaveDetail(ctx, location.Detail{ID: 2}, savedAt.Add(-time.Hour)))

	got, at, err := s.Detail(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 44, got.Posts)
	assert.Equal(t, "jesse", got.TopCasters[0].Username)
	assert.True(t, at.Equal(savedAt.Add(time.Minute)))

	n, err := s.PruneDetails(ctx, savedAt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, _, err = s.Detail(ctx, 2)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestInMemoryStore(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveLocations(context.Background(), sampleRecords(), savedAt))
	got, _, err := s.Locations(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

type fakeRemote struct {
	records []location.Record
	detail  location.Detail
	err     error
}

func (f *fakeRemote) Locations(ctx context.Context) ([]location.Record, error) {
	return f.records, f.err
}

func (f *fakeRemote) Detail(ctx context.Context, id int64) (location.Detail, error) {
	return f.detail, f.err
}

func TestSourceFallsBackToSnapshot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	remote := &fakeRemote{records: sampleRecords(), detail: location.Detail{ID: 5, CountryName: "Base"}}
	src := NewSource(remote, s, zerolog.Nop())
	assert.Equal(t, OriginNone, src.Origin())

	got, err := src.Locations(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, OriginRemote, src.Origin())
	_, err = src.Detail(ctx, 5)
	require.NoError(t, err)

	remote.err = errors.New("connection refused")
	got, err = src.Locations(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, OriginSnapshot, src.Origin())

	d, err := src.Detail(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Base", d.CountryName)

	_, err = src.Detail(ctx, 6)
	assert.EqualError(t, err, "connection refused")
}

func TestSourceDoesNotMaskNotFoundOrDeadline(t *testing.T) {
	s := openTestStore(t)
	remote := &fakeRemote{detail: location.Detail{ID: 3}}
	src := NewSource(remote, s, zerolog.Nop())
	_, err := src.Detail(context.Background(), 3)
	require.NoError(t, err)

	remote.err = api.ErrNotFound
	_, err = src.Detail(context.Background(), 3)
	assert.ErrorIs(t, err, api.ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	remote.err = context.Canceled
	_, err = src.Detail(ctx, 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSourceWithoutStore(t *testing.T) {
	remote := &fakeRemote{err: errors.New("down")}
	src := NewSource(remote, nil, zerolog.Nop())
	_, err := src.Locations(context.Background())
	assert.Error(t, err)
	assert.Equal(t, OriginNone, src.Origin())
}

func TestSourceEmptySnapshotReportsBothErrors(t *testing.T) {
	s := openTestStore(t)
	src := NewSource(&fakeRemote{err: errors.New("down")}, s, zerolog.Nop())
	_, err := src.Locations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")
	assert.Contains(t, err.Error(), "snapshot miss")
}
