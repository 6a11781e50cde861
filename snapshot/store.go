// Package snapshot keeps the last good countries snapshot and fetched details in SQLite
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/lixenwraith/globe-explorer/location"
)

// ErrMiss is returned when the snapshot holds no entry
var ErrMiss = errors.New("snapshot miss")

// countryRow is one stored countries entry
type countryRow struct {
	ID          int64 `gorm:"primaryKey;autoIncrement:false"`
	Position    int
	CountryName string
	CountryCode string
	Latitude    float64
	Longitude   float64
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
	Casts       int
	Followers   int
	ChannelID   string
	Color       string
	Color2      string
	Color3      string
	SavedAt     time.Time
}

func (countryRow) TableName() string { return "countries" }

// detailRow is one stored detail payload
type detailRow struct {
	ID      int64 `gorm:"primaryKey;autoIncrement:false"`
	Payload []byte
	SavedAt time.Time `gorm:"index"`
}

func (detailRow) TableName() string { return "details" }

// Store is the SQLite-backed snapshot
type Store struct {
	db *gorm.DB
}

// Open opens or creates the snapshot database at path, empty path selects an in-memory database
func Open(path string) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        500,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA temp_store = MEMORY;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	if err := db.AutoMigrate(&countryRow{}, &detailRow{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate snapshot schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveLocations replaces the stored countries with records
func (s *Store) SaveLocations(ctx context.Context, records []location.Record, at time.Time) error {
	rows := make([]countryRow, len(records))
	for i, r := range records {
		rows[i] = countryRow{
			ID:          r.ID,
			Position:    i,
			CountryName: r.CountryName,
			CountryCode: r.CountryCode,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			CreatedAt:   r.CreatedAt,
			Casts:       r.Casts,
			Followers:   r.Followers,
			ChannelID:   r.ChannelID,
			Color:       r.Color,
			Color2:      r.Color2,
			Color3:      r.Color3,
			SavedAt:     at,
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&countryRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear countries: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		// Duplicate ids in a raw response keep the first entry
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to save countries: %w", err)
		}
		return nil
	})
}

// Locations returns the stored countries in their original order and when they were saved
func (s *Store) Locations(ctx context.Context) ([]location.Record, time.Time, error) {
	var rows []countryRow
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load countries: %w", err)
	}
	if len(rows) == 0 {
		return nil, time.Time{}, ErrMiss
	}

	records := make([]location.Record, len(rows))
	for i, r := range rows {
		records[i] = location.Record{
			ID:          r.ID,
			CountryName: r.CountryName,
			CountryCode: r.CountryCode,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			CreatedAt:   r.CreatedAt,
			Casts:       r.Casts,
			Followers:   r.Followers,
			ChannelID:   r.ChannelID,
			Color:       r.Color,
			Color2:      r.Color2,
			Color3:      r.Color3,
		}
	}
	return records, rows[0].SavedAt, nil
}

// SaveDetail upserts one detail payload
func (s *Store) SaveDetail(ctx context.Context, d location.Detail, at time.Time) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode detail %d: %w", d.ID, err)
	}
	row := detailRow{ID: d.ID, Payload: payload, SavedAt: at}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "saved_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save detail %d: %w", d.ID, err)
	}
	return nil
}

// Detail returns a stored detail payload and when it was saved
func (s *Store) Detail(ctx context.Context, id int64) (location.Detail, time.Time, error) {
	var row detailRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return location.Detail{}, time.Time{}, ErrMiss
	}
	if err != nil {
		return location.Detail{}, time.Time{}, fmt.Errorf("failed to load detail %d: %w", id, err)
	}

	var d location.Detail
	if err := json.Unmarshal(row.Payload, &d); err != nil {
		return location.Detail{}, time.Time{}, fmt.Errorf("failed to decode detail %d: %w", id, err)
	}
	return d, row.SavedAt, nil
}

// PruneDetails removes details saved before cutoff and returns how many were removed
func (s *Store) PruneDetails(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("saved_at < ?", cutoff).Delete(&detailRow{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune details: %w", res.Error)
	}
	return res.RowsAffected, nil
}
