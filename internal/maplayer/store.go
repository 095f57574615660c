package maplayer

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/maltiez2/vsmod-mapmarkers/marker"
)

// waypointRecord is the row shape for a stored waypoint.
type waypointRecord struct {
	ID      uint64 `gorm:"primaryKey"`
	X       float64
	Y       float64
	Z       float64
	Title   string
	Icon    string
	Color   int32
	Pinned  bool
	OwnedBy string `gorm:"index"`
}

// Store persists waypoints to a local sqlite database. Mutations are
// mirrored best effort: a write failure is logged and the in-memory
// collection stays authoritative for the rest of the session.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// OpenStore opens (or creates) the sqlite database at path and migrates
// the waypoint table.
func OpenStore(path string, log zerolog.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("maplayer: opening waypoint store: %w", err)
	}
	if err := db.AutoMigrate(&waypointRecord{}); err != nil {
		return nil, fmt.Errorf("maplayer: migrating waypoint store: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) loadAll() ([]marker.Waypoint, error) {
	var records []waypointRecord
	if err := s.db.Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("maplayer: loading waypoints: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	waypoints := make([]marker.Waypoint, 0, len(records))
	for _, rec := range records {
		waypoints = append(waypoints, marker.Waypoint{
			ID:       rec.ID,
			Position: marker.Position{X: rec.X, Y: rec.Y, Z: rec.Z},
			Title:    rec.Title,
			Icon:     rec.Icon,
			Color:    rec.Color,
			Pinned:   rec.Pinned,
			OwnedBy:  rec.OwnedBy,
		})
	}
	return waypoints, nil
}

func (s *Store) save(wp marker.Waypoint) {
	rec := waypointRecord{
		ID:      wp.ID,
		X:       wp.Position.X,
		Y:       wp.Position.Y,
		Z:       wp.Position.Z,
		Title:   wp.Title,
		Icon:    wp.Icon,
		Color:   wp.Color,
		Pinned:  wp.Pinned,
		OwnedBy: wp.OwnedBy,
	}
	if err := s.db.Save(&rec).Error; err != nil {
		s.log.Error().Err(err).Uint64("waypoint", wp.ID).Msg("failed to persist waypoint")
	}
}

func (s *Store) delete(id uint64) {
	if err := s.db.Delete(&waypointRecord{}, id).Error; err != nil {
		s.log.Error().Err(err).Uint64("waypoint", id).Msg("failed to delete stored waypoint")
	}
}
