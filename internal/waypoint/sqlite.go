package waypoint

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/skiprunback/extension/pkg/core"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Row is one saved waypoint.
type Row struct {
	ID        uint      `gorm:"primarykey"`
	Plugin    string    `gorm:"index;not null"`
	X         float32   `gorm:"not null"`
	Y         float32   `gorm:"not null"`
	Z         float32   `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
}

func (Row) TableName() string { return "waypoints" }

func (r Row) Coordinates() core.Coordinates {
	return core.Coordinates{X: r.X, Y: r.Y, Z: r.Z}
}

// SQLite keeps a bounded waypoint history per plugin.
type SQLite struct {
	db      *gorm.DB
	history int
}

// OpenSQLite opens or creates the database at path. history is the number
// of rows kept per plugin; zero or less keeps everything.
func OpenSQLite(path string, history int, log zerolog.Logger) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger: logger.New(&log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("opening waypoint db %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Row{}); err != nil {
		return nil, fmt.Errorf("migrating waypoint db: %w", err)
	}
	return &SQLite{db: db, history: history}, nil
}

func (s *SQLite) Latest(plugin string) (core.Coordinates, bool, error) {
	var r Row
	err := s.db.Where("plugin = ?", plugin).Order("id desc").Take(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.Coordinates{}, false, nil
	}
	if err != nil {
		return core.Coordinates{}, false, err
	}
	return r.Coordinates(), true, nil
}

func (s *SQLite) Record(plugin string, c core.Coordinates) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		r := Row{Plugin: plugin, X: c.X, Y: c.Y, Z: c.Z}
		if err := tx.Create(&r).Error; err != nil {
			return fmt.Errorf("inserting waypoint: %w", err)
		}
		if s.history <= 0 {
			return nil
		}

		var keep []uint
		if err := tx.Model(&Row{}).
			Where("plugin = ?", plugin).
			Order("id desc").
			Limit(s.history).
			Pluck("id", &keep).Error; err != nil {
			return err
		}
		return tx.Where("plugin = ? AND id NOT IN ?", plugin, keep).Delete(&Row{}).Error
	})
}

// History returns up to limit waypoints for plugin, newest first.
func (s *SQLite) History(plugin string, limit int) ([]Row, error) {
	var rows []Row
	q := s.db.Where("plugin = ?", plugin).Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
