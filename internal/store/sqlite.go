package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/PratikDhanave/heartbeat-collector/internal/models"
)

// SQLiteStore keeps pings in a local SQLite file through GORM.
// Meant for single-node runs and tests; Postgres is the production backend.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (or creates) the database file at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Warn),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite open %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	// SQLite serializes writers anyway; one connection avoids "database is locked".
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// EnsureSchema creates diagnostic_ping_data if missing.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&models.DiagnosticPing{})
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InsertPing writes one row; GORM back-fills PingID from the autoincrement key.
func (s *SQLiteStore) InsertPing(ctx context.Context, ping *models.DiagnosticPing) error {
	if ping == nil {
		return errors.New("nil ping")
	}
	if ping.PingID != 0 {
		return fmt.Errorf("insert ping: id already assigned (%d)", ping.PingID)
	}
	if err := s.db.WithContext(ctx).Create(ping).Error; err != nil {
		return fmt.Errorf("insert ping: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetPing(ctx context.Context, id int64) (*models.DiagnosticPing, error) {
	var out models.DiagnosticPing
	err := s.db.WithContext(ctx).Where("ping_id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ping %d: %w", id, err)
	}

	utcPing(&out)
	return &out, nil
}

func (s *SQLiteStore) CountPings(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.DiagnosticPing{}).Count(&count).Error
	return count, err
}
