package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/PratikDhanave/heartbeat-collector/internal/config"
	"github.com/PratikDhanave/heartbeat-collector/internal/models"
)

// ErrNotFound is returned by GetPing when no row has the given id.
var ErrNotFound = errors.New("ping not found")

// Store persists diagnostic pings. Rows are insert-only.
type Store interface {
	// InsertPing writes p and sets p.PingID to the id assigned by the database.
	InsertPing(ctx context.Context, p *models.DiagnosticPing) error
	GetPing(ctx context.Context, id int64) (*models.DiagnosticPing, error)
	CountPings(ctx context.Context) (int64, error)
	EnsureSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the backend selected by driver and fails fast if it is unreachable.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case config.DriverPostgres:
		return NewPostgresStore(ctx, dsn)
	case config.DriverSQLite:
		return NewSQLiteStore(dsn)
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
}
