package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratikDhanave/heartbeat-collector/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore is the durable persistence layer for pings.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(ctx context.Context, dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schemaSQL)
	return err
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

// InsertPing persists one ping and sets its ping_id from the identity column.
func (p *PostgresStore) InsertPing(ctx context.Context, ping *models.DiagnosticPing) error {
	if ping == nil {
		return errors.New("nil ping")
	}

	err := p.pool.QueryRow(ctx, `
		INSERT INTO diagnostic_ping_data(
			client_start_time, logset_gather_time, onefs_version,
			esrs_enabled, tool_version, sr_number, db_insert_time)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING ping_id
	`,
		ping.ClientStartTime,
		ping.LogsetGatherTime,
		ping.OneFSVersion,
		ping.ESRSEnabled,
		ping.ToolVersion,
		ping.SRNumber,
		ping.DBInsertTime,
	).Scan(&ping.PingID)
	if err != nil {
		return fmt.Errorf("insert ping: %w", err)
	}
	return nil
}

// GetPing loads a single row by id.
func (p *PostgresStore) GetPing(ctx context.Context, id int64) (*models.DiagnosticPing, error) {
	var out models.DiagnosticPing
	err := p.pool.QueryRow(ctx, `
		SELECT ping_id, client_start_time, logset_gather_time, onefs_version,
		       esrs_enabled, tool_version, sr_number, db_insert_time
		FROM diagnostic_ping_data
		WHERE ping_id=$1
	`, id).Scan(
		&out.PingID,
		&out.ClientStartTime,
		&out.LogsetGatherTime,
		&out.OneFSVersion,
		&out.ESRSEnabled,
		&out.ToolVersion,
		&out.SRNumber,
		&out.DBInsertTime,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ping %d: %w", id, err)
	}

	utcPing(&out)
	return &out, nil
}

// CountPings returns the total number of stored pings.
func (p *PostgresStore) CountPings(ctx context.Context) (int64, error) {
	var count int64
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM diagnostic_ping_data`).Scan(&count)
	return count, err
}

// utcPing normalizes scanned timestamps; drivers hand back local time.
func utcPing(p *models.DiagnosticPing) {
	if p.ClientStartTime != nil {
		t := p.ClientStartTime.UTC()
		p.ClientStartTime = &t
	}
	if p.LogsetGatherTime != nil {
		t := p.LogsetGatherTime.UTC()
		p.LogsetGatherTime = &t
	}
	p.DBInsertTime = p.DBInsertTime.UTC()
}
