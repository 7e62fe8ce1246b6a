// Package history persists dataset activity events to PostgreSQL.
package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labelcraft/vdp/internal/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS vdp_events (
    id         UUID PRIMARY KEY,
    kind       TEXT NOT NULL,
    file_name  TEXT NOT NULL DEFAULT '',
    row_count  INT NOT NULL DEFAULT 0,
    col_count  INT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS vdp_events_created_at_idx ON vdp_events (created_at DESC);
`

// Store is a Postgres-backed core.History.
type Store struct {
	pool *pgxpool.Pool
}

// New creates the store and ensures its schema exists.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("ensure history schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Record inserts one event.
func (s *Store) Record(ctx context.Context, ev core.Event) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO vdp_events (id, kind, file_name, row_count, col_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		ev.ID, ev.Kind, ev.FileName, ev.Rows, ev.Columns, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Recent returns the latest events, newest first. Limit is clamped to
// a sane range.
func (s *Store) Recent(ctx context.Context, limit int) ([]core.Event, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, kind, file_name, row_count, col_count, created_at
		 FROM vdp_events
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []core.Event
	for rows.Next() {
		var ev core.Event
		if err := rows.Scan(&ev.ID, &ev.Kind, &ev.FileName, &ev.Rows, &ev.Columns, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
