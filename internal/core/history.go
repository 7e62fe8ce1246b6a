package core

import (
	"context"
	"time"
)

// Event is one recorded dataset activity: an import, an export or a
// clear. Events are informational; failing to record one never fails
// the operation itself.
type Event struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	FileName  string    `json:"fileName,omitempty"`
	Rows      int       `json:"rows"`
	Columns   int       `json:"columns"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event kinds.
const (
	EventImport = "import"
	EventExport = "export"
	EventClear  = "clear"
)

// History records dataset activity. The production implementation is
// Postgres-backed (internal/history); tests use NopHistory.
type History interface {
	Record(ctx context.Context, ev Event) error
	Recent(ctx context.Context, limit int) ([]Event, error)
}

// NopHistory discards events. Used in tests and when no history store
// is configured.
type NopHistory struct{}

func (NopHistory) Record(context.Context, Event) error          { return nil }
func (NopHistory) Recent(context.Context, int) ([]Event, error) { return nil, nil }
