package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/labelcraft/vdp/internal/importer"
	"github.com/labelcraft/vdp/internal/logging"
	"github.com/labelcraft/vdp/internal/vdp"
)

// Service owns the single dataset slot. A successful import replaces
// the slot wholesale (last-write-wins when imports race); a failed
// import leaves the prior dataset untouched. All generation runs
// against immutable snapshots, so concurrent readers never observe a
// half-updated dataset.
type Service struct {
	mu      sync.RWMutex
	dataset *vdp.ImportDataset

	history  History
	encoding string
}

// NewService creates a Service recording activity to history. The
// encoding applies to delimited text imports ("utf-8" when empty).
func NewService(history History, encoding string) *Service {
	if history == nil {
		history = NopHistory{}
	}
	return &Service{history: history, encoding: encoding}
}

// DatasetSummary is the read model of the current slot.
type DatasetSummary struct {
	FileName        string             `json:"fileName,omitempty"`
	Columns         []vdp.ImportColumn `json:"columns"`
	RowCount        int                `json:"rowCount"`
	CurrentRowIndex int                `json:"currentRowIndex"`
	PatternTemplate string             `json:"patternTemplate"`
}

// Import parses the file and replaces the dataset slot. Column mapping
// is auto-detected from the header; callers adjust it afterwards via
// SetMapping. On parse failure the existing dataset is kept as-is.
func (s *Service) Import(ctx context.Context, fileName string, data []byte) (DatasetSummary, error) {
	table, err := importer.Parse(ctx, data, fileName, importer.Options{Encoding: s.encoding})
	if err != nil {
		return DatasetSummary{}, fmt.Errorf("import %q: %w", fileName, err)
	}

	ds := vdp.NewDataset(fileName, table.Header, table.DataRows)
	ds.RefreshCodes()

	s.mu.Lock()
	s.dataset = ds
	summary := s.summaryLocked()
	s.mu.Unlock()

	s.record(ctx, Event{
		Kind:     EventImport,
		FileName: fileName,
		Rows:     len(ds.Rows),
		Columns:  len(ds.Columns),
	})

	logging.FromContext(ctx).Info("dataset imported",
		"file", fileName,
		"rows", len(ds.Rows),
		"columns", len(ds.Columns),
	)

	return summary, nil
}

// Clear empties the dataset slot wholesale.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	had := s.dataset != nil
	s.dataset = nil
	s.mu.Unlock()

	if had {
		s.record(ctx, Event{Kind: EventClear})
	}
}

// Summary returns the current slot's read model, or ErrNoDataset.
func (s *Service) Summary() (DatasetSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dataset == nil {
		return DatasetSummary{}, ErrNoDataset
	}
	return s.summaryLocked(), nil
}

func (s *Service) summaryLocked() DatasetSummary {
	cols := make([]vdp.ImportColumn, len(s.dataset.Columns))
	copy(cols, s.dataset.Columns)
	return DatasetSummary{
		FileName:        s.dataset.FileName,
		Columns:         cols,
		RowCount:        len(s.dataset.Rows),
		CurrentRowIndex: s.dataset.CurrentRowIndex,
		PatternTemplate: s.dataset.PatternTemplate,
	}
}

// Rows returns a page of rows with freshly generated codes. Offset and
// limit are clamped into range; limit <= 0 means everything from
// offset on.
func (s *Service) Rows(offset, limit int) ([]vdp.ImportRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dataset == nil {
		return nil, ErrNoDataset
	}

	total := len(s.dataset.Rows)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	page := make([]vdp.ImportRow, 0, end-offset)
	for _, row := range s.dataset.Rows[offset:end] {
		row.GeneratedCode = vdp.GenerateRowCode(s.dataset.PatternTemplate, s.dataset.Columns, row)
		page = append(page, row)
	}
	return page, nil
}

// SetTemplate replaces the dataset's pattern template and refreshes
// cached row codes.
func (s *Service) SetTemplate(template string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dataset == nil {
		return ErrNoDataset
	}
	s.dataset.PatternTemplate = template
	s.dataset.RefreshCodes()
	return nil
}

// SetMapping overrides one column's field tag, leaving the others
// untouched, and refreshes cached row codes.
func (s *Service) SetMapping(columnIndex int, tag vdp.FieldTag) error {
	if !tag.Valid() {
		return fmt.Errorf("unknown field tag %q", tag)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dataset == nil {
		return ErrNoDataset
	}
	s.dataset.SetMapping(columnIndex, tag)
	s.dataset.RefreshCodes()
	return nil
}

// SetCurrentRow moves the current-row cursor (clamped into range).
func (s *Service) SetCurrentRow(rowIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dataset == nil {
		return ErrNoDataset
	}
	s.dataset.SetCurrentRow(rowIndex)
	return nil
}

// RowCode generates the code for one row from the current template and
// mapping. rowIndex -1 means the current row.
func (s *Service) RowCode(rowIndex int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dataset == nil {
		return "", ErrNoDataset
	}
	if rowIndex == -1 {
		rowIndex = s.dataset.CurrentRowIndex
	}
	if rowIndex < 0 || rowIndex >= len(s.dataset.Rows) {
		return "", fmt.Errorf("row %d out of range [0, %d)", rowIndex, len(s.dataset.Rows))
	}
	return s.dataset.RowCode(rowIndex), nil
}

// Export materializes the batch report for the whole dataset and
// returns the suggested file name alongside the content.
func (s *Service) Export(ctx context.Context) (fileName, content string, err error) {
	s.mu.RLock()
	if s.dataset == nil {
		s.mu.RUnlock()
		return "", "", ErrNoDataset
	}
	content = vdp.ExportAll(s.dataset)
	fileName = vdp.ExportFileName(s.dataset.FileName)
	rows := len(s.dataset.Rows)
	cols := len(s.dataset.Columns)
	source := s.dataset.FileName
	s.mu.RUnlock()

	s.record(ctx, Event{
		Kind:     EventExport,
		FileName: source,
		Rows:     rows,
		Columns:  cols,
	})
	return fileName, content, nil
}

// RecentEvents lists the latest recorded activity.
func (s *Service) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	return s.history.Recent(ctx, limit)
}

// record writes an event best-effort. History failures are logged, not
// propagated: activity tracking must never fail a dataset operation.
func (s *Service) record(ctx context.Context, ev Event) {
	ev.ID = uuid.NewString()
	ev.CreatedAt = time.Now().UTC()
	if err := s.history.Record(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("history record failed",
			"kind", ev.Kind,
			"error", err,
		)
	}
}
