package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/labelcraft/vdp/internal/core"
	"github.com/labelcraft/vdp/internal/importer"
	"github.com/labelcraft/vdp/internal/vdp"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleImport ingests a tabular file from a multipart form and
// replaces the dataset slot. A failed parse leaves the prior dataset
// untouched and reports a single user-facing error.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	summary, err := s.service.Import(r.Context(), header.Filename, data)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, summary)
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	summary, err := s.service.Summary()
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, summary)
}

// handleDatasetRows returns a page of rows with generated codes.
// Query parameters: offset (default 0) and limit (default 100).
func (s *Server) handleDatasetRows(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 100)

	rows, err := s.service.Rows(offset, limit)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, map[string]interface{}{
		"offset": offset,
		"rows":   rows,
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.service.Clear(r.Context())
	writeJSON(w, map[string]string{"status": "cleared"})
}

func (s *Server) handleSetTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Template string `json:"template"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.service.SetTemplate(req.Template); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, map[string]string{"status": "updated"})
}

func (s *Server) handleSetMapping(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ColumnIndex int          `json:"columnIndex"`
		Tag         vdp.FieldTag `json:"tag"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.service.SetMapping(req.ColumnIndex, req.Tag); err != nil {
		if errors.Is(err, core.ErrNoDataset) {
			respondError(w, r, err, http.StatusNotFound)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "updated"})
}

func (s *Server) handleSetCurrentRow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RowIndex int `json:"rowIndex"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.service.SetCurrentRow(req.RowIndex); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, map[string]string{"status": "updated"})
}

// handleRowCode generates the code for one row. The rowIndex path
// value "current" resolves to the dataset's current row.
func (s *Server) handleRowCode(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "rowIndex")

	rowIndex := -1
	if param != "current" {
		n, err := strconv.Atoi(param)
		if err != nil {
			writeError(w, http.StatusBadRequest, "rowIndex must be an integer or \"current\"")
			return
		}
		rowIndex = n
	}

	code, err := s.service.RowCode(rowIndex)
	if err != nil {
		if errors.Is(err, core.ErrNoDataset) {
			respondError(w, r, err, http.StatusNotFound)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, map[string]string{"code": code})
}

// serialRequest is the request body of the serial endpoints. The
// serial settings are inline alongside the pattern.
type serialRequest struct {
	vdp.SerialSpec
	Pattern string `json:"pattern"`
	Enabled *bool  `json:"enabled,omitempty"`
	Count   int    `json:"count,omitempty"`
}

// handleSerialExpand produces one code from a pattern and serial spec.
// Serialization defaults to enabled; pass "enabled": false to get the
// raw pattern back.
func (s *Server) handleSerialExpand(w http.ResponseWriter, r *http.Request) {
	var req serialRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	writeJSON(w, map[string]string{
		"code": vdp.Expand(req.Pattern, enabled, req.SerialSpec),
	})
}

// handleSerialSeries materializes a run of codes, one per label
// instance, starting at the spec's current index. Count is capped to
// keep responses bounded.
func (s *Server) handleSerialSeries(w http.ResponseWriter, r *http.Request) {
	var req serialRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	const maxSeries = 10000
	if req.Count <= 0 {
		writeError(w, http.StatusBadRequest, "count must be positive")
		return
	}
	if req.Count > maxSeries {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("count must be at most %d", maxSeries))
		return
	}

	writeJSON(w, map[string]interface{}{
		"codes": vdp.ExpandSeries(req.Pattern, req.SerialSpec, req.Count),
	})
}

// handleExport downloads the batch report for the whole dataset.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	fileName, content, err := s.service.Export(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	io.WriteString(w, content)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)

	events, err := s.service.RecentEvents(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"events": events})
}

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNoDataset):
		return http.StatusNotFound
	case errors.Is(err, importer.ErrImportFormat),
		errors.Is(err, importer.ErrUnsupportedFileKind):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
