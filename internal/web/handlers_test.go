package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labelcraft/vdp/internal/config"
	"github.com/labelcraft/vdp/internal/core"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.RequestTimeout = 10 * time.Second
	cfg.Import.MaxFileSize = 1 << 20
	cfg.Rate.Enabled = false
	return cfg
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	service := core.NewService(core.NopHistory{}, "")
	return NewServer(service, testConfig())
}

func multipartFile(t *testing.T, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func doImport(t *testing.T, s *Server, fileName, content string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartFile(t, fileName, content)
	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func doJSON(t *testing.T, s *Server, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestHandleImport(t *testing.T) {
	s := newTestServer(t)

	rec := doImport(t, s, "items.csv", "Serial,Price\n1001,9.90\n")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var summary core.DatasetSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.RowCount != 1 {
		t.Errorf("RowCount = %d, want 1", summary.RowCount)
	}
	if len(summary.Columns) != 2 {
		t.Errorf("got %d columns, want 2", len(summary.Columns))
	}
}

func TestHandleImport_Errors(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		content  string
		wantCode string
	}{
		{"header only", "items.csv", "Serial,Price\n", "IMP002"},
		{"unsupported kind", "items.pdf", "whatever", "IMP001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			rec := doImport(t, s, tt.fileName, tt.content)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}

			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleImport_NoFile(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/import", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleDataset_NotLoaded(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/dataset", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestImportMappingCodeExportFlow(t *testing.T) {
	s := newTestServer(t)

	if rec := doImport(t, s, "items.csv", "Serial,Note\n1001,a\n1002,b\n"); rec.Code != http.StatusOK {
		t.Fatalf("import status = %d", rec.Code)
	}

	// Set the template.
	if rec := doJSON(t, s, http.MethodPut, "/api/dataset/template", map[string]string{"template": "(21)[SERIAL]"}); rec.Code != http.StatusOK {
		t.Fatalf("template status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Generate one row's code.
	req := httptest.NewRequest(http.MethodGet, "/api/dataset/rows/1/code", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("row code status = %d", rec.Code)
	}
	var codeResp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &codeResp); err != nil {
		t.Fatalf("decode code: %v", err)
	}
	if codeResp["code"] != "(21)1002" {
		t.Errorf("code = %q, want %q", codeResp["code"], "(21)1002")
	}

	// Remap the Note column and verify paged rows reflect it.
	if rec := doJSON(t, s, http.MethodPut, "/api/dataset/mapping", map[string]interface{}{"columnIndex": 1, "tag": "LOT"}); rec.Code != http.StatusOK {
		t.Fatalf("mapping status = %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodPut, "/api/dataset/template", map[string]string{"template": "[LOT]/[SERIAL]"}); rec.Code != http.StatusOK {
		t.Fatalf("template status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/dataset/rows?offset=0&limit=1", nil)
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("rows status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"a/1001"`) {
		t.Errorf("rows body missing generated code: %s", rec.Body.String())
	}

	// Export the batch report.
	req = httptest.NewRequest(http.MethodGet, "/api/export", nil)
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "items_codes.csv") {
		t.Errorf("Content-Disposition = %q, want items_codes.csv", got)
	}
	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Errorf("export has %d lines, want 3", len(lines))
	}
}

func TestHandleSerialExpand(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/serial/expand", map[string]interface{}{
		"pattern":      "(01)[SERIAL]",
		"mode":         "linear",
		"currentIndex": 5,
		"padding":      3,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["code"] != "(01)005" {
		t.Errorf("code = %q, want %q", resp["code"], "(01)005")
	}
}

func TestHandleSerialExpand_Disabled(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/serial/expand", map[string]interface{}{
		"pattern": "(01)[SERIAL]",
		"enabled": false,
		"mode":    "linear",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["code"] != "(01)[SERIAL]" {
		t.Errorf("code = %q, want the untouched pattern", resp["code"])
	}
}

func TestHandleSerialSeries(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/serial/series", map[string]interface{}{
		"pattern":        "[SERIAL]",
		"mode":           "alpha",
		"alphaStartChar": "A",
		"currentIndex":   99,
		"padding":        2,
		"count":          3,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Codes []string `json:"codes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"A99", "A100", "B01"}
	if len(resp.Codes) != len(want) {
		t.Fatalf("got %d codes, want %d", len(resp.Codes), len(want))
	}
	for i := range want {
		if resp.Codes[i] != want[i] {
			t.Errorf("codes[%d] = %q, want %q", i, resp.Codes[i], want[i])
		}
	}
}

func TestHandleSerialSeries_CountValidation(t *testing.T) {
	s := newTestServer(t)

	for _, count := range []int{0, -1, 10001} {
		rec := doJSON(t, s, http.MethodPost, "/api/serial/series", map[string]interface{}{
			"pattern": "[SERIAL]",
			"count":   count,
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("count=%d: status = %d, want 400", count, rec.Code)
		}
	}
}

func TestHandleClear(t *testing.T) {
	s := newTestServer(t)
	doImport(t, s, "items.csv", "Serial\n1\n")

	rec := doJSON(t, s, http.MethodPost, "/api/dataset/clear", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/dataset", nil)
	check := httptest.NewRecorder()
	s.Router().ServeHTTP(check, req)
	if check.Code != http.StatusNotFound {
		t.Errorf("dataset after clear: status = %d, want 404", check.Code)
	}
}
