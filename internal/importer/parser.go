// Package importer ingests tabular files into a header plus data rows,
// independent of any VDP semantics. Delimited text and XLSX workbooks
// produce the same shape; callers build their dataset from the result.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrImportFormat marks files with no usable tabular structure: empty,
// header-only, or without a readable sheet. Callers keep their prior
// dataset when they see it.
var ErrImportFormat = errors.New("no tabular data found")

// ErrUnsupportedFileKind marks files whose extension is not one of the
// supported kinds.
var ErrUnsupportedFileKind = errors.New("unsupported file kind")

// contextCheckInterval is how often (in lines) the delimited scanner
// checks for cancellation.
const contextCheckInterval = 500

// ParsedTable is the common result shape of both source kinds.
type ParsedTable struct {
	Header   []string
	DataRows [][]string
}

// Options tune parsing behavior.
type Options struct {
	// Encoding of delimited text files: "utf-8" (default),
	// "windows-1250" or "windows-1251". Ignored for workbooks.
	Encoding string
}

// Parse ingests a complete file's bytes. The source kind is chosen by
// file extension: .csv and .txt are delimited text with ',' or ';'
// separators and double-quote quoting; .xlsx/.xlsm are workbooks of
// which only the first sheet is read. Files with fewer than two total
// rows (no header, or a header with zero data rows) fail with
// ErrImportFormat.
func Parse(ctx context.Context, data []byte, fileName string, opts Options) (*ParsedTable, error) {
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".csv", ".txt":
		return parseDelimited(ctx, data, opts.Encoding)
	case ".xlsx", ".xlsm":
		return parseWorkbook(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileKind, ext)
	}
}

// parseDelimited scans quoted delimited text. Lines are split on any
// line ending and dropped when blank; within a line both ',' and ';'
// separate fields while outside quotes, and each field is trimmed.
func parseDelimited(ctx context.Context, data []byte, encoding string) (*ParsedTable, error) {
	text, err := decodeText(data, encoding)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for i, line := range splitLines(text) {
		if i%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("parse cancelled at line %d: %w", i+1, err)
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, splitFields(line))
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: need a header row and at least one data row, got %d row(s)", ErrImportFormat, len(rows))
	}
	return &ParsedTable{Header: rows[0], DataRows: rows[1:]}, nil
}

// parseWorkbook reads the first sheet of an XLSX workbook. Cells come
// back stringified; short rows are left short and padded later during
// dataset construction.
func parseWorkbook(data []byte) (*ParsedTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportFormat, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrImportFormat)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: need a header row and at least one data row, got %d row(s)", ErrImportFormat, len(rows))
	}
	return &ParsedTable{Header: rows[0], DataRows: rows[1:]}, nil
}

// splitLines splits on \r\n, \n and bare \r.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// splitFields scans one line character by character, toggling an
// in-quotes flag on '"'. Quote characters themselves are dropped, so a
// quoted field keeps embedded separators but not its quotes.
func splitFields(line string) []string {
	var fields []string
	var field strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case (r == ',' || r == ';') && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(field.String()))
	return fields
}
