package vdp

import (
	"path/filepath"
	"strconv"
	"strings"
)

// exportSeparator is the cell separator of the batch report. Semicolon
// keeps the file loadable in locales where Excel treats comma as the
// decimal separator.
const exportSeparator = ";"

// DefaultExportName is used when the dataset has no source file name.
const DefaultExportName = "vdp_codes.csv"

// ExportAll serializes the whole dataset as delimited text: a header
// row of Row, GeneratedCode and the original columns, then one line per
// row in row order with a 1-based row number, the code generated from
// the current template and mapping, and each raw cell in column order.
// Every cell is quoted with embedded quotes doubled. The dataset is not
// mutated; cached GeneratedCode values are left alone.
func ExportAll(d *ImportDataset) string {
	var b strings.Builder

	header := make([]string, 0, len(d.Columns)+2)
	header = append(header, "Row", "GeneratedCode")
	for _, col := range d.Columns {
		header = append(header, col.ColumnName)
	}
	writeRecord(&b, header)

	for _, row := range d.Rows {
		record := make([]string, 0, len(d.Columns)+2)
		record = append(record, strconv.Itoa(row.RowIndex+1))
		record = append(record, GenerateRowCode(d.PatternTemplate, d.Columns, row))
		for _, col := range d.Columns {
			record = append(record, row.Values[col.ColumnName])
		}
		writeRecord(&b, record)
	}

	return b.String()
}

// ExportFileName derives the report name from the source file's base
// name with a _codes.csv suffix, falling back to DefaultExportName when
// the source name is unknown.
func ExportFileName(sourceName string) string {
	if sourceName == "" {
		return DefaultExportName
	}
	base := filepath.Base(sourceName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		return DefaultExportName
	}
	return base + "_codes.csv"
}

func writeRecord(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(exportSeparator)
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
