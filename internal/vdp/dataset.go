package vdp

import "fmt"

// ImportColumn is one detected header column. Column order is fixed at
// import time; only MappedTo changes afterwards.
type ImportColumn struct {
	ColumnIndex int      `json:"columnIndex"`
	ColumnName  string   `json:"columnName"`
	MappedTo    FieldTag `json:"mappedTo,omitempty"`
}

// ImportRow is one imported data row. Values are keyed by column name
// and immutable after construction; GeneratedCode is derived state,
// recomputed on demand from the current template and mapping.
type ImportRow struct {
	RowIndex      int               `json:"rowIndex"`
	Values        map[string]string `json:"values"`
	GeneratedCode string            `json:"generatedCode,omitempty"`
}

// ImportDataset is the single slot of imported tabular data. It is
// created wholesale on a successful parse and cleared wholesale; it is
// never partially updated.
type ImportDataset struct {
	FileName        string         `json:"fileName,omitempty"`
	Columns         []ImportColumn `json:"columns"`
	Rows            []ImportRow    `json:"rows"`
	CurrentRowIndex int            `json:"currentRowIndex"`
	PatternTemplate string         `json:"patternTemplate"`
}

// NewDataset builds a dataset from a parsed header and data rows.
//
// Blank header cells get a synthesized "Column N" name; duplicate header
// names are also synthesized so row value keys stay unique. Rows shorter
// than the header are padded with empty strings and extra cells beyond
// the header are dropped, so every row carries exactly one value per
// column. Auto-mapping is applied to the fresh columns.
func NewDataset(fileName string, header []string, dataRows [][]string) *ImportDataset {
	columns := make([]ImportColumn, len(header))
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		if name == "" || seen[name] {
			name = fmt.Sprintf("Column %d", i+1)
		}
		seen[name] = true
		columns[i] = ImportColumn{ColumnIndex: i, ColumnName: name}
	}
	AutoMap(columns)

	rows := make([]ImportRow, len(dataRows))
	for r, cells := range dataRows {
		values := make(map[string]string, len(columns))
		for c, col := range columns {
			if c < len(cells) {
				values[col.ColumnName] = cells[c]
			} else {
				values[col.ColumnName] = ""
			}
		}
		rows[r] = ImportRow{RowIndex: r, Values: values}
	}

	return &ImportDataset{
		FileName: fileName,
		Columns:  columns,
		Rows:     rows,
	}
}

// SetMapping assigns a tag to the column with the given columnIndex,
// leaving every other column untouched. Unknown indexes and invalid
// tags are ignored.
func (d *ImportDataset) SetMapping(columnIndex int, tag FieldTag) {
	if !tag.Valid() {
		return
	}
	for i := range d.Columns {
		if d.Columns[i].ColumnIndex == columnIndex {
			d.Columns[i].MappedTo = tag
			return
		}
	}
}

// SetCurrentRow moves the current-row cursor, clamped into the valid
// row range. With no rows the cursor stays at 0.
func (d *ImportDataset) SetCurrentRow(rowIndex int) {
	if len(d.Rows) == 0 {
		d.CurrentRowIndex = 0
		return
	}
	if rowIndex < 0 {
		rowIndex = 0
	}
	if rowIndex >= len(d.Rows) {
		rowIndex = len(d.Rows) - 1
	}
	d.CurrentRowIndex = rowIndex
}

// RowCode computes the generated code for one row against the dataset's
// current template and mapping. Out-of-range indexes yield "".
func (d *ImportDataset) RowCode(rowIndex int) string {
	if rowIndex < 0 || rowIndex >= len(d.Rows) {
		return ""
	}
	return GenerateRowCode(d.PatternTemplate, d.Columns, d.Rows[rowIndex])
}

// RefreshCodes recomputes GeneratedCode for every row. Called after the
// template or a mapping changes so cached codes are never stale.
func (d *ImportDataset) RefreshCodes() {
	for i := range d.Rows {
		d.Rows[i].GeneratedCode = GenerateRowCode(d.PatternTemplate, d.Columns, d.Rows[i])
	}
}
