package vdp

import "strings"

// GenerateRowCode applies a bracket-token template against one row's
// mapped values.
//
// For each column with a mapping, every occurrence of that tag's [TAG]
// token in the template is replaced with the row's value for the column
// (empty string when the row has no value). Tokens for unmapped columns
// are left literally in the output. If two columns are mapped to the
// same tag the later column wins: substitution values are collected in
// column order before any replacement happens, so the conflict cannot
// crash or depend on replacement order. Replacement itself walks the
// Tags declaration order, keeping the output reproducible even when a
// cell value contains another tag's token.
func GenerateRowCode(template string, columns []ImportColumn, row ImportRow) string {
	byTag := make(map[FieldTag]string, len(columns))
	for _, col := range columns {
		if col.MappedTo == TagNone {
			continue
		}
		byTag[col.MappedTo] = row.Values[col.ColumnName]
	}

	out := template
	for _, tag := range Tags {
		value, ok := byTag[tag]
		if !ok {
			continue
		}
		out = strings.ReplaceAll(out, tag.Token(), value)
	}
	return out
}
