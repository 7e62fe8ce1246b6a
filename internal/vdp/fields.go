package vdp

import "strings"

// FieldTag is the closed set of semantic tags an imported column can be
// mapped to. Each non-empty tag corresponds 1:1 to a bracketed template
// token of the form [TAG].
type FieldTag string

const (
	TagNone       FieldTag = ""
	TagSerial     FieldTag = "SERIAL"
	TagLot        FieldTag = "LOT"
	TagGTIN       FieldTag = "GTIN"
	TagBestBefore FieldTag = "BEST_BEFORE"
	TagProdDate   FieldTag = "PROD_DATE"
	TagUseBy      FieldTag = "USE_BY"
	TagVariant    FieldTag = "VARIANT"
	TagQuantity   FieldTag = "QUANTITY"
	TagCustom     FieldTag = "CUSTOM"
)

// Tags lists every assignable tag in display order.
var Tags = []FieldTag{
	TagSerial, TagLot, TagGTIN, TagBestBefore, TagProdDate,
	TagUseBy, TagVariant, TagQuantity, TagCustom,
}

// Valid reports whether t is one of the known tags (TagNone included).
func (t FieldTag) Valid() bool {
	if t == TagNone {
		return true
	}
	for _, known := range Tags {
		if t == known {
			return true
		}
	}
	return false
}

// Token returns the bracketed template token for the tag, or "" for
// TagNone.
func (t FieldTag) Token() string {
	if t == TagNone {
		return ""
	}
	return "[" + string(t) + "]"
}

// tagRule pairs a tag with the header keywords that suggest it.
type tagRule struct {
	tag      FieldTag
	keywords []string
}

// autoMapRules drive header auto-detection. Order is priority: the first
// rule with a matching keyword wins for a column. Keywords cover English
// and the Slovak/Czech headers common in source files from the original
// user base.
var autoMapRules = []tagRule{
	{TagSerial, []string{"serial", "sn", "číslo", "number"}},
	{TagLot, []string{"lot", "šarža", "batch"}},
	{TagGTIN, []string{"gtin", "ean", "upc"}},
	{TagBestBefore, []string{"expir", "best", "spotreba"}},
	{TagProdDate, []string{"prod", "výrob"}},
}

// DetectTag returns the tag suggested by a column header, or TagNone
// when no keyword matches. Matching is case-insensitive substring.
func DetectTag(columnName string) FieldTag {
	name := strings.ToLower(columnName)
	for _, rule := range autoMapRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.tag
			}
		}
	}
	return TagNone
}

// AutoMap fills MappedTo for every column in place from its header name.
// The result is advisory: callers overwrite individual mappings through
// ImportDataset.SetMapping.
func AutoMap(columns []ImportColumn) {
	for i := range columns {
		columns[i].MappedTo = DetectTag(columns[i].ColumnName)
	}
}
