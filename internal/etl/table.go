// Package etl converts heterogeneous spreadsheet exports into canonical
// evidence records. Readers produce loosely-typed rows keyed by trimmed
// column names; normalizers turn rows into typed records plus a verbatim
// extras payload, absorbing field anomalies instead of rejecting rows.
package etl

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Row is one spreadsheet row: trimmed column name to dynamically-typed
// value. Values are nil, string, float64, bool or time.Time.
type Row map[string]any

// Table is a parsed tabular source.
type Table struct {
	Columns []string
	Rows    []Row
}

// Format identifies a supported tabular source format.
type Format string

// Supported source formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// cellDateLayouts are tried in order when coercing a cell into a timestamp.
var cellDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"2006/01/02",
}

// coerceCell types a raw cell string: empty -> nil, numeric -> float64,
// date-shaped -> time.Time, anything else stays a string. Digit runs longer
// than 15 characters stay strings: those are identifiers (document keys,
// registration numbers) and float64 would corrupt them.
func coerceCell(raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) && len(s) <= 15 {
		return f
	}
	for _, layout := range cellDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return raw
}

// NormalizeValue maps a cell value onto a primitive JSON-compatible value:
// engine null markers become nil and timestamps become ISO-8601 strings.
func NormalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return val
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return v
	}
}

// CleanRow normalizes every value of a row. The result is the verbatim
// extras payload stored alongside the promoted fields: no column is lost,
// whether the record models it or not.
func CleanRow(row Row) map[string]any {
	cleaned := make(map[string]any, len(row))
	for k, v := range row {
		cleaned[k] = NormalizeValue(v)
	}
	return cleaned
}

// rowFromCells zips a header with one row of cells. Short rows leave the
// trailing columns nil; surplus cells are dropped.
func rowFromCells(columns []string, cells []string) Row {
	row := make(Row, len(columns))
	for i, col := range columns {
		if i < len(cells) {
			row[col] = coerceCell(cells[i])
		} else {
			row[col] = nil
		}
	}
	return row
}

// trimColumns trims header names so lookup never depends on stray
// whitespace in the export.
func trimColumns(header []string) []string {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}
	return cols
}
