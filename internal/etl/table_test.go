package etl

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestCoerceCell(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want any
	}{
		{"empty", "", nil},
		{"whitespace", "  \t", nil},
		{"integer", "42", float64(42)},
		{"decimal", "1234.56", 1234.56},
		{"iso date", "2023-04-15", time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC)},
		{"datetime", "2023-04-15 10:30:00", time.Date(2023, 4, 15, 10, 30, 0, 0, time.UTC)},
		{"br date", "15/04/2023", time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC)},
		{"plain text", "fls. 10/12", "fls. 10/12"},
		{"long identifier stays text", "35240712345678000190550010000000011000000011",
			"35240712345678000190550010000000011000000011"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerceCell(tt.in)
			if wt, ok := tt.want.(time.Time); ok {
				gt, isTime := got.(time.Time)
				if !isTime || !gt.Equal(wt) {
					t.Errorf("coerceCell(%q) = %v, want %v", tt.in, got, wt)
				}
				return
			}
			if got != tt.want {
				t.Errorf("coerceCell(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeValue(t *testing.T) {
	if NormalizeValue(nil) != nil {
		t.Error("nil should stay nil")
	}
	if NormalizeValue(math.NaN()) != nil {
		t.Error("NaN is the engine null marker, should become nil")
	}
	ts := time.Date(2023, 4, 15, 10, 30, 0, 0, time.UTC)
	if got := NormalizeValue(ts); got != "2023-04-15T10:30:00Z" {
		t.Errorf("timestamp = %v, want ISO-8601 string", got)
	}
	if got := NormalizeValue(7.5); got != 7.5 {
		t.Errorf("number = %v, want 7.5", got)
	}
	if got := NormalizeValue("texto"); got != "texto" {
		t.Errorf("string = %v, want unchanged", got)
	}
}

func TestReadCSV(t *testing.T) {
	src := " Tipo de Evidência ,Referência,Resumo\n" +
		"Depoimento,fls. 10/12,resumo um\n" +
		"Documento,,\n"

	table, err := ReadTable(strings.NewReader(src), FormatCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(table.Columns) != 3 || table.Columns[0] != "Tipo de Evidência" {
		t.Fatalf("headers not trimmed: %q", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if table.Rows[0]["Referência"] != "fls. 10/12" {
		t.Errorf("reference cell = %v", table.Rows[0]["Referência"])
	}
	if table.Rows[1]["Resumo"] != nil {
		t.Errorf("blank cell should be nil, got %v", table.Rows[1]["Resumo"])
	}
}

func TestReadCSV_RaggedRows(t *testing.T) {
	src := "a,b,c\nonly\n"

	table, err := ReadTable(strings.NewReader(src), FormatCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row := table.Rows[0]
	if row["a"] != "only" {
		t.Errorf("a = %v", row["a"])
	}
	if row["b"] != nil || row["c"] != nil {
		t.Error("short row should leave trailing columns nil")
	}
}

func TestReadTable_UnsupportedFormat(t *testing.T) {
	_, err := ReadTable(strings.NewReader("x"), Format("ods"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
