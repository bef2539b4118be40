package etl

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/docketlabs/docket/internal/domain"
)

// ReadTable parses a tabular source in the given format. The first row is
// the header. A source that cannot be read as tabular data is an
// import-level failure: the error wraps domain.ErrImportSource and no rows
// are returned.
func ReadTable(r io.Reader, format Format) (Table, error) {
	switch format {
	case FormatXLSX:
		return readXLSX(r)
	case FormatCSV:
		return readCSV(r)
	default:
		return Table{}, fmt.Errorf("unsupported format %q: %w", format, domain.ErrImportSource)
	}
}

func readXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("open workbook: %w: %w", err, domain.ErrImportSource)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("workbook has no sheets: %w", domain.ErrImportSource)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("read sheet %q: %w: %w", sheets[0], err, domain.ErrImportSource)
	}
	return tableFromRecords(rows), nil
}

func readCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged exports are common

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w: %w", err, domain.ErrImportSource)
	}
	return tableFromRecords(records), nil
}

func tableFromRecords(records [][]string) Table {
	if len(records) == 0 {
		return Table{}
	}

	columns := trimColumns(records[0])
	table := Table{Columns: columns, Rows: make([]Row, 0, len(records)-1)}
	for _, cells := range records[1:] {
		table.Rows = append(table.Rows, rowFromCells(columns, cells))
	}
	return table
}
