package etl

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/docketlabs/docket/internal/domain/evidence"
)

// Column names of the mapped (qualitative) spreadsheet export.
const (
	colMappedKind      = "Tipo de Evidência"
	colMappedExcerpt   = "Trecho"
	colMappedContent   = "Conteúdo"
	colMappedSummary   = "Resumo"
	colMappedReference = "Referência"
)

// Column names of the cataloged (fiscal-document) spreadsheet export.
const (
	colCatKind        = "origem_tipo"
	colCatExcerpt     = "trecho"
	colCatReference   = "referencia"
	colCatDocKey      = "chave_nfe"
	colCatIssuer      = "cnpj_emitente"
	colCatRecipient   = "cnpj_destinatario"
	colCatDocNumber   = "numero_nf"
	colCatSeries      = "serie"
	colCatTotalAmount = "valor_total"
	colCatOpCode      = "cfop"
	colCatRelatedDoc  = "documento_ref"
	colCatIssueDate   = "data_emissao"
)

// NormalizeMappedRow converts one mapped spreadsheet row into a record.
// Missing or blank columns yield absent fields; the whole normalized row is
// kept verbatim as extras.
func NormalizeMappedRow(processID int64, row Row) evidence.Mapped {
	ref := stringField(row, colMappedReference)
	start, end := evidence.ParseReference(ref)

	return evidence.Mapped{
		ProcessID:    processID,
		Kind:         stringField(row, colMappedKind),
		Content:      stringField(row, colMappedContent),
		Summary:      stringField(row, colMappedSummary),
		Excerpt:      stringField(row, colMappedExcerpt),
		ReferenceRaw: ref,
		PageStart:    start,
		PageEnd:      end,
		Extras:       CleanRow(row),
	}
}

// NormalizeCatalogedRow converts one cataloged spreadsheet row into a
// record. Each fiscal field is coerced to text individually, so one
// malformed value never rejects the row. The issuance date is promoted only
// when the source value already is a date/time; otherwise it is silently
// left absent (the raw value survives in extras).
func NormalizeCatalogedRow(processID int64, row Row) evidence.Cataloged {
	ref := stringField(row, colCatReference)
	start, end := evidence.ParseReference(ref)

	return evidence.Cataloged{
		ProcessID:    processID,
		Kind:         stringField(row, colCatKind),
		Excerpt:      stringField(row, colCatExcerpt),
		ReferenceRaw: ref,
		PageStart:    start,
		PageEnd:      end,
		Fiscal: evidence.Fiscal{
			DocumentKey:    textField(row, colCatDocKey),
			IssuerID:       textField(row, colCatIssuer),
			RecipientID:    textField(row, colCatRecipient),
			DocumentNumber: textField(row, colCatDocNumber),
			Series:         textField(row, colCatSeries),
			TotalAmount:    textField(row, colCatTotalAmount),
			OperationCode:  textField(row, colCatOpCode),
			RelatedDocRef:  textField(row, colCatRelatedDoc),
			IssueDate:      dateField(row, colCatIssueDate),
		},
		Extras: CleanRow(row),
	}
}

// stringField returns a column as plain text, "" when absent.
func stringField(row Row, col string) string {
	s := textField(row, col)
	if s == nil {
		return ""
	}
	return *s
}

// textField coerces any present scalar to text, nil when the column is
// missing or holds the engine's null marker.
func textField(row Row, col string) *string {
	v, ok := row[col]
	if !ok || NormalizeValue(v) == nil {
		return nil
	}

	var s string
	switch val := v.(type) {
	case string:
		s = val
	case float64:
		// Spreadsheet engines widen identifiers to floats; keep integral
		// values free of a spurious decimal point.
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			s = strconv.FormatInt(int64(val), 10)
		} else {
			s = strconv.FormatFloat(val, 'f', -1, 64)
		}
	case bool:
		s = strconv.FormatBool(val)
	case time.Time:
		s = val.Format(time.RFC3339)
	default:
		s = fmt.Sprintf("%v", val)
	}
	if s == "" {
		return nil
	}
	return &s
}

// dateField promotes a column to a calendar date only when the cell already
// carries a date/time value.
func dateField(row Row, col string) *time.Time {
	if v, ok := row[col].(time.Time); ok {
		day := time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return &day
	}
	return nil
}
