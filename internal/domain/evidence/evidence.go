// Package evidence models the two spreadsheet-sourced evidence shapes of a
// case file and their unified read-only projection.
package evidence

import (
	"fmt"
	"time"
)

// SourceType tags which spreadsheet shape a record came from.
type SourceType string

// Evidence source variants.
const (
	SourceMapped    SourceType = "mapped"
	SourceCataloged SourceType = "cataloged"
)

// Mapped is a qualitative evidence record (excerpt-centric spreadsheet).
type Mapped struct {
	ID        int64
	ProcessID int64

	Kind    string // evidence category
	Content string
	Summary string
	Excerpt string

	ReferenceRaw string // original reference string, kept for audit
	PageStart    *int
	PageEnd      *int

	// Extras is the verbatim normalized row: every source column, including
	// ones not promoted to first-class fields. Lossless fallback.
	Extras map[string]any
}

// Cataloged is a fiscal-document-centric evidence record.
type Cataloged struct {
	ID        int64
	ProcessID int64

	Kind    string // origin category
	Excerpt string

	ReferenceRaw string
	PageStart    *int
	PageEnd      *int

	Fiscal Fiscal
	Extras map[string]any
}

// Fiscal holds the document fields of a cataloged record. Every field is
// optional; a malformed source value yields an absent field, never a
// rejected row.
type Fiscal struct {
	DocumentKey    *string
	IssuerID       *string
	RecipientID    *string
	DocumentNumber *string
	Series         *string
	TotalAmount    *string
	OperationCode  *string
	RelatedDocRef  *string
	IssueDate      *time.Time
}

// Unified is the read-only projection merging both variants into one
// queryable shape. Built on read, never persisted.
type Unified struct {
	ID             int64
	Source         SourceType
	Kind           string
	DisplaySummary string
	PageStart      *int
	PageEnd        *int

	// Fiscal display fields, set only for cataloged records.
	IssuerID    *string
	IssueDate   *time.Time
	TotalAmount *string

	Extras map[string]any
}

const displaySummaryMax = 200

// Unify projects a mapped record. The display summary is the summary text,
// falling back to a content prefix when the summary is blank.
func (m Mapped) Unify() Unified {
	summary := m.Summary
	if summary == "" {
		summary = m.Content
		if len(summary) > displaySummaryMax {
			summary = summary[:displaySummaryMax]
		}
	}
	return Unified{
		ID:             m.ID,
		Source:         SourceMapped,
		Kind:           m.Kind,
		DisplaySummary: summary,
		PageStart:      m.PageStart,
		PageEnd:        m.PageEnd,
		Extras:         m.Extras,
	}
}

// Unify projects a cataloged record, synthesizing a document-number/amount
// display summary.
func (c Cataloged) Unify() Unified {
	return Unified{
		ID:             c.ID,
		Source:         SourceCataloged,
		Kind:           c.Kind,
		DisplaySummary: fmt.Sprintf("doc %s / amount %s", orDash(c.Fiscal.DocumentNumber), orDash(c.Fiscal.TotalAmount)),
		PageStart:      c.PageStart,
		PageEnd:        c.PageEnd,
		IssuerID:       c.Fiscal.IssuerID,
		IssueDate:      c.Fiscal.IssueDate,
		TotalAmount:    c.Fiscal.TotalAmount,
		Extras:         c.Extras,
	}
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
