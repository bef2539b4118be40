package evidence

import (
	"time"

	domev "github.com/docketlabs/docket/internal/domain/evidence"
)

type mappedDTO struct {
	ID        int64  `json:"id"`
	ProcessID int64  `json:"process_id"`
	Kind      string `json:"kind,omitempty"`
	Content   string `json:"content,omitempty"`
	Summary   string `json:"summary,omitempty"`
	Excerpt   string `json:"excerpt,omitempty"`

	ReferenceRaw string `json:"reference_raw,omitempty"`
	PageStart    *int   `json:"page_start,omitempty"`
	PageEnd      *int   `json:"page_end,omitempty"`

	Extras map[string]any `json:"extras,omitempty"`
}

type catalogedDTO struct {
	ID        int64  `json:"id"`
	ProcessID int64  `json:"process_id"`
	Kind      string `json:"kind,omitempty"`
	Excerpt   string `json:"excerpt,omitempty"`

	ReferenceRaw string `json:"reference_raw,omitempty"`
	PageStart    *int   `json:"page_start,omitempty"`
	PageEnd      *int   `json:"page_end,omitempty"`

	DocumentKey    *string    `json:"document_key,omitempty"`
	IssuerID       *string    `json:"issuer_id,omitempty"`
	RecipientID    *string    `json:"recipient_id,omitempty"`
	DocumentNumber *string    `json:"document_number,omitempty"`
	Series         *string    `json:"series,omitempty"`
	TotalAmount    *string    `json:"total_amount,omitempty"`
	OperationCode  *string    `json:"operation_code,omitempty"`
	RelatedDocRef  *string    `json:"related_doc_ref,omitempty"`
	IssueDate      *time.Time `json:"issue_date,omitempty"`

	Extras map[string]any `json:"extras,omitempty"`
}

func mappedFromDomain(m domev.Mapped) mappedDTO {
	return mappedDTO{
		ID:           m.ID,
		ProcessID:    m.ProcessID,
		Kind:         m.Kind,
		Content:      m.Content,
		Summary:      m.Summary,
		Excerpt:      m.Excerpt,
		ReferenceRaw: m.ReferenceRaw,
		PageStart:    m.PageStart,
		PageEnd:      m.PageEnd,
		Extras:       m.Extras,
	}
}

func mappedToDomain(dto mappedDTO) domev.Mapped {
	return domev.Mapped{
		ID:           dto.ID,
		ProcessID:    dto.ProcessID,
		Kind:         dto.Kind,
		Content:      dto.Content,
		Summary:      dto.Summary,
		Excerpt:      dto.Excerpt,
		ReferenceRaw: dto.ReferenceRaw,
		PageStart:    dto.PageStart,
		PageEnd:      dto.PageEnd,
		Extras:       dto.Extras,
	}
}

func catalogedFromDomain(c domev.Cataloged) catalogedDTO {
	return catalogedDTO{
		ID:             c.ID,
		ProcessID:      c.ProcessID,
		Kind:           c.Kind,
		Excerpt:        c.Excerpt,
		ReferenceRaw:   c.ReferenceRaw,
		PageStart:      c.PageStart,
		PageEnd:        c.PageEnd,
		DocumentKey:    c.Fiscal.DocumentKey,
		IssuerID:       c.Fiscal.IssuerID,
		RecipientID:    c.Fiscal.RecipientID,
		DocumentNumber: c.Fiscal.DocumentNumber,
		Series:         c.Fiscal.Series,
		TotalAmount:    c.Fiscal.TotalAmount,
		OperationCode:  c.Fiscal.OperationCode,
		RelatedDocRef:  c.Fiscal.RelatedDocRef,
		IssueDate:      c.Fiscal.IssueDate,
		Extras:         c.Extras,
	}
}

func catalogedToDomain(dto catalogedDTO) domev.Cataloged {
	return domev.Cataloged{
		ID:           dto.ID,
		ProcessID:    dto.ProcessID,
		Kind:         dto.Kind,
		Excerpt:      dto.Excerpt,
		ReferenceRaw: dto.ReferenceRaw,
		PageStart:    dto.PageStart,
		PageEnd:      dto.PageEnd,
		Fiscal: domev.Fiscal{
			DocumentKey:    dto.DocumentKey,
			IssuerID:       dto.IssuerID,
			RecipientID:    dto.RecipientID,
			DocumentNumber: dto.DocumentNumber,
			Series:         dto.Series,
			TotalAmount:    dto.TotalAmount,
			OperationCode:  dto.OperationCode,
			RelatedDocRef:  dto.RelatedDocRef,
			IssueDate:      dto.IssueDate,
		},
		Extras: dto.Extras,
	}
}
