package store

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/coolbeans/lagref/pkg/types"
)

type documentRow struct {
	bun.BaseModel `bun:"table:documents,alias:d"`

	ID          string     `bun:"id,pk"`
	Type        string     `bun:"type,notnull"`
	Title       string     `bun:"title,notnull"`
	ShortName   *string    `bun:"short_name"`
	Status      string     `bun:"status,notnull"`
	IssuedDate  time.Time  `bun:"issued_date,type:date,nullzero"`
	InForceDate *time.Time `bun:"in_force_date,type:date"`
}

type provisionRow struct {
	bun.BaseModel `bun:"table:provisions,alias:p"`

	DocumentID   string  `bun:"document_id,pk"`
	ProvisionRef string  `bun:"provision_ref,pk"`
	Chapter      *string `bun:"chapter"`
	Section      string  `bun:"section,notnull"`
	Title        *string `bun:"title"`
	Content      string  `bun:"content,notnull"`
	Position     int     `bun:"position,notnull"`
}

type provisionVersionRow struct {
	bun.BaseModel `bun:"table:provision_versions,alias:pv"`

	ID           int64      `bun:"id,pk,autoincrement"`
	DocumentID   string     `bun:"document_id,notnull"`
	ProvisionRef string     `bun:"provision_ref,notnull"`
	Title        *string    `bun:"title"`
	Content      string     `bun:"content,notnull"`
	ValidFrom    *time.Time `bun:"valid_from,type:date"`
	ValidTo      *time.Time `bun:"valid_to,type:date"`
}

type crossReferenceRow struct {
	bun.BaseModel `bun:"table:cross_references,alias:cr"`

	ID                 int64   `bun:"id,pk,autoincrement"`
	SourceDocumentID   string  `bun:"source_document_id,notnull"`
	SourceProvisionRef *string `bun:"source_provision_ref"`
	TargetDocumentID   string  `bun:"target_document_id,notnull"`
	TargetProvisionRef *string `bun:"target_provision_ref"`
	RefType            string  `bun:"ref_type,notnull"`
}

type euReferenceRow struct {
	bun.BaseModel `bun:"table:eu_references,alias:eu"`

	ID                    int64   `bun:"id,pk,autoincrement"`
	SourceDocumentID      string  `bun:"source_document_id,notnull"`
	SourceProvisionRef    *string `bun:"source_provision_ref"`
	Type                  string  `bun:"type,notnull"`
	EUID                  string  `bun:"eu_id,notnull"`
	Year                  int     `bun:"year,notnull"`
	Number                int     `bun:"number,notnull"`
	Community             *string `bun:"community"`
	IssuingBody           *string `bun:"issuing_body"`
	Article               *string `bun:"article"`
	ReferenceType         string  `bun:"reference_type,notnull"`
	ImplementationKeyword *string `bun:"implementation_keyword"`
	FullText              string  `bun:"full_text,notnull"`
	Context               string  `bun:"context,notnull"`
	TextOffset            int     `bun:"text_offset,notnull"`
}

func datePtr(d types.Option[types.Date]) *time.Time {
	if v, ok := d.Get(); ok {
		t := v.ToTime()
		return &t
	}
	return nil
}

func dateOption(t *time.Time) types.Option[types.Date] {
	if t == nil {
		return types.None[types.Date]()
	}
	return types.Some(types.FromTime(*t))
}

func newDocumentRow(doc types.LegalDocument) *documentRow {
	row := &documentRow{
		ID:          doc.ID,
		Type:        string(doc.Type),
		Title:       doc.Title,
		ShortName:   doc.ShortName.Ptr(),
		Status:      string(doc.Status),
		InForceDate: datePtr(doc.InForceDate),
	}
	if !doc.IssuedDate.IsZero() {
		row.IssuedDate = doc.IssuedDate.ToTime()
	}
	return row
}

func (r *documentRow) toDocument() types.LegalDocument {
	doc := types.LegalDocument{
		ID:          r.ID,
		Type:        types.DocumentType(r.Type),
		Title:       r.Title,
		ShortName:   types.FromPtr(r.ShortName),
		Status:      types.DocumentStatus(r.Status),
		InForceDate: dateOption(r.InForceDate),
	}
	if !r.IssuedDate.IsZero() {
		doc.IssuedDate = types.FromTime(r.IssuedDate)
	}
	return doc
}

func newProvisionRow(documentID string, position int, p types.Provision) provisionRow {
	return provisionRow{
		DocumentID:   documentID,
		ProvisionRef: p.ProvisionRef,
		Chapter:      p.Chapter.Ptr(),
		Section:      p.Section,
		Title:        p.Title.Ptr(),
		Content:      p.Content,
		Position:     position,
	}
}

func (r *provisionRow) toProvision() types.Provision {
	return types.Provision{
		DocumentID:   r.DocumentID,
		ProvisionRef: r.ProvisionRef,
		Chapter:      types.FromPtr(r.Chapter),
		Section:      r.Section,
		Title:        types.FromPtr(r.Title),
		Content:      r.Content,
	}
}

func newProvisionVersionRow(v types.ProvisionVersion) *provisionVersionRow {
	return &provisionVersionRow{
		DocumentID:   v.DocumentID,
		ProvisionRef: v.ProvisionRef,
		Title:        v.Title.Ptr(),
		Content:      v.Content,
		ValidFrom:    datePtr(v.Validity.From),
		ValidTo:      datePtr(v.Validity.To),
	}
}

func (r *provisionVersionRow) toVersion() types.ProvisionVersion {
	return types.ProvisionVersion{
		ID:           r.ID,
		DocumentID:   r.DocumentID,
		ProvisionRef: r.ProvisionRef,
		Title:        types.FromPtr(r.Title),
		Content:      r.Content,
		Validity: types.ValidityInterval{
			From: dateOption(r.ValidFrom),
			To:   dateOption(r.ValidTo),
		},
	}
}

func newCrossReferenceRow(ref types.CrossReference) crossReferenceRow {
	return crossReferenceRow{
		SourceDocumentID:   ref.SourceDocumentID,
		SourceProvisionRef: ref.SourceProvisionRef.Ptr(),
		TargetDocumentID:   ref.TargetDocumentID,
		TargetProvisionRef: ref.TargetProvisionRef.Ptr(),
		RefType:            string(ref.RefType),
	}
}

func (r *crossReferenceRow) toCrossReference() types.CrossReference {
	return types.CrossReference{
		SourceDocumentID:   r.SourceDocumentID,
		SourceProvisionRef: types.FromPtr(r.SourceProvisionRef),
		TargetDocumentID:   r.TargetDocumentID,
		TargetProvisionRef: types.FromPtr(r.TargetProvisionRef),
		RefType:            types.CrossRefType(r.RefType),
	}
}

func newEUReferenceRow(rec EUReferenceRecord) euReferenceRow {
	ref := rec.Reference
	return euReferenceRow{
		SourceDocumentID:      rec.SourceDocumentID,
		SourceProvisionRef:    rec.SourceProvisionRef.Ptr(),
		Type:                  string(ref.Type),
		EUID:                  ref.ID,
		Year:                  ref.Year,
		Number:                ref.Number,
		Community:             ref.Community.Ptr(),
		IssuingBody:           ref.IssuingBody.Ptr(),
		Article:               ref.Article.Ptr(),
		ReferenceType:         string(ref.ReferenceType),
		ImplementationKeyword: ref.ImplementationKeyword.Ptr(),
		FullText:              ref.FullText,
		Context:               ref.Context,
		TextOffset:            ref.TextOffset,
	}
}

func (r *euReferenceRow) toRecord() EUReferenceRecord {
	return EUReferenceRecord{
		SourceDocumentID:   r.SourceDocumentID,
		SourceProvisionRef: types.FromPtr(r.SourceProvisionRef),
		Reference: types.EUReference{
			Type:                  types.EUActType(r.Type),
			ID:                    r.EUID,
			Year:                  r.Year,
			Number:                r.Number,
			Community:             types.FromPtr(r.Community),
			IssuingBody:           types.FromPtr(r.IssuingBody),
			Article:               types.FromPtr(r.Article),
			ReferenceType:         types.EUReferenceType(r.ReferenceType),
			ImplementationKeyword: types.FromPtr(r.ImplementationKeyword),
			FullText:              r.FullText,
			Context:               r.Context,
			TextOffset:            r.TextOffset,
		},
	}
}
