package types

import "fmt"

// CrossRefType classifies a directed edge between two documents.
type CrossRefType string

const (
	RefTypeReferences CrossRefType = "references"
	RefTypeAmendedBy  CrossRefType = "amended_by"
	RefTypeImplements CrossRefType = "implements"
	RefTypeSeeAlso    CrossRefType = "see_also"
)

// CrossReference is a directed edge from a document (optionally a provision
// within it) to another document (optionally a provision within it).
type CrossReference struct {
	SourceDocumentID   string         `json:"source_document_id"`
	SourceProvisionRef Option[string] `json:"source_provision_ref"`
	TargetDocumentID   string         `json:"target_document_id"`
	TargetProvisionRef Option[string] `json:"target_provision_ref"`
	RefType            CrossRefType   `json:"ref_type"`
}

// EUActType is the kind of EU legal act.
type EUActType string

const (
	EUDirective  EUActType = "directive"
	EURegulation EUActType = "regulation"
)

// EUReferenceType describes how the citing Swedish text relates to the EU act.
type EUReferenceType string

const (
	EURefImplements   EUReferenceType = "implements"
	EURefSupplements  EUReferenceType = "supplements"
	EURefApplies      EUReferenceType = "applies"
	EURefCompliesWith EUReferenceType = "complies_with"
	EURefAmends       EUReferenceType = "amends"
	EURefCitesArticle EUReferenceType = "cites_article"
)

// EUReference is a citation of an EU directive or regulation found in
// Swedish legal text.
type EUReference struct {
	Type                  EUActType       `json:"type"`
	ID                    string          `json:"id"`
	Year                  int             `json:"year"`
	Number                int             `json:"number"`
	Community             Option[string]  `json:"community"`
	IssuingBody           Option[string]  `json:"issuing_body"`
	Article               Option[string]  `json:"article"`
	ReferenceType         EUReferenceType `json:"reference_type"`
	ImplementationKeyword Option[string]  `json:"implementation_keyword"`
	FullText              string          `json:"full_text"`
	Context               string          `json:"context"`
	TextOffset            int             `json:"text_offset"`
}

// LookupKey returns "{type}:{id}", e.g. "regulation:2016/679".
func (r EUReference) LookupKey() string {
	return fmt.Sprintf("%s:%s", r.Type, r.ID)
}

// CELEX synthesises a CELEX-style identifier: sector 3, the year, L for
// directives or R for regulations, and the number padded to four digits.
// It is a display convenience and is not checked against the CELEX registry.
func (r EUReference) CELEX() string {
	descriptor := "R"
	if r.Type == EUDirective {
		descriptor = "L"
	}
	return fmt.Sprintf("3%d%s%04d", r.Year, descriptor, r.Number)
}
