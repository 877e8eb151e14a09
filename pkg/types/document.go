package types

// DocumentType classifies a legal document in the corpus.
type DocumentType string

const (
	DocumentTypeStatute DocumentType = "statute"
	DocumentTypeBill    DocumentType = "bill"
	DocumentTypeSOU     DocumentType = "sou"
	DocumentTypeDs      DocumentType = "ds"
	DocumentTypeCaseLaw DocumentType = "case_law"
)

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeStatute, DocumentTypeBill, DocumentTypeSOU, DocumentTypeDs, DocumentTypeCaseLaw:
		return true
	}
	return false
}

// DocumentStatus tracks whether a document is currently law.
type DocumentStatus string

const (
	StatusInForce       DocumentStatus = "in_force"
	StatusAmended       DocumentStatus = "amended"
	StatusRepealed      DocumentStatus = "repealed"
	StatusNotYetInForce DocumentStatus = "not_yet_in_force"
)

// Valid reports whether s is a known document status.
func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusInForce, StatusAmended, StatusRepealed, StatusNotYetInForce:
		return true
	}
	return false
}

// LegalDocument is a statute, preparatory work or court decision. Its ID is
// immutable; only Status changes as the law changes. Documents are never
// deleted, only re-statused.
type LegalDocument struct {
	ID          string         `json:"id"`
	Type        DocumentType   `json:"type"`
	Title       string         `json:"title"`
	ShortName   Option[string] `json:"short_name"`
	Status      DocumentStatus `json:"status"`
	IssuedDate  Date           `json:"issued_date"`
	InForceDate Option[Date]   `json:"in_force_date"`
}
