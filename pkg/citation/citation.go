// Package citation parses free-form Swedish legal citations into a typed
// structure, renders them back in canonical form, and checks them against a
// corpus.
package citation

import (
	"encoding/json"

	"github.com/coolbeans/lagref/pkg/types"
)

// Pinpoint is the sub-location a citation points at. It is one of
// ChapterSection, FlatSection or PagePinpoint; a citation without a pinpoint
// carries a nil Pinpoint.
type Pinpoint interface {
	isPinpoint()
}

// ChapterSection pinpoints a section in a chaptered statute ("3 kap. 5 §").
type ChapterSection struct {
	Chapter string
	Section string
}

// FlatSection pinpoints a section in a statute without chapters ("5 §").
type FlatSection struct {
	Section string
}

// PagePinpoint pinpoints a page or case number in a court reporter
// ("NJA 2020 s. 45", "AD 2019 nr 12").
type PagePinpoint struct {
	Marker string
	Page   string
}

func (ChapterSection) isPinpoint() {}
func (FlatSection) isPinpoint()    {}
func (PagePinpoint) isPinpoint()   {}

// ProvisionRef returns the canonical provision key for section pinpoints.
func (p ChapterSection) ProvisionRef() string {
	return types.ProvisionRef(types.Some(p.Chapter), p.Section)
}

// ProvisionRef returns the canonical provision key for section pinpoints.
func (p FlatSection) ProvisionRef() string {
	return p.Section
}

// ParsedCitation is the result of parsing a citation string. It is never
// persisted. When Valid is false, Error explains why and only Raw is set.
type ParsedCitation struct {
	Raw        string
	Type       types.DocumentType
	DocumentID string
	Pinpoint   Pinpoint
	Valid      bool
	Error      string
}

// Chapter returns the chapter of a chaptered statute pinpoint.
func (c ParsedCitation) Chapter() types.Option[string] {
	if p, ok := c.Pinpoint.(ChapterSection); ok {
		return types.Some(p.Chapter)
	}
	return types.None[string]()
}

// Section returns the section of a statute pinpoint, chaptered or flat.
func (c ParsedCitation) Section() types.Option[string] {
	switch p := c.Pinpoint.(type) {
	case ChapterSection:
		return types.Some(p.Section)
	case FlatSection:
		return types.Some(p.Section)
	}
	return types.None[string]()
}

// Page returns the page or case number of a case-law pinpoint.
func (c ParsedCitation) Page() types.Option[string] {
	if p, ok := c.Pinpoint.(PagePinpoint); ok {
		return types.Some(p.Page)
	}
	return types.None[string]()
}

// ProvisionRef returns the provision key the citation points at, if it
// points at a statute section.
func (c ParsedCitation) ProvisionRef() types.Option[string] {
	switch p := c.Pinpoint.(type) {
	case ChapterSection:
		return types.Some(p.ProvisionRef())
	case FlatSection:
		return types.Some(p.ProvisionRef())
	}
	return types.None[string]()
}

type parsedCitationJSON struct {
	Raw        string               `json:"raw"`
	Type       types.DocumentType   `json:"type,omitempty"`
	DocumentID string               `json:"document_id,omitempty"`
	Chapter    types.Option[string] `json:"chapter"`
	Section    types.Option[string] `json:"section"`
	Page       types.Option[string] `json:"page"`
	Valid      bool                 `json:"valid"`
	Error      string               `json:"error,omitempty"`
}

// MarshalJSON flattens the pinpoint into chapter/section/page fields.
func (c ParsedCitation) MarshalJSON() ([]byte, error) {
	return json.Marshal(parsedCitationJSON{
		Raw:        c.Raw,
		Type:       c.Type,
		DocumentID: c.DocumentID,
		Chapter:    c.Chapter(),
		Section:    c.Section(),
		Page:       c.Page(),
		Valid:      c.Valid,
		Error:      c.Error,
	})
}
