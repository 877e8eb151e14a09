package extract

import (
	"regexp"

	"github.com/coolbeans/lagref/pkg/types"
)

// CrossRefKind distinguishes the two intra-corpus reference shapes.
type CrossRefKind string

const (
	// CrossRefSFS is a parenthesised SFS number, "(2018:218)".
	CrossRefSFS CrossRefKind = "sfs"
	// CrossRefProvision is a chapter/section reference, "3 kap. 5 §".
	CrossRefProvision CrossRefKind = "provision"
)

// CrossRefMatch is one reference found in provision text.
type CrossRefMatch struct {
	Kind         CrossRefKind `json:"kind"`
	DocumentID   string       `json:"document_id,omitempty"`
	ProvisionRef string       `json:"provision_ref,omitempty"`
	RawText      string       `json:"raw_text"`
	TextOffset   int          `json:"text_offset"`
}

var (
	sfsNumberPattern    = regexp.MustCompile(`\((\d{4}:\d+)\)`)
	provisionRefPattern = regexp.MustCompile(`(\d+)\s*kap\.\s*(\d+(?:\s*[a-z])?)\s*§`)
)

// ExtractCrossReferences scans a provision's content for SFS-number and
// chapter/section references. Each distinct value is reported once. All SFS
// references come first in text order, followed by all provision references
// in text order; callers rely on this ordering.
func ExtractCrossReferences(content string) []CrossRefMatch {
	matches := make([]CrossRefMatch, 0)
	seen := make(map[string]bool)

	for _, idx := range sfsNumberPattern.FindAllStringSubmatchIndex(content, -1) {
		documentID := content[idx[2]:idx[3]]
		key := string(CrossRefSFS) + ":" + documentID
		if seen[key] {
			continue
		}
		seen[key] = true
		matches = append(matches, CrossRefMatch{
			Kind:       CrossRefSFS,
			DocumentID: documentID,
			RawText:    content[idx[0]:idx[1]],
			TextOffset: idx[0],
		})
	}

	for _, idx := range provisionRefPattern.FindAllStringSubmatchIndex(content, -1) {
		chapter := content[idx[2]:idx[3]]
		section := types.NormalizeSection(content[idx[4]:idx[5]])
		ref := types.ProvisionRef(types.Some(chapter), section)
		key := string(CrossRefProvision) + ":" + ref
		if seen[key] {
			continue
		}
		seen[key] = true
		matches = append(matches, CrossRefMatch{
			Kind:         CrossRefProvision,
			ProvisionRef: ref,
			RawText:      content[idx[0]:idx[1]],
			TextOffset:   idx[0],
		})
	}

	return matches
}

// ToCrossReferences converts matches from one provision into persisted
// CrossReference edges. SFS matches point at another (or the same) statute
// as a whole; provision matches point into the source document.
func ToCrossReferences(sourceDocumentID string, sourceProvisionRef types.Option[string], matches []CrossRefMatch) []types.CrossReference {
	refs := make([]types.CrossReference, 0, len(matches))
	for _, match := range matches {
		ref := types.CrossReference{
			SourceDocumentID:   sourceDocumentID,
			SourceProvisionRef: sourceProvisionRef,
			RefType:            types.RefTypeReferences,
		}
		switch match.Kind {
		case CrossRefSFS:
			ref.TargetDocumentID = match.DocumentID
			ref.TargetProvisionRef = types.None[string]()
		case CrossRefProvision:
			ref.TargetDocumentID = sourceDocumentID
			ref.TargetProvisionRef = types.Some(match.ProvisionRef)
		default:
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}
