// Package store persists documents, provisions, provision history and
// extracted references, and answers the lookups the validator and resolver
// need.
package store

import (
	"context"
	"errors"

	"github.com/coolbeans/lagref/pkg/types"
)

var (
	// ErrNotFound is returned when a document lookup names an unknown id.
	ErrNotFound = errors.New("not found")

	// ErrOverlappingVersion is returned when an appended version would
	// overlap existing history for the same provision.
	ErrOverlappingVersion = errors.New("overlapping provision version")
)

// EUReferenceRecord is an extracted EU reference together with the
// provision it was found in.
type EUReferenceRecord struct {
	SourceDocumentID   string               `json:"source_document_id"`
	SourceProvisionRef types.Option[string] `json:"source_provision_ref"`
	Reference          types.EUReference    `json:"reference"`
}

// Reader answers corpus lookups.
type Reader interface {
	DocumentExists(ctx context.Context, documentID string) (bool, error)
	ProvisionExists(ctx context.Context, documentID, provisionRef string) (bool, error)
	DocumentStatus(ctx context.Context, documentID string) (types.DocumentStatus, error)
	DocumentTitle(ctx context.Context, documentID string) (string, error)
	Document(ctx context.Context, documentID string) (types.LegalDocument, error)
	Provisions(ctx context.Context, documentID string) ([]types.Provision, error)
	CurrentProvision(ctx context.Context, documentID, provisionRef string) (types.Option[types.Provision], error)
	ProvisionVersions(ctx context.Context, documentID, provisionRef string) ([]types.ProvisionVersion, error)
	CrossReferences(ctx context.Context, sourceDocumentID string) ([]types.CrossReference, error)
	EUReferences(ctx context.Context, sourceDocumentID string) ([]EUReferenceRecord, error)
}

// Writer records ingestion output. Writes are append-only except for the
// current provision snapshot, which is replaced per document.
type Writer interface {
	UpsertDocument(ctx context.Context, doc types.LegalDocument) error
	ReplaceProvisions(ctx context.Context, documentID string, provisions []types.Provision) error
	// AppendProvisionVersion stores v and returns its assigned id. An open
	// version of the same provision is closed at v's ValidFrom.
	AppendProvisionVersion(ctx context.Context, v types.ProvisionVersion) (int64, error)
	// CloseProvisionVersion ends the open version of a provision at the given
	// date. It is a no-op when no version is open.
	CloseProvisionVersion(ctx context.Context, documentID, provisionRef string, at types.Date) error
	AddCrossReferences(ctx context.Context, refs []types.CrossReference) error
	AddEUReferences(ctx context.Context, records []EUReferenceRecord) error
}

// Store is a Reader and Writer that holds resources.
type Store interface {
	Reader
	Writer
	Close() error
}

// checkAppend validates an appended version against existing history and
// returns the index of the open version that must be closed, or -1.
func checkAppend(history []types.ProvisionVersion, v types.ProvisionVersion) (int, error) {
	if v.DocumentID == "" || v.ProvisionRef == "" {
		return -1, types.ErrMissingArgument
	}
	if to, ok := v.Validity.To.Get(); ok {
		if from, ok := v.Validity.From.Get(); ok && !from.Before(to) {
			return -1, ErrOverlappingVersion
		}
	}

	open := -1
	for i, existing := range history {
		if !existing.Validity.Overlaps(v.Validity) {
			continue
		}
		if existing.Validity.IsCurrent() && open < 0 {
			open = i
			continue
		}
		return -1, ErrOverlappingVersion
	}
	if open < 0 {
		return -1, nil
	}

	from, ok := v.Validity.From.Get()
	if !ok {
		return -1, ErrOverlappingVersion
	}
	if openFrom, ok := history[open].Validity.From.Get(); ok && !openFrom.Before(from) {
		return -1, ErrOverlappingVersion
	}
	return open, nil
}

// checkClose returns the index of the open version to end at the given date,
// or -1 when nothing is open.
func checkClose(history []types.ProvisionVersion, at types.Date) (int, error) {
	for i, v := range history {
		if !v.Validity.IsCurrent() {
			continue
		}
		if from, ok := v.Validity.From.Get(); ok && !from.Before(at) {
			return -1, ErrOverlappingVersion
		}
		return i, nil
	}
	return -1, nil
}
