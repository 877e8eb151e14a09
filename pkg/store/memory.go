package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/coolbeans/lagref/pkg/types"
)

// MemoryStore is an in-memory Store. It is safe for concurrent use.
type MemoryStore struct {
	mu sync.RWMutex

	documents map[string]types.LegalDocument

	// Current snapshot: document -> ordered provisions, plus an index by ref.
	provisions     map[string][]types.Provision
	provisionIndex map[string]map[string]int

	// History keyed by "document#ref".
	versions      map[string][]types.ProvisionVersion
	nextVersionID int64

	crossRefs map[string][]types.CrossReference
	euRefs    map[string][]EUReferenceRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents:      make(map[string]types.LegalDocument),
		provisions:     make(map[string][]types.Provision),
		provisionIndex: make(map[string]map[string]int),
		versions:       make(map[string][]types.ProvisionVersion),
		crossRefs:      make(map[string][]types.CrossReference),
		euRefs:         make(map[string][]EUReferenceRecord),
	}
}

func versionKey(documentID, provisionRef string) string {
	return documentID + "#" + provisionRef
}

// DocumentExists reports whether a document with the id is stored.
func (s *MemoryStore) DocumentExists(_ context.Context, documentID string) (bool, error) {
	if documentID == "" {
		return false, types.ErrMissingArgument
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.documents[documentID]
	return ok, nil
}

// ProvisionExists reports whether the current snapshot holds the provision.
func (s *MemoryStore) ProvisionExists(_ context.Context, documentID, provisionRef string) (bool, error) {
	if documentID == "" || provisionRef == "" {
		return false, types.ErrMissingArgument
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.provisionIndex[documentID][provisionRef]
	return ok, nil
}

// DocumentStatus returns the stored status of a document.
func (s *MemoryStore) DocumentStatus(ctx context.Context, documentID string) (types.DocumentStatus, error) {
	doc, err := s.Document(ctx, documentID)
	if err != nil {
		return "", err
	}
	return doc.Status, nil
}

// DocumentTitle returns the stored title of a document.
func (s *MemoryStore) DocumentTitle(ctx context.Context, documentID string) (string, error) {
	doc, err := s.Document(ctx, documentID)
	if err != nil {
		return "", err
	}
	return doc.Title, nil
}

// Document returns a stored document or ErrNotFound.
func (s *MemoryStore) Document(_ context.Context, documentID string) (types.LegalDocument, error) {
	if documentID == "" {
		return types.LegalDocument{}, types.ErrMissingArgument
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[documentID]
	if !ok {
		return types.LegalDocument{}, fmt.Errorf("document %s: %w", documentID, ErrNotFound)
	}
	return doc, nil
}

// Provisions returns the current snapshot of a document in text order.
func (s *MemoryStore) Provisions(_ context.Context, documentID string) ([]types.Provision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Provision, len(s.provisions[documentID]))
	copy(out, s.provisions[documentID])
	return out, nil
}

// CurrentProvision returns the provision from the current snapshot.
func (s *MemoryStore) CurrentProvision(_ context.Context, documentID, provisionRef string) (types.Option[types.Provision], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.provisionIndex[documentID][provisionRef]
	if !ok {
		return types.None[types.Provision](), nil
	}
	return types.Some(s.provisions[documentID][i]), nil
}

// ProvisionVersions returns the full history of a provision in insertion order.
func (s *MemoryStore) ProvisionVersions(_ context.Context, documentID, provisionRef string) ([]types.ProvisionVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.versions[versionKey(documentID, provisionRef)]
	out := make([]types.ProvisionVersion, len(history))
	copy(out, history)
	return out, nil
}

// CrossReferences returns references recorded from a source document.
func (s *MemoryStore) CrossReferences(_ context.Context, sourceDocumentID string) ([]types.CrossReference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.CrossReference, len(s.crossRefs[sourceDocumentID]))
	copy(out, s.crossRefs[sourceDocumentID])
	return out, nil
}

// EUReferences returns EU references recorded from a source document.
func (s *MemoryStore) EUReferences(_ context.Context, sourceDocumentID string) ([]EUReferenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]EUReferenceRecord, len(s.euRefs[sourceDocumentID]))
	copy(out, s.euRefs[sourceDocumentID])
	return out, nil
}

// UpsertDocument inserts or replaces document metadata.
func (s *MemoryStore) UpsertDocument(_ context.Context, doc types.LegalDocument) error {
	if doc.ID == "" {
		return fmt.Errorf("upsert document: %w", types.ErrMissingArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = doc
	return nil
}

// ReplaceProvisions swaps the current snapshot of a document.
func (s *MemoryStore) ReplaceProvisions(_ context.Context, documentID string, provisions []types.Provision) error {
	if documentID == "" {
		return fmt.Errorf("replace provisions: %w", types.ErrMissingArgument)
	}

	snapshot := make([]types.Provision, 0, len(provisions))
	index := make(map[string]int, len(provisions))
	for _, p := range provisions {
		p.DocumentID = documentID
		if _, dup := index[p.ProvisionRef]; dup {
			return fmt.Errorf("replace provisions %s: duplicate provision %s", documentID, p.ProvisionRef)
		}
		index[p.ProvisionRef] = len(snapshot)
		snapshot = append(snapshot, p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.provisions[documentID] = snapshot
	s.provisionIndex[documentID] = index
	return nil
}

// AppendProvisionVersion adds a version to a provision's history.
func (s *MemoryStore) AppendProvisionVersion(_ context.Context, v types.ProvisionVersion) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := versionKey(v.DocumentID, v.ProvisionRef)
	history := s.versions[key]
	open, err := checkAppend(history, v)
	if err != nil {
		return 0, fmt.Errorf("append version %s: %w", key, err)
	}
	if open >= 0 {
		history[open].Validity.To = v.Validity.From
	}

	s.nextVersionID++
	v.ID = s.nextVersionID
	s.versions[key] = append(history, v)
	return v.ID, nil
}

// CloseProvisionVersion ends the open version of a provision.
func (s *MemoryStore) CloseProvisionVersion(_ context.Context, documentID, provisionRef string, at types.Date) error {
	if documentID == "" || provisionRef == "" {
		return types.ErrMissingArgument
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := versionKey(documentID, provisionRef)
	open, err := checkClose(s.versions[key], at)
	if err != nil {
		return fmt.Errorf("close version %s: %w", key, err)
	}
	if open >= 0 {
		s.versions[key][open].Validity.To = types.Some(at)
	}
	return nil
}

// AddCrossReferences records cross references.
func (s *MemoryStore) AddCrossReferences(_ context.Context, refs []types.CrossReference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range refs {
		if r.SourceDocumentID == "" || r.TargetDocumentID == "" {
			return fmt.Errorf("add cross reference: %w", types.ErrMissingArgument)
		}
	}
	for _, r := range refs {
		s.crossRefs[r.SourceDocumentID] = append(s.crossRefs[r.SourceDocumentID], r)
	}
	return nil
}

// AddEUReferences records EU references.
func (s *MemoryStore) AddEUReferences(_ context.Context, records []EUReferenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if r.SourceDocumentID == "" {
			return fmt.Errorf("add EU reference: %w", types.ErrMissingArgument)
		}
	}
	for _, r := range records {
		s.euRefs[r.SourceDocumentID] = append(s.euRefs[r.SourceDocumentID], r)
	}
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
