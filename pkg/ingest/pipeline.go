// Package ingest turns raw document text into stored provisions, provision
// history and extracted references.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coolbeans/lagref/pkg/extract"
	"github.com/coolbeans/lagref/pkg/logging"
	"github.com/coolbeans/lagref/pkg/store"
	"github.com/coolbeans/lagref/pkg/types"
)

// Target is the store surface ingestion reads and writes.
type Target interface {
	store.Reader
	store.Writer
}

// SourceDocument is one document as delivered by an ingestion source.
type SourceDocument struct {
	Document types.LegalDocument
	Text     string
	// AsOf dates the text. When set, provisions whose text changed get a new
	// version starting on AsOf and provisions missing from the text are
	// closed on AsOf.
	AsOf types.Option[types.Date]
}

// Result counts what one document produced.
type Result struct {
	DocumentID      string `json:"document_id" yaml:"document_id"`
	Provisions      int    `json:"provisions" yaml:"provisions"`
	NewVersions     int    `json:"new_versions" yaml:"new_versions"`
	ClosedVersions  int    `json:"closed_versions" yaml:"closed_versions"`
	CrossReferences int    `json:"cross_references" yaml:"cross_references"`
	EUReferences    int    `json:"eu_references" yaml:"eu_references"`
}

// Failure records a document the batch skipped.
type Failure struct {
	DocumentID string `json:"document_id" yaml:"document_id"`
	Error      string `json:"error" yaml:"error"`
}

// BatchSummary reports a batch run.
type BatchSummary struct {
	RunID    string        `json:"run_id" yaml:"run_id"`
	Results  []Result      `json:"results" yaml:"results"`
	Failures []Failure     `json:"failures" yaml:"failures"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Pipeline segments, extracts and stores documents.
type Pipeline struct {
	target       Target
	segmenter    *extract.Segmenter
	euRefs       *extract.EUReferenceExtractor
	logger       *zap.Logger
	workers      int
	invalidators []Invalidator
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers sets how many documents IngestBatch processes at once.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logging.Component(logger, "ingest")
	}
}

// Invalidator drops cached lookups for a document.
type Invalidator interface {
	Invalidate(documentID string)
}

// WithInvalidator registers a cache that must forget a document once the
// pipeline has written it.
func WithInvalidator(inv Invalidator) Option {
	return func(p *Pipeline) {
		p.invalidators = append(p.invalidators, inv)
	}
}

// NewPipeline creates a pipeline writing to target.
func NewPipeline(target Target, opts ...Option) *Pipeline {
	p := &Pipeline{
		target:    target,
		segmenter: extract.NewSegmenter(),
		euRefs:    extract.NewEUReferenceExtractor(),
		logger:    zap.NewNop(),
		workers:   4,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest stores one document. Statutes are segmented into provisions;
// other document types are scanned as a whole for references.
func (p *Pipeline) Ingest(ctx context.Context, src SourceDocument) (*Result, error) {
	doc := src.Document
	if doc.ID == "" {
		return nil, fmt.Errorf("ingest: document id: %w", types.ErrMissingArgument)
	}
	if !doc.Type.Valid() {
		return nil, fmt.Errorf("ingest %s: unknown document type %q", doc.ID, doc.Type)
	}
	if doc.Status == "" {
		doc.Status = types.StatusInForce
	}
	if !doc.Status.Valid() {
		return nil, fmt.Errorf("ingest %s: unknown document status %q", doc.ID, doc.Status)
	}

	logger := p.logger.With(zap.String("document_id", doc.ID))
	result := &Result{DocumentID: doc.ID}

	if err := p.target.UpsertDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("ingest %s: %w", doc.ID, err)
	}
	defer p.invalidate(doc.ID)

	var (
		crossRefs []types.CrossReference
		euRecords []store.EUReferenceRecord
	)

	if doc.Type == types.DocumentTypeStatute {
		provisions := p.segmenter.Segment(src.Text)
		for i := range provisions {
			provisions[i].DocumentID = doc.ID
		}

		newVersions, closed, err := p.recordHistory(ctx, logger, src, provisions)
		if err != nil {
			return nil, fmt.Errorf("ingest %s: %w", doc.ID, err)
		}
		result.NewVersions = newVersions
		result.ClosedVersions = closed

		if err := p.target.ReplaceProvisions(ctx, doc.ID, provisions); err != nil {
			return nil, fmt.Errorf("ingest %s: %w", doc.ID, err)
		}
		result.Provisions = len(provisions)

		for _, prov := range provisions {
			ref := types.Some(prov.ProvisionRef)
			crossRefs = append(crossRefs, extract.ToCrossReferences(doc.ID, ref, extract.ExtractCrossReferences(prov.Content))...)
			for _, eu := range p.euRefs.Extract(prov.Content) {
				euRecords = append(euRecords, store.EUReferenceRecord{SourceDocumentID: doc.ID, SourceProvisionRef: ref, Reference: eu})
			}
		}
	} else {
		none := types.None[string]()
		crossRefs = extract.ToCrossReferences(doc.ID, none, extract.ExtractCrossReferences(src.Text))
		for _, eu := range p.euRefs.Extract(src.Text) {
			euRecords = append(euRecords, store.EUReferenceRecord{SourceDocumentID: doc.ID, SourceProvisionRef: none, Reference: eu})
		}
	}

	if err := p.target.AddCrossReferences(ctx, crossRefs); err != nil {
		return nil, fmt.Errorf("ingest %s: %w", doc.ID, err)
	}
	if err := p.target.AddEUReferences(ctx, euRecords); err != nil {
		return nil, fmt.Errorf("ingest %s: %w", doc.ID, err)
	}
	result.CrossReferences = len(crossRefs)
	result.EUReferences = len(euRecords)

	logger.Info("document ingested",
		zap.Int("provisions", result.Provisions),
		zap.Int("new_versions", result.NewVersions),
		zap.Int("closed_versions", result.ClosedVersions),
		zap.Int("cross_references", result.CrossReferences),
		zap.Int("eu_references", result.EUReferences),
	)
	return result, nil
}

func (p *Pipeline) invalidate(documentID string) {
	for _, inv := range p.invalidators {
		inv.Invalidate(documentID)
	}
}

// recordHistory appends versions for new or changed provisions and closes
// provisions that disappeared from the text.
func (p *Pipeline) recordHistory(ctx context.Context, logger *zap.Logger, src SourceDocument, provisions []types.Provision) (int, int, error) {
	doc := src.Document
	start := src.AsOf
	if start.IsNone() {
		start = doc.InForceDate
	}

	appended := 0
	seen := make(map[string]bool, len(provisions))
	for _, prov := range provisions {
		seen[prov.ProvisionRef] = true

		history, err := p.target.ProvisionVersions(ctx, doc.ID, prov.ProvisionRef)
		if err != nil {
			return 0, 0, err
		}

		var open *types.ProvisionVersion
		for i := range history {
			if history[i].Validity.IsCurrent() {
				open = &history[i]
			}
		}
		if open != nil && open.Content == prov.Content {
			continue
		}
		if len(history) > 0 && src.AsOf.IsNone() {
			logger.Warn("provision text changed without an as-of date; history left unchanged",
				zap.String("provision_ref", prov.ProvisionRef))
			continue
		}

		_, err = p.target.AppendProvisionVersion(ctx, types.ProvisionVersion{
			DocumentID:   doc.ID,
			ProvisionRef: prov.ProvisionRef,
			Title:        prov.Title,
			Content:      prov.Content,
			Validity:     types.ValidityInterval{From: start},
		})
		if errors.Is(err, store.ErrOverlappingVersion) {
			logger.Warn("skipping version that overlaps existing history",
				zap.String("provision_ref", prov.ProvisionRef), zap.Error(err))
			continue
		}
		if err != nil {
			return 0, 0, err
		}
		appended++
	}

	closed := 0
	asOf, ok := src.AsOf.Get()
	if !ok {
		return appended, closed, nil
	}
	previous, err := p.target.Provisions(ctx, doc.ID)
	if err != nil {
		return 0, 0, err
	}
	for _, prev := range previous {
		if seen[prev.ProvisionRef] {
			continue
		}
		if err := p.target.CloseProvisionVersion(ctx, doc.ID, prev.ProvisionRef, asOf); err != nil {
			if errors.Is(err, store.ErrOverlappingVersion) {
				logger.Warn("cannot close provision before its current version starts",
					zap.String("provision_ref", prev.ProvisionRef), zap.Error(err))
				continue
			}
			return 0, 0, err
		}
		closed++
	}
	return appended, closed, nil
}

// IngestBatch ingests documents in parallel. A document that fails is logged
// and recorded in the summary; the batch only fails when ctx is cancelled.
func (p *Pipeline) IngestBatch(ctx context.Context, docs []SourceDocument) (*BatchSummary, error) {
	started := time.Now()
	summary := &BatchSummary{
		RunID:    uuid.NewString(),
		Results:  []Result{},
		Failures: []Failure{},
	}
	logger := p.logger.With(zap.String("run_id", summary.RunID))
	logger.Info("batch started", zap.Int("documents", len(docs)), zap.Int("workers", p.workers))

	results := make([]*Result, len(docs))
	failures := make([]*Failure, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, src := range docs {
		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.Ingest(gctx, src)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Error("document failed", zap.String("document_id", src.Document.ID), zap.Error(err))
				failures[i] = &Failure{DocumentID: src.Document.ID, Error: err.Error()}
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ingest batch %s: %w", summary.RunID, err)
	}

	for i := range docs {
		if results[i] != nil {
			summary.Results = append(summary.Results, *results[i])
		}
		if failures[i] != nil {
			summary.Failures = append(summary.Failures, *failures[i])
		}
	}
	summary.Duration = time.Since(started)

	logger.Info("batch finished",
		zap.Int("succeeded", len(summary.Results)),
		zap.Int("failed", len(summary.Failures)),
		zap.Duration("duration", summary.Duration),
	)
	return summary, nil
}
