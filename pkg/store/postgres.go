package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"go.uber.org/zap"

	"github.com/coolbeans/lagref/pkg/logging"
	"github.com/coolbeans/lagref/pkg/types"
)

// PostgresConfig configures the connection pool behind a PostgresStore.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
	QueryDebug      bool
}

// PostgresStore is a Store backed by PostgreSQL through bun over a pgx pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	db     *bun.DB
	logger *zap.Logger
}

// OpenPostgres connects to PostgreSQL and verifies the connection.
func OpenPostgres(ctx context.Context, cfg PostgresConfig, logger *zap.Logger) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database dsn: %w", types.ErrMissingArgument)
	}
	logger = logging.Component(logger, "store")

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := bun.NewDB(stdlib.OpenDBFromPool(pool), pgdialect.New())
	if cfg.QueryDebug {
		db.AddQueryHook(&queryLoggingHook{logger: logger})
	}

	logger.Info("database pool created",
		zap.String("host", poolConfig.ConnConfig.Host),
		zap.String("database", poolConfig.ConnConfig.Database),
		zap.Int32("max_conns", poolConfig.MaxConns),
	)

	return &PostgresStore{pool: pool, db: db, logger: logger}, nil
}

// DB exposes the bun handle for migrations.
func (s *PostgresStore) DB() *bun.DB {
	return s.db
}

// Close releases the bun handle and the pool.
func (s *PostgresStore) Close() error {
	err := s.db.Close()
	s.pool.Close()
	return err
}

// DocumentExists reports whether a document with the id is stored.
func (s *PostgresStore) DocumentExists(ctx context.Context, documentID string) (bool, error) {
	if documentID == "" {
		return false, types.ErrMissingArgument
	}
	exists, err := s.db.NewSelect().
		Model((*documentRow)(nil)).
		Where("id = ?", documentID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("document exists %s: %w", documentID, err)
	}
	return exists, nil
}

// ProvisionExists reports whether the current snapshot holds the provision.
func (s *PostgresStore) ProvisionExists(ctx context.Context, documentID, provisionRef string) (bool, error) {
	if documentID == "" || provisionRef == "" {
		return false, types.ErrMissingArgument
	}
	exists, err := s.db.NewSelect().
		Model((*provisionRow)(nil)).
		Where("document_id = ?", documentID).
		Where("provision_ref = ?", provisionRef).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("provision exists %s %s: %w", documentID, provisionRef, err)
	}
	return exists, nil
}

// DocumentStatus returns the stored status of a document.
func (s *PostgresStore) DocumentStatus(ctx context.Context, documentID string) (types.DocumentStatus, error) {
	doc, err := s.Document(ctx, documentID)
	if err != nil {
		return "", err
	}
	return doc.Status, nil
}

// DocumentTitle returns the stored title of a document.
func (s *PostgresStore) DocumentTitle(ctx context.Context, documentID string) (string, error) {
	doc, err := s.Document(ctx, documentID)
	if err != nil {
		return "", err
	}
	return doc.Title, nil
}

// Document returns a stored document or ErrNotFound.
func (s *PostgresStore) Document(ctx context.Context, documentID string) (types.LegalDocument, error) {
	if documentID == "" {
		return types.LegalDocument{}, types.ErrMissingArgument
	}
	var row documentRow
	err := s.db.NewSelect().
		Model(&row).
		Where("d.id = ?", documentID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return types.LegalDocument{}, fmt.Errorf("document %s: %w", documentID, ErrNotFound)
	}
	if err != nil {
		return types.LegalDocument{}, fmt.Errorf("get document %s: %w", documentID, err)
	}
	return row.toDocument(), nil
}

// Provisions returns the current snapshot of a document in text order.
func (s *PostgresStore) Provisions(ctx context.Context, documentID string) ([]types.Provision, error) {
	var rows []provisionRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("p.document_id = ?", documentID).
		Order("p.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list provisions %s: %w", documentID, err)
	}
	out := make([]types.Provision, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toProvision())
	}
	return out, nil
}

// CurrentProvision returns the provision from the current snapshot.
func (s *PostgresStore) CurrentProvision(ctx context.Context, documentID, provisionRef string) (types.Option[types.Provision], error) {
	var row provisionRow
	err := s.db.NewSelect().
		Model(&row).
		Where("p.document_id = ?", documentID).
		Where("p.provision_ref = ?", provisionRef).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return types.None[types.Provision](), nil
	}
	if err != nil {
		return types.None[types.Provision](), fmt.Errorf("get provision %s %s: %w", documentID, provisionRef, err)
	}
	return types.Some(row.toProvision()), nil
}

// ProvisionVersions returns the full history of a provision in id order.
func (s *PostgresStore) ProvisionVersions(ctx context.Context, documentID, provisionRef string) ([]types.ProvisionVersion, error) {
	var rows []provisionVersionRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("pv.document_id = ?", documentID).
		Where("pv.provision_ref = ?", provisionRef).
		Order("pv.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list versions %s %s: %w", documentID, provisionRef, err)
	}
	out := make([]types.ProvisionVersion, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toVersion())
	}
	return out, nil
}

// CrossReferences returns references recorded from a source document.
func (s *PostgresStore) CrossReferences(ctx context.Context, sourceDocumentID string) ([]types.CrossReference, error) {
	var rows []crossReferenceRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("cr.source_document_id = ?", sourceDocumentID).
		Order("cr.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cross references %s: %w", sourceDocumentID, err)
	}
	out := make([]types.CrossReference, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toCrossReference())
	}
	return out, nil
}

// EUReferences returns EU references recorded from a source document.
func (s *PostgresStore) EUReferences(ctx context.Context, sourceDocumentID string) ([]EUReferenceRecord, error) {
	var rows []euReferenceRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("eu.source_document_id = ?", sourceDocumentID).
		Order("eu.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list EU references %s: %w", sourceDocumentID, err)
	}
	out := make([]EUReferenceRecord, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toRecord())
	}
	return out, nil
}

// UpsertDocument inserts or replaces document metadata.
func (s *PostgresStore) UpsertDocument(ctx context.Context, doc types.LegalDocument) error {
	if doc.ID == "" {
		return fmt.Errorf("upsert document: %w", types.ErrMissingArgument)
	}
	_, err := s.db.NewInsert().
		Model(newDocumentRow(doc)).
		On("CONFLICT (id) DO UPDATE").
		Set("type = EXCLUDED.type").
		Set("title = EXCLUDED.title").
		Set("short_name = EXCLUDED.short_name").
		Set("status = EXCLUDED.status").
		Set("issued_date = EXCLUDED.issued_date").
		Set("in_force_date = EXCLUDED.in_force_date").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", doc.ID, err)
	}
	return nil
}

// ReplaceProvisions swaps the current snapshot of a document in one
// transaction.
func (s *PostgresStore) ReplaceProvisions(ctx context.Context, documentID string, provisions []types.Provision) error {
	if documentID == "" {
		return fmt.Errorf("replace provisions: %w", types.ErrMissingArgument)
	}
	rows := make([]provisionRow, 0, len(provisions))
	for i, p := range provisions {
		rows = append(rows, newProvisionRow(documentID, i, p))
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*provisionRow)(nil)).
			Where("document_id = ?", documentID).
			Exec(ctx); err != nil {
			return fmt.Errorf("clear provisions %s: %w", documentID, err)
		}
		if len(rows) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert provisions %s: %w", documentID, err)
		}
		return nil
	})
}

// AppendProvisionVersion adds a version to a provision's history, closing the
// open version in the same transaction.
func (s *PostgresStore) AppendProvisionVersion(ctx context.Context, v types.ProvisionVersion) (int64, error) {
	row := newProvisionVersionRow(v)

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var existing []provisionVersionRow
		if err := tx.NewSelect().
			Model(&existing).
			Where("pv.document_id = ?", v.DocumentID).
			Where("pv.provision_ref = ?", v.ProvisionRef).
			Order("pv.id ASC").
			For("UPDATE").
			Scan(ctx); err != nil {
			return fmt.Errorf("load versions: %w", err)
		}

		history := make([]types.ProvisionVersion, 0, len(existing))
		for i := range existing {
			history = append(history, existing[i].toVersion())
		}
		open, err := checkAppend(history, v)
		if err != nil {
			return err
		}
		if open >= 0 {
			if _, err := tx.NewUpdate().
				Model((*provisionVersionRow)(nil)).
				Set("valid_to = ?", row.ValidFrom).
				Where("id = ?", existing[open].ID).
				Exec(ctx); err != nil {
				return fmt.Errorf("close version %d: %w", existing[open].ID, err)
			}
		}

		if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("append version %s: %w", versionKey(v.DocumentID, v.ProvisionRef), err)
	}
	return row.ID, nil
}

// CloseProvisionVersion ends the open version of a provision.
func (s *PostgresStore) CloseProvisionVersion(ctx context.Context, documentID, provisionRef string, at types.Date) error {
	if documentID == "" || provisionRef == "" {
		return types.ErrMissingArgument
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var existing []provisionVersionRow
		if err := tx.NewSelect().
			Model(&existing).
			Where("pv.document_id = ?", documentID).
			Where("pv.provision_ref = ?", provisionRef).
			Where("pv.valid_to IS NULL").
			For("UPDATE").
			Scan(ctx); err != nil {
			return fmt.Errorf("load open version: %w", err)
		}

		history := make([]types.ProvisionVersion, 0, len(existing))
		for i := range existing {
			history = append(history, existing[i].toVersion())
		}
		open, err := checkClose(history, at)
		if err != nil || open < 0 {
			return err
		}

		if _, err := tx.NewUpdate().
			Model((*provisionVersionRow)(nil)).
			Set("valid_to = ?", at.ToTime()).
			Where("id = ?", existing[open].ID).
			Exec(ctx); err != nil {
			return fmt.Errorf("close version %d: %w", existing[open].ID, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("close version %s: %w", versionKey(documentID, provisionRef), err)
	}
	return nil
}

// AddCrossReferences records cross references.
func (s *PostgresStore) AddCrossReferences(ctx context.Context, refs []types.CrossReference) error {
	if len(refs) == 0 {
		return nil
	}
	rows := make([]crossReferenceRow, 0, len(refs))
	for _, r := range refs {
		if r.SourceDocumentID == "" || r.TargetDocumentID == "" {
			return fmt.Errorf("add cross reference: %w", types.ErrMissingArgument)
		}
		rows = append(rows, newCrossReferenceRow(r))
	}
	if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("insert cross references: %w", err)
	}
	return nil
}

// AddEUReferences records EU references.
func (s *PostgresStore) AddEUReferences(ctx context.Context, records []EUReferenceRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]euReferenceRow, 0, len(records))
	for _, r := range records {
		if r.SourceDocumentID == "" {
			return fmt.Errorf("add EU reference: %w", types.ErrMissingArgument)
		}
		rows = append(rows, newEUReferenceRow(r))
	}
	if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("insert EU references: %w", err)
	}
	return nil
}

// queryLoggingHook implements bun.QueryHook for query logging.
type queryLoggingHook struct {
	logger *zap.Logger
}

func (h *queryLoggingHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryLoggingHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)

	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		h.logger.Error("query error",
			zap.String("query", event.Query),
			zap.Duration("duration", duration),
			zap.Error(event.Err),
		)
		return
	}

	if duration > 3*time.Second {
		h.logger.Warn("slow query",
			zap.String("query", event.Query),
			zap.Duration("duration", duration),
		)
		return
	}

	h.logger.Debug("query",
		zap.String("query", event.Query),
		zap.Duration("duration", duration),
	)
}

var _ Store = (*PostgresStore)(nil)
