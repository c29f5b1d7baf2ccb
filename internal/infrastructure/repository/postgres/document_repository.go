package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/preetatdate/docpipeline/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	case_id TEXT,
	filename TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	page_count INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	error_message TEXT,
	document_type TEXT,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	title TEXT,
	doc_date TEXT,
	summary TEXT,
	ademe_number TEXT,
	diagnostics_covered JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_case_id ON documents(case_id);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);

CREATE TABLE IF NOT EXISTS model_calls (
	id TEXT PRIMARY KEY,
	case_id TEXT,
	model_id TEXT NOT NULL,
	tag TEXT NOT NULL,
	latency_ms BIGINT NOT NULL,
	status TEXT NOT NULL,
	preview TEXT,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_model_calls_case_id ON model_calls(case_id);
CREATE INDEX IF NOT EXISTS idx_model_calls_created_at ON model_calls(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (id, case_id, filename, storage_path, page_count, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		doc.ID, doc.CaseID, doc.Filename, doc.StoragePath, doc.PageCount,
		string(doc.Status), doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, case_id, filename, storage_path, page_count, status,
	COALESCE(error_message, ''),
	COALESCE(document_type, ''), confidence,
	COALESCE(title, ''), COALESCE(doc_date, ''), COALESCE(summary, ''),
	COALESCE(ademe_number, ''), diagnostics_covered,
	created_at, updated_at
FROM documents WHERE id = $1`, id)

	var (
		doc            domain.Document
		status         string
		docType        string
		confidence     float64
		title          string
		docDate        string
		summary        string
		ademe          string
		diagnosticsRaw []byte
	)
	err := row.Scan(
		&doc.ID, &doc.CaseID, &doc.Filename, &doc.StoragePath, &doc.PageCount, &status,
		&doc.Error,
		&docType, &confidence,
		&title, &docDate, &summary,
		&ademe, &diagnosticsRaw,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.WrapError(domain.ErrNotFound, "get document", err)
	}
	if err != nil {
		return nil, fmt.Errorf("scan document: %w", err)
	}
	doc.Status = domain.DocumentStatus(status)

	if docType != "" {
		var covered []domain.DocumentType
		if err := json.Unmarshal(diagnosticsRaw, &covered); err != nil {
			return nil, fmt.Errorf("decode diagnostics list: %w", err)
		}
		doc.Classification = &domain.ClassificationResult{
			Type:               domain.DocumentType(docType),
			Confidence:         confidence,
			Title:              title,
			Date:               docDate,
			Summary:            summary,
			AdemeNumber:        ademe,
			DiagnosticsCovered: covered,
		}
	}
	return &doc, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE documents SET status = $2, error_message = $3, updated_at = $4 WHERE id = $1`,
		id, string(status), errMessage, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, "update document status", sql.ErrNoRows)
	}
	return nil
}

func (r *DocumentRepository) SaveClassification(ctx context.Context, id string, result domain.ClassificationResult) error {
	covered := result.DiagnosticsCovered
	if covered == nil {
		covered = []domain.DocumentType{}
	}
	coveredJSON, err := json.Marshal(covered)
	if err != nil {
		return fmt.Errorf("marshal diagnostics list: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE documents SET
	document_type = $2, confidence = $3, title = $4, doc_date = $5,
	summary = $6, ademe_number = $7, diagnostics_covered = $8, updated_at = $9
WHERE id = $1`,
		id, string(result.Type), result.Confidence, result.Title, result.Date,
		result.Summary, result.AdemeNumber, coveredJSON, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save classification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, "save classification", sql.ErrNoRows)
	}
	return nil
}
