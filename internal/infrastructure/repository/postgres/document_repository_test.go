package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/preetatdate/docpipeline/internal/core/domain"
)

func TestDocumentRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:          "doc-1",
		CaseID:      "case-9",
		Filename:    "releve.pdf",
		StoragePath: "doc-1.pdf",
		PageCount:   4,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WithArgs(doc.ID, doc.CaseID, doc.Filename, doc.StoragePath, doc.PageCount,
			string(doc.Status), doc.CreatedAt, doc.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewDocumentRepository(db)
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDocumentRepositoryGetByIDWithClassification(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "case_id", "filename", "storage_path", "page_count", "status",
		"error_message", "document_type", "confidence",
		"title", "doc_date", "summary", "ademe_number", "diagnostics_covered",
		"created_at", "updated_at",
	}).AddRow(
		"doc-1", "case-9", "dpe.pdf", "doc-1.pdf", 12, "classified",
		"", "dpe", 0.93,
		"Diagnostic de performance énergétique", "2024-03-01", "DPE du lot 12", "2375E1234567X",
		[]byte(`["dpe"]`),
		now, now,
	)

	mock.ExpectQuery(regexp.QuoteMeta("FROM documents WHERE id = $1")).
		WithArgs("doc-1").
		WillReturnRows(rows)

	repo := NewDocumentRepository(db)
	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.Status != domain.StatusClassified {
		t.Fatalf("status = %q", doc.Status)
	}
	if doc.Classification == nil {
		t.Fatal("expected classification to be populated")
	}
	if doc.Classification.Type != domain.TypeDPE {
		t.Fatalf("type = %q", doc.Classification.Type)
	}
	if len(doc.Classification.DiagnosticsCovered) != 1 || doc.Classification.DiagnosticsCovered[0] != domain.TypeDPE {
		t.Fatalf("diagnostics covered = %v", doc.Classification.DiagnosticsCovered)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDocumentRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM documents WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewDocumentRepository(db)
	_, err = repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found kind, got %v", err)
	}
}

func TestDocumentRepositoryUpdateStatusNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE documents SET status")).
		WithArgs("missing", "failed", "boom", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewDocumentRepository(db)
	err = repo.UpdateStatus(context.Background(), "missing", domain.StatusFailed, "boom")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found kind, got %v", err)
	}
}

func TestDocumentRepositorySaveClassification(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	result := domain.ClassificationResult{
		Type:       domain.TypeReleveCharges,
		Confidence: 0.88,
		Title:      "Relevé individuel de charges",
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE documents SET")).
		WithArgs("doc-1", "releve_charges", 0.88, "Relevé individuel de charges", "",
			"", "", []byte(`[]`), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewDocumentRepository(db)
	if err := repo.SaveClassification(context.Background(), "doc-1", result); err != nil {
		t.Fatalf("save classification: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDocumentRepositoryCreatePropagatesError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WillReturnError(errors.New("connection reset"))

	repo := NewDocumentRepository(db)
	doc := &domain.Document{ID: "doc-1", Filename: "a.pdf", StoragePath: "a", Status: domain.StatusUploaded}
	if err := repo.Create(context.Background(), doc); err == nil {
		t.Fatal("expected error")
	}
}
