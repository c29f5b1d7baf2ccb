package ports

import (
	"context"
	"io"

	"github.com/preetatdate/docpipeline/internal/core/domain"
)

// DocumentClassifier maps one PDF to its classification result.
type DocumentClassifier interface {
	Classify(ctx context.Context, content []byte, filename, caseID string) (domain.ClassificationResult, error)
}

// DossierExtractor runs the two-phase extraction over a classified batch.
type DossierExtractor interface {
	Extract(ctx context.Context, docs []domain.UploadedDocument, extCtx domain.ExtractionContext) (domain.MergedRecord, error)
}

// DocumentIngestor is the inbound contract for async document intake.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, caseID string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor classifies a stored document by id (worker side) and
// reports the resulting type.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) (domain.DocumentType, error)
}

// DocumentReader is the inbound read model for intake state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}
