package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/preetatdate/docpipeline/internal/core/domain"
	"github.com/preetatdate/docpipeline/internal/core/ports"
)

// ProcessDocumentUseCase is the worker side of async intake: load the
// stored PDF, classify it, persist the result.
type ProcessDocumentUseCase struct {
	repo       ports.DocumentRepository
	storage    ports.ObjectStorage
	classifier ports.DocumentClassifier
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	classifier ports.DocumentClassifier,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:       repo,
		storage:    storage,
		classifier: classifier,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) (domain.DocumentType, error) {
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return "", fmt.Errorf("set status=processing: %w", err)
	}

	doc, result, err := uc.classifyStored(ctx, documentID)
	if err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return "", fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return "", err
	}

	if err := uc.repo.SaveClassification(ctx, doc.ID, result); err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return "", fmt.Errorf("save classification: %w; mark failed status: %v", err, failErr)
		}
		return "", fmt.Errorf("save classification: %w", err)
	}

	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusClassified, ""); err != nil {
		return "", fmt.Errorf("set status=classified: %w", err)
	}
	return result.Type, nil
}

func (uc *ProcessDocumentUseCase) classifyStored(
	ctx context.Context,
	documentID string,
) (*domain.Document, domain.ClassificationResult, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, domain.ClassificationResult{}, fmt.Errorf("fetch document by id: %w", err)
	}

	reader, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, domain.ClassificationResult{}, fmt.Errorf("open stored document: %w", err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, domain.ClassificationResult{}, fmt.Errorf("read stored document: %w", err)
	}

	result, err := uc.classifier.Classify(ctx, content, doc.Filename, doc.CaseID)
	if err != nil {
		return nil, domain.ClassificationResult{}, fmt.Errorf("classify document: %w", err)
	}
	return doc, result, nil
}
