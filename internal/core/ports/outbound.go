package ports

import (
	"context"
	"io"

	"github.com/preetatdate/docpipeline/internal/core/domain"
)

// FileHandle is the opaque reference the model service returns for an
// uploaded binary.
type FileHandle struct {
	URI      string
	Name     string
	MimeType string
}

// PromptPart is one segment of a structured prompt: exactly one of Text,
// Inline or File is set. Within a prompt, a document's descriptive label
// must immediately precede its binary part; the model relies on that order
// to associate labels with content.
type PromptPart struct {
	Text   string
	Inline *InlineData
	File   *FileHandle
}

type InlineData struct {
	MimeType string
	Data     []byte
}

func TextPart(text string) PromptPart       { return PromptPart{Text: text} }
func FilePart(handle FileHandle) PromptPart { return PromptPart{File: &handle} }

func InlinePart(mimeType string, data []byte) PromptPart {
	return PromptPart{Inline: &InlineData{MimeType: mimeType, Data: data}}
}

// InvokeRequest carries one structured-generation call.
type InvokeRequest struct {
	ModelID string
	Parts   []PromptPart

	// Tag names the call purpose and CaseID ties it to a dossier; both are
	// telemetry-only.
	Tag    string
	CaseID string
}

// ModelGateway hides the external model service's transport: a two-step
// resumable binary upload and a structured-content invocation returning the
// model's JSON text.
type ModelGateway interface {
	UploadFile(ctx context.Context, content []byte, displayName string) (FileHandle, error)
	Invoke(ctx context.Context, req InvokeRequest) (string, error)
}

// DocumentRepository persists intake document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveClassification(ctx context.Context, id string, result domain.ClassificationResult) error
}

// ModelCall is one telemetry row for the durable call log.
type ModelCall struct {
	ID        string
	CaseID    string
	ModelID   string
	Tag       string
	LatencyMS int64
	Status    string
	Preview   string
	Error     string
}

// CallLog records model invocations. Writes are best-effort; a failure is
// logged and swallowed, never surfaced to the primary operation.
type CallLog interface {
	Record(ctx context.Context, call ModelCall) error
}

// ObjectStorage stores source PDFs for the async intake flow.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// PDFInfo is what intake pre-validation learns about a file.
type PDFInfo struct {
	PageCount int
}

// PDFInspector rejects non-PDF uploads and reports basic structure.
type PDFInspector interface {
	Inspect(content []byte) (PDFInfo, error)
}

// MessageQueue publishes/consumes classification jobs.
type MessageQueue interface {
	PublishDocumentReceived(ctx context.Context, documentID string) error
	SubscribeDocumentReceived(ctx context.Context, handler func(context.Context, string) error) error
}
