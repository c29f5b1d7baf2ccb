package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusClassified DocumentStatus = "classified"
	StatusFailed     DocumentStatus = "failed"
)

// Document is a seller-uploaded PDF tracked through the async intake flow:
// stored, queued, classified once by the worker. Classification is
// idempotent; re-running it overwrites the previous result.
type Document struct {
	ID          string         `json:"id"`
	CaseID      string         `json:"case_id,omitempty"`
	Filename    string         `json:"filename"`
	StoragePath string         `json:"storage_path"`
	PageCount   int            `json:"page_count,omitempty"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`

	Classification *ClassificationResult `json:"classification,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UploadedDocument is one source PDF submitted to the extraction operation.
// Type is trusted ground truth once assigned; the router never re-classifies.
// Extraction reads Content but never mutates the document.
type UploadedDocument struct {
	Filename string       `json:"filename"`
	Type     DocumentType `json:"document_type"`
	Content  []byte       `json:"-"`

	// DiagnosticsCovered carries the classification-time coverage list of a
	// bundled technical dossier, when the caller has it.
	DiagnosticsCovered []DocumentType `json:"diagnostics_couverts,omitempty"`
}
