package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/preetatdate/docpipeline/internal/core/domain"
	"github.com/preetatdate/docpipeline/internal/core/ports"
	"github.com/preetatdate/docpipeline/internal/export"
)

// 50 MB covers the largest PV d'AG bundles seen in production dossiers.
const maxUploadBytes = 50 << 20

type Handlers struct {
	classifier ports.DocumentClassifier
	extractor  ports.DossierExtractor
	ingestor   ports.DocumentIngestor
	reader     ports.DocumentReader
	logger     *slog.Logger
}

func NewHandlers(
	classifier ports.DocumentClassifier,
	extractor ports.DossierExtractor,
	ingestor ports.DocumentIngestor,
	reader ports.DocumentReader,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		classifier: classifier,
		extractor:  extractor,
		ingestor:   ingestor,
		reader:     reader,
		logger:     logger,
	}
}

// Classify handles POST /v1/documents/classify: a synchronous single-PDF
// classification over a multipart upload.
func (h *Handlers) Classify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body", err.Error())
		return
	}
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field", err.Error())
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable upload", err.Error())
		return
	}

	result, err := h.classifier.Classify(r.Context(), content, fileHeader.Filename, r.FormValue("case_id"))
	if err != nil {
		h.logger.Error("classification failed",
			"request_id", requestIDFrom(r.Context()),
			"filename", fileHeader.Filename,
			"error", err,
		)
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, result)
}

type extractDocumentPayload struct {
	Filename           string                `json:"filename"`
	Type               domain.DocumentType   `json:"document_type"`
	ContentBase64      string                `json:"content_base64"`
	DiagnosticsCovered []domain.DocumentType `json:"diagnostics_couverts,omitempty"`
}

type extractRequest struct {
	CaseID          string                   `json:"case_id"`
	LotNumber       string                   `json:"lot_number"`
	PropertyAddress string                   `json:"property_address"`
	Questionnaire   domain.Questionnaire     `json:"questionnaire"`
	Documents       []extractDocumentPayload `json:"documents"`
}

// Extract handles POST /v1/dossiers/extract: the two-phase extraction over
// an already-classified batch.
func (h *Handlers) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 4*maxUploadBytes)

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body", err.Error())
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, "invalid request", "documents list is empty")
		return
	}

	docs := make([]domain.UploadedDocument, 0, len(req.Documents))
	for i, d := range req.Documents {
		content, err := base64.StdEncoding.DecodeString(d.ContentBase64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request",
				fmt.Sprintf("documents[%d]: content_base64 is not valid base64", i))
			return
		}
		if len(content) == 0 {
			writeError(w, http.StatusBadRequest, "invalid request",
				fmt.Sprintf("documents[%d]: empty content", i))
			return
		}
		docs = append(docs, domain.UploadedDocument{
			Filename:           d.Filename,
			Type:               d.Type,
			Content:            content,
			DiagnosticsCovered: d.DiagnosticsCovered,
		})
	}

	record, err := h.extractor.Extract(r.Context(), docs, domain.ExtractionContext{
		CaseID:          req.CaseID,
		LotNumber:       req.LotNumber,
		PropertyAddress: req.PropertyAddress,
		Questionnaire:   req.Questionnaire,
	})
	if err != nil {
		h.logger.Error("extraction failed",
			"request_id", requestIDFrom(r.Context()),
			"case_id", req.CaseID,
			"documents", len(docs),
			"error", err,
		)
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, record)
}

// Upload handles POST /v1/documents: async intake. The document is stored
// and queued; classification happens on the worker.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body", err.Error())
		return
	}
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field", err.Error())
		return
	}
	defer file.Close()

	doc, err := h.ingestor.Upload(r.Context(), fileHeader.Filename, r.FormValue("case_id"), file)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusAccepted, doc)
}

// GetDocument handles GET /v1/documents/{id}.
func (h *Handlers) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid request", "missing document id")
		return
	}
	doc, err := h.reader.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, doc)
}

// Export handles POST /v1/dossiers/export: renders a merged record as the
// XLSX annex and streams it back.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	var record domain.MergedRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body", err.Error())
		return
	}

	f, err := export.Annex(record)
	if err != nil {
		h.logger.Error("annex rendering failed",
			"request_id", requestIDFrom(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "export failed", err.Error())
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="pre_etat_date_annexe.xlsx"`)
	if err := f.Write(w); err != nil {
		h.logger.Error("annex write failed",
			"request_id", requestIDFrom(r.Context()),
			"error", err,
		)
	}
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
