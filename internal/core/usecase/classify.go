package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/preetatdate/docpipeline/internal/core/domain"
	"github.com/preetatdate/docpipeline/internal/core/ports"
	"github.com/preetatdate/docpipeline/internal/core/prompt"
	"github.com/preetatdate/docpipeline/internal/core/schema"
)

// ClassifyDocumentUseCase maps one PDF to a ClassificationResult: one
// gateway invocation followed by deterministic normalization. The
// diagnostic type set and keyword table are injected so tests can
// substitute vocabularies.
type ClassifyDocumentUseCase struct {
	gateway         ports.ModelGateway
	modelID         string
	diagnosticTypes domain.TypeSet
	keywords        domain.KeywordTable

	instructions string
	outputSchema map[string]any
}

func NewClassifyDocumentUseCase(
	gateway ports.ModelGateway,
	modelID string,
	diagnosticTypes domain.TypeSet,
	keywords domain.KeywordTable,
) *ClassifyDocumentUseCase {
	types := domain.AllDocumentTypes()
	return &ClassifyDocumentUseCase{
		gateway:         gateway,
		modelID:         modelID,
		diagnosticTypes: diagnosticTypes,
		keywords:        keywords,
		instructions:    prompt.Classification(types),
		outputSchema:    schema.Classification(types),
	}
}

func (uc *ClassifyDocumentUseCase) Classify(
	ctx context.Context,
	content []byte,
	filename, caseID string,
) (domain.ClassificationResult, error) {
	if len(content) == 0 || filename == "" {
		return domain.ClassificationResult{}, domain.WrapError(
			domain.ErrInvalidInput, "classify", errors.New("file content and filename are required"))
	}

	handle, err := uc.gateway.UploadFile(ctx, content, filename)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("classify %q: %w", filename, err)
	}

	parts := []ports.PromptPart{
		ports.TextPart(uc.instructions),
		ports.TextPart(fmt.Sprintf("Document suivant : %s", filename)),
		ports.FilePart(handle),
	}
	raw, err := uc.gateway.Invoke(ctx, ports.InvokeRequest{
		ModelID: uc.modelID,
		Parts:   parts,
		Tag:     "classify",
		CaseID:  caseID,
	})
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("classify %q: %w", filename, err)
	}

	result, err := uc.normalize(raw)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("classify %q: %w", filename, err)
	}
	return result, nil
}

// normalize applies the deterministic post-processing steps, in order:
// legacy array collapse, schema validation, purity clearing, keyword
// enrichment.
func (uc *ClassifyDocumentUseCase) normalize(raw string) (domain.ClassificationResult, error) {
	doc := jsonPayload(raw)

	doc, err := collapseLegacyArray(doc)
	if err != nil {
		return domain.ClassificationResult{}, domain.WrapError(domain.ErrMalformedResponse, "collapse legacy output", err)
	}

	if err := schema.Validate(uc.outputSchema, doc); err != nil {
		return domain.ClassificationResult{}, domain.WrapError(domain.ErrMalformedResponse, "validate classification output", err)
	}

	var result domain.ClassificationResult
	if err := json.Unmarshal(doc, &result); err != nil {
		return domain.ClassificationResult{}, domain.WrapError(domain.ErrMalformedResponse, "decode classification output", err)
	}

	// A malformed identifier is a hallucination, not an extraction.
	if result.AdemeNumber != "" && !domain.ValidAdemeNumber(result.AdemeNumber) {
		result.AdemeNumber = ""
	}

	if !uc.diagnosticTypes.Contains(result.Type) {
		// A diagnostic may be mentioned in prose (a lease annexing a DPE)
		// without being present; coverage only ever belongs to diagnostic
		// documents.
		result.DiagnosticsCovered = []domain.DocumentType{}
		return result, nil
	}

	result.DiagnosticsCovered = uc.enrichCoverage(result)
	return result, nil
}

// enrichCoverage unions the structured coverage list with keyword matches
// from the model's own prose and with the document type itself.
func (uc *ClassifyDocumentUseCase) enrichCoverage(result domain.ClassificationResult) []domain.DocumentType {
	seen := make(map[domain.DocumentType]struct{})
	for _, t := range result.DiagnosticsCovered {
		if uc.diagnosticTypes.Contains(t) {
			seen[t] = struct{}{}
		}
	}
	seen[result.Type] = struct{}{}

	prose := strings.ToLower(result.Title + " " + result.Summary)
	for keyword, t := range uc.keywords {
		if strings.Contains(prose, keyword) {
			seen[t] = struct{}{}
		}
	}

	out := make([]domain.DocumentType, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// collapseLegacyArray folds the historical array-of-diagnostics output
// shape into the canonical single object: first item as base,
// diagnostics_couverts as the union of every item's document_type, first
// non-empty ADEME number. Canonical input passes through untouched. This is
// the only place the legacy shape is known.
func collapseLegacyArray(doc []byte) ([]byte, error) {
	trimmed := strings.TrimSpace(string(doc))
	if !strings.HasPrefix(trimmed, "[") {
		return doc, nil
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, fmt.Errorf("decode legacy array: %w", err)
	}
	if len(items) == 0 {
		return nil, errors.New("legacy array output is empty")
	}

	base := items[0]

	var covered []string
	var ademe string
	for _, item := range items {
		var itemType string
		if rawType, ok := item["document_type"]; ok {
			_ = json.Unmarshal(rawType, &itemType)
		}
		if itemType != "" {
			covered = append(covered, itemType)
		}
		if ademe == "" {
			var itemAdeme string
			if rawAdeme, ok := item["numero_ademe"]; ok {
				_ = json.Unmarshal(rawAdeme, &itemAdeme)
			}
			ademe = itemAdeme
		}
	}

	coveredJSON, err := json.Marshal(covered)
	if err != nil {
		return nil, fmt.Errorf("encode collapsed coverage: %w", err)
	}
	base["diagnostics_couverts"] = coveredJSON
	if ademe != "" {
		ademeJSON, _ := json.Marshal(ademe)
		base["numero_ademe"] = ademeJSON
	}

	return json.Marshal(base)
}

// jsonPayload strips markdown fences and surrounding prose from the model's
// text, keeping the outermost JSON value.
func jsonPayload(raw string) []byte {
	s := strings.TrimSpace(raw)

	objStart := strings.Index(s, "{")
	arrStart := strings.Index(s, "[")
	if arrStart >= 0 && (objStart < 0 || arrStart < objStart) {
		if end := strings.LastIndex(s, "]"); end > arrStart {
			return []byte(s[arrStart : end+1])
		}
	}
	if objStart >= 0 {
		if end := strings.LastIndex(s, "}"); end > objStart {
			return []byte(s[objStart : end+1])
		}
	}
	return []byte(s)
}
