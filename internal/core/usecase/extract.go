package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/preetatdate/docpipeline/internal/core/domain"
	"github.com/preetatdate/docpipeline/internal/core/ports"
	"github.com/preetatdate/docpipeline/internal/core/prompt"
)

// ExtractDossierUseCase orchestrates one extraction request: route the
// batch, upload every document concurrently, run the two extraction phases
// concurrently, merge and validate.
//
// Phase 1 is authoritative: its failure fails the request. Phase 2 degrades
// to a zero-valued record with an alert; missing diagnostics are a normal
// condition at time of sale and must never block the financial record.
// ExtractionObserver receives pipeline telemetry. Optional; a nil observer
// disables it.
type ExtractionObserver interface {
	ObserveExtraction(elapsed time.Duration)
	PhaseTwoDegraded()
}

type ExtractDossierUseCase struct {
	gateway      ports.ModelGateway
	router       *Router
	validator    Validator
	modelID      string
	phaseTimeout time.Duration
	observer     ExtractionObserver
}

func NewExtractDossierUseCase(
	gateway ports.ModelGateway,
	router *Router,
	validator Validator,
	modelID string,
	phaseTimeout time.Duration,
) *ExtractDossierUseCase {
	if phaseTimeout <= 0 {
		phaseTimeout = 5 * time.Minute
	}
	return &ExtractDossierUseCase{
		gateway:      gateway,
		router:       router,
		validator:    validator,
		modelID:      modelID,
		phaseTimeout: phaseTimeout,
	}
}

// WithObserver attaches pipeline telemetry and returns the receiver.
func (uc *ExtractDossierUseCase) WithObserver(obs ExtractionObserver) *ExtractDossierUseCase {
	uc.observer = obs
	return uc
}

func (uc *ExtractDossierUseCase) Extract(
	ctx context.Context,
	docs []domain.UploadedDocument,
	extCtx domain.ExtractionContext,
) (domain.MergedRecord, error) {
	if len(docs) == 0 {
		return domain.MergedRecord{}, domain.WrapError(
			domain.ErrInvalidInput, "extract", errors.New("documents list is empty"))
	}

	if uc.observer != nil {
		start := time.Now()
		defer func() { uc.observer.ObserveExtraction(time.Since(start)) }()
	}

	phase1Docs, phase2Docs := uc.router.Partition(docs)

	handles, err := uc.uploadAll(ctx, docs)
	if err != nil {
		return domain.MergedRecord{}, domain.WrapError(domain.ErrExtractionFailed, "upload documents", err)
	}

	var (
		wg    sync.WaitGroup
		p1    domain.PhaseOneRecord
		p1Err error
		p2    domain.PhaseTwoRecord
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		p1, p1Err = uc.runPhaseOne(ctx, phase1Docs, handles, extCtx)
	}()
	go func() {
		defer wg.Done()
		p2 = uc.runPhaseTwo(ctx, phase2Docs, handles, extCtx)
	}()
	wg.Wait()

	if p1Err != nil {
		return domain.MergedRecord{}, domain.WrapError(domain.ErrExtractionFailed, "financial extraction", p1Err)
	}

	merged := Merge(p1, p2)
	merged.Meta.Alerts = append(merged.Meta.Alerts, uc.validator.Check(merged)...)
	return merged, nil
}

// uploadAll pushes every document to the gateway with maximum parallelism.
// Each document is uploaded exactly once even when routed to both phases.
// Any failure aborts the request: both phases depend on the handles.
func (uc *ExtractDossierUseCase) uploadAll(
	ctx context.Context,
	docs []domain.UploadedDocument,
) (map[string]ports.FileHandle, error) {
	type uploadResult struct {
		filename string
		handle   ports.FileHandle
		err      error
	}

	results := make(chan uploadResult, len(docs))
	for _, doc := range docs {
		go func(doc domain.UploadedDocument) {
			handle, err := uc.gateway.UploadFile(ctx, doc.Content, doc.Filename)
			results <- uploadResult{filename: doc.Filename, handle: handle, err: err}
		}(doc)
	}

	handles := make(map[string]ports.FileHandle, len(docs))
	var firstErr error
	for range docs {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("upload %q: %w", res.filename, res.err)
			}
			continue
		}
		handles[res.filename] = res.handle
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return handles, nil
}

func (uc *ExtractDossierUseCase) runPhaseOne(
	ctx context.Context,
	docs []domain.UploadedDocument,
	handles map[string]ports.FileHandle,
	extCtx domain.ExtractionContext,
) (domain.PhaseOneRecord, error) {
	phaseCtx, cancel := context.WithTimeout(ctx, uc.phaseTimeout)
	defer cancel()

	parts := assembleParts(prompt.PhaseOne(extCtx), docs, handles)
	raw, err := uc.gateway.Invoke(phaseCtx, ports.InvokeRequest{
		ModelID: uc.modelID,
		Parts:   parts,
		Tag:     "extract_phase1",
		CaseID:  extCtx.CaseID,
	})
	if err != nil {
		return domain.PhaseOneRecord{}, err
	}

	var record domain.PhaseOneRecord
	if err := json.Unmarshal(jsonPayload(raw), &record); err != nil {
		return domain.PhaseOneRecord{}, domain.WrapError(domain.ErrMalformedResponse, "decode phase 1 output", err)
	}
	normalizeMeta(&record.Meta)

	for _, field := range record.EnforceProvenance() {
		record.Meta.MissingData = append(record.Meta.MissingData,
			fmt.Sprintf("%s : valeur sans source, ignorée", field))
	}
	return record, nil
}

// runPhaseTwo never fails: an empty subset skips the invocation entirely
// and any gateway error degrades to the zero-valued default plus an alert.
func (uc *ExtractDossierUseCase) runPhaseTwo(
	ctx context.Context,
	docs []domain.UploadedDocument,
	handles map[string]ports.FileHandle,
	extCtx domain.ExtractionContext,
) domain.PhaseTwoRecord {
	if len(docs) == 0 {
		return domain.DefaultPhaseTwoRecord()
	}

	phaseCtx, cancel := context.WithTimeout(ctx, uc.phaseTimeout)
	defer cancel()

	parts := assembleParts(prompt.PhaseTwo(diagnosticChecklist(docs)), docs, handles)
	raw, err := uc.gateway.Invoke(phaseCtx, ports.InvokeRequest{
		ModelID: uc.modelID,
		Parts:   parts,
		Tag:     "extract_phase2",
		CaseID:  extCtx.CaseID,
	})
	if err != nil {
		return uc.degradedPhaseTwo(extCtx.CaseID, err)
	}

	var record domain.PhaseTwoRecord
	if err := json.Unmarshal(jsonPayload(raw), &record); err != nil {
		return uc.degradedPhaseTwo(extCtx.CaseID, domain.WrapError(domain.ErrMalformedResponse, "decode phase 2 output", err))
	}
	normalizeMeta(&record.Meta)
	if record.DiagnosticsCovered == nil {
		record.DiagnosticsCovered = []domain.DocumentType{}
	}
	return record
}

func (uc *ExtractDossierUseCase) degradedPhaseTwo(caseID string, cause error) domain.PhaseTwoRecord {
	slog.Warn("phase2_degraded", "case_id", caseID, "error", cause)
	if uc.observer != nil {
		uc.observer.PhaseTwoDegraded()
	}

	record := domain.DefaultPhaseTwoRecord()
	record.Meta.Alerts = append(record.Meta.Alerts,
		fmt.Sprintf("Extraction technique indisponible, données diagnostics vides (cause : %v)", cause))
	return record
}

// assembleParts interleaves each document's label immediately before its
// attachment. The ordering is a correctness requirement for the model's
// label/content association, not formatting.
func assembleParts(
	instructions string,
	docs []domain.UploadedDocument,
	handles map[string]ports.FileHandle,
) []ports.PromptPart {
	parts := make([]ports.PromptPart, 0, 1+2*len(docs))
	parts = append(parts, ports.TextPart(instructions))
	for _, doc := range docs {
		parts = append(parts, ports.TextPart(prompt.DocumentLabel(doc)))
		parts = append(parts, ports.FilePart(handles[doc.Filename]))
	}
	return parts
}

// diagnosticChecklist unions classification-time coverage lists with the
// diagnostic document types of the subset.
func diagnosticChecklist(docs []domain.UploadedDocument) []domain.DocumentType {
	diagnostics := domain.DiagnosticTypes()
	seen := make(map[domain.DocumentType]struct{})
	var out []domain.DocumentType

	add := func(t domain.DocumentType) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	for _, doc := range docs {
		if diagnostics.Contains(doc.Type) {
			add(doc.Type)
		}
		for _, t := range doc.DiagnosticsCovered {
			if diagnostics.Contains(t) {
				add(t)
			}
		}
	}
	return out
}

func normalizeMeta(meta *domain.PhaseMeta) {
	if meta.DocumentsAnalyzed == nil {
		meta.DocumentsAnalyzed = []string{}
	}
	if meta.MissingData == nil {
		meta.MissingData = []string{}
	}
	if meta.Alerts == nil {
		meta.Alerts = []string{}
	}
}
