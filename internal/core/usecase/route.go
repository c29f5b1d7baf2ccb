package usecase

import "github.com/preetatdate/docpipeline/internal/core/domain"

// Router partitions an already-classified batch into the two extraction
// phases. Document types are trusted as assigned; nothing is re-classified
// here and nothing is ever dropped.
type Router struct {
	phase1 domain.TypeSet
	phase2 domain.TypeSet
	shared domain.TypeSet
}

func NewRouter() *Router {
	return NewRouterWithSets(domain.Phase1Types(), domain.Phase2Types(), domain.SharedTypes())
}

func NewRouterWithSets(phase1, phase2, shared domain.TypeSet) *Router {
	return &Router{phase1: phase1, phase2: phase2, shared: shared}
}

/// Partition routes each document: phase-1 types to the financial/legal
// list, phase-2 types to the technical list, shared types to both, and
// unknown types default to phase 1.
func (r *Router) Partition(docs []domain.UploadedDocument) (phase1, phase2 []domain.UploadedDocument) {
	for _, doc := range docs {
		inPhase1 := r.phase1.Contains(doc.Type)
		inPhase2 := r.phase2.Contains(doc.Type)

		if r.shared.Contains(doc.Type) {
			inPhase1, inPhase2 = true, true
		}
		if !inPhase1 && !inPhase2 {
			inPhase1 = true
		}

		if inPhase1 {
			phase1 = append(phase1, doc)
		}
		if inPhase2 {
			phase2 = append(phase2, doc)
		}
	}
	return phase1, phase2
}
