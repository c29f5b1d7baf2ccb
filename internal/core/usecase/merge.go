package usecase

import "github.com/preetatdate/docpipeline/internal/core/domain"

// Merge combines the two phase records. Each section is taken wholesale
// from its owning phase; the only cross-populated fields are the
// co-ownership insurance company/policy, back-filled from phase 2 when
// phase 1 missed them. Confidence is the minimum of the two phases: the
// weaker phase caps overall trust, never an average.
func Merge(p1 domain.PhaseOneRecord, p2 domain.PhaseTwoRecord) domain.MergedRecord {
	copro := p1.Copropriete
	if copro.InsuranceCompany == "" {
		copro.InsuranceCompany = p2.Insurance.Company
	}
	if copro.InsurancePolicy == "" {
		copro.InsurancePolicy = p2.Insurance.PolicyNumber
	}

	covered := p2.DiagnosticsCovered
	if covered == nil {
		covered = []domain.DocumentType{}
	}

	return domain.MergedRecord{
		Copropriete: copro,
		Lot:         p1.Lot,
		Financier:   p1.Financier,
		Juridique:   p1.Juridique,

		Diagnostics:        p2.Diagnostics,
		Lease:              p2.Lease,
		DiagnosticsCovered: covered,

		Meta: domain.MergedMeta{
			DocumentsAnalyzed: concat(p1.Meta.DocumentsAnalyzed, p2.Meta.DocumentsAnalyzed),
			MissingData:       concat(p1.Meta.MissingData, p2.Meta.MissingData),
			Alerts:            concat(p1.Meta.Alerts, p2.Meta.Alerts),
			Confidence:        minConfidence(p1.Meta.Confidence, p2.Meta.Confidence),
		},
	}
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

func minConfidence(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
