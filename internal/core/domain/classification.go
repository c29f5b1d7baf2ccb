package domain

import "regexp"

// ademeNumberPattern matches the 13-character identifier the ADEME registry
// assigns to DPE reports.
var ademeNumberPattern = regexp.MustCompile(`^[0-9A-Z]{13}$`)

// ClassificationResult is the canonical output of classifying one PDF.
//
// Date semantics depend on Type: assembly date for pv_ag, fiscal-period
// start for appel_fonds/releve_charges, realization date for diagnostics,
// contract-effect date for insurance, tax year for taxe_fonciere. Never a
// print or mailing date.
type ClassificationResult struct {
	Type        DocumentType `json:"document_type"`
	Confidence  float64      `json:"confidence"`
	Title       string       `json:"titre"`
	Date        string       `json:"date"`
	Summary     string       `json:"resume"`
	AdemeNumber string       `json:"numero_ademe,omitempty"`

	// DiagnosticsCovered lists the diagnostic sub-types fully present in
	// the PDF. Empty unless Type is itself a diagnostic type; when it is,
	// Type is always a member.
	DiagnosticsCovered []DocumentType `json:"diagnostics_couverts"`
}

// ValidAdemeNumber reports whether s is a well-formed ADEME identifier.
// The registry lookup itself is outside this service.
func ValidAdemeNumber(s string) bool {
	return ademeNumberPattern.MatchString(s)
}

// CoversDiagnostic reports membership in DiagnosticsCovered.
func (r ClassificationResult) CoversDiagnostic(t DocumentType) bool {
	for _, d := range r.DiagnosticsCovered {
		if d == t {
			return true
		}
	}
	return false
}
