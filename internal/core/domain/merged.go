package domain

// MergedMeta is the caller-facing metadata block: per-phase lists
// concatenated, confidence combined conservatively.
type MergedMeta struct {
	DocumentsAnalyzed []string `json:"documents_analyses"`
	MissingData       []string `json:"donnees_manquantes"`
	Alerts            []string `json:"alertes"`
	Confidence        float64  `json:"confidence"`
}

// MergedRecord is the single record the caller persists and renders:
// financial/legal sections from phase 1, technical sections from phase 2.
type MergedRecord struct {
	Copropriete CoproprieteSection `json:"copropriete"`
	Lot         LotSection         `json:"lot"`
	Financier   FinancialSection   `json:"financier"`
	Juridique   LegalSection       `json:"juridique"`

	Diagnostics        DiagnosticsSection `json:"diagnostics"`
	Lease              LeaseSection       `json:"bail"`
	DiagnosticsCovered []DocumentType     `json:"diagnostics_couverts"`

	Meta MergedMeta `json:"meta"`
}
