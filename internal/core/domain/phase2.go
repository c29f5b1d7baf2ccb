package domain

// DPEResult is the energy-performance diagnostic key result.
type DPEResult struct {
	AdemeNumber   string `json:"numero_ademe,omitempty"`
	Date          string `json:"date,omitempty"`
	EnergyClass   string `json:"classe_energie,omitempty"`
	EmissionClass string `json:"classe_ges,omitempty"`
}

// DTGResult is the global technical audit outcome.
type DTGResult struct {
	Date       string `json:"date,omitempty"`
	Conclusion string `json:"conclusion,omitempty"`
}

// WorksPlan is the multi-year works plan snapshot.
type WorksPlan struct {
	Exists  *bool  `json:"existe,omitempty"`
	Details string `json:"details,omitempty"`
}

// DiagnosticsSection records per-diagnostic realization dates and key
// results, plus equipment flags.
type DiagnosticsSection struct {
	DPE             DPEResult `json:"dpe"`
	AmianteDate     string    `json:"amiante_date,omitempty"`
	PlombDate       string    `json:"plomb_date,omitempty"`
	TermitesDate    string    `json:"termites_date,omitempty"`
	ElectriciteDate string    `json:"electricite_date,omitempty"`
	GazDate         string    `json:"gaz_date,omitempty"`
	ERPDate         string    `json:"erp_date,omitempty"`
	MesurageDate    string    `json:"mesurage_date,omitempty"`

	DTG                  DTGResult `json:"dtg"`
	WorksPlan            WorksPlan `json:"plan_pluriannuel"`
	EnergyAuditDate      string    `json:"audit_energetique_date,omitempty"`
	Elevator             *bool     `json:"ascenseur,omitempty"`
	Pool                 *bool     `json:"piscine,omitempty"`
	EVCharging           *bool     `json:"borne_recharge,omitempty"`
	MesurageFloorArea    *float64  `json:"surface_mesuree,omitempty"`
}

// LeaseSection is the lease snapshot when the lot is rented.
type LeaseSection struct {
	Exists     *bool    `json:"existe,omitempty"`
	LeaseType  string   `json:"type,omitempty"`
	StartDate  string   `json:"date_debut,omitempty"`
	EndDate    string   `json:"date_fin,omitempty"`
	Rent       *float64 `json:"loyer,omitempty"`
	Deposit    *float64 `json:"depot_garantie,omitempty"`
	TenantName string   `json:"locataire,omitempty"`
}

// InsuranceSection is the co-ownership insurance snapshot read from the
// insurance contract.
type InsuranceSection struct {
	Company      string `json:"compagnie,omitempty"`
	PolicyNumber string `json:"numero_police,omitempty"`
	StartDate    string `json:"date_effet,omitempty"`
	ExpiryDate   string `json:"date_echeance,omitempty"`
}

// PhaseTwoRecord is the technical/diagnostics extraction output. The shape
// is always constructed, even when the phase processes nothing.
type PhaseTwoRecord struct {
	Diagnostics        DiagnosticsSection `json:"diagnostics"`
	Lease              LeaseSection       `json:"bail"`
	Insurance          InsuranceSection   `json:"assurance"`
	DiagnosticsCovered []DocumentType     `json:"diagnostics_couverts"`
	Meta               PhaseMeta          `json:"meta"`
}

// DefaultPhaseTwoRecord is the zero-valued record used when phase 2 has no
// documents or failed: all strings empty, all pointers nil, arrays empty.
func DefaultPhaseTwoRecord() PhaseTwoRecord {
	return PhaseTwoRecord{
		DiagnosticsCovered: []DocumentType{},
		Meta: PhaseMeta{
			DocumentsAnalyzed: []string{},
			MissingData:       []string{},
			Alerts:            []string{},
			Confidence:        1,
		},
	}
}
