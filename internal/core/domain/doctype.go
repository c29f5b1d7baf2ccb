package domain

// DocumentType is the closed enumeration of co-ownership document kinds the
// classifier may assign. Values match the JSON wire labels consumed by the
// form layer.
type DocumentType string

const (
	TypePVAG                   DocumentType = "pv_ag"
	TypeReglementCopropriete   DocumentType = "reglement_copropriete"
	TypeEtatDescriptifDivision DocumentType = "etat_descriptif_division"
	TypeAppelFonds             DocumentType = "appel_fonds"
	TypeReleveCharges          DocumentType = "releve_charges"
	TypeCarnetEntretien        DocumentType = "carnet_entretien"
	TypeDPE                    DocumentType = "dpe"
	TypeDiagnosticAmiante      DocumentType = "diagnostic_amiante"
	TypeDiagnosticPlomb        DocumentType = "diagnostic_plomb"
	TypeDiagnosticTermites     DocumentType = "diagnostic_termites"
	TypeDiagnosticElectricite  DocumentType = "diagnostic_electricite"
	TypeDiagnosticGaz          DocumentType = "diagnostic_gaz"
	TypeDiagnosticERP          DocumentType = "diagnostic_erp"
	TypeDiagnosticMesurage     DocumentType = "diagnostic_mesurage"
	TypeFicheSynthetique       DocumentType = "fiche_synthetique"
	TypePlanPluriannuel        DocumentType = "plan_pluriannuel"
	TypePlanPluriannuelTravaux DocumentType = "plan_pluriannuel_travaux"
	TypeDTG                    DocumentType = "dtg"
	TypeTaxeFonciere           DocumentType = "taxe_fonciere"
	TypeBail                   DocumentType = "bail"
	TypeContratAssurance       DocumentType = "contrat_assurance"
	TypeAuditEnergetique       DocumentType = "audit_energetique"
	TypeOther                  DocumentType = "other"
)

// AllDocumentTypes lists every assignable type, in prompt order.
func AllDocumentTypes() []DocumentType {
	return []DocumentType{
		TypePVAG, TypeReglementCopropriete, TypeEtatDescriptifDivision,
		TypeAppelFonds, TypeReleveCharges, TypeCarnetEntretien,
		TypeDPE, TypeDiagnosticAmiante, TypeDiagnosticPlomb,
		TypeDiagnosticTermites, TypeDiagnosticElectricite, TypeDiagnosticGaz,
		TypeDiagnosticERP, TypeDiagnosticMesurage,
		TypeFicheSynthetique, TypePlanPluriannuel, TypePlanPluriannuelTravaux,
		TypeDTG, TypeTaxeFonciere, TypeBail, TypeContratAssurance,
		TypeAuditEnergetique, TypeOther,
	}
}

// TypeSet is an immutable membership set over document types. Sets are built
// once at construction time and injected where needed; call sites never
// consult package-level mutable state.
type TypeSet map[DocumentType]struct{}

func NewTypeSet(types ...DocumentType) TypeSet {
	s := make(TypeSet, len(types))
	for _, t := range types {
		s[t] = struct{}{}
	}
	return s
}

func (s TypeSet) Contains(t DocumentType) bool {
	_, ok := s[t]
	return ok
}

// DiagnosticTypes returns the set of types that count as technical
// diagnostic reports. Only these may carry a diagnostics_couverts list.
func DiagnosticTypes() TypeSet {
	return NewTypeSet(
		TypeDPE, TypeDiagnosticAmiante, TypeDiagnosticPlomb,
		TypeDiagnosticTermites, TypeDiagnosticElectricite, TypeDiagnosticGaz,
		TypeDiagnosticERP, TypeDiagnosticMesurage, TypeDTG,
		TypeAuditEnergetique,
	)
}

// Phase1Types is the financial/legal extraction subset.
func Phase1Types() TypeSet {
	return NewTypeSet(
		TypePVAG, TypeReglementCopropriete, TypeEtatDescriptifDivision,
		TypeAppelFonds, TypeReleveCharges, TypeFicheSynthetique,
		TypeCarnetEntretien, TypeTaxeFonciere,
	)
}

// Phase2Types is the technical/diagnostics extraction subset.
func Phase2Types() TypeSet {
	return NewTypeSet(
		TypeDPE, TypeDiagnosticAmiante, TypeDiagnosticPlomb,
		TypeDiagnosticTermites, TypeDiagnosticElectricite, TypeDiagnosticGaz,
		TypeDiagnosticERP, TypeDiagnosticMesurage, TypeDTG,
		TypePlanPluriannuel, TypePlanPluriannuelTravaux,
		TypeAuditEnergetique, TypeBail, TypeContratAssurance,
	)
}

// SharedTypes are routed into both extraction phases.
func SharedTypes() TypeSet {
	return NewTypeSet(TypeFicheSynthetique)
}

// KeywordTable maps lowercase keywords found in classifier prose to the
// diagnostic type they indicate. Injected into the classifier so tests can
// substitute alternate vocabularies.
type KeywordTable map[string]DocumentType

// DefaultDiagnosticKeywords covers French and English variants seen in
// bundled technical dossiers.
func DefaultDiagnosticKeywords() KeywordTable {
	return KeywordTable{
		"amiante":                 TypeDiagnosticAmiante,
		"asbestos":                TypeDiagnosticAmiante,
		"plomb":                   TypeDiagnosticPlomb,
		"lead":                    TypeDiagnosticPlomb,
		"crep":                    TypeDiagnosticPlomb,
		"termite":                 TypeDiagnosticTermites,
		"état parasitaire":        TypeDiagnosticTermites,
		"électricité":             TypeDiagnosticElectricite,
		"electricite":             TypeDiagnosticElectricite,
		"electrical":              TypeDiagnosticElectricite,
		"installation électrique": TypeDiagnosticElectricite,
		"gaz":                     TypeDiagnosticGaz,
		"gas":                     TypeDiagnosticGaz,
		"erp":                     TypeDiagnosticERP,
		"état des risques":        TypeDiagnosticERP,
		"risks report":            TypeDiagnosticERP,
		"mesurage":                TypeDiagnosticMesurage,
		"carrez":                  TypeDiagnosticMesurage,
		"floor area":              TypeDiagnosticMesurage,
		"boutin":                  TypeDiagnosticMesurage,
		"dpe":                     TypeDPE,
		"performance énergétique": TypeDPE,
		"energy performance":      TypeDPE,
		"audit énergétique":       TypeAuditEnergetique,
		"energy audit":            TypeAuditEnergetique,
	}
}
