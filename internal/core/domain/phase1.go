package domain

import (
	"fmt"
	"reflect"
)

// PhaseMeta is the per-phase metadata block the extractor returns alongside
// structured data.
type PhaseMeta struct {
	DocumentsAnalyzed []string `json:"documents_analyses"`
	MissingData       []string `json:"donnees_manquantes"`
	Alerts            []string `json:"alertes"`
	Confidence        float64  `json:"confidence"`
}

// CoproprieteSection covers co-ownership identity and administration.
type CoproprieteSection struct {
	Name               string `json:"nom,omitempty"`
	Address            string `json:"adresse,omitempty"`
	RegistrationNumber string `json:"numero_immatriculation,omitempty"`
	SyndicName         string `json:"syndic_nom,omitempty"`
	SyndicType         string `json:"syndic_type,omitempty"`
	SyndicMandateEnd   string `json:"syndic_fin_mandat,omitempty"`
	InsuranceCompany   string `json:"assurance_compagnie,omitempty"`
	InsurancePolicy    string `json:"assurance_police,omitempty"`
	LotCount           *int   `json:"nombre_lots,omitempty"`
	ConstructionPeriod string `json:"periode_construction,omitempty"`
	LastAGDate         string `json:"derniere_ag,omitempty"`
	NextAGDate         string `json:"prochaine_ag,omitempty"`
	InDistress         *bool  `json:"copropriete_en_difficulte,omitempty"`
}

// LotSection identifies the sold lot. Tantièmes drive charge apportionment
// and carry provenance like any financial figure.
type LotSection struct {
	Number    string   `json:"numero,omitempty"`
	LotType   string   `json:"type,omitempty"`
	Floor     string   `json:"etage,omitempty"`
	FloorArea *float64 `json:"surface,omitempty"`

	TantiemesLot         *float64 `json:"tantiemes_lot,omitempty"`
	TantiemesLotSource   string   `json:"tantiemes_lot_source,omitempty"`
	TantiemesTotal       *float64 `json:"tantiemes_total,omitempty"`
	TantiemesTotalSource string   `json:"tantiemes_total_source,omitempty"`
}

// FinancialSection holds every financially critical figure for the sold
// lot. Each value field is paired with a <field>_source citation naming the
// document and line it was read from; a value is never reported without its
// citation.
type FinancialSection struct {
	BudgetPrevisionnel       *float64 `json:"budget_previsionnel,omitempty"`
	BudgetPrevisionnelSource string   `json:"budget_previsionnel_source,omitempty"`

	ChargesCourantes             *float64 `json:"charges_courantes,omitempty"`
	ChargesCourantesSource       string   `json:"charges_courantes_source,omitempty"`
	ChargesExceptionnelles       *float64 `json:"charges_exceptionnelles,omitempty"`
	ChargesExceptionnellesSource string   `json:"charges_exceptionnelles_source,omitempty"`
	ChargesN1                    *float64 `json:"charges_n1,omitempty"`
	ChargesN1Source              string   `json:"charges_n1_source,omitempty"`
	ChargesN2                    *float64 `json:"charges_n2,omitempty"`
	ChargesN2Source              string   `json:"charges_n2_source,omitempty"`

	FondsTravauxExiste           *bool    `json:"fonds_travaux_existe,omitempty"`
	FondsTravauxExisteSource     string   `json:"fonds_travaux_existe_source,omitempty"`
	FondsTravauxSolde            *float64 `json:"fonds_travaux_solde,omitempty"`
	FondsTravauxSoldeSource      string   `json:"fonds_travaux_solde_source,omitempty"`
	FondsTravauxCotisation       *float64 `json:"fonds_travaux_cotisation,omitempty"`
	FondsTravauxCotisationSource string   `json:"fonds_travaux_cotisation_source,omitempty"`
	FondsTravauxTaux             *float64 `json:"fonds_travaux_taux,omitempty"`
	FondsTravauxTauxSource       string   `json:"fonds_travaux_taux_source,omitempty"`

	SommesDuesVendeur         *float64 `json:"sommes_dues_vendeur,omitempty"`
	SommesDuesVendeurSource   string   `json:"sommes_dues_vendeur_source,omitempty"`
	ImpayesGlobaux            *float64 `json:"impayes_globaux,omitempty"`
	ImpayesGlobauxSource      string   `json:"impayes_globaux_source,omitempty"`
	DettesFournisseurs        *float64 `json:"dettes_fournisseurs,omitempty"`
	DettesFournisseursSource  string   `json:"dettes_fournisseurs_source,omitempty"`
	EmpruntCollectif          *bool    `json:"emprunt_collectif,omitempty"`
	EmpruntCollectifSource    string   `json:"emprunt_collectif_source,omitempty"`
	EmpruntSoldeRestant       *float64 `json:"emprunt_solde_restant,omitempty"`
	EmpruntSoldeRestantSource string   `json:"emprunt_solde_restant_source,omitempty"`
	EmpruntQuotePartLot       *float64 `json:"emprunt_quote_part_lot,omitempty"`
	EmpruntQuotePartLotSource string   `json:"emprunt_quote_part_lot_source,omitempty"`
	CautionSolidaire          *bool    `json:"caution_solidaire,omitempty"`
	CautionSolidaireSource    string   `json:"caution_solidaire_source,omitempty"`

	ProvisionsExerciceCourant         *float64 `json:"provisions_exercice_courant,omitempty"`
	ProvisionsExerciceCourantSource   string   `json:"provisions_exercice_courant_source,omitempty"`
	ProvisionsExercicePrecedent       *float64 `json:"provisions_exercice_precedent,omitempty"`
	ProvisionsExercicePrecedentSource string   `json:"provisions_exercice_precedent_source,omitempty"`

	FiscalYearStart string `json:"exercice_debut,omitempty"`
	FiscalYearEnd   string `json:"exercice_fin,omitempty"`
}

// VotedWork is one voted-but-unexecuted works item.
type VotedWork struct {
	Description  string   `json:"description"`
	MontantTotal *float64 `json:"montant_total,omitempty"`
	QuotePartLot *float64 `json:"quote_part_lot,omitempty"`
}

// LegalSection covers litigation, voted works and claims.
type LegalSection struct {
	OngoingProcedures       *bool       `json:"procedures_en_cours,omitempty"`
	OngoingProceduresDetail string      `json:"procedures_details,omitempty"`
	VotedWorks              []VotedWork `json:"travaux_votes_non_executes,omitempty"`
	OngoingClaims           *bool       `json:"sinistres_en_cours,omitempty"`
	OngoingClaimsDetail     string      `json:"sinistres_details,omitempty"`
}

// PhaseOneRecord is the financial/legal extraction output.
type PhaseOneRecord struct {
	Copropriete CoproprieteSection `json:"copropriete"`
	Lot         LotSection         `json:"lot"`
	Financier   FinancialSection   `json:"financier"`
	Juridique   LegalSection       `json:"juridique"`
	Meta        PhaseMeta          `json:"meta"`
}

// EnforceProvenance re-establishes the value/source pairing after decoding
// model output: a value lacking its citation is cleared (fabricated values
// are a defect, not an extraction result), and a dangling citation without
// a value is dropped. Returns the JSON names of cleared value fields.
func (r *PhaseOneRecord) EnforceProvenance() []string {
	cleared := enforcePairs(&r.Financier)
	cleared = append(cleared, enforcePairs(&r.Lot)...)
	return cleared
}

// enforcePairs walks a struct pointer pairing each pointer-typed field X
// with its string companion XSource.
func enforcePairs(section any) []string {
	v := reflect.ValueOf(section).Elem()
	t := v.Type()

	var cleared []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Type.Kind() != reflect.Pointer {
			continue
		}
		src := v.FieldByName(field.Name + "Source")
		if !src.IsValid() || src.Kind() != reflect.String {
			continue
		}

		value := v.Field(i)
		switch {
		case !value.IsNil() && src.String() == "":
			value.Set(reflect.Zero(field.Type))
			cleared = append(cleared, jsonName(field))
		case value.IsNil() && src.String() != "":
			src.SetString("")
		}
	}
	return cleared
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			return tag[:i]
		}
	}
	if tag == "" {
		return field.Name
	}
	return tag
}

// ProvenanceViolations reports value/source pairs that break the pairing
// invariant, without mutating the record. Used by tests and by the merger
// as a final guard.
func (r PhaseOneRecord) ProvenanceViolations() []string {
	var out []string
	for _, section := range []any{&r.Financier, &r.Lot} {
		v := reflect.ValueOf(section).Elem()
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.Type.Kind() != reflect.Pointer {
				continue
			}
			src := v.FieldByName(field.Name + "Source")
			if !src.IsValid() || src.Kind() != reflect.String {
				continue
			}
			value := v.Field(i)
			if value.IsNil() != (src.String() == "") {
				out = append(out, fmt.Sprintf("%s: value/source mismatch", jsonName(field)))
			}
		}
	}
	return out
}
