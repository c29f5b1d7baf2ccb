// Package prompt assembles the instruction text sent to the model service.
// Every conditional clause is driven by a typed input; there is no string
// matching on loosely-typed maps.
package prompt

import (
	"fmt"
	"strings"

	"github.com/preetatdate/docpipeline/internal/core/domain"
)

// Classification returns the instruction block for classifying one PDF.
func Classification(types []domain.DocumentType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}

	var b strings.Builder
	b.WriteString("You classify French co-ownership documents for a pré-état daté.\n")
	b.WriteString("Pick document_type from exactly this list: ")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(".\n\n")
	b.WriteString(`Return a strict JSON object with keys:
document_type (string), confidence (number 0..1), titre (string),
date (string YYYY-MM-DD), resume (one sentence),
diagnostics_couverts (array of document_type strings),
numero_ademe (string, only if a DPE report with its 13-character ADEME
identifier is present, otherwise omit).

Date rules — always the most relevant date, never a print, mailing or
generation date:
- pv_ag: the assembly date;
- appel_fonds, releve_charges: the start of the fiscal period covered;
- diagnostics (dpe, amiante, plomb, termites, electricite, gaz, erp,
  mesurage, dtg, audit_energetique): the realization date;
- contrat_assurance: the contract effect date;
- taxe_fonciere: the tax year.

diagnostics_couverts must list ONLY diagnostic reports fully present in
this PDF, never diagnostics merely mentioned or annexed by reference.
If this PDF is a bundled technical dossier, scan every page and list every
diagnostic report it actually contains; do not stop at the first one.
`)
	return b.String()
}

// DocumentLabel names a document ahead of its attachment. The label must be
// the part immediately before the binary.
func DocumentLabel(doc domain.UploadedDocument) string {
	return fmt.Sprintf("Document suivant : %s (type : %s)", doc.Filename, doc.Type)
}

// PhaseOne returns the financial/legal instruction block for the given
// extraction context.
func PhaseOne(extCtx domain.ExtractionContext) string {
	var b strings.Builder
	b.WriteString(`You extract the financial and legal data of a French co-ownership lot
sale (pré-état daté) from the attached documents.

Return a strict JSON object with sections copropriete, lot, financier,
juridique, meta. Every financial figure in lot and financier must carry its
paired "<field>_source" citation naming the document and the line it was
read from; if a figure is not found, leave the value null AND its source
empty. Never invent a value.

Amounts called quarterly must be multiplied by 4 and monthly amounts by 12
before being reported as the lot's annual charges_courantes.

Cross-check before answering: tantiemes_lot / tantiemes_total ×
budget_previsionnel should approximate charges_courantes within 15%; if it
does not, re-read the charge lines and report the discrepancy in
meta.alertes.

meta must contain documents_analyses, donnees_manquantes, alertes (arrays
of strings) and confidence (number 0..1).
`)

	if clause := scopingClause(extCtx); clause != "" {
		b.WriteString("\n")
		b.WriteString(clause)
	}
	if block := QuestionnaireBlock(extCtx.Questionnaire); block != "" {
		b.WriteString("\n")
		b.WriteString(block)
	}
	return b.String()
}

func scopingClause(extCtx domain.ExtractionContext) string {
	if extCtx.LotNumber == "" && extCtx.PropertyAddress == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("Sale scope:\n")
	if extCtx.LotNumber != "" {
		fmt.Fprintf(&b, "- the sale concerns lot %s ONLY. Ignore financial lines belonging to any other lot, even when owned by the same seller. Never sum several lots unless several lot numbers are explicitly listed above.\n", extCtx.LotNumber)
	}
	if extCtx.PropertyAddress != "" {
		fmt.Fprintf(&b, "- property address: %s.\n", extCtx.PropertyAddress)
	}
	return b.String()
}

// QuestionnaireBlock renders seller-declared facts so the model actively
// looks for corroborating documents. Each recognized field maps to exactly
// one clause.
func QuestionnaireBlock(q domain.Questionnaire) string {
	if q.Empty() {
		return ""
	}

	var lines []string
	switch q.Occupancy {
	case domain.OccupancyRented:
		lines = append(lines, "the lot is rented: actively look for a lease and report rent figures")
	case domain.OccupancyVacant:
		lines = append(lines, "the lot is vacant")
	case domain.OccupancyOwnerOccupied:
		lines = append(lines, "the lot is occupied by the seller")
	}
	if q.SecondaryAssociation != nil && *q.SecondaryAssociation {
		lines = append(lines, "a secondary association (syndicat secondaire) exists: look for its charges and tantièmes")
	}
	if q.PrivateWorksDone != nil && *q.PrivateWorksDone {
		lines = append(lines, "the seller declared private works on the lot")
	}
	if q.Mortgage != nil && *q.Mortgage {
		lines = append(lines, "a mortgage or seizure encumbers the lot: look for related mentions")
	}
	if q.PriorClaims != nil && *q.PriorClaims {
		lines = append(lines, "prior insurance claims were declared: look for claim records")
	}
	if q.TaxRegime != "" {
		lines = append(lines, "declared tax regime: "+q.TaxRegime)
	}
	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Seller questionnaire (declared facts, verify against documents):\n")
	for _, line := range lines {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// PhaseTwo returns the technical/diagnostics instruction block. checklist
// is the set of diagnostics classification promised; each entry must be
// found or reported under donnees_manquantes.
func PhaseTwo(checklist []domain.DocumentType) string {
	var b strings.Builder
	b.WriteString(`You extract technical diagnostics, lease and insurance data for a French
co-ownership lot sale from the attached documents.

Return a strict JSON object with sections diagnostics, bail, assurance,
diagnostics_couverts (array of document_type strings) and meta
(documents_analyses, donnees_manquantes, alertes, confidence).
For each diagnostic report found, record its realization date; for the DPE
also record numero_ademe, classe_energie and classe_ges.
`)

	if len(checklist) > 0 {
		names := make([]string, len(checklist))
		for i, t := range checklist {
			names[i] = string(t)
		}
		b.WriteString("\nClassification announced these diagnostics: ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString(".\nAccount for every one of them: report any announced but unfound diagnostic under donnees_manquantes instead of silently omitting it.\n")
	}
	return b.String()
}
