package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/preetatdate/docpipeline/internal/core/domain"
)

const (
	sheetSynthese    = "Synthèse"
	sheetFinances    = "Finances"
	sheetDiagnostics = "Diagnostics"
	sheetAlertes     = "Alertes"
)

// Annex renders a merged dossier record as the XLSX annex notaries attach to
// the pre-sale file: one summary sheet, the financial figures with their
// source citations, the diagnostics dates, and the alert list.
func Annex(record domain.MergedRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), sheetSynthese)
	for _, name := range []string{sheetFinances, sheetDiagnostics, sheetAlertes} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DCE6F1"}},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := writeSynthese(f, header, record); err != nil {
		return nil, err
	}
	if err := writeFinances(f, header, record); err != nil {
		return nil, err
	}
	if err := writeDiagnostics(f, header, record); err != nil {
		return nil, err
	}
	if err := writeAlertes(f, header, record.Meta); err != nil {
		return nil, err
	}
	return f, nil
}

func writeSynthese(f *excelize.File, header int, record domain.MergedRecord) error {
	rows := [][]any{
		{"Champ", "Valeur"},
		{"Copropriété", record.Copropriete.Name},
		{"Adresse", record.Copropriete.Address},
		{"Immatriculation", record.Copropriete.RegistrationNumber},
		{"Syndic", record.Copropriete.SyndicName},
		{"Assurance", record.Copropriete.InsuranceCompany},
		{"Police d'assurance", record.Copropriete.InsurancePolicy},
		{"Lot n°", record.Lot.Number},
		{"Étage", record.Lot.Floor},
		{"Tantièmes du lot", floatCell(record.Lot.TantiemesLot)},
		{"Tantièmes totaux", floatCell(record.Lot.TantiemesTotal)},
		{"Confiance globale", record.Meta.Confidence},
	}
	if err := writeRows(f, sheetSynthese, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetSynthese, "A1", "B1", header); err != nil {
		return fmt.Errorf("style %s: %w", sheetSynthese, err)
	}
	return f.SetColWidth(sheetSynthese, "A", "B", 34)
}

func writeFinances(f *excelize.File, header int, record domain.MergedRecord) error {
	fin := record.Financier
	rows := [][]any{
		{"Poste", "Montant (€)", "Source"},
		{"Budget prévisionnel", floatCell(fin.BudgetPrevisionnel), fin.BudgetPrevisionnelSource},
		{"Charges courantes", floatCell(fin.ChargesCourantes), fin.ChargesCourantesSource},
		{"Charges exceptionnelles", floatCell(fin.ChargesExceptionnelles), fin.ChargesExceptionnellesSource},
		{"Charges N-1", floatCell(fin.ChargesN1), fin.ChargesN1Source},
		{"Charges N-2", floatCell(fin.ChargesN2), fin.ChargesN2Source},
		{"Fonds travaux — solde", floatCell(fin.FondsTravauxSolde), fin.FondsTravauxSoldeSource},
		{"Fonds travaux — cotisation", floatCell(fin.FondsTravauxCotisation), fin.FondsTravauxCotisationSource},
		{"Sommes dues par le vendeur", floatCell(fin.SommesDuesVendeur), fin.SommesDuesVendeurSource},
		{"Impayés globaux", floatCell(fin.ImpayesGlobaux), fin.ImpayesGlobauxSource},
		{"Dettes fournisseurs", floatCell(fin.DettesFournisseurs), fin.DettesFournisseursSource},
		{"Emprunt — solde restant", floatCell(fin.EmpruntSoldeRestant), fin.EmpruntSoldeRestantSource},
		{"Emprunt — quote-part du lot", floatCell(fin.EmpruntQuotePartLot), fin.EmpruntQuotePartLotSource},
		{"Provisions exercice courant", floatCell(fin.ProvisionsExerciceCourant), fin.ProvisionsExerciceCourantSource},
		{"Provisions exercice précédent", floatCell(fin.ProvisionsExercicePrecedent), fin.ProvisionsExercicePrecedentSource},
		{"Exercice comptable", strings.TrimSpace(fin.FiscalYearStart + " → " + fin.FiscalYearEnd), ""},
	}
	if err := writeRows(f, sheetFinances, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetFinances, "A1", "C1", header); err != nil {
		return fmt.Errorf("style %s: %w", sheetFinances, err)
	}
	return f.SetColWidth(sheetFinances, "A", "C", 36)
}

func writeDiagnostics(f *excelize.File, header int, record domain.MergedRecord) error {
	d := record.Diagnostics
	rows := [][]any{
		{"Diagnostic", "Date / Résultat"},
		{"DPE", d.DPE.Date},
		{"DPE — classe énergie", d.DPE.EnergyClass},
		{"DPE — classe GES", d.DPE.EmissionClass},
		{"DPE — n° ADEME", d.DPE.AdemeNumber},
		{"Amiante", d.AmianteDate},
		{"Plomb", d.PlombDate},
		{"Termites", d.TermitesDate},
		{"Électricité", d.ElectriciteDate},
		{"Gaz", d.GazDate},
		{"ERP", d.ERPDate},
		{"Mesurage", d.MesurageDate},
		{"Surface mesurée (m²)", floatCell(d.MesurageFloorArea)},
		{"DTG", d.DTG.Date},
		{"Audit énergétique", d.EnergyAuditDate},
	}
	covered := make([]string, 0, len(record.DiagnosticsCovered))
	for _, t := range record.DiagnosticsCovered {
		covered = append(covered, string(t))
	}
	rows = append(rows, []any{"Diagnostics couverts", strings.Join(covered, ", ")})

	if err := writeRows(f, sheetDiagnostics, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetDiagnostics, "A1", "B1", header); err != nil {
		return fmt.Errorf("style %s: %w", sheetDiagnostics, err)
	}
	return f.SetColWidth(sheetDiagnostics, "A", "B", 32)
}

func writeAlertes(f *excelize.File, header int, meta domain.MergedMeta) error {
	rows := [][]any{{"Type", "Message"}}
	for _, a := range meta.Alerts {
		rows = append(rows, []any{"Alerte", a})
	}
	for _, m := range meta.MissingData {
		rows = append(rows, []any{"Donnée manquante", m})
	}
	if err := writeRows(f, sheetAlertes, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetAlertes, "A1", "B1", header); err != nil {
		return fmt.Errorf("style %s: %w", sheetAlertes, err)
	}
	return f.SetColWidth(sheetAlertes, "A", "B", 60)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d on %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

// floatCell keeps absent figures as empty cells rather than zeroes a notary
// could mistake for declared amounts.
func floatCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
