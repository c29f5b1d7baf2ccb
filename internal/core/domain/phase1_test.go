package domain

import (
	"reflect"
	"testing"
)

func f64(v float64) *float64 { return &v }

func TestEnforceProvenanceClearsUnsourcedValues(t *testing.T) {
	rec := PhaseOneRecord{
		Financier: FinancialSection{
			BudgetPrevisionnel:     f64(80000),
			ChargesCourantes:       f64(2000),
			ChargesCourantesSource: "releve.pdf, total",
		},
	}

	cleared := rec.EnforceProvenance()

	if !reflect.DeepEqual(cleared, []string{"budget_previsionnel"}) {
		t.Fatalf("cleared = %v", cleared)
	}
	if rec.Financier.BudgetPrevisionnel != nil {
		t.Fatal("unsourced budget must be cleared")
	}
	if rec.Financier.ChargesCourantes == nil {
		t.Fatal("sourced charges must survive")
	}
}

func TestEnforceProvenanceDropsDanglingSources(t *testing.T) {
	rec := PhaseOneRecord{
		Financier: FinancialSection{
			ImpayesGlobauxSource: "etat_date.pdf, p. 3",
		},
	}

	cleared := rec.EnforceProvenance()
	if len(cleared) != 0 {
		t.Fatalf("cleared = %v", cleared)
	}
	if rec.Financier.ImpayesGlobauxSource != "" {
		t.Fatal("dangling source must be dropped")
	}
}

func TestEnforceProvenanceCoversLotSection(t *testing.T) {
	rec := PhaseOneRecord{
		Lot: LotSection{
			TantiemesLot: f64(250),
		},
	}

	cleared := rec.EnforceProvenance()
	if !reflect.DeepEqual(cleared, []string{"tantiemes_lot"}) {
		t.Fatalf("cleared = %v", cleared)
	}
	if rec.Lot.TantiemesLot != nil {
		t.Fatal("unsourced tantièmes must be cleared")
	}
}

func TestProvenanceViolationsReportsWithoutMutating(t *testing.T) {
	rec := PhaseOneRecord{
		Financier: FinancialSection{
			DettesFournisseurs: f64(1500),
		},
	}

	violations := rec.ProvenanceViolations()
	if len(violations) != 1 {
		t.Fatalf("violations = %v", violations)
	}
	if rec.Financier.DettesFournisseurs == nil {
		t.Fatal("read-only check must not mutate")
	}
}

func TestProvenanceHoldsAfterEnforcement(t *testing.T) {
	rec := PhaseOneRecord{
		Lot: LotSection{
			TantiemesLot:         f64(250),
			TantiemesTotalSource: "edd.pdf",
		},
		Financier: FinancialSection{
			FondsTravauxSolde: f64(12000),
			ChargesN1:         f64(1900),
			ChargesN1Source:   "releve_n1.pdf",
		},
	}

	rec.EnforceProvenance()
	if v := rec.ProvenanceViolations(); len(v) != 0 {
		t.Fatalf("violations after enforcement = %v", v)
	}
}
