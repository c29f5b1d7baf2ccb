package usecase

import (
	"strings"
	"testing"

	"github.com/preetatdate/docpipeline/internal/core/domain"
)

func fptr(v float64) *float64 { return &v }

func chargeRecord(lot, total, budget, charges float64) domain.MergedRecord {
	return domain.MergedRecord{
		Lot: domain.LotSection{
			TantiemesLot:   fptr(lot),
			TantiemesTotal: fptr(total),
		},
		Financier: domain.FinancialSection{
			BudgetPrevisionnel: fptr(budget),
			ChargesCourantes:   fptr(charges),
		},
	}
}

func TestCheckFlagsChargeDeviation(t *testing.T) {
	// 250/10000 × 80000 = 2000 expected; 2800 declared is a 40% gap.
	v := NewValidator(DefaultValidatorConfig())
	alerts := v.Check(chargeRecord(250, 10000, 80000, 2800))

	if len(alerts) != 1 {
		t.Fatalf("alerts = %v", alerts)
	}
	if !strings.Contains(alerts[0], "2800.00 €") || !strings.Contains(alerts[0], "2000.00 €") {
		t.Fatalf("alert = %q", alerts[0])
	}
	if !strings.Contains(alerts[0], "40%") {
		t.Fatalf("alert = %q", alerts[0])
	}
}

func TestCheckAcceptsDeviationWithinTolerance(t *testing.T) {
	// 2100 vs 2000 expected is a 5% gap, inside the default 15%.
	v := NewValidator(DefaultValidatorConfig())
	if alerts := v.Check(chargeRecord(250, 10000, 80000, 2100)); len(alerts) != 0 {
		t.Fatalf("alerts = %v", alerts)
	}
}

func TestCheckHonorsConfiguredTolerance(t *testing.T) {
	loose := NewValidator(ValidatorConfig{ChargeTolerance: 0.5})
	if alerts := loose.Check(chargeRecord(250, 10000, 80000, 2800)); len(alerts) != 0 {
		t.Fatalf("alerts with 50%% tolerance = %v", alerts)
	}
}

func TestCheckFlagsTantiemesOrdering(t *testing.T) {
	v := NewValidator(DefaultValidatorConfig())
	rec := domain.MergedRecord{Lot: domain.LotSection{
		TantiemesLot:   fptr(10000),
		TantiemesTotal: fptr(250),
	}}
	alerts := v.Check(rec)
	if len(alerts) != 1 || !strings.Contains(alerts[0], "supérieurs ou égaux") {
		t.Fatalf("alerts = %v", alerts)
	}
}

func TestCheckFlagsNonPositiveCharges(t *testing.T) {
	v := NewValidator(DefaultValidatorConfig())
	rec := domain.MergedRecord{Financier: domain.FinancialSection{
		ChargesCourantes: fptr(-120),
	}}
	alerts := v.Check(rec)
	if len(alerts) != 1 || !strings.Contains(alerts[0], "non positives") {
		t.Fatalf("alerts = %v", alerts)
	}
}

func TestCheckFlagsInvertedFiscalPeriod(t *testing.T) {
	v := NewValidator(DefaultValidatorConfig())
	rec := domain.MergedRecord{Financier: domain.FinancialSection{
		FiscalYearStart: "2024-12-31",
		FiscalYearEnd:   "2024-01-01",
	}}
	alerts := v.Check(rec)
	if len(alerts) != 1 || !strings.Contains(alerts[0], "Exercice incohérent") {
		t.Fatalf("alerts = %v", alerts)
	}
}

func TestCheckSilentOnMissingFigures(t *testing.T) {
	v := NewValidator(DefaultValidatorConfig())
	if alerts := v.Check(domain.MergedRecord{}); len(alerts) != 0 {
		t.Fatalf("alerts = %v", alerts)
	}
}
