package usecase

import (
	"fmt"
	"time"

	"github.com/preetatdate/docpipeline/internal/core/domain"
)

// ValidatorConfig carries the policy knobs of the consistency checks. The
// tolerance was observed in production rather than derived from a stated
// requirement, so it stays configurable.
type ValidatorConfig struct {
	// ChargeTolerance is the accepted relative deviation between expected
	// charges (tantièmes share of budget) and reported current charges.
	ChargeTolerance float64
}

func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{ChargeTolerance: 0.15}
}

// Validator runs deterministic arithmetic checks against the merged
// financial section. Checks annotate, they never block: every detected
// inconsistency is surfaced to the human reviewer downstream, nothing is
// silently dropped or auto-corrected.
type Validator struct {
	cfg ValidatorConfig
}

func NewValidator(cfg ValidatorConfig) Validator {
	if cfg.ChargeTolerance <= 0 {
		cfg = DefaultValidatorConfig()
	}
	return Validator{cfg: cfg}
}

// Check returns one human-readable alert per failed check, each citing the
// concrete values and the magnitude of the discrepancy.
func (v Validator) Check(rec domain.MergedRecord) []string {
	var alerts []string

	lot := rec.Lot.TantiemesLot
	total := rec.Lot.TantiemesTotal
	budget := rec.Financier.BudgetPrevisionnel
	charges := rec.Financier.ChargesCourantes

	if lot != nil && total != nil {
		if *lot <= 0 {
			alerts = append(alerts, fmt.Sprintf(
				"Tantièmes du lot non positifs : %.0f", *lot))
		}
		if *lot >= *total {
			alerts = append(alerts, fmt.Sprintf(
				"Tantièmes du lot (%.0f) supérieurs ou égaux aux tantièmes totaux (%.0f)", *lot, *total))
		}
	}

	if lot != nil && total != nil && budget != nil && charges != nil &&
		*lot > 0 && *total > 0 && *lot < *total {
		expected := *lot / *total * *budget
		if expected > 0 {
			deviation := (*charges - expected) / expected
			if deviation < 0 {
				deviation = -deviation
			}
			if deviation > v.cfg.ChargeTolerance {
				alerts = append(alerts, fmt.Sprintf(
					"Charges courantes déclarées (%.2f €) incohérentes avec la quote-part du budget (%.2f € attendus, écart de %.0f%%)",
					*charges, expected, deviation*100))
			}
		}
	}

	if charges != nil && *charges <= 0 {
		alerts = append(alerts, fmt.Sprintf(
			"Charges courantes non positives : %.2f €", *charges))
	}

	if alert := checkFiscalPeriod(rec.Financier.FiscalYearStart, rec.Financier.FiscalYearEnd); alert != "" {
		alerts = append(alerts, alert)
	}

	return alerts
}

func checkFiscalPeriod(startStr, endStr string) string {
	if startStr == "" || endStr == "" {
		return ""
	}
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return ""
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return ""
	}
	if !start.Before(end) {
		return fmt.Sprintf(
			"Exercice incohérent : début (%s) postérieur ou égal à la fin (%s)", startStr, endStr)
	}
	return ""
}
