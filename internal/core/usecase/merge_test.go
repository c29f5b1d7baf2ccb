package usecase

import (
	"reflect"
	"testing"

	"github.com/preetatdate/docpipeline/internal/core/domain"
)

func TestMergeTakesMinimumConfidence(t *testing.T) {
	p1 := domain.PhaseOneRecord{Meta: domain.PhaseMeta{Confidence: 0.9}}
	p2 := domain.PhaseTwoRecord{Meta: domain.PhaseMeta{Confidence: 0.6}}

	merged := Merge(p1, p2)
	if merged.Meta.Confidence != 0.6 {
		t.Fatalf("confidence = %v", merged.Meta.Confidence)
	}
}

func TestMergeWithDefaultPhaseTwoKeepsPhaseOneConfidence(t *testing.T) {
	p1 := domain.PhaseOneRecord{Meta: domain.PhaseMeta{Confidence: 0.85}}

	merged := Merge(p1, domain.DefaultPhaseTwoRecord())
	if merged.Meta.Confidence != 0.85 {
		t.Fatalf("confidence = %v", merged.Meta.Confidence)
	}
}

func TestMergeBackfillsInsurance(t *testing.T) {
	p1 := domain.PhaseOneRecord{}
	p2 := domain.PhaseTwoRecord{Insurance: domain.InsuranceSection{
		Company:      "AXA",
		PolicyNumber: "POL-123",
	}}

	merged := Merge(p1, p2)
	if merged.Copropriete.InsuranceCompany != "AXA" || merged.Copropriete.InsurancePolicy != "POL-123" {
		t.Fatalf("insurance = %q / %q", merged.Copropriete.InsuranceCompany, merged.Copropriete.InsurancePolicy)
	}
}

func TestMergeDoesNotOverwritePhaseOneInsurance(t *testing.T) {
	p1 := domain.PhaseOneRecord{Copropriete: domain.CoproprieteSection{
		InsuranceCompany: "MAIF",
	}}
	p2 := domain.PhaseTwoRecord{Insurance: domain.InsuranceSection{
		Company: "AXA",
	}}

	merged := Merge(p1, p2)
	if merged.Copropriete.InsuranceCompany != "MAIF" {
		t.Fatalf("insurance company = %q", merged.Copropriete.InsuranceCompany)
	}
}

func TestMergeConcatenatesMeta(t *testing.T) {
	p1 := domain.PhaseOneRecord{Meta: domain.PhaseMeta{
		DocumentsAnalyzed: []string{"pv.pdf"},
		Alerts:            []string{"alerte financière"},
		Confidence:        0.9,
	}}
	p2 := domain.PhaseTwoRecord{Meta: domain.PhaseMeta{
		DocumentsAnalyzed: []string{"dpe.pdf"},
		Alerts:            []string{"alerte technique"},
		Confidence:        0.9,
	}}

	merged := Merge(p1, p2)
	if !reflect.DeepEqual(merged.Meta.DocumentsAnalyzed, []string{"pv.pdf", "dpe.pdf"}) {
		t.Fatalf("documents = %v", merged.Meta.DocumentsAnalyzed)
	}
	if !reflect.DeepEqual(merged.Meta.Alerts, []string{"alerte financière", "alerte technique"}) {
		t.Fatalf("alerts = %v", merged.Meta.Alerts)
	}
}

func TestMergeNeverReturnsNilCoveredList(t *testing.T) {
	merged := Merge(domain.PhaseOneRecord{}, domain.PhaseTwoRecord{})
	if merged.DiagnosticsCovered == nil {
		t.Fatal("diagnostics_couverts must serialize as [], not null")
	}
}
