package prompt

import (
	"strings"
	"testing"

	"github.com/preetatdate/docpipeline/internal/core/domain"
)

func TestClassificationListsEveryType(t *testing.T) {
	types := domain.AllDocumentTypes()
	text := Classification(types)
	for _, typ := range types {
		if !strings.Contains(text, string(typ)) {
			t.Errorf("prompt omits %s", typ)
		}
	}
	if !strings.Contains(text, "numero_ademe") {
		t.Error("prompt must request the ADEME identifier")
	}
	if !strings.Contains(text, "never diagnostics merely mentioned") {
		t.Error("prompt must restrict coverage to reports actually present")
	}
}

func TestDocumentLabel(t *testing.T) {
	doc := domain.UploadedDocument{Filename: "dpe.pdf", Type: domain.TypeDPE}
	if got := DocumentLabel(doc); got != "Document suivant : dpe.pdf (type : dpe)" {
		t.Fatalf("label = %q", got)
	}
}

func TestPhaseOneScopingClause(t *testing.T) {
	text := PhaseOne(domain.ExtractionContext{LotNumber: "12"})
	if !strings.Contains(text, "lot 12 ONLY") {
		t.Fatalf("missing lot scoping: %s", text)
	}
	if !strings.Contains(text, "Never sum several lots") {
		t.Fatal("missing never-sum rule")
	}

	bare := PhaseOne(domain.ExtractionContext{})
	if strings.Contains(bare, "Sale scope") {
		t.Fatal("scoping clause must be absent without lot or address")
	}
}

func TestQuestionnaireBlockRented(t *testing.T) {
	yes := true
	block := QuestionnaireBlock(domain.Questionnaire{
		Occupancy: domain.OccupancyRented,
		Mortgage:  &yes,
	})
	if !strings.Contains(block, "lease") || !strings.Contains(block, "mortgage") {
		t.Fatalf("block = %q", block)
	}
}

func TestQuestionnaireBlockEmpty(t *testing.T) {
	if block := QuestionnaireBlock(domain.Questionnaire{}); block != "" {
		t.Fatalf("block = %q", block)
	}

	// Negative answers produce no clause.
	no := false
	if block := QuestionnaireBlock(domain.Questionnaire{Mortgage: &no}); block != "" {
		t.Fatalf("block = %q", block)
	}
}

func TestPhaseTwoChecklist(t *testing.T) {
	text := PhaseTwo([]domain.DocumentType{domain.TypeDPE, domain.TypeDiagnosticGaz})
	if !strings.Contains(text, "dpe, diagnostic_gaz") {
		t.Fatalf("missing checklist: %s", text)
	}
	if !strings.Contains(text, "donnees_manquantes") {
		t.Fatal("missing unfound-diagnostic instruction")
	}

	bare := PhaseTwo(nil)
	if strings.Contains(bare, "announced these diagnostics") {
		t.Fatal("checklist block must be absent when empty")
	}
}
