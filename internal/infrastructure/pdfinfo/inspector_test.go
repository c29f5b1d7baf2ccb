package pdfinfo

import (
	"testing"

	"github.com/preetatdate/docpipeline/internal/core/domain"
)

func TestInspectRejectsNonPDF(t *testing.T) {
	cases := map[string][]byte{
		"empty":        nil,
		"text":         []byte("hello world"),
		"short prefix": []byte("%PD"),
		"png header":   {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	}
	ins := NewInspector()
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ins.Inspect(content)
			if !domain.IsKind(err, domain.ErrInvalidInput) {
				t.Fatalf("expected invalid-input kind, got %v", err)
			}
		})
	}
}

func TestInspectRejectsTruncatedPDF(t *testing.T) {
	// Correct magic bytes but no cross-reference table.
	ins := NewInspector()
	_, err := ins.Inspect([]byte("%PDF-1.7\ngarbage body with no xref"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid-input kind, got %v", err)
	}
}
