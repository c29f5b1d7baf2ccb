package pdfinfo

import (
	"bytes"
	"errors"

	"github.com/ledongthuc/pdf"

	"github.com/preetatdate/docpipeline/internal/core/domain"
	"github.com/preetatdate/docpipeline/internal/core/ports"
)

var (
	pdfMagic         = []byte("%PDF-")
	errMissingHeader = errors.New("missing %PDF header")
)

// Inspector validates that an upload is a parseable PDF before it is stored
// and queued, so the classification worker never burns a model call on junk.
type Inspector struct{}

func NewInspector() *Inspector { return &Inspector{} }

func (Inspector) Inspect(content []byte) (ports.PDFInfo, error) {
	if len(content) < len(pdfMagic) || !bytes.HasPrefix(content, pdfMagic) {
		return ports.PDFInfo{}, domain.WrapError(domain.ErrInvalidInput, "inspect pdf",
			errMissingHeader)
	}
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return ports.PDFInfo{}, domain.WrapError(domain.ErrInvalidInput, "inspect pdf", err)
	}
	return ports.PDFInfo{PageCount: reader.NumPage()}, nil
}
