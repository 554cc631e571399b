// Package pdfinfo preflights uploaded files locally, before any bytes are
// sent to the detection service.
package pdfinfo

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
)

var pdfMagic = []byte("%PDF-")

type Inspector struct{}

func New() *Inspector {
	return &Inspector{}
}

// Inspect validates the payload is a parseable PDF and returns its page
// count. The parser panics on some malformed inputs, so parsing runs behind
// a recover.
func (i *Inspector) Inspect(data []byte) (pages int, err error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return 0, domain.WrapError(domain.ErrInvalidInput, "inspect pdf", fmt.Errorf("missing %%PDF- header"))
	}

	defer func() {
		if r := recover(); r != nil {
			pages = 0
			err = domain.WrapError(domain.ErrInvalidInput, "inspect pdf", fmt.Errorf("malformed pdf: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, domain.WrapError(domain.ErrInvalidInput, "inspect pdf", err)
	}

	pages = reader.NumPage()
	if pages <= 0 {
		return 0, domain.WrapError(domain.ErrInvalidInput, "inspect pdf", fmt.Errorf("document has no pages"))
	}
	return pages, nil
}
