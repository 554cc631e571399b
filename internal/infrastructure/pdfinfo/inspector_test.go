package pdfinfo

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
)

// minimalPDF assembles a one-page PDF with a correct xref table so the
// parser accepts it.
func minimalPDF(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n",
	}

	offsets := make([]int, 0, len(objects))
	for _, obj := range objects {
		offsets = append(offsets, buf.Len())
		buf.WriteString(obj)
	}

	xrefStart := buf.Len()
	buf.WriteString("xref\n0 4\n")
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefStart)
	return buf.Bytes()
}

func TestInspectCountsPages(t *testing.T) {
	pages, err := New().Inspect(minimalPDF(t))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if pages != 1 {
		t.Errorf("pages = %d, want 1", pages)
	}
}

func TestInspectRejectsNonPDFPayload(t *testing.T) {
	_, err := New().Inspect([]byte("<!doctype html><html></html>"))
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput kind", err)
	}
}

func TestInspectRejectsTruncatedPDF(t *testing.T) {
	full := minimalPDF(t)
	_, err := New().Inspect(full[:len(full)/2])
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput kind", err)
	}
}
