package pdfinfo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/go-pdf/fpdf"
)

func writePDF(t *testing.T, pages int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.pdf")
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.Cell(40, 10, "page")
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	return path
}

func TestPageCount(t *testing.T) {
	for _, n := range []int{1, 3, 7} {
		path := writePDF(t, n)
		got, err := PageCount(path)
		if err != nil {
			t.Fatalf("PageCount(%d pages): %v", n, err)
		}
		if got != n {
			t.Fatalf("PageCount = %d, want %d", got, n)
		}
	}
}

func TestPageCountRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := PageCount(path)
	if !errors.Is(err, ErrInvalidPDF) {
		t.Fatalf("err = %v, want ErrInvalidPDF", err)
	}
	var inspectErr *InspectError
	if !errors.As(err, &inspectErr) || inspectErr.Path != path {
		t.Fatalf("err = %#v, want *InspectError for %s", err, path)
	}
}

func TestPageCountMissingFile(t *testing.T) {
	_, err := PageCount(filepath.Join(t.TempDir(), "absent.pdf"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}
