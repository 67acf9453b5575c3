// Package pdfinfo reads structural facts from a local PDF without OCR.
package pdfinfo

import (
	"errors"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrInvalidPDF is returned when the file cannot be parsed as a PDF.
var ErrInvalidPDF = errors.New("invalid or corrupted PDF document")

func init() {
	// Keep pdfcpu from creating a config directory under the user's home.
	api.DisableConfigDir()
}

// InspectError wraps a failure to read a PDF's structure.
type InspectError struct {
	Path string
	Err  error
}

func (e *InspectError) Error() string {
	return fmt.Sprintf("pdfinfo: %s: %v", e.Path, e.Err)
}

func (e *InspectError) Unwrap() error {
	return e.Err
}

// PageCount opens the PDF at path and returns its number of pages.
func PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &InspectError{Path: path, Err: err}
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	n, err := api.PageCount(f, conf)
	if err != nil {
		return 0, &InspectError{Path: path, Err: fmt.Errorf("%w: %v", ErrInvalidPDF, err)}
	}
	return n, nil
}
