package cmd

import (
	"context"
	"errors"
	"fmt"

	"docaiocr/internal/config"
	"docaiocr/internal/docai"
	"docaiocr/internal/ocr"
	"docaiocr/internal/output"
	"docaiocr/internal/pages"
	"docaiocr/internal/pdfinfo"
	"docaiocr/internal/prompt"
)

// userMessage turns a fatal error into the message shown on stderr. The
// original error text is always kept so service details are not hidden.
func userMessage(err error) string {
	var missing *config.MissingKeysError

	switch {
	case errors.As(err, &missing):
		return fmt.Sprintf("%v\nSet them in the environment or in .env.", err)
	case errors.Is(err, config.ErrUnknownEngine):
		return fmt.Sprintf("invalid configuration: %v", err)
	case errors.Is(err, prompt.ErrInputClosed):
		return "input ended before a PDF and page selection were given"
	case errors.Is(err, pdfinfo.ErrInvalidPDF):
		return fmt.Sprintf("could not read the PDF structure; check the file integrity: %v", err)
	case errors.Is(err, pages.ErrInvalidNumber), errors.Is(err, pages.ErrInvalidRange):
		return fmt.Sprintf("invalid page selection: %v", err)
	case errors.Is(err, output.ErrRunExists):
		return fmt.Sprintf("%v; wait a second and run again", err)
	case errors.Is(err, ocr.ErrTooManyPages):
		return fmt.Sprintf("%v; select at most %d pages or use the documentai engine", err, ocr.MaxPagesSync)
	case errors.Is(err, docai.ErrUnauthenticated):
		return fmt.Sprintf("Google Cloud authentication failed. Check that GOOGLE_APPLICATION_CREDENTIALS points to a valid service account key.\n\nOriginal error: %v", err)
	case errors.Is(err, docai.ErrPermissionDenied):
		return fmt.Sprintf("permission denied. Ensure the service account has the 'Document AI API User' role.\n\nOriginal error: %v", err)
	case errors.Is(err, docai.ErrQuotaExceeded):
		return fmt.Sprintf("API quota exceeded. Check your project quotas in the Google Cloud Console.\n\nOriginal error: %v", err)
	case errors.Is(err, docai.ErrProcessorNotFound):
		return fmt.Sprintf("processor not found. Check DOC_AI_PROJECT_ID, DOC_AI_LOCATION and DOC_AI_PROCESSOR_ID.\n\nOriginal error: %v", err)
	case errors.Is(err, docai.ErrInvalidRequest):
		return fmt.Sprintf("the service rejected the document or page selection. Large documents may need a smaller page selection.\n\nOriginal error: %v", err)
	case errors.Is(err, docai.ErrContextCanceled), errors.Is(err, context.Canceled):
		return "OCR processing was canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "OCR processing timed out"
	default:
		return err.Error()
	}
}
