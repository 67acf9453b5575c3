// Package ocr provides an alternate OCR engine on the Google Cloud Vision API.
//
// The Vision engine produces the same structured document as the Document AI
// engine: the page texts are concatenated into the document text and every
// page carries one text segment pointing at its slice of that text, so the
// output writer does not need to know which engine ran.
//
// Cloud Vision API Limitations:
//   - Maximum file size: 20MB for synchronous processing
//   - Maximum pages: 5 pages per synchronous request
//   - When no pages are given, Vision processes only the first 5 pages
package ocr

const (
	// MaxFileSizeBytes is the maximum file size for synchronous processing (20MB)
	MaxFileSizeBytes = 20 * 1024 * 1024

	// MaxPagesSync is the maximum number of pages for synchronous processing
	MaxPagesSync = 5
)
