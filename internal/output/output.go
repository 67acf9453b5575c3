// Package output writes the artifacts of one OCR run to disk.
//
// Layout, per run:
//
//	<dir>/run_<YYYYMMDD_HHMMSS>/
//	    document.json      full structured document
//	    text.txt           whole-document text
//	    pages/page_<n>.txt per-page text, 1-indexed in response order
//	    SOURCE.txt         source=<absolute path of the input PDF>
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/encoding/protojson"

	"docaiocr/internal/logger"
)

// File and directory names inside a run directory.
const (
	DocumentFile = "document.json"
	TextFile     = "text.txt"
	PagesDir     = "pages"
	SourceFile   = "SOURCE.txt"

	// TimeTagLayout names run directories with second resolution.
	TimeTagLayout = "20060102_150405"
)

// ErrRunExists is returned when the run directory for this second already exists.
var ErrRunExists = errors.New("run directory already exists")

// Writer writes run artifacts.
type Writer struct {
	now func() time.Time
	log zerolog.Logger
}

// NewWriter returns a Writer that tags runs with the current local time.
func NewWriter() *Writer {
	return &Writer{
		now: time.Now,
		log: logger.WithComponent("output"),
	}
}

// Result holds the paths written for one run.
type Result struct {
	RunDir   string
	JSONPath string
	TextPath string
	Pages    []string
}

// Write stores doc under a fresh run directory in dir (default "output") and
// returns the JSON and whole-text paths. A run that fails part way is removed,
// so a run directory on disk is always complete.
func (w *Writer) Write(doc *documentaipb.Document, originalPath, dir string) (_ *Result, err error) {
	if dir == "" {
		dir = "output"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	runDir := filepath.Join(dir, "run_"+w.now().Format(TimeTagLayout))
	if err := os.Mkdir(runDir, 0o755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunExists, runDir)
		}
		return nil, fmt.Errorf("create run directory: %w", err)
	}
	defer func() {
		if err != nil {
			if rmErr := os.RemoveAll(runDir); rmErr != nil {
				w.log.Warn().Err(rmErr).Str("run_dir", runDir).Msg("Failed to remove incomplete run directory")
			}
		}
	}()

	result := &Result{
		RunDir:   runDir,
		JSONPath: filepath.Join(runDir, DocumentFile),
		TextPath: filepath.Join(runDir, TextFile),
	}

	data, err := MarshalDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if err := os.WriteFile(result.JSONPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", DocumentFile, err)
	}

	if err := os.WriteFile(result.TextPath, []byte(doc.GetText()), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", TextFile, err)
	}

	pagesDir := filepath.Join(runDir, PagesDir)
	if err := os.Mkdir(pagesDir, 0o755); err != nil {
		return nil, fmt.Errorf("create pages directory: %w", err)
	}
	for i, page := range doc.GetPages() {
		path := filepath.Join(pagesDir, fmt.Sprintf("page_%d.txt", i+1))
		if err := os.WriteFile(path, []byte(PageText(doc, page)), 0o644); err != nil {
			return nil, fmt.Errorf("write page %d: %w", i+1, err)
		}
		result.Pages = append(result.Pages, path)
	}

	source, err := filepath.Abs(originalPath)
	if err != nil {
		return nil, fmt.Errorf("resolve source path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(source); err == nil {
		source = resolved
	}
	if err := os.WriteFile(filepath.Join(runDir, SourceFile), []byte("source="+source), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", SourceFile, err)
	}

	w.log.Info().
		Str("run_dir", runDir).
		Int("pages", len(result.Pages)).
		Int("text_length", len(doc.GetText())).
		Msg("Run artifacts written")

	return result, nil
}

// MarshalDocument encodes doc as indented UTF-8 JSON using the protobuf
// field names.
func MarshalDocument(doc *documentaipb.Document) ([]byte, error) {
	return protojson.MarshalOptions{
		Multiline:     true,
		Indent:        "  ",
		UseProtoNames: true,
	}.Marshal(doc)
}

// PageText concatenates the slices of the document text referenced by the
// page's layout text anchor and trims surrounding whitespace. Offsets count
// code points; missing offsets read as 0 and out-of-range offsets are clamped.
func PageText(doc *documentaipb.Document, page *documentaipb.Document_Page) string {
	segments := page.GetLayout().GetTextAnchor().GetTextSegments()
	if len(segments) == 0 {
		return ""
	}

	runes := []rune(doc.GetText())
	total := int64(len(runes))

	var b strings.Builder
	for _, seg := range segments {
		start, end := seg.GetStartIndex(), seg.GetEndIndex()
		if start < 0 {
			start = 0
		}
		if end > total {
			end = total
		}
		if start > end {
			continue
		}
		b.WriteString(string(runes[start:end]))
	}
	return strings.TrimSpace(b.String())
}
