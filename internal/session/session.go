// Package session runs one interactive OCR run end to end:
// prompts, local page count, page selection, one remote call, output.
package session

import (
	"context"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"

	"docaiocr/internal/docai"
	"docaiocr/internal/logger"
	"docaiocr/internal/output"
	"docaiocr/internal/pages"
	"docaiocr/internal/prompt"
)

// Banner is printed before the first prompt.
const Banner = "=== Google Document AI OCR (local PDF, interactive) ==="

// maxListedPages is the most pages printed individually before a run.
const maxListedPages = 20

// ProcessorFactory opens the remote processor. It is called once, right
// before the remote call, and the processor is closed afterwards.
type ProcessorFactory func(ctx context.Context) (docai.Processor, error)

// PageCounter returns the number of pages in a local PDF.
type PageCounter func(path string) (int, error)

// ArtifactWriter persists the processed document.
type ArtifactWriter interface {
	Write(doc *documentaipb.Document, originalPath, dir string) (*output.Result, error)
}

// Session holds everything one run needs.
type Session struct {
	Prompter     *prompt.Prompter
	Out          io.Writer
	CountPages   PageCounter
	NewProcessor ProcessorFactory
	Writer       ArtifactWriter
	OutputDir    string

	log zerolog.Logger
}

// New returns a Session. Out receives the user-facing messages.
func New(p *prompt.Prompter, out io.Writer, count PageCounter, factory ProcessorFactory, w ArtifactWriter, outputDir string) *Session {
	return &Session{
		Prompter:     p,
		Out:          out,
		CountPages:   count,
		NewProcessor: factory,
		Writer:       w,
		OutputDir:    outputDir,
		log:          logger.WithComponent("session"),
	}
}

// Run executes the pipeline. Any returned error is fatal for the run.
func (s *Session) Run(ctx context.Context) (*output.Result, error) {
	fmt.Fprintln(s.Out, Banner)

	path, err := s.Prompter.PDFPath()
	if err != nil {
		return nil, err
	}

	total, err := s.CountPages(path)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("file", path).Int("total_pages", total).Msg("PDF inspected")

	mode, raw, err := s.Prompter.PageMode(total)
	if err != nil {
		return nil, err
	}

	selected, fellBack, err := Resolve(mode, raw, total)
	if err != nil {
		return nil, err
	}
	if fellBack {
		fmt.Fprintln(s.Out, "No valid pages selected; defaulting to Full.")
		s.log.Warn().Str("mode", string(mode)).Str("input", raw).Msg("Empty page selection, falling back to full document")
	}

	if len(selected) <= maxListedPages {
		fmt.Fprintf(s.Out, "\nProcessing pages: %v\n", selected)
	} else {
		fmt.Fprintf(s.Out, "\nProcessing pages: %d pages\n", len(selected))
	}

	pdf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := s.process(ctx, pdf, selected)
	if err != nil {
		return nil, err
	}

	result, err := s.Writer.Write(doc, path, s.OutputDir)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(s.Out, "\n✅ Done.")
	fmt.Fprintf(s.Out, "JSON: %s\n", result.JSONPath)
	fmt.Fprintf(s.Out, "Text: %s\n", result.TextPath)
	return result, nil
}

func (s *Session) process(ctx context.Context, pdf []byte, selected []int) (*documentaipb.Document, error) {
	processor, err := s.NewProcessor(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := processor.Close(); closeErr != nil {
			s.log.Warn().Err(closeErr).Msg("Failed to close processor")
		}
	}()

	return processor.Process(ctx, pdf, selected)
}

// Resolve parses the selection and falls back to every page when a non-full
// mode selects nothing. fellBack reports whether the fallback was taken.
func Resolve(mode pages.Mode, raw string, total int) (selected []int, fellBack bool, err error) {
	selected, err = pages.Parse(mode, raw, total)
	if err != nil {
		return nil, false, err
	}
	if mode != pages.ModeFull && len(selected) == 0 {
		return pages.All(total), true, nil
	}
	return selected, false, nil
}
