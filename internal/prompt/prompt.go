// Package prompt reads the interactive answers for one run: the PDF path and
// the page-selection mode. Input and output streams are injected, so the
// prompts run the same against a terminal or a scripted reader.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"docaiocr/internal/pages"
)

var (
	// ErrInputClosed is returned when input ends before a valid answer.
	ErrInputClosed = errors.New("input closed before a valid answer was given")

	// ErrTooManyAttempts is returned when the attempt limit is reached.
	ErrTooManyAttempts = errors.New("too many invalid answers")
)

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	maxAttempts int
	exists      func(string) bool
}

// Option configures a Prompter.
type Option func(*Prompter)

// WithMaxAttempts bounds the re-prompt loops. Zero or less means unbounded.
func WithMaxAttempts(n int) Option {
	return func(p *Prompter) { p.maxAttempts = n }
}

// New returns a Prompter reading from in and writing to out.
func New(in io.Reader, out io.Writer, opts ...Option) *Prompter {
	p := &Prompter{
		in:     bufio.NewReader(in),
		out:    out,
		exists: fileExists,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Printf writes a formatted message to the prompt output.
func (p *Prompter) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}

// PDFPath asks for a PDF path until it gets one that exists and ends in .pdf.
// Surrounding whitespace and quotes are stripped.
func (p *Prompter) PDFPath() (string, error) {
	for attempt := 1; ; attempt++ {
		answer, err := p.ask("Enter PDF path: ")
		if err != nil {
			return "", err
		}
		path := strings.Trim(strings.TrimSpace(answer), `"'`)

		switch {
		case path == "":
			p.Printf("Please enter a file path.\n")
		case !p.exists(path):
			p.Printf("File not found. Try again.\n")
		case !strings.HasSuffix(strings.ToLower(path), ".pdf"):
			p.Printf("Please provide a .pdf file. Try again.\n")
		default:
			return path, nil
		}

		if p.exhausted(attempt) {
			return "", ErrTooManyAttempts
		}
	}
}

var choices = map[string]pages.Mode{
	"1": pages.ModeFull,
	"2": pages.ModeSingle,
	"3": pages.ModeRange,
	"4": pages.ModeList,
}

// PageMode shows the selection menu for a document of total pages and
// returns the chosen mode with its raw value. The value is not validated
// here; pages.Parse does that.
func (p *Prompter) PageMode(total int) (pages.Mode, string, error) {
	p.Printf("\nPDF has %d page(s). Choose one:\n", total)
	p.Printf("  [1] Full document\n")
	p.Printf("  [2] Single page\n")
	p.Printf("  [3] Page range (e.g. 3-7)\n")
	p.Printf("  [4] Specific list (e.g. 1,3,8)\n")

	var mode pages.Mode
	for attempt := 1; ; attempt++ {
		answer, err := p.ask("Enter 1/2/3/4: ")
		if err != nil {
			return "", "", err
		}
		if m, ok := choices[strings.TrimSpace(answer)]; ok {
			mode = m
			break
		}
		p.Printf("Invalid choice. Please enter 1, 2, 3, or 4.\n")
		if p.exhausted(attempt) {
			return "", "", ErrTooManyAttempts
		}
	}

	var question string
	switch mode {
	case pages.ModeFull:
		return mode, "", nil
	case pages.ModeSingle:
		question = "Enter a single page number (1-indexed): "
	case pages.ModeRange:
		question = "Enter a page range (e.g. 3-7): "
	default:
		question = "Enter a comma-separated list (e.g. 1,3,8): "
	}

	value, err := p.ask(question)
	if err != nil {
		return "", "", err
	}
	return mode, strings.TrimSpace(value), nil
}

func (p *Prompter) ask(question string) (string, error) {
	p.Printf("%s", question)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read answer: %w", err)
		}
		// A final answer without a trailing newline still counts.
		if line == "" {
			return "", ErrInputClosed
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *Prompter) exhausted(attempt int) bool {
	return p.maxAttempts > 0 && attempt >= p.maxAttempts
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
