// Package pages turns a page-selection mode and the user's raw input into the
// list of 1-indexed pages to send for OCR.
//
// Selection modes:
//   - full:   every page of the document
//   - single: one page number, e.g. "5"
//   - range:  an inclusive "start-end" pair, e.g. "3-7"
//   - list:   comma-separated page numbers, e.g. "1,3,8"
//
// Every non-full result is clamped to [1, total], deduplicated and sorted.
// An out-of-bounds selection therefore yields an empty list, which callers
// treat as "fall back to the full document".
package pages

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Mode selects how the raw input is interpreted.
type Mode string

const (
	ModeFull   Mode = "full"
	ModeSingle Mode = "single"
	ModeRange  Mode = "range"
	ModeList   Mode = "list"
)

var (
	// ErrInvalidMode is returned for a mode outside full/single/range/list.
	ErrInvalidMode = errors.New("invalid page selection mode")

	// ErrInvalidNumber is returned when a token is not an integer.
	ErrInvalidNumber = errors.New("invalid page number")

	// ErrInvalidRange is returned when range input has no hyphen.
	ErrInvalidRange = errors.New("page range must look like start-end")
)

// SelectorError describes input that could not be parsed for a mode.
type SelectorError struct {
	Mode  Mode
	Input string
	Err   error
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("pages: cannot parse %q as %s selection: %v", e.Input, e.Mode, e.Err)
}

func (e *SelectorError) Unwrap() error {
	return e.Err
}

// All returns [1..total]. It returns an empty, non-nil slice when total < 1.
func All(total int) []int {
	if total < 1 {
		return []int{}
	}
	pages := make([]int, total)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Parse converts mode and raw input into an ascending list of unique pages
// within [1, total].
//
// Range input is split on the first hyphen only: "3-7-9" is read as start "3"
// and end "7-9", and fails because "7-9" is not a number.
func Parse(mode Mode, raw string, total int) ([]int, error) {
	var pages []int

	switch mode {
	case ModeFull:
		return All(total), nil

	case ModeSingle:
		n, err := atoi(raw, total)
		if err != nil {
			return nil, &SelectorError{Mode: mode, Input: raw, Err: err}
		}
		pages = []int{n}

	case ModeRange:
		startRaw, endRaw, ok := strings.Cut(raw, "-")
		if !ok {
			return nil, &SelectorError{Mode: mode, Input: raw, Err: ErrInvalidRange}
		}
		start, err := atoi(startRaw, total)
		if err != nil {
			return nil, &SelectorError{Mode: mode, Input: raw, Err: err}
		}
		end, err := atoi(endRaw, total)
		if err != nil {
			return nil, &SelectorError{Mode: mode, Input: raw, Err: err}
		}
		// Clamp before expanding so a huge range does not allocate.
		if start < 1 {
			start = 1
		}
		if end > total {
			end = total
		}
		for p := start; p <= end; p++ {
			pages = append(pages, p)
		}

	case ModeList:
		for _, token := range strings.Split(raw, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			n, err := atoi(token, total)
			if err != nil {
				return nil, &SelectorError{Mode: mode, Input: raw, Err: err}
			}
			pages = append(pages, n)
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	return normalize(pages, total), nil
}

func normalize(pages []int, total int) []int {
	seen := make(map[int]struct{}, len(pages))
	out := make([]int, 0, len(pages))
	for _, p := range pages {
		if p < 1 || p > total {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// atoi parses a page number. A well-formed integer too large for int maps to
// a page just outside [1, total] on the same side, so it is filtered like any
// other out-of-range page instead of failing the selection.
func atoi(s string, total int) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(s, "-") {
			return 0, nil
		}
		return total + 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return n, nil
}
