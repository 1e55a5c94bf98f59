package scanner

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	// ErrOverlappingEdits is returned when two edits in one batch share bytes.
	ErrOverlappingEdits = errors.New("overlapping edits")

	// ErrEditOutOfRange is returned when an edit falls outside the text or
	// splits a UTF-8 sequence.
	ErrEditOutOfRange = errors.New("edit out of range")
)

// TextEdit replaces the byte range [Start, End) with NewText.
type TextEdit struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	NewText string `json:"new_text"`
}

// EditFor returns the edit that swaps a match for its replacement.
func EditFor(m Match) TextEdit {
	return TextEdit{Start: m.Start, End: m.End, NewText: m.Replacement}
}

// Edits returns one edit per match, in the same order.
func Edits(matches []Match) []TextEdit {
	edits := make([]TextEdit, len(matches))
	for i, m := range matches {
		edits[i] = EditFor(m)
	}
	return edits
}

// ApplyEdits applies a batch of edits computed against the same text. The
// order of edits does not matter; text outside the edited ranges is kept.
func ApplyEdits(text string, edits []TextEdit) (string, error) {
	if len(edits) == 0 {
		return text, nil
	}

	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(text) {
			return "", fmt.Errorf("%w: [%d, %d) in text of length %d", ErrEditOutOfRange, e.Start, e.End, len(text))
		}
		if !onRuneBoundary(text, e.Start) || !onRuneBoundary(text, e.End) {
			return "", fmt.Errorf("%w: [%d, %d) splits a character", ErrEditOutOfRange, e.Start, e.End)
		}
		if i > 0 && e.Start < sorted[i-1].End {
			return "", fmt.Errorf("%w: [%d, %d) and [%d, %d)", ErrOverlappingEdits,
				sorted[i-1].Start, sorted[i-1].End, e.Start, e.End)
		}
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, e := range sorted {
		b.WriteString(text[last:e.Start])
		b.WriteString(e.NewText)
		last = e.End
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

func onRuneBoundary(text string, i int) bool {
	return i == len(text) || utf8.RuneStart(text[i])
}
