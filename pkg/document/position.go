// Package document turns scan results into editor-facing values: ranges,
// diagnostics, hovers and quick fixes in LSP-style line/character
// coordinates.
package document

import (
	"sort"
	"unicode/utf8"
)

// Position is a zero-based line and character offset. Character counts
// UTF-16 code units, as the Language Server Protocol does.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// LineIndex converts between byte offsets and positions in one text snapshot.
type LineIndex struct {
	text       string
	lineStarts []int
}

// NewLineIndex records the start offset of every line in text. "\n", "\r\n"
// and a lone "\r" all end a line.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			starts = append(starts, i+1)
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, lineStarts: starts}
}

// PositionAt maps a byte offset to a position. Offsets outside the text are
// clamped to its ends.
func (li *LineIndex) PositionAt(offset int) Position {
	offset = clamp(offset, 0, len(li.text))

	line := sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > offset
	}) - 1

	char := 0
	for _, r := range li.text[li.lineStarts[line]:offset] {
		char += utf16Len(r)
	}
	return Position{Line: line, Character: char}
}

// OffsetAt maps a position back to a byte offset. Lines past the end clamp
// to the end of the text; characters past the end of a line clamp to the
// line end.
func (li *LineIndex) OffsetAt(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(li.lineStarts) {
		return len(li.text)
	}

	start := li.lineStarts[pos.Line]
	end := li.lineEnd(pos.Line)

	offset := start
	units := 0
	for offset < end && units < pos.Character {
		r, size := utf8.DecodeRuneInString(li.text[offset:end])
		units += utf16Len(r)
		offset += size
	}
	return offset
}

// RangeOf converts a byte range to a position range.
func (li *LineIndex) RangeOf(start, end int) Range {
	return Range{Start: li.PositionAt(start), End: li.PositionAt(end)}
}

// Offsets converts a position range back to byte offsets.
func (li *LineIndex) Offsets(r Range) (int, int) {
	return li.OffsetAt(r.Start), li.OffsetAt(r.End)
}

// lineEnd returns the offset of the line terminator of line, or the text
// length for the last line.
func (li *LineIndex) lineEnd(line int) int {
	if line+1 >= len(li.lineStarts) {
		return len(li.text)
	}
	end := li.lineStarts[line+1] - 1
	if end > li.lineStarts[line] && li.text[end] == '\n' && li.text[end-1] == '\r' {
		end--
	}
	return end
}

func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
