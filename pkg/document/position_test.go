package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineIndex_PositionAt(t *testing.T) {
	// 'a', a four-byte emoji that is two UTF-16 units, 'b', newline, 'c'.
	text := "a\U0001F600b\nc"
	idx := NewLineIndex(text)

	tests := []struct {
		name   string
		offset int
		want   Position
	}{
		{name: "start", offset: 0, want: Position{Line: 0, Character: 0}},
		{name: "after emoji", offset: 5, want: Position{Line: 0, Character: 3}},
		{name: "second line", offset: 7, want: Position{Line: 1, Character: 0}},
		{name: "end", offset: len(text), want: Position{Line: 1, Character: 1}},
		{name: "negative clamps", offset: -3, want: Position{Line: 0, Character: 0}},
		{name: "past end clamps", offset: 100, want: Position{Line: 1, Character: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, idx.PositionAt(tt.offset))
		})
	}
}

func TestLineIndex_OffsetAt(t *testing.T) {
	text := "a\U0001F600b\nc"
	idx := NewLineIndex(text)

	tests := []struct {
		name string
		pos  Position
		want int
	}{
		{name: "start", pos: Position{Line: 0, Character: 0}, want: 0},
		{name: "after emoji", pos: Position{Line: 0, Character: 3}, want: 5},
		{name: "inside surrogate pair", pos: Position{Line: 0, Character: 2}, want: 5},
		{name: "past line end", pos: Position{Line: 0, Character: 99}, want: 6},
		{name: "second line", pos: Position{Line: 1, Character: 1}, want: 8},
		{name: "past last line", pos: Position{Line: 5, Character: 0}, want: len(text)},
		{name: "negative line", pos: Position{Line: -1, Character: 4}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, idx.OffsetAt(tt.pos))
		})
	}
}

func TestLineIndex_LineEndings(t *testing.T) {
	t.Run("crlf", func(t *testing.T) {
		idx := NewLineIndex("ab\r\ncd")
		assert.Equal(t, 2, len(idx.lineStarts))
		assert.Equal(t, Position{Line: 1, Character: 0}, idx.PositionAt(4))
		assert.Equal(t, 2, idx.OffsetAt(Position{Line: 0, Character: 10}))
	})

	t.Run("lone cr", func(t *testing.T) {
		idx := NewLineIndex("ab\rcd")
		assert.Equal(t, 2, len(idx.lineStarts))
		assert.Equal(t, Position{Line: 1, Character: 1}, idx.PositionAt(4))
	})

	t.Run("empty lines", func(t *testing.T) {
		idx := NewLineIndex("\n\n")
		assert.Equal(t, 3, len(idx.lineStarts))
		assert.Equal(t, 1, idx.OffsetAt(Position{Line: 1, Character: 5}))
	})
}

func TestLineIndex_RoundTrip(t *testing.T) {
	text := "Let's commence.\r\nWe utilize café \U0001F600 tools.\nEnd"
	idx := NewLineIndex(text)

	r := idx.RangeOf(6, 14)
	assert.Equal(t, Range{Start: Position{Line: 0, Character: 6}, End: Position{Line: 0, Character: 14}}, r)

	start, end := idx.Offsets(r)
	assert.Equal(t, 6, start)
	assert.Equal(t, 14, end)
}
