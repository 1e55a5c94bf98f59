package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Code-Monger/WordOrigin/pkg/dictionary"
)

func newScanner(t *testing.T, m map[string]string) *Scanner {
	t.Helper()
	d, err := dictionary.New(m)
	require.NoError(t, err)
	s, err := New(d)
	require.NoError(t, err)
	return s
}

func TestScan_DocumentOrder(t *testing.T) {
	s := newScanner(t, map[string]string{"utilize": "use", "commence": "begin"})
	text := "Let's commence and utilize the tool."

	matches := s.Scan(text)
	require.Len(t, matches, 2)

	assert.Equal(t, Match{
		Start:       strings.Index(text, "commence"),
		End:         strings.Index(text, "commence") + len("commence"),
		Text:        "commence",
		Word:        "commence",
		Replacement: "begin",
	}, matches[0])
	assert.Equal(t, Match{
		Start:       strings.Index(text, "utilize"),
		End:         strings.Index(text, "utilize") + len("utilize"),
		Text:        "utilize",
		Word:        "utilize",
		Replacement: "use",
	}, matches[1])
}

func TestScan_CaseInsensitive(t *testing.T) {
	s := newScanner(t, map[string]string{"utilize": "use"})

	for _, text := range []string{"utilize", "UTILIZE", "Utilize", "uTiLiZe"} {
		t.Run(text, func(t *testing.T) {
			matches := s.Scan(text)
			require.Len(t, matches, 1)
			assert.Equal(t, 0, matches[0].Start)
			assert.Equal(t, len(text), matches[0].End)
			assert.Equal(t, text, matches[0].Text)
			assert.Equal(t, "utilize", matches[0].Word)
			assert.Equal(t, "use", matches[0].Replacement)
		})
	}
}

func TestScan_WholeWords(t *testing.T) {
	s := newScanner(t, map[string]string{"utilize": "use"})

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "longer word", text: "utilization", want: nil},
		{name: "prefix letters", text: "reutilize", want: nil},
		{name: "trailing digit", text: "utilize2", want: nil},
		{name: "leading digit", text: "2utilize", want: nil},
		{name: "hyphenated", text: "co-utilize", want: []string{"utilize"}},
		{name: "apostrophe", text: "utilize's", want: []string{"utilize"}},
		{name: "underscore", text: "_utilize_", want: []string{"utilize"}},
		{name: "punctuation", text: "(utilize), utilize!", want: []string{"utilize", "utilize"}},
		{name: "adjacent words", text: "utilize utilize", want: []string{"utilize", "utilize"}},
		{name: "accented neighbour", text: "éutilize", want: nil},
		{name: "newline separated", text: "one\nutilize\ntwo", want: []string{"utilize"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, m := range s.Scan(tt.text) {
				got = append(got, m.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScan_EmptyInputs(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		s := newScanner(t, map[string]string{"utilize": "use"})
		assert.Empty(t, s.Scan(""))
	})

	t.Run("empty dictionary", func(t *testing.T) {
		s := newScanner(t, map[string]string{})
		assert.Empty(t, s.Scan("utilize everything"))
	})

	t.Run("nil dictionary", func(t *testing.T) {
		_, err := New(nil)
		assert.ErrorIs(t, err, dictionary.ErrInvalidDictionary)
	})
}

func TestScan_LongestCandidateFallsBack(t *testing.T) {
	s := newScanner(t, map[string]string{
		"in order":    "so",
		"in order to": "to",
	})

	t.Run("longest wins", func(t *testing.T) {
		matches := s.Scan("in order to win")
		require.Len(t, matches, 1)
		assert.Equal(t, "in order to", matches[0].Text)
		assert.Equal(t, "to", matches[0].Replacement)
	})

	t.Run("shorter candidate when longest is not a whole word", func(t *testing.T) {
		matches := s.Scan("in order today")
		require.Len(t, matches, 1)
		assert.Equal(t, "in order", matches[0].Text)
		assert.Equal(t, 0, matches[0].Start)
		assert.Equal(t, len("in order"), matches[0].End)
	})
}

func TestScan_EscapesPatternCharacters(t *testing.T) {
	s := newScanner(t, map[string]string{"e.g": "for example", "a+b": "sum"})

	matches := s.Scan("egg a+b eXg e.g.")
	require.Len(t, matches, 2)
	assert.Equal(t, "a+b", matches[0].Text)
	assert.Equal(t, "e.g", matches[1].Text)
}

func TestScan_NonASCII(t *testing.T) {
	s := newScanner(t, map[string]string{"café": "coffee shop"})

	matches := s.Scan("Le CAFÉ, cafés et café.")
	require.Len(t, matches, 2)
	assert.Equal(t, "CAFÉ", matches[0].Text)
	assert.Equal(t, "café", matches[1].Text)
	assert.Equal(t, "coffee shop", matches[1].Replacement)
}

func TestScan_FullCaseFolding(t *testing.T) {
	// Lowercasing "ΛΟΓΟΣ" gives "λογοσ" with a medial sigma; folding maps
	// both sigmas to the same letter.
	s := newScanner(t, map[string]string{"λογος": "word"})

	matches := s.Scan("ΛΟΓΟΣ, λογος, Λογος")
	require.Len(t, matches, 3)
	for _, m := range matches {
		assert.Equal(t, "λογος", m.Word)
		assert.Equal(t, "word", m.Replacement)
	}
	assert.Equal(t, "ΛΟΓΟΣ", matches[0].Text)
}

func TestScan_Invariants(t *testing.T) {
	m := map[string]string{
		"utilize":   "use",
		"commence":  "begin",
		"terminate": "end",
		"assist":    "help",
		"purchase":  "buy",
	}
	s := newScanner(t, m)

	texts := []string{
		"We commence, utilize, and terminate. Commencement is not a word here.",
		"ASSIST-assist_assist'assist purchase purchased repurchase",
		strings.Repeat("utilize commence ", 50),
		"no dictionary words at all",
		"ünïcödé utilize ñ terminate",
	}

	for _, text := range texts {
		matches := s.Scan(text)
		prevEnd := -1
		for _, match := range matches {
			require.GreaterOrEqual(t, match.Start, 0)
			require.LessOrEqual(t, match.End, len(text))
			assert.GreaterOrEqual(t, match.Start, prevEnd, "matches must not overlap")
			prevEnd = match.End

			word := strings.ToLower(text[match.Start:match.End])
			replacement, ok := m[word]
			require.True(t, ok, "%q is not a dictionary word", word)
			assert.Equal(t, replacement, match.Replacement)
		}

		assert.Equal(t, matches, s.Scan(text), "rescanning must be deterministic")
	}
}

func TestScan_FixedTextHasNoMatches(t *testing.T) {
	s := newScanner(t, map[string]string{"utilize": "use", "commence": "begin"})
	text := "Let's commence and utilize the tool. UTILIZE it again."

	fixed, err := ApplyEdits(text, Edits(s.Scan(text)))
	require.NoError(t, err)

	assert.Equal(t, "Let's begin and use the tool. use it again.", fixed)
	assert.Empty(t, s.Scan(fixed))
}

func TestScanHelper(t *testing.T) {
	d, err := dictionary.New(map[string]string{"utilize": "use"})
	require.NoError(t, err)

	matches, err := Scan("utilize", d)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestMatchAt(t *testing.T) {
	s := newScanner(t, map[string]string{"utilize": "use", "commence": "begin"})
	text := "Let's commence and utilize the tool."
	matches := s.Scan(text)

	utilize := strings.Index(text, "utilize")

	tests := []struct {
		name   string
		offset int
		want   string
		found  bool
	}{
		{name: "start of word", offset: utilize, want: "utilize", found: true},
		{name: "inside word", offset: utilize + 3, want: "utilize", found: true},
		{name: "just after word", offset: utilize + len("utilize"), want: "utilize", found: true},
		{name: "other word", offset: 1, found: false},
		{name: "between words", offset: strings.Index(text, "and") + 1, found: false},
		{name: "past end", offset: len(text) + 10, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := MatchAt(matches, tt.offset)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, m.Word)
			}
		})
	}
}

func TestFormatting(t *testing.T) {
	m := Match{Text: "Utilize", Word: "utilize", Replacement: "use"}

	assert.Equal(t, `Word of Latin, Greek, or French origin. Consider replacing with "use"`, WarningMessage(m))
	assert.Equal(t, `Replace with "use"`, QuickFixLabel(m))
	assert.Equal(t, `Consider using "**use**" instead.`, HoverMessage(m.Replacement))
}
