// Package scanner finds dictionary words in text and turns them into
// suggestion records and replacement edits.
package scanner

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Code-Monger/WordOrigin/pkg/dictionary"
)

// Match is one dictionary word found in a text. Start and End are byte
// offsets of the half-open range [Start, End).
type Match struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Text        string `json:"text"`
	Word        string `json:"word"`
	Replacement string `json:"replacement"`
}

// Scanner matches whole dictionary words, ignoring case. It is immutable
// after New and safe for concurrent use.
type Scanner struct {
	dict *dictionary.Dictionary

	// pattern finds the leftmost-longest candidate anywhere in the text;
	// prefix re-matches a shorter candidate at a fixed start.
	pattern *regexp.Regexp
	prefix  *regexp.Regexp
}

// New compiles the matcher for dict once so that scans never rebuild it.
func New(dict *dictionary.Dictionary) (*Scanner, error) {
	if dict == nil {
		return nil, fmt.Errorf("%w: dictionary is nil", dictionary.ErrInvalidDictionary)
	}

	s := &Scanner{dict: dict}
	if dict.Len() == 0 {
		return s, nil
	}

	alternation := buildAlternation(dict.Words())

	pattern, err := regexp.Compile(`(?i)(?:` + alternation + `)`)
	if err != nil {
		return nil, &dictionary.ConfigError{Reason: fmt.Sprintf("cannot compile matcher: %v", err)}
	}
	pattern.Longest()

	prefix, err := regexp.Compile(`(?i)^(?:` + alternation + `)`)
	if err != nil {
		return nil, &dictionary.ConfigError{Reason: fmt.Sprintf("cannot compile matcher: %v", err)}
	}
	prefix.Longest()

	s.pattern = pattern
	s.prefix = prefix
	return s, nil
}

// buildAlternation escapes every word and joins them longest first, so the
// pattern text is deterministic for a given dictionary.
func buildAlternation(words []string) string {
	sorted := make([]string, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})

	quoted := make([]string, len(sorted))
	for i, w := range sorted {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}

// Scan is a one-shot helper that compiles a scanner for dict and runs it.
func Scan(text string, dict *dictionary.Dictionary) ([]Match, error) {
	s, err := New(dict)
	if err != nil {
		return nil, err
	}
	return s.Scan(text), nil
}

// Dictionary returns the dictionary the scanner was built from.
func (s *Scanner) Dictionary() *dictionary.Dictionary {
	return s.dict
}

// Scan returns every whole-word dictionary match in text, in document order.
// Matches never overlap.
func (s *Scanner) Scan(text string) []Match {
	if s.pattern == nil || text == "" {
		return nil
	}

	var matches []Match
	pos := 0
	for pos < len(text) {
		loc := s.pattern.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]

		end, ok := s.fitWord(text, start, end)
		if !ok {
			_, size := utf8.DecodeRuneInString(text[start:])
			pos = start + size
			continue
		}

		if m, ok := s.record(text, start, end); ok {
			matches = append(matches, m)
		}
		pos = end
	}
	return matches
}

// fitWord checks the word boundaries of a candidate at start, falling back to
// shorter candidates at the same start when the longest one runs into a
// letter or digit.
func (s *Scanner) fitWord(text string, start, end int) (int, bool) {
	if !boundaryBefore(text, start) {
		return 0, false
	}
	for end > start {
		if boundaryAfter(text, end) {
			return end, true
		}
		_, size := utf8.DecodeLastRuneInString(text[start:end])
		loc := s.prefix.FindStringIndex(text[start : end-size])
		if loc == nil {
			return 0, false
		}
		end = start + loc[1]
	}
	return 0, false
}

func (s *Scanner) record(text string, start, end int) (Match, bool) {
	matched := text[start:end]
	word, ok := s.dict.Word(matched)
	if !ok {
		// The pattern folds case rune by rune; a spelling that full case
		// folding does not map back to a word is not reported.
		return Match{}, false
	}
	replacement, _ := s.dict.Lookup(word)
	return Match{
		Start:       start,
		End:         end,
		Text:        matched,
		Word:        word,
		Replacement: replacement,
	}, true
}

func boundaryBefore(text string, i int) bool {
	if i <= 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !dictionary.IsWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !dictionary.IsWordRune(r)
}

// MatchAt returns the match whose range contains offset, treating the end
// offset as inside the word like an editor cursor placed just after it.
func MatchAt(matches []Match, offset int) (Match, bool) {
	i := sort.Search(len(matches), func(i int) bool {
		return matches[i].End >= offset
	})
	if i < len(matches) && matches[i].Start <= offset {
		return matches[i], true
	}
	return Match{}, false
}
