// Package dictionary holds the immutable word → replacement mapping that drives
// word-origin scanning.
package dictionary

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/sajari/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidDictionary is wrapped by every configuration error raised while
// building a dictionary.
var ErrInvalidDictionary = errors.New("invalid replacement dictionary")

// ConfigError describes a malformed dictionary entry.
type ConfigError struct {
	Source string // file name or "embedded"; empty for in-memory maps
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("dictionary")
	if e.Source != "" {
		b.WriteString(" ")
		b.WriteString(e.Source)
	}
	if e.Key != "" {
		fmt.Fprintf(&b, ": key %q", e.Key)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidDictionary
}

// Entry is one dictionary word and its suggested replacement.
type Entry struct {
	Word        string `json:"word" yaml:"word"`
	Replacement string `json:"replacement" yaml:"replacement"`
}

// Dictionary is a read-only mapping from lowercase word to replacement.
// The zero value is not usable; construct one with New, Parse or LoadFile.
type Dictionary struct {
	entries map[string]string
	words   []string
	// folded maps the case-folded form of every word to the word.
	folded map[string]string

	fuzzyOnce  sync.Once
	fuzzyModel *fuzzy.Model
}

// New validates m and returns a dictionary holding a private copy of it.
// Keys are NFC-normalized and lowercased; replacements are NFC-normalized and
// trimmed. An empty map is valid and yields an empty dictionary.
func New(m map[string]string) (*Dictionary, error) {
	return build("", m)
}

func build(source string, m map[string]string) (*Dictionary, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make(map[string]string, len(m))
	folded := make(map[string]string, len(m))
	origin := make(map[string]string, len(m))
	for _, raw := range keys {
		if !utf8.ValidString(raw) {
			return nil, &ConfigError{Source: source, Key: raw, Reason: "key is not valid UTF-8"}
		}
		key := Normalize(raw)
		if err := validateKey(key); err != nil {
			return nil, &ConfigError{Source: source, Key: raw, Reason: err.Error()}
		}
		fold := Fold(key)
		if prev, dup := origin[fold]; dup {
			return nil, &ConfigError{Source: source, Key: raw, Reason: fmt.Sprintf("collides with %q after normalization", prev)}
		}

		if !utf8.ValidString(m[raw]) {
			return nil, &ConfigError{Source: source, Key: raw, Reason: "replacement is not valid UTF-8"}
		}
		replacement := strings.TrimSpace(norm.NFC.String(m[raw]))
		if replacement == "" {
			return nil, &ConfigError{Source: source, Key: raw, Reason: "replacement is empty"}
		}

		origin[fold] = raw
		folded[fold] = key
		entries[key] = replacement
	}

	words := make([]string, 0, len(entries))
	for w := range entries {
		words = append(words, w)
	}
	sort.Strings(words)

	return &Dictionary{entries: entries, words: words, folded: folded}, nil
}

// validateKey rejects keys that cannot be matched as whole words.
func validateKey(key string) error {
	if key == "" {
		return errors.New("key is empty")
	}
	for _, r := range key {
		if unicode.IsControl(r) || r == '\u2028' || r == '\u2029' {
			return fmt.Errorf("key contains control character %U", r)
		}
	}
	first, _ := utf8.DecodeRuneInString(key)
	last, _ := utf8.DecodeLastRuneInString(key)
	if !IsWordRune(first) || !IsWordRune(last) || unicode.IsMark(first) {
		return errors.New("key must begin and end with a letter or digit")
	}
	return nil
}

// IsWordRune reports whether r can be part of a word. Combining marks count
// so that decomposed accents do not split a word.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// Normalize maps a word to the form used for dictionary keys.
func Normalize(word string) string {
	return norm.NFC.String(strings.ToLower(word))
}

// Fold maps a word to the form used to compare it with dictionary words.
// Unlike Normalize it applies full Unicode case folding, so every spelling
// that differs only in case folds to the same string ("ΛΟΓΟΣ" and "λογος").
func Fold(word string) string {
	return norm.NFC.String(cases.Fold().String(word))
}

// Word returns the dictionary word that word spells, ignoring case.
func (d *Dictionary) Word(word string) (string, bool) {
	if d == nil {
		return "", false
	}
	key, ok := d.folded[Fold(word)]
	return key, ok
}

// Lookup returns the replacement for word, ignoring case.
func (d *Dictionary) Lookup(word string) (string, bool) {
	key, ok := d.Word(word)
	if !ok {
		return "", false
	}
	return d.entries[key], true
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Words returns the dictionary words in sorted order.
func (d *Dictionary) Words() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.words))
	copy(out, d.words)
	return out
}

// Entries returns all entries sorted by word.
func (d *Dictionary) Entries() []Entry {
	if d == nil {
		return nil
	}
	out := make([]Entry, 0, len(d.words))
	for _, w := range d.words {
		out = append(out, Entry{Word: w, Replacement: d.entries[w]})
	}
	return out
}

// Map returns a copy of the underlying mapping.
func (d *Dictionary) Map() map[string]string {
	out := make(map[string]string, d.Len())
	if d == nil {
		return out
	}
	for k, v := range d.entries {
		out[k] = v
	}
	return out
}
