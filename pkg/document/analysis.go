package document

import (
	"fmt"

	"github.com/Code-Monger/WordOrigin/pkg/dictionary"
	"github.com/Code-Monger/WordOrigin/pkg/scanner"
)

// Severity mirrors the LSP DiagnosticSeverity values.
type Severity int

const (
	SeverityError       Severity = 1
	SeverityWarning     Severity = 2
	SeverityInformation Severity = 3
	SeverityHint        Severity = 4
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Diagnostic is a finding attached to a range of a document.
type Diagnostic struct {
	Range    Range    `json:"range"`
	Severity Severity `json:"severity"`
	// Code is the dictionary word, lowercased.
	Code    string `json:"code,omitempty"`
	Source  string `json:"source"`
	Message string `json:"message"`
}

// MarkupContent is hover content.
type MarkupContent struct {
	// Kind is "plaintext" or "markdown".
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Hover is the result of hovering a dictionary word.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

// TextEdit replaces a range with new text.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// CodeActionQuickFix is the kind of every action the analyzer offers.
const CodeActionQuickFix = "quickfix"

// CodeAction is a quick fix for one diagnostic.
type CodeAction struct {
	Title       string       `json:"title"`
	Kind        string       `json:"kind"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Edits       []TextEdit   `json:"edits"`
}

// Analyzer produces editor-facing results from one scanner. It holds no
// per-document state.
type Analyzer struct {
	scanner *scanner.Scanner
}

// NewAnalyzer wraps s.
func NewAnalyzer(s *scanner.Scanner) *Analyzer {
	return &Analyzer{scanner: s}
}

// NewAnalyzerForDictionary compiles a scanner for dict and wraps it.
func NewAnalyzerForDictionary(dict *dictionary.Dictionary) (*Analyzer, error) {
	s, err := scanner.New(dict)
	if err != nil {
		return nil, err
	}
	return NewAnalyzer(s), nil
}

// Dictionary returns the dictionary behind the analyzer.
func (a *Analyzer) Dictionary() *dictionary.Dictionary {
	return a.scanner.Dictionary()
}

// Highlights returns the range of every match.
func (a *Analyzer) Highlights(text string) []Range {
	matches := a.scanner.Scan(text)
	if len(matches) == 0 {
		return nil
	}

	idx := NewLineIndex(text)
	ranges := make([]Range, len(matches))
	for i, m := range matches {
		ranges[i] = idx.RangeOf(m.Start, m.End)
	}
	return ranges
}

// Diagnostics returns one Warning per match.
func (a *Analyzer) Diagnostics(text string) []Diagnostic {
	matches := a.scanner.Scan(text)
	if len(matches) == 0 {
		return nil
	}

	idx := NewLineIndex(text)
	diags := make([]Diagnostic, len(matches))
	for i, m := range matches {
		diags[i] = diagnosticFor(idx, m)
	}
	return diags
}

func diagnosticFor(idx *LineIndex, m scanner.Match) Diagnostic {
	return Diagnostic{
		Range:    idx.RangeOf(m.Start, m.End),
		Severity: SeverityWarning,
		Code:     m.Word,
		Source:   scanner.Source,
		Message:  scanner.WarningMessage(m),
	}
}

// Hover returns the suggestion for the match at pos. The second result is
// false when pos is not inside a match or just after one.
func (a *Analyzer) Hover(text string, pos Position) (Hover, bool) {
	idx := NewLineIndex(text)
	m, ok := scanner.MatchAt(a.scanner.Scan(text), idx.OffsetAt(pos))
	if !ok {
		return Hover{}, false
	}

	r := idx.RangeOf(m.Start, m.End)
	return Hover{
		Contents: MarkupContent{Kind: "markdown", Value: scanner.HoverMessage(m.Replacement)},
		Range:    &r,
	}, true
}

// QuickFixes returns at most one action per diagnostic. Diagnostics from
// other sources are ignored, as are ranges whose current text is no longer
// a dictionary word.
func (a *Analyzer) QuickFixes(text string, diagnostics []Diagnostic) []CodeAction {
	idx := NewLineIndex(text)
	dict := a.scanner.Dictionary()

	var actions []CodeAction
	for _, d := range diagnostics {
		if d.Source != scanner.Source {
			continue
		}
		start, end := idx.Offsets(d.Range)
		if start >= end {
			continue
		}
		replacement, ok := dict.Lookup(text[start:end])
		if !ok {
			continue
		}

		m := scanner.Match{Start: start, End: end, Text: text[start:end], Replacement: replacement}
		actions = append(actions, CodeAction{
			Title:       scanner.QuickFixLabel(m),
			Kind:        CodeActionQuickFix,
			Diagnostics: []Diagnostic{d},
			Edits:       []TextEdit{{Range: d.Range, NewText: replacement}},
		})
	}
	return actions
}

// QuickFixesAt returns the quick fixes for the diagnostics touching pos.
func (a *Analyzer) QuickFixesAt(text string, pos Position) []CodeAction {
	idx := NewLineIndex(text)
	offset := idx.OffsetAt(pos)

	var touching []Diagnostic
	for _, m := range a.scanner.Scan(text) {
		if m.Start <= offset && offset <= m.End {
			touching = append(touching, diagnosticFor(idx, m))
		}
	}
	return a.QuickFixes(text, touching)
}

// FixAll replaces every match and returns the new text with the number of
// replacements made.
func (a *Analyzer) FixAll(text string) (string, int, error) {
	matches := a.scanner.Scan(text)
	if len(matches) == 0 {
		return text, 0, nil
	}

	fixed, err := scanner.ApplyEdits(text, scanner.Edits(matches))
	if err != nil {
		return "", 0, err
	}
	return fixed, len(matches), nil
}
