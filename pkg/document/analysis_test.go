package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Code-Monger/WordOrigin/pkg/dictionary"
)

const sampleText = "Let's commence.\nWe utilize it."

func newAnalyzer(t *testing.T, m map[string]string) *Analyzer {
	t.Helper()
	d, err := dictionary.New(m)
	require.NoError(t, err)
	a, err := NewAnalyzerForDictionary(d)
	require.NoError(t, err)
	return a
}

func sampleAnalyzer(t *testing.T) *Analyzer {
	return newAnalyzer(t, map[string]string{"utilize": "use", "commence": "begin"})
}

func rng(l1, c1, l2, c2 int) Range {
	return Range{Start: Position{Line: l1, Character: c1}, End: Position{Line: l2, Character: c2}}
}

func TestAnalyzer_Highlights(t *testing.T) {
	a := sampleAnalyzer(t)

	assert.Equal(t, []Range{rng(0, 6, 0, 14), rng(1, 3, 1, 10)}, a.Highlights(sampleText))
	assert.Empty(t, a.Highlights("nothing to see"))
	assert.Empty(t, a.Highlights(""))
}

func TestAnalyzer_Diagnostics(t *testing.T) {
	a := sampleAnalyzer(t)

	diags := a.Diagnostics(sampleText)
	require.Len(t, diags, 2)

	assert.Equal(t, Diagnostic{
		Range:    rng(0, 6, 0, 14),
		Severity: SeverityWarning,
		Code:     "commence",
		Source:   "wordOrigin",
		Message:  `Word of Latin, Greek, or French origin. Consider replacing with "begin"`,
	}, diags[0])
	assert.Equal(t, rng(1, 3, 1, 10), diags[1].Range)
	assert.Equal(t, "utilize", diags[1].Code)
}

func TestAnalyzer_DiagnosticsLowercaseCode(t *testing.T) {
	a := sampleAnalyzer(t)

	diags := a.Diagnostics("UTILIZE")
	require.Len(t, diags, 1)
	assert.Equal(t, "utilize", diags[0].Code)
}

func TestAnalyzer_Hover(t *testing.T) {
	a := sampleAnalyzer(t)

	tests := []struct {
		name  string
		pos   Position
		found bool
	}{
		{name: "inside utilize", pos: Position{Line: 1, Character: 5}, found: true},
		{name: "start of utilize", pos: Position{Line: 1, Character: 3}, found: true},
		{name: "just after utilize", pos: Position{Line: 1, Character: 10}, found: true},
		{name: "inside Let's", pos: Position{Line: 0, Character: 1}, found: false},
		{name: "past utilize", pos: Position{Line: 1, Character: 11}, found: false},
		{name: "past the document", pos: Position{Line: 9, Character: 0}, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := a.Hover(sampleText, tt.pos)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, "markdown", h.Contents.Kind)
				assert.Contains(t, h.Contents.Value, "use")
				require.NotNil(t, h.Range)
				assert.Equal(t, rng(1, 3, 1, 10), *h.Range)
			}
		})
	}
}

func TestAnalyzer_QuickFixes(t *testing.T) {
	a := sampleAnalyzer(t)
	diags := a.Diagnostics(sampleText)

	t.Run("one action per diagnostic", func(t *testing.T) {
		actions := a.QuickFixes(sampleText, diags)
		require.Len(t, actions, 2)

		assert.Equal(t, `Replace with "begin"`, actions[0].Title)
		assert.Equal(t, CodeActionQuickFix, actions[0].Kind)
		assert.Equal(t, []Diagnostic{diags[0]}, actions[0].Diagnostics)
		assert.Equal(t, []TextEdit{{Range: rng(0, 6, 0, 14), NewText: "begin"}}, actions[0].Edits)

		assert.Equal(t, `Replace with "use"`, actions[1].Title)
	})

	t.Run("other sources ignored", func(t *testing.T) {
		foreign := diags[0]
		foreign.Source = "cSpell"
		assert.Empty(t, a.QuickFixes(sampleText, []Diagnostic{foreign}))
	})

	t.Run("stale range skipped", func(t *testing.T) {
		edited := "Let's begin.\nWe utilize it."
		actions := a.QuickFixes(edited, diags)
		require.Len(t, actions, 1)
		assert.Equal(t, `Replace with "use"`, actions[0].Title)
	})

	t.Run("no diagnostics", func(t *testing.T) {
		assert.Empty(t, a.QuickFixes(sampleText, nil))
	})
}

func TestAnalyzer_QuickFixesAt(t *testing.T) {
	a := sampleAnalyzer(t)

	actions := a.QuickFixesAt(sampleText, Position{Line: 1, Character: 4})
	require.Len(t, actions, 1)
	assert.Equal(t, `Replace with "use"`, actions[0].Title)

	assert.Empty(t, a.QuickFixesAt(sampleText, Position{Line: 0, Character: 2}))
}

func TestAnalyzer_FixAll(t *testing.T) {
	a := sampleAnalyzer(t)

	fixed, n, err := a.FixAll(sampleText)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "Let's begin.\nWe use it.", fixed)
	assert.Empty(t, a.Diagnostics(fixed))

	fixed, n, err = a.FixAll("plain words")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, "plain words", fixed)
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "info", SeverityInformation.String())
	assert.Equal(t, "severity(9)", Severity(9).String())
}
