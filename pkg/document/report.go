package document

import (
	"fmt"
	"strings"
)

// Report is the diagnostics found in one named document. Highlights, when
// set, holds the range of every match for callers that only decorate.
type Report struct {
	Path        string       `json:"path"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Highlights  []Range      `json:"highlights,omitempty"`
}

// FormatDiagnostic renders d as "name:line:col: severity: message [code]"
// with one-based line and column, the layout compilers and linters use.
func FormatDiagnostic(name string, d Diagnostic) string {
	s := fmt.Sprintf("%s:%d:%d: %s: %s", name, d.Range.Start.Line+1, d.Range.Start.Character+1, d.Severity, d.Message)
	if d.Code != "" {
		s += " [" + d.Code + "]"
	}
	return s
}

// FormatReport renders every diagnostic of r on its own line.
func FormatReport(r Report) string {
	var b strings.Builder
	for _, d := range r.Diagnostics {
		b.WriteString(FormatDiagnostic(r.Path, d))
		b.WriteByte('\n')
	}
	return b.String()
}
