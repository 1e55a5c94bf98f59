package wordorigin

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Code-Monger/WordOrigin/pkg/document"
	"github.com/Code-Monger/WordOrigin/pkg/stats"
)

// NoSuggestion is returned when a position or word has nothing to offer.
const NoSuggestion = "No suggestion"

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return textResult(string(data)), nil
}

// HandleScan reports every dictionary word in a document.
func (s *Service) HandleScan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments

	in, err := s.readInput(arguments)
	if err != nil {
		return nil, err
	}
	format, err := readFormat(arguments)
	if err != nil {
		return nil, err
	}

	analyzer := s.Analyzer()
	report := document.Report{Path: in.name(), Diagnostics: analyzer.Diagnostics(in.text)}
	if report.Diagnostics == nil {
		report.Diagnostics = []document.Diagnostic{}
	}
	stats.RecordMatches(ToolScan, len(report.Diagnostics))
	log.Printf("[WordOrigin] Scanned %s: %d matches", report.Path, len(report.Diagnostics))

	if format == "json" {
		report.Highlights = analyzer.Highlights(in.text)
		return jsonResult(report)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d words of Latin, Greek, or French origin in %s\n", len(report.Diagnostics), report.Path)
	if len(report.Diagnostics) > 0 {
		b.WriteString("\n")
		b.WriteString(document.FormatReport(report))
	}
	return textResult(b.String()), nil
}

// HandleHover returns the suggestion for the word at a position.
func (s *Service) HandleHover(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments

	in, err := s.readInput(arguments)
	if err != nil {
		return nil, err
	}
	pos, err := readPosition(arguments)
	if err != nil {
		return nil, err
	}

	hover, ok := s.Analyzer().Hover(in.text, pos)
	if !ok {
		return textResult(NoSuggestion), nil
	}
	stats.RecordMatches(ToolHover, 1)
	return textResult(hover.Contents.Value), nil
}

// HandleQuickFix lists the quick fixes for the diagnostics at a position.
func (s *Service) HandleQuickFix(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments

	in, err := s.readInput(arguments)
	if err != nil {
		return nil, err
	}
	pos, err := readPosition(arguments)
	if err != nil {
		return nil, err
	}
	format, err := readFormat(arguments)
	if err != nil {
		return nil, err
	}

	actions := s.Analyzer().QuickFixesAt(in.text, pos)
	stats.RecordMatches(ToolQuickFix, len(actions))

	if format == "json" {
		if actions == nil {
			actions = []document.CodeAction{}
		}
		return jsonResult(actions)
	}
	if len(actions) == 0 {
		return textResult(NoSuggestion), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Quick fixes at line %d, character %d:\n\n", pos.Line+1, pos.Character+1)
	for i, action := range actions {
		r := action.Edits[0].Range
		fmt.Fprintf(&b, "%d. %s (line %d, characters %d-%d)\n", i+1, action.Title,
			r.Start.Line+1, r.Start.Character+1, r.End.Character+1)
	}
	return textResult(b.String()), nil
}

// HandleFix replaces every dictionary word. A file is only written when
// preview is false.
func (s *Service) HandleFix(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments

	in, err := s.readInput(arguments)
	if err != nil {
		return nil, err
	}
	preview := true
	if previewBool, ok := arguments["preview"].(bool); ok {
		preview = previewBool
	}

	fixed, n, err := s.Analyzer().FixAll(in.text)
	if err != nil {
		return nil, fmt.Errorf("fixing %s: %w", in.name(), err)
	}
	stats.RecordMatches(ToolFix, n)

	var b strings.Builder
	fmt.Fprintf(&b, "Replaced %d words in %s\n", n, in.name())

	if !preview && in.path != "" && n > 0 {
		if err := writeFile(in.path, fixed); err != nil {
			return nil, err
		}
		log.Printf("[WordOrigin] Wrote %d replacements to %s", n, in.path)
		fmt.Fprintf(&b, "Wrote %s\n", in.path)
	} else if in.path != "" {
		b.WriteString("Preview only, file not written\n")
	}

	b.WriteString("\n")
	b.WriteString(fixed)
	return textResult(b.String()), nil
}

// writeFile replaces the contents of path, keeping its permissions.
func writeFile(path, text string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// HandleLookup returns the replacement for one word, or the closest
// dictionary words when it is not a key.
func (s *Service) HandleLookup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, ok := request.Params.Arguments["word"].(string)
	if !ok || strings.TrimSpace(word) == "" {
		return nil, fmt.Errorf("word must be a non-empty string")
	}
	word = strings.TrimSpace(word)

	dict := s.Analyzer().Dictionary()
	if replacement, ok := dict.Lookup(word); ok {
		return textResult(fmt.Sprintf("%q: %s", word, replacement)), nil
	}

	closest := dict.Closest(word, 5)
	if len(closest) == 0 {
		return textResult(fmt.Sprintf("%s for %q", NoSuggestion, word)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s for %q. Closest dictionary words:\n", NoSuggestion, word)
	for _, w := range closest {
		replacement, _ := dict.Lookup(w)
		fmt.Fprintf(&b, "- %s: %s\n", w, replacement)
	}
	return textResult(b.String()), nil
}

// HandleDictionaryResource returns the active dictionary as JSON.
func (s *Service) HandleDictionaryResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(s.Analyzer().Dictionary().Map(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding dictionary: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
