package tools

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/client"

	"github.com/Code-Monger/WordOrigin/pkg/wordorigin"
)

// TestScan scans the sample text in both output formats.
func TestScan(ctx context.Context, c client.MCPClient) error {
	testCases := []struct {
		name      string
		arguments map[string]interface{}
	}{
		{
			name:      "Text report",
			arguments: map[string]interface{}{"text": SampleText},
		},
		{
			name:      "JSON report",
			arguments: map[string]interface{}{"text": SampleText, "format": "json"},
		},
		{
			name:      "Clean text",
			arguments: map[string]interface{}{"text": "We will start the meeting at noon."},
		},
	}

	for _, tc := range testCases {
		log.Printf("Running scan test: %s", tc.name)
		if _, err := callTool(ctx, c, wordorigin.ToolScan, tc.arguments); err != nil {
			return err
		}
	}
	return nil
}

// TestHover asks for the suggestion under a few positions of the sample text.
func TestHover(ctx context.Context, c client.MCPClient) error {
	positions := []struct {
		line, character int
	}{
		{0, 10}, // commence
		{1, 9},  // utilize
		{2, 2},  // Naïve
		{0, 0},  // We
	}

	for _, p := range positions {
		log.Printf("Running hover test at %d:%d", p.line, p.character)
		_, err := callTool(ctx, c, wordorigin.ToolHover, map[string]interface{}{
			"text":      SampleText,
			"line":      float64(p.line),
			"character": float64(p.character),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// TestQuickFix lists the fixes for one word of the sample text.
func TestQuickFix(ctx context.Context, c client.MCPClient) error {
	for _, format := range []string{"text", "json"} {
		log.Printf("Running quick fix test: %s output", format)
		_, err := callTool(ctx, c, wordorigin.ToolQuickFix, map[string]interface{}{
			"text":      SampleText,
			"line":      1.0,
			"character": 9.0,
			"format":    format,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// TestFix previews a fix of the sample text, then fixes a file in place.
func TestFix(ctx context.Context, c client.MCPClient) error {
	log.Printf("Running fix test: preview")
	if _, err := callTool(ctx, c, wordorigin.ToolFix, map[string]interface{}{"text": SampleText}); err != nil {
		return err
	}

	testDir, err := os.MkdirTemp("", "wordorigin_fix")
	if err != nil {
		return err
	}
	defer os.RemoveAll(testDir)

	path := filepath.Join(testDir, "notes.md")
	if err := os.WriteFile(path, []byte(SampleText), 0644); err != nil {
		return err
	}

	log.Printf("Running fix test: write %s", path)
	_, err = callTool(ctx, c, wordorigin.ToolFix, map[string]interface{}{
		"path":    path,
		"preview": false,
	})
	if err != nil {
		return err
	}

	fixed, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	log.Printf("File content after fix:\n%s", fixed)
	return nil
}

// TestLookup looks up a dictionary word and a misspelled one.
func TestLookup(ctx context.Context, c client.MCPClient) error {
	for _, word := range []string{"Utilize", "comence", "house"} {
		log.Printf("Running lookup test: %s", word)
		if _, err := callTool(ctx, c, wordorigin.ToolLookup, map[string]interface{}{"word": word}); err != nil {
			return err
		}
	}
	return nil
}

// TestDictionary reads the dictionary resource.
func TestDictionary(ctx context.Context, c client.MCPClient) error {
	if err := readResource(ctx, c, wordorigin.DictionaryURI); err != nil {
		return fmt.Errorf("reading dictionary: %w", err)
	}
	return nil
}

// TestWordOrigin runs every wordorigin tool in turn.
func TestWordOrigin(ctx context.Context, c client.MCPClient) error {
	steps := []func(context.Context, client.MCPClient) error{
		TestScan,
		TestHover,
		TestQuickFix,
		TestFix,
		TestLookup,
		TestDictionary,
	}
	for _, step := range steps {
		if err := step(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
