package wordorigin

import (
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Code-Monger/WordOrigin/pkg/stats"
)

// Tool names.
const (
	ToolScan     = "wordorigin_scan"
	ToolHover    = "wordorigin_hover"
	ToolQuickFix = "wordorigin_quickfix"
	ToolFix      = "wordorigin_fix"
	ToolLookup   = "wordorigin_lookup"
)

// DictionaryURI names the resource holding the active dictionary.
const DictionaryURI = "dictionary://replacements"

func documentOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("text",
			mcp.Description("Document text. Pass either text or path"),
		),
		mcp.WithString("path",
			mcp.Description("Path of a UTF-8 text file. Relative paths use the workspace root of session_id"),
		),
		mcp.WithString("session_id",
			mcp.Description("Workspace session used to resolve a relative path (optional)"),
		),
	}
}

func positionOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("line",
			mcp.Description("Zero-based line number"),
			mcp.Required(),
		),
		mcp.WithNumber("character",
			mcp.Description("Zero-based character offset in UTF-16 code units"),
			mcp.Required(),
		),
	}
}

func formatOption() mcp.ToolOption {
	return mcp.WithString("format",
		mcp.Description("Output format: 'text' (default) or 'json'"),
	)
}

func newTool(name, description string, groups ...[]mcp.ToolOption) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(description)}
	for _, group := range groups {
		opts = append(opts, group...)
	}
	return mcp.NewTool(name, opts...)
}

// RegisterWordOrigin registers the WordOrigin tools and the dictionary
// resource with the MCP server
func RegisterWordOrigin(mcpServer *server.MCPServer, svc *Service) {
	mcpServer.AddTool(
		newTool(ToolScan, "Finds words of Latin, Greek, or French origin and reports each with a plain English replacement",
			documentOptions(), []mcp.ToolOption{formatOption()}),
		stats.WrapHandler(ToolScan, svc.HandleScan),
	)

	mcpServer.AddTool(
		newTool(ToolHover, "Returns the suggestion for the word at a position, or 'No suggestion'",
			documentOptions(), positionOptions()),
		stats.WrapHandler(ToolHover, svc.HandleHover),
	)

	mcpServer.AddTool(
		newTool(ToolQuickFix, "Lists the quick fixes for the word at a position",
			documentOptions(), positionOptions(), []mcp.ToolOption{formatOption()}),
		stats.WrapHandler(ToolQuickFix, svc.HandleQuickFix),
	)

	mcpServer.AddTool(
		newTool(ToolFix, "Replaces every word of Latin, Greek, or French origin and returns the new text",
			documentOptions(), []mcp.ToolOption{
				mcp.WithBoolean("preview",
					mcp.Description("Only return the new text without writing the file (default: true)"),
				),
			}),
		stats.WrapHandler(ToolFix, svc.HandleFix),
	)

	mcpServer.AddTool(
		mcp.NewTool(ToolLookup,
			mcp.WithDescription("Looks up one word in the dictionary, suggesting close dictionary words on a miss"),
			mcp.WithString("word",
				mcp.Description("Word to look up"),
				mcp.Required(),
			),
		),
		stats.WrapHandler(ToolLookup, svc.HandleLookup),
	)

	mcpServer.AddResource(
		mcp.NewResource(
			DictionaryURI,
			"Replacement Dictionary",
			mcp.WithResourceDescription("The active word to replacement mapping"),
			mcp.WithMIMEType("application/json"),
		),
		svc.HandleDictionaryResource,
	)

	log.Printf("[WordOrigin] Registered %d-entry dictionary with 5 tools", svc.DictionarySize())
}
