package tools

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/client"

	"github.com/Code-Monger/WordOrigin/pkg/wordorigin"
)

const workspaceSession = "client-session-1"

// TestWorkspace sets up a workspace over a temporary directory and scans a
// file in it by relative path.
func TestWorkspace(ctx context.Context, c client.MCPClient) error {
	log.Printf("Running workspace test: Get unknown session")
	if _, err := callTool(ctx, c, "workspace", map[string]interface{}{
		"operation":  "get",
		"session_id": "nonexistent-session",
	}); err != nil {
		log.Printf("Workspace get for an unknown session failed as expected: %v", err)
	}

	rootDir, err := os.MkdirTemp("", "wordorigin_workspace")
	if err != nil {
		return err
	}
	defer os.RemoveAll(rootDir)

	if err := os.WriteFile(filepath.Join(rootDir, "notes.md"), []byte(SampleText), 0644); err != nil {
		return err
	}

	log.Printf("Running workspace test: Initialize workspace at %s", rootDir)
	if _, err := callTool(ctx, c, "workspace", map[string]interface{}{
		"operation":   "initialize",
		"root_dir":    rootDir,
		"description": "Checking meeting notes",
		"session_id":  workspaceSession,
	}); err != nil {
		return err
	}

	log.Printf("Running workspace test: Scan a relative path")
	if _, err := callTool(ctx, c, wordorigin.ToolScan, map[string]interface{}{
		"path":       "notes.md",
		"session_id": workspaceSession,
	}); err != nil {
		return err
	}

	log.Printf("Running workspace test: Escape the workspace root")
	if _, err := callTool(ctx, c, wordorigin.ToolScan, map[string]interface{}{
		"path":       "../outside.md",
		"session_id": workspaceSession,
	}); err != nil {
		log.Printf("Scan outside the workspace failed as expected: %v", err)
	}

	log.Printf("Running workspace test: List sessions")
	if _, err := callTool(ctx, c, "workspace", map[string]interface{}{"operation": "list"}); err != nil {
		return err
	}

	log.Printf("Reading workspace resources...")
	if err := readResource(ctx, c, "workspace://info"); err != nil {
		return err
	}
	return readResource(ctx, c, "workspace://info/"+workspaceSession)
}
