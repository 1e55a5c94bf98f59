package tools

import (
	"context"
	"log"

	"github.com/mark3labs/mcp-go/client"
)

// TestStats prints the usage table, then resets the session counters.
func TestStats(ctx context.Context, c client.MCPClient) error {
	log.Printf("Running stats test")
	if _, err := callTool(ctx, c, "stats", map[string]interface{}{}); err != nil {
		return err
	}

	log.Printf("Running stats test: reset session")
	_, err := callTool(ctx, c, "stats", map[string]interface{}{"reset": true})
	return err
}
