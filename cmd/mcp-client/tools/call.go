// Package tools drives the server's tools against sample documents.
package tools

import (
	"context"
	"log"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// SampleText is the document every tool is exercised with.
const SampleText = `We will commence the meeting at noon.
Please utilize the side entrance; assistance is available.
Naïve visitors sometimes endeavour to purchase tickets twice.
`

// callTool calls name with arguments and logs the first text content.
func callTool(ctx context.Context, c client.MCPClient, name string, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = arguments

	result, err := c.CallTool(ctx, req)
	if err != nil {
		log.Printf("Failed to call %s: %v", name, err)
		return nil, err
	}

	if text := resultText(result); text != "" {
		if result.IsError {
			log.Printf("%s returned an error:\n%s", name, text)
		} else {
			log.Printf("%s result:\n%s", name, text)
		}
	}
	return result, nil
}

func resultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

// readResource reads uri and logs its text contents.
func readResource(ctx context.Context, c client.MCPClient, uri string) error {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri

	result, err := c.ReadResource(ctx, req)
	if err != nil {
		return err
	}

	if len(result.Contents) > 0 {
		if textContent, ok := result.Contents[0].(mcp.TextResourceContents); ok {
			log.Printf("%s:\n%s", uri, textContent.Text)
		}
	}
	return nil
}
