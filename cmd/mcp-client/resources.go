package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

const serverInfoURI = "server://info"

// ReadServerInfo reads the server info resource and checks that the server
// has a dictionary loaded.
func ReadServerInfo(ctx context.Context, c client.MCPClient) error {
	readReq := mcp.ReadResourceRequest{}
	readReq.Params.URI = serverInfoURI

	result, err := c.ReadResource(ctx, readReq)
	if err != nil {
		return fmt.Errorf("reading %s: %w", serverInfoURI, err)
	}

	for _, content := range result.Contents {
		textContent, ok := content.(mcp.TextResourceContents)
		if !ok {
			continue
		}
		entries, err := dictionaryEntries(textContent.Text)
		if err != nil {
			return err
		}
		log.Printf("Server Info (%d dictionary entries):\n%s", entries, textContent.Text)
		return nil
	}
	return fmt.Errorf("%s returned no text contents", serverInfoURI)
}

// dictionaryEntries pulls the dictionary_entries count out of the
// "key: value" lines of the server info text.
func dictionaryEntries(text string) (int, error) {
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ": ")
		if !ok || key != "dictionary_entries" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, fmt.Errorf("dictionary_entries is not a number: %q", value)
		}
		if n <= 0 {
			return 0, fmt.Errorf("server has an empty dictionary")
		}
		return n, nil
	}
	return 0, fmt.Errorf("server info has no dictionary_entries line")
}
