package main

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Code-Monger/WordOrigin/cmd/mcp-client/tools"
	"github.com/Code-Monger/WordOrigin/pkg/wordorigin"
)

// toolTests maps a -tool value to the function that exercises it. The tool
// names a test needs must be listed by the server for it to run.
var toolTests = map[string]struct {
	requires []string
	run      func(context.Context, client.MCPClient) error
}{
	"scan":       {[]string{wordorigin.ToolScan}, tools.TestScan},
	"hover":      {[]string{wordorigin.ToolHover}, tools.TestHover},
	"quickfix":   {[]string{wordorigin.ToolQuickFix}, tools.TestQuickFix},
	"fix":        {[]string{wordorigin.ToolFix}, tools.TestFix},
	"lookup":     {[]string{wordorigin.ToolLookup}, tools.TestLookup},
	"dictionary": {nil, tools.TestDictionary},
	"workspace":  {[]string{"workspace", wordorigin.ToolScan}, tools.TestWorkspace},
	"stats":      {[]string{"stats"}, tools.TestStats},
	"all": {[]string{
		wordorigin.ToolScan, wordorigin.ToolHover, wordorigin.ToolQuickFix,
		wordorigin.ToolFix, wordorigin.ToolLookup,
	}, tools.TestWordOrigin},
}

// Client represents the MCP client application
type Client struct {
	serverURL string
	mcpClient client.MCPClient
}

// NewClient creates a new MCP client
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: serverURL,
	}
}

// Run connects to the server and exercises testTool.
func (c *Client) Run(ctx context.Context, testTool string) error {
	log.Printf("Connecting to MCP server at %s...", c.serverURL)
	sseClient, err := client.NewSSEMCPClient(c.serverURL)
	if err != nil {
		return fmt.Errorf("failed to create SSE client: %w", err)
	}

	if err := sseClient.Start(ctx); err != nil {
		return fmt.Errorf("failed to start SSE client: %w", err)
	}
	defer sseClient.Close()

	c.mcpClient = sseClient

	if err := c.initialize(ctx); err != nil {
		return err
	}

	resourcesResult, toolsResult, err := c.listResourcesAndTools(ctx)
	if err != nil {
		return err
	}

	if err := c.testTool(ctx, testTool, toolsResult); err != nil {
		return err
	}

	return c.readServerInfoIfAvailable(ctx, resourcesResult)
}

// initialize initializes the MCP client
func (c *Client) initialize(ctx context.Context) error {
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "wordorigin-client",
		Version: "1.0.0",
	}

	initResult, err := c.mcpClient.Initialize(ctx, initReq)
	if err != nil {
		return fmt.Errorf("failed to initialize client: %w", err)
	}

	log.Printf("Connected to %s %s", initResult.ServerInfo.Name, initResult.ServerInfo.Version)
	log.Printf("Server capabilities: %+v", initResult.Capabilities)
	return nil
}

// listResourcesAndTools lists available resources and tools
func (c *Client) listResourcesAndTools(ctx context.Context) (*mcp.ListResourcesResult, *mcp.ListToolsResult, error) {
	resourcesResult, err := c.mcpClient.ListResources(ctx, mcp.ListResourcesRequest{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list resources: %w", err)
	}

	log.Printf("Available resources (%d):", len(resourcesResult.Resources))
	for _, resource := range resourcesResult.Resources {
		log.Printf("  - %s (%s)", resource.Name, resource.URI)
	}

	toolsResult, err := c.mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list tools: %w", err)
	}

	log.Printf("Available tools (%d):", len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		log.Printf("  - %s: %s", tool.Name, tool.Description)
	}

	return resourcesResult, toolsResult, nil
}

// testTool tests the specified tool
func (c *Client) testTool(ctx context.Context, testTool string, toolsResult *mcp.ListToolsResult) error {
	test, ok := toolTests[testTool]
	if !ok {
		return fmt.Errorf("unknown tool: %s", testTool)
	}

	available := make(map[string]bool, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		available[tool.Name] = true
	}
	for _, name := range test.requires {
		if !available[name] {
			log.Printf("%s tool not found on server", name)
			return nil
		}
	}

	log.Printf("Testing %s...", testTool)
	return test.run(ctx, c.mcpClient)
}

// readServerInfoIfAvailable reads the server info resource if available
func (c *Client) readServerInfoIfAvailable(ctx context.Context, resourcesResult *mcp.ListResourcesResult) error {
	for _, resource := range resourcesResult.Resources {
		if resource.URI == serverInfoURI {
			log.Println("Reading server info resource...")
			return ReadServerInfo(ctx, c.mcpClient)
		}
	}
	log.Println("Server info resource not found on server")
	return nil
}
