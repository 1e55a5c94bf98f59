package serverinfo

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DictionarySizer reports the number of entries in the active dictionary.
type DictionarySizer func() int

// Info builds the server info resource.
type Info struct {
	Name           string
	Version        string
	DictionarySize DictionarySizer
	started        time.Time
}

// New returns an Info whose uptime counts from now.
func New(name, version string, sizer DictionarySizer) *Info {
	return &Info{Name: name, Version: version, DictionarySize: sizer, started: time.Now()}
}

// Collect gathers the current values.
func (i *Info) Collect() map[string]interface{} {
	info := map[string]interface{}{
		"name":           i.Name,
		"version":        i.Version,
		"timestamp":      time.Now().Format(time.RFC3339),
		"go_version":     runtime.Version(),
		"os":             runtime.GOOS,
		"architecture":   runtime.GOARCH,
		"cpu_cores":      runtime.NumCPU(),
		"goroutines":     runtime.NumGoroutine(),
		"memory_stats":   getMemoryStats(),
		"uptime_seconds": time.Since(i.started).Seconds(),
	}
	if i.DictionarySize != nil {
		info["dictionary_entries"] = i.DictionarySize()
	}
	return info
}

// Format renders the values one per line in key order.
func (i *Info) Format() string {
	info := i.Collect()
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Server Information:\n\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %v\n", k, info[k])
	}
	return b.String()
}

// HandleServerInfo is the handler function for the server info resource
func (i *Info) HandleServerInfo(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     i.Format(),
		},
	}, nil
}

// RegisterServerInfo registers the server info resource with the MCP server
func RegisterServerInfo(mcpServer *server.MCPServer, info *Info) {
	mcpServer.AddResource(
		mcp.NewResource(
			"server://info",
			"Server Information",
			mcp.WithMIMEType("text/plain"),
		),
		info.HandleServerInfo,
	)
}

// getMemoryStats returns memory statistics
func getMemoryStats() map[string]interface{} {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return map[string]interface{}{
		"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
		"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
		"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
		"num_gc":         memStats.NumGC,
	}
}
