package stats

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Global stats manager instance
	globalStatsManager *StatsManager
)

var (
	// toolCalls counts tool calls by tool and outcome.
	toolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordorigin_tool_calls_total",
		Help: "Total MCP tool calls by tool and status",
	}, []string{"tool", "status"})

	// toolDuration tracks tool call latency.
	toolDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wordorigin_tool_duration_seconds",
		Help:    "MCP tool call duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
	}, []string{"tool"})

	// matchesReported counts dictionary matches returned to callers.
	matchesReported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordorigin_matches_reported_total",
		Help: "Total dictionary matches reported by tool",
	}, []string{"tool"})
)

// InitStatsManager initializes the global stats manager
func InitStatsManager(dataDir string) error {
	manager, err := NewStatsManager(filepath.Join(dataDir, "stats.json"))
	if err != nil {
		return err
	}
	globalStatsManager = manager
	return nil
}

// GetStatsManager returns the global stats manager
func GetStatsManager() *StatsManager {
	return globalStatsManager
}

// HandleGetStats handles requests to get tool usage statistics
func HandleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Printf("[Stats] Received request to get stats")

	if globalStatsManager == nil {
		log.Printf("[Stats] Error: stats manager not initialized")
		return nil, fmt.Errorf("stats manager not initialized")
	}

	statsText := FormatStats(globalStatsManager.GetSessionStats(), globalStatsManager.GetPersistentStats())
	if reset, _ := request.Params.Arguments["reset"].(bool); reset {
		globalStatsManager.ResetSessionStats()
		statsText += "\nSession statistics reset\n"
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: statsText,
			},
		},
	}, nil
}

// RecordToolUsage records one finished call of a tool.
func RecordToolUsage(toolName string, startTime time.Time, failed bool) {
	executionTime := time.Since(startTime)

	status := "ok"
	if failed {
		status = "error"
	}
	toolCalls.WithLabelValues(toolName, status).Inc()
	toolDuration.WithLabelValues(toolName).Observe(executionTime.Seconds())

	if globalStatsManager == nil {
		return
	}
	if err := globalStatsManager.RecordToolUsage(toolName, executionTime, failed); err != nil {
		// Stats are best effort and never fail the request.
		log.Printf("[Stats] Failed to record tool usage: %v", err)
	}
}

// RecordMatches records n dictionary matches reported by a tool.
func RecordMatches(toolName string, n int) {
	if n <= 0 {
		return
	}
	matchesReported.WithLabelValues(toolName).Add(float64(n))
	if globalStatsManager != nil {
		globalStatsManager.RecordMatches(toolName, n)
	}
}

// WrapHandler wraps a tool handler with stats tracking
func WrapHandler(toolName string, handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startTime := time.Now()

		result, err := handler(ctx, request)
		if err != nil {
			log.Printf("[Stats] Error executing tool '%s': %v", toolName, err)
			RecordToolUsage(toolName, startTime, true)
			return nil, err
		}

		RecordToolUsage(toolName, startTime, result != nil && result.IsError)
		return result, nil
	}
}

// RegisterStats registers the stats tool with the MCP server
func RegisterStats(mcpServer *server.MCPServer, dataDir string) error {
	if err := InitStatsManager(dataDir); err != nil {
		return err
	}

	statsTool := mcp.NewTool("stats",
		mcp.WithDescription("Retrieves usage statistics for the WordOrigin tools"),
		mcp.WithBoolean("reset",
			mcp.Description("Reset the session statistics after reporting them (default: false)"),
		),
	)

	mcpServer.AddTool(statsTool, WrapHandler("stats", HandleGetStats))

	log.Printf("[Stats] Registered stats tool")

	return nil
}
