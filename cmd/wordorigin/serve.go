package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/Code-Monger/WordOrigin/pkg/config"
	"github.com/Code-Monger/WordOrigin/pkg/serverinfo"
	"github.com/Code-Monger/WordOrigin/pkg/stats"
	"github.com/Code-Monger/WordOrigin/pkg/wordorigin"
	"github.com/Code-Monger/WordOrigin/pkg/workspace"
)

var (
	servePort    int
	serveBaseURL string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the WordOrigin MCP server",
	Long: `Start the MCP server over SSE.

Endpoints:
  /          - SSE stream
  /messages  - MCP messages
  /metrics   - Prometheus metrics

The dictionary and scan limits reload when the config file changes.

Examples:
  wordorigin serve                 # Start on the configured port (default 8080)
  wordorigin serve --port 3000     # Start on a custom port`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := loadConfig()
		if err != nil {
			return err
		}
		// Flag overrides apply to a copy; the manager's config is shared.
		cfg := *mgr.Get()
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
		if cmd.Flags().Changed("base-url") {
			cfg.Server.BaseURL = serveBaseURL
		}

		return serve(cmd.Context(), mgr, &cfg)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides server.port)")
	serveCmd.Flags().StringVar(&serveBaseURL, "base-url", "", "Base URL for the server, e.g. http://localhost:8080 (overrides server.base_url)")
}

func serve(ctx context.Context, mgr *config.Manager, cfg *config.Config) error {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	analyzer, err := wordorigin.LoadAnalyzer(cfg.Dictionary.Path)
	if err != nil {
		return err
	}

	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		cfg.Server.Version,
		server.WithResourceCapabilities(true, true),
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithInstructions(cfg.Server.Instructions),
	)

	sessions := workspace.NewSessionStore()
	svc := wordorigin.NewService(analyzer, sessions, cfg.Scan.MaxDocumentBytes)

	if err := stats.RegisterStats(mcpServer, cfg.DataDir); err != nil {
		return fmt.Errorf("failed to register stats tool: %w", err)
	}
	wordorigin.RegisterWordOrigin(mcpServer, svc)
	workspace.RegisterWorkspace(mcpServer, sessions)
	serverinfo.RegisterServerInfo(mcpServer, serverinfo.New(cfg.Server.Name, cfg.Server.Version, svc.DictionarySize))

	mgr.OnChange(func(next *config.Config) {
		svc.SetMaxDocumentBytes(next.Scan.MaxDocumentBytes)
		if err := svc.Reload(next.Dictionary.Path); err != nil {
			log.Printf("[Server] Dictionary reload failed: %v", err)
		}
	})
	if mgr.ConfigFile() != "" {
		mgr.WatchConfig()
	}

	baseURL := cfg.ResolvedBaseURL()
	sseServer := server.NewSSEServer(
		mcpServer,
		server.WithBaseURL(baseURL),
		server.WithSSEEndpoint("/"),
		server.WithMessageEndpoint("/messages"),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", sseServer)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Starting MCP server on port %d...", cfg.Server.Port)
		log.Printf("[Server] Base URL: %s", baseURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	log.Println("[Server] Shutting down server...")

	if statsManager := stats.GetStatsManager(); statsManager != nil {
		statsText := stats.FormatStats(statsManager.GetSessionStats(), statsManager.GetPersistentStats())
		log.Printf("[Server] Final server statistics:\n%s", statsText)
	}

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Println("[Server] Server stopped")
	return nil
}
