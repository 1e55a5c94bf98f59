package workspace

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Code-Monger/WordOrigin/pkg/stats"
)

// ErrSessionNotFound is returned for an unknown session ID.
var ErrSessionNotFound = errors.New("session not found")

// ErrOutsideWorkspace is returned when a relative path escapes the session root.
var ErrOutsideWorkspace = errors.New("path is outside the workspace")

// WorkspaceInfo represents the workspace information
type WorkspaceInfo struct {
	RootDir     string    `json:"root_dir"`
	Description string    `json:"description"`
	InitTime    time.Time `json:"init_time"`
	SessionID   string    `json:"session_id"`
	LastAccess  time.Time `json:"last_access"`
}

// SessionStore manages workspace information for multiple sessions
type SessionStore struct {
	sessions map[string]WorkspaceInfo
	mutex    sync.Mutex
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]WorkspaceInfo)}
}

// Get returns the workspace info for a session and marks it accessed.
func (s *SessionStore) Get(sessionID string) (WorkspaceInfo, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	info, exists := s.sessions[sessionID]
	if exists {
		info.LastAccess = time.Now()
		s.sessions[sessionID] = info
	}
	return info, exists
}

// Initialize stores a session rooted at rootDir. An empty sessionID gets a
// new random one.
func (s *SessionStore) Initialize(rootDir, description, sessionID string) (WorkspaceInfo, error) {
	if rootDir == "" {
		return WorkspaceInfo{}, fmt.Errorf("root_dir must not be empty")
	}
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return WorkspaceInfo{}, fmt.Errorf("resolving root_dir: %w", err)
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	now := time.Now()
	info := WorkspaceInfo{
		RootDir:     abs,
		Description: description,
		InitTime:    now,
		SessionID:   sessionID,
		LastAccess:  now,
	}

	s.mutex.Lock()
	s.sessions[sessionID] = info
	s.mutex.Unlock()

	log.Printf("[Workspace] Initialized session %s at %s", sessionID, abs)
	return info, nil
}

// List returns all sessions ordered by ID.
func (s *SessionStore) List() []WorkspaceInfo {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	infos := make([]WorkspaceInfo, 0, len(s.sessions))
	for _, info := range s.sessions {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].SessionID < infos[j].SessionID })
	return infos
}

// ResolvePath resolves path for a session. Without a session the path is
// used as given. Relative paths are joined to the session root and must stay
// inside it; absolute paths are accepted unchanged.
func (s *SessionStore) ResolvePath(path, sessionID string) (string, error) {
	if sessionID == "" || filepath.IsAbs(path) {
		return path, nil
	}

	info, ok := s.Get(sessionID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	joined := filepath.Join(info.RootDir, path)
	rel, err := filepath.Rel(info.RootDir, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkspace, path)
	}
	return joined, nil
}

func formatInfo(b *strings.Builder, info WorkspaceInfo, indent string) {
	fmt.Fprintf(b, "%sRoot directory: %s\n", indent, info.RootDir)
	if info.Description != "" {
		fmt.Fprintf(b, "%sDescription: %s\n", indent, info.Description)
	}
	fmt.Fprintf(b, "%sInitialized: %s\n", indent, info.InitTime.Format(time.RFC3339))
	fmt.Fprintf(b, "%sLast accessed: %s\n", indent, info.LastAccess.Format(time.RFC3339))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

// HandleWorkspace is the handler function for the workspace tool
func (s *SessionStore) HandleWorkspace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments

	operation, ok := arguments["operation"].(string)
	if !ok {
		return nil, fmt.Errorf("operation must be a string")
	}

	var b strings.Builder
	switch operation {
	case "initialize":
		rootDir, ok := arguments["root_dir"].(string)
		if !ok {
			return nil, fmt.Errorf("root_dir must be a string")
		}
		description, _ := arguments["description"].(string)
		sessionID, _ := arguments["session_id"].(string)

		info, err := s.Initialize(rootDir, description, sessionID)
		if err != nil {
			return nil, err
		}

		b.WriteString("Workspace initialized successfully\n\n")
		fmt.Fprintf(&b, "Session ID: %s\n", info.SessionID)
		formatInfo(&b, info, "")

	case "get":
		sessionID, ok := arguments["session_id"].(string)
		if !ok {
			return nil, fmt.Errorf("session_id must be a string")
		}

		info, exists := s.Get(sessionID)
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}

		b.WriteString("Workspace Information\n\n")
		fmt.Fprintf(&b, "Session ID: %s\n", info.SessionID)
		formatInfo(&b, info, "")

	case "list":
		sessions := s.List()
		fmt.Fprintf(&b, "Active Sessions (%d)\n\n", len(sessions))
		for i, info := range sessions {
			fmt.Fprintf(&b, "%d. Session ID: %s\n", i+1, info.SessionID)
			formatInfo(&b, info, "   ")
			b.WriteString("\n")
		}

	default:
		return nil, fmt.Errorf("unsupported operation: %s", operation)
	}

	return textResult(b.String()), nil
}

// HandleWorkspaceResource is the handler function for the workspace resource
func (s *SessionStore) HandleWorkspaceResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	// Format: workspace://info or workspace://info/{session_id}
	sessionID := strings.TrimPrefix(strings.TrimPrefix(request.Params.URI, "workspace://info"), "/")

	var b strings.Builder
	if sessionID == "" {
		sessions := s.List()
		fmt.Fprintf(&b, "Active Sessions (%d):\n\n", len(sessions))
		for i, info := range sessions {
			fmt.Fprintf(&b, "%d. Session ID: %s\n", i+1, info.SessionID)
			formatInfo(&b, info, "   ")
			b.WriteString("\n")
		}
	} else {
		info, exists := s.Get(sessionID)
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		b.WriteString("Workspace Information:\n\n")
		fmt.Fprintf(&b, "Session ID: %s\n", info.SessionID)
		formatInfo(&b, info, "")
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     b.String(),
		},
	}, nil
}

// RegisterWorkspace registers the workspace tool and resource with the MCP server
func RegisterWorkspace(mcpServer *server.MCPServer, store *SessionStore) {
	workspaceTool := mcp.NewTool("workspace",
		mcp.WithDescription("Sets up a workspace root so other tools can take paths relative to it"),
		mcp.WithString("operation",
			mcp.Description("Operation to perform: 'initialize' to set up the workspace, 'get' to retrieve workspace information, 'list' to list all sessions"),
			mcp.Required(),
		),
		mcp.WithString("root_dir",
			mcp.Description("Root directory of the documents (for 'initialize' operation)"),
		),
		mcp.WithString("description",
			mcp.Description("What the session is for (optional, for 'initialize' operation)"),
		),
		mcp.WithString("session_id",
			mcp.Description("Session ID (required for 'get' operation, optional for 'initialize' operation)"),
		),
	)

	mcpServer.AddTool(workspaceTool, stats.WrapHandler("workspace", store.HandleWorkspace))

	mcpServer.AddResource(
		mcp.NewResource(
			"workspace://info",
			"Workspace Information",
			mcp.WithMIMEType("text/plain"),
		),
		store.HandleWorkspaceResource,
	)

	mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"workspace://info/{session_id}",
			"Workspace Session Information",
			mcp.WithTemplateMIMEType("text/plain"),
			mcp.WithTemplateDescription("Information about a specific workspace session"),
		),
		store.HandleWorkspaceResource,
	)

	log.Printf("[Workspace] Registered workspace tool and resource")
}
