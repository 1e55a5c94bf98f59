package workspace

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callWorkspace(t *testing.T, s *SessionStore, args map[string]interface{}) (string, error) {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Name = "workspace"
	request.Params.Arguments = args

	result, err := s.HandleWorkspace(context.Background(), request)
	if err != nil {
		return "", err
	}
	return result.Content[0].(mcp.TextContent).Text, nil
}

func TestSessionStore_Initialize(t *testing.T) {
	s := NewSessionStore()
	root := t.TempDir()

	info, err := s.Initialize(root, "proofread docs", "")
	require.NoError(t, err)
	_, err = uuid.Parse(info.SessionID)
	assert.NoError(t, err, "generated session IDs are UUIDs")
	assert.Equal(t, root, info.RootDir)

	got, ok := s.Get(info.SessionID)
	require.True(t, ok)
	assert.Equal(t, "proofread docs", got.Description)
	assert.False(t, got.LastAccess.Before(info.LastAccess))

	_, err = s.Initialize("", "", "")
	assert.Error(t, err)
}

func TestSessionStore_ResolvePath(t *testing.T) {
	s := NewSessionStore()
	root := t.TempDir()
	_, err := s.Initialize(root, "", "docs")
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		session string
		want    string
		err     error
	}{
		{name: "no session", path: "notes.md", want: "notes.md"},
		{name: "relative", path: "a/notes.md", session: "docs", want: filepath.Join(root, "a", "notes.md")},
		{name: "absolute", path: filepath.Join(root, "x.md"), session: "docs", want: filepath.Join(root, "x.md")},
		{name: "escapes root", path: "../secret.md", session: "docs", err: ErrOutsideWorkspace},
		{name: "unknown session", path: "notes.md", session: "nope", err: ErrSessionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ResolvePath(tt.path, tt.session)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleWorkspace(t *testing.T) {
	s := NewSessionStore()
	root := t.TempDir()

	text, err := callWorkspace(t, s, map[string]interface{}{
		"operation":  "initialize",
		"root_dir":   root,
		"session_id": "abc",
	})
	require.NoError(t, err)
	assert.Contains(t, text, "Workspace initialized successfully")
	assert.Contains(t, text, "Session ID: abc")

	text, err = callWorkspace(t, s, map[string]interface{}{"operation": "get", "session_id": "abc"})
	require.NoError(t, err)
	assert.Contains(t, text, root)

	text, err = callWorkspace(t, s, map[string]interface{}{"operation": "list"})
	require.NoError(t, err)
	assert.Contains(t, text, "Active Sessions (1)")

	_, err = callWorkspace(t, s, map[string]interface{}{"operation": "get", "session_id": "missing"})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = callWorkspace(t, s, map[string]interface{}{"operation": "explode"})
	assert.Error(t, err)

	_, err = callWorkspace(t, s, map[string]interface{}{})
	assert.Error(t, err)
}

func TestHandleWorkspaceResource(t *testing.T) {
	s := NewSessionStore()
	_, err := s.Initialize(t.TempDir(), "", "abc")
	require.NoError(t, err)

	read := func(uri string) (string, error) {
		request := mcp.ReadResourceRequest{}
		request.Params.URI = uri
		contents, err := s.HandleWorkspaceResource(context.Background(), request)
		if err != nil {
			return "", err
		}
		return contents[0].(mcp.TextResourceContents).Text, nil
	}

	text, err := read("workspace://info")
	require.NoError(t, err)
	assert.Contains(t, text, "Active Sessions (1)")

	text, err = read("workspace://info/abc")
	require.NoError(t, err)
	assert.Contains(t, text, "Session ID: abc")

	_, err = read("workspace://info/zzz")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
