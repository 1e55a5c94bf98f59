package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wordorigin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.ResolvedBaseURL())
	assert.Empty(t, cfg.Dictionary.Path)
}

func TestNewManager(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		mgr, err := NewManager("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), mgr.Get())
	})

	t.Run("loads from config file", func(t *testing.T) {
		path := writeConfig(t, `
server:
  port: 9090
  base_url: "http://example.test:9090"
dictionary:
  path: words.yaml
scan:
  workers: 2
  debounce: 500ms
`)
		mgr, err := NewManager(path)
		require.NoError(t, err)

		cfg := mgr.Get()
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "http://example.test:9090", cfg.ResolvedBaseURL())
		assert.Equal(t, "words.yaml", cfg.Dictionary.Path)
		assert.Equal(t, 2, cfg.Scan.Workers)
		assert.Equal(t, 500*time.Millisecond, cfg.Scan.Debounce)
		assert.Equal(t, DefaultConfig().Scan.MaxDocumentBytes, cfg.Scan.MaxDocumentBytes)
		assert.Equal(t, path, mgr.ConfigFile())
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "server:\n  port: 9090\n")
		t.Setenv("WORDORIGIN_SERVER_PORT", "7070")
		t.Setenv("WORDORIGIN_SCAN_WORKERS", "8")

		mgr, err := NewManager(path)
		require.NoError(t, err)
		assert.Equal(t, 7070, mgr.Get().Server.Port)
		assert.Equal(t, 8, mgr.Get().Scan.Workers)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := writeConfig(t, "scan:\n  workers: 0\n")
		_, err := NewManager(path)
		assert.ErrorContains(t, err, "scan.workers")
	})
}

func TestManager_Reload(t *testing.T) {
	path := writeConfig(t, "dictionary:\n  path: first.json\n")
	mgr, err := NewManager(path)
	require.NoError(t, err)

	var got []*Config
	mgr.OnChange(func(cfg *Config) {
		got = append(got, cfg)
	})

	require.NoError(t, os.WriteFile(path, []byte("dictionary:\n  path: second.json\n"), 0644))
	require.NoError(t, mgr.v.ReadInConfig())
	mgr.reload(path)

	require.Len(t, got, 1)
	assert.Equal(t, "second.json", got[0].Dictionary.Path)
	assert.Equal(t, "second.json", mgr.Get().Dictionary.Path)

	t.Run("invalid change keeps previous config", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 0\n"), 0644))
		require.NoError(t, mgr.v.ReadInConfig())
		mgr.reload(path)

		assert.Len(t, got, 1)
		assert.Equal(t, "second.json", mgr.Get().Dictionary.Path)
	})
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "wordorigin.yaml")
	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# WordOrigin configuration")
	assert.Contains(t, string(data), "debounce: 200ms")

	mgr, err := NewManager(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), mgr.Get())
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 70000
	cfg.Scan.Debounce = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "server.port")
	assert.ErrorContains(t, err, "scan.debounce")
}
