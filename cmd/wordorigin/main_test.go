package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Code-Monger/WordOrigin/pkg/document"
	"github.com/Code-Monger/WordOrigin/pkg/wordorigin"
)

func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"README.md":               "We utilize it.\n",
		"docs/guide.txt":          "Let's commence.\n",
		"docs/plain.md":           "Nothing here.\n",
		"docs/code.go":            "package utilize\n",
		".git/notes.md":           "utilize\n",
		"node_modules/x/index.md": "utilize\n",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestCollectFiles(t *testing.T) {
	root := writeTree(t)

	files, err := collectFiles([]string{root}, defaultExtensions)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "README.md"),
		filepath.Join(root, "docs", "guide.txt"),
		filepath.Join(root, "docs", "plain.md"),
	}, files)

	t.Run("explicit file ignores extension", func(t *testing.T) {
		code := filepath.Join(root, "docs", "code.go")
		files, err := collectFiles([]string{code, code}, defaultExtensions)
		require.NoError(t, err)
		assert.Equal(t, []string{code}, files)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := collectFiles([]string{filepath.Join(root, "missing")}, defaultExtensions)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestCheckFiles(t *testing.T) {
	root := writeTree(t)
	files, err := collectFiles([]string{root}, defaultExtensions)
	require.NoError(t, err)

	analyzer, err := wordorigin.LoadAnalyzer("")
	require.NoError(t, err)

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	reports, err := checkFiles(cmd, analyzer, files, 2, 0)
	require.NoError(t, err)
	require.Len(t, reports, 3)

	assert.Equal(t, files[0], reports[0].Path)
	require.Len(t, reports[0].Diagnostics, 1)
	assert.Equal(t, "utilize", reports[0].Diagnostics[0].Code)
	require.Len(t, reports[1].Diagnostics, 1)
	assert.Equal(t, "commence", reports[1].Diagnostics[0].Code)
	assert.Empty(t, reports[2].Diagnostics)

	t.Run("size cap", func(t *testing.T) {
		reports, err := checkFiles(cmd, analyzer, files[:1], 1, 4)
		require.NoError(t, err)
		require.Len(t, reports[0].Diagnostics, 1)
		assert.Equal(t, document.SeverityInformation, reports[0].Diagnostics[0].Severity)
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, err := checkFiles(cmd, analyzer, []string{filepath.Join(root, "gone.md")}, 1, 0)
		assert.Error(t, err)
	})
}

func TestRefreshAndPrinter(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("We utilize it.\n"), 0644))

	analyzer, err := wordorigin.LoadAnalyzer("")
	require.NoError(t, err)

	var out bytes.Buffer
	store := document.NewStore(analyzer, 0)
	store.OnChange(printer(&out))

	refresh(store, path)
	assert.Contains(t, out.String(), path+":1:4: warning:")

	out.Reset()
	refresh(store, path)
	assert.Empty(t, out.String(), "unchanged text is not rescanned")

	require.NoError(t, os.WriteFile(path, []byte("We use it.\n"), 0644))
	refresh(store, path)
	assert.Equal(t, path+": clean\n", out.String())

	doc, ok := store.Get(path)
	require.True(t, ok)
	assert.Equal(t, 2, doc.Version)

	require.NoError(t, os.Remove(path))
	refresh(store, path)
	_, ok = store.Get(path)
	assert.False(t, ok)
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDictCommand(t *testing.T) {
	out, err := runCLI(t, "dict", "Utilize")
	require.NoError(t, err)
	assert.Equal(t, "Utilize: use\n", out)

	out, err = runCLI(t, "dict", "xylophone")
	require.NoError(t, err)
	assert.Contains(t, out, "No suggestion")

	out, err = runCLI(t, "dict")
	require.NoError(t, err)
	assert.Greater(t, strings.Count(out, "\n"), 50)
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordorigin.yaml")

	out, err := runCLI(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, err = runCLI(t, "config", "init", path)
	assert.ErrorContains(t, err, "already exists")
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "wordorigin dev")
}

func TestFixCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("We utilize it.\n"), 0600))

	out, err := runCLI(t, "fix", path)
	require.NoError(t, err)
	assert.Equal(t, "We use it.\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "We utilize it.\n", string(data), "preview leaves the file alone")

	out, err = runCLI(t, "fix", "--write", path)
	require.NoError(t, err)
	assert.Equal(t, "1 replacements in 1 files\n", out)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "We use it.\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
