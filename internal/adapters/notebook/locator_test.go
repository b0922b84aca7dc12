package notebook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
}

func TestLocatorPrefersSessionEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JPY_SESSION_NAME", "analysis.ipynb")

	path, ok := NewJupyterLocator(dir).ActiveNotebook()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "analysis.ipynb"), path)
}

func TestLocatorAbsoluteSessionEnv(t *testing.T) {
	t.Setenv("JPY_SESSION_NAME", "/notebooks/analysis.ipynb")

	path, ok := NewJupyterLocator(t.TempDir()).ActiveNotebook()
	require.True(t, ok)
	assert.Equal(t, "/notebooks/analysis.ipynb", path)
}

func TestLocatorIgnoresNonNotebookSession(t *testing.T) {
	t.Setenv("JPY_SESSION_NAME", "console-1")

	_, ok := NewJupyterLocator(t.TempDir()).ActiveNotebook()
	assert.False(t, ok)
}

func TestLocatorFallsBackToLoneNotebook(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JPY_SESSION_NAME", "")
	touch(t, filepath.Join(dir, "analysis.ipynb"))

	path, ok := NewJupyterLocator(dir).ActiveNotebook()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "analysis.ipynb"), path)
}

func TestLocatorAmbiguousDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JPY_SESSION_NAME", "")
	touch(t, filepath.Join(dir, "one.ipynb"))
	touch(t, filepath.Join(dir, "two.ipynb"))

	_, ok := NewJupyterLocator(dir).ActiveNotebook()
	assert.False(t, ok)
}

func TestLocatorEmptyDirectory(t *testing.T) {
	t.Setenv("JPY_SESSION_NAME", "")

	_, ok := NewJupyterLocator(t.TempDir()).ActiveNotebook()
	assert.False(t, ok)
}
