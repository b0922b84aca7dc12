package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/envsnap/envsnap/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, version.Version)
}

func TestSnapshotListEmpty(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "snapshot", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No snapshots stored.")
}

func TestSnapshotImportThenListAndShow(t *testing.T) {
	home := t.TempDir()
	fixture := writeSnapshotFixture(t, home)

	stdout, _, err := executeCLI(t, home, "snapshot", "import", fixture)
	require.NoError(t, err)
	assert.Contains(t, stdout, `Imported snapshot "proj" (2 packages)`)

	stdout, _, err = executeCLI(t, home, "snapshot", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "proj")
	assert.Contains(t, stdout, "2 packages")

	stdout, _, err = executeCLI(t, home, "snapshot", "show", "proj")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Snapshot: proj")
	assert.Contains(t, stdout, "pandas==2.0.1")
	assert.Contains(t, stdout, "numpy==1.26.4")
}

func TestSnapshotImportInvalidData(t *testing.T) {
	home := t.TempDir()
	fixture := filepath.Join(home, "broken.json")
	require.NoError(t, os.WriteFile(fixture, []byte(`{"invalid": "data"}`), 0o644))

	_, _, err := executeCLI(t, home, "snapshot", "import", fixture)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestSnapshotExportProducesJSON(t *testing.T) {
	home := t.TempDir()
	fixture := writeSnapshotFixture(t, home)

	_, _, err := executeCLI(t, home, "snapshot", "import", fixture)
	require.NoError(t, err)

	outPath := filepath.Join(home, "exported.json")
	_, _, err = executeCLI(t, home, "snapshot", "export", "proj", "-o", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.True(t, json.Valid(data))
	assert.Contains(t, string(data), `"python_version": "3.11.4"`)
}

func TestSnapshotRmAndClear(t *testing.T) {
	home := t.TempDir()
	fixture := writeSnapshotFixture(t, home)

	_, _, err := executeCLI(t, home, "snapshot", "import", fixture)
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "snapshot", "rm", "proj")
	require.NoError(t, err)
	assert.Contains(t, stdout, `Removed snapshot "proj"`)

	stdout, _, err = executeCLI(t, home, "snapshot", "clear")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Removed 0 snapshots")
}

func TestRestoreDryRun(t *testing.T) {
	home := t.TempDir()
	fixture := writeSnapshotFixture(t, home)

	_, _, err := executeCLI(t, home, "snapshot", "import", fixture)
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "restore", "proj", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Would install:")
	assert.Contains(t, stdout, "pandas==2.0.1")
	assert.Contains(t, stdout, "numpy==1.26.4")
}

func TestRestoreUnknownSnapshot(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "restore", "missing", "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot not found")
}

func TestNotebookEmbedExtractRestoreFlow(t *testing.T) {
	home := t.TempDir()
	fixture := writeSnapshotFixture(t, home)
	notebookPath := filepath.Join(home, "analysis.ipynb")
	require.NoError(t, os.WriteFile(notebookPath, []byte(`{"cells": [], "metadata": {}, "nbformat": 4}`), 0o644))

	_, _, err := executeCLI(t, home, "snapshot", "import", fixture)
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "notebook", "embed", "proj", "-f", notebookPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, `Embedded snapshot "proj" (2 packages)`)

	stdout, _, err = executeCLI(t, home, "notebook", "extract", notebookPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Snapshot: proj")

	stdout, _, err = executeCLI(t, home, "notebook", "restore", "-f", notebookPath, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "pandas==2.0.1")
}

func TestNotebookExtractWithoutSnapshot(t *testing.T) {
	home := t.TempDir()
	notebookPath := filepath.Join(home, "plain.ipynb")
	require.NoError(t, os.WriteFile(notebookPath, []byte(`{"cells": [], "metadata": {}}`), 0o644))

	stdout, _, err := executeCLI(t, home, "notebook", "extract", notebookPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No embedded snapshot found.")
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	// Keep the interpreter out of reach so tests never shell out to pip.
	t.Setenv("ENVSNAP_PYTHON", "envsnap-no-such-python")

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSnapshotFixture(t *testing.T, home string) string {
	t.Helper()

	snapshot := `{
  "name": "proj",
  "python_version": "3.11.4",
  "platform_system": "Linux",
  "platform_release": "6.8.0",
  "platform_machine": "x86_64",
  "is_colab": false,
  "packages": [
    {"name": "pandas", "version": "2.0.1"},
    {"name": "numpy", "version": "1.26.4"}
  ],
  "timestamp": "2026-08-29T10:30:00.000000Z",
  "tool_version": "0.2.0",
  "metadata": {}
}
`
	path := filepath.Join(home, "proj.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshot), 0o644))
	return path
}
