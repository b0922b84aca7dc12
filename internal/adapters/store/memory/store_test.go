package memory

import (
	"testing"

	"github.com/envsnap/envsnap/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotNamed(t *testing.T, name, pythonVersion string) domain.Snapshot {
	t.Helper()

	snap, err := domain.NewSnapshot(domain.Snapshot{Name: name, PythonVersion: pythonVersion})
	require.NoError(t, err)
	return snap
}

func TestPutOverwrites(t *testing.T) {
	store := NewStore()

	first := snapshotNamed(t, "a", "3.10.0")
	second := snapshotNamed(t, "a", "3.12.0")

	store.Put("a", first)
	store.Put("a", second)

	got, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, second, got)
}

func TestGetMissing(t *testing.T) {
	store := NewStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestNamesContainsStoredKeysOnce(t *testing.T) {
	store := NewStore()

	store.Put("alpha", snapshotNamed(t, "alpha", "3.11.0"))
	store.Put("beta", snapshotNamed(t, "beta", "3.11.0"))
	store.Put("alpha", snapshotNamed(t, "alpha", "3.12.0"))

	assert.Equal(t, []string{"alpha", "beta"}, store.Names())
}

func TestClear(t *testing.T) {
	store := NewStore()

	store.Put("alpha", snapshotNamed(t, "alpha", "3.11.0"))
	store.Clear()

	assert.Empty(t, store.Names())
	_, ok := store.Get("alpha")
	assert.False(t, ok)
}
