package application

import (
	"context"
	"errors"
	"testing"

	"github.com/envsnap/envsnap/internal/adapters/store/memory"
	"github.com/envsnap/envsnap/internal/domain"
	"github.com/envsnap/envsnap/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedSnapshot(t *testing.T, store ports.SnapshotStore, name string, packages ...domain.Package) domain.Snapshot {
	t.Helper()

	if packages == nil {
		packages = []domain.Package{}
	}
	snap, err := domain.NewSnapshot(domain.Snapshot{
		Name:          name,
		PythonVersion: "3.11.4",
		Packages:      packages,
		Timestamp:     "2026-08-29T10:30:00.000000Z",
	})
	require.NoError(t, err)
	store.Put(name, snap)
	return snap
}

func TestRestoreUnknownSnapshotListsAvailable(t *testing.T) {
	store := memory.NewStore()
	storedSnapshot(t, store, "alpha")
	storedSnapshot(t, store, "beta")

	service := NewRestoreService(store, &fakeManager{info: linuxInfo("3.11.4")})

	_, err := service.Restore(context.Background(), "missing", RestoreOptions{})
	var restoreErr *domain.RestoreError
	require.ErrorAs(t, err, &restoreErr)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	assert.Contains(t, err.Error(), "alpha")
	assert.Contains(t, err.Error(), "beta")
}

func TestRestoreUnknownSnapshotEmptyStore(t *testing.T) {
	service := NewRestoreService(memory.NewStore(), &fakeManager{})

	_, err := service.Restore(context.Background(), "missing", RestoreOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "none")
}

func TestRestoreDryRunNeverInstalls(t *testing.T) {
	store := memory.NewStore()
	storedSnapshot(t, store, "proj",
		domain.Package{Name: "pandas", Version: "2.0.1"},
		domain.Package{Name: "numpy", Version: "1.26.4"},
	)
	manager := &fakeManager{info: linuxInfo("3.11.4")}
	service := NewRestoreService(store, manager)

	report, err := service.Restore(context.Background(), "proj", RestoreOptions{DryRun: true})
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, []string{"pandas==2.0.1", "numpy==1.26.4"}, report.Specs)
	assert.Empty(t, manager.installedBatch)
	assert.Empty(t, manager.installedEach)
}

func TestRestoreDryRunEmptySnapshot(t *testing.T) {
	store := memory.NewStore()
	storedSnapshot(t, store, "bare")
	manager := &fakeManager{info: linuxInfo("3.11.4")}
	service := NewRestoreService(store, manager)

	report, err := service.Restore(context.Background(), "bare", RestoreOptions{DryRun: true})
	require.NoError(t, err)
	assert.Empty(t, report.Specs)
	assert.Empty(t, manager.installedBatch)
}

func TestRestoreBatchInstalls(t *testing.T) {
	store := memory.NewStore()
	snap := storedSnapshot(t, store, "proj",
		domain.Package{Name: "pandas", Version: "2.0.1"},
	)
	manager := &fakeManager{info: linuxInfo("3.11.4")}
	service := NewRestoreService(store, manager)

	report, err := service.Restore(context.Background(), "proj", RestoreOptions{})
	require.NoError(t, err)

	require.Len(t, manager.installedBatch, 1)
	assert.Equal(t, snap.Packages, manager.installedBatch[0])
	assert.Equal(t, 1, report.Installed)
	assert.Empty(t, report.Warnings)
}

func TestRestoreBatchFailureWrapped(t *testing.T) {
	store := memory.NewStore()
	storedSnapshot(t, store, "proj", domain.Package{Name: "pandas", Version: "2.0.1"})
	manager := &fakeManager{
		info:       linuxInfo("3.11.4"),
		installErr: errors.New("pip install: exit status 1: resolution failed"),
	}
	service := NewRestoreService(store, manager)

	_, err := service.Restore(context.Background(), "proj", RestoreOptions{})
	var restoreErr *domain.RestoreError
	require.ErrorAs(t, err, &restoreErr)
	assert.Contains(t, err.Error(), "resolution failed")
}

func TestRestorePerPackageTalliesFailures(t *testing.T) {
	store := memory.NewStore()
	storedSnapshot(t, store, "proj",
		domain.Package{Name: "pandas", Version: "2.0.1"},
		domain.Package{Name: "numpy", Version: "9.9.9"},
		domain.Package{Name: "requests", Version: "2.31.0"},
	)
	manager := &fakeManager{
		info: linuxInfo("3.11.4"),
		eachFailures: []ports.InstallFailure{
			{Package: domain.Package{Name: "numpy", Version: "9.9.9"}, Err: errors.New("no matching version")},
		},
	}
	service := NewRestoreService(store, manager)

	report, err := service.Restore(context.Background(), "proj", RestoreOptions{Strategy: StrategyPerPackage})
	var restoreErr *domain.RestoreError
	require.ErrorAs(t, err, &restoreErr)

	// All packages were attempted before the error was raised.
	require.Len(t, manager.installedEach, 1)
	assert.Len(t, manager.installedEach[0], 3)
	assert.Equal(t, 2, report.Installed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "numpy", report.Failures[0].Package.Name)
}

func TestRestorePythonVersionMismatchWarns(t *testing.T) {
	store := memory.NewStore()
	storedSnapshot(t, store, "proj")
	manager := &fakeManager{info: linuxInfo("3.12.1")}
	service := NewRestoreService(store, manager)

	report, err := service.Restore(context.Background(), "proj", RestoreOptions{DryRun: true})
	require.NoError(t, err)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "3.11.4")
	assert.Contains(t, report.Warnings[0], "3.12.1")
}

func TestRestoreFromMapInvalidData(t *testing.T) {
	service := NewRestoreService(memory.NewStore(), &fakeManager{})

	_, err := service.RestoreFromMap(context.Background(), map[string]any{"invalid": "data"}, RestoreOptions{})
	var restoreErr *domain.RestoreError
	require.ErrorAs(t, err, &restoreErr)

	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestRestoreFromMapValid(t *testing.T) {
	manager := &fakeManager{info: linuxInfo("3.11.4")}
	service := NewRestoreService(memory.NewStore(), manager)

	tree := map[string]any{
		"name":             "proj",
		"python_version":   "3.11.4",
		"platform_system":  "Linux",
		"platform_release": "6.8.0",
		"platform_machine": "x86_64",
		"is_colab":         false,
		"packages": []any{
			map[string]any{"name": "pandas", "version": "2.0.1"},
		},
		"timestamp":    "2026-08-29T10:30:00.000000Z",
		"tool_version": "0.2.0",
	}

	report, err := service.RestoreFromMap(context.Background(), tree, RestoreOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Installed)
	require.Len(t, manager.installedBatch, 1)
}
