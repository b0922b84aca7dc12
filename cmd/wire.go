package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/envsnap/envsnap/internal/adapters/host"
	notebookadapter "github.com/envsnap/envsnap/internal/adapters/notebook"
	"github.com/envsnap/envsnap/internal/adapters/pip"
	tomlrepo "github.com/envsnap/envsnap/internal/adapters/repo/toml"
	"github.com/envsnap/envsnap/internal/adapters/store/memory"
	"github.com/envsnap/envsnap/internal/application"
	"github.com/envsnap/envsnap/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	store    ports.SnapshotStore
	archive  ports.SnapshotArchive
	capture  *application.CaptureService
	restore  *application.RestoreService
	notebook *application.NotebookService
}

func wireApp() (*app, error) {
	archive, err := tomlrepo.NewArchive(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire snapshot archive: %w", err)
	}

	manager := pip.NewManager(envOrDefault("ENVSNAP_PYTHON", "python3"))
	store := memory.NewStore()

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	restore := application.NewRestoreService(store, manager)

	return &app{
		store:   store,
		archive: archive,
		capture: application.NewCaptureService(manager, store, ports.SystemClock{}, host.IsColab),
		restore: restore,
		notebook: application.NewNotebookService(
			store,
			notebookadapter.NewRepository(),
			notebookadapter.NewJupyterLocator(workDir),
			restore,
		),
	}, nil
}

// loadIntoStore pulls an archived snapshot into the session store so the
// store-backed services can operate on it.
func (a *app) loadIntoStore(ctx context.Context, name string) error {
	snap, err := a.archive.Load(ctx, name)
	if err != nil {
		return err
	}

	a.store.Put(name, snap)
	return nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
