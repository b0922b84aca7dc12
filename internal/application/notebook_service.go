package application

import (
	"context"
	"fmt"

	"github.com/envsnap/envsnap/internal/domain"
	"github.com/envsnap/envsnap/internal/ports"
)

// MetadataKey is the reserved notebook metadata field snapshots live under.
const MetadataKey = "envsnap_snapshot"

type NotebookService struct {
	store     ports.SnapshotStore
	notebooks ports.NotebookRepository
	locator   ports.NotebookLocator
	restore   *RestoreService
}

func NewNotebookService(store ports.SnapshotStore, notebooks ports.NotebookRepository, locator ports.NotebookLocator, restore *RestoreService) *NotebookService {
	if locator == nil {
		locator = ports.NoopLocator{}
	}

	return &NotebookService{
		store:     store,
		notebooks: notebooks,
		locator:   locator,
		restore:   restore,
	}
}

// Embed writes a stored snapshot into the notebook's metadata block, making
// the notebook self-restorable.
func (s *NotebookService) Embed(name, notebookPath string) (domain.Snapshot, string, error) {
	snap, ok := s.store.Get(name)
	if !ok {
		return domain.Snapshot{}, "", &domain.NotebookError{
			Msg: fmt.Sprintf("snapshot %q not found; capture it first", name),
		}
	}

	path, err := s.resolvePath(notebookPath)
	if err != nil {
		return domain.Snapshot{}, "", err
	}

	data, err := s.notebooks.Read(path)
	if err != nil {
		return domain.Snapshot{}, "", err
	}

	metadata := map[string]any{}
	if raw, present := data["metadata"]; present {
		metadata, ok = raw.(map[string]any)
		if !ok {
			// Overwriting a malformed metadata block would discard data.
			return domain.Snapshot{}, "", &domain.NotebookError{
				Msg: "notebook metadata is not an object", Path: path,
			}
		}
	} else {
		data["metadata"] = metadata
	}
	metadata[MetadataKey] = snap.ToMap()

	if err := s.notebooks.Write(path, data); err != nil {
		return domain.Snapshot{}, "", err
	}

	return snap, path, nil
}

// Extract reads the embedded snapshot from a notebook. ok is false when the
// notebook carries no snapshot at all.
func (s *NotebookService) Extract(notebookPath string) (domain.Snapshot, bool, error) {
	data, err := s.notebooks.Read(notebookPath)
	if err != nil {
		return domain.Snapshot{}, false, err
	}

	metadata, _ := data["metadata"].(map[string]any)
	raw, ok := metadata[MetadataKey]
	if !ok {
		return domain.Snapshot{}, false, nil
	}

	tree, ok := raw.(map[string]any)
	if !ok {
		return domain.Snapshot{}, false, &domain.NotebookError{
			Msg: "embedded snapshot is not an object", Path: notebookPath,
		}
	}

	snap, err := domain.SnapshotFromMap(tree)
	if err != nil {
		return domain.Snapshot{}, false, &domain.NotebookError{
			Msg: "invalid embedded snapshot", Path: notebookPath, Err: err,
		}
	}

	return snap, true, nil
}

// RestoreFromNotebook restores the environment embedded in a notebook,
// without requiring the snapshot to be in the session store.
func (s *NotebookService) RestoreFromNotebook(ctx context.Context, notebookPath string, opts RestoreOptions) (RestoreReport, error) {
	path, err := s.resolvePath(notebookPath)
	if err != nil {
		return RestoreReport{}, err
	}

	snap, ok, err := s.Extract(path)
	if err != nil {
		return RestoreReport{}, err
	}
	if !ok {
		return RestoreReport{}, &domain.NotebookError{
			Msg: "no embedded snapshot found; the notebook author needs to embed one first", Path: path,
		}
	}

	return s.restore.RestoreSnapshot(ctx, snap, opts)
}

func (s *NotebookService) resolvePath(notebookPath string) (string, error) {
	if notebookPath == "" {
		detected, ok := s.locator.ActiveNotebook()
		if !ok {
			return "", &domain.NotebookError{
				Msg: "could not auto-detect the notebook path; provide it explicitly",
			}
		}
		notebookPath = detected
	}

	if !s.notebooks.Exists(notebookPath) {
		return "", &domain.NotebookError{Msg: "notebook file not found", Path: notebookPath}
	}

	return notebookPath, nil
}
