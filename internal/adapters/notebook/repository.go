package notebook

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/envsnap/envsnap/internal/domain"
	"github.com/envsnap/envsnap/internal/ports"
)

const notebookFileMode = 0o644

// Repository reads and writes Jupyter notebook files as JSON trees.
type Repository struct{}

var _ ports.NotebookRepository = Repository{}

func NewRepository() Repository {
	return Repository{}
}

func (Repository) Read(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &domain.NotebookError{Msg: "notebook file not found", Path: path}
		}
		return nil, &domain.NotebookError{Msg: "read notebook", Path: path, Err: err}
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &domain.NotebookError{Msg: "invalid notebook JSON", Path: path, Err: err}
	}

	return data, nil
}

func (Repository) Write(path string, data map[string]any) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return &domain.NotebookError{Msg: "encode notebook", Path: path, Err: err}
	}
	encoded = append(encoded, '\n')

	if err := os.WriteFile(path, encoded, notebookFileMode); err != nil {
		return &domain.NotebookError{Msg: "write notebook", Path: path, Err: err}
	}

	return nil
}

func (Repository) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
