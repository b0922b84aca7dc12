package notebook

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/envsnap/envsnap/internal/ports"
)

// sessionEnvKey is set by ipykernel to the notebook backing the kernel.
const sessionEnvKey = "JPY_SESSION_NAME"

// JupyterLocator resolves the active notebook best-effort: first the kernel
// session environment, then a lone .ipynb in the working directory.
type JupyterLocator struct {
	dir string
}

var _ ports.NotebookLocator = JupyterLocator{}

func NewJupyterLocator(dir string) JupyterLocator {
	if dir == "" {
		dir = "."
	}
	return JupyterLocator{dir: dir}
}

func (l JupyterLocator) ActiveNotebook() (string, bool) {
	if session := os.Getenv(sessionEnvKey); strings.HasSuffix(session, ".ipynb") {
		if filepath.IsAbs(session) {
			return session, true
		}
		return filepath.Join(l.dir, session), true
	}

	matches, err := filepath.Glob(filepath.Join(l.dir, "*.ipynb"))
	if err != nil || len(matches) != 1 {
		return "", false
	}

	return matches[0], true
}
