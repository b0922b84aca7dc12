package ports

// NotebookRepository reads and writes notebook documents as JSON trees.
type NotebookRepository interface {
	Read(path string) (map[string]any, error)
	Write(path string, data map[string]any) error
	Exists(path string) bool
}

// NotebookLocator resolves the notebook backing the active interactive
// session, when one can be determined.
type NotebookLocator interface {
	ActiveNotebook() (string, bool)
}

// NoopLocator never resolves a notebook. It is the default outside
// interactive environments.
type NoopLocator struct{}

func (NoopLocator) ActiveNotebook() (string, bool) { return "", false }
