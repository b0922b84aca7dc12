package pip

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/envsnap/envsnap/internal/domain"
	"github.com/envsnap/envsnap/internal/ports"
)

var ErrUnavailable = errors.New("python interpreter unavailable")

const (
	defaultPython = "python3"

	listTimeout     = 30 * time.Second
	batchBase       = 30 * time.Second
	batchPerPackage = 10 * time.Second
	singleTimeout   = 60 * time.Second
)

const probeScript = `import json, platform
print(json.dumps({
    "python_version": platform.python_version(),
    "system": platform.system(),
    "release": platform.release(),
    "machine": platform.machine(),
}))`

type runFunc func(ctx context.Context, args ...string) (stdout string, stderr string, err error)

// Manager drives a Python interpreter's pip module.
type Manager struct {
	run runFunc
}

var _ ports.PackageManager = (*Manager)(nil)

func NewManager(python string) *Manager {
	if python == "" {
		python = defaultPython
	}

	return &Manager{run: pythonRunner(python)}
}

func (m *Manager) ListInstalled(ctx context.Context) ([]domain.Package, []string, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	stdout, stderr, err := m.run(ctx, "-m", "pip", "list", "--format=json")
	if err != nil {
		return nil, nil, formatError("pip list", err, stderr)
	}

	var entries []map[string]any
	if err := json.Unmarshal([]byte(stdout), &entries); err != nil {
		return nil, nil, fmt.Errorf("parse pip list output: %w", err)
	}

	packages := make([]domain.Package, 0, len(entries))
	var warnings []string
	for _, entry := range entries {
		pkg, err := domain.PackageFromMap(entry)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping malformed package entry %v: %v", entry, err))
			continue
		}
		packages = append(packages, pkg)
	}

	return packages, warnings, nil
}

func (m *Manager) Install(ctx context.Context, packages []domain.Package) error {
	if len(packages) == 0 {
		return nil
	}

	// A requirements file sidesteps command-line length limits.
	path, err := writeRequirements(packages)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(path) }()

	ctx, cancel := context.WithTimeout(ctx, batchBase+batchPerPackage*time.Duration(len(packages)))
	defer cancel()

	_, stderr, err := m.run(ctx, "-m", "pip", "install", "-r", path)
	if err != nil {
		return formatError("pip install", err, stderr)
	}

	return nil
}

func (m *Manager) InstallEach(ctx context.Context, packages []domain.Package) []ports.InstallFailure {
	var failures []ports.InstallFailure
	for _, pkg := range packages {
		if stderr, err := m.installOne(ctx, pkg); err != nil {
			failures = append(failures, ports.InstallFailure{Package: pkg, Output: stderr, Err: err})
		}
	}
	return failures
}

func (m *Manager) installOne(ctx context.Context, pkg domain.Package) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, singleTimeout)
	defer cancel()

	_, stderr, err := m.run(ctx, "-m", "pip", "install", pkg.Spec())
	if err != nil {
		return stderr, formatError("pip install "+pkg.Spec(), err, stderr)
	}
	return "", nil
}

func (m *Manager) InterpreterInfo(ctx context.Context) (ports.InterpreterInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	stdout, stderr, err := m.run(ctx, "-c", probeScript)
	if err != nil {
		return ports.InterpreterInfo{}, formatError("probe interpreter", err, stderr)
	}

	var probe struct {
		PythonVersion string `json:"python_version"`
		System        string `json:"system"`
		Release       string `json:"release"`
		Machine       string `json:"machine"`
	}
	if err := json.Unmarshal([]byte(stdout), &probe); err != nil {
		return ports.InterpreterInfo{}, fmt.Errorf("parse interpreter probe output: %w", err)
	}

	return ports.InterpreterInfo{
		PythonVersion:   probe.PythonVersion,
		PlatformSystem:  probe.System,
		PlatformRelease: probe.Release,
		PlatformMachine: probe.Machine,
	}, nil
}

func writeRequirements(packages []domain.Package) (string, error) {
	specs := make([]string, 0, len(packages))
	for _, pkg := range packages {
		specs = append(specs, pkg.Spec())
	}

	file, err := os.CreateTemp("", "envsnap-requirements-*.txt")
	if err != nil {
		return "", fmt.Errorf("create requirements file: %w", err)
	}

	if _, err := file.WriteString(strings.Join(specs, "\n") + "\n"); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return "", fmt.Errorf("write requirements file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(file.Name())
		return "", fmt.Errorf("close requirements file: %w", err)
	}

	return file.Name(), nil
}

func pythonRunner(python string) runFunc {
	return func(ctx context.Context, args ...string) (string, string, error) {
		path, err := exec.LookPath(python)
		if err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				return "", "", ErrUnavailable
			}
			return "", "", fmt.Errorf("locate %s: %w", python, err)
		}

		cmd := exec.CommandContext(ctx, path, args...)

		var stdout bytes.Buffer
		var stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		err = cmd.Run()
		if err != nil && ctx.Err() != nil {
			err = ctx.Err()
		}
		return stdout.String(), strings.TrimSpace(stderr.String()), err
	}
}

func formatError(op string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Errorf("%s: %w: %s", op, err, stderr)
}
