package toml

import (
	"fmt"

	"github.com/envsnap/envsnap/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version   int              `toml:"version"`
	Snapshots []snapshotSchema `toml:"snapshots"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported snapshots schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type snapshotSchema struct {
	Name            string            `toml:"name"`
	PythonVersion   string            `toml:"python_version"`
	PlatformSystem  string            `toml:"platform_system"`
	PlatformRelease string            `toml:"platform_release"`
	PlatformMachine string            `toml:"platform_machine"`
	IsColab         bool              `toml:"is_colab"`
	Packages        []packageSchema   `toml:"packages"`
	Timestamp       string            `toml:"timestamp"`
	ToolVersion     string            `toml:"tool_version"`
	Metadata        map[string]string `toml:"metadata,omitempty"`
}

type packageSchema struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

func toSchema(snap domain.Snapshot) snapshotSchema {
	packages := make([]packageSchema, 0, len(snap.Packages))
	for _, pkg := range snap.Packages {
		packages = append(packages, packageSchema{Name: pkg.Name, Version: pkg.Version})
	}

	return snapshotSchema{
		Name:            snap.Name,
		PythonVersion:   snap.PythonVersion,
		PlatformSystem:  snap.PlatformSystem,
		PlatformRelease: snap.PlatformRelease,
		PlatformMachine: snap.PlatformMachine,
		IsColab:         snap.IsColab,
		Packages:        packages,
		Timestamp:       snap.Timestamp,
		ToolVersion:     snap.ToolVersion,
		Metadata:        snap.Metadata,
	}
}

func fromSchema(entry snapshotSchema) (domain.Snapshot, error) {
	packages := make([]domain.Package, 0, len(entry.Packages))
	for _, pkg := range entry.Packages {
		decoded, err := domain.NewPackage(pkg.Name, pkg.Version)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("decode snapshot %q: %w", entry.Name, err)
		}
		packages = append(packages, decoded)
	}

	snap, err := domain.NewSnapshot(domain.Snapshot{
		Name:            entry.Name,
		PythonVersion:   entry.PythonVersion,
		PlatformSystem:  entry.PlatformSystem,
		PlatformRelease: entry.PlatformRelease,
		PlatformMachine: entry.PlatformMachine,
		IsColab:         entry.IsColab,
		Packages:        packages,
		Timestamp:       entry.Timestamp,
		ToolVersion:     entry.ToolVersion,
		Metadata:        entry.Metadata,
	})
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot %q: %w", entry.Name, err)
	}

	return snap, nil
}
