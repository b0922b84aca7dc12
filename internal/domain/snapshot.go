package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the wire format for snapshot timestamps:
// microsecond-precision UTC with a literal Z suffix.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Snapshot is a point-in-time record of a Python environment: interpreter
// and platform facts plus the ordered list of installed packages.
type Snapshot struct {
	Name            string
	PythonVersion   string
	PlatformSystem  string
	PlatformRelease string
	PlatformMachine string
	IsColab         bool
	Packages        []Package
	Timestamp       string
	ToolVersion     string
	Metadata        map[string]string
}

func NewSnapshot(snap Snapshot) (Snapshot, error) {
	if snap.Name == "" {
		return Snapshot{}, &ValidationError{Field: "snapshot name", Reason: "cannot be empty"}
	}
	if snap.PythonVersion == "" {
		return Snapshot{}, &ValidationError{Field: "python version", Reason: "cannot be empty"}
	}
	if snap.Packages == nil {
		snap.Packages = []Package{}
	}
	if snap.Metadata == nil {
		snap.Metadata = map[string]string{}
	}

	return snap, nil
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func (s Snapshot) PackageCount() int {
	return len(s.Packages)
}

// FindPackage returns the first package whose name matches case-insensitively.
func (s Snapshot) FindPackage(name string) (Package, bool) {
	for _, pkg := range s.Packages {
		if strings.EqualFold(pkg.Name, name) {
			return pkg, true
		}
	}
	return Package{}, false
}

// Summary renders the core fields as fixed-order human-readable lines.
func (s Snapshot) Summary() string {
	colab := "No"
	if s.IsColab {
		colab = "Yes"
	}

	lines := []string{
		fmt.Sprintf("Snapshot: %s", s.Name),
		fmt.Sprintf("Created: %s", s.Timestamp),
		fmt.Sprintf("Python: %s", s.PythonVersion),
		fmt.Sprintf("Platform: %s %s (%s)", s.PlatformSystem, s.PlatformRelease, s.PlatformMachine),
		fmt.Sprintf("Colab: %s", colab),
		fmt.Sprintf("Packages: %d", s.PackageCount()),
	}
	return strings.Join(lines, "\n")
}

func (s Snapshot) ToMap() map[string]any {
	packages := make([]any, 0, len(s.Packages))
	for _, pkg := range s.Packages {
		packages = append(packages, pkg.ToMap())
	}

	metadata := map[string]any{}
	for key, value := range s.Metadata {
		metadata[key] = value
	}

	return map[string]any{
		"name":             s.Name,
		"python_version":   s.PythonVersion,
		"platform_system":  s.PlatformSystem,
		"platform_release": s.PlatformRelease,
		"platform_machine": s.PlatformMachine,
		"is_colab":         s.IsColab,
		"packages":         packages,
		"timestamp":        s.Timestamp,
		"tool_version":     s.ToolVersion,
		"metadata":         metadata,
	}
}

func SnapshotFromMap(data map[string]any) (Snapshot, error) {
	name, err := stringField(data, "name")
	if err != nil {
		return Snapshot{}, err
	}
	pythonVersion, err := stringField(data, "python_version")
	if err != nil {
		return Snapshot{}, err
	}

	rawPackages, ok := data["packages"]
	if !ok {
		return Snapshot{}, &ValidationError{Field: "packages", Reason: "missing"}
	}
	packageList, ok := rawPackages.([]any)
	if !ok {
		return Snapshot{}, &ValidationError{Field: "packages", Reason: "not a sequence"}
	}

	packages := make([]Package, 0, len(packageList))
	for i, entry := range packageList {
		entryMap, ok := entry.(map[string]any)
		if !ok {
			return Snapshot{}, &ValidationError{Field: fmt.Sprintf("packages[%d]", i), Reason: "not an object"}
		}
		pkg, err := PackageFromMap(entryMap)
		if err != nil {
			return Snapshot{}, err
		}
		packages = append(packages, pkg)
	}

	platformSystem, err := stringField(data, "platform_system")
	if err != nil {
		return Snapshot{}, err
	}
	platformRelease, err := stringField(data, "platform_release")
	if err != nil {
		return Snapshot{}, err
	}
	platformMachine, err := stringField(data, "platform_machine")
	if err != nil {
		return Snapshot{}, err
	}
	timestamp, err := stringField(data, "timestamp")
	if err != nil {
		return Snapshot{}, err
	}
	toolVersion, err := stringField(data, "tool_version")
	if err != nil {
		return Snapshot{}, err
	}
	isColab, err := boolField(data, "is_colab")
	if err != nil {
		return Snapshot{}, err
	}

	metadata := map[string]string{}
	if rawMetadata, ok := data["metadata"]; ok {
		metadataMap, ok := rawMetadata.(map[string]any)
		if !ok {
			return Snapshot{}, &ValidationError{Field: "metadata", Reason: "not an object"}
		}
		for key, raw := range metadataMap {
			value, ok := raw.(string)
			if !ok {
				return Snapshot{}, &ValidationError{Field: "metadata." + key, Reason: "not a string"}
			}
			metadata[key] = value
		}
	}

	return NewSnapshot(Snapshot{
		Name:            name,
		PythonVersion:   pythonVersion,
		PlatformSystem:  platformSystem,
		PlatformRelease: platformRelease,
		PlatformMachine: platformMachine,
		IsColab:         isColab,
		Packages:        packages,
		Timestamp:       timestamp,
		ToolVersion:     toolVersion,
		Metadata:        metadata,
	})
}

func (s Snapshot) ToJSON() (string, error) {
	data, err := json.MarshalIndent(s.ToMap(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return string(data), nil
}

func SnapshotFromJSON(text string) (Snapshot, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return Snapshot{}, &ValidationError{Field: "snapshot", Reason: "malformed JSON: " + err.Error()}
	}
	return SnapshotFromMap(data)
}

func boolField(data map[string]any, key string) (bool, error) {
	raw, ok := data[key]
	if !ok {
		return false, &ValidationError{Field: key, Reason: "missing"}
	}
	value, ok := raw.(bool)
	if !ok {
		return false, &ValidationError{Field: key, Reason: "not a boolean"}
	}
	return value, nil
}
