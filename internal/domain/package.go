package domain

// Package is an installed Python package pinned to an exact version.
type Package struct {
	Name    string
	Version string
}

func NewPackage(name, version string) (Package, error) {
	if name == "" {
		return Package{}, &ValidationError{Field: "package name", Reason: "cannot be empty"}
	}
	if version == "" {
		return Package{}, &ValidationError{Field: "package version", Reason: "cannot be empty"}
	}

	return Package{Name: name, Version: version}, nil
}

// Spec returns the pinned pip requirement form, e.g. "pandas==2.0.1".
func (p Package) Spec() string {
	return p.Name + "==" + p.Version
}

func (p Package) ToMap() map[string]any {
	return map[string]any{
		"name":    p.Name,
		"version": p.Version,
	}
}

func PackageFromMap(data map[string]any) (Package, error) {
	name, err := stringField(data, "name")
	if err != nil {
		return Package{}, err
	}
	version, err := stringField(data, "version")
	if err != nil {
		return Package{}, err
	}

	return NewPackage(name, version)
}

func stringField(data map[string]any, key string) (string, error) {
	raw, ok := data[key]
	if !ok {
		return "", &ValidationError{Field: key, Reason: "missing"}
	}
	value, ok := raw.(string)
	if !ok {
		return "", &ValidationError{Field: key, Reason: "not a string"}
	}
	return value, nil
}
