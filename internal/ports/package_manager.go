package ports

import (
	"context"

	"github.com/envsnap/envsnap/internal/domain"
)

// InterpreterInfo describes the Python interpreter a snapshot is taken of.
type InterpreterInfo struct {
	PythonVersion   string
	PlatformSystem  string
	PlatformRelease string
	PlatformMachine string
}

// InstallFailure records one package that could not be installed.
type InstallFailure struct {
	Package domain.Package
	Output  string
	Err     error
}

// PackageManager enumerates and installs Python packages.
type PackageManager interface {
	// ListInstalled returns the installed packages in manager order, plus a
	// warning per entry that had to be skipped as malformed.
	ListInstalled(ctx context.Context) ([]domain.Package, []string, error)

	// Install installs every package in one invocation. A single failure
	// fails the whole batch.
	Install(ctx context.Context, packages []domain.Package) error

	// InstallEach installs one package per invocation, continuing past
	// failures, and returns the failures after attempting all packages.
	InstallEach(ctx context.Context, packages []domain.Package) []InstallFailure

	InterpreterInfo(ctx context.Context) (InterpreterInfo, error)
}
