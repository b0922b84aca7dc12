package application

import (
	"context"
	"errors"

	"github.com/envsnap/envsnap/internal/domain"
	"github.com/envsnap/envsnap/internal/ports"
	"github.com/envsnap/envsnap/internal/version"
)

// CaptureResult carries the stored snapshot plus non-fatal warnings
// collected while listing packages.
type CaptureResult struct {
	Snapshot domain.Snapshot
	Warnings []string
}

type CaptureService struct {
	manager ports.PackageManager
	store   ports.SnapshotStore
	clock   ports.Clock
	isColab func() bool
}

func NewCaptureService(manager ports.PackageManager, store ports.SnapshotStore, clock ports.Clock, isColab func() bool) *CaptureService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if isColab == nil {
		isColab = func() bool { return false }
	}

	return &CaptureService{
		manager: manager,
		store:   store,
		clock:   clock,
		isColab: isColab,
	}
}

// Capture records the current environment under name, overwriting any prior
// snapshot of the same name.
func (s *CaptureService) Capture(ctx context.Context, name string, metadata map[string]string) (CaptureResult, error) {
	if name == "" {
		return CaptureResult{}, &domain.CaptureError{Msg: "snapshot name cannot be empty"}
	}

	packages, warnings, err := s.manager.ListInstalled(ctx)
	if err != nil {
		return CaptureResult{}, captureError("list installed packages", err)
	}

	info, err := s.manager.InterpreterInfo(ctx)
	if err != nil {
		return CaptureResult{}, captureError("probe interpreter", err)
	}

	snap, err := domain.NewSnapshot(domain.Snapshot{
		Name:            name,
		PythonVersion:   info.PythonVersion,
		PlatformSystem:  info.PlatformSystem,
		PlatformRelease: info.PlatformRelease,
		PlatformMachine: info.PlatformMachine,
		IsColab:         s.isColab(),
		Packages:        packages,
		Timestamp:       domain.FormatTimestamp(s.clock.Now()),
		ToolVersion:     version.Version,
		Metadata:        metadata,
	})
	if err != nil {
		return CaptureResult{}, captureError("assemble snapshot", err)
	}

	s.store.Put(name, snap)

	return CaptureResult{Snapshot: snap, Warnings: warnings}, nil
}

func captureError(msg string, err error) error {
	var capErr *domain.CaptureError
	if errors.As(err, &capErr) {
		return err
	}
	return &domain.CaptureError{Msg: msg, Err: err}
}
