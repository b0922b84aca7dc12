package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/envsnap/envsnap/internal/domain"
	"github.com/envsnap/envsnap/internal/ports"
)

// InstallStrategy selects how restore drives the package manager.
type InstallStrategy string

const (
	// StrategyBatch installs the full pinned list in one invocation. A
	// single failure aborts the whole batch. This is the default policy.
	StrategyBatch InstallStrategy = "batch"

	// StrategyPerPackage installs one package at a time, continues past
	// individual failures, and fails only after attempting every package.
	StrategyPerPackage InstallStrategy = "per-package"
)

type RestoreOptions struct {
	DryRun   bool
	Strategy InstallStrategy
}

// RestoreReport describes what a restore did, or would do in dry-run mode.
type RestoreReport struct {
	Snapshot  domain.Snapshot
	DryRun    bool
	Specs     []string
	Warnings  []string
	Installed int
	Failures  []ports.InstallFailure
}

type RestoreService struct {
	store   ports.SnapshotStore
	manager ports.PackageManager
}

func NewRestoreService(store ports.SnapshotStore, manager ports.PackageManager) *RestoreService {
	return &RestoreService{store: store, manager: manager}
}

// Restore reinstalls the package set of a stored snapshot.
func (s *RestoreService) Restore(ctx context.Context, name string, opts RestoreOptions) (RestoreReport, error) {
	snap, ok := s.store.Get(name)
	if !ok {
		available := strings.Join(s.store.Names(), ", ")
		if available == "" {
			available = "none"
		}
		return RestoreReport{}, &domain.RestoreError{
			Msg: fmt.Sprintf("snapshot %q not found (available: %s)", name, available),
			Err: domain.ErrSnapshotNotFound,
		}
	}

	return s.RestoreSnapshot(ctx, snap, opts)
}

// RestoreFromMap restores from a raw key-value tree, without requiring the
// snapshot to be stored first.
func (s *RestoreService) RestoreFromMap(ctx context.Context, data map[string]any, opts RestoreOptions) (RestoreReport, error) {
	snap, err := domain.SnapshotFromMap(data)
	if err != nil {
		return RestoreReport{}, &domain.RestoreError{Msg: "invalid snapshot data", Err: err}
	}

	return s.RestoreSnapshot(ctx, snap, opts)
}

func (s *RestoreService) RestoreSnapshot(ctx context.Context, snap domain.Snapshot, opts RestoreOptions) (RestoreReport, error) {
	if opts.Strategy == "" {
		opts.Strategy = StrategyBatch
	}

	report := RestoreReport{Snapshot: snap, DryRun: opts.DryRun}

	if warning := s.pythonVersionWarning(ctx, snap); warning != "" {
		report.Warnings = append(report.Warnings, warning)
	}

	for _, pkg := range snap.Packages {
		report.Specs = append(report.Specs, pkg.Spec())
	}

	if opts.DryRun {
		return report, nil
	}

	switch opts.Strategy {
	case StrategyBatch:
		if err := s.manager.Install(ctx, snap.Packages); err != nil {
			return report, &domain.RestoreError{Msg: "batch install failed", Err: err}
		}
		report.Installed = len(snap.Packages)
	case StrategyPerPackage:
		report.Failures = s.manager.InstallEach(ctx, snap.Packages)
		report.Installed = len(snap.Packages) - len(report.Failures)
		if len(report.Failures) > 0 {
			return report, &domain.RestoreError{
				Msg: fmt.Sprintf("%d of %d packages failed to install", len(report.Failures), len(snap.Packages)),
			}
		}
	default:
		return report, &domain.RestoreError{Msg: fmt.Sprintf("unknown install strategy %q", opts.Strategy)}
	}

	return report, nil
}

// pythonVersionWarning compares the live interpreter against the snapshot.
// A mismatch is never fatal; restoration proceeds best-effort.
func (s *RestoreService) pythonVersionWarning(ctx context.Context, snap domain.Snapshot) string {
	info, err := s.manager.InterpreterInfo(ctx)
	if err != nil {
		return fmt.Sprintf("could not determine current Python version: %v", err)
	}
	if info.PythonVersion != snap.PythonVersion {
		return fmt.Sprintf("Python version mismatch: snapshot %s, current %s; package installation may fail or behave unexpectedly",
			snap.PythonVersion, info.PythonVersion)
	}
	return ""
}
