package ports

import (
	"context"

	"github.com/envsnap/envsnap/internal/domain"
)

// SnapshotStore holds captured snapshots for the lifetime of the owning
// process. Put overwrites unconditionally.
type SnapshotStore interface {
	Put(name string, snap domain.Snapshot)
	Get(name string) (domain.Snapshot, bool)
	Names() []string
	Clear()
}

// SnapshotArchive persists snapshots across processes.
type SnapshotArchive interface {
	Save(ctx context.Context, snap domain.Snapshot) error
	Load(ctx context.Context, name string) (domain.Snapshot, error)
	List(ctx context.Context) ([]domain.Snapshot, error)
	Delete(ctx context.Context, name string) error
}
