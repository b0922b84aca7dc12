package memory

import (
	"sort"
	"sync"

	"github.com/envsnap/envsnap/internal/domain"
	"github.com/envsnap/envsnap/internal/ports"
)

// Store keeps snapshots for the lifetime of the process.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]domain.Snapshot
}

var _ ports.SnapshotStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{snapshots: map[string]domain.Snapshot{}}
}

func (s *Store) Put(name string, snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[name] = snap
}

func (s *Store) Get(name string) (domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[name]
	return snap, ok
}

func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.snapshots))
	for name := range s.snapshots {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots = map[string]domain.Snapshot{}
}
