package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsat-labs/satsync-cli/internal/core/domain"
	"github.com/vsat-labs/satsync-cli/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps snapshots in memory, keyed by a synthetic path.
type SnapshotStore struct {
	mu    sync.RWMutex
	snaps map[string]*domain.Snapshot
	seq   int
}

// NewSnapshotStore creates an empty in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snaps: make(map[string]*domain.Snapshot)}
}

// Save implements driven.SnapshotStore.
func (s *SnapshotStore) Save(ctx context.Context, projectID string, snap *domain.Snapshot) (string, error) {
	if snap == nil {
		return "", domain.ErrInvalidSnapshot
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	path := fmt.Sprintf("mem://%s/%d", projectID, s.seq)
	s.snaps[path] = snap
	return path, nil
}

// SaveTo implements driven.SnapshotStore.
func (s *SnapshotStore) SaveTo(ctx context.Context, path string, snap *domain.Snapshot) error {
	if snap == nil {
		return domain.ErrInvalidSnapshot
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snaps[path] = snap
	return nil
}

// Load implements driven.SnapshotStore.
func (s *SnapshotStore) Load(ctx context.Context, path string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snaps[path]
	if !ok {
		return nil, fmt.Errorf("snapshot %s: %w", path, domain.ErrNotFound)
	}
	return snap, nil
}
