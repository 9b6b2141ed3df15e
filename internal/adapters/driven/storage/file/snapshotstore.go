// Package file persists generation snapshots as JSON documents on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vsat-labs/satsync-cli/internal/core/domain"
	"github.com/vsat-labs/satsync-cli/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore writes snapshots under a data directory, one timestamped
// JSON file per generation run. Writes go through a uniquely named temp
// file and a rename, so a crashed run never leaves a truncated snapshot
// behind.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore creates a store rooted at dir.
// If dir is empty, defaults to ~/.satsync/snapshots.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".satsync", "snapshots")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &SnapshotStore{dir: dir}, nil
}

// Save implements driven.SnapshotStore.
func (s *SnapshotStore) Save(ctx context.Context, projectID string, snap *domain.Snapshot) (string, error) {
	if snap == nil {
		return "", domain.ErrInvalidSnapshot
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	name := fmt.Sprintf("satellite_%s_%s.json", sanitize(projectID), time.Now().Format("20060102_150405"))
	path := filepath.Join(s.dir, name)

	tmp := path + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("committing snapshot: %w", err)
	}
	return path, nil
}

// SaveTo writes a snapshot to an explicit path, for callers that name the
// output themselves.
func (s *SnapshotStore) SaveTo(ctx context.Context, path string, snap *domain.Snapshot) error {
	if snap == nil {
		return domain.ErrInvalidSnapshot
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	tmp := path + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// Load implements driven.SnapshotStore.
func (s *SnapshotStore) Load(ctx context.Context, path string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	if snap.Products == nil || snap.Products.UUID == "" {
		return nil, fmt.Errorf("snapshot %s has no product tree: %w", path, domain.ErrInvalidSnapshot)
	}
	return &snap, nil
}

// Dir returns the snapshot directory.
func (s *SnapshotStore) Dir() string {
	return s.dir
}

// sanitize keeps project ids filesystem-safe.
func sanitize(id string) string {
	out := make([]rune, 0, len(id))
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "project"
	}
	return string(out)
}
