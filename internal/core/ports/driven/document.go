package driven

import (
	"context"

	"github.com/vsat-labs/satsync-cli/internal/core/domain"
)

// ProductDocument is the consumer-side materialized model the reconciler
// mutates. It exposes the host's document-mutation surface (add, remove,
// reparent, update) keyed by canonical uuid; the reconciler computes what
// must change and drives these operations, never touching host specifics.
type ProductDocument interface {
	// Meta returns the document provenance and last-applied timestamp.
	// Returns domain.ErrNotMaterialized when nothing was imported yet.
	Meta(ctx context.Context) (*domain.DocumentMeta, error)

	// SetMeta records provenance after a successful pass.
	SetMeta(ctx context.Context, meta domain.DocumentMeta) error

	// Nodes returns every materialized node keyed by canonical uuid.
	Nodes(ctx context.Context) (map[string]domain.MaterializedNode, error)

	// Insert adds a new node under its ParentUUID.
	Insert(ctx context.Context, node domain.MaterializedNode) error

	// Update replaces the stored properties of an existing node.
	// The parent link is not touched; that is Reparent's job.
	Update(ctx context.Context, node domain.MaterializedNode) error

	// Reparent detaches a node from its current parent and attaches it
	// under newParentUUID.
	Reparent(ctx context.Context, uuid, newParentUUID string) error

	// Remove detaches and deletes a node.
	Remove(ctx context.Context, uuid string) error

	// Close releases underlying resources.
	Close() error
}

// SnapshotStore persists generation snapshots as JSON documents.
type SnapshotStore interface {
	// Save writes a snapshot for a project and returns the stored path.
	Save(ctx context.Context, projectID string, snap *domain.Snapshot) (string, error)

	// SaveTo writes a snapshot to an explicit path chosen by the caller.
	SaveTo(ctx context.Context, path string, snap *domain.Snapshot) error

	// Load reads a snapshot back from a path.
	Load(ctx context.Context, path string) (*domain.Snapshot, error)
}
