// Package memory provides in-memory implementations of the storage ports,
// used by tests and by one-shot runs that do not persist a document.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsat-labs/satsync-cli/internal/core/domain"
	"github.com/vsat-labs/satsync-cli/internal/core/ports/driven"
)

// Ensure Document implements the interface.
var _ driven.ProductDocument = (*Document)(nil)

// Document is an in-memory implementation of driven.ProductDocument.
type Document struct {
	mu    sync.RWMutex
	meta  *domain.DocumentMeta
	nodes map[string]domain.MaterializedNode
}

// NewDocument creates an empty in-memory document.
func NewDocument() *Document {
	return &Document{nodes: make(map[string]domain.MaterializedNode)}
}

// Meta implements driven.ProductDocument.
func (d *Document) Meta(ctx context.Context) (*domain.DocumentMeta, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.meta == nil {
		return nil, domain.ErrNotMaterialized
	}
	meta := *d.meta
	return &meta, nil
}

// SetMeta implements driven.ProductDocument.
func (d *Document) SetMeta(ctx context.Context, meta domain.DocumentMeta) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.meta = &meta
	return nil
}

// Nodes implements driven.ProductDocument.
func (d *Document) Nodes(ctx context.Context) (map[string]domain.MaterializedNode, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]domain.MaterializedNode, len(d.nodes))
	for k, v := range d.nodes {
		out[k] = v
	}
	return out, nil
}

// Insert implements driven.ProductDocument.
func (d *Document) Insert(ctx context.Context, node domain.MaterializedNode) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.nodes[node.UUID]; exists {
		return fmt.Errorf("node %s already exists", node.UUID)
	}
	d.nodes[node.UUID] = node
	return nil
}

// Update implements driven.ProductDocument. The parent link is preserved.
func (d *Document) Update(ctx context.Context, node domain.MaterializedNode) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	existing, ok := d.nodes[node.UUID]
	if !ok {
		return fmt.Errorf("node %s: %w", node.UUID, domain.ErrNotFound)
	}
	node.ParentUUID = existing.ParentUUID
	d.nodes[node.UUID] = node
	return nil
}

// Reparent implements driven.ProductDocument.
func (d *Document) Reparent(ctx context.Context, uuid, newParentUUID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	node, ok := d.nodes[uuid]
	if !ok {
		return fmt.Errorf("node %s: %w", uuid, domain.ErrNotFound)
	}
	node.ParentUUID = newParentUUID
	d.nodes[uuid] = node
	return nil
}

// Remove implements driven.ProductDocument.
func (d *Document) Remove(ctx context.Context, uuid string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.nodes[uuid]; !ok {
		return fmt.Errorf("node %s: %w", uuid, domain.ErrNotFound)
	}
	delete(d.nodes, uuid)
	return nil
}

// Close implements driven.ProductDocument.
func (d *Document) Close() error {
	return nil
}
