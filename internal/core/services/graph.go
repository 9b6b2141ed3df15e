package services

import (
	"github.com/vsat-labs/satsync-cli/internal/core/domain"
)

// ChildIndex maps a parent entity id to its children, preserving source
// order. Child ordering feeds the duplicate-name counters and the output
// tree, so it must be deterministic.
type ChildIndex map[string][]*domain.Entity

// BuildChildIndex builds the structural parent-to-children index over a
// flat entity list. Entities whose normalized parent id is empty are
// structural roots and appear only as keys, never as values. The index
// aliases the slice elements, so the slice must outlive the index.
func BuildChildIndex(entities []domain.Entity) ChildIndex {
	idx := make(ChildIndex)
	for i := range entities {
		parentID := domain.NormalizeID(entities[i].ParentID.String())
		if parentID == "" {
			continue
		}
		idx[parentID] = append(idx[parentID], &entities[i])
	}
	return idx
}
