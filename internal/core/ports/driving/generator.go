package driving

import (
	"context"

	"github.com/vsat-labs/satsync-cli/internal/core/domain"
)

// GenerateResult is the outcome of one generation call: either a complete
// snapshot, or the list of eligible root models when the caller must pick
// one explicitly (the two-phase model-selection protocol).
type GenerateResult struct {
	Snapshot *domain.Snapshot
	Models   []domain.ModelChoice
}

// NeedsSelection reports whether the caller must re-invoke Generate with
// an explicit model id.
func (r *GenerateResult) NeedsSelection() bool {
	return r.Snapshot == nil && len(r.Models) > 0
}

// Generator produces resolved snapshots from the modeling server.
type Generator interface {
	// Generate crawls a project and resolves it into a snapshot.
	// When selectedModelID is empty and exactly one eligible root model
	// exists it is auto-selected; with several candidates the result
	// carries Models instead of a Snapshot. An explicit selectedModelID
	// that matches no entity fails with domain.ErrNotFound.
	Generate(ctx context.Context, projectID, selectedModelID string) (*GenerateResult, error)
}
