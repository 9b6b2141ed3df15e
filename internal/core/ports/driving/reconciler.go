package driving

import (
	"context"

	"github.com/vsat-labs/satsync-cli/internal/core/domain"
	"github.com/vsat-labs/satsync-cli/internal/core/ports/driven"
)

// Reconciler applies the minimal diff between a materialized document and
// a freshly generated snapshot.
type Reconciler interface {
	// Reconcile diffs snap against doc and applies removals, additions,
	// updates and moves, in that order. A snapshot whose timestamp is not
	// newer than the document's is skipped entirely and reported as
	// up-to-date. Reconciling the same snapshot twice is a no-op on the
	// second pass.
	Reconcile(ctx context.Context, doc driven.ProductDocument, snap *domain.Snapshot) (*domain.ReconcileReport, error)
}
