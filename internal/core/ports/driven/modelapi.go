package driven

import (
	"context"

	"github.com/vsat-labs/satsync-cli/internal/core/domain"
)

// ModelAPI fetches the raw model collections from the data-modeling server.
// Implementations own authentication; any error returned here is a
// transport or auth failure and fatal to the current generation run.
type ModelAPI interface {
	// Projects lists the projects visible to the authenticated user.
	Projects(ctx context.Context) ([]domain.Project, error)

	// EntityTypes fetches the entity-type declarations of a project.
	EntityTypes(ctx context.Context, projectID string) ([]domain.EntityType, error)

	// Entities fetches the flat entity list of a project, already
	// unwrapped from its collection envelope and id-normalized.
	Entities(ctx context.Context, projectID string) ([]domain.Entity, error)

	// Categories fetches all categories of a project.
	Categories(ctx context.Context, projectID string) ([]domain.Category, error)
}
