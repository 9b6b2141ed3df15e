package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vsat-labs/satsync-cli/internal/core/domain"
	"github.com/vsat-labs/satsync-cli/internal/core/ports/driven"
	"github.com/vsat-labs/satsync-cli/internal/core/ports/driving"
	"github.com/vsat-labs/satsync-cli/internal/logger"
)

// Root entity types that structure the project itself rather than a
// product model. They never appear in model selection.
var excludedRootTypes = map[string]bool{
	"product tree":        true,
	"product tree domain": true,
	"modes":               true,
}

// definitionTypeName marks the entity types whose entities serve as
// reusable part templates.
const definitionTypeName = "product definition"

// Generator crawls a project over the model API and resolves it into a
// snapshot. It implements driving.Generator.
type Generator struct {
	api driven.ModelAPI
	now func() time.Time
}

// NewGenerator builds a generator over an API client.
func NewGenerator(api driven.ModelAPI) *Generator {
	return &Generator{api: api, now: time.Now}
}

// Generate implements driving.Generator.
func (g *Generator) Generate(ctx context.Context, projectID, selectedModelID string) (*driving.GenerateResult, error) {
	runID := uuid.NewString()
	logger.Debug("generation run %s for project %s", runID, projectID)

	types, err := g.api.EntityTypes(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("fetching entity types: %w", err)
	}
	if len(types) == 0 {
		return nil, domain.ErrNoEntityTypes
	}

	entities, err := g.api.Entities(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("fetching entities: %w", err)
	}
	if len(entities) == 0 {
		return nil, domain.ErrNoEntities
	}

	categories, err := g.api.Categories(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("fetching categories: %w", err)
	}
	if len(categories) == 0 {
		logger.Warn("project %s has no categories, output will carry no geometry", projectID)
	}

	typeIdx := indexTypes(types)
	roots := rootEntities(entities, typeIdx)
	if len(roots) == 0 && selectedModelID == "" {
		return nil, domain.ErrNoRootEntities
	}

	root, choices, err := selectModel(entities, roots, typeIdx, selectedModelID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return &driving.GenerateResult{Models: choices}, nil
	}
	logger.Debug("run %s: selected model %s (%s)", runID, root.Name, root.ID)

	bases := definitionEntities(entities, typeIdx)
	builder := NewTreeBuilder(entities, categories, bases)

	tree, err := builder.Build(root.ID.String())
	if err != nil {
		return nil, err
	}

	var parts []domain.PartDefinition
	for i := range entities {
		e := &entities[i]
		if _, ok := bases[e.ID.String()]; !ok {
			continue
		}
		if part := builder.PartDefinition(e); part != nil {
			parts = append(parts, *part)
		}
	}

	snap := &domain.Snapshot{
		Products:  tree,
		Parts:     parts,
		Timestamp: float64(g.now().UnixNano()) / 1e9,
	}
	logger.Info("run %s: generated %d parts, model %q", runID, len(parts), root.Name)
	return &driving.GenerateResult{Snapshot: snap}, nil
}

// indexTypes keys entity types by canonical id.
func indexTypes(types []domain.EntityType) map[string]*domain.EntityType {
	idx := make(map[string]*domain.EntityType, len(types))
	for i := range types {
		if id := types[i].ID.String(); id != "" {
			idx[id] = &types[i]
		}
	}
	return idx
}

// isModelRootType reports whether a type can root a product model.
func isModelRootType(t *domain.EntityType) bool {
	return t != nil && t.IsRoot && !excludedRootTypes[strings.ToLower(strings.TrimSpace(t.Name))]
}

// rootEntities finds the candidate model roots. Preferred are entities of
// an eligible root type with no structural parent; projects with messy
// schemas fall back first to any parentless entity, then to any entity of
// an eligible root type regardless of nesting.
func rootEntities(entities []domain.Entity, typeIdx map[string]*domain.EntityType) []*domain.Entity {
	var byBoth, byParent, byType []*domain.Entity
	for i := range entities {
		e := &entities[i]
		parentless := e.ParentID.String() == ""
		rootTyped := isModelRootType(typeIdx[e.EntityTypeID.String()])
		switch {
		case parentless && rootTyped:
			byBoth = append(byBoth, e)
		case parentless:
			byParent = append(byParent, e)
		case rootTyped:
			byType = append(byType, e)
		}
	}
	if len(byBoth) > 0 {
		return byBoth
	}
	if len(byParent) > 0 {
		logger.Warn("no root-typed top-level entities, falling back to parentless entities")
		return byParent
	}
	if len(byType) > 0 {
		logger.Warn("no top-level entities, falling back to root-typed entities")
	}
	return byType
}

// selectModel applies the two-phase selection protocol. It returns either
// the chosen root, or the choice list when the caller must pick one.
// An explicit selection may name any existing entity, not only a
// discovered root, so a previously imported model that has since been
// nested under a parent can still be regenerated.
func selectModel(entities []domain.Entity, roots []*domain.Entity, typeIdx map[string]*domain.EntityType, selectedModelID string) (*domain.Entity, []domain.ModelChoice, error) {
	if want := domain.CanonicalUUID(selectedModelID); want != "" {
		for _, r := range roots {
			if domain.CanonicalUUID(r.ID.String()) == want {
				return r, nil, nil
			}
		}
		for i := range entities {
			if domain.CanonicalUUID(entities[i].ID.String()) == want {
				logger.Debug("selected model %s is not a discovered root, building its subtree", selectedModelID)
				return &entities[i], nil, nil
			}
		}
		return nil, nil, fmt.Errorf("model %q not found in project: %w", selectedModelID, domain.ErrNotFound)
	}

	if len(roots) == 1 {
		return roots[0], nil, nil
	}

	choices := make([]domain.ModelChoice, 0, len(roots))
	for _, r := range roots {
		choice := domain.ModelChoice{ID: r.ID.String(), Name: r.Name}
		if t := typeIdx[r.EntityTypeID.String()]; t != nil {
			choice.Type = t.Name
		}
		choices = append(choices, choice)
	}
	return nil, choices, nil
}

// definitionEntities collects the part-template candidates keyed by
// canonical id. Entities typed Product Definition qualify; a schema with
// no such type treats every entity as a potential part template.
func definitionEntities(entities []domain.Entity, typeIdx map[string]*domain.EntityType) map[string]*domain.Entity {
	bases := make(map[string]*domain.Entity)
	for i := range entities {
		e := &entities[i]
		if !isDefinition(e, typeIdx) {
			continue
		}
		if id := e.ID.String(); id != "" {
			bases[id] = e
		}
	}
	if len(bases) > 0 {
		return bases
	}
	logger.Warn("no definition entities found, treating every entity as a part candidate")
	for i := range entities {
		if id := entities[i].ID.String(); id != "" {
			bases[id] = &entities[i]
		}
	}
	return bases
}

func isDefinition(e *domain.Entity, typeIdx map[string]*domain.EntityType) bool {
	raw := strings.ToLower(strings.TrimSpace(e.EntityTypeID.String()))
	if raw == "productdefinition" {
		return true
	}
	if t := typeIdx[e.EntityTypeID.String()]; t != nil {
		name := strings.ToLower(strings.TrimSpace(t.Name))
		return name == definitionTypeName || name == "productdefinition"
	}
	return false
}
