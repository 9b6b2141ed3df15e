package services

import (
	"github.com/vsat-labs/satsync-cli/internal/core/domain"
	"github.com/vsat-labs/satsync-cli/internal/logger"
)

// Well-known visualization property names.
const (
	propShape        = "shape"
	propColor        = "color"
	propTransparency = "transparency"
	propSizeX        = "sizeX"
	propSizeY        = "sizeY"
	propSizeZ        = "sizeZ"
	propRadius       = "radius"
	propRadius2      = "radius2"
	propPosX         = "posX"
	propPosY         = "posY"
	propPosZ         = "posZ"
	propRotX         = "rotX"
	propRotY         = "rotY"
	propRotZ         = "rotZ"
)

// Resolver computes the effective visualization property set of an entity
// by merging two independent inheritance chains:
//
//   - entity-level inheritance: the entity's inheritsFrom bases, resolved
//     recursively, later bases overwriting earlier ones;
//   - category-level inheritance: the chain of visualization/geometry
//     categories attached to the entity, walked breadth-first with
//     nearer categories always beating farther ones.
//
// The entity's own category chain overrides anything inherited from base
// entities. All per-entity data problems degrade to warnings and defaults;
// the resolver never fails a generation run.
type Resolver struct {
	entityIdx   domain.EntityIndex
	categoryIdx domain.CategoryIndex
	visByEntity map[string][]*domain.Category
}

// NewResolver indexes the crawled collections for resolution. The slices
// must outlive the resolver.
func NewResolver(entities []domain.Entity, categories []domain.Category) *Resolver {
	r := &Resolver{
		entityIdx:   domain.IndexEntities(entities),
		categoryIdx: domain.IndexCategories(categories),
		visByEntity: make(map[string][]*domain.Category),
	}
	for i := range categories {
		c := &categories[i]
		if !c.IsVisualization() {
			continue
		}
		entityID := c.EntityID.String()
		if entityID == "" {
			continue
		}
		r.visByEntity[entityID] = append(r.visByEntity[entityID], c)
	}
	return r
}

// Resolve returns the effective property set for an entity, or nil when
// the entity is unknown or carries no visualization data at all. A nil
// result is distinct from an empty-but-present one by construction: a
// non-nil map is never empty.
func (r *Resolver) Resolve(entityID string) domain.ResolvedProperties {
	return r.resolve(domain.NormalizeID(entityID), false, make(map[string]bool))
}

// ResolveOwn resolves without entity-level inheritance: only the entity's
// directly attached category chain contributes.
func (r *Resolver) ResolveOwn(entityID string) domain.ResolvedProperties {
	return r.resolve(domain.NormalizeID(entityID), true, make(map[string]bool))
}

func (r *Resolver) resolve(entityID string, skipEntityInheritance bool, visiting map[string]bool) domain.ResolvedProperties {
	entity, ok := r.entityIdx[entityID]
	if !ok {
		logger.Warn("entity %s not found in entities list", entityID)
		return nil
	}
	if visiting[entityID] {
		// Entity inheritance cycle; the data is malformed but must not
		// recurse forever.
		logger.Warn("entity inheritance cycle at %s", entityID)
		return nil
	}
	visiting[entityID] = true
	defer delete(visiting, entityID)

	props := domain.ResolvedProperties{}

	if !skipEntityInheritance {
		// Later bases overwrite earlier ones.
		for _, baseID := range entity.InheritsFrom {
			for name, value := range r.resolve(baseID.String(), false, visiting) {
				props[name] = value
			}
		}
	}

	// The entity's own category chain is the strongest signal.
	for name, value := range r.ownCategoryProperties(entityID) {
		props[name] = value
	}

	if len(props) == 0 {
		return nil
	}
	return props
}

// ownCategoryProperties merges the category-inheritance chain of the
// authoritative visualization candidate attached to an entity. When
// several visualization categories attach to the same entity, the one
// with the highest id wins; that is a deliberate schema decision.
func (r *Resolver) ownCategoryProperties(entityID string) domain.ResolvedProperties {
	candidates := r.visByEntity[entityID]
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if domain.CompareIDs(c.ID.String(), best.ID.String()) > 0 {
			best = c
		}
	}

	props := domain.ResolvedProperties{}
	queue := []*domain.Category{best}
	visited := make(map[string]bool)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		id := current.ID.String()
		if visited[id] {
			continue
		}
		visited[id] = true

		for _, p := range current.Properties {
			// A name set by a nearer category is never overwritten by a
			// farther ancestor.
			if _, exists := props[p.Name]; exists {
				continue
			}
			value := p.Value
			if p.Name == propTransparency {
				value = clampTransparency(value)
			}
			props[p.Name] = value
		}

		if parentID := current.InheritsFrom.String(); parentID != "" {
			if parent, ok := r.categoryIdx[parentID]; ok {
				queue = append(queue, parent)
			} else {
				logger.Warn("category %s inherits from unknown category %s", id, parentID)
			}
		}
	}

	return props
}

// clampTransparency coerces a transparency value to a number in [0, 100].
// Values that do not parse default to fully opaque.
func clampTransparency(v domain.PropertyValue) domain.PropertyValue {
	f, ok := v.Float()
	if !ok {
		return domain.NumberValue(0)
	}
	if f < 0 {
		f = 0
	}
	if f > 100 {
		f = 100
	}
	return domain.NumberValue(f)
}
