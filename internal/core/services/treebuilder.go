package services

import (
	"fmt"
	"math"

	"github.com/vsat-labs/satsync-cli/internal/core/domain"
	"github.com/vsat-labs/satsync-cli/internal/logger"
)

// TreeBuilder assembles the resolved Products tree and the reusable part
// definitions from the crawled collections.
type TreeBuilder struct {
	index    domain.EntityIndex
	children ChildIndex
	resolver *Resolver
	bases    map[string]*domain.Entity
}

// NewTreeBuilder wires a builder over the crawled entities and categories.
// bases holds the definition entities eligible as part templates, keyed by
// normalized id.
func NewTreeBuilder(entities []domain.Entity, categories []domain.Category, bases map[string]*domain.Entity) *TreeBuilder {
	return &TreeBuilder{
		index:    domain.IndexEntities(entities),
		children: BuildChildIndex(entities),
		resolver: NewResolver(entities, categories),
		bases:    bases,
	}
}

// Resolver exposes the builder's property resolver.
func (b *TreeBuilder) Resolver() *Resolver {
	return b.resolver
}

// nameCounter disambiguates duplicate sibling names. Counters are scoped
// per parent uuid: the first occurrence of a name keeps the bare form,
// the n-th repeat under the same parent is suffixed _n.
type nameCounter struct {
	counts map[string]map[string]int
}

func newNameCounter() *nameCounter {
	return &nameCounter{counts: make(map[string]map[string]int)}
}

func (c *nameCounter) next(parentUUID, name string) string {
	byName := c.counts[parentUUID]
	if byName == nil {
		byName = make(map[string]int)
		c.counts[parentUUID] = byName
	}
	byName[name]++
	if n := byName[name]; n > 1 {
		return fmt.Sprintf("%s_%d", name, n)
	}
	return name
}

// Build produces the Products tree rooted at rootID. The root must exist
// in the entity set; otherwise the build fails with domain.ErrNotFound and
// no partial tree is emitted.
func (b *TreeBuilder) Build(rootID string) (*domain.ProductNode, error) {
	id := domain.NormalizeID(rootID)
	if _, ok := b.index[id]; !ok {
		return nil, fmt.Errorf("root entity %q: %w", rootID, domain.ErrNotFound)
	}
	return b.buildNode(id, "", newNameCounter()), nil
}

func (b *TreeBuilder) buildNode(entityID, parentUUID string, names *nameCounter) *domain.ProductNode {
	entity, ok := b.index[entityID]
	if !ok {
		logger.Warn("entity %s referenced as child but not found", entityID)
		return nil
	}

	name := entity.Name
	if parentUUID != "" {
		name = names.next(parentUUID, entity.Name)
	}

	node := &domain.ProductNode{
		Name:     name,
		UUID:     entity.ID.String(),
		Children: []*domain.ProductNode{},
	}

	vis := b.resolver.Resolve(entityID)
	if vis != nil {
		applyPlacement(node, vis)
	}

	for _, child := range b.children[entityID] {
		if childNode := b.buildNode(child.ID.String(), node.UUID, names); childNode != nil {
			node.Children = append(node.Children, childNode)
		}
	}

	if vis != nil {
		b.assignPart(node, entity)
	}

	return node
}

// applyPlacement copies resolved placement and override fields onto the
// node. Rotations are authored in degrees and converted to radians here,
// exactly once, at tree-output time; positions and dimensions are copied
// verbatim in the source's base unit.
func applyPlacement(node *domain.ProductNode, vis domain.ResolvedProperties) {
	setRotation := func(dst **float64, name string) {
		if !vis.Has(name) {
			return
		}
		degrees, ok := vis.Float(name)
		if !ok {
			logger.Warn("malformed rotation %s=%q, defaulting to 0", name, vis.StringOr(name, ""))
			degrees = 0
		}
		radians := degrees * math.Pi / 180
		*dst = &radians
	}
	setVerbatim := func(dst **float64, name string) {
		if !vis.Has(name) {
			return
		}
		value, ok := vis.Float(name)
		if !ok {
			logger.Warn("malformed property %s=%q, defaulting to 0", name, vis.StringOr(name, ""))
			value = 0
		}
		*dst = &value
	}

	setRotation(&node.RotX, propRotX)
	setRotation(&node.RotY, propRotY)
	setRotation(&node.RotZ, propRotZ)

	setVerbatim(&node.PosX, propPosX)
	setVerbatim(&node.PosY, propPosY)
	setVerbatim(&node.PosZ, propPosZ)

	setVerbatim(&node.SizeX, propSizeX)
	setVerbatim(&node.SizeY, propSizeY)
	setVerbatim(&node.SizeZ, propSizeZ)
	setVerbatim(&node.Radius, propRadius)
	setVerbatim(&node.Transparency, propTransparency)
}

// assignPart links a visualization-bearing node to its part definition.
// An entity that inherits takes its first base as the part reference; an
// entity without inheritance is its own part.
func (b *TreeBuilder) assignPart(node *domain.ProductNode, entity *domain.Entity) {
	if len(entity.InheritsFrom) > 0 {
		baseID := entity.InheritsFrom[0].String()
		if base, ok := b.bases[baseID]; ok {
			node.PartUUID = baseID
			node.PartName = base.Name
			return
		}
		// Dangling base reference; fall back to the entity itself.
		logger.Warn("entity %s inherits from unknown base %s", entity.ID, baseID)
	}
	node.PartUUID = entity.ID.String()
	node.PartName = entity.Name
}

// PartDefinition derives the reusable part template for a definition
// entity. It returns nil when the entity resolves no visualization or no
// usable shape; that is normal for purely structural entities, not an
// error.
func (b *TreeBuilder) PartDefinition(entity *domain.Entity) *domain.PartDefinition {
	vis := b.resolver.Resolve(entity.ID.String())
	if vis == nil {
		logger.Debug("no visualization for entity %s", entity.ID)
		return nil
	}

	shape, ok := domain.ParseShape(vis.StringOr(propShape, ""))
	if !ok {
		return nil
	}

	sizeX := vis.FloatOr(propSizeX, domain.DefaultPartSize)
	sizeY := vis.FloatOr(propSizeY, domain.DefaultPartSize)
	sizeZ := vis.FloatOr(propSizeZ, domain.DefaultPartSize)
	radius := vis.FloatOr(propRadius, 0)

	part := &domain.PartDefinition{
		UUID:         entity.ID.String(),
		Name:         entity.Name,
		Shape:        shape,
		Color:        vis.IntOr(propColor, domain.DefaultPartColor),
		Transparency: vis.FloatOr(propTransparency, 0),
	}

	switch shape {
	case domain.ShapeSphere:
		if radius <= 0 {
			radius = math.Max(sizeX, math.Max(sizeY, sizeZ)) / 2
		}
		part.Radius = radius
	case domain.ShapeCylinder:
		if radius <= 0 {
			radius = math.Max(sizeX, sizeZ) / 2
		}
		part.Radius = radius
		part.LengthY = sizeY
	case domain.ShapeCone:
		if radius <= 0 {
			radius = math.Max(sizeX, sizeZ) / 2
		}
		part.Radius = radius
		part.Radius2 = vis.FloatOr(propRadius2, 0)
		part.LengthY = sizeY
	default: // box, and every unrecognized shape that fell back to box
		part.LengthX = sizeX
		part.LengthY = sizeY
		part.LengthZ = sizeZ
		part.Radius = radius
	}

	return part
}
