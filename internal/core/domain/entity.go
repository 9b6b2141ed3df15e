package domain

// EntityType declares a kind of entity in the project schema. Types marked
// IsRoot may serve as the root of a product model; a few administrative
// root types (Product Tree, Modes) are excluded from model selection.
type EntityType struct {
	ID     Identifier `json:"id"`
	Name   string     `json:"name"`
	IsRoot bool       `json:"isRoot"`
}

// Entity is a raw node of the source product/configuration graph.
//
// ParentID defines structural nesting (assembly containment) while
// InheritsFrom defines a separate semantic inheritance relation: a
// configuration entity may inherit default properties from a definition
// entity it does not contain. The two relations are tracked independently.
type Entity struct {
	ID           Identifier   `json:"id"`
	Name         string       `json:"name"`
	EntityTypeID Identifier   `json:"entityTypeId"`
	ParentID     Identifier   `json:"parentId,omitempty"`
	InheritsFrom []Identifier `json:"inheritsFrom,omitempty"`
}

// EntityCollection is the wire envelope of the entities endpoint.
type EntityCollection struct {
	Entities []Entity `json:"entities"`
}

// Project is a project on the modeling server.
type Project struct {
	ID   Identifier `json:"id"`
	Name string     `json:"name"`
}

// EntityIndex is a lookup table of entities keyed by canonical id.
// Construction preserves nothing about order; callers that care about
// source order keep the original slice.
type EntityIndex map[string]*Entity

// IndexEntities builds an EntityIndex over a slice. Entities without an id
// are skipped. The index aliases the slice elements, so the slice must
// outlive the index.
func IndexEntities(entities []Entity) EntityIndex {
	idx := make(EntityIndex, len(entities))
	for i := range entities {
		if id := entities[i].ID.String(); id != "" {
			idx[id] = &entities[i]
		}
	}
	return idx
}
