package domain

import "strings"

// Visualization category names, matched case-insensitively.
const (
	CategoryVisualization = "visualization"
	CategoryGeometry      = "geometry"
)

// CategoryProperty is a single named value inside a category.
type CategoryProperty struct {
	Name  string        `json:"name"`
	Value PropertyValue `json:"value"`
}

// Category is a named property bag attached to exactly one entity.
// Categories form their own inheritance chain via InheritsFrom pointing at
// another category id, independent of entity-level inheritance.
type Category struct {
	ID           Identifier         `json:"id"`
	Name         string             `json:"name"`
	EntityID     Identifier         `json:"entityId"`
	InheritsFrom Identifier         `json:"inheritsFrom,omitempty"`
	Properties   []CategoryProperty `json:"properties"`
}

// IsVisualization reports whether this category carries geometric
// visualization data.
func (c *Category) IsVisualization() bool {
	name := strings.ToLower(c.Name)
	return name == CategoryVisualization || name == CategoryGeometry
}

// CategoryIndex is a lookup table of categories keyed by canonical id.
type CategoryIndex map[string]*Category

// IndexCategories builds a CategoryIndex over a slice. The index aliases
// the slice elements, so the slice must outlive the index.
func IndexCategories(categories []Category) CategoryIndex {
	idx := make(CategoryIndex, len(categories))
	for i := range categories {
		if id := categories[i].ID.String(); id != "" {
			idx[id] = &categories[i]
		}
	}
	return idx
}
