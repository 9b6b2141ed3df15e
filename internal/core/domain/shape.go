package domain

import "strings"

// Shape identifies the primitive geometry of a part.
type Shape string

// Recognized shapes. Any other non-empty value falls back to ShapeBox.
const (
	ShapeBox      Shape = "BOX"
	ShapeCylinder Shape = "CYLINDER"
	ShapeSphere   Shape = "SPHERE"
	ShapeCone     Shape = "CONE"
)

// shapeNone is the explicit "no geometry" marker some models use.
const shapeNone = "NONE"

// ParseShape normalizes a raw shape property value. It returns ok=false
// when the value is empty or NONE, meaning the entity has no renderable
// geometry and must be excluded from the parts list. Unrecognized
// non-empty values fall back to ShapeBox.
func ParseShape(raw string) (Shape, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" || s == shapeNone {
		return "", false
	}
	switch Shape(s) {
	case ShapeBox, ShapeCylinder, ShapeSphere, ShapeCone:
		return Shape(s), true
	}
	return ShapeBox, true
}
