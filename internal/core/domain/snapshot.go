package domain

// DefaultPartColor is the gray applied when a part declares no color or
// the declared value does not parse (0xC0C0C0).
const DefaultPartColor = 12632256

// DefaultPartSize is the fallback dimension for parts that omit a size.
const DefaultPartSize = 0.1

// ProductNode is one node of the resolved Products tree. Placement and
// dimension fields are only emitted when the entity resolved visualization
// data for them; rotations are in radians, positions in the source's base
// unit. The JSON names are the wire contract downstream consumers rely on.
type ProductNode struct {
	Name     string         `json:"name"`
	UUID     string         `json:"uuid"`
	Children []*ProductNode `json:"children"`

	PosX *float64 `json:"posX,omitempty"`
	PosY *float64 `json:"posY,omitempty"`
	PosZ *float64 `json:"posZ,omitempty"`
	RotX *float64 `json:"rotX,omitempty"`
	RotY *float64 `json:"rotY,omitempty"`
	RotZ *float64 `json:"rotZ,omitempty"`

	// Node-level shape overrides, merged by consumers on top of the
	// referenced part definition (override-then-base, per node).
	SizeX        *float64 `json:"sizeX,omitempty"`
	SizeY        *float64 `json:"sizeY,omitempty"`
	SizeZ        *float64 `json:"sizeZ,omitempty"`
	Radius       *float64 `json:"radius,omitempty"`
	Transparency *float64 `json:"transparency,omitempty"`

	// PartUUID links the node to a PartDefinition when it represents, or
	// inherits the shape of, a concrete geometric part.
	PartUUID string `json:"partUuid,omitempty"`
	PartName string `json:"partName,omitempty"`
}

// Walk visits the node and every descendant depth-first, parents before
// children.
func (n *ProductNode) Walk(visit func(node, parent *ProductNode)) {
	n.walk(nil, visit)
}

func (n *ProductNode) walk(parent *ProductNode, visit func(node, parent *ProductNode)) {
	if n == nil {
		return
	}
	visit(n, parent)
	for _, child := range n.Children {
		child.walk(n, visit)
	}
}

// PartDefinition is a reusable geometric part template, built once per
// qualifying definition entity and referenced by any number of nodes via
// their partUuid. Cylinder and cone heights are carried in LengthY.
type PartDefinition struct {
	UUID         string  `json:"uuid"`
	Name         string  `json:"name"`
	Shape        Shape   `json:"shape"`
	Color        int     `json:"color"`
	Transparency float64 `json:"transparency"`
	LengthX      float64 `json:"lengthX"`
	LengthY      float64 `json:"lengthY"`
	LengthZ      float64 `json:"lengthZ"`
	Radius       float64 `json:"radius"`
	// Radius2 is the cone top radius; zero for every other shape.
	Radius2 float64 `json:"radius2,omitempty"`
}

// Snapshot is the complete resolved output of one generation run, the unit
// exchanged between generation and reconciliation. It is immutable once
// produced.
type Snapshot struct {
	Products  *ProductNode     `json:"Products"`
	Parts     []PartDefinition `json:"Parts"`
	Timestamp float64          `json:"timestamp"`
}

// NodeIndex returns all tree nodes keyed by canonical uuid.
func (s *Snapshot) NodeIndex() map[string]*ProductNode {
	idx := make(map[string]*ProductNode)
	if s == nil || s.Products == nil {
		return idx
	}
	s.Products.Walk(func(node, _ *ProductNode) {
		if key := CanonicalUUID(node.UUID); key != "" {
			idx[key] = node
		}
	})
	return idx
}

// PartIndex returns the parts list keyed by canonical uuid.
func (s *Snapshot) PartIndex() map[string]*PartDefinition {
	idx := make(map[string]*PartDefinition, len(s.Parts))
	for i := range s.Parts {
		if key := CanonicalUUID(s.Parts[i].UUID); key != "" {
			idx[key] = &s.Parts[i]
		}
	}
	return idx
}

// ModelChoice is one eligible root model offered to the caller when the
// model-selection protocol needs an explicit choice.
type ModelChoice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}
