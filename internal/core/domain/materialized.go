package domain

// MaterializedNode is the consumer-side representation of one imported
// node: either an assembly container or a placed part. Rotations are in
// radians. Part-bearing nodes carry the effective geometry after node
// overrides have been merged over the referenced part definition.
type MaterializedNode struct {
	UUID       string
	Name       string
	ParentUUID string

	// IsPart distinguishes placed parts from assembly containers.
	IsPart   bool
	PartUUID string

	PosX, PosY, PosZ float64
	RotX, RotY, RotZ float64

	Shape        Shape
	Color        int
	Transparency float64
	LengthX      float64
	LengthY      float64
	LengthZ      float64
	Radius       float64
	Radius2      float64
}

// DocumentMeta records where a materialized document came from and which
// snapshot version it reflects. The timestamp gates reconciliation: a
// snapshot older than or equal to it is a no-op.
type DocumentMeta struct {
	ProjectID string
	ModelUUID string
	Timestamp float64
}
