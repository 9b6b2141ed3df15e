package domain

// MutationKind classifies one applied document mutation.
type MutationKind string

// Mutation kinds, in the order they are applied: removals first, then
// additions, updates and moves.
const (
	MutationRemove MutationKind = "remove"
	MutationAdd    MutationKind = "add"
	MutationUpdate MutationKind = "update"
	MutationMove   MutationKind = "move"
)

// Mutation is one concrete change applied to the materialized document.
type Mutation struct {
	Kind MutationKind
	UUID string
	Name string
}

// ReconcileReport summarizes one reconciliation pass. A node that both
// moved and changed properties counts once under Moved and once under
// Updated; a node with several changed fields still counts as one update.
type ReconcileReport struct {
	Added   int
	Updated int
	Moved   int
	Removed int

	// UpToDate is set when the timestamp gate skipped the pass entirely.
	UpToDate bool

	// Mutations is the concrete change list in application order.
	Mutations []Mutation
}

// Empty reports whether the pass made no changes.
func (r *ReconcileReport) Empty() bool {
	return r.Added == 0 && r.Updated == 0 && r.Moved == 0 && r.Removed == 0
}

// Record appends a mutation and bumps the matching counter.
func (r *ReconcileReport) Record(kind MutationKind, uuid, name string) {
	r.Mutations = append(r.Mutations, Mutation{Kind: kind, UUID: uuid, Name: name})
	switch kind {
	case MutationAdd:
		r.Added++
	case MutationUpdate:
		r.Updated++
	case MutationMove:
		r.Moved++
	case MutationRemove:
		r.Removed++
	}
}
