package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/vsat-labs/satsync-cli/internal/core/domain"
	"github.com/vsat-labs/satsync-cli/internal/core/ports/driven"
	"github.com/vsat-labs/satsync-cli/internal/logger"
)

// floatEpsilon bounds the float comparisons of the diff. Serialization
// round-trips introduce noise well below this; real edits sit well above.
const floatEpsilon = 1e-6

// Reconciler diffs a snapshot against a materialized document and applies
// the minimal mutation set. It implements driving.Reconciler.
type Reconciler struct {
	projectID string
}

// NewReconciler builds a reconciler stamping documents with projectID.
func NewReconciler(projectID string) *Reconciler {
	return &Reconciler{projectID: projectID}
}

// Reconcile implements driving.Reconciler.
func (r *Reconciler) Reconcile(ctx context.Context, doc driven.ProductDocument, snap *domain.Snapshot) (*domain.ReconcileReport, error) {
	if snap == nil || snap.Products == nil || snap.Products.UUID == "" {
		return nil, fmt.Errorf("snapshot has no product tree: %w", domain.ErrInvalidSnapshot)
	}

	report := &domain.ReconcileReport{}

	meta, err := doc.Meta(ctx)
	switch {
	case err == nil:
		if snap.Timestamp <= meta.Timestamp {
			logger.Info("document is up to date (snapshot %.3f <= applied %.3f)", snap.Timestamp, meta.Timestamp)
			report.UpToDate = true
			return report, nil
		}
	case errors.Is(err, domain.ErrNotMaterialized):
		meta = nil
	default:
		return nil, fmt.Errorf("reading document meta: %w", err)
	}

	existing, err := doc.Nodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading document nodes: %w", err)
	}

	rootUUID := domain.CanonicalUUID(snap.Products.UUID)
	if meta != nil && len(existing) > 0 && domain.CanonicalUUID(meta.ModelUUID) != rootUUID {
		return nil, fmt.Errorf("document holds model %s, snapshot is for %s: %w",
			meta.ModelUUID, snap.Products.UUID, domain.ErrRootMismatch)
	}

	desired := buildDesiredState(snap)

	// Removals first, so a later insert never collides with a stale node
	// keeping the same name slot.
	removed := make([]string, 0)
	for key := range existing {
		if _, keep := desired[key]; !keep {
			removed = append(removed, key)
		}
	}
	sort.Strings(removed)
	for _, key := range removed {
		if err := doc.Remove(ctx, key); err != nil {
			return nil, fmt.Errorf("removing node %s: %w", key, err)
		}
		report.Record(domain.MutationRemove, key, existing[key].Name)
		delete(existing, key)
	}

	// Top-down so a parent always exists before its children are inserted
	// or moved under it.
	var applyErr error
	snap.Products.Walk(func(node, parent *domain.ProductNode) {
		if applyErr != nil {
			return
		}
		key := domain.CanonicalUUID(node.UUID)
		if key == "" {
			logger.Warn("skipping node %q with empty uuid", node.Name)
			return
		}
		want := desired[key]

		current, ok := existing[key]
		if !ok {
			if err := doc.Insert(ctx, want); err != nil {
				applyErr = fmt.Errorf("inserting node %s: %w", key, err)
				return
			}
			report.Record(domain.MutationAdd, key, want.Name)
			existing[key] = want
			return
		}

		if !nodesEquivalent(current, want) {
			if err := doc.Update(ctx, want); err != nil {
				applyErr = fmt.Errorf("updating node %s: %w", key, err)
				return
			}
			report.Record(domain.MutationUpdate, key, want.Name)
		}
		if current.ParentUUID != want.ParentUUID {
			if err := doc.Reparent(ctx, key, want.ParentUUID); err != nil {
				applyErr = fmt.Errorf("moving node %s: %w", key, err)
				return
			}
			report.Record(domain.MutationMove, key, want.Name)
		}
		existing[key] = want
	})
	if applyErr != nil {
		return nil, applyErr
	}

	newMeta := domain.DocumentMeta{
		ProjectID: r.projectID,
		ModelUUID: snap.Products.UUID,
		Timestamp: snap.Timestamp,
	}
	if meta != nil && r.projectID == "" {
		newMeta.ProjectID = meta.ProjectID
	}
	if err := doc.SetMeta(ctx, newMeta); err != nil {
		return nil, fmt.Errorf("recording document meta: %w", err)
	}

	if report.Empty() {
		logger.Info("document already matches the snapshot")
	} else {
		logger.Info("applied %d additions, %d updates, %d moves, %d removals",
			report.Added, report.Updated, report.Moved, report.Removed)
	}
	return report, nil
}

// buildDesiredState flattens the snapshot into the target node set keyed
// by canonical uuid. Part-bearing nodes merge their overrides over the
// referenced part definition.
func buildDesiredState(snap *domain.Snapshot) map[string]domain.MaterializedNode {
	parts := snap.PartIndex()
	desired := make(map[string]domain.MaterializedNode)

	snap.Products.Walk(func(node, parent *domain.ProductNode) {
		key := domain.CanonicalUUID(node.UUID)
		if key == "" {
			return
		}
		m := domain.MaterializedNode{
			UUID: key,
			Name: node.Name,
		}
		if parent != nil {
			m.ParentUUID = domain.CanonicalUUID(parent.UUID)
		}
		m.PosX = deref(node.PosX)
		m.PosY = deref(node.PosY)
		m.PosZ = deref(node.PosZ)
		m.RotX = deref(node.RotX)
		m.RotY = deref(node.RotY)
		m.RotZ = deref(node.RotZ)

		if partKey := domain.CanonicalUUID(node.PartUUID); partKey != "" {
			if part, ok := parts[partKey]; ok {
				m.IsPart = true
				m.PartUUID = partKey
				m.Shape = part.Shape
				m.Color = part.Color
				m.Transparency = part.Transparency
				m.LengthX = part.LengthX
				m.LengthY = part.LengthY
				m.LengthZ = part.LengthZ
				m.Radius = part.Radius
				m.Radius2 = part.Radius2

				// Node-level overrides win over the part template.
				if node.SizeX != nil {
					m.LengthX = *node.SizeX
				}
				if node.SizeY != nil {
					m.LengthY = *node.SizeY
				}
				if node.SizeZ != nil {
					m.LengthZ = *node.SizeZ
				}
				if node.Radius != nil {
					m.Radius = *node.Radius
				}
				if node.Transparency != nil {
					m.Transparency = *node.Transparency
				}
			} else {
				logger.Warn("node %s references unknown part %s, treating as container", key, node.PartUUID)
			}
		}
		desired[key] = m
	})
	return desired
}

// nodesEquivalent compares everything Update can change. Parent linkage is
// deliberately excluded; moves are detected separately.
func nodesEquivalent(a, b domain.MaterializedNode) bool {
	if a.Name != b.Name || a.IsPart != b.IsPart || a.PartUUID != b.PartUUID {
		return false
	}
	if a.Shape != b.Shape || a.Color != b.Color {
		return false
	}
	floats := [][2]float64{
		{a.PosX, b.PosX}, {a.PosY, b.PosY}, {a.PosZ, b.PosZ},
		{a.RotX, b.RotX}, {a.RotY, b.RotY}, {a.RotZ, b.RotZ},
		{a.Transparency, b.Transparency},
		{a.LengthX, b.LengthX}, {a.LengthY, b.LengthY}, {a.LengthZ, b.LengthZ},
		{a.Radius, b.Radius}, {a.Radius2, b.Radius2},
	}
	for _, pair := range floats {
		if math.Abs(pair[0]-pair[1]) > floatEpsilon {
			return false
		}
	}
	return true
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
