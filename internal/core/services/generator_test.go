package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsat-labs/satsync-cli/internal/core/domain"
)

// fakeModelAPI serves canned collections.
type fakeModelAPI struct {
	projects   []domain.Project
	types      []domain.EntityType
	entities   []domain.Entity
	categories []domain.Category
	err        error
}

func (f *fakeModelAPI) Projects(ctx context.Context) ([]domain.Project, error) {
	return f.projects, f.err
}

func (f *fakeModelAPI) EntityTypes(ctx context.Context, projectID string) ([]domain.EntityType, error) {
	return f.types, f.err
}

func (f *fakeModelAPI) Entities(ctx context.Context, projectID string) ([]domain.Entity, error) {
	return f.entities, f.err
}

func (f *fakeModelAPI) Categories(ctx context.Context, projectID string) ([]domain.Category, error) {
	return f.categories, f.err
}

func satelliteAPI() *fakeModelAPI {
	return &fakeModelAPI{
		types: []domain.EntityType{
			{ID: "t-root", Name: "Element Configuration", IsRoot: true},
			{ID: "t-def", Name: "Product Definition"},
			{ID: "t-tree", Name: "Product Tree", IsRoot: true},
		},
		entities: []domain.Entity{
			{ID: "sat", Name: "Satellite", EntityTypeID: "t-root"},
			{ID: "panel-def", Name: "Solar Panel", EntityTypeID: "t-def"},
			{ID: "panel", Name: "Panel", EntityTypeID: "t-def", ParentID: "sat", InheritsFrom: []domain.Identifier{"panel-def"}},
			// Product Tree root type is administrative, never a model root.
			{ID: "tree", Name: "Product Tree", EntityTypeID: "t-tree", ParentID: "sat"},
		},
		categories: []domain.Category{
			visCategory("1", "panel-def", "", map[string]domain.PropertyValue{
				"shape": domain.StringValue("BOX"),
				"sizeX": domain.NumberValue(2),
			}),
		},
	}
}

func newTestGenerator(api *fakeModelAPI) *Generator {
	g := NewGenerator(api)
	g.now = func() time.Time { return time.Unix(1700000000, 500000000) }
	return g
}

func TestGenerateSingleRootAutoSelects(t *testing.T) {
	g := newTestGenerator(satelliteAPI())

	res, err := g.Generate(context.Background(), "p1", "")
	require.NoError(t, err)
	require.False(t, res.NeedsSelection())
	require.NotNil(t, res.Snapshot)

	root := res.Snapshot.Products
	assert.Equal(t, "Satellite", root.Name)
	assert.Equal(t, "sat", root.UUID)
	assert.InDelta(t, 1700000000.5, res.Snapshot.Timestamp, 1e-6)

	require.Len(t, res.Snapshot.Parts, 1)
	assert.Equal(t, "panel-def", res.Snapshot.Parts[0].UUID)
	assert.Equal(t, domain.ShapeBox, res.Snapshot.Parts[0].Shape)
}

func TestGenerateMultipleRootsNeedsSelection(t *testing.T) {
	api := satelliteAPI()
	api.entities = append(api.entities, domain.Entity{
		ID: "sat2", Name: "Satellite B", EntityTypeID: "t-root",
	})
	g := newTestGenerator(api)

	res, err := g.Generate(context.Background(), "p1", "")
	require.NoError(t, err)
	require.True(t, res.NeedsSelection())
	require.Len(t, res.Models, 2)
	assert.Equal(t, "sat", res.Models[0].ID)
	assert.Equal(t, "sat2", res.Models[1].ID)
	assert.Equal(t, "Element Configuration", res.Models[0].Type)

	// Second phase with the explicit pick.
	res, err = g.Generate(context.Background(), "p1", "sat2")
	require.NoError(t, err)
	require.NotNil(t, res.Snapshot)
	assert.Equal(t, "Satellite B", res.Snapshot.Products.Name)
}

func TestGenerateExplicitSelectionOfNestedEntity(t *testing.T) {
	// The stored model of a materialized document may gain a parent on
	// the server between runs. An explicit selection still regenerates
	// the subtree rooted at it instead of failing root discovery.
	g := newTestGenerator(satelliteAPI())

	res, err := g.Generate(context.Background(), "p1", "panel")
	require.NoError(t, err)
	require.NotNil(t, res.Snapshot)
	assert.Equal(t, "panel", res.Snapshot.Products.UUID)
	assert.Equal(t, "panel-def", res.Snapshot.Products.PartUUID)
}

func TestGenerateExplicitSelectionWithoutDiscoverableRoots(t *testing.T) {
	// Every entity hangs off a parent (here one exported with a dangling
	// parent id), so root discovery comes up empty. An explicit selection
	// must still work; only the unselected path fails.
	api := &fakeModelAPI{
		types: []domain.EntityType{{ID: "t", Name: "Block"}},
		entities: []domain.Entity{
			{ID: "a", Name: "Alpha", EntityTypeID: "t", ParentID: "ghost"},
			{ID: "b", Name: "Beta", EntityTypeID: "t", ParentID: "a"},
		},
	}
	g := newTestGenerator(api)

	_, err := g.Generate(context.Background(), "p1", "")
	assert.True(t, errors.Is(err, domain.ErrNoRootEntities))

	res, err := g.Generate(context.Background(), "p1", "a")
	require.NoError(t, err)
	require.NotNil(t, res.Snapshot)
	assert.Equal(t, "Alpha", res.Snapshot.Products.Name)
	require.Len(t, res.Snapshot.Products.Children, 1)
	assert.Equal(t, "Beta", res.Snapshot.Products.Children[0].Name)
}

func TestGenerateUnknownSelectionFails(t *testing.T) {
	g := newTestGenerator(satelliteAPI())

	_, err := g.Generate(context.Background(), "p1", "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGenerateExcludesAdministrativeRoots(t *testing.T) {
	api := satelliteAPI()
	// Promote the Product Tree entity to top level; its root type is
	// administrative and must not surface as a model candidate.
	api.entities[3].ParentID = ""
	g := newTestGenerator(api)

	res, err := g.Generate(context.Background(), "p1", "")
	require.NoError(t, err)
	require.NotNil(t, res.Snapshot, "only one eligible root remains")
	assert.Equal(t, "Satellite", res.Snapshot.Products.Name)
}

func TestGenerateEmptyCollectionsFail(t *testing.T) {
	g := newTestGenerator(&fakeModelAPI{})
	_, err := g.Generate(context.Background(), "p1", "")
	assert.True(t, errors.Is(err, domain.ErrNoEntityTypes))

	g = newTestGenerator(&fakeModelAPI{types: []domain.EntityType{{ID: "t", Name: "T", IsRoot: true}}})
	_, err = g.Generate(context.Background(), "p1", "")
	assert.True(t, errors.Is(err, domain.ErrNoEntities))
}

func TestGenerateFallsBackToParentlessEntities(t *testing.T) {
	// No entity carries an eligible root type, so the parentless entity
	// becomes the root.
	api := &fakeModelAPI{
		types: []domain.EntityType{{ID: "t", Name: "Block"}},
		entities: []domain.Entity{
			{ID: "a", Name: "Top", EntityTypeID: "t"},
			{ID: "b", Name: "Nested", EntityTypeID: "t", ParentID: "a"},
		},
	}
	g := newTestGenerator(api)

	res, err := g.Generate(context.Background(), "p1", "")
	require.NoError(t, err)
	require.NotNil(t, res.Snapshot)
	assert.Equal(t, "Top", res.Snapshot.Products.Name)
	// No Product Definition type in the schema: every entity is a part
	// candidate, but none resolves a shape, so the list stays empty.
	assert.Empty(t, res.Snapshot.Parts)
}

func TestGenerateAPIFailureIsWrapped(t *testing.T) {
	sentinel := errors.New("boom")
	g := newTestGenerator(&fakeModelAPI{err: sentinel})

	_, err := g.Generate(context.Background(), "p1", "")
	assert.True(t, errors.Is(err, sentinel))
}
