package services

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsat-labs/satsync-cli/internal/core/domain"
)

func basesOf(entities []domain.Entity, ids ...string) map[string]*domain.Entity {
	idx := domain.IndexEntities(entities)
	bases := make(map[string]*domain.Entity)
	for _, id := range ids {
		bases[id] = idx[id]
	}
	return bases
}

func TestBuildNestsChildrenUnderParents(t *testing.T) {
	entities := []domain.Entity{
		{ID: "1", Name: "Satellite"},
		{ID: "2", Name: "Bus", ParentID: "1"},
		{ID: "3", Name: "Payload", ParentID: "1"},
		{ID: "4", Name: "Antenna", ParentID: "3"},
	}
	b := NewTreeBuilder(entities, nil, nil)

	root, err := b.Build("1")
	require.NoError(t, err)
	require.Equal(t, "Satellite", root.Name)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "Bus", root.Children[0].Name)
	assert.Equal(t, "Payload", root.Children[1].Name)
	require.Len(t, root.Children[1].Children, 1)
	assert.Equal(t, "Antenna", root.Children[1].Children[0].Name)
}

func TestBuildUnknownRootFails(t *testing.T) {
	b := NewTreeBuilder([]domain.Entity{{ID: "1", Name: "X"}}, nil, nil)
	_, err := b.Build("99")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBuildDisambiguatesSiblingNames(t *testing.T) {
	entities := []domain.Entity{
		{ID: "1", Name: "Sat"},
		{ID: "2", Name: "Panel", ParentID: "1"},
		{ID: "3", Name: "Panel", ParentID: "1"},
		{ID: "4", Name: "Panel", ParentID: "1"},
		// The same name under a different parent stays bare.
		{ID: "5", Name: "Wing", ParentID: "1"},
		{ID: "6", Name: "Panel", ParentID: "5"},
	}
	b := NewTreeBuilder(entities, nil, nil)

	root, err := b.Build("1")
	require.NoError(t, err)
	require.Len(t, root.Children, 4)
	assert.Equal(t, "Panel", root.Children[0].Name)
	assert.Equal(t, "Panel_2", root.Children[1].Name)
	assert.Equal(t, "Panel_3", root.Children[2].Name)
	assert.Equal(t, "Panel", root.Children[3].Children[0].Name)
}

func TestBuildConvertsRotationsToRadians(t *testing.T) {
	entities := []domain.Entity{{ID: "1", Name: "Sat"}}
	categories := []domain.Category{
		visCategory("1", "1", "", map[string]domain.PropertyValue{
			"rotX": domain.NumberValue(90),
			"rotY": domain.NumberValue(180),
			"posX": domain.NumberValue(90),
		}),
	}
	b := NewTreeBuilder(entities, categories, nil)

	root, err := b.Build("1")
	require.NoError(t, err)
	require.NotNil(t, root.RotX)
	require.NotNil(t, root.RotY)
	require.NotNil(t, root.PosX)
	assert.InDelta(t, math.Pi/2, *root.RotX, 1e-9)
	assert.InDelta(t, math.Pi, *root.RotY, 1e-9)
	assert.Equal(t, 90.0, *root.PosX, "positions are copied verbatim")
	assert.Nil(t, root.RotZ, "unset properties stay unset")
}

func TestBuildAssignsPartFromFirstBase(t *testing.T) {
	entities := []domain.Entity{
		{ID: "1", Name: "Sat"},
		{ID: "def1", Name: "Panel Type A"},
		{ID: "def2", Name: "Panel Type B"},
		{ID: "2", Name: "Panel", ParentID: "1", InheritsFrom: []domain.Identifier{"def1", "def2"}},
	}
	categories := []domain.Category{
		visCategory("1", "def1", "", map[string]domain.PropertyValue{
			"shape": domain.StringValue("BOX"),
		}),
	}
	b := NewTreeBuilder(entities, categories, basesOf(entities, "def1", "def2"))

	root, err := b.Build("1")
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "def1", root.Children[0].PartUUID)
	assert.Equal(t, "Panel Type A", root.Children[0].PartName)
}

func TestBuildSelfPartWithoutInheritance(t *testing.T) {
	entities := []domain.Entity{
		{ID: "1", Name: "Sat"},
		{ID: "2", Name: "Tank", ParentID: "1"},
	}
	categories := []domain.Category{
		visCategory("1", "2", "", map[string]domain.PropertyValue{
			"shape": domain.StringValue("SPHERE"),
		}),
	}
	b := NewTreeBuilder(entities, categories, nil)

	root, err := b.Build("1")
	require.NoError(t, err)
	assert.Equal(t, "2", root.Children[0].PartUUID)
	assert.Equal(t, "Tank", root.Children[0].PartName)
	assert.Empty(t, root.PartUUID, "nodes without visualization stay containers")
}

func TestPartDefinitionShapes(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]domain.PropertyValue
		check func(t *testing.T, p *domain.PartDefinition)
	}{
		{
			name: "box with sizes",
			props: map[string]domain.PropertyValue{
				"shape": domain.StringValue("BOX"),
				"sizeX": domain.NumberValue(2),
				"sizeY": domain.NumberValue(3),
				"sizeZ": domain.NumberValue(4),
				"color": domain.NumberValue(255),
			},
			check: func(t *testing.T, p *domain.PartDefinition) {
				assert.Equal(t, domain.ShapeBox, p.Shape)
				assert.Equal(t, 2.0, p.LengthX)
				assert.Equal(t, 3.0, p.LengthY)
				assert.Equal(t, 4.0, p.LengthZ)
				assert.Equal(t, 255, p.Color)
			},
		},
		{
			name: "box defaults",
			props: map[string]domain.PropertyValue{
				"shape": domain.StringValue("BOX"),
			},
			check: func(t *testing.T, p *domain.PartDefinition) {
				assert.Equal(t, domain.DefaultPartSize, p.LengthX)
				assert.Equal(t, domain.DefaultPartSize, p.LengthY)
				assert.Equal(t, domain.DefaultPartSize, p.LengthZ)
				assert.Equal(t, domain.DefaultPartColor, p.Color)
			},
		},
		{
			name: "cylinder radius derived from footprint",
			props: map[string]domain.PropertyValue{
				"shape": domain.StringValue("CYLINDER"),
				"sizeX": domain.NumberValue(2),
				"sizeY": domain.NumberValue(5),
				"sizeZ": domain.NumberValue(4),
			},
			check: func(t *testing.T, p *domain.PartDefinition) {
				assert.Equal(t, domain.ShapeCylinder, p.Shape)
				assert.Equal(t, 2.0, p.Radius, "max(sizeX, sizeZ)/2")
				assert.Equal(t, 5.0, p.LengthY, "height rides in LengthY")
			},
		},
		{
			name: "cylinder explicit radius wins",
			props: map[string]domain.PropertyValue{
				"shape":  domain.StringValue("CYLINDER"),
				"radius": domain.NumberValue(7),
				"sizeX":  domain.NumberValue(2),
			},
			check: func(t *testing.T, p *domain.PartDefinition) {
				assert.Equal(t, 7.0, p.Radius)
			},
		},
		{
			name: "sphere radius from largest extent",
			props: map[string]domain.PropertyValue{
				"shape": domain.StringValue("SPHERE"),
				"sizeX": domain.NumberValue(2),
				"sizeY": domain.NumberValue(6),
				"sizeZ": domain.NumberValue(4),
			},
			check: func(t *testing.T, p *domain.PartDefinition) {
				assert.Equal(t, domain.ShapeSphere, p.Shape)
				assert.Equal(t, 3.0, p.Radius, "max of all three halved")
			},
		},
		{
			name: "cone carries both radii",
			props: map[string]domain.PropertyValue{
				"shape":   domain.StringValue("CONE"),
				"radius":  domain.NumberValue(3),
				"radius2": domain.NumberValue(1),
				"sizeY":   domain.NumberValue(9),
			},
			check: func(t *testing.T, p *domain.PartDefinition) {
				assert.Equal(t, domain.ShapeCone, p.Shape)
				assert.Equal(t, 3.0, p.Radius)
				assert.Equal(t, 1.0, p.Radius2)
				assert.Equal(t, 9.0, p.LengthY)
			},
		},
		{
			name: "unknown shape falls back to box",
			props: map[string]domain.PropertyValue{
				"shape": domain.StringValue("TORUS"),
				"sizeX": domain.NumberValue(1),
			},
			check: func(t *testing.T, p *domain.PartDefinition) {
				assert.Equal(t, domain.ShapeBox, p.Shape)
				assert.Equal(t, 1.0, p.LengthX)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := []domain.Entity{{ID: "d", Name: "Def"}}
			categories := []domain.Category{visCategory("1", "d", "", tt.props)}
			b := NewTreeBuilder(entities, categories, nil)

			part := b.PartDefinition(&entities[0])
			require.NotNil(t, part)
			assert.Equal(t, "d", part.UUID)
			assert.Equal(t, "Def", part.Name)
			tt.check(t, part)
		})
	}
}

func TestPartDefinitionSkipsShapeless(t *testing.T) {
	entities := []domain.Entity{
		{ID: "none", Name: "NoShape"},
		{ID: "novis", Name: "NoVis"},
	}
	categories := []domain.Category{
		visCategory("1", "none", "", map[string]domain.PropertyValue{
			"shape": domain.StringValue("NONE"),
			"sizeX": domain.NumberValue(2),
		}),
	}
	b := NewTreeBuilder(entities, categories, nil)

	assert.Nil(t, b.PartDefinition(&entities[0]), "shape NONE yields no part")
	assert.Nil(t, b.PartDefinition(&entities[1]), "no visualization yields no part")
}
