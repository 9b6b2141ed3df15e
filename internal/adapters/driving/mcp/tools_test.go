package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsat-labs/satsync-cli/internal/core/domain"
	"github.com/vsat-labs/satsync-cli/internal/core/ports/driving"
)

// mockGenerator implements driving.Generator for testing.
type mockGenerator struct {
	result *driving.GenerateResult
	err    error

	gotProjectID string
	gotModelID   string
}

func (m *mockGenerator) Generate(_ context.Context, projectID, modelID string) (*driving.GenerateResult, error) {
	m.gotProjectID = projectID
	m.gotModelID = modelID
	return m.result, m.err
}

// mockModelAPI implements driven.ModelAPI for testing.
type mockModelAPI struct {
	projects []domain.Project
	err      error
}

func (m *mockModelAPI) Projects(_ context.Context) ([]domain.Project, error) {
	return m.projects, m.err
}

func (m *mockModelAPI) EntityTypes(_ context.Context, _ string) ([]domain.EntityType, error) {
	return nil, m.err
}

func (m *mockModelAPI) Entities(_ context.Context, _ string) ([]domain.Entity, error) {
	return nil, m.err
}

func (m *mockModelAPI) Categories(_ context.Context, _ string) ([]domain.Category, error) {
	return nil, m.err
}

func newTestServer(t *testing.T, gen *mockGenerator, api *mockModelAPI) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Generator: gen, ModelAPI: api})
	require.NoError(t, err)
	return server
}

func TestNewServer_ValidatesPorts(t *testing.T) {
	_, err := NewServer(&Ports{ModelAPI: &mockModelAPI{}})
	assert.ErrorIs(t, err, ErrMissingGenerator)

	_, err = NewServer(&Ports{Generator: &mockGenerator{}})
	assert.ErrorIs(t, err, ErrMissingModelAPI)
}

func TestServer_handleListProjects(t *testing.T) {
	ctx := context.Background()

	t.Run("returns projects", func(t *testing.T) {
		api := &mockModelAPI{projects: []domain.Project{
			{ID: "1", Name: "Demo Sat"},
			{ID: "2", Name: "Cubesat"},
		}}
		server := newTestServer(t, &mockGenerator{}, api)

		_, output, err := server.handleListProjects(ctx, nil, struct{}{})
		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, "1", output.Projects[0].ID)
		assert.Equal(t, "Demo Sat", output.Projects[0].Name)
	})

	t.Run("returns error on API failure", func(t *testing.T) {
		api := &mockModelAPI{err: errors.New("connection refused")}
		server := newTestServer(t, &mockGenerator{}, api)

		_, _, err := server.handleListProjects(ctx, nil, struct{}{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestServer_handleGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns snapshot", func(t *testing.T) {
		gen := &mockGenerator{result: &driving.GenerateResult{
			Snapshot: &domain.Snapshot{
				Products:  &domain.ProductNode{Name: "Satellite", UUID: "sat"},
				Timestamp: 100,
			},
		}}
		server := newTestServer(t, gen, &mockModelAPI{})

		_, output, err := server.handleGenerate(ctx, nil, GenerateInput{ProjectID: "p1", ModelID: "sat"})
		require.NoError(t, err)
		assert.Equal(t, "p1", gen.gotProjectID)
		assert.Equal(t, "sat", gen.gotModelID)
		assert.False(t, output.NeedsSelection)
		require.NotNil(t, output.Snapshot)
		assert.Equal(t, "Satellite", output.Snapshot.Products.Name)
	})

	t.Run("surfaces model choices", func(t *testing.T) {
		gen := &mockGenerator{result: &driving.GenerateResult{
			Models: []domain.ModelChoice{
				{ID: "sat", Name: "Satellite A"},
				{ID: "sat2", Name: "Satellite B"},
			},
		}}
		server := newTestServer(t, gen, &mockModelAPI{})

		_, output, err := server.handleGenerate(ctx, nil, GenerateInput{ProjectID: "p1"})
		require.NoError(t, err)
		assert.True(t, output.NeedsSelection)
		assert.Nil(t, output.Snapshot)
		assert.Len(t, output.Models, 2)
	})

	t.Run("returns error on generation failure", func(t *testing.T) {
		gen := &mockGenerator{err: errors.New("no entities")}
		server := newTestServer(t, gen, &mockModelAPI{})

		_, _, err := server.handleGenerate(ctx, nil, GenerateInput{ProjectID: "p1"})
		require.Error(t, err)
	})
}
