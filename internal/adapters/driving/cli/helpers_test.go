package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	storagefile "github.com/vsat-labs/satsync-cli/internal/adapters/driven/storage/file"
	"github.com/vsat-labs/satsync-cli/internal/core/domain"
	"github.com/vsat-labs/satsync-cli/internal/core/ports/driving"
)

// mockModelAPI implements driven.ModelAPI for command tests.
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

// mockGenerator implements driving.Generator for command tests.
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

// swapServices installs mocks and returns a restore func.
func swapServices(api *mockModelAPI, gen *mockGenerator) func() {
	oldAPI, oldGen := modelAPI, generator
	if api != nil {
		modelAPI = api
	}
	if gen != nil {
		generator = gen
	}
	return func() {
		modelAPI, generator = oldAPI, oldGen
	}
}

// swapSnapshotStore points the snapshot store at a temp directory.
func swapSnapshotStore(t *testing.T) func() {
	t.Helper()
	old := snapshotStore
	store, err := storagefile.NewSnapshotStore(t.TempDir())
	require.NoError(t, err)
	snapshotStore = store
	return func() { snapshotStore = old }
}

// execute runs the root command with args and captures output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func testSnapshot(ts float64) *domain.Snapshot {
	return &domain.Snapshot{
		Products: &domain.ProductNode{
			Name: "Satellite", UUID: "sat",
			Children: []*domain.ProductNode{
				{Name: "Panel", UUID: "panel", PartUUID: "panel-def", Children: []*domain.ProductNode{}},
			},
		},
		Parts: []domain.PartDefinition{
			{UUID: "panel-def", Name: "Solar Panel", Shape: domain.ShapeBox, Color: 255, LengthX: 2},
		},
		Timestamp: ts,
	}
}
