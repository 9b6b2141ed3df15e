package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsat-labs/satsync-cli/internal/core/domain"
)

func sampleSnapshot() *domain.Snapshot {
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
		Timestamp: 1700000000.5,
	}
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	s, err := NewSnapshotStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	path, err := s.Save(ctx, "p1", sampleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, s.Dir(), filepath.Dir(path))

	loaded, err := s.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "Satellite", loaded.Products.Name)
	require.Len(t, loaded.Products.Children, 1)
	assert.Equal(t, "panel-def", loaded.Products.Children[0].PartUUID)
	require.Len(t, loaded.Parts, 1)
	assert.Equal(t, domain.ShapeBox, loaded.Parts[0].Shape)
	assert.Equal(t, 1700000000.5, loaded.Timestamp)
}

func TestSnapshotStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSnapshotStore(dir)
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "p1", sampleSnapshot())
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".json", filepath.Ext(entries[0].Name()))
}

func TestSnapshotStoreSaveTo(t *testing.T) {
	s, err := NewSnapshotStore(t.TempDir())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "custom.json")
	require.NoError(t, s.SaveTo(context.Background(), out, sampleSnapshot()))

	loaded, err := s.Load(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, "sat", loaded.Products.UUID)
}

func TestSnapshotStoreRejectsBadInput(t *testing.T) {
	s, err := NewSnapshotStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Save(ctx, "p1", nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidSnapshot))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"Parts": []}`), 0600))
	_, err = s.Load(ctx, bad)
	assert.True(t, errors.Is(err, domain.ErrInvalidSnapshot))

	_, err = s.Load(ctx, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSnapshotStoreSanitizesProjectID(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSnapshotStore(dir)
	require.NoError(t, err)

	path, err := s.Save(context.Background(), "../evil id", sampleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path), "snapshot never escapes the store directory")
}
