package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labbatch/internal/domain"
	"labbatch/internal/store"
)

const sampleYAML = `
items:
  - id: d1
    name: Centrifuge
    category: bench
    tags: [lab-2]
  - id: t1
    kind: template
    name: PCR plate
`

func TestParseDefaultsKind(t *testing.T) {
	items, err := Parse([]byte(sampleYAML), domain.KindDevice)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domain.KindDevice, items[0].Kind)
	assert.Equal(t, []string{"lab-2"}, items[0].Tags)
	assert.Equal(t, domain.KindTemplate, items[1].Kind)
}

func TestParseRejectsBadItems(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing id", "items:\n  - name: x\n"},
		{"duplicate id", "items:\n  - id: a\n  - id: a\n"},
		{"not yaml", "items: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), domain.KindDevice)
			assert.Error(t, err)
		})
	}
}

func TestImportUpserts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0644))

	s := store.NewMemoryItemStore()
	ctx := context.Background()
	n, err := Import(ctx, s, path, domain.KindDevice)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, os.WriteFile(path, []byte("items:\n  - id: d1\n    name: Renamed\n"), 0644))
	_, err = Import(ctx, s, path, domain.KindDevice)
	require.NoError(t, err)

	devices, err := s.List(ctx, domain.KindDevice)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "Renamed", devices[0].Name)
}

func TestReimportKeepsBatchResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0644))

	s, err := store.NewBoltItemStore(filepath.Join(t.TempDir(), "items.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	_, err = Import(ctx, s, path, domain.KindDevice)
	require.NoError(t, err)

	require.NoError(t, s.SoftDelete(ctx, []string{"d1"}))
	require.NoError(t, s.AddTags(ctx, []string{"t1"}, []string{"cold"}))
	require.NoError(t, s.Move(ctx, []string{"t1"}, "freezer"))
	require.NoError(t, s.Archive(ctx, []string{"t1"}))

	n, err := Import(ctx, s, path, domain.KindDevice)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "unchanged seed items are not rewritten")

	d1, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	assert.True(t, d1.Deleted)

	t1, err := s.Get(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, t1.Archived)
	assert.Equal(t, "freezer", t1.Category)
	assert.Contains(t, t1.Tags, "cold")
}

func TestImportMissingFile(t *testing.T) {
	_, err := Import(context.Background(), store.NewMemoryItemStore(), filepath.Join(t.TempDir(), "nope.yaml"), domain.KindDevice)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatcherReportsEdits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("items: []\n"), 0644))

	select {
	case got := <-w.Changes:
		assert.Equal(t, w.Path, got)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}
