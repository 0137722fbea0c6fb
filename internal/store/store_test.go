package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labbatch/internal/domain"
)

func backends(t *testing.T) map[string]func(t *testing.T) ItemStore {
	t.Helper()
	return map[string]func(t *testing.T) ItemStore{
		"memory": func(t *testing.T) ItemStore { return NewMemoryItemStore() },
		"bolt": func(t *testing.T) ItemStore {
			s, err := NewBoltItemStore(filepath.Join(t.TempDir(), "items.db"))
			require.NoError(t, err)
			return s
		},
	}
}

func seed(t *testing.T, s ItemStore, ids ...string) {
	t.Helper()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range ids {
		require.NoError(t, s.Put(context.Background(), &domain.Item{
			ID:        id,
			Kind:      domain.KindDevice,
			Name:      "Device " + id,
			Category:  "bench",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func itemIDs(items []*domain.Item) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestItemStores(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("list excludes deleted and other kinds", func(t *testing.T) {
				s := open(t)
				defer s.Close()
				seed(t, s, "a", "b", "c")
				require.NoError(t, s.Put(ctx, &domain.Item{ID: "t1", Kind: domain.KindTemplate, Name: "T"}))

				require.NoError(t, s.SoftDelete(ctx, []string{"b"}))
				items, err := s.List(ctx, domain.KindDevice)
				require.NoError(t, err)
				assert.Equal(t, []string{"a", "c"}, itemIDs(items))

				require.NoError(t, s.Restore(ctx, []string{"b"}))
				items, err = s.List(ctx, domain.KindDevice)
				require.NoError(t, err)
				assert.Equal(t, []string{"a", "b", "c"}, itemIDs(items))
			})

			t.Run("bulk mutation is all or nothing", func(t *testing.T) {
				s := open(t)
				defer s.Close()
				seed(t, s, "a", "b")

				err := s.Archive(ctx, []string{"a", "missing"})
				require.ErrorIs(t, err, ErrNotFound)
				item, err := s.Get(ctx, "a")
				require.NoError(t, err)
				assert.False(t, item.Archived)
			})

			t.Run("archive and unarchive", func(t *testing.T) {
				s := open(t)
				defer s.Close()
				seed(t, s, "a", "b")

				require.NoError(t, s.Archive(ctx, []string{"a", "b"}))
				items, err := s.List(ctx, domain.KindDevice)
				require.NoError(t, err)
				for _, it := range items {
					assert.True(t, it.Archived)
					assert.False(t, it.Visible(false))
				}
				require.NoError(t, s.Unarchive(ctx, []string{"a"}))
				a, _ := s.Get(ctx, "a")
				assert.False(t, a.Archived)
			})

			t.Run("tags merge without duplicates", func(t *testing.T) {
				s := open(t)
				defer s.Close()
				seed(t, s, "x")

				require.NoError(t, s.AddTags(ctx, []string{"x"}, []string{"lab-2", " cold "}))
				require.NoError(t, s.AddTags(ctx, []string{"x"}, []string{"lab-2", ""}))
				x, err := s.Get(ctx, "x")
				require.NoError(t, err)
				assert.Equal(t, []string{"lab-2", "cold"}, x.Tags)
			})

			t.Run("move sets category", func(t *testing.T) {
				s := open(t)
				defer s.Close()
				seed(t, s, "x", "y")

				require.NoError(t, s.Move(ctx, []string{"x", "y"}, "freezer"))
				items, _ := s.List(ctx, domain.KindDevice)
				for _, it := range items {
					assert.Equal(t, "freezer", it.Category)
				}
			})

			t.Run("duplicate creates linked copies", func(t *testing.T) {
				s := open(t)
				defer s.Close()
				seed(t, s, "x")
				require.NoError(t, s.Archive(ctx, []string{"x"}))

				copies, err := s.Duplicate(ctx, []string{"x"})
				require.NoError(t, err)
				require.Len(t, copies, 1)
				assert.NotEqual(t, "x", copies[0].ID)
				assert.Equal(t, "x", copies[0].CopiedFrom)
				assert.Equal(t, "Device x (copy)", copies[0].Name)
				assert.False(t, copies[0].Archived)

				items, _ := s.List(ctx, domain.KindDevice)
				assert.Len(t, items, 2)

				_, err = s.Duplicate(ctx, []string{"nope"})
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("put validates", func(t *testing.T) {
				s := open(t)
				defer s.Close()
				assert.ErrorIs(t, s.Put(ctx, &domain.Item{Kind: domain.KindDevice}), ErrInvalidItem)
				assert.ErrorIs(t, s.Put(ctx, &domain.Item{ID: "z", Kind: "reagent"}), ErrInvalidItem)
				_, err := s.Get(ctx, "z")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("returned items are copies", func(t *testing.T) {
				s := open(t)
				defer s.Close()
				seed(t, s, "x")
				x, _ := s.Get(ctx, "x")
				x.Name = "changed"
				again, _ := s.Get(ctx, "x")
				assert.Equal(t, "Device x", again.Name)
			})
		})
	}
}

func TestBoltItemStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.db")
	s, err := NewBoltItemStore(path)
	require.NoError(t, err)
	seed(t, s, "a")
	require.NoError(t, s.SoftDelete(context.Background(), []string{"a"}))
	require.NoError(t, s.Close())

	s, err = NewBoltItemStore(path)
	require.NoError(t, err)
	defer s.Close()
	a, err := s.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, a.Deleted)
}

func TestNewBoltItemStoreRequiresPath(t *testing.T) {
	_, err := NewBoltItemStore("  ")
	assert.Error(t, err)
}
