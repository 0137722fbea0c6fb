package labops

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labbatch/internal/batch"
	"labbatch/internal/domain"
	"labbatch/internal/export"
	"labbatch/internal/store"
)

type publisher struct {
	mu     sync.Mutex
	events []domain.DomainEvent
}

func (p *publisher) Publish(e domain.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

type view struct {
	ids   []string
	total int
}

func (v *view) Selection() batch.Selection { return batch.NewSelection(v.ids, v.total) }
func (v *view) SelectAll(bool)             {}
func (v *view) ClearSelection()            { v.ids = nil }

func setup(t *testing.T, opts ...Option) (*Service, store.ItemStore, *publisher) {
	t.Helper()
	st := store.NewMemoryItemStore()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, st.Put(context.Background(), &domain.Item{
			ID: id, Kind: domain.KindDevice, Name: "Device " + id,
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}))
	}
	pub := &publisher{}
	opts = append([]Option{WithPublisher(pub), WithClipboard(nil)}, opts...)
	return New(st, export.New(t.TempDir()), domain.KindDevice, opts...), st, pub
}

func TestDeleteThenUndoRestores(t *testing.T) {
	svc, st, pub := setup(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, []string{"a", "b"}))
	items, _ := st.List(ctx, domain.KindDevice)
	require.Len(t, items, 1)

	require.NoError(t, svc.Undo(ctx, batch.UndoEntry{ID: "delete_1", Type: batch.OpDelete, ItemIDs: []string{"a", "b"}}))
	items, _ = st.List(ctx, domain.KindDevice)
	assert.Len(t, items, 3)
	assert.Len(t, pub.events, 2)
	assert.Equal(t, domain.EventItemsChanged, pub.events[0].Type())
}

func TestArchiveThenUndo(t *testing.T) {
	svc, st, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, svc.Archive(ctx, []string{"c"}))
	c, _ := st.Get(ctx, "c")
	assert.True(t, c.Archived)

	require.NoError(t, svc.Undo(ctx, batch.UndoEntry{Type: batch.OpArchive, ItemIDs: []string{"c"}}))
	c, _ = st.Get(ctx, "c")
	assert.False(t, c.Archived)

	assert.Error(t, svc.Undo(ctx, batch.UndoEntry{Type: batch.OpTag, ItemIDs: []string{"c"}}))
}

func TestCopyPublishesNewIDs(t *testing.T) {
	svc, st, pub := setup(t)
	ctx := context.Background()

	require.NoError(t, svc.Copy(ctx, []string{"a"}))
	items, _ := st.List(ctx, domain.KindDevice)
	assert.Len(t, items, 4)

	require.Len(t, pub.events, 1)
	changed := pub.events[0].(domain.ItemsChangedEvent)
	require.Len(t, changed.ItemIDs, 1)
	assert.NotEqual(t, "a", changed.ItemIDs[0])
}

func TestMissingItemFailsWithoutPublishing(t *testing.T) {
	svc, _, pub := setup(t)
	err := svc.Move(context.Background(), []string{"a", "zzz"}, "freezer")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, pub.events)
}

func TestExportWritesFile(t *testing.T) {
	svc, _, _ := setup(t)
	require.NoError(t, svc.Export(context.Background(), []string{"a", "b"}, batch.FormatCSV))

	_, err := os.Stat(svc.LastExport())
	assert.NoError(t, err)

	err = svc.Export(context.Background(), []string{"a"}, batch.FormatPDF)
	assert.ErrorIs(t, err, export.ErrUnsupportedFormat)
}

func TestShareBoundOnlyWithClipboard(t *testing.T) {
	svc, _, _ := setup(t)
	assert.Nil(t, svc.Handlers().Share)

	var copied string
	svc, _, _ = setup(t, WithClipboard(func(s string) error { copied = s; return nil }))
	require.NotNil(t, svc.Handlers().Share)
	require.NoError(t, svc.Share(context.Background(), []string{"a", "b"}))
	assert.Equal(t, "labbatch://device?ids=a%2Cb", copied)
	assert.Equal(t, copied, svc.LastShare())

	svc, _, _ = setup(t, WithClipboard(func(string) error { return errors.New("no display") }))
	assert.Error(t, svc.Share(context.Background(), []string{"a"}))
}

// The engine and the store together: delete three of five, undo, and the
// list is whole again.
func TestEngineRoundTrip(t *testing.T) {
	svc, st, _ := setup(t)
	ctx := context.Background()
	v := &view{ids: []string{"a", "b"}, total: 3}

	e, err := batch.New(batch.Options{Handlers: svc.Handlers(), View: v, ItemType: "devices"})
	require.NoError(t, err)

	require.NoError(t, e.OpenMenu())
	_, err = e.Choose(batch.OpDelete)
	require.NoError(t, err)
	inv, err := e.Confirm()
	require.NoError(t, err)
	out, err := e.Execute(ctx, inv)
	require.NoError(t, err)
	require.NoError(t, out.Err)

	items, _ := st.List(ctx, domain.KindDevice)
	assert.Len(t, items, 1)
	assert.Empty(t, v.ids)

	_, err = e.Undo(ctx)
	require.NoError(t, err)
	items, _ = st.List(ctx, domain.KindDevice)
	assert.Len(t, items, 3)
	assert.False(t, e.UndoVisible())
}
