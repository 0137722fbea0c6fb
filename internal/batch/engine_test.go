package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labbatch/internal/domain"
)

type fakeView struct {
	ids       []string
	total     int
	clears    int
	selectAll []bool
}

func (v *fakeView) Selection() Selection { return NewSelection(v.ids, v.total) }

func (v *fakeView) SelectAll(selected bool) { v.selectAll = append(v.selectAll, selected) }

func (v *fakeView) ClearSelection() {
	v.ids = nil
	v.clears++
}

type recorder struct {
	mu     sync.Mutex
	events []domain.DomainEvent
}

func (r *recorder) Publish(e domain.DomainEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.EventType
	for _, e := range r.events {
		out = append(out, e.Type())
	}
	return out
}

type calls struct {
	n    int
	ids  [][]string
	args []any
}

func (c *calls) ids1(err error) func(context.Context, []string) error {
	return func(_ context.Context, ids []string) error {
		c.n++
		c.ids = append(c.ids, ids)
		return err
	}
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

type fixture struct {
	engine  *Engine
	view    *fakeView
	clock   *clock
	events  *recorder
	deletes *calls
	archive *calls
	tags    *calls
	moves   *calls
	exports *calls
	undos   []UndoEntry
	undoErr error
}

func newFixture(t *testing.T, ids []string, total int, mutate func(*Handlers)) *fixture {
	t.Helper()
	f := &fixture{
		view:    &fakeView{ids: ids, total: total},
		clock:   &clock{t: time.Unix(1_700_000_000, 0)},
		events:  &recorder{},
		deletes: &calls{},
		archive: &calls{},
		tags:    &calls{},
		moves:   &calls{},
		exports: &calls{},
	}
	h := Handlers{
		Delete:  f.deletes.ids1(nil),
		Archive: f.archive.ids1(nil),
		Copy:    func(context.Context, []string) error { return nil },
		Tag: func(_ context.Context, ids []string, tags []string) error {
			f.tags.n++
			f.tags.ids = append(f.tags.ids, ids)
			f.tags.args = append(f.tags.args, tags)
			return nil
		},
		Move: func(_ context.Context, ids []string, category string) error {
			f.moves.n++
			f.moves.args = append(f.moves.args, category)
			return nil
		},
		Export: func(_ context.Context, ids []string, format ExportFormat) error {
			f.exports.n++
			f.exports.args = append(f.exports.args, format)
			return nil
		},
		Undo: func(_ context.Context, entry UndoEntry) error {
			f.undos = append(f.undos, entry)
			return f.undoErr
		},
	}
	if mutate != nil {
		mutate(&h)
	}
	seq := 0
	e, err := New(Options{
		Handlers:   h,
		View:       f.view,
		ItemType:   "devices",
		Categories: []string{"freezer", "bench"},
		Publisher:  f.events,
		Now:        f.clock.now,
		NewEntryID: func(op OperationID) string {
			seq++
			return fmt.Sprintf("%s_%d", op, seq)
		},
	})
	require.NoError(t, err)
	f.engine = e
	return f
}

// choose opens the menu and picks id
func (f *fixture) choose(t *testing.T, id OperationID) *Invocation {
	t.Helper()
	require.NoError(t, f.engine.OpenMenu())
	inv, err := f.engine.Choose(id)
	require.NoError(t, err)
	return inv
}

func TestNewRequiresView(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestOpenMenuNeedsSelection(t *testing.T) {
	f := newFixture(t, nil, 3, nil)
	assert.ErrorIs(t, f.engine.OpenMenu(), ErrEmptySelection)
	assert.Equal(t, StateIdle, f.engine.State())
}

func TestDeleteRequiresConfirmationScenario(t *testing.T) {
	f := newFixture(t, []string{"A", "B", "C"}, 5, nil)
	assert.True(t, f.view.Selection().Indeterminate())

	inv := f.choose(t, OpDelete)
	assert.Nil(t, inv)
	assert.Equal(t, StateAwaitingConfirmation, f.engine.State())
	assert.Zero(t, f.deletes.n, "handler must not run before confirm")

	inv, err := f.engine.Confirm()
	require.NoError(t, err)
	assert.Equal(t, StateExecuting, f.engine.State())

	out, err := f.engine.Execute(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, 1, f.deletes.n)
	assert.Equal(t, []string{"A", "B", "C"}, f.deletes.ids[0])
	assert.True(t, out.Cleared)
	assert.Empty(t, f.view.ids)
	assert.Equal(t, StateIdle, f.engine.State())
	assert.Equal(t, LevelSuccess, out.Notice.Level)

	entries := f.engine.UndoEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, OpDelete, entries[0].Type)
	assert.Equal(t, []string{"A", "B", "C"}, entries[0].ItemIDs)
	assert.Equal(t, "Delete 3 devices", entries[0].Description)
	assert.Equal(t, f.clock.t.Add(UndoTTL), entries[0].ExpiresAt)
	require.NotNil(t, out.Undo)
	assert.Equal(t, entries[0].ID, out.Undo.ID)

	_, pending := f.engine.Pending()
	assert.False(t, pending)
	assert.Equal(t, []domain.EventType{domain.EventUndoRecorded, domain.EventBatchExecuted}, f.events.types())
}

func TestCancelConfirmationKeepsSelection(t *testing.T) {
	f := newFixture(t, []string{"A"}, 2, nil)
	f.choose(t, OpArchive)
	require.NoError(t, f.engine.Cancel())

	assert.Equal(t, StateIdle, f.engine.State())
	assert.Equal(t, []string{"A"}, f.view.ids)
	assert.Zero(t, f.archive.n)
	_, pending := f.engine.Pending()
	assert.False(t, pending)
	_, err := f.engine.Confirm()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTagScenarioDoesNotRecordUndo(t *testing.T) {
	f := newFixture(t, []string{"X"}, 1, nil)
	assert.True(t, f.view.Selection().AllSelected())

	assert.Nil(t, f.choose(t, OpTag))
	assert.Equal(t, StateCollectingInput, f.engine.State())

	_, err := f.engine.Submit()
	assert.ErrorIs(t, err, ErrInputRequired, "empty tag list must not submit")
	assert.Equal(t, StateCollectingInput, f.engine.State())
	assert.Zero(t, f.tags.n)

	cmd, ok := f.engine.Pending()
	require.True(t, ok)
	tags := cmd.Input.(*TagInput)
	require.True(t, tags.Add("lab-2"))

	inv, err := f.engine.Submit()
	require.NoError(t, err)
	out, err := f.engine.Execute(context.Background(), inv)
	require.NoError(t, err)

	assert.Equal(t, 1, f.tags.n)
	assert.Equal(t, []string{"lab-2"}, f.tags.args[0])
	assert.Empty(t, f.view.ids)
	assert.Zero(t, len(f.engine.UndoEntries()))
	assert.Nil(t, out.Undo)
}

func TestMoveRequiresCategory(t *testing.T) {
	f := newFixture(t, []string{"X", "Y"}, 3, nil)
	f.choose(t, OpMove)

	cmd, _ := f.engine.Pending()
	mv := cmd.Input.(*MoveInput)
	assert.Equal(t, []string{"freezer", "bench"}, mv.Options)

	_, err := f.engine.Submit()
	require.ErrorIs(t, err, ErrInputRequired)
	assert.Zero(t, f.moves.n)

	mv.Category = "bench"
	inv, err := f.engine.Submit()
	require.NoError(t, err)
	_, err = f.engine.Execute(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, []any{"bench"}, f.moves.args)
}

func TestExportDefaultsToJSON(t *testing.T) {
	f := newFixture(t, []string{"X"}, 3, nil)
	f.choose(t, OpExport)

	inv, err := f.engine.Submit()
	require.NoError(t, err)
	out, err := f.engine.Execute(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, []any{FormatJSON}, f.exports.args)
	assert.Equal(t, "Exported 1 devices as JSON", out.Notice.Text)
	assert.Empty(t, f.engine.UndoEntries())
}

func TestCopyRunsImmediately(t *testing.T) {
	f := newFixture(t, []string{"X", "Y"}, 2, nil)
	inv := f.choose(t, OpCopy)
	require.NotNil(t, inv)
	assert.True(t, inv.Bound())
	assert.Equal(t, StateExecuting, f.engine.State())

	out, err := f.engine.Execute(context.Background(), inv)
	require.NoError(t, err)
	assert.True(t, out.Cleared)
	assert.Empty(t, f.engine.UndoEntries())
}

func TestUnboundShareOnlyNotifies(t *testing.T) {
	f := newFixture(t, []string{"X", "Y"}, 4, nil)
	inv := f.choose(t, OpShare)
	require.NotNil(t, inv)
	assert.False(t, inv.Bound())

	out, err := f.engine.Execute(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, LevelInfo, out.Notice.Level)
	assert.Equal(t, "Share link for 2 devices copied", out.Notice.Text)
	assert.True(t, out.Cleared)
	assert.Empty(t, f.engine.UndoEntries())
}

func TestUnboundReversibleOperationNeverEntersLedger(t *testing.T) {
	f := newFixture(t, []string{"X"}, 1, func(h *Handlers) { h.Delete = nil })
	f.choose(t, OpDelete)
	inv, err := f.engine.Confirm()
	require.NoError(t, err)

	out, err := f.engine.Execute(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, LevelWarning, out.Notice.Level)
	assert.Empty(t, f.engine.UndoEntries())
}

func TestArchiveFailureKeepsSelection(t *testing.T) {
	f := newFixture(t, []string{"X"}, 3, func(h *Handlers) {
		h.Archive = func(context.Context, []string) error { return errors.New("backend down") }
	})
	f.choose(t, OpArchive)
	inv, err := f.engine.Confirm()
	require.NoError(t, err)

	out, err := f.engine.Execute(context.Background(), inv)
	require.NoError(t, err)
	assert.EqualError(t, out.Err, "backend down")
	assert.Equal(t, []string{"X"}, f.view.ids)
	assert.Zero(t, f.view.clears)
	assert.False(t, f.engine.Busy())
	assert.Equal(t, LevelError, out.Notice.Level)

	notice, ok := f.engine.Notice()
	require.True(t, ok)
	assert.Equal(t, LevelError, notice.Level)
	assert.Empty(t, f.engine.UndoEntries())
	assert.Equal(t, []domain.EventType{domain.EventBatchFailed}, f.events.types())
}

func TestSingleInvocationInFlight(t *testing.T) {
	f := newFixture(t, []string{"X"}, 3, nil)
	inv := f.choose(t, OpCopy)
	require.NotNil(t, inv)

	assert.ErrorIs(t, f.engine.OpenMenu(), ErrBusy)
	assert.ErrorIs(t, f.engine.Cancel(), ErrBusy)
	_, err := f.engine.BeginUndo()
	assert.ErrorIs(t, err, ErrBusy)

	_, err = f.engine.Settle(inv, nil)
	require.NoError(t, err)
	_, err = f.engine.Settle(inv, nil)
	assert.ErrorIs(t, err, ErrStaleInvocation, "a second settlement must be rejected")
}

func TestEmptySelectionAtConfirmReturnsToIdle(t *testing.T) {
	f := newFixture(t, []string{"X"}, 3, nil)
	f.choose(t, OpDelete)
	f.view.ids = nil

	_, err := f.engine.Confirm()
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Equal(t, StateIdle, f.engine.State())
	assert.Zero(t, f.deletes.n)
}

func runDelete(t *testing.T, f *fixture, ids ...string) {
	t.Helper()
	f.view.ids = ids
	f.choose(t, OpDelete)
	inv, err := f.engine.Confirm()
	require.NoError(t, err)
	_, err = f.engine.Execute(context.Background(), inv)
	require.NoError(t, err)
}

func TestSixReversibleOperationsCapLedgerAtFive(t *testing.T) {
	f := newFixture(t, nil, 10, nil)
	for i := 1; i <= 6; i++ {
		runDelete(t, f, fmt.Sprintf("item-%d", i))
	}

	entries := f.engine.UndoEntries()
	require.Len(t, entries, UndoCapacity)
	assert.Equal(t, "delete_6", entries[0].ID)
	assert.Equal(t, "delete_2", entries[4].ID)
	assert.Contains(t, f.events.types(), domain.EventUndoExpired)
}

func TestUndoTargetsHead(t *testing.T) {
	f := newFixture(t, nil, 10, nil)
	runDelete(t, f, "a")
	runDelete(t, f, "b")

	out, err := f.engine.Undo(context.Background())
	require.NoError(t, err)
	require.Len(t, f.undos, 1)
	assert.Equal(t, "delete_2", f.undos[0].ID)
	assert.Equal(t, []string{"b"}, f.undos[0].ItemIDs)
	assert.Equal(t, "Undid Delete 1 devices", out.Notice.Text)

	head, ok := f.engine.UndoHead()
	require.True(t, ok)
	assert.Equal(t, "delete_1", head.ID)
	assert.Equal(t, StateIdle, f.engine.State())
}

func TestUndoFailureLeavesLedger(t *testing.T) {
	f := newFixture(t, nil, 10, nil)
	runDelete(t, f, "a")
	f.undoErr = errors.New("restore failed")

	out, err := f.engine.Undo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LevelError, out.Notice.Level)
	assert.Len(t, f.engine.UndoEntries(), 1)
	assert.False(t, f.engine.Busy())

	f.undoErr = nil
	_, err = f.engine.Undo(context.Background())
	require.NoError(t, err)
	assert.False(t, f.engine.UndoVisible())
	_, err = f.engine.Undo(context.Background())
	assert.ErrorIs(t, err, ErrNothingToUndo)
}

func TestUndoUnavailableWithoutHandler(t *testing.T) {
	f := newFixture(t, nil, 10, func(h *Handlers) { h.Undo = nil })
	runDelete(t, f, "a")
	_, err := f.engine.BeginUndo()
	assert.ErrorIs(t, err, ErrUndoUnavailable)
	assert.Equal(t, StateIdle, f.engine.State())
}

func TestUndoBlockedWhileDialogOpen(t *testing.T) {
	f := newFixture(t, nil, 10, nil)
	runDelete(t, f, "a")
	f.view.ids = []string{"b"}
	f.choose(t, OpTag)

	_, err := f.engine.BeginUndo()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUndoEntriesAgeOutOldestFirst(t *testing.T) {
	f := newFixture(t, nil, 10, nil)
	runDelete(t, f, "a")
	f.clock.t = f.clock.t.Add(4 * time.Second)
	runDelete(t, f, "b")

	assert.False(t, f.engine.ExpireUndo("delete_1"), "not due yet")

	f.clock.t = f.clock.t.Add(6 * time.Second)
	assert.True(t, f.engine.ExpireUndo("delete_1"))
	head, ok := f.engine.UndoHead()
	require.True(t, ok)
	assert.Equal(t, "delete_2", head.ID, "the newest entry keeps its own clock")

	f.clock.t = f.clock.t.Add(4 * time.Second)
	expired := f.engine.SweepUndo()
	require.Len(t, expired, 1)
	assert.False(t, f.engine.UndoVisible())
	assert.False(t, f.engine.ExpireUndo("delete_2"))
}

func TestChooseRejectsOperationsOutsideCatalog(t *testing.T) {
	c, err := NewCatalog(OpDelete)
	require.NoError(t, err)
	view := &fakeView{ids: []string{"a"}, total: 1}
	e, err := New(Options{Catalog: c, View: view})
	require.NoError(t, err)

	require.NoError(t, e.OpenMenu())
	_, err = e.Choose(OpCopy)
	assert.ErrorIs(t, err, ErrNotInCatalog)
	assert.Equal(t, StateMenuOpen, e.State())
	e.CloseMenu()
	assert.Equal(t, StateIdle, e.State())
}
