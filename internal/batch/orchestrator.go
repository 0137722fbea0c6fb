package batch

import (
	"context"
	"fmt"
	"strings"

	"labbatch/internal/domain"
)

// Invocation is a forward operation that has entered Executing.
// Run may be called off the event loop; Settle must follow exactly once.
type Invocation struct {
	seq     uint64
	Command PendingCommand
	ItemIDs []string
	handler boundHandler
}

// Bound reports whether an external handler will run
func (inv *Invocation) Bound() bool {
	return inv != nil && inv.handler != nil
}

// Run invokes the external handler with the snapshotted selection
func (inv *Invocation) Run(ctx context.Context) error {
	if inv == nil || inv.handler == nil {
		return nil
	}
	return inv.handler(ctx, append([]string(nil), inv.ItemIDs...), inv.Command.Input)
}

// Outcome describes what a settlement changed
type Outcome struct {
	Op      OperationID
	Err     error
	Notice  Notice
	Undo    *UndoEntry  // entry recorded by this settlement
	Dropped []UndoEntry // entries trimmed by capacity
	Cleared bool        // selection was cleared
}

// beginLocked snapshots the selection and enters Executing. Caller holds mu.
func (e *Engine) beginLocked() (*Invocation, error) {
	sel := e.view.Selection()
	if sel.Empty() {
		e.state = StateIdle
		e.pending = nil
		return nil, ErrEmptySelection
	}
	e.seq++
	e.state = StateExecuting
	e.undoing = false
	return &Invocation{
		seq:     e.seq,
		Command: *e.pending,
		ItemIDs: append([]string(nil), sel.IDs...),
		handler: e.handlers[e.pending.Op.ID],
	}, nil
}

// Execute runs inv and settles it. Convenience for synchronous callers.
func (e *Engine) Execute(ctx context.Context, inv *Invocation) (Outcome, error) {
	return e.Settle(inv, inv.Run(ctx))
}

// Settle applies the handler result of inv and returns the engine to Idle
func (e *Engine) Settle(inv *Invocation, runErr error) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if inv == nil || e.state != StateExecuting || e.undoing || inv.seq != e.seq {
		return Outcome{}, ErrStaleInvocation
	}
	defer func() {
		e.state = StateIdle
		e.pending = nil
	}()

	op := inv.Command.Op
	out := Outcome{Op: op.ID, Err: runErr}
	n := len(inv.ItemIDs)

	if runErr != nil {
		out.Notice = e.notifier.Show(fmt.Sprintf("%s failed: %v", op.Label, runErr), LevelError)
		e.publish(domain.BatchFailedEvent{Operation: string(op.ID), ItemIDs: inv.ItemIDs, Err: runErr})
		return out, nil
	}

	if !inv.Bound() {
		if op.ID == OpShare {
			out.Notice = e.notifier.Show(fmt.Sprintf("Share link for %d %s copied", n, e.itemType), LevelInfo)
		} else {
			out.Notice = e.notifier.Show(fmt.Sprintf("%s is not available for %s", op.Label, e.itemType), LevelWarning)
		}
	} else {
		out.Notice = e.notifier.Show(successText(inv.Command, n, e.itemType), LevelSuccess)
		if op.Reversible() {
			entry, dropped := e.recordLocked(op, inv.ItemIDs)
			out.Undo = &entry
			out.Dropped = dropped
		}
	}
	e.publish(domain.BatchExecutedEvent{Operation: string(op.ID), ItemIDs: inv.ItemIDs, Bound: inv.Bound()})

	e.view.ClearSelection()
	out.Cleared = true
	return out, nil
}

func (e *Engine) recordLocked(op Descriptor, ids []string) (UndoEntry, []UndoEntry) {
	now := e.now()
	entry := UndoEntry{
		ID:          e.newEntryID(op.ID),
		Type:        op.ID,
		ItemIDs:     append([]string(nil), ids...),
		Timestamp:   now,
		Description: Describe(op, len(ids), e.itemType),
		ExpiresAt:   now.Add(UndoTTL),
	}
	dropped := e.ledger.Push(entry)
	e.publish(domain.UndoRecordedEvent{EntryID: entry.ID, Operation: string(op.ID), ItemIDs: entry.ItemIDs})
	for _, d := range dropped {
		e.publish(domain.UndoExpiredEvent{EntryID: d.ID, Reason: "capacity"})
	}
	return entry, dropped
}

func successText(cmd PendingCommand, n int, itemType string) string {
	switch in := cmd.Input.(type) {
	case *TagInput:
		return fmt.Sprintf("Tagged %d %s with %s", n, itemType, strings.Join(in.Tags(), ", "))
	case *MoveInput:
		return fmt.Sprintf("Moved %d %s to %s", n, itemType, in.Target())
	case *ExportInput:
		return fmt.Sprintf("Exported %d %s as %s", n, itemType, strings.ToUpper(string(in.Format)))
	}
	switch cmd.Op.ID {
	case OpDelete:
		return fmt.Sprintf("Deleted %d %s", n, itemType)
	case OpArchive:
		return fmt.Sprintf("Archived %d %s", n, itemType)
	case OpCopy:
		return fmt.Sprintf("Copied %d %s", n, itemType)
	case OpShare:
		return fmt.Sprintf("Shared %d %s", n, itemType)
	default:
		return Describe(cmd.Op, n, itemType)
	}
}

// UndoInvocation reverses the ledger head. Run off the loop, then SettleUndo.
type UndoInvocation struct {
	seq     uint64
	Entry   UndoEntry
	handler func(context.Context, UndoEntry) error
}

// Run invokes the external undo handler
func (u *UndoInvocation) Run(ctx context.Context) error {
	entry := u.Entry
	entry.ItemIDs = append([]string(nil), u.Entry.ItemIDs...)
	return u.handler(ctx, entry)
}

// BeginUndo targets the most recent ledger entry and enters Executing
func (e *Engine) BeginUndo() (*UndoInvocation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateExecuting:
		return nil, ErrBusy
	case StateAwaitingConfirmation, StateCollectingInput:
		return nil, fmt.Errorf("%w: undo from %s", ErrInvalidTransition, e.state)
	}
	head, ok := e.ledger.Head()
	if !ok {
		return nil, ErrNothingToUndo
	}
	if e.undo == nil {
		return nil, ErrUndoUnavailable
	}
	e.seq++
	e.state = StateExecuting
	e.undoing = true
	return &UndoInvocation{seq: e.seq, Entry: head, handler: e.undo}, nil
}

// Undo runs and settles an undo of the ledger head
func (e *Engine) Undo(ctx context.Context) (Outcome, error) {
	inv, err := e.BeginUndo()
	if err != nil {
		return Outcome{}, err
	}
	return e.SettleUndo(inv, inv.Run(ctx))
}

// SettleUndo applies an undo result. Failure leaves the ledger unchanged.
func (e *Engine) SettleUndo(inv *UndoInvocation, runErr error) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if inv == nil || e.state != StateExecuting || !e.undoing || inv.seq != e.seq {
		return Outcome{}, ErrStaleInvocation
	}
	defer func() {
		e.state = StateIdle
		e.undoing = false
	}()

	out := Outcome{Op: inv.Entry.Type, Err: runErr}
	if runErr != nil {
		out.Notice = e.notifier.Show(fmt.Sprintf("Undo failed: %v", runErr), LevelError)
		e.publish(domain.UndoFailedEvent{EntryID: inv.Entry.ID, Err: runErr})
		return out, nil
	}
	e.ledger.Remove(inv.Entry.ID)
	out.Notice = e.notifier.Show("Undid "+inv.Entry.Description, LevelSuccess)
	e.publish(domain.UndoAppliedEvent{EntryID: inv.Entry.ID, Operation: string(inv.Entry.Type), ItemIDs: inv.Entry.ItemIDs})
	return out, nil
}

// ExpireUndo drops the entry with the given id once its TTL has run out.
// It returns false if the entry is gone or not yet due.
func (e *Engine) ExpireUndo(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, entry := range e.ledger.entries {
		if entry.ID != id {
			continue
		}
		if e.now().Before(entry.ExpiresAt) {
			return false
		}
		e.ledger.Remove(id)
		e.publish(domain.UndoExpiredEvent{EntryID: id, Reason: "ttl"})
		return true
	}
	return false
}

// SweepUndo drops every entry whose TTL has run out
func (e *Engine) SweepUndo() []UndoEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	expired := e.ledger.Sweep(e.now())
	for _, entry := range expired {
		e.publish(domain.UndoExpiredEvent{EntryID: entry.ID, Reason: "ttl"})
	}
	return expired
}

// UndoEntries returns the ledger, most recent first
func (e *Engine) UndoEntries() []UndoEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Entries()
}

// UndoHead returns the entry the next undo would target
func (e *Engine) UndoHead() (UndoEntry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Head()
}

// UndoVisible reports whether the undo affordance should be shown
func (e *Engine) UndoVisible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Visible()
}
