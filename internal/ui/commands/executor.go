package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"labbatch/internal/batch"
	"labbatch/internal/domain"
	"labbatch/internal/store"
)

// Executor handles command execution
type Executor struct {
	ctx *CommandContext
	now func() time.Time
}

// NewExecutor creates a new command executor
func NewExecutor(ctx context.Context, st store.ItemStore, kind domain.Kind, now func() time.Time) *Executor {
	if now == nil {
		now = time.Now
	}
	return &Executor{
		ctx: &CommandContext{
			Ctx:   ctx,
			Store: st,
			Kind:  kind,
		},
		now: now,
	}
}

// ExecuteRun runs a forward invocation
func (e *Executor) ExecuteRun(inv *batch.Invocation) tea.Cmd {
	if inv == nil {
		return nil
	}
	return NewRunCommand(e.ctx, inv).Execute()
}

// ExecuteUndo runs an undo invocation
func (e *Executor) ExecuteUndo(inv *batch.UndoInvocation) tea.Cmd {
	if inv == nil {
		return nil
	}
	return NewUndoCommand(e.ctx, inv).Execute()
}

// ExecuteLoad reloads the item list
func (e *Executor) ExecuteLoad() tea.Cmd {
	if e.ctx.Store == nil {
		return nil
	}
	return NewLoadCommand(e.ctx).Execute()
}

// ExecuteSeed re-imports the seed file at path
func (e *Executor) ExecuteSeed(path string) tea.Cmd {
	if e.ctx.Store == nil || path == "" {
		return nil
	}
	return NewSeedCommand(e.ctx, path).Execute()
}

// ScheduleNoticeExpiry dismisses n once its time is up
func (e *Executor) ScheduleNoticeExpiry(n batch.Notice) tea.Cmd {
	if n.ID == 0 {
		return nil
	}
	return NewExpireNoticeCommand(n, e.now).Execute()
}

// ScheduleUndoExpiry drops entry from the ledger once its TTL is up
func (e *Executor) ScheduleUndoExpiry(entry batch.UndoEntry) tea.Cmd {
	return NewExpireUndoCommand(entry, e.now).Execute()
}
