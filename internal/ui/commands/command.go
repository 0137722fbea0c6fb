package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"labbatch/internal/batch"
	"labbatch/internal/domain"
	"labbatch/internal/seed"
	"labbatch/internal/store"
)

// Command represents an executable action
type Command interface {
	Execute() tea.Cmd
}

// CommandContext provides context for command execution
type CommandContext struct {
	Ctx   context.Context
	Store store.ItemStore
	Kind  domain.Kind
}

// InvocationDoneMsg carries a forward handler's result back to the loop
type InvocationDoneMsg struct {
	Invocation *batch.Invocation
	Err        error
}

// UndoDoneMsg carries an undo handler's result back to the loop
type UndoDoneMsg struct {
	Invocation *batch.UndoInvocation
	Err        error
}

// NoticeExpiredMsg fires when a notice's display time has run out
type NoticeExpiredMsg struct {
	ID int64
}

// UndoExpiredMsg fires when an undo entry's TTL has run out
type UndoExpiredMsg struct {
	ID string
}

// ItemsLoadedMsg carries a fresh item list
type ItemsLoadedMsg struct {
	Items []*domain.Item
	Err   error
}

// SeedImportedMsg reports a seed file reload
type SeedImportedMsg struct {
	Path  string
	Count int
	Err   error
}

// RunCommand runs a forward invocation off the event loop
type RunCommand struct {
	ctx *CommandContext
	inv *batch.Invocation
}

func NewRunCommand(ctx *CommandContext, inv *batch.Invocation) *RunCommand {
	return &RunCommand{ctx: ctx, inv: inv}
}

func (c *RunCommand) Execute() tea.Cmd {
	inv, ctx := c.inv, c.ctx.Ctx
	return func() tea.Msg {
		return InvocationDoneMsg{Invocation: inv, Err: inv.Run(ctx)}
	}
}

// UndoCommand runs an undo invocation off the event loop
type UndoCommand struct {
	ctx *CommandContext
	inv *batch.UndoInvocation
}

func NewUndoCommand(ctx *CommandContext, inv *batch.UndoInvocation) *UndoCommand {
	return &UndoCommand{ctx: ctx, inv: inv}
}

func (c *UndoCommand) Execute() tea.Cmd {
	inv, ctx := c.inv, c.ctx.Ctx
	return func() tea.Msg {
		return UndoDoneMsg{Invocation: inv, Err: inv.Run(ctx)}
	}
}

// LoadCommand lists the items of the configured kind
type LoadCommand struct {
	ctx *CommandContext
}

func NewLoadCommand(ctx *CommandContext) *LoadCommand {
	return &LoadCommand{ctx: ctx}
}

func (c *LoadCommand) Execute() tea.Cmd {
	cc := c.ctx
	return func() tea.Msg {
		items, err := cc.Store.List(cc.Ctx, cc.Kind)
		return ItemsLoadedMsg{Items: items, Err: err}
	}
}

// SeedCommand re-imports a seed file
type SeedCommand struct {
	ctx  *CommandContext
	path string
}

func NewSeedCommand(ctx *CommandContext, path string) *SeedCommand {
	return &SeedCommand{ctx: ctx, path: path}
}

func (c *SeedCommand) Execute() tea.Cmd {
	cc, path := c.ctx, c.path
	return func() tea.Msg {
		n, err := seed.Import(cc.Ctx, cc.Store, path, cc.Kind)
		return SeedImportedMsg{Path: path, Count: n, Err: err}
	}
}

// ExpireNoticeCommand fires NoticeExpiredMsg when the notice runs out
type ExpireNoticeCommand struct {
	notice batch.Notice
	now    func() time.Time
}

func NewExpireNoticeCommand(n batch.Notice, now func() time.Time) *ExpireNoticeCommand {
	return &ExpireNoticeCommand{notice: n, now: now}
}

func (c *ExpireNoticeCommand) Execute() tea.Cmd {
	id := c.notice.ID
	return tea.Tick(until(c.notice.Until, c.now), func(time.Time) tea.Msg {
		return NoticeExpiredMsg{ID: id}
	})
}

// ExpireUndoCommand fires UndoExpiredMsg when the entry's TTL runs out
type ExpireUndoCommand struct {
	entry batch.UndoEntry
	now   func() time.Time
}

func NewExpireUndoCommand(e batch.UndoEntry, now func() time.Time) *ExpireUndoCommand {
	return &ExpireUndoCommand{entry: e, now: now}
}

func (c *ExpireUndoCommand) Execute() tea.Cmd {
	id := c.entry.ID
	return tea.Tick(until(c.entry.ExpiresAt, c.now), func(time.Time) tea.Msg {
		return UndoExpiredMsg{ID: id}
	})
}

func until(t time.Time, now func() time.Time) time.Duration {
	d := t.Sub(now())
	if d < 10*time.Millisecond {
		d = 10 * time.Millisecond
	}
	return d
}
