// Package batch applies a chosen operation to a multi-selection of list
// items. It gates operations behind confirmation or input collection,
// runs one handler at a time, and keeps a short-lived undo ledger for
// reversible operations.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"labbatch/internal/domain"
)

// State is the controller state
type State int

const (
	StateIdle State = iota
	StateMenuOpen
	StateAwaitingConfirmation
	StateCollectingInput
	StateExecuting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMenuOpen:
		return "menu-open"
	case StateAwaitingConfirmation:
		return "awaiting-confirmation"
	case StateCollectingInput:
		return "collecting-input"
	case StateExecuting:
		return "executing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// PendingCommand is the operation chosen by the user, plus its input
type PendingCommand struct {
	Op    Descriptor
	Input Input
}

// Publisher receives engine lifecycle events
type Publisher interface {
	Publish(event domain.DomainEvent)
}

// Options configures an Engine
type Options struct {
	Catalog    Catalog // zero value means DefaultCatalog
	Handlers   Handlers
	View       SelectionView
	ItemType   string   // display noun, e.g. "devices"
	Categories []string // move targets offered by MoveInput
	Publisher  Publisher
	Now        func() time.Time
	NewEntryID func(op OperationID) string
}

// Engine is the batch operation state machine and orchestrator
type Engine struct {
	mu sync.Mutex

	catalog    Catalog
	handlers   map[OperationID]boundHandler
	undo       func(context.Context, UndoEntry) error
	view       SelectionView
	itemType   string
	categories []string
	publisher  Publisher
	now        func() time.Time
	newEntryID func(OperationID) string

	state   State
	pending *PendingCommand
	seq     uint64 // identifies the in-flight invocation
	undoing bool

	ledger   *Ledger
	notifier *Notifier
}

// New validates opts and builds an engine in the Idle state
func New(opts Options) (*Engine, error) {
	if opts.View == nil {
		return nil, fmt.Errorf("selection view is required")
	}
	catalog := opts.Catalog
	if catalog.Len() == 0 {
		catalog = DefaultCatalog()
	}
	handlers, err := opts.Handlers.bind(catalog)
	if err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewEntryID == nil {
		opts.NewEntryID = func(op OperationID) string {
			return string(op) + "_" + ulid.Make().String()
		}
	}
	if opts.ItemType == "" {
		opts.ItemType = "items"
	}

	e := &Engine{
		catalog:    catalog,
		handlers:   handlers,
		view:       opts.View,
		itemType:   opts.ItemType,
		categories: append([]string(nil), opts.Categories...),
		publisher:  opts.Publisher,
		now:        opts.Now,
		newEntryID: opts.NewEntryID,
		ledger:     NewLedger(),
		notifier:   NewNotifier(opts.Now),
	}
	if opts.Handlers.Undo != nil {
		e.undo = opts.Handlers.Undo
	}
	return e, nil
}

// State returns the current controller state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Busy reports whether a handler (forward or undo) is in flight
func (e *Engine) Busy() bool {
	return e.State() == StateExecuting
}

// Catalog returns the engine's operation catalog
func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// ItemType returns the display noun
func (e *Engine) ItemType() string {
	return e.itemType
}

// Pending returns the chosen command, if any
func (e *Engine) Pending() (PendingCommand, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil {
		return PendingCommand{}, false
	}
	return *e.pending, true
}

// OpenMenu moves Idle -> MenuOpen
func (e *Engine) OpenMenu() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateExecuting:
		return ErrBusy
	case StateIdle:
	default:
		return fmt.Errorf("%w: open menu from %s", ErrInvalidTransition, e.state)
	}
	if e.view.Selection().Empty() {
		return ErrEmptySelection
	}
	e.state = StateMenuOpen
	return nil
}

// CloseMenu moves MenuOpen -> Idle
func (e *Engine) CloseMenu() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateMenuOpen {
		e.state = StateIdle
	}
}

// Choose picks an operation from the open menu. When the operation needs
// neither confirmation nor input the returned invocation must be run and
// settled; otherwise it is nil and the engine waits for Confirm or Submit.
func (e *Engine) Choose(id OperationID) (*Invocation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateExecuting {
		return nil, ErrBusy
	}
	if e.state != StateMenuOpen {
		return nil, fmt.Errorf("%w: choose from %s", ErrInvalidTransition, e.state)
	}
	op, ok := e.catalog.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotInCatalog, id)
	}

	e.pending = &PendingCommand{Op: op, Input: newInput(op.ID, e.categories)}
	switch {
	case op.RequiresConfirmation:
		e.state = StateAwaitingConfirmation
		return nil, nil
	case op.RequiresInput:
		e.state = StateCollectingInput
		return nil, nil
	default:
		return e.beginLocked()
	}
}

// Confirm moves AwaitingConfirmation -> Executing
func (e *Engine) Confirm() (*Invocation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateAwaitingConfirmation {
		return nil, fmt.Errorf("%w: confirm from %s", ErrInvalidTransition, e.state)
	}
	return e.beginLocked()
}

// Submit moves CollectingInput -> Executing once the input is valid.
// Invalid input leaves the engine collecting.
func (e *Engine) Submit() (*Invocation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateCollectingInput {
		return nil, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, e.state)
	}
	if e.pending.Input == nil || !e.pending.Input.Valid() {
		return nil, ErrInputRequired
	}
	return e.beginLocked()
}

// Cancel abandons the menu or the pending command. The selection is untouched.
func (e *Engine) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateIdle:
		return nil
	case StateExecuting:
		return ErrBusy
	}
	e.state = StateIdle
	e.pending = nil
	return nil
}

// Notify shows a notice on the engine's notification channel
func (e *Engine) Notify(text string, level Level) Notice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.notifier.Show(text, level)
}

// Notice returns the active notice
func (e *Engine) Notice() (Notice, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.notifier.Current(e.now())
}

// DismissNotice clears the notice with the given id if it is still current
func (e *Engine) DismissNotice(id int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.notifier.Dismiss(id)
}

func (e *Engine) publish(event domain.DomainEvent) {
	if e.publisher != nil {
		e.publisher.Publish(event)
	}
}
