package types

import (
	tea "github.com/charmbracelet/bubbletea"

	"labbatch/internal/batch"
)

// Mode represents an input mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeMenu
	ModeConfirm
	ModeTag
	ModeMove
	ModeExport
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeMenu:
		return "menu"
	case ModeConfirm:
		return "confirm"
	case ModeTag:
		return "tag"
	case ModeMove:
		return "move"
	case ModeExport:
		return "export"
	default:
		return "unknown"
	}
}

// Action represents a command the model should execute
type Action interface {
	Type() string
}

// Context provides read-only access to model state needed for input handling
type Context interface {
	CurrentIndex() int
	TotalItems() int
	HasSelection() bool
	SelectedCount() int
	MenuOperations() []batch.OperationID
	MoveOptions() []string
	TagCount() int
}

// ModeHandler handles input for a specific mode
type ModeHandler interface {
	// HandleKey processes a key message and returns actions and whether to consume the event
	HandleKey(msg tea.KeyMsg, ctx Context) ([]Action, bool)

	// Enter is called when entering this mode
	Enter(ctx Context) []Action

	// Exit is called when leaving this mode
	Exit(ctx Context) []Action

	// Name returns the mode name for display
	Name() string
}

// Cursored is implemented by modes that keep a highlighted row
type Cursored interface {
	Cursor() int
}
