package types

import "labbatch/internal/batch"

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Selection actions
type SelectAction struct {
	Index int // -1 for current
}

func (a SelectAction) Type() string { return "select" }

// SelectRangeAction selects from the last toggled item to the cursor
type SelectRangeAction struct{}

func (a SelectRangeAction) Type() string { return "select_range" }

// ToggleAllAction drives the tri-state header checkbox
type ToggleAllAction struct{}

func (a ToggleAllAction) Type() string { return "toggle_all" }

type DeselectAllAction struct{}

func (a DeselectAllAction) Type() string { return "deselect_all" }

// Batch actions
type OpenMenuAction struct{}

func (a OpenMenuAction) Type() string { return "open_menu" }

// ChooseAction picks an operation. From normal mode it opens the menu first.
type ChooseAction struct {
	Op batch.OperationID
}

func (a ChooseAction) Type() string { return "choose" }

type ConfirmAction struct{}

func (a ConfirmAction) Type() string { return "confirm" }

type SubmitAction struct{}

func (a SubmitAction) Type() string { return "submit" }

// CancelAction closes the menu or abandons the pending command
type CancelAction struct{}

func (a CancelAction) Type() string { return "cancel" }

// Input actions
type AddTagAction struct {
	Tag string
}

func (a AddTagAction) Type() string { return "add_tag" }

// RemoveTagAction drops the most recently added tag
type RemoveTagAction struct{}

func (a RemoveTagAction) Type() string { return "remove_tag" }

type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type PickCategoryAction struct {
	Index int
}

func (a PickCategoryAction) Type() string { return "pick_category" }

type CycleFormatAction struct {
	Delta int
}

func (a CycleFormatAction) Type() string { return "cycle_format" }

type UndoAction struct{}

func (a UndoAction) Type() string { return "undo" }

// UI actions
type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type ShowUndoHistoryAction struct{}

func (a ShowUndoHistoryAction) Type() string { return "show_undo_history" }

type TogglePreviewAction struct{}

func (a TogglePreviewAction) Type() string { return "toggle_preview" }

type ToggleArchivedAction struct{}

func (a ToggleArchivedAction) Type() string { return "toggle_archived" }

type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

// QuitAction exits the program. Without Force it first closes any open popup.
type QuitAction struct {
	Force bool
}

func (a QuitAction) Type() string { return "quit" }
