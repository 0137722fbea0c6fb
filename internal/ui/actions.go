package ui

import (
	"errors"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"labbatch/internal/batch"
	inputtypes "labbatch/internal/ui/input/types"
)

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		switch a.Direction {
		case "up":
			m.state.MoveCursor(-1)
		case "down":
			m.state.MoveCursor(1)
		case "pageup":
			m.state.MoveCursor(-max(m.state.ViewportHeight, 1))
		case "pagedown":
			m.state.MoveCursor(max(m.state.ViewportHeight, 1))
		case "home":
			m.state.SetCursor(0)
		case "end":
			m.state.SetCursor(len(m.state.OrderedItems) - 1)
		}

	case inputtypes.SelectAction:
		index := a.Index
		if index < 0 {
			index = m.state.SelectedIndex
		}
		m.selection.Toggle(index)

	case inputtypes.SelectRangeAction:
		m.selection.SelectRange(m.state.SelectedIndex)

	case inputtypes.ToggleAllAction:
		m.selection.ToggleAll()

	case inputtypes.DeselectAllAction:
		m.selection.ClearSelection()

	case inputtypes.OpenMenuAction:
		m.state.CloseOverlays()
		if err := m.engine.OpenMenu(); err != nil {
			return m.notifyError(err)
		}

	case inputtypes.ChooseAction:
		return m.choose(a.Op)

	case inputtypes.ConfirmAction:
		inv, err := m.engine.Confirm()
		return m.begin(inv, err)

	case inputtypes.SubmitAction:
		inv, err := m.engine.Submit()
		return m.begin(inv, err)

	case inputtypes.CancelAction:
		if err := m.engine.Cancel(); err != nil {
			return m.notifyError(err)
		}

	case inputtypes.AddTagAction:
		if in := m.tagInput(); in != nil {
			in.Add(a.Tag)
		}

	case inputtypes.RemoveTagAction:
		if in := m.tagInput(); in != nil {
			if tags := in.Tags(); len(tags) > 0 {
				in.Remove(tags[len(tags)-1])
			}
		}

	case inputtypes.UpdateTextAction:
		// the text input already holds the text

	case inputtypes.PickCategoryAction:
		if in := m.moveInput(); in != nil && a.Index >= 0 && a.Index < len(in.Options) {
			in.Category = in.Options[a.Index]
		}

	case inputtypes.CycleFormatAction:
		if in := m.exportInput(); in != nil {
			if a.Delta < 0 {
				in.Prev()
			} else {
				in.Next()
			}
		}

	case inputtypes.UndoAction:
		inv, err := m.engine.BeginUndo()
		if err != nil {
			return m.notifyError(err)
		}
		return tea.Batch(m.cmdExecutor.ExecuteUndo(inv), m.tick())

	case inputtypes.ToggleHelpAction:
		return m.showHelp()

	case inputtypes.ShowUndoHistoryAction:
		m.state.CloseOverlays()
		m.state.ShowHistory = true

	case inputtypes.TogglePreviewAction:
		show := !m.state.ShowPreview
		m.state.CloseOverlays()
		m.state.ShowPreview = show

	case inputtypes.ToggleArchivedAction:
		m.state.ShowArchived = !m.state.ShowArchived
		return m.reload()

	case inputtypes.RefreshAction:
		return m.reload()

	case inputtypes.QuitAction:
		if !a.Force && m.state.CloseOverlays() {
			return nil
		}
		return tea.Quit

	default:
		log.Printf("Unhandled action: %s", action.Type())
	}
	return nil
}

// handleOverlayKey gives the help and history popups first pick of keys.
// The preview popup only claims its own close keys.
func (m *Model) handleOverlayKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.inputHandler.CurrentMode() != inputtypes.ModeNormal {
		return nil, false
	}
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit, true
	}

	switch {
	case m.state.ShowHelp:
		switch key {
		case "j", "down":
			m.state.HelpScrollOffset++
		case "k", "up":
			if m.state.HelpScrollOffset > 0 {
				m.state.HelpScrollOffset--
			}
		case "esc", "q", "?":
			m.state.CloseOverlays()
		}
		return nil, true

	case m.state.ShowHistory:
		switch key {
		case "u":
			m.state.CloseOverlays()
			return nil, false
		case "esc", "q", "H":
			m.state.CloseOverlays()
		}
		return nil, true

	case m.state.ShowPreview:
		switch key {
		case "esc", "q", "p":
			m.state.CloseOverlays()
			return nil, true
		}
	}
	return nil, false
}

// choose picks op, opening the menu first when a shortcut is used from the list
func (m *Model) choose(op batch.OperationID) tea.Cmd {
	opened := false
	if m.engine.State() == batch.StateIdle {
		m.state.CloseOverlays()
		if err := m.engine.OpenMenu(); err != nil {
			return m.notifyError(err)
		}
		opened = true
	}
	inv, err := m.engine.Choose(op)
	if err != nil && opened {
		m.engine.CloseMenu()
	}
	return m.begin(inv, err)
}

// begin runs inv off the event loop
func (m *Model) begin(inv *batch.Invocation, err error) tea.Cmd {
	if err != nil {
		return m.notifyError(err)
	}
	if inv == nil {
		return nil
	}
	log.Printf("Running %s on %d %s", inv.Command.Op.ID, len(inv.ItemIDs), m.noun)
	return tea.Batch(m.cmdExecutor.ExecuteRun(inv), m.tick())
}

// settled schedules what follows a settlement: the notice timeout, the
// undo entry's expiry and a reload of the list
func (m *Model) settled(out batch.Outcome) []tea.Cmd {
	cmds := []tea.Cmd{m.cmdExecutor.ScheduleNoticeExpiry(out.Notice)}
	if out.Undo != nil {
		cmds = append(cmds, m.cmdExecutor.ScheduleUndoExpiry(*out.Undo))
	}
	return append(cmds, m.reload())
}

func (m *Model) reload() tea.Cmd {
	m.state.Loading = true
	return m.cmdExecutor.ExecuteLoad()
}

func (m *Model) notify(text string, level batch.Level) tea.Cmd {
	n := m.engine.Notify(text, level)
	return m.cmdExecutor.ScheduleNoticeExpiry(n)
}

// notifyError turns an engine refusal into a notice
func (m *Model) notifyError(err error) tea.Cmd {
	switch {
	case errors.Is(err, batch.ErrEmptySelection):
		return m.notify(fmt.Sprintf("Select at least one %s first", singular(m.noun)), batch.LevelWarning)
	case errors.Is(err, batch.ErrBusy):
		return m.notify("Another operation is still running", batch.LevelWarning)
	case errors.Is(err, batch.ErrInputRequired):
		return m.notify(m.inputHint(), batch.LevelWarning)
	case errors.Is(err, batch.ErrNothingToUndo):
		return m.notify("Nothing to undo", batch.LevelInfo)
	case errors.Is(err, batch.ErrUndoUnavailable):
		return m.notify("Undo is not available", batch.LevelWarning)
	case errors.Is(err, batch.ErrNotInCatalog):
		return m.notify(fmt.Sprintf("That operation is not offered for %s", m.noun), batch.LevelWarning)
	case errors.Is(err, batch.ErrInvalidTransition):
		log.Printf("Ignored: %v", err)
		return nil
	default:
		log.Printf("Batch error: %v", err)
		return m.notify(err.Error(), batch.LevelError)
	}
}

func (m *Model) inputHint() string {
	switch {
	case m.tagInput() != nil:
		return "Add at least one tag"
	case m.moveInput() != nil:
		return "Choose a category"
	default:
		return "Fill in the dialog first"
	}
}

func (m *Model) showHelp() tea.Cmd {
	m.state.CloseOverlays()
	if m.program == nil {
		m.state.ShowHelp = true
		return nil
	}
	content := m.helpRenderer.RenderHelpContentPlain()
	ops, p := m.helpOps, m.program
	return func() tea.Msg {
		p.Send(pauseRenderingMsg{})
		err := ops.ShowHelpInPager(content)
		p.Send(resumeRenderingMsg{})
		return helpPagerMsg{err: err}
	}
}

// syncMode points the input handler at the mode matching the engine state
func (m *Model) syncMode() tea.Cmd {
	actions, cmd := m.inputHandler.SetMode(m.modeForEngine(), m.inputCtx)
	cmds := []tea.Cmd{cmd}
	for _, a := range actions {
		cmds = append(cmds, m.processAction(a))
	}
	return tea.Batch(cmds...)
}

func (m *Model) modeForEngine() inputtypes.Mode {
	switch m.engine.State() {
	case batch.StateMenuOpen:
		return inputtypes.ModeMenu
	case batch.StateAwaitingConfirmation:
		return inputtypes.ModeConfirm
	case batch.StateCollectingInput:
		pending, _ := m.engine.Pending()
		switch pending.Input.(type) {
		case *batch.TagInput:
			return inputtypes.ModeTag
		case *batch.MoveInput:
			return inputtypes.ModeMove
		case *batch.ExportInput:
			return inputtypes.ModeExport
		}
	}
	return inputtypes.ModeNormal
}

func (m *Model) tagInput() *batch.TagInput {
	pending, ok := m.engine.Pending()
	if !ok {
		return nil
	}
	in, _ := pending.Input.(*batch.TagInput)
	return in
}

func (m *Model) moveInput() *batch.MoveInput {
	pending, ok := m.engine.Pending()
	if !ok {
		return nil
	}
	in, _ := pending.Input.(*batch.MoveInput)
	return in
}

func (m *Model) exportInput() *batch.ExportInput {
	pending, ok := m.engine.Pending()
	if !ok {
		return nil
	}
	in, _ := pending.Input.(*batch.ExportInput)
	return in
}

// singular turns "devices" into "device" for prompts
func singular(noun string) string {
	if len(noun) > 1 && noun[len(noun)-1] == 's' {
		return noun[:len(noun)-1]
	}
	return noun
}
