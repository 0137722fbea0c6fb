package modes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"labbatch/internal/ui/input/types"
)

// NormalMode handles list navigation and selection
type NormalMode struct {
	keys types.KeyMap
}

func NewNormalMode() *NormalMode {
	return &NormalMode{keys: types.Keys}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	k := m.keys
	switch {
	case msg.String() == "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case key.Matches(msg, k.Quit):
		return []types.Action{types.QuitAction{}}, true

	case key.Matches(msg, k.Up):
		return []types.Action{types.NavigateAction{Direction: "up"}}, true
	case key.Matches(msg, k.Down):
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	case key.Matches(msg, k.PageUp):
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true
	case key.Matches(msg, k.PageDown):
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true
	case key.Matches(msg, k.Home):
		return []types.Action{types.NavigateAction{Direction: "home"}}, true
	case key.Matches(msg, k.End):
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case key.Matches(msg, k.ExtendUp):
		return []types.Action{types.NavigateAction{Direction: "up"}, types.SelectRangeAction{}}, true
	case key.Matches(msg, k.ExtendDown):
		return []types.Action{types.NavigateAction{Direction: "down"}, types.SelectRangeAction{}}, true
	case key.Matches(msg, k.Select):
		if ctx.TotalItems() == 0 {
			return nil, true
		}
		return []types.Action{types.SelectAction{Index: -1}}, true
	case key.Matches(msg, k.SelectAll):
		return []types.Action{types.ToggleAllAction{}}, true
	case key.Matches(msg, k.Clear):
		if ctx.HasSelection() {
			return []types.Action{types.DeselectAllAction{}}, true
		}
		return nil, true

	case key.Matches(msg, k.Menu):
		return []types.Action{types.OpenMenuAction{}}, true
	case key.Matches(msg, k.Undo):
		return []types.Action{types.UndoAction{}}, true
	case key.Matches(msg, k.History):
		return []types.Action{types.ShowUndoHistoryAction{}}, true
	case key.Matches(msg, k.Preview):
		return []types.Action{types.TogglePreviewAction{}}, true
	case key.Matches(msg, k.ShowArchive):
		return []types.Action{types.ToggleArchivedAction{}}, true
	case key.Matches(msg, k.Refresh):
		return []types.Action{types.RefreshAction{}}, true
	case key.Matches(msg, k.Help):
		return []types.Action{types.ToggleHelpAction{}}, true
	}

	for _, s := range types.Shortcuts {
		if key.Matches(msg, *s.Binding) {
			return []types.Action{types.ChooseAction{Op: s.Op}}, true
		}
	}
	return nil, false
}
