package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"labbatch/internal/ui/input/types"
)

// MoveMode picks a target category. Nothing is picked until the user
// moves the cursor, so submitting straight away is refused.
type MoveMode struct {
	cursor int
}

func NewMoveMode() *MoveMode {
	return &MoveMode{cursor: -1}
}

func (m *MoveMode) Name() string {
	return "move"
}

func (m *MoveMode) Cursor() int {
	return m.cursor
}

func (m *MoveMode) Enter(ctx types.Context) []types.Action {
	m.cursor = -1
	return nil
}

func (m *MoveMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *MoveMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	n := len(ctx.MoveOptions())

	switch s := msg.String(); s {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc", "q":
		return []types.Action{types.CancelAction{}}, true
	case "up", "k":
		return m.pick(max(m.cursor-1, 0), n), true
	case "down", "j":
		return m.pick(min(m.cursor+1, n-1), n), true
	case "enter", "ctrl+s":
		return []types.Action{types.SubmitAction{}}, true
	default:
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			return m.pick(int(s[0]-'1'), n), true
		}
	}
	return nil, true
}

func (m *MoveMode) pick(i, n int) []types.Action {
	if i < 0 || i >= n {
		return nil
	}
	m.cursor = i
	return []types.Action{types.PickCategoryAction{Index: i}}
}
