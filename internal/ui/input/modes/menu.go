package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"labbatch/internal/ui/input/types"
)

// MenuMode walks the operation catalog
type MenuMode struct {
	cursor int
}

func NewMenuMode() *MenuMode {
	return &MenuMode{}
}

func (m *MenuMode) Name() string {
	return "menu"
}

func (m *MenuMode) Cursor() int {
	return m.cursor
}

func (m *MenuMode) Enter(ctx types.Context) []types.Action {
	m.cursor = 0
	return nil
}

func (m *MenuMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *MenuMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	ops := ctx.MenuOperations()

	switch s := msg.String(); s {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc", "q", "b":
		return []types.Action{types.CancelAction{}}, true
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return nil, true
	case "down", "j":
		if m.cursor < len(ops)-1 {
			m.cursor++
		}
		return nil, true
	case "home", "g":
		m.cursor = 0
		return nil, true
	case "end", "G":
		m.cursor = max(len(ops)-1, 0)
		return nil, true
	case "enter", " ":
		if m.cursor < len(ops) {
			return []types.Action{types.ChooseAction{Op: ops[m.cursor]}}, true
		}
		return nil, true
	default:
		// 1-9 pick directly
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			i := int(s[0] - '1')
			if i < len(ops) {
				m.cursor = i
				return []types.Action{types.ChooseAction{Op: ops[i]}}, true
			}
			return nil, true
		}
	}
	return nil, true
}
