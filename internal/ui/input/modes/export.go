package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"labbatch/internal/ui/input/types"
)

// ExportMode cycles through export formats
type ExportMode struct{}

func NewExportMode() *ExportMode {
	return &ExportMode{}
}

func (m *ExportMode) Name() string {
	return "export"
}

func (m *ExportMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ExportMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *ExportMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc", "q":
		return []types.Action{types.CancelAction{}}, true
	case "down", "j", "right", "l", "tab":
		return []types.Action{types.CycleFormatAction{Delta: 1}}, true
	case "up", "k", "left", "h", "shift+tab":
		return []types.Action{types.CycleFormatAction{Delta: -1}}, true
	case "enter", "ctrl+s":
		return []types.Action{types.SubmitAction{}}, true
	}
	return nil, true
}
