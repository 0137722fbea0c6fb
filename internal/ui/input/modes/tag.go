package modes

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"labbatch/internal/ui/input/types"
)

// TagMode collects tags in the shared text input. Enter adds the typed
// tag, or submits when the field is empty. Ctrl+S always submits.
type TagMode struct {
	textInput *textinput.Model
}

func NewTagMode(textInput *textinput.Model) *TagMode {
	return &TagMode{textInput: textInput}
}

func (m *TagMode) Name() string {
	return "tag"
}

func (m *TagMode) Enter(ctx types.Context) []types.Action {
	m.textInput.Placeholder = "tag name"
	m.textInput.CharLimit = 64
	return nil
}

func (m *TagMode) Exit(ctx types.Context) []types.Action {
	m.textInput.Placeholder = ""
	return nil
}

func (m *TagMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc":
		return []types.Action{types.CancelAction{}}, true
	case "ctrl+s":
		return m.flush(types.SubmitAction{}), true
	case "enter", ",":
		text := strings.TrimSpace(m.textInput.Value())
		if text == "" {
			if msg.String() == "enter" {
				return []types.Action{types.SubmitAction{}}, true
			}
			return nil, true
		}
		m.textInput.SetValue("")
		return []types.Action{types.AddTagAction{Tag: text}}, true
	case "backspace":
		if m.textInput.Value() == "" && ctx.TagCount() > 0 {
			return []types.Action{types.RemoveTagAction{}}, true
		}
	}
	// let the text input have it
	return nil, false
}

// flush adds any half-typed tag before the given action
func (m *TagMode) flush(next types.Action) []types.Action {
	text := strings.TrimSpace(m.textInput.Value())
	if text == "" {
		return []types.Action{next}
	}
	m.textInput.SetValue("")
	return []types.Action{types.AddTagAction{Tag: text}, next}
}
