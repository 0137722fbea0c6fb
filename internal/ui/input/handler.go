package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"labbatch/internal/ui/input/modes"
	"labbatch/internal/ui/input/types"
)

// Handler routes keys to the handler of the current mode. The mode
// follows the batch engine; the model calls SetMode after every change.
type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	textInput   *textinput.Model // Shared text input for text modes
}

func New() *Handler {
	ti := textinput.New()
	ti.Prompt = "› "

	h := &Handler{
		currentMode: types.ModeNormal,
		textInput:   &ti,
		modes:       make(map[types.Mode]types.ModeHandler),
	}

	h.modes[types.ModeNormal] = modes.NewNormalMode()
	h.modes[types.ModeMenu] = modes.NewMenuMode()
	h.modes[types.ModeConfirm] = modes.NewConfirmMode()
	h.modes[types.ModeTag] = modes.NewTagMode(h.textInput)
	h.modes[types.ModeMove] = modes.NewMoveMode()
	h.modes[types.ModeExport] = modes.NewExportMode()

	return h
}

func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)
	if consumed || !h.isTextMode(h.currentMode) {
		return actions, nil
	}

	// unconsumed keys in a text mode go to the text input
	var cmd tea.Cmd
	*h.textInput, cmd = h.textInput.Update(msg)
	actions = append(actions, types.UpdateTextAction{Text: h.textInput.Value()})
	return actions, cmd
}

// SetMode switches modes, running Exit and Enter hooks when the mode changes
func (h *Handler) SetMode(mode types.Mode, ctx types.Context) ([]types.Action, tea.Cmd) {
	if mode == h.currentMode {
		return nil, nil
	}

	var actions []types.Action
	if old := h.modes[h.currentMode]; old != nil {
		actions = append(actions, old.Exit(ctx)...)
	}
	oldMode := h.currentMode
	h.currentMode = mode
	if next := h.modes[mode]; next != nil {
		actions = append(actions, next.Enter(ctx)...)
	}

	var cmd tea.Cmd
	if h.isTextMode(mode) {
		h.textInput.Reset()
		cmd = h.textInput.Focus()
	} else if h.isTextMode(oldMode) {
		h.textInput.Reset()
		h.textInput.Blur()
	}
	return actions, cmd
}

func (h *Handler) CurrentMode() types.Mode {
	return h.currentMode
}

// CurrentHandler returns the handler of the current mode
func (h *Handler) CurrentHandler() types.ModeHandler {
	return h.modes[h.currentMode]
}

// Cursor returns the highlighted row of the current mode, or -1
func (h *Handler) Cursor() int {
	if c, ok := h.modes[h.currentMode].(types.Cursored); ok {
		return c.Cursor()
	}
	return -1
}

func (h *Handler) TextInput() *textinput.Model {
	if h.isTextMode(h.currentMode) {
		return h.textInput
	}
	return nil
}

func (h *Handler) RegisterMode(mode types.Mode, handler types.ModeHandler) {
	h.modes[mode] = handler
}

func (h *Handler) isTextMode(mode types.Mode) bool {
	return mode == types.ModeTag
}

func (h *Handler) Reset() {
	h.currentMode = types.ModeNormal
	h.textInput.Reset()
	h.textInput.Blur()
}

// Update handles non-keyboard messages for text input
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.isTextMode(h.currentMode) {
		var cmd tea.Cmd
		*h.textInput, cmd = h.textInput.Update(msg)
		return cmd
	}
	return nil
}
