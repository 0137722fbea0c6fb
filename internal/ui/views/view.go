package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"labbatch/internal/batch"
	"labbatch/internal/domain"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width          int
	Height         int
	Title          string
	ItemType       string
	Items          []*domain.Item // visible items in display order
	IsChecked      func(id string) bool
	Selection      batch.Selection
	SelectedIndex  int
	ViewportOffset int
	ViewportHeight int
	Loading        bool
	Busy           bool
	ShowArchived   bool
	StatusMessage  string
	Notice         *batch.Notice
	UndoHint       string // description of the undo target, empty when hidden
	Dialog         string // rendered batch dialog, empty when none is open
	Popup          string // help, history or preview content
	HelpModel      help.Model
	Keys           help.KeyMap
}

// Renderer handles all view rendering
type Renderer struct {
	styles       *Styles
	itemRender   *ItemRenderer
	dialogRender *DialogRenderer
	popupRender  *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:       styles,
		itemRender:   NewItemRenderer(styles),
		dialogRender: NewDialogRenderer(styles),
		popupRender:  NewPopupRenderer(styles),
	}
}

// Dialogs returns the dialog renderer
func (r *Renderer) Dialogs() *DialogRenderer {
	return r.dialogRender
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")
	content.WriteString(r.itemRender.RenderHeader(state.Selection, state.ItemType))
	content.WriteString("\n\n")

	switch {
	case state.Loading && len(state.Items) == 0:
		content.WriteString(r.styles.Dim.Render(fmt.Sprintf("Loading %s...", state.ItemType)))
	case len(state.Items) == 0:
		content.WriteString(r.styles.Dim.Render(fmt.Sprintf("No %s. Press r to reload.", state.ItemType)))
	default:
		content.WriteString(r.renderItemList(state))
	}

	footer := r.renderFooter(state)

	// push the footer to the bottom
	currentLines := strings.Count(content.String(), "\n") + 1
	availableLines := state.Height - 2 // Main padding
	if availableLines <= 0 {
		availableLines = 22
	}
	if pad := availableLines - currentLines - lipgloss.Height(footer); pad > 0 {
		content.WriteString(strings.Repeat("\n", pad))
	}
	content.WriteString("\n")
	content.WriteString(footer)

	mainStyle := r.styles.Main.MaxHeight(max(state.Height, 1))
	finalContent := mainStyle.Render(content.String())

	if state.Dialog != "" {
		return r.popupRender.RenderPopupOverlay(finalContent, state.Dialog, state.Height, state.Width, r.styles.DialogBox)
	}
	if state.Popup != "" {
		return r.popupRender.RenderPopupOverlay(finalContent, state.Popup, state.Height, state.Width, r.styles.InfoBox)
	}
	if state.Busy {
		// the list is frozen until the handler returns
		return desaturateANSI(finalContent)
	}
	return finalContent
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render(state.Title)

	var indicators []string
	if state.Busy {
		spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		frame := int(time.Now().UnixMilli()/80) % len(spinner)
		indicators = append(indicators, spinner[frame]+" Working")
	}
	if state.Loading {
		indicators = append(indicators, "↻ Loading")
	}
	if state.ShowArchived {
		indicators = append(indicators, "archived shown")
	}
	if len(indicators) == 0 {
		return logo
	}

	right := r.styles.Dim.Render(strings.Join(indicators, " | "))
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderItemList(state ViewState) string {
	height := state.ViewportHeight
	if height <= 0 {
		height = len(state.Items)
	}
	start := min(max(state.ViewportOffset, 0), len(state.Items))
	end := min(start+height, len(state.Items))

	rowWidth := state.Width - 4
	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		item := state.Items[i]
		checked := state.IsChecked != nil && state.IsChecked(item.ID)
		lines = append(lines, r.itemRender.RenderItem(item, i == state.SelectedIndex, checked, rowWidth))
	}
	if rest := len(state.Items) - end; rest > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more", rest)))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderFooter(state ViewState) string {
	var lines []string
	if state.StatusMessage != "" {
		lines = append(lines, r.styles.Status.Render(state.StatusMessage))
	}
	if state.Notice != nil {
		lines = append(lines, r.styles.NoticeStyle(state.Notice.Level).Render(state.Notice.Text))
	}
	if state.UndoHint != "" {
		lines = append(lines, r.styles.Highlight.Render("u")+" "+r.styles.Dim.Render("Undo "+state.UndoHint))
	}
	if state.Dialog == "" && state.Popup == "" {
		if state.Keys != nil {
			lines = append(lines, state.HelpModel.View(state.Keys))
		} else {
			lines = append(lines, r.styles.Help.Render("Press ? for help"))
		}
	}
	return strings.Join(lines, "\n")
}
