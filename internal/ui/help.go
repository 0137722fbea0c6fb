package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"labbatch/internal/batch"
	"labbatch/internal/ui/input/types"
)

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	catalog  batch.Catalog
	itemType string
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer(catalog batch.Catalog, itemType string) *HelpRenderer {
	return &HelpRenderer{catalog: catalog, itemType: itemType}
}

// RenderHelpContentPlain generates the full help text, colored for the pager
func (r *HelpRenderer) RenderHelpContentPlain() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	noteStyle := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))

	var help strings.Builder
	line := func(b key.Binding) {
		h := b.Help()
		help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", h.Key)), descStyle.Render(h.Desc)))
	}

	help.WriteString(titleStyle.Render("labbatch Help"))
	help.WriteString("\n")

	k := types.Keys
	help.WriteString(sectionStyle.Render("Navigation"))
	help.WriteString("\n")
	for _, b := range []key.Binding{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End} {
		line(b)
	}
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Selection"))
	help.WriteString("\n")
	for _, b := range []key.Binding{k.Select, k.ExtendUp, k.ExtendDown, k.SelectAll, k.Clear} {
		line(b)
	}
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Batch Actions"))
	help.WriteString("\n")
	line(k.Menu)
	for _, op := range r.catalog.Descriptors() {
		for _, s := range types.Shortcuts {
			if s.Op != op.ID {
				continue
			}
			desc := op.Label
			switch {
			case op.RequiresConfirmation:
				desc += " (asks first)"
			case op.RequiresInput:
				desc += " (opens a dialog)"
			}
			help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-10s", s.Binding.Help().Key)), descStyle.Render(desc)))
		}
	}
	help.WriteString(noteStyle.Render(fmt.Sprintf("  Actions apply to the selected %s. Delete and archive can be undone for %s.", r.itemType, batch.UndoTTL)))
	help.WriteString("\n\n")

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	for _, b := range []key.Binding{k.Undo, k.History, k.Preview, k.ShowArchive, k.Refresh, k.Help, k.Quit} {
		line(b)
	}

	return strings.TrimRight(help.String(), "\n")
}

// renderHelpContent renders the help popup, scrolled to fit height
func (r *HelpRenderer) renderHelpContent(height int, scrollOffset int) string {
	lines := strings.Split(r.RenderHelpContentPlain(), "\n")
	totalLines := len(lines)

	// account for popup border and padding
	visibleHeight := height - 4
	if visibleHeight < 5 {
		visibleHeight = 5
	}
	if totalLines <= visibleHeight {
		return strings.Join(lines, "\n")
	}

	maxOffset := totalLines - visibleHeight
	scrollOffset = min(max(scrollOffset, 0), maxOffset)
	endLine := scrollOffset + visibleHeight
	visibleLines := lines[scrollOffset:endLine]

	more := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if scrollOffset > 0 {
		visibleLines[0] = more.Render("↑ (more above)")
	}
	if endLine < totalLines {
		visibleLines[len(visibleLines)-1] = more.Render("↓ (more below)")
	}
	return strings.Join(visibleLines, "\n")
}

// HelpOps handles help operations
type HelpOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewHelpOps creates a new help operations instance
func NewHelpOps(program *tea.Program) *HelpOps {
	return &HelpOps{
		program: program,
	}
}

// ShowHelpInPager shows help content using ov pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpContent))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false

	configureVimKeyBindings(&config)

	root.SetConfig(config)

	// Run the oviewer (this will take over the terminal)
	return root.Run()
}

// configureVimKeyBindings adds j/k scrolling and q to quit on top of ov's defaults
func configureVimKeyBindings(config *oviewer.Config) {
	if config.Keybind == nil {
		config.Keybind = make(map[string][]string)
	}
	add := func(action string, keys ...string) {
		for _, k := range keys {
			if !slices.Contains(config.Keybind[action], k) {
				config.Keybind[action] = append(config.Keybind[action], k)
			}
		}
	}
	add("exit", "Escape", "q")
	add("down", "Enter", "Down", "ctrl+n", "j")
	add("up", "Up", "ctrl+p", "k")
}
