package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"labbatch/internal/batch"
	"labbatch/internal/domain"
)

const (
	nameColumn     = 32
	categoryColumn = 12
)

// ItemRenderer handles rendering of list rows
type ItemRenderer struct {
	styles *Styles
}

// NewItemRenderer creates a new item renderer
func NewItemRenderer(styles *Styles) *ItemRenderer {
	return &ItemRenderer{styles: styles}
}

// RenderItem renders one row: checkbox, name, category and tags
func (r *ItemRenderer) RenderItem(item *domain.Item, isCursor, isChecked bool, width int) string {
	if item == nil {
		return ""
	}

	bg := lipgloss.NewStyle()
	if isCursor {
		bg = r.styles.SelectionBg
	}
	on := func(s lipgloss.Style) lipgloss.Style {
		if isCursor {
			return s.Background(lipgloss.Color("238"))
		}
		return s
	}

	checkbox := "[ ]"
	if isChecked {
		checkbox = "[x]"
	}

	name := runewidth.FillRight(runewidth.Truncate(item.Name, nameColumn, "…"), nameColumn)
	nameStyle := bg
	if item.Archived {
		nameStyle = on(r.styles.Archived)
	}

	category := item.Category
	if category == "" {
		category = "-"
	}
	category = runewidth.FillRight(runewidth.Truncate(category, categoryColumn, "…"), categoryColumn)

	parts := []string{
		bg.Render(checkbox),
		bg.Render(" "),
		nameStyle.Render(name),
		bg.Render(" "),
		on(r.styles.Category).Render(category),
	}
	if len(item.Tags) > 0 {
		parts = append(parts, bg.Render(" "), on(r.styles.Tag).Render("#"+strings.Join(item.Tags, " #")))
	}
	if item.Archived {
		parts = append(parts, bg.Render(" "), on(r.styles.Archived).Render("(archived)"))
	}

	line := strings.Join(parts, "")
	if isCursor && width > 0 {
		// extend the highlight across the row
		if pad := width - lipgloss.Width(line); pad > 0 {
			line += bg.Render(strings.Repeat(" ", pad))
		}
	}
	return line
}

// RenderHeader renders the tri-state select-all checkbox. The count and
// toolbar hint only appear while something is selected.
func (r *ItemRenderer) RenderHeader(sel batch.Selection, itemType string) string {
	checkbox := "[ ]"
	switch {
	case sel.AllSelected():
		checkbox = "[x]"
	case sel.Indeterminate():
		checkbox = "[-]"
	}
	if sel.Empty() {
		return r.styles.Dim.Render(checkbox + " Select all")
	}
	count := r.styles.Toolbar.Render(batch.SelectionSummary(sel, itemType))
	return checkbox + " " + count + "  " + r.styles.Dim.Render("b: batch actions  esc: clear")
}
