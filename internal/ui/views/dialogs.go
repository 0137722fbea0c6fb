package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"labbatch/internal/batch"
	"labbatch/internal/domain"
)

// DialogRenderer renders the batch menu and the per-operation dialogs
type DialogRenderer struct {
	styles *Styles
}

// NewDialogRenderer creates a new dialog renderer
func NewDialogRenderer(styles *Styles) *DialogRenderer {
	return &DialogRenderer{styles: styles}
}

// RenderMenu lists the catalog with the cursor row highlighted
func (r *DialogRenderer) RenderMenu(ops []batch.Descriptor, cursor int, summary string) string {
	var b strings.Builder
	b.WriteString(r.styles.Confirm.Render("Batch actions"))
	b.WriteString("\n")
	b.WriteString(r.styles.Dim.Render(summary))
	b.WriteString("\n\n")

	for i, op := range ops {
		label := lipgloss.NewStyle().Foreground(lipgloss.Color(GetSeverityColor(op.Severity))).Render(op.Label)
		suffix := ""
		switch {
		case op.RequiresConfirmation:
			suffix = "…"
		case op.RequiresInput:
			suffix = " ›"
		}
		line := fmt.Sprintf("%d  %s%s", i+1, label, suffix)
		if i == cursor {
			line = r.styles.Highlight.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(r.styles.Help.Render("enter: choose  1-9: pick  esc: close"))
	return b.String()
}

// RenderConfirm renders the confirmation prompt for a pending operation
func (r *DialogRenderer) RenderConfirm(op batch.Descriptor, text string) string {
	title := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color(GetSeverityColor(op.Severity))).
		Render(op.Label)
	return title + "\n\n" + r.styles.Confirm.Render(text) + "\n\n" +
		r.styles.Help.Render("y/enter: confirm  n/esc: cancel")
}

// RenderBusy renders the dialog of an operation whose handler is running.
// Confirm and submit are disabled until it settles.
func (r *DialogRenderer) RenderBusy(op batch.Descriptor, text string) string {
	title := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color(GetSeverityColor(op.Severity))).
		Render(op.Label)
	return title + "\n\n" + r.styles.Dim.Render(text) + "\n\n" +
		r.styles.Help.Render("Working… (confirm disabled)")
}

// RenderTagInput renders the tag list and the text field
func (r *DialogRenderer) RenderTagInput(tags []string, field string, summary string) string {
	var b strings.Builder
	b.WriteString(r.styles.Confirm.Render("Add tags"))
	b.WriteString("\n")
	b.WriteString(r.styles.Dim.Render(summary))
	b.WriteString("\n\n")
	if len(tags) == 0 {
		b.WriteString(r.styles.Dim.Render("No tags yet"))
	} else {
		chips := make([]string, len(tags))
		for i, t := range tags {
			chips[i] = r.styles.Tag.Render("#" + t)
		}
		b.WriteString(strings.Join(chips, " "))
	}
	b.WriteString("\n")
	b.WriteString(field)
	b.WriteString("\n\n")
	b.WriteString(r.styles.Help.Render("enter: add tag (empty: apply)  backspace: remove last  ctrl+s: apply  esc: cancel"))
	return b.String()
}

// RenderMoveInput renders the category pick list
func (r *DialogRenderer) RenderMoveInput(options []string, cursor int, chosen string, summary string) string {
	var b strings.Builder
	b.WriteString(r.styles.Confirm.Render("Move to"))
	b.WriteString("\n")
	b.WriteString(r.styles.Dim.Render(summary))
	b.WriteString("\n\n")
	if len(options) == 0 {
		b.WriteString(r.styles.StatusWarning.Render("No categories configured"))
		b.WriteString("\n")
	}
	for i, opt := range options {
		mark := "( )"
		if opt == chosen {
			mark = "(•)"
		}
		line := fmt.Sprintf("%s %s", mark, opt)
		if i == cursor {
			line = r.styles.Highlight.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(r.styles.Help.Render("j/k: pick  enter: move  esc: cancel"))
	return b.String()
}

// RenderExportInput renders the format chooser
func (r *DialogRenderer) RenderExportInput(current batch.ExportFormat, summary string) string {
	var b strings.Builder
	b.WriteString(r.styles.Confirm.Render("Export"))
	b.WriteString("\n")
	b.WriteString(r.styles.Dim.Render(summary))
	b.WriteString("\n\n")
	formats := make([]string, len(batch.ExportFormats))
	for i, f := range batch.ExportFormats {
		label := strings.ToUpper(string(f))
		if f == current {
			formats[i] = r.styles.Highlight.Render("[" + label + "]")
		} else {
			formats[i] = r.styles.Dim.Render(" " + label + " ")
		}
	}
	b.WriteString(strings.Join(formats, " "))
	b.WriteString("\n\n")
	b.WriteString(r.styles.Help.Render("←/→: format  enter: export  esc: cancel"))
	return b.String()
}

// RenderPreview renders the details of one item
func (r *DialogRenderer) RenderPreview(item *domain.Item) string {
	if item == nil {
		return r.styles.Dim.Render("Nothing under the cursor")
	}
	var b strings.Builder
	b.WriteString(r.styles.Title.Render(item.Name))
	b.WriteString("\n")
	row := func(k, v string) {
		if v == "" {
			v = "-"
		}
		b.WriteString(r.styles.Dim.Render(fmt.Sprintf("%-10s", k)))
		b.WriteString(v)
		b.WriteString("\n")
	}
	row("ID", item.ID)
	row("Kind", string(item.Kind))
	row("Category", item.Category)
	row("Tags", strings.Join(item.Tags, ", "))
	if item.Archived {
		row("Status", "archived")
	} else {
		row("Status", "active")
	}
	if item.CopiedFrom != "" {
		row("Copy of", item.CopiedFrom)
	}
	if !item.CreatedAt.IsZero() {
		row("Created", item.CreatedAt.Format(time.DateTime))
	}
	if !item.UpdatedAt.IsZero() {
		row("Updated", item.UpdatedAt.Format(time.DateTime))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderUndoHistory lists the undo ledger with time left per entry
func (r *DialogRenderer) RenderUndoHistory(entries []batch.UndoEntry, now time.Time) string {
	var b strings.Builder
	b.WriteString(r.styles.Confirm.Render("Undo history"))
	b.WriteString("\n\n")
	if len(entries) == 0 {
		b.WriteString(r.styles.Dim.Render("Nothing to undo"))
		return b.String()
	}
	for i, e := range entries {
		left := e.ExpiresAt.Sub(now).Round(time.Second)
		if left < 0 {
			left = 0
		}
		line := fmt.Sprintf("%s  %s", e.Description, r.styles.Dim.Render(fmt.Sprintf("(%s left)", left)))
		if i == 0 {
			line = r.styles.Highlight.Render("u ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
