package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay renders a popup centered on top of a greyed copy of
// the main content. Left and right of the popup the base stays visible.
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	styledPopup := popupStyle.Render(popupContent)

	if width <= 0 {
		width = lipgloss.Width(mainContent)
	}
	if height <= 0 {
		height = lipgloss.Height(mainContent)
	}

	modalW := lipgloss.Width(styledPopup)
	modalH := lipgloss.Height(styledPopup)
	if modalW > width || modalH > height {
		// no room to overlay, let lipgloss clip it into place
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, styledPopup)
	}
	x := (width - modalW) / 2
	y := (height - modalH) / 2

	base := strings.Split(ansiRE.ReplaceAllString(mainContent, ""), "\n")
	for len(base) < height {
		base = append(base, "")
	}
	popupLines := strings.Split(styledPopup, "\n")

	out := make([]string, len(base))
	for i, line := range base {
		if i < y || i >= y+len(popupLines) {
			out[i] = grey(line)
			continue
		}
		left, right := splice(line, x, modalW)
		out[i] = grey(left) + popupLines[i-y] + grey(right)
	}
	return strings.Join(out, "\n")
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func grey(s string) string {
	if s == "" {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(s)
}

// splice returns the parts of a plain line left of column x and right of
// column x+w, padding the left part when the line is short
func splice(line string, x, w int) (string, string) {
	left := runewidth.Truncate(line, x, "")
	left = runewidth.FillRight(left, x)

	var right strings.Builder
	col := 0
	for _, r := range line {
		rw := runewidth.RuneWidth(r)
		if col >= x+w {
			right.WriteRune(r)
		}
		col += rw
	}
	return left, right.String()
}

// desaturateANSI strips ANSI color/style codes and recolors text dim gray
func desaturateANSI(s string) string {
	plain := ansiRE.ReplaceAllString(s, "")
	return grey(plain)
}
