package views

import (
	"github.com/charmbracelet/lipgloss"

	"labbatch/internal/batch"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Confirm       lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Toolbar       lipgloss.Style
	InfoBox       lipgloss.Style
	DialogBox     lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	Category      lipgloss.Style
	Tag           lipgloss.Style
	Archived      lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusInfo    lipgloss.Style
	SelectionBg   lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Confirm: lipgloss.NewStyle().Bold(true),
		Dim:     lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Toolbar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("57")).
			Padding(0, 1),
		InfoBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1).
			MarginBottom(1).
			Width(60).
			BorderForeground(lipgloss.Color("241")),
		DialogBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			BorderForeground(lipgloss.Color("99")),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2).
			MaxHeight(100), // Will be dynamically adjusted
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Category:      lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Tag:           lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
		Archived:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		StatusInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // cyan
		SelectionBg:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
	}
}

// NoticeStyle returns the style for a notice of the given level
func (s *Styles) NoticeStyle(level batch.Level) lipgloss.Style {
	switch level {
	case batch.LevelError:
		return s.StatusError
	case batch.LevelWarning:
		return s.StatusWarning
	case batch.LevelInfo:
		return s.StatusInfo
	default:
		return s.StatusSuccess
	}
}

// GetSeverityColor returns the color for an operation's severity hint
func GetSeverityColor(sev batch.Severity) string {
	switch sev {
	case batch.SeverityError:
		return "203" // red
	case batch.SeverityWarning:
		return "214" // yellow
	case batch.SeveritySuccess:
		return "78" // green
	case batch.SeverityInfo:
		return "51" // cyan
	default:
		return "99" // purple
	}
}
