package state

import (
	"labbatch/internal/domain"
)

// AppState contains all the application state
type AppState struct {
	// Item data
	Items        map[string]*domain.Item // id -> item
	OrderedItems []string                // visible item ids in display order

	// Cursor
	SelectedIndex int

	// UI state
	ViewportOffset   int // offset for scrolling
	ViewportHeight   int // available height for the item list
	Loading          bool
	ShowArchived     bool
	ShowHelp         bool
	HelpScrollOffset int
	ShowPreview      bool
	ShowHistory      bool
	StatusMessage    string // persistent status line, e.g. load errors
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{
		Items:          make(map[string]*domain.Item),
		OrderedItems:   make([]string, 0),
		ViewportHeight: 20, // Default
	}
}

// SetItems replaces the item list. Items hidden by ShowArchived or
// soft deletion are kept out of OrderedItems.
func (s *AppState) SetItems(items []*domain.Item) {
	s.Items = make(map[string]*domain.Item, len(items))
	s.OrderedItems = s.OrderedItems[:0]
	for _, item := range items {
		if !item.Visible(s.ShowArchived) {
			continue
		}
		s.Items[item.ID] = item
		s.OrderedItems = append(s.OrderedItems, item.ID)
	}
	s.ClampCursor()
}

// ItemAt returns the visible item at index
func (s *AppState) ItemAt(index int) *domain.Item {
	if index < 0 || index >= len(s.OrderedItems) {
		return nil
	}
	return s.Items[s.OrderedItems[index]]
}

// CurrentItem returns the item under the cursor
func (s *AppState) CurrentItem() *domain.Item {
	return s.ItemAt(s.SelectedIndex)
}

// VisibleIDs returns the visible item ids in display order
func (s *AppState) VisibleIDs() []string {
	return append([]string(nil), s.OrderedItems...)
}

// MoveCursor moves the cursor by delta, clamped to the list
func (s *AppState) MoveCursor(delta int) {
	s.SelectedIndex += delta
	s.ClampCursor()
}

// SetCursor places the cursor at index, clamped to the list
func (s *AppState) SetCursor(index int) {
	s.SelectedIndex = index
	s.ClampCursor()
}

// ClampCursor keeps the cursor and viewport inside the list
func (s *AppState) ClampCursor() {
	if s.SelectedIndex >= len(s.OrderedItems) {
		s.SelectedIndex = len(s.OrderedItems) - 1
	}
	if s.SelectedIndex < 0 {
		s.SelectedIndex = 0
	}
	s.EnsureVisible()
}

// EnsureVisible scrolls the viewport so the cursor is on screen
func (s *AppState) EnsureVisible() {
	if s.ViewportHeight <= 0 {
		return
	}
	if s.SelectedIndex < s.ViewportOffset {
		s.ViewportOffset = s.SelectedIndex
	}
	if s.SelectedIndex >= s.ViewportOffset+s.ViewportHeight {
		s.ViewportOffset = s.SelectedIndex - s.ViewportHeight + 1
	}
	maxOffset := len(s.OrderedItems) - s.ViewportHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.ViewportOffset > maxOffset {
		s.ViewportOffset = maxOffset
	}
	if s.ViewportOffset < 0 {
		s.ViewportOffset = 0
	}
}

// CloseOverlays hides the help, history and preview popups. It reports
// whether any was open.
func (s *AppState) CloseOverlays() bool {
	open := s.ShowHelp || s.ShowHistory || s.ShowPreview
	s.ShowHelp = false
	s.ShowHistory = false
	s.ShowPreview = false
	s.HelpScrollOffset = 0
	return open
}
