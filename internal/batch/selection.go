package batch

import "fmt"

// Selection is a snapshot of what the list currently has selected
type Selection struct {
	IDs   []string
	Total int
}

// NewSelection builds a selection snapshot. Total is raised to len(ids)
// if the caller under-reports it.
func NewSelection(ids []string, total int) Selection {
	if total < len(ids) {
		total = len(ids)
	}
	return Selection{IDs: append([]string(nil), ids...), Total: total}
}

// Count returns the number of selected items
func (s Selection) Count() int {
	return len(s.IDs)
}

// Empty reports whether nothing is selected
func (s Selection) Empty() bool {
	return len(s.IDs) == 0
}

// AllSelected reports whether every addressable item is selected
func (s Selection) AllSelected() bool {
	return s.Total > 0 && len(s.IDs) == s.Total
}

// Indeterminate reports whether some, but not all, items are selected
func (s Selection) Indeterminate() bool {
	return len(s.IDs) > 0 && len(s.IDs) < s.Total
}

// SelectionView is the list that owns the selection. The engine reads it
// and only mutates it through SelectAll and ClearSelection.
type SelectionView interface {
	Selection() Selection
	SelectAll(selected bool)
	ClearSelection()
}

// SelectionSummary renders the toolbar count, e.g. "2 of 5 devices selected"
func SelectionSummary(s Selection, itemType string) string {
	return fmt.Sprintf("%d of %d %s selected", s.Count(), s.Total, itemType)
}
