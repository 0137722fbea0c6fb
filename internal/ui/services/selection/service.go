package selection

import (
	"labbatch/internal/batch"
)

// Service holds the multi-selection over the visible list. It is the
// batch engine's view of what the user picked.
type Service struct {
	state   *State
	visible func() []string // visible item ids in display order
}

// NewService creates a selection service over the ids returned by visible
func NewService(visible func() []string) *Service {
	return &Service{
		state: &State{
			SelectedItems: make(map[string]bool),
			LastSelected:  -1,
		},
		visible: visible,
	}
}

// Toggle flips the selection of the item at index
func (s *Service) Toggle(index int) {
	ids := s.visible()
	if index < 0 || index >= len(ids) {
		return
	}
	id := ids[index]
	if s.state.SelectedItems[id] {
		delete(s.state.SelectedItems, id)
	} else {
		s.state.SelectedItems[id] = true
	}
	s.state.LastSelected = index
}

// SelectRange selects every item from the last toggled index to index
func (s *Service) SelectRange(index int) {
	ids := s.visible()
	if index < 0 || index >= len(ids) {
		return
	}
	from := s.state.LastSelected
	if from < 0 || from >= len(ids) {
		from = index
	}
	if from > index {
		from, index = index, from
	}
	for i := from; i <= index; i++ {
		s.state.SelectedItems[ids[i]] = true
	}
}

// SelectAll selects every visible item, or clears the selection
func (s *Service) SelectAll(selected bool) {
	if !selected {
		s.ClearSelection()
		return
	}
	for _, id := range s.visible() {
		s.state.SelectedItems[id] = true
	}
}

// ClearSelection deselects everything
func (s *Service) ClearSelection() {
	s.state.SelectedItems = make(map[string]bool)
	s.state.LastSelected = -1
}

// ToggleAll implements the tri-state header: all selected clears,
// anything else selects all
func (s *Service) ToggleAll() {
	s.SelectAll(!s.Selection().AllSelected())
}

// Selection returns the selected visible ids in display order
func (s *Service) Selection() batch.Selection {
	ids := s.visible()
	selected := make([]string, 0, len(s.state.SelectedItems))
	for _, id := range ids {
		if s.state.SelectedItems[id] {
			selected = append(selected, id)
		}
	}
	return batch.NewSelection(selected, len(ids))
}

// IsSelected reports whether id is selected
func (s *Service) IsSelected(id string) bool {
	return s.state.SelectedItems[id]
}

// Count returns the number of selected visible items
func (s *Service) Count() int {
	return s.Selection().Count()
}

// Prune drops selected ids that are no longer visible
func (s *Service) Prune() {
	visible := make(map[string]bool)
	for _, id := range s.visible() {
		visible[id] = true
	}
	for id := range s.state.SelectedItems {
		if !visible[id] {
			delete(s.state.SelectedItems, id)
		}
	}
}

var _ batch.SelectionView = (*Service)(nil)
