package selection

// State holds selection state
type State struct {
	SelectedItems map[string]bool
	LastSelected  int // For shift-selection
}
