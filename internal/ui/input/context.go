package input

import (
	"labbatch/internal/batch"
	"labbatch/internal/ui/services/selection"
	"labbatch/internal/ui/state"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State     *state.AppState
	Selection *selection.Service
	Engine    *batch.Engine
}

// CurrentIndex returns the cursor index
func (c *ModelContext) CurrentIndex() int {
	return c.State.SelectedIndex
}

// TotalItems returns the number of visible items
func (c *ModelContext) TotalItems() int {
	return len(c.State.OrderedItems)
}

// HasSelection returns true if any items are selected
func (c *ModelContext) HasSelection() bool {
	return c.Selection.Count() > 0
}

// SelectedCount returns the number of selected items
func (c *ModelContext) SelectedCount() int {
	return c.Selection.Count()
}

// MenuOperations returns the catalog in menu order
func (c *ModelContext) MenuOperations() []batch.OperationID {
	descs := c.Engine.Catalog().Descriptors()
	ops := make([]batch.OperationID, len(descs))
	for i, d := range descs {
		ops[i] = d.ID
	}
	return ops
}

// MoveOptions returns the categories offered by a pending move
func (c *ModelContext) MoveOptions() []string {
	if pending, ok := c.Engine.Pending(); ok {
		if in, ok := pending.Input.(*batch.MoveInput); ok {
			return in.Options
		}
	}
	return nil
}

// TagCount returns how many tags a pending tag command holds
func (c *ModelContext) TagCount() int {
	if pending, ok := c.Engine.Pending(); ok {
		if in, ok := pending.Input.(*batch.TagInput); ok {
			return len(in.Tags())
		}
	}
	return 0
}
