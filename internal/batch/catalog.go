package batch

import (
	"fmt"
	"strings"
)

// OperationID identifies a batch operation
type OperationID string

// Operation identifiers, in default catalog order
const (
	OpCopy    OperationID = "copy"
	OpArchive OperationID = "archive"
	OpTag     OperationID = "tag"
	OpMove    OperationID = "move"
	OpExport  OperationID = "export"
	OpShare   OperationID = "share"
	OpDelete  OperationID = "delete"
)

// Severity is a display hint for menus and buttons. It has no behavioral effect.
type Severity string

const (
	SeverityPrimary Severity = "primary"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Descriptor describes one catalog entry
type Descriptor struct {
	ID                   OperationID
	Label                string
	Severity             Severity
	RequiresConfirmation bool
	RequiresInput        bool
}

// Reversible reports whether a successful run is recorded in the undo ledger
func (d Descriptor) Reversible() bool {
	return d.ID.Reversible()
}

// Reversible reports whether operations of this kind can be undone
func (id OperationID) Reversible() bool {
	return id == OpDelete || id == OpArchive
}

// builtin holds every known operation in default order
var builtin = []Descriptor{
	{ID: OpCopy, Label: "Copy", Severity: SeverityPrimary},
	{ID: OpArchive, Label: "Archive", Severity: SeverityWarning, RequiresConfirmation: true},
	{ID: OpTag, Label: "Add tags", Severity: SeverityInfo, RequiresInput: true},
	{ID: OpMove, Label: "Move to", Severity: SeverityPrimary, RequiresInput: true},
	{ID: OpExport, Label: "Export", Severity: SeveritySuccess, RequiresInput: true},
	{ID: OpShare, Label: "Share", Severity: SeverityPrimary},
	{ID: OpDelete, Label: "Delete", Severity: SeverityError, RequiresConfirmation: true},
}

// ParseOperationID converts a raw string into a known operation id
func ParseOperationID(raw string) (OperationID, error) {
	id := OperationID(strings.ToLower(strings.TrimSpace(raw)))
	for _, d := range builtin {
		if d.ID == id {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, raw)
}

// Catalog is the fixed, ordered set of operations offered for a list
type Catalog struct {
	entries []Descriptor
	index   map[OperationID]int
}

// DefaultCatalog returns every operation in the standard order
func DefaultCatalog() Catalog {
	c, _ := NewCatalog()
	return c
}

// NewCatalog builds a catalog from the given ids in the given order.
// With no ids it returns the full default catalog.
func NewCatalog(ids ...OperationID) (Catalog, error) {
	if len(ids) == 0 {
		for _, d := range builtin {
			ids = append(ids, d.ID)
		}
	}

	c := Catalog{index: make(map[OperationID]int, len(ids))}
	for _, id := range ids {
		d, ok := builtinDescriptor(id)
		if !ok {
			return Catalog{}, fmt.Errorf("%w: %q", ErrUnknownOperation, id)
		}
		if _, dup := c.index[id]; dup {
			return Catalog{}, fmt.Errorf("duplicate operation %q in catalog", id)
		}
		c.index[id] = len(c.entries)
		c.entries = append(c.entries, d)
	}
	return c, nil
}

func builtinDescriptor(id OperationID) (Descriptor, bool) {
	for _, d := range builtin {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Lookup returns the descriptor for id if it is part of the catalog
func (c Catalog) Lookup(id OperationID) (Descriptor, bool) {
	i, ok := c.index[id]
	if !ok {
		return Descriptor{}, false
	}
	return c.entries[i], true
}

// Descriptors returns a copy of the ordered entries
func (c Catalog) Descriptors() []Descriptor {
	return append([]Descriptor(nil), c.entries...)
}

// Len returns the number of operations in the catalog
func (c Catalog) Len() int {
	return len(c.entries)
}

// Describe renders the human description of running op over n items,
// e.g. "Delete 3 devices".
func Describe(op Descriptor, n int, itemType string) string {
	return fmt.Sprintf("%s %d %s", op.Label, n, itemType)
}

// ConfirmText renders the confirmation prompt for op
func ConfirmText(op Descriptor, n int, itemType string) string {
	return fmt.Sprintf("%s the %d selected %s?", op.Label, n, itemType)
}
