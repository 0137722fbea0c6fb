package batch

import (
	"time"
)

const (
	// UndoCapacity is the maximum number of entries the ledger keeps
	UndoCapacity = 5
	// UndoTTL is how long an entry stays undoable after it is recorded
	UndoTTL = 10 * time.Second
)

// UndoEntry records a completed reversible operation
type UndoEntry struct {
	ID          string
	Type        OperationID
	ItemIDs     []string
	Timestamp   time.Time
	Description string
	ExpiresAt   time.Time
}

// Ledger keeps reversible operations most-recent-first.
// Each entry ages out on its own after UndoTTL; the oldest go first.
type Ledger struct {
	entries []UndoEntry
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// Push records entry as the new head and returns the entries trimmed by capacity
func (l *Ledger) Push(entry UndoEntry) []UndoEntry {
	entry.ItemIDs = append([]string(nil), entry.ItemIDs...)
	if entry.ExpiresAt.IsZero() {
		entry.ExpiresAt = entry.Timestamp.Add(UndoTTL)
	}
	l.entries = append([]UndoEntry{entry}, l.entries...)

	var dropped []UndoEntry
	if len(l.entries) > UndoCapacity {
		dropped = append(dropped, l.entries[UndoCapacity:]...)
		l.entries = l.entries[:UndoCapacity:UndoCapacity]
	}
	return dropped
}

// Head returns the most recent entry
func (l *Ledger) Head() (UndoEntry, bool) {
	if len(l.entries) == 0 {
		return UndoEntry{}, false
	}
	return l.entries[0], true
}

// Remove drops the entry with the given id
func (l *Ledger) Remove(id string) (UndoEntry, bool) {
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return e, true
		}
	}
	return UndoEntry{}, false
}

// Sweep drops every entry that has expired at now
func (l *Ledger) Sweep(now time.Time) []UndoEntry {
	var expired []UndoEntry
	kept := l.entries[:0:0]
	for _, e := range l.entries {
		if !now.Before(e.ExpiresAt) {
			expired = append(expired, e)
			continue
		}
		kept = append(kept, e)
	}
	l.entries = kept
	return expired
}

// Entries returns a copy of the ledger, most recent first
func (l *Ledger) Entries() []UndoEntry {
	return append([]UndoEntry(nil), l.entries...)
}

// Len returns the number of entries
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Visible reports whether the undo affordance should be shown
func (l *Ledger) Visible() bool {
	return len(l.entries) > 0
}
