package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventBatchExecuted EventType = "BatchExecuted"
	EventBatchFailed   EventType = "BatchFailed"
	EventUndoRecorded  EventType = "UndoRecorded"
	EventUndoApplied   EventType = "UndoApplied"
	EventUndoFailed    EventType = "UndoFailed"
	EventUndoExpired   EventType = "UndoExpired"
	EventItemsChanged  EventType = "ItemsChanged"
	EventSeedReloaded  EventType = "SeedReloaded"
	EventError         EventType = "Error"
	EventConfigLoaded  EventType = "ConfigLoaded"
	EventConfigSaved   EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// BatchExecutedEvent is emitted when a batch operation's handler succeeds
type BatchExecutedEvent struct {
	Operation string
	ItemIDs   []string
	Bound     bool // false when the operation had no handler and only notified
}

func (e BatchExecutedEvent) Type() EventType { return EventBatchExecuted }

// BatchFailedEvent is emitted when a batch operation's handler fails
type BatchFailedEvent struct {
	Operation string
	ItemIDs   []string
	Err       error
}

func (e BatchFailedEvent) Type() EventType { return EventBatchFailed }

// UndoRecordedEvent is emitted when a reversible operation enters the undo ledger
type UndoRecordedEvent struct {
	EntryID   string
	Operation string
	ItemIDs   []string
}

func (e UndoRecordedEvent) Type() EventType { return EventUndoRecorded }

// UndoAppliedEvent is emitted when an undo succeeds
type UndoAppliedEvent struct {
	EntryID   string
	Operation string
	ItemIDs   []string
}

func (e UndoAppliedEvent) Type() EventType { return EventUndoApplied }

// UndoFailedEvent is emitted when an undo fails; the entry stays in the ledger
type UndoFailedEvent struct {
	EntryID string
	Err     error
}

func (e UndoFailedEvent) Type() EventType { return EventUndoFailed }

// UndoExpiredEvent is emitted when an entry leaves the ledger without being undone
type UndoExpiredEvent struct {
	EntryID string
	Reason  string // "ttl" or "capacity"
}

func (e UndoExpiredEvent) Type() EventType { return EventUndoExpired }

// ItemsChangedEvent is emitted by collaborators after they mutate items
type ItemsChangedEvent struct {
	Kind    Kind
	ItemIDs []string
}

func (e ItemsChangedEvent) Type() EventType { return EventItemsChanged }

// SeedReloadedEvent is emitted after the seed file is (re)imported
type SeedReloadedEvent struct {
	Path  string
	Count int
}

func (e SeedReloadedEvent) Type() EventType { return EventSeedReloaded }

// ErrorEvent is emitted when a background error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
