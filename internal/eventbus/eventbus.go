package eventbus

import (
	"fmt"
	"log"
	"runtime/debug"
	"sync"

	"labbatch/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventBatchExecuted = domain.EventBatchExecuted
	EventBatchFailed   = domain.EventBatchFailed
	EventUndoRecorded  = domain.EventUndoRecorded
	EventUndoApplied   = domain.EventUndoApplied
	EventUndoFailed    = domain.EventUndoFailed
	EventUndoExpired   = domain.EventUndoExpired
	EventItemsChanged  = domain.EventItemsChanged
	EventSeedReloaded  = domain.EventSeedReloaded
	EventError         = domain.EventError
	EventConfigLoaded  = domain.EventConfigLoaded
	EventConfigSaved   = domain.EventConfigSaved
)

// Re-export domain event types
type BatchExecutedEvent = domain.BatchExecutedEvent
type BatchFailedEvent = domain.BatchFailedEvent
type UndoRecordedEvent = domain.UndoRecordedEvent
type UndoAppliedEvent = domain.UndoAppliedEvent
type UndoFailedEvent = domain.UndoFailedEvent
type UndoExpiredEvent = domain.UndoExpiredEvent
type ItemsChangedEvent = domain.ItemsChangedEvent
type SeedReloadedEvent = domain.SeedReloadedEvent
type ErrorEvent = domain.ErrorEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent

// LifecycleEvents are the events the batch engine publishes
var LifecycleEvents = []EventType{
	EventBatchExecuted,
	EventBatchFailed,
	EventUndoRecorded,
	EventUndoApplied,
	EventUndoFailed,
	EventUndoExpired,
}

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	inflight  sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	log.Printf("EventBus: Publishing event %s", event.Type())

	select {
	case <-b.quit:
		log.Printf("EventBus: closed, dropping event %s", event.Type())
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		// Channel full, log and drop
		log.Printf("Event bus channel full, dropping event: %v", event.Type())
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher after delivering queued events and waits for
// running handlers. Publishing after Close drops the event.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		b.wg.Wait()
		b.inflight.Wait()
	})
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.deliver(event)

		case <-b.quit:
			for {
				select {
				case event := <-b.eventChan:
					b.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (b *bus) deliver(event DomainEvent) {
	// Copy to avoid holding the lock during handler execution
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[event.Type()]))
	copy(subs, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, s := range subs {
		b.inflight.Add(1)
		go func(h EventHandler, eventType EventType) {
			defer b.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Event handler panic for %s: %v\nStack: %s", eventType, r, debug.Stack())
				}
			}()
			h(event)
		}(s.handler, event.Type())
	}
}

// Audit subscribes a logger for every batch lifecycle event and returns a
// function that removes all of those subscriptions.
func Audit(b EventBus, logf func(format string, args ...any)) func() {
	if logf == nil {
		logf = log.Printf
	}
	var unsubs []func()
	for _, t := range LifecycleEvents {
		unsubs = append(unsubs, b.Subscribe(t, func(e DomainEvent) {
			logf("audit: %s", describe(e))
		}))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func describe(e DomainEvent) string {
	switch ev := e.(type) {
	case BatchExecutedEvent:
		if !ev.Bound {
			return fmt.Sprintf("batch %s (no handler) on %d items", ev.Operation, len(ev.ItemIDs))
		}
		return fmt.Sprintf("batch %s on %d items", ev.Operation, len(ev.ItemIDs))
	case BatchFailedEvent:
		return fmt.Sprintf("batch %s on %d items failed: %v", ev.Operation, len(ev.ItemIDs), ev.Err)
	case UndoRecordedEvent:
		return fmt.Sprintf("undo recorded %s for %d items", ev.EntryID, len(ev.ItemIDs))
	case UndoAppliedEvent:
		return fmt.Sprintf("undo applied %s", ev.EntryID)
	case UndoFailedEvent:
		return fmt.Sprintf("undo %s failed: %v", ev.EntryID, ev.Err)
	case UndoExpiredEvent:
		return fmt.Sprintf("undo expired %s (%s)", ev.EntryID, ev.Reason)
	default:
		return string(e.Type())
	}
}
