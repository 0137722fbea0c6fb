package ui

import (
	"time"

	"labbatch/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// tickMsg is sent on a timer for animations
type tickMsg time.Time

// seedChangedMsg reports that the watched seed file was edited
type seedChangedMsg struct {
	path string
}

// seedClosedMsg reports that the seed watcher stopped
type seedClosedMsg struct{}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
