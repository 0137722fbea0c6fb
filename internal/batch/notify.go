package batch

import (
	"strings"
	"sync/atomic"
	"time"
)

// NoticeTTL is how long a notice stays visible
const NoticeTTL = 6 * time.Second

// Level is the severity of a notice
type Level int

const (
	LevelSuccess Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Notice is a transient user-facing status message
type Notice struct {
	ID    int64
	Text  string
	Level Level
	Until time.Time
}

// nextNoticeID is shared so ids stay unique across notifiers
var nextNoticeID atomic.Int64

// Notifier holds at most one notice. A new notice replaces the current one.
type Notifier struct {
	current *Notice
	now     func() time.Time
}

// NewNotifier creates a notifier using now as its clock
func NewNotifier(now func() time.Time) *Notifier {
	if now == nil {
		now = time.Now
	}
	return &Notifier{now: now}
}

// Show replaces the current notice and returns it
func (n *Notifier) Show(text string, level Level) Notice {
	notice := Notice{
		ID:    nextNoticeID.Add(1),
		Text:  strings.TrimSpace(text),
		Level: level,
		Until: n.now().Add(NoticeTTL),
	}
	n.current = &notice
	return notice
}

// Dismiss clears the notice with the given id. Stale ids are ignored.
func (n *Notifier) Dismiss(id int64) bool {
	if n.current == nil || n.current.ID != id {
		return false
	}
	n.current = nil
	return true
}

// Current returns the active notice at the given time
func (n *Notifier) Current(at time.Time) (Notice, bool) {
	if n.current == nil || !at.Before(n.current.Until) {
		return Notice{}, false
	}
	return *n.current, true
}
