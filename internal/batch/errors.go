package batch

import "errors"

var (
	ErrUnknownOperation  = errors.New("unknown operation")
	ErrNotInCatalog      = errors.New("operation not in catalog")
	ErrEmptySelection    = errors.New("nothing selected")
	ErrBusy              = errors.New("a batch operation is already running")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrInputRequired     = errors.New("required input missing")
	ErrNothingToUndo     = errors.New("nothing to undo")
	ErrUndoUnavailable   = errors.New("undo handler not configured")
	ErrStaleInvocation   = errors.New("invocation is no longer in flight")
)
