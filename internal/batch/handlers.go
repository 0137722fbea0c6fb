package batch

import (
	"context"
	"fmt"
)

// Handlers are the external collaborators that perform operations.
// A nil handler leaves its operation unbound: choosing it only produces a
// local notice. Undo receives the ledger entry being reversed; its ID is the
// operation id recorded when the entry was pushed.
type Handlers struct {
	Delete  func(ctx context.Context, ids []string) error
	Archive func(ctx context.Context, ids []string) error
	Copy    func(ctx context.Context, ids []string) error
	Export  func(ctx context.Context, ids []string, format ExportFormat) error
	Tag     func(ctx context.Context, ids []string, tags []string) error
	Move    func(ctx context.Context, ids []string, category string) error
	Share   func(ctx context.Context, ids []string) error
	Undo    func(ctx context.Context, entry UndoEntry) error
}

type boundHandler func(ctx context.Context, ids []string, in Input) error

// bind resolves every catalog entry to its handler once, up front
func (h Handlers) bind(c Catalog) (map[OperationID]boundHandler, error) {
	bound := make(map[OperationID]boundHandler, c.Len())
	for _, d := range c.Descriptors() {
		fn, err := h.adapter(d.ID)
		if err != nil {
			return nil, err
		}
		if fn != nil {
			bound[d.ID] = fn
		}
	}
	return bound, nil
}

func (h Handlers) adapter(id OperationID) (boundHandler, error) {
	switch id {
	case OpDelete:
		return idsOnly(h.Delete), nil
	case OpArchive:
		return idsOnly(h.Archive), nil
	case OpCopy:
		return idsOnly(h.Copy), nil
	case OpShare:
		return idsOnly(h.Share), nil
	case OpExport:
		if h.Export == nil {
			return nil, nil
		}
		return func(ctx context.Context, ids []string, in Input) error {
			e, ok := in.(*ExportInput)
			if !ok || !e.Valid() {
				return ErrInputRequired
			}
			return h.Export(ctx, ids, e.Format)
		}, nil
	case OpTag:
		if h.Tag == nil {
			return nil, nil
		}
		return func(ctx context.Context, ids []string, in Input) error {
			t, ok := in.(*TagInput)
			if !ok || !t.Valid() {
				return ErrInputRequired
			}
			return h.Tag(ctx, ids, t.Tags())
		}, nil
	case OpMove:
		if h.Move == nil {
			return nil, nil
		}
		return func(ctx context.Context, ids []string, in Input) error {
			m, ok := in.(*MoveInput)
			if !ok || !m.Valid() {
				return ErrInputRequired
			}
			return h.Move(ctx, ids, m.Target())
		}, nil
	default:
		return nil, fmt.Errorf("%w: no handler adapter for %q", ErrUnknownOperation, id)
	}
}

func idsOnly(fn func(context.Context, []string) error) boundHandler {
	if fn == nil {
		return nil
	}
	return func(ctx context.Context, ids []string, _ Input) error {
		return fn(ctx, ids)
	}
}
