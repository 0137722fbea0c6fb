// Package labops binds the batch engine's handlers to the item store, the
// exporter and the system clipboard.
package labops

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/atotto/clipboard"

	"labbatch/internal/batch"
	"labbatch/internal/domain"
	"labbatch/internal/export"
	"labbatch/internal/store"
)

// Service performs batch operations against one kind of item
type Service struct {
	store     store.ItemStore
	exporter  *export.Exporter
	kind      domain.Kind
	publisher batch.Publisher
	copyText  func(string) error

	mu         sync.Mutex
	lastExport string
	lastShare  string
}

// Option configures a Service
type Option func(*Service)

// WithPublisher sets where ItemsChanged events go
func WithPublisher(p batch.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithClipboard replaces the system clipboard. A nil func leaves share unbound.
func WithClipboard(copyText func(string) error) Option {
	return func(s *Service) { s.copyText = copyText }
}

// New creates a service for kind
func New(st store.ItemStore, exporter *export.Exporter, kind domain.Kind, opts ...Option) *Service {
	s := &Service{
		store:    st,
		exporter: exporter,
		kind:     kind,
	}
	if !clipboard.Unsupported {
		s.copyText = clipboard.WriteAll
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handlers returns the batch handlers backed by this service
func (s *Service) Handlers() batch.Handlers {
	h := batch.Handlers{
		Delete:  s.Delete,
		Archive: s.Archive,
		Copy:    s.Copy,
		Tag:     s.Tag,
		Move:    s.Move,
		Undo:    s.Undo,
	}
	if s.exporter != nil {
		h.Export = s.Export
	}
	if s.copyText != nil {
		h.Share = s.Share
	}
	return h
}

func (s *Service) Delete(ctx context.Context, ids []string) error {
	return s.mutate(ids, s.store.SoftDelete(ctx, ids))
}

func (s *Service) Archive(ctx context.Context, ids []string) error {
	return s.mutate(ids, s.store.Archive(ctx, ids))
}

func (s *Service) Tag(ctx context.Context, ids []string, tags []string) error {
	return s.mutate(ids, s.store.AddTags(ctx, ids, tags))
}

func (s *Service) Move(ctx context.Context, ids []string, category string) error {
	return s.mutate(ids, s.store.Move(ctx, ids, category))
}

func (s *Service) Copy(ctx context.Context, ids []string) error {
	copies, err := s.store.Duplicate(ctx, ids)
	if err != nil {
		return err
	}
	created := make([]string, 0, len(copies))
	for _, c := range copies {
		created = append(created, c.ID)
	}
	return s.mutate(created, nil)
}

// Export writes the items to a new file in the export directory
func (s *Service) Export(ctx context.Context, ids []string, format batch.ExportFormat) error {
	items := make([]*domain.Item, 0, len(ids))
	for _, id := range ids {
		item, err := s.store.Get(ctx, id)
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	path, err := s.exporter.Export(ctx, s.kind, items, format)
	if err != nil {
		return err
	}
	log.Printf("Exported %d %s to %s", len(items), s.kind.Noun(), path)

	s.mu.Lock()
	s.lastExport = path
	s.mu.Unlock()
	return nil
}

// Share copies a link to the items onto the clipboard
func (s *Service) Share(ctx context.Context, ids []string) error {
	link := ShareLink(s.kind, ids)
	if err := s.copyText(link); err != nil {
		return fmt.Errorf("copy share link: %w", err)
	}
	s.mu.Lock()
	s.lastShare = link
	s.mu.Unlock()
	return nil
}

// Undo reverses a recorded delete or archive
func (s *Service) Undo(ctx context.Context, entry batch.UndoEntry) error {
	switch entry.Type {
	case batch.OpDelete:
		return s.mutate(entry.ItemIDs, s.store.Restore(ctx, entry.ItemIDs))
	case batch.OpArchive:
		return s.mutate(entry.ItemIDs, s.store.Unarchive(ctx, entry.ItemIDs))
	default:
		return fmt.Errorf("%s cannot be undone", entry.Type)
	}
}

// LastExport returns the path written by the most recent export
func (s *Service) LastExport() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastExport
}

// LastShare returns the most recently copied share link
func (s *Service) LastShare() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastShare
}

func (s *Service) mutate(ids []string, err error) error {
	if err != nil {
		return err
	}
	if s.publisher != nil {
		s.publisher.Publish(domain.ItemsChangedEvent{Kind: s.kind, ItemIDs: append([]string(nil), ids...)})
	}
	return nil
}

// ShareLink builds the link copied by the share operation
func ShareLink(kind domain.Kind, ids []string) string {
	u := url.URL{
		Scheme:   "labbatch",
		Host:     string(kind),
		RawQuery: url.Values{"ids": {strings.Join(ids, ",")}}.Encode(),
	}
	return u.String()
}
