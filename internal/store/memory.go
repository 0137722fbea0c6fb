package store

import (
	"context"
	"sync"
	"time"

	"labbatch/internal/domain"
)

// MemoryItemStore is an in-memory implementation of ItemStore
type MemoryItemStore struct {
	mu    sync.RWMutex
	items map[string]*domain.Item
	now   func() time.Time
}

// NewMemoryItemStore creates a new memory-based item store
func NewMemoryItemStore() *MemoryItemStore {
	return &MemoryItemStore{
		items: make(map[string]*domain.Item),
		now:   time.Now,
	}
}

func (s *MemoryItemStore) List(ctx context.Context, kind domain.Kind) ([]*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Return copies to prevent external modification
	var out []*domain.Item
	for _, item := range s.items {
		if item.Kind == kind && !item.Deleted {
			out = append(out, item.Clone())
		}
	}
	sortItems(out)
	return out, nil
}

func (s *MemoryItemStore) Get(ctx context.Context, id string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, notFound(id)
	}
	return item.Clone(), nil
}

func (s *MemoryItemStore) Put(ctx context.Context, item *domain.Item) error {
	c, err := normalize(item, s.now())
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[c.ID] = c
	return nil
}

func (s *MemoryItemStore) SoftDelete(ctx context.Context, ids []string) error {
	return s.update(ids, softDelete)
}

func (s *MemoryItemStore) Restore(ctx context.Context, ids []string) error {
	return s.update(ids, restore)
}

func (s *MemoryItemStore) Archive(ctx context.Context, ids []string) error {
	return s.update(ids, archive)
}

func (s *MemoryItemStore) Unarchive(ctx context.Context, ids []string) error {
	return s.update(ids, unarchive)
}

func (s *MemoryItemStore) AddTags(ctx context.Context, ids []string, tags []string) error {
	return s.update(ids, addTags(tags))
}

func (s *MemoryItemStore) Move(ctx context.Context, ids []string, category string) error {
	return s.update(ids, moveTo(category))
}

func (s *MemoryItemStore) Duplicate(ctx context.Context, ids []string) ([]*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if _, ok := s.items[id]; !ok {
			return nil, notFound(id)
		}
	}
	now := s.now()
	out := make([]*domain.Item, 0, len(ids))
	for _, id := range ids {
		c := duplicateOf(s.items[id], now)
		s.items[c.ID] = c
		out = append(out, c.Clone())
	}
	return out, nil
}

func (s *MemoryItemStore) Close() error {
	return nil
}

func (s *MemoryItemStore) update(ids []string, fn mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if _, ok := s.items[id]; !ok {
			return notFound(id)
		}
	}
	now := s.now()
	for _, id := range ids {
		item := s.items[id]
		fn(item)
		item.UpdatedAt = now
	}
	return nil
}
