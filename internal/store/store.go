// Package store persists lab items and applies the bulk mutations the batch
// operations need. Every bulk mutation is all-or-nothing: if one id is
// unknown, no item changes.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"labbatch/internal/domain"
)

var (
	ErrNotFound    = errors.New("item not found")
	ErrInvalidItem = errors.New("invalid item")
)

// ItemStore is the persistence boundary for lab items
type ItemStore interface {
	// List returns the non-deleted items of kind, oldest first
	List(ctx context.Context, kind domain.Kind) ([]*domain.Item, error)
	Get(ctx context.Context, id string) (*domain.Item, error)
	Put(ctx context.Context, item *domain.Item) error
	SoftDelete(ctx context.Context, ids []string) error
	Restore(ctx context.Context, ids []string) error
	Archive(ctx context.Context, ids []string) error
	Unarchive(ctx context.Context, ids []string) error
	AddTags(ctx context.Context, ids []string, tags []string) error
	Move(ctx context.Context, ids []string, category string) error
	Duplicate(ctx context.Context, ids []string) ([]*domain.Item, error)
	Close() error
}

// NewID returns a fresh, time-ordered item id
func NewID() string {
	return ulid.Make().String()
}

// mutation changes one item in place
type mutation func(item *domain.Item)

func softDelete(item *domain.Item) { item.Deleted = true }
func restore(item *domain.Item)    { item.Deleted = false }
func archive(item *domain.Item)    { item.Archived = true }
func unarchive(item *domain.Item)  { item.Archived = false }

func addTags(tags []string) mutation {
	return func(item *domain.Item) {
		for _, tag := range tags {
			tag = strings.TrimSpace(tag)
			if tag != "" && !slices.Contains(item.Tags, tag) {
				item.Tags = append(item.Tags, tag)
			}
		}
	}
}

func moveTo(category string) mutation {
	return func(item *domain.Item) { item.Category = category }
}

// duplicateOf builds the copy of src stored by Duplicate
func duplicateOf(src *domain.Item, now time.Time) *domain.Item {
	c := src.Clone()
	c.ID = NewID()
	c.Name = src.Name + " (copy)"
	c.CopiedFrom = src.ID
	c.Archived = false
	c.Deleted = false
	c.CreatedAt = now
	c.UpdatedAt = now
	return c
}

func normalize(item *domain.Item, now time.Time) (*domain.Item, error) {
	if item == nil || strings.TrimSpace(item.ID) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	kind, err := domain.ParseKind(string(item.Kind))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}
	c := item.Clone()
	c.Kind = kind
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	return c, nil
}

func sortItems(items []*domain.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
