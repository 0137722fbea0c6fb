// Package seed imports lab items from a YAML file and watches it for edits
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"labbatch/internal/domain"
	"labbatch/internal/store"
)

// File is the seed file layout
type File struct {
	Items []*domain.Item `yaml:"items"`
}

// Parse decodes seed YAML. Items without a kind get defaultKind.
func Parse(data []byte, defaultKind domain.Kind) ([]*domain.Item, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	seen := make(map[string]bool, len(f.Items))
	for i, item := range f.Items {
		if item == nil || item.ID == "" {
			return nil, fmt.Errorf("seed item %d has no id", i)
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("seed item %q appears twice", item.ID)
		}
		seen[item.ID] = true
		if item.Kind == "" {
			item.Kind = defaultKind
		}
	}
	return f.Items, nil
}

// Load reads and parses the seed file at path
func Load(path string, defaultKind domain.Kind) ([]*domain.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data, defaultKind)
}

// Apply inserts items missing from s and refreshes the name of items already
// stored. Deleted, archived, tags and category are left as batch operations
// set them. Returns how many items were written.
func Apply(ctx context.Context, s store.ItemStore, items []*domain.Item) (int, error) {
	n := 0
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		existing, err := s.Get(ctx, item.ID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			existing = item
		case err != nil:
			return n, fmt.Errorf("seed item %q: %w", item.ID, err)
		case existing.Name == item.Name:
			continue
		default:
			existing.Name = item.Name
		}
		if err := s.Put(ctx, existing); err != nil {
			return n, fmt.Errorf("seed item %q: %w", item.ID, err)
		}
		n++
	}
	return n, nil
}

// Import loads path and applies it to s
func Import(ctx context.Context, s store.ItemStore, path string, defaultKind domain.Kind) (int, error) {
	items, err := Load(path, defaultKind)
	if err != nil {
		return 0, err
	}
	return Apply(ctx, s, items)
}
