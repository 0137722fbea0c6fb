package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"labbatch/internal/domain"
)

var bucketItems = []byte("items")

// BoltItemStore keeps items as JSON records in a bbolt bucket
type BoltItemStore struct {
	db  *bolt.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewBoltItemStore opens (or creates) the database at path
func NewBoltItemStore(path string) (*BoltItemStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("item db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketItems)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltItemStore{db: db, now: time.Now}, nil
}

func (s *BoltItemStore) List(ctx context.Context, kind domain.Kind) ([]*domain.Item, error) {
	out := make([]*domain.Item, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketItems)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var item domain.Item
			if err := json.Unmarshal(v, &item); err != nil {
				return err
			}
			if item.Kind == kind && !item.Deleted {
				out = append(out, &item)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortItems(out)
	return out, nil
}

func (s *BoltItemStore) Get(ctx context.Context, id string) (*domain.Item, error) {
	var out *domain.Item
	err := s.db.View(func(tx *bolt.Tx) error {
		item, err := getItem(tx.Bucket(bucketItems), id)
		out = item
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BoltItemStore) Put(ctx context.Context, item *domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := normalize(item, s.now())
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return putItem(tx.Bucket(bucketItems), c)
	})
}

func (s *BoltItemStore) SoftDelete(ctx context.Context, ids []string) error {
	return s.update(ids, softDelete)
}

func (s *BoltItemStore) Restore(ctx context.Context, ids []string) error {
	return s.update(ids, restore)
}

func (s *BoltItemStore) Archive(ctx context.Context, ids []string) error {
	return s.update(ids, archive)
}

func (s *BoltItemStore) Unarchive(ctx context.Context, ids []string) error {
	return s.update(ids, unarchive)
}

func (s *BoltItemStore) AddTags(ctx context.Context, ids []string, tags []string) error {
	return s.update(ids, addTags(tags))
}

func (s *BoltItemStore) Move(ctx context.Context, ids []string, category string) error {
	return s.update(ids, moveTo(category))
}

func (s *BoltItemStore) Duplicate(ctx context.Context, ids []string) ([]*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var out []*domain.Item
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketItems)
		out = out[:0]
		for _, id := range ids {
			src, err := getItem(b, id)
			if err != nil {
				return err
			}
			c := duplicateOf(src, now)
			if err := putItem(b, c); err != nil {
				return err
			}
			out = append(out, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BoltItemStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// update applies fn to every id in one transaction; any error rolls it back
func (s *BoltItemStore) update(ids []string, fn mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketItems)
		for _, id := range ids {
			item, err := getItem(b, id)
			if err != nil {
				return err
			}
			fn(item)
			item.UpdatedAt = now
			if err := putItem(b, item); err != nil {
				return err
			}
		}
		return nil
	})
}

func getItem(b *bolt.Bucket, id string) (*domain.Item, error) {
	if b == nil {
		return nil, errors.New("items bucket missing")
	}
	raw := b.Get([]byte(id))
	if len(raw) == 0 {
		return nil, notFound(id)
	}
	var item domain.Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func putItem(b *bolt.Bucket, item *domain.Item) error {
	if b == nil {
		return errors.New("items bucket missing")
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return b.Put([]byte(item.ID), raw)
}
