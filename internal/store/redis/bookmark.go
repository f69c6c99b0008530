package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
	"github.com/MrSnakeDoc/tidymark/internal/store"
)

// Save stores a bookmark and files its id under the matching set
func (s *Store) Save(ctx context.Context, b domain.Bookmark) error {
	if b.ID == "" {
		return fmt.Errorf("save bookmark: empty id")
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		return queueSave(ctx, pipe, b)
	})
	if err != nil {
		return fmt.Errorf("failed to save bookmark %s: %w", b.ID, err)
	}
	return nil
}

// SaveMany stores multiple bookmarks in one pipeline
func (s *Store) SaveMany(ctx context.Context, bookmarks []domain.Bookmark) error {
	if len(bookmarks) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, b := range bookmarks {
			if b.ID == "" {
				return fmt.Errorf("save bookmarks: empty id")
			}
			if err := queueSave(ctx, pipe, b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}
	return nil
}

func queueSave(ctx context.Context, pipe redis.Pipeliner, b domain.Bookmark) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark %s: %w", b.ID, err)
	}
	pipe.Set(ctx, BookmarkKey(b.ID), data, 0)
	pipe.SRem(ctx, setKey(!b.IsArchived()), b.ID)
	pipe.SAdd(ctx, setKey(b.IsArchived()), b.ID)
	return nil
}

// Get retrieves a bookmark by ID
func (s *Store) Get(ctx context.Context, id string) (domain.Bookmark, error) {
	data, err := s.client.Get(ctx, BookmarkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Bookmark{}, fmt.Errorf("get %s: %w", id, store.ErrNotFound)
		}
		return domain.Bookmark{}, fmt.Errorf("failed to get bookmark: %w", err)
	}
	return decode(data)
}

// List returns active bookmarks, newest first
func (s *Store) List(ctx context.Context) ([]domain.Bookmark, error) {
	return s.listSet(ctx, KeyActiveBookmarks)
}

// ListArchived returns archived bookmarks, newest first
func (s *Store) ListArchived(ctx context.Context) ([]domain.Bookmark, error) {
	return s.listSet(ctx, KeyArchivedBookmarks)
}

func (s *Store) listSet(ctx context.Context, set string) ([]domain.Bookmark, error) {
	ids, err := s.client.SMembers(ctx, set).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark IDs: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Bookmark{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = BookmarkKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmarks: %w", err)
	}

	bookmarks := make([]domain.Bookmark, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Skip ids whose value vanished
			continue
		}
		b, err := decode([]byte(raw))
		if err != nil {
			continue
		}
		bookmarks = append(bookmarks, b)
	}
	store.SortNewestFirst(bookmarks)
	return bookmarks, nil
}

// Delete removes a bookmark from Redis
func (s *Store) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, BookmarkKey(id))
		pipe.SRem(ctx, KeyActiveBookmarks, id)
		pipe.SRem(ctx, KeyArchivedBookmarks, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("delete %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// maxTxRetries bounds optimistic retries when a watched key changes.
const maxTxRetries = 5

// Archive moves an active bookmark to the archived set
func (s *Store) Archive(ctx context.Context, id string, at time.Time) (domain.Bookmark, error) {
	return s.transition(ctx, id, func(b domain.Bookmark) (domain.Bookmark, bool) {
		if b.IsArchived() {
			return b, false
		}
		return b.Archive(at), true
	})
}

// Restore moves an archived bookmark back to the active set
func (s *Store) Restore(ctx context.Context, id string) (domain.Bookmark, error) {
	return s.transition(ctx, id, func(b domain.Bookmark) (domain.Bookmark, bool) {
		if !b.IsArchived() {
			return b, false
		}
		return b.Restore(), true
	})
}

// transition reads, changes and writes one bookmark under WATCH, so a
// concurrent Delete aborts the write instead of being undone by it.
func (s *Store) transition(ctx context.Context, id string, change func(domain.Bookmark) (domain.Bookmark, bool)) (domain.Bookmark, error) {
	key := BookmarkKey(id)
	var out domain.Bookmark

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("get %s: %w", id, store.ErrNotFound)
			}
			return fmt.Errorf("failed to get bookmark: %w", err)
		}
		b, err := decode(data)
		if err != nil {
			return err
		}
		next, changed := change(b)
		out = next
		if !changed {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			return queueSave(ctx, pipe, next)
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return domain.Bookmark{}, err
		}
		return out, nil
	}
	return domain.Bookmark{}, fmt.Errorf("update bookmark %s: %w", id, redis.TxFailedErr)
}

// Replace drops every bookmark and writes the given sets
func (s *Store) Replace(ctx context.Context, active, archived []domain.Bookmark) error {
	active, archived = store.Partition(active, archived, time.Now())

	keys, err := s.scanKeys(ctx)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(keys) > 0 {
			pipe.Del(ctx, keys...)
		}
		pipe.Del(ctx, KeyActiveBookmarks, KeyArchivedBookmarks)
		for _, b := range active {
			if err := queueSave(ctx, pipe, b); err != nil {
				return err
			}
		}
		for _, b := range archived {
			if err := queueSave(ctx, pipe, b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace bookmarks: %w", err)
	}
	return nil
}

// Reset removes all bookmarks
func (s *Store) Reset(ctx context.Context) error {
	return s.Replace(ctx, nil, nil)
}

func (s *Store) scanKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, KeyPrefixBookmark+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan bookmark keys: %w", err)
	}
	return keys, nil
}

func decode(data []byte) (domain.Bookmark, error) {
	var b domain.Bookmark
	if err := json.Unmarshal(data, &b); err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}
	return b, nil
}
