// Package memory is the process-local bookmark store.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
	"github.com/MrSnakeDoc/tidymark/internal/store"
)

// Store holds bookmarks in two maps guarded by one RWMutex.
// Values are cloned on the way in and out.
type Store struct {
	mu       sync.RWMutex
	active   map[string]domain.Bookmark // ID -> Bookmark
	archived map[string]domain.Bookmark // ID -> Bookmark
}

var _ store.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		active:   make(map[string]domain.Bookmark),
		archived: make(map[string]domain.Bookmark),
	}
}

func (s *Store) Save(_ context.Context, b domain.Bookmark) error {
	if b.ID == "" {
		return fmt.Errorf("save bookmark: empty id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(b)
	return nil
}

func (s *Store) SaveMany(_ context.Context, bookmarks []domain.Bookmark) error {
	for _, b := range bookmarks {
		if b.ID == "" {
			return fmt.Errorf("save bookmarks: empty id")
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range bookmarks {
		s.putLocked(b)
	}
	return nil
}

func (s *Store) putLocked(b domain.Bookmark) {
	delete(s.active, b.ID)
	delete(s.archived, b.ID)
	if b.IsArchived() {
		s.archived[b.ID] = b.Clone()
	} else {
		s.active[b.ID] = b.Clone()
	}
}

func (s *Store) Get(_ context.Context, id string) (domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b, ok := s.active[id]; ok {
		return b.Clone(), nil
	}
	if b, ok := s.archived[id]; ok {
		return b.Clone(), nil
	}
	return domain.Bookmark{}, fmt.Errorf("get %s: %w", id, store.ErrNotFound)
}

func (s *Store) List(context.Context) ([]domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.active), nil
}

func (s *Store) ListArchived(context.Context) ([]domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.archived), nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, inActive := s.active[id]
	_, inArchived := s.archived[id]
	if !inActive && !inArchived {
		return fmt.Errorf("delete %s: %w", id, store.ErrNotFound)
	}
	delete(s.active, id)
	delete(s.archived, id)
	return nil
}

func (s *Store) Archive(_ context.Context, id string, at time.Time) (domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.archived[id]; ok {
		return b.Clone(), nil
	}
	b, ok := s.active[id]
	if !ok {
		return domain.Bookmark{}, fmt.Errorf("archive %s: %w", id, store.ErrNotFound)
	}
	out := b.Archive(at)
	delete(s.active, id)
	s.archived[id] = out
	return out.Clone(), nil
}

func (s *Store) Restore(_ context.Context, id string) (domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.active[id]; ok {
		return b.Clone(), nil
	}
	b, ok := s.archived[id]
	if !ok {
		return domain.Bookmark{}, fmt.Errorf("restore %s: %w", id, store.ErrNotFound)
	}
	out := b.Restore()
	delete(s.archived, id)
	s.active[id] = out
	return out.Clone(), nil
}

func (s *Store) Replace(_ context.Context, active, archived []domain.Bookmark) error {
	active, archived = store.Partition(active, archived, time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = make(map[string]domain.Bookmark, len(active))
	s.archived = make(map[string]domain.Bookmark, len(archived))
	for _, b := range active {
		s.active[b.ID] = b
	}
	for _, b := range archived {
		s.archived[b.ID] = b
	}
	return nil
}

func (s *Store) Reset(ctx context.Context) error {
	return s.Replace(ctx, nil, nil)
}

func (s *Store) Ping(context.Context) error { return nil }

// Count returns the number of active and archived bookmarks.
func (s *Store) Count() (active, archived int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active), len(s.archived)
}

func snapshot(m map[string]domain.Bookmark) []domain.Bookmark {
	out := make([]domain.Bookmark, 0, len(m))
	for _, b := range m {
		out = append(out, b.Clone())
	}
	store.SortNewestFirst(out)
	return out
}
