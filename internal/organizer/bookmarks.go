package organizer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
	"github.com/MrSnakeDoc/tidymark/internal/logger"
)

// CategorizeAll categorizes every bookmark, saves the results and returns
// them in input order. One failed categorization never affects the others:
// the pipeline already degrades it to "Uncategorized".
func (s *Service) CategorizeAll(ctx context.Context, bookmarks []domain.Bookmark) ([]domain.Bookmark, error) {
	results := s.categorizeBatch(ctx, bookmarks, nil)
	if err := s.store.SaveMany(ctx, results); err != nil {
		return nil, fmt.Errorf("save categorized bookmarks: %w", err)
	}

	s.logger.Info("bookmarks categorized", logger.Int("count", len(results)))
	return results, nil
}

// Classify categorizes one bookmark without storing it.
func (s *Service) Classify(ctx context.Context, b domain.Bookmark) domain.Bookmark {
	return s.categorizeBatch(ctx, []domain.Bookmark{b}, nil)[0]
}

// AddNew categorizes and saves the bookmarks whose id is not stored yet.
// hints maps a bookmark id to a category used when the pipeline falls back.
// It returns the bookmarks added.
func (s *Service) AddNew(ctx context.Context, bookmarks []domain.Bookmark, hints map[string]string) ([]domain.Bookmark, error) {
	fresh := make([]domain.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if _, err := s.store.Get(ctx, b.ID); err == nil {
			continue
		}
		fresh = append(fresh, b)
	}
	if len(fresh) == 0 {
		return fresh, nil
	}

	results := s.categorizeBatch(ctx, fresh, hints)
	if err := s.store.SaveMany(ctx, results); err != nil {
		return nil, fmt.Errorf("save new bookmarks: %w", err)
	}
	return results, nil
}

func (s *Service) categorizeBatch(ctx context.Context, bookmarks []domain.Bookmark, hints map[string]string) []domain.Bookmark {
	results := make([]domain.Bookmark, len(bookmarks))
	nowMillis := s.now().UnixMilli()

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, b := range bookmarks {
		g.Go(func() error {
			b = b.Clone()
			if b.ID == "" {
				b.ID = s.newID()
			}
			if b.DateAdded == 0 {
				b.DateAdded = nowMillis
			}
			b = s.enrich(ctx, b)

			out := s.classifier.Categorize(ctx, b)
			if hint := hints[b.ID]; hint != "" && out.Category == domain.Uncategorized && len(out.Tags) == 0 {
				out.Category = hint
			}
			results[i] = out
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// enrich fills Content from the page when a fetcher is configured. Failures
// leave the bookmark untouched.
func (s *Service) enrich(ctx context.Context, b domain.Bookmark) domain.Bookmark {
	if s.fetcher == nil || b.Content != "" || b.URL == "" {
		return b
	}
	text, err := s.fetcher.Text(ctx, b.URL)
	if err != nil {
		s.logger.Debug("content enrichment skipped",
			logger.String("bookmark_id", b.ID),
			logger.String("url", b.URL),
			logger.Error(err))
		return b
	}
	b.Content = text
	return b
}

// List returns active bookmarks, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Bookmark, error) {
	return s.store.List(ctx)
}

// ListArchived returns archived bookmarks, newest first.
func (s *Service) ListArchived(ctx context.Context) ([]domain.Bookmark, error) {
	return s.store.ListArchived(ctx)
}

// Update applies patch to a bookmark. A new title or url triggers a fresh
// categorization (a new url also refetches content when a fetcher is set);
// a category or tags given in the same patch still win.
func (s *Service) Update(ctx context.Context, id string, patch domain.BookmarkPatch) (domain.Bookmark, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Bookmark{}, err
	}

	updated, recategorize := patch.Apply(current)
	if recategorize {
		updated = s.classifier.Categorize(ctx, s.enrich(ctx, updated))
		if patch.Category != nil || patch.Tags != nil {
			updated, _ = domain.BookmarkPatch{Category: patch.Category, Tags: patch.Tags}.Apply(updated)
		}
	}

	if err := s.store.Save(ctx, updated); err != nil {
		return domain.Bookmark{}, fmt.Errorf("save bookmark %s: %w", id, err)
	}
	return updated, nil
}

// Delete removes a bookmark from either set.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Archive moves an active bookmark to the archive.
func (s *Service) Archive(ctx context.Context, id string) (domain.Bookmark, error) {
	return s.store.Archive(ctx, id, s.now())
}

// Restore moves an archived bookmark back.
func (s *Service) Restore(ctx context.Context, id string) (domain.Bookmark, error) {
	return s.store.Restore(ctx, id)
}

// ArchiveBatch archives the active bookmarks among ids and returns how many
// were archived. Unknown or already archived ids are skipped.
func (s *Service) ArchiveBatch(ctx context.Context, ids []string) (int, error) {
	active, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}
	isActive := make(map[string]bool, len(active))
	for _, b := range active {
		isActive[b.ID] = true
	}

	at := s.now()
	archived := 0
	for _, id := range ids {
		if !isActive[id] {
			continue
		}
		if _, err := s.store.Archive(ctx, id, at); err != nil {
			return archived, fmt.Errorf("archive %s: %w", id, err)
		}
		isActive[id] = false
		archived++
	}
	return archived, nil
}

// ArchiveStale archives active bookmarks added before now - olderThan.
// Bookmarks without a dateAdded are left alone.
func (s *Service) ArchiveStale(ctx context.Context, olderThan time.Duration) (int, error) {
	active, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	cutoff := now.Add(-olderThan)
	archived := 0
	for _, b := range active {
		if b.DateAdded == 0 || !b.AddedAt().Before(cutoff) {
			continue
		}
		if _, err := s.store.Archive(ctx, b.ID, now); err != nil {
			return archived, fmt.Errorf("archive %s: %w", b.ID, err)
		}
		archived++
	}
	return archived, nil
}
