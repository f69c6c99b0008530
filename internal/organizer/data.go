package organizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
	"github.com/MrSnakeDoc/tidymark/internal/logger"
)

// Export is the full backup document.
type Export struct {
	Bookmarks         []domain.Bookmark `json:"bookmarks"`
	ArchivedBookmarks []domain.Bookmark `json:"archivedBookmarks"`
	Categories        []domain.Category `json:"categories"`
	CustomCategories  []domain.Category `json:"customCategories"`
	ExportDate        time.Time         `json:"exportDate"`
}

// Import carries the sections to restore. A nil section is left untouched;
// an empty one clears it.
type Import struct {
	Bookmarks         []domain.Bookmark `json:"bookmarks"`
	ArchivedBookmarks []domain.Bookmark `json:"archivedBookmarks"`
	Categories        []domain.Category `json:"categories"`
	CustomCategories  []domain.Category `json:"customCategories"`
}

// Empty reports whether no section is present.
func (in Import) Empty() bool {
	return in.Bookmarks == nil && in.ArchivedBookmarks == nil &&
		in.Categories == nil && in.CustomCategories == nil
}

// Export snapshots bookmarks and categories.
func (s *Service) Export(ctx context.Context) (Export, error) {
	active, err := s.store.List(ctx)
	if err != nil {
		return Export{}, fmt.Errorf("list bookmarks: %w", err)
	}
	archived, err := s.store.ListArchived(ctx)
	if err != nil {
		return Export{}, fmt.Errorf("list archived bookmarks: %w", err)
	}
	return Export{
		Bookmarks:         active,
		ArchivedBookmarks: archived,
		Categories:        s.categories.All(),
		CustomCategories:  s.categories.Custom(),
		ExportDate:        s.now().UTC(),
	}, nil
}

// Import replaces the sections present in in and drops cached suggestions.
func (s *Service) Import(ctx context.Context, in Import) error {
	active, err := normalizeImported("bookmarks", in.Bookmarks)
	if err != nil {
		return err
	}
	archived, err := normalizeImported("archivedBookmarks", in.ArchivedBookmarks)
	if err != nil {
		return err
	}

	if active != nil || archived != nil {
		if active == nil {
			if active, err = s.store.List(ctx); err != nil {
				return fmt.Errorf("list bookmarks: %w", err)
			}
		}
		if archived == nil {
			if archived, err = s.store.ListArchived(ctx); err != nil {
				return fmt.Errorf("list archived bookmarks: %w", err)
			}
		}
		if err := s.store.Replace(ctx, active, archived); err != nil {
			return fmt.Errorf("replace bookmarks: %w", err)
		}
	}
	if in.Categories != nil {
		s.categories.SetGenerated(in.Categories)
	}
	if in.CustomCategories != nil {
		s.categories.SetCustom(in.CustomCategories)
	}
	s.suggestions.Invalidate()

	s.logger.Info("data imported",
		logger.Int("bookmarks", len(in.Bookmarks)),
		logger.Int("archived", len(in.ArchivedBookmarks)),
		logger.Int("categories", len(in.Categories)),
		logger.Int("custom_categories", len(in.CustomCategories)))
	return nil
}

// normalizeImported rejects bookmarks without an id and applies the default
// category and tag cap. A nil section stays nil.
func normalizeImported(section string, in []domain.Bookmark) ([]domain.Bookmark, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]domain.Bookmark, 0, len(in))
	for i, b := range in {
		if strings.TrimSpace(b.ID) == "" {
			return nil, fmt.Errorf("%s[%d] has no id: %w", section, i, ErrInvalid)
		}
		out = append(out, b.Normalized())
	}
	return out, nil
}

// Reset clears bookmarks, custom categories and cached suggestions. The
// default taxonomy is restored.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	s.categories.Reset()
	s.suggestions.Invalidate()
	s.logger.Info("data reset")
	return nil
}
