package organizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
)

// DefaultSearchLimit caps search results when the caller gives no limit.
const DefaultSearchLimit = 20

// Search ranks bookmarks against a free-text query over title, host, tags
// and category. Archived bookmarks are searched too when includeArchived.
func (s *Service) Search(ctx context.Context, query string, includeArchived bool, limit int) ([]domain.Match, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is required: %w", ErrInvalid)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	pool, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	if includeArchived {
		archived, err := s.store.ListArchived(ctx)
		if err != nil {
			return nil, fmt.Errorf("list archived bookmarks: %w", err)
		}
		pool = append(pool, archived...)
	}

	matches := domain.RankBookmarks(query, pool)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
