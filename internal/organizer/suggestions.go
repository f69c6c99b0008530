package organizer

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
)

// Suggestions returns cached suggestions, generating them from the active
// bookmarks on a miss. Concurrent misses share one generation and an empty
// result is never cached.
func (s *Service) Suggestions(ctx context.Context) ([]domain.Suggestion, error) {
	return s.suggestions.GetOrLoad(ctx, func(ctx context.Context) ([]domain.Suggestion, error) {
		active, err := s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list bookmarks: %w", err)
		}
		if len(active) == 0 {
			return []domain.Suggestion{}, nil
		}
		return s.classifier.GenerateSuggestions(ctx, active), nil
	})
}

// SuggestFor generates suggestions for the given bookmarks, bypassing the
// cache and the store.
func (s *Service) SuggestFor(ctx context.Context, bookmarks []domain.Bookmark) []domain.Suggestion {
	return s.classifier.GenerateSuggestions(ctx, bookmarks)
}

// Categories returns generated categories followed by custom ones.
func (s *Service) Categories() []domain.Category {
	return s.categories.All()
}

// RefreshCategories regenerates the taxonomy from the active bookmarks.
func (s *Service) RefreshCategories(ctx context.Context) ([]domain.Category, error) {
	active, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	s.categories.SetGenerated(s.classifier.GenerateCategories(ctx, active))
	return s.categories.All(), nil
}

// CustomCategories lists the user's categories.
func (s *Service) CustomCategories() []domain.Category {
	return s.categories.Custom()
}

// AddCustomCategory creates a custom category.
func (s *Service) AddCustomCategory(name string) (domain.Category, error) {
	return s.categories.Add(name)
}

// DeleteCustomCategory removes a custom category.
func (s *Service) DeleteCustomCategory(id string) error {
	return s.categories.Delete(id)
}
