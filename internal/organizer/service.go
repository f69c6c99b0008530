// Package organizer is the application layer: it keeps bookmarks in a store,
// runs them through the categorization pipeline and owns the suggestion cache
// and the category registry.
package organizer

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/tidymark/internal/cache"
	"github.com/MrSnakeDoc/tidymark/internal/domain"
	"github.com/MrSnakeDoc/tidymark/internal/logger"
	"github.com/MrSnakeDoc/tidymark/internal/store"
)

// DefaultConcurrency bounds parallel categorizations in a batch.
const DefaultConcurrency = 4

// Classifier is the pipeline as seen by the service.
type Classifier interface {
	Categorize(ctx context.Context, b domain.Bookmark) domain.Bookmark
	GenerateSuggestions(ctx context.Context, bookmarks []domain.Bookmark) []domain.Suggestion
	GenerateCategories(ctx context.Context, bookmarks []domain.Bookmark) []domain.Category
}

// ContentFetcher returns readable page text for a URL.
type ContentFetcher interface {
	Text(ctx context.Context, pageURL string) (string, error)
}

// Service is safe for concurrent use.
type Service struct {
	store       store.Store
	classifier  Classifier
	suggestions *cache.SuggestionCache
	categories  *CategoryRegistry
	fetcher     ContentFetcher
	logger      logger.Logger
	now         func() time.Time
	concurrency int
	newID       func() string
}

// Option configures a Service.
type Option func(*Service)

// WithFetcher enables content enrichment for bookmarks submitted without
// content.
func WithFetcher(f ContentFetcher) Option {
	return func(s *Service) { s.fetcher = f }
}

// WithConcurrency sets how many bookmarks a batch categorizes at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithClock injects the time source used for stamps and archiving.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSuggestionCache replaces the default 24h cache.
func WithSuggestionCache(c *cache.SuggestionCache) Option {
	return func(s *Service) {
		if c != nil {
			s.suggestions = c
		}
	}
}

// WithCategoryRegistry replaces the default registry.
func WithCategoryRegistry(r *CategoryRegistry) Option {
	return func(s *Service) {
		if r != nil {
			s.categories = r
		}
	}
}

// New wires a Service.
func New(st store.Store, classifier Classifier, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:       st,
		classifier:  classifier,
		categories:  NewCategoryRegistry(),
		logger:      log,
		now:         time.Now,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.suggestions == nil {
		s.suggestions = cache.NewSuggestionCache(cache.DefaultSuggestionTTL, cache.WithClock(s.now))
	}
	if s.newID == nil {
		s.newID = s.categories.newID
	}
	return s
}

// Ping reports whether the store answers.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
