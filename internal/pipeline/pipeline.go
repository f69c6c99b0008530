// Package pipeline turns bookmarks into categories, tags, suggestions and a
// taxonomy with the help of a text-generation model.
//
// Every public operation is total: whatever the model answers (or fails to
// answer), the caller gets a usable value. Failures are logged with their
// kind and the offending input, then replaced by a fixed fallback.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
	"github.com/MrSnakeDoc/tidymark/internal/llm"
	"github.com/MrSnakeDoc/tidymark/internal/logger"
)

const (
	// DefaultTimeout bounds a single model call.
	DefaultTimeout = 20 * time.Second

	maxSuggestions     = 5
	suggestionContext  = 10
	categoriesContext  = 20
	opCategorize       = "categorize"
	opSuggest          = "generate_suggestions"
	opGenerateTaxonomy = "generate_categories"
)

// Pipeline is stateless apart from its collaborators and safe for
// concurrent use.
type Pipeline struct {
	gen     llm.Generator
	logger  logger.Logger
	timeout time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// New builds a Pipeline around gen.
func New(gen llm.Generator, log logger.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		gen:     gen,
		logger:  log,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Categorize returns b with a category and at most five tags. On any failure
// it returns b with category "Uncategorized" and no tags.
func (p *Pipeline) Categorize(ctx context.Context, b domain.Bookmark) domain.Bookmark {
	res, err := p.categorize(ctx, b)
	if err != nil {
		p.logger.Warn("categorization failed, using fallback",
			logger.String("kind", string(KindOf(err))),
			logger.String("bookmark_id", b.ID),
			logger.String("title", b.Title),
			logger.String("url", b.URL),
			logger.Error(err))
		return b.Uncategorized()
	}

	p.logger.Debug("bookmark categorized",
		logger.String("bookmark_id", b.ID),
		logger.String("category", res.Category),
		logger.Strings("tags", res.Tags))
	return b.WithClassification(res.Category, res.Tags)
}

func (p *Pipeline) categorize(ctx context.Context, b domain.Bookmark) (categorization, error) {
	text, err := p.call(ctx, opCategorize, categorizePrompt(b))
	if err != nil {
		return categorization{}, err
	}
	fragment, ok := extractObject(text)
	if !ok {
		return categorization{}, newError(KindParse, opCategorize, errNoObject)
	}
	return decodeCategorization(opCategorize, fragment)
}

// GenerateSuggestions proposes up to five pages based on the ten most recent
// bookmarks. An empty input returns an empty result without calling the
// model; any failure returns an empty result.
func (p *Pipeline) GenerateSuggestions(ctx context.Context, bookmarks []domain.Bookmark) []domain.Suggestion {
	if len(bookmarks) == 0 {
		return []domain.Suggestion{}
	}

	out, err := p.generateSuggestions(ctx, mostRecent(bookmarks, suggestionContext))
	if err != nil {
		p.logger.Warn("suggestion generation failed, returning none",
			logger.String("kind", string(KindOf(err))),
			logger.Int("bookmarks", len(bookmarks)),
			logger.Error(err))
		return []domain.Suggestion{}
	}

	p.logger.Info("suggestions generated", logger.Int("count", len(out)))
	return out
}

func (p *Pipeline) generateSuggestions(ctx context.Context, recent []domain.Bookmark) ([]domain.Suggestion, error) {
	text, err := p.call(ctx, opSuggest, suggestionsPrompt(recent))
	if err != nil {
		return nil, err
	}
	fragment, ok := extractArray(text)
	if !ok {
		return nil, newError(KindParse, opSuggest, errNoArray)
	}
	return decodeSuggestions(opSuggest, fragment, maxSuggestions)
}

// GenerateCategories proposes a taxonomy covering the categories already in
// use. On any failure it returns the built-in default catalog.
func (p *Pipeline) GenerateCategories(ctx context.Context, bookmarks []domain.Bookmark) []domain.Category {
	sample := bookmarks
	if len(sample) > categoriesContext {
		sample = sample[:categoriesContext]
	}

	out, err := p.generateCategories(ctx, existingCategories(bookmarks), sample)
	if err != nil {
		p.logger.Warn("category generation failed, using defaults",
			logger.String("kind", string(KindOf(err))),
			logger.Int("bookmarks", len(bookmarks)),
			logger.Error(err))
		return domain.DefaultCategories()
	}

	p.logger.Info("categories generated", logger.Int("count", len(out)))
	return out
}

func (p *Pipeline) generateCategories(ctx context.Context, existing []string, sample []domain.Bookmark) ([]domain.Category, error) {
	text, err := p.call(ctx, opGenerateTaxonomy, categoriesPrompt(existing, sample))
	if err != nil {
		return nil, err
	}
	fragment, ok := extractArray(text)
	if !ok {
		return nil, newError(KindParse, opGenerateTaxonomy, errNoArray)
	}
	return decodeCategories(opGenerateTaxonomy, fragment)
}

// call performs exactly one model request under the pipeline timeout.
func (p *Pipeline) call(ctx context.Context, op, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	text, err := p.gen.Generate(ctx, prompt)
	if err != nil {
		return "", newError(KindNetwork, op, fmt.Errorf("generate: %w", err))
	}
	return text, nil
}

// mostRecent returns up to n bookmarks ordered by DateAdded, newest first.
func mostRecent(bookmarks []domain.Bookmark, n int) []domain.Bookmark {
	sorted := append([]domain.Bookmark(nil), bookmarks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateAdded > sorted[j].DateAdded
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// existingCategories lists distinct non-empty categories in order of first
// appearance.
func existingCategories(bookmarks []domain.Bookmark) []string {
	seen := make(map[string]bool, len(bookmarks))
	out := make([]string, 0)
	for _, b := range bookmarks {
		if b.Category == "" || seen[b.Category] {
			continue
		}
		seen[b.Category] = true
		out = append(out, b.Category)
	}
	return out
}
