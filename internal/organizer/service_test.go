package organizer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/tidymark/internal/cache"
	"github.com/MrSnakeDoc/tidymark/internal/domain"
	"github.com/MrSnakeDoc/tidymark/internal/llm"
	"github.com/MrSnakeDoc/tidymark/internal/logger"
	"github.com/MrSnakeDoc/tidymark/internal/pipeline"
	"github.com/MrSnakeDoc/tidymark/internal/store"
	"github.com/MrSnakeDoc/tidymark/internal/store/memory"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeClassifier categorizes by title prefix: "fail:" falls back, anything
// else becomes category "Cat-<title>".
type fakeClassifier struct {
	categorizeCalls  atomic.Int32
	suggestCalls     atomic.Int32
	categoryCalls    atomic.Int32
	inFlight         atomic.Int32
	maxInFlight      atomic.Int32
	delay            time.Duration
	suggestions      []domain.Suggestion
	categories       []domain.Category
	lastSuggestInput []domain.Bookmark
	mu               sync.Mutex
}

func (f *fakeClassifier) Categorize(_ context.Context, b domain.Bookmark) domain.Bookmark {
	f.categorizeCalls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.maxInFlight.Load()
		if n <= peak || f.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if strings.HasPrefix(b.Title, "fail:") {
		return b.Uncategorized()
	}
	return b.WithClassification("Cat-"+b.Title, []string{"t1", "t2"})
}

func (f *fakeClassifier) GenerateSuggestions(_ context.Context, bookmarks []domain.Bookmark) []domain.Suggestion {
	f.suggestCalls.Add(1)
	f.mu.Lock()
	f.lastSuggestInput = bookmarks
	f.mu.Unlock()
	return append([]domain.Suggestion{}, f.suggestions...)
}

func (f *fakeClassifier) GenerateCategories(context.Context, []domain.Bookmark) []domain.Category {
	f.categoryCalls.Add(1)
	if f.categories == nil {
		return domain.DefaultCategories()
	}
	return f.categories
}

type fixture struct {
	svc        *Service
	store      *memory.Store
	classifier *fakeClassifier
	clock      *time.Time
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	now := testNow
	f := &fixture{
		store:      memory.New(),
		classifier: &fakeClassifier{},
		clock:      &now,
	}
	clock := func() time.Time { return *f.clock }
	opts = append([]Option{
		WithClock(clock),
		WithSuggestionCache(cache.NewSuggestionCache(24*time.Hour, cache.WithClock(clock))),
	}, opts...)
	f.svc = New(f.store, f.classifier, logger.Nop(), opts...)
	return f
}

func bm(id, title string, added int64) domain.Bookmark {
	return domain.Bookmark{ID: id, Title: title, URL: "https://example.com/" + id, DateAdded: added}
}

func TestCategorizeAllKeepsOrderAndIsolatesFailures(t *testing.T) {
	f := newFixture(t)
	f.classifier.delay = 5 * time.Millisecond

	in := []domain.Bookmark{
		bm("1", "alpha", 1),
		bm("2", "fail:beta", 2),
		bm("3", "gamma", 3),
		bm("4", "delta", 4),
		bm("5", "epsilon", 5),
	}
	out, err := f.svc.CategorizeAll(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out, len(in))

	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID, "position %d", i)
	}
	assert.Equal(t, "Cat-alpha", out[0].Category)
	assert.Equal(t, domain.Uncategorized, out[1].Category)
	assert.Empty(t, out[1].Tags)
	assert.Equal(t, "Cat-epsilon", out[4].Category)

	stored, err := f.store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 5)
}

func TestCategorizeAllRespectsConcurrency(t *testing.T) {
	f := newFixture(t, WithConcurrency(2))
	f.classifier.delay = 20 * time.Millisecond

	in := make([]domain.Bookmark, 8)
	for i := range in {
		in[i] = bm(string(rune('a'+i)), "title", int64(i+1))
	}
	_, err := f.svc.CategorizeAll(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, int32(8), f.classifier.categorizeCalls.Load())
	assert.LessOrEqual(t, f.classifier.maxInFlight.Load(), int32(2))
}

func TestCategorizeAllStampsMissingFields(t *testing.T) {
	f := newFixture(t)

	out, err := f.svc.CategorizeAll(context.Background(), []domain.Bookmark{
		{Title: "no id", URL: "https://example.com"},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.NotEmpty(t, out[0].ID)
	assert.Equal(t, testNow.UnixMilli(), out[0].DateAdded)
}

type stubFetcher struct {
	text  string
	err   error
	calls atomic.Int32
}

func (s *stubFetcher) Text(context.Context, string) (string, error) {
	s.calls.Add(1)
	return s.text, s.err
}

func TestCategorizeAllEnrichesContent(t *testing.T) {
	fetcher := &stubFetcher{text: "fetched body"}
	f := newFixture(t, WithFetcher(fetcher))

	withContent := bm("1", "has content", 1)
	withContent.Content = "already here"
	out, err := f.svc.CategorizeAll(context.Background(), []domain.Bookmark{withContent, bm("2", "empty", 2)})
	require.NoError(t, err)

	assert.Equal(t, "already here", out[0].Content)
	assert.Equal(t, "fetched body", out[1].Content)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestCategorizeAllEnrichmentFailureIsIgnored(t *testing.T) {
	f := newFixture(t, WithFetcher(&stubFetcher{err: errors.New("offline")}))

	out, err := f.svc.CategorizeAll(context.Background(), []domain.Bookmark{bm("1", "page", 1)})
	require.NoError(t, err)
	assert.Empty(t, out[0].Content)
	assert.Equal(t, "Cat-page", out[0].Category)
}

func TestAddNewSkipsKnownAndUsesHints(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, bm("known", "known", 1)))

	added, err := f.svc.AddNew(ctx, []domain.Bookmark{
		bm("known", "known", 1),
		bm("new", "fresh", 2),
		bm("hinted", "fail:hinted", 3),
	}, map[string]string{"hinted": "Developer", "new": "Ignored"})
	require.NoError(t, err)
	require.Len(t, added, 2)

	assert.Equal(t, "Cat-fresh", added[0].Category, "a real categorization beats the hint")
	assert.Equal(t, "Developer", added[1].Category, "the hint replaces the fallback")
	assert.Equal(t, int32(2), f.classifier.categorizeCalls.Load())
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, bm("1", "old", 1).WithClassification("Old", []string{"x"})))

	t.Run("category only does not recategorize", func(t *testing.T) {
		cat := "Manual"
		got, err := f.svc.Update(ctx, "1", domain.BookmarkPatch{Category: &cat})
		require.NoError(t, err)
		assert.Equal(t, "Manual", got.Category)
		assert.Equal(t, int32(0), f.classifier.categorizeCalls.Load())
	})

	t.Run("title change recategorizes", func(t *testing.T) {
		title := "renamed"
		got, err := f.svc.Update(ctx, "1", domain.BookmarkPatch{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Cat-renamed", got.Category)
		assert.Equal(t, int32(1), f.classifier.categorizeCalls.Load())

		stored, err := f.store.Get(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, got, stored)
	})

	t.Run("explicit category wins over recategorization", func(t *testing.T) {
		u := "https://example.com/moved"
		cat := "Pinned"
		got, err := f.svc.Update(ctx, "1", domain.BookmarkPatch{URL: &u, Category: &cat})
		require.NoError(t, err)
		assert.Equal(t, "Pinned", got.Category)
		assert.Equal(t, u, got.URL)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := f.svc.Update(ctx, "nope", domain.BookmarkPatch{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateURLRefreshesContent(t *testing.T) {
	ctx := context.Background()
	old := bm("1", "page", 1)
	old.Content = "old page text"
	moved := "https://example.com/moved"

	t.Run("without fetcher", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.Save(ctx, old))

		got, err := f.svc.Update(ctx, "1", domain.BookmarkPatch{URL: &moved})
		require.NoError(t, err)
		assert.Empty(t, got.Content)
		assert.Equal(t, moved, got.URL)
	})

	t.Run("with fetcher", func(t *testing.T) {
		fetcher := &stubFetcher{text: "new page text"}
		f := newFixture(t, WithFetcher(fetcher))
		require.NoError(t, f.store.Save(ctx, old))

		got, err := f.svc.Update(ctx, "1", domain.BookmarkPatch{URL: &moved})
		require.NoError(t, err)
		assert.Equal(t, "new page text", got.Content)
		assert.Equal(t, int32(1), fetcher.calls.Load())
	})

	t.Run("title change keeps content", func(t *testing.T) {
		fetcher := &stubFetcher{text: "unused"}
		f := newFixture(t, WithFetcher(fetcher))
		require.NoError(t, f.store.Save(ctx, old))

		title := "renamed"
		got, err := f.svc.Update(ctx, "1", domain.BookmarkPatch{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "old page text", got.Content)
		assert.Zero(t, fetcher.calls.Load())
	})
}

func TestArchiveRestoreRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	original := bm("1", "keep me", 1).WithClassification("Technology", []string{"go"})
	require.NoError(t, f.store.Save(ctx, original))

	archived, err := f.svc.Archive(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, archived.ArchivedAt)
	assert.True(t, archived.ArchivedAt.Equal(testNow))

	restored, err := f.svc.Restore(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, original, restored)

	_, err = f.svc.Archive(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchiveBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.SaveMany(ctx, []domain.Bookmark{bm("1", "a", 1), bm("2", "b", 2), bm("3", "c", 3)}))
	_, err := f.svc.Archive(ctx, "3")
	require.NoError(t, err)

	n, err := f.svc.ArchiveBatch(ctx, []string{"1", "2", "3", "ghost", "1"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	active, _ := f.svc.List(ctx)
	assert.Empty(t, active)
	archived, _ := f.svc.ListArchived(ctx)
	assert.Len(t, archived, 3)
}

func TestArchiveStale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	old := testNow.Add(-200 * 24 * time.Hour).UnixMilli()
	recent := testNow.Add(-10 * 24 * time.Hour).UnixMilli()
	require.NoError(t, f.store.SaveMany(ctx, []domain.Bookmark{
		bm("old", "old", old),
		bm("recent", "recent", recent),
		bm("undated", "undated", 0),
	}))

	n, err := f.svc.ArchiveStale(ctx, 180*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.store.Get(ctx, "old")
	require.NoError(t, err)
	assert.True(t, got.IsArchived())

	active, _ := f.svc.List(ctx)
	assert.Len(t, active, 2)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, bm("1", "a", 1)))

	require.NoError(t, f.svc.Delete(ctx, "1"))
	assert.ErrorIs(t, f.svc.Delete(ctx, "1"), ErrNotFound)
	assert.True(t, errors.Is(f.svc.Delete(ctx, "1"), store.ErrNotFound))
}

func TestWithRealPipeline(t *testing.T) {
	p := pipeline.New(llm.NewKeywordGenerator(), logger.Nop())
	svc := New(memory.New(), p, logger.Nop())

	out, err := svc.CategorizeAll(context.Background(), []domain.Bookmark{
		{ID: "1", Title: "chi router", URL: "https://github.com/go-chi/chi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Technology", out[0].Category)
	assert.LessOrEqual(t, len(out[0].Tags), domain.MaxTags)
}
