package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
	"github.com/MrSnakeDoc/tidymark/internal/store"
	"github.com/MrSnakeDoc/tidymark/internal/store/storetest"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return openMemory(t) })
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tidymark.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, domain.Bookmark{
		ID:        "1",
		Title:     "SQLite",
		URL:       "https://sqlite.org",
		Category:  "Technology",
		Tags:      []string{"database"},
		DateAdded: 1700000000000,
	}))
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "SQLite", got.Title)
	assert.Equal(t, []string{"database"}, got.Tags)
	assert.Equal(t, int64(1700000000000), got.DateAdded)
}

func TestNilTagsRoundTrip(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, domain.Bookmark{ID: "1", Title: "untagged"}))
	got, err := s.Get(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, got.Tags)
}

func TestSaveManyIsAtomic(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	err := s.SaveMany(ctx, []domain.Bookmark{{ID: "1"}, {ID: ""}})
	require.Error(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
