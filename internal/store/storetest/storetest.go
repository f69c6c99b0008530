// Package storetest is a behavioural suite every store.Store backend runs.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
	"github.com/MrSnakeDoc/tidymark/internal/store"
)

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) store.Store

var archivedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func sample(id string, added int64) domain.Bookmark {
	return domain.Bookmark{
		ID:        id,
		Title:     "Title " + id,
		URL:       "https://example.com/" + id,
		Content:   "content of " + id,
		Category:  "Technology",
		Tags:      []string{"go", "web"},
		DateAdded: added,
	}
}

// Run exercises the store contract.
func Run(t *testing.T, newStore Factory) {
	t.Helper()
	ctx := context.Background()

	t.Run("save and get", func(t *testing.T) {
		s := newStore(t)
		b := sample("1", 1000)
		require.NoError(t, s.Save(ctx, b))

		got, err := s.Get(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, b, got)
	})

	t.Run("save overwrites", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(ctx, sample("1", 1000)))

		updated := sample("1", 1000)
		updated.Category = "News"
		updated.Tags = []string{}
		require.NoError(t, s.Save(ctx, updated))

		got, err := s.Get(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "News", got.Category)
		assert.Empty(t, got.Tags)

		list, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "nope")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveMany(ctx, []domain.Bookmark{
			sample("a", 1000),
			sample("b", 3000),
			sample("c", 2000),
			sample("d", 3000),
		}))

		list, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "d", "c", "a"}, ids(list))
	})

	t.Run("empty lists are not nil", func(t *testing.T) {
		s := newStore(t)
		list, err := s.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)

		archived, err := s.ListArchived(ctx)
		require.NoError(t, err)
		assert.NotNil(t, archived)
		assert.Empty(t, archived)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(ctx, sample("1", 1000)))
		require.NoError(t, s.Delete(ctx, "1"))

		_, err := s.Get(ctx, "1")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "1"), store.ErrNotFound)
	})

	t.Run("archive and restore", func(t *testing.T) {
		s := newStore(t)
		b := sample("1", 1000)
		require.NoError(t, s.Save(ctx, b))

		archived, err := s.Archive(ctx, "1", archivedAt)
		require.NoError(t, err)
		require.NotNil(t, archived.ArchivedAt)
		assert.True(t, archived.ArchivedAt.Equal(archivedAt))

		active, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, active)

		list, err := s.ListArchived(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "1", list[0].ID)

		again, err := s.Archive(ctx, "1", archivedAt.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, again.ArchivedAt.Equal(archivedAt), "archiving twice keeps the first stamp")

		restored, err := s.Restore(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, b, restored)

		archivedList, err := s.ListArchived(ctx)
		require.NoError(t, err)
		assert.Empty(t, archivedList)

		got, err := s.Get(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, b, got)
	})

	t.Run("archive and restore missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Archive(ctx, "nope", archivedAt)
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.Restore(ctx, "nope")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete archived", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(ctx, sample("1", 1000).Archive(archivedAt)))
		require.NoError(t, s.Delete(ctx, "1"))

		archived, err := s.ListArchived(ctx)
		require.NoError(t, err)
		assert.Empty(t, archived)
	})

	t.Run("replace", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(ctx, sample("old", 1000)))

		err := s.Replace(ctx,
			[]domain.Bookmark{sample("a", 2000), sample("both", 1500)},
			[]domain.Bookmark{sample("z", 500), sample("both", 1500).Archive(archivedAt)},
		)
		require.NoError(t, err)

		active, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, ids(active))

		archived, err := s.ListArchived(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"both", "z"}, ids(archived))
		for _, b := range archived {
			assert.NotNil(t, b.ArchivedAt, "archived bookmark %s carries a stamp", b.ID)
		}

		_, err = s.Get(ctx, "old")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("reset", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Save(ctx, sample("1", 1000)))
		require.NoError(t, s.Save(ctx, sample("2", 1000).Archive(archivedAt)))
		require.NoError(t, s.Reset(ctx))

		active, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, active)
		archived, err := s.ListArchived(ctx)
		require.NoError(t, err)
		assert.Empty(t, archived)
	})

	t.Run("ping", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Ping(ctx))
	})
}

func ids(bookmarks []domain.Bookmark) []string {
	out := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		out[i] = b.ID
	}
	return out
}
