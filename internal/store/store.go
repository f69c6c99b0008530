// Package store defines where bookmarks live. Backends are in subpackages.
package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
)

// ErrNotFound is returned when an id is not present in the expected set.
var ErrNotFound = errors.New("bookmark not found")

// Store keeps two disjoint sets of bookmarks: active and archived.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save inserts or replaces b. It lands in the archived set when
	// b.ArchivedAt is set and in the active set otherwise.
	Save(ctx context.Context, b domain.Bookmark) error
	SaveMany(ctx context.Context, bookmarks []domain.Bookmark) error

	// Get looks the id up in both sets.
	Get(ctx context.Context, id string) (domain.Bookmark, error)

	// List and ListArchived return newest first (see SortNewestFirst).
	List(ctx context.Context) ([]domain.Bookmark, error)
	ListArchived(ctx context.Context) ([]domain.Bookmark, error)

	Delete(ctx context.Context, id string) error

	// Archive moves an active bookmark to the archived set, stamped with at.
	// Archiving an already archived bookmark returns it unchanged.
	Archive(ctx context.Context, id string, at time.Time) (domain.Bookmark, error)
	// Restore moves an archived bookmark back to the active set.
	// Restoring an active bookmark returns it unchanged.
	Restore(ctx context.Context, id string) (domain.Bookmark, error)

	// Replace swaps the whole content for the given sets.
	Replace(ctx context.Context, active, archived []domain.Bookmark) error
	Reset(ctx context.Context) error

	Ping(ctx context.Context) error
}

// SortNewestFirst orders by DateAdded descending, then by id.
func SortNewestFirst(bookmarks []domain.Bookmark) {
	sort.SliceStable(bookmarks, func(i, j int) bool {
		if bookmarks[i].DateAdded != bookmarks[j].DateAdded {
			return bookmarks[i].DateAdded > bookmarks[j].DateAdded
		}
		return bookmarks[i].ID < bookmarks[j].ID
	})
}

// Partition prepares the two sets handed to Replace: active bookmarks lose
// any archive stamp, archived ones without a stamp get now, and an id present
// in both sets stays archived only. Inputs are not modified.
func Partition(active, archived []domain.Bookmark, now time.Time) ([]domain.Bookmark, []domain.Bookmark) {
	archivedIDs := make(map[string]bool, len(archived))
	outArchived := make([]domain.Bookmark, 0, len(archived))
	for _, b := range archived {
		if b.ArchivedAt == nil {
			b = b.Archive(now)
		} else {
			b = b.Clone()
		}
		archivedIDs[b.ID] = true
		outArchived = append(outArchived, b)
	}

	outActive := make([]domain.Bookmark, 0, len(active))
	for _, b := range active {
		if archivedIDs[b.ID] {
			continue
		}
		outActive = append(outActive, b.Restore())
	}
	return outActive, outArchived
}
