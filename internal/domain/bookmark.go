package domain

import (
	"cmp"
	"strings"
	"time"
)

const (
	// Uncategorized is the category every bookmark falls back to.
	Uncategorized = "Uncategorized"

	// MaxTags caps the tags kept on a bookmark.
	MaxTags = 5
)

// Bookmark is a single saved page as seen by the extension.
//
// The struct is passed around by value: the categorization pipeline and the
// stores never share a Bookmark, they copy it (see Clone).
type Bookmark struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is opaque and assigned by the caller (browser bookmark id, or a
	// URL hash for YAML imports).
	ID string `json:"id"`

	Title string `json:"title"`
	URL   string `json:"url"`

	// Content is optional page text, only used to help categorization.
	Content string `json:"content,omitempty"`

	// ─────────────────────────────
	// Organization
	// ─────────────────────────────

	Category string   `json:"category"`
	Tags     []string `json:"tags"`

	// ─────────────────────────────
	// Lifecycle
	// ─────────────────────────────

	// DateAdded is milliseconds since the Unix epoch, the unit Chrome uses.
	DateAdded int64 `json:"dateAdded,omitempty"`

	// ArchivedAt is set only while the bookmark sits in the archived set.
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
}

// AddedAt returns DateAdded as a time.Time (zero when unknown).
func (b Bookmark) AddedAt() time.Time {
	if b.DateAdded == 0 {
		return time.Time{}
	}
	return time.UnixMilli(b.DateAdded)
}

// IsArchived reports whether the bookmark carries an archive stamp.
func (b Bookmark) IsArchived() bool {
	return b.ArchivedAt != nil
}

// Clone returns a deep copy.
func (b Bookmark) Clone() Bookmark {
	if b.Tags != nil {
		b.Tags = append(make([]string, 0, len(b.Tags)), b.Tags...)
	}
	if b.ArchivedAt != nil {
		at := *b.ArchivedAt
		b.ArchivedAt = &at
	}
	return b
}

// WithClassification returns a copy carrying the given category and at most
// MaxTags tags. A nil tag slice is normalised to an empty one.
func (b Bookmark) WithClassification(category string, tags []string) Bookmark {
	out := b.Clone()
	out.Category = category
	if len(tags) > MaxTags {
		tags = tags[:MaxTags]
	}
	out.Tags = append(make([]string, 0, len(tags)), tags...)
	return out
}

// Uncategorized returns the fallback classification of b.
func (b Bookmark) Uncategorized() Bookmark {
	return b.WithClassification(Uncategorized, nil)
}

// Normalized returns a copy that satisfies the stored-bookmark rules: a
// non-empty category (Uncategorized by default) and a non-nil tag slice of
// at most MaxTags entries.
func (b Bookmark) Normalized() Bookmark {
	return b.WithClassification(cmp.Or(strings.TrimSpace(b.Category), Uncategorized), b.Tags)
}

// Archive returns a copy stamped with at.
func (b Bookmark) Archive(at time.Time) Bookmark {
	out := b.Clone()
	out.ArchivedAt = &at
	return out
}

// Restore returns a copy without the archive stamp.
func (b Bookmark) Restore() Bookmark {
	out := b.Clone()
	out.ArchivedAt = nil
	return out
}

// BookmarkPatch holds the fields an update may change. Nil means untouched.
type BookmarkPatch struct {
	Title    *string   `json:"title,omitempty"`
	URL      *string   `json:"url,omitempty"`
	Category *string   `json:"category,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
}

// Apply merges p into b and reports whether title or url changed, which
// calls for a new categorization. A new url drops the stored Content.
func (p BookmarkPatch) Apply(b Bookmark) (Bookmark, bool) {
	out := b.Clone()
	recategorize := false
	if p.Title != nil && *p.Title != "" && *p.Title != out.Title {
		out.Title = *p.Title
		recategorize = true
	}
	if p.URL != nil && *p.URL != "" && *p.URL != out.URL {
		out.URL = *p.URL
		// Content described the old page.
		out.Content = ""
		recategorize = true
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) != "" {
		out.Category = strings.TrimSpace(*p.Category)
	}
	if p.Tags != nil {
		out = out.WithClassification(out.Category, *p.Tags)
	}
	return out, recategorize
}
