package domain

import (
	"reflect"
	"testing"
	"time"
)

func sampleBookmark() Bookmark {
	return Bookmark{
		ID:        "42",
		Title:     "Go Proverbs",
		URL:       "https://go-proverbs.github.io/",
		Category:  "Technology",
		Tags:      []string{"go", "proverbs"},
		DateAdded: 1700000000000,
	}
}

func TestArchiveRestoreRoundTrip(t *testing.T) {
	original := sampleBookmark()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	archived := original.Archive(at)
	if !archived.IsArchived() {
		t.Fatal("Archive() should set ArchivedAt")
	}
	if !archived.ArchivedAt.Equal(at) {
		t.Errorf("ArchivedAt = %v, want %v", archived.ArchivedAt, at)
	}
	if original.IsArchived() {
		t.Error("Archive() must not mutate the receiver")
	}

	restored := archived.Restore()
	if restored.IsArchived() {
		t.Error("Restore() should clear ArchivedAt")
	}
	if !reflect.DeepEqual(restored, original) {
		t.Errorf("round trip changed the bookmark:\n got %+v\nwant %+v", restored, original)
	}
}

func TestWithClassification(t *testing.T) {
	tests := []struct {
		name     string
		tags     []string
		wantTags int
	}{
		{name: "nil tags become empty", tags: nil, wantTags: 0},
		{name: "under the cap", tags: []string{"a", "b"}, wantTags: 2},
		{name: "truncated to five", tags: []string{"a", "b", "c", "d", "e", "f"}, wantTags: MaxTags},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sampleBookmark().WithClassification("News", tt.tags)
			if got.Category != "News" {
				t.Errorf("Category = %q, want News", got.Category)
			}
			if got.Tags == nil {
				t.Fatal("Tags should never be nil")
			}
			if len(got.Tags) != tt.wantTags {
				t.Errorf("len(Tags) = %d, want %d", len(got.Tags), tt.wantTags)
			}
		})
	}
}

func TestUncategorized(t *testing.T) {
	got := sampleBookmark().Uncategorized()
	if got.Category != Uncategorized {
		t.Errorf("Category = %q, want %q", got.Category, Uncategorized)
	}
	if len(got.Tags) != 0 {
		t.Errorf("Tags = %v, want empty", got.Tags)
	}
	if got.Title != "Go Proverbs" {
		t.Errorf("Title changed to %q", got.Title)
	}
}

func TestCloneIsDeep(t *testing.T) {
	b := sampleBookmark()
	c := b.Clone()
	c.Tags[0] = "changed"
	if b.Tags[0] != "go" {
		t.Error("Clone() shares the tag slice")
	}
}

func TestBookmarkPatchApply(t *testing.T) {
	title := "Effective Go"
	sameURL := "https://go-proverbs.github.io/"
	category := "  Education "
	tags := []string{"docs"}

	tests := []struct {
		name          string
		patch         BookmarkPatch
		wantRecat     bool
		wantTitle     string
		wantCategory  string
		wantTagsCount int
	}{
		{
			name:          "title change triggers recategorization",
			patch:         BookmarkPatch{Title: &title},
			wantRecat:     true,
			wantTitle:     title,
			wantCategory:  "Technology",
			wantTagsCount: 2,
		},
		{
			name:          "same url is not a change",
			patch:         BookmarkPatch{URL: &sameURL},
			wantRecat:     false,
			wantTitle:     "Go Proverbs",
			wantCategory:  "Technology",
			wantTagsCount: 2,
		},
		{
			name:          "manual category and tags",
			patch:         BookmarkPatch{Category: &category, Tags: &tags},
			wantRecat:     false,
			wantTitle:     "Go Proverbs",
			wantCategory:  "Education",
			wantTagsCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, recat := tt.patch.Apply(sampleBookmark())
			if recat != tt.wantRecat {
				t.Errorf("recategorize = %v, want %v", recat, tt.wantRecat)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", got.Category, tt.wantCategory)
			}
			if len(got.Tags) != tt.wantTagsCount {
				t.Errorf("len(Tags) = %d, want %d", len(got.Tags), tt.wantTagsCount)
			}
		})
	}
}

func TestBookmarkPatchURLDropsContent(t *testing.T) {
	b := sampleBookmark()
	b.Content = "text of the old page"

	title := "Go Proverbs, renamed"
	if got, _ := (BookmarkPatch{Title: &title}).Apply(b); got.Content != b.Content {
		t.Errorf("title change should keep Content, got %q", got.Content)
	}

	moved := "https://go.dev/blog"
	got, recat := BookmarkPatch{URL: &moved}.Apply(b)
	if !recat {
		t.Error("url change should trigger recategorization")
	}
	if got.Content != "" {
		t.Errorf("Content = %q, want empty after url change", got.Content)
	}
}

func TestDefaultCategories(t *testing.T) {
	cats := DefaultCategories()
	if len(cats) != 10 {
		t.Fatalf("len(DefaultCategories()) = %d, want 10", len(cats))
	}
	if cats[0].Name != "Technology" || cats[9].Name != Uncategorized {
		t.Errorf("unexpected order: first=%q last=%q", cats[0].Name, cats[9].Name)
	}

	cats[0].Name = "mutated"
	if DefaultCategories()[0].Name != "Technology" {
		t.Error("DefaultCategories() must return a copy")
	}
}

func TestCategorySameName(t *testing.T) {
	c := Category{Name: "Social Media"}
	if !c.SameName(" social media ") {
		t.Error("SameName() should ignore case and surrounding spaces")
	}
	if c.SameName("Social") {
		t.Error("SameName() matched a different name")
	}
}

func TestNormalized(t *testing.T) {
	b := sampleBookmark()
	b.Category = " "
	b.Tags = nil

	got := b.Normalized()
	if got.Category != Uncategorized {
		t.Errorf("Category = %q, want %q", got.Category, Uncategorized)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty non-nil", got.Tags)
	}

	kept := sampleBookmark().Normalized()
	if !reflect.DeepEqual(kept, sampleBookmark()) {
		t.Errorf("valid bookmark changed:\n got %+v\nwant %+v", kept, sampleBookmark())
	}
}

func TestCloneKeepsEmptyTags(t *testing.T) {
	b := sampleBookmark()
	b.Tags = []string{}
	if got := b.Clone(); got.Tags == nil {
		t.Error("Clone() turned empty tags into nil")
	}
}
