package yamlimport

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
)

// Item is a bookmark read from the file together with its group name.
type Item struct {
	Bookmark domain.Bookmark
	Group    string
}

// Map flattens file into items in file order (keys of one mapping are
// sorted). Entries without href are skipped and a URL seen twice is kept
// once. dateAdded is stamped with now.
func Map(file File, now time.Time) ([]Item, error) {
	items := make([]Item, 0)
	seen := make(map[string]bool)
	added := now.UnixMilli()

	for _, group := range file {
		for _, groupName := range sortedKeys(group) {
			for _, bookmarkMap := range group[groupName] {
				for _, name := range sortedKeys(bookmarkMap) {
					entries := bookmarkMap[name]
					if len(entries) == 0 {
						continue
					}
					entry := entries[0]
					href := strings.TrimSpace(entry.Href)
					if href == "" || seen[href] {
						continue
					}
					seen[href] = true

					title := strings.TrimSpace(name)
					if title == "" {
						title = entry.Abbr
					}
					items = append(items, Item{
						Bookmark: domain.Bookmark{
							ID:        BookmarkID(href),
							Title:     title,
							URL:       href,
							Content:   strings.TrimSpace(entry.Description),
							DateAdded: added,
						},
						Group: strings.TrimSpace(groupName),
					})
				}
			}
		}
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no valid bookmarks found in file")
	}
	return items, nil
}

// Bookmarks returns the bookmarks of items and a map from id to group name.
func Bookmarks(items []Item) ([]domain.Bookmark, map[string]string) {
	bookmarks := make([]domain.Bookmark, len(items))
	groups := make(map[string]string, len(items))
	for i, it := range items {
		bookmarks[i] = it.Bookmark
		if it.Group != "" {
			groups[it.Bookmark.ID] = it.Group
		}
	}
	return bookmarks, groups
}

// BookmarkID is the first 16 hex characters of the SHA-256 of url, so the
// same URL always maps to the same id.
func BookmarkID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])[:16]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
