package redis

const (
	// KeyPrefixBookmark is the prefix for bookmark values
	KeyPrefixBookmark = "tidymark:bookmark:"
	// KeyActiveBookmarks is the set of active bookmark IDs
	KeyActiveBookmarks = "tidymark:bookmarks:active"
	// KeyArchivedBookmarks is the set of archived bookmark IDs
	KeyArchivedBookmarks = "tidymark:bookmarks:archived"
)

// BookmarkKey returns the Redis key for a bookmark
func BookmarkKey(id string) string {
	return KeyPrefixBookmark + id
}

// setKey returns the id set a bookmark belongs to
func setKey(archived bool) string {
	if archived {
		return KeyArchivedBookmarks
	}
	return KeyActiveBookmarks
}
