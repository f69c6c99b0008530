package redis

import (
	"testing"
	"time"
)

var testTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestBookmarkKey(t *testing.T) {
	if got := BookmarkKey("abc"); got != "tidymark:bookmark:abc" {
		t.Errorf("BookmarkKey() = %q", got)
	}
}

func TestSetKey(t *testing.T) {
	if setKey(false) != KeyActiveBookmarks {
		t.Errorf("setKey(false) = %q", setKey(false))
	}
	if setKey(true) != KeyArchivedBookmarks {
		t.Errorf("setKey(true) = %q", setKey(true))
	}
}
