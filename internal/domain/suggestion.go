package domain

// Suggestion is an external page recommended from the user's bookmarks.
type Suggestion struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Reason string `json:"reason"`
}
