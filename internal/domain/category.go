package domain

import "strings"

// Category is an entry of the taxonomy shown by the extension.
type Category struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Custom      bool   `json:"isCustom,omitempty"`
}

// SameName compares category names case-insensitively.
func (c Category) SameName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(name))
}

var defaultCategories = []Category{
	{Name: "Technology", Description: "Tech news, gadgets, software, and digital trends"},
	{Name: "News", Description: "Current events, world news, and headlines"},
	{Name: "Education", Description: "Learning resources, courses, and educational content"},
	{Name: "Entertainment", Description: "Movies, TV shows, music, and other entertainment"},
	{Name: "Finance", Description: "Personal finance, investing, and financial news"},
	{Name: "Health", Description: "Health tips, medical information, and wellness"},
	{Name: "Travel", Description: "Travel destinations, guides, and tips"},
	{Name: "Shopping", Description: "Online stores, products, and shopping guides"},
	{Name: "Social Media", Description: "Social networking sites and content"},
	{Name: Uncategorized, Description: "Bookmarks that don't fit other categories"},
}

// DefaultCategories returns a fresh copy of the built-in catalog, in its
// fixed order.
func DefaultCategories() []Category {
	return append([]Category(nil), defaultCategories...)
}

// DefaultCategoryNames lists the built-in category names in order.
func DefaultCategoryNames() []string {
	names := make([]string, len(defaultCategories))
	for i, c := range defaultCategories {
		names[i] = c.Name
	}
	return names
}
