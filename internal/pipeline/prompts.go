package pipeline

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
)

const maxPromptContent = 1000

func categorizePrompt(b domain.Bookmark) string {
	var sb strings.Builder
	sb.WriteString("Analyze this bookmark and assign it one category and a few tags.\n\n")
	fmt.Fprintf(&sb, "Title: %s\n", b.Title)
	fmt.Fprintf(&sb, "URL: %s\n", b.URL)
	if b.Content != "" {
		fmt.Fprintf(&sb, "Content: %s...\n", truncateRunes(b.Content, maxPromptContent))
	}
	sb.WriteString("\nSuggested categories (use another one if none fits): ")
	sb.WriteString(strings.Join(domain.DefaultCategoryNames(), ", "))
	sb.WriteString("\n\nRespond with strict JSON only, using this structure:\n")
	sb.WriteString(`{"category": "string", "tags": ["tag1", "tag2"]}` + "\n")
	fmt.Fprintf(&sb, "Use at most %d tags.\n", domain.MaxTags)
	return sb.String()
}

func suggestionsPrompt(recent []domain.Bookmark) string {
	var sb strings.Builder
	sb.WriteString("Here are the most recent bookmarks of a user:\n\n")
	for i, b := range recent {
		fmt.Fprintf(&sb, "%d. Title: %s\n   Category: %s\n   Tags: %s\n", i+1, b.Title, b.Category, strings.Join(b.Tags, ", "))
	}
	fmt.Fprintf(&sb, "\nSuggest %d diverse but relevant web pages this user would like to read next.\n", maxSuggestions)
	sb.WriteString("Respond with exactly a JSON array of objects, nothing else:\n")
	sb.WriteString(`[{"title": "string", "url": "https://...", "reason": "why it is relevant"}]`)
	sb.WriteString("\n")
	return sb.String()
}

func categoriesPrompt(existing []string, sample []domain.Bookmark) string {
	var sb strings.Builder
	sb.WriteString("Propose a category taxonomy for organizing the bookmarks below.\n\n")
	if len(existing) > 0 {
		fmt.Fprintf(&sb, "Categories already in use: %s\n\n", strings.Join(existing, ", "))
	}
	sb.WriteString("Bookmarks:\n")
	for i, b := range sample {
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, b.Title, b.URL)
	}
	sb.WriteString("\nReturn 10 to 15 categories that cover the existing ones plus useful new ones.\n")
	sb.WriteString("Respond with exactly a JSON array of objects, nothing else:\n")
	sb.WriteString(`[{"name": "string", "description": "one line"}]`)
	sb.WriteString("\n")
	return sb.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
