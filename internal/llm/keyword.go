package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/MrSnakeDoc/tidymark/internal/domain"
)

// KeywordGenerator is the offline stand-in for the real model. It answers
// with JSON text shaped after what the prompt asks for, so callers go through
// the same extraction path as with a real model.
type KeywordGenerator struct{}

// NewKeywordGenerator returns a KeywordGenerator.
func NewKeywordGenerator() *KeywordGenerator {
	return &KeywordGenerator{}
}

type keywordRule struct {
	titleWords []string
	urlWords   []string
	category   string
	tags       []string
}

var keywordRules = []keywordRule{
	{
		titleWords: []string{"javascript", "programming", "golang", "python"},
		urlWords:   []string{"github", "stackoverflow", "go.dev"},
		category:   "Technology",
		tags:       []string{"Programming", "Web Development", "Coding"},
	},
	{
		titleWords: []string{"science", "physics", "course", "tutorial"},
		urlWords:   []string{"nasa", "nature", "coursera", "wikipedia"},
		category:   "Education",
		tags:       []string{"Research", "Academic", "Learning"},
	},
	{
		titleWords: []string{"news"},
		urlWords:   []string{"news", "bbc", "cnn", "reuters"},
		category:   "News",
		tags:       []string{"Media", "Journalism", "Updates"},
	},
}

var keywordSuggestions = []domain.Suggestion{
	{Title: "Introduction to AI", URL: "https://example.com/ai-intro", Reason: "Based on your Technology bookmarks"},
	{Title: "Latest Space Discoveries", URL: "https://example.com/space-news", Reason: "Based on your Education bookmarks"},
	{Title: "Web Development Trends", URL: "https://example.com/webdev-trends", Reason: "Based on your recent browsing"},
}

// Generate never fails.
func (g *KeywordGenerator) Generate(_ context.Context, prompt string) (string, error) {
	var out any
	switch {
	case strings.Contains(prompt, "JSON array") && strings.Contains(prompt, `"reason"`):
		out = keywordSuggestions
	case strings.Contains(prompt, "JSON array") && strings.Contains(prompt, `"description"`):
		out = domain.DefaultCategories()
	default:
		title, link := promptField(prompt, "Title:"), promptField(prompt, "URL:")
		category, tags := classify(strings.ToLower(title), strings.ToLower(link))
		out = map[string]any{"category": category, "tags": tags}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func classify(title, link string) (string, []string) {
	for _, rule := range keywordRules {
		if containsAny(title, rule.titleWords) || containsAny(link, rule.urlWords) {
			return rule.category, rule.tags
		}
	}
	return domain.Uncategorized, []string{"Information", "Resource", "Reference"}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// promptField returns the rest of the first line starting with label.
func promptField(prompt, label string) string {
	for _, line := range strings.Split(prompt, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, label) {
			return strings.TrimSpace(strings.TrimPrefix(line, label))
		}
	}
	return ""
}
