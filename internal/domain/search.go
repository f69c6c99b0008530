package domain

import (
	"math"
	"net/url"
	"sort"
	"strings"
	"unicode"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier is better)
	ScorePositionBonus = 10.0

	// Minimum share of query characters found in a token for a fuzzy hit
	fuzzyThreshold = 0.75
)

// Field weights: a hit in the title beats the same hit in a tag.
const (
	weightTitle    = 1.0
	weightHost     = 0.8
	weightTag      = 0.6
	weightCategory = 0.4
)

// Match is a bookmark with its search score.
type Match struct {
	Bookmark Bookmark `json:"bookmark"`
	Score    float64  `json:"score"`
}

type searchField struct {
	tokens []string
	weight float64
}

// ScoreBookmark scores b against a free-text query. Every query word must
// hit the title, host, tags or category, otherwise the score is 0.
func ScoreBookmark(query string, b Bookmark) float64 {
	query = strings.ToLower(strings.TrimSpace(query))
	words := tokenize(query)
	if len(words) == 0 {
		return 0.0
	}

	fields := searchFields(b)
	var total float64
	for _, w := range words {
		best := 0.0
		for _, f := range fields {
			if s := scoreTokens(w, f.tokens) * f.weight; s > best {
				best = s
			}
		}
		if best == 0.0 {
			return 0.0
		}
		total += best
	}

	// Whole title typed verbatim
	if strings.ToLower(strings.TrimSpace(b.Title)) == query {
		total += ScoreExactMatch
	}
	return total
}

// RankBookmarks returns the bookmarks matching query, best first. Ties keep
// the input order.
func RankBookmarks(query string, bookmarks []Bookmark) []Match {
	matches := make([]Match, 0, len(bookmarks))
	for _, b := range bookmarks {
		score := ScoreBookmark(query, b)
		if score == 0.0 {
			continue
		}
		matches = append(matches, Match{Bookmark: b, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func searchFields(b Bookmark) []searchField {
	fields := []searchField{
		{tokens: tokenize(b.Title), weight: weightTitle},
		{tokens: hostFragments(b.URL), weight: weightHost},
		{tokens: tokenize(b.Category), weight: weightCategory},
	}
	for _, tag := range b.Tags {
		fields = append(fields, searchField{tokens: tokenize(tag), weight: weightTag})
	}
	return fields
}

// hostFragments splits the URL host on dots, dropping "www" and the port.
func hostFragments(raw string) []string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Hostname() == "" {
		return nil
	}
	parts := strings.Split(strings.ToLower(u.Hostname()), ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" && p != "www" {
			out = append(out, p)
		}
	}
	return out
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func scoreTokens(word string, tokens []string) float64 {
	best := 0.0
	for i, tok := range tokens {
		if s := scoreFragment(word, tok, i); s > best {
			best = s
		}
	}
	return best
}

// scoreFragment scores a single query word against a token
func scoreFragment(word, token string, position int) float64 {
	if word == "" || token == "" {
		return 0.0
	}

	// Exact match
	if word == token {
		return ScoreExactMatch + calculatePositionBonus(position)
	}

	// Prefix match
	if strings.HasPrefix(token, word) {
		return ScorePrefixMatch + calculatePositionBonus(position)
	}

	// Substring match
	if index := strings.Index(token, word); index >= 0 {
		// Earlier substring matches get higher score
		substringBonus := ScorePositionBonus * (1.0 - float64(index)/float64(len(token)))
		return ScoreSubstringMatch + substringBonus
	}

	if similarity := calculateSimilarity(word, token); similarity >= fuzzyThreshold {
		return ScoreFuzzyMatch * similarity
	}

	return 0.0
}

// calculatePositionBonus gives bonus for earlier positions
func calculatePositionBonus(position int) float64 {
	return ScorePositionBonus * math.Exp(-float64(position)*0.3)
}

// calculateSimilarity is 1 - levenshtein(s1, s2) / max rune length.
func calculateSimilarity(s1, s2 string) float64 {
	a, b := []rune(s1), []rune(s2)
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(max(len(a), len(b)))
}

// levenshtein uses a single row of the edit matrix.
func levenshtein(a, b []rune) int {
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			next := min(row[j]+1, row[j-1]+1, diag+cost)
			diag, row[j] = row[j], next
		}
	}
	return row[len(b)]
}
