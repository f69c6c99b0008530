package pipeline

import (
	"errors"
	"strings"
)

var (
	errNoObject = errors.New("no JSON object found in response")
	errNoArray  = errors.New("no JSON array found in response")
)

// extractObject returns the span from the first '{' to the last '}'.
func extractObject(text string) (string, bool) {
	return extractSpan(text, '{', '}')
}

// extractArray returns the span from the first '[' to the last ']'.
func extractArray(text string) (string, bool) {
	return extractSpan(text, '[', ']')
}

// extractSpan is a best-effort, greedy extraction. It does not balance
// brackets: prose with stray braces before or after the payload is captured
// along with it and then fails JSON parsing.
func extractSpan(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(text, close)
	if end < start {
		return "", false
	}
	return text[start : end+1], true
}
