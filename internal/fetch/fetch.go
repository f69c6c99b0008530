// Package fetch pulls the readable text of a web page.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/MrSnakeDoc/tidymark/internal/utils"
)

const (
	DefaultTimeout    = 10 * time.Second
	DefaultMaxContent = 4000
	userAgent         = "tidymark/1.0 (+bookmark organizer)"
)

// ErrNoContent is returned when a page yields no readable text.
var ErrNoContent = errors.New("no readable content")

// Fetcher downloads pages and extracts their main text.
type Fetcher struct {
	client     *http.Client
	maxContent int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default client (whose Timeout bounds a fetch).
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// New builds a Fetcher. Non-positive arguments select the defaults.
func New(timeout time.Duration, maxContent int, opts ...Option) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxContent <= 0 {
		maxContent = DefaultMaxContent
	}
	f := &Fetcher{
		client:     &http.Client{Timeout: timeout},
		maxContent: maxContent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Text returns at most maxContent characters of the page's readable text,
// falling back to the article title when the body is empty.
func (f *Fetcher) Text(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("fetch %q: unsupported url", pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("fetch %q: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %q: %w", pageURL, err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %q: status %d", pageURL, resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("fetch %q: extract: %w", pageURL, err)
	}

	text := strings.TrimSpace(collapseSpace(article.TextContent))
	if text == "" {
		text = strings.TrimSpace(article.Title)
	}
	if text == "" {
		return "", fmt.Errorf("fetch %q: %w", pageURL, ErrNoContent)
	}
	return truncate(text, f.maxContent), nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
