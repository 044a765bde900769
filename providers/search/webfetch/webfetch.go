// Package webfetch retrieves web pages and converts them to Markdown for use
// in deep-research prompts.
package webfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/contentalchemy/alchemy/internal/utils"
)

const (
	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 30 * time.Second
	// MaxBodySize caps the response body (5MB).
	MaxBodySize = 5 * 1024 * 1024

	userAgent = "alchemy-webfetch/1.0"
)

// Fetcher fetches pages over HTTP and converts them to Markdown.
type Fetcher struct {
	client *http.Client
}

// New returns a Fetcher with a timeout-bounded HTTP client.
func New() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: DefaultTimeout}}
}

// WithHttpClient replaces the default [http.Client].
func (f *Fetcher) WithHttpClient(httpClient *http.Client) *Fetcher {
	f.client = httpClient
	return f
}

// Fetch retrieves the page at pageURL and returns its content as Markdown.
// Partial URLs are normalized by prepending https://. The body is capped at
// [MaxBodySize] bytes.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
		pageURL = "https://" + pageURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer utils.CloseWithLog(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, pageURL)
	}

	htmlBytes, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	markdown, err := htmltomarkdown.ConvertString(string(htmlBytes))
	if err != nil {
		return "", fmt.Errorf("converting HTML to Markdown: %w", err)
	}
	return markdown, nil
}
