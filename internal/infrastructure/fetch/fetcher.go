package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/armenabnousi/NewsCollector/internal/domain"
	"github.com/armenabnousi/NewsCollector/internal/ports"
)

// TextFetcher resolves a source URL into plain text. Page-mode sources get
// their HTML stripped; feed-mode sources get their entries flattened.
type TextFetcher struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.ContentFetcher = (*TextFetcher)(nil)

// NewTextFetcher wires an HTTP client; nil defaults to a 20s timeout.
func NewTextFetcher(client *http.Client, logger *slog.Logger) *TextFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &TextFetcher{client: client, logger: logger}
}

// FetchText dispatches on the source's fetch mode.
func (f *TextFetcher) FetchText(ctx context.Context, src domain.Source) (string, error) {
	if src.IsFeed {
		return f.fetchFeed(ctx, src.URL)
	}
	return f.fetchPage(ctx, src.URL)
}

// fetchPage downloads an HTML page and returns the body text with
// whitespace collapsed.
func (f *TextFetcher) fetchPage(ctx context.Context, pageURL string) (string, error) {
	resp, err := f.get(ctx, pageURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}

	doc.Find("script, style, noscript").Remove()
	text := doc.Find("body").Text()
	return strings.Join(strings.Fields(text), " "), nil
}

func (f *TextFetcher) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "NewsCollector/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}

	return resp, nil
}
