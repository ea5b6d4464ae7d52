package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/spacesedan/summariser/internal/clients"
	"github.com/spacesedan/summariser/internal/storage"
	"golang.org/x/net/html"
)

// MaxBodyBytes caps how much of a page is read; the summariser never looks
// past the first few chunks anyway.
const MaxBodyBytes = 10 << 20

var ErrUnsupportedURL = errors.New("unsupported url")

type Options struct {
	Timeout time.Duration
	// ExtractHTML pulls the readable article text out of HTML pages instead
	// of summarising raw markup.
	ExtractHTML bool
}

type Fetcher struct {
	client      *http.Client
	extractHTML bool
}

func NewFetcher(opts Options) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		extractHTML: opts.ExtractHTML,
	}
}

// Fetch downloads rawURL and returns its body as text. Non-2xx responses are
// errors. Invalid UTF-8 is dropped.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrUnsupportedURL, rawURL, err)
	}
	if pageURL.Scheme != "http" && pageURL.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme %q", ErrUnsupportedURL, pageURL.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", clients.USER_AGENT)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		slog.Error("[Fetcher] Request failed",
			slog.String("url", rawURL),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: status code %d", rawURL, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rawURL, err)
	}

	slog.Info("[Fetcher] Fetched url",
		slog.String("url", rawURL),
		slog.Int("bytes", len(raw)),
		slog.Duration("elapsed", time.Since(start)))

	text := storage.DecodeText(raw)
	if f.extractHTML && isHTML(resp.Header.Get("Content-Type")) {
		return extractArticle(text, pageURL), nil
	}
	return text, nil
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// extractArticle falls back to the raw page when readability finds nothing.
func extractArticle(page string, pageURL *url.URL) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		slog.Warn("[Fetcher] Failed to parse html, using raw page", slog.String("error", err.Error()))
		return page
	}

	article, err := readability.FromDocument(doc, pageURL)
	if err != nil || strings.TrimSpace(article.TextContent) == "" {
		slog.Warn("[Fetcher] No readable article found, using raw page",
			slog.String("url", pageURL.String()))
		return page
	}
	return strings.TrimSpace(article.TextContent)
}
