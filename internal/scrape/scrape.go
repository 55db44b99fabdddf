// Package scrape extracts display titles from submitted pages so a story can
// be created from a bare URL.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	pageClientTimeout = 20 * time.Second
)

type TitleFetcher struct {
	httpClient *http.Client
	log        *slog.Logger
}

func NewTitleFetcher(log *slog.Logger) *TitleFetcher {
	return &TitleFetcher{
		httpClient: &http.Client{Timeout: pageClientTimeout},
		log:        log,
	}
}

// PageTitle fetches the page and returns its og:title, falling back to the
// <title> element. An empty result is an error; the caller decides on a
// fallback.
func (f *TitleFetcher) PageTitle(ctx context.Context, pageURL string) (string, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return "", errors.New("page URL is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			f.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"pageURL", pageURL,
				"operation", "PageTitle")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("create document from reader: %w", err)
	}

	if content, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
		if title := strings.TrimSpace(content); title != "" {
			return title, nil
		}
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return "", errors.New("page has no usable title")
	}

	return title, nil
}
