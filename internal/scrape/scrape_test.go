package scrape_test

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"hackline/internal/scrape"
)

func TestPageTitlePrefersOpenGraph(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head>
			<meta property="og:title" content=" OG Title ">
			<title>Document Title</title>
		</head><body></body></html>`)
	}))
	t.Cleanup(server.Close)

	fetcher := scrape.NewTitleFetcher(slog.Default())

	title, err := fetcher.PageTitle(t.Context(), server.URL)
	if err != nil {
		t.Fatalf("page title: %v", err)
	}

	if title != "OG Title" {
		t.Fatalf("expected trimmed og:title, got %q", title)
	}
}

func TestPageTitleFallsBackToTitleElement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head><title>  Document Title  </title></head><body></body></html>`)
	}))
	t.Cleanup(server.Close)

	fetcher := scrape.NewTitleFetcher(slog.Default())

	title, err := fetcher.PageTitle(t.Context(), server.URL)
	if err != nil {
		t.Fatalf("page title: %v", err)
	}

	if title != "Document Title" {
		t.Fatalf("expected trimmed title element, got %q", title)
	}
}

func TestPageTitleRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	fetcher := scrape.NewTitleFetcher(slog.Default())

	if _, err := fetcher.PageTitle(t.Context(), server.URL); err == nil {
		t.Fatalf("expected an error for a non-200 response")
	}
}

func TestPageTitleRejectsUntitledPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head></head><body>no title here</body></html>`)
	}))
	t.Cleanup(server.Close)

	fetcher := scrape.NewTitleFetcher(slog.Default())

	if _, err := fetcher.PageTitle(t.Context(), server.URL); err == nil {
		t.Fatalf("expected an error for a page without a title")
	}
}
