package rss_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hackline/internal/domain"
	"hackline/internal/rss"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Example Feed</title>
<link>https://feed.example</link>
<item>
	<title>First post</title>
	<link>https://feed.example/first</link>
	<author>alice@example.com (Alice)</author>
</item>
<item>
	<title>No link post</title>
</item>
<item>
	<title>Second post</title>
	<link>https://feed.example/second</link>
</item>
<item>
	<title>Third post</title>
	<link>https://feed.example/third</link>
</item>
</channel>
</rss>`

type stubSubmitter struct {
	drafts  []domain.StoryDraft
	failURL string
}

func (s *stubSubmitter) AddStory(
	_ context.Context,
	_ *domain.User,
	list *domain.StoryList,
	draft domain.StoryDraft,
) (*domain.Story, error) {
	if draft.URL == s.failURL {
		return nil, errors.New("server rejected story")
	}

	s.drafts = append(s.drafts, draft)

	story := domain.Story{
		StoryID: fmt.Sprintf("sid-%d", len(s.drafts)),
		Author:  draft.Author,
		Title:   draft.Title,
		URL:     draft.URL,
	}
	list.Prepend(story)

	return &story, nil
}

func serveFeed(t *testing.T) string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, feedXML)
	}))
	t.Cleanup(server.Close)

	return server.URL
}

func TestImportFeedSubmitsItems(t *testing.T) {
	stub := &stubSubmitter{}
	importer := rss.NewImporter(stub, slog.Default())

	user := &domain.User{Username: "bob", Token: "tok-123"}
	list := &domain.StoryList{}

	stories, err := importer.ImportFeed(t.Context(), user, list, serveFeed(t), 0)
	if err != nil {
		t.Fatalf("import feed: %v", err)
	}

	if got := len(stories); got != 3 {
		t.Fatalf("expected 3 submitted stories, got %d", got)
	}

	if stub.drafts[0].Title != "First post" || stub.drafts[0].URL != "https://feed.example/first" {
		t.Fatalf("unexpected first draft: %+v", stub.drafts[0])
	}

	if !strings.Contains(stub.drafts[0].Author, "Alice") {
		t.Fatalf("expected item author to be used, got %q", stub.drafts[0].Author)
	}

	if stub.drafts[1].Author != "Example Feed" {
		t.Fatalf("expected feed title as fallback author, got %q", stub.drafts[1].Author)
	}

	if got := len(list.Stories); got != 3 {
		t.Fatalf("expected list to receive 3 stories, got %d", got)
	}
}

func TestImportFeedHonorsMaxItems(t *testing.T) {
	stub := &stubSubmitter{}
	importer := rss.NewImporter(stub, slog.Default())

	stories, err := importer.ImportFeed(
		t.Context(),
		&domain.User{Username: "bob"},
		&domain.StoryList{},
		serveFeed(t),
		1,
	)
	if err != nil {
		t.Fatalf("import feed: %v", err)
	}

	if got := len(stories); got != 1 {
		t.Fatalf("expected exactly 1 story, got %d", got)
	}
}

func TestImportFeedContinuesPastFailures(t *testing.T) {
	stub := &stubSubmitter{failURL: "https://feed.example/first"}
	importer := rss.NewImporter(stub, slog.Default())

	stories, err := importer.ImportFeed(
		t.Context(),
		&domain.User{Username: "bob"},
		&domain.StoryList{},
		serveFeed(t),
		0,
	)
	if err == nil {
		t.Fatalf("expected the rejected item to surface as an error")
	}

	if got := len(stories); got != 2 {
		t.Fatalf("expected the remaining items to be submitted, got %d", got)
	}
}
