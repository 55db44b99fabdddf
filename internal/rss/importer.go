// Package rss bulk-submits stories from an RSS or Atom feed.
package rss

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/gofeed"

	"hackline/internal/domain"
)

const DefaultMaxItems = 10

// Submitter is the slice of the API client the importer needs.
type Submitter interface {
	AddStory(
		ctx context.Context,
		user *domain.User,
		list *domain.StoryList,
		draft domain.StoryDraft,
	) (*domain.Story, error)
}

type Importer struct {
	submitter Submitter
	libParser *gofeed.Parser
	log       *slog.Logger
}

func NewImporter(submitter Submitter, log *slog.Logger) *Importer {
	return &Importer{
		submitter: submitter,
		libParser: gofeed.NewParser(),
		log:       log,
	}
}

// ImportFeed parses the feed and submits up to maxItems of its entries as
// stories on behalf of the user. Items that fail to submit are skipped and
// reported together; successfully submitted stories are returned in feed
// order.
func (i *Importer) ImportFeed(
	ctx context.Context,
	user *domain.User,
	list *domain.StoryList,
	feedURL string,
	maxItems int,
) ([]domain.Story, error) {
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return nil, errors.New("feed URL is empty")
	}

	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	parsed, err := i.libParser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed (URL = %s): %w", feedURL, err)
	}

	feedTitle := strings.TrimSpace(parsed.Title)

	var submitted []domain.Story
	var errs []error

	for _, item := range parsed.Items {
		if len(submitted) >= maxItems {
			break
		}

		draft, ok := i.draftFromItem(ctx, item, feedTitle, feedURL)
		if !ok {
			continue
		}

		story, addErr := i.submitter.AddStory(ctx, user, list, draft)
		if addErr != nil {
			errs = append(errs, fmt.Errorf("add story (URL = %s): %w", draft.URL, addErr))
			continue
		}

		submitted = append(submitted, *story)
	}

	return submitted, errors.Join(errs...)
}

func (i *Importer) draftFromItem(
	ctx context.Context,
	item *gofeed.Item,
	feedTitle string,
	feedURL string,
) (domain.StoryDraft, bool) {
	link := strings.TrimSpace(item.Link)
	if link == "" {
		i.log.WarnContext(ctx, "Skipping feed item with empty URL",
			"feedURL", feedURL,
			"itemTitle", strings.TrimSpace(item.Title))

		return domain.StoryDraft{}, false
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = link
	}

	author := ""
	if item.Author != nil {
		author = strings.TrimSpace(item.Author.Name)
	}
	if author == "" {
		author = feedTitle
	}
	if author == "" {
		author = feedURL
	}

	return domain.StoryDraft{
		Author: author,
		Title:  title,
		URL:    link,
	}, true
}
