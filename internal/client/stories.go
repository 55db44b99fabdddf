package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"hackline/internal/domain"
)

type storiesResponse struct {
	Stories []storyRecord `json:"stories"`
}

type storyResponse struct {
	Story storyRecord `json:"story"`
}

type createStoryRequest struct {
	Token string            `json:"token"`
	Story storyDraftPayload `json:"story"`
}

type storyDraftPayload struct {
	Author string `json:"author"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

// Stories fetches the global feed and wraps it in a fresh StoryList snapshot,
// unrelated to any earlier snapshot's state. No credential is required.
func (c *Client) Stories(ctx context.Context) (*domain.StoryList, error) {
	var resp storiesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/stories", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch stories: %w", err)
	}

	return &domain.StoryList{Stories: storiesFromRecords(resp.Stories)}, nil
}

// AddStory submits a new story on behalf of the user. On success the created
// story is prepended to both the list and the user's own stories, newest
// first, and returned. Local state is untouched when the request fails.
func (c *Client) AddStory(
	ctx context.Context,
	user *domain.User,
	list *domain.StoryList,
	draft domain.StoryDraft,
) (*domain.Story, error) {
	req := createStoryRequest{
		Token: user.Token,
		Story: storyDraftPayload{
			Author: draft.Author,
			Title:  draft.Title,
			URL:    draft.URL,
		},
	}

	var resp storyResponse
	if err := c.doJSON(ctx, http.MethodPost, "/stories", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("create story: %w", err)
	}

	story := storyFromRecord(resp.Story)

	list.Prepend(story)
	user.PrependOwnStory(story)

	return &story, nil
}

// RemoveStory deletes the story on the server, then drops it from the list,
// the user's own stories and the user's favorites. The local fix-up happens
// only after the server confirms the deletion.
func (c *Client) RemoveStory(
	ctx context.Context,
	user *domain.User,
	list *domain.StoryList,
	storyID string,
) error {
	path := "/stories/" + url.PathEscape(storyID)

	if err := c.doJSON(ctx, http.MethodDelete, path, nil, tokenPayload{Token: user.Token}, nil); err != nil {
		return fmt.Errorf("delete story: %w", err)
	}

	list.Remove(storyID)
	user.RemoveStory(storyID)

	return nil
}
