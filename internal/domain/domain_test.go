package domain_test

import (
	"hackline/internal/domain"
	"testing"
)

func story(id string) domain.Story {
	return domain.Story{StoryID: id, Title: "title " + id, URL: "https://example.com/" + id}
}

func TestUserFavoriteAndIsFavorite(t *testing.T) {
	u := &domain.User{Username: "bob"}
	s := story("sid1")

	if u.IsFavorite(s) {
		t.Fatalf("expected fresh user to have no favorites")
	}

	u.Favorite(s)

	if !u.IsFavorite(s) {
		t.Fatalf("expected story to be favorited after Favorite")
	}

	if got := u.IsFavorite(s); !got {
		t.Fatalf("expected IsFavorite to be stable across calls, got %v", got)
	}

	u.Unfavorite(s.StoryID)

	if u.IsFavorite(s) {
		t.Fatalf("expected story to be gone after Unfavorite")
	}
}

func TestUserFavoriteDeduplicates(t *testing.T) {
	u := &domain.User{Username: "bob"}
	s := story("sid1")

	u.Favorite(s)
	u.Favorite(s)

	if got := len(u.Favorites); got != 1 {
		t.Fatalf("expected a single favorite after double add, got %d", got)
	}
}

func TestStoryListPrependOrder(t *testing.T) {
	l := &domain.StoryList{Stories: []domain.Story{story("old")}}

	l.Prepend(story("new"))

	if got := len(l.Stories); got != 2 {
		t.Fatalf("expected 2 stories, got %d", got)
	}

	if l.Stories[0].StoryID != "new" {
		t.Fatalf("expected newest story first, got %q", l.Stories[0].StoryID)
	}
}

func TestStoryListPrependDisplacesDuplicate(t *testing.T) {
	l := &domain.StoryList{Stories: []domain.Story{story("sid1"), story("sid2")}}

	updated := story("sid2")
	updated.Title = "updated"
	l.Prepend(updated)

	if got := len(l.Stories); got != 2 {
		t.Fatalf("expected duplicate to be displaced, got %d stories", got)
	}

	if l.Stories[0].Title != "updated" {
		t.Fatalf("expected displaced story to move to front, got %q", l.Stories[0].Title)
	}
}

func TestUserRemoveStoryClearsBothLists(t *testing.T) {
	s := story("sid1")
	u := &domain.User{
		Username:   "bob",
		Favorites:  []domain.Story{s, story("sid2")},
		OwnStories: []domain.Story{s},
	}

	u.RemoveStory("sid1")

	for _, f := range u.Favorites {
		if f.StoryID == "sid1" {
			t.Fatalf("expected sid1 to be removed from favorites")
		}
	}

	if got := len(u.OwnStories); got != 0 {
		t.Fatalf("expected own stories to be empty, got %d", got)
	}

	if got := len(u.Favorites); got != 1 {
		t.Fatalf("expected one remaining favorite, got %d", got)
	}
}
