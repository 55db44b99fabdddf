package domain

import "time"

// Story is a single submitted story as the server reports it. Instances are
// built from server records and never mutated afterwards; identity is StoryID.
type Story struct {
	StoryID   string
	Author    string
	Title     string
	URL       string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoryDraft carries the caller-supplied fields of a story submission. The
// server fills in the rest.
type StoryDraft struct {
	Author string
	Title  string
	URL    string
}

// User mirrors a server-side account. Token is the opaque credential issued
// at signup or login; it is empty for a user that was never authenticated.
// Favorites and OwnStories never contain two stories with the same StoryID.
type User struct {
	Username   string
	Name       string
	Token      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Favorites  []Story
	OwnStories []Story
}

// StoryList is an ordered snapshot of the global feed, newest first. It never
// contains two stories with the same StoryID.
type StoryList struct {
	Stories []Story
}

// IsFavorite reports whether the user has favorited the story. Purely local.
func (u *User) IsFavorite(story Story) bool {
	for _, s := range u.Favorites {
		if s.StoryID == story.StoryID {
			return true
		}
	}

	return false
}

// Favorite appends the story to the user's favorites. Adding a story that is
// already favorited is a no-op.
func (u *User) Favorite(story Story) {
	if u.IsFavorite(story) {
		return
	}

	u.Favorites = append(u.Favorites, story)
}

// Unfavorite drops any favorite with the given story ID.
func (u *User) Unfavorite(storyID string) {
	u.Favorites = removeStory(u.Favorites, storyID)
}

// PrependOwnStory puts the story at the front of the user's own stories,
// displacing any earlier copy with the same StoryID.
func (u *User) PrependOwnStory(story Story) {
	u.OwnStories = prependStory(u.OwnStories, story)
}

// RemoveStory drops the story from both the user's own stories and favorites.
// A story deleted on the server can no longer be anyone's favorite.
func (u *User) RemoveStory(storyID string) {
	u.OwnStories = removeStory(u.OwnStories, storyID)
	u.Favorites = removeStory(u.Favorites, storyID)
}

// Prepend puts the story at the front of the list, displacing any earlier
// copy with the same StoryID.
func (l *StoryList) Prepend(story Story) {
	l.Stories = prependStory(l.Stories, story)
}

// Remove drops any story with the given ID from the list.
func (l *StoryList) Remove(storyID string) {
	l.Stories = removeStory(l.Stories, storyID)
}

func prependStory(stories []Story, story Story) []Story {
	rest := removeStory(stories, story.StoryID)

	out := make([]Story, 0, len(rest)+1)
	out = append(out, story)

	return append(out, rest...)
}

func removeStory(stories []Story, storyID string) []Story {
	out := stories[:0]
	for _, s := range stories {
		if s.StoryID != storyID {
			out = append(out, s)
		}
	}

	return out
}
