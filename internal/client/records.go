package client

import (
	"time"

	"hackline/internal/domain"
)

// Wire shapes as the server sends them, prior to being wrapped into domain
// instances.

type storyRecord struct {
	StoryID   string    `json:"storyId"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type userRecord struct {
	Username  string        `json:"username"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Favorites []storyRecord `json:"favorites"`
	Stories   []storyRecord `json:"stories"`
}

func storyFromRecord(rec storyRecord) domain.Story {
	return domain.Story{
		StoryID:   rec.StoryID,
		Author:    rec.Author,
		Title:     rec.Title,
		URL:       rec.URL,
		Username:  rec.Username,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func storiesFromRecords(recs []storyRecord) []domain.Story {
	stories := make([]domain.Story, 0, len(recs))
	for _, rec := range recs {
		stories = append(stories, storyFromRecord(rec))
	}

	return stories
}

func userFromRecord(rec userRecord, token string) *domain.User {
	return &domain.User{
		Username:   rec.Username,
		Name:       rec.Name,
		Token:      token,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
		Favorites:  storiesFromRecords(rec.Favorites),
		OwnStories: storiesFromRecords(rec.Stories),
	}
}
