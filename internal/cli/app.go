// Package cli implements the terminal front-end. Every command loads the
// local session from the database, talks to the news API, and prints a
// colored report.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"hackline/internal/cli/colours"
	"hackline/internal/client"
	"hackline/internal/database"
	"hackline/internal/domain"
	"hackline/internal/rss"
	"hackline/internal/scrape"
)

const defaultFeedLimit = 25

type App struct {
	db       *database.Database
	news     *client.Client
	titles   *scrape.TitleFetcher
	importer *rss.Importer
	log      *slog.Logger
}

func New(
	db *database.Database,
	news *client.Client,
	titles *scrape.TitleFetcher,
	importer *rss.Importer,
	log *slog.Logger,
) *App {
	return &App{
		db:       db,
		news:     news,
		titles:   titles,
		importer: importer,
		log:      log,
	}
}

func (a *App) Signup(ctx context.Context, username string, password string, name string) error {
	user, err := a.news.Signup(ctx, username, password, name)
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}

	if err = a.saveSession(ctx, user); err != nil {
		return err
	}

	colours.Success.Printf("✅ Account created. Logged in as @%s (%s).\n", user.Username, user.Name)

	return nil
}

func (a *App) Login(ctx context.Context, username string, password string) error {
	user, err := a.news.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if err = a.saveSession(ctx, user); err != nil {
		return err
	}

	colours.Success.Printf("✅ Logged in as @%s (%s).\n", user.Username, user.Name)
	colours.Info.Printf("⭐ %d favorites, 📝 %d own stories.\n", len(user.Favorites), len(user.OwnStories))

	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.db.DeleteSession(ctx, domain.LocalChatID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	colours.Success.Println("✅ Logged out.")

	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	user, err := a.sessionUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		colours.Warning.Println("🔐 Not logged in.")
		return nil
	}

	colours.Title.Printf("@%s", user.Username)
	fmt.Printf(" — %s\n", user.Name)
	colours.Info.Printf("⭐ %d favorites, 📝 %d own stories.\n", len(user.Favorites), len(user.OwnStories))

	return nil
}

func (a *App) Feed(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = defaultFeedLimit
	}

	list, err := a.news.Stories(ctx)
	if err != nil {
		return fmt.Errorf("fetch stories: %w", err)
	}

	user, err := a.sessionUser(ctx)
	if err != nil {
		return err
	}

	stories := list.Stories
	if len(stories) > limit {
		stories = stories[:limit]
	}

	colours.Title.Println("🗞 Latest stories")
	a.printStories(stories, user)

	return nil
}

func (a *App) Favorites(ctx context.Context) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	if len(user.Favorites) == 0 {
		colours.Warning.Println("⭐ No favorites yet.")
		return nil
	}

	colours.Title.Println("⭐ Favorites")
	a.printStories(user.Favorites, user)

	return nil
}

func (a *App) OwnStories(ctx context.Context) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	if len(user.OwnStories) == 0 {
		colours.Warning.Println("📝 No own stories yet.")
		return nil
	}

	colours.Title.Println("📝 Own stories")
	a.printStories(user.OwnStories, user)

	return nil
}

func (a *App) Submit(ctx context.Context, storyURL string, title string) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title, err = a.titles.PageTitle(ctx, storyURL)
		if err != nil {
			a.log.WarnContext(ctx, "Failed to fetch page title so URL will be used",
				"error", err,
				"url", storyURL)

			title = storyURL
		}
	}

	author := strings.TrimSpace(user.Name)
	if author == "" {
		author = user.Username
	}

	story, err := a.news.AddStory(ctx, user, &domain.StoryList{}, domain.StoryDraft{
		Author: author,
		Title:  title,
		URL:    storyURL,
	})
	if err != nil {
		return fmt.Errorf("add story: %w", err)
	}

	colours.Success.Printf("✅ Submitted: %s\n", story.Title)
	colours.Info.Printf("   id %s\n", story.StoryID)

	return nil
}

func (a *App) Remove(ctx context.Context, storyID string) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	if err = a.news.RemoveStory(ctx, user, &domain.StoryList{}, storyID); err != nil {
		return fmt.Errorf("remove story: %w", err)
	}

	colours.Success.Printf("🗑 Removed story %s.\n", storyID)

	return nil
}

func (a *App) Favorite(ctx context.Context, storyID string) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	if err = a.news.AddFavorite(ctx, user, domain.Story{StoryID: storyID}); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}

	colours.Success.Printf("⭐ Added story %s to favorites.\n", storyID)

	return nil
}

func (a *App) Unfavorite(ctx context.Context, storyID string) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	if err = a.news.RemoveFavorite(ctx, user, domain.Story{StoryID: storyID}); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}

	colours.Success.Printf("💔 Removed story %s from favorites.\n", storyID)

	return nil
}

func (a *App) ImportFeed(ctx context.Context, feedURL string, maxItems int) error {
	user, err := a.requireUser(ctx)
	if err != nil {
		return err
	}

	submitted, err := a.importer.ImportFeed(ctx, user, &domain.StoryList{}, feedURL, maxItems)
	for _, story := range submitted {
		colours.Success.Printf("✅ %s\n", story.Title)
	}
	if err != nil {
		if len(submitted) > 0 {
			colours.Warning.Printf("⚠️ Imported %d items with errors.\n", len(submitted))
			return err
		}

		return fmt.Errorf("import feed: %w", err)
	}

	colours.Success.Printf("✅ Imported %d items from %s.\n", len(submitted), feedURL)

	return nil
}

var errNotLoggedIn = errors.New("not logged in, run `hackline login` or `hackline signup` first")

func (a *App) requireUser(ctx context.Context) (*domain.User, error) {
	user, err := a.sessionUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errNotLoggedIn
	}

	return user, nil
}

func (a *App) sessionUser(ctx context.Context) (*domain.User, error) {
	session, err := a.db.GetSession(ctx, domain.LocalChatID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := a.news.LoggedInUser(ctx, session.Token, session.Username)
	if err != nil {
		return nil, fmt.Errorf("get logged in user: %w", err)
	}

	return user, nil
}

func (a *App) saveSession(ctx context.Context, user *domain.User) error {
	if err := a.db.UpsertSession(ctx, &domain.Session{
		ChatID:   domain.LocalChatID,
		Username: user.Username,
		Token:    user.Token,
	}); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	return nil
}

func (a *App) printStories(stories []domain.Story, user *domain.User) {
	for i, story := range stories {
		marker := "  "
		if user != nil && user.IsFavorite(story) {
			marker = "⭐"
		}

		fmt.Printf("%s %2d. ", marker, i+1)
		colours.Title.Print(story.Title)
		fmt.Print(" by ")
		colours.Author.Printf("@%s\n", story.Username)
		colours.Info.Printf("       %s  (id %s)\n", story.URL, story.StoryID)
	}
}
