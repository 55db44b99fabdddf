package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hackline/internal/domain"
)

const (
	feedPageSize = 10

	loginArgCount  = 3
	signupArgCount = 4
)

const welcomeText = `🗞 *Welcome to Hackline\!*

I'm your news assistant\. I can help you:

– Browse the latest stories with /feed
– Submit stories by sending me URLs, or with /submit
– Favorite stories directly from the feed
– List your favorites with /favorites and your stories with /stories
– Receive a 24h digest daily \(default \- 00:00 UTC\)
– Receive a 24h digest on demand with /digest
– Log into your account with /login, create one with /signup
– Configure the digest hour with /settings`

const settingsText = `*⚙️ Settings*

Current UTC time is %s\.

Current digest hour \(UTC\) setting is %s\.

You can choose a different hour below:`

const notLoggedInText = `🔐 Not logged in\.

Use /login username password, or /signup username password name\.`

func (b *Bot) handleStartCommand(chatID int64) error {
	return b.sendMessageWithKeyboard(chatID, welcomeText, b.menuKeyboard)
}

func (b *Bot) handleMenuCommand(chatID int64) error {
	return b.sendMessageWithKeyboard(chatID, "❔ *Choose an option:*", b.menuKeyboard)
}

func (b *Bot) handleFeedCommand(ctx context.Context, chatID int64) error {
	list, err := b.news.Stories(ctx)
	if err != nil {
		errs := []error{fmt.Errorf("fetch stories: %w", err)}

		if sendErr := b.sendMessageWithKeyboard(chatID, "❌ Failed\\.", b.returnKeyboard); sendErr != nil {
			errs = append(errs, fmt.Errorf("send message with keyboard: %w", sendErr))
		}

		return errors.Join(errs...)
	}

	stories := list.Stories
	if len(stories) > feedPageSize {
		stories = stories[:feedPageSize]
	}

	if len(stories) == 0 {
		return b.sendMessageWithKeyboard(chatID, "✖️ The feed is empty\\.", b.returnKeyboard)
	}

	message := formatStoryListing("🗞 *Latest stories:*", stories)

	return b.sendMessageWithKeyboard(chatID, message, favoriteToggleKeyboard(stories))
}

func (b *Bot) handleFavoritesCommand(ctx context.Context, chatID int64) error {
	user, err := b.sessionUser(ctx, chatID)
	if err != nil {
		return b.failWith(chatID, fmt.Errorf("session user: %w", err))
	}
	if user == nil {
		return b.sendMessageWithKeyboard(chatID, notLoggedInText, b.returnKeyboard)
	}

	if len(user.Favorites) == 0 {
		return b.sendMessageWithKeyboard(chatID, "✖️ No favorites yet\\.", b.returnKeyboard)
	}

	message := formatStoryListing("⭐ *Your favorites:*", user.Favorites)

	return b.sendMessageWithKeyboard(chatID, message, favoriteToggleKeyboard(user.Favorites))
}

func (b *Bot) handleOwnStoriesCommand(ctx context.Context, chatID int64) error {
	user, err := b.sessionUser(ctx, chatID)
	if err != nil {
		return b.failWith(chatID, fmt.Errorf("session user: %w", err))
	}
	if user == nil {
		return b.sendMessageWithKeyboard(chatID, notLoggedInText, b.returnKeyboard)
	}

	if len(user.OwnStories) == 0 {
		return b.sendMessageWithKeyboard(chatID, "✖️ You have not submitted any stories\\.", b.returnKeyboard)
	}

	message := formatStoryListing("📝 *Your stories:*", user.OwnStories)

	return b.sendMessageWithKeyboard(chatID, message, storyDeleteKeyboard(user.OwnStories))
}

func (b *Bot) handleLoginCommand(ctx context.Context, text string, chatID int64) error {
	parts := strings.Fields(text)
	if len(parts) != loginArgCount {
		return b.sendMessageWithKeyboard(chatID, "Usage: /login username password", b.returnKeyboard)
	}

	user, err := b.news.Login(ctx, parts[1], parts[2])
	if err != nil {
		return b.failWith(chatID, fmt.Errorf("login: %w", err))
	}

	if err = b.db.UpsertSession(ctx, &domain.Session{
		ChatID:   chatID,
		Username: user.Username,
		Token:    user.Token,
	}); err != nil {
		return b.failWith(chatID, fmt.Errorf("upsert session: %w", err))
	}

	return b.sendMessageWithKeyboard(
		chatID,
		fmt.Sprintf("✅ Logged in as *%s*\\.", escapeMarkdownV2(user.Username)),
		b.menuKeyboard,
	)
}

func (b *Bot) handleSignupCommand(ctx context.Context, text string, chatID int64) error {
	parts := strings.Fields(text)
	if len(parts) < signupArgCount {
		return b.sendMessageWithKeyboard(chatID, "Usage: /signup username password name", b.returnKeyboard)
	}

	name := strings.Join(parts[3:], " ")

	user, err := b.news.Signup(ctx, parts[1], parts[2], name)
	if err != nil {
		return b.failWith(chatID, fmt.Errorf("signup: %w", err))
	}

	if err = b.db.UpsertSession(ctx, &domain.Session{
		ChatID:   chatID,
		Username: user.Username,
		Token:    user.Token,
	}); err != nil {
		return b.failWith(chatID, fmt.Errorf("upsert session: %w", err))
	}

	return b.sendMessageWithKeyboard(
		chatID,
		fmt.Sprintf("✅ Account *%s* is created\\.", escapeMarkdownV2(user.Username)),
		b.menuKeyboard,
	)
}

func (b *Bot) handleLogoutCommand(ctx context.Context, chatID int64) error {
	if err := b.db.DeleteSession(ctx, chatID); err != nil {
		return b.failWith(chatID, fmt.Errorf("delete session: %w", err))
	}

	return b.sendMessageWithKeyboard(chatID, "✅ Logged out\\.", b.returnKeyboard)
}

func (b *Bot) handleWhoamiCommand(ctx context.Context, chatID int64) error {
	user, err := b.sessionUser(ctx, chatID)
	if err != nil {
		return b.failWith(chatID, fmt.Errorf("session user: %w", err))
	}
	if user == nil {
		return b.sendMessageWithKeyboard(chatID, notLoggedInText, b.returnKeyboard)
	}

	message := fmt.Sprintf(
		"👤 *%s* \\(@%s\\)\n\n⭐ %d favorites, 📝 %d stories",
		escapeMarkdownV2(user.Name),
		escapeMarkdownV2(user.Username),
		len(user.Favorites),
		len(user.OwnStories),
	)

	return b.sendMessageWithKeyboard(chatID, message, b.menuKeyboard)
}

func (b *Bot) handleSettingsCommand(ctx context.Context, chatID int64) error {
	settings, err := b.db.GetChatSettingsWithDefault(ctx, chatID)
	if err != nil {
		return b.failWith(chatID, fmt.Errorf("get chat settings with default: %w", err))
	}

	currentUTC := time.Now().UTC().Format("15:04")
	hourUTCStr := fmt.Sprintf("%02d:00", settings.DigestHourUTC)

	return b.sendMessageWithKeyboard(
		chatID,
		fmt.Sprintf(settingsText, currentUTC, hourUTCStr),
		b.digestHourKeyboard,
	)
}

func (b *Bot) handleDigestCommand(ctx context.Context, chatID int64) error {
	list, err := b.news.Stories(ctx)
	if err != nil {
		return b.failWith(chatID, fmt.Errorf("fetch stories: %w", err))
	}

	sent, err := b.SendDigest(ctx, chatID, list)
	if err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	if !sent {
		return b.sendMessageWithKeyboard(chatID, "✖️ No stories in the last 24h\\.", b.returnKeyboard)
	}

	return nil
}

// failWith reports the failure to the chat and carries the original error up.
func (b *Bot) failWith(chatID int64, err error) error {
	errs := []error{err}

	if sendErr := b.sendMessageWithKeyboard(chatID, "❌ Failed\\.", b.returnKeyboard); sendErr != nil {
		errs = append(errs, fmt.Errorf("send message with keyboard: %w", sendErr))
	}

	return errors.Join(errs...)
}

func formatStoryListing(header string, stories []domain.Story) string {
	var message strings.Builder

	message.WriteString(header)
	message.WriteString("\n\n")

	for i, s := range stories {
		title := strings.TrimSpace(s.Title)
		if title == "" {
			title = s.URL
		}

		message.WriteString(fmt.Sprintf(
			"%d\\. [%s](%s) by @%s\n",
			i+1,
			escapeMarkdownV2(title),
			s.URL,
			escapeMarkdownV2(s.Username),
		))
	}

	return message.String()
}
