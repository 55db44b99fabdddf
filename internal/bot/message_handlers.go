package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"mvdan.cc/xurls/v2"

	"hackline/internal/domain"
)

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	return b.withSpinner(ctx, message.Chat.ID, func() error {
		text := strings.TrimSpace(message.Text)
		chatID := message.Chat.ID

		switch {
		case strings.HasPrefix(text, "/start"):
			return b.handleStartCommand(chatID)
		case strings.HasPrefix(text, "/menu"):
			return b.handleMenuCommand(chatID)
		case strings.HasPrefix(text, "/feed"):
			return b.handleFeedCommand(ctx, chatID)
		case strings.HasPrefix(text, "/favorites"):
			return b.handleFavoritesCommand(ctx, chatID)
		case strings.HasPrefix(text, "/stories"):
			return b.handleOwnStoriesCommand(ctx, chatID)
		case strings.HasPrefix(text, "/submit"):
			return b.handleSubmitCommand(ctx, text, chatID)
		case strings.HasPrefix(text, "/login"):
			return b.handleLoginCommand(ctx, text, chatID)
		case strings.HasPrefix(text, "/signup"):
			return b.handleSignupCommand(ctx, text, chatID)
		case strings.HasPrefix(text, "/logout"):
			return b.handleLogoutCommand(ctx, chatID)
		case strings.HasPrefix(text, "/whoami"):
			return b.handleWhoamiCommand(ctx, chatID)
		case strings.HasPrefix(text, "/digest"):
			return b.handleDigestCommand(ctx, chatID)
		case strings.HasPrefix(text, "/settings"):
			return b.handleSettingsCommand(ctx, chatID)
		default:
			return b.handleRandomText(ctx, text, chatID)
		}
	})
}

// handleSubmitCommand submits a single story: /submit <url> [title...].
// Without an explicit title the page's own title is scraped.
func (b *Bot) handleSubmitCommand(ctx context.Context, text string, chatID int64) error {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return b.sendMessageWithKeyboard(chatID, "Usage: /submit url \\[title\\]", b.returnKeyboard)
	}

	storyURL := parts[1]
	title := strings.Join(parts[2:], " ")

	return b.submitURLs(ctx, chatID, []submission{{url: storyURL, title: title}})
}

// handleRandomText treats any non-command message as story submissions: every
// https URL in the text becomes a story with a scraped title.
func (b *Bot) handleRandomText(ctx context.Context, text string, chatID int64) error {
	httpsURLRe, err := xurls.StrictMatchingScheme("https://")
	if err != nil {
		return fmt.Errorf("create regexp: %w", err)
	}

	urls := httpsURLRe.FindAllString(text, -1)

	if len(urls) == 0 {
		return b.sendMessageWithKeyboard(
			chatID,
			"✖️ No story URLs found\\. Send an https URL or use /submit\\.",
			b.returnKeyboard,
		)
	}

	submissions := make([]submission, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))

	for _, u := range urls {
		trimmed := strings.TrimSpace(u)
		if _, ok := seen[trimmed]; ok {
			continue
		}

		seen[trimmed] = struct{}{}
		submissions = append(submissions, submission{url: trimmed})
	}

	return b.submitURLs(ctx, chatID, submissions)
}

type submission struct {
	url   string
	title string
}

func (b *Bot) submitURLs(ctx context.Context, chatID int64, submissions []submission) error {
	user, err := b.sessionUser(ctx, chatID)
	if err != nil {
		return b.failWith(chatID, fmt.Errorf("session user: %w", err))
	}
	if user == nil {
		return b.sendMessageWithKeyboard(chatID, notLoggedInText, b.returnKeyboard)
	}

	var errs []error
	added := 0

	list := &domain.StoryList{}

	for _, sub := range submissions {
		title := strings.TrimSpace(sub.title)
		if title == "" {
			scraped, titleErr := b.titles.PageTitle(ctx, sub.url)
			if titleErr != nil {
				b.log.WarnContext(ctx, "Failed to scrape page title",
					"error", titleErr,
					"url", sub.url,
					"chatID", chatID)

				scraped = sub.url
			}
			title = scraped
		}

		author := strings.TrimSpace(user.Name)
		if author == "" {
			author = user.Username
		}

		if _, addErr := b.news.AddStory(ctx, user, list, domain.StoryDraft{
			Author: author,
			Title:  title,
			URL:    sub.url,
		}); addErr != nil {
			errs = append(errs, fmt.Errorf("add story: %w", addErr))
		} else {
			added++
		}
	}

	switch {
	case added == 0:
		if err = b.sendMessageWithKeyboard(chatID, "❌ Failed\\.", b.returnKeyboard); err != nil {
			errs = append(errs, fmt.Errorf("send message with keyboard: %w", err))
		}
	case len(errs) > 0:
		if err = b.sendMessageWithKeyboard(
			chatID,
			fmt.Sprintf("⚠️ Partial success \\(%d submitted\\)\\.", added),
			b.returnKeyboard,
		); err != nil {
			errs = append(errs, fmt.Errorf("send message with keyboard: %w", err))
		}
	default:
		if err = b.sendMessageWithKeyboard(
			chatID,
			fmt.Sprintf("✅ %d submitted\\.", added),
			b.returnKeyboard,
		); err != nil {
			errs = append(errs, fmt.Errorf("send message with keyboard: %w", err))
		}
	}

	return errors.Join(errs...)
}
