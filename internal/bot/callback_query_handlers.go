package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"hackline/internal/domain"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	return b.withSpinner(ctx, callback.Message.Chat.ID, func() error {
		data := strings.TrimSpace(callback.Data)
		chatID := callback.Message.Chat.ID

		switch data {
		case "menu":
			return b.withEmptyCallbackAnswer(callback, func() error {
				return b.handleMenuCommand(chatID)
			})
		case "menu_feed":
			return b.withEmptyCallbackAnswer(callback, func() error {
				return b.handleFeedCommand(ctx, chatID)
			})
		case "menu_favorites":
			return b.withEmptyCallbackAnswer(callback, func() error {
				return b.handleFavoritesCommand(ctx, chatID)
			})
		case "menu_own":
			return b.withEmptyCallbackAnswer(callback, func() error {
				return b.handleOwnStoriesCommand(ctx, chatID)
			})
		case "menu_settings":
			return b.withEmptyCallbackAnswer(callback, func() error {
				return b.handleSettingsCommand(ctx, chatID)
			})
		}

		if storyID, ok := strings.CutPrefix(data, favoriteToggleCallbackPrefix); ok {
			return b.handleFavoriteToggleQuery(ctx, strings.TrimSpace(storyID), callback)
		}

		if storyID, ok := strings.CutPrefix(data, deleteStoryCallbackPrefix); ok {
			return b.handleDeleteStoryQuery(ctx, strings.TrimSpace(storyID), callback)
		}

		if hourUTCStr, ok := strings.CutPrefix(data, digestHourCallbackPrefix); ok {
			return b.handleDigestHourQuery(ctx, hourUTCStr, callback)
		}

		return nil
	})
}

// handleFavoriteToggleQuery favorites the story, or unfavorites it when it
// already is one.
func (b *Bot) handleFavoriteToggleQuery(
	ctx context.Context,
	storyID string,
	callback *tgbotapi.CallbackQuery,
) error {
	if storyID == "" {
		return b.errorCallbackAnswer(callback, errors.New("story ID is empty"))
	}

	user, err := b.sessionUser(ctx, callback.Message.Chat.ID)
	if err != nil {
		return b.errorCallbackAnswer(callback, fmt.Errorf("session user: %w", err))
	}
	if user == nil {
		if _, answerErr := b.rateLimiter.Request(
			tgbotapi.NewCallback(callback.ID, "🔐 Log in first: /login username password"),
		); answerErr != nil {
			return fmt.Errorf("send request: %w", answerErr)
		}

		return nil
	}

	story := domain.Story{StoryID: storyID}

	var answer string
	if user.IsFavorite(story) {
		if err = b.news.RemoveFavorite(ctx, user, story); err != nil {
			return b.errorCallbackAnswer(callback, fmt.Errorf("remove favorite: %w", err))
		}
		answer = "💔 Removed from favorites."
	} else {
		if err = b.news.AddFavorite(ctx, user, story); err != nil {
			return b.errorCallbackAnswer(callback, fmt.Errorf("add favorite: %w", err))
		}
		answer = "⭐ Added to favorites."
	}

	if _, err = b.rateLimiter.Request(tgbotapi.NewCallback(callback.ID, answer)); err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	return nil
}

func (b *Bot) handleDeleteStoryQuery(
	ctx context.Context,
	storyID string,
	callback *tgbotapi.CallbackQuery,
) error {
	if storyID == "" {
		return b.errorCallbackAnswer(callback, errors.New("story ID is empty"))
	}

	chatID := callback.Message.Chat.ID

	user, err := b.sessionUser(ctx, chatID)
	if err != nil {
		return b.errorCallbackAnswer(callback, fmt.Errorf("session user: %w", err))
	}
	if user == nil {
		if _, answerErr := b.rateLimiter.Request(
			tgbotapi.NewCallback(callback.ID, "🔐 Log in first: /login username password"),
		); answerErr != nil {
			return fmt.Errorf("send request: %w", answerErr)
		}

		return nil
	}

	if err = b.news.RemoveStory(ctx, user, &domain.StoryList{}, storyID); err != nil {
		return b.errorCallbackAnswer(callback, fmt.Errorf("remove story: %w", err))
	}

	if _, err = b.rateLimiter.Request(tgbotapi.NewCallback(callback.ID, "🗑 Story is deleted.")); err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	return b.handleOwnStoriesCommand(ctx, chatID)
}

func (b *Bot) handleDigestHourQuery(
	ctx context.Context,
	hourUTCStr string,
	callback *tgbotapi.CallbackQuery,
) error {
	hourUTCStr = strings.TrimSpace(hourUTCStr)

	hourUTC, err := strconv.ParseInt(hourUTCStr, 10, 64)
	if err != nil {
		return b.errorCallbackAnswer(callback, fmt.Errorf("parse hourUTC: %w", err))
	}

	if err = b.db.UpsertChatSettings(ctx, &domain.ChatSettings{
		ChatID:        callback.Message.Chat.ID,
		DigestHourUTC: hourUTC,
	}); err != nil {
		return b.errorCallbackAnswer(callback, fmt.Errorf("upsert chat settings: %w", err))
	}

	if _, err = b.rateLimiter.Request(tgbotapi.NewCallback(callback.ID, "✅ Settings are updated.")); err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	return b.handleSettingsCommand(ctx, callback.Message.Chat.ID)
}

func (b *Bot) withEmptyCallbackAnswer(
	callback *tgbotapi.CallbackQuery,
	fn func() error,
) error {
	var errs []error

	if _, err := b.rateLimiter.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		errs = append(errs, b.errorCallbackAnswer(callback, fmt.Errorf("send request: %w", err)))
	}

	err := fn()
	if err != nil {
		errs = append(errs, fmt.Errorf("call fn: %w", err))
	}

	return errors.Join(errs...)
}

func (b *Bot) errorCallbackAnswer(
	callback *tgbotapi.CallbackQuery,
	err error,
) error {
	if _, sendErr := b.rateLimiter.Request(tgbotapi.NewCallback(callback.ID, "❌ Failed.")); sendErr != nil {
		return errors.Join(err, fmt.Errorf("send request: %w", sendErr))
	}
	return err
}
