package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"hackline/internal/domain"
)

const (
	hoursPerDay                   = 24
	digestHourKeyboardRowSize     = 5
	digestHourCallbackPrefix      = "settings_digest_hour_utc_"
	favoriteToggleCallbackPrefix  = "favorite_toggle_"
	deleteStoryCallbackPrefix     = "story_delete_"
	favoriteKeyboardButtonsPerRow = 5
)

func (b *Bot) sendMessageWithKeyboard(
	chatID int64,
	text string,
	keyboard [][]tgbotapi.InlineKeyboardButton,
) error {
	normalizedText := strings.ToValidUTF8(text, "?")
	if normalizedText != text {
		b.log.Warn("Message text had invalid UTF-8 and was normalized",
			"chatID", chatID,
			"originalLen", len(text),
			"normalizedLen", len(normalizedText))
	}

	message := tgbotapi.NewMessage(chatID, normalizedText)

	// See https://core.telegram.org/bots/api#markdownv2-style.
	message.ParseMode = tgbotapi.ModeMarkdownV2

	message.DisableWebPagePreview = true
	message.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)

	_, err := b.rateLimiter.Send(message)
	return err
}

func getReturnKeyboard() [][]tgbotapi.InlineKeyboardButton {
	return [][]tgbotapi.InlineKeyboardButton{
		{tgbotapi.NewInlineKeyboardButtonData("⬅️ Return to menu", "menu")},
	}
}

func getMenuKeyboard() [][]tgbotapi.InlineKeyboardButton {
	return [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData("🗞 Feed", "menu_feed"),
			tgbotapi.NewInlineKeyboardButtonData("⭐ Favorites", "menu_favorites"),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData("📝 My stories", "menu_own"),
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Settings", "menu_settings"),
		},
	}
}

func getDigestHourKeyboard() [][]tgbotapi.InlineKeyboardButton {
	var keyboard [][]tgbotapi.InlineKeyboardButton

	for i := 0; i < hoursPerDay; i += digestHourKeyboardRowSize {
		var row []tgbotapi.InlineKeyboardButton

		for j := i; j < i+digestHourKeyboardRowSize && j < hoursPerDay; j++ {
			hour := fmt.Sprintf("%02d", j)
			row = append(
				row,
				tgbotapi.NewInlineKeyboardButtonData(hour, digestHourCallbackPrefix+hour),
			)
		}

		keyboard = append(keyboard, row)
	}

	return keyboard
}

// favoriteToggleKeyboard builds one numbered toggle button per listed story,
// so a chat can favorite straight from a feed listing.
func favoriteToggleKeyboard(stories []domain.Story) [][]tgbotapi.InlineKeyboardButton {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for i, story := range stories {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("⭐ %d", i+1),
			favoriteToggleCallbackPrefix+story.StoryID,
		))

		if len(row) == favoriteKeyboardButtonsPerRow {
			keyboard = append(keyboard, row)
			row = nil
		}
	}

	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}

	keyboard = append(keyboard, getReturnKeyboard()...)

	return keyboard
}

// storyDeleteKeyboard builds one numbered delete button per listed story.
func storyDeleteKeyboard(stories []domain.Story) [][]tgbotapi.InlineKeyboardButton {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for i, story := range stories {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("🗑 %d", i+1),
			deleteStoryCallbackPrefix+story.StoryID,
		))

		if len(row) == favoriteKeyboardButtonsPerRow {
			keyboard = append(keyboard, row)
			row = nil
		}
	}

	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}

	keyboard = append(keyboard, getReturnKeyboard()...)

	return keyboard
}
