package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hackline/internal/domain"
	"hackline/internal/summarizer"
)

const (
	telegramMessageMaxLength = 4096

	digestGracePeriod = 10 * time.Minute
	digestWindow      = 24*time.Hour + digestGracePeriod
)

// SendDigest sends the feed's last-24h stories to the chat, newest first,
// with an optional AI intro line. Reports whether anything was sent; an empty
// window sends nothing.
func (b *Bot) SendDigest(ctx context.Context, chatID int64, list *domain.StoryList) (bool, error) {
	cutoff := time.Now().UTC().Add(-digestWindow)
	stories := storiesSince(list.Stories, cutoff)

	if len(stories) == 0 {
		return false, nil
	}

	intro := b.digestIntro(ctx, stories)

	var errs []error
	for _, message := range formatDigestMessages(stories, intro) {
		if err := b.sendMessageWithKeyboard(chatID, message, b.returnKeyboard); err != nil {
			errs = append(errs, fmt.Errorf("send message with keyboard: %w", err))
		}
	}

	return true, errors.Join(errs...)
}

func (b *Bot) digestIntro(ctx context.Context, stories []domain.Story) string {
	if b.summarizer == nil {
		return ""
	}

	var headlines strings.Builder
	for _, s := range stories {
		title := strings.TrimSpace(s.Title)
		if title == "" {
			continue
		}

		headlines.WriteString(title)
		headlines.WriteString("\n")
	}

	if headlines.Len() == 0 {
		return ""
	}

	intro, err := b.summarizer.Summarize(ctx, summarizer.Input{Text: headlines.String()})
	if err != nil {
		b.log.WarnContext(ctx, "Failed to summarize digest headlines",
			"error", err,
			"storyCount", len(stories))

		return ""
	}

	return strings.TrimSpace(intro)
}

func formatDigestMessages(stories []domain.Story, intro string) []string {
	header := "🗞 *24h digest*\n\n"
	if intro != "" {
		header += fmt.Sprintf("_%s_\n\n", escapeMarkdownV2(intro))
	}

	var messages []string
	var currentMessage strings.Builder

	currentMessage.WriteString(header)
	headerLength := currentMessage.Len()

	for _, story := range stories {
		title := strings.TrimSpace(story.Title)
		if title == "" {
			title = story.URL
		}

		bulletPoint := fmt.Sprintf(
			"– [%s](%s) by @%s\n\n",
			escapeMarkdownV2(title),
			story.URL,
			escapeMarkdownV2(story.Username),
		)

		if currentMessage.Len()+len(bulletPoint) > telegramMessageMaxLength {
			messages = append(messages, currentMessage.String())
			currentMessage.Reset()
			currentMessage.WriteString("🗞 *24h digest \\(continue\\)*\n\n")
		}

		currentMessage.WriteString(bulletPoint)
	}

	if currentMessage.Len() > headerLength || len(messages) == 0 {
		messages = append(messages, currentMessage.String())
	}

	return messages
}

func storiesSince(stories []domain.Story, cutoff time.Time) []domain.Story {
	var recent []domain.Story

	for _, s := range stories {
		if s.CreatedAt.After(cutoff) {
			recent = append(recent, s)
		}
	}

	return recent
}
