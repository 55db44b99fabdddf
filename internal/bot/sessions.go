package bot

import (
	"context"
	"fmt"

	"hackline/internal/domain"
)

// sessionUser rehydrates the chat's logged-in user from the stored session.
// Returns nil without error when the chat never logged in.
func (b *Bot) sessionUser(ctx context.Context, chatID int64) (*domain.User, error) {
	session, err := b.db.GetSession(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := b.news.LoggedInUser(ctx, session.Token, session.Username)
	if err != nil {
		return nil, fmt.Errorf("get logged in user: %w", err)
	}

	return user, nil
}
