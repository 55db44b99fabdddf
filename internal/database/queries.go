package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hackline/internal/domain"
)

func (d *Database) UpsertSession(ctx context.Context, session *domain.Session) error {
	username := strings.TrimSpace(session.Username)
	if username == "" {
		return errors.New("username is empty")
	}

	token := strings.TrimSpace(session.Token)
	if token == "" {
		return errors.New("token is empty")
	}

	query := `insert into sessions (chat_id, username, token)
	values (?, ?, ?)
	on conflict (chat_id) do update
	set username = excluded.username, token = excluded.token`

	_, err := d.db.ExecContext(ctx, query, session.ChatID, username, token)

	return err
}

// GetSession returns the stored session for the chat, or nil when the chat
// never logged in.
func (d *Database) GetSession(ctx context.Context, chatID int64) (*domain.Session, error) {
	query := "select username, token from sessions where chat_id = ?"

	rows, err := d.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"chatID", chatID,
				"operation", "GetSession")
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate rows: %w", err)
		}

		return nil, nil
	}

	session := domain.Session{ChatID: chatID}
	if err = rows.Scan(&session.Username, &session.Token); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return &session, nil
}

func (d *Database) DeleteSession(ctx context.Context, chatID int64) error {
	query := "delete from sessions where chat_id = ?"

	_, err := d.db.ExecContext(ctx, query, chatID)

	return err
}

func (d *Database) UpsertChatSettings(ctx context.Context, settings *domain.ChatSettings) error {
	query := `insert into chat_settings (chat_id, digest_hour_utc)
	values (?, ?)
	on conflict (chat_id) do update
	set digest_hour_utc = excluded.digest_hour_utc`

	_, err := d.db.ExecContext(ctx, query, settings.ChatID, settings.DigestHourUTC)

	return err
}

func (d *Database) GetChatSettingsWithDefault(
	ctx context.Context,
	chatID int64,
) (*domain.ChatSettings, error) {
	query := `select chat_id, digest_hour_utc
	from chat_settings
	where chat_id = ?`

	rows, err := d.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"chatID", chatID,
				"operation", "GetChatSettingsWithDefault")
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate rows: %w", err)
		}

		return &domain.ChatSettings{
			ChatID:        chatID,
			DigestHourUTC: 0,
		}, nil
	}

	var settings domain.ChatSettings
	if err = rows.Scan(&settings.ChatID, &settings.DigestHourUTC); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return &settings, nil
}

// GetDigestChats lists the sessions of every chat whose digest hour matches.
// Chats without explicit settings default to hour 0, matching
// GetChatSettingsWithDefault.
func (d *Database) GetDigestChats(ctx context.Context, hourUTC int64) ([]domain.Session, error) {
	var query string

	if hourUTC == 0 {
		query = `select s.chat_id, s.username, s.token
		from sessions as s
		left join chat_settings as cs
		on cs.chat_id = s.chat_id
		where cs.chat_id is null
		or cs.digest_hour_utc = ?`
	} else {
		query = `select s.chat_id, s.username, s.token
		from sessions as s
		left join chat_settings as cs
		on cs.chat_id = s.chat_id
		where cs.digest_hour_utc = ?`
	}

	rows, err := d.db.QueryContext(ctx, query, hourUTC)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"hourUTC", hourUTC,
				"operation", "GetDigestChats")
		}
	}()

	var sessions []domain.Session
	for rows.Next() {
		var s domain.Session
		if err = rows.Scan(&s.ChatID, &s.Username, &s.Token); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		if s.ChatID == domain.LocalChatID {
			continue
		}

		sessions = append(sessions, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return sessions, nil
}
