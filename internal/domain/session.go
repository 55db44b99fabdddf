package domain

// LocalChatID keys the CLI's own session in the sessions table, alongside the
// Telegram chats.
const LocalChatID int64 = 0

// Session is a persisted credential pair for one chat (or the local CLI).
// The token stays opaque; only the server can interpret it.
type Session struct {
	ChatID   int64
	Username string
	Token    string
}

// ChatSettings holds per-chat digest preferences.
type ChatSettings struct {
	ChatID        int64
	DigestHourUTC int64
}
