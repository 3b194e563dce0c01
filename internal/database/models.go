package database

import "time"

// Scheduled post delivery states. Terminal states are never retried.
const (
	PostStatusPending   = "pending"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
)

// User represents a bot user and their preferred interface language.
type User struct {
	TelegramID int64     `db:"telegram_id"`
	Language   string    `db:"language"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Channel represents a Telegram channel registered for publishing.
// Rows are immutable after creation.
type Channel struct {
	ID         int64     `db:"id"`
	TelegramID int64     `db:"telegram_id"`
	Title      string    `db:"title"`
	AddedBy    int64     `db:"added_by"`
	CreatedAt  time.Time `db:"created_at"`
}

// Settings holds the single row of bot-wide settings.
type Settings struct {
	ID               int64     `db:"id"`
	AccessDeniedText string    `db:"access_denied_text"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// ScheduledPost is the persisted form of a finalized draft awaiting
// delivery. Content and Buttons hold the serialized draft shapes.
type ScheduledPost struct {
	ID        int64     `db:"id"`
	ChannelID int64     `db:"channel_id"`
	Content   string    `db:"content"`
	Buttons   string    `db:"buttons"`
	RunAt     time.Time `db:"run_at"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// AlertPayload stores the full text behind an alert button. Callback
// payloads are capped at 64 bytes by Telegram, so buttons carry only the
// id and the text is fetched on activation. Rows are immutable.
type AlertPayload struct {
	ID        string    `db:"id"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
}
