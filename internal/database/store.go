package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetOrCreateUser retrieves a user by Telegram id, creating the row
	// with the given language on first interaction.
	GetOrCreateUser(ctx context.Context, telegramID int64, defaultLang string) (*User, error)

	// SetUserLanguage updates a user's interface language.
	SetUserLanguage(ctx context.Context, telegramID int64, lang string) error

	// ListChannels retrieves all registered channels ordered by title.
	ListChannels(ctx context.Context) ([]Channel, error)

	// GetChannel retrieves a channel by local id. Returns nil, nil if not found.
	GetChannel(ctx context.Context, id int64) (*Channel, error)

	// GetChannelByTelegramID retrieves a channel by its platform chat id.
	// Returns nil, nil if not found.
	GetChannelByTelegramID(ctx context.Context, telegramID int64) (*Channel, error)

	// SaveChannel inserts a new channel row and sets its generated id.
	SaveChannel(ctx context.Context, channel *Channel) error

	// GetSettings retrieves the bot settings row. Returns nil, nil if none exists yet.
	GetSettings(ctx context.Context) (*Settings, error)

	// SaveAccessDeniedText creates or updates the configurable denied-access message.
	SaveAccessDeniedText(ctx context.Context, text string) error

	// CreateScheduledPost inserts a pending post row and sets its generated id.
	CreateScheduledPost(ctx context.Context, post *ScheduledPost) error

	// GetScheduledPost retrieves a scheduled post by id. Returns nil, nil if not found.
	GetScheduledPost(ctx context.Context, id int64) (*ScheduledPost, error)

	// ListPendingPosts retrieves all pending posts ordered by run time.
	ListPendingPosts(ctx context.Context) ([]ScheduledPost, error)

	// SetScheduledPostStatus transitions a post to the given status.
	SetScheduledPostStatus(ctx context.Context, id int64, status string) error

	// SaveAlertPayload inserts an alert payload row. Existing rows are never mutated.
	SaveAlertPayload(ctx context.Context, payload *AlertPayload) error

	// GetAlertPayload retrieves an alert payload by id. Returns nil, nil if not found.
	GetAlertPayload(ctx context.Context, id string) (*AlertPayload, error)
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetOrCreateUser retrieves a user by Telegram id, creating the row on first interaction.
func (s *sqlxStore) GetOrCreateUser(ctx context.Context, telegramID int64, defaultLang string) (*User, error) {
	if telegramID == 0 {
		return nil, fmt.Errorf("telegram_id cannot be zero")
	}

	var user User
	query := `SELECT telegram_id, language, created_at, updated_at FROM users WHERE telegram_id = ?`
	err := s.db.GetContext(ctx, &user, query, telegramID)
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		s.logger.ErrorContext(ctx, "Error getting user", "user_id", telegramID, "error", err)
		return nil, fmt.Errorf("failed to get user %d: %w", telegramID, err)
	}

	now := time.Now().UTC()
	user = User{TelegramID: telegramID, Language: defaultLang, CreatedAt: now, UpdatedAt: now}
	insert := `INSERT INTO users (telegram_id, language, created_at, updated_at)
	           VALUES (:telegram_id, :language, :created_at, :updated_at)`
	if _, err := s.db.NamedExecContext(ctx, insert, &user); err != nil {
		s.logger.ErrorContext(ctx, "Error creating user", "user_id", telegramID, "error", err)
		return nil, fmt.Errorf("failed to create user %d: %w", telegramID, err)
	}

	s.logger.DebugContext(ctx, "Created user", "user_id", telegramID, "language", defaultLang)
	return &user, nil
}

// SetUserLanguage updates a user's interface language.
func (s *sqlxStore) SetUserLanguage(ctx context.Context, telegramID int64, lang string) error {
	if telegramID == 0 {
		return fmt.Errorf("telegram_id cannot be zero")
	}
	if lang == "" {
		return fmt.Errorf("language cannot be empty")
	}

	query := `UPDATE users SET language = ?, updated_at = ? WHERE telegram_id = ?`
	result, err := s.db.ExecContext(ctx, query, lang, time.Now().UTC(), telegramID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating user language", "user_id", telegramID, "error", err)
		return fmt.Errorf("failed to update language for user %d: %w", telegramID, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected updating language",
			"user_id", telegramID, "affected", affected)
	}
	return nil
}

// ListChannels retrieves all registered channels ordered by title.
func (s *sqlxStore) ListChannels(ctx context.Context) ([]Channel, error) {
	var channels []Channel
	query := `SELECT id, telegram_id, title, added_by, created_at FROM channels ORDER BY title`
	if err := s.db.SelectContext(ctx, &channels, query); err != nil {
		s.logger.ErrorContext(ctx, "Error listing channels", "error", err)
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	return channels, nil
}

// GetChannel retrieves a channel by local id. Returns nil, nil if not found.
func (s *sqlxStore) GetChannel(ctx context.Context, id int64) (*Channel, error) {
	if id == 0 {
		return nil, fmt.Errorf("channel id cannot be zero")
	}

	var channel Channel
	query := `SELECT id, telegram_id, title, added_by, created_at FROM channels WHERE id = ?`
	err := s.db.GetContext(ctx, &channel, query, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No channel found", "channel_id", id)
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting channel", "channel_id", id, "error", err)
		return nil, fmt.Errorf("failed to get channel %d: %w", id, err)
	}
	return &channel, nil
}

// GetChannelByTelegramID retrieves a channel by its platform chat id.
func (s *sqlxStore) GetChannelByTelegramID(ctx context.Context, telegramID int64) (*Channel, error) {
	var channel Channel
	query := `SELECT id, telegram_id, title, added_by, created_at FROM channels WHERE telegram_id = ?`
	err := s.db.GetContext(ctx, &channel, query, telegramID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting channel by telegram id", "telegram_id", telegramID, "error", err)
		return nil, fmt.Errorf("failed to get channel by telegram id %d: %w", telegramID, err)
	}
	return &channel, nil
}

// SaveChannel inserts a new channel row and sets its generated id.
func (s *sqlxStore) SaveChannel(ctx context.Context, channel *Channel) error {
	if channel == nil {
		return fmt.Errorf("cannot save nil channel")
	}
	if channel.TelegramID == 0 {
		return fmt.Errorf("channel must have a non-zero telegram_id")
	}
	if channel.Title == "" {
		return fmt.Errorf("channel must have a non-empty title")
	}

	channel.CreatedAt = time.Now().UTC()

	query := `INSERT INTO channels (telegram_id, title, added_by, created_at)
	          VALUES (:telegram_id, :title, :added_by, :created_at)`
	result, err := s.db.NamedExecContext(ctx, query, channel)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving channel", "telegram_id", channel.TelegramID, "error", err)
		return fmt.Errorf("failed to save channel %d: %w", channel.TelegramID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		channel.ID = id
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving channel",
			"telegram_id", channel.TelegramID, "error", err)
	}

	s.logger.InfoContext(ctx, "Channel saved", "channel_id", channel.ID, "title", channel.Title)
	return nil
}

// GetSettings retrieves the bot settings row. Returns nil, nil if none exists yet.
func (s *sqlxStore) GetSettings(ctx context.Context) (*Settings, error) {
	var settings Settings
	query := `SELECT id, access_denied_text, updated_at FROM bot_settings WHERE id = 1`
	err := s.db.GetContext(ctx, &settings, query)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting settings", "error", err)
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// SaveAccessDeniedText creates or updates the configurable denied-access message.
func (s *sqlxStore) SaveAccessDeniedText(ctx context.Context, text string) error {
	if text == "" {
		return fmt.Errorf("denied text cannot be empty")
	}

	query := `INSERT INTO bot_settings (id, access_denied_text, updated_at) VALUES (1, ?, ?)
	          ON CONFLICT (id) DO UPDATE SET access_denied_text = excluded.access_denied_text,
	                                         updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, text, time.Now().UTC()); err != nil {
		s.logger.ErrorContext(ctx, "Error saving denied text", "error", err)
		return fmt.Errorf("failed to save denied text: %w", err)
	}

	s.logger.InfoContext(ctx, "Access denied text updated")
	return nil
}

// CreateScheduledPost inserts a pending post row and sets its generated id.
// Runs inside a transaction so the caller observes either a fully persisted
// row or none.
func (s *sqlxStore) CreateScheduledPost(ctx context.Context, post *ScheduledPost) error {
	if post == nil {
		return fmt.Errorf("cannot save nil scheduled post")
	}
	if post.ChannelID == 0 {
		return fmt.Errorf("scheduled post must have a non-zero channel_id")
	}
	if post.RunAt.IsZero() {
		return fmt.Errorf("scheduled post must have a non-zero run time")
	}
	if post.Status == "" {
		post.Status = PostStatusPending
	}

	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for scheduled post", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
			}
		}
	}()

	query := `INSERT INTO scheduled_posts (channel_id, content, buttons, run_at, status, created_at, updated_at)
	          VALUES (:channel_id, :content, :buttons, :run_at, :status, :created_at, :updated_at)`
	result, err := tx.NamedExecContext(ctx, query, post)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving scheduled post", "channel_id", post.ChannelID, "error", err)
		return fmt.Errorf("failed to save scheduled post for channel %d: %w", post.ChannelID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		post.ID = id
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving scheduled post",
			"channel_id", post.ChannelID, "error", err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", "channel_id", post.ChannelID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Scheduled post saved", "post_id", post.ID,
		"channel_id", post.ChannelID, "run_at", post.RunAt)
	return nil
}

// GetScheduledPost retrieves a scheduled post by id. Returns nil, nil if not found.
func (s *sqlxStore) GetScheduledPost(ctx context.Context, id int64) (*ScheduledPost, error) {
	if id == 0 {
		return nil, fmt.Errorf("post id cannot be zero")
	}

	var post ScheduledPost
	query := `SELECT id, channel_id, content, buttons, run_at, status, created_at, updated_at
	          FROM scheduled_posts WHERE id = ?`
	err := s.db.GetContext(ctx, &post, query, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No scheduled post found", "post_id", id)
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting scheduled post", "post_id", id, "error", err)
		return nil, fmt.Errorf("failed to get scheduled post %d: %w", id, err)
	}
	return &post, nil
}

// ListPendingPosts retrieves all pending posts ordered by run time.
func (s *sqlxStore) ListPendingPosts(ctx context.Context) ([]ScheduledPost, error) {
	var posts []ScheduledPost
	query := `SELECT id, channel_id, content, buttons, run_at, status, created_at, updated_at
	          FROM scheduled_posts WHERE status = ? ORDER BY run_at`
	if err := s.db.SelectContext(ctx, &posts, query, PostStatusPending); err != nil {
		s.logger.ErrorContext(ctx, "Error listing pending posts", "error", err)
		return nil, fmt.Errorf("failed to list pending posts: %w", err)
	}
	return posts, nil
}

// SetScheduledPostStatus transitions a post to the given status.
func (s *sqlxStore) SetScheduledPostStatus(ctx context.Context, id int64, status string) error {
	if id == 0 {
		return fmt.Errorf("post id cannot be zero")
	}
	switch status {
	case PostStatusPending, PostStatusPublished, PostStatusFailed:
	default:
		return fmt.Errorf("invalid scheduled post status %q", status)
	}

	query := `UPDATE scheduled_posts SET status = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating scheduled post status",
			"post_id", id, "status", status, "error", err)
		return fmt.Errorf("failed to update status of scheduled post %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected updating post status",
			"post_id", id, "status", status, "affected", affected)
	}

	s.logger.DebugContext(ctx, "Scheduled post status updated", "post_id", id, "status", status)
	return nil
}

// SaveAlertPayload inserts an alert payload row. Existing rows are never mutated.
func (s *sqlxStore) SaveAlertPayload(ctx context.Context, payload *AlertPayload) error {
	if payload == nil {
		return fmt.Errorf("cannot save nil alert payload")
	}
	if payload.ID == "" {
		return fmt.Errorf("alert payload must have a non-empty id")
	}

	payload.CreatedAt = time.Now().UTC()

	query := `INSERT INTO alert_payloads (id, text, created_at) VALUES (:id, :text, :created_at)`
	if _, err := s.db.NamedExecContext(ctx, query, payload); err != nil {
		s.logger.ErrorContext(ctx, "Error saving alert payload", "alert_id", payload.ID, "error", err)
		return fmt.Errorf("failed to save alert payload %s: %w", payload.ID, err)
	}

	s.logger.DebugContext(ctx, "Alert payload saved", "alert_id", payload.ID)
	return nil
}

// GetAlertPayload retrieves an alert payload by id. Returns nil, nil if not found.
func (s *sqlxStore) GetAlertPayload(ctx context.Context, id string) (*AlertPayload, error) {
	if id == "" {
		return nil, fmt.Errorf("alert id cannot be empty")
	}

	var payload AlertPayload
	query := `SELECT id, text, created_at FROM alert_payloads WHERE id = ?`
	err := s.db.GetContext(ctx, &payload, query, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No alert payload found", "alert_id", id)
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting alert payload", "alert_id", id, "error", err)
		return nil, fmt.Errorf("failed to get alert payload %s: %w", id, err)
	}
	return &payload, nil
}
