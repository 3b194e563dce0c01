// Package config manages application configuration from config.yaml,
// BOT_* environment variables, and default values.
package config

import (
	"time"

	"github.com/go-telegram/bot/models"
)

// Config defines the application configuration for all components of the
// channel post bot: logging, Telegram transport, storage, the album
// buffer, and the translation client.
type Config struct {
	Log        LogConfig        `mapstructure:"log"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Album      AlbumConfig      `mapstructure:"album"`
	Translator TranslatorConfig `mapstructure:"translator"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds bot credentials and the admin allow-list.
type TelegramConfig struct {
	Token    string  `mapstructure:"token"     validate:"required"`
	AdminIDs []int64 `mapstructure:"admin_ids" validate:"required,min=1,dive,gt=0"`

	// BotInfo is populated at startup from GetMe and is not read from config.
	BotInfo *models.User `mapstructure:"-"`
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// AlbumConfig controls the media-group quiescence buffer.
type AlbumConfig struct {
	Latency time.Duration `mapstructure:"latency" validate:"min=100ms,max=5s"`
}

// TranslatorConfig holds settings for the Gemini-backed translator.
// When APIKey is empty the translation button degrades to an error notice.
type TranslatorConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout" validate:"min=1s,max=5m"`
}

// IsAdmin reports whether the given Telegram user id is in the configured
// admin list.
func (c *TelegramConfig) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
