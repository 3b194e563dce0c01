package config_test

import (
	"testing"

	"channel-post-bot/internal/config"
)

func TestIsAdmin(t *testing.T) {
	t.Parallel()

	cfg := config.TelegramConfig{AdminIDs: []int64{10, 20}}

	if !cfg.IsAdmin(10) || !cfg.IsAdmin(20) {
		t.Error("configured ids must be admins")
	}

	if cfg.IsAdmin(30) || cfg.IsAdmin(0) {
		t.Error("unknown ids must not be admins")
	}
}

func TestLoadFailsWithoutToken(t *testing.T) {
	// Not parallel: Load reads process environment.
	t.Setenv("BOT_TELEGRAM_TOKEN", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("Load must fail when no token is configured")
	}
}
