package handlers

import (
	"context"
	"log/slog"

	"channel-post-bot/internal/config"
	"channel-post-bot/internal/database"
	"channel-post-bot/internal/locale"
	"channel-post-bot/internal/post"
	"channel-post-bot/internal/translate"
)

// HandlerDeps provides dependencies for Telegram handlers.
type HandlerDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Store      database.Store
	Publisher  *post.Publisher
	Renderer   *post.Renderer
	Translator translate.Translator
	Sessions   *Sessions
}

// userLang resolves the stored language for a user, registering the user
// on first contact. Lookup failures fall back to the default language.
func (d HandlerDeps) userLang(ctx context.Context, userID int64) string {
	user, err := d.Store.GetOrCreateUser(ctx, userID, locale.DefaultLang)
	if err != nil {
		d.Logger.WarnContext(ctx, "Failed to resolve user language", "error", err, "user_id", userID)

		return locale.DefaultLang
	}

	return locale.Normalize(user.Language)
}
