// Package handlers contains the Telegram wizard, callback handlers, and
// their registration logic and middleware.
package handlers

import (
	"context"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"channel-post-bot/internal/locale"
	"channel-post-bot/internal/post"
)

// AdminOnly creates a middleware restricting the bot to the configured
// admin users. Alert callbacks are exempt: they come from channel readers
// pressing buttons on published posts. Everyone else gets the configurable
// access denied text.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.CallbackQuery != nil {
				if strings.HasPrefix(update.CallbackQuery.Data, post.AlertCallbackPrefix) {
					next(ctx, b, update)

					return
				}

				if deps.Config.Telegram.IsAdmin(update.CallbackQuery.From.ID) {
					next(ctx, b, update)

					return
				}

				_, err := b.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
					CallbackQueryID: update.CallbackQuery.ID,
					Text:            deniedText(ctx, deps),
					ShowAlert:       true,
				})
				if err != nil {
					deps.Logger.ErrorContext(ctx, "Failed to answer denied callback", "error", err)
				}

				return
			}

			if update.Message == nil || update.Message.From == nil {
				return
			}

			userID := update.Message.From.ID
			if deps.Config.Telegram.IsAdmin(userID) {
				next(ctx, b, update)

				return
			}

			log := deps.Logger.With("middleware", "AdminOnly")
			log.WarnContext(ctx, "Unauthorized access attempt", "user_id", userID, "chat_id", update.Message.Chat.ID)

			_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
				ChatID: update.Message.Chat.ID,
				Text:   deniedText(ctx, deps),
			})
			if err != nil {
				log.ErrorContext(ctx, "Failed to send unauthorized message", "error", err, "chat_id", update.Message.Chat.ID)
			}
		}
	}
}

// deniedText prefers the operator-configured text over the built-in one.
func deniedText(ctx context.Context, deps HandlerDeps) string {
	settings, err := deps.Store.GetSettings(ctx)
	if err == nil && settings != nil && settings.AccessDeniedText != "" {
		return settings.AccessDeniedText
	}

	return locale.Text(locale.DefaultLang, "access.denied")
}
