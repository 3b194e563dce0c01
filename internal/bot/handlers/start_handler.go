package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"channel-post-bot/internal/locale"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)

		return
	}

	userID := update.Message.From.ID
	lang := h.deps.userLang(ctx, userID)

	sess := h.deps.Sessions.Get(userID)
	sess.Lock()
	sess.Reset()
	sess.Unlock()

	log.InfoContext(ctx, "Handling /start command", "chat_id", update.Message.Chat.ID, "user_id", userID)

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        locale.Text(lang, "start.greeting"),
		ReplyMarkup: mainMenuKeyboard(lang),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send greeting", "error", err, "chat_id", update.Message.Chat.ID)
	}
}
