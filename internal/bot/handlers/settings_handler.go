package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"channel-post-bot/internal/locale"
	"channel-post-bot/internal/post"
)

// saveDeniedText stores the operator-provided access denied message.
func (h *composeHandler) saveDeniedText(ctx context.Context, b *bot.Bot, msg *models.Message, lang string, sess *Session) {
	log := h.deps.Logger.With("handler", "settings")

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "settings.denied_prompt"), nil)

		return
	}

	if err := h.deps.Store.SaveAccessDeniedText(ctx, text); err != nil {
		log.ErrorContext(ctx, "Failed to save access denied text", "error", err)
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "error.generic"), nil)

		return
	}

	sess.State = StateIdle
	sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "settings.denied_saved"), mainMenuKeyboard(lang))
}

// sendScheduledList shows the pending scheduled posts with their targets
// and run times.
func sendScheduledList(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID int64, lang string) {
	log := deps.Logger.With("handler", "settings")

	pending, err := deps.Store.ListPendingPosts(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list pending posts", "error", err)
		sendMessage(ctx, b, log, chatID, locale.Text(lang, "error.generic"), nil)

		return
	}

	if len(pending) == 0 {
		sendMessage(ctx, b, log, chatID, locale.Text(lang, "settings.no_pending"), nil)

		return
	}

	lines := make([]string, 0, len(pending))
	for _, record := range pending {
		title := channelTitle(ctx, deps, record.ChannelID)
		lines = append(lines, locale.Text(lang, "settings.pending_row",
			record.ID, title, record.RunAt.Local().Format(post.ScheduleTimeLayout)))
	}

	sendMessage(ctx, b, log, chatID, strings.Join(lines, "\n"), nil)
}

func channelTitle(ctx context.Context, deps HandlerDeps, channelID int64) string {
	channel, err := deps.Store.GetChannel(ctx, channelID)
	if err != nil || channel == nil {
		return "?"
	}

	return channel.Title
}

// switchLanguage flips the user's interface language between English and
// Russian and re-renders the menus in the new language.
func switchLanguage(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID, userID int64, lang string) {
	log := deps.Logger.With("handler", "settings")

	next := locale.LangRU
	if lang == locale.LangRU {
		next = locale.LangEN
	}

	if err := deps.Store.SetUserLanguage(ctx, userID, next); err != nil {
		log.ErrorContext(ctx, "Failed to switch language", "error", err, "user_id", userID)
		sendMessage(ctx, b, log, chatID, locale.Text(lang, "error.generic"), nil)

		return
	}

	sendMessage(ctx, b, log, chatID, locale.Text(next, "settings.lang_set"), mainMenuKeyboard(next))
	sendMessage(ctx, b, log, chatID, locale.Text(next, "settings.menu"), settingsKeyboard(next))
}
