package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"channel-post-bot/internal/database"
	"channel-post-bot/internal/locale"
)

// registerChannel handles a forwarded channel message during channel
// registration. The bot must be an administrator of the source channel.
func (h *composeHandler) registerChannel(ctx context.Context, b *bot.Bot, msg *models.Message, lang string, sess *Session) {
	log := h.deps.Logger.With("handler", "channels")

	if msg.ForwardOrigin == nil || msg.ForwardOrigin.Type != models.MessageOriginTypeChannel {
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "channel.not_forward"), nil)

		return
	}

	source := msg.ForwardOrigin.MessageOriginChannel.Chat
	title := source.Title
	if title == "" {
		title = source.Username
	}

	member, err := b.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: source.ID,
		UserID: h.deps.Config.Telegram.BotInfo.ID,
	})
	if err != nil || !isChannelAdmin(member) {
		if err != nil {
			log.WarnContext(ctx, "Failed to check channel membership", "error", err, "channel_id", source.ID)
		}

		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "channel.not_admin", title), nil)

		return
	}

	existing, err := h.deps.Store.GetChannelByTelegramID(ctx, source.ID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to look up channel", "error", err, "channel_id", source.ID)
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "error.generic"), nil)

		return
	}

	if existing != nil {
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "channel.duplicate", existing.Title), nil)

		return
	}

	channel := &database.Channel{
		TelegramID: source.ID,
		Title:      title,
		AddedBy:    msg.From.ID,
	}
	if err := h.deps.Store.SaveChannel(ctx, channel); err != nil {
		log.ErrorContext(ctx, "Failed to save channel", "error", err, "channel_id", source.ID)
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "error.generic"), nil)

		return
	}

	log.InfoContext(ctx, "Channel registered", "channel_id", channel.ID, "telegram_id", source.ID, "title", title)

	sess.State = StateIdle
	sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "channel.added", title), mainMenuKeyboard(lang))
}

func isChannelAdmin(member *models.ChatMember) bool {
	if member == nil {
		return false
	}

	return member.Type == models.ChatMemberTypeOwner || member.Type == models.ChatMemberTypeAdministrator
}
