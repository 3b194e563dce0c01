package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"channel-post-bot/internal/locale"
	"channel-post-bot/internal/post"
)

// NewAlertHandler returns the handler for alert buttons on published
// posts. It is the only handler reachable by non-admin users.
func NewAlertHandler(deps HandlerDeps) bot.HandlerFunc {
	return alertHandler{deps}.Handle
}

type alertHandler struct {
	deps HandlerDeps
}

func (h alertHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}

	log := h.deps.Logger.With("handler", "alert")

	id, ok := post.ParseAlertCallback(cb.Data)
	if !ok {
		answerCallback(ctx, b, log, cb.ID, locale.Text(locale.DefaultLang, "alert.missing"), true)

		return
	}

	payload, err := h.deps.Store.GetAlertPayload(ctx, id)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load alert payload", "error", err, "alert_id", id)
	}

	if payload == nil {
		answerCallback(ctx, b, log, cb.ID, locale.Text(locale.DefaultLang, "alert.missing"), true)

		return
	}

	answerCallback(ctx, b, log, cb.ID, payload.Text, true)
}

// NewPreviewAlertHandler returns the handler for alert buttons on a draft
// preview, keyed by the per-button preview token.
func NewPreviewAlertHandler(deps HandlerDeps) bot.HandlerFunc {
	return previewAlertHandler{deps}.Handle
}

type previewAlertHandler struct {
	deps HandlerDeps
}

func (h previewAlertHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}

	log := h.deps.Logger.With("handler", "preview_alert")
	lang := h.deps.userLang(ctx, cb.From.ID)

	token, ok := post.ParsePreviewCallback(cb.Data)
	if !ok {
		answerCallback(ctx, b, log, cb.ID, locale.Text(lang, "alert.missing"), true)

		return
	}

	sess := h.deps.Sessions.Get(cb.From.ID)
	sess.Lock()
	defer sess.Unlock()

	if sess.Draft != nil {
		for _, button := range sess.Draft.Buttons {
			if button.PreviewToken == token {
				answerCallback(ctx, b, log, cb.ID, button.AlertText, true)

				return
			}
		}
	}

	answerCallback(ctx, b, log, cb.ID, locale.Text(lang, "alert.missing"), true)
}

// NewChannelSelectHandler returns the handler for channel choice at the
// start of a composition.
func NewChannelSelectHandler(deps HandlerDeps) bot.HandlerFunc {
	return channelSelectHandler{deps}.Handle
}

type channelSelectHandler struct {
	deps HandlerDeps
}

func (h channelSelectHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}

	log := h.deps.Logger.With("handler", "channel_select")
	lang := h.deps.userLang(ctx, cb.From.ID)
	chatID := callbackChatID(cb)

	answerCallback(ctx, b, log, cb.ID, "", false)

	id, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, cbChannelSelect), 10, 64)
	if err != nil {
		log.WarnContext(ctx, "Malformed channel callback", "data", cb.Data)

		return
	}

	channel, err := h.deps.Store.GetChannel(ctx, id)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load channel", "error", err, "channel_id", id)
		sendMessage(ctx, b, log, chatID, locale.Text(lang, "error.generic"), nil)

		return
	}

	if channel == nil {
		sendMessage(ctx, b, log, chatID, locale.Text(lang, "channel.gone"), nil)

		return
	}

	sess := h.deps.Sessions.Get(cb.From.ID)
	sess.Lock()
	sess.Draft = &post.Draft{ChannelID: channel.ID}
	sess.State = StateAwaitContent
	sess.Unlock()

	sendMessage(ctx, b, log, chatID, locale.Text(lang, "content.prompt"), nil)
}

// NewWizardCallbackHandler returns the handler for all exact-match wizard
// callbacks: button sub-flows, confirmation toggles, publication, and
// settings actions.
func NewWizardCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return wizardCallbackHandler{deps}.Handle
}

type wizardCallbackHandler struct {
	deps HandlerDeps
}

func (h wizardCallbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}

	log := h.deps.Logger.With("handler", "wizard_callback", "data", cb.Data)
	userID := cb.From.ID
	lang := h.deps.userLang(ctx, userID)
	chatID := callbackChatID(cb)

	sess := h.deps.Sessions.Get(userID)
	sess.Lock()
	defer sess.Unlock()

	switch cb.Data {
	case cbChannelAdd:
		answerCallback(ctx, b, log, cb.ID, "", false)
		sess.State = StateAwaitChannelForward
		sendMessage(ctx, b, log, chatID, locale.Text(lang, "channel.forward"), nil)

	case cbButtonURL, cbButtonAlert:
		if sess.Draft == nil {
			answerCallback(ctx, b, log, cb.ID, locale.Text(lang, "error.generic"), false)

			return
		}

		answerCallback(ctx, b, log, cb.ID, "", false)

		if cb.Data == cbButtonURL {
			sess.State = StateAwaitURLLabel
			sendMessage(ctx, b, log, chatID, locale.Text(lang, "buttons.url_label"), nil)
		} else {
			sess.State = StateAwaitAlertLabel
			sendMessage(ctx, b, log, chatID, locale.Text(lang, "buttons.alert_label"), nil)
		}

	case cbButtonTranslate:
		switch {
		case h.deps.Translator == nil:
			answerCallback(ctx, b, log, cb.ID, locale.Text(lang, "translate.disabled"), false)
		case sess.Draft == nil || sess.Draft.Content.FirstText() == "":
			answerCallback(ctx, b, log, cb.ID, locale.Text(lang, "translate.empty"), false)
		default:
			answerCallback(ctx, b, log, cb.ID, "", false)
			sess.State = StateAwaitTranslationLang
			sendMessage(ctx, b, log, chatID, locale.Text(lang, "translate.prompt"), nil)
		}

	case cbButtonClear:
		if sess.Draft != nil {
			sess.Draft.Buttons = nil
		}

		answerCallback(ctx, b, log, cb.ID, locale.Text(lang, "buttons.cleared"), false)

	case cbPostDone:
		answerCallback(ctx, b, log, cb.ID, "", false)
		h.showConfirmation(ctx, b, log, chatID, lang, sess)

	case cbPostCancel:
		answerCallback(ctx, b, log, cb.ID, "", false)
		sess.Reset()
		sendMessage(ctx, b, log, chatID, locale.Text(lang, "post.cancelled"), mainMenuKeyboard(lang))

	case cbTogglePin, cbToggleSilent:
		if sess.Draft == nil {
			answerCallback(ctx, b, log, cb.ID, locale.Text(lang, "error.generic"), false)

			return
		}

		if cb.Data == cbTogglePin {
			sess.Draft.Pinned = !sess.Draft.Pinned
		} else {
			sess.Draft.Silent = !sess.Draft.Silent
		}

		answerCallback(ctx, b, log, cb.ID, "", false)
		h.refreshOptions(ctx, b, log, cb, lang, sess)

	case cbBackEdit:
		if sess.Draft == nil {
			answerCallback(ctx, b, log, cb.ID, locale.Text(lang, "error.generic"), false)

			return
		}

		answerCallback(ctx, b, log, cb.ID, "", false)
		sess.State = StateAwaitButtons
		sendMessage(ctx, b, log, chatID, locale.Text(lang, "buttons.prompt"), buttonsMenuKeyboard(lang))

	case cbPublishNow:
		answerCallback(ctx, b, log, cb.ID, "", false)
		h.publishNow(ctx, b, log, chatID, lang, sess)

	case cbPublishSchedule:
		if sess.Draft == nil {
			answerCallback(ctx, b, log, cb.ID, locale.Text(lang, "error.generic"), false)

			return
		}

		answerCallback(ctx, b, log, cb.ID, "", false)
		sess.State = StateAwaitScheduleTime
		sendMessage(ctx, b, log, chatID, locale.Text(lang, "schedule.prompt"), nil)

	case cbSetDenied:
		answerCallback(ctx, b, log, cb.ID, "", false)
		sess.State = StateAwaitDeniedText
		sendMessage(ctx, b, log, chatID, locale.Text(lang, "settings.denied_prompt"), nil)

	case cbSetScheduled:
		answerCallback(ctx, b, log, cb.ID, "", false)
		sendScheduledList(ctx, b, h.deps, chatID, lang)

	case cbSetLanguage:
		answerCallback(ctx, b, log, cb.ID, "", false)
		switchLanguage(ctx, b, h.deps, chatID, userID, lang)

	default:
		log.WarnContext(ctx, "Unhandled callback data")
		answerCallback(ctx, b, log, cb.ID, "", false)
	}
}

// showConfirmation renders the draft preview with live alert buttons and
// presents the publication options.
func (h wizardCallbackHandler) showConfirmation(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, lang string, sess *Session) {
	if sess.Draft == nil || sess.Draft.Content == nil {
		sendMessage(ctx, b, log, chatID, locale.Text(lang, "error.generic"), mainMenuKeyboard(lang))

		return
	}

	// Preview is always silent: it lands in the admin chat, not the channel.
	_, err := h.deps.Renderer.Render(ctx, chatID, sess.Draft.Content, post.PreviewKeyboard(sess.Draft.Buttons), true)
	if err != nil {
		log.ErrorContext(ctx, "Failed to render preview", "error", err)
		sendMessage(ctx, b, log, chatID, locale.Text(lang, "error.generic"), nil)

		return
	}

	sess.State = StateConfirmation
	sendMessage(ctx, b, log, chatID, locale.Text(lang, "preview.header"), publishOptionsKeyboard(lang, sess.Draft))
}

// refreshOptions re-renders the toggle keyboard in place.
func (h wizardCallbackHandler) refreshOptions(ctx context.Context, b *bot.Bot, log *slog.Logger, cb *models.CallbackQuery, lang string, sess *Session) {
	if cb.Message.Message == nil {
		return
	}

	_, err := b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      cb.Message.Message.Chat.ID,
		MessageID:   cb.Message.Message.ID,
		ReplyMarkup: publishOptionsKeyboard(lang, sess.Draft),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to update options keyboard", "error", err)
	}
}

func (h wizardCallbackHandler) publishNow(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, lang string, sess *Session) {
	if sess.Draft == nil || sess.Draft.Content == nil {
		sendMessage(ctx, b, log, chatID, locale.Text(lang, "error.generic"), mainMenuKeyboard(lang))

		return
	}

	if err := h.deps.Publisher.PublishNow(ctx, sess.Draft); err != nil {
		log.ErrorContext(ctx, "Failed to publish post", "error", err)

		if errors.Is(err, post.ErrChannelNotFound) {
			sendMessage(ctx, b, log, chatID, locale.Text(lang, "channel.gone"), nil)

			return
		}

		sendMessage(ctx, b, log, chatID, locale.Text(lang, "publish.failed", locale.Text(lang, "error.generic")), nil)

		return
	}

	sess.Reset()
	sendMessage(ctx, b, log, chatID, locale.Text(lang, "publish.done"), mainMenuKeyboard(lang))
}

// callbackChatID prefers the chat the pressed message lives in; wizard
// callbacks happen in the admin's private chat, so the sender id is an
// equivalent fallback for inaccessible messages.
func callbackChatID(cb *models.CallbackQuery) int64 {
	if cb.Message.Message != nil {
		return cb.Message.Message.Chat.ID
	}

	return cb.From.ID
}

func answerCallback(ctx context.Context, b *bot.Bot, log *slog.Logger, callbackID, text string, showAlert bool) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       showAlert,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to answer callback query", "error", err)
	}
}
