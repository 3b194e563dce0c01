package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"

	"channel-post-bot/internal/bot/album"
	"channel-post-bot/internal/locale"
	"channel-post-bot/internal/post"
)

// maxAlertTextLen caps alert text well under the Telegram alert popup
// limit.
const maxAlertTextLen = 200

// composeHandler is the default message handler. It drives the wizard:
// main menu entries, content capture (including albums), button sub-flows,
// schedule time entry, channel registration, and settings text entry.
type composeHandler struct {
	deps   HandlerDeps
	albums *album.Buffer

	// set on every update so album flush timers can reply
	bot atomic.Pointer[bot.Bot]
}

// NewComposeHandler returns the default handler for non-command messages.
func NewComposeHandler(deps HandlerDeps) bot.HandlerFunc {
	h := &composeHandler{deps: deps}
	h.albums = album.NewBuffer(deps.Config.Album.Latency, h.flushAlbum, deps.Logger)

	return h.Handle
}

func (h *composeHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	h.bot.Store(b)

	userID := msg.From.ID
	lang := h.deps.userLang(ctx, userID)
	sess := h.deps.Sessions.Get(userID)
	sess.Lock()
	defer sess.Unlock()

	log := h.deps.Logger.With("handler", "compose", "user_id", userID, "state", string(sess.State))

	// Main menu entries work from any state.
	switch {
	case matchesMenu(msg.Text, "menu.new_post"):
		h.startComposition(ctx, b, msg.Chat.ID, userID, lang, sess)

		return
	case matchesMenu(msg.Text, "menu.channels"):
		h.showChannels(ctx, b, msg.Chat.ID, lang, sess)

		return
	case matchesMenu(msg.Text, "menu.settings"):
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "settings.menu"), settingsKeyboard(lang))

		return
	}

	switch sess.State {
	case StateAwaitContent:
		if h.albums.Observe(ctx, msg) {
			return
		}

		h.captureContent(ctx, b, msg, lang, sess)
	case StateAwaitURLLabel:
		h.captureLabel(ctx, b, msg, lang, sess, StateAwaitURLLink, "buttons.url_link")
	case StateAwaitURLLink:
		h.captureURL(ctx, b, msg, lang, sess)
	case StateAwaitAlertLabel:
		h.captureLabel(ctx, b, msg, lang, sess, StateAwaitAlertText, "buttons.alert_text")
	case StateAwaitAlertText:
		h.captureAlertText(ctx, b, msg, lang, sess)
	case StateAwaitTranslationLang:
		h.translateDraft(ctx, b, msg, lang, sess)
	case StateAwaitScheduleTime:
		h.captureScheduleTime(ctx, b, msg, lang, sess)
	case StateAwaitChannelForward:
		h.registerChannel(ctx, b, msg, lang, sess)
	case StateAwaitDeniedText:
		h.saveDeniedText(ctx, b, msg, lang, sess)
	case StateSelectChannel:
		h.startComposition(ctx, b, msg.Chat.ID, userID, lang, sess)
	case StateAwaitButtons:
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "buttons.prompt"), buttonsMenuKeyboard(lang))
	case StateConfirmation:
		if sess.Draft != nil {
			sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "preview.header"), publishOptionsKeyboard(lang, sess.Draft))

			return
		}

		fallthrough
	default:
		log.DebugContext(ctx, "Ignoring message outside wizard", "text_len", len(msg.Text))
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "start.greeting"), mainMenuKeyboard(lang))
	}
}

// startComposition begins a new post, superseding any unfinished draft.
func (h *composeHandler) startComposition(ctx context.Context, b *bot.Bot, chatID, userID int64, lang string, sess *Session) {
	log := h.deps.Logger.With("handler", "compose")

	if sess.Draft != nil {
		sendMessage(ctx, b, log, chatID, locale.Text(lang, "post.superseded"), nil)
	}

	sess.Draft = nil

	channels, err := h.deps.Store.ListChannels(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list channels", "error", err)
		sendMessage(ctx, b, log, chatID, locale.Text(lang, "error.generic"), nil)

		return
	}

	// Without a registered channel the wizard cannot start; stay idle so
	// unrelated messages are not taken for registration attempts.
	if len(channels) == 0 {
		sess.Reset()
		sendMessage(ctx, b, log, chatID, locale.Text(lang, "channel.none"), mainMenuKeyboard(lang))

		return
	}

	sess.State = StateSelectChannel
	sendMessage(ctx, b, log, chatID, locale.Text(lang, "channel.pick"), channelsKeyboard(lang, channels, true))
}

func (h *composeHandler) showChannels(ctx context.Context, b *bot.Bot, chatID int64, lang string, sess *Session) {
	log := h.deps.Logger.With("handler", "channels")

	channels, err := h.deps.Store.ListChannels(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list channels", "error", err)
		sendMessage(ctx, b, log, chatID, locale.Text(lang, "error.generic"), nil)

		return
	}

	if len(channels) == 0 {
		sess.State = StateAwaitChannelForward
		sendMessage(ctx, b, log, chatID, locale.Text(lang, "channel.forward"), nil)

		return
	}

	sendMessage(ctx, b, log, chatID, locale.Text(lang, "channel.pick"), channelsKeyboard(lang, channels, true))
}

func (h *composeHandler) captureContent(ctx context.Context, b *bot.Bot, msg *models.Message, lang string, sess *Session) {
	log := h.deps.Logger.With("handler", "compose")

	if sess.Draft == nil {
		sess.Reset()
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "error.generic"), mainMenuKeyboard(lang))

		return
	}

	content := contentFromMessage(msg)
	if content == nil {
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "content.unknown"), nil)

		return
	}

	sess.Draft.Content = content
	sess.State = StateAwaitButtons
	h.showDraftPreview(ctx, log, msg.Chat.ID, sess)
	sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "buttons.prompt"), buttonsMenuKeyboard(lang))
}

// showDraftPreview renders the draft as it would appear in the channel,
// alert buttons keyed by preview token. Render failures are logged and
// the wizard moves on.
func (h *composeHandler) showDraftPreview(ctx context.Context, log *slog.Logger, chatID int64, sess *Session) {
	if sess.Draft == nil || sess.Draft.Content == nil {
		return
	}

	markup := post.PreviewKeyboard(sess.Draft.Buttons)
	if _, err := h.deps.Renderer.Render(ctx, chatID, sess.Draft.Content, markup, true); err != nil {
		log.ErrorContext(ctx, "Failed to render draft preview", "error", err, "chat_id", chatID)
	}
}

// flushAlbum is called by the buffer once a media group goes quiet.
func (h *composeHandler) flushAlbum(ctx context.Context, messages []*models.Message) {
	b := h.bot.Load()
	if b == nil || len(messages) == 0 {
		return
	}

	first := messages[0]
	if first.From == nil {
		return
	}

	userID := first.From.ID
	lang := h.deps.userLang(ctx, userID)

	sess := h.deps.Sessions.Get(userID)
	sess.Lock()
	defer sess.Unlock()

	log := h.deps.Logger.With("handler", "compose")

	if sess.State != StateAwaitContent || sess.Draft == nil {
		log.DebugContext(ctx, "Dropping album outside content step", "items", len(messages), "state", string(sess.State))

		return
	}

	items := make([]post.MediaItem, 0, len(messages))
	for _, msg := range messages {
		if item := mediaItemFromMessage(msg); item != nil {
			items = append(items, *item)
		}
	}

	if len(items) == 0 {
		sendMessage(ctx, b, log, first.Chat.ID, locale.Text(lang, "content.unknown"), nil)

		return
	}

	sess.Draft.Content = &post.Content{Type: post.ContentAlbum, Items: items}
	sess.State = StateAwaitButtons
	h.showDraftPreview(ctx, log, first.Chat.ID, sess)
	sendMessage(ctx, b, log, first.Chat.ID, locale.Text(lang, "buttons.prompt"), buttonsMenuKeyboard(lang))
}

func (h *composeHandler) captureLabel(ctx context.Context, b *bot.Bot, msg *models.Message, lang string, sess *Session, next State, promptKey string) {
	log := h.deps.Logger.With("handler", "compose")

	label := strings.TrimSpace(msg.Text)
	if label == "" {
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "content.unknown"), nil)

		return
	}

	sess.PendingLabel = label
	sess.State = next
	sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, promptKey), nil)
}

func (h *composeHandler) captureURL(ctx context.Context, b *bot.Bot, msg *models.Message, lang string, sess *Session) {
	log := h.deps.Logger.With("handler", "compose")

	link := strings.TrimSpace(msg.Text)
	if !validHTTPURL(link) {
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "buttons.url_invalid"), nil)

		return
	}

	if sess.Draft == nil {
		sess.Reset()
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "error.generic"), mainMenuKeyboard(lang))

		return
	}

	sess.Draft.Buttons = append(sess.Draft.Buttons, post.Button{
		Kind:  post.ButtonURL,
		Label: sess.PendingLabel,
		URL:   link,
	})
	sess.PendingLabel = ""
	sess.State = StateAwaitButtons
	h.showDraftPreview(ctx, log, msg.Chat.ID, sess)
	sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "buttons.prompt"), buttonsMenuKeyboard(lang))
}

func (h *composeHandler) captureAlertText(ctx context.Context, b *bot.Bot, msg *models.Message, lang string, sess *Session) {
	log := h.deps.Logger.With("handler", "compose")

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "content.unknown"), nil)

		return
	}

	if utf8.RuneCountInString(text) > maxAlertTextLen {
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "buttons.alert_long"), nil)

		return
	}

	if sess.Draft == nil {
		sess.Reset()
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "error.generic"), mainMenuKeyboard(lang))

		return
	}

	sess.Draft.Buttons = append(sess.Draft.Buttons, post.Button{
		Kind:         post.ButtonAlert,
		Label:        sess.PendingLabel,
		AlertText:    text,
		PreviewToken: newPreviewToken(),
	})
	sess.PendingLabel = ""
	sess.State = StateAwaitButtons
	h.showDraftPreview(ctx, log, msg.Chat.ID, sess)
	sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "buttons.prompt"), buttonsMenuKeyboard(lang))
}

func (h *composeHandler) translateDraft(ctx context.Context, b *bot.Bot, msg *models.Message, lang string, sess *Session) {
	log := h.deps.Logger.With("handler", "compose")

	target := strings.TrimSpace(msg.Text)
	if target == "" || sess.Draft == nil || sess.Draft.Content == nil {
		sess.State = StateAwaitButtons
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "buttons.prompt"), buttonsMenuKeyboard(lang))

		return
	}

	if h.deps.Translator == nil {
		sess.State = StateAwaitButtons
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "translate.disabled"), buttonsMenuKeyboard(lang))

		return
	}

	source := sess.Draft.Content.FirstText()

	translated, err := h.deps.Translator.Translate(ctx, source, target)
	if err != nil {
		log.WarnContext(ctx, "Translation failed", "error", err, "target", target)
		sess.State = StateAwaitButtons
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "translate.failed"), buttonsMenuKeyboard(lang))

		return
	}

	if runes := []rune(translated); len(runes) > maxAlertTextLen {
		translated = string(runes[:maxAlertTextLen])
	}

	sess.Draft.Buttons = append(sess.Draft.Buttons, post.Button{
		Kind:         post.ButtonAlert,
		Label:        translationLabel(target),
		AlertText:    translated,
		PreviewToken: newPreviewToken(),
	})
	sess.State = StateAwaitButtons
	sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "translate.added"), nil)
	h.showDraftPreview(ctx, log, msg.Chat.ID, sess)
	sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "buttons.prompt"), buttonsMenuKeyboard(lang))
}

// translationLabel names the alert button carrying a translation.
func translationLabel(target string) string {
	norm := strings.ToLower(strings.TrimSpace(target))
	if norm == "en" || norm == "english" {
		return "🇺🇸 English"
	}

	return "Translation (" + target + ")"
}

func (h *composeHandler) captureScheduleTime(ctx context.Context, b *bot.Bot, msg *models.Message, lang string, sess *Session) {
	log := h.deps.Logger.With("handler", "compose")

	runAt, err := post.ParseScheduleTime(strings.TrimSpace(msg.Text), time.Now())
	if err != nil {
		key := "schedule.invalid"
		if errors.Is(err, post.ErrPastScheduleTime) {
			key = "schedule.past"
		}

		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, key), nil)

		return
	}

	if sess.Draft == nil {
		sess.Reset()
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "error.generic"), mainMenuKeyboard(lang))

		return
	}

	if _, err := h.deps.Publisher.Schedule(ctx, sess.Draft, runAt); err != nil {
		log.ErrorContext(ctx, "Failed to schedule post", "error", err)
		sendMessage(ctx, b, log, msg.Chat.ID, locale.Text(lang, "error.generic"), nil)

		return
	}

	sess.Reset()
	sendMessage(ctx, b, log, msg.Chat.ID,
		locale.Text(lang, "schedule.done", runAt.Format(post.ScheduleTimeLayout)),
		mainMenuKeyboard(lang))
}

// contentFromMessage maps an incoming message onto draft content. Returns
// nil for message kinds the wizard does not accept.
func contentFromMessage(msg *models.Message) *post.Content {
	if item := mediaItemFromMessage(msg); item != nil {
		return &post.Content{Type: post.ContentType(item.Kind), Media: item}
	}

	if msg.Text != "" {
		return &post.Content{Type: post.ContentText, Text: msg.Text, Entities: msg.Entities}
	}

	return nil
}

// mediaItemFromMessage extracts the single media attachment, if any. The
// largest photo size is kept.
func mediaItemFromMessage(msg *models.Message) *post.MediaItem {
	switch {
	case len(msg.Photo) > 0:
		photo := msg.Photo[len(msg.Photo)-1]

		return &post.MediaItem{Kind: post.MediaPhoto, FileID: photo.FileID, Caption: msg.Caption, CaptionEntities: msg.CaptionEntities}
	case msg.Video != nil:
		return &post.MediaItem{Kind: post.MediaVideo, FileID: msg.Video.FileID, Caption: msg.Caption, CaptionEntities: msg.CaptionEntities}
	case msg.Document != nil:
		return &post.MediaItem{Kind: post.MediaDocument, FileID: msg.Document.FileID, Caption: msg.Caption, CaptionEntities: msg.CaptionEntities}
	case msg.Audio != nil:
		return &post.MediaItem{Kind: post.MediaAudio, FileID: msg.Audio.FileID, Caption: msg.Caption, CaptionEntities: msg.CaptionEntities}
	}

	return nil
}

// newPreviewToken keys preview alert buttons before a durable alert id
// exists.
func newPreviewToken() string {
	return uuid.NewString()
}

func validHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// sendMessage sends and logs delivery failures, shared by all handlers.
func sendMessage(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string, markup models.ReplyMarkup) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}
