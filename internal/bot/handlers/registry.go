package handlers

import (
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"channel-post-bot/internal/post"
)

// RegisteredHandler pairs a handler with its registration parameters.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	MatchType   tgbot.MatchType
}

// RegisterAll attaches every handler to the bot: the /start command, the
// callback handlers, and the default wizard handler for plain messages.
// Patterns are disjoint, so registration order does not matter.
func RegisterAll(b *tgbot.Bot, deps HandlerDeps) {
	for _, h := range All(deps) {
		b.RegisterHandler(h.HandlerType, h.Pattern, h.MatchType, h.Handler)
	}

	// Non-command messages drive the wizard. Commands and callbacks are
	// excluded so the pattern handlers above stay authoritative.
	compose := NewComposeHandler(deps)
	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.Message != nil && !strings.HasPrefix(update.Message.Text, "/")
	}, compose)
}

// All returns the pattern-matched handlers keyed by a descriptive name.
func All(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}

	handlers["alert"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     post.AlertCallbackPrefix,
		Handler:     NewAlertHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}
	handlers["preview"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     post.PreviewCallbackPrefix,
		Handler:     NewPreviewAlertHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}
	handlers["channel_select"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     cbChannelSelect,
		Handler:     NewChannelSelectHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}

	wizard := NewWizardCallbackHandler(deps)
	for _, data := range []string{
		cbChannelAdd,
		cbButtonURL, cbButtonAlert, cbButtonTranslate, cbButtonClear,
		cbPostDone, cbPostCancel,
		cbPublishNow, cbPublishSchedule,
		cbTogglePin, cbToggleSilent, cbBackEdit,
		cbSetDenied, cbSetScheduled, cbSetLanguage,
	} {
		handlers[data] = RegisteredHandler{
			HandlerType: tgbot.HandlerTypeCallbackQueryData,
			Pattern:     data,
			Handler:     wizard,
			MatchType:   tgbot.MatchTypeExact,
		}
	}

	return handlers
}
