package handlers

import (
	"strconv"

	"github.com/go-telegram/bot/models"

	"channel-post-bot/internal/database"
	"channel-post-bot/internal/locale"
	"channel-post-bot/internal/post"
)

// Callback data values. Prefixed entries carry an identifier after the
// colon, the rest match exactly.
const (
	cbChannelSelect = "chsel:"

	cbChannelAdd      = "channel:add"
	cbButtonURL       = "btn:url"
	cbButtonAlert     = "btn:alert"
	cbButtonTranslate = "btn:translate"
	cbButtonClear     = "btn:clear"
	cbPostDone        = "post:done"
	cbPostCancel      = "post:cancel"
	cbPublishNow      = "pub:now"
	cbPublishSchedule = "pub:schedule"
	cbTogglePin       = "toggle:pin"
	cbToggleSilent    = "toggle:silent"
	cbBackEdit        = "back:edit"
	cbSetDenied       = "set:denied"
	cbSetScheduled    = "set:scheduled"
	cbSetLanguage     = "set:lang"
)

func mainMenuKeyboard(lang string) *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: locale.Text(lang, "menu.new_post")}},
			{
				{Text: locale.Text(lang, "menu.channels")},
				{Text: locale.Text(lang, "menu.settings")},
			},
		},
		ResizeKeyboard: true,
	}
}

// channelsKeyboard lists registered channels one per row, optionally with
// a trailing "add channel" row.
func channelsKeyboard(lang string, channels []database.Channel, withAdd bool) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(channels)+1)

	for _, ch := range channels {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         ch.Title,
			CallbackData: cbChannelSelect + strconv.FormatInt(ch.ID, 10),
		}})
	}

	if withAdd {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         locale.Text(lang, "channel.add"),
			CallbackData: cbChannelAdd,
		}})
	}

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func buttonsMenuKeyboard(lang string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: locale.Text(lang, "buttons.url"), CallbackData: cbButtonURL},
				{Text: locale.Text(lang, "buttons.alert"), CallbackData: cbButtonAlert},
			},
			{
				{Text: locale.Text(lang, "buttons.translate"), CallbackData: cbButtonTranslate},
				{Text: locale.Text(lang, "buttons.clear"), CallbackData: cbButtonClear},
			},
			{
				{Text: locale.Text(lang, "buttons.done"), CallbackData: cbPostDone},
				{Text: locale.Text(lang, "buttons.cancel"), CallbackData: cbPostCancel},
			},
		},
	}
}

// publishOptionsKeyboard reflects the draft's pin and silent flags in the
// toggle rows.
func publishOptionsKeyboard(lang string, draft *post.Draft) *models.InlineKeyboardMarkup {
	pinKey := "publish.pin_off"
	if draft.Pinned {
		pinKey = "publish.pin_on"
	}

	silentKey := "publish.silent_off"
	if draft.Silent {
		silentKey = "publish.silent_on"
	}

	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: locale.Text(lang, pinKey), CallbackData: cbTogglePin},
				{Text: locale.Text(lang, silentKey), CallbackData: cbToggleSilent},
			},
			{
				{Text: locale.Text(lang, "publish.now"), CallbackData: cbPublishNow},
				{Text: locale.Text(lang, "publish.schedule"), CallbackData: cbPublishSchedule},
			},
			{
				{Text: locale.Text(lang, "publish.back"), CallbackData: cbBackEdit},
				{Text: locale.Text(lang, "buttons.cancel"), CallbackData: cbPostCancel},
			},
		},
	}
}

func settingsKeyboard(lang string) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: locale.Text(lang, "settings.denied_text"), CallbackData: cbSetDenied}},
			{{Text: locale.Text(lang, "settings.scheduled"), CallbackData: cbSetScheduled}},
			{{Text: locale.Text(lang, "settings.language", languageName(lang)), CallbackData: cbSetLanguage}},
		},
	}
}

func languageName(lang string) string {
	if lang == locale.LangRU {
		return "Русский"
	}

	return "English"
}

// matchesMenu reports whether text equals the given menu label in any
// supported language, so a user can press buttons left over from before a
// language switch.
func matchesMenu(text, key string) bool {
	return text == locale.Text(locale.LangEN, key) || text == locale.Text(locale.LangRU, key)
}
