// Package locale holds the user-facing strings in English and Russian.
package locale

import "fmt"

// Supported language codes.
const (
	LangEN = "en"
	LangRU = "ru"
)

// DefaultLang is used for new users and unknown language codes.
const DefaultLang = LangEN

var en = map[string]string{
	"menu.new_post": "📝 New post",
	"menu.channels": "📣 Channels",
	"menu.settings": "⚙️ Settings",

	"start.greeting": "Hi! I help you compose and publish channel posts. Pick an action below.",

	"channel.pick":       "Where should this post go?",
	"channel.none":       "No channels registered yet. Open the Channels menu to add one.",
	"channel.add":        "➕ Add channel",
	"channel.forward":    "Forward me any message from the channel. I must be an administrator there.",
	"channel.not_forward": "That is not a forwarded channel message. Forward me a message straight from the channel.",
	"channel.not_admin":  "I am not an administrator of %s. Promote me there and try again.",
	"channel.duplicate":  "%s is already registered.",
	"channel.added":      "Channel %s registered.",
	"channel.gone":       "That channel is no longer registered.",

	"content.prompt":  "Send me the post content: text, a photo, video, document, audio, or an album.",
	"content.unknown": "I cannot use that as post content. Send text, media, or an album.",

	"buttons.prompt":       "Attach buttons to the post, or press Done.",
	"buttons.url":          "🔗 URL button",
	"buttons.alert":        "💬 Alert button",
	"buttons.translate":    "🌐 Translate",
	"buttons.clear":        "🗑 Remove buttons",
	"buttons.cleared":      "Buttons removed.",
	"buttons.done":         "✅ Done",
	"buttons.cancel":       "❌ Cancel",
	"buttons.url_label":    "Send the label for the URL button.",
	"buttons.url_link":     "Now send the URL it should open.",
	"buttons.url_invalid":  "That does not look like a valid http(s) URL. Try again.",
	"buttons.alert_label":  "Send the label for the alert button.",
	"buttons.alert_text":   "Now send the alert text (up to 200 characters).",
	"buttons.alert_long":   "Alert text is limited to 200 characters. Send a shorter one.",

	"translate.prompt":   "Which language should I translate the text into? Send a language name or code.",
	"translate.empty":    "The post has no text to translate.",
	"translate.disabled": "Translation is not configured.",
	"translate.failed":   "Translation failed, the draft is unchanged.",
	"translate.added":    "Translation added as an alert button.",

	"preview.header": "Here is the preview. Check it and choose what to do next.",

	"publish.now":       "🚀 Publish now",
	"publish.schedule":  "⏰ Schedule",
	"publish.pin_on":    "📌 Pin: on",
	"publish.pin_off":   "📌 Pin: off",
	"publish.silent_on": "🔕 Silent: on",
	"publish.silent_off": "🔕 Silent: off",
	"publish.back":      "◀️ Back to editing",
	"publish.done":      "Post published.",
	"publish.failed":    "Publishing failed: %s",

	"schedule.prompt":  "When should it go out? Send the time as DD.MM.YYYY HH:MM.",
	"schedule.invalid": "I could not read that time. Use DD.MM.YYYY HH:MM, for example 24.12.2026 18:30.",
	"schedule.past":    "That time is already in the past. Send a future time.",
	"schedule.done":    "Post scheduled for %s.",

	"post.cancelled":  "Post discarded.",
	"post.superseded": "Previous unfinished post discarded.",

	"settings.menu":         "Settings",
	"settings.denied_text":  "✏️ Access denied text",
	"settings.scheduled":    "🗓 Scheduled posts",
	"settings.language":     "🌐 Language: %s",
	"settings.denied_prompt": "Send the new text shown to non-admin users.",
	"settings.denied_saved": "Access denied text updated.",
	"settings.lang_set":     "Language switched to English.",
	"settings.no_pending":   "No pending scheduled posts.",
	"settings.pending_row":  "#%d → %s at %s",

	"alert.missing": "This button has expired.",

	"access.denied": "You are not allowed to use this bot.",

	"error.generic": "Something went wrong, try again.",
}

var ru = map[string]string{
	"menu.new_post": "📝 Новый пост",
	"menu.channels": "📣 Каналы",
	"menu.settings": "⚙️ Настройки",

	"start.greeting": "Привет! Я помогаю собирать и публиковать посты в каналы. Выберите действие ниже.",

	"channel.pick":       "В какой канал отправить пост?",
	"channel.none":       "Каналов пока нет. Откройте меню «Каналы», чтобы добавить канал.",
	"channel.add":        "➕ Добавить канал",
	"channel.forward":    "Перешлите мне любое сообщение из канала. Я должен быть там администратором.",
	"channel.not_forward": "Это не пересланное сообщение из канала. Перешлите сообщение прямо из канала.",
	"channel.not_admin":  "Я не администратор в %s. Назначьте меня и попробуйте снова.",
	"channel.duplicate":  "%s уже добавлен.",
	"channel.added":      "Канал %s добавлен.",
	"channel.gone":       "Этот канал больше не зарегистрирован.",

	"content.prompt":  "Отправьте содержимое поста: текст, фото, видео, документ, аудио или альбом.",
	"content.unknown": "Это не подходит как содержимое поста. Отправьте текст, медиа или альбом.",

	"buttons.prompt":       "Добавьте кнопки к посту или нажмите Готово.",
	"buttons.url":          "🔗 Кнопка-ссылка",
	"buttons.alert":        "💬 Кнопка-алерт",
	"buttons.translate":    "🌐 Перевести",
	"buttons.clear":        "🗑 Убрать кнопки",
	"buttons.cleared":      "Кнопки убраны.",
	"buttons.done":         "✅ Готово",
	"buttons.cancel":       "❌ Отмена",
	"buttons.url_label":    "Отправьте подпись для кнопки-ссылки.",
	"buttons.url_link":     "Теперь отправьте URL, который она откроет.",
	"buttons.url_invalid":  "Это не похоже на корректный http(s) URL. Попробуйте ещё раз.",
	"buttons.alert_label":  "Отправьте подпись для кнопки-алерта.",
	"buttons.alert_text":   "Теперь отправьте текст алерта (до 200 символов).",
	"buttons.alert_long":   "Текст алерта ограничен 200 символами. Отправьте короче.",

	"translate.prompt":   "На какой язык перевести текст? Отправьте название или код языка.",
	"translate.empty":    "В посте нет текста для перевода.",
	"translate.disabled": "Перевод не настроен.",
	"translate.failed":   "Перевод не удался, черновик не изменён.",
	"translate.added":    "Перевод добавлен кнопкой-оповещением.",

	"preview.header": "Вот предпросмотр. Проверьте и выберите, что делать дальше.",

	"publish.now":       "🚀 Опубликовать",
	"publish.schedule":  "⏰ Запланировать",
	"publish.pin_on":    "📌 Закрепить: да",
	"publish.pin_off":   "📌 Закрепить: нет",
	"publish.silent_on": "🔕 Без звука: да",
	"publish.silent_off": "🔕 Без звука: нет",
	"publish.back":      "◀️ Назад к редактированию",
	"publish.done":      "Пост опубликован.",
	"publish.failed":    "Публикация не удалась: %s",

	"schedule.prompt":  "Когда опубликовать? Отправьте время в формате ДД.ММ.ГГГГ ЧЧ:ММ.",
	"schedule.invalid": "Не удалось разобрать время. Формат ДД.ММ.ГГГГ ЧЧ:ММ, например 24.12.2026 18:30.",
	"schedule.past":    "Это время уже прошло. Отправьте время в будущем.",
	"schedule.done":    "Пост запланирован на %s.",

	"post.cancelled":  "Пост отменён.",
	"post.superseded": "Предыдущий незаконченный пост отменён.",

	"settings.menu":         "Настройки",
	"settings.denied_text":  "✏️ Текст отказа в доступе",
	"settings.scheduled":    "🗓 Запланированные посты",
	"settings.language":     "🌐 Язык: %s",
	"settings.denied_prompt": "Отправьте новый текст для пользователей без доступа.",
	"settings.denied_saved": "Текст отказа в доступе обновлён.",
	"settings.lang_set":     "Язык переключён на русский.",
	"settings.no_pending":   "Нет запланированных постов.",
	"settings.pending_row":  "#%d → %s в %s",

	"alert.missing": "Эта кнопка устарела.",

	"access.denied": "Вам нельзя пользоваться этим ботом.",

	"error.generic": "Что-то пошло не так, попробуйте ещё раз.",
}

var tables = map[string]map[string]string{
	LangEN: en,
	LangRU: ru,
}

// Normalize maps an arbitrary language code to a supported one.
func Normalize(lang string) string {
	if _, ok := tables[lang]; ok {
		return lang
	}

	return DefaultLang
}

// Text returns the localized string for key, formatted with args. Unknown
// languages fall back to English; unknown keys return the key itself so a
// missing translation is visible instead of silent.
func Text(lang, key string, args ...any) string {
	table := tables[Normalize(lang)]

	s, ok := table[key]
	if !ok {
		s, ok = en[key]
	}
	if !ok {
		return key
	}

	if len(args) == 0 {
		return s
	}

	return fmt.Sprintf(s, args...)
}
