package post

import (
	"strings"

	"github.com/go-telegram/bot/models"
)

// Callback data prefixes for alert buttons. Telegram caps callback data
// at 64 bytes, so controls carry only a short id; the payload text lives
// in the alert payload store.
const (
	AlertCallbackPrefix   = "alert:"
	PreviewCallbackPrefix = "preview:"
)

// Keyboard converts a button list into the transport inline keyboard,
// one button per row. URL buttons lacking a URL and alert buttons
// lacking a resolved alert id are silently dropped; Finalize is expected
// to have run before this is called for real delivery.
func Keyboard(buttons []Button) *models.InlineKeyboardMarkup {
	markup := &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{}}
	for _, btn := range buttons {
		switch btn.Kind {
		case ButtonURL:
			if btn.URL == "" {
				continue
			}
			markup.InlineKeyboard = append(markup.InlineKeyboard, []models.InlineKeyboardButton{
				{Text: btn.Label, URL: btn.URL},
			})
		case ButtonAlert:
			if btn.AlertID == "" {
				continue
			}
			markup.InlineKeyboard = append(markup.InlineKeyboard, []models.InlineKeyboardButton{
				{Text: btn.Label, CallbackData: AlertCallbackPrefix + btn.AlertID},
			})
		}
	}
	return markup
}

// PreviewKeyboard builds the keyboard shown on draft previews. Alert
// buttons that are not yet finalized are keyed by their stable preview
// token rather than list position, so two unresolved alerts never
// collide.
func PreviewKeyboard(buttons []Button) *models.InlineKeyboardMarkup {
	markup := &models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{}}
	for _, btn := range buttons {
		switch btn.Kind {
		case ButtonURL:
			if btn.URL == "" {
				continue
			}
			markup.InlineKeyboard = append(markup.InlineKeyboard, []models.InlineKeyboardButton{
				{Text: btn.Label, URL: btn.URL},
			})
		case ButtonAlert:
			data := AlertCallbackPrefix + btn.AlertID
			if btn.AlertID == "" {
				data = PreviewCallbackPrefix + btn.PreviewToken
			}
			markup.InlineKeyboard = append(markup.InlineKeyboard, []models.InlineKeyboardButton{
				{Text: btn.Label, CallbackData: data},
			})
		}
	}
	return markup
}

// ParseAlertCallback extracts the alert payload id from activation data.
// The second return is false when the data is not an alert activation.
func ParseAlertCallback(data string) (string, bool) {
	id, ok := strings.CutPrefix(data, AlertCallbackPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// ParsePreviewCallback extracts the preview token from activation data.
func ParsePreviewCallback(data string) (string, bool) {
	token, ok := strings.CutPrefix(data, PreviewCallbackPrefix)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// HasRows reports whether a keyboard carries at least one button row.
func HasRows(markup *models.InlineKeyboardMarkup) bool {
	return markup != nil && len(markup.InlineKeyboard) > 0
}
