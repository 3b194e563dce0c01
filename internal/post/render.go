package post

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// albumKeyboardText is the body of the trailing keyboard-only message
// sent after a media group; the protocol forbids buttons on grouped media.
const albumKeyboardText = "⬇️"

// Transport is the subset of the Telegram client used for delivery.
// *bot.Bot satisfies it.
type Transport interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	SendVideo(ctx context.Context, params *bot.SendVideoParams) (*models.Message, error)
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error)
	SendAudio(ctx context.Context, params *bot.SendAudioParams) (*models.Message, error)
	SendMediaGroup(ctx context.Context, params *bot.SendMediaGroupParams) ([]*models.Message, error)
	PinChatMessage(ctx context.Context, params *bot.PinChatMessageParams) (bool, error)
}

// Renderer dispatches draft content to the matching transport delivery
// primitive. It does not retry; failures surface to the caller with the
// content kind and chat attached.
type Renderer struct {
	transport Transport
	log       *slog.Logger
}

// NewRenderer creates a renderer over the given transport.
func NewRenderer(transport Transport, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{
		transport: transport,
		log:       log.With("component", "renderer"),
	}
}

// Render delivers content to chatID with the given keyboard attached.
// For albums the keyboard cannot ride on the media group, so a short
// keyboard-only message follows the group when the keyboard is non-empty.
// The returned message is the pin target (the first message sent).
func (r *Renderer) Render(ctx context.Context, chatID int64, content *Content, markup *models.InlineKeyboardMarkup, silent bool) (*models.Message, error) {
	if content == nil {
		return nil, fmt.Errorf("cannot render nil content")
	}

	var replyMarkup models.ReplyMarkup
	if HasRows(markup) {
		replyMarkup = markup
	}

	var (
		msg *models.Message
		err error
	)

	switch content.Type {
	case ContentText:
		msg, err = r.transport.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:              chatID,
			Text:                content.Text,
			Entities:            content.Entities,
			ReplyMarkup:         replyMarkup,
			DisableNotification: silent,
		})

	case ContentPhoto, ContentVideo, ContentDocument, ContentAudio:
		if content.Media == nil {
			return nil, fmt.Errorf("content type %s has no media item", content.Type)
		}
		msg, err = r.sendSingleMedia(ctx, chatID, content.Media, replyMarkup, silent)

	case ContentAlbum:
		msg, err = r.sendAlbum(ctx, chatID, content.Items, markup, silent)

	default:
		return nil, fmt.Errorf("unknown content type %q", content.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to deliver %s content to chat %d: %w", content.Type, chatID, err)
	}

	r.log.DebugContext(ctx, "Content delivered", "chat_id", chatID, "content_type", content.Type)
	return msg, nil
}

func (r *Renderer) sendSingleMedia(ctx context.Context, chatID int64, item *MediaItem, markup models.ReplyMarkup, silent bool) (*models.Message, error) {
	switch item.Kind {
	case MediaPhoto:
		return r.transport.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:              chatID,
			Photo:               &models.InputFileString{Data: item.FileID},
			Caption:             item.Caption,
			CaptionEntities:     item.CaptionEntities,
			ReplyMarkup:         markup,
			DisableNotification: silent,
		})
	case MediaVideo:
		return r.transport.SendVideo(ctx, &bot.SendVideoParams{
			ChatID:              chatID,
			Video:               &models.InputFileString{Data: item.FileID},
			Caption:             item.Caption,
			CaptionEntities:     item.CaptionEntities,
			ReplyMarkup:         markup,
			DisableNotification: silent,
		})
	case MediaDocument:
		return r.transport.SendDocument(ctx, &bot.SendDocumentParams{
			ChatID:              chatID,
			Document:            &models.InputFileString{Data: item.FileID},
			Caption:             item.Caption,
			CaptionEntities:     item.CaptionEntities,
			ReplyMarkup:         markup,
			DisableNotification: silent,
		})
	case MediaAudio:
		return r.transport.SendAudio(ctx, &bot.SendAudioParams{
			ChatID:              chatID,
			Audio:               &models.InputFileString{Data: item.FileID},
			Caption:             item.Caption,
			CaptionEntities:     item.CaptionEntities,
			ReplyMarkup:         markup,
			DisableNotification: silent,
		})
	default:
		return nil, fmt.Errorf("unknown media kind %q", item.Kind)
	}
}

func (r *Renderer) sendAlbum(ctx context.Context, chatID int64, items []MediaItem, markup *models.InlineKeyboardMarkup, silent bool) (*models.Message, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("album has no items")
	}

	media := make([]models.InputMedia, 0, len(items))
	for _, item := range items {
		switch item.Kind {
		case MediaPhoto:
			media = append(media, &models.InputMediaPhoto{
				Media:           item.FileID,
				Caption:         item.Caption,
				CaptionEntities: item.CaptionEntities,
			})
		case MediaVideo:
			media = append(media, &models.InputMediaVideo{
				Media:           item.FileID,
				Caption:         item.Caption,
				CaptionEntities: item.CaptionEntities,
			})
		case MediaDocument:
			media = append(media, &models.InputMediaDocument{
				Media:           item.FileID,
				Caption:         item.Caption,
				CaptionEntities: item.CaptionEntities,
			})
		case MediaAudio:
			media = append(media, &models.InputMediaAudio{
				Media:           item.FileID,
				Caption:         item.Caption,
				CaptionEntities: item.CaptionEntities,
			})
		default:
			return nil, fmt.Errorf("unknown media kind %q in album", item.Kind)
		}
	}

	msgs, err := r.transport.SendMediaGroup(ctx, &bot.SendMediaGroupParams{
		ChatID:              chatID,
		Media:               media,
		DisableNotification: silent,
	})
	if err != nil {
		return nil, err
	}

	if HasRows(markup) {
		if _, err := r.transport.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:              chatID,
			Text:                albumKeyboardText,
			ReplyMarkup:         markup,
			DisableNotification: silent,
		}); err != nil {
			return nil, fmt.Errorf("failed to send album keyboard message: %w", err)
		}
	}

	if len(msgs) == 0 {
		return nil, nil
	}
	return msgs[0], nil
}
