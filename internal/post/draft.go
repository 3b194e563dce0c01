// Package post implements the post composition domain: the draft model,
// its serialized form, keyboard encoding, content rendering, and the
// publication engine for immediate and scheduled delivery.
package post

import "github.com/go-telegram/bot/models"

// ContentType tags the draft content union.
type ContentType string

const (
	ContentText     ContentType = "text"
	ContentPhoto    ContentType = "photo"
	ContentVideo    ContentType = "video"
	ContentDocument ContentType = "document"
	ContentAudio    ContentType = "audio"
	ContentAlbum    ContentType = "album"
)

// MediaKind identifies the transport media type of a single item.
type MediaKind string

const (
	MediaPhoto    MediaKind = "photo"
	MediaVideo    MediaKind = "video"
	MediaDocument MediaKind = "document"
	MediaAudio    MediaKind = "audio"
)

// ButtonKind identifies the behavior of an attached inline button.
type ButtonKind string

const (
	ButtonURL   ButtonKind = "url"
	ButtonAlert ButtonKind = "alert"
)

// MediaItem describes one media attachment by its transport file id.
type MediaItem struct {
	Kind            MediaKind              `json:"kind"`
	FileID          string                 `json:"file_id"`
	Caption         string                 `json:"caption,omitempty"`
	CaptionEntities []models.MessageEntity `json:"caption_entities,omitempty"`
}

// Content is the tagged union of draft content shapes. Exactly one of
// the shape fields is populated, selected by Type: Text/Entities for
// ContentText, Media for the single-media kinds, Items for ContentAlbum.
type Content struct {
	Type     ContentType            `json:"type"`
	Text     string                 `json:"text,omitempty"`
	Entities []models.MessageEntity `json:"entities,omitempty"`
	Media    *MediaItem             `json:"media,omitempty"`
	Items    []MediaItem            `json:"items,omitempty"`
}

// Button is one inline button attached to a draft. Alert buttons carry
// AlertText until Finalize assigns a durable AlertID; PreviewToken keys
// preview-only alert controls before that and is never persisted.
type Button struct {
	Kind      ButtonKind `json:"kind"`
	Label     string     `json:"label"`
	URL       string     `json:"url,omitempty"`
	AlertID   string     `json:"alert_id,omitempty"`
	AlertText string     `json:"alert_text,omitempty"`

	PreviewToken string `json:"-"`
}

// Draft is a post under construction by one admin. It is session state
// only: it never survives a restart and is discarded on cancel or once
// handed to the publication engine.
type Draft struct {
	ChannelID int64
	Content   *Content
	Buttons   []Button
	Pinned    bool
	Silent    bool
}

// FirstText returns the first text or caption found in the content, used
// as the translation source. Returns "" when the content carries no text.
func (c *Content) FirstText() string {
	if c == nil {
		return ""
	}
	switch c.Type {
	case ContentText:
		return c.Text
	case ContentAlbum:
		for _, item := range c.Items {
			if item.Caption != "" {
				return item.Caption
			}
		}
	default:
		if c.Media != nil {
			return c.Media.Caption
		}
	}
	return ""
}
