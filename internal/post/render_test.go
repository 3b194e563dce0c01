package post_test

import (
	"context"
	"testing"

	"github.com/go-telegram/bot/models"

	"channel-post-bot/internal/post"
)

func TestRenderTextCarriesEntities(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	renderer := post.NewRenderer(transport, nil)

	content := &post.Content{
		Type:     post.ContentText,
		Text:     "bold move",
		Entities: []models.MessageEntity{{Type: models.MessageEntityTypeBold, Offset: 0, Length: 4}},
	}

	msg, err := renderer.Render(context.Background(), 10, content, nil, false)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if msg == nil {
		t.Fatal("expected a delivered message")
	}

	if len(transport.texts) != 1 || len(transport.texts[0].Entities) != 1 {
		t.Fatalf("entities not forwarded: %+v", transport.texts)
	}
}

func TestRenderSinglePhoto(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	renderer := post.NewRenderer(transport, nil)

	content := &post.Content{
		Type:  post.ContentPhoto,
		Media: &post.MediaItem{Kind: post.MediaPhoto, FileID: "f-1", Caption: "cap"},
	}
	markup := post.Keyboard([]post.Button{{Kind: post.ButtonURL, Label: "x", URL: "https://x"}})

	if _, err := renderer.Render(context.Background(), 10, content, markup, true); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if len(transport.photos) != 1 {
		t.Fatalf("got %d photos, want 1", len(transport.photos))
	}

	params := transport.photos[0]
	if params.Caption != "cap" || !params.DisableNotification {
		t.Errorf("photo params: %+v", params)
	}

	if params.ReplyMarkup == nil {
		t.Error("keyboard not attached to single media")
	}
}

func TestRenderAlbumWithoutKeyboardSendsNoTrailer(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	renderer := post.NewRenderer(transport, nil)

	content := &post.Content{
		Type: post.ContentAlbum,
		Items: []post.MediaItem{
			{Kind: post.MediaPhoto, FileID: "f-1"},
			{Kind: post.MediaVideo, FileID: "f-2"},
		},
	}

	if _, err := renderer.Render(context.Background(), 10, content, post.Keyboard(nil), false); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if len(transport.groups) != 1 {
		t.Fatalf("got %d media groups, want 1", len(transport.groups))
	}

	if len(transport.groups[0].Media) != 2 {
		t.Errorf("got %d media items, want 2", len(transport.groups[0].Media))
	}

	if len(transport.texts) != 0 {
		t.Error("no trailing keyboard message expected for an empty keyboard")
	}
}

func TestRenderAlbumWithKeyboardSendsTrailer(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	renderer := post.NewRenderer(transport, nil)

	content := &post.Content{
		Type: post.ContentAlbum,
		Items: []post.MediaItem{
			{Kind: post.MediaPhoto, FileID: "f-1"},
			{Kind: post.MediaPhoto, FileID: "f-2"},
		},
	}
	markup := post.Keyboard([]post.Button{{Kind: post.ButtonAlert, Label: "i", AlertID: "a-1"}})

	if _, err := renderer.Render(context.Background(), 10, content, markup, false); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if len(transport.groups) != 1 {
		t.Fatalf("got %d media groups, want 1", len(transport.groups))
	}

	if len(transport.texts) != 1 {
		t.Fatalf("expected one trailing keyboard message, got %d", len(transport.texts))
	}

	if transport.texts[0].ReplyMarkup == nil {
		t.Error("trailing message carries no keyboard")
	}
}

func TestRenderRejectsBadContent(t *testing.T) {
	t.Parallel()

	renderer := post.NewRenderer(&fakeTransport{}, nil)

	if _, err := renderer.Render(context.Background(), 10, nil, nil, false); err == nil {
		t.Error("nil content must fail")
	}

	if _, err := renderer.Render(context.Background(), 10, &post.Content{Type: "sticker"}, nil, false); err == nil {
		t.Error("unknown content type must fail")
	}

	if _, err := renderer.Render(context.Background(), 10, &post.Content{Type: post.ContentPhoto}, nil, false); err == nil {
		t.Error("media content without a media item must fail")
	}
}
