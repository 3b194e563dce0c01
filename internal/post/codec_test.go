package post_test

import (
	"strings"
	"testing"

	"channel-post-bot/internal/post"
)

func TestContentRoundTrip(t *testing.T) {
	t.Parallel()

	original := &post.Content{
		Type: post.ContentAlbum,
		Items: []post.MediaItem{
			{Kind: post.MediaPhoto, FileID: "photo-1", Caption: "first"},
			{Kind: post.MediaVideo, FileID: "video-2"},
		},
	}

	data, err := post.MarshalContent(original)
	if err != nil {
		t.Fatalf("MarshalContent: %v", err)
	}

	decoded, err := post.UnmarshalContent(data)
	if err != nil {
		t.Fatalf("UnmarshalContent: %v", err)
	}

	if decoded.Type != post.ContentAlbum {
		t.Errorf("type = %q, want album", decoded.Type)
	}

	if len(decoded.Items) != 2 || decoded.Items[0].FileID != "photo-1" || decoded.Items[1].Kind != post.MediaVideo {
		t.Errorf("items not preserved: %+v", decoded.Items)
	}
}

func TestMarshalContentNil(t *testing.T) {
	t.Parallel()

	if _, err := post.MarshalContent(nil); err == nil {
		t.Fatal("expected error for nil content")
	}
}

func TestUnmarshalContentRejectsMissingType(t *testing.T) {
	t.Parallel()

	if _, err := post.UnmarshalContent(`{"text":"no tag"}`); err == nil {
		t.Fatal("expected error for content without type tag")
	}
}

func TestButtonsRoundTripDropsPreviewToken(t *testing.T) {
	t.Parallel()

	buttons := []post.Button{
		{Kind: post.ButtonURL, Label: "Site", URL: "https://example.com"},
		{Kind: post.ButtonAlert, Label: "Info", AlertID: "a-1", AlertText: "hello", PreviewToken: "tok"},
	}

	data, err := post.MarshalButtons(buttons)
	if err != nil {
		t.Fatalf("MarshalButtons: %v", err)
	}

	if strings.Contains(data, "tok") {
		t.Errorf("preview token leaked into persisted form: %s", data)
	}

	decoded, err := post.UnmarshalButtons(data)
	if err != nil {
		t.Fatalf("UnmarshalButtons: %v", err)
	}

	if len(decoded) != 2 {
		t.Fatalf("got %d buttons, want 2", len(decoded))
	}

	if decoded[1].AlertID != "a-1" || decoded[1].PreviewToken != "" {
		t.Errorf("alert button not preserved: %+v", decoded[1])
	}
}

func TestMarshalButtonsNilIsEmptyList(t *testing.T) {
	t.Parallel()

	data, err := post.MarshalButtons(nil)
	if err != nil {
		t.Fatalf("MarshalButtons: %v", err)
	}

	if data != "[]" {
		t.Errorf("got %q, want []", data)
	}
}
