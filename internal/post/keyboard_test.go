package post_test

import (
	"testing"

	"channel-post-bot/internal/post"
)

func TestKeyboardDropsIncompleteButtons(t *testing.T) {
	t.Parallel()

	markup := post.Keyboard([]post.Button{
		{Kind: post.ButtonURL, Label: "no url"},
		{Kind: post.ButtonAlert, Label: "unresolved", AlertText: "text", PreviewToken: "tok"},
		{Kind: post.ButtonURL, Label: "ok", URL: "https://example.com"},
		{Kind: post.ButtonAlert, Label: "resolved", AlertID: "a-1"},
	})

	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("got %d rows, want 2", len(markup.InlineKeyboard))
	}

	if markup.InlineKeyboard[0][0].URL != "https://example.com" {
		t.Errorf("first row: %+v", markup.InlineKeyboard[0][0])
	}

	if got := markup.InlineKeyboard[1][0].CallbackData; got != "alert:a-1" {
		t.Errorf("alert callback data = %q", got)
	}
}

func TestPreviewKeyboardKeysUnresolvedAlertsByToken(t *testing.T) {
	t.Parallel()

	markup := post.PreviewKeyboard([]post.Button{
		{Kind: post.ButtonAlert, Label: "one", AlertText: "first", PreviewToken: "tok-1"},
		{Kind: post.ButtonAlert, Label: "two", AlertText: "second", PreviewToken: "tok-2"},
		{Kind: post.ButtonAlert, Label: "done", AlertID: "a-9"},
	})

	if len(markup.InlineKeyboard) != 3 {
		t.Fatalf("got %d rows, want 3", len(markup.InlineKeyboard))
	}

	want := []string{"preview:tok-1", "preview:tok-2", "alert:a-9"}
	for i, expected := range want {
		if got := markup.InlineKeyboard[i][0].CallbackData; got != expected {
			t.Errorf("row %d callback data = %q, want %q", i, got, expected)
		}
	}
}

func TestParseAlertCallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		data   string
		wantID string
		wantOK bool
	}{
		{"alert:abc", "abc", true},
		{"alert:", "", false},
		{"preview:abc", "", false},
		{"other", "", false},
	}

	for _, tc := range tests {
		id, ok := post.ParseAlertCallback(tc.data)
		if id != tc.wantID || ok != tc.wantOK {
			t.Errorf("ParseAlertCallback(%q) = (%q, %v), want (%q, %v)", tc.data, id, ok, tc.wantID, tc.wantOK)
		}
	}
}

func TestParsePreviewCallback(t *testing.T) {
	t.Parallel()

	token, ok := post.ParsePreviewCallback("preview:tok")
	if !ok || token != "tok" {
		t.Errorf("ParsePreviewCallback = (%q, %v)", token, ok)
	}

	if _, ok := post.ParsePreviewCallback("alert:tok"); ok {
		t.Error("alert data must not parse as preview")
	}
}

func TestHasRows(t *testing.T) {
	t.Parallel()

	if post.HasRows(nil) {
		t.Error("nil keyboard has no rows")
	}

	if post.HasRows(post.Keyboard(nil)) {
		t.Error("empty keyboard has no rows")
	}

	if !post.HasRows(post.Keyboard([]post.Button{{Kind: post.ButtonURL, Label: "x", URL: "https://x"}})) {
		t.Error("expected rows")
	}
}
