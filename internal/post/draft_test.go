package post_test

import (
	"testing"

	"channel-post-bot/internal/post"
)

func TestFirstText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content *post.Content
		want    string
	}{
		{
			name:    "nil content",
			content: nil,
			want:    "",
		},
		{
			name:    "text",
			content: &post.Content{Type: post.ContentText, Text: "hello"},
			want:    "hello",
		},
		{
			name: "single media caption",
			content: &post.Content{
				Type:  post.ContentPhoto,
				Media: &post.MediaItem{Kind: post.MediaPhoto, FileID: "f", Caption: "cap"},
			},
			want: "cap",
		},
		{
			name: "album first caption",
			content: &post.Content{
				Type: post.ContentAlbum,
				Items: []post.MediaItem{
					{Kind: post.MediaPhoto, FileID: "a"},
					{Kind: post.MediaPhoto, FileID: "b", Caption: "second"},
				},
			},
			want: "second",
		},
		{
			name: "album without captions",
			content: &post.Content{
				Type:  post.ContentAlbum,
				Items: []post.MediaItem{{Kind: post.MediaPhoto, FileID: "a"}},
			},
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := tc.content.FirstText(); got != tc.want {
				t.Errorf("FirstText() = %q, want %q", got, tc.want)
			}
		})
	}
}
