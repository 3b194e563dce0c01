package locale_test

import (
	"testing"

	"channel-post-bot/internal/locale"
)

func TestText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lang string
		key  string
		args []any
		want string
	}{
		{
			name: "english key",
			lang: locale.LangEN,
			key:  "post.cancelled",
			want: "Post discarded.",
		},
		{
			name: "russian key",
			lang: locale.LangRU,
			key:  "post.cancelled",
			want: "Пост отменён.",
		},
		{
			name: "unknown language falls back to english",
			lang: "de",
			key:  "post.cancelled",
			want: "Post discarded.",
		},
		{
			name: "formatted key",
			lang: locale.LangEN,
			key:  "schedule.done",
			args: []any{"24.12.2026 18:30"},
			want: "Post scheduled for 24.12.2026 18:30.",
		},
		{
			name: "unknown key returns key",
			lang: locale.LangEN,
			key:  "no.such.key",
			want: "no.such.key",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := locale.Text(tc.lang, tc.key, tc.args...); got != tc.want {
				t.Errorf("Text(%q, %q) = %q, want %q", tc.lang, tc.key, got, tc.want)
			}
		})
	}
}

func TestEveryKeyHasBothLanguages(t *testing.T) {
	t.Parallel()

	keys := []string{
		"menu.new_post", "menu.channels", "menu.settings",
		"channel.pick", "channel.none", "channel.forward",
		"content.prompt", "buttons.prompt", "buttons.done", "buttons.cancel",
		"publish.now", "publish.schedule", "schedule.prompt", "schedule.invalid",
		"access.denied", "alert.missing",
	}

	for _, key := range keys {
		enText := locale.Text(locale.LangEN, key)
		ruText := locale.Text(locale.LangRU, key)

		if enText == key {
			t.Errorf("key %q missing in english table", key)
		}

		if ruText == key || ruText == enText {
			t.Errorf("key %q missing in russian table", key)
		}
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	if got := locale.Normalize("ru"); got != locale.LangRU {
		t.Errorf("Normalize(ru) = %q", got)
	}

	if got := locale.Normalize(""); got != locale.DefaultLang {
		t.Errorf("Normalize(empty) = %q", got)
	}
}
