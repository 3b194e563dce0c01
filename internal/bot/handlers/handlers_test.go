package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"channel-post-bot/internal/database"
	"channel-post-bot/internal/locale"
	"channel-post-bot/internal/post"
)

// newTestBot returns a bot wired to a local server that acknowledges
// every API call, so handlers can be exercised end to end.
func newTestBot(t *testing.T) *bot.Bot {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if strings.HasSuffix(r.URL.Path, "/answerCallbackQuery") {
			_, _ = w.Write([]byte(`{"ok":true,"result":true}`))

			return
		}

		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	t.Cleanup(srv.Close)

	b, err := bot.New("42:test", bot.WithSkipGetMe(), bot.WithServerURL(srv.URL))
	if err != nil {
		t.Fatalf("bot.New() error = %v", err)
	}

	return b
}

// stubStore satisfies database.Store for handler tests. Only the methods
// the tested paths reach are implemented.
type stubStore struct {
	database.Store
}

func (stubStore) GetOrCreateUser(_ context.Context, telegramID int64, defaultLang string) (*database.User, error) {
	return &database.User{TelegramID: telegramID, Language: defaultLang}, nil
}

func (stubStore) ListChannels(context.Context) ([]database.Channel, error) {
	return nil, nil
}

type failingTranslator struct{}

func (failingTranslator) Translate(context.Context, string, string) (string, error) {
	return "", errors.New("model unavailable")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSessions(t *testing.T) {
	t.Parallel()

	sessions := NewSessions()

	sess := sessions.Get(1)
	if sess.State != StateIdle {
		t.Errorf("new session state = %q, want idle", sess.State)
	}

	sess.State = StateAwaitContent
	sess.Draft = &post.Draft{ChannelID: 5}

	if again := sessions.Get(1); again.State != StateAwaitContent || again.Draft == nil {
		t.Error("session not shared between Get calls")
	}

	if other := sessions.Get(2); other.State != StateIdle {
		t.Error("sessions leak across users")
	}

	sess.Lock()
	sess.Reset()
	sess.Unlock()

	if again := sessions.Get(1); again.State != StateIdle || again.Draft != nil || again.PendingLabel != "" {
		t.Error("reset must return the session to an empty idle state")
	}

	if sessions.Get(1) != sess {
		t.Error("reset must keep the session identity stable")
	}
}

func TestConcurrentTogglesStaySerialized(t *testing.T) {
	t.Parallel()

	b := newTestBot(t)
	sessions := NewSessions()

	deps := HandlerDeps{
		Logger:   discardLogger(),
		Store:    stubStore{},
		Sessions: sessions,
	}

	const userID = 7

	sess := sessions.Get(userID)
	sess.State = StateConfirmation
	sess.Draft = &post.Draft{
		ChannelID: 1,
		Content:   &post.Content{Type: post.ContentText, Text: "hello"},
	}

	handle := NewWizardCallbackHandler(deps)

	// An even number of pin flips must land back on the initial value;
	// run under the race detector this also guards the session locking.
	const flips = 20

	var wg sync.WaitGroup
	for i := 0; i < flips; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			handle(context.Background(), b, &models.Update{
				CallbackQuery: &models.CallbackQuery{
					ID:   "cb",
					From: models.User{ID: userID},
					Data: cbTogglePin,
				},
			})
		}()
	}

	wg.Wait()

	if sess.Draft.Pinned {
		t.Error("pinned flag must return to false after an even number of toggles")
	}

	if sess.State != StateConfirmation {
		t.Errorf("state = %q, want confirmation", sess.State)
	}
}

func TestValidHTTPURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want bool
	}{
		{"https://example.com", true},
		{"http://example.com/path?q=1", true},
		{"ftp://example.com", false},
		{"example.com", false},
		{"https://", false},
		{"not a url", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := validHTTPURL(tc.raw); got != tc.want {
			t.Errorf("validHTTPURL(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestMatchesMenu(t *testing.T) {
	t.Parallel()

	enLabel := locale.Text(locale.LangEN, "menu.new_post")
	ruLabel := locale.Text(locale.LangRU, "menu.new_post")

	if !matchesMenu(enLabel, "menu.new_post") || !matchesMenu(ruLabel, "menu.new_post") {
		t.Error("menu labels must match in both languages")
	}

	if matchesMenu("random text", "menu.new_post") {
		t.Error("arbitrary text must not match")
	}
}

func TestContentFromMessage(t *testing.T) {
	t.Parallel()

	text := contentFromMessage(&models.Message{Text: "hello"})
	if text == nil || text.Type != post.ContentText || text.Text != "hello" {
		t.Errorf("text content = %+v", text)
	}

	photo := contentFromMessage(&models.Message{
		Photo:   []models.PhotoSize{{FileID: "small"}, {FileID: "large"}},
		Caption: "cap",
	})
	if photo == nil || photo.Type != post.ContentPhoto {
		t.Fatalf("photo content = %+v", photo)
	}

	if photo.Media.FileID != "large" {
		t.Errorf("photo file id = %q, want the largest size", photo.Media.FileID)
	}

	if photo.Media.Caption != "cap" {
		t.Errorf("photo caption = %q", photo.Media.Caption)
	}

	video := contentFromMessage(&models.Message{Video: &models.Video{FileID: "v-1"}})
	if video == nil || video.Type != post.ContentVideo || video.Media.FileID != "v-1" {
		t.Errorf("video content = %+v", video)
	}

	if got := contentFromMessage(&models.Message{}); got != nil {
		t.Errorf("empty message content = %+v, want nil", got)
	}
}

func TestPublishOptionsKeyboardReflectsToggles(t *testing.T) {
	t.Parallel()

	draft := &post.Draft{Pinned: true}

	markup := publishOptionsKeyboard(locale.LangEN, draft)
	row := markup.InlineKeyboard[0]

	if row[0].Text != locale.Text(locale.LangEN, "publish.pin_on") {
		t.Errorf("pin toggle label = %q", row[0].Text)
	}

	if row[1].Text != locale.Text(locale.LangEN, "publish.silent_off") {
		t.Errorf("silent toggle label = %q", row[1].Text)
	}
}

func TestChannelsKeyboardCallbacks(t *testing.T) {
	t.Parallel()

	markup := channelsKeyboard(locale.LangEN, nil, true)
	if len(markup.InlineKeyboard) != 1 {
		t.Fatalf("rows = %d, want only the add row", len(markup.InlineKeyboard))
	}

	if markup.InlineKeyboard[0][0].CallbackData != cbChannelAdd {
		t.Errorf("add callback = %q", markup.InlineKeyboard[0][0].CallbackData)
	}
}

func TestIsChannelAdmin(t *testing.T) {
	t.Parallel()

	if isChannelAdmin(nil) {
		t.Error("nil member is not an admin")
	}

	if !isChannelAdmin(&models.ChatMember{Type: models.ChatMemberTypeOwner}) {
		t.Error("owner is an admin")
	}

	if !isChannelAdmin(&models.ChatMember{Type: models.ChatMemberTypeAdministrator}) {
		t.Error("administrator is an admin")
	}

	if isChannelAdmin(&models.ChatMember{Type: models.ChatMemberTypeMember}) {
		t.Error("plain member is not an admin")
	}
}

func TestTranslationLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		target string
		want   string
	}{
		{"en", "🇺🇸 English"},
		{"English", "🇺🇸 English"},
		{" EN ", "🇺🇸 English"},
		{"de", "Translation (de)"},
		{"Spanish", "Translation (Spanish)"},
	}

	for _, tc := range tests {
		if got := translationLabel(tc.target); got != tc.want {
			t.Errorf("translationLabel(%q) = %q, want %q", tc.target, got, tc.want)
		}
	}
}

func TestTranslateFailureKeepsDraft(t *testing.T) {
	t.Parallel()

	b := newTestBot(t)

	h := &composeHandler{deps: HandlerDeps{
		Logger:     discardLogger(),
		Store:      stubStore{},
		Translator: failingTranslator{},
		Sessions:   NewSessions(),
	}}

	sess := &Session{
		State: StateAwaitTranslationLang,
		Draft: &post.Draft{
			ChannelID: 1,
			Content:   &post.Content{Type: post.ContentText, Text: "hello"},
			Buttons:   []post.Button{{Kind: post.ButtonURL, Label: "site", URL: "https://example.com"}},
		},
	}

	msg := &models.Message{
		ID:   1,
		From: &models.User{ID: 7},
		Chat: models.Chat{ID: 7},
		Text: "fr",
	}

	h.translateDraft(context.Background(), b, msg, locale.LangEN, sess)

	if sess.State != StateAwaitButtons {
		t.Errorf("state = %q, want await_buttons", sess.State)
	}

	if len(sess.Draft.Buttons) != 1 {
		t.Errorf("buttons = %d, a failed translation must not append one", len(sess.Draft.Buttons))
	}

	if sess.Draft.Content.Text != "hello" {
		t.Errorf("content text = %q, must stay untouched", sess.Draft.Content.Text)
	}
}

func TestStartCompositionWithoutChannelsStaysIdle(t *testing.T) {
	t.Parallel()

	b := newTestBot(t)

	h := &composeHandler{deps: HandlerDeps{
		Logger:   discardLogger(),
		Store:    stubStore{},
		Sessions: NewSessions(),
	}}

	sess := &Session{State: StateIdle}

	h.startComposition(context.Background(), b, 7, 7, locale.LangEN, sess)

	if sess.State != StateIdle {
		t.Errorf("state = %q, the wizard must not start without channels", sess.State)
	}

	if sess.Draft != nil {
		t.Error("no draft must be created without channels")
	}
}
