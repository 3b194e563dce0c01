package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"channel-post-bot/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func TestGetOrCreateUser(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	user, err := store.GetOrCreateUser(ctx, 100, "en")
	if err != nil {
		t.Fatalf("GetOrCreateUser: %v", err)
	}

	if user.TelegramID != 100 || user.Language != "en" {
		t.Errorf("created user = %+v", user)
	}

	// Second call must return the same row, not recreate it.
	if err := store.SetUserLanguage(ctx, 100, "ru"); err != nil {
		t.Fatalf("SetUserLanguage: %v", err)
	}

	again, err := store.GetOrCreateUser(ctx, 100, "en")
	if err != nil {
		t.Fatalf("GetOrCreateUser second call: %v", err)
	}

	if again.Language != "ru" {
		t.Errorf("language = %q, want ru", again.Language)
	}

	if _, err := store.GetOrCreateUser(ctx, 0, "en"); err == nil {
		t.Error("zero telegram_id must be rejected")
	}
}

func TestChannels(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	missing, err := store.GetChannel(ctx, 12345)
	if err != nil || missing != nil {
		t.Fatalf("GetChannel(missing) = (%+v, %v), want (nil, nil)", missing, err)
	}

	channel := &database.Channel{TelegramID: -100555, Title: "News", AddedBy: 77}
	if err := store.SaveChannel(ctx, channel); err != nil {
		t.Fatalf("SaveChannel: %v", err)
	}

	if channel.ID == 0 {
		t.Fatal("SaveChannel did not set the generated id")
	}

	byID, err := store.GetChannel(ctx, channel.ID)
	if err != nil || byID == nil || byID.Title != "News" {
		t.Fatalf("GetChannel = (%+v, %v)", byID, err)
	}

	byTelegramID, err := store.GetChannelByTelegramID(ctx, -100555)
	if err != nil || byTelegramID == nil || byTelegramID.ID != channel.ID {
		t.Fatalf("GetChannelByTelegramID = (%+v, %v)", byTelegramID, err)
	}

	// telegram_id is unique
	dup := &database.Channel{TelegramID: -100555, Title: "Copy", AddedBy: 77}
	if err := store.SaveChannel(ctx, dup); err == nil {
		t.Error("duplicate telegram_id must be rejected")
	}

	channels, err := store.ListChannels(ctx)
	if err != nil || len(channels) != 1 {
		t.Fatalf("ListChannels = (%+v, %v)", channels, err)
	}
}

func TestSettings(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	settings, err := store.GetSettings(ctx)
	if err != nil || settings != nil {
		t.Fatalf("GetSettings before save = (%+v, %v), want (nil, nil)", settings, err)
	}

	if err := store.SaveAccessDeniedText(ctx, "go away"); err != nil {
		t.Fatalf("SaveAccessDeniedText: %v", err)
	}

	if err := store.SaveAccessDeniedText(ctx, "still no"); err != nil {
		t.Fatalf("SaveAccessDeniedText upsert: %v", err)
	}

	settings, err = store.GetSettings(ctx)
	if err != nil || settings == nil {
		t.Fatalf("GetSettings = (%+v, %v)", settings, err)
	}

	if settings.AccessDeniedText != "still no" {
		t.Errorf("denied text = %q", settings.AccessDeniedText)
	}

	if err := store.SaveAccessDeniedText(ctx, ""); err == nil {
		t.Error("empty denied text must be rejected")
	}
}

func TestScheduledPosts(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	runAt := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	record := &database.ScheduledPost{
		ChannelID: 1,
		Content:   `{"type":"text","text":"hi"}`,
		Buttons:   "[]",
		RunAt:     runAt,
	}

	if err := store.CreateScheduledPost(ctx, record); err != nil {
		t.Fatalf("CreateScheduledPost: %v", err)
	}

	if record.ID == 0 {
		t.Fatal("CreateScheduledPost did not set the generated id")
	}

	if record.Status != database.PostStatusPending {
		t.Errorf("default status = %q, want pending", record.Status)
	}

	loaded, err := store.GetScheduledPost(ctx, record.ID)
	if err != nil || loaded == nil {
		t.Fatalf("GetScheduledPost = (%+v, %v)", loaded, err)
	}

	if !loaded.RunAt.Equal(runAt) {
		t.Errorf("run_at = %v, want %v", loaded.RunAt, runAt)
	}

	pending, err := store.ListPendingPosts(ctx)
	if err != nil || len(pending) != 1 {
		t.Fatalf("ListPendingPosts = (%+v, %v)", pending, err)
	}

	if err := store.SetScheduledPostStatus(ctx, record.ID, "archived"); err == nil {
		t.Error("unknown status must be rejected")
	}

	if err := store.SetScheduledPostStatus(ctx, record.ID, database.PostStatusPublished); err != nil {
		t.Fatalf("SetScheduledPostStatus: %v", err)
	}

	pending, err = store.ListPendingPosts(ctx)
	if err != nil || len(pending) != 0 {
		t.Fatalf("ListPendingPosts after publish = (%+v, %v)", pending, err)
	}

	missing, err := store.GetScheduledPost(ctx, 9999)
	if err != nil || missing != nil {
		t.Fatalf("GetScheduledPost(missing) = (%+v, %v), want (nil, nil)", missing, err)
	}
}

func TestAlertPayloads(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	payload := &database.AlertPayload{ID: "a-1", Text: "surprise"}
	if err := store.SaveAlertPayload(ctx, payload); err != nil {
		t.Fatalf("SaveAlertPayload: %v", err)
	}

	// Rows are immutable; a second insert with the same id must fail.
	if err := store.SaveAlertPayload(ctx, &database.AlertPayload{ID: "a-1", Text: "changed"}); err == nil {
		t.Error("duplicate alert id must be rejected")
	}

	loaded, err := store.GetAlertPayload(ctx, "a-1")
	if err != nil || loaded == nil || loaded.Text != "surprise" {
		t.Fatalf("GetAlertPayload = (%+v, %v)", loaded, err)
	}

	missing, err := store.GetAlertPayload(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("GetAlertPayload(missing) = (%+v, %v), want (nil, nil)", missing, err)
	}
}
