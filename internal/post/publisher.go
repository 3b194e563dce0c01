package post

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/google/uuid"

	"channel-post-bot/internal/database"
)

// ScheduleTimeLayout is the only accepted schedule input format
// (DD.MM.YYYY HH:MM, server clock).
const ScheduleTimeLayout = "02.01.2006 15:04"

// ErrChannelNotFound indicates the draft's target channel no longer exists.
var ErrChannelNotFound = errors.New("channel not found")

// ErrPastScheduleTime indicates a schedule time that is not in the future.
var ErrPastScheduleTime = errors.New("schedule time is in the past")

// JobScheduler registers a one-shot trigger that re-invokes the given
// callback with the post id at or after runAt. The callback must rebuild
// everything it needs from durable state; it receives no live session.
type JobScheduler interface {
	RegisterAt(runAt time.Time, postID int64, job func(ctx context.Context, postID int64)) error
}

// Publisher persists finalized drafts and delivers them, immediately or
// on a scheduled trigger.
type Publisher struct {
	log       *slog.Logger
	store     database.Store
	renderer  *Renderer
	transport Transport
	scheduler JobScheduler
}

// NewPublisher creates a publication engine over the given collaborators.
func NewPublisher(log *slog.Logger, store database.Store, transport Transport, scheduler JobScheduler) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{
		log:       log.With("component", "publisher"),
		store:     store,
		renderer:  NewRenderer(transport, log),
		transport: transport,
		scheduler: scheduler,
	}
}

// ParseScheduleTime parses user schedule input in the fixed
// DD.MM.YYYY HH:MM format and rejects times not in the future.
func ParseScheduleTime(input string, now time.Time) (time.Time, error) {
	runAt, err := time.ParseInLocation(ScheduleTimeLayout, input, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid schedule time %q: %w", input, err)
	}
	if !runAt.After(now) {
		return time.Time{}, ErrPastScheduleTime
	}
	return runAt, nil
}

// Finalize assigns durable alert payload ids to alert buttons that do
// not yet carry one, persisting the payload text. It is idempotent:
// buttons already carrying an id are left untouched, so running it again
// creates no duplicate payload rows. Payloads are created only here, at
// publish or schedule time, never when a button is added.
func (p *Publisher) Finalize(ctx context.Context, draft *Draft) error {
	if draft == nil {
		return fmt.Errorf("cannot finalize nil draft")
	}
	for i := range draft.Buttons {
		btn := &draft.Buttons[i]
		if btn.Kind != ButtonAlert || btn.AlertID != "" || btn.AlertText == "" {
			continue
		}
		id := uuid.NewString()
		if err := p.store.SaveAlertPayload(ctx, &database.AlertPayload{ID: id, Text: btn.AlertText}); err != nil {
			return fmt.Errorf("failed to persist alert payload: %w", err)
		}
		btn.AlertID = id
	}
	return nil
}

// PublishNow finalizes and delivers a draft to its target channel.
// Pinning is best-effort: a pin failure is logged and does not roll back
// the publish. No scheduled_posts row is written; only deferred posts
// are persisted.
func (p *Publisher) PublishNow(ctx context.Context, draft *Draft) error {
	if draft == nil {
		return fmt.Errorf("cannot publish nil draft")
	}

	channel, err := p.store.GetChannel(ctx, draft.ChannelID)
	if err != nil {
		return fmt.Errorf("failed to resolve channel %d: %w", draft.ChannelID, err)
	}
	if channel == nil {
		return ErrChannelNotFound
	}

	if err := p.Finalize(ctx, draft); err != nil {
		return err
	}

	markup := Keyboard(draft.Buttons)
	msg, err := p.renderer.Render(ctx, channel.TelegramID, draft.Content, markup, draft.Silent)
	if err != nil {
		return err
	}

	if draft.Pinned && msg != nil {
		if _, err := p.transport.PinChatMessage(ctx, &bot.PinChatMessageParams{
			ChatID:    channel.TelegramID,
			MessageID: msg.ID,
		}); err != nil {
			p.log.WarnContext(ctx, "Failed to pin published message",
				"chat_id", channel.TelegramID, "message_id", msg.ID, "error", err)
		}
	}

	p.log.InfoContext(ctx, "Post published",
		"channel_id", draft.ChannelID, "chat_id", channel.TelegramID, "content_type", draft.Content.Type)
	return nil
}

// Schedule finalizes a draft, persists it as a pending scheduled post,
// and registers a one-shot trigger carrying only the new row id.
func (p *Publisher) Schedule(ctx context.Context, draft *Draft, runAt time.Time) (*database.ScheduledPost, error) {
	if draft == nil {
		return nil, fmt.Errorf("cannot schedule nil draft")
	}
	if runAt.IsZero() {
		return nil, fmt.Errorf("schedule time is not set")
	}

	channel, err := p.store.GetChannel(ctx, draft.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve channel %d: %w", draft.ChannelID, err)
	}
	if channel == nil {
		return nil, ErrChannelNotFound
	}

	if err := p.Finalize(ctx, draft); err != nil {
		return nil, err
	}

	content, err := MarshalContent(draft.Content)
	if err != nil {
		return nil, err
	}
	buttons, err := MarshalButtons(draft.Buttons)
	if err != nil {
		return nil, err
	}

	record := &database.ScheduledPost{
		ChannelID: draft.ChannelID,
		Content:   content,
		Buttons:   buttons,
		RunAt:     runAt.UTC(),
		Status:    database.PostStatusPending,
	}
	if err := p.store.CreateScheduledPost(ctx, record); err != nil {
		return nil, err
	}

	if err := p.scheduler.RegisterAt(runAt, record.ID, p.RunScheduledJob); err != nil {
		return nil, fmt.Errorf("failed to register trigger for post %d: %w", record.ID, err)
	}

	p.log.InfoContext(ctx, "Post scheduled",
		"post_id", record.ID, "channel_id", record.ChannelID, "run_at", record.RunAt)
	return record, nil
}

// RunScheduledJob delivers a scheduled post. It rebuilds everything from
// the persisted row: target channel, buttons (alert ids are already
// resolved), and content. Non-pending rows are a no-op, which guards
// against duplicate trigger firing. A missing channel or any delivery
// error records status=failed; failed posts are not retried.
func (p *Publisher) RunScheduledJob(ctx context.Context, postID int64) {
	log := p.log.With("post_id", postID)

	record, err := p.store.GetScheduledPost(ctx, postID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load scheduled post", "error", err)
		return
	}
	if record == nil {
		log.WarnContext(ctx, "Scheduled post not found, skipping")
		return
	}
	if record.Status != database.PostStatusPending {
		log.DebugContext(ctx, "Scheduled post is not pending, skipping", "status", record.Status)
		return
	}

	channel, err := p.store.GetChannel(ctx, record.ChannelID)
	if err != nil || channel == nil {
		log.ErrorContext(ctx, "Target channel unavailable for scheduled post",
			"channel_id", record.ChannelID, "error", err)
		p.markFailed(ctx, postID)
		return
	}

	content, err := UnmarshalContent(record.Content)
	if err != nil {
		log.ErrorContext(ctx, "Failed to decode scheduled post content", "error", err)
		p.markFailed(ctx, postID)
		return
	}
	buttons, err := UnmarshalButtons(record.Buttons)
	if err != nil {
		log.ErrorContext(ctx, "Failed to decode scheduled post buttons", "error", err)
		p.markFailed(ctx, postID)
		return
	}

	markup := Keyboard(buttons)
	if _, err := p.renderer.Render(ctx, channel.TelegramID, content, markup, false); err != nil {
		log.ErrorContext(ctx, "Failed to deliver scheduled post", "chat_id", channel.TelegramID, "error", err)
		p.markFailed(ctx, postID)
		return
	}

	if err := p.store.SetScheduledPostStatus(ctx, postID, database.PostStatusPublished); err != nil {
		log.ErrorContext(ctx, "Failed to mark scheduled post published", "error", err)
		return
	}
	log.InfoContext(ctx, "Scheduled post published", "chat_id", channel.TelegramID)
}

// RestorePending re-registers triggers for pending posts after a process
// restart. Overdue posts run immediately.
func (p *Publisher) RestorePending(ctx context.Context) error {
	pending, err := p.store.ListPendingPosts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending posts: %w", err)
	}

	now := time.Now()
	restored := 0
	for _, record := range pending {
		if !record.RunAt.After(now) {
			p.log.InfoContext(ctx, "Running overdue scheduled post", "post_id", record.ID, "run_at", record.RunAt)
			p.RunScheduledJob(ctx, record.ID)
			continue
		}
		if err := p.scheduler.RegisterAt(record.RunAt, record.ID, p.RunScheduledJob); err != nil {
			p.log.ErrorContext(ctx, "Failed to restore trigger for scheduled post",
				"post_id", record.ID, "error", err)
			continue
		}
		restored++
	}

	p.log.InfoContext(ctx, "Pending scheduled posts restored", "count", restored, "total", len(pending))
	return nil
}

func (p *Publisher) markFailed(ctx context.Context, postID int64) {
	if err := p.store.SetScheduledPostStatus(ctx, postID, database.PostStatusFailed); err != nil {
		p.log.ErrorContext(ctx, "Failed to mark scheduled post failed", "post_id", postID, "error", err)
	}
}
