// Package album buffers batched media-group messages. Telegram delivers
// an album as a rapid sequence of independent messages sharing a media
// group id; the buffer collects them and flushes the whole batch once no
// further items arrive within the quiescence window.
package album

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-telegram/bot/models"
)

// DefaultLatency is the quiescence window used when none is configured.
const DefaultLatency = 500 * time.Millisecond

// FlushFunc receives a completed batch, sorted by arrival order.
type FlushFunc func(ctx context.Context, messages []*models.Message)

type group struct {
	messages []*models.Message
	timer    *time.Timer
}

// Buffer collects media-group messages keyed by batch identifier.
// It is safe for concurrent use.
type Buffer struct {
	latency time.Duration
	flush   FlushFunc
	log     *slog.Logger

	mu      sync.Mutex
	pending map[string]*group
}

// NewBuffer creates a buffer that calls flush once per media group after
// the given quiescence window elapses without new arrivals.
func NewBuffer(latency time.Duration, flush FlushFunc, log *slog.Logger) *Buffer {
	if latency <= 0 {
		latency = DefaultLatency
	}
	if log == nil {
		log = slog.Default()
	}
	return &Buffer{
		latency: latency,
		flush:   flush,
		log:     log.With("component", "album_buffer"),
		pending: make(map[string]*group),
	}
}

// Observe inspects an incoming message. Messages without a media group id
// pass through untouched and Observe returns false. Album items are
// buffered and Observe returns true; the caller must stop processing the
// message, it will arrive later as part of one flushed batch.
func (b *Buffer) Observe(ctx context.Context, msg *models.Message) bool {
	if msg == nil || msg.MediaGroupID == "" {
		return false
	}

	id := msg.MediaGroupID

	b.mu.Lock()
	defer b.mu.Unlock()

	if g, ok := b.pending[id]; ok {
		g.messages = append(g.messages, msg)
		g.timer.Reset(b.latency)
		return true
	}

	// The flush timer must outlive the handler that started it.
	flushCtx := context.WithoutCancel(ctx)
	g := &group{messages: []*models.Message{msg}}
	g.timer = time.AfterFunc(b.latency, func() {
		b.flushGroup(flushCtx, id)
	})
	b.pending[id] = g
	return true
}

func (b *Buffer) flushGroup(ctx context.Context, id string) {
	b.mu.Lock()
	g, ok := b.pending[id]
	delete(b.pending, id)
	b.mu.Unlock()

	if !ok || len(g.messages) == 0 {
		return
	}

	sort.Slice(g.messages, func(i, j int) bool {
		return g.messages[i].ID < g.messages[j].ID
	})

	b.log.DebugContext(ctx, "Flushing album", "media_group_id", id, "items", len(g.messages))
	b.flush(ctx, g.messages)
}
