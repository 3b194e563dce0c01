// Package bot ties the telegram listener and the job scheduler into one
// supervised unit.
package bot

import (
	"context"
	"errors"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"
)

// Bot runs the telegram update listener alongside the scheduler and shuts
// both down together.
type Bot struct {
	logger    *slog.Logger
	tgBot     *tgbot.Bot
	scheduler *Scheduler
}

// New creates the supervisor for an already configured telegram bot and
// scheduler.
func New(logger *slog.Logger, tgBot *tgbot.Bot, scheduler *Scheduler) *Bot {
	return &Bot{
		logger:    logger,
		tgBot:     tgBot,
		scheduler: scheduler,
	}
}

// Run blocks until the context is cancelled or a component fails. The
// first failure cancels the group and the remaining components drain.
func (b *Bot) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		b.logger.InfoContext(groupCtx, "Starting telegram listener")
		b.tgBot.Start(groupCtx)

		if groupCtx.Err() == nil {
			return errors.New("telegram listener stopped unexpectedly")
		}

		b.logger.InfoContext(groupCtx, "Telegram listener stopped")

		return nil
	})

	group.Go(func() error {
		b.scheduler.Start()
		<-groupCtx.Done()

		if err := b.scheduler.Stop(); err != nil {
			b.logger.ErrorContext(groupCtx, "Failed to stop scheduler cleanly", "error", err)

			return err
		}

		return nil
	})

	return group.Wait()
}
