// Package main contains the entrypoint for the channel post bot.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"channel-post-bot/internal/bot"
	"channel-post-bot/internal/bot/handlers"
	"channel-post-bot/internal/config"
	"channel-post-bot/internal/database"
	"channel-post-bot/internal/logger"
	"channel-post-bot/internal/post"
	"channel-post-bot/internal/translate"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires all components together, blocks until shutdown, and returns
// the process exit code.
func run(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to open database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	var translator translate.Translator
	if cfg.Translator.APIKey != "" {
		gemini, err := translate.NewGemini(ctx, cfg.Translator, log)
		if err != nil {
			log.Error("Failed to initialize translator", "error", err)
			return 1
		}
		translator = gemini
	} else {
		log.Info("Translator disabled: no API key configured")
	}

	sched, err := bot.NewScheduler(log)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	// The admin gate never touches the publisher, so a partial deps value
	// is enough before the telegram client exists.
	gateDeps := handlers.HandlerDeps{Logger: log, Config: cfg, Store: store}

	tg, err := tgbot.New(cfg.Telegram.Token, tgbot.WithMiddlewares(
		logger.Middleware(log),
		handlers.AdminOnly(gateDeps),
	))
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	publisher := post.NewPublisher(log, store, tg, sched)

	deps := handlers.HandlerDeps{
		Logger:     log,
		Config:     cfg,
		Store:      store,
		Publisher:  publisher,
		Renderer:   post.NewRenderer(tg, log),
		Translator: translator,
		Sessions:   handlers.NewSessions(),
	}
	handlers.RegisterAll(tg, deps)

	if err := publisher.RestorePending(ctx); err != nil {
		log.Error("Failed to restore pending posts", "error", err)
		return 1
	}

	app := bot.New(log, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
