package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/rolewj/class-schedule-notifications-bot/internal/app"
	"github.com/rolewj/class-schedule-notifications-bot/internal/config"
	"github.com/rolewj/class-schedule-notifications-bot/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet.
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	log.Info("config loaded",
		zap.String("db", cfg.DBPath),
		zap.String("poll", cfg.PollSpec),
		zap.Bool("sentiment", cfg.SentimentEnabled),
	)

	bot, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("app init failed", zap.Error(err))
	}
	if err := bot.Run(context.Background()); err != nil {
		log.Fatal("app run failed", zap.Error(err))
	}
}
