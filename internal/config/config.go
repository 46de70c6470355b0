package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN" required:"true"`
	DBPath   string `envconfig:"DB_PATH" default:"./data/schedule.db"`
	AdminID  int64  `envconfig:"ADMIN_ID" default:"0"`      // 0 disables admin commands
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`  // debug|info|warn|error
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"` // healthz/readyz
	PollSpec string `envconfig:"POLL_SPEC" default:"* * * * *"`

	SentimentEnabled bool   `envconfig:"SENTIMENT_ENABLED" default:"false"`
	AWSRegion        string `envconfig:"AWS_REGION" default:"eu-central-1"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	sched, err := cron.ParseStandard(cfg.PollSpec)
	if err != nil {
		return cfg, fmt.Errorf("POLL_SPEC: %w", err)
	}
	if !firesEveryMinute(sched) {
		return cfg, errors.New("POLL_SPEC: must fire at least once every minute")
	}
	return cfg, nil
}

// firesEveryMinute checks one week of minutes. Reminders are matched on the
// exact UTC minute, so a minute without a tick is a missed reminder.
func firesEveryMinute(sched cron.Schedule) bool {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for m := 0; m < 7*24*60; m++ {
		minute := start.Add(time.Duration(m) * time.Minute)
		if !sched.Next(minute.Add(-time.Nanosecond)).Before(minute.Add(time.Minute)) {
			return false
		}
	}
	return true
}
