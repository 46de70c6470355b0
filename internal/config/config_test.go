package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	unset(t, "DB_PATH", "ADMIN_ID", "LOG_LEVEL", "HTTP_ADDR", "POLL_SPEC", "SENTIMENT_ENABLED", "AWS_REGION")
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, "./data/schedule.db", cfg.DBPath)
	assert.Zero(t, cfg.AdminID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "* * * * *", cfg.PollSpec)
	assert.False(t, cfg.SentimentEnabled)
	assert.Equal(t, "eu-central-1", cfg.AWSRegion)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "987654321")
	t.Setenv("SENTIMENT_ENABLED", "true")
	t.Setenv("POLL_SPEC", "@every 30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(987654321), cfg.AdminID)
	assert.True(t, cfg.SentimentEnabled)
	assert.Equal(t, "@every 30s", cfg.PollSpec)
}

func TestLoadRequiresToken(t *testing.T) {
	unset(t, "BOT_TOKEN")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadPollSpec(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("POLL_SPEC", "every minute")
	_, err := Load()
	assert.ErrorContains(t, err, "POLL_SPEC")
}

func TestLoadRejectsSparsePollSpec(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	for _, spec := range []string{"*/2 * * * *", "0 * * * *", "* 8-20 * * *", "@every 2m"} {
		t.Setenv("POLL_SPEC", spec)
		_, err := Load()
		assert.ErrorContains(t, err, "every minute", spec)
	}
}
