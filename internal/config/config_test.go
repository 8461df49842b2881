package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "application.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "@every 30s", config.Scheduler.Spec)
	assert.Equal(t, 10*time.Second, config.Telegram.PollTimeout)
	assert.False(t, config.Email.Enabled())
}

func TestLoadConfig_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: file-token
  poll_timeout: 30s
  allowed_user_ids: [1, 2]
scheduler:
  batch_size: 10
email:
  username: bot@example.com
log:
  format: json
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", config.Telegram.Token)
	assert.Equal(t, 30*time.Second, config.Telegram.PollTimeout)
	assert.Equal(t, []int64{1, 2}, config.Telegram.AllowedUserIds)
	assert.Equal(t, 10, config.Scheduler.BatchSize)
	assert.True(t, config.Scheduler.Enabled)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "data/reminders.db", config.Database.Path)
	assert.True(t, config.Email.Enabled())
	assert.Equal(t, "bot@example.com", config.Email.Sender())
}

func TestLoadConfig_EnvironmentWins(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: file-token
http:
  cron_secret: from-file
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "5,6")
	t.Setenv("CRON_SECRET", "from-env")
	t.Setenv("DATABASE_PATH", "/tmp/r.db")
	t.Setenv("EMAIL_USER", "me@example.com")
	t.Setenv("EMAIL_FROM", "bot@example.com")
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", config.Telegram.Token)
	assert.Equal(t, []int64{5, 6}, config.Telegram.AllowedUserIds)
	assert.Equal(t, "from-env", config.HTTP.CronSecret)
	assert.Equal(t, "/tmp/r.db", config.Database.Path)
	assert.Equal(t, "me@example.com", config.Email.Username)
	assert.Equal(t, "bot@example.com", config.Email.Sender())
	assert.False(t, config.Scheduler.Enabled)
	assert.Equal(t, "debug", config.Log.Level)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "telegram: [not a map"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "telegram:\n  mode: carrier-pigeon\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "telegram:\n  mode: webhook\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "scheduler:\n  batch_size: 0\n"))
	assert.Error(t, err)
}
