package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
chat:
  username: tangobot
  password: hunter2
  rooms: [mainroom, sideroom]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mainroom", cfg.Chat.HomeRoom, "home room defaults to the first room")
	assert.Equal(t, "127.0.0.1", cfg.PostgreSQL.Host)
	assert.Equal(t, 5432, cfg.PostgreSQL.Port)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	assert.Equal(t, "us-east-1", cfg.Bucket.Region)
	assert.Equal(t, 40*time.Second, cfg.HTTPTimeout)
	assert.NotEmpty(t, cfg.Moderation.PlaceholderURL)
}

func TestLoadExplicitValuesWin(t *testing.T) {
	path := writeConfig(t, `
chat:
  username: tangobot
  rooms: [mainroom, sideroom]
  home_room: sideroom
moderation:
  placeholder_url: https://example.com/x.png
  ignored_users: [spammer]
  metric_rooms: [ukroom]
http_timeout_seconds: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sideroom", cfg.Chat.HomeRoom)
	assert.Equal(t, "https://example.com/x.png", cfg.Moderation.PlaceholderURL)
	assert.Equal(t, []string{"spammer"}, cfg.Moderation.IgnoredUsers)
	assert.Equal(t, []string{"ukroom"}, cfg.Moderation.MetricRooms)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
}

func TestLoadEnvironmentOverlay(t *testing.T) {
	t.Setenv("CHAT_BOT_PASSWORD", "env-secret")
	t.Setenv("GIPHY_API_KEY", "giphy-key")
	t.Setenv("CHAT_IGNORED_USERS", "spammer, troll ,")

	path := writeConfig(t, `
chat:
  username: tangobot
  password: file-secret
  rooms: [mainroom]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Chat.Password, "environment beats the file")
	assert.Equal(t, "giphy-key", cfg.ApiKeys.Giphy)
	assert.Equal(t, []string{"spammer", "troll"}, cfg.Moderation.IgnoredUsers)
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing username", func(t *testing.T) {
		path := writeConfig(t, "chat:\n  rooms: [mainroom]\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "chat.username")
	})

	t.Run("missing rooms", func(t *testing.T) {
		path := writeConfig(t, "chat:\n  username: tangobot\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "chat.rooms")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "chat: [unbalanced")
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestDSN(t *testing.T) {
	var cfg Config
	cfg.PostgreSQL.Host = "db.internal"
	cfg.PostgreSQL.Port = 5433
	cfg.PostgreSQL.User = "bot"
	cfg.PostgreSQL.Password = "pw"
	cfg.PostgreSQL.DbName = "chat"

	assert.Equal(t,
		"host=db.internal port=5433 user=bot password=pw dbname=chat sslmode=disable",
		cfg.DSN())
}
