package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.False(t, cfg.SyncEnabled())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, "@every 15m", cfg.Daemon.SyncSchedule)
	assert.Equal(t, "@daily", cfg.Daemon.SweepSchedule)
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
[sync]
endpoint = "https://sync.example.com"
token = "secret"
user-id = "user-1"
timeout-seconds = 10

[daemon]
sync-schedule = "@every 5m"
sweep-schedule = "0 3 * * *"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.SyncEnabled())
	assert.Equal(t, "https://sync.example.com", cfg.Sync.Endpoint)
	assert.Equal(t, "user-1", cfg.Sync.UserID)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, "@every 5m", cfg.Daemon.SyncSchedule)
	assert.Equal(t, "0 3 * * *", cfg.Daemon.SweepSchedule)
}

func TestLoad_PartialConfigKeepsOtherDefaults(t *testing.T) {
	path := writeConfig(t, `
[sync]
endpoint = " https://sync.example.com "
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://sync.example.com", cfg.Sync.Endpoint, "whitespace trimmed")
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, "@every 15m", cfg.Daemon.SyncSchedule)
}

func TestLoad_Malformed(t *testing.T) {
	path := writeConfig(t, `[sync`)
	_, err := Load(path)
	require.Error(t, err)
}
