// Package config handles loading the ebb config.toml configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the ~/.ebb/config.toml configuration file.
type Config struct {
	Sync   Sync   `toml:"sync"`
	Daemon Daemon `toml:"daemon"`
}

// Sync contains remote sync configuration. Sync stays disabled until an
// endpoint is configured.
type Sync struct {
	// Endpoint is the base URL of the sync server.
	Endpoint string `toml:"endpoint"`
	// Token is the bearer token sent with every request.
	Token string `toml:"token"`
	// UserID scopes pushed rows server-side.
	UserID string `toml:"user-id"`
	// TimeoutSeconds bounds each HTTP request. Defaults to 30.
	TimeoutSeconds int `toml:"timeout-seconds"`
}

// Daemon contains background schedule configuration. Schedules use cron
// syntax, including @every descriptors.
type Daemon struct {
	// SyncSchedule controls how often a full sync pass runs.
	SyncSchedule string `toml:"sync-schedule"`
	// SweepSchedule controls how often the overdue/decay sweep runs.
	SweepSchedule string `toml:"sweep-schedule"`
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ebb", "config.toml"), nil
}

// Load reads the config file at path, applying defaults for unset fields.
// A missing file yields the default config, not an error.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.Sync.Endpoint = strings.TrimSpace(cfg.Sync.Endpoint)
	cfg.Sync.Token = strings.TrimSpace(cfg.Sync.Token)
	cfg.Sync.UserID = strings.TrimSpace(cfg.Sync.UserID)
	if cfg.Sync.TimeoutSeconds <= 0 {
		cfg.Sync.TimeoutSeconds = 30
	}
	if strings.TrimSpace(cfg.Daemon.SyncSchedule) == "" {
		cfg.Daemon.SyncSchedule = defaults().Daemon.SyncSchedule
	}
	if strings.TrimSpace(cfg.Daemon.SweepSchedule) == "" {
		cfg.Daemon.SweepSchedule = defaults().Daemon.SweepSchedule
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Sync: Sync{
			TimeoutSeconds: 30,
		},
		Daemon: Daemon{
			SyncSchedule:  "@every 15m",
			SweepSchedule: "@daily",
		},
	}
}

// SyncEnabled reports whether a remote endpoint has been configured.
func (c *Config) SyncEnabled() bool {
	return c.Sync.Endpoint != ""
}

// Timeout returns the configured request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Sync.TimeoutSeconds) * time.Second
}
