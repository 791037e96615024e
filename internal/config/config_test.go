package config

import (
	"strings"
	"testing"
	"time"
)

var configKeys = []string{
	"DISCORD_TOKEN", "DEVELOPER_ID", "DATABASE_URL",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "SESSION_TTL_MINUTES",
	"WEB_BIND", "LOG_LEVEL", "BROADCAST_CONCURRENCY",
	"REMINDER_INTERVAL_HOURS", "COLLECTION_DEADLINE_DAYS",
}

// setRequired clears every key and sets the mandatory ones.
func setRequired(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DEVELOPER_ID", "42")
	t.Setenv("DATABASE_URL", "sqlite://classbot.db")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DeveloperID != 42 {
		t.Errorf("DeveloperID = %d", cfg.DeveloperID)
	}
	if cfg.WebBind != "127.0.0.1:3000" {
		t.Errorf("WebBind = %q", cfg.WebBind)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.BroadcastConcurrency != 4 {
		t.Errorf("BroadcastConcurrency = %d", cfg.BroadcastConcurrency)
	}
	if cfg.ReminderInterval != 0 || cfg.CollectionDeadlineDays != 0 {
		t.Errorf("reminders and deadlines should be off by default: %v, %d", cfg.ReminderInterval, cfg.CollectionDeadlineDays)
	}
	if cfg.Redis.Enabled() {
		t.Error("Redis should be disabled without REDIS_ADDR")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SESSION_TTL_MINUTES", "15")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("BROADCAST_CONCURRENCY", "16")
	t.Setenv("REMINDER_INTERVAL_HOURS", "24")
	t.Setenv("COLLECTION_DEADLINE_DAYS", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Redis.Enabled() || cfg.Redis.DB != 2 {
		t.Errorf("unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.SessionTTL != 15*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.BroadcastConcurrency != 16 {
		t.Errorf("BroadcastConcurrency = %d", cfg.BroadcastConcurrency)
	}
	if cfg.ReminderInterval != 24*time.Hour {
		t.Errorf("ReminderInterval = %v", cfg.ReminderInterval)
	}
	if cfg.CollectionDeadlineDays != 7 {
		t.Errorf("CollectionDeadlineDays = %d", cfg.CollectionDeadlineDays)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"missing token", "DISCORD_TOKEN", ""},
		{"missing database", "DATABASE_URL", ""},
		{"missing developer", "DEVELOPER_ID", ""},
		{"bad developer", "DEVELOPER_ID", "abc"},
		{"bad redis db", "REDIS_DB", "x"},
		{"zero session ttl", "SESSION_TTL_MINUTES", "0"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"concurrency too low", "BROADCAST_CONCURRENCY", "0"},
		{"concurrency too high", "BROADCAST_CONCURRENCY", "65"},
		{"negative reminder", "REMINDER_INTERVAL_HOURS", "-1"},
		{"negative deadline", "COLLECTION_DEADLINE_DAYS", "-3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q does not mention %s", err, tt.key)
			}
		})
	}
}
