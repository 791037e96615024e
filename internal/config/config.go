package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	// Discord Bot
	DiscordToken string `env:"DISCORD_TOKEN" validate:"required"`
	DeveloperID  int64  `env:"DEVELOPER_ID" validate:"gt=0"`

	// Database
	DatabaseURL string `env:"DATABASE_URL" validate:"required"`

	// Sessions are kept in Redis when an address is set.
	Redis      Redis
	SessionTTL time.Duration `env:"SESSION_TTL_MINUTES" validate:"gt=0"`

	// Web Server
	WebBind string `env:"WEB_BIND" validate:"required"`

	LogLevel string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	// Payments and broadcasts
	BroadcastConcurrency   int           `env:"BROADCAST_CONCURRENCY" validate:"min=1,max=64"`
	ReminderInterval       time.Duration `env:"REMINDER_INTERVAL_HOURS" validate:"gte=0"`
	CollectionDeadlineDays int           `env:"COLLECTION_DEADLINE_DAYS" validate:"gte=0"`
}

type Redis struct {
	Addr     string
	Password string
	DB       int `env:"REDIS_DB" validate:"gte=0"`
}

func (r Redis) Enabled() bool {
	return r.Addr != ""
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		WebBind:      getEnvDefault("WEB_BIND", "127.0.0.1:3000"),
		LogLevel:     strings.ToLower(getEnvDefault("LOG_LEVEL", "info")),
		Redis: Redis{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
	}

	var err error
	if cfg.DeveloperID, err = getEnvInt64("DEVELOPER_ID", 0); err != nil {
		return nil, err
	}
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getEnvDuration("SESSION_TTL_MINUTES", time.Minute, 60); err != nil {
		return nil, err
	}
	if cfg.BroadcastConcurrency, err = getEnvInt("BROADCAST_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	if cfg.ReminderInterval, err = getEnvDuration("REMINDER_INTERVAL_HOURS", time.Hour, 0); err != nil {
		return nil, err
	}
	if cfg.CollectionDeadlineDays, err = getEnvInt("COLLECTION_DEADLINE_DAYS", 0); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, describe(err)
	}
	return cfg, nil
}

// describe turns validation failures into messages naming the variables.
func describe(err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msgs := make([]string, 0, len(fields))
	for _, fe := range fields {
		if fe.Tag() == "required" {
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s is invalid (%s=%s)", fe.Field(), fe.Tag(), fe.Param()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

// getEnvDuration reads a whole number of units.
func getEnvDuration(key string, unit time.Duration, defaultValue int) (time.Duration, error) {
	n, err := getEnvInt(key, defaultValue)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * unit, nil
}
