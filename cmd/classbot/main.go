package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/susu3304/classbot/internal/api"
	"github.com/susu3304/classbot/internal/bot"
	"github.com/susu3304/classbot/internal/broadcast"
	"github.com/susu3304/classbot/internal/config"
	"github.com/susu3304/classbot/internal/db"
	"github.com/susu3304/classbot/internal/directory"
	"github.com/susu3304/classbot/internal/discord"
	"github.com/susu3304/classbot/internal/locale"
	"github.com/susu3304/classbot/internal/logging"
	"github.com/susu3304/classbot/internal/payments"
	"github.com/susu3304/classbot/internal/relay"
	"github.com/susu3304/classbot/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ctx := context.Background()

	// Connect to database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(ctx); err != nil {
		fatal("failed to run migrations", err)
	}

	sessions, closeSessions, err := openSessions(ctx, cfg)
	if err != nil {
		fatal("failed to open session store", err)
	}
	defer closeSessions()

	// Initialize Discord transport
	client, err := discord.New(cfg.DiscordToken)
	if err != nil {
		fatal("failed to create discord client", err)
	}

	texts := locale.New()
	dispatcher := broadcast.New(client, database, cfg.BroadcastConcurrency)
	dir := directory.New(database, cfg.DeveloperID)
	engine := payments.NewEngine(database, dispatcher, client, texts, cfg.CollectionDeadlineDays)
	classBot := bot.New(dir, sessions, engine, relay.New(database, dispatcher, texts), client, texts)

	// Start Discord bot
	if err := client.Start(classBot); err != nil {
		fatal("failed to start discord bot", err)
	}
	defer client.Stop()

	classBot.StartReminders(cfg.ReminderInterval)
	defer classBot.Stop()

	// Start API server
	apiServer := api.New(cfg.WebBind, database, dir)
	go func() {
		if err := apiServer.Start(); err != nil {
			slog.Error("API server error", "err", err)
		}
	}()

	// Wait for signal to stop
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("API server shutdown", "err", err)
	}
}

// openSessions picks Redis when configured and process memory otherwise.
func openSessions(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	if !cfg.Redis.Enabled() {
		slog.Info("sessions kept in memory")
		return session.NewMemoryStore(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, err
	}
	slog.Info("sessions kept in redis", "addr", cfg.Redis.Addr)
	return session.NewRedisStore(rdb, cfg.SessionTTL), func() { rdb.Close() }, nil
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}
