package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/susu3304/classbot/internal/payments"
)

// reminderWorker periodically resends payment requests that are still pending.
type reminderWorker struct {
	engine   *payments.Engine
	stopChan chan struct{}
	ticker   *time.Ticker
	interval time.Duration
	check    time.Duration
}

func newReminderWorker(engine *payments.Engine, interval time.Duration) *reminderWorker {
	if interval <= 0 {
		return nil
	}
	check := 15 * time.Minute
	if interval < check {
		check = interval
	}
	return &reminderWorker{
		engine:   engine,
		stopChan: make(chan struct{}),
		interval: interval,
		check:    check,
	}
}

func (w *reminderWorker) start() {
	if w == nil {
		return
	}
	w.ticker = time.NewTicker(w.check)
	go w.loop()
	slog.Info("payment reminders enabled", "interval", w.interval)
}

func (w *reminderWorker) stop() {
	if w == nil {
		return
	}
	close(w.stopChan)
	if w.ticker != nil {
		w.ticker.Stop()
	}
}

func (w *reminderWorker) loop() {
	ctx := context.Background()
	for {
		select {
		case <-w.ticker.C:
			w.tick(ctx)
		case <-w.stopChan:
			return
		}
	}
}

func (w *reminderWorker) tick(ctx context.Context) {
	sent, err := w.engine.RemindPending(ctx, w.interval)
	if err != nil {
		slog.Error("reminder: failed to load due payments", "err", err)
		return
	}
	if sent > 0 {
		slog.Info("reminder: payment requests resent", "sent", sent)
	}
}
