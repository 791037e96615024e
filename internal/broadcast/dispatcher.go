package broadcast

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"github.com/susu3304/classbot/internal/chat"
	"github.com/susu3304/classbot/internal/model"
)

var deliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "classbot_deliveries_total",
	Help: "Broadcast deliveries by message type and outcome.",
}, []string{"type", "result"})

// DeliveryLog persists one row per attempted delivery.
type DeliveryLog interface {
	RecordDeliveries(ctx context.Context, deliveries []model.Delivery) error
}

// Outgoing is one message addressed to one recipient.
type Outgoing struct {
	To      int64
	Message chat.Message
}

// Result is the outcome of one send.
type Result struct {
	To  int64
	Err error
}

func (r Result) Delivered() bool {
	return r.Err == nil
}

type Summary struct {
	Results []Result
	Sent    int
	Failed  int
}

type Dispatcher struct {
	out   chat.Sender
	log   DeliveryLog
	limit int
	now   func() time.Time
}

// New returns a dispatcher that runs at most limit sends at once.
func New(out chat.Sender, log DeliveryLog, limit int) *Dispatcher {
	if limit < 1 {
		limit = 1
	}
	return &Dispatcher{
		out:   out,
		log:   log,
		limit: limit,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Broadcast sends the same message to every recipient.
func (d *Dispatcher) Broadcast(ctx context.Context, messageType string, messageID int64, msg chat.Message, recipients []int64) Summary {
	items := make([]Outgoing, len(recipients))
	for i, to := range recipients {
		items[i] = Outgoing{To: to, Message: msg}
	}
	return d.Dispatch(ctx, messageType, messageID, items)
}

// Dispatch sends every item independently. A failed send never stops the
// others. One delivery row is recorded per item.
func (d *Dispatcher) Dispatch(ctx context.Context, messageType string, messageID int64, items []Outgoing) Summary {
	results := make([]Result, len(items))

	var g errgroup.Group
	g.SetLimit(d.limit)
	for i, item := range items {
		g.Go(func() error {
			results[i] = Result{To: item.To, Err: d.out.Send(ctx, item.To, item.Message)}
			return nil
		})
	}
	_ = g.Wait()

	sum := Summary{Results: results}
	at := d.now()
	rows := make([]model.Delivery, len(results))
	for i, r := range results {
		rows[i] = model.Delivery{
			MessageType: messageType,
			MessageID:   messageID,
			RecipientID: r.To,
			Delivered:   r.Delivered(),
			SentAt:      at,
		}
		if r.Delivered() {
			sum.Sent++
			deliveriesTotal.WithLabelValues(messageType, "sent").Inc()
			continue
		}
		sum.Failed++
		rows[i].Reason = r.Err.Error()
		deliveriesTotal.WithLabelValues(messageType, "failed").Inc()
		slog.Warn("delivery failed", "type", messageType, "message_id", messageID, "recipient", r.To, "err", r.Err)
	}

	if d.log != nil {
		if err := d.log.RecordDeliveries(ctx, rows); err != nil {
			slog.Error("failed to record deliveries", "type", messageType, "message_id", messageID, "err", err)
		}
	}
	return sum
}
