package broadcast

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/susu3304/classbot/internal/chat"
	"github.com/susu3304/classbot/internal/model"
)

type fakeSender struct {
	mu     sync.Mutex
	fail   map[int64]bool
	sent   map[int64]chat.Message
	active int32
	peak   int32
}

func (f *fakeSender) Send(_ context.Context, to int64, msg chat.Message) error {
	n := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)
	for {
		p := atomic.LoadInt32(&f.peak)
		if n <= p || atomic.CompareAndSwapInt32(&f.peak, p, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)

	if f.fail[to] {
		return errors.New("bot was blocked by the user")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sent == nil {
		f.sent = make(map[int64]chat.Message)
	}
	f.sent[to] = msg
	return nil
}

type fakeLog struct {
	rows []model.Delivery
}

func (f *fakeLog) RecordDeliveries(_ context.Context, rows []model.Delivery) error {
	f.rows = append(f.rows, rows...)
	return nil
}

func TestDispatchCountsPartialFailure(t *testing.T) {
	tests := []struct {
		name       string
		recipients []int64
		fail       map[int64]bool
		wantSent   int
	}{
		{"all delivered", []int64{1, 2, 3}, nil, 3},
		{"some fail", []int64{1, 2, 3, 4, 5}, map[int64]bool{2: true, 5: true}, 3},
		{"all fail", []int64{1, 2}, map[int64]bool{1: true, 2: true}, 0},
		{"no recipients", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &fakeSender{fail: tt.fail}
			log := &fakeLog{}
			d := New(out, log, 2)

			sum := d.Broadcast(context.Background(), "announcement", 9, chat.Text("hello"), tt.recipients)

			if sum.Sent != tt.wantSent {
				t.Errorf("Sent = %d, want %d", sum.Sent, tt.wantSent)
			}
			if sum.Sent+sum.Failed != len(tt.recipients) {
				t.Errorf("Sent+Failed = %d, want %d", sum.Sent+sum.Failed, len(tt.recipients))
			}
			if len(log.rows) != len(tt.recipients) {
				t.Fatalf("recorded %d rows, want %d", len(log.rows), len(tt.recipients))
			}
			for i, row := range log.rows {
				if row.RecipientID != tt.recipients[i] || row.MessageID != 9 || row.MessageType != "announcement" {
					t.Errorf("row %d = %+v", i, row)
				}
				if row.Delivered == tt.fail[row.RecipientID] {
					t.Errorf("row %d delivered = %v", i, row.Delivered)
				}
				if !row.Delivered && row.Reason == "" {
					t.Errorf("row %d has no failure reason", i)
				}
			}
		})
	}
}

func TestDispatchPerRecipientMessages(t *testing.T) {
	out := &fakeSender{}
	d := New(out, nil, 4)

	sum := d.Dispatch(context.Background(), "collection", 1, []Outgoing{
		{To: 1, Message: chat.Text("for one")},
		{To: 2, Message: chat.Text("for two")},
	})
	if sum.Sent != 2 {
		t.Fatalf("Sent = %d, want 2", sum.Sent)
	}
	if out.sent[1].Text != "for one" || out.sent[2].Text != "for two" {
		t.Errorf("messages were mixed up: %+v", out.sent)
	}
	if sum.Results[0].To != 1 || sum.Results[1].To != 2 {
		t.Errorf("results out of order: %+v", sum.Results)
	}
}

func TestDispatchRespectsLimit(t *testing.T) {
	out := &fakeSender{}
	d := New(out, nil, 3)

	recipients := make([]int64, 20)
	for i := range recipients {
		recipients[i] = int64(i + 1)
	}
	d.Broadcast(context.Background(), "homework", 1, chat.Text("hw"), recipients)

	if peak := atomic.LoadInt32(&out.peak); peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak)
	}
}
