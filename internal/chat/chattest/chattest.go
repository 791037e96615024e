// Package chattest provides a recording chat.Sender for tests.
package chattest

import (
	"context"
	"errors"
	"sync"

	"github.com/susu3304/classbot/internal/chat"
)

var ErrBlocked = errors.New("recipient blocked the bot")

type Sent struct {
	To      int64
	Message chat.Message
}

// Recorder records every message it is asked to send. Sends to ids marked
// with Block fail with ErrBlocked and are not recorded.
type Recorder struct {
	mu      sync.Mutex
	sent    []Sent
	blocked map[int64]bool
}

func New() *Recorder {
	return &Recorder{blocked: make(map[int64]bool)}
}

func (r *Recorder) Block(ids ...int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		r.blocked[id] = true
	}
}

func (r *Recorder) Send(_ context.Context, to int64, msg chat.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.blocked[to] {
		return ErrBlocked
	}
	r.sent = append(r.sent, Sent{To: to, Message: msg})
	return nil
}

// To returns the messages sent to one recipient in order.
func (r *Recorder) To(id int64) []chat.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Message
	for _, s := range r.sent {
		if s.To == id {
			out = append(out, s.Message)
		}
	}
	return out
}

// Last returns the latest message sent to id.
func (r *Recorder) Last(id int64) (chat.Message, bool) {
	msgs := r.To(id)
	if len(msgs) == 0 {
		return chat.Message{}, false
	}
	return msgs[len(msgs)-1], true
}

func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}
