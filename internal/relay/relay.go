// Package relay moves announcements, homework and personal messages
// between teachers and parents.
package relay

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/susu3304/classbot/internal/broadcast"
	"github.com/susu3304/classbot/internal/chat"
	"github.com/susu3304/classbot/internal/db"
	"github.com/susu3304/classbot/internal/locale"
	"github.com/susu3304/classbot/internal/model"
)

var (
	ErrNotFound     = db.ErrNotFound
	ErrEmpty        = errors.New("message is empty")
	ErrNoRecipients = errors.New("no recipients")
)

const (
	historyLimit = 10
	inboxLimit   = 10
	previewRunes = 100
)

type Store interface {
	ListByRole(ctx context.Context, role model.Role) ([]model.Participant, error)
	CreateBroadcast(ctx context.Context, b *model.Broadcast) error
	SetRecipientCount(ctx context.Context, broadcastID int64, n int) error
	RecentBroadcasts(ctx context.Context, kind model.BroadcastKind, limit int) ([]model.Broadcast, error)
	CreateThreadMessage(ctx context.Context, m *model.ThreadMessage) error
	GetThreadMessage(ctx context.Context, id int64) (*model.ThreadMessage, error)
	Inbox(ctx context.Context, dir model.Direction, recipientID int64, limit int) ([]model.ThreadMessage, error)
}

type Relay struct {
	store      Store
	dispatcher *broadcast.Dispatcher
	texts      *locale.Texts
	now        func() time.Time
}

func New(store Store, dispatcher *broadcast.Dispatcher, texts *locale.Texts) *Relay {
	return &Relay{
		store:      store,
		dispatcher: dispatcher,
		texts:      texts,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Announce stores an announcement or homework entry and delivers it to
// every parent.
func (r *Relay) Announce(ctx context.Context, sender model.Participant, kind model.BroadcastKind, body string) (*model.Broadcast, broadcast.Summary, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, broadcast.Summary{}, ErrEmpty
	}
	parents, err := r.store.ListByRole(ctx, model.RoleParent)
	if err != nil {
		return nil, broadcast.Summary{}, err
	}
	if len(parents) == 0 {
		return nil, broadcast.Summary{}, ErrNoRecipients
	}

	b := &model.Broadcast{
		Kind:       kind,
		SenderID:   sender.ID,
		SenderName: sender.DisplayName(),
		Body:       body,
		SentAt:     r.now(),
	}
	if err := r.store.CreateBroadcast(ctx, b); err != nil {
		return nil, broadcast.Summary{}, err
	}

	key := locale.AnnouncementOut
	if kind == model.KindHomework {
		key = locale.HomeworkOut
	}
	msg := chat.Text(r.texts.T(key, b.SenderName, body))
	sum := r.dispatcher.Broadcast(ctx, string(kind), b.ID, msg, ids(parents))

	b.RecipientCount = sum.Sent
	if err := r.store.SetRecipientCount(ctx, b.ID, sum.Sent); err != nil {
		slog.Error("failed to store recipient count", "broadcast", b.ID, "err", err)
	}
	slog.Info("broadcast sent", "kind", kind, "broadcast", b.ID, "sent", sum.Sent, "failed", sum.Failed)
	return b, sum, nil
}

// Recent renders the latest broadcasts of one kind.
func (r *Relay) Recent(ctx context.Context, kind model.BroadcastKind) (chat.Message, error) {
	list, err := r.store.RecentBroadcasts(ctx, kind, historyLimit)
	if err != nil {
		return chat.Message{}, err
	}
	header, empty := locale.AnnouncementsHeader, locale.AnnouncementsEmpty
	if kind == model.KindHomework {
		header, empty = locale.HomeworkHeader, locale.HomeworkEmpty
	}
	if len(list) == 0 {
		return chat.Text(r.texts.T(empty)), nil
	}
	var b strings.Builder
	b.WriteString(r.texts.T(header))
	for _, item := range list {
		b.WriteString("\n\n")
		b.WriteString(r.texts.T(locale.BroadcastItem, item.SentAt.Format("02.01.2006 15:04"), item.SenderName, item.Body))
	}
	return chat.Text(b.String()), nil
}

// SubmitToTeachers stores a parent's message for the whole teacher pool and
// delivers it to every teacher with a reply shortcut.
func (r *Relay) SubmitToTeachers(ctx context.Context, parent model.Participant, body string) (*model.ThreadMessage, broadcast.Summary, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, broadcast.Summary{}, ErrEmpty
	}
	teachers, err := r.store.ListByRole(ctx, model.RoleTeacher)
	if err != nil {
		return nil, broadcast.Summary{}, err
	}
	if len(teachers) == 0 {
		return nil, broadcast.Summary{}, ErrNoRecipients
	}

	m := &model.ThreadMessage{
		Direction:  model.ToTeacher,
		SenderID:   parent.ID,
		SenderName: parent.DisplayName(),
		Body:       body,
		SentAt:     r.now(),
	}
	if err := r.store.CreateThreadMessage(ctx, m); err != nil {
		return nil, broadcast.Summary{}, err
	}

	msg := chat.Message{
		Text:     r.texts.T(locale.MessageToTeacherOut, m.SenderName, idString(m.ID), body),
		Keyboard: [][]string{{locale.ReplyLabel(m.ID)}},
	}
	sum := r.dispatcher.Broadcast(ctx, "parent_message", m.ID, msg, ids(teachers))
	return m, sum, nil
}

// SendToParent stores and delivers a personal message from a teacher.
// The message is kept even when delivery fails.
func (r *Relay) SendToParent(ctx context.Context, teacher model.Participant, parentID int64, body string) (*model.ThreadMessage, error) {
	return r.send(ctx, model.ToParent, teacher, parentID, body, locale.PersonalOut, "personal")
}

// Reply answers the thread message original. A teacher's reply goes to the
// parent who wrote it, a parent's reply goes to the teacher who wrote it.
func (r *Relay) Reply(ctx context.Context, caller model.Participant, original *model.ThreadMessage, body string) (*model.ThreadMessage, error) {
	if original.Direction == model.ToTeacher {
		return r.send(ctx, model.ToParent, caller, original.SenderID, body, locale.ReplyToParentOut, "reply")
	}
	return r.send(ctx, model.ToTeacher, caller, original.SenderID, body, locale.ReplyToTeacherOut, "reply")
}

func (r *Relay) send(ctx context.Context, dir model.Direction, sender model.Participant, to int64, body string, key locale.Key, messageType string) (*model.ThreadMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmpty
	}
	m := &model.ThreadMessage{
		Direction:   dir,
		SenderID:    sender.ID,
		SenderName:  sender.DisplayName(),
		RecipientID: to,
		Body:        body,
		SentAt:      r.now(),
	}
	if err := r.store.CreateThreadMessage(ctx, m); err != nil {
		return nil, err
	}

	msg := chat.Message{
		Text:     r.texts.T(key, m.SenderName, idString(m.ID), body),
		Keyboard: [][]string{{locale.ReplyLabel(m.ID)}},
	}
	sum := r.dispatcher.Dispatch(ctx, messageType, m.ID, []broadcast.Outgoing{{To: to, Message: msg}})
	if sum.Failed > 0 {
		return m, sum.Results[0].Err
	}
	return m, nil
}

// ReplyTarget loads the message caller wants to answer. Teachers may answer
// parents' messages sent to the pool or to them; parents may answer
// teachers' messages sent to them.
func (r *Relay) ReplyTarget(ctx context.Context, caller model.Participant, messageID int64) (*model.ThreadMessage, error) {
	m, err := r.store.GetThreadMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	switch caller.Role {
	case model.RoleTeacher:
		if m.Direction == model.ToTeacher && (m.RecipientID == 0 || m.RecipientID == caller.ID) {
			return m, nil
		}
	case model.RoleParent:
		if m.Direction == model.ToParent && m.RecipientID == caller.ID {
			return m, nil
		}
	}
	return nil, ErrNotFound
}

// Inbox lists the latest messages addressed to caller.
func (r *Relay) Inbox(ctx context.Context, caller model.Participant) ([]model.ThreadMessage, error) {
	dir := model.ToParent
	if caller.Role == model.RoleTeacher {
		dir = model.ToTeacher
	}
	return r.store.Inbox(ctx, dir, caller.ID, inboxLimit)
}

// InboxMessage renders the inbox of caller with one reply label per message.
func (r *Relay) InboxMessage(ctx context.Context, caller model.Participant) (chat.Message, error) {
	list, err := r.Inbox(ctx, caller)
	if err != nil {
		return chat.Message{}, err
	}
	header, empty := locale.TeacherInboxHeader, locale.TeacherInboxEmpty
	if caller.Role == model.RoleTeacher {
		header, empty = locale.ParentInboxHeader, locale.ParentInboxEmpty
	}
	return r.listMessage(list, header, empty, locale.ReplyLabel), nil
}

// ForwardPicker renders the parents' messages a teacher may forward.
func (r *Relay) ForwardPicker(ctx context.Context, teacher model.Participant) (chat.Message, error) {
	list, err := r.store.Inbox(ctx, model.ToTeacher, teacher.ID, inboxLimit)
	if err != nil {
		return chat.Message{}, err
	}
	msg := r.listMessage(list, locale.SelectForward, locale.ParentInboxEmpty, locale.ForwardLabel)
	if len(list) == 0 {
		msg.Keyboard = locale.BackMenu()
	}
	return msg, nil
}

func (r *Relay) listMessage(list []model.ThreadMessage, header, empty locale.Key, label func(int64) string) chat.Message {
	if len(list) == 0 {
		return chat.Text(r.texts.T(empty))
	}
	var b strings.Builder
	b.WriteString(r.texts.T(header))
	keyboard := make([][]string, 0, len(list)+1)
	for _, m := range list {
		b.WriteString("\n\n")
		b.WriteString(r.texts.T(locale.InboxItem, idString(m.ID), m.SenderName, m.SentAt.Format("02.01 15:04"), preview(m.Body)))
		keyboard = append(keyboard, []string{label(m.ID)})
	}
	keyboard = append(keyboard, locale.BackMenu()...)
	return chat.Message{Text: b.String(), Keyboard: keyboard}
}

// Forward shares a parent's message with every other parent and records it
// as a forward broadcast.
func (r *Relay) Forward(ctx context.Context, teacher model.Participant, messageID int64) (*model.Broadcast, broadcast.Summary, error) {
	original, err := r.ReplyTarget(ctx, teacher, messageID)
	if err != nil {
		return nil, broadcast.Summary{}, err
	}
	parents, err := r.store.ListByRole(ctx, model.RoleParent)
	if err != nil {
		return nil, broadcast.Summary{}, err
	}
	var recipients []int64
	for _, p := range parents {
		if p.ID != original.SenderID {
			recipients = append(recipients, p.ID)
		}
	}
	if len(recipients) == 0 {
		return nil, broadcast.Summary{}, ErrNoRecipients
	}

	b := &model.Broadcast{
		Kind:       model.KindForward,
		SenderID:   teacher.ID,
		SenderName: original.SenderName,
		Body:       original.Body,
		SentAt:     r.now(),
	}
	if err := r.store.CreateBroadcast(ctx, b); err != nil {
		return nil, broadcast.Summary{}, err
	}
	msg := chat.Text(r.texts.T(locale.ForwardOut, original.SenderName, original.Body))
	sum := r.dispatcher.Broadcast(ctx, string(model.KindForward), b.ID, msg, recipients)
	b.RecipientCount = sum.Sent
	if err := r.store.SetRecipientCount(ctx, b.ID, sum.Sent); err != nil {
		slog.Error("failed to store recipient count", "broadcast", b.ID, "err", err)
	}
	return b, sum, nil
}

func preview(body string) string {
	runes := []rune(body)
	if len(runes) <= previewRunes {
		return body
	}
	return string(runes[:previewRunes]) + "..."
}

func ids(ps []model.Participant) []int64 {
	out := make([]int64, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}
