package relay_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/susu3304/classbot/internal/broadcast"
	"github.com/susu3304/classbot/internal/chat/chattest"
	"github.com/susu3304/classbot/internal/db"
	"github.com/susu3304/classbot/internal/db/dbtest"
	"github.com/susu3304/classbot/internal/locale"
	"github.com/susu3304/classbot/internal/model"
	"github.com/susu3304/classbot/internal/relay"
)

type fixture struct {
	db       *db.DB
	out      *chattest.Recorder
	relay    *relay.Relay
	teacher  model.Participant
	teacher2 model.Participant
	anna     model.Participant
	boris    model.Participant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := dbtest.New(t)
	out := chattest.New()
	return &fixture{
		db:       database,
		out:      out,
		relay:    relay.New(database, broadcast.New(out, database, 2), locale.New()),
		teacher:  dbtest.AddParticipant(t, database, 10, "Мария Ивановна", model.RoleTeacher),
		teacher2: dbtest.AddParticipant(t, database, 11, "Петр Петрович", model.RoleTeacher),
		anna:     dbtest.AddParticipant(t, database, 20, "Анна", model.RoleParent),
		boris:    dbtest.AddParticipant(t, database, 21, "Борис", model.RoleParent),
	}
}

func TestAnnounce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.out.Block(f.boris.ID)

	b, sum, err := f.relay.Announce(ctx, f.teacher, model.KindAnnouncement, "  Завтра собрание  ")
	if err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if sum.Sent != 1 || sum.Failed != 1 || b.RecipientCount != 1 {
		t.Errorf("sent=%d failed=%d count=%d", sum.Sent, sum.Failed, b.RecipientCount)
	}
	msg, ok := f.out.Last(f.anna.ID)
	if !ok || !strings.Contains(msg.Text, "Завтра собрание") || !strings.Contains(msg.Text, "Мария Ивановна") {
		t.Errorf("announcement = %q", msg.Text)
	}

	rows, err := f.db.Deliveries(ctx, "announcement", b.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("deliveries = %+v, %v", rows, err)
	}

	recent, err := f.relay.Recent(ctx, model.KindAnnouncement)
	if err != nil || !strings.Contains(recent.Text, "Завтра собрание") {
		t.Errorf("Recent = %q, %v", recent.Text, err)
	}
	homework, err := f.relay.Recent(ctx, model.KindHomework)
	if err != nil || homework.Text != "Домашних заданий пока нет" {
		t.Errorf("Recent homework = %q, %v", homework.Text, err)
	}

	if _, _, err := f.relay.Announce(ctx, f.teacher, model.KindHomework, "   "); !errors.Is(err, relay.ErrEmpty) {
		t.Errorf("empty body: got %v, want ErrEmpty", err)
	}
}

func TestAnnounceWithoutParents(t *testing.T) {
	database := dbtest.New(t)
	out := chattest.New()
	r := relay.New(database, broadcast.New(out, database, 1), locale.New())
	teacher := dbtest.AddParticipant(t, database, 10, "Учитель", model.RoleTeacher)

	if _, _, err := r.Announce(context.Background(), teacher, model.KindAnnouncement, "текст"); !errors.Is(err, relay.ErrNoRecipients) {
		t.Errorf("got %v, want ErrNoRecipients", err)
	}
}

func TestConversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, sum, err := f.relay.SubmitToTeachers(ctx, f.anna, "Ребенок заболел")
	if err != nil {
		t.Fatalf("SubmitToTeachers: %v", err)
	}
	if sum.Sent != 2 || m.RecipientID != 0 {
		t.Errorf("sent=%d recipient=%d, want both teachers and the pool", sum.Sent, m.RecipientID)
	}
	msg, _ := f.out.Last(f.teacher2.ID)
	if len(msg.Keyboard) == 0 || msg.Keyboard[0][0] != locale.ReplyLabel(m.ID) {
		t.Errorf("teacher keyboard = %v", msg.Keyboard)
	}

	if _, err := f.relay.ReplyTarget(ctx, f.boris, m.ID); !errors.Is(err, relay.ErrNotFound) {
		t.Errorf("parent targeting a parent message: got %v", err)
	}
	original, err := f.relay.ReplyTarget(ctx, f.teacher2, m.ID)
	if err != nil {
		t.Fatalf("ReplyTarget: %v", err)
	}

	reply, err := f.relay.Reply(ctx, f.teacher2, original, "Выздоравливайте")
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if reply.Direction != model.ToParent || reply.RecipientID != f.anna.ID {
		t.Errorf("reply = %+v", reply)
	}
	if msg, ok := f.out.Last(f.anna.ID); !ok || !strings.Contains(msg.Text, "Выздоравливайте") {
		t.Errorf("parent got %q", msg.Text)
	}

	back, err := f.relay.ReplyTarget(ctx, f.anna, reply.ID)
	if err != nil {
		t.Fatalf("parent ReplyTarget: %v", err)
	}
	if _, err := f.relay.ReplyTarget(ctx, f.boris, reply.ID); !errors.Is(err, relay.ErrNotFound) {
		t.Errorf("other parent targeting reply: got %v", err)
	}
	answer, err := f.relay.Reply(ctx, f.anna, back, "Спасибо")
	if err != nil {
		t.Fatalf("parent Reply: %v", err)
	}
	if answer.Direction != model.ToTeacher || answer.RecipientID != f.teacher2.ID {
		t.Errorf("answer = %+v", answer)
	}
	if _, err := f.relay.ReplyTarget(ctx, f.teacher, answer.ID); !errors.Is(err, relay.ErrNotFound) {
		t.Errorf("teacher targeting another teacher's thread: got %v", err)
	}

	inbox, err := f.relay.Inbox(ctx, f.teacher2)
	if err != nil || len(inbox) != 2 {
		t.Errorf("teacher2 inbox = %d, %v", len(inbox), err)
	}
	inbox, err = f.relay.Inbox(ctx, f.teacher)
	if err != nil || len(inbox) != 1 {
		t.Errorf("teacher inbox = %d, %v", len(inbox), err)
	}
}

func TestSendToParentKeepsUndelivered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.out.Block(f.boris.ID)

	m, err := f.relay.SendToParent(ctx, f.teacher, f.boris.ID, "Зайдите в школу")
	if !errors.Is(err, chattest.ErrBlocked) {
		t.Fatalf("got %v, want ErrBlocked", err)
	}
	if m == nil || m.ID == 0 {
		t.Fatal("message was not stored")
	}
	inbox, err := f.relay.Inbox(ctx, f.boris)
	if err != nil || len(inbox) != 1 {
		t.Errorf("parent inbox = %d, %v", len(inbox), err)
	}
}

func TestForward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dbtest.AddParticipant(t, f.db, 22, "Вера", model.RoleParent)

	m, _, err := f.relay.SubmitToTeachers(ctx, f.anna, "Нашли варежки")
	if err != nil {
		t.Fatal(err)
	}
	picker, err := f.relay.ForwardPicker(ctx, f.teacher)
	if err != nil || picker.Keyboard[0][0] != locale.ForwardLabel(m.ID) {
		t.Fatalf("picker = %+v, %v", picker.Keyboard, err)
	}
	f.out.Reset()

	b, sum, err := f.relay.Forward(ctx, f.teacher, m.ID)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if sum.Sent != 2 || b.Kind != model.KindForward {
		t.Errorf("sent=%d kind=%s", sum.Sent, b.Kind)
	}
	if got := f.out.To(f.anna.ID); len(got) != 0 {
		t.Error("author got their own message back")
	}
	if _, _, err := f.relay.Forward(ctx, f.teacher, m.ID+100); !errors.Is(err, relay.ErrNotFound) {
		t.Errorf("forward of unknown message: got %v", err)
	}
}
