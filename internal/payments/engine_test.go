package payments

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/susu3304/classbot/internal/action"
	"github.com/susu3304/classbot/internal/broadcast"
	"github.com/susu3304/classbot/internal/chat/chattest"
	"github.com/susu3304/classbot/internal/db"
	"github.com/susu3304/classbot/internal/db/dbtest"
	"github.com/susu3304/classbot/internal/locale"
	"github.com/susu3304/classbot/internal/model"
)

const (
	teacherID = 10
	otherID   = 11
)

type fixture struct {
	db      *db.DB
	out     *chattest.Recorder
	engine  *Engine
	teacher model.Participant
	other   model.Participant
	parents []model.Participant
}

func newFixture(t *testing.T, parents int) *fixture {
	t.Helper()
	database := dbtest.New(t)
	out := chattest.New()
	f := &fixture{
		db:      database,
		out:     out,
		engine:  NewEngine(database, broadcast.New(out, database, 4), out, locale.New(), 0),
		teacher: dbtest.AddParticipant(t, database, teacherID, "Учитель", model.RoleTeacher),
		other:   dbtest.AddParticipant(t, database, otherID, "Другой", model.RoleTeacher),
	}
	names := []string{"Анна", "Борис", "Вера", "Глеб", "Дина"}
	for i := 0; i < parents; i++ {
		f.parents = append(f.parents, dbtest.AddParticipant(t, database, int64(100+i), names[i], model.RoleParent))
	}
	fixed := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	f.engine.now = func() time.Time { return fixed }
	return f
}

func (f *fixture) create(t *testing.T, teacher model.Participant, title string, amount int64) *Created {
	t.Helper()
	ctx := context.Background()
	if _, err := f.engine.SetupPhone(ctx, teacher.ID, "8 900 123-45-67"); err != nil {
		t.Fatalf("SetupPhone: %v", err)
	}
	created, err := f.engine.CreateCollection(ctx, teacher, Draft{Title: title, Amount: amount})
	if err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	return created
}

func TestCreateCollectionRequiresPhone(t *testing.T) {
	f := newFixture(t, 2)
	_, err := f.engine.CreateCollection(context.Background(), f.teacher, Draft{Title: "Экскурсия", Amount: 500})
	if !errors.Is(err, ErrPhoneNotConfigured) {
		t.Fatalf("got %v, want ErrPhoneNotConfigured", err)
	}
	if f.out.Count() != 0 {
		t.Errorf("sent %d messages without a collection", f.out.Count())
	}
}

func TestCreateCollectionValidatesDraft(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	if _, err := f.engine.SetupPhone(ctx, teacherID, "9001234567"); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name  string
		draft Draft
	}{
		{"blank title", Draft{Title: "   ", Amount: 100}},
		{"zero amount", Draft{Title: "Театр", Amount: 0}},
		{"negative amount", Draft{Title: "Театр", Amount: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.engine.CreateCollection(ctx, f.teacher, tt.draft); !errors.Is(err, ErrInvalidDraft) {
				t.Errorf("got %v, want ErrInvalidDraft", err)
			}
		})
	}
}

func TestCreateCollectionSendsRequests(t *testing.T) {
	f := newFixture(t, 3)
	f.out.Block(f.parents[2].ID)

	created := f.create(t, f.teacher, "Экскурсия в планетарий", 1500)

	if len(created.Payments) != 3 {
		t.Fatalf("payments = %d, want one per parent", len(created.Payments))
	}
	if created.Summary.Sent != 2 || created.Summary.Failed != 1 {
		t.Errorf("summary = sent %d failed %d, want 2 and 1", created.Summary.Sent, created.Summary.Failed)
	}
	if created.Collection.PurposeCode != "SB09010830" {
		t.Errorf("purpose code = %q", created.Collection.PurposeCode)
	}
	if created.Collection.Phone != "+79001234567" {
		t.Errorf("phone = %q", created.Collection.Phone)
	}

	parent := f.parents[0]
	msg, ok := f.out.Last(parent.ID)
	if !ok {
		t.Fatal("parent got no request")
	}
	wantCode := CommentCode(created.Collection.ID, parent.ID)
	if !strings.Contains(msg.Text, wantCode) || !strings.Contains(msg.Text, "Экскурсия в планетарий") {
		t.Errorf("request text = %q", msg.Text)
	}
	var payloads []string
	for _, row := range msg.Actions {
		for _, a := range row {
			payloads = append(payloads, a.Payload)
		}
	}
	want := []string{
		action.QR(created.Collection.ID, parent.ID),
		action.Paid(created.Collection.ID, parent.ID),
		action.CannotPay(created.Collection.ID, parent.ID),
	}
	if strings.Join(payloads, ",") != strings.Join(want, ",") {
		t.Errorf("actions = %v, want %v", payloads, want)
	}

	rows, err := f.db.Deliveries(context.Background(), "collection", created.Collection.ID)
	if err != nil {
		t.Fatalf("Deliveries: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("delivery rows = %d, want 3", len(rows))
	}
}

func TestCreateCollectionDeadline(t *testing.T) {
	f := newFixture(t, 1)
	f.engine.deadlineDays = 7
	created := f.create(t, f.teacher, "Театр", 300)
	if created.Collection.Deadline == nil {
		t.Fatal("deadline not set")
	}
	if got := created.Collection.Deadline.Format(dateLayout); got != "08.09.2026" {
		t.Errorf("deadline = %s, want 08.09.2026", got)
	}
}

func TestPaymentLifecycle(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	created := f.create(t, f.teacher, "Экскурсия", 500)
	cid := created.Collection.ID
	a, b, c := f.parents[0], f.parents[1], f.parents[2]
	f.out.Reset()

	v, err := f.engine.DeclarePaid(ctx, a.ID, cid)
	if err != nil {
		t.Fatalf("DeclarePaid: %v", err)
	}
	if v.Status != model.StatusPaid {
		t.Errorf("status = %s, want paid", v.Status)
	}
	if msg, ok := f.out.Last(teacherID); !ok || !strings.Contains(msg.Text, v.CommentCode) {
		t.Errorf("teacher notification = %q", msg.Text)
	}

	if _, err := f.engine.DeclarePaid(ctx, a.ID, cid); !errors.Is(err, ErrNotPending) {
		t.Errorf("second DeclarePaid: got %v, want ErrNotPending", err)
	}
	if _, err := f.engine.DeclareCannotPay(ctx, a.ID, cid); !errors.Is(err, ErrNotPending) {
		t.Errorf("cannot pay after paid: got %v, want ErrNotPending", err)
	}
	if _, err := f.engine.DeclarePaid(ctx, a.ID, cid+100); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown collection: got %v, want ErrNotFound", err)
	}

	if _, err := f.engine.DeclarePaid(ctx, b.ID, cid); err != nil {
		t.Fatal(err)
	}
	if _, err := f.engine.DeclareCannotPay(ctx, c.ID, cid); err != nil {
		t.Fatal(err)
	}
	if _, err := f.engine.DeclarePaid(ctx, c.ID, cid); !errors.Is(err, ErrNotPending) {
		t.Errorf("cannot_pay must be terminal, got %v", err)
	}

	awaiting, err := f.engine.AwaitingConfirmation(ctx, teacherID)
	if err != nil || len(awaiting) != 2 {
		t.Fatalf("awaiting = %d, %v", len(awaiting), err)
	}
	payA, err := f.engine.Payment(ctx, a.ID, cid)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.engine.Confirm(ctx, otherID, payA.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign teacher confirm: got %v, want ErrNotFound", err)
	}
	f.out.Reset()
	if _, err := f.engine.Confirm(ctx, teacherID, payA.ID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if msg, ok := f.out.Last(a.ID); !ok || !strings.Contains(msg.Text, "подтвержден") {
		t.Errorf("parent confirmation = %q", msg.Text)
	}
	if _, err := f.engine.Reject(ctx, teacherID, payA.ID, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("reject after confirm: got %v, want ErrNotFound", err)
	}

	payB, err := f.engine.Payment(ctx, b.ID, cid)
	if err != nil {
		t.Fatal(err)
	}
	rejected, err := f.engine.Reject(ctx, teacherID, payB.ID, "")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Notes != "Отклонено учителем" {
		t.Errorf("notes = %q", rejected.Notes)
	}

	statuses, err := f.engine.Statuses(ctx, teacherID)
	if err != nil || len(statuses) != 1 {
		t.Fatalf("statuses = %+v, %v", statuses, err)
	}
	s := statuses[0]
	if s.Confirmed != 1 || s.Paid != 0 || s.CannotPay != 1 || s.NotResponded() != 1 || s.Collected != 500 {
		t.Errorf("status = %+v", s)
	}

	list, err := f.engine.Rejected(ctx, teacherID)
	if err != nil || len(list) != 1 || list[0].ParentID != b.ID {
		t.Errorf("rejected = %+v, %v", list, err)
	}
}

func TestBulkResolutionScope(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	mine := f.create(t, f.teacher, "Мой сбор", 100)
	theirs := f.create(t, f.other, "Чужой сбор", 200)

	for _, p := range f.parents {
		for _, cid := range []int64{mine.Collection.ID, theirs.Collection.ID} {
			if _, err := f.engine.DeclarePaid(ctx, p.ID, cid); err != nil {
				t.Fatal(err)
			}
		}
	}
	f.out.Reset()

	n, err := f.engine.ConfirmAll(ctx, teacherID)
	if err != nil || n != 2 {
		t.Fatalf("ConfirmAll = %d, %v, want 2", n, err)
	}
	if f.out.Count() != 0 {
		t.Errorf("bulk confirm sent %d notifications", f.out.Count())
	}

	n, err = f.engine.RejectAll(ctx, otherID)
	if err != nil || n != 2 {
		t.Fatalf("RejectAll = %d, %v, want 2", n, err)
	}
	rejected, err := f.engine.Rejected(ctx, otherID)
	if err != nil || len(rejected) != 2 {
		t.Fatalf("rejected = %d, %v", len(rejected), err)
	}
	if rejected[0].Notes != "Массовое отклонение" {
		t.Errorf("bulk note = %q", rejected[0].Notes)
	}

	awaiting, err := f.engine.AwaitingConfirmation(ctx, teacherID)
	if err != nil || len(awaiting) != 0 {
		t.Errorf("awaiting after bulk = %d, %v", len(awaiting), err)
	}
}

func TestNotifyToggle(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	if _, err := f.engine.ToggleNotify(ctx, teacherID); !errors.Is(err, ErrPhoneNotConfigured) {
		t.Errorf("toggle without settings: got %v", err)
	}
	created := f.create(t, f.teacher, "Цирк", 700)

	on, err := f.engine.ToggleNotify(ctx, teacherID)
	if err != nil || on {
		t.Fatalf("ToggleNotify = %v, %v, want off", on, err)
	}
	f.out.Reset()
	if _, err := f.engine.DeclarePaid(ctx, f.parents[0].ID, created.Collection.ID); err != nil {
		t.Fatal(err)
	}
	if got := f.out.To(teacherID); len(got) != 0 {
		t.Errorf("muted teacher got %d notifications", len(got))
	}

	if _, err := f.engine.SetupPhone(ctx, teacherID, "+7 (911) 000-00-00"); err != nil {
		t.Fatal(err)
	}
	s, err := f.db.GetPaymentSettings(ctx, teacherID)
	if err != nil {
		t.Fatal(err)
	}
	if s.Phone != "+79110000000" || s.Notify {
		t.Errorf("settings after phone change = %+v", s)
	}
}

func TestParentPaymentsFilters(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	first := f.create(t, f.teacher, "Первый", 100)
	f.create(t, f.teacher, "Второй", 200)
	parent := f.parents[0].ID

	if _, err := f.engine.DeclarePaid(ctx, parent, first.Collection.ID); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		filter Filter
		want   []string
	}{
		{FilterToPay, []string{"Второй"}},
		{FilterPaid, []string{"Первый"}},
		{FilterAll, []string{"Второй", "Первый"}},
	}
	for _, tt := range tests {
		list, err := f.engine.ParentPayments(ctx, parent, tt.filter)
		if err != nil {
			t.Fatal(err)
		}
		var got []string
		for _, v := range list {
			got = append(got, v.CollectionTitle)
		}
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("filter %d = %v, want %v", tt.filter, got, tt.want)
		}
	}

	msg := f.engine.ParentPaymentsMessage(locale.HistoryHeader, mustList(t, f, parent))
	if len(msg.Actions) != 1 || len(msg.Actions[0]) != 3 {
		t.Errorf("history actions = %+v, want one row for the pending payment", msg.Actions)
	}
}

func mustList(t *testing.T, f *fixture, parent int64) []model.PaymentView {
	t.Helper()
	list, err := f.engine.ParentPayments(context.Background(), parent, FilterAll)
	if err != nil {
		t.Fatal(err)
	}
	return list
}

func TestQRMessage(t *testing.T) {
	f := newFixture(t, 1)
	created := f.create(t, f.teacher, "Музей", 350)
	v, err := f.engine.Payment(context.Background(), f.parents[0].ID, created.Collection.ID)
	if err != nil {
		t.Fatal(err)
	}
	msg := f.engine.QRMessage(v)
	if len(msg.Image) == 0 {
		t.Fatal("no image")
	}
	if !strings.Contains(msg.Text, v.CommentCode) {
		t.Errorf("caption = %q", msg.Text)
	}
}

func TestRemindPending(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	created := f.create(t, f.teacher, "Экскурсия", 500)
	if _, err := f.engine.DeclarePaid(ctx, f.parents[0].ID, created.Collection.ID); err != nil {
		t.Fatal(err)
	}
	f.out.Reset()

	sent, err := f.engine.RemindPending(ctx, 0)
	if err != nil {
		t.Fatalf("RemindPending: %v", err)
	}
	if sent != 2 {
		t.Errorf("reminders sent = %d, want 2", sent)
	}
	if got := f.out.To(f.parents[0].ID); len(got) != 0 {
		t.Errorf("paid parent was reminded")
	}
	msg, ok := f.out.Last(f.parents[1].ID)
	if !ok || !strings.HasPrefix(msg.Text, "⏰") {
		t.Errorf("reminder = %q", msg.Text)
	}

	f.out.Reset()
	sent, err = f.engine.RemindPending(ctx, time.Hour)
	if err != nil || sent != 0 {
		t.Errorf("second round sent %d, %v, want 0", sent, err)
	}
}

func TestCheckDraftFields(t *testing.T) {
	e := NewEngine(nil, nil, nil, locale.New(), 0)
	tests := []struct {
		name    string
		check   func(string) error
		in      string
		wantErr error
	}{
		{"title ok", e.CheckTitle, "Театр", nil},
		{"title at limit", e.CheckTitle, strings.Repeat("я", MaxTitleLen), nil},
		{"title blank", e.CheckTitle, "   ", ErrInvalidDraft},
		{"title too long", e.CheckTitle, strings.Repeat("я", MaxTitleLen+1), ErrTooLong},
		{"description empty", e.CheckDescription, "", nil},
		{"description at limit", e.CheckDescription, strings.Repeat("д", MaxDescriptionLen), nil},
		{"description too long", e.CheckDescription, strings.Repeat("д", MaxDescriptionLen+1), ErrTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(tt.in)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
