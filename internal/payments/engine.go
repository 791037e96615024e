package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/susu3304/classbot/internal/broadcast"
	"github.com/susu3304/classbot/internal/chat"
	"github.com/susu3304/classbot/internal/db"
	"github.com/susu3304/classbot/internal/locale"
	"github.com/susu3304/classbot/internal/model"
)

var (
	ErrNotFound           = db.ErrNotFound
	ErrPhoneNotConfigured = errors.New("payment phone is not configured")
	ErrNotPending         = errors.New("payment is no longer pending")
	ErrInvalidDraft       = errors.New("invalid collection")
	ErrTooLong            = errors.New("text is too long")
)

// Limits of a draft, kept in sync with the Draft tags.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 2000
)

type Store interface {
	GetPaymentSettings(ctx context.Context, teacherID int64) (*model.PaymentSettings, error)
	SavePaymentSettings(ctx context.Context, s *model.PaymentSettings) error
	ListByRole(ctx context.Context, role model.Role) ([]model.Participant, error)
	CreateCollection(ctx context.Context, c *model.Collection, parents []model.Participant, code func(collectionID, parentID int64) string) ([]model.Payment, error)
	ActiveCollections(ctx context.Context, teacherID int64) ([]model.Collection, error)
	CollectionStatuses(ctx context.Context, teacherID int64) ([]model.CollectionStatus, error)
	GetPayment(ctx context.Context, paymentID int64) (*model.PaymentView, error)
	GetPaymentFor(ctx context.Context, collectionID, parentID int64) (*model.PaymentView, error)
	ParentPayments(ctx context.Context, parentID int64, statuses []model.PaymentStatus) ([]model.PaymentView, error)
	TeacherPayments(ctx context.Context, teacherID int64, status model.PaymentStatus, limit int) ([]model.PaymentView, error)
	MarkPaid(ctx context.Context, collectionID, parentID int64, at time.Time) error
	MarkCannotPay(ctx context.Context, collectionID, parentID int64, note string) error
	ResolvePayment(ctx context.Context, teacherID, paymentID int64, status model.PaymentStatus, at time.Time, note string) error
	ResolveAllPaid(ctx context.Context, teacherID int64, status model.PaymentStatus, at time.Time, note string) (int64, error)
	DueReminders(ctx context.Context, before time.Time) ([]model.PaymentView, error)
	MarkReminded(ctx context.Context, paymentID int64, at time.Time) error
}

// Draft is a collection being created by a teacher.
type Draft struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"max=2000"`
	Amount      int64  `validate:"gt=0"`
}

// CheckTitle validates the title of a draft on its own, so that the title
// step can re-prompt before the rest of the draft is asked for.
func (e *Engine) CheckTitle(title string) error {
	return e.checkField(title, "required,max=200")
}

func (e *Engine) CheckDescription(description string) error {
	return e.checkField(description, "max=2000")
}

func (e *Engine) checkField(value, rules string) error {
	err := e.validate.Var(strings.TrimSpace(value), rules)
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 && fields[0].Tag() == "max" {
		return ErrTooLong
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	return nil
}

// Created is the outcome of creating and broadcasting a collection.
type Created struct {
	Collection model.Collection
	Payments   []model.Payment
	Summary    broadcast.Summary
}

// Engine runs the collection and payment lifecycle.
type Engine struct {
	store        Store
	dispatcher   *broadcast.Dispatcher
	out          chat.Sender
	texts        *locale.Texts
	validate     *validator.Validate
	deadlineDays int
	now          func() time.Time
}

func NewEngine(store Store, dispatcher *broadcast.Dispatcher, out chat.Sender, texts *locale.Texts, deadlineDays int) *Engine {
	return &Engine{
		store:        store,
		dispatcher:   dispatcher,
		out:          out,
		texts:        texts,
		validate:     validator.New(),
		deadlineDays: deadlineDays,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SetupPhone normalizes raw and stores it as the teacher's transfer phone.
// Other settings are kept.
func (e *Engine) SetupPhone(ctx context.Context, teacherID int64, raw string) (string, error) {
	phone, err := NormalizePhone(raw)
	if err != nil {
		return "", err
	}
	s, err := e.store.GetPaymentSettings(ctx, teacherID)
	if errors.Is(err, db.ErrNotFound) {
		s = &model.PaymentSettings{TeacherID: teacherID, Notify: true}
	} else if err != nil {
		return "", err
	}
	s.Phone = phone
	s.UpdatedAt = e.now()
	if err := e.store.SavePaymentSettings(ctx, s); err != nil {
		return "", err
	}
	return phone, nil
}

// ToggleNotify flips whether the teacher is told about parents' payment actions.
func (e *Engine) ToggleNotify(ctx context.Context, teacherID int64) (bool, error) {
	s, err := e.store.GetPaymentSettings(ctx, teacherID)
	if errors.Is(err, db.ErrNotFound) {
		return false, ErrPhoneNotConfigured
	}
	if err != nil {
		return false, err
	}
	s.Notify = !s.Notify
	s.UpdatedAt = e.now()
	if err := e.store.SavePaymentSettings(ctx, s); err != nil {
		return false, err
	}
	return s.Notify, nil
}

// HasPhone reports whether the teacher may create collections.
func (e *Engine) HasPhone(ctx context.Context, teacherID int64) (bool, error) {
	_, err := e.store.GetPaymentSettings(ctx, teacherID)
	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// CreateCollection stores the collection with one pending payment per
// current parent and sends each parent a payment request.
func (e *Engine) CreateCollection(ctx context.Context, teacher model.Participant, d Draft) (*Created, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if err := e.validate.Struct(d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}

	settings, err := e.store.GetPaymentSettings(ctx, teacher.ID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrPhoneNotConfigured
	}
	if err != nil {
		return nil, err
	}

	parents, err := e.store.ListByRole(ctx, model.RoleParent)
	if err != nil {
		return nil, err
	}

	now := e.now()
	c := model.Collection{
		Title:       d.Title,
		Description: d.Description,
		Amount:      d.Amount,
		Phone:       settings.Phone,
		PurposeCode: PurposeCode(now),
		CreatedBy:   teacher.ID,
		CreatedAt:   now,
	}
	if e.deadlineDays > 0 {
		deadline := time.Date(now.Year(), now.Month(), now.Day()+e.deadlineDays, 0, 0, 0, 0, time.UTC)
		c.Deadline = &deadline
	}

	payments, err := e.store.CreateCollection(ctx, &c, parents, CommentCode)
	if err != nil {
		return nil, err
	}

	items := make([]broadcast.Outgoing, len(payments))
	for i, p := range payments {
		items[i] = broadcast.Outgoing{To: p.ParentID, Message: e.requestMessage(c, p.ParentID, p.CommentCode)}
	}
	sum := e.dispatcher.Dispatch(ctx, "collection", c.ID, items)

	slog.Info("collection created", "collection", c.ID, "teacher", teacher.ID, "parents", len(payments), "sent", sum.Sent)
	return &Created{Collection: c, Payments: payments, Summary: sum}, nil
}

// DeclarePaid records the parent's claim that a pending payment was made
// and tells the collection's creator.
func (e *Engine) DeclarePaid(ctx context.Context, parentID, collectionID int64) (*model.PaymentView, error) {
	v, err := e.payable(ctx, parentID, collectionID, model.StatusPaid)
	if err != nil {
		return nil, err
	}
	now := e.now()
	if err := e.store.MarkPaid(ctx, collectionID, parentID, now); err != nil {
		return nil, e.guardErr(err)
	}
	v.Status = model.StatusPaid
	v.PaidAt = &now

	e.notifyTeacher(ctx, v.CollectionOwner, e.texts.T(locale.TeacherPaid, v.ParentName, v.CollectionTitle, v.Amount, v.CommentCode))
	return v, nil
}

// DeclareCannotPay closes a pending payment as cannot_pay and tells the
// collection's creator. The status is terminal.
func (e *Engine) DeclareCannotPay(ctx context.Context, parentID, collectionID int64) (*model.PaymentView, error) {
	v, err := e.payable(ctx, parentID, collectionID, model.StatusCannotPay)
	if err != nil {
		return nil, err
	}
	note := e.texts.T(locale.CannotPayNote)
	if err := e.store.MarkCannotPay(ctx, collectionID, parentID, note); err != nil {
		return nil, e.guardErr(err)
	}
	v.Status = model.StatusCannotPay
	v.Notes = note

	e.notifyTeacher(ctx, v.CollectionOwner, e.texts.T(locale.TeacherCannotPay, v.ParentName, v.CollectionTitle))
	return v, nil
}

func (e *Engine) payable(ctx context.Context, parentID, collectionID int64, next model.PaymentStatus) (*model.PaymentView, error) {
	v, err := e.store.GetPaymentFor(ctx, collectionID, parentID)
	if err != nil {
		return nil, err
	}
	if !v.Status.CanTransition(next) {
		return nil, ErrNotPending
	}
	return v, nil
}

// guardErr maps a guarded update that matched nothing after a successful
// read to a lost race on the status.
func (e *Engine) guardErr(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrNotPending
	}
	return err
}

// Confirm accepts a paid payment of one of the teacher's collections and
// tells the parent.
func (e *Engine) Confirm(ctx context.Context, teacherID, paymentID int64) (*model.PaymentView, error) {
	return e.resolve(ctx, teacherID, paymentID, model.StatusConfirmed, "")
}

// Reject refuses a paid payment. An empty note falls back to the default one.
func (e *Engine) Reject(ctx context.Context, teacherID, paymentID int64, note string) (*model.PaymentView, error) {
	if note == "" {
		note = e.texts.T(locale.RejectNoteDefault)
	}
	return e.resolve(ctx, teacherID, paymentID, model.StatusRejected, note)
}

func (e *Engine) resolve(ctx context.Context, teacherID, paymentID int64, status model.PaymentStatus, note string) (*model.PaymentView, error) {
	now := e.now()
	if err := e.store.ResolvePayment(ctx, teacherID, paymentID, status, now, note); err != nil {
		return nil, err
	}
	v, err := e.store.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	msg := e.texts.T(locale.ParentConfirmed, v.CollectionTitle)
	if status == model.StatusRejected {
		msg = e.texts.T(locale.ParentRejected, v.CollectionTitle, v.Notes)
	}
	if err := e.out.Send(ctx, v.ParentID, chat.Text(msg)); err != nil {
		slog.Warn("failed to notify parent", "parent", v.ParentID, "payment", v.ID, "err", err)
	}
	return v, nil
}

// ConfirmAll confirms every paid payment of the teacher's collections.
// Parents are not notified individually.
func (e *Engine) ConfirmAll(ctx context.Context, teacherID int64) (int64, error) {
	return e.store.ResolveAllPaid(ctx, teacherID, model.StatusConfirmed, e.now(), "")
}

// RejectAll rejects every paid payment of the teacher's collections.
func (e *Engine) RejectAll(ctx context.Context, teacherID int64) (int64, error) {
	return e.store.ResolveAllPaid(ctx, teacherID, model.StatusRejected, e.now(), e.texts.T(locale.RejectNoteBulk))
}

func (e *Engine) Statuses(ctx context.Context, teacherID int64) ([]model.CollectionStatus, error) {
	return e.store.CollectionStatuses(ctx, teacherID)
}

func (e *Engine) ActiveCollections(ctx context.Context, teacherID int64) ([]model.Collection, error) {
	return e.store.ActiveCollections(ctx, teacherID)
}

// AwaitingConfirmation lists paid payments the teacher has not resolved yet.
func (e *Engine) AwaitingConfirmation(ctx context.Context, teacherID int64) ([]model.PaymentView, error) {
	return e.store.TeacherPayments(ctx, teacherID, model.StatusPaid, 0)
}

// Rejected lists the latest rejected payments of the teacher's collections.
func (e *Engine) Rejected(ctx context.Context, teacherID int64) ([]model.PaymentView, error) {
	return e.store.TeacherPayments(ctx, teacherID, model.StatusRejected, 10)
}

type Filter int

const (
	FilterAll Filter = iota
	FilterToPay
	FilterPaid
)

// ParentPayments lists a parent's payments in active collections, newest first.
func (e *Engine) ParentPayments(ctx context.Context, parentID int64, f Filter) ([]model.PaymentView, error) {
	var statuses []model.PaymentStatus
	switch f {
	case FilterToPay:
		statuses = []model.PaymentStatus{model.StatusPending}
	case FilterPaid:
		statuses = []model.PaymentStatus{model.StatusPaid, model.StatusConfirmed}
	}
	return e.store.ParentPayments(ctx, parentID, statuses)
}

// Payment returns one payment of the given parent.
func (e *Engine) Payment(ctx context.Context, parentID, collectionID int64) (*model.PaymentView, error) {
	return e.store.GetPaymentFor(ctx, collectionID, parentID)
}

// RemindPending sends the payment request again for pending payments that
// were last reminded, or created, more than interval ago.
func (e *Engine) RemindPending(ctx context.Context, interval time.Duration) (int, error) {
	now := e.now()
	due, err := e.store.DueReminders(ctx, now.Add(-interval))
	if err != nil {
		return 0, err
	}

	byCollection := make(map[int64][]broadcast.Outgoing)
	var order []int64
	for _, v := range due {
		c := collectionOf(v)
		msg := e.requestMessage(c, v.ParentID, v.CommentCode)
		msg.Text = e.texts.T(locale.ReminderHeader) + "\n\n" + msg.Text
		if _, ok := byCollection[v.CollectionID]; !ok {
			order = append(order, v.CollectionID)
		}
		byCollection[v.CollectionID] = append(byCollection[v.CollectionID], broadcast.Outgoing{To: v.ParentID, Message: msg})
	}

	sent := 0
	for _, id := range order {
		sum := e.dispatcher.Dispatch(ctx, "reminder", id, byCollection[id])
		sent += sum.Sent
	}
	for _, v := range due {
		if err := e.store.MarkReminded(ctx, v.ID, now); err != nil {
			slog.Error("failed to mark payment reminded", "payment", v.ID, "err", err)
		}
	}
	return sent, nil
}

func collectionOf(v model.PaymentView) model.Collection {
	return model.Collection{
		ID:          v.CollectionID,
		Title:       v.CollectionTitle,
		Amount:      v.Amount,
		Phone:       v.Phone,
		PurposeCode: v.PurposeCode,
		Deadline:    v.Deadline,
		CreatedBy:   v.CollectionOwner,
	}
}

func (e *Engine) notifyTeacher(ctx context.Context, teacherID int64, text string) {
	s, err := e.store.GetPaymentSettings(ctx, teacherID)
	if err == nil && !s.Notify {
		return
	}
	if err := e.out.Send(ctx, teacherID, chat.Text(text)); err != nil {
		slog.Warn("failed to notify teacher", "teacher", teacherID, "err", err)
	}
}
