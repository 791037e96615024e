package bot

import (
	"context"
	"errors"

	"github.com/susu3304/classbot/internal/action"
	"github.com/susu3304/classbot/internal/chat"
	"github.com/susu3304/classbot/internal/locale"
	"github.com/susu3304/classbot/internal/model"
	"github.com/susu3304/classbot/internal/payments"
)

// HandleAction processes an activated inline button. Payloads this bot did
// not produce are ignored. Actions leave the caller's session untouched.
func (b *Bot) HandleAction(ctx context.Context, in Inbound, payload string) {
	a, err := action.Parse(payload)
	if err != nil {
		eventLogger(in.UserID).Debug("ignoring unknown action", "payload", payload)
		return
	}

	unlock := b.locker.Lock(in.UserID)
	defer unlock()

	log := eventLogger(in.UserID).With("action", a.String())
	caller := b.caller(ctx, in, log)
	if caller == nil {
		return
	}
	r := &request{ctx: ctx, caller: caller, log: log}

	if !permitted(caller, a) {
		b.replyText(r, locale.NotAllowed)
		return
	}
	if err := b.runAction(r, a); err != nil {
		log.Error("failed to handle action", "err", err)
		b.replyText(r, locale.Failure)
	}
}

// permitted reports whether caller may run a. Parents act only on their own
// payments; payment management is for teachers.
func permitted(caller *model.Participant, a action.Action) bool {
	switch a.Kind {
	case action.KindQR, action.KindPaid, action.KindCannotPay:
		return caller.Role == model.RoleParent && caller.ID == a.ParentID
	case action.KindBackToPayments:
		return caller.Role == model.RoleTeacher || caller.Role == model.RoleParent
	}
	return caller.Role == model.RoleTeacher
}

func (b *Bot) runAction(r *request, a action.Action) error {
	switch a.Kind {
	case action.KindQR:
		v, err := b.engine.Payment(r.ctx, r.caller.ID, a.CollectionID)
		if err != nil {
			return b.paymentErr(r, err)
		}
		b.reply(r.ctx, r.caller.ID, b.engine.QRMessage(v))

	case action.KindPaid:
		v, err := b.engine.DeclarePaid(r.ctx, r.caller.ID, a.CollectionID)
		if err != nil {
			return b.paymentErr(r, err)
		}
		r.log.Info("payment declared paid", "payment", v.ID)
		b.reply(r.ctx, r.caller.ID, chat.Text(b.engine.PaidAck(v)))

	case action.KindCannotPay:
		v, err := b.engine.DeclareCannotPay(r.ctx, r.caller.ID, a.CollectionID)
		if err != nil {
			return b.paymentErr(r, err)
		}
		r.log.Info("payment declared unpayable", "payment", v.ID)
		b.replyText(r, locale.CannotPayAck)

	case action.KindConfirmSingle, action.KindRejectSingle:
		resolve := b.engine.Confirm
		ack := locale.ConfirmedAck
		if a.Kind == action.KindRejectSingle {
			resolve = func(ctx context.Context, teacherID, paymentID int64) (*model.PaymentView, error) {
				return b.engine.Reject(ctx, teacherID, paymentID, "")
			}
			ack = locale.RejectedAck
		}
		v, err := resolve(r.ctx, r.caller.ID, a.PaymentID)
		if errors.Is(err, payments.ErrNotFound) {
			b.replyText(r, locale.PaymentNotAwaiting)
			return nil
		}
		if err != nil {
			return err
		}
		r.log.Info("payment resolved", "payment", v.ID, "status", v.Status)
		b.replyText(r, ack, v.ParentName)

	case action.KindConfirmAll:
		n, err := b.engine.ConfirmAll(r.ctx, r.caller.ID)
		if err != nil {
			return err
		}
		r.log.Info("paid payments confirmed", "count", n)
		b.replyText(r, locale.ConfirmedAllAck, n)

	case action.KindRejectAll:
		n, err := b.engine.RejectAll(r.ctx, r.caller.ID)
		if err != nil {
			return err
		}
		r.log.Info("paid payments rejected", "count", n)
		b.replyText(r, locale.RejectedAllAck, n)

	case action.KindBackToPayments:
		title := locale.PaymentsParent
		if r.caller.Role == model.RoleTeacher {
			title = locale.PaymentsTeacher
		}
		b.replyMenu(r, b.t(title), locale.PaymentMenu(r.caller.Role))
	}
	return nil
}

// paymentErr answers the expected lookup and status errors of a parent action.
func (b *Bot) paymentErr(r *request, err error) error {
	switch {
	case errors.Is(err, payments.ErrNotFound):
		b.replyText(r, locale.PaymentNotFound)
	case errors.Is(err, payments.ErrNotPending):
		b.replyText(r, locale.AlreadyHandled)
	default:
		return err
	}
	return nil
}
