package payments

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/susu3304/classbot/internal/action"
	"github.com/susu3304/classbot/internal/chat"
	"github.com/susu3304/classbot/internal/locale"
	"github.com/susu3304/classbot/internal/model"
	"github.com/susu3304/classbot/internal/qr"
)

const dateLayout = "02.01.2006"

func (e *Engine) deadline(d *time.Time) string {
	if d == nil {
		return e.texts.T(locale.DeadlineNone)
	}
	return d.Format(dateLayout)
}

// requestMessage is the payment request one parent receives for a collection.
func (e *Engine) requestMessage(c model.Collection, parentID int64, code string) chat.Message {
	var b strings.Builder
	b.WriteString(e.texts.T(locale.RequestHeader, c.Title))
	b.WriteString("\n\n")
	if c.Description != "" {
		b.WriteString(e.texts.T(locale.RequestDescription, c.Description))
		b.WriteString("\n")
	}
	b.WriteString(e.texts.T(locale.RequestBody, c.Amount, e.deadline(c.Deadline), c.Phone, c.Amount, code, code))

	return chat.Message{
		Text:    b.String(),
		Actions: e.parentActions(c.ID, parentID),
	}
}

func (e *Engine) parentActions(collectionID, parentID int64) [][]chat.Action {
	return [][]chat.Action{{
		{Label: e.texts.T(locale.ActionQR), Payload: action.QR(collectionID, parentID)},
		{Label: e.texts.T(locale.ActionPaid), Payload: action.Paid(collectionID, parentID)},
		{Label: e.texts.T(locale.ActionCannotPay), Payload: action.CannotPay(collectionID, parentID)},
	}}
}

// QRMessage renders the SBP QR code for the parent's payment. When the
// image cannot be produced, the message falls back to a hint to transfer by
// phone number.
func (e *Engine) QRMessage(v *model.PaymentView) chat.Message {
	link := SBPLink(v.Phone, v.Amount, v.CollectionTitle, v.CommentCode)
	png, err := qr.PNG(link)
	if err != nil {
		slog.Warn("failed to render qr code", "payment", v.ID, "err", err)
		return chat.Text(e.texts.T(locale.QRFailed))
	}
	return chat.Message{
		Text:  e.texts.T(locale.QRCaption, v.CollectionTitle, v.Amount, v.CommentCode),
		Image: png,
	}
}

// PaidAck acknowledges a parent's paid declaration.
func (e *Engine) PaidAck(v *model.PaymentView) string {
	return e.texts.T(locale.PaidAck, v.CollectionTitle, v.Amount, v.CommentCode)
}

func (e *Engine) statusLabel(s model.PaymentStatus) string {
	switch s {
	case model.StatusPending:
		return e.texts.T(locale.StatusPending)
	case model.StatusPaid:
		return e.texts.T(locale.StatusPaid)
	case model.StatusConfirmed:
		return e.texts.T(locale.StatusConfirmed)
	case model.StatusRejected:
		return e.texts.T(locale.StatusRejected)
	case model.StatusCannotPay:
		return e.texts.T(locale.StatusCannotPay)
	}
	return string(s)
}

// ParentPaymentsMessage lists a parent's payments. Pending ones carry the
// pay actions.
func (e *Engine) ParentPaymentsMessage(header locale.Key, list []model.PaymentView) chat.Message {
	if len(list) == 0 {
		return chat.Text(e.texts.T(header) + "\n\n" + e.texts.T(locale.ParentPaymentsEmpty))
	}
	var b strings.Builder
	b.WriteString(e.texts.T(header))
	var actions [][]chat.Action
	for _, v := range list {
		b.WriteString("\n\n")
		b.WriteString(e.texts.T(locale.ParentPaymentItem, v.CollectionTitle, v.Amount, v.CommentCode, e.statusLabel(v.Status)))
		if v.Status == model.StatusPending {
			actions = append(actions, e.parentActions(v.CollectionID, v.ParentID)...)
		}
	}
	return chat.Message{Text: b.String(), Actions: actions}
}

// StatusMessage summarizes every active collection of a teacher.
func (e *Engine) StatusMessage(list []model.CollectionStatus) chat.Message {
	if len(list) == 0 {
		return chat.Text(e.texts.T(locale.CollectionsEmpty))
	}
	var b strings.Builder
	b.WriteString(e.texts.T(locale.StatusHeader))
	for _, s := range list {
		b.WriteString("\n\n")
		b.WriteString(e.texts.T(locale.StatusItem, s.Title, s.Amount, s.Confirmed, s.Paid, s.CannotPay, s.NotResponded(), s.Collected))
	}
	return chat.Text(b.String())
}

func (e *Engine) CollectionsMessage(list []model.Collection) chat.Message {
	if len(list) == 0 {
		return chat.Text(e.texts.T(locale.CollectionsEmpty))
	}
	var b strings.Builder
	b.WriteString(e.texts.T(locale.CollectionsHeader))
	for _, c := range list {
		b.WriteString("\n\n")
		b.WriteString(e.texts.T(locale.CollectionItem, c.Title, c.Amount, e.deadline(c.Deadline), c.PurposeCode))
	}
	return chat.Text(b.String())
}

// AwaitingMessage lists paid payments with per-payment confirm and reject
// actions. Bulk actions are offered when there is more than one. The bulk
// and back rows lead so that transports limiting the number of rows keep them.
func (e *Engine) AwaitingMessage(list []model.PaymentView) chat.Message {
	if len(list) == 0 {
		return chat.Text(e.texts.T(locale.AwaitingEmpty))
	}
	var b strings.Builder
	b.WriteString(e.texts.T(locale.AwaitingHeader))
	actions := make([][]chat.Action, 0, len(list)+2)
	if len(list) > 1 {
		actions = append(actions, []chat.Action{
			{Label: e.texts.T(locale.ActionConfirmAll), Payload: action.ConfirmAll()},
			{Label: e.texts.T(locale.ActionRejectAll), Payload: action.RejectAll()},
		})
	}
	actions = append(actions, []chat.Action{{Label: e.texts.T(locale.ActionBack), Payload: action.BackToPayments()}})
	for _, v := range list {
		paidAt := ""
		if v.PaidAt != nil {
			paidAt = v.PaidAt.Format("02.01 15:04")
		}
		b.WriteString("\n\n")
		b.WriteString(e.texts.T(locale.AwaitingItem, v.ParentName, v.CollectionTitle, v.Amount, v.CommentCode, paidAt))
		actions = append(actions, []chat.Action{
			{Label: e.texts.T(locale.ActionConfirm, v.ParentName), Payload: action.ConfirmSingle(v.ID)},
			{Label: e.texts.T(locale.ActionReject, v.ParentName), Payload: action.RejectSingle(v.ID)},
		})
	}
	return chat.Message{Text: b.String(), Actions: actions}
}

func (e *Engine) RejectedMessage(list []model.PaymentView) chat.Message {
	if len(list) == 0 {
		return chat.Text(e.texts.T(locale.RejectedEmpty))
	}
	var b strings.Builder
	b.WriteString(e.texts.T(locale.RejectedHeader))
	for _, v := range list {
		b.WriteString("\n\n")
		b.WriteString(e.texts.T(locale.RejectedItem, v.ParentName, v.CollectionTitle, v.Amount, v.Notes))
	}
	return chat.Text(b.String())
}

// Awaiting renders the awaiting list of a teacher in one call.
func (e *Engine) Awaiting(ctx context.Context, teacherID int64) (chat.Message, error) {
	list, err := e.AwaitingConfirmation(ctx, teacherID)
	if err != nil {
		return chat.Message{}, err
	}
	return e.AwaitingMessage(list), nil
}
