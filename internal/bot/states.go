package bot

import (
	"errors"
	"strings"

	"github.com/susu3304/classbot/internal/directory"
	"github.com/susu3304/classbot/internal/locale"
	"github.com/susu3304/classbot/internal/model"
	"github.com/susu3304/classbot/internal/payments"
	"github.com/susu3304/classbot/internal/relay"
	"github.com/susu3304/classbot/internal/session"
)

func (b *Bot) stateTable() map[session.State]stateHandler {
	return map[session.State]stateHandler{
		session.StateAnnouncement:          b.announce(model.KindAnnouncement),
		session.StateHomework:              b.announce(model.KindHomework),
		session.StatePersonalMessage:       b.personalMessage,
		session.StateReplyToParent:         b.sendReply,
		session.StateReplyToTeacher:        b.sendReply,
		session.StateMessageToTeacher:      b.messageToTeacher,
		session.StatePhoneSetup:            b.phoneSetup,
		session.StateCollectionTitle:       b.collectionTitle,
		session.StateCollectionDescription: b.collectionDescription,
		session.StateCollectionAmount:      b.collectionAmount,
		session.StateSelectingRecipient:    b.selectRecipient,
	}
}

func (b *Bot) announce(kind model.BroadcastKind) stateHandler {
	return func(r *request, text string) error {
		_, sum, err := b.relay.Announce(r.ctx, *r.caller, kind, text)
		switch {
		case errors.Is(err, relay.ErrEmpty):
			b.replyText(r, locale.EmptyText)
			return nil
		case errors.Is(err, relay.ErrNoRecipients):
			r.sess.Reset()
			b.replyText(r, locale.NoParents)
			return nil
		case err != nil:
			return err
		}
		r.sess.Reset()
		b.replyMenu(r, b.t(locale.BroadcastSent, sum.Sent, len(sum.Results)), locale.MainMenu(r.caller.Role))
		return nil
	}
}

// delivered finishes a direct message. The record is kept even when the
// send failed.
func (b *Bot) delivered(r *request, m *model.ThreadMessage, err error) error {
	switch {
	case errors.Is(err, relay.ErrEmpty):
		b.replyText(r, locale.EmptyText)
		return nil
	case err != nil && m == nil:
		return err
	}
	r.sess.Reset()
	key := locale.MessageSent
	if err != nil {
		r.log.Warn("message stored but not delivered", "message", m.ID, "to", m.RecipientID, "err", err)
		key = locale.MessageNotDelivered
	}
	b.replyMenu(r, b.t(key), locale.MainMenu(r.caller.Role))
	return nil
}

func (b *Bot) personalMessage(r *request, text string) error {
	m, err := b.relay.SendToParent(r.ctx, *r.caller, r.sess.TargetID, text)
	return b.delivered(r, m, err)
}

// sendReply sends the reply bound by replyTo. The target is checked again
// since the session may outlive the caller's access to it.
func (b *Bot) sendReply(r *request, text string) error {
	original, err := b.relay.ReplyTarget(r.ctx, *r.caller, r.sess.TargetID)
	if errors.Is(err, relay.ErrNotFound) {
		r.sess.Reset()
		b.replyText(r, locale.MessageNotFound)
		return nil
	}
	if err != nil {
		return err
	}
	m, err := b.relay.Reply(r.ctx, *r.caller, original, text)
	return b.delivered(r, m, err)
}

func (b *Bot) messageToTeacher(r *request, text string) error {
	_, sum, err := b.relay.SubmitToTeachers(r.ctx, *r.caller, text)
	switch {
	case errors.Is(err, relay.ErrEmpty):
		b.replyText(r, locale.EmptyText)
		return nil
	case errors.Is(err, relay.ErrNoRecipients):
		r.sess.Reset()
		b.replyText(r, locale.NoTeachers)
		return nil
	case err != nil:
		return err
	}
	r.sess.Reset()
	b.replyMenu(r, b.t(locale.MessageToTeacherSent, sum.Sent), locale.MainMenu(r.caller.Role))
	return nil
}

func (b *Bot) phoneSetup(r *request, text string) error {
	phone, err := b.engine.SetupPhone(r.ctx, r.caller.ID, text)
	if errors.Is(err, payments.ErrInvalidPhone) {
		b.replyText(r, locale.PhoneInvalid)
		return nil
	}
	if err != nil {
		return err
	}
	r.sess.Reset()
	b.replyMenu(r, b.t(locale.PhoneSaved, phone), locale.PaymentMenu(r.caller.Role))
	return nil
}

func (b *Bot) collectionTitle(r *request, text string) error {
	title := strings.TrimSpace(text)
	switch err := b.engine.CheckTitle(title); {
	case errors.Is(err, payments.ErrTooLong):
		b.replyText(r, locale.TitleTooLong, payments.MaxTitleLen)
		return nil
	case err != nil:
		b.replyText(r, locale.TitleInvalid)
		return nil
	}
	r.sess.Title = title
	r.sess.State = session.StateCollectionDescription
	b.replyText(r, locale.PromptDescription)
	return nil
}

func (b *Bot) collectionDescription(r *request, text string) error {
	description := strings.TrimSpace(text)
	if err := b.engine.CheckDescription(description); err != nil {
		b.replyText(r, locale.DescriptionTooLong, payments.MaxDescriptionLen)
		return nil
	}
	r.sess.Description = description
	r.sess.State = session.StateCollectionAmount
	b.replyText(r, locale.PromptAmount)
	return nil
}

func (b *Bot) collectionAmount(r *request, text string) error {
	amount, err := payments.ParseAmount(text)
	if err != nil {
		b.replyText(r, locale.AmountInvalid)
		return nil
	}

	draft := payments.Draft{Title: r.sess.Title, Description: r.sess.Description, Amount: amount}
	created, err := b.engine.CreateCollection(r.ctx, *r.caller, draft)
	switch {
	case errors.Is(err, payments.ErrPhoneNotConfigured):
		r.sess.Reset()
		b.replyMenu(r, b.t(locale.PhoneRequired), locale.PhoneSetupMenu())
		return nil
	case errors.Is(err, payments.ErrInvalidDraft):
		r.log.Info("collection draft rejected", "err", err)
		r.sess.State = session.StateCollectionTitle
		b.replyText(r, locale.TitleInvalid)
		return nil
	case err != nil:
		return err
	}

	r.sess.Reset()
	c := created.Collection
	b.replyMenu(r,
		b.t(locale.CollectionCreated, c.Title, c.Amount, created.Summary.Sent, len(created.Payments)),
		locale.PaymentMenu(r.caller.Role))
	return nil
}

// selectRecipient binds the chosen parent. Text that is not one of the
// offered labels is passed on to command matching.
func (b *Bot) selectRecipient(r *request, text string) error {
	id, ok := r.sess.Candidates[strings.TrimSpace(text)]
	if !ok {
		return errFallThrough
	}
	target, err := b.dir.Get(r.ctx, id)
	if errors.Is(err, directory.ErrNotFound) {
		r.sess.Reset()
		b.replyText(r, locale.UserNotFound)
		return nil
	}
	if err != nil {
		return err
	}
	r.sess.Begin(session.StatePersonalMessage)
	r.sess.TargetID = target.ID
	b.replyMenu(r, b.t(locale.PromptPersonal, target.DisplayName()), locale.BackMenu())
	return nil
}
