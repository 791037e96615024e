package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/susu3304/classbot/internal/locale"
	"github.com/susu3304/classbot/internal/model"
	"github.com/susu3304/classbot/internal/payments"
	"github.com/susu3304/classbot/internal/relay"
	"github.com/susu3304/classbot/internal/session"
)

// commandTable maps each role's vocabulary to handlers. A command missing
// from a role's table is answered as not allowed.
func (b *Bot) commandTable() map[model.Role]map[locale.Command]handler {
	return map[model.Role]map[locale.Command]handler{
		model.RoleDeveloper: {
			locale.CmdUsers: b.listPending,
			locale.CmdStats: b.showStats,
			locale.CmdBack:  b.mainMenu,
		},
		model.RoleTeacher: {
			locale.CmdAnnounce:          b.begin(session.StateAnnouncement, locale.PromptAnnouncement),
			locale.CmdHomework:          b.begin(session.StateHomework, locale.PromptHomework),
			locale.CmdViewAnnouncements: b.recent(model.KindAnnouncement),
			locale.CmdViewHomework:      b.recent(model.KindHomework),
			locale.CmdMessages:          b.menu(locale.MessagesTitle, locale.MessagesMenu()),
			locale.CmdClassStats:        b.classStats,
			locale.CmdPayments:          b.menu(locale.PaymentsTeacher, locale.PaymentMenu(model.RoleTeacher)),
			locale.CmdParentInbox:       b.inbox,
			locale.CmdWriteParent:       b.pickParent,
			locale.CmdForwardPicker:     b.forwardPicker,
			locale.CmdForward:           b.forward,
			locale.CmdReplyTo:           b.replyTo,
			locale.CmdBack:              b.mainMenu,
			locale.CmdCreateCollection:  b.createCollection,
			locale.CmdCollectionStats:   b.collectionStats,
			locale.CmdAwaiting:          b.awaiting,
			locale.CmdRejected:          b.rejected,
			locale.CmdSetupPhone:        b.begin(session.StatePhoneSetup, locale.PromptPhone),
			locale.CmdAllCollections:    b.allCollections,
			locale.CmdToggleNotify:      b.toggleNotify,
		},
		model.RoleParent: {
			locale.CmdViewAnnouncements: b.recent(model.KindAnnouncement),
			locale.CmdViewHomework:      b.recent(model.KindHomework),
			locale.CmdWriteTeacher:      b.begin(session.StateMessageToTeacher, locale.PromptMessageToTeacher),
			locale.CmdTeacherInbox:      b.inbox,
			locale.CmdReplyTo:           b.replyTo,
			locale.CmdMyPayments:        b.menu(locale.PaymentsParent, locale.PaymentMenu(model.RoleParent)),
			locale.CmdToPay:             b.parentPayments(payments.FilterToPay, locale.ToPayHeader),
			locale.CmdPaidPayments:      b.parentPayments(payments.FilterPaid, locale.PaidHeader),
			locale.CmdPaymentHistory:    b.parentPayments(payments.FilterAll, locale.HistoryHeader),
			locale.CmdBack:              b.mainMenu,
		},
	}
}

// begin starts a free-text operation and prompts for its payload.
func (b *Bot) begin(state session.State, prompt locale.Key) handler {
	return func(r *request) error {
		r.sess.Begin(state)
		b.replyMenu(r, b.t(prompt), locale.BackMenu())
		return nil
	}
}

func (b *Bot) menu(title locale.Key, keyboard [][]string) handler {
	return func(r *request) error {
		b.replyMenu(r, b.t(title), keyboard)
		return nil
	}
}

func (b *Bot) mainMenu(r *request) error {
	b.replyMenu(r, b.t(locale.MainMenuTitle), locale.MainMenu(r.caller.Role))
	return nil
}

func (b *Bot) recent(kind model.BroadcastKind) handler {
	return func(r *request) error {
		msg, err := b.relay.Recent(r.ctx, kind)
		if err != nil {
			return err
		}
		b.reply(r.ctx, r.caller.ID, msg)
		return nil
	}
}

func (b *Bot) listPending(r *request) error {
	pending, err := b.dir.Pending(r.ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		b.replyText(r, locale.UsersEmpty)
		return nil
	}
	var sb strings.Builder
	sb.WriteString(b.t(locale.UsersHeader))
	for _, p := range pending {
		sb.WriteString("\n")
		sb.WriteString(b.t(locale.UsersItem, p.DisplayName(), strconv.FormatInt(p.ID, 10)))
	}
	b.replyMenu(r, sb.String(), locale.MainMenu(r.caller.Role))
	return nil
}

func (b *Bot) showStats(r *request) error {
	counts, err := b.dir.Counts(r.ctx)
	if err != nil {
		return err
	}
	b.replyMenu(r, b.statsText(counts), locale.MainMenu(r.caller.Role))
	return nil
}

func (b *Bot) classStats(r *request) error {
	counts, err := b.dir.Counts(r.ctx)
	if err != nil {
		return err
	}
	b.replyText(r, locale.ClassStats, counts[model.RoleParent], counts[model.RoleTeacher], counts[model.RolePending])
	return nil
}

func (b *Bot) inbox(r *request) error {
	msg, err := b.relay.InboxMessage(r.ctx, *r.caller)
	if err != nil {
		return err
	}
	b.reply(r.ctx, r.caller.ID, msg)
	return nil
}

// pickParent offers every parent as a recipient label. Labels of parents
// sharing a display name carry the id.
func (b *Bot) pickParent(r *request) error {
	parents, err := b.dir.Parents(r.ctx)
	if err != nil {
		return err
	}
	if len(parents) == 0 {
		b.replyText(r, locale.NoParents)
		return nil
	}

	r.sess.Begin(session.StateSelectingRecipient)
	r.sess.Candidates = make(map[string]int64, len(parents))
	keyboard := make([][]string, 0, len(parents)+1)
	for _, p := range parents {
		label := locale.RecipientLabel(p.DisplayName())
		if _, dup := r.sess.Candidates[label]; dup {
			label = locale.RecipientLabel(fmt.Sprintf("%s (ID%d)", p.DisplayName(), p.ID))
		}
		r.sess.Candidates[label] = p.ID
		keyboard = append(keyboard, []string{label})
	}
	keyboard = append(keyboard, locale.BackMenu()...)
	b.replyMenu(r, b.t(locale.SelectParent), keyboard)
	return nil
}

func (b *Bot) forwardPicker(r *request) error {
	msg, err := b.relay.ForwardPicker(r.ctx, *r.caller)
	if err != nil {
		return err
	}
	b.reply(r.ctx, r.caller.ID, msg)
	return nil
}

func (b *Bot) forward(r *request) error {
	bc, sum, err := b.relay.Forward(r.ctx, *r.caller, r.arg)
	switch {
	case errors.Is(err, relay.ErrNotFound):
		b.replyText(r, locale.MessageNotFound)
		return nil
	case errors.Is(err, relay.ErrNoRecipients):
		b.replyText(r, locale.NoParents)
		return nil
	case err != nil:
		return err
	}
	r.log.Info("message forwarded", "message", r.arg, "broadcast", bc.ID, "sent", sum.Sent)
	b.replyMenu(r, b.t(locale.ForwardSent, bc.SenderName, sum.Sent), locale.MessagesMenu())
	return nil
}

// replyTo binds the reply target and waits for the reply text.
func (b *Bot) replyTo(r *request) error {
	m, err := b.relay.ReplyTarget(r.ctx, *r.caller, r.arg)
	if errors.Is(err, relay.ErrNotFound) {
		b.replyText(r, locale.MessageNotFound)
		return nil
	}
	if err != nil {
		return err
	}

	state := session.StateReplyToTeacher
	if r.caller.Role == model.RoleTeacher {
		state = session.StateReplyToParent
	}
	r.sess.Begin(state)
	r.sess.TargetID = m.ID
	b.replyMenu(r, b.t(locale.PromptReply, m.SenderName, m.Body), locale.BackMenu())
	return nil
}

func (b *Bot) createCollection(r *request) error {
	ok, err := b.engine.HasPhone(r.ctx, r.caller.ID)
	if err != nil {
		return err
	}
	if !ok {
		b.replyMenu(r, b.t(locale.PhoneRequired), locale.PhoneSetupMenu())
		return nil
	}
	r.sess.Begin(session.StateCollectionTitle)
	b.replyMenu(r, b.t(locale.PromptTitle), locale.BackMenu())
	return nil
}

func (b *Bot) collectionStats(r *request) error {
	list, err := b.engine.Statuses(r.ctx, r.caller.ID)
	if err != nil {
		return err
	}
	b.reply(r.ctx, r.caller.ID, b.engine.StatusMessage(list))
	return nil
}

func (b *Bot) awaiting(r *request) error {
	msg, err := b.engine.Awaiting(r.ctx, r.caller.ID)
	if err != nil {
		return err
	}
	b.reply(r.ctx, r.caller.ID, msg)
	return nil
}

func (b *Bot) rejected(r *request) error {
	list, err := b.engine.Rejected(r.ctx, r.caller.ID)
	if err != nil {
		return err
	}
	b.reply(r.ctx, r.caller.ID, b.engine.RejectedMessage(list))
	return nil
}

func (b *Bot) allCollections(r *request) error {
	list, err := b.engine.ActiveCollections(r.ctx, r.caller.ID)
	if err != nil {
		return err
	}
	b.reply(r.ctx, r.caller.ID, b.engine.CollectionsMessage(list))
	return nil
}

func (b *Bot) toggleNotify(r *request) error {
	on, err := b.engine.ToggleNotify(r.ctx, r.caller.ID)
	if errors.Is(err, payments.ErrPhoneNotConfigured) {
		b.replyMenu(r, b.t(locale.PhoneRequired), locale.PhoneSetupMenu())
		return nil
	}
	if err != nil {
		return err
	}
	if on {
		b.replyText(r, locale.NotifyOn)
	} else {
		b.replyText(r, locale.NotifyOff)
	}
	return nil
}

func (b *Bot) parentPayments(f payments.Filter, header locale.Key) handler {
	return func(r *request) error {
		list, err := b.engine.ParentPayments(r.ctx, r.caller.ID, f)
		if err != nil {
			return err
		}
		b.reply(r.ctx, r.caller.ID, b.engine.ParentPaymentsMessage(header, list))
		return nil
	}
}
