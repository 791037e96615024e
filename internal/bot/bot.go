package bot

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/susu3304/classbot/internal/chat"
	"github.com/susu3304/classbot/internal/directory"
	"github.com/susu3304/classbot/internal/locale"
	"github.com/susu3304/classbot/internal/model"
	"github.com/susu3304/classbot/internal/payments"
	"github.com/susu3304/classbot/internal/relay"
	"github.com/susu3304/classbot/internal/session"
)

// Inbound is one event received from the chat transport.
type Inbound struct {
	UserID   int64
	Username string
	FullName string
	Text     string
}

// Names of the slash commands handled by HandleCommand.
const (
	CommandStart       = "start"
	CommandAdmin       = "admin"
	CommandMakeTeacher = "make_teacher"
	CommandMakeParent  = "make_parent"
)

type Bot struct {
	dir      *directory.Directory
	sessions session.Store
	locker   *session.Locker
	engine   *payments.Engine
	relay    *relay.Relay
	out      chat.Sender
	texts    *locale.Texts
	routes   map[model.Role]map[locale.Command]handler
	states   map[session.State]stateHandler
	reminder *reminderWorker
}

// request carries one inbound event through its handler.
type request struct {
	ctx    context.Context
	caller *model.Participant
	sess   *session.Session
	arg    int64
	log    *slog.Logger
}

type handler func(r *request) error

// stateHandler consumes free text as the payload of a pending operation.
type stateHandler func(r *request, text string) error

// errFallThrough makes a state handler pass the text on to command matching.
var errFallThrough = errors.New("not a payload for this state")

func New(dir *directory.Directory, sessions session.Store, engine *payments.Engine, relay *relay.Relay, out chat.Sender, texts *locale.Texts) *Bot {
	b := &Bot{
		dir:      dir,
		sessions: sessions,
		locker:   session.NewLocker(),
		engine:   engine,
		relay:    relay,
		out:      out,
		texts:    texts,
	}
	b.routes = b.commandTable()
	b.states = b.stateTable()
	return b
}

func (b *Bot) t(key locale.Key, args ...any) string {
	return b.texts.T(key, args...)
}

func (b *Bot) reply(ctx context.Context, to int64, msg chat.Message) {
	if err := b.out.Send(ctx, to, msg); err != nil {
		slog.Warn("failed to send reply", "to", to, "err", err)
	}
}

func (b *Bot) replyText(r *request, key locale.Key, args ...any) {
	b.reply(r.ctx, r.caller.ID, chat.Text(b.t(key, args...)))
}

func (b *Bot) replyMenu(r *request, text string, keyboard [][]string) {
	b.reply(r.ctx, r.caller.ID, chat.Message{Text: text, Keyboard: keyboard})
}

func eventLogger(userID int64) *slog.Logger {
	return slog.With("event", uuid.NewString(), "user", userID)
}

// caller loads the sender of an event. Unknown and pending participants get
// the matching answer and a nil participant.
func (b *Bot) caller(ctx context.Context, in Inbound, log *slog.Logger) *model.Participant {
	p, err := b.dir.Get(ctx, in.UserID)
	if errors.Is(err, directory.ErrNotFound) {
		b.start(ctx, in, log)
		return nil
	}
	if err != nil {
		log.Error("failed to load participant", "err", err)
		b.reply(ctx, in.UserID, chat.Text(b.t(locale.Failure)))
		return nil
	}
	if p.Role == model.RolePending {
		b.reply(ctx, p.ID, chat.Text(b.t(locale.AwaitApproval)))
		return nil
	}
	return p
}

// HandleText processes typed text or an activated menu label.
func (b *Bot) HandleText(ctx context.Context, in Inbound) {
	unlock := b.locker.Lock(in.UserID)
	defer unlock()

	log := eventLogger(in.UserID)
	caller := b.caller(ctx, in, log)
	if caller == nil {
		return
	}
	sess, err := b.sessions.Get(ctx, caller.ID)
	if err != nil {
		log.Error("failed to load session", "err", err)
		b.reply(ctx, caller.ID, chat.Text(b.t(locale.Failure)))
		return
	}

	r := &request{ctx: ctx, caller: caller, sess: sess, log: log}
	if err := b.route(r, in.Text); err != nil {
		log.Error("failed to handle text", "role", caller.Role, "state", sess.State, "err", err)
		b.reply(ctx, caller.ID, chat.Text(b.t(locale.Failure)))
		return
	}
	if err := b.sessions.Save(ctx, sess); err != nil {
		log.Error("failed to save session", "err", err)
	}
}

// route applies the session rules: a command of the caller's role always
// wins over a pending operation, anything else is that operation's payload.
func (b *Bot) route(r *request, text string) error {
	cmd, arg, isCmd := locale.Parse(text)
	h, allowed := b.routes[r.caller.Role][cmd]
	allowed = allowed && isCmd

	if !r.sess.Idle() {
		switch state, ok := b.states[r.sess.State]; {
		case allowed:
			r.log.Info("pending operation cancelled", "state", r.sess.State, "command", cmd)
			r.sess.Reset()
			b.replyText(r, locale.Cancelled)
		case ok:
			if err := state(r, text); !errors.Is(err, errFallThrough) {
				return err
			}
		default:
			r.log.Warn("dropping unknown session state", "state", r.sess.State)
			r.sess.Reset()
		}
	}

	if !isCmd {
		return nil
	}
	if !allowed {
		b.replyText(r, locale.NotAllowed)
		return nil
	}
	r.arg = arg
	r.log.Debug("command", "command", cmd)
	return h(r)
}

// HandleCommand processes a slash command. arg is its optional argument.
func (b *Bot) HandleCommand(ctx context.Context, in Inbound, name, arg string) {
	unlock := b.locker.Lock(in.UserID)
	defer unlock()

	log := eventLogger(in.UserID).With("command", name)
	switch name {
	case CommandStart:
		b.start(ctx, in, log)
	case CommandAdmin:
		b.adminStats(ctx, in.UserID, log)
	case CommandMakeTeacher:
		b.assign(ctx, in.UserID, name, arg, model.RoleTeacher, log)
	case CommandMakeParent:
		b.assign(ctx, in.UserID, name, arg, model.RoleParent, log)
	default:
		log.Debug("ignoring unknown command")
	}
}

func (b *Bot) start(ctx context.Context, in Inbound, log *slog.Logger) {
	p, created, err := b.dir.Register(ctx, in.UserID, in.Username, in.FullName)
	if err != nil {
		log.Error("failed to register participant", "err", err)
		b.reply(ctx, in.UserID, chat.Text(b.t(locale.Failure)))
		return
	}
	if err := b.sessions.Clear(ctx, p.ID); err != nil {
		log.Warn("failed to clear session", "err", err)
	}

	id := strconv.FormatInt(p.ID, 10)
	if created {
		log.Info("participant registered", "role", p.Role)
		if p.Role == model.RolePending {
			b.reply(ctx, b.dir.DeveloperID(), chat.Text(b.t(locale.NewUser, p.DisplayName(), id, id, id)))
		}
	}

	var text string
	switch p.Role {
	case model.RoleDeveloper:
		text = b.t(locale.WelcomeDeveloper) + "\n" + b.t(locale.YourID, id)
	case model.RoleTeacher:
		text = b.t(locale.WelcomeTeacher, p.DisplayName())
	case model.RoleParent:
		text = b.t(locale.WelcomeParent, p.DisplayName())
	default:
		text = b.t(locale.WelcomePending) + "\n\n" + b.t(locale.YourID, id)
	}
	b.reply(ctx, p.ID, chat.Message{Text: text, Keyboard: locale.MainMenu(p.Role)})
}

func (b *Bot) adminStats(ctx context.Context, userID int64, log *slog.Logger) {
	if !b.dir.IsDeveloper(userID) {
		log.Info("ignoring admin command from non-developer")
		return
	}
	counts, err := b.dir.Counts(ctx)
	if err != nil {
		log.Error("failed to count participants", "err", err)
		b.reply(ctx, userID, chat.Text(b.t(locale.Failure)))
		return
	}
	b.reply(ctx, userID, chat.Text(b.statsText(counts)))
}

func (b *Bot) statsText(counts map[model.Role]int) string {
	return b.t(locale.AdminStats,
		counts[model.RoleDeveloper], counts[model.RoleTeacher], counts[model.RoleParent], counts[model.RolePending])
}

func (b *Bot) assign(ctx context.Context, actorID int64, name, arg string, role model.Role, log *slog.Logger) {
	if !b.dir.IsDeveloper(actorID) {
		log.Info("ignoring role change from non-developer")
		return
	}
	targetID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || targetID <= 0 {
		b.reply(ctx, actorID, chat.Text(b.t(locale.AdminUsage, name)))
		return
	}

	p, err := b.dir.Assign(ctx, actorID, targetID, role)
	switch {
	case errors.Is(err, directory.ErrNotFound):
		b.reply(ctx, actorID, chat.Text(b.t(locale.UserNotFound)))
		return
	case errors.Is(err, directory.ErrForbidden):
		log.Info("refused role change", "target", targetID)
		return
	case err != nil:
		log.Error("failed to assign role", "target", targetID, "err", err)
		b.reply(ctx, actorID, chat.Text(b.t(locale.Failure)))
		return
	}

	log.Info("role assigned", "target", targetID, "role", role)
	roleName, promoted := b.t(locale.RoleParentName), b.t(locale.PromotedToParent)
	if role == model.RoleTeacher {
		roleName, promoted = b.t(locale.RoleTeacherName), b.t(locale.PromotedToTeacher)
	}
	b.reply(ctx, actorID, chat.Text(b.t(locale.PromoteDone, p.DisplayName(), roleName)))
	b.reply(ctx, p.ID, chat.Message{Text: promoted, Keyboard: locale.MainMenu(p.Role)})
}

// StartReminders resends pending payment requests every interval. A zero
// interval disables reminders.
func (b *Bot) StartReminders(interval time.Duration) {
	b.reminder = newReminderWorker(b.engine, interval)
	b.reminder.start()
}

func (b *Bot) Stop() {
	b.reminder.stop()
}
