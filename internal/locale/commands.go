package locale

import (
	"strconv"
	"strings"

	"github.com/susu3304/classbot/internal/model"
)

// Command identifies a menu command independently of its label.
type Command string

const (
	CmdAnnounce          Command = "announce"
	CmdHomework          Command = "homework"
	CmdViewAnnouncements Command = "view_announcements"
	CmdViewHomework      Command = "view_homework"
	CmdMessages          Command = "messages"
	CmdClassStats        Command = "class_stats"
	CmdPayments          Command = "payments"
	CmdParentInbox       Command = "parent_inbox"
	CmdWriteParent       Command = "write_parent"
	CmdForwardPicker     Command = "forward_picker"
	CmdBack              Command = "back"

	CmdCreateCollection Command = "create_collection"
	CmdCollectionStats  Command = "collection_stats"
	CmdAwaiting         Command = "awaiting_confirmation"
	CmdRejected         Command = "rejected"
	CmdSetupPhone       Command = "setup_phone"
	CmdAllCollections   Command = "all_collections"
	CmdToggleNotify     Command = "toggle_notify"

	CmdWriteTeacher   Command = "write_teacher"
	CmdTeacherInbox   Command = "teacher_inbox"
	CmdMyPayments     Command = "my_payments"
	CmdToPay          Command = "to_pay"
	CmdPaidPayments   Command = "paid_payments"
	CmdPaymentHistory Command = "payment_history"

	CmdUsers Command = "users"
	CmdStats Command = "stats"

	// Commands carrying a message id after their label prefix.
	CmdReplyTo Command = "reply_to"
	CmdForward Command = "forward"
)

var labels = map[string]Command{
	"📢 Создать объявление":        CmdAnnounce,
	"📚 Создать домашнее задание":  CmdHomework,
	"📢 Просмотр объявлений":       CmdViewAnnouncements,
	"📚 Просмотр домашних заданий": CmdViewHomework,
	"📋 Управление сообщениями":    CmdMessages,
	"📊 Статистика класса":         CmdClassStats,
	"💰 Сборы денег":               CmdPayments,
	"💬 Сообщения от родителей":    CmdParentInbox,
	"✉️ Написать родителю":        CmdWriteParent,
	"📤 Переслать сообщение":       CmdForwardPicker,
	"🔙 Назад":                     CmdBack,
	"💰 Создать сбор":              CmdCreateCollection,
	"📊 Статистика сборов":         CmdCollectionStats,
	"⏳ Ожидают подтверждения":     CmdAwaiting,
	"❌ Отклоненные":               CmdRejected,
	"⚙️ Настройка телефона":       CmdSetupPhone,
	"📋 Все сборы":                 CmdAllCollections,
	"🔔 Уведомления":               CmdToggleNotify,
	"📢 Объявления":                CmdViewAnnouncements,
	"📚 Домашние задания":          CmdViewHomework,
	"✍️ Написать учителю":         CmdWriteTeacher,
	"↩️ Ответить учителю":         CmdTeacherInbox,
	"💰 Мои сборы":                 CmdMyPayments,
	"💳 К оплате":                  CmdToPay,
	"✅ Оплаченные":                CmdPaidPayments,
	"📊 История платежей":          CmdPaymentHistory,
	"👥 Пользователи":              CmdUsers,
	"📊 Статистика":                CmdStats,
}

const (
	replyPrefix   = "↩️ Ответить на ID"
	forwardPrefix = "📤 Переслать ID"
	recipientMark = "📨 "
)

// Parse maps a menu label to its command. For commands that carry a
// message id, the id is returned as well.
func Parse(text string) (cmd Command, arg int64, ok bool) {
	text = strings.TrimSpace(text)
	if cmd, ok := labels[text]; ok {
		return cmd, 0, true
	}
	for prefix, cmd := range map[string]Command{replyPrefix: CmdReplyTo, forwardPrefix: CmdForward} {
		rest, found := strings.CutPrefix(text, prefix)
		if !found {
			continue
		}
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id <= 0 {
			return "", 0, false
		}
		return cmd, id, true
	}
	return "", 0, false
}

func ReplyLabel(messageID int64) string {
	return replyPrefix + strconv.FormatInt(messageID, 10)
}

func ForwardLabel(messageID int64) string {
	return forwardPrefix + strconv.FormatInt(messageID, 10)
}

// RecipientLabel is the label offered for one parent while a teacher picks
// the recipient of a personal message.
func RecipientLabel(name string) string {
	return recipientMark + name
}

// MainMenu returns the main keyboard of a role. Pending participants have none.
func MainMenu(role model.Role) [][]string {
	switch role {
	case model.RoleDeveloper:
		return [][]string{{"👥 Пользователи", "📊 Статистика"}}
	case model.RoleTeacher:
		return [][]string{
			{"📢 Создать объявление", "📚 Создать домашнее задание"},
			{"📢 Просмотр объявлений", "📚 Просмотр домашних заданий"},
			{"📋 Управление сообщениями", "📊 Статистика класса"},
			{"💰 Сборы денег"},
		}
	case model.RoleParent:
		return [][]string{
			{"📢 Объявления", "📚 Домашние задания"},
			{"✍️ Написать учителю", "↩️ Ответить учителю"},
			{"💰 Мои сборы"},
		}
	}
	return nil
}

func PaymentMenu(role model.Role) [][]string {
	switch role {
	case model.RoleTeacher:
		return [][]string{
			{"💰 Создать сбор", "📊 Статистика сборов"},
			{"⏳ Ожидают подтверждения", "❌ Отклоненные"},
			{"⚙️ Настройка телефона", "📋 Все сборы"},
			{"🔔 Уведомления", "🔙 Назад"},
		}
	case model.RoleParent:
		return [][]string{
			{"💳 К оплате", "✅ Оплаченные"},
			{"📊 История платежей"},
			{"🔙 Назад"},
		}
	}
	return nil
}

func MessagesMenu() [][]string {
	return [][]string{
		{"💬 Сообщения от родителей", "✉️ Написать родителю"},
		{"📤 Переслать сообщение"},
		{"🔙 Назад"},
	}
}

// PhoneSetupMenu is shown when a collection cannot be created yet.
func PhoneSetupMenu() [][]string {
	return [][]string{{"⚙️ Настройка телефона"}, {"🔙 Назад"}}
}

// BackMenu holds only the back label.
func BackMenu() [][]string {
	return [][]string{{"🔙 Назад"}}
}
