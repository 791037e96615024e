package locale

const (
	YourID           Key = "your_id"
	WelcomeDeveloper Key = "welcome.developer"
	WelcomeTeacher   Key = "welcome.teacher"
	WelcomeParent    Key = "welcome.parent"
	WelcomePending   Key = "welcome.pending"
	NewUser          Key = "new_user"
	AwaitApproval    Key = "await_approval"
	NotAllowed       Key = "not_allowed"
	Cancelled        Key = "cancelled"
	Failure          Key = "failure"
	MainMenuTitle    Key = "menu.main"
	PaymentsTeacher  Key = "menu.payments.teacher"
	PaymentsParent   Key = "menu.payments.parent"
	MessagesTitle    Key = "menu.messages"
	EmptyText        Key = "empty_text"

	PromptAnnouncement  Key = "prompt.announcement"
	PromptHomework      Key = "prompt.homework"
	AnnouncementOut     Key = "out.announcement"
	HomeworkOut         Key = "out.homework"
	BroadcastSent       Key = "broadcast.sent"
	AnnouncementsHeader Key = "announcements.header"
	HomeworkHeader      Key = "homework.header"
	AnnouncementsEmpty  Key = "announcements.empty"
	HomeworkEmpty       Key = "homework.empty"
	BroadcastItem       Key = "broadcast.item"
	NoParents           Key = "no_parents"
	NoTeachers          Key = "no_teachers"

	PromptMessageToTeacher Key = "prompt.message_to_teacher"
	MessageToTeacherOut    Key = "out.message_to_teacher"
	MessageToTeacherSent   Key = "message_to_teacher.sent"
	ParentInboxHeader      Key = "inbox.parent_messages"
	TeacherInboxHeader     Key = "inbox.teacher_messages"
	ParentInboxEmpty       Key = "inbox.parent_messages.empty"
	TeacherInboxEmpty      Key = "inbox.teacher_messages.empty"
	InboxItem              Key = "inbox.item"
	SelectParent           Key = "select_parent"
	PromptPersonal         Key = "prompt.personal"
	PersonalOut            Key = "out.personal"
	ReplyToParentOut       Key = "out.reply_to_parent"
	ReplyToTeacherOut      Key = "out.reply_to_teacher"
	PromptReply            Key = "prompt.reply"
	MessageSent            Key = "message.sent"
	MessageNotDelivered    Key = "message.not_delivered"
	MessageNotFound        Key = "message.not_found"
	SelectForward          Key = "select_forward"
	ForwardOut             Key = "out.forward"
	ForwardSent            Key = "forward.sent"

	ClassStats        Key = "stats.class"
	AdminStats        Key = "stats.admin"
	UsersHeader       Key = "users.header"
	UsersItem         Key = "users.item"
	UsersEmpty        Key = "users.empty"
	PromotedToTeacher Key = "promoted.teacher"
	PromotedToParent  Key = "promoted.parent"
	PromoteDone       Key = "promote.done"
	UserNotFound      Key = "user.not_found"
	AdminUsage        Key = "admin.usage"
	RoleTeacherName   Key = "role.teacher"
	RoleParentName    Key = "role.parent"

	PhoneRequired      Key = "phone.required"
	PromptPhone        Key = "prompt.phone"
	PhoneInvalid       Key = "phone.invalid"
	PhoneSaved         Key = "phone.saved"
	PromptTitle        Key = "prompt.title"
	TitleInvalid       Key = "title.invalid"
	TitleTooLong       Key = "title.too_long"
	DescriptionTooLong Key = "description.too_long"
	PromptDescription  Key = "prompt.description"
	PromptAmount       Key = "prompt.amount"
	AmountInvalid      Key = "amount.invalid"
	CollectionCreated  Key = "collection.created"
	CollectionsEmpty   Key = "collections.empty"
	CollectionsHeader  Key = "collections.header"
	CollectionItem     Key = "collections.item"
	StatusHeader       Key = "status.header"
	StatusItem         Key = "status.item"
	AwaitingHeader     Key = "awaiting.header"
	AwaitingEmpty      Key = "awaiting.empty"
	AwaitingItem       Key = "awaiting.item"
	RejectedHeader     Key = "rejected.header"
	RejectedEmpty      Key = "rejected.empty"
	RejectedItem       Key = "rejected.item"
	ConfirmedAck       Key = "confirmed.ack"
	RejectedAck        Key = "rejected.ack"
	ConfirmedAllAck    Key = "confirmed_all.ack"
	RejectedAllAck     Key = "rejected_all.ack"
	PaymentNotAwaiting Key = "payment.not_awaiting"
	NotifyOn           Key = "notify.on"
	NotifyOff          Key = "notify.off"
	DeadlineNone       Key = "deadline.none"
	RejectNoteDefault  Key = "note.rejected"
	RejectNoteBulk     Key = "note.rejected_bulk"
	CannotPayNote      Key = "note.cannot_pay"

	RequestHeader       Key = "request.header"
	RequestDescription  Key = "request.description"
	RequestBody         Key = "request.body"
	ReminderHeader      Key = "reminder.header"
	TeacherPaid         Key = "teacher.paid"
	TeacherCannotPay    Key = "teacher.cannot_pay"
	ParentConfirmed     Key = "parent.confirmed"
	ParentRejected      Key = "parent.rejected"
	PaidAck             Key = "paid.ack"
	CannotPayAck        Key = "cannot_pay.ack"
	AlreadyHandled      Key = "payment.already_handled"
	PaymentNotFound     Key = "payment.not_found"
	QRCaption           Key = "qr.caption"
	QRFailed            Key = "qr.failed"
	ToPayHeader         Key = "parent.to_pay"
	PaidHeader          Key = "parent.paid"
	HistoryHeader       Key = "parent.history"
	ParentPaymentsEmpty Key = "parent.empty"
	ParentPaymentItem   Key = "parent.item"

	StatusPending   Key = "status.pending"
	StatusPaid      Key = "status.paid"
	StatusConfirmed Key = "status.confirmed"
	StatusRejected  Key = "status.rejected"
	StatusCannotPay Key = "status.cannot_pay"

	ActionQR         Key = "action.qr"
	ActionPaid       Key = "action.paid"
	ActionCannotPay  Key = "action.cannot_pay"
	ActionConfirmAll Key = "action.confirm_all"
	ActionRejectAll  Key = "action.reject_all"
	ActionConfirm    Key = "action.confirm"
	ActionReject     Key = "action.reject"
	ActionBack       Key = "action.back"
)

var ru = map[Key]string{
	YourID:           "🆔 Ваш ID: %s",
	WelcomeDeveloper: "👋 Добро пожаловать, разработчик!",
	WelcomeTeacher:   "👋 Здравствуйте, %s! Вы вошли как учитель.",
	WelcomeParent:    "👋 Здравствуйте, %s! Вы вошли как родитель.",
	WelcomePending:   "⏳ Ваша заявка отправлена. Дождитесь подтверждения администратора.",
	NewUser:          "🆕 Новый пользователь: %s\nID: %s\n\nНазначить роль: /make_teacher %s или /make_parent %s",
	AwaitApproval:    "⏳ Ваша учетная запись ожидает подтверждения администратором.",
	NotAllowed:       "⛔ Эта команда недоступна для вашей роли.",
	Cancelled:        "❌ Операция отменена. Обрабатываю новую команду...",
	Failure:          "⚠️ Что-то пошло не так. Попробуйте еще раз.",
	MainMenuTitle:    "Главное меню:",
	PaymentsTeacher:  "💰 Управление сборами:",
	PaymentsParent:   "💰 Мои сборы:",
	MessagesTitle:    "📋 Управление сообщениями:",
	EmptyText:        "❌ Пустое сообщение. Введите текст:",

	PromptAnnouncement:  "📢 Введите текст объявления:",
	PromptHomework:      "📚 Введите домашнее задание:",
	AnnouncementOut:     "📢 Объявление от %s:\n\n%s",
	HomeworkOut:         "📚 Домашнее задание от %s:\n\n%s",
	BroadcastSent:       "✅ Отправлено %d из %d родителей",
	AnnouncementsHeader: "📢 Последние объявления:",
	HomeworkHeader:      "📚 Последние домашние задания:",
	AnnouncementsEmpty:  "Объявлений пока нет",
	HomeworkEmpty:       "Домашних заданий пока нет",
	BroadcastItem:       "🔹 %s | %s:\n%s",
	NoParents:           "❌ В системе пока нет родителей",
	NoTeachers:          "❌ В системе пока нет учителей",

	PromptMessageToTeacher: "✍️ Напишите сообщение учителю:",
	MessageToTeacherOut:    "💬 Сообщение от родителя %s (ID%s):\n\n%s",
	MessageToTeacherSent:   "✅ Сообщение доставлено учителям: %d",
	ParentInboxHeader:      "💬 Сообщения от родителей:",
	TeacherInboxHeader:     "💬 Сообщения от учителя:",
	ParentInboxEmpty:       "Нет сообщений от родителей",
	TeacherInboxEmpty:      "Нет сообщений от учителя",
	InboxItem:              "🔹 ID%s | %s (%s):\n%s",
	SelectParent:           "Выберите родителя:",
	PromptPersonal:         "Напишите сообщение для родителя %s:",
	PersonalOut:            "💬 Сообщение от учителя %s (ID%s):\n\n%s",
	ReplyToParentOut:       "↩️ Ответ учителя %s (ID%s):\n\n%s",
	ReplyToTeacherOut:      "↩️ Ответ родителя %s (ID%s):\n\n%s",
	PromptReply:            "↩️ Отвечаю на сообщение от %s:\n\n> %s\n\nВведите ваш ответ:",
	MessageSent:            "✅ Сообщение отправлено",
	MessageNotDelivered:    "❌ Сообщение сохранено, но доставить его не удалось",
	MessageNotFound:        "❌ Сообщение не найдено",
	SelectForward:          "Выберите сообщение для пересылки всем родителям:",
	ForwardOut:             "📤 Пересланное сообщение от родителя %s:\n\n%s",
	ForwardSent:            "✅ Сообщение от %s переслано %d родителям",

	ClassStats:        "📊 Статистика класса:\n\n👨‍👩‍👧 Родителей: %d\n👨‍🏫 Учителей: %d\n⏳ Ожидают подтверждения: %d",
	AdminStats:        "📊 Статистика:\n\n👨‍💻 Разработчиков: %d\n👨‍🏫 Учителей: %d\n👨‍👩‍👧 Родителей: %d\n⏳ Ожидают: %d",
	UsersHeader:       "👥 Ожидают назначения роли:",
	UsersItem:         "• %s, ID %s",
	UsersEmpty:        "Новых пользователей нет",
	PromotedToTeacher: "🎉 Вам назначена роль учителя.",
	PromotedToParent:  "🎉 Ваша учетная запись подтверждена. Добро пожаловать!",
	PromoteDone:       "✅ %s теперь %s",
	UserNotFound:      "❌ Пользователь не найден. Он должен сначала отправить /start",
	AdminUsage:        "Использование: /%s <id>",
	RoleTeacherName:   "учитель",
	RoleParentName:    "родитель",

	PhoneRequired:      "Сначала нужно настроить ваш номер телефона для СБП",
	PromptPhone:        "📱 Введите номер телефона для переводов через СБП (например, 89001234567):",
	PhoneInvalid:       "❌ Неверный формат номера. Нужно 10 или 11 цифр, например 89001234567. Попробуйте еще раз:",
	PhoneSaved:         "✅ Номер %s сохранен",
	PromptTitle:        "💰 Создание сбора денег\n\nВведите название (например: «Экскурсия в планетарий»):",
	TitleInvalid:       "❌ Название не может быть пустым. Введите название:",
	TitleTooLong:       "❌ Название слишком длинное, допускается не более %d символов. Введите название:",
	DescriptionTooLong: "❌ Описание слишком длинное, допускается не более %d символов. Введите описание:",
	PromptDescription:  "📝 Введите описание сбора:",
	PromptAmount:       "💵 Введите сумму в рублях (целое число):",
	AmountInvalid:      "❌ Сумма должна быть положительным целым числом. Введите сумму еще раз:",
	CollectionCreated:  "✅ Сбор «%s» создан\n💵 Сумма: %d руб.\n📨 Запрос отправлен %d из %d родителей",
	CollectionsEmpty:   "Активных сборов нет",
	CollectionsHeader:  "📋 Активные сборы:",
	CollectionItem:     "🔹 %s: %d руб.\n📅 Срок: %s | 🏷 %s",
	StatusHeader:       "📊 Статус сборов:",
	StatusItem:         "📝 %s (%d руб.)\n✅ Подтверждено: %d\n🕐 Ожидают подтверждения: %d\n⚠️ Не могут оплатить: %d\n⭕ Не ответили: %d\n💰 Собрано: %d руб.",
	AwaitingHeader:     "⏳ Платежи, ожидающие подтверждения:",
	AwaitingEmpty:      "Нет платежей, ожидающих подтверждения",
	AwaitingItem:       "💰 %s\n📝 %s\n💵 %d руб. | 🏷 %s\n🕐 %s",
	RejectedHeader:     "❌ Отклоненные платежи:",
	RejectedEmpty:      "Отклоненных платежей нет",
	RejectedItem:       "👤 %s\n📝 %s\n💵 %d руб.\n💬 %s",
	ConfirmedAck:       "✅ Платеж от %s подтвержден",
	RejectedAck:        "❌ Платеж от %s отклонен",
	ConfirmedAllAck:    "✅ Подтверждены все платежи (%d шт.)",
	RejectedAllAck:     "❌ Отклонены все платежи (%d шт.)",
	PaymentNotAwaiting: "❌ Платеж не найден или уже обработан",
	NotifyOn:           "🔔 Уведомления о платежах включены",
	NotifyOff:          "🔕 Уведомления о платежах выключены",
	DeadlineNone:       "не указан",
	RejectNoteDefault:  "Отклонено учителем",
	RejectNoteBulk:     "Массовое отклонение",
	CannotPayNote:      "Родитель не может оплатить",

	RequestHeader:       "💰 Сбор денег: %s",
	RequestDescription:  "📝 %s",
	RequestBody:         "💵 Сумма: %d рублей\n📅 Срок: %s\n\n💳 Оплата через СБП:\n\n📱 Номер: %s\nСумма: %d руб\nКомментарий: %s\n\n⚠️ ОБЯЗАТЕЛЬНО указывайте комментарий: %s\nЭто нужно для учета вашего платежа\n\nПосле оплаты нажмите кнопку «Я оплатил»",
	ReminderHeader:      "⏰ Напоминание: сбор еще не оплачен",
	TeacherPaid:         "💰 Новый платеж!\n\n👤 %s\n📝 %s\n💵 %d руб.\n🏷 Код: %s\n\nИспользуйте меню «⏳ Ожидают подтверждения» для управления платежами",
	TeacherCannotPay:    "⚠️ %s не может оплатить сбор «%s»",
	ParentConfirmed:     "✅ Ваш платеж подтвержден!\n\n📝 %s\n💰 Сумма получена учителем",
	ParentRejected:      "❌ Ваш платеж отклонен\n\n📝 %s\n💬 %s\nОбратитесь к учителю для уточнения",
	PaidAck:             "✅ Спасибо! Ваш платеж отмечен как выполненный\n\n💰 %s\n💵 %d руб.\n🏷 Код: %s\n\nУчитель подтвердит получение денег в ближайшее время",
	CannotPayAck:        "Мы отметили, что у вас трудности с оплатой. Учитель свяжется с вами для решения вопроса.",
	AlreadyHandled:      "ℹ️ Этот платеж уже обработан",
	PaymentNotFound:     "❌ Платеж не найден",
	QRCaption:           "📱 QR-код для оплаты через СБП\n\n%s\n%d руб.\nКод: %s",
	QRFailed:            "Ошибка генерации QR-кода. Воспользуйтесь переводом по номеру телефона.",
	ToPayHeader:         "💳 К оплате:",
	PaidHeader:          "✅ Оплаченные:",
	HistoryHeader:       "📊 История платежей:",
	ParentPaymentsEmpty: "Здесь пока пусто",
	ParentPaymentItem:   "📝 %s\n💵 %d руб. | 🏷 %s\n%s",

	StatusPending:   "⏳ Ожидает оплаты",
	StatusPaid:      "🕐 Ожидает подтверждения",
	StatusConfirmed: "✅ Подтвержден",
	StatusRejected:  "❌ Отклонен",
	StatusCannotPay: "⚠️ Не может оплатить",

	ActionQR:         "📱 QR-код СБП",
	ActionPaid:       "✅ Я оплатил",
	ActionCannotPay:  "❌ Не могу оплатить",
	ActionConfirmAll: "✅ Подтвердить все",
	ActionRejectAll:  "❌ Отклонить все",
	ActionConfirm:    "✅ %s",
	ActionReject:     "❌ %s",
	ActionBack:       "🔙 Назад",
}
