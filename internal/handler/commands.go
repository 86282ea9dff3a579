package handler

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) handleCommand(message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	switch command {
	case "start":
		h.sendStartMessage(message)
	case "help":
		h.sendHelpMessage(message)

	// Вход и выход
	case "login":
		h.login(message, args)
	case "logout":
		h.logout(message)

	// Рабочий день (все сотрудники)
	case "in", "checkin":
		h.checkIn(message)
	case "out", "checkout":
		h.checkOut(message)
	case "log":
		h.logPerformance(message, args)
	case "stats", "mystats":
		h.showStats(message)
	case "leave":
		h.applyLeave(message, args)
	case "myleaves":
		h.showMyLeaves(message)

	// Администратор
	case "team":
		h.showTeam(message)
	case "pending":
		h.showPendingLeaves(message)
	case "approve":
		h.approveLeaveCommand(message, args)
	case "reject":
		h.rejectLeaveCommand(message, args)
	case "notifications":
		h.showNotifications(message, args)
	case "export":
		h.exportData(message, args)

	default:
		h.sendUnknownCommand(message)
	}
}

func (h *Handler) sendUnknownCommand(message *tgbotapi.Message) {
	h.reply(message.Chat.ID, "❌ Неизвестная команда. Используйте /help для списка команд.")
}

func (h *Handler) sendStartMessage(message *tgbotapi.Message) {
	name := "коллега"
	if message.From != nil && message.From.FirstName != "" {
		name = message.From.FirstName
	}

	text := "👋 Привет, " + name + "!\n\n" +
		"Я помогаю вести учет продаж: звонки, конверсии, выручка, посещаемость и отпуска.\n\n" +
		"🔑 Для начала войдите: /login <email> <пароль>\n" +
		"📋 Все команды: /help"
	h.reply(message.Chat.ID, text)
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	text := `📋 Доступные команды:

🔑 Вход:
/login <email> <пароль> [admin] - Войти
/logout - Выйти

⏰ Рабочий день:
/in - Отметить приход и начать учет активности
/out - Отметить уход
/log <дата|today> <звонки> <контакты> <конверсии> <выручка> <ожидается> - Результаты за день
/stats - Моя статистика

🏖 Отпуска:
/leave <тип> <начало> <конец> <причина> - Подать заявку
   Типы: sick, casual, annual, emergency, half-day
/myleaves - Мои заявки

👑 Администратор:
/team - Статистика команды за месяц
/pending - Заявки на рассмотрении
/approve <id> - Одобрить заявку
/reject <id> [комментарий] - Отклонить заявку
/notifications [all] - Уведомления
/export <employees|performances|attendance|leave> [csv|xlsx] - Выгрузка

📅 Даты в формате ГГГГ-ММ-ДД, например 2024-06-10`

	h.reply(message.Chat.ID, text)
}
