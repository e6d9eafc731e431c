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
	case "helpadmin":
		h.sendAdminHelpMessage(message)

	// Вход и профиль
	case "login":
		h.startLogin(message)
	case "logout":
		h.logout(message)
	case "register":
		h.startRegistration(message)
	case "profile", "myprofile":
		h.showProfile(message)
	case "updateprofile":
		h.startProfileUpdate(message)

	// Главный экран
	case "dashboard", "stats":
		h.showDashboard(message)

	// Записи учета времени
	case "worklogs", "logs":
		h.showWorkLogs(message)
	case "addlog":
		h.startWorkLogCreation(message)
	case "editlog":
		h.startWorkLogEdit(message, args)
	case "dellog":
		h.deleteWorkLog(message, args)

	// Решения администратора
	case "pending":
		h.showPendingWorkLogs(message)
	case "approve":
		h.approveWorkLog(message, args)
	case "reject":
		h.rejectWorkLog(message, args)

	// Сотрудники (админы)
	case "users":
		h.showUsers(message)
	case "user":
		h.showUser(message, args)
	case "edituser":
		h.startUserUpdate(message, args)
	case "deluser":
		h.deleteUser(message, args)

	// Ведомости (админы)
	case "payroll":
		h.showPayroll(message, args)
	case "genpayroll":
		h.generatePayroll(message, args)
	case "payrollreport":
		h.sendPayrollReport(message, args)

	default:
		h.sendUnknownCommand(message)
	}
}

func (h *Handler) sendUnknownCommand(message *tgbotapi.Message) {
	msg := tgbotapi.NewMessage(message.Chat.ID, "❌ Неизвестная команда. Используйте /help для списка команд.")
	h.client.Bot.Send(msg)
}

func (h *Handler) sendStartMessage(message *tgbotapi.Message) {
	h.sendHelpMessage(message)
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	text := `📋 Доступные команды:

🔐 Вход:
/login - Войти в систему
/logout - Выйти из системы
/register - Зарегистрировать нового сотрудника

👤 Профиль:
/profile - Показать мой профиль
/updateprofile - Обновить профиль

📊 Главный экран:
/dashboard - Сводка: часы, записи, заработок

⏰ Учет рабочего времени:
/worklogs - Мои записи учета времени
/addlog - Добавить запись (дата, часы, примечание)
/editlog [№] - Изменить запись (пока она в ожидании)
/dellog [№] - Удалить запись (пока она в ожидании)

🛠 Утилиты:
/start - Начать работу с ботом
/help - Показать это сообщение
/helpadmin - Команды администратора

💡 Как пользоваться:
1. Войдите командой /login
2. Добавляйте записи командой /addlog
3. Следите за статусом записей командой /worklogs
4. Администратор подтверждает или отклоняет записи

📈 Статусы записей:
⏳ PENDING - ожидает решения, можно менять и удалять
✅ APPROVED - подтверждена, изменить нельзя
❌ REJECTED - отклонена, изменить нельзя`

	msg := tgbotapi.NewMessage(chatID, text)
	h.client.Bot.Send(msg)
}

func (h *Handler) sendAdminHelpMessage(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	session := h.requireAdmin(chatID)
	if session == nil {
		return
	}

	text := `📋 Команды администратора:

👑 Решения по записям:
/pending - Записи, ожидающие решения
/approve [№] - Подтвердить запись
/reject [№] - Отклонить запись
/worklogs - Все видимые записи

👥 Сотрудники:
/users - Список сотрудников
/user [№] - Карточка сотрудника
/edituser [№] - Изменить сотрудника
/deluser [№] - Удалить сотрудника

💰 Расчетные ведомости:
/payroll [месяц] - Ведомость за месяц
    Пример: /payroll 2024-01 или /payroll 01.2024
/genpayroll [месяц] - Сформировать ведомость за месяц
/payrollreport [месяц] - Скачать отчет по ведомости

Если месяц не указан, используется текущий.`

	msg := tgbotapi.NewMessage(chatID, text)
	h.client.Bot.Send(msg)
}
