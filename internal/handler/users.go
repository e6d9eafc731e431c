package handler

import (
	"context"
	"fmt"
	"strings"

	"ems-bot/pkg/emsapi"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// showUsers показывает список сотрудников (только администратор)
func (h *Handler) showUsers(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	session := h.requireAdmin(chatID)
	if session == nil {
		return
	}

	users, err := h.userService.List(context.Background(), session)
	if err != nil {
		logrus.WithError(err).Error("Failed to list users")
		h.sendOperationError(chatID, session, err)
		return
	}

	msg := tgbotapi.NewMessage(chatID, h.userService.FormatUserList(users))
	h.client.Bot.Send(msg)
}

// showUser показывает карточку сотрудника (только администратор)
func (h *Handler) showUser(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	session := h.requireAdmin(chatID)
	if session == nil {
		return
	}

	id, err := parseLogID(args)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Укажите номер сотрудника: /user [№]\nНомера сотрудников видны в /users.")
		h.client.Bot.Send(msg)
		return
	}

	user, err := h.userService.Get(context.Background(), session, id)
	if err != nil {
		logrus.WithError(err).Error("Failed to get user")
		h.sendOperationError(chatID, session, err)
		return
	}

	msg := tgbotapi.NewMessage(chatID, h.userService.FormatUser(user))
	h.client.Bot.Send(msg)
}

// startUserUpdate начинает диалог изменения сотрудника
func (h *Handler) startUserUpdate(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	session := h.requireAdmin(chatID)
	if session == nil {
		return
	}

	id, err := parseLogID(args)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Укажите номер сотрудника: /edituser [№]\nНомера сотрудников видны в /users.")
		h.client.Bot.Send(msg)
		return
	}

	h.userStates[chatID] = fmt.Sprintf("edituser:%d", id)

	text := fmt.Sprintf(`✏️ Изменение сотрудника №%d

Отправьте новые данные в формате:
Имя Фамилия [Отдел] [Должность]

Например: Иван Иванов IT Разработчик
Или просто: Иван Иванов`, id)

	msg := tgbotapi.NewMessage(chatID, text)
	h.client.Bot.Send(msg)
}

// handleUserUpdateState обрабатывает ответ диалога изменения сотрудника
func (h *Handler) handleUserUpdateState(message *tgbotapi.Message, state string) {
	chatID := message.Chat.ID
	delete(h.userStates, chatID)

	id, err := parseLogID(strings.TrimPrefix(state, "edituser:"))
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Изменение прервано, начните заново: /edituser [№]")
		h.client.Bot.Send(msg)
		return
	}

	session := h.requireAdmin(chatID)
	if session == nil {
		return
	}

	parts := strings.Fields(message.Text)
	if len(parts) < 2 {
		msg := tgbotapi.NewMessage(chatID, "❌ Неверный формат. Отправьте как минимум имя и фамилию.")
		h.client.Bot.Send(msg)
		return
	}

	input := emsapi.ProfileUpdate{FirstName: parts[0], LastName: parts[1]}
	if len(parts) > 2 {
		input.Department = parts[2]
	}
	if len(parts) > 3 {
		input.Position = parts[3]
	}

	user, err := h.userService.Update(context.Background(), session, id, input)
	if err != nil {
		logrus.WithError(err).Error("Failed to update user")
		h.sendOperationError(chatID, session, err)
		return
	}

	responseText := fmt.Sprintf(`✅ Сотрудник успешно обновлен!

%s`, h.userService.FormatUser(user))

	msg := tgbotapi.NewMessage(chatID, responseText)
	h.client.Bot.Send(msg)
}

// deleteUser запрашивает подтверждение удаления сотрудника
func (h *Handler) deleteUser(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	session := h.requireAdmin(chatID)
	if session == nil {
		return
	}

	id, err := parseLogID(args)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Укажите номер сотрудника: /deluser [№]\nНомера сотрудников видны в /users.")
		h.client.Bot.Send(msg)
		return
	}

	if session.User != nil && session.User.ID == id {
		msg := tgbotapi.NewMessage(chatID, "❌ Нельзя удалить собственную учетную запись.")
		h.client.Bot.Send(msg)
		return
	}

	// Создаем inline клавиатуру для подтверждения
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Да, удалить", fmt.Sprintf("confirm_delete_user_%d", id)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Нет, отменить", "cancel_delete_user"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("⚠️ Вы уверены, что хотите удалить сотрудника №%d?\nЭто действие нельзя отменить.", id))
	msg.ReplyMarkup = keyboard
	h.client.Bot.Send(msg)
}

// deleteUserConfirmed удаляет сотрудника после подтверждения кнопкой
func (h *Handler) deleteUserConfirmed(chatID int64, id uint) {
	session := h.requireAdmin(chatID)
	if session == nil {
		return
	}

	if err := h.userService.Delete(context.Background(), session, id); err != nil {
		logrus.WithError(err).Error("Failed to delete user")
		h.sendOperationError(chatID, session, err)
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Сотрудник №%d удален.", id))
	h.client.Bot.Send(msg)
}
