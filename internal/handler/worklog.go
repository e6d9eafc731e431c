package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ems-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// showWorkLogs показывает записи учета времени владельца сессии
func (h *Handler) showWorkLogs(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	session := h.requireSession(chatID)
	if session == nil {
		return
	}

	logs, err := h.workLogService.List(context.Background(), session)
	if err != nil {
		logrus.WithError(err).Error("Failed to list work logs")
		msg := tgbotapi.NewMessage(chatID, "❌ "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, h.workLogService.FormatWorkLogList(logs, session.IsAdmin()))
	h.client.Bot.Send(msg)
}

// startWorkLogCreation начинает диалог создания записи
func (h *Handler) startWorkLogCreation(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	session := h.requireSession(chatID)
	if session == nil {
		return
	}

	h.userStates[chatID] = "addlog_date"

	text := `⏰ Новая запись учета времени

Шаг 1 из 3:
📅 Отправьте дату в формате гггг-мм-дд или дд.мм.гггг:`

	msg := tgbotapi.NewMessage(chatID, text)
	h.client.Bot.Send(msg)
}

// startWorkLogEdit начинает диалог изменения записи.
// Менять можно только записи в статусе PENDING.
func (h *Handler) startWorkLogEdit(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	session := h.requireSession(chatID)
	if session == nil {
		return
	}

	id, err := parseLogID(args)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Укажите номер записи: /editlog [№]\nНомера записей видны в /worklogs.")
		h.client.Bot.Send(msg)
		return
	}

	if cached := h.workLogService.Find(chatID, id); cached != nil && !cached.CanEdit() {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Запись №%d уже решена (%s), редактировать ее нельзя.", id, cached.Status))
		h.client.Bot.Send(msg)
		return
	}

	h.userStates[chatID] = fmt.Sprintf("editlog_date:%d", id)

	text := fmt.Sprintf(`✏️ Изменение записи №%d

Шаг 1 из 3:
📅 Отправьте новую дату в формате гггг-мм-дд или дд.мм.гггг:`, id)

	msg := tgbotapi.NewMessage(chatID, text)
	h.client.Bot.Send(msg)
}

// handleWorkLogFormState обрабатывает шаги формы создания/изменения записи
func (h *Handler) handleWorkLogFormState(message *tgbotapi.Message, state string) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	switch {
	case state == "addlog_date":
		date, err := parseDateArg(text)
		if err != nil {
			msg := tgbotapi.NewMessage(chatID, "❌ Не удалось разобрать дату. Отправьте ее в формате гггг-мм-дд или дд.мм.гггг.")
			h.client.Bot.Send(msg)
			return
		}
		h.userStates[chatID] = "addlog_hours:" + date
		msg := tgbotapi.NewMessage(chatID, "Шаг 2 из 3:\n⏳ Отправьте количество часов (от 0 до 24, можно с половинами: 7.5):")
		h.client.Bot.Send(msg)

	case strings.HasPrefix(state, "editlog_date:"):
		idStr := strings.TrimPrefix(state, "editlog_date:")
		date, err := parseDateArg(text)
		if err != nil {
			msg := tgbotapi.NewMessage(chatID, "❌ Не удалось разобрать дату. Отправьте ее в формате гггг-мм-дд или дд.мм.гггг.")
			h.client.Bot.Send(msg)
			return
		}
		h.userStates[chatID] = "editlog_hours:" + idStr + "|" + date
		msg := tgbotapi.NewMessage(chatID, "Шаг 2 из 3:\n⏳ Отправьте количество часов (от 0 до 24):")
		h.client.Bot.Send(msg)

	case strings.HasPrefix(state, "addlog_hours:"), strings.HasPrefix(state, "editlog_hours:"):
		hours, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
		if err != nil || hours < 0 || hours > 24 {
			msg := tgbotapi.NewMessage(chatID, "❌ Количество часов должно быть числом от 0 до 24.")
			h.client.Bot.Send(msg)
			return
		}

		if strings.HasPrefix(state, "addlog_hours:") {
			date := strings.TrimPrefix(state, "addlog_hours:")
			h.userStates[chatID] = fmt.Sprintf("addlog_remarks:%s|%g", date, hours)
		} else {
			fields := strings.TrimPrefix(state, "editlog_hours:")
			h.userStates[chatID] = fmt.Sprintf("editlog_remarks:%s|%g", fields, hours)
		}

		msg := tgbotapi.NewMessage(chatID, "Шаг 3 из 3:\n📝 Отправьте примечание (если примечания нет, отправьте \"-\"):")
		h.client.Bot.Send(msg)

	case strings.HasPrefix(state, "addlog_remarks:"):
		delete(h.userStates, chatID)

		fields := strings.Split(strings.TrimPrefix(state, "addlog_remarks:"), "|")
		if len(fields) != 2 {
			msg := tgbotapi.NewMessage(chatID, "❌ Создание записи прервано, начните заново: /addlog")
			h.client.Bot.Send(msg)
			return
		}

		h.submitWorkLog(chatID, 0, fields[0], fields[1], text)

	case strings.HasPrefix(state, "editlog_remarks:"):
		delete(h.userStates, chatID)

		fields := strings.Split(strings.TrimPrefix(state, "editlog_remarks:"), "|")
		if len(fields) != 3 {
			msg := tgbotapi.NewMessage(chatID, "❌ Изменение записи прервано, начните заново: /editlog [№]")
			h.client.Bot.Send(msg)
			return
		}

		id, err := parseLogID(fields[0])
		if err != nil {
			msg := tgbotapi.NewMessage(chatID, "❌ Изменение записи прервано, начните заново: /editlog [№]")
			h.client.Bot.Send(msg)
			return
		}

		h.submitWorkLog(chatID, id, fields[1], fields[2], text)
	}
}

// submitWorkLog отправляет собранную форму: создание при id == 0, иначе изменение
func (h *Handler) submitWorkLog(chatID int64, id uint, date, hoursStr, remarks string) {
	session := h.requireSession(chatID)
	if session == nil {
		return
	}

	if remarks == "-" {
		remarks = ""
	}

	hours, err := strconv.ParseFloat(hoursStr, 64)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Количество часов должно быть числом от 0 до 24.")
		h.client.Bot.Send(msg)
		return
	}

	input := models.WorkLogInput{
		Date:        date,
		HoursWorked: hours,
		Remarks:     remarks,
	}

	var log *models.WorkLog
	if id == 0 {
		log, err = h.workLogService.Create(context.Background(), session, input)
	} else {
		log, err = h.workLogService.Update(context.Background(), session, id, input)
	}

	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	action := "создана"
	if id != 0 {
		action = "обновлена"
	}

	responseText := fmt.Sprintf(`🎉 Запись успешно %s!

%s`, action, h.workLogService.FormatWorkLog(log))

	msg := tgbotapi.NewMessage(chatID, responseText)
	h.client.Bot.Send(msg)
}

// deleteWorkLog запрашивает подтверждение удаления записи
func (h *Handler) deleteWorkLog(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	session := h.requireSession(chatID)
	if session == nil {
		return
	}

	id, err := parseLogID(args)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Укажите номер записи: /dellog [№]\nНомера записей видны в /worklogs.")
		h.client.Bot.Send(msg)
		return
	}

	if cached := h.workLogService.Find(chatID, id); cached != nil && !cached.CanEdit() {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Запись №%d уже решена (%s), удалить ее нельзя.", id, cached.Status))
		h.client.Bot.Send(msg)
		return
	}

	// Создаем inline клавиатуру для подтверждения
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Да, удалить", fmt.Sprintf("confirm_delete_log_%d", id)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Нет, отменить", "cancel_delete_log"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("⚠️ Вы уверены, что хотите удалить запись №%d?\nЭто действие нельзя отменить.", id))
	msg.ReplyMarkup = keyboard
	h.client.Bot.Send(msg)
}

// deleteWorkLogConfirmed удаляет запись после подтверждения кнопкой
func (h *Handler) deleteWorkLogConfirmed(chatID int64, id uint) {
	session := h.requireSession(chatID)
	if session == nil {
		return
	}

	if err := h.workLogService.Delete(context.Background(), session, id); err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Запись №%d удалена.", id))
	h.client.Bot.Send(msg)
}

// showPendingWorkLogs показывает администратору записи, ожидающие решения,
// с кнопками подтверждения и отклонения
func (h *Handler) showPendingWorkLogs(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	session := h.requireAdmin(chatID)
	if session == nil {
		return
	}

	logs, err := h.workLogService.List(context.Background(), session)
	if err != nil {
		logrus.WithError(err).Error("Failed to list work logs for review")
		msg := tgbotapi.NewMessage(chatID, "❌ "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	var pending []models.WorkLog
	for _, log := range logs {
		if log.IsPending() {
			pending = append(pending, log)
		}
	}

	if len(pending) == 0 {
		msg := tgbotapi.NewMessage(chatID, "📭 Записей, ожидающих решения, нет.")
		h.client.Bot.Send(msg)
		return
	}

	for _, log := range pending {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить", fmt.Sprintf("approve_log_%d", log.ID)),
				tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", fmt.Sprintf("reject_log_%d", log.ID)),
			),
		)

		msg := tgbotapi.NewMessage(chatID, h.workLogService.FormatWorkLog(&log))
		msg.ReplyMarkup = keyboard
		h.client.Bot.Send(msg)
	}
}

// approveWorkLog подтверждает запись по команде
func (h *Handler) approveWorkLog(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	if session := h.requireAdmin(chatID); session == nil {
		return
	}

	id, err := parseLogID(args)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Укажите номер записи: /approve [№]")
		h.client.Bot.Send(msg)
		return
	}

	h.decideWorkLog(chatID, id, true)
}

// rejectWorkLog отклоняет запись по команде
func (h *Handler) rejectWorkLog(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	if session := h.requireAdmin(chatID); session == nil {
		return
	}

	id, err := parseLogID(args)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Укажите номер записи: /reject [№]")
		h.client.Bot.Send(msg)
		return
	}

	h.decideWorkLog(chatID, id, false)
}

// decideWorkLog выполняет решение администратора по записи
func (h *Handler) decideWorkLog(chatID int64, id uint, approve bool) {
	session := h.requireSession(chatID)
	if session == nil {
		return
	}

	var log *models.WorkLog
	var err error
	if approve {
		log, err = h.workLogService.Approve(context.Background(), session, id)
	} else {
		log, err = h.workLogService.Reject(context.Background(), session, id)
	}

	if err != nil {
		h.sendOperationError(chatID, session, err)
		return
	}

	action := "подтверждена"
	if !approve {
		action = "отклонена"
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("%s Запись №%d %s.", log.StatusEmoji(), log.ID, action))
	h.client.Bot.Send(msg)
}

// parseLogID разбирает номер записи из аргумента команды
func parseLogID(args string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(args), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("неверный номер записи: %s", args)
	}
	return uint(id), nil
}

// parseDateArg разбирает дату пользователя и приводит к формату API
func parseDateArg(s string) (string, error) {
	for _, layout := range []string{"2006-01-02", "02.01.2006", "02-01-2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("не удалось разобрать дату: %s", s)
}
