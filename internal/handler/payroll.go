package handler

import (
	"context"

	"ems-bot/pkg/monthkey"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// showPayroll показывает ведомость за месяц (только администратор)
func (h *Handler) showPayroll(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	session := h.requireAdmin(chatID)
	if session == nil {
		return
	}

	month, err := monthkey.Parse(args)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ "+err.Error()+"\nПример: /payroll 2024-01 или /payroll 01.2024")
		h.client.Bot.Send(msg)
		return
	}

	records, err := h.payrollService.GetPayroll(context.Background(), session, month)
	if err != nil {
		logrus.WithError(err).Error("Failed to get payroll")
		h.sendOperationError(chatID, session, err)
		return
	}

	msg := tgbotapi.NewMessage(chatID, h.payrollService.FormatPayroll(month, records))
	h.client.Bot.Send(msg)
}

// generatePayroll запускает формирование ведомости за месяц
func (h *Handler) generatePayroll(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	session := h.requireAdmin(chatID)
	if session == nil {
		return
	}

	month, err := monthkey.Parse(args)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ "+err.Error()+"\nПример: /genpayroll 2024-01")
		h.client.Bot.Send(msg)
		return
	}

	if err := h.payrollService.Generate(context.Background(), session, month); err != nil {
		logrus.WithError(err).Error("Failed to generate payroll")
		h.sendOperationError(chatID, session, err)
		return
	}

	msg := tgbotapi.NewMessage(chatID, "✅ Ведомость за "+month.Display()+" сформирована.\nИспользуйте /payroll "+month.String()+" чтобы посмотреть ее.")
	h.client.Bot.Send(msg)
}

// sendPayrollReport скачивает отчет и отправляет его в чат документом
func (h *Handler) sendPayrollReport(message *tgbotapi.Message, args string) {
	chatID := message.Chat.ID

	session := h.requireAdmin(chatID)
	if session == nil {
		return
	}

	month, err := monthkey.Parse(args)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ "+err.Error()+"\nПример: /payrollreport 2024-01")
		h.client.Bot.Send(msg)
		return
	}

	data, fileName, err := h.payrollService.Report(context.Background(), session, month)
	if err != nil {
		logrus.WithError(err).Error("Failed to download payroll report")
		h.sendOperationError(chatID, session, err)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fileName,
		Bytes: data,
	})
	doc.Caption = "📄 Отчет по ведомости за " + month.Display()
	h.client.Bot.Send(doc)
}
