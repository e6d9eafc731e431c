package handler

import (
	"context"

	"ems-bot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// showDashboard показывает сводку главного экрана
func (h *Handler) showDashboard(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	session := h.requireSession(chatID)
	if session == nil {
		return
	}

	h.sendDashboard(chatID, session)
}

// sendDashboard запрашивает и отправляет сводку в чат.
// Это же представление служит точкой возврата при нехватке прав.
func (h *Handler) sendDashboard(chatID int64, session *service.Session) {
	stats, err := h.dashboardService.GetStats(context.Background(), session)
	if err != nil {
		logrus.WithError(err).Error("Failed to get dashboard stats")
		msg := tgbotapi.NewMessage(chatID, "❌ "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, h.dashboardService.FormatStats(session.User, stats))
	h.client.Bot.Send(msg)
}
