package handler

import (
	"context"
	"strconv"
	"strings"

	"ems-bot/internal/config"
	"ems-bot/internal/service"
	"ems-bot/pkg/emsapi"
	"ems-bot/pkg/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	client           *telegram.Client
	sessionService   *service.SessionService
	workLogService   *service.WorkLogService
	dashboardService *service.DashboardService
	payrollService   *service.PayrollService
	userService      *service.UserService
	userStates       map[int64]string
	regForms         map[int64]*registerForm
	config           *config.BotConfig
}

func NewHandler(
	client *telegram.Client,
	sessionService *service.SessionService,
	workLogService *service.WorkLogService,
	dashboardService *service.DashboardService,
	payrollService *service.PayrollService,
	userService *service.UserService,
	cfg *config.BotConfig,
) *Handler {
	return &Handler{
		client:           client,
		sessionService:   sessionService,
		workLogService:   workLogService,
		dashboardService: dashboardService,
		payrollService:   payrollService,
		userService:      userService,
		userStates:       make(map[int64]string),
		regForms:         make(map[int64]*registerForm),
		config:           cfg,
	}
}

func (h *Handler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		// Обработка callback query (для inline кнопок)
		if update.CallbackQuery != nil {
			h.handleCallbackQuery(update.CallbackQuery)
			continue
		}

		if update.Message == nil {
			continue
		}

		h.handleMessage(update.Message)
	}
}

// handleCallbackQuery обрабатывает inline кнопки
func (h *Handler) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	data := callback.Data

	// Удаляем клавиатуру
	editMsg := tgbotapi.NewEditMessageReplyMarkup(chatID, callback.Message.MessageID, tgbotapi.NewInlineKeyboardMarkup())
	h.client.Bot.Send(editMsg)

	switch {
	// Подтверждение удаления записи учета времени
	case strings.HasPrefix(data, "confirm_delete_log_"):
		idStr := strings.TrimPrefix(data, "confirm_delete_log_")
		if id, err := strconv.ParseUint(idStr, 10, 32); err == nil {
			h.deleteWorkLogConfirmed(chatID, uint(id))
		}

	case data == "cancel_delete_log":
		msg := tgbotapi.NewMessage(chatID, "❌ Удаление записи отменено.")
		h.client.Bot.Send(msg)

	// Решения администратора по записям в ожидании
	case strings.HasPrefix(data, "approve_log_"):
		idStr := strings.TrimPrefix(data, "approve_log_")
		if id, err := strconv.ParseUint(idStr, 10, 32); err == nil {
			h.decideWorkLog(chatID, uint(id), true)
		}

	case strings.HasPrefix(data, "reject_log_"):
		idStr := strings.TrimPrefix(data, "reject_log_")
		if id, err := strconv.ParseUint(idStr, 10, 32); err == nil {
			h.decideWorkLog(chatID, uint(id), false)
		}

	// Подтверждение удаления сотрудника
	case strings.HasPrefix(data, "confirm_delete_user_"):
		idStr := strings.TrimPrefix(data, "confirm_delete_user_")
		if id, err := strconv.ParseUint(idStr, 10, 32); err == nil {
			h.deleteUserConfirmed(chatID, uint(id))
		}

	case data == "cancel_delete_user":
		msg := tgbotapi.NewMessage(chatID, "❌ Удаление сотрудника отменено.")
		h.client.Bot.Send(msg)
	}

	// Отвечаем на callback (убираем "часики" у кнопки)
	callbackConfig := tgbotapi.NewCallback(callback.ID, "")
	h.client.Bot.Send(callbackConfig)
}

func (h *Handler) handleMessage(message *tgbotapi.Message) {
	logrus.Infof("[%s] %s", message.From.UserName, message.Text)

	chatID := message.Chat.ID

	// Проверяем, находится ли пользователь в пошаговом диалоге
	if state, exists := h.userStates[chatID]; exists {
		h.handleState(message, state)
		return
	}

	// Обработка команд
	if message.IsCommand() {
		h.handleCommand(message)
		return
	}

	msg := tgbotapi.NewMessage(chatID, "🤖 Я понимаю только команды. Используйте /help для списка команд.")
	h.client.Bot.Send(msg)
}

// handleState направляет сообщение в активный пошаговый диалог
func (h *Handler) handleState(message *tgbotapi.Message, state string) {
	switch {
	case strings.HasPrefix(state, "login_"):
		h.handleLoginState(message, state)
	case strings.HasPrefix(state, "register_"):
		h.handleRegisterState(message, state)
	case state == "awaiting_profile_update":
		h.handleProfileUpdateState(message)
	case strings.HasPrefix(state, "edituser:"):
		h.handleUserUpdateState(message, state)
	case strings.HasPrefix(state, "addlog_"), strings.HasPrefix(state, "editlog_"):
		h.handleWorkLogFormState(message, state)
	default:
		delete(h.userStates, message.Chat.ID)
		delete(h.regForms, message.Chat.ID)
	}
}

// requireSession возвращает сессию, если пользователь вошел.
// Для анонимного чата отправляет приглашение войти и возвращает nil.
// Восстановление сессии выполняется до принятия решения о доступе.
func (h *Handler) requireSession(chatID int64) *service.Session {
	session := h.sessionService.Get(context.Background(), chatID)
	if !session.IsAuthenticated() {
		msg := tgbotapi.NewMessage(chatID, "🔐 Необходимо войти в систему.\nИспользуйте /login чтобы войти или /register чтобы зарегистрироваться.")
		h.client.Bot.Send(msg)
		return nil
	}

	return session
}

// requireAdmin возвращает сессию администратора. Вошедшего сотрудника
// без прав молча возвращаем на главный экран, без сообщения об ошибке.
func (h *Handler) requireAdmin(chatID int64) *service.Session {
	session := h.requireSession(chatID)
	if session == nil {
		return nil
	}

	if !session.IsAdmin() {
		logrus.WithField("chat_id", chatID).Warn("Non-admin access to admin command")
		h.sendDashboard(chatID, session)
		return nil
	}

	return session
}

// sendOperationError сообщает об ошибке операции. Отказ сервера в правах
// не показываем: локальная роль устарела, молча возвращаем на главный
// экран, как и при прямом вызове административной команды.
func (h *Handler) sendOperationError(chatID int64, session *service.Session, err error) {
	if emsapi.IsForbidden(err) {
		logrus.WithField("chat_id", chatID).WithError(err).Warn("Server denied admin operation")
		h.sendDashboard(chatID, session)
		return
	}

	msg := tgbotapi.NewMessage(chatID, "❌ "+err.Error())
	h.client.Bot.Send(msg)
}
