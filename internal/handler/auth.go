package handler

import (
	"context"
	"fmt"
	"strings"

	"ems-bot/pkg/emsapi"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// startLogin начинает диалог входа в систему
func (h *Handler) startLogin(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	session := h.sessionService.Get(context.Background(), chatID)
	if session.IsAuthenticated() {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Вы уже вошли как %s.\nИспользуйте /logout чтобы выйти.", session.User.FullName()))
		h.client.Bot.Send(msg)
		return
	}

	h.userStates[chatID] = "login_username"

	text := `🔐 Вход в систему

Шаг 1 из 2:
✏️ Отправьте ваш логин:`

	msg := tgbotapi.NewMessage(chatID, text)
	h.client.Bot.Send(msg)
}

// handleLoginState обрабатывает шаги диалога входа
func (h *Handler) handleLoginState(message *tgbotapi.Message, state string) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	if state == "login_username" {
		h.userStates[chatID] = "login_password:" + text

		msg := tgbotapi.NewMessage(chatID, `Шаг 2 из 2:
✏️ Теперь отправьте пароль:`)
		h.client.Bot.Send(msg)
		return
	}

	if strings.HasPrefix(state, "login_password:") {
		username := strings.TrimPrefix(state, "login_password:")
		password := text
		delete(h.userStates, chatID)

		// Удаляем сообщение с паролем из чата
		h.client.Bot.Send(tgbotapi.NewDeleteMessage(chatID, message.MessageID))

		session, err := h.sessionService.Login(context.Background(), chatID, username, password)
		if err != nil {
			msg := tgbotapi.NewMessage(chatID, "❌ "+err.Error())
			h.client.Bot.Send(msg)
			return
		}

		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🎉 Вход выполнен!\n\n%s\n\nИспользуйте /dashboard чтобы посмотреть сводку.",
			h.sessionService.FormatUserInfo(session.User)))
		h.client.Bot.Send(msg)
	}
}

// logout безусловно завершает сессию
func (h *Handler) logout(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	h.sessionService.Logout(chatID)

	msg := tgbotapi.NewMessage(chatID, "👋 Вы вышли из системы.\nИспользуйте /login чтобы войти снова.")
	h.client.Bot.Send(msg)
}

// registerForm - поля регистрации, накопленные по шагам диалога.
// Поля хранятся структурой по чату, а не в строке состояния,
// чтобы любые символы во вводе не ломали разбор.
type registerForm struct {
	Username  string
	Email     string
	Password  string
	FirstName string
}

// startRegistration начинает диалог регистрации нового сотрудника
func (h *Handler) startRegistration(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	h.userStates[chatID] = "register_username"
	h.regForms[chatID] = &registerForm{}

	text := `📝 Регистрация сотрудника

Шаг 1 из 5:
✏️ Отправьте логин для нового аккаунта:`

	msg := tgbotapi.NewMessage(chatID, text)
	h.client.Bot.Send(msg)
}

// handleRegisterState обрабатывает шаги диалога регистрации
func (h *Handler) handleRegisterState(message *tgbotapi.Message, state string) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	form := h.regForms[chatID]
	if form == nil {
		delete(h.userStates, chatID)
		msg := tgbotapi.NewMessage(chatID, "❌ Регистрация прервана, начните заново: /register")
		h.client.Bot.Send(msg)
		return
	}

	switch state {
	case "register_username":
		if h.userService.UsernameTaken(context.Background(), text) {
			msg := tgbotapi.NewMessage(chatID, "❌ Логин уже занят.\n✏️ Отправьте другой логин:")
			h.client.Bot.Send(msg)
			return
		}

		form.Username = text
		h.userStates[chatID] = "register_email"
		msg := tgbotapi.NewMessage(chatID, "Шаг 2 из 5:\n✏️ Отправьте email:")
		h.client.Bot.Send(msg)

	case "register_email":
		if h.userService.EmailTaken(context.Background(), text) {
			msg := tgbotapi.NewMessage(chatID, "❌ Email уже занят.\n✏️ Отправьте другой email:")
			h.client.Bot.Send(msg)
			return
		}

		form.Email = text
		h.userStates[chatID] = "register_password"
		msg := tgbotapi.NewMessage(chatID, "Шаг 3 из 5:\n✏️ Отправьте пароль:")
		h.client.Bot.Send(msg)

	case "register_password":
		form.Password = text
		h.userStates[chatID] = "register_first"

		// Удаляем сообщение с паролем из чата
		h.client.Bot.Send(tgbotapi.NewDeleteMessage(chatID, message.MessageID))

		msg := tgbotapi.NewMessage(chatID, "Шаг 4 из 5:\n✏️ Отправьте имя:")
		h.client.Bot.Send(msg)

	case "register_first":
		form.FirstName = text
		h.userStates[chatID] = "register_last"
		msg := tgbotapi.NewMessage(chatID, "Шаг 5 из 5:\n✏️ Отправьте фамилию (если нет фамилии, отправьте \"-\"):")
		h.client.Bot.Send(msg)

	case "register_last":
		delete(h.userStates, chatID)
		delete(h.regForms, chatID)

		lastName := text
		if lastName == "-" {
			lastName = ""
		}

		input := emsapi.RegisterInput{
			Username:  form.Username,
			Email:     form.Email,
			Password:  form.Password,
			FirstName: form.FirstName,
			LastName:  lastName,
		}

		if err := h.sessionService.Register(context.Background(), input); err != nil {
			msg := tgbotapi.NewMessage(chatID, "❌ "+err.Error())
			h.client.Bot.Send(msg)
			return
		}

		logrus.WithField("chat_id", chatID).Info("New employee registered")

		msg := tgbotapi.NewMessage(chatID, "🎉 Регистрация выполнена!\nТеперь войдите командой /login.")
		h.client.Bot.Send(msg)
	}
}

// showProfile показывает профиль вошедшего пользователя
func (h *Handler) showProfile(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	session := h.requireSession(chatID)
	if session == nil {
		return
	}

	msg := tgbotapi.NewMessage(chatID, h.sessionService.FormatUserInfo(session.User))
	h.client.Bot.Send(msg)
}

// startProfileUpdate начинает диалог обновления профиля
func (h *Handler) startProfileUpdate(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	session := h.requireSession(chatID)
	if session == nil {
		return
	}

	text := `✏️ Обновление профиля

Отправьте новые данные в формате:
Имя Фамилия

Например: Иван Иванов
Или просто: Иван (если нужно обновить только имя)`

	msg := tgbotapi.NewMessage(chatID, text)
	h.client.Bot.Send(msg)

	h.userStates[chatID] = "awaiting_profile_update"
}

// handleProfileUpdateState обрабатывает ответ диалога обновления профиля
func (h *Handler) handleProfileUpdateState(message *tgbotapi.Message) {
	chatID := message.Chat.ID
	delete(h.userStates, chatID)

	parts := strings.Fields(message.Text)
	if len(parts) < 1 {
		msg := tgbotapi.NewMessage(chatID, "❌ Неверный формат. Пожалуйста, отправьте имя и фамилию.")
		h.client.Bot.Send(msg)
		return
	}

	input := emsapi.ProfileUpdate{FirstName: parts[0]}
	if len(parts) > 1 {
		input.LastName = parts[1]
	}

	user, err := h.sessionService.UpdateProfile(context.Background(), chatID, input)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ "+err.Error())
		h.client.Bot.Send(msg)
		return
	}

	responseText := fmt.Sprintf(`✅ Профиль успешно обновлен!

%s`, h.sessionService.FormatUserInfo(user))

	msg := tgbotapi.NewMessage(chatID, responseText)
	h.client.Bot.Send(msg)
}
