package service

import (
	"context"
	"fmt"
	"strings"

	"ems-bot/internal/models"
	"ems-bot/pkg/emsapi"
)

// UserService - администрирование учетных записей сотрудников.
// Список, правка и удаление доступны только администраторам,
// проверки занятости логина и email - всем.
type UserService struct {
	api *emsapi.Client
}

func NewUserService(api *emsapi.Client) *UserService {
	return &UserService{api: api}
}

// List возвращает всех сотрудников (только администратор)
func (s *UserService) List(ctx context.Context, session *Session) ([]models.User, error) {
	if !session.IsAdmin() {
		return nil, fmt.Errorf("доступ запрещен: список сотрудников доступен только администраторам")
	}

	users, err := s.api.ListUsers(ctx, session.Token)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка сотрудников: %w", err)
	}

	return users, nil
}

// Get возвращает сотрудника по ID (только администратор)
func (s *UserService) Get(ctx context.Context, session *Session, id uint) (*models.User, error) {
	if !session.IsAdmin() {
		return nil, fmt.Errorf("доступ запрещен: карточки сотрудников доступны только администраторам")
	}

	user, err := s.api.GetUser(ctx, session.Token, id)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сотрудника: %w", err)
	}

	return user, nil
}

// Update обновляет данные сотрудника (только администратор)
func (s *UserService) Update(ctx context.Context, session *Session, id uint, input emsapi.ProfileUpdate) (*models.User, error) {
	if !session.IsAdmin() {
		return nil, fmt.Errorf("доступ запрещен: редактировать сотрудников могут только администраторы")
	}

	user, err := s.api.UpdateUser(ctx, session.Token, id, input)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления сотрудника: %w", err)
	}

	return user, nil
}

// Delete удаляет учетную запись сотрудника (только администратор)
func (s *UserService) Delete(ctx context.Context, session *Session, id uint) error {
	if !session.IsAdmin() {
		return fmt.Errorf("доступ запрещен: удалять сотрудников могут только администраторы")
	}

	if err := s.api.DeleteUser(ctx, session.Token, id); err != nil {
		return fmt.Errorf("ошибка удаления сотрудника: %w", err)
	}

	return nil
}

// UsernameTaken проверяет, занят ли логин. Проверка вспомогательная:
// при недоступности сервера считаем логин свободным, окончательное
// слово за регистрацией.
func (s *UserService) UsernameTaken(ctx context.Context, username string) bool {
	exists, err := s.api.CheckUsername(ctx, "", username)
	if err != nil {
		return false
	}

	return exists
}

// EmailTaken проверяет, занят ли email
func (s *UserService) EmailTaken(ctx context.Context, email string) bool {
	exists, err := s.api.CheckEmail(ctx, "", email)
	if err != nil {
		return false
	}

	return exists
}

// FormatUser форматирует карточку сотрудника для вывода
func (s *UserService) FormatUser(user *models.User) string {
	roleEmoji := "👤"
	if user.IsAdmin() {
		roleEmoji = "👑"
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("%s Сотрудник №%d", roleEmoji, user.ID))
	lines = append(lines, fmt.Sprintf("📛 Имя: %s", user.FullName()))
	lines = append(lines, fmt.Sprintf("🔑 Логин: %s", user.Username))
	lines = append(lines, fmt.Sprintf("📧 Email: %s", user.Email))
	if user.Department != "" {
		lines = append(lines, fmt.Sprintf("🏢 Отдел: %s", user.Department))
	}
	if user.Position != "" {
		lines = append(lines, fmt.Sprintf("💼 Должность: %s", user.Position))
	}
	lines = append(lines, fmt.Sprintf("🎭 Роль: %s", user.Role))
	if user.HourlyRate > 0 {
		lines = append(lines, fmt.Sprintf("💵 Ставка: $%.2f/ч", user.HourlyRate))
	}

	return strings.Join(lines, "\n")
}

// FormatUserList форматирует список сотрудников для вывода
func (s *UserService) FormatUserList(users []models.User) string {
	if len(users) == 0 {
		return "📭 Сотрудников пока нет."
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("👥 Сотрудники (%d):", len(users)))
	lines = append(lines, "")

	var admins int
	for _, user := range users {
		roleEmoji := "👤"
		if user.IsAdmin() {
			roleEmoji = "👑"
			admins++
		}

		line := fmt.Sprintf("%s №%d | %s (@%s)", roleEmoji, user.ID, user.FullName(), user.Username)
		if user.Department != "" {
			line += " | " + user.Department
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("👑 Администраторов: %d", admins))
	lines = append(lines, "👤 /user [№] - карточка сотрудника")
	lines = append(lines, "✏️ /edituser [№] - изменить сотрудника")
	lines = append(lines, "🗑 /deluser [№] - удалить сотрудника")

	return strings.Join(lines, "\n")
}
