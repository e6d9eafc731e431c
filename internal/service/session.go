package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"ems-bot/internal/models"
	"ems-bot/internal/repository"
	"ems-bot/pkg/emsapi"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// Состояния сессии чата
type SessionState string

const (
	SessionLoading       SessionState = "loading"       // Идет восстановление сессии
	SessionAuthenticated SessionState = "authenticated" // Пользователь вошел
	SessionAnonymous     SessionState = "anonymous"     // Пользователь не вошел
)

// Session - сессия одного чата: токен и текущий пользователь.
// Пользователь заполнен тогда и только тогда, когда токен принят сервером.
type Session struct {
	ChatID int64
	State  SessionState
	Token  string
	User   *models.User
}

// IsAuthenticated проверяет, вошел ли пользователь
func (s *Session) IsAuthenticated() bool {
	return s.State == SessionAuthenticated && s.User != nil
}

// IsAdmin проверяет, вошел ли пользователь с ролью администратора
func (s *Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.User.IsAdmin()
}

type SessionService struct {
	api   *emsapi.Client
	creds *repository.CredentialRepository

	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewSessionService(api *emsapi.Client, creds *repository.CredentialRepository) *SessionService {
	return &SessionService{
		api:      api,
		creds:    creds,
		sessions: make(map[int64]*Session),
	}
}

// Get возвращает сессию чата, при первом обращении восстанавливая ее
// из сохраненного токена. Пока восстановление не завершено, решений
// о доступе не принимается.
func (s *SessionService) Get(ctx context.Context, chatID int64) *Session {
	s.mu.RLock()
	session, exists := s.sessions[chatID]
	s.mu.RUnlock()

	if exists {
		return session
	}

	return s.Restore(ctx, chatID)
}

// Restore восстанавливает сессию из сохраненного токена.
// Любая неудача (истекший или отклоненный токен, ошибка сети) приводит
// к анонимной сессии и удалению токена - ошибки наружу не отдаются.
func (s *SessionService) Restore(ctx context.Context, chatID int64) *Session {
	session := &Session{ChatID: chatID, State: SessionLoading}

	token, err := s.creds.Get(chatID)
	if err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to read stored credential")
		session.State = SessionAnonymous
		s.put(session)
		return session
	}

	if token == "" {
		session.State = SessionAnonymous
		s.put(session)
		return session
	}

	// Локальная проверка срока действия, чтобы не ходить в сеть с
	// заведомо просроченным токеном
	if tokenExpired(token) {
		logrus.WithField("chat_id", chatID).Info("Stored token expired, dropping credential")
		s.dropCredential(chatID)
		session.State = SessionAnonymous
		s.put(session)
		return session
	}

	user, err := s.api.Validate(ctx, token)
	if err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Warn("Stored token validation failed")
		s.dropCredential(chatID)
		session.State = SessionAnonymous
		s.put(session)
		return session
	}

	session.State = SessionAuthenticated
	session.Token = token
	session.User = user
	s.put(session)

	logrus.WithFields(logrus.Fields{
		"chat_id": chatID,
		"user_id": user.ID,
	}).Info("Session restored from stored credential")

	return session
}

// Login выполняет вход и сохраняет токен для будущих перезапусков.
// При неудаче сессия остается анонимной, возвращается сообщение сервера.
func (s *SessionService) Login(ctx context.Context, chatID int64, username, password string) (*Session, error) {
	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		if emsapi.IsUnauthorized(err) {
			return nil, fmt.Errorf("неверный логин или пароль")
		}
		return nil, fmt.Errorf("ошибка входа: %w", err)
	}

	user := resp.User
	session := &Session{
		ChatID: chatID,
		State:  SessionAuthenticated,
		Token:  resp.Token,
		User:   &user,
	}
	s.put(session)

	if err := s.creds.Save(chatID, resp.Token); err != nil {
		// Сессия действует до перезапуска, теряется только автологин
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to persist credential")
	}

	logrus.WithFields(logrus.Fields{
		"chat_id": chatID,
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("User logged in")

	return session, nil
}

// Logout безусловно завершает сессию и удаляет сохраненный токен
func (s *SessionService) Logout(chatID int64) {
	s.dropCredential(chatID)

	s.put(&Session{ChatID: chatID, State: SessionAnonymous})

	logrus.WithField("chat_id", chatID).Info("User logged out")
}

// UpdateProfile отправляет изменения профиля и заменяет запись
// пользователя в сессии на возвращенную сервером
func (s *SessionService) UpdateProfile(ctx context.Context, chatID int64, input emsapi.ProfileUpdate) (*models.User, error) {
	session := s.Get(ctx, chatID)
	if !session.IsAuthenticated() {
		return nil, fmt.Errorf("необходимо войти в систему")
	}

	user, err := s.api.UpdateProfile(ctx, session.Token, input)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления профиля: %w", err)
	}

	s.mu.Lock()
	session.User = user
	s.mu.Unlock()

	return user, nil
}

// Register регистрирует нового сотрудника через API
func (s *SessionService) Register(ctx context.Context, input emsapi.RegisterInput) error {
	if err := s.api.Register(ctx, input); err != nil {
		return fmt.Errorf("ошибка регистрации: %w", err)
	}

	return nil
}

// FormatUserInfo форматирует профиль пользователя для вывода
func (s *SessionService) FormatUserInfo(user *models.User) string {
	var lines []string

	lines = append(lines, "👤 Профиль сотрудника:")
	lines = append(lines, "")

	if user.Username != "" {
		lines = append(lines, fmt.Sprintf("📛 Логин: %s", user.Username))
	}

	lines = append(lines, fmt.Sprintf("👨‍💼 Имя: %s", user.FirstName))

	if user.LastName != "" {
		lines = append(lines, fmt.Sprintf("👨‍💼 Фамилия: %s", user.LastName))
	}

	if user.Email != "" {
		lines = append(lines, fmt.Sprintf("📧 Email: %s", user.Email))
	}

	if user.Department != "" {
		lines = append(lines, fmt.Sprintf("🏢 Отдел: %s", user.Department))
	}

	if user.Position != "" {
		lines = append(lines, fmt.Sprintf("💼 Должность: %s", user.Position))
	}

	roleEmoji := "👤"
	roleName := "Сотрудник"
	if user.IsAdmin() {
		roleEmoji = "👑"
		roleName = "Администратор"
	}
	lines = append(lines, fmt.Sprintf("%s Роль: %s", roleEmoji, roleName))

	return strings.Join(lines, "\n")
}

func (s *SessionService) put(session *Session) {
	s.mu.Lock()
	s.sessions[session.ChatID] = session
	s.mu.Unlock()
}

func (s *SessionService) dropCredential(chatID int64) {
	if err := s.creds.Delete(chatID); err != nil {
		logrus.WithError(err).WithField("chat_id", chatID).Error("Failed to delete stored credential")
	}
}

// tokenExpired проверяет срок действия токена без проверки подписи.
// Непрозрачные токены, не являющиеся JWT, отдаются на проверку серверу.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(time.Now())
}
