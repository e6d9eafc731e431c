package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ems-bot/internal/models"
	"ems-bot/pkg/emsapi"

	"github.com/sirupsen/logrus"
)

// WorkLogService - клиентский кэш записей учета времени.
// Кэш всегда заменяется целиком по ответу сервера: после каждой
// мутации список перечитывается, частичных локальных правок нет.
type WorkLogService struct {
	api *emsapi.Client

	mu    sync.RWMutex
	cache map[int64][]models.WorkLog
}

func NewWorkLogService(api *emsapi.Client) *WorkLogService {
	return &WorkLogService{
		api:   api,
		cache: make(map[int64][]models.WorkLog),
	}
}

// List загружает записи, видимые владельцу сессии, и заменяет кэш.
// Сотрудник видит свои записи, администратор - по правилам сервера.
func (s *WorkLogService) List(ctx context.Context, session *Session) ([]models.WorkLog, error) {
	if !session.IsAuthenticated() {
		return nil, fmt.Errorf("необходимо войти в систему")
	}

	logs, err := s.api.ListWorkLogs(ctx, session.Token)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения записей: %w", err)
	}

	s.mu.Lock()
	s.cache[session.ChatID] = logs
	s.mu.Unlock()

	return logs, nil
}

// Cached возвращает записи из кэша без похода в сеть
func (s *WorkLogService) Cached(chatID int64) []models.WorkLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[chatID]
}

// Find ищет запись в кэше по ID
func (s *WorkLogService) Find(chatID int64, id uint) *models.WorkLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.cache[chatID] {
		if s.cache[chatID][i].ID == id {
			log := s.cache[chatID][i]
			return &log
		}
	}

	return nil
}

// Create отправляет новую запись, сервер назначает ID и статус PENDING
func (s *WorkLogService) Create(ctx context.Context, session *Session, input models.WorkLogInput) (*models.WorkLog, error) {
	if !session.IsAuthenticated() {
		return nil, fmt.Errorf("необходимо войти в систему")
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	created, err := s.api.CreateWorkLog(ctx, session.Token, input)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания записи: %w", err)
	}

	s.refresh(ctx, session)

	return created, nil
}

// Update заменяет поля записи. Редактировать можно только записи
// в статусе PENDING - по решенным записям сервер вернет ошибку,
// а кэш будет перечитан, чтобы показать фактическое состояние.
func (s *WorkLogService) Update(ctx context.Context, session *Session, id uint, input models.WorkLogInput) (*models.WorkLog, error) {
	if !session.IsAuthenticated() {
		return nil, fmt.Errorf("необходимо войти в систему")
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	if cached := s.Find(session.ChatID, id); cached != nil && !cached.CanEdit() {
		return nil, fmt.Errorf("запись №%d уже решена (%s), редактировать ее нельзя", id, cached.Status)
	}

	updated, err := s.api.UpdateWorkLog(ctx, session.Token, id, input)
	if err != nil {
		// Вероятная гонка с решением администратора - показываем
		// актуальное состояние вместо устаревшего кэша
		s.refresh(ctx, session)
		return nil, fmt.Errorf("ошибка обновления записи: %w", err)
	}

	s.refresh(ctx, session)

	return updated, nil
}

// Delete удаляет запись в статусе PENDING
func (s *WorkLogService) Delete(ctx context.Context, session *Session, id uint) error {
	if !session.IsAuthenticated() {
		return fmt.Errorf("необходимо войти в систему")
	}

	if cached := s.Find(session.ChatID, id); cached != nil && !cached.CanEdit() {
		return fmt.Errorf("запись №%d уже решена (%s), удалить ее нельзя", id, cached.Status)
	}

	if err := s.api.DeleteWorkLog(ctx, session.Token, id); err != nil {
		s.refresh(ctx, session)
		return fmt.Errorf("ошибка удаления записи: %w", err)
	}

	s.refresh(ctx, session)

	return nil
}

// Approve подтверждает запись (только администратор).
// Подтверждать можно только записи в статусе PENDING.
func (s *WorkLogService) Approve(ctx context.Context, session *Session, id uint) (*models.WorkLog, error) {
	return s.decide(ctx, session, id, "approve")
}

// Reject отклоняет запись (только администратор)
func (s *WorkLogService) Reject(ctx context.Context, session *Session, id uint) (*models.WorkLog, error) {
	return s.decide(ctx, session, id, "reject")
}

func (s *WorkLogService) decide(ctx context.Context, session *Session, id uint, action string) (*models.WorkLog, error) {
	if !session.IsAdmin() {
		return nil, fmt.Errorf("доступ запрещен: решения по записям принимают только администраторы")
	}

	if cached := s.Find(session.ChatID, id); cached != nil && !cached.CanDecide() {
		return nil, fmt.Errorf("запись №%d уже решена (%s)", id, cached.Status)
	}

	var decided *models.WorkLog
	var err error
	if action == "approve" {
		decided, err = s.api.ApproveWorkLog(ctx, session.Token, id)
	} else {
		decided, err = s.api.RejectWorkLog(ctx, session.Token, id)
	}

	if err != nil {
		s.refresh(ctx, session)
		return nil, fmt.Errorf("ошибка решения по записи: %w", err)
	}

	s.refresh(ctx, session)

	return decided, nil
}

// refresh перечитывает список после мутации. Неудача перечитывания
// не отменяет результат самой операции, поэтому только логируется.
func (s *WorkLogService) refresh(ctx context.Context, session *Session) {
	if _, err := s.List(ctx, session); err != nil {
		logrus.WithError(err).WithField("chat_id", session.ChatID).Warn("Failed to refresh work log cache")
	}
}

// FormatWorkLog форматирует одну запись для вывода
func (s *WorkLogService) FormatWorkLog(log *models.WorkLog) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("%s Запись №%d", log.StatusEmoji(), log.ID))
	lines = append(lines, fmt.Sprintf("📅 Дата: %s", log.FormatDate()))
	lines = append(lines, fmt.Sprintf("⏳ Часов: %g", log.HoursWorked))
	if log.Remarks != "" {
		lines = append(lines, fmt.Sprintf("📝 Примечание: %s", log.Remarks))
	}
	lines = append(lines, fmt.Sprintf("📊 Статус: %s", log.Status))

	return strings.Join(lines, "\n")
}

// FormatWorkLogList форматирует список записей для вывода.
// Действия предлагаются только по записям в статусе PENDING.
func (s *WorkLogService) FormatWorkLogList(logs []models.WorkLog, isAdmin bool) string {
	if len(logs) == 0 {
		return "📭 Записей учета времени пока нет.\nИспользуйте /addlog чтобы добавить запись."
	}

	var lines []string
	lines = append(lines, "📋 Записи учета времени:")
	lines = append(lines, "")

	var pending int
	for _, log := range logs {
		line := fmt.Sprintf("%s №%d | %s | %gч | %s", log.StatusEmoji(), log.ID, log.FormatDate(), log.HoursWorked, log.Status)
		if log.Remarks != "" {
			line += " | " + log.Remarks
		}
		lines = append(lines, line)

		if log.IsPending() {
			pending++
		}
	}

	lines = append(lines, "")
	if pending > 0 {
		lines = append(lines, fmt.Sprintf("⏳ Ожидают решения: %d", pending))
		lines = append(lines, "✏️ /editlog [№] - изменить запись (пока она ⏳)")
		lines = append(lines, "🗑 /dellog [№] - удалить запись (пока она ⏳)")
		if isAdmin {
			lines = append(lines, "✅ /approve [№] - подтвердить запись")
			lines = append(lines, "❌ /reject [№] - отклонить запись")
		}
	}

	return strings.Join(lines, "\n")
}
