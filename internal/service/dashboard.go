package service

import (
	"context"
	"fmt"
	"strings"

	"ems-bot/internal/models"
	"ems-bot/pkg/emsapi"
)

// DashboardService - сводка главного экрана, все значения считает сервер
type DashboardService struct {
	api *emsapi.Client
}

func NewDashboardService(api *emsapi.Client) *DashboardService {
	return &DashboardService{api: api}
}

// GetStats возвращает сводку для владельца сессии
func (s *DashboardService) GetStats(ctx context.Context, session *Session) (*models.DashboardStats, error) {
	if !session.IsAuthenticated() {
		return nil, fmt.Errorf("необходимо войти в систему")
	}

	stats, err := s.api.DashboardStats(ctx, session.Token)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сводки: %w", err)
	}

	return stats, nil
}

// FormatStats форматирует сводку для вывода
func (s *DashboardService) FormatStats(user *models.User, stats *models.DashboardStats) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("👋 С возвращением, %s!", user.FirstName))
	lines = append(lines, "")
	lines = append(lines, "📊 Сводка:")
	lines = append(lines, fmt.Sprintf("⏰ Всего часов: %.1f", stats.TotalHours))
	lines = append(lines, fmt.Sprintf("⏳ Записей в ожидании: %d", stats.PendingLogs))
	lines = append(lines, fmt.Sprintf("✅ Подтвержденных записей: %d", stats.ApprovedLogs))
	lines = append(lines, fmt.Sprintf("💰 Заработано: $%.2f", stats.TotalEarnings))

	return strings.Join(lines, "\n")
}
