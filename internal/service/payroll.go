package service

import (
	"context"
	"fmt"
	"strings"

	"ems-bot/internal/models"
	"ems-bot/pkg/emsapi"
	"ems-bot/pkg/monthkey"
)

// PayrollService - просмотр расчетных ведомостей.
// Все суммы считает сервер, клиент складывает только итоговую строку.
type PayrollService struct {
	api *emsapi.Client
}

func NewPayrollService(api *emsapi.Client) *PayrollService {
	return &PayrollService{api: api}
}

// GetPayroll возвращает ведомость за месяц (только администратор)
func (s *PayrollService) GetPayroll(ctx context.Context, session *Session, month monthkey.MonthKey) ([]models.PayrollRecord, error) {
	if !session.IsAdmin() {
		return nil, fmt.Errorf("доступ запрещен: ведомости доступны только администраторам")
	}

	records, err := s.api.Payroll(ctx, session.Token, month.String())
	if err != nil {
		return nil, fmt.Errorf("ошибка получения ведомости: %w", err)
	}

	return records, nil
}

// Generate запускает формирование ведомости за месяц на сервере
func (s *PayrollService) Generate(ctx context.Context, session *Session, month monthkey.MonthKey) error {
	if !session.IsAdmin() {
		return fmt.Errorf("доступ запрещен: ведомости доступны только администраторам")
	}

	if err := s.api.GeneratePayroll(ctx, session.Token, month.String()); err != nil {
		return fmt.Errorf("ошибка формирования ведомости: %w", err)
	}

	return nil
}

// Report скачивает готовый отчет как документ для отправки в чат
func (s *PayrollService) Report(ctx context.Context, session *Session, month monthkey.MonthKey) ([]byte, string, error) {
	if !session.IsAdmin() {
		return nil, "", fmt.Errorf("доступ запрещен: ведомости доступны только администраторам")
	}

	data, err := s.api.PayrollReport(ctx, session.Token, month.String())
	if err != nil {
		return nil, "", fmt.Errorf("ошибка скачивания отчета: %w", err)
	}

	return data, fmt.Sprintf("payroll-%s.pdf", month.String()), nil
}

// FormatPayroll форматирует ведомость с итоговой строкой
func (s *PayrollService) FormatPayroll(month monthkey.MonthKey, records []models.PayrollRecord) string {
	if len(records) == 0 {
		return fmt.Sprintf("📭 Ведомость за %s пуста.\nИспользуйте /genpayroll %s чтобы сформировать ее.", month.Display(), month.String())
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("💰 Ведомость за %s:", month.Display()))
	lines = append(lines, "")

	for i, r := range records {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, r.EmployeeName))
		if r.Department != "" || r.Position != "" {
			lines = append(lines, fmt.Sprintf("   🏢 %s, %s", r.Department, r.Position))
		}
		lines = append(lines, fmt.Sprintf("   ⏰ %.1fч × $%.2f", r.HoursWorked, r.HourlyRate))
		lines = append(lines, fmt.Sprintf("   💵 Начислено: $%.2f | Удержано: $%.2f | К выплате: $%.2f",
			r.GrossPay, r.Deductions, r.NetPay))
	}

	totals := models.SumPayroll(records)
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("📊 Итого: начислено $%.2f | удержано $%.2f | к выплате $%.2f",
		totals.GrossPay, totals.Deductions, totals.NetPay))

	return strings.Join(lines, "\n")
}
