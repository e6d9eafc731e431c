package models

import (
	"fmt"
	"time"
)

// WorkLog - запись об отработанном дне из API
type WorkLog struct {
    ID          uint    `json:"id"`
    Date        string  `json:"date"` // формат yyyy-mm-dd, как отдает API
    HoursWorked float64 `json:"hoursWorked"`
    Remarks     string  `json:"remarks"`
    Status      string  `json:"status"`
}

// Статусы записей учета времени
const (
    StatusPending  = "PENDING"  // Ожидает решения администратора
    StatusApproved = "APPROVED" // Подтверждена
    StatusRejected = "REJECTED" // Отклонена
)

// WorkLogInput - поля, которые отправляются при создании/обновлении записи
type WorkLogInput struct {
    Date        string  `json:"date"`
    HoursWorked float64 `json:"hoursWorked"`
    Remarks     string  `json:"remarks"`
}

// Validate проверяет валидность данных перед отправкой на сервер
func (in *WorkLogInput) Validate() error {
    if _, err := time.Parse("2006-01-02", in.Date); err != nil {
        return fmt.Errorf("неверный формат даты, ожидается гггг-мм-дд: %s", in.Date)
    }
    if in.HoursWorked < 0 || in.HoursWorked > 24 {
        return fmt.Errorf("количество часов должно быть от 0 до 24, получено: %g", in.HoursWorked)
    }
    return nil
}

// IsPending проверяет, ожидает ли запись решения
func (wl *WorkLog) IsPending() bool {
    return wl.Status == StatusPending
}

// IsTerminal проверяет, находится ли запись в конечном статусе.
// APPROVED и REJECTED не меняются, редактировать и удалять их нельзя.
func (wl *WorkLog) IsTerminal() bool {
    return wl.Status == StatusApproved || wl.Status == StatusRejected
}

// CanEdit проверяет, можно ли редактировать или удалять запись
func (wl *WorkLog) CanEdit() bool {
    return wl.IsPending()
}

// CanDecide проверяет, можно ли подтвердить или отклонить запись
func (wl *WorkLog) CanDecide() bool {
    return wl.IsPending()
}

// StatusEmoji возвращает эмодзи для статуса записи
func (wl *WorkLog) StatusEmoji() string {
    switch wl.Status {
    case StatusApproved:
        return "✅"
    case StatusRejected:
        return "❌"
    default:
        return "⏳"
    }
}

// FormatDate форматирует дату записи для отображения
func (wl *WorkLog) FormatDate() string {
    d, err := time.Parse("2006-01-02", wl.Date)
    if err != nil {
        return wl.Date
    }
    return d.Format("02.01.2006")
}
