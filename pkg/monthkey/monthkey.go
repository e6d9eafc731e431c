package monthkey

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthKey - ключ расчетного месяца в формате API (гггг-мм)
type MonthKey struct {
	Year  int
	Month time.Month
}

// Current возвращает ключ текущего месяца
func Current() MonthKey {
	now := time.Now()
	return MonthKey{Year: now.Year(), Month: now.Month()}
}

// Parse разбирает ключ месяца из аргумента команды.
// Принимаются форматы: гггг-мм, мм.гггг, "год месяц" через пробел.
// Пустая строка означает текущий месяц.
func Parse(s string) (MonthKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Current(), nil
	}

	if t, err := time.Parse("2006-01", s); err == nil {
		return MonthKey{Year: t.Year(), Month: t.Month()}, nil
	}

	if t, err := time.Parse("01.2006", s); err == nil {
		return MonthKey{Year: t.Year(), Month: t.Month()}, nil
	}

	// Формат "год месяц", как в командах статистики
	parts := strings.Fields(s)
	if len(parts) == 2 {
		year, errY := strconv.Atoi(parts[0])
		month, errM := strconv.Atoi(parts[1])
		if errY == nil && errM == nil && month >= 1 && month <= 12 {
			return MonthKey{Year: year, Month: time.Month(month)}, nil
		}
	}

	return MonthKey{}, fmt.Errorf("не удалось разобрать месяц: %s", s)
}

// String возвращает ключ в формате API (гггг-мм)
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Display форматирует месяц для вывода пользователю
func (k MonthKey) Display() string {
	return fmt.Sprintf("%02d.%04d", int(k.Month), k.Year)
}
