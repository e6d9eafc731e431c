package models

import "strings"

type Role string

const (
    RoleEmployee Role = "EMPLOYEE"
    RoleAdmin    Role = "ADMIN"
)

// User - запись пользователя, которую возвращает API
type User struct {
    ID         uint    `json:"id"`
    Username   string  `json:"username"`
    Email      string  `json:"email"`
    FirstName  string  `json:"firstName"`
    LastName   string  `json:"lastName"`
    Department string  `json:"department"`
    Position   string  `json:"position"`
    Role       Role    `json:"role"`
    HourlyRate float64 `json:"hourlyRate"`
}

// IsAdmin проверяет, является ли пользователь администратором
func (u *User) IsAdmin() bool {
    return u.Role == RoleAdmin
}

// FullName возвращает полное имя пользователя
func (u *User) FullName() string {
    return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ParseRole приводит строку роли к закрытому перечислению.
// Неизвестные значения считаются сотрудником.
func ParseRole(s string) Role {
    switch Role(strings.ToUpper(strings.TrimSpace(s))) {
    case RoleAdmin:
        return RoleAdmin
    default:
        return RoleEmployee
    }
}
