package emsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ems-bot/internal/models"
)

// userPage - страница списка пользователей, как ее отдает сервер
type userPage struct {
	Content []models.User `json:"content"`
}

// availability - ответ проверки занятости логина или email
type availability struct {
	Exists bool `json:"exists"`
}

// ListUsers возвращает всех сотрудников (только администратор)
func (c *Client) ListUsers(ctx context.Context, token string) ([]models.User, error) {
	var page userPage
	if err := c.do(ctx, http.MethodGet, "/api/users", token, nil, &page); err != nil {
		return nil, err
	}

	for i := range page.Content {
		page.Content[i].Role = models.ParseRole(string(page.Content[i].Role))
	}

	return page.Content, nil
}

// GetUser возвращает сотрудника по ID
func (c *Client) GetUser(ctx context.Context, token string, id uint) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", id), token, nil, &user); err != nil {
		return nil, err
	}

	user.Role = models.ParseRole(string(user.Role))
	return &user, nil
}

// UpdateUser обновляет данные сотрудника и возвращает запись с сервера
func (c *Client) UpdateUser(ctx context.Context, token string, id uint, input ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", id), token, input, &user); err != nil {
		return nil, err
	}

	user.Role = models.ParseRole(string(user.Role))
	return &user, nil
}

// DeleteUser удаляет сотрудника (только администратор)
func (c *Client) DeleteUser(ctx context.Context, token string, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), token, nil, nil)
}

// CheckUsername проверяет, занят ли логин
func (c *Client) CheckUsername(ctx context.Context, token, username string) (bool, error) {
	var resp availability
	path := "/api/users/check-username?username=" + url.QueryEscape(username)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return false, err
	}

	return resp.Exists, nil
}

// CheckEmail проверяет, занят ли email
func (c *Client) CheckEmail(ctx context.Context, token, email string) (bool, error) {
	var resp availability
	path := "/api/users/check-email?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return false, err
	}

	return resp.Exists, nil
}
