package emsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ems-bot/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Client - HTTP-клиент для REST API системы учета сотрудников
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// LoginResponse - ответ сервера на вход: токен и данные пользователя одним объектом
type LoginResponse struct {
	Token string `json:"token"`
	models.User
}

// RegisterInput - данные для регистрации нового сотрудника
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ProfileUpdate - частичное обновление профиля, пустые поля не отправляются
type ProfileUpdate struct {
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
}

// Login обменивает логин и пароль на токен и запись пользователя
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body := map[string]string{"username": username, "password": password}

	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &resp); err != nil {
		return nil, err
	}

	resp.Role = models.ParseRole(string(resp.Role))
	return &resp, nil
}

// Register регистрирует нового сотрудника
func (c *Client) Register(ctx context.Context, input RegisterInput) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register", "", input, nil)
}

// Validate проверяет сохраненный токен и возвращает пользователя
func (c *Client) Validate(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/validate", token, nil, &user); err != nil {
		return nil, err
	}

	user.Role = models.ParseRole(string(user.Role))
	return &user, nil
}

// UpdateProfile обновляет профиль и возвращает запись пользователя с сервера
func (c *Client) UpdateProfile(ctx context.Context, token string, input ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPut, "/api/users/profile", token, input, &user); err != nil {
		return nil, err
	}

	user.Role = models.ParseRole(string(user.Role))
	return &user, nil
}

// DashboardStats возвращает сводку для главного экрана
func (c *Client) DashboardStats(ctx context.Context, token string) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/stats", token, nil, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

// ListWorkLogs возвращает записи учета времени, видимые владельцу токена.
// Фильтрация по роли выполняется на сервере, клиент ничего не отсеивает.
func (c *Client) ListWorkLogs(ctx context.Context, token string) ([]models.WorkLog, error) {
	var logs []models.WorkLog
	if err := c.do(ctx, http.MethodGet, "/api/worklogs", token, nil, &logs); err != nil {
		return nil, err
	}

	return logs, nil
}

// CreateWorkLog создает запись, сервер назначает ID и статус PENDING
func (c *Client) CreateWorkLog(ctx context.Context, token string, input models.WorkLogInput) (*models.WorkLog, error) {
	var log models.WorkLog
	if err := c.do(ctx, http.MethodPost, "/api/worklogs", token, input, &log); err != nil {
		return nil, err
	}

	return &log, nil
}

// UpdateWorkLog заменяет поля записи, пока она в статусе PENDING
func (c *Client) UpdateWorkLog(ctx context.Context, token string, id uint, input models.WorkLogInput) (*models.WorkLog, error) {
	var log models.WorkLog
	path := fmt.Sprintf("/api/worklogs/%d", id)
	if err := c.do(ctx, http.MethodPut, path, token, input, &log); err != nil {
		return nil, err
	}

	return &log, nil
}

// DeleteWorkLog удаляет запись, пока она в статусе PENDING
func (c *Client) DeleteWorkLog(ctx context.Context, token string, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/worklogs/%d", id), token, nil, nil)
}

// ApproveWorkLog подтверждает запись (только администратор)
func (c *Client) ApproveWorkLog(ctx context.Context, token string, id uint) (*models.WorkLog, error) {
	var log models.WorkLog
	path := fmt.Sprintf("/api/worklogs/%d/approve", id)
	if err := c.do(ctx, http.MethodPut, path, token, nil, &log); err != nil {
		return nil, err
	}

	return &log, nil
}

// RejectWorkLog отклоняет запись (только администратор)
func (c *Client) RejectWorkLog(ctx context.Context, token string, id uint) (*models.WorkLog, error) {
	var log models.WorkLog
	path := fmt.Sprintf("/api/worklogs/%d/reject", id)
	if err := c.do(ctx, http.MethodPut, path, token, nil, &log); err != nil {
		return nil, err
	}

	return &log, nil
}

// Payroll возвращает расчетную ведомость за месяц (ключ формата гггг-мм)
func (c *Client) Payroll(ctx context.Context, token, month string) ([]models.PayrollRecord, error) {
	var records []models.PayrollRecord
	if err := c.do(ctx, http.MethodGet, "/api/payroll/"+month, token, nil, &records); err != nil {
		return nil, err
	}

	return records, nil
}

// GeneratePayroll запускает формирование ведомости за месяц на сервере
func (c *Client) GeneratePayroll(ctx context.Context, token, month string) error {
	return c.do(ctx, http.MethodPost, "/api/payroll/generate/"+month, token, nil, nil)
}

// PayrollReport скачивает готовый отчет по ведомости как бинарный документ
func (c *Client) PayrollReport(ctx context.Context, token, month string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/payroll/"+month+"/report", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiErrorFromResponse(resp)
	}

	return io.ReadAll(resp.Body)
}

// do выполняет запрос к API: сериализует тело, подставляет токен
// и разбирает ответ либо в out, либо в ошибку с сообщением сервера
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logrus.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	}).Debug("EMS API request")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiErrorFromResponse(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
