package service_test

import (
	"context"
	"testing"

	"ems-bot/internal/models"
	"ems-bot/internal/service"
	"ems-bot/pkg/emsapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsersRequiresAdmin(t *testing.T) {
	stub := &apiStub{}
	users := service.NewUserService(newStubServer(t, stub))

	_, err := users.List(context.Background(), employeeSession(100))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "доступ запрещен")
}

func TestListUsersAsAdmin(t *testing.T) {
	stub := &apiStub{}
	users := service.NewUserService(newStubServer(t, stub))

	list, err := users.List(context.Background(), adminSession(200))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ivan", list[0].Username)
	assert.True(t, list[1].IsAdmin())
}

func TestListUsersStaleAdminRoleSurfacesForbidden(t *testing.T) {
	stub := &apiStub{}
	users := service.NewUserService(newStubServer(t, stub))

	// Чат считает себя администратором, но токен сотрудника: сервер
	// отвечает отказом в правах, и он различим сквозь обертку ошибки
	stale := &service.Session{
		ChatID: 300,
		State:  service.SessionAuthenticated,
		Token:  employeeToken,
		User:   &models.User{ID: 1, FirstName: "Иван", Role: models.RoleAdmin},
	}

	_, err := users.List(context.Background(), stale)
	require.Error(t, err)
	assert.True(t, emsapi.IsForbidden(err))
}

func TestUpdateUserAsAdmin(t *testing.T) {
	stub := &apiStub{}
	users := service.NewUserService(newStubServer(t, stub))

	updated, err := users.Update(context.Background(), adminSession(200), 1, emsapi.ProfileUpdate{
		FirstName:  "Сергей",
		LastName:   "Сидоров",
		Department: "IT",
	})
	require.NoError(t, err)
	assert.Equal(t, "Сергей", updated.FirstName)
	assert.Equal(t, "IT", updated.Department)
}

func TestDeleteUserAsAdmin(t *testing.T) {
	stub := &apiStub{}
	users := service.NewUserService(newStubServer(t, stub))
	session := adminSession(200)

	require.NoError(t, users.Delete(context.Background(), session, 1))

	list, err := users.List(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "boss", list[0].Username)
}

func TestDeleteUserRequiresAdmin(t *testing.T) {
	stub := &apiStub{}
	users := service.NewUserService(newStubServer(t, stub))

	err := users.Delete(context.Background(), employeeSession(100), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "доступ запрещен")

	list, err := users.List(context.Background(), adminSession(200))
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUsernameAndEmailTaken(t *testing.T) {
	stub := &apiStub{}
	users := service.NewUserService(newStubServer(t, stub))

	assert.True(t, users.UsernameTaken(context.Background(), "ivan"))
	assert.False(t, users.UsernameTaken(context.Background(), "новобранец"))
	assert.True(t, users.EmailTaken(context.Background(), "ivan@ems.ru"))
	assert.False(t, users.EmailTaken(context.Background(), "free@ems.ru"))
}

func TestFormatUserList(t *testing.T) {
	stub := &apiStub{}
	users := service.NewUserService(newStubServer(t, stub))

	list, err := users.List(context.Background(), adminSession(200))
	require.NoError(t, err)

	text := users.FormatUserList(list)
	assert.Contains(t, text, "👥 Сотрудники (2):")
	assert.Contains(t, text, "👑 Администраторов: 1")
	assert.Contains(t, text, "/deluser [№]")

	assert.Contains(t, users.FormatUserList(nil), "📭")
}