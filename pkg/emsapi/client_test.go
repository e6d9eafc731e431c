package emsapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ems-bot/internal/models"
	"ems-bot/pkg/emsapi"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

// newStubAPI поднимает заглушку REST API в стиле настоящего сервера
func newStubAPI(t *testing.T) (*httptest.Server, *emsapi.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	authorized := func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer "+testToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		}
	}

	r.POST("/api/auth/login", func(c *gin.Context) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		require.NoError(t, c.BindJSON(&body))

		if body.Username != "ivan" || body.Password != "secret" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Bad credentials"})
			return
		}

		// Роль намеренно в нижнем регистре: сервер не обязан отдавать
		// канонический регистр, клиент приводит его сам
		c.JSON(http.StatusOK, gin.H{
			"token":     testToken,
			"id":        1,
			"username":  "ivan",
			"firstName": "Иван",
			"lastName":  "Иванов",
			"role":      "employee",
		})
	})

	r.GET("/api/auth/validate", authorized, func(c *gin.Context) {
		// Наличие коррелирующего заголовка проверяется на каждом запросе
		assert.NotEmpty(t, c.GetHeader("X-Request-ID"))
		c.JSON(http.StatusOK, gin.H{"id": 1, "username": "ivan", "firstName": "Иван", "role": "EMPLOYEE"})
	})

	r.POST("/api/worklogs", authorized, func(c *gin.Context) {
		var input models.WorkLogInput
		require.NoError(t, c.BindJSON(&input))
		c.JSON(http.StatusCreated, models.WorkLog{
			ID:          7,
			Date:        input.Date,
			HoursWorked: input.HoursWorked,
			Remarks:     input.Remarks,
			Status:      models.StatusPending,
		})
	})

	r.PUT("/api/worklogs/:id/approve", authorized, func(c *gin.Context) {
		if c.Param("id") == "8" {
			// Запись уже решена - конфликт состояния
			c.JSON(http.StatusConflict, gin.H{"message": "Work log is not pending"})
			return
		}
		c.JSON(http.StatusOK, models.WorkLog{ID: 7, Status: models.StatusApproved})
	})

	r.GET("/api/payroll/:month/report", authorized, func(c *gin.Context) {
		c.Data(http.StatusOK, "application/pdf", []byte("%PDF-stub"))
	})

	r.GET("/api/users", authorized, func(c *gin.Context) {
		// Сервер отдает страницу, записи лежат в поле content
		c.JSON(http.StatusOK, gin.H{
			"content": []gin.H{
				{"id": 1, "username": "ivan", "firstName": "Иван", "role": "employee"},
				{"id": 2, "username": "boss", "firstName": "Петр", "role": "ADMIN"},
			},
			"totalElements": 2,
		})
	})

	r.GET("/api/users/:id", authorized, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": 1, "username": "ivan", "firstName": "Иван", "role": "employee"})
	})

	r.DELETE("/api/users/:id", authorized, func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	r.GET("/api/users/check-username", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"exists": c.Query("username") == "ivan"})
	})

	r.GET("/api/users/check-email", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"exists": c.Query("email") == "ivan@ems.ru"})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return server, emsapi.NewClient(server.URL, 5*time.Second)
}

func TestLogin(t *testing.T) {
	_, client := newStubAPI(t)

	resp, err := client.Login(context.Background(), "ivan", "secret")
	require.NoError(t, err)
	assert.Equal(t, testToken, resp.Token)
	assert.Equal(t, "Иван", resp.FirstName)
	assert.Equal(t, models.RoleEmployee, resp.Role)
}

func TestLoginBadCredentials(t *testing.T) {
	_, client := newStubAPI(t)

	_, err := client.Login(context.Background(), "ivan", "wrong")
	require.Error(t, err)
	assert.True(t, emsapi.IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Bad credentials")
}

func TestValidate(t *testing.T) {
	_, client := newStubAPI(t)

	user, err := client.Validate(context.Background(), testToken)
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)

	_, err = client.Validate(context.Background(), "stale-token")
	assert.True(t, emsapi.IsUnauthorized(err))
}

func TestCreateWorkLog(t *testing.T) {
	_, client := newStubAPI(t)

	log, err := client.CreateWorkLog(context.Background(), testToken, models.WorkLogInput{
		Date:        "2024-01-05",
		HoursWorked: 8,
		Remarks:     "on-site",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, log.Status)
	assert.Equal(t, uint(7), log.ID)
}

func TestApproveConflictSurfacesServerMessage(t *testing.T) {
	_, client := newStubAPI(t)

	log, err := client.ApproveWorkLog(context.Background(), testToken, 7)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, log.Status)

	_, err = client.ApproveWorkLog(context.Background(), testToken, 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Work log is not pending")
}

func TestLoginNormalizesRoleCase(t *testing.T) {
	_, client := newStubAPI(t)

	resp, err := client.Login(context.Background(), "ivan", "secret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, resp.Role)
	assert.False(t, resp.IsAdmin())
}

func TestListUsersUnwrapsPage(t *testing.T) {
	_, client := newStubAPI(t)

	users, err := client.ListUsers(context.Background(), testToken)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, models.RoleEmployee, users[0].Role)
	assert.Equal(t, models.RoleAdmin, users[1].Role)
	assert.True(t, users[1].IsAdmin())
}

func TestGetAndDeleteUser(t *testing.T) {
	_, client := newStubAPI(t)

	user, err := client.GetUser(context.Background(), testToken, 1)
	require.NoError(t, err)
	assert.Equal(t, "ivan", user.Username)
	assert.Equal(t, models.RoleEmployee, user.Role)

	assert.NoError(t, client.DeleteUser(context.Background(), testToken, 1))
}

func TestCheckAvailability(t *testing.T) {
	_, client := newStubAPI(t)

	exists, err := client.CheckUsername(context.Background(), "", "ivan")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.CheckUsername(context.Background(), "", "свободный логин")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = client.CheckEmail(context.Background(), "", "ivan@ems.ru")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPayrollReport(t *testing.T) {
	_, client := newStubAPI(t)

	data, err := client.PayrollReport(context.Background(), testToken, "2024-01")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-stub"), data)
}
