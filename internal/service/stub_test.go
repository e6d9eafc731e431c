package service_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"ems-bot/internal/models"
	"ems-bot/internal/repository"
	"ems-bot/pkg/emsapi"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	employeeToken = "employee-token"
	adminToken    = "admin-token"
)

// apiStub - управляемая заглушка REST API с состоянием записей
// и счетчиками вызовов для проверки локальных предохранителей
type apiStub struct {
	mu     sync.Mutex
	logs   []models.WorkLog
	users  []models.User
	nextID uint

	listCalls   int
	decideCalls int
}

func (s *apiStub) seed(logs ...models.WorkLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, logs...)
}

func (s *apiStub) find(id uint) *models.WorkLog {
	for i := range s.logs {
		if s.logs[i].ID == id {
			return &s.logs[i]
		}
	}
	return nil
}

func userForToken(token string) (models.User, bool) {
	switch token {
	case employeeToken:
		return models.User{ID: 1, Username: "ivan", FirstName: "Иван", Role: models.RoleEmployee}, true
	case adminToken:
		return models.User{ID: 2, Username: "boss", FirstName: "Петр", Role: models.RoleAdmin}, true
	default:
		return models.User{}, false
	}
}

// newStubServer поднимает заглушку API (в стиле тестов gin-авторизации)
func newStubServer(t *testing.T, stub *apiStub) *emsapi.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	bearer := func(c *gin.Context) string {
		const prefix = "Bearer "
		h := c.GetHeader("Authorization")
		if len(h) > len(prefix) {
			return h[len(prefix):]
		}
		return ""
	}

	authorized := func(c *gin.Context) {
		if _, ok := userForToken(bearer(c)); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
		}
	}

	// Роль проверяется по токену, а не по словам клиента
	adminOnly := func(c *gin.Context) {
		user, ok := userForToken(bearer(c))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		}
	}

	r.POST("/api/auth/login", func(c *gin.Context) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		require.NoError(t, c.BindJSON(&body))

		var token string
		switch {
		case body.Username == "ivan" && body.Password == "secret":
			token = employeeToken
		case body.Username == "boss" && body.Password == "secret":
			token = adminToken
		default:
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Bad credentials"})
			return
		}

		user, _ := userForToken(token)
		c.JSON(http.StatusOK, gin.H{
			"token":     token,
			"id":        user.ID,
			"username":  user.Username,
			"firstName": user.FirstName,
			"role":      user.Role,
		})
	})

	r.GET("/api/auth/validate", func(c *gin.Context) {
		user, ok := userForToken(bearer(c))
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}
		c.JSON(http.StatusOK, user)
	})

	r.GET("/api/worklogs", authorized, func(c *gin.Context) {
		stub.mu.Lock()
		defer stub.mu.Unlock()
		stub.listCalls++
		c.JSON(http.StatusOK, stub.logs)
	})

	r.POST("/api/worklogs", authorized, func(c *gin.Context) {
		var input models.WorkLogInput
		require.NoError(t, c.BindJSON(&input))

		stub.mu.Lock()
		defer stub.mu.Unlock()
		stub.nextID++
		log := models.WorkLog{
			ID:          stub.nextID,
			Date:        input.Date,
			HoursWorked: input.HoursWorked,
			Remarks:     input.Remarks,
			Status:      models.StatusPending,
		}
		stub.logs = append(stub.logs, log)
		c.JSON(http.StatusCreated, log)
	})

	r.PUT("/api/worklogs/:id", authorized, func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

		stub.mu.Lock()
		defer stub.mu.Unlock()
		log := stub.find(uint(id))
		if log == nil || !log.IsPending() {
			c.JSON(http.StatusConflict, gin.H{"message": "Work log is not pending"})
			return
		}

		var input models.WorkLogInput
		require.NoError(t, c.BindJSON(&input))
		log.Date = input.Date
		log.HoursWorked = input.HoursWorked
		log.Remarks = input.Remarks
		c.JSON(http.StatusOK, log)
	})

	r.DELETE("/api/worklogs/:id", authorized, func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

		stub.mu.Lock()
		defer stub.mu.Unlock()
		for i := range stub.logs {
			if stub.logs[i].ID == uint(id) && stub.logs[i].IsPending() {
				stub.logs = append(stub.logs[:i], stub.logs[i+1:]...)
				c.JSON(http.StatusOK, gin.H{"message": "deleted"})
				return
			}
		}
		c.JSON(http.StatusConflict, gin.H{"message": "Work log is not pending"})
	})

	decide := func(status string) gin.HandlerFunc {
		return func(c *gin.Context) {
			id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

			stub.mu.Lock()
			defer stub.mu.Unlock()
			stub.decideCalls++
			log := stub.find(uint(id))
			if log == nil || !log.IsPending() {
				c.JSON(http.StatusConflict, gin.H{"message": "Work log is not pending"})
				return
			}
			log.Status = status
			c.JSON(http.StatusOK, log)
		}
	}
	r.PUT("/api/worklogs/:id/approve", adminOnly, decide(models.StatusApproved))
	r.PUT("/api/worklogs/:id/reject", adminOnly, decide(models.StatusRejected))

	if stub.users == nil {
		ivan, _ := userForToken(employeeToken)
		boss, _ := userForToken(adminToken)
		ivan.Email = "ivan@ems.ru"
		stub.users = []models.User{ivan, boss}
	}

	findUser := func(id uint) *models.User {
		for i := range stub.users {
			if stub.users[i].ID == id {
				return &stub.users[i]
			}
		}
		return nil
	}

	r.GET("/api/users", adminOnly, func(c *gin.Context) {
		stub.mu.Lock()
		defer stub.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"content": stub.users, "totalElements": len(stub.users)})
	})

	r.GET("/api/users/:id", adminOnly, func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

		stub.mu.Lock()
		defer stub.mu.Unlock()
		user := findUser(uint(id))
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusOK, user)
	})

	r.PUT("/api/users/:id", adminOnly, func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

		stub.mu.Lock()
		defer stub.mu.Unlock()
		user := findUser(uint(id))
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}

		var input emsapi.ProfileUpdate
		require.NoError(t, c.BindJSON(&input))
		if input.FirstName != "" {
			user.FirstName = input.FirstName
		}
		if input.LastName != "" {
			user.LastName = input.LastName
		}
		if input.Department != "" {
			user.Department = input.Department
		}
		c.JSON(http.StatusOK, user)
	})

	r.DELETE("/api/users/:id", adminOnly, func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

		stub.mu.Lock()
		defer stub.mu.Unlock()
		for i := range stub.users {
			if stub.users[i].ID == uint(id) {
				stub.users = append(stub.users[:i], stub.users[i+1:]...)
				c.Status(http.StatusNoContent)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	})

	r.GET("/api/users/check-username", func(c *gin.Context) {
		stub.mu.Lock()
		defer stub.mu.Unlock()
		for i := range stub.users {
			if stub.users[i].Username == c.Query("username") {
				c.JSON(http.StatusOK, gin.H{"exists": true})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"exists": false})
	})

	r.GET("/api/users/check-email", func(c *gin.Context) {
		stub.mu.Lock()
		defer stub.mu.Unlock()
		for i := range stub.users {
			if stub.users[i].Email == c.Query("email") {
				c.JSON(http.StatusOK, gin.H{"exists": true})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"exists": false})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return emsapi.NewClient(server.URL, 5*time.Second)
}

// newTestDB открывает отдельную базу в памяти на каждый тест
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db
}

func newCredentialRepo(t *testing.T) *repository.CredentialRepository {
	t.Helper()

	repo, err := repository.NewCredentialRepository(newTestDB(t))
	require.NoError(t, err)

	return repo
}
