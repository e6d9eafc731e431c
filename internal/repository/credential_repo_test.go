package repository_test

import (
	"fmt"
	"testing"

	"ems-bot/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newRepo(t *testing.T) *repository.CredentialRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	repo, err := repository.NewCredentialRepository(db)
	require.NoError(t, err)

	return repo
}

func TestSaveAndGet(t *testing.T) {
	repo := newRepo(t)

	require.NoError(t, repo.Save(100, "token-a"))

	token, err := repo.Get(100)
	require.NoError(t, err)
	assert.Equal(t, "token-a", token)
}

func TestSaveReplacesToken(t *testing.T) {
	repo := newRepo(t)

	require.NoError(t, repo.Save(100, "token-a"))
	require.NoError(t, repo.Save(100, "token-b"))

	token, err := repo.Get(100)
	require.NoError(t, err)
	assert.Equal(t, "token-b", token)
}

func TestGetMissing(t *testing.T) {
	repo := newRepo(t)

	token, err := repo.Get(100)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestDelete(t *testing.T) {
	repo := newRepo(t)

	require.NoError(t, repo.Save(100, "token-a"))
	require.NoError(t, repo.Delete(100))

	token, err := repo.Get(100)
	require.NoError(t, err)
	assert.Empty(t, token)

	// Повторное удаление не считается ошибкой
	require.NoError(t, repo.Delete(100))
}

func TestTokensAreScopedByChat(t *testing.T) {
	repo := newRepo(t)

	require.NoError(t, repo.Save(100, "token-a"))
	require.NoError(t, repo.Save(200, "token-b"))
	require.NoError(t, repo.Delete(100))

	token, err := repo.Get(200)
	require.NoError(t, err)
	assert.Equal(t, "token-b", token)
}
