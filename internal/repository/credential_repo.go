package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Credential - сохраненный токен доступа, привязанный к чату.
// Один чат - один токен, как единственный ключ в хранилище браузера.
type Credential struct {
	ID        uint   `gorm:"primarykey"`
	ChatID    int64  `gorm:"uniqueIndex;not null"`
	Token     string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Credential) TableName() string {
	return "credentials"
}

type CredentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) (*CredentialRepository, error) {
	// Автомиграция - создает таблицу если ее нет
	err := db.AutoMigrate(&Credential{})
	if err != nil {
		return nil, err
	}

	return &CredentialRepository{db: db}, nil
}

// Save сохраняет токен чата, заменяя предыдущий
func (r *CredentialRepository) Save(chatID int64, token string) error {
	cred := &Credential{ChatID: chatID, Token: token}

	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "updated_at"}),
	}).Create(cred)

	return result.Error
}

// Get возвращает сохраненный токен чата, пустую строку если токена нет
func (r *CredentialRepository) Get(chatID int64) (string, error) {
	var cred Credential
	result := r.db.Where("chat_id = ?", chatID).First(&cred)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return "", nil
	}

	if result.Error != nil {
		return "", result.Error
	}

	return cred.Token, nil
}

// Delete удаляет сохраненный токен чата.
// Отсутствие токена не считается ошибкой - выход должен быть безусловным.
func (r *CredentialRepository) Delete(chatID int64) error {
	result := r.db.Where("chat_id = ?", chatID).Delete(&Credential{})

	return result.Error
}
