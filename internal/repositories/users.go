package repositories

import (
	"context"
	"errors"
	"gorm.io/gorm"

	"github.com/Thomas-Grushka/vasya-bot/internal/entities"
)

type Users struct {
	db *gorm.DB
}

func NewUsersRepository(db *gorm.DB) *Users {
	return &Users{db: db}
}

func (repo *Users) FindByTelegramID(ctx context.Context, telegramID int64) (*entities.User, error) {

	var user entities.User
	if err := repo.db.WithContext(ctx).First(&user, "telegram_id = ?", telegramID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (repo *Users) Add(ctx context.Context, user entities.User) error {
	return repo.db.WithContext(ctx).Create(&user).Error
}
