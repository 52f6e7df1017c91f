package repositories

import (
	"context"
	"errors"
	"gorm.io/gorm"

	"github.com/Thomas-Grushka/vasya-bot/internal/entities"
)

type Targets struct {
	db *gorm.DB
}

func NewTargetsRepository(db *gorm.DB) *Targets {
	return &Targets{db: db}
}

func (repo *Targets) GetActive(ctx context.Context) ([]entities.Target, error) {

	var targets []entities.Target
	if err := repo.db.WithContext(ctx).Find(&targets, "active = ?", true).Error; err != nil {
		return nil, err
	}
	return targets, nil
}

func (repo *Targets) GetByID(ctx context.Context, id int) (*entities.Target, error) {

	var target entities.Target
	if err := repo.db.WithContext(ctx).First(&target, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &target, nil
}

func (repo *Targets) Add(ctx context.Context, target entities.Target) error {
	return repo.db.WithContext(ctx).Create(&target).Error
}

func (repo *Targets) Update(ctx context.Context, target entities.Target) error {
	return repo.db.WithContext(ctx).Model(&entities.Target{}).Where("id = ?", target.ID).Updates(target).Error
}
