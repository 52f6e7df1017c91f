package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/Thomas-Grushka/vasya-bot/internal/entities"
)

// ConflictError reports an insert that violated the (target, external id)
// uniqueness. The dedup check in the poller normally prevents this from
// ever firing.
type ConflictError struct {
	TargetID   int
	ExternalID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("listing %s is already stored for target %d", e.ExternalID, e.TargetID)
}

type Listings struct {
	db *gorm.DB
}

func NewListingsRepository(db *gorm.DB) *Listings {
	return &Listings{db: db}
}

// KnownExternalIDs returns the identifiers of every listing already
// stored for the target, as a set.
func (repo *Listings) KnownExternalIDs(ctx context.Context, targetID int) (map[string]struct{}, error) {

	var ids []string
	if err := repo.db.WithContext(ctx).
		Model(&entities.Listing{}).
		Where("target_id = ?", targetID).
		Pluck("external_id", &ids).Error; err != nil {
		return nil, err
	}

	return lo.SliceToMap(ids, func(id string) (string, struct{}) {
		return id, struct{}{}
	}), nil
}

func (repo *Listings) Add(ctx context.Context, listing *entities.Listing) error {

	err := repo.db.WithContext(ctx).Create(listing).Error
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return &ConflictError{TargetID: listing.TargetID, ExternalID: listing.ExternalID}
	}

	return err
}
