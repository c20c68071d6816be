package repositories

import (
	"context"
	"errors"

	"pixwallet/internal/models"

	"gorm.io/gorm"
)

type pixEventRepository struct {
	db *gorm.DB
}

// NewPixEventRepository creates a gorm-backed PixEventRepository.
func NewPixEventRepository(db *gorm.DB) PixEventRepository {
	return &pixEventRepository{db: db}
}

func (r *pixEventRepository) Create(ctx context.Context, event *models.PixEvent) error {
	err := conn(ctx, r.db).Create(event).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// A racing delivery of the same event_id inserted first.
		return ErrDuplicateKey
	}
	return err
}

func (r *pixEventRepository) ExistsByEventID(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).
		Model(&models.PixEvent{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
