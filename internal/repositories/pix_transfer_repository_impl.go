package repositories

import (
	"context"
	"errors"
	"time"

	"pixwallet/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type pixTransferRepository struct {
	db *gorm.DB
}

// NewPixTransferRepository creates a gorm-backed PixTransferRepository.
func NewPixTransferRepository(db *gorm.DB) PixTransferRepository {
	return &pixTransferRepository{db: db}
}

func (r *pixTransferRepository) Create(ctx context.Context, transfer *models.PixTransfer) error {
	err := conn(ctx, r.db).Create(transfer).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

func (r *pixTransferRepository) GetByEndToEndID(ctx context.Context, endToEndID string) (*models.PixTransfer, error) {
	var transfer models.PixTransfer
	err := conn(ctx, r.db).First(&transfer, "end_to_end_id = ?", endToEndID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

func (r *pixTransferRepository) GetByFromWalletAndKey(ctx context.Context, fromWalletID uuid.UUID, idempotencyKey string) (*models.PixTransfer, error) {
	var transfer models.PixTransfer
	err := conn(ctx, r.db).
		First(&transfer, "from_wallet_id = ? AND idempotency_key = ?", fromWalletID, idempotencyKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

func (r *pixTransferRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status string) error {
	res := conn(ctx, r.db).
		Model(&models.PixTransfer{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"status":     status,
			"version":    expectedVersion + 1,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}
