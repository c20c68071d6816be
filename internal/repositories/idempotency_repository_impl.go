package repositories

import (
	"context"
	"errors"

	"pixwallet/internal/models"

	"gorm.io/gorm"
)

type idempotencyRecordRepository struct {
	db *gorm.DB
}

// NewIdempotencyRecordRepository creates a gorm-backed IdempotencyRecordRepository.
func NewIdempotencyRecordRepository(db *gorm.DB) IdempotencyRecordRepository {
	return &idempotencyRecordRepository{db: db}
}

func (r *idempotencyRecordRepository) Create(ctx context.Context, record *models.IdempotencyRecord) error {
	err := conn(ctx, r.db).Create(record).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

func (r *idempotencyRecordRepository) GetByScopeAndKey(ctx context.Context, scope, idempotencyKey string) (*models.IdempotencyRecord, error) {
	var record models.IdempotencyRecord
	err := conn(ctx, r.db).
		First(&record, "scope = ? AND idempotency_key = ?", scope, idempotencyKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}
