package repositories

import (
	"context"
	"errors"

	"pixwallet/internal/models"

	"gorm.io/gorm"
)

type pixKeyRepository struct {
	db *gorm.DB
}

// NewPixKeyRepository creates a gorm-backed PixKeyRepository.
func NewPixKeyRepository(db *gorm.DB) PixKeyRepository {
	return &pixKeyRepository{db: db}
}

func (r *pixKeyRepository) Create(ctx context.Context, key *models.PixKey) error {
	err := conn(ctx, r.db).Create(key).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

func (r *pixKeyRepository) GetByKeyValue(ctx context.Context, keyValue string) (*models.PixKey, error) {
	var key models.PixKey
	err := conn(ctx, r.db).First(&key, "key_value = ?", keyValue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPixKeyNotFound
		}
		return nil, err
	}
	return &key, nil
}
