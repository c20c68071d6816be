package repositories

import (
	"context"

	"pixwallet/internal/models"
)

// PixKeyRepository provides access to the pix key directory.
type PixKeyRepository interface {
	Create(ctx context.Context, key *models.PixKey) error
	GetByKeyValue(ctx context.Context, keyValue string) (*models.PixKey, error)
}
