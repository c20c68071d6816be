package repositories

import (
	"context"

	"pixwallet/internal/models"

	"github.com/google/uuid"
)

// WalletRepository provides access to wallet identity records.
type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
	// GetByIDForUpdate takes the storage-level row lock on the wallet. Only
	// meaningful inside a UnitOfWork; the lock is released on commit or
	// rollback.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Wallet, error)
}
