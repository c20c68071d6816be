package repositories

import (
	"context"

	"pixwallet/internal/models"

	"github.com/google/uuid"
)

// PixTransferRepository provides access to PIX transfer records.
type PixTransferRepository interface {
	Create(ctx context.Context, transfer *models.PixTransfer) error
	GetByEndToEndID(ctx context.Context, endToEndID string) (*models.PixTransfer, error)
	// GetByFromWalletAndKey looks up the authoritative creation dedupe key.
	GetByFromWalletAndKey(ctx context.Context, fromWalletID uuid.UUID, idempotencyKey string) (*models.PixTransfer, error)
	// UpdateStatus transitions the transfer via compare-and-swap on the
	// version column. Returns ErrVersionConflict when another writer got
	// there first.
	UpdateStatus(ctx context.Context, id uuid.UUID, expectedVersion int64, status string) error
}
