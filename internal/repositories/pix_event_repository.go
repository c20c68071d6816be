package repositories

import (
	"context"

	"pixwallet/internal/models"
)

// PixEventRepository provides access to the webhook event dedupe log.
type PixEventRepository interface {
	Create(ctx context.Context, event *models.PixEvent) error
	ExistsByEventID(ctx context.Context, eventID string) (bool, error)
}
