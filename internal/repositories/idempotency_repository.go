package repositories

import (
	"context"

	"pixwallet/internal/models"
)

// IdempotencyRecordRepository provides access to durable response-replay
// records. Records are created once per (scope, key) and never updated.
type IdempotencyRecordRepository interface {
	Create(ctx context.Context, record *models.IdempotencyRecord) error
	GetByScopeAndKey(ctx context.Context, scope, idempotencyKey string) (*models.IdempotencyRecord, error)
}
