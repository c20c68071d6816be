package repositories

import (
	"context"
	"time"

	"pixwallet/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntryRepository provides access to the append-only entry log.
// There are intentionally no update or delete operations.
type LedgerEntryRepository interface {
	Create(ctx context.Context, entry *models.LedgerEntry) error
	// SumByWallet aggregates all entries for the wallet: credits add,
	// debits subtract. Zero when the wallet has no entries.
	SumByWallet(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error)
	// SumByWalletAsOf is the same aggregate restricted to entries with
	// occurred_at <= at. Filtered by event time, not insertion time.
	SumByWalletAsOf(ctx context.Context, walletID uuid.UUID, at time.Time) (decimal.Decimal, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]models.LedgerEntry, error)
}
