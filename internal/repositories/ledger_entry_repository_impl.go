package repositories

import (
	"context"
	"time"

	"pixwallet/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const signedSumExpr = "COALESCE(SUM(CASE WHEN direction = 'CREDIT' THEN amount ELSE -amount END), 0)"

type ledgerEntryRepository struct {
	db *gorm.DB
}

// NewLedgerEntryRepository creates a gorm-backed LedgerEntryRepository.
func NewLedgerEntryRepository(db *gorm.DB) LedgerEntryRepository {
	return &ledgerEntryRepository{db: db}
}

func (r *ledgerEntryRepository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	return conn(ctx, r.db).Create(entry).Error
}

func (r *ledgerEntryRepository) SumByWallet(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	row := conn(ctx, r.db).
		Model(&models.LedgerEntry{}).
		Select(signedSumExpr).
		Where("wallet_id = ?", walletID).
		Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *ledgerEntryRepository) SumByWalletAsOf(ctx context.Context, walletID uuid.UUID, at time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	row := conn(ctx, r.db).
		Model(&models.LedgerEntry{}).
		Select(signedSumExpr).
		Where("wallet_id = ? AND occurred_at <= ?", walletID, at).
		Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *ledgerEntryRepository) ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := conn(ctx, r.db).
		Where("wallet_id = ?", walletID).
		Order("occurred_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
