package ledger

import (
	"context"
	"fmt"
	"time"

	"pixwallet/internal/models"
	"pixwallet/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var validOperations = map[string]bool{
	models.OperationDeposit:     true,
	models.OperationWithdraw:    true,
	models.OperationPixDebit:    true,
	models.OperationPixCredit:   true,
	models.OperationPixReversal: true,
}

type service struct {
	entries repositories.LedgerEntryRepository
	log     *zap.Logger
	metrics MetricsCollector
}

// NewService creates the accounting engine.
func NewService(entries repositories.LedgerEntryRepository, log *zap.Logger, metrics MetricsCollector) Service {
	if entries == nil {
		panic("ledger entry repository is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}
	return &service{entries: entries, log: log, metrics: metrics}
}

// Append writes one immutable entry. It joins the ambient unit of work when
// the context carries one, so multi-write operations stay atomic.
func (s *service) Append(ctx context.Context, input AppendInput) (*models.LedgerEntry, error) {
	if !input.Amount.IsPositive() {
		s.metrics.RecordError("append", "invalid_amount")
		return nil, ErrInvalidAmount
	}
	if input.Direction != models.DirectionCredit && input.Direction != models.DirectionDebit {
		s.metrics.RecordError("append", "invalid_direction")
		return nil, ErrInvalidDirection
	}
	if !validOperations[input.OperationType] {
		s.metrics.RecordError("append", "invalid_operation")
		return nil, ErrInvalidOperation
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	entry := &models.LedgerEntry{
		WalletID:      input.WalletID,
		OperationType: input.OperationType,
		Direction:     input.Direction,
		Amount:        input.Amount.Round(2),
		ReferenceID:   input.ReferenceID,
		EndToEndID:    input.EndToEndID,
		OccurredAt:    occurredAt,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		s.metrics.RecordError("append", "storage")
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	s.log.Info("ledger entry appended",
		zap.String("wallet_id", entry.WalletID.String()),
		zap.String("operation_type", entry.OperationType),
		zap.String("direction", entry.Direction),
		zap.String("amount", entry.Amount.StringFixed(2)),
	)
	s.metrics.RecordEntryAppended(entry.OperationType, entry.Amount)
	return entry, nil
}

func (s *service) CurrentBalance(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error) {
	s.metrics.RecordBalanceQuery("current")
	balance, err := s.entries.SumByWallet(ctx, walletID)
	if err != nil {
		s.metrics.RecordError("balance", "storage")
		return decimal.Zero, fmt.Errorf("failed to calculate balance: %w", err)
	}
	return balance, nil
}

func (s *service) BalanceAsOf(ctx context.Context, walletID uuid.UUID, at time.Time) (decimal.Decimal, error) {
	s.metrics.RecordBalanceQuery("historical")
	balance, err := s.entries.SumByWalletAsOf(ctx, walletID, at)
	if err != nil {
		s.metrics.RecordError("balance", "storage")
		return decimal.Zero, fmt.Errorf("failed to calculate historical balance: %w", err)
	}
	return balance, nil
}

func (s *service) Statement(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]models.LedgerEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	entries, err := s.entries.ListByWallet(ctx, walletID, limit, offset)
	if err != nil {
		s.metrics.RecordError("statement", "storage")
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}
