package ledger

import (
	"context"
	"time"

	"pixwallet/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppendInput describes one entry to append. The engine performs no
// funds-sufficiency check; debit callers own that inside their lock section.
type AppendInput struct {
	WalletID      uuid.UUID
	OperationType string
	Direction     string
	Amount        decimal.Decimal
	ReferenceID   *string
	EndToEndID    *string
	OccurredAt    time.Time
}

// Service is the accounting engine over the append-only entry log.
type Service interface {
	Append(ctx context.Context, input AppendInput) (*models.LedgerEntry, error)
	CurrentBalance(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error)
	BalanceAsOf(ctx context.Context, walletID uuid.UUID, at time.Time) (decimal.Decimal, error)
	Statement(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]models.LedgerEntry, error)
}

// MetricsCollector records accounting engine metrics.
type MetricsCollector interface {
	RecordEntryAppended(operationType string, amount decimal.Decimal)
	RecordBalanceQuery(kind string)
	RecordError(operation, errType string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEntryAppended(string, decimal.Decimal) {}
func (NoopMetricsCollector) RecordBalanceQuery(string)                  {}
func (NoopMetricsCollector) RecordError(string, string)                 {}
