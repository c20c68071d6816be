package wallet

import (
	"context"
	"time"

	"pixwallet/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service manages wallet identity records and the deposit/withdraw paths.
type Service interface {
	CreateWallet(ctx context.Context, ownerID string) (*models.Wallet, error)
	GetWallet(ctx context.Context, walletID uuid.UUID) (*models.Wallet, error)

	// Deposit appends a credit entry. Credits cannot overdraw, so no
	// wallet lock is taken.
	Deposit(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) (*models.LedgerEntry, error)
	// Withdraw runs inside the wallet's exclusive debit section: balance
	// read, comparison, and debit append happen with no other debit
	// interleaved.
	Withdraw(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) (*models.LedgerEntry, error)

	CurrentBalance(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error)
	BalanceAsOf(ctx context.Context, walletID uuid.UUID, at time.Time) (decimal.Decimal, error)
	Statement(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]models.LedgerEntry, error)
}

// MetricsCollector records wallet operation metrics.
type MetricsCollector interface {
	RecordOperation(operation, result string)
	RecordOperationDuration(operation string, duration time.Duration)
	RecordAmount(operation string, amount decimal.Decimal)
	RecordInsufficientFunds()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOperation(string, string)                {}
func (NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (NoopMetricsCollector) RecordAmount(string, decimal.Decimal)          {}
func (NoopMetricsCollector) RecordInsufficientFunds()                      {}
