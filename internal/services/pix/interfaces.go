// Package pix implements the transfer lifecycle: debit the source wallet at
// creation, then credit the destination or reverse the debit when the
// settlement network reports the outcome. All money movement goes through
// the ledger; transfer rows only track lifecycle state.
package pix

import (
	"context"
	"time"

	"pixwallet/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTransferInput describes a transfer creation request. ToPixKey is
// resolved through the directory before any lock is taken.
type CreateTransferInput struct {
	FromWalletID   uuid.UUID
	ToPixKey       string
	Amount         decimal.Decimal
	IdempotencyKey string
}

// WebhookInput describes one inbound settlement event delivery.
type WebhookInput struct {
	EndToEndID string
	EventID    string
	EventType  string
	OccurredAt time.Time
}

// WebhookOutcome classifies what a webhook delivery did. Only Applied
// mutated the ledger; the rest are accepted no-ops.
type WebhookOutcome string

const (
	OutcomeApplied          WebhookOutcome = "applied"
	OutcomeDuplicate        WebhookOutcome = "duplicate"
	OutcomeAlreadyFinalized WebhookOutcome = "already_finalized"
	OutcomeUnsupported      WebhookOutcome = "unsupported"
)

// Service drives a transfer from creation through settlement.
type Service interface {
	// CreateTransfer debits the source wallet immediately and records a
	// PENDING transfer. Repeating the call with the same
	// (fromWalletID, idempotencyKey) returns the existing transfer with
	// no new debit.
	CreateTransfer(ctx context.Context, input CreateTransferInput) (*models.PixTransfer, error)
	// HandleWebhook applies one settlement event: credit on CONFIRMED,
	// reversal on REJECTED. Redelivery of a seen eventId, events against
	// finalized transfers, and unknown event types complete successfully
	// without mutating the ledger.
	HandleWebhook(ctx context.Context, input WebhookInput) (WebhookOutcome, error)
}

// KeyDirectory resolves a pix key to its wallet.
type KeyDirectory interface {
	Resolve(ctx context.Context, keyValue string) (uuid.UUID, error)
}

// MetricsCollector records transfer lifecycle metrics.
type MetricsCollector interface {
	RecordTransferRequested()
	RecordTransferCreated()
	RecordIdempotencyHit()
	RecordIdempotencyMiss()
	RecordInsufficientFunds()
	RecordWebhookReceived(eventType string)
	RecordWebhookOutcome(eventType string, outcome WebhookOutcome)
	RecordSettledAmount(status string, amount decimal.Decimal)
	RecordDuration(operation string, d time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTransferRequested()                        {}
func (NoopMetricsCollector) RecordTransferCreated()                          {}
func (NoopMetricsCollector) RecordIdempotencyHit()                           {}
func (NoopMetricsCollector) RecordIdempotencyMiss()                          {}
func (NoopMetricsCollector) RecordInsufficientFunds()                        {}
func (NoopMetricsCollector) RecordWebhookReceived(string)                    {}
func (NoopMetricsCollector) RecordWebhookOutcome(string, WebhookOutcome)     {}
func (NoopMetricsCollector) RecordSettledAmount(string, decimal.Decimal)     {}
func (NoopMetricsCollector) RecordDuration(string, time.Duration)            {}
