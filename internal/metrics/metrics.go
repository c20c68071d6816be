// Package metrics holds the Prometheus collectors behind the service-level
// MetricsCollector interfaces, plus a small standalone server exposing
// /metrics and /healthz off the main API port.
package metrics

import (
	"time"

	"pixwallet/internal/services/pix"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	ledgerEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixwallet_ledger_entries_total",
		Help: "Ledger entries appended, by operation type",
	}, []string{"operation_type"})

	ledgerAmountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixwallet_ledger_amount_total",
		Help: "Absolute amount appended to the ledger, by operation type",
	}, []string{"operation_type"})

	balanceQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixwallet_balance_queries_total",
		Help: "Balance computations, by kind (current or as_of)",
	}, []string{"kind"})

	serviceErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixwallet_service_errors_total",
		Help: "Service-level errors, by operation and error type",
	}, []string{"operation", "error_type"})

	walletOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixwallet_wallet_operations_total",
		Help: "Wallet operations, by operation and result",
	}, []string{"operation", "result"})

	walletOperationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pixwallet_wallet_operation_duration_seconds",
		Help:    "Wallet operation latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"operation"})

	walletAmountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixwallet_wallet_amount_total",
		Help: "Amount moved by wallet operations",
	}, []string{"operation"})

	insufficientFundsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pixwallet_insufficient_funds_total",
		Help: "Debit attempts rejected for insufficient funds",
	})

	transfersRequestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pixwallet_transfers_requested_total",
		Help: "Transfer creation requests received",
	})

	transfersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pixwallet_transfers_created_total",
		Help: "New PENDING transfers created",
	})

	idempotencyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixwallet_transfer_idempotency_total",
		Help: "Transfer idempotency checks, by result (hit or miss)",
	}, []string{"result"})

	webhooksReceivedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixwallet_webhooks_received_total",
		Help: "Webhook deliveries received, by event type",
	}, []string{"event_type"})

	webhookOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixwallet_webhook_outcomes_total",
		Help: "Webhook processing outcomes, by event type and outcome",
	}, []string{"event_type", "outcome"})

	settledAmountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pixwallet_settled_amount_total",
		Help: "Amount settled by finalized transfers, by terminal status",
	}, []string{"status"})

	pixOperationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pixwallet_pix_operation_duration_seconds",
		Help:    "Transfer lifecycle operation latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"operation"})
)

// LedgerCollector implements ledger.MetricsCollector.
type LedgerCollector struct{}

func NewLedgerCollector() *LedgerCollector { return &LedgerCollector{} }

func (c *LedgerCollector) RecordEntryAppended(operationType string, amount decimal.Decimal) {
	ledgerEntriesTotal.WithLabelValues(operationType).Inc()
	f, _ := amount.Float64()
	ledgerAmountTotal.WithLabelValues(operationType).Add(f)
}

func (c *LedgerCollector) RecordBalanceQuery(kind string) {
	balanceQueriesTotal.WithLabelValues(kind).Inc()
}

func (c *LedgerCollector) RecordError(operation, errType string) {
	serviceErrorsTotal.WithLabelValues(operation, errType).Inc()
}

// WalletCollector implements wallet.MetricsCollector.
type WalletCollector struct{}

func NewWalletCollector() *WalletCollector { return &WalletCollector{} }

func (c *WalletCollector) RecordOperation(operation, result string) {
	walletOperationsTotal.WithLabelValues(operation, result).Inc()
}

func (c *WalletCollector) RecordOperationDuration(operation string, duration time.Duration) {
	walletOperationSeconds.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *WalletCollector) RecordAmount(operation string, amount decimal.Decimal) {
	f, _ := amount.Float64()
	walletAmountTotal.WithLabelValues(operation).Add(f)
}

func (c *WalletCollector) RecordInsufficientFunds() {
	insufficientFundsTotal.Inc()
}

// PixCollector implements pix.MetricsCollector.
type PixCollector struct{}

func NewPixCollector() *PixCollector { return &PixCollector{} }

func (c *PixCollector) RecordTransferRequested() { transfersRequestedTotal.Inc() }

func (c *PixCollector) RecordTransferCreated() { transfersCreatedTotal.Inc() }

func (c *PixCollector) RecordIdempotencyHit() { idempotencyTotal.WithLabelValues("hit").Inc() }

func (c *PixCollector) RecordIdempotencyMiss() { idempotencyTotal.WithLabelValues("miss").Inc() }

func (c *PixCollector) RecordInsufficientFunds() { insufficientFundsTotal.Inc() }

func (c *PixCollector) RecordWebhookReceived(eventType string) {
	webhooksReceivedTotal.WithLabelValues(eventType).Inc()
}

func (c *PixCollector) RecordWebhookOutcome(eventType string, outcome pix.WebhookOutcome) {
	webhookOutcomesTotal.WithLabelValues(eventType, string(outcome)).Inc()
}

func (c *PixCollector) RecordSettledAmount(status string, amount decimal.Decimal) {
	f, _ := amount.Float64()
	settledAmountTotal.WithLabelValues(status).Add(f)
}

func (c *PixCollector) RecordDuration(operation string, d time.Duration) {
	pixOperationSeconds.WithLabelValues(operation).Observe(d.Seconds())
}
