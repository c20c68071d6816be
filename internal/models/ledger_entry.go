package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger operation types
const (
	OperationDeposit     = "DEPOSIT"
	OperationWithdraw    = "WITHDRAW"
	OperationPixDebit    = "PIX_DEBIT"
	OperationPixCredit   = "PIX_CREDIT"
	OperationPixReversal = "PIX_REVERSAL"
)

// Ledger entry directions
const (
	DirectionCredit = "CREDIT"
	DirectionDebit  = "DEBIT"
)

// LedgerEntry is one immutable, signed movement against a wallet. Rows are
// append-only: they are never updated or deleted once written.
type LedgerEntry struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	WalletID      uuid.UUID       `gorm:"type:uuid;not null;index;index:idx_ledger_wallet_occurred,priority:1" json:"wallet_id"`
	OperationType string          `gorm:"not null" json:"operation_type"`
	Direction     string          `gorm:"not null" json:"direction"`
	Amount        decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"amount"`
	ReferenceID   *string         `json:"reference_id,omitempty"`
	EndToEndID    *string         `json:"end_to_end_id,omitempty"`
	OccurredAt    time.Time       `gorm:"not null;index:idx_ledger_wallet_occurred,priority:2" json:"occurred_at"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Signed returns the entry's contribution to the wallet balance: positive
// for credits, negative for debits.
func (e *LedgerEntry) Signed() decimal.Decimal {
	if e.Direction == DirectionDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}
