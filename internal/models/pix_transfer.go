package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PIX transfer statuses. PENDING is the only non-terminal state: a transfer
// moves to CONFIRMED or REJECTED exactly once and is immutable afterwards.
const (
	TransferStatusPending   = "PENDING"
	TransferStatusConfirmed = "CONFIRMED"
	TransferStatusRejected  = "REJECTED"
)

// PixTransfer tracks one instant payment from creation to settlement.
// (FromWalletID, IdempotencyKey) is the authoritative creation dedupe key;
// EndToEndID identifies the transfer across systems.
type PixTransfer struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	EndToEndID     string          `gorm:"uniqueIndex;not null" json:"end_to_end_id"`
	FromWalletID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_transfer_from_idem,priority:1" json:"from_wallet_id"`
	ToWalletID     uuid.UUID       `gorm:"type:uuid;not null" json:"to_wallet_id"`
	Amount         decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"amount"`
	IdempotencyKey string          `gorm:"not null;uniqueIndex:idx_transfer_from_idem,priority:2" json:"idempotency_key"`
	Status         string          `gorm:"not null;default:'PENDING'" json:"status"`
	Version        int64           `gorm:"not null;default:0" json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (t *PixTransfer) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Finalized reports whether the transfer reached a terminal status.
func (t *PixTransfer) Finalized() bool {
	return t.Status == TransferStatusConfirmed || t.Status == TransferStatusRejected
}
