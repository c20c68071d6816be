package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PIX key types
const (
	PixKeyTypeCPF   = "CPF"
	PixKeyTypeEmail = "EMAIL"
	PixKeyTypePhone = "PHONE"
	PixKeyTypeEVP   = "EVP"
)

// PixKey maps a logical payee key to a wallet. KeyValue is unique across the
// whole directory.
type PixKey struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WalletID  uuid.UUID `gorm:"type:uuid;not null;index" json:"wallet_id"`
	KeyType   string    `gorm:"not null" json:"key_type"`
	KeyValue  string    `gorm:"uniqueIndex;not null" json:"key_value"`
	CreatedAt time.Time `json:"created_at"`
}

func (k *PixKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}
