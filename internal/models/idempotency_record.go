package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdempotencyRecord stores a serialized response for replay on repeated
// requests with the same (scope, key). Rows are written once and read-only
// afterwards.
type IdempotencyRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Scope           string    `gorm:"not null;uniqueIndex:idx_idem_scope_key,priority:1" json:"scope"`
	IdempotencyKey  string    `gorm:"not null;uniqueIndex:idx_idem_scope_key,priority:2" json:"idempotency_key"`
	ResponsePayload string    `gorm:"type:text;not null" json:"response_payload"`
	CreatedAt       time.Time `json:"created_at"`
}

func (r *IdempotencyRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
