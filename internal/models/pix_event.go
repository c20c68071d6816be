package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Webhook event types understood by the transfer lifecycle. Other values are
// recorded but applied as no-ops.
const (
	EventTypeConfirmed = "CONFIRMED"
	EventTypeRejected  = "REJECTED"
)

// PixEvent is the append-only audit and dedupe log of webhook deliveries.
// One row per distinct EventID, whether or not it changed transfer state.
type PixEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID     string    `gorm:"uniqueIndex;not null" json:"event_id"`
	EndToEndID  string    `gorm:"not null;index" json:"end_to_end_id"`
	EventType   string    `gorm:"not null" json:"event_type"`
	OccurredAt  time.Time `gorm:"not null" json:"occurred_at"`
	ProcessedAt time.Time `json:"processed_at"`
}

func (e *PixEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.ProcessedAt.IsZero() {
		e.ProcessedAt = time.Now().UTC()
	}
	return nil
}
