package handlers

import (
	"errors"
	"time"

	"pixwallet/internal/services/pix"
	"pixwallet/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type PixWebhookHandler struct {
	pixService pix.Service
	log        *zap.Logger
}

func NewPixWebhookHandler(pixService pix.Service, log *zap.Logger) *PixWebhookHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PixWebhookHandler{pixService: pixService, log: log}
}

// HandleWebhook receives settlement events from the payment network.
// Delivery is at least once: duplicates, events against finalized transfers,
// and unknown event types are all acknowledged with 202 so the sender stops
// retrying. Only an unknown endToEndId is a hard failure.
func (h *PixWebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	var input struct {
		EventID    string    `json:"event_id"`
		EndToEndID string    `json:"end_to_end_id"`
		EventType  string    `json:"event_type"`
		OccurredAt time.Time `json:"occurred_at"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if input.EventID == "" || input.EndToEndID == "" || input.EventType == "" {
		return utils.BadRequest(c, "event_id, end_to_end_id and event_type are required")
	}
	if input.OccurredAt.IsZero() {
		input.OccurredAt = time.Now().UTC()
	}

	outcome, err := h.pixService.HandleWebhook(c.Context(), pix.WebhookInput{
		EventID:    input.EventID,
		EndToEndID: input.EndToEndID,
		EventType:  input.EventType,
		OccurredAt: input.OccurredAt,
	})
	if err != nil {
		if errors.Is(err, pix.ErrTransferNotFound) {
			return utils.NotFound(c, "Transfer not found")
		}
		h.log.Error("webhook processing failed",
			zap.String("event_id", input.EventID),
			zap.Error(err),
		)
		return utils.InternalError(c, "Failed to process event")
	}

	return utils.Accepted(c, fiber.Map{
		"status":  "ACCEPTED",
		"outcome": outcome,
	})
}
