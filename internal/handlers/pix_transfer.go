package handlers

import (
	"errors"

	"pixwallet/internal/services/idempotency"
	"pixwallet/internal/services/pix"
	"pixwallet/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransferScope namespaces transfer responses in the replay cache.
const TransferScope = "PIX_TRANSFER"

// IdempotencyKeyHeader carries the client-chosen retry key.
const IdempotencyKeyHeader = "Idempotency-Key"

type PixTransferHandler struct {
	pixService  pix.Service
	idemService idempotency.Service
	log         *zap.Logger
}

func NewPixTransferHandler(pixService pix.Service, idemService idempotency.Service, log *zap.Logger) *PixTransferHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PixTransferHandler{
		pixService:  pixService,
		idemService: idemService,
		log:         log,
	}
}

type transferResponse struct {
	EndToEndID string `json:"end_to_end_id"`
	Status     string `json:"status"`
}

// CreateTransfer accepts a transfer request and debits the source wallet.
// The response replay cache sits in front of the service call: a retry with
// a key whose response is already stored gets the stored body back without
// touching the transfer path at all.
func (h *PixTransferHandler) CreateTransfer(c *fiber.Ctx) error {
	idemKey := c.Get(IdempotencyKeyHeader)
	if idemKey == "" {
		return utils.BadRequest(c, "Idempotency-Key header is required")
	}

	var input struct {
		FromWalletID string          `json:"from_wallet_id"`
		ToPixKey     string          `json:"to_pix_key"`
		Amount       decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	fromWalletID, err := uuid.Parse(input.FromWalletID)
	if err != nil {
		return utils.BadRequest(c, "Invalid from_wallet_id")
	}

	var cached transferResponse
	found, err := h.idemService.Get(c.Context(), TransferScope, idemKey, &cached)
	if err != nil {
		h.log.Error("idempotency lookup failed", zap.Error(err))
		return utils.InternalError(c, "Failed to process transfer")
	}
	if found {
		return utils.Accepted(c, cached)
	}

	transfer, err := h.pixService.CreateTransfer(c.Context(), pix.CreateTransferInput{
		FromWalletID:   fromWalletID,
		ToPixKey:       input.ToPixKey,
		Amount:         input.Amount,
		IdempotencyKey: idemKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, pix.ErrInvalidAmount), errors.Is(err, pix.ErrMissingIdempotencyKey):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, pix.ErrWalletNotFound):
			return utils.NotFound(c, "Wallet not found")
		case errors.Is(err, pix.ErrPixKeyNotFound):
			return utils.NotFound(c, "Pix key not found")
		case errors.Is(err, pix.ErrInsufficientFunds):
			return utils.UnprocessableEntity(c, "Insufficient funds")
		default:
			h.log.Error("transfer creation failed", zap.Error(err))
			return utils.InternalError(c, "Failed to process transfer")
		}
	}

	resp := transferResponse{
		EndToEndID: transfer.EndToEndID,
		Status:     transfer.Status,
	}
	if err := h.idemService.Put(c.Context(), TransferScope, idemKey, resp); err != nil {
		// A response that cannot be stored for replay must not be served:
		// a later retry could otherwise observe a different result.
		h.log.Error("failed to store idempotency record",
			zap.String("scope", TransferScope),
			zap.Error(err),
		)
		return utils.InternalError(c, "Failed to process transfer")
	}

	return utils.Accepted(c, resp)
}
