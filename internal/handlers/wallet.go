package handlers

import (
	"errors"
	"time"

	"pixwallet/internal/services/pixkey"
	"pixwallet/internal/services/wallet"
	"pixwallet/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	walletService wallet.Service
	pixKeyService pixkey.Service
}

func NewWalletHandler(walletService wallet.Service, pixKeyService pixkey.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		pixKeyService: pixKeyService,
	}
}

// parseWalletID is a helper to reduce duplication across wallet routes.
func parseWalletID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.ErrBadRequest
	}
	return id, nil
}

func (h *WalletHandler) CreateWallet(c *fiber.Ctx) error {
	var input struct {
		OwnerID string `json:"owner_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	w, err := h.walletService.CreateWallet(c.Context(), input.OwnerID)
	if err != nil {
		if errors.Is(err, wallet.ErrInvalidOwner) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to create wallet")
	}

	return utils.Created(c, fiber.Map{"wallet": w})
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	walletID, err := parseWalletID(c)
	if err != nil {
		return utils.BadRequest(c, "Invalid wallet id")
	}

	w, err := h.walletService.GetWallet(c.Context(), walletID)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return utils.NotFound(c, "Wallet not found")
		}
		return utils.InternalError(c, "Failed to get wallet")
	}

	return utils.Success(c, fiber.Map{"wallet": w})
}

// GetBalance returns the current balance, or the balance as of a point in
// time when the "at" query parameter (RFC 3339) is present.
func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	walletID, err := parseWalletID(c)
	if err != nil {
		return utils.BadRequest(c, "Invalid wallet id")
	}

	var balance decimal.Decimal
	if atStr := c.Query("at"); atStr != "" {
		at, err := time.Parse(time.RFC3339, atStr)
		if err != nil {
			return utils.BadRequest(c, "Invalid 'at' timestamp, expected RFC 3339")
		}
		balance, err = h.walletService.BalanceAsOf(c.Context(), walletID, at)
		if err != nil {
			return h.balanceError(c, err)
		}
	} else {
		balance, err = h.walletService.CurrentBalance(c.Context(), walletID)
		if err != nil {
			return h.balanceError(c, err)
		}
	}

	return utils.Success(c, fiber.Map{
		"wallet_id": walletID,
		"balance":   balance.StringFixed(2),
	})
}

func (h *WalletHandler) balanceError(c *fiber.Ctx, err error) error {
	if errors.Is(err, wallet.ErrWalletNotFound) {
		return utils.NotFound(c, "Wallet not found")
	}
	return utils.InternalError(c, "Failed to get balance")
}

func (h *WalletHandler) Deposit(c *fiber.Ctx) error {
	walletID, err := parseWalletID(c)
	if err != nil {
		return utils.BadRequest(c, "Invalid wallet id")
	}

	var input struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	entry, err := h.walletService.Deposit(c.Context(), walletID, input.Amount)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInvalidAmount):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, wallet.ErrWalletNotFound):
			return utils.NotFound(c, "Wallet not found")
		default:
			return utils.InternalError(c, "Failed to deposit")
		}
	}

	return utils.Created(c, fiber.Map{"entry": entry})
}

func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	walletID, err := parseWalletID(c)
	if err != nil {
		return utils.BadRequest(c, "Invalid wallet id")
	}

	var input struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	entry, err := h.walletService.Withdraw(c.Context(), walletID, input.Amount)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInvalidAmount):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, wallet.ErrWalletNotFound):
			return utils.NotFound(c, "Wallet not found")
		case errors.Is(err, wallet.ErrInsufficientFunds):
			return utils.UnprocessableEntity(c, "Insufficient funds")
		default:
			return utils.InternalError(c, "Failed to withdraw")
		}
	}

	return utils.Created(c, fiber.Map{"entry": entry})
}

func (h *WalletHandler) GetStatement(c *fiber.Ctx) error {
	walletID, err := parseWalletID(c)
	if err != nil {
		return utils.BadRequest(c, "Invalid wallet id")
	}

	pagination := utils.GetPagination(c, 1, 50)
	entries, err := h.walletService.Statement(c.Context(), walletID, pagination.Limit, pagination.Offset)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return utils.NotFound(c, "Wallet not found")
		}
		return utils.InternalError(c, "Failed to get statement")
	}

	return utils.Success(c, fiber.Map{
		"wallet_id": walletID,
		"entries":   entries,
		"page":      pagination.Page,
		"limit":     pagination.Limit,
	})
}

func (h *WalletHandler) RegisterPixKey(c *fiber.Ctx) error {
	walletID, err := parseWalletID(c)
	if err != nil {
		return utils.BadRequest(c, "Invalid wallet id")
	}

	var input struct {
		KeyType  string `json:"key_type"`
		KeyValue string `json:"key_value"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	key, err := h.pixKeyService.Register(c.Context(), walletID, input.KeyType, input.KeyValue)
	if err != nil {
		switch {
		case errors.Is(err, pixkey.ErrInvalidKeyType), errors.Is(err, pixkey.ErrInvalidKeyValue):
			return utils.BadRequest(c, err.Error())
		case errors.Is(err, pixkey.ErrWalletNotFound):
			return utils.NotFound(c, "Wallet not found")
		case errors.Is(err, pixkey.ErrKeyInUse):
			return utils.Conflict(c, "Pix key already in use")
		default:
			return utils.InternalError(c, "Failed to register pix key")
		}
	}

	return utils.Created(c, fiber.Map{"pix_key": key})
}
