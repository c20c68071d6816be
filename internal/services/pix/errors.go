package pix

import "errors"

// Service errors
var (
	ErrWalletNotFound        = errors.New("wallet not found")
	ErrTransferNotFound      = errors.New("transfer not found")
	ErrPixKeyNotFound        = errors.New("pix key not found")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInvalidAmount         = errors.New("amount must be greater than zero")
	ErrMissingIdempotencyKey = errors.New("idempotency key is required")
)
