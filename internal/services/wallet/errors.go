package wallet

import "errors"

// Service errors
var (
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidOwner      = errors.New("owner id is required")
)
