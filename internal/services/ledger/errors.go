package ledger

import "errors"

// Service errors
var (
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrInvalidDirection = errors.New("invalid entry direction")
	ErrInvalidOperation = errors.New("invalid operation type")
)
