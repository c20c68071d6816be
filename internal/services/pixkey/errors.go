package pixkey

import "errors"

// Service errors
var (
	ErrWalletNotFound  = errors.New("wallet not found")
	ErrKeyNotFound     = errors.New("pix key not found")
	ErrKeyInUse        = errors.New("pix key already in use")
	ErrInvalidKeyType  = errors.New("invalid pix key type")
	ErrInvalidKeyValue = errors.New("pix key value is required")
)
