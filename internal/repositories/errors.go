package repositories

import "errors"

// Storage errors
var (
	ErrWalletNotFound   = errors.New("wallet not found")
	ErrTransferNotFound = errors.New("transfer not found")
	ErrPixKeyNotFound   = errors.New("pix key not found")
	ErrRecordNotFound   = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrVersionConflict  = errors.New("version conflict")
)
