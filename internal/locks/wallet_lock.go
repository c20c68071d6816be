// Package locks provides the per-wallet mutual exclusion used on the debit
// path. Two concurrent debits against the same wallet must not both observe
// a sufficient balance; credits never need this protection.
package locks

import (
	"sync"

	"github.com/google/uuid"
)

// WalletLocker serializes debit sections per wallet id. Sections for
// different wallets proceed independently. Mutexes are created lazily and
// kept for the life of the process.
type WalletLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewWalletLocker creates an empty WalletLocker.
func NewWalletLocker() *WalletLocker {
	return &WalletLocker{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *WalletLocker) get(walletID uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[walletID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[walletID] = m
	}
	return m
}

// Lock acquires the exclusive debit section for walletID.
func (l *WalletLocker) Lock(walletID uuid.UUID) {
	l.get(walletID).Lock()
}

// Unlock releases the debit section for walletID.
func (l *WalletLocker) Unlock(walletID uuid.UUID) {
	l.get(walletID).Unlock()
}

// WithLock runs fn inside the exclusive debit section for walletID. The
// section must cover only the balance read, the comparison, and the entry
// append; no external lookups belong inside it.
func (l *WalletLocker) WithLock(walletID uuid.UUID, fn func() error) error {
	l.Lock(walletID)
	defer l.Unlock(walletID)
	return fn()
}
