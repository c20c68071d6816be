package locks

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWalletLocker_SerializesSameWallet(t *testing.T) {
	locker := NewWalletLocker()
	walletID := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = locker.WithLock(walletID, func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestWalletLocker_IndependentWallets(t *testing.T) {
	locker := NewWalletLocker()
	a := uuid.New()
	b := uuid.New()

	aHeld := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_ = locker.WithLock(a, func() error {
			close(aHeld)
			<-release
			return nil
		})
	}()

	<-aHeld
	go func() {
		// Must not block on a's section.
		_ = locker.WithLock(b, func() error { return nil })
		close(done)
	}()

	<-done
	close(release)
}

func TestWalletLocker_WithLockPropagatesError(t *testing.T) {
	locker := NewWalletLocker()
	walletID := uuid.New()

	err := locker.WithLock(walletID, func() error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	// The lock must be released even after an error.
	reacquired := false
	_ = locker.WithLock(walletID, func() error {
		reacquired = true
		return nil
	})
	assert.True(t, reacquired)
}
