package wallet

import (
	"context"
	"sync"
	"testing"
	"time"

	"pixwallet/internal/locks"
	"pixwallet/internal/models"
	"pixwallet/internal/repositories"
	"pixwallet/internal/services/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWalletRepo struct {
	mu      sync.Mutex
	wallets map[uuid.UUID]models.Wallet
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{wallets: make(map[uuid.UUID]models.Wallet)}
}

func (r *fakeWalletRepo) Create(_ context.Context, wallet *models.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if wallet.ID == uuid.Nil {
		wallet.ID = uuid.New()
	}
	wallet.CreatedAt = time.Now().UTC()
	r.wallets[wallet.ID] = *wallet
	return nil
}

func (r *fakeWalletRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	return &w, nil
}

func (r *fakeWalletRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	return r.GetByID(ctx, id)
}

type fakeEntryRepo struct {
	mu      sync.Mutex
	entries []models.LedgerEntry
}

func (r *fakeEntryRepo) Create(_ context.Context, entry *models.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeEntryRepo) SumByWallet(_ context.Context, walletID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for i := range r.entries {
		if r.entries[i].WalletID == walletID {
			sum = sum.Add(r.entries[i].Signed())
		}
	}
	return sum, nil
}

func (r *fakeEntryRepo) SumByWalletAsOf(_ context.Context, walletID uuid.UUID, at time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for i := range r.entries {
		if r.entries[i].WalletID == walletID && !r.entries[i].OccurredAt.After(at) {
			sum = sum.Add(r.entries[i].Signed())
		}
	}
	return sum, nil
}

func (r *fakeEntryRepo) ListByWallet(_ context.Context, walletID uuid.UUID, limit, offset int) ([]models.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.LedgerEntry
	for i := range r.entries {
		if r.entries[i].WalletID == walletID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *fakeEntryRepo) count(walletID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for i := range r.entries {
		if r.entries[i].WalletID == walletID {
			n++
		}
	}
	return n
}

// fakeUnitOfWork runs fn directly; the fakes have no transactions to join.
type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type testEnv struct {
	svc     Service
	wallets *fakeWalletRepo
	entries *fakeEntryRepo
}

func newTestEnv() testEnv {
	wallets := newFakeWalletRepo()
	entries := &fakeEntryRepo{}
	ledgerSvc := ledger.NewService(entries, zap.NewNop(), nil)
	svc := NewService(wallets, ledgerSvc, fakeUnitOfWork{}, locks.NewWalletLocker(), zap.NewNop(), nil)
	return testEnv{svc: svc, wallets: wallets, entries: entries}
}

func (e testEnv) newWallet(t *testing.T, opening string) uuid.UUID {
	t.Helper()
	w, err := e.svc.CreateWallet(context.Background(), "owner-1")
	require.NoError(t, err)
	if opening != "" {
		_, err = e.svc.Deposit(context.Background(), w.ID, decimal.RequireFromString(opening))
		require.NoError(t, err)
	}
	return w.ID
}

func TestCreateWallet_RequiresOwner(t *testing.T) {
	env := newTestEnv()
	_, err := env.svc.CreateWallet(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidOwner)
}

func TestDeposit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	walletID := env.newWallet(t, "")

	t.Run("appends a credit entry", func(t *testing.T) {
		entry, err := env.svc.Deposit(ctx, walletID, decimal.RequireFromString("42.10"))
		require.NoError(t, err)
		assert.Equal(t, models.OperationDeposit, entry.OperationType)
		assert.Equal(t, models.DirectionCredit, entry.Direction)

		balance, err := env.svc.CurrentBalance(ctx, walletID)
		require.NoError(t, err)
		assert.Equal(t, "42.10", balance.StringFixed(2))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := env.svc.Deposit(ctx, walletID, decimal.Zero)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("unknown wallet", func(t *testing.T) {
		_, err := env.svc.Deposit(ctx, uuid.New(), decimal.NewFromInt(10))
		assert.ErrorIs(t, err, ErrWalletNotFound)
	})
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("exact balance is sufficient", func(t *testing.T) {
		env := newTestEnv()
		walletID := env.newWallet(t, "50.00")

		_, err := env.svc.Withdraw(ctx, walletID, decimal.RequireFromString("50.00"))
		require.NoError(t, err)

		balance, err := env.svc.CurrentBalance(ctx, walletID)
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})

	t.Run("insufficient funds leaves no entry", func(t *testing.T) {
		env := newTestEnv()
		walletID := env.newWallet(t, "50.00")
		before := env.entries.count(walletID)

		_, err := env.svc.Withdraw(ctx, walletID, decimal.RequireFromString("50.01"))
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, before, env.entries.count(walletID))
	})

	t.Run("unknown wallet", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.svc.Withdraw(ctx, uuid.New(), decimal.NewFromInt(10))
		assert.ErrorIs(t, err, ErrWalletNotFound)
	})
}

// With balance B and N concurrent withdrawals of amount A, exactly
// floor(B/A) succeed and the final balance is never negative.
func TestWithdraw_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	walletID := env.newWallet(t, "100.00")

	amount := decimal.RequireFromString("30.00")
	const workers = 10

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, rejected := 0, 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.Withdraw(ctx, walletID, amount)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case err == ErrInsufficientFunds:
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, workers-3, rejected)

	balance, err := env.svc.CurrentBalance(ctx, walletID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", balance.StringFixed(2))
	assert.False(t, balance.IsNegative())
}
