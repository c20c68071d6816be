package ledger

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"pixwallet/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeEntryRepo is an in-memory LedgerEntryRepository.
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
	entry.CreatedAt = time.Now().UTC()
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
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestService(repo *fakeEntryRepo) Service {
	return NewService(repo, zap.NewNop(), nil)
}

func TestAppend_Validation(t *testing.T) {
	svc := newTestService(&fakeEntryRepo{})
	walletID := uuid.New()

	tests := []struct {
		name    string
		input   AppendInput
		wantErr error
	}{
		{
			name: "zero amount",
			input: AppendInput{
				WalletID:      walletID,
				OperationType: models.OperationDeposit,
				Direction:     models.DirectionCredit,
				Amount:        decimal.Zero,
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "negative amount",
			input: AppendInput{
				WalletID:      walletID,
				OperationType: models.OperationDeposit,
				Direction:     models.DirectionCredit,
				Amount:        decimal.NewFromInt(-5),
			},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "unknown direction",
			input: AppendInput{
				WalletID:      walletID,
				OperationType: models.OperationDeposit,
				Direction:     "SIDEWAYS",
				Amount:        decimal.NewFromInt(5),
			},
			wantErr: ErrInvalidDirection,
		},
		{
			name: "unknown operation",
			input: AppendInput{
				WalletID:      walletID,
				OperationType: "TELEPORT",
				Direction:     models.DirectionCredit,
				Amount:        decimal.NewFromInt(5),
			},
			wantErr: ErrInvalidOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Append(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCurrentBalance_EmptyWalletIsZero(t *testing.T) {
	svc := newTestService(&fakeEntryRepo{})

	balance, err := svc.CurrentBalance(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestCurrentBalance_SignedSum(t *testing.T) {
	repo := &fakeEntryRepo{}
	svc := newTestService(repo)
	walletID := uuid.New()
	ctx := context.Background()

	add := func(op, dir, amount string) {
		amt, err := decimal.NewFromString(amount)
		require.NoError(t, err)
		_, err = svc.Append(ctx, AppendInput{
			WalletID:      walletID,
			OperationType: op,
			Direction:     dir,
			Amount:        amt,
		})
		require.NoError(t, err)
	}

	add(models.OperationDeposit, models.DirectionCredit, "100.00")
	add(models.OperationPixDebit, models.DirectionDebit, "30.50")
	add(models.OperationPixReversal, models.DirectionCredit, "30.50")
	add(models.OperationWithdraw, models.DirectionDebit, "25.00")

	balance, err := svc.CurrentBalance(ctx, walletID)
	require.NoError(t, err)
	assert.Equal(t, "75.00", balance.StringFixed(2))
}

func TestBalanceAsOf_FiltersByEventTime(t *testing.T) {
	repo := &fakeEntryRepo{}
	svc := newTestService(repo)
	walletID := uuid.New()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Appended out of chronological order: the as-of aggregate depends on
	// occurred_at, not insertion order.
	_, err := svc.Append(ctx, AppendInput{
		WalletID:      walletID,
		OperationType: models.OperationWithdraw,
		Direction:     models.DirectionDebit,
		Amount:        decimal.NewFromInt(40),
		OccurredAt:    base.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	_, err = svc.Append(ctx, AppendInput{
		WalletID:      walletID,
		OperationType: models.OperationDeposit,
		Direction:     models.DirectionCredit,
		Amount:        decimal.NewFromInt(100),
		OccurredAt:    base,
	})
	require.NoError(t, err)

	atBase, err := svc.BalanceAsOf(ctx, walletID, base)
	require.NoError(t, err)
	assert.Equal(t, "100.00", atBase.StringFixed(2))

	beforeEverything, err := svc.BalanceAsOf(ctx, walletID, base.Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, beforeEverything.IsZero())

	afterAll, err := svc.BalanceAsOf(ctx, walletID, base.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "60.00", afterAll.StringFixed(2))

	current, err := svc.CurrentBalance(ctx, walletID)
	require.NoError(t, err)
	assert.Equal(t, "60.00", current.StringFixed(2))
}

func TestAppend_RoundsToTwoDecimals(t *testing.T) {
	repo := &fakeEntryRepo{}
	svc := newTestService(repo)
	walletID := uuid.New()

	entry, err := svc.Append(context.Background(), AppendInput{
		WalletID:      walletID,
		OperationType: models.OperationDeposit,
		Direction:     models.DirectionCredit,
		Amount:        decimal.RequireFromString("10.005"),
	})
	require.NoError(t, err)
	assert.Equal(t, "10.01", entry.Amount.StringFixed(2))
}

func TestStatement_NewestFirst(t *testing.T) {
	repo := &fakeEntryRepo{}
	svc := newTestService(repo)
	walletID := uuid.New()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := svc.Append(ctx, AppendInput{
			WalletID:      walletID,
			OperationType: models.OperationDeposit,
			Direction:     models.DirectionCredit,
			Amount:        decimal.NewFromInt(int64(i + 1)),
			OccurredAt:    base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	entries, err := svc.Statement(ctx, walletID, 2, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "3.00", entries[0].Amount.StringFixed(2))
	assert.Equal(t, "2.00", entries[1].Amount.StringFixed(2))
}
