package pixkey

import (
	"context"
	"sync"
	"testing"

	"pixwallet/internal/models"
	"pixwallet/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeKeyRepo struct {
	mu   sync.Mutex
	keys map[string]models.PixKey
}

func newFakeKeyRepo() *fakeKeyRepo {
	return &fakeKeyRepo{keys: make(map[string]models.PixKey)}
}

func (r *fakeKeyRepo) Create(_ context.Context, key *models.PixKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.keys[key.KeyValue]; ok {
		return repositories.ErrDuplicateKey
	}
	if key.ID == uuid.Nil {
		key.ID = uuid.New()
	}
	r.keys[key.KeyValue] = *key
	return nil
}

func (r *fakeKeyRepo) GetByKeyValue(_ context.Context, keyValue string) (*models.PixKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[keyValue]
	if !ok {
		return nil, repositories.ErrPixKeyNotFound
	}
	return &k, nil
}

type fakeWalletRepo struct {
	wallets map[uuid.UUID]models.Wallet
}

func (r *fakeWalletRepo) Create(_ context.Context, wallet *models.Wallet) error {
	if wallet.ID == uuid.Nil {
		wallet.ID = uuid.New()
	}
	r.wallets[wallet.ID] = *wallet
	return nil
}

func (r *fakeWalletRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Wallet, error) {
	w, ok := r.wallets[id]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	return &w, nil
}

func (r *fakeWalletRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Wallet, error) {
	return r.GetByID(ctx, id)
}

func newTestService(t *testing.T) (Service, uuid.UUID) {
	t.Helper()
	wallets := &fakeWalletRepo{wallets: make(map[uuid.UUID]models.Wallet)}
	w := &models.Wallet{OwnerID: "owner-1"}
	require.NoError(t, wallets.Create(context.Background(), w))
	return NewService(newFakeKeyRepo(), wallets, nil, zap.NewNop()), w.ID
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("registers and resolves", func(t *testing.T) {
		svc, walletID := newTestService(t)

		key, err := svc.Register(ctx, walletID, models.PixKeyTypeEmail, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, walletID, key.WalletID)

		resolved, err := svc.Resolve(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, walletID, resolved)
	})

	t.Run("rejects unknown key type", func(t *testing.T) {
		svc, walletID := newTestService(t)
		_, err := svc.Register(ctx, walletID, "PASSPORT", "123")
		assert.ErrorIs(t, err, ErrInvalidKeyType)
	})

	t.Run("rejects empty key value", func(t *testing.T) {
		svc, walletID := newTestService(t)
		_, err := svc.Register(ctx, walletID, models.PixKeyTypeEVP, "")
		assert.ErrorIs(t, err, ErrInvalidKeyValue)
	})

	t.Run("rejects unknown wallet", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Register(ctx, uuid.New(), models.PixKeyTypeEmail, "alice@example.com")
		assert.ErrorIs(t, err, ErrWalletNotFound)
	})

	t.Run("key value is globally unique", func(t *testing.T) {
		svc, walletID := newTestService(t)
		_, err := svc.Register(ctx, walletID, models.PixKeyTypeEmail, "alice@example.com")
		require.NoError(t, err)

		_, err = svc.Register(ctx, walletID, models.PixKeyTypeEmail, "alice@example.com")
		assert.ErrorIs(t, err, ErrKeyInUse)
	})
}

func TestResolve_UnknownKey(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Resolve(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
