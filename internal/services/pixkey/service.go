// Package pixkey implements the pix key directory: the mapping from a
// logical payee key to a wallet.
package pixkey

import (
	"context"
	"errors"
	"fmt"

	"pixwallet/internal/models"
	"pixwallet/internal/repositories"
	"pixwallet/internal/repositories/cache"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service registers and resolves pix keys.
type Service interface {
	Register(ctx context.Context, walletID uuid.UUID, keyType, keyValue string) (*models.PixKey, error)
	// Resolve maps a pix key to the owning wallet id.
	Resolve(ctx context.Context, keyValue string) (uuid.UUID, error)
}

type service struct {
	keys    repositories.PixKeyRepository
	wallets repositories.WalletRepository
	cache   *cache.Service
	log     *zap.Logger
}

// NewService creates the pix key directory service. The cache is optional.
func NewService(
	keys repositories.PixKeyRepository,
	wallets repositories.WalletRepository,
	cacheSvc *cache.Service,
	log *zap.Logger,
) Service {
	if keys == nil {
		panic("pix key repository is required")
	}
	if wallets == nil {
		panic("wallet repository is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &service{keys: keys, wallets: wallets, cache: cacheSvc, log: log}
}

func (s *service) Register(ctx context.Context, walletID uuid.UUID, keyType, keyValue string) (*models.PixKey, error) {
	if !validKeyTypes[keyType] {
		return nil, ErrInvalidKeyType
	}
	if keyValue == "" {
		return nil, ErrInvalidKeyValue
	}

	if _, err := s.wallets.GetByID(ctx, walletID); err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	if existing, err := s.keys.GetByKeyValue(ctx, keyValue); err == nil {
		s.log.Warn("pix key already in use",
			zap.String("key_value", keyValue),
			zap.String("existing_wallet_id", existing.WalletID.String()),
		)
		return nil, ErrKeyInUse
	} else if !errors.Is(err, repositories.ErrPixKeyNotFound) {
		return nil, fmt.Errorf("failed to look up pix key: %w", err)
	}

	key := &models.PixKey{WalletID: walletID, KeyType: keyType, KeyValue: keyValue}
	if err := s.keys.Create(ctx, key); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrKeyInUse
		}
		return nil, fmt.Errorf("failed to register pix key: %w", err)
	}

	s.log.Info("pix key registered",
		zap.String("pix_key_id", key.ID.String()),
		zap.String("wallet_id", walletID.String()),
		zap.String("key_type", keyType),
	)
	return key, nil
}

func (s *service) Resolve(ctx context.Context, keyValue string) (uuid.UUID, error) {
	if s.cache != nil {
		var walletID uuid.UUID
		cacheKey := s.cache.Key("pixkey", "value", keyValue)
		if found, err := s.cache.Get(ctx, cacheKey, &walletID); err == nil && found {
			return walletID, nil
		}
	}

	key, err := s.keys.GetByKeyValue(ctx, keyValue)
	if err != nil {
		if errors.Is(err, repositories.ErrPixKeyNotFound) {
			return uuid.Nil, ErrKeyNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve pix key: %w", err)
	}

	if s.cache != nil {
		cacheKey := s.cache.Key("pixkey", "value", keyValue)
		if err := s.cache.Set(ctx, cacheKey, key.WalletID); err != nil {
			s.log.Warn("failed to cache pix key", zap.Error(err))
		}
	}
	return key.WalletID, nil
}

var validKeyTypes = map[string]bool{
	models.PixKeyTypeCPF:   true,
	models.PixKeyTypeEmail: true,
	models.PixKeyTypePhone: true,
	models.PixKeyTypeEVP:   true,
}
