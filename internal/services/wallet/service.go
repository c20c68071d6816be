package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pixwallet/internal/locks"
	"pixwallet/internal/models"
	"pixwallet/internal/repositories"
	"pixwallet/internal/services/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type service struct {
	wallets repositories.WalletRepository
	ledger  ledger.Service
	uow     repositories.UnitOfWork
	locker  *locks.WalletLocker
	log     *zap.Logger
	metrics MetricsCollector
}

// NewService creates a new wallet service.
func NewService(
	wallets repositories.WalletRepository,
	ledgerSvc ledger.Service,
	uow repositories.UnitOfWork,
	locker *locks.WalletLocker,
	log *zap.Logger,
	metrics MetricsCollector,
) Service {
	if wallets == nil {
		panic("wallet repository is required")
	}
	if ledgerSvc == nil {
		panic("ledger service is required")
	}
	if uow == nil {
		panic("unit of work is required")
	}
	if locker == nil {
		panic("wallet locker is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}
	return &service{
		wallets: wallets,
		ledger:  ledgerSvc,
		uow:     uow,
		locker:  locker,
		log:     log,
		metrics: metrics,
	}
}

func (s *service) CreateWallet(ctx context.Context, ownerID string) (*models.Wallet, error) {
	if ownerID == "" {
		return nil, ErrInvalidOwner
	}

	wallet := &models.Wallet{OwnerID: ownerID}
	if err := s.wallets.Create(ctx, wallet); err != nil {
		s.metrics.RecordOperation("create_wallet", "error")
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	s.log.Info("wallet created",
		zap.String("wallet_id", wallet.ID.String()),
		zap.String("owner_id", wallet.OwnerID),
	)
	s.metrics.RecordOperation("create_wallet", "success")
	return wallet, nil
}

func (s *service) GetWallet(ctx context.Context, walletID uuid.UUID) (*models.Wallet, error) {
	wallet, err := s.wallets.GetByID(ctx, walletID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

func (s *service) Deposit(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) (*models.LedgerEntry, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("deposit", time.Since(start)) }()

	if !amount.IsPositive() {
		s.metrics.RecordOperation("deposit", "invalid_amount")
		return nil, ErrInvalidAmount
	}

	var entry *models.LedgerEntry
	err := s.uow.Run(ctx, func(ctx context.Context) error {
		if _, err := s.wallets.GetByID(ctx, walletID); err != nil {
			if errors.Is(err, repositories.ErrWalletNotFound) {
				return ErrWalletNotFound
			}
			return err
		}
		var err error
		entry, err = s.ledger.Append(ctx, ledger.AppendInput{
			WalletID:      walletID,
			OperationType: models.OperationDeposit,
			Direction:     models.DirectionCredit,
			Amount:        amount,
			OccurredAt:    time.Now().UTC(),
		})
		return err
	})
	if err != nil {
		s.metrics.RecordOperation("deposit", "error")
		return nil, err
	}

	s.log.Info("deposit applied",
		zap.String("wallet_id", walletID.String()),
		zap.String("amount", amount.StringFixed(2)),
	)
	s.metrics.RecordOperation("deposit", "success")
	s.metrics.RecordAmount("deposit", amount)
	return entry, nil
}

func (s *service) Withdraw(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) (*models.LedgerEntry, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("withdraw", time.Since(start)) }()

	if !amount.IsPositive() {
		s.metrics.RecordOperation("withdraw", "invalid_amount")
		return nil, ErrInvalidAmount
	}

	var entry *models.LedgerEntry
	err := s.locker.WithLock(walletID, func() error {
		return s.uow.Run(ctx, func(ctx context.Context) error {
			wallet, err := s.wallets.GetByIDForUpdate(ctx, walletID)
			if err != nil {
				if errors.Is(err, repositories.ErrWalletNotFound) {
					return ErrWalletNotFound
				}
				return err
			}

			balance, err := s.ledger.CurrentBalance(ctx, wallet.ID)
			if err != nil {
				return err
			}
			// balance == amount is sufficient; only a strictly smaller
			// balance aborts.
			if balance.LessThan(amount) {
				s.log.Warn("withdraw rejected, insufficient funds",
					zap.String("wallet_id", wallet.ID.String()),
					zap.String("balance", balance.StringFixed(2)),
					zap.String("requested", amount.StringFixed(2)),
				)
				s.metrics.RecordInsufficientFunds()
				return ErrInsufficientFunds
			}

			entry, err = s.ledger.Append(ctx, ledger.AppendInput{
				WalletID:      wallet.ID,
				OperationType: models.OperationWithdraw,
				Direction:     models.DirectionDebit,
				Amount:        amount,
				OccurredAt:    time.Now().UTC(),
			})
			return err
		})
	})
	if err != nil {
		if !errors.Is(err, ErrInsufficientFunds) && !errors.Is(err, ErrWalletNotFound) {
			s.metrics.RecordOperation("withdraw", "error")
		}
		return nil, err
	}

	s.log.Info("withdraw applied",
		zap.String("wallet_id", walletID.String()),
		zap.String("amount", amount.StringFixed(2)),
	)
	s.metrics.RecordOperation("withdraw", "success")
	s.metrics.RecordAmount("withdraw", amount)
	return entry, nil
}

func (s *service) CurrentBalance(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error) {
	if _, err := s.GetWallet(ctx, walletID); err != nil {
		return decimal.Zero, err
	}
	return s.ledger.CurrentBalance(ctx, walletID)
}

func (s *service) BalanceAsOf(ctx context.Context, walletID uuid.UUID, at time.Time) (decimal.Decimal, error) {
	if _, err := s.GetWallet(ctx, walletID); err != nil {
		return decimal.Zero, err
	}
	return s.ledger.BalanceAsOf(ctx, walletID, at)
}

func (s *service) Statement(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]models.LedgerEntry, error) {
	if _, err := s.GetWallet(ctx, walletID); err != nil {
		return nil, err
	}
	return s.ledger.Statement(ctx, walletID, limit, offset)
}
