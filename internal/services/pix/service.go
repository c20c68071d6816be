package pix

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pixwallet/internal/locks"
	"pixwallet/internal/models"
	"pixwallet/internal/repositories"
	"pixwallet/internal/services/ledger"
	"pixwallet/internal/services/pixkey"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type service struct {
	transfers repositories.PixTransferRepository
	events    repositories.PixEventRepository
	wallets   repositories.WalletRepository
	ledger    ledger.Service
	directory KeyDirectory
	uow       repositories.UnitOfWork
	locker    *locks.WalletLocker
	log       *zap.Logger
	metrics   MetricsCollector
}

// NewService creates the transfer lifecycle service.
func NewService(
	transfers repositories.PixTransferRepository,
	events repositories.PixEventRepository,
	wallets repositories.WalletRepository,
	ledgerSvc ledger.Service,
	directory KeyDirectory,
	uow repositories.UnitOfWork,
	locker *locks.WalletLocker,
	log *zap.Logger,
	metrics MetricsCollector,
) Service {
	if transfers == nil || events == nil || wallets == nil {
		panic("transfer, event, and wallet repositories are required")
	}
	if ledgerSvc == nil {
		panic("ledger service is required")
	}
	if directory == nil {
		panic("key directory is required")
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
		transfers: transfers,
		events:    events,
		wallets:   wallets,
		ledger:    ledgerSvc,
		directory: directory,
		uow:       uow,
		locker:    locker,
		log:       log,
		metrics:   metrics,
	}
}

func (s *service) CreateTransfer(ctx context.Context, input CreateTransferInput) (*models.PixTransfer, error) {
	start := time.Now()
	defer func() { s.metrics.RecordDuration("create_transfer", time.Since(start)) }()
	s.metrics.RecordTransferRequested()

	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if input.IdempotencyKey == "" {
		return nil, ErrMissingIdempotencyKey
	}

	// Directory lookup stays outside the debit section: no external I/O
	// while the wallet lock is held.
	toWalletID, err := s.directory.Resolve(ctx, input.ToPixKey)
	if err != nil {
		if errors.Is(err, pixkey.ErrKeyNotFound) {
			s.log.Warn("pix key not found", zap.String("to_pix_key", input.ToPixKey))
			return nil, ErrPixKeyNotFound
		}
		return nil, fmt.Errorf("failed to resolve pix key: %w", err)
	}

	var (
		transfer *models.PixTransfer
		created  bool
	)
	err = s.locker.WithLock(input.FromWalletID, func() error {
		return s.uow.Run(ctx, func(ctx context.Context) error {
			// Authoritative dedupe: the (fromWalletId, idempotencyKey)
			// uniqueness, not the response cache.
			existing, err := s.transfers.GetByFromWalletAndKey(ctx, input.FromWalletID, input.IdempotencyKey)
			if err == nil {
				s.metrics.RecordIdempotencyHit()
				s.log.Info("idempotency hit, returning existing transfer",
					zap.String("transfer_id", existing.ID.String()),
					zap.String("end_to_end_id", existing.EndToEndID),
				)
				transfer = existing
				return nil
			}
			if !errors.Is(err, repositories.ErrTransferNotFound) {
				return err
			}
			s.metrics.RecordIdempotencyMiss()

			fromWallet, err := s.wallets.GetByIDForUpdate(ctx, input.FromWalletID)
			if err != nil {
				if errors.Is(err, repositories.ErrWalletNotFound) {
					return ErrWalletNotFound
				}
				return err
			}

			balance, err := s.ledger.CurrentBalance(ctx, fromWallet.ID)
			if err != nil {
				return err
			}
			if balance.LessThan(input.Amount) {
				s.metrics.RecordInsufficientFunds()
				s.log.Warn("transfer rejected, insufficient funds",
					zap.String("from_wallet_id", fromWallet.ID.String()),
					zap.String("balance", balance.StringFixed(2)),
					zap.String("requested", input.Amount.StringFixed(2)),
				)
				return ErrInsufficientFunds
			}

			endToEndID := "E2E-" + uuid.NewString()
			transfer = &models.PixTransfer{
				EndToEndID:     endToEndID,
				FromWalletID:   fromWallet.ID,
				ToWalletID:     toWalletID,
				Amount:         input.Amount.Round(2),
				IdempotencyKey: input.IdempotencyKey,
				Status:         models.TransferStatusPending,
			}
			if err := s.transfers.Create(ctx, transfer); err != nil {
				return fmt.Errorf("failed to create transfer: %w", err)
			}
			created = true

			// Debit now; the matching credit or reversal arrives with the
			// settlement event. The amount is intentionally in flight in
			// between.
			refID := transfer.ID.String()
			_, err = s.ledger.Append(ctx, ledger.AppendInput{
				WalletID:      fromWallet.ID,
				OperationType: models.OperationPixDebit,
				Direction:     models.DirectionDebit,
				Amount:        transfer.Amount,
				ReferenceID:   &refID,
				EndToEndID:    &endToEndID,
				OccurredAt:    time.Now().UTC(),
			})
			return err
		})
	})
	if err != nil {
		// Another instance won the (fromWalletID, idempotencyKey) race;
		// the in-process locker only serializes this one. The winner's
		// row is the canonical result.
		if errors.Is(err, repositories.ErrDuplicateKey) {
			existing, lookupErr := s.transfers.GetByFromWalletAndKey(ctx, input.FromWalletID, input.IdempotencyKey)
			if lookupErr == nil {
				s.metrics.RecordIdempotencyHit()
				s.log.Info("lost creation race, returning existing transfer",
					zap.String("transfer_id", existing.ID.String()),
					zap.String("end_to_end_id", existing.EndToEndID),
				)
				return existing, nil
			}
		}
		return nil, err
	}

	if created {
		s.metrics.RecordTransferCreated()
		s.log.Info("pending transfer created",
			zap.String("transfer_id", transfer.ID.String()),
			zap.String("end_to_end_id", transfer.EndToEndID),
			zap.String("from_wallet_id", transfer.FromWalletID.String()),
			zap.String("to_wallet_id", transfer.ToWalletID.String()),
			zap.String("amount", transfer.Amount.StringFixed(2)),
		)
	}
	return transfer, nil
}

func (s *service) HandleWebhook(ctx context.Context, input WebhookInput) (WebhookOutcome, error) {
	start := time.Now()
	defer func() { s.metrics.RecordDuration("handle_webhook", time.Since(start)) }()
	s.metrics.RecordWebhookReceived(input.EventType)

	var outcome WebhookOutcome
	err := s.uow.Run(ctx, func(ctx context.Context) error {
		seen, err := s.events.ExistsByEventID(ctx, input.EventID)
		if err != nil {
			return err
		}
		if seen {
			s.log.Warn("duplicate event ignored",
				zap.String("event_id", input.EventID),
				zap.String("end_to_end_id", input.EndToEndID),
			)
			outcome = OutcomeDuplicate
			return nil
		}

		transfer, err := s.transfers.GetByEndToEndID(ctx, input.EndToEndID)
		if err != nil {
			if errors.Is(err, repositories.ErrTransferNotFound) {
				s.log.Warn("transfer not found for event",
					zap.String("event_id", input.EventID),
					zap.String("end_to_end_id", input.EndToEndID),
				)
				return ErrTransferNotFound
			}
			return err
		}

		// Recorded in the same unit of work as the mutation below, so the
		// dedupe mark and the ledger change commit or roll back together.
		event := &models.PixEvent{
			EventID:    input.EventID,
			EndToEndID: input.EndToEndID,
			EventType:  input.EventType,
			OccurredAt: input.OccurredAt,
		}
		if err := s.events.Create(ctx, event); err != nil {
			return fmt.Errorf("failed to persist event: %w", err)
		}

		if transfer.Finalized() {
			s.log.Info("transfer already finalized, event recorded only",
				zap.String("end_to_end_id", input.EndToEndID),
				zap.String("status", transfer.Status),
			)
			outcome = OutcomeAlreadyFinalized
			return nil
		}

		switch input.EventType {
		case models.EventTypeConfirmed:
			if err := s.settle(ctx, transfer, models.OperationPixCredit, transfer.ToWalletID, models.TransferStatusConfirmed, input.OccurredAt); err != nil {
				return err
			}
		case models.EventTypeRejected:
			// Reversal credits the source wallet, undoing the debit taken
			// at creation.
			if err := s.settle(ctx, transfer, models.OperationPixReversal, transfer.FromWalletID, models.TransferStatusRejected, input.OccurredAt); err != nil {
				return err
			}
		default:
			s.log.Warn("unsupported event type",
				zap.String("event_id", input.EventID),
				zap.String("event_type", input.EventType),
			)
			outcome = OutcomeUnsupported
			return nil
		}
		outcome = OutcomeApplied
		return nil
	})
	if err != nil {
		// Both deliveries of the same event_id passed the existence check
		// on their own snapshots; the loser's insert hit the unique index.
		// The unit of work rolled back, so acknowledging as a duplicate
		// leaves exactly one applied mutation.
		if errors.Is(err, repositories.ErrDuplicateKey) {
			s.log.Warn("duplicate event lost insert race, ignored",
				zap.String("event_id", input.EventID),
				zap.String("end_to_end_id", input.EndToEndID),
			)
			s.metrics.RecordWebhookOutcome(input.EventType, OutcomeDuplicate)
			return OutcomeDuplicate, nil
		}
		return "", err
	}

	s.metrics.RecordWebhookOutcome(input.EventType, outcome)
	return outcome, nil
}

func (s *service) settle(ctx context.Context, transfer *models.PixTransfer, operationType string, walletID uuid.UUID, status string, occurredAt time.Time) error {
	refID := transfer.ID.String()
	endToEndID := transfer.EndToEndID
	_, err := s.ledger.Append(ctx, ledger.AppendInput{
		WalletID:      walletID,
		OperationType: operationType,
		Direction:     models.DirectionCredit,
		Amount:        transfer.Amount,
		ReferenceID:   &refID,
		EndToEndID:    &endToEndID,
		OccurredAt:    occurredAt,
	})
	if err != nil {
		return err
	}

	if err := s.transfers.UpdateStatus(ctx, transfer.ID, transfer.Version, status); err != nil {
		return fmt.Errorf("failed to update transfer status: %w", err)
	}

	s.log.Info("transfer settled",
		zap.String("transfer_id", transfer.ID.String()),
		zap.String("end_to_end_id", transfer.EndToEndID),
		zap.String("status", status),
		zap.String("amount", transfer.Amount.StringFixed(2)),
	)
	s.metrics.RecordSettledAmount(status, transfer.Amount)
	return nil
}
