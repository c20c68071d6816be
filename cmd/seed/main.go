// Seeds a pair of demo wallets with pix keys and opening balances.
// Meant for local development only.
package main

import (
	"context"
	"log"

	"pixwallet/internal/config"
	"pixwallet/internal/locks"
	"pixwallet/internal/models"
	"pixwallet/internal/repositories"
	"pixwallet/internal/services/ledger"
	"pixwallet/internal/services/pixkey"
	"pixwallet/internal/services/wallet"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()

	db, err := repositories.Connect(repositories.DefaultDBConfig())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	zlog := zap.NewNop()
	walletRepo := repositories.NewWalletRepository(db)
	ledgerRepo := repositories.NewLedgerEntryRepository(db)
	pixKeyRepo := repositories.NewPixKeyRepository(db)
	uow := repositories.NewUnitOfWork(db)
	locker := locks.NewWalletLocker()

	ledgerService := ledger.NewService(ledgerRepo, zlog, nil)
	walletService := wallet.NewService(walletRepo, ledgerService, uow, locker, zlog, nil)
	pixKeyService := pixkey.NewService(pixKeyRepo, walletRepo, nil, zlog)

	ctx := context.Background()

	seeds := []struct {
		owner    string
		keyType  string
		keyValue string
		opening  string
	}{
		{"alice", models.PixKeyTypeEmail, "alice@example.com", "1000.00"},
		{"bob", models.PixKeyTypePhone, "+5511999990000", "250.00"},
	}

	for _, s := range seeds {
		if _, err := pixKeyRepo.GetByKeyValue(ctx, s.keyValue); err == nil {
			log.Printf("Wallet for %s already seeded, skipping", s.owner)
			continue
		}

		w, err := walletService.CreateWallet(ctx, s.owner)
		if err != nil {
			log.Fatalf("Failed to create wallet for %s: %v", s.owner, err)
		}

		if _, err := pixKeyService.Register(ctx, w.ID, s.keyType, s.keyValue); err != nil {
			log.Fatalf("Failed to register pix key for %s: %v", s.owner, err)
		}

		amount, err := decimal.NewFromString(s.opening)
		if err != nil {
			log.Fatalf("Invalid opening balance for %s: %v", s.owner, err)
		}
		if _, err := walletService.Deposit(ctx, w.ID, amount); err != nil {
			log.Fatalf("Failed to deposit opening balance for %s: %v", s.owner, err)
		}

		log.Printf("Seeded wallet %s for %s (pix key %s, opening balance %s)",
			w.ID, s.owner, s.keyValue, s.opening)
	}

	log.Println("Seeding complete")
}
