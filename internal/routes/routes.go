// Package routes defines the API routing configuration.
// It wires repositories, services and handlers together and registers all
// HTTP routes on the fiber app.
package routes

import (
	"pixwallet/internal/handlers"
	"pixwallet/internal/locks"
	"pixwallet/internal/metrics"
	"pixwallet/internal/repositories"
	"pixwallet/internal/repositories/cache"
	"pixwallet/internal/services/idempotency"
	"pixwallet/internal/services/ledger"
	"pixwallet/internal/services/pix"
	"pixwallet/internal/services/pixkey"
	"pixwallet/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies carries the process-level resources the routes need.
// Cache may be nil; services degrade to postgres-only lookups without it.
type Dependencies struct {
	DB    *gorm.DB
	Cache *cache.Service
	Log   *zap.Logger
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	// Repositories
	walletRepo := repositories.NewWalletRepository(deps.DB)
	ledgerRepo := repositories.NewLedgerEntryRepository(deps.DB)
	transferRepo := repositories.NewPixTransferRepository(deps.DB)
	eventRepo := repositories.NewPixEventRepository(deps.DB)
	pixKeyRepo := repositories.NewPixKeyRepository(deps.DB)
	idemRepo := repositories.NewIdempotencyRecordRepository(deps.DB)

	uow := repositories.NewUnitOfWork(deps.DB)
	locker := locks.NewWalletLocker()

	// Services
	ledgerService := ledger.NewService(ledgerRepo, log, metrics.NewLedgerCollector())
	walletService := wallet.NewService(
		walletRepo,
		ledgerService,
		uow,
		locker,
		log,
		metrics.NewWalletCollector(),
	)
	pixKeyService := pixkey.NewService(pixKeyRepo, walletRepo, deps.Cache, log)
	idemService := idempotency.NewService(idemRepo, deps.Cache, log)
	pixService := pix.NewService(
		transferRepo,
		eventRepo,
		walletRepo,
		ledgerService,
		pixKeyService,
		uow,
		locker,
		log,
		metrics.NewPixCollector(),
	)

	// Handlers
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Cache)
	walletHandler := handlers.NewWalletHandler(walletService, pixKeyService)
	transferHandler := handlers.NewPixTransferHandler(pixService, idemService, log)
	webhookHandler := handlers.NewPixWebhookHandler(pixService, log)

	app.Get("/health", healthHandler.HealthCheck)

	api := app.Group("/api")

	wallets := api.Group("/wallets")
	wallets.Post("/", walletHandler.CreateWallet)
	wallets.Get("/:id", walletHandler.GetWallet)
	wallets.Get("/:id/balance", walletHandler.GetBalance)
	wallets.Get("/:id/statement", walletHandler.GetStatement)
	wallets.Post("/:id/deposit", walletHandler.Deposit)
	wallets.Post("/:id/withdraw", walletHandler.Withdraw)
	wallets.Post("/:id/pix-keys", walletHandler.RegisterPixKey)

	pixGroup := api.Group("/pix")
	pixGroup.Post("/transfers", transferHandler.CreateTransfer)
	pixGroup.Post("/webhook", webhookHandler.HandleWebhook)
}
