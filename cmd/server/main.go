// Package main is the entry point for the settlement service.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pixwallet/internal/config"
	applogger "pixwallet/internal/logger"
	"pixwallet/internal/metrics"
	"pixwallet/internal/repositories"
	"pixwallet/internal/repositories/cache"
	"pixwallet/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	zlog, err := applogger.New("pixwallet", config.GetEnv("ENV", "development"))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// PostgreSQL
	db, err := repositories.Connect(repositories.DefaultDBConfig())
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zlog.Fatal("failed to get database instance", zap.Error(err))
	}
	defer sqlDB.Close()
	zlog.Info("connected to database")

	// Redis (optional; the service runs postgres-only without it)
	var cacheService *cache.Service
	if config.GetBoolEnv("REDIS_ENABLED", true) {
		redisClient := cache.NewRedisClient(&cache.RedisConfig{
			Host:     config.GetEnv("REDIS_HOST", "localhost"),
			Port:     config.GetEnv("REDIS_PORT", "6379"),
			Password: config.GetEnv("REDIS_PASSWORD", ""),
			DB:       config.GetIntEnv("REDIS_DB", 0),
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			zlog.Warn("redis unreachable, continuing without cache", zap.Error(err))
		} else {
			ttl := config.GetDurationEnv("CACHE_TTL", time.Hour)
			cacheService = cache.NewService(redisClient, ttl)
			defer cacheService.Close()
			zlog.Info("connected to redis")
		}
	}

	// Metrics and health on a separate port
	metricsSrv := metrics.StartServer(config.GetEnv("METRICS_PORT", "9090"), func(ctx context.Context) error {
		return sqlDB.PingContext(ctx)
	})

	app := fiber.New(fiber.Config{
		AppName:      "pixwallet",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Idempotency-Key",
		AllowMethods: "GET,POST,HEAD",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api/pix/transfers", limiter.New(limiter.Config{
		Max:        config.GetIntEnv("TRANSFER_RATE_LIMIT", 100),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		DB:    db,
		Cache: cacheService,
		Log:   zlog,
	})

	go func() {
		if err := app.Listen(":" + config.GetEnv("PORT", "3000")); err != nil {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()
	zlog.Info("server started", zap.String("port", config.GetEnv("PORT", "3000")))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("metrics server shutdown failed", zap.Error(err))
	}
}
