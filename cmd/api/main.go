package main

// @title Telangana Crime Dashboard API
// @version 1.0.0
// @description Статистика преступлений по районам Телангана из открытого CSV и неофициальные сообщения граждан.
// @description
// @description Основные возможности:
// @description - Фильтры по году, району, категории и типу преступления
// @description - Сводка, рейтинг районов, сравнение с прошлым годом, карта с уровнями
// @description - Приём сообщений от граждан и модерация

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/crime-dashboard/docs/swagger"
	"github.com/crime-dashboard/internal/catalog"
	"github.com/crime-dashboard/internal/config"
	"github.com/crime-dashboard/internal/dataset"
	httpDelivery "github.com/crime-dashboard/internal/delivery/http"
	"github.com/crime-dashboard/internal/delivery/http/handler"
	"github.com/crime-dashboard/internal/pkg/logger"
	"github.com/crime-dashboard/internal/repository/cache"
	"github.com/crime-dashboard/internal/repository/postgres"
	redisRepo "github.com/crime-dashboard/internal/repository/redis"
	"github.com/crime-dashboard/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Crime Dashboard API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("dataset_source", cfg.Dataset.Source),
		zap.Bool("allow_synthetic", cfg.Dataset.AllowSynthetic),
	)
	if cfg.Auth.AdminAPIKey == "" {
		log.Warn("ADMIN_API_KEY is empty, moderation endpoints are disabled")
	}

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}
	log.Info("All connections healthy")

	// 6. Catalog and dataset
	cat, err := catalog.Default()
	if err != nil {
		log.Fatal("Failed to load catalog", zap.Error(err))
	}

	var loaderOpts []dataset.LoaderOption
	if cfg.Dataset.AllowSynthetic {
		loaderOpts = append(loaderOpts, dataset.WithSyntheticFallback(cfg.Dataset.SyntheticSeed))
	}
	loader := dataset.NewLoader(
		dataset.NewSource(cfg.Dataset.Source, cfg.Dataset.FetchTimeout),
		log,
		loaderOpts...,
	)

	// 7. Initialize repositories
	reportRepo := postgres.NewReportRepository(db, log)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)
	publisher := redisRepo.NewEventPublisher(streamRepo)

	log.Info("Repositories initialized")

	// 8. Initialize use cases
	statsUC := usecase.NewCrimeStatsUseCase(loader, cache.NewQueryCache(cfg.Cache.QueryCacheTTL), cat, log)
	reportUC := usecase.NewReportUseCase(reportRepo, cacheRepo, publisher, cat, usecase.ReportUseCaseConfig{
		AutoApprove: cfg.Reports.AutoApprove,
		FeedTTL:     cfg.Cache.ApprovedReportsTTL,
	}, log)
	moderationUC := usecase.NewModerationStatsUseCase(reportRepo, cacheRepo, cfg.Cache.ModerationSummaryTTL, log)
	dashboardUC := usecase.NewDashboardUseCase(statsUC, reportUC, log)

	// Первый запрос не должен ждать загрузки CSV
	preloadTimeout := cfg.Dataset.FetchTimeout + 5*time.Second
	preloadCtx, preloadCancel := context.WithTimeout(context.Background(), preloadTimeout)
	info, err := statsUC.DatasetInfo(preloadCtx)
	preloadCancel()
	if err != nil {
		log.Warn("Dataset is not available yet, will retry on demand", zap.Error(err))
	} else {
		log.Info("Dataset ready",
			zap.String("source", info.Source),
			zap.Int("records", info.Records),
			zap.Bool("synthetic", info.Synthetic))
	}

	log.Info("Use cases initialized")

	// 9. Initialize HTTP server
	server := httpDelivery.NewServer(cfg, log, httpDelivery.Handlers{
		Health: handler.NewHealthHandler(map[string]handler.HealthChecker{
			"postgres": db,
			"redis":    redisClient,
		}, log),
		Crime:   handler.NewCrimeHandler(statsUC, dashboardUC, log),
		Catalog: handler.NewCatalogHandler(cat, log),
		Reports: handler.NewReportHandler(reportUC, moderationUC, log),
	})

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
