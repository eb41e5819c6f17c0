package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fxvault.backend/internal/config"
	"fxvault.backend/internal/infrastructure/datasources/postgres"
	"fxvault.backend/internal/infrastructure/events"
	"fxvault.backend/internal/infrastructure/jobs"
	"fxvault.backend/internal/infrastructure/payment"
	"fxvault.backend/internal/infrastructure/repositories"
	"fxvault.backend/internal/infrastructure/storage"
	"fxvault.backend/internal/interfaces/http/handlers"
	"fxvault.backend/internal/interfaces/http/middleware"
	"fxvault.backend/internal/usecases"
	"fxvault.backend/pkg/jwt"
	"fxvault.backend/pkg/logger"
	"fxvault.backend/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	loadDotenv      = godotenv.Load
	loadCfg         = config.Load
	initLog         = logger.Init
	initRedis       = redis.Init
	openDB          = postgres.NewConnection
	applyMigrations = postgres.Apply
	newSessionStore = redis.NewSessionStore
	runServer       = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB        = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	dotenvErr := loadDotenv()

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	ctx := context.Background()
	if dotenvErr != nil {
		logger.Info(ctx, "No .env file found, using environment variables")
	}
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redis.Close()
	logger.Info(ctx, "Redis initialized")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()
	logger.Info(ctx, "Connected to PostgreSQL")

	if cfg.Database.RunMigrations {
		if err := applyMigrations(ctx, sqlDB); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		logger.Info(ctx, "Migrations applied")
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	publisher := events.NewPublisher(cfg.Events)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn(ctx, "Failed to close event publisher", zap.Error(err))
		}
	}()

	fileStore, err := storage.NewLocalStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize upload storage: %w", err)
	}
	paymentClient := payment.NewClient(cfg.Payment)

	// Repositories
	uow := repositories.NewUnitOfWork(db)
	userRepo := repositories.NewUserRepository(db)
	depositRepo := repositories.NewDepositRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)
	walletRepo := repositories.NewWalletRepository(db)
	packageRepo := repositories.NewPackageRepository(db)
	investmentRepo := repositories.NewInvestmentRepository(db)
	roundRepo := repositories.NewTradeRoundRepository(db)
	tradeRepo := repositories.NewTradeRepository(db)
	kycRepo := repositories.NewKYCRepository(db)
	commissionRepo := repositories.NewCommissionRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)
	contactRepo := repositories.NewContactRepository(db)

	// Usecases
	settingsUsecase := usecases.NewSettingsUsecase(settingsRepo, auditRepo)
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService, sessionStore)
	depositUsecase := usecases.NewDepositUsecase(uow, depositRepo, walletRepo, userRepo, commissionRepo, auditRepo, settingsUsecase, paymentClient, publisher, cfg.Payment)
	withdrawalUsecase := usecases.NewWithdrawalUsecase(uow, withdrawalRepo, walletRepo, userRepo, auditRepo, settingsUsecase, publisher)
	walletUsecase := usecases.NewWalletUsecase(walletRepo, auditRepo)
	investmentUsecase := usecases.NewInvestmentUsecase(uow, packageRepo, investmentRepo, userRepo, auditRepo, publisher)
	tradeUsecase := usecases.NewTradeUsecase(uow, roundRepo, tradeRepo, userRepo, auditRepo, settingsUsecase, publisher)
	kycUsecase := usecases.NewKYCUsecase(uow, kycRepo, userRepo, auditRepo)
	referralUsecase := usecases.NewReferralUsecase(userRepo, commissionRepo)
	dashboardUsecase := usecases.NewDashboardUsecase(userRepo, depositRepo, withdrawalRepo, investmentRepo, roundRepo, tradeRepo, kycRepo)
	adminUserUsecase := usecases.NewAdminUserUsecase(uow, userRepo, depositRepo, withdrawalRepo, investmentRepo, tradeRepo, auditRepo)
	contactUsecase := usecases.NewContactUsecase(contactRepo)

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	maturityJob := jobs.NewInvestmentMaturityJob(investmentUsecase, cfg.Jobs.MaturityInterval)
	settlementJob := jobs.NewRoundSettlementJob(tradeUsecase, cfg.Jobs.SettlementInterval)
	go maturityJob.Start(jobCtx)
	go settlementJob.Start(jobCtx)
	defer maturityJob.Stop()
	defer settlementJob.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r, cfg.Server.AllowedOrigin)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:           handlers.NewAuthHandler(authUsecase, cfg.JWT.RefreshExpiry, cfg.Security.CookieSecure),
		dashboardHandler:      handlers.NewDashboardHandler(dashboardUsecase, referralUsecase),
		depositHandler:        handlers.NewDepositHandler(depositUsecase),
		paymentWebhookHandler: handlers.NewPaymentWebhookHandler(depositUsecase),
		withdrawalHandler:     handlers.NewWithdrawalHandler(withdrawalUsecase),
		walletHandler:         handlers.NewWalletHandler(walletUsecase),
		investmentHandler:     handlers.NewInvestmentHandler(investmentUsecase),
		tradeHandler:          handlers.NewTradeHandler(tradeUsecase),
		kycHandler:            handlers.NewKYCHandler(kycUsecase),
		settingsHandler:       handlers.NewSettingsHandler(settingsUsecase, contactUsecase),
		uploadHandler:         handlers.NewUploadHandler(fileStore),
		adminUserHandler:      handlers.NewAdminUserHandler(adminUserUsecase),
		authMiddleware:        middleware.AuthMiddleware(jwtService, authUsecase),
		maintenanceMiddleware: middleware.MaintenanceMiddleware(settingsUsecase),
		authRateLimit:         middleware.RateLimitMiddleware(cfg.RateLimit.AuthPerMinute),
		contactRateLimit:      middleware.RateLimitMiddleware(cfg.RateLimit.ContactPerMinute),
	})
	logger.Debug(ctx, "Routes registered", zap.Int("count", len(r.Routes())))

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(ctx, "Shutting down background jobs")
		maturityJob.Stop()
		settlementJob.Stop()
		cancel()
	}()

	logger.Info(ctx, "FXVault backend starting",
		zap.String("port", cfg.Server.Port),
		zap.String("api", "http://localhost:"+cfg.Server.Port+"/api/v1"),
	)
	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
