package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fundguard.backend/internal/config"
	"fundguard.backend/internal/domain/entities"
	"fundguard.backend/internal/infrastructure/jobs"
	"fundguard.backend/internal/infrastructure/repositories"
	"fundguard.backend/internal/interfaces/http/handlers"
	"fundguard.backend/internal/interfaces/http/middleware"
	"fundguard.backend/internal/usecases"
	"fundguard.backend/pkg/jwt"
	"fundguard.backend/pkg/logger"
	"fundguard.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("connected to PostgreSQL via GORM")
	}

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	deliveryRepo := repositories.NewDeliveryRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	verificationRepo := repositories.NewVerificationRepository(db)
	causeRepo := repositories.NewCauseRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService)
	verificationUsecase := usecases.NewVerificationUsecase(
		verificationRepo, ledgerRepo,
		cfg.Release.Level2Threshold, cfg.Release.VerificationExpiry,
	)
	deliveryUsecase := usecases.NewDeliveryUsecase(deliveryRepo, auditRepo, uow)

	policy := usecases.LedgerPolicy{
		AutoApproveThreshold: cfg.Release.AutoApproveThreshold,
		ConflictRetries:      cfg.Release.ConflictRetries,
	}
	if cfg.Release.DefaultCauseID != "" {
		if id, err := uuid.Parse(cfg.Release.DefaultCauseID); err == nil {
			policy.DefaultCauseID = &id
		} else {
			log.Printf("invalid DEFAULT_CAUSE_ID %q, ignoring", cfg.Release.DefaultCauseID)
		}
	}

	entryLock := redis.NewEntityLock("ledger", redis.DefaultLockLease)
	ledgerUsecase := usecases.NewLedgerUsecase(
		ledgerRepo, auditRepo, deliveryRepo, causeRepo, uow,
		verificationUsecase, usecases.AlwaysPassFraudChecker{},
		deliveryUsecase, entryLock, policy,
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	ledgerHandler := handlers.NewLedgerHandler(ledgerUsecase)
	deliveryHandler := handlers.NewDeliveryHandler(deliveryUsecase)
	verificationHandler := handlers.NewVerificationHandler(verificationUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweepJob := jobs.NewHeldSweepJob(ledgerRepo, func(jobCtx context.Context, entry *entities.FundLedgerEntry) error {
		return ledgerUsecase.AdvanceToHeld(jobCtx, entry.ID)
	})
	go sweepJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:         authHandler,
		ledgerHandler:       ledgerHandler,
		deliveryHandler:     deliveryHandler,
		verificationHandler: verificationHandler,
		authMiddleware:      authMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("shutting down server...")
		sweepJob.Stop()
		cancel()
	}()

	log.Printf("FundGuard backend starting on port %s", cfg.Server.Port)
	log.Printf("API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
