package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	claimapp "github.com/salesops/backend/internal/application/claims"
	incentiveapp "github.com/salesops/backend/internal/application/incentive"
	proformaapp "github.com/salesops/backend/internal/application/proforma"
	reconciliationapp "github.com/salesops/backend/internal/application/reconciliation"
	shippingapp "github.com/salesops/backend/internal/application/shipping"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/infrastructure/config"
	"github.com/salesops/backend/internal/infrastructure/logger"
	"github.com/salesops/backend/internal/infrastructure/persistence"
	"github.com/salesops/backend/internal/infrastructure/runguard"
	"github.com/salesops/backend/internal/interfaces/http/handler"
	"github.com/salesops/backend/internal/interfaces/http/middleware"
	"github.com/salesops/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SalesOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	profileRepo := persistence.NewGormCreditProfileRepository(db.DB)
	voucherRepo := persistence.NewGormVoucherRepository(db.DB)
	statusRepo := persistence.NewGormVoucherStatusRepository(db.DB)
	scheduleRepo := persistence.NewGormRateScheduleRepository(db.DB)
	claimRepo := persistence.NewGormClaimRecordRepository(db.DB)
	salesQueryRepo := persistence.NewGormSalesQueryRepository(db.DB)

	// Per-customer run guard: Redis when configured, in-process otherwise.
	// A single-instance deployment does not need Redis for correctness.
	var guard shared.RunGuard
	if cfg.Redis.Enabled {
		redisGuard, err := runguard.NewRedisGuard(&cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		guard = redisGuard
		log.Info("Using Redis run guard",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	} else {
		memGuard := runguard.NewMemoryGuard()
		defer memGuard.Close()
		guard = memGuard
		log.Info("Using in-memory run guard")
	}

	// Initialize application services
	runService := reconciliationapp.NewRunService(
		profileRepo, voucherRepo, statusRepo, guard, log,
		reconciliationapp.WithWorkers(cfg.Run.Workers),
		reconciliationapp.WithGuardTTL(cfg.Run.GuardTTL),
	)
	claimService := claimapp.NewClaimService(claimRepo, voucherRepo, log)
	quoteService := proformaapp.NewQuoteService(scheduleRepo, log)
	courierService := shippingapp.NewCourierService(scheduleRepo, log)
	incentiveService := incentiveapp.NewIncentiveService(salesQueryRepo, scheduleRepo, log)

	// Initialize HTTP handlers
	claimHandler := handler.NewClaimHandler(claimService)
	reconciliationHandler := handler.NewReconciliationHandler(runService, profileRepo, statusRepo)
	pricingHandler := handler.NewPricingHandler(scheduleRepo, quoteService, courierService, incentiveService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health endpoints outside API versioning
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(claimHandler).
		Register(reconciliationHandler).
		Register(pricingHandler)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	systemRoutes.GET("/health", systemHandler.Health)
	r.Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
