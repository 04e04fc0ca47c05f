package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	inventoryapp "github.com/praxis/backend/internal/application/inventory"
	procurementapp "github.com/praxis/backend/internal/application/procurement"
	"github.com/praxis/backend/internal/infrastructure/cache"
	"github.com/praxis/backend/internal/infrastructure/config"
	"github.com/praxis/backend/internal/infrastructure/event"
	"github.com/praxis/backend/internal/infrastructure/logger"
	"github.com/praxis/backend/internal/infrastructure/persistence"
	"github.com/praxis/backend/internal/infrastructure/telemetry"
	"github.com/praxis/backend/internal/interfaces/http/handler"
	"github.com/praxis/backend/internal/interfaces/http/middleware"
	"github.com/praxis/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Praxis Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
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
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	receiptRepo := persistence.NewGormGoodsReceiptRepository(db.DB)
	discrepancyRepo := persistence.NewGormDiscrepancyRepository(db.DB)
	stockRepo := persistence.NewGormStockItemRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	orderService := procurementapp.NewOrderService(orderRepo, receiptRepo)
	receiptService := procurementapp.NewGoodsReceiptService(
		receiptRepo, orderRepo, discrepancyRepo, stockRepo, txScope, log,
	)
	discrepancyService := procurementapp.NewDiscrepancyService(discrepancyRepo)
	stockService := inventoryapp.NewStockService(stockRepo)

	// Idempotency store for receipt confirmation. Redis-backed when
	// configured so retried confirmations deduplicate across replicas.
	if cfg.Receiving.UseRedisIdempotency {
		store, err := cache.NewRedisIdempotencyStore(cfg.Redis, cfg.Receiving.IdempotencyTTL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Error("Error closing Redis idempotency store", zap.Error(err))
			}
		}()
		receiptService.SetIdempotencyStore(store)
		log.Info("Redis idempotency store enabled",
			zap.Duration("ttl", cfg.Receiving.IdempotencyTTL),
		)
	} else {
		receiptService.SetIdempotencyStore(cache.NewInMemoryIdempotencyStore(cfg.Receiving.IdempotencyTTL))
	}

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Receipt confirmation -> low-stock alerting
	lowStockHandler := inventoryapp.NewLowStockHandler(log).
		WithNotifier(inventoryapp.NewLoggingLowStockNotifier(log))
	eventBus.Subscribe(lowStockHandler)

	log.Info("Event handlers registered",
		zap.Strings("low_stock_events", lowStockHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	orderService.SetEventPublisher(eventBus)
	receiptService.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	orderHandler := handler.NewOrderHandler(orderService)
	receiptHandler := handler.NewGoodsReceiptHandler(receiptService)
	discrepancyHandler := handler.NewDiscrepancyHandler(discrepancyService)
	stockHandler := handler.NewStockHandler(stockService)
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

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Every API route is scoped to a practice via the X-Practice-ID header
	practiceConfig := middleware.DefaultPracticeConfig()
	practiceConfig.Logger = log
	engine.Use(middleware.PracticeMiddlewareWithConfig(practiceConfig))

	// Health endpoints sit outside API versioning and practice scoping
	systemHandler.RegisterRoutes(engine)

	// Register versioned API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(orderHandler).
		Register(receiptHandler).
		Register(discrepancyHandler).
		Register(stockHandler)
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
