package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	appadvisor "github.com/wareline/backend/internal/application/advisor"
	appcatalog "github.com/wareline/backend/internal/application/catalog"
	appinventory "github.com/wareline/backend/internal/application/inventory"
	apppartner "github.com/wareline/backend/internal/application/partner"
	apptrade "github.com/wareline/backend/internal/application/trade"
	"github.com/wareline/backend/internal/domain/shared"
	"github.com/wareline/backend/internal/infrastructure/auth"
	"github.com/wareline/backend/internal/infrastructure/cache"
	"github.com/wareline/backend/internal/infrastructure/config"
	"github.com/wareline/backend/internal/infrastructure/logger"
	"github.com/wareline/backend/internal/infrastructure/persistence"
	"github.com/wareline/backend/internal/interfaces/http/handler"
	"github.com/wareline/backend/internal/interfaces/http/router"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version))

	gormLog := logger.NewGormLogger(log, gormLogLevel(cfg.App.Env))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if cfg.Telemetry.DBTracingEnabled {
		if err := persistence.RegisterTracing(db.DB, cfg.Database.DBName, log); err != nil {
			log.Fatal("database tracing registration failed", zap.Error(err))
		}
	}

	// Advisor caching degrades to in-memory when Redis is unreachable.
	var listingCache appadvisor.ListingCache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, using in-memory advice cache", zap.Error(err))
		listingCache = cache.NewInMemoryListingCache()
	} else {
		defer func() { _ = redisClient.Close() }()
		listingCache = cache.NewRedisListingCache(redisClient, cfg.App.Name)
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	productSupplierRepo := persistence.NewGormProductSupplierRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	stockRecordRepo := persistence.NewGormStockRecordRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	eventBus := shared.NewInMemoryEventBus()
	eventBus.Subscribe(appadvisor.NewLowStockAlertHandler(listingCache, log))
	ledger := appinventory.NewLedgerService(txScope, productRepo, warehouseRepo, log)
	ledger.SetEventPublisher(eventBus)

	productService := appcatalog.NewProductService(productRepo, productSupplierRepo, supplierRepo, ledger, log)
	warehouseService := apppartner.NewWarehouseService(warehouseRepo, log)
	supplierService := apppartner.NewSupplierService(supplierRepo, log)
	orderService := apptrade.NewPurchaseOrderService(txScope, ledger, supplierRepo, warehouseRepo, productRepo, log)
	transferService := apptrade.NewTransferService(txScope, ledger, warehouseRepo, productRepo, log)
	advisorService := appadvisor.NewReorderService(
		productRepo, productSupplierRepo, supplierRepo, stockRecordRepo, movementRepo, listingCache, log)
	advisorService.SetCacheTTL(cfg.Advisor.CacheTTL)

	verifier := auth.NewVerifier(cfg.JWT)

	engine := router.New(cfg, log, verifier, router.Handlers{
		System:        handler.NewSystemHandler(db.DB, version),
		Stock:         handler.NewStockHandler(ledger),
		PurchaseOrder: handler.NewPurchaseOrderHandler(orderService),
		Transfer:      handler.NewTransferHandler(transferService),
		Product:       handler.NewProductHandler(productService),
		Warehouse:     handler.NewWarehouseHandler(warehouseService),
		Supplier:      handler.NewSupplierHandler(supplierService),
		Advisor:       handler.NewAdvisorHandler(advisorService),
	})

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("stopped")
}

func gormLogLevel(env string) gormlogger.LogLevel {
	if env == "production" {
		return gormlogger.Error
	}
	return gormlogger.Warn
}
