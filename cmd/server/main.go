package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	purchasingapp "github.com/erp/purchase-discount/internal/application/purchasing"
	tradeapp "github.com/erp/purchase-discount/internal/application/trade"
	"github.com/erp/purchase-discount/internal/domain/purchasing"
	"github.com/erp/purchase-discount/internal/infrastructure/cache"
	"github.com/erp/purchase-discount/internal/infrastructure/config"
	"github.com/erp/purchase-discount/internal/infrastructure/currency"
	"github.com/erp/purchase-discount/internal/infrastructure/i18n"
	"github.com/erp/purchase-discount/internal/infrastructure/logger"
	"github.com/erp/purchase-discount/internal/infrastructure/persistence"
	"github.com/erp/purchase-discount/internal/infrastructure/pricing"
	"github.com/erp/purchase-discount/internal/infrastructure/telemetry"
	"github.com/erp/purchase-discount/internal/infrastructure/uom"
	"github.com/erp/purchase-discount/internal/interfaces/http/handler"
	"github.com/erp/purchase-discount/internal/interfaces/http/middleware"
	"github.com/erp/purchase-discount/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting purchase discount service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Tracing
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Log export: from here on every entry is also sent to the collector
	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	defer func() {
		if err := lp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	logLevel, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		logLevel = zapcore.InfoLevel
	}
	log = lp.Bridge(log, cfg.Telemetry.ServiceName, logLevel)

	// Database with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(ctx, db.DB, mp, telemetry.DBMetricsConfig{
		Enabled:            true,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		PoolStatsInterval:  cfg.Telemetry.DBPoolStatsInterval,
	}, log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		defer dbMetrics.Stop()
	}
	pricingMetrics, err := telemetry.NewPricingMetrics(mp)
	if err != nil {
		log.Fatal("Failed to create pricing metrics", zap.Error(err))
	}

	// Exchange rate cache: Redis when enabled, in-memory otherwise
	rateCache, closeCache, err := cache.NewRateCache(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to initialize rate cache", zap.Error(err))
	}
	defer func() {
		if err := closeCache(); err != nil {
			log.Error("Error closing rate cache", zap.Error(err))
		}
	}()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	productSupplierRepo := persistence.NewGormProductSupplierRepository(db.DB)
	supplierPriceRepo := persistence.NewGormSupplierPriceRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	unitRepo := persistence.NewGormUnitRepository(db.DB)
	rateRepo := persistence.NewGormCurrencyRateRepository(db.DB)

	// Pricing collaborators
	companyCurrency := cfg.Pricing.Currency()
	unitConverter := uom.NewConverter(unitRepo)
	currencyConverter := currency.NewConverter(companyCurrency, rateRepo, rateCache, cfg.Pricing.RateCacheTTL)
	localizer, err := i18n.New(cfg.Pricing.Locale)
	if err != nil {
		log.Fatal("Failed to initialize localizer", zap.Error(err))
	}
	reconciler := purchasing.NewReconciler(cfg.Pricing.Digits())
	selector := purchasing.NewSelector(
		reconciler,
		pricing.NewQuantityTierMatcher(unitConverter),
		unitConverter,
		currencyConverter,
		persistence.NewGormLastPurchasePriceLookup(db.DB, unitConverter),
		localizer,
	)

	// Application services
	supplierPriceService := purchasingapp.NewSupplierPriceService(
		supplierPriceRepo, productSupplierRepo, reconciler, localizer, companyCurrency, log).
		WithMetrics(pricingMetrics)
	quoteService := purchasingapp.NewQuoteService(productRepo, selector, companyCurrency, log).
		WithMetrics(pricingMetrics)
	purchaseOrderService := tradeapp.NewPurchaseOrderService(
		purchaseOrderRepo, productRepo, selector, companyCurrency, log)

	healthChecks := map[string]handler.Pinger{"database": db}
	if pinger, ok := rateCache.(handler.Pinger); ok {
		healthChecks["rate_cache"] = pinger
	}

	mode := gin.DebugMode
	if cfg.App.Env == "production" {
		mode = gin.ReleaseMode
	}
	engine, err := router.NewEngine(router.EngineConfig{
		Mode:           mode,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Metrics: mp,
	}, router.Handlers{
		SupplierPrice: handler.NewSupplierPriceHandler(supplierPriceService),
		Quote:         handler.NewQuoteHandler(quoteService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(purchaseOrderService),
		Health:        handler.NewHealthHandler(cfg.App.Name, version, healthChecks),
	}, log)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
