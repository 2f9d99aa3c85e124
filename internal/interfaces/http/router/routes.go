package router

import (
	"github.com/erp/purchase-discount/internal/infrastructure/logger"
	"github.com/erp/purchase-discount/internal/infrastructure/telemetry"
	"github.com/erp/purchase-discount/internal/interfaces/http/handler"
	"github.com/erp/purchase-discount/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EngineConfig controls the middleware chain of the engine
type EngineConfig struct {
	Mode           string // gin mode; empty keeps the current one
	MaxBodySize    int64
	TrustedProxies []string
	Tracing        middleware.TracingConfig
	Metrics        *telemetry.MeterProvider // nil or disabled skips HTTP metrics
}

// Handlers are the HTTP handlers mounted by NewEngine
type Handlers struct {
	SupplierPrice *handler.SupplierPriceHandler
	Quote         *handler.QuoteHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Health        *handler.HealthHandler
}

// NewEngine builds the gin engine with the middleware chain and all routes.
// Middleware order: request ID, tracing, metrics, logging, recovery,
// security headers, body limit.
func NewEngine(cfg EngineConfig, h Handlers, log *zap.Logger) (*gin.Engine, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Tracing)...)
	httpMetrics, err := middleware.HTTPMetrics(cfg.Metrics)
	if err != nil {
		return nil, err
	}
	if httpMetrics != nil {
		engine.Use(httpMetrics)
	}
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
	}

	r := NewRouter(engine)
	for _, g := range domainGroups(h) {
		r.Register(g)
	}
	r.Setup()

	return engine, nil
}

func domainGroups(h Handlers) []*DomainGroup {
	var groups []*DomainGroup

	if h.SupplierPrice != nil {
		groups = append(groups,
			NewDomainGroup("supplier_prices", "/supplier-prices").
				POST("/batch", h.SupplierPrice.CreateBatch).
				GET("/:id", h.SupplierPrice.GetByID).
				PATCH("/:id/fields/:field", h.SupplierPrice.ChangeField),
			NewDomainGroup("product_suppliers", "/product-suppliers").
				GET("/:id/prices", h.SupplierPrice.ListByProductSupplier),
		)
	}
	if h.Quote != nil {
		groups = append(groups,
			NewDomainGroup("purchase_lines", "/purchase-lines").
				POST("/quote", h.Quote.Quote),
		)
	}
	if h.PurchaseOrder != nil {
		groups = append(groups,
			NewDomainGroup("purchase_orders", "/purchase-orders").
				POST("", h.PurchaseOrder.Create).
				GET("/:id", h.PurchaseOrder.GetByID).
				POST("/:id/lines", h.PurchaseOrder.AddLine).
				PATCH("/:id/lines/:lineId/quantity", h.PurchaseOrder.UpdateLineQuantity).
				DELETE("/:id/lines/:lineId", h.PurchaseOrder.RemoveLine).
				POST("/:id/confirm", h.PurchaseOrder.Confirm).
				POST("/:id/cancel", h.PurchaseOrder.Cancel),
		)
	}
	return groups
}
