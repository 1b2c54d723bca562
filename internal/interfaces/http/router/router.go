package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wareline/backend/internal/infrastructure/auth"
	"github.com/wareline/backend/internal/infrastructure/config"
	"github.com/wareline/backend/internal/infrastructure/logger"
	"github.com/wareline/backend/internal/interfaces/http/handler"
	"github.com/wareline/backend/internal/interfaces/http/middleware"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	System        *handler.SystemHandler
	Stock         *handler.StockHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Transfer      *handler.TransferHandler
	Product       *handler.ProductHandler
	Warehouse     *handler.WarehouseHandler
	Supplier      *handler.SupplierHandler
	Advisor       *handler.AdvisorHandler
}

// New builds the gin engine with all middleware and routes mounted
func New(cfg *config.Config, log *zap.Logger, verifier *auth.Verifier, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID(log))
	engine.Use(middleware.Tracing(cfg.App.Name, cfg.Telemetry.TracingEnabled))
	engine.Use(middleware.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(cfg.HTTP))
	engine.Use(middleware.Auth(middleware.AuthConfig{
		Verifier:  verifier,
		SkipPaths: []string{"/health", "/ready"},
		Logger:    log,
	}))

	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	v1 := engine.Group("/api/v1")

	stock := v1.Group("/stock")
	{
		stock.POST("/movements", h.Stock.RecordMovement)
		stock.GET("/movements", h.Stock.ListMovements)
		stock.POST("/recounts", h.Stock.Recount)
		stock.POST("/reservations", h.Stock.Reserve)
		stock.POST("/reservations/release", h.Stock.Release)
	}

	warehouses := v1.Group("/warehouses")
	{
		warehouses.POST("", h.Warehouse.Create)
		warehouses.GET("", h.Warehouse.List)
		warehouses.GET("/:id", h.Warehouse.Get)
		warehouses.PUT("/:id", h.Warehouse.Update)
		warehouses.DELETE("/:id", h.Warehouse.Deactivate)
		warehouses.GET("/:id/stock", h.Stock.ListWarehouseStock)
		warehouses.GET("/:id/stock/:product_id", h.Stock.GetPairStock)
		warehouses.GET("/:id/stock/:product_id/reconciliation", h.Stock.Reconcile)
	}

	products := v1.Group("/products")
	{
		products.POST("", h.Product.Create)
		products.GET("", h.Product.List)
		products.GET("/sku/:sku", h.Product.GetBySKU)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Deactivate)
		products.PUT("/:id/thresholds", h.Product.UpdateThresholds)
		products.POST("/:id/components", h.Product.AddComponent)
		products.POST("/:id/suppliers", h.Product.LinkSupplier)
		products.GET("/:id/stock", h.Stock.GetProductStock)
	}

	suppliers := v1.Group("/suppliers")
	{
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("", h.Supplier.List)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", h.Supplier.Deactivate)
	}

	orders := v1.Group("/purchase-orders")
	{
		orders.POST("", h.PurchaseOrder.Create)
		orders.GET("", h.PurchaseOrder.List)
		orders.GET("/:id", h.PurchaseOrder.Get)
		orders.POST("/:id/submit", h.PurchaseOrder.Submit)
		orders.POST("/:id/approve", h.PurchaseOrder.Approve)
		orders.POST("/:id/receive", h.PurchaseOrder.Receive)
		orders.POST("/:id/cancel", h.PurchaseOrder.Cancel)
	}

	transfers := v1.Group("/transfers")
	{
		transfers.POST("", h.Transfer.Create)
		transfers.GET("", h.Transfer.List)
		transfers.GET("/:id", h.Transfer.Get)
		transfers.POST("/:id/ship", h.Transfer.Ship)
		transfers.POST("/:id/receive", h.Transfer.Receive)
		transfers.POST("/:id/resolve-discrepancy", h.Transfer.ResolveDiscrepancy)
		transfers.POST("/:id/cancel", h.Transfer.Cancel)
	}

	v1.GET("/advisor/reorders", h.Advisor.Advise)

	return engine
}
