package handler

import (
	"github.com/gin-gonic/gin"

	appinventory "github.com/wareline/backend/internal/application/inventory"
)

// StockHandler exposes the stock ledger: positions, movements, recounts,
// reservations and reconciliation.
type StockHandler struct {
	BaseHandler
	ledger *appinventory.LedgerService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(ledger *appinventory.LedgerService) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// GetPairStock handles GET /warehouses/:id/stock/:product_id
func (h *StockHandler) GetPairStock(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	warehouseID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	productID, ok := h.pathUUID(c, "product_id")
	if !ok {
		return
	}

	stock, err := h.ledger.GetStock(c.Request.Context(), org, warehouseID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// ListWarehouseStock handles GET /warehouses/:id/stock
func (h *StockHandler) ListWarehouseStock(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	warehouseID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	records, err := h.ledger.ListWarehouseStock(c.Request.Context(), org, warehouseID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// GetProductStock handles GET /products/:id/stock
func (h *StockHandler) GetProductStock(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	productID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	stock, err := h.ledger.GetProductStock(c.Request.Context(), org, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// RecordMovement handles POST /stock/movements
func (h *StockHandler) RecordMovement(c *gin.Context) {
	org, actor, ok := h.identity(c)
	if !ok {
		return
	}

	var req appinventory.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	movement, err := h.ledger.RecordMovement(c.Request.Context(), org, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// Recount handles POST /stock/recounts
func (h *StockHandler) Recount(c *gin.Context) {
	org, actor, ok := h.identity(c)
	if !ok {
		return
	}

	var req appinventory.RecountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.ledger.Recount(c.Request.Context(), org, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !result.Changed {
		h.Success(c, result)
		return
	}
	h.Created(c, result)
}

// ListMovements handles GET /stock/movements
func (h *StockHandler) ListMovements(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}

	var filter appinventory.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	movements, err := h.ledger.ListMovements(c.Request.Context(), org, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

// Reserve handles POST /stock/reservations
func (h *StockHandler) Reserve(c *gin.Context) {
	org, actor, ok := h.identity(c)
	if !ok {
		return
	}

	var req appinventory.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	record, err := h.ledger.Reserve(c.Request.Context(), org, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Release handles POST /stock/reservations/release
func (h *StockHandler) Release(c *gin.Context) {
	org, actor, ok := h.identity(c)
	if !ok {
		return
	}

	var req appinventory.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	record, err := h.ledger.Release(c.Request.Context(), org, actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Reconcile handles GET /warehouses/:id/stock/:product_id/reconciliation
func (h *StockHandler) Reconcile(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	warehouseID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	productID, ok := h.pathUUID(c, "product_id")
	if !ok {
		return
	}

	report, err := h.ledger.Reconcile(c.Request.Context(), org, warehouseID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
