package handler

import (
	"github.com/gin-gonic/gin"

	apppartner "github.com/wareline/backend/internal/application/partner"
)

// WarehouseHandler exposes warehouse registration and lifecycle
type WarehouseHandler struct {
	BaseHandler
	warehouses *apppartner.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouses *apppartner.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouses: warehouses}
}

// Create handles POST /warehouses
func (h *WarehouseHandler) Create(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}

	var req apppartner.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	warehouse, err := h.warehouses.Create(c.Request.Context(), org, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, warehouse)
}

// Get handles GET /warehouses/:id
func (h *WarehouseHandler) Get(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	warehouseID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	warehouse, err := h.warehouses.Get(c.Request.Context(), org, warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// List handles GET /warehouses
func (h *WarehouseHandler) List(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	listing, err := h.warehouses.List(c.Request.Context(), org, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, listing)
}

// Update handles PUT /warehouses/:id
func (h *WarehouseHandler) Update(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	warehouseID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req apppartner.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	warehouse, err := h.warehouses.Update(c.Request.Context(), org, warehouseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// Deactivate handles DELETE /warehouses/:id
func (h *WarehouseHandler) Deactivate(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	warehouseID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.warehouses.Deactivate(c.Request.Context(), org, warehouseID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
