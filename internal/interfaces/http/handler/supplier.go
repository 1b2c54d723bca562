package handler

import (
	"github.com/gin-gonic/gin"

	apppartner "github.com/wareline/backend/internal/application/partner"
)

// SupplierHandler exposes supplier registration and lifecycle
type SupplierHandler struct {
	BaseHandler
	suppliers *apppartner.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(suppliers *apppartner.SupplierService) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers}
}

// Create handles POST /suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}

	var req apppartner.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	supplier, err := h.suppliers.Create(c.Request.Context(), org, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// Get handles GET /suppliers/:id
func (h *SupplierHandler) Get(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	supplierID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	supplier, err := h.suppliers.Get(c.Request.Context(), org, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// List handles GET /suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	listing, err := h.suppliers.List(c.Request.Context(), org, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, listing)
}

// Update handles PUT /suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	supplierID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req apppartner.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	supplier, err := h.suppliers.Update(c.Request.Context(), org, supplierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Deactivate handles DELETE /suppliers/:id
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	supplierID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.suppliers.Deactivate(c.Request.Context(), org, supplierID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
