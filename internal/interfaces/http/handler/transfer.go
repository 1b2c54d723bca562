package handler

import (
	"github.com/gin-gonic/gin"

	apptrade "github.com/wareline/backend/internal/application/trade"
)

// TransferHandler exposes the warehouse transfer lifecycle
type TransferHandler struct {
	BaseHandler
	transfers *apptrade.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transfers *apptrade.TransferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

// Create handles POST /transfers
func (h *TransferHandler) Create(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}

	var req apptrade.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	transfer, err := h.transfers.Create(c.Request.Context(), org, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, transfer)
}

// Get handles GET /transfers/:id
func (h *TransferHandler) Get(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	transferID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	transfer, err := h.transfers.Get(c.Request.Context(), org, transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}

// List handles GET /transfers
func (h *TransferHandler) List(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	transfers, err := h.transfers.List(c.Request.Context(), org, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfers)
}

// Ship handles POST /transfers/:id/ship
func (h *TransferHandler) Ship(c *gin.Context) {
	org, actor, ok := h.identity(c)
	if !ok {
		return
	}
	transferID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req apptrade.MoveTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	transfer, err := h.transfers.Ship(c.Request.Context(), org, actor, transferID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}

// Receive handles POST /transfers/:id/receive
func (h *TransferHandler) Receive(c *gin.Context) {
	org, actor, ok := h.identity(c)
	if !ok {
		return
	}
	transferID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req apptrade.MoveTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	transfer, err := h.transfers.Receive(c.Request.Context(), org, actor, transferID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}

// ResolveDiscrepancy handles POST /transfers/:id/resolve-discrepancy
func (h *TransferHandler) ResolveDiscrepancy(c *gin.Context) {
	org, actor, ok := h.identity(c)
	if !ok {
		return
	}
	transferID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req apptrade.ResolveDiscrepancyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	transfer, err := h.transfers.ResolveDiscrepancy(c.Request.Context(), org, actor, transferID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}

// Cancel handles POST /transfers/:id/cancel
func (h *TransferHandler) Cancel(c *gin.Context) {
	org, _, ok := h.identity(c)
	if !ok {
		return
	}
	transferID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req apptrade.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	transfer, err := h.transfers.Cancel(c.Request.Context(), org, transferID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}
