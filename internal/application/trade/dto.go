package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wareline/backend/internal/domain/trade"
)

// OrderItemRequest represents one line of a new purchase order
type OrderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID  uuid.UUID          `json:"supplier_id" binding:"required"`
	WarehouseID uuid.UUID          `json:"warehouse_id" binding:"required"`
	Items       []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ReceiveLineRequest represents one line of a receive call
type ReceiveLineRequest struct {
	ItemID   uuid.UUID       `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// ReceiveOrderRequest represents a request to receive goods against an order
type ReceiveOrderRequest struct {
	Lines          []ReceiveLineRequest `json:"lines" binding:"required,min=1,dive"`
	IdempotencyKey string               `json:"idempotency_key"`
}

// CancelRequest carries the reason for cancelling a document
type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// OrderItemResponse represents a purchase order line in API responses
type OrderItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	QuantityOrdered  decimal.Decimal `json:"quantity_ordered"`
	QuantityReceived decimal.Decimal `json:"quantity_received"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	Number      string              `json:"number"`
	SupplierID  uuid.UUID           `json:"supplier_id"`
	WarehouseID uuid.UUID           `json:"warehouse_id"`
	Status      string              `json:"status"`
	Items       []OrderItemResponse `json:"items"`
	SubmittedAt *time.Time          `json:"submitted_at,omitempty"`
	ApprovedAt  *time.Time          `json:"approved_at,omitempty"`
	ApprovedBy  *uuid.UUID          `json:"approved_by,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	CancelledAt *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ToPurchaseOrderResponse converts a purchase order to its response form
func ToPurchaseOrderResponse(order *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			QuantityOrdered:  item.QuantityOrdered,
			QuantityReceived: item.QuantityReceived,
			UnitCost:         item.UnitCost,
		})
	}
	return PurchaseOrderResponse{
		ID:          order.ID,
		Number:      order.Number,
		SupplierID:  order.SupplierID,
		WarehouseID: order.WarehouseID,
		Status:      order.Status.String(),
		Items:       items,
		SubmittedAt: order.SubmittedAt,
		ApprovedAt:  order.ApprovedAt,
		ApprovedBy:  order.ApprovedBy,
		CompletedAt: order.CompletedAt,
		CancelledAt: order.CancelledAt,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

// TransferItemRequest represents one requested line of a new transfer
type TransferItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateTransferRequest represents a request to create a warehouse transfer
type CreateTransferRequest struct {
	SourceWarehouseID uuid.UUID             `json:"source_warehouse_id" binding:"required"`
	DestWarehouseID   uuid.UUID             `json:"dest_warehouse_id" binding:"required"`
	Items             []TransferItemRequest `json:"items" binding:"required,min=1,dive"`
}

// TransferLineRequest represents one line of a ship or receive call
type TransferLineRequest struct {
	ItemID   uuid.UUID       `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// MoveTransferRequest represents a request to ship or receive transfer lines
type MoveTransferRequest struct {
	Lines          []TransferLineRequest `json:"lines" binding:"required,min=1,dive"`
	IdempotencyKey string                `json:"idempotency_key"`
}

// ResolveDiscrepancyRequest closes out a short transfer
type ResolveDiscrepancyRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// TransferItemResponse represents a transfer line in API responses
type TransferItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	QuantityRequested decimal.Decimal `json:"quantity_requested"`
	QuantityShipped   decimal.Decimal `json:"quantity_shipped"`
	QuantityReceived  decimal.Decimal `json:"quantity_received"`
}

// TransferResponse represents a transfer in API responses
type TransferResponse struct {
	ID                uuid.UUID              `json:"id"`
	Number            string                 `json:"number"`
	SourceWarehouseID uuid.UUID              `json:"source_warehouse_id"`
	DestWarehouseID   uuid.UUID              `json:"dest_warehouse_id"`
	Status            string                 `json:"status"`
	Items             []TransferItemResponse `json:"items"`
	ShippedAt         *time.Time             `json:"shipped_at,omitempty"`
	CompletedAt       *time.Time             `json:"completed_at,omitempty"`
	CancelledAt       *time.Time             `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// ToTransferResponse converts a transfer to its response form
func ToTransferResponse(transfer *trade.Transfer) TransferResponse {
	items := make([]TransferItemResponse, 0, len(transfer.Items))
	for _, item := range transfer.Items {
		items = append(items, TransferItemResponse{
			ID:                item.ID,
			ProductID:         item.ProductID,
			QuantityRequested: item.QuantityRequested,
			QuantityShipped:   item.QuantityShipped,
			QuantityReceived:  item.QuantityReceived,
		})
	}
	return TransferResponse{
		ID:                transfer.ID,
		Number:            transfer.Number,
		SourceWarehouseID: transfer.SourceWarehouseID,
		DestWarehouseID:   transfer.DestWarehouseID,
		Status:            transfer.Status.String(),
		Items:             items,
		ShippedAt:         transfer.ShippedAt,
		CompletedAt:       transfer.CompletedAt,
		CancelledAt:       transfer.CancelledAt,
		CreatedAt:         transfer.CreatedAt,
		UpdatedAt:         transfer.UpdatedAt,
	}
}
