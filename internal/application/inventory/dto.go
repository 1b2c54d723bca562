package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wareline/backend/internal/domain/inventory"
)

// StockRecordResponse represents one (product, warehouse) stock position in API responses
type StockRecordResponse struct {
	ID          uuid.UUID       `json:"id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Available   decimal.Decimal `json:"available"`
	Reserved    decimal.Decimal `json:"reserved"`
	Damaged     decimal.Decimal `json:"damaged"`
	InTransit   decimal.Decimal `json:"in_transit"`
	OnHand      decimal.Decimal `json:"on_hand"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ToStockRecordResponse converts a stock record to its response form
func ToStockRecordResponse(record *inventory.StockRecord) StockRecordResponse {
	return StockRecordResponse{
		ID:          record.ID,
		WarehouseID: record.WarehouseID,
		ProductID:   record.ProductID,
		Available:   record.Available,
		Reserved:    record.Reserved,
		Damaged:     record.Damaged,
		InTransit:   record.InTransit,
		OnHand:      record.OnHand(),
		UpdatedAt:   record.UpdatedAt,
		Version:     record.Version,
	}
}

// ProductStockResponse aggregates a product's buckets across all warehouses
type ProductStockResponse struct {
	ProductID uuid.UUID             `json:"product_id"`
	Available decimal.Decimal       `json:"available"`
	Reserved  decimal.Decimal       `json:"reserved"`
	Damaged   decimal.Decimal       `json:"damaged"`
	InTransit decimal.Decimal       `json:"in_transit"`
	OnHand    decimal.Decimal       `json:"on_hand"`
	Records   []StockRecordResponse `json:"records"`
}

// RecordMovementRequest represents a request to record a manual stock movement
type RecordMovementRequest struct {
	WarehouseID    uuid.UUID       `json:"warehouse_id" binding:"required"`
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	Type           string          `json:"type" binding:"required"`
	QuantityChange decimal.Decimal `json:"quantity_change" binding:"required"`
	UnitCost       *decimal.Decimal `json:"unit_cost"`
	Reason         string          `json:"reason"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// RecountRequest represents a request to set the available bucket to a counted value
type RecountRequest struct {
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	CountedQty  decimal.Decimal `json:"counted_qty"`
	Reason      string          `json:"reason"`
}

// ReservationRequest represents a request to reserve or release stock
type ReservationRequest struct {
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Reference   string          `json:"reference"`
}

// RecountResponse reports the outcome of a physical count. Movement is nil
// and Changed is false when the counted value matched the books, in which
// case no ledger row is written.
type RecountResponse struct {
	Changed  bool                `json:"changed"`
	Record   StockRecordResponse `json:"record"`
	Movement *MovementResponse   `json:"movement,omitempty"`
}

// MovementResponse represents a ledger row in API responses
type MovementResponse struct {
	ID             int64            `json:"id"`
	WarehouseID    uuid.UUID        `json:"warehouse_id"`
	ProductID      uuid.UUID        `json:"product_id"`
	Type           string           `json:"type"`
	QuantityChange decimal.Decimal  `json:"quantity_change"`
	QuantityBefore decimal.Decimal  `json:"quantity_before"`
	QuantityAfter  decimal.Decimal  `json:"quantity_after"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	RefType        *string          `json:"ref_type,omitempty"`
	RefID          *uuid.UUID       `json:"ref_id,omitempty"`
	ActorID        *uuid.UUID       `json:"actor_id,omitempty"`
	OccurredAt     time.Time        `json:"occurred_at"`
}

// ToMovementResponse converts a stock movement to its response form
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	resp := MovementResponse{
		ID:             m.ID,
		WarehouseID:    m.WarehouseID,
		ProductID:      m.ProductID,
		Type:           m.Type.String(),
		QuantityChange: m.QuantityChange,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		UnitCost:       m.UnitCost,
		RefID:          m.RefID,
		ActorID:        m.ActorID,
		OccurredAt:     m.OccurredAt,
	}
	if m.RefType != nil {
		refType := string(*m.RefType)
		resp.RefType = &refType
	}
	return resp
}

// MovementListFilter represents filter options for the movement history
type MovementListFilter struct {
	WarehouseID *uuid.UUID `form:"warehouse_id"`
	ProductID   *uuid.UUID `form:"product_id"`
	Type        string     `form:"type"`
	RefType     string     `form:"ref_type"`
	RefID       *uuid.UUID `form:"ref_id"`
	Since       *time.Time `form:"since"`
	Until       *time.Time `form:"until"`
	AfterID     int64      `form:"after_id"`
	Limit       int        `form:"limit" binding:"omitempty,min=1,max=500"`
}

// ReconciliationResponse reports the outcome of replaying a pair's ledger
// against its stored stock record
type ReconciliationResponse struct {
	WarehouseID       uuid.UUID       `json:"warehouse_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	StoredAvailable   decimal.Decimal `json:"stored_available"`
	StoredReserved    decimal.Decimal `json:"stored_reserved"`
	StoredDamaged     decimal.Decimal `json:"stored_damaged"`
	ReplayedAvailable decimal.Decimal `json:"replayed_available"`
	ReplayedReserved  decimal.Decimal `json:"replayed_reserved"`
	ReplayedDamaged   decimal.Decimal `json:"replayed_damaged"`
	Consistent        bool            `json:"consistent"`
}
