package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wareline/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeStockMovementRecorded = "inventory.stock_movement_recorded"
	EventTypeStockBelowThreshold   = "inventory.stock_below_threshold"
)

// StockMovementRecordedEvent is emitted after a ledger row is committed
type StockMovementRecordedEvent struct {
	shared.BaseDomainEvent
	MovementID  int64           `json:"movement_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Movement    MovementType    `json:"movement_type"`
	Change      decimal.Decimal `json:"quantity_change"`
}

// NewStockMovementRecordedEvent creates a movement-recorded event
func NewStockMovementRecordedEvent(movement *StockMovement) *StockMovementRecordedEvent {
	return &StockMovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMovementRecorded, "Product", movement.ProductID, movement.OrgID),
		MovementID:      movement.ID,
		WarehouseID:     movement.WarehouseID,
		ProductID:       movement.ProductID,
		Movement:        movement.Type,
		Change:          movement.QuantityChange,
	}
}

// StockBelowThresholdEvent is emitted when a movement leaves a product's
// total available quantity at or below its low-stock threshold
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Available decimal.Decimal `json:"available"`
	Threshold decimal.Decimal `json:"threshold"`
}

// NewStockBelowThresholdEvent creates a below-threshold event
func NewStockBelowThresholdEvent(orgID, productID uuid.UUID, available, threshold decimal.Decimal) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, "Product", productID, orgID),
		ProductID:       productID,
		Available:       available,
		Threshold:       threshold,
	}
}
