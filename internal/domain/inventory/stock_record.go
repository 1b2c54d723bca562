package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wareline/backend/internal/domain/shared"
)

// StockRecord holds the current stock buckets for one (product, warehouse)
// pair. It is a materialized view of the movement ledger: every bucket change
// goes through Apply/Reserve/Release so that a matching StockMovement row is
// written in the same transaction, and replaying the ledger from zero
// reproduces the record exactly.
type StockRecord struct {
	shared.OrgAggregateRoot
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_record_pair,priority:2"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_record_pair,priority:3"`
	Available   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Reserved    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Damaged     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	// InTransit counts stock shipped towards this warehouse but not yet
	// received. Informational only: excluded from on-hand and from the
	// ledger reconciliation invariant.
	InTransit decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockRecord) TableName() string {
	return "stock_records"
}

// NewStockRecord creates an all-zero stock record for a warehouse-product pair
func NewStockRecord(orgID, warehouseID, productID uuid.UUID) (*StockRecord, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Warehouse ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product ID cannot be empty")
	}
	return &StockRecord{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		WarehouseID:      warehouseID,
		ProductID:        productID,
		Available:        decimal.Zero,
		Reserved:         decimal.Zero,
		Damaged:          decimal.Zero,
		InTransit:        decimal.Zero,
	}, nil
}

// OnHand returns available + reserved + damaged. In-transit stock is tracked
// separately and excluded.
func (r *StockRecord) OnHand() decimal.Decimal {
	return r.Available.Add(r.Reserved).Add(r.Damaged)
}

// Apply mutates the bucket implied by the movement type by change and returns
// the tracked bucket's value before and after. A bucket is never allowed to
// go negative; violations are rejected, never clamped.
func (r *StockRecord) Apply(movementType MovementType, change decimal.Decimal) (before, after decimal.Decimal, err error) {
	if change.IsZero() {
		return decimal.Zero, decimal.Zero, shared.NewDomainError(shared.CodeValidation, "Quantity change cannot be zero")
	}

	switch movementType.TrackedBucket() {
	case BucketAvailable:
		before = r.Available
		after = before.Add(change)
		if after.IsNegative() {
			if movementType.IsAuthoritative() {
				return before, after, shared.NewDomainError(shared.CodeNegativeQuantity,
					"Adjustment would drive available stock below zero for product "+r.ProductID.String())
			}
			return before, after, shared.NewDomainError(shared.CodeInsufficientStock,
				"Insufficient available stock for product "+r.ProductID.String()+" at warehouse "+r.WarehouseID.String())
		}
		r.Available = after

	case BucketDamaged:
		// Damage reclassifies stock between available and damaged; a
		// positive change moves goods into the damaged bucket.
		before = r.Damaged
		after = before.Add(change)
		if after.IsNegative() {
			return before, after, shared.NewDomainError(shared.CodeNegativeQuantity,
				"Damaged stock cannot go below zero for product "+r.ProductID.String())
		}
		newAvailable := r.Available.Sub(change)
		if newAvailable.IsNegative() {
			return before, after, shared.NewDomainError(shared.CodeInsufficientStock,
				"Insufficient available stock to mark damaged for product "+r.ProductID.String())
		}
		r.Damaged = after
		r.Available = newAvailable

	default:
		return decimal.Zero, decimal.Zero, shared.NewDomainError(shared.CodeValidation,
			"Movement type "+movementType.String()+" cannot be applied directly")
	}

	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return before, after, nil
}

// Reserve moves quantity from available to reserved without changing on-hand.
// Returns the available bucket before and after for the ledger row.
func (r *StockRecord) Reserve(quantity decimal.Decimal) (before, after decimal.Decimal, err error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero, shared.NewDomainError(shared.CodeValidation, "Reserve quantity must be positive")
	}
	before = r.Available
	after = before.Sub(quantity)
	if after.IsNegative() {
		return before, after, shared.NewDomainError(shared.CodeInsufficientStock,
			"Insufficient available stock to reserve for product "+r.ProductID.String())
	}
	r.Available = after
	r.Reserved = r.Reserved.Add(quantity)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return before, after, nil
}

// Release moves quantity from reserved back to available
func (r *StockRecord) Release(quantity decimal.Decimal) (before, after decimal.Decimal, err error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero, shared.NewDomainError(shared.CodeValidation, "Release quantity must be positive")
	}
	if r.Reserved.LessThan(quantity) {
		return r.Available, r.Available, shared.NewDomainError(shared.CodeInsufficientStock,
			"Cannot release more than is reserved for product "+r.ProductID.String())
	}
	before = r.Available
	after = before.Add(quantity)
	r.Available = after
	r.Reserved = r.Reserved.Sub(quantity)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return before, after, nil
}

// AddInTransit increments the informational in-transit counter
func (r *StockRecord) AddInTransit(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidation, "In-transit quantity must be positive")
	}
	r.InTransit = r.InTransit.Add(quantity)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// RemoveInTransit decrements the informational in-transit counter
func (r *StockRecord) RemoveInTransit(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidation, "In-transit quantity must be positive")
	}
	if r.InTransit.LessThan(quantity) {
		return shared.NewDomainError(shared.CodeNegativeQuantity,
			"In-transit stock cannot go below zero for product "+r.ProductID.String())
	}
	r.InTransit = r.InTransit.Sub(quantity)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}
