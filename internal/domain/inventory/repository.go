package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wareline/backend/internal/domain/shared"
)

// StockRecordRepository defines persistence for stock records
type StockRecordRepository interface {
	// FindByPair finds the stock record for a warehouse-product pair
	FindByPair(ctx context.Context, orgID, warehouseID, productID uuid.UUID) (*StockRecord, error)

	// FindByProduct finds stock records for a product across all warehouses
	FindByProduct(ctx context.Context, orgID, productID uuid.UUID) ([]StockRecord, error)

	// FindByWarehouse finds stock records in a warehouse
	FindByWarehouse(ctx context.Context, orgID, warehouseID uuid.UUID, filter shared.Filter) ([]StockRecord, error)

	// FindAllForOrg finds all stock records for an organization
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]StockRecord, error)

	// GetOrCreate returns the record for a pair, creating an all-zero row on first touch
	GetOrCreate(ctx context.Context, orgID, warehouseID, productID uuid.UUID) (*StockRecord, error)

	// SaveWithLock saves the record only if its version has not moved since it
	// was read; returns a CONCURRENCY_CONFLICT domain error otherwise
	SaveWithLock(ctx context.Context, record *StockRecord) error

	// SumBucketsByProduct sums the four buckets for a product across warehouses
	SumBucketsByProduct(ctx context.Context, orgID, productID uuid.UUID) (available, reserved, damaged, inTransit decimal.Decimal, err error)
}

// MovementFilter narrows ledger queries; results are always id ascending
type MovementFilter struct {
	WarehouseID *uuid.UUID
	ProductID   *uuid.UUID
	Type        *MovementType
	RefType     *ReferenceType
	RefID       *uuid.UUID
	Since       *time.Time
	Until       *time.Time
	Limit       int
	AfterID     int64
}

// StockMovementRepository defines persistence for the append-only ledger
type StockMovementRepository interface {
	// Create appends a ledger row; rows are never updated or deleted
	Create(ctx context.Context, movement *StockMovement) error

	// ExistsByReference reports whether a movement with the same reference
	// triple already exists for the pair (the idempotency check)
	ExistsByReference(ctx context.Context, orgID uuid.UUID, ref MovementRef, warehouseID, productID uuid.UUID) (bool, error)

	// FindByFilter finds movements matching the filter, ordered by id ascending
	FindByFilter(ctx context.Context, orgID uuid.UUID, filter MovementFilter) ([]StockMovement, error)

	// FindByPair finds all movements for a warehouse-product pair, id ascending
	FindByPair(ctx context.Context, orgID, warehouseID, productID uuid.UUID) ([]StockMovement, error)

	// ConsumptionSince sums the negative available-bucket movement (as a
	// positive number) for a pair since the given time. Used for velocity.
	ConsumptionSince(ctx context.Context, orgID, warehouseID, productID uuid.UUID, since time.Time) (decimal.Decimal, error)
}
