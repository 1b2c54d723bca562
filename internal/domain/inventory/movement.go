package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wareline/backend/internal/domain/shared"
)

// MovementType classifies a stock movement and implies the bucket it tracks
type MovementType string

const (
	MovementTypePurchase      MovementType = "PURCHASE"
	MovementTypeSale          MovementType = "SALE"
	MovementTypeAdjustment    MovementType = "ADJUSTMENT"
	MovementTypeTransferIn    MovementType = "TRANSFER_IN"
	MovementTypeTransferOut   MovementType = "TRANSFER_OUT"
	MovementTypeReturn        MovementType = "RETURN"
	MovementTypeDamage        MovementType = "DAMAGE"
	MovementTypeRecount       MovementType = "RECOUNT"
	MovementTypeManufacturing MovementType = "MANUFACTURING"
	// Reservation movements reclassify stock between available and reserved
	// without changing on-hand. Their quantity change is relative to the
	// available bucket (negative for reserve, positive for release); the
	// reserved bucket moves by the opposite amount.
	MovementTypeReserve MovementType = "RESERVE"
	MovementTypeRelease MovementType = "RELEASE"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypePurchase, MovementTypeSale, MovementTypeAdjustment,
		MovementTypeTransferIn, MovementTypeTransferOut, MovementTypeReturn,
		MovementTypeDamage, MovementTypeRecount, MovementTypeManufacturing,
		MovementTypeReserve, MovementTypeRelease:
		return true
	}
	return false
}

// Bucket identifies one of the stock record's quantity buckets
type Bucket string

const (
	BucketAvailable Bucket = "AVAILABLE"
	BucketReserved  Bucket = "RESERVED"
	BucketDamaged   Bucket = "DAMAGED"
	BucketInTransit Bucket = "IN_TRANSIT"
)

// TrackedBucket returns the bucket whose before/after values a movement of
// this type records. Reservation movements track available; the paired
// reserved delta is implied by the type.
func (t MovementType) TrackedBucket() Bucket {
	if t == MovementTypeDamage {
		return BucketDamaged
	}
	return BucketAvailable
}

// IsAuthoritative returns true for types that may drive a bucket downwards by
// operator decision (the result must still be non-negative)
func (t MovementType) IsAuthoritative() bool {
	return t == MovementTypeAdjustment || t == MovementTypeRecount
}

// IsReservation returns true for reserve/release reclassification movements
func (t MovementType) IsReservation() bool {
	return t == MovementTypeReserve || t == MovementTypeRelease
}

// ReferenceType identifies the document a movement originated from
type ReferenceType string

const (
	ReferencePurchaseOrder ReferenceType = "PURCHASE_ORDER"
	ReferenceTransfer      ReferenceType = "TRANSFER"
	ReferenceManual        ReferenceType = "MANUAL"
)

// IsValid returns true if the reference type is valid
func (r ReferenceType) IsValid() bool {
	switch r {
	case ReferencePurchaseOrder, ReferenceTransfer, ReferenceManual:
		return true
	}
	return false
}

// MovementRef points a movement at its source document. Key is an optional
// idempotency token: two movements with the same (ref type, ref id, key,
// product, warehouse) are considered a replay and the second is rejected.
type MovementRef struct {
	Type ReferenceType
	ID   uuid.UUID
	Key  string
}

// StockMovement is one immutable row of the append-only ledger. The integer
// primary key is assigned by the database in insert order, so ordering by id
// ascending is causal order.
type StockMovement struct {
	ID             int64            `gorm:"primaryKey;autoIncrement"`
	OrgID          uuid.UUID        `gorm:"type:uuid;not null;index:idx_stock_movement_org_time,priority:1;uniqueIndex:idx_stock_movement_ref,priority:1"`
	WarehouseID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_stock_movement_pair,priority:1;uniqueIndex:idx_stock_movement_ref,priority:5"`
	ProductID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_stock_movement_pair,priority:2;uniqueIndex:idx_stock_movement_ref,priority:6"`
	Type           MovementType     `gorm:"type:varchar(20);not null;index"`
	QuantityChange decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	QuantityBefore decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	QuantityAfter  decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	UnitCost       *decimal.Decimal `gorm:"type:decimal(18,4)"`
	// The unique index on (org, ref, warehouse, product) backs the
	// idempotency guarantee; rows without a RefKey never collide because
	// SQL NULLs are distinct.
	RefType *ReferenceType `gorm:"type:varchar(20);uniqueIndex:idx_stock_movement_ref,priority:2"`
	RefID   *uuid.UUID     `gorm:"type:uuid;uniqueIndex:idx_stock_movement_ref,priority:3"`
	RefKey  *string        `gorm:"type:varchar(64);uniqueIndex:idx_stock_movement_ref,priority:4"`

	ActorID    *uuid.UUID `gorm:"type:uuid"`
	OccurredAt time.Time  `gorm:"type:timestamptz;not null;index:idx_stock_movement_org_time,priority:2"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a ledger row. The before/after values must come
// from the StockRecord mutation performed in the same transaction.
func NewStockMovement(
	orgID, warehouseID, productID uuid.UUID,
	movementType MovementType,
	change, before, after decimal.Decimal,
) (*StockMovement, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Organization ID cannot be empty")
	}
	if warehouseID == uuid.Nil || productID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Warehouse and product IDs are required")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Invalid movement type "+string(movementType))
	}
	if change.IsZero() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Quantity change cannot be zero")
	}
	if !before.Add(change).Equal(after) {
		return nil, shared.NewDomainError(shared.CodeValidation, "Quantity after must equal before plus change")
	}

	return &StockMovement{
		OrgID:          orgID,
		WarehouseID:    warehouseID,
		ProductID:      productID,
		Type:           movementType,
		QuantityChange: change,
		QuantityBefore: before,
		QuantityAfter:  after,
		OccurredAt:     time.Now(),
	}, nil
}

// WithUnitCost sets the unit cost recorded at movement time
func (m *StockMovement) WithUnitCost(cost decimal.Decimal) *StockMovement {
	m.UnitCost = &cost
	return m
}

// WithReference attaches the source document reference
func (m *StockMovement) WithReference(ref MovementRef) *StockMovement {
	refType := ref.Type
	refID := ref.ID
	m.RefType = &refType
	m.RefID = &refID
	if ref.Key != "" {
		key := ref.Key
		m.RefKey = &key
	}
	return m
}

// WithActor records the user who caused the movement
func (m *StockMovement) WithActor(actorID uuid.UUID) *StockMovement {
	m.ActorID = &actorID
	return m
}

// Replay folds a slice of movements, ordered by id ascending, into the bucket
// values they produce from an all-zero record. It is the reconciliation law:
// the result must equal the stored StockRecord for the same pair.
func Replay(movements []StockMovement) (available, reserved, damaged decimal.Decimal) {
	available, reserved, damaged = decimal.Zero, decimal.Zero, decimal.Zero
	for _, m := range movements {
		switch {
		case m.Type.IsReservation():
			available = available.Add(m.QuantityChange)
			reserved = reserved.Sub(m.QuantityChange)
		case m.Type == MovementTypeDamage:
			damaged = damaged.Add(m.QuantityChange)
			available = available.Sub(m.QuantityChange)
		default:
			available = available.Add(m.QuantityChange)
		}
	}
	return available, reserved, damaged
}
