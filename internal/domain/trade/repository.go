package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/wareline/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines persistence for purchase orders
type PurchaseOrderRepository interface {
	// FindByIDForOrg finds a purchase order with items by ID within an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*PurchaseOrder, error)

	// FindByNumber finds a purchase order by its document number within an organization
	FindByNumber(ctx context.Context, orgID uuid.UUID, number string) (*PurchaseOrder, error)

	// FindAllForOrg finds all purchase orders for an organization
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByStatus finds purchase orders in a given status
	FindByStatus(ctx context.Context, orgID uuid.UUID, status PurchaseOrderStatus) ([]PurchaseOrder, error)

	// Save creates or updates a purchase order and its items
	Save(ctx context.Context, order *PurchaseOrder) error
}

// TransferRepository defines persistence for warehouse transfers
type TransferRepository interface {
	// FindByIDForOrg finds a transfer with items by ID within an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Transfer, error)

	// FindByNumber finds a transfer by its document number within an organization
	FindByNumber(ctx context.Context, orgID uuid.UUID, number string) (*Transfer, error)

	// FindAllForOrg finds all transfers for an organization
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Transfer, error)

	// FindByStatus finds transfers in a given status
	FindByStatus(ctx context.Context, orgID uuid.UUID, status TransferStatus) ([]Transfer, error)

	// Save creates or updates a transfer and its items
	Save(ctx context.Context, transfer *Transfer) error
}

// DocumentSequence is a per-organization counter backing document numbers.
// Each (org, kind, year) triple advances independently.
type DocumentSequence struct {
	OrgID uuid.UUID `gorm:"type:uuid;primary_key"`
	Kind  string    `gorm:"type:varchar(16);primary_key"`
	Year  int       `gorm:"primary_key"`
	Value int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DocumentSequence) TableName() string {
	return "document_sequences"
}

// Document kinds with their own sequence namespaces
const (
	SequenceKindPurchaseOrder = "PO"
	SequenceKindTransfer      = "TR"
)

// SequenceRepository allocates document numbers. Next must be safe under
// concurrent callers: two calls never return the same value for the same
// (org, kind, year).
type SequenceRepository interface {
	Next(ctx context.Context, orgID uuid.UUID, kind string, year int) (int64, error)
}
