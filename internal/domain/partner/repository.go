package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/wareline/backend/internal/domain/shared"
)

// WarehouseRepository defines persistence for warehouses
type WarehouseRepository interface {
	// FindByIDForOrg finds a warehouse by ID within an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Warehouse, error)

	// FindByCode finds a warehouse by its code within an organization
	FindByCode(ctx context.Context, orgID uuid.UUID, code string) (*Warehouse, error)

	// FindAllForOrg finds all warehouses for an organization
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Warehouse, error)

	// Save creates or updates a warehouse
	Save(ctx context.Context, warehouse *Warehouse) error
}

// SupplierRepository defines persistence for suppliers
type SupplierRepository interface {
	// FindByIDForOrg finds a supplier by ID within an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Supplier, error)

	// FindByIDs finds suppliers by their IDs within an organization
	FindByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]Supplier, error)

	// FindAllForOrg finds all suppliers for an organization
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]Supplier, error)

	// Save creates or updates a supplier
	Save(ctx context.Context, supplier *Supplier) error
}
